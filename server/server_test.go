package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
)

type fakeRunner struct {
	mu    sync.Mutex
	reply string
	err   error
	panic any
	reqs  []contractx.TurnRequest
}

func (f *fakeRunner) HandleMessage(ctx context.Context, req contractx.TurnRequest) (contractx.TurnResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.panic != nil {
		panic(f.panic)
	}
	if f.err != nil {
		return contractx.TurnResponse{}, f.err
	}
	return contractx.TurnResponse{SessionID: req.SessionID, Reply: f.reply, Rounds: 1}, nil
}

func newTestServer(t *testing.T, runner *fakeRunner) *Server {
	t.Helper()
	s, err := New(runner, Config{})
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, target string, header http.Header) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func TestWelcome(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeRunner{})

	code, body := do(t, s, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, WelcomeMessage, body["message"])
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeRunner{})

	code, body := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestQuerySuccess(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{reply: "Here are the best matches I found:"}
	s := newTestServer(t, runner)

	code, body := do(t, s, http.MethodPost, "/query?user_query=show+me+smartphones+under+%24500&reset_memory=true&session_id=abc", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "show me smartphones under $500", body["query"])
	assert.Equal(t, "Here are the best matches I found:", body["response"])
	assert.Equal(t, "abc", body["session_id"])

	require.Len(t, runner.reqs, 1)
	assert.Equal(t, contractx.TurnRequest{SessionID: "abc", Text: "show me smartphones under $500", Reset: true}, runner.reqs[0])
}

func TestQuerySessionSources(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{reply: "ok"}
	s := newTestServer(t, runner)

	do(t, s, http.MethodPost, "/query?user_query=hi", http.Header{"X-Session-Id": []string{"from-header"}})
	do(t, s, http.MethodPost, "/query?user_query=hi", nil)

	require.Len(t, runner.reqs, 2)
	assert.Equal(t, "from-header", runner.reqs[0].SessionID)
	assert.Equal(t, "default", runner.reqs[1].SessionID)
	assert.False(t, runner.reqs[1].Reset)
}

func TestQueryErrorsAreReportedInBody(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		target string
		err    error
		want   string
	}{
		"missing query": {target: "/query", want: "user_query is required"},
		"bad reset":     {target: "/query?user_query=hi&reset_memory=maybe", want: "reset_memory must be a boolean"},
		"runner error": {
			target: "/query?user_query=hi",
			err:    errors.New("model invoke failed: provider down"),
			want:   "model invoke failed: provider down",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, &fakeRunner{err: tc.err})

			code, body := do(t, s, http.MethodPost, tc.target, nil)
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, tc.want, body["error"])
		})
	}
}

func TestQueryPanicIsReportedInBody(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeRunner{panic: "nil map write"})

	code, body := do(t, s, http.MethodPost, "/query?user_query=hi", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "internal server error", body["error"])

	code, body = do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestNewRequiresRunner(t *testing.T) {
	t.Parallel()

	_, err := New(nil, Config{})
	assert.Error(t, err)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	s, err := New(&fakeRunner{}, Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
