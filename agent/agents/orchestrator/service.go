package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
	nodex "github.com/tanpawarit/smartshop-assistant/agent/nodes"
	statex "github.com/tanpawarit/smartshop-assistant/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

const DefaultTurnTimeout = 2 * time.Minute

type Config struct {
	SystemPrompt string
	TurnTimeout  time.Duration
}

type Orchestrator struct {
	store  statex.Store
	runner nodex.ToolLoop

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	systemPrompt string
	turnTimeout  time.Duration

	locks *sessionLocks
	now   func() time.Time
}

var (
	_ contractx.TurnRunner    = (*Orchestrator)(nil)
	_ contractx.SessionKeeper = (*Orchestrator)(nil)
)

func New(store statex.Store, runner nodex.ToolLoop, cfg Config) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if runner == nil {
		return nil, errors.New("tool loop is required")
	}

	systemPrompt := strings.TrimSpace(cfg.SystemPrompt)
	if systemPrompt == "" {
		return nil, contractx.ErrPromptMissing
	}
	turnTimeout := cfg.TurnTimeout
	if turnTimeout <= 0 {
		turnTimeout = DefaultTurnTimeout
	}

	o := &Orchestrator{
		store:        store,
		runner:       runner,
		systemPrompt: systemPrompt,
		turnTimeout:  turnTimeout,
		locks:        newSessionLocks(),
		now:          time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage runs one turn. Turns of the same session run one at a time;
// different sessions do not wait for each other.
func (o *Orchestrator) HandleMessage(ctx context.Context, req contractx.TurnRequest) (contractx.TurnResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return contractx.TurnResponse{}, ErrInvalidSession
	}

	ctx, cancel := context.WithTimeout(ctx, o.turnTimeout)
	defer cancel()

	unlock, err := o.locks.acquire(ctx, sessionID)
	if err != nil {
		return contractx.TurnResponse{}, err
	}
	defer unlock()

	start := o.now()
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      req.Text,
		Reset:     req.Reset,
	})
	if err != nil {
		log.Debug().Err(err).Str("session_id", sessionID).Msg("turn failed")
		return contractx.TurnResponse{}, err
	}

	log.Debug().
		Str("session_id", sessionID).
		Int("round", out.Rounds).
		Dur("took", o.now().Sub(start)).
		Msg("turn completed")

	return contractx.TurnResponse{
		SessionID: out.SessionID,
		Reply:     out.Reply,
		Rounds:    out.Rounds,
		Exhausted: out.Exhausted,
	}, nil
}

// History returns the stored messages of a session, or nil when it has none.
func (o *Orchestrator) History(ctx context.Context, sessionID string) ([]contractx.HistoryEntry, error) {
	s, err := o.store.Load(ctx, strings.TrimSpace(sessionID))
	if errors.Is(err, statex.ErrStateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]contractx.HistoryEntry, 0, len(s.Messages))
	for _, m := range s.Messages {
		out = append(out, contractx.HistoryEntry{Role: string(m.Role), Content: m.Content})
	}
	return out, nil
}

// Forget drops the stored session. It waits for a running turn of the same
// session to finish first.
func (o *Orchestrator) Forget(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrInvalidSession
	}

	unlock, err := o.locks.acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := o.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	log.Debug().Str("session_id", sessionID).Msg("session forgotten")
	return nil
}

// sessionLocks hands out one lock per session id and forgets it once no turn
// holds or waits for it.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	ch   chan struct{}
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (s *sessionLocks) acquire(ctx context.Context, id string) (func(), error) {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{ch: make(chan struct{}, 1)}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return func() {
			<-l.ch
			s.release(id, l)
		}, nil
	case <-ctx.Done():
		s.release(id, l)
		return nil, ctx.Err()
	}
}

func (s *sessionLocks) release(id string, l *sessionLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, id)
	}
}

func (s *sessionLocks) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
