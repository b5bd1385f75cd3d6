package orchestratornode

import (
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	loopx "github.com/tanpawarit/smartshop-assistant/agent/loop"
	statex "github.com/tanpawarit/smartshop-assistant/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
	Reset     bool
}

type GraphOutput struct {
	SessionID string
	Reply     string
	Rounds    int
	Exhausted bool
}

type GraphState struct {
	SessionID string
	Text      string
	Reset     bool
	Now       time.Time

	Session *statex.Session
	User    *schema.Message
	Result  loopx.Result
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Reset:     in.Reset,
		Now:       nowFn().UTC(),
	}, nil
}
