package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
)

var (
	ErrMissingSystem   = errors.New("session must start with a system message")
	ErrUnansweredCall  = errors.New("tool call is not answered")
	ErrUnexpectedReply = errors.New("tool message answers no pending call")
)

// Session is the conversation memory of one user. Messages only grow, except
// through Reset.
type Session struct {
	SessionID string            `json:"session_id"`
	Messages  []*schema.Message `json:"messages"`
	// Cart holds product ids. Tools do not touch it yet.
	Cart []string `json:"cart,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(sessionID, systemPrompt string, now time.Time) *Session {
	return &Session{
		SessionID: sessionID,
		Messages:  []*schema.Message{schema.SystemMessage(systemPrompt)},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Reset drops everything but a fresh system message.
func (s *Session) Reset(systemPrompt string, now time.Time) {
	s.Messages = []*schema.Message{schema.SystemMessage(systemPrompt)}
	s.Cart = nil
	s.Touch(now)
}

// History returns a copy of the message slice; messages themselves are
// treated as immutable once appended.
func (s *Session) History() []*schema.Message {
	if s == nil {
		return nil
	}
	return append([]*schema.Message(nil), s.Messages...)
}

func (s *Session) Append(msgs ...*schema.Message) {
	for _, m := range msgs {
		if m != nil {
			s.Messages = append(s.Messages, m)
		}
	}
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Messages = s.History()
	out.Cart = append([]string(nil), s.Cart...)
	return &out
}

func (s *Session) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	if len(s.Messages) == 0 || s.Messages[0].Role != schema.System {
		return ErrMissingSystem
	}
	return ValidateToolPairing(s.Messages)
}

// ValidateToolPairing checks that every tool call of an assistant message is
// answered by exactly one tool message before the next non-tool message.
func ValidateToolPairing(msgs []*schema.Message) error {
	pending := map[string]bool{}

	flush := func() error {
		for id := range pending {
			return fmt.Errorf("%w: id=%s", ErrUnansweredCall, id)
		}
		return nil
	}

	for _, m := range msgs {
		if m == nil {
			continue
		}
		if m.Role == schema.Tool {
			if !pending[m.ToolCallID] {
				return fmt.Errorf("%w: id=%s", ErrUnexpectedReply, m.ToolCallID)
			}
			delete(pending, m.ToolCallID)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		if m.Role == schema.Assistant {
			for _, call := range m.ToolCalls {
				pending[call.ID] = true
			}
		}
	}
	return flush()
}
