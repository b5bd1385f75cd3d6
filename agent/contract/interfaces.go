package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ToolGateway is what the orchestration loop sees of the tool registry.
// Dispatch never fails: every outcome is text for a tool message.
type ToolGateway interface {
	Infos() []*schema.ToolInfo
	Dispatch(ctx context.Context, name string, arguments string) string
}

// TurnRunner runs one conversation turn. Front ends depend on this only.
type TurnRunner interface {
	HandleMessage(ctx context.Context, req TurnRequest) (TurnResponse, error)
}

// HistoryReader exposes the stored conversation of a session.
type HistoryReader interface {
	History(ctx context.Context, sessionID string) ([]HistoryEntry, error)
}

// SessionKeeper reads and drops stored sessions.
type SessionKeeper interface {
	HistoryReader
	// Forget removes the session. Forgetting an unknown session is not an error.
	Forget(ctx context.Context, sessionID string) error
}
