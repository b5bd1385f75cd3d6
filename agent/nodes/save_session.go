package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
	statex "github.com/tanpawarit/smartshop-assistant/agent/state"
)

// SaveSession records the user message and the final reply. Tool traffic of
// the turn is not kept, and a turn without a reply leaves the session as it
// was.
func SaveSession(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if in.Result.Reply == nil || strings.TrimSpace(in.Result.Reply.Content) == "" {
		return nil, fmt.Errorf("%w: model returned empty message", contractx.ErrValidation)
	}

	in.Session.Append(in.User, in.Result.Reply)
	in.Session.Touch(in.Now)
	if err := in.Session.Validate(); err != nil {
		return nil, fmt.Errorf("state validation failed: %w", err)
	}
	if err := store.Save(ctx, in.Session); err != nil {
		return nil, err
	}

	return in, nil
}
