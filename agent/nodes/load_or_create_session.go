package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
	statex "github.com/tanpawarit/smartshop-assistant/agent/state"
)

// LoadOrCreateSession attaches the caller's session to the graph state. A
// reset request, or a session seen for the first time, starts from the system
// prompt alone. A reset is saved right away so it holds even if the turn
// fails later.
func LoadOrCreateSession(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
	systemPrompt string,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	s, err := store.Load(ctx, in.SessionID)
	switch {
	case err == nil:
		if in.Reset {
			log.Debug().Str("session_id", in.SessionID).Msg("session memory reset")
			s.Reset(systemPrompt, in.Now)
			if err := store.Save(ctx, s); err != nil {
				return nil, fmt.Errorf("save reset session: %w", err)
			}
		}
	case errors.Is(err, statex.ErrStateNotFound):
		log.Debug().Str("session_id", in.SessionID).Msg("new session")
		s = statex.NewSession(in.SessionID, systemPrompt, in.Now)
	default:
		return nil, err
	}

	in.Session = s
	return in, nil
}
