package orchestratornode

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
	loopx "github.com/tanpawarit/smartshop-assistant/agent/loop"
)

type ToolLoop interface {
	Run(ctx context.Context, history []*schema.Message) (loopx.Result, error)
}

func RunToolLoop(ctx context.Context, in *GraphState, runner ToolLoop) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.User = schema.UserMessage(in.Text)
	history := append(in.Session.History(), in.User)

	res, err := runner.Run(ctx, history)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("session_id", in.SessionID).
		Int("round", res.Rounds).
		Bool("exhausted", res.Exhausted).
		Msg("tool loop finished")

	in.Result = res
	return in, nil
}
