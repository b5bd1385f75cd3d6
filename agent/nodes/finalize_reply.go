package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Result.Reply == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Result.Reply.Content)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: model returned empty message", contractx.ErrValidation)
	}
	return GraphOutput{
		SessionID: in.SessionID,
		Reply:     reply,
		Rounds:    in.Result.Rounds,
		Exhausted: in.Result.Exhausted,
	}, nil
}
