// Package loop drives one conversation turn: it alternates model calls and
// tool dispatch until the model answers without requesting tools.
//
//	ModelTurn --(no tool calls)--> Done
//	ModelTurn --(tool calls)-----> ToolDispatch --> ModelTurn
//
// A turn may dispatch at most MaxToolRounds times. A model that still asks for
// tools after that ends the turn with the fallback message.
package loop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
)

const (
	DefaultMaxRounds       = 8
	DefaultFallbackMessage = "Sorry, I was unable to complete that request. Please try rephrasing it."
)

type State int

const (
	StateModelTurn State = iota
	StateToolDispatch
	StateDone
)

func (s State) String() string {
	switch s {
	case StateModelTurn:
		return "model_turn"
	case StateToolDispatch:
		return "tool_dispatch"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Config struct {
	MaxToolRounds   int    `split_words:"true" default:"8"`
	FallbackMessage string `split_words:"true"`
}

type Runner struct {
	model     einomodel.BaseChatModel
	tools     contractx.ToolGateway
	maxRounds int
	fallback  string

	newCallID func() string
}

// New binds the gateway's tool schemas to chatModel.
func New(chatModel einomodel.ToolCallingChatModel, tools contractx.ToolGateway, cfg Config) (*Runner, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	bound, err := chatModel.WithTools(tools.Infos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}

	maxRounds := cfg.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	fallback := strings.TrimSpace(cfg.FallbackMessage)
	if fallback == "" {
		fallback = DefaultFallbackMessage
	}

	return &Runner{
		model:     bound,
		tools:     tools,
		maxRounds: maxRounds,
		fallback:  fallback,
		newCallID: func() string { return "call_" + uuid.NewString() },
	}, nil
}

type Result struct {
	// Reply is the final assistant message; it never carries tool calls.
	Reply *schema.Message
	// Transcript is the input history followed by everything this turn added.
	Transcript []*schema.Message
	Rounds     int
	Exhausted  bool
}

// Run executes the turn on top of history, which must already end with the
// user's message. history is not modified.
func (r *Runner) Run(ctx context.Context, history []*schema.Message) (Result, error) {
	transcript := append(make([]*schema.Message, 0, len(history)+4), history...)

	var (
		state   = StateModelTurn
		pending []pendingCall
		res     Result
	)

	for state != StateDone {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		switch state {
		case StateModelTurn:
			msg, err := r.model.Generate(ctx, transcript)
			if err != nil {
				return Result{}, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
			}
			if msg == nil {
				return Result{}, fmt.Errorf("%w: model returned no message", contractx.ErrSchemaViolation)
			}
			msg.Role = schema.Assistant

			if len(msg.ToolCalls) == 0 {
				transcript = append(transcript, msg)
				res.Reply = msg
				state = StateDone
				break
			}

			if res.Rounds >= r.maxRounds {
				log.Warn().Int("rounds", res.Rounds).Int("requested", len(msg.ToolCalls)).
					Msg("tool round limit reached, ending turn")
				res.Reply = schema.AssistantMessage(r.fallback, nil)
				res.Exhausted = true
				transcript = append(transcript, res.Reply)
				state = StateDone
				break
			}

			pending = r.assignCallIDs(msg)
			transcript = append(transcript, msg)
			state = StateToolDispatch

		case StateToolDispatch:
			res.Rounds++
			log.Debug().Int("round", res.Rounds).Int("calls", len(pending)).Msg("dispatching tool calls")

			// A call repeated inside one message (same provider id, tool and
			// arguments) runs once. Later rounds always run again: providers
			// that number ids per message reuse them.
			answered := make(map[string]string, len(pending))
			for _, p := range pending {
				out, seen := answered[p.key]
				if !seen || p.key == "" {
					out = r.tools.Dispatch(ctx, p.call.Function.Name, p.call.Function.Arguments)
					if p.key != "" {
						answered[p.key] = out
					}
				}
				transcript = append(transcript, schema.ToolMessage(out, p.call.ID))
			}
			pending = nil
			state = StateModelTurn
		}
	}

	res.Transcript = transcript
	return res, nil
}

type pendingCall struct {
	call schema.ToolCall
	key  string
}

// assignCallIDs gives every call a correlation id the turn can pair results
// with. Providers occasionally omit ids or repeat one inside a message; both
// get a fresh id. The returned keys are built from the provider's own id and
// are empty when it gave none.
func (r *Runner) assignCallIDs(msg *schema.Message) []pendingCall {
	seen := make(map[string]bool, len(msg.ToolCalls))
	calls := make([]schema.ToolCall, len(msg.ToolCalls))
	out := make([]pendingCall, len(msg.ToolCalls))
	for i, call := range msg.ToolCalls {
		call.ID = strings.TrimSpace(call.ID)
		key := ""
		if call.ID != "" {
			key = call.ID + "\x00" + call.Function.Name + "\x00" + strings.TrimSpace(call.Function.Arguments)
		}
		if call.ID == "" || seen[call.ID] {
			call.ID = r.newCallID()
		}
		seen[call.ID] = true
		if call.Type == "" {
			call.Type = "function"
		}
		calls[i] = call
		out[i] = pendingCall{call: call, key: key}
	}
	msg.ToolCalls = calls
	return out
}
