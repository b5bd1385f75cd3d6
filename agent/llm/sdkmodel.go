package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

var ErrStreamUnsupported = errors.New("sdk chat model does not stream")

type SDKOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// SDKChatModel is a ToolCallingChatModel on top of the openai-go chat
// completions endpoint.
type SDKChatModel struct {
	client *openaisdk.Client
	opts   SDKOptions
	tools  []openaisdk.ChatCompletionToolParam
}

var _ einomodel.ToolCallingChatModel = (*SDKChatModel)(nil)

func NewSDKChatModel(client *openaisdk.Client, opts SDKOptions) *SDKChatModel {
	return &SDKChatModel{client: client, opts: opts}
}

// WithTools returns a copy bound to tools; the receiver is left unchanged.
func (m *SDKChatModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	params := make([]openaisdk.ChatCompletionToolParam, 0, len(tools))
	for _, info := range tools {
		p, err := toolParam(info)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	out := *m
	out.tools = params
	return &out, nil
}

func (m *SDKChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	temp := m.opts.Temperature
	maxTokens := m.opts.MaxTokens
	modelName := m.opts.Model
	common := einomodel.GetCommonOptions(&einomodel.Options{
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		Model:       &modelName,
	}, opts...)

	msgs, err := toSDKMessages(input)
	if err != nil {
		return nil, err
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(*common.Model),
		Messages: msgs,
		Tools:    m.tools,
	}
	if common.Temperature != nil {
		params.Temperature = openaisdk.Float(float64(*common.Temperature))
	}
	if common.MaxTokens != nil && *common.MaxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(*common.MaxTokens))
	}

	completion, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	choice := completion.Choices[0]
	out := &schema.Message{
		Role:    schema.Assistant,
		Content: choice.Message.Content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: string(choice.FinishReason),
			Usage: &schema.TokenUsage{
				PromptTokens:     int(completion.Usage.PromptTokens),
				CompletionTokens: int(completion.Usage.CompletionTokens),
				TotalTokens:      int(completion.Usage.TotalTokens),
			},
		},
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return out, nil
}

func (m *SDKChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, ErrStreamUnsupported
}

func toSDKMessages(input []*schema.Message) ([]openaisdk.ChatCompletionMessageParamUnion, error) {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(input))
	for i, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			out = append(out, openaisdk.SystemMessage(msg.Content))
		case schema.User:
			out = append(out, openaisdk.UserMessage(msg.Content))
		case schema.Tool:
			out = append(out, openaisdk.ToolMessage(msg.Content, msg.ToolCallID))
		case schema.Assistant:
			if len(msg.ToolCalls) == 0 {
				out = append(out, openaisdk.AssistantMessage(msg.Content))
				continue
			}
			asst := &openaisdk.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				asst.Content.OfString = openaisdk.String(msg.Content)
			}
			for _, tc := range msg.ToolCalls {
				asst.ToolCalls = append(asst.ToolCalls, openaisdk.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openaisdk.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Function.Name,
						Arguments: tc.Function.Arguments,
					},
				})
			}
			out = append(out, openaisdk.ChatCompletionMessageParamUnion{OfAssistant: asst})
		default:
			return nil, fmt.Errorf("message %d: unsupported role %q", i, msg.Role)
		}
	}
	return out, nil
}

func toolParam(info *schema.ToolInfo) (openaisdk.ChatCompletionToolParam, error) {
	if info == nil {
		return openaisdk.ChatCompletionToolParam{}, errors.New("tool info is nil")
	}

	params := shared.FunctionParameters{"type": "object", "properties": map[string]any{}}
	if info.ParamsOneOf != nil {
		s, err := info.ParamsOneOf.ToOpenAPIV3()
		if err != nil {
			return openaisdk.ChatCompletionToolParam{}, fmt.Errorf("tool %s: params schema: %w", info.Name, err)
		}
		if s != nil {
			raw, err := json.Marshal(s)
			if err != nil {
				return openaisdk.ChatCompletionToolParam{}, fmt.Errorf("tool %s: marshal schema: %w", info.Name, err)
			}
			params = shared.FunctionParameters{}
			if err := json.Unmarshal(raw, &params); err != nil {
				return openaisdk.ChatCompletionToolParam{}, fmt.Errorf("tool %s: decode schema: %w", info.Name, err)
			}
		}
	}

	return openaisdk.ChatCompletionToolParam{
		Function: shared.FunctionDefinitionParam{
			Name:        info.Name,
			Description: openaisdk.String(info.Desc),
			Parameters:  params,
		},
	}, nil
}
