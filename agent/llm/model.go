package llm

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
	openrouterx "github.com/tanpawarit/smartshop-assistant/pkg/openrouter"
)

// NewChatModel builds the tool-calling chat model selected by cfg.Driver.
func NewChatModel(ctx context.Context, cfg Config) (einomodel.ToolCallingChatModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	orCfg := cfg.OpenRouter()
	log.Info().Str("driver", cfg.driver()).Str("model", orCfg.Model).Msg("building chat model")

	switch cfg.driver() {
	case DriverSDK:
		client := openrouterx.NewClient(orCfg)
		if client == nil {
			return nil, fmt.Errorf("%w: openrouter client unavailable", contractx.ErrModelInvoke)
		}
		return NewSDKChatModel(client, SDKOptions{
			Model:       orCfg.Model,
			Temperature: orCfg.Temperature,
			MaxTokens:   cfg.MaxCompletionToken,
		}), nil
	default:
		m, err := orCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
		}
		return m, nil
	}
}
