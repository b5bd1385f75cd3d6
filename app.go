package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	orchestratorx "github.com/tanpawarit/smartshop-assistant/agent/agents/orchestrator"
	catalogx "github.com/tanpawarit/smartshop-assistant/agent/catalog"
	llmx "github.com/tanpawarit/smartshop-assistant/agent/llm"
	loopx "github.com/tanpawarit/smartshop-assistant/agent/loop"
	promptx "github.com/tanpawarit/smartshop-assistant/agent/prompt"
	statex "github.com/tanpawarit/smartshop-assistant/agent/state"
	toolx "github.com/tanpawarit/smartshop-assistant/agent/tool"
	configx "github.com/tanpawarit/smartshop-assistant/pkg/config"
)

type AssistantConfig struct {
	SystemPrompt string        `split_words:"true"`
	TurnTimeout  time.Duration `split_words:"true" default:"2m"`
}

func loadCatalog(ctx context.Context) (*catalogx.Store, error) {
	cfg, err := configx.New[catalogx.Config]("CATALOG")
	if err != nil {
		return nil, err
	}
	return catalogx.Load(ctx, *cfg, afero.NewOsFs())
}

// newAssistant wires catalog, tools, model, loop and orchestrator.
func newAssistant(ctx context.Context) (*orchestratorx.Orchestrator, error) {
	store, err := loadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	registry, err := toolx.NewCatalogRegistry(store)
	if err != nil {
		return nil, err
	}
	log.Debug().Strs("tools", registry.Names()).Msg("tools registered")

	llmCfg, err := configx.New[llmx.Config]("OPENROUTER")
	if err != nil {
		return nil, err
	}
	chatModel, err := llmx.NewChatModel(ctx, *llmCfg)
	if err != nil {
		return nil, err
	}

	loopCfg, err := configx.New[loopx.Config]("ASSISTANT")
	if err != nil {
		return nil, err
	}
	runner, err := loopx.New(chatModel, registry, *loopCfg)
	if err != nil {
		return nil, err
	}

	assistantCfg, err := configx.New[AssistantConfig]("ASSISTANT")
	if err != nil {
		return nil, err
	}
	systemPrompt, err := promptx.SystemPrompt(assistantCfg.SystemPrompt)
	if err != nil {
		return nil, err
	}

	return orchestratorx.New(statex.NewMemoryStore(), runner, orchestratorx.Config{
		SystemPrompt: systemPrompt,
		TurnTimeout:  assistantCfg.TurnTimeout,
	})
}
