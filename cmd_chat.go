package main

import (
	"context"
	"os"

	"github.com/google/uuid"

	"github.com/tanpawarit/smartshop-assistant/chat"
	configx "github.com/tanpawarit/smartshop-assistant/pkg/config"
	logx "github.com/tanpawarit/smartshop-assistant/pkg/logger"
)

type ChatCmd struct {
	SessionID string `help:"Session to chat in; a new one is created when empty"`
}

func (c *ChatCmd) Run(ctx context.Context) error {
	logx.InitTo(os.Stderr, *configx.MustNew[logx.Config]("LOG"))

	assistant, err := newAssistant(ctx)
	if err != nil {
		return err
	}

	sessionID := c.SessionID
	if sessionID == "" {
		sessionID = "cli-" + uuid.NewString()
	}

	ch, err := chat.New(assistant, assistant, sessionID, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	return ch.Run(ctx)
}
