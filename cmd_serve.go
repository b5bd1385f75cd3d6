package main

import (
	"context"

	configx "github.com/tanpawarit/smartshop-assistant/pkg/config"
	"github.com/tanpawarit/smartshop-assistant/server"
)

type ServeCmd struct {
	Addr string `short:"a" help:"Listen address, overrides HTTP_ADDR"`
}

func (c *ServeCmd) Run(ctx context.Context) error {
	cfg, err := configx.New[server.Config]("HTTP")
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	assistant, err := newAssistant(ctx)
	if err != nil {
		return err
	}

	srv, err := server.New(assistant, *cfg)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
