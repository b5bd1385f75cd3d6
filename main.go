package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	configx "github.com/tanpawarit/smartshop-assistant/pkg/config"
	logx "github.com/tanpawarit/smartshop-assistant/pkg/logger"
	_ "github.com/tanpawarit/smartshop-assistant/pkg/logger/autoload"
)

type CLI struct {
	Env string `help:"Path to a .env file with configuration (defaults to ./.env when present)"`

	Serve   ServeCmd   `cmd:"" help:"Serve the assistant over HTTP"`
	Chat    ChatCmd    `cmd:"" help:"Chat with the assistant in the terminal"`
	Catalog CatalogCmd `cmd:"" help:"Inspect the product catalog"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("smartshop"),
		kong.Description("Conversational shopping assistant for an electronics catalog"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configx.UseEnvFile(cli.Env)
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	if err := kctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
