package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ogurasousui/staffing-plan-assistant/internal/cli"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/assistant"
	"github.com/ogurasousui/staffing-plan-assistant/internal/platform/app"
	"github.com/ogurasousui/staffing-plan-assistant/internal/platform/config"
	"github.com/ogurasousui/staffing-plan-assistant/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(&cli.App{Open: open, Out: os.Stdout})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func open(ctx context.Context, configPath string) (assistant.UseCase, func(), error) {
	if configPath == "" {
		configPath = config.PathFromEnv()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}

	application, err := app.Build(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return application.Assistant, func() {
		application.Close()
		_ = logger.Sync()
	}, nil
}
