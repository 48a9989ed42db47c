package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ogurasousui/staffing-plan-assistant/internal/platform/app"
	"github.com/ogurasousui/staffing-plan-assistant/internal/platform/config"
	"github.com/ogurasousui/staffing-plan-assistant/internal/platform/logging"
	"github.com/ogurasousui/staffing-plan-assistant/internal/platform/server"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	application, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	grpcServer := server.New(cfg.Server.ListenAddr, application.Assistant, logger)

	logger.Info("gRPC server listening", zap.String("addr", cfg.Server.ListenAddr))

	if err := grpcServer.Run(ctx); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
