// Package app は設定からアシスタントの依存関係を組み立てます。
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ogurasousui/staffing-plan-assistant/internal/adapters/llm/gemini"
	"github.com/ogurasousui/staffing-plan-assistant/internal/adapters/messaging/amqp"
	"github.com/ogurasousui/staffing-plan-assistant/internal/adapters/repository/postgres"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/assistant"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/audit"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/staffing"
	"github.com/ogurasousui/staffing-plan-assistant/internal/platform/config"
	pg "github.com/ogurasousui/staffing-plan-assistant/internal/platform/db/postgres"
)

// App は組み立て済みのユースケースと後始末です。
type App struct {
	Assistant *assistant.Service
	closers   []func()
}

// Close は開いた資源を逆順に閉じます。
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Build はデータベース接続、監査の出力先、補助解釈を設定どおりに用意します。
// AMQP と Gemini は設定されている場合だけ接続します。
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{}

	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database pool: %w", err)
	}
	a.closers = append(a.closers, pool.Close)

	sinks, reader, err := a.auditSinks(pool, cfg.Audit, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []assistant.Option{
		assistant.WithLogger(logger),
		assistant.WithAuditSink(audit.NewMultiSink(sinks...)),
	}
	if reader != nil {
		opts = append(opts, assistant.WithAuditReader(reader))
	}

	if cfg.LLM.Enabled {
		interp, err := gemini.New(ctx, gemini.Config{
			APIKey:      cfg.LLM.APIKey(),
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("initialize interpreter: %w", err)
		}
		opts = append(opts, assistant.WithInterpreter(interp))
		logger.Info("fallback interpreter enabled", zap.String("model", cfg.LLM.Model))
	}

	executor := staffing.NewService(
		postgres.NewStaffingRepository(pool),
		nil,
		pg.NewTransactionManager(pool),
		staffing.NewPlanYears(cfg.Planning.FirstYear, cfg.Planning.YearCount),
	)
	a.Assistant = assistant.NewService(executor, opts...)
	return a, nil
}

func (a *App) auditSinks(pool *pgxpool.Pool, cfg config.AuditConfig, logger *zap.Logger) ([]audit.Sink, audit.Reader, error) {
	var (
		sinks  []audit.Sink
		reader audit.Reader
	)

	if cfg.Database {
		repo := postgres.NewAuditRepository(pool)
		sinks = append(sinks, repo)
		reader = repo
	}

	if cfg.AMQPURL != "" {
		publisher, err := amqp.Dial(amqp.Options{
			URL:      cfg.AMQPURL,
			Exchange: cfg.Exchange,
			Queue:    cfg.Queue,
			Logger:   logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("initialize audit publisher: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("close audit publisher", zap.Error(err))
			}
		})
		sinks = append(sinks, publisher)
		logger.Info("audit publisher connected", zap.String("exchange", cfg.Exchange))
	}

	return sinks, reader, nil
}
