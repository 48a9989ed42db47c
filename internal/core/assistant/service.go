// Package assistant は自然文コマンドの解釈、実行、監査をまとめるユースケースです。
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/audit"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/intent"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/staffing"
)

const (
	defaultAuditLimit = 15
	maxAuditLimit     = 100
	unknownSite       = "unknown"
	rolloverAction    = "rollover"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// UseCase はアシスタントの公開インターフェースです。
type UseCase interface {
	RunCommand(ctx context.Context, in RunCommandInput) (*RunCommandOutput, error)
	InterpretCommand(ctx context.Context, text string) (*Interpretation, error)
	ListAudit(ctx context.Context, site string, limit int) ([]audit.Entry, error)
	Rollover(ctx context.Context, in RolloverInput) (*staffing.RolloverResult, error)
}

// Service は UseCase の実装です。
type Service struct {
	executor    *staffing.Service
	dispatcher  *staffing.Dispatcher
	interpreter Interpreter
	sink        audit.Sink
	reader      audit.Reader
	clock       Clock
	logger      *zap.Logger
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithInterpreter は補助解釈を設定します。
func WithInterpreter(i Interpreter) Option {
	return func(s *Service) { s.interpreter = i }
}

// WithAuditSink は監査記録の書き込み先を設定します。
func WithAuditSink(sink audit.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithAuditReader は監査記録の読み出し元を設定します。
func WithAuditReader(r audit.Reader) Option {
	return func(s *Service) { s.reader = r }
}

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService は Service を生成します。
func NewService(executor *staffing.Service, opts ...Option) *Service {
	s := &Service{
		executor:   executor,
		dispatcher: staffing.NewDispatcher(executor),
		sink:       audit.NopSink{},
		clock:      realClock{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = audit.NopSink{}
	}
	return s
}

// RunCommandInput はコマンド実行の入力です。
type RunCommandInput struct {
	Command       string
	Table         string
	Year          *int
	Site          string
	AllowFallback bool
}

// RunCommandOutput はコマンド実行の結果です。Fallback があるときは何も実行していません。
type RunCommandOutput struct {
	Parsed   *intent.Command
	Result   staffing.Result
	PlanYear *int
	Fallback *Interpretation
}

// RolloverInput は年次繰り越しの入力です。
type RolloverInput struct {
	staffing.RolloverInput
	Site string
}

// RunCommand は文を解釈して実行し、結果を監査に記録します。
// 解釈できなかった文はストレージにも監査にも触れません。
func (s *Service) RunCommand(ctx context.Context, in RunCommandInput) (*RunCommandOutput, error) {
	text := strings.TrimSpace(in.Command)
	cmd, ok := intent.Parse(text)
	if !ok {
		if in.AllowFallback && s.interpreter != nil {
			interpretation, err := s.InterpretCommand(ctx, text)
			if err != nil {
				return nil, err
			}
			s.logger.Info("command not recognized, returning interpretation",
				zap.String("intent", interpretation.Intent),
				zap.Float64("confidence", interpretation.Confidence),
			)
			return &RunCommandOutput{Fallback: interpretation}, nil
		}
		return nil, fmt.Errorf("%q: %w", text, ErrUnrecognizedCommand)
	}

	var planYear *int
	if year, _, err := s.dispatcher.ResolveYear(cmd.Fields, in.Year); err == nil {
		planYear = &year
	}

	result, err := s.dispatcher.Dispatch(ctx, staffing.DispatchInput{
		Table:   in.Table,
		Command: cmd,
		Year:    in.Year,
	})

	s.record(ctx, audit.Entry{
		Site:        in.Site,
		Command:     text,
		Intent:      string(cmd.Intent),
		TargetTable: in.Table,
		PlanYear:    planYear,
	}, result, err)

	if err != nil {
		return nil, err
	}
	return &RunCommandOutput{Parsed: &cmd, Result: result, PlanYear: planYear}, nil
}

// InterpretCommand は補助解釈だけを行います。
func (s *Service) InterpretCommand(ctx context.Context, text string) (*Interpretation, error) {
	if s.interpreter == nil {
		return nil, fmt.Errorf("not configured: %w", ErrInterpreterUnavailable)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty command: %w", ErrUnrecognizedCommand)
	}

	interpretation, err := s.interpreter.Interpret(ctx, text)
	if err != nil {
		s.logger.Warn("interpreter failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInterpreterUnavailable, err)
	}
	return interpretation, nil
}

// ListAudit は拠点の最新の監査記録を返します。limit は 1 から 100 に丸めます。
func (s *Service) ListAudit(ctx context.Context, site string, limit int) ([]audit.Entry, error) {
	if s.reader == nil {
		return nil, fmt.Errorf("no reader configured: %w", ErrAuditUnavailable)
	}
	return s.reader.ListRecent(ctx, normalizeSite(site), clampLimit(limit))
}

// Rollover は年次繰り越しを実行し、監査に記録します。
func (s *Service) Rollover(ctx context.Context, in RolloverInput) (*staffing.RolloverResult, error) {
	result, err := s.executor.Rollover(ctx, in.RolloverInput)

	toYear := in.ToYear
	var recorded staffing.Result
	if result != nil {
		recorded = result
	}
	s.record(ctx, audit.Entry{
		Site:        in.Site,
		Command:     fmt.Sprintf("rollover %d->%d (%s)", in.FromYear, in.ToYear, strings.Join(in.IDs, ",")),
		Intent:      rolloverAction,
		TargetTable: in.Table,
		PlanYear:    &toYear,
	}, recorded, err)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) record(ctx context.Context, base audit.Entry, result staffing.Result, execErr error) {
	base.ID = uuid.New()
	base.CreatedAt = s.clock.Now()
	base.Site = normalizeSite(base.Site)

	fields := []zap.Field{
		zap.String("intent", base.Intent),
		zap.String("table", base.TargetTable),
		zap.String("site", base.Site),
	}
	if base.PlanYear != nil {
		fields = append(fields, zap.Int("plan_year", *base.PlanYear))
	}

	var entry audit.Entry
	if execErr != nil {
		code := ErrorCode(execErr)
		entry = audit.Failed(base, execErr, code)
		s.logger.Warn("command failed", append(fields, zap.String("code", code), zap.Error(execErr))...)
	} else {
		built, err := audit.Succeeded(base, result)
		if err != nil {
			s.logger.Error("encode audit payload", append(fields, zap.Error(err))...)
			return
		}
		entry = built
		s.logger.Info("command executed", fields...)
	}

	if err := s.sink.Record(ctx, entry); err != nil {
		s.logger.Error("record audit entry", append(fields, zap.Error(err))...)
	}
}

func normalizeSite(site string) string {
	site = strings.TrimSpace(site)
	if site == "" {
		return unknownSite
	}
	return site
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultAuditLimit
	case limit > maxAuditLimit:
		return maxAuditLimit
	default:
		return limit
	}
}
