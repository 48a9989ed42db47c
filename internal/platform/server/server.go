package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/ogurasousui/staffing-plan-assistant/internal/adapters/grpc/handler"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/assistant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
func New(listenAddr string, uc assistant.UseCase, logger *zap.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(LoggingInterceptor(logger))}, opts...)
	srv := grpc.NewServer(opts...)

	handler.RegisterAssistantServer(srv, handler.NewAssistantHandler(uc))

	hs := health.NewServer()
	hs.SetServingStatus(handler.AssistantServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     hs,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は与えられた Listener で待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// LoggingInterceptor は各 RPC の結果を zap で記録します。
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("code", status.Code(err).String()),
		}
		if err != nil {
			logger.Warn("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Info("rpc handled", fields...)
		}
		return resp, err
	}
}
