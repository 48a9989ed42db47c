package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/ogurasousui/staffing-plan-assistant/internal/adapters/grpc/handler"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/assistant"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/audit"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/staffing"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubUseCase struct{}

func (stubUseCase) RunCommand(context.Context, assistant.RunCommandInput) (*assistant.RunCommandOutput, error) {
	return &assistant.RunCommandOutput{Result: staffing.HelpResult{Help: true}}, nil
}

func (stubUseCase) InterpretCommand(context.Context, string) (*assistant.Interpretation, error) {
	return nil, assistant.ErrInterpreterUnavailable
}

func (stubUseCase) ListAudit(context.Context, string, int) ([]audit.Entry, error) {
	return nil, nil
}

func (stubUseCase) Rollover(context.Context, assistant.RolloverInput) (*staffing.RolloverResult, error) {
	return nil, staffing.ErrInvalidRollover
}

func TestServer_ServeHealthAndAssistant(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	srv := New("", stubUseCase{}, zap.New(core))

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer conn.Close()

	callCtx, callCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer callCancel()

	health, err := healthpb.NewHealthClient(conn).Check(callCtx, &healthpb.HealthCheckRequest{Service: handler.AssistantServiceName})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if health.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", health.GetStatus())
	}

	client := handler.NewAssistantClient(conn)
	resp, err := client.Call(callCtx, "RunCommand", &structpb.Struct{})
	if err != nil {
		t.Fatalf("RunCommand: %v", err)
	}
	if got := resp.GetFields()["kind"].GetStringValue(); got != "help" {
		t.Fatalf("expected kind help, got %q", got)
	}

	_, err = client.Call(callCtx, "InterpretCommand", &structpb.Struct{})
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	var handled, failed int
	for _, entry := range logs.All() {
		switch entry.Message {
		case "rpc handled":
			handled++
		case "rpc failed":
			failed++
		}
	}
	if handled < 2 || failed != 1 {
		t.Fatalf("unexpected log counts handled=%d failed=%d", handled, failed)
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	interceptor := LoggingInterceptor(zap.New(core))
	boom := status.Error(codes.NotFound, "missing")

	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, func(context.Context, any) (any, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected error to pass through, got %v", err)
	}

	entries := logs.FilterMessage("rpc failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one failure log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["code"]; got != "NotFound" {
		t.Fatalf("expected code NotFound, got %v", got)
	}
}
