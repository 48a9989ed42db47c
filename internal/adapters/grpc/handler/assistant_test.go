package handler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/assistant"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/audit"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/calendar"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/identifier"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/intent"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/staffing"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubAssistantUseCase struct {
	runInput assistant.RunCommandInput
	runOut   *assistant.RunCommandOutput
	runErr   error

	interpretText string
	interpretOut  *assistant.Interpretation
	interpretErr  error

	auditSite  string
	auditLimit int
	auditOut   []audit.Entry
	auditErr   error

	rolloverInput assistant.RolloverInput
	rolloverOut   *staffing.RolloverResult
	rolloverErr   error
}

func (s *stubAssistantUseCase) RunCommand(ctx context.Context, in assistant.RunCommandInput) (*assistant.RunCommandOutput, error) {
	s.runInput = in
	return s.runOut, s.runErr
}

func (s *stubAssistantUseCase) InterpretCommand(ctx context.Context, text string) (*assistant.Interpretation, error) {
	s.interpretText = text
	return s.interpretOut, s.interpretErr
}

func (s *stubAssistantUseCase) ListAudit(ctx context.Context, site string, limit int) ([]audit.Entry, error) {
	s.auditSite = site
	s.auditLimit = limit
	return s.auditOut, s.auditErr
}

func (s *stubAssistantUseCase) Rollover(ctx context.Context, in assistant.RolloverInput) (*staffing.RolloverResult, error) {
	s.rolloverInput = in
	return s.rolloverOut, s.rolloverErr
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	return s
}

func TestAssistantHandler_RunCommand(t *testing.T) {
	t.Parallel()

	year := 2026
	parsed := intent.Command{Intent: intent.CheckEmployeeExists, Fields: intent.Fields{intent.FieldName: "Anna Müller"}}
	stub := &stubAssistantUseCase{runOut: &assistant.RunCommandOutput{
		Parsed:   &parsed,
		Result:   staffing.ExistenceResult{Name: "Anna Müller", Exists: true, Matches: []staffing.Record{{ID: "1", Name: "Anna Müller", Year: 2026}}},
		PlanYear: &year,
	}}
	h := NewAssistantHandler(stub)

	resp, err := h.RunCommand(context.Background(), mustStruct(t, map[string]any{
		"command":        "Gibt es Anna Müller?",
		"table":          "stellenplan_berlin",
		"year":           2026,
		"site":           "berlin",
		"allow_fallback": true,
	}))
	if err != nil {
		t.Fatalf("RunCommand returned error: %v", err)
	}

	if stub.runInput.Command != "Gibt es Anna Müller?" || stub.runInput.Table != "stellenplan_berlin" || stub.runInput.Site != "berlin" {
		t.Errorf("unexpected input: %+v", stub.runInput)
	}
	if stub.runInput.Year == nil || *stub.runInput.Year != 2026 {
		t.Errorf("expected year 2026, got %v", stub.runInput.Year)
	}
	if !stub.runInput.AllowFallback {
		t.Errorf("expected allow_fallback to pass through")
	}

	fields := resp.GetFields()
	if got := fields["kind"].GetStringValue(); got != "existence" {
		t.Errorf("expected kind existence, got %q", got)
	}
	if got := fields["plan_year"].GetNumberValue(); got != 2026 {
		t.Errorf("expected plan_year 2026, got %v", got)
	}
	if !fields["result"].GetStructValue().GetFields()["exists"].GetBoolValue() {
		t.Errorf("expected exists=true in result")
	}
	if got := fields["parsed"].GetStructValue().GetFields()["intent"].GetStringValue(); got != string(intent.CheckEmployeeExists) {
		t.Errorf("unexpected parsed intent %q", got)
	}
	if _, ok := fields["fallback"]; ok {
		t.Errorf("fallback must be omitted")
	}
}

func TestAssistantHandler_RunCommand_Fallback(t *testing.T) {
	t.Parallel()

	stub := &stubAssistantUseCase{runOut: &assistant.RunCommandOutput{
		Fallback: &assistant.Interpretation{Intent: "help", Confidence: 0.4},
	}}
	h := NewAssistantHandler(stub)

	resp, err := h.RunCommand(context.Background(), mustStruct(t, map[string]any{"command": "was kann ich tun"}))
	if err != nil {
		t.Fatalf("RunCommand returned error: %v", err)
	}
	if stub.runInput.Year != nil {
		t.Errorf("expected no year, got %v", *stub.runInput.Year)
	}
	fields := resp.GetFields()
	if _, ok := fields["result"]; ok {
		t.Errorf("result must be omitted when only a fallback is returned")
	}
	if got := fields["fallback"].GetStructValue().GetFields()["intent"].GetStringValue(); got != "help" {
		t.Errorf("unexpected fallback intent %q", got)
	}
}

func TestAssistantHandler_RunCommand_InvalidYear(t *testing.T) {
	t.Parallel()

	h := NewAssistantHandler(&stubAssistantUseCase{})

	for _, year := range []any{2026.5, "2026"} {
		_, err := h.RunCommand(context.Background(), mustStruct(t, map[string]any{"command": "Hilfe", "year": year}))
		if status.Code(err) != codes.InvalidArgument {
			t.Fatalf("year %v: expected InvalidArgument, got %v", year, status.Code(err))
		}
	}
}

func TestAssistantHandler_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want codes.Code
	}{
		{err: fmt.Errorf("x: %w", assistant.ErrUnrecognizedCommand), want: codes.InvalidArgument},
		{err: identifier.ErrInvalidIdentifier, want: codes.InvalidArgument},
		{err: calendar.ErrUnknownMonth, want: codes.InvalidArgument},
		{err: staffing.ErrInvalidPlanYear, want: codes.InvalidArgument},
		{err: staffing.ErrMalformedNumeral, want: codes.InvalidArgument},
		{err: staffing.ErrUnsupportedCrossYearRange, want: codes.InvalidArgument},
		{err: staffing.ErrInvalidRollover, want: codes.InvalidArgument},
		{err: staffing.ErrMissingEmployeeName, want: codes.FailedPrecondition},
		{err: staffing.ErrRecordNotFound, want: codes.NotFound},
		{err: staffing.ErrTableNotFound, want: codes.NotFound},
		{err: assistant.ErrInterpreterUnavailable, want: codes.Unavailable},
		{err: assistant.ErrAuditUnavailable, want: codes.Unavailable},
		{err: errors.New("boom"), want: codes.Internal},
	}

	for _, tt := range tests {
		stub := &stubAssistantUseCase{runErr: tt.err}
		h := NewAssistantHandler(stub)
		_, err := h.RunCommand(context.Background(), mustStruct(t, map[string]any{"command": "x"}))
		if status.Code(err) != tt.want {
			t.Errorf("%v: expected %v, got %v", tt.err, tt.want, status.Code(err))
		}
	}
}

func TestAssistantHandler_ErrorMessageCarriesCode(t *testing.T) {
	t.Parallel()

	h := NewAssistantHandler(&stubAssistantUseCase{runErr: staffing.ErrRecordNotFound})
	_, err := h.RunCommand(context.Background(), mustStruct(t, map[string]any{"command": "x"}))
	st, _ := status.FromError(err)
	if want := "RECORD_NOT_FOUND: " + staffing.ErrRecordNotFound.Error(); st.Message() != want {
		t.Fatalf("expected message %q, got %q", want, st.Message())
	}
}

func TestAssistantHandler_InterpretCommand(t *testing.T) {
	t.Parallel()

	name := "Jonas Weber"
	stub := &stubAssistantUseCase{interpretOut: &assistant.Interpretation{
		Intent: "get_employee_unit",
		Fields: assistant.InterpretedFields{EmployeeName: &name},
	}}
	h := NewAssistantHandler(stub)

	resp, err := h.InterpretCommand(context.Background(), mustStruct(t, map[string]any{"command": "wo arbeitet Jonas"}))
	if err != nil {
		t.Fatalf("InterpretCommand returned error: %v", err)
	}
	if stub.interpretText != "wo arbeitet Jonas" {
		t.Errorf("unexpected text %q", stub.interpretText)
	}
	cmd := resp.GetFields()["command"].GetStructValue().GetFields()
	if got := cmd["intent"].GetStringValue(); got != string(intent.EmployeeStation) {
		t.Errorf("expected mapped intent, got %q", got)
	}
}

func TestAssistantHandler_ListAudit(t *testing.T) {
	t.Parallel()

	stub := &stubAssistantUseCase{auditOut: []audit.Entry{{
		ID:        uuid.MustParse("0b0e8a52-6f8f-4d59-9c0f-52a4c5b2f0a1"),
		CreatedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
		Site:      "berlin",
		Intent:    "help",
		Status:    audit.StatusOK,
		Result:    []byte(`{"help":"..."}`),
	}}}
	h := NewAssistantHandler(stub)

	resp, err := h.ListAudit(context.Background(), mustStruct(t, map[string]any{"site": "berlin", "limit": 5}))
	if err != nil {
		t.Fatalf("ListAudit returned error: %v", err)
	}
	if stub.auditSite != "berlin" || stub.auditLimit != 5 {
		t.Errorf("unexpected args %q %d", stub.auditSite, stub.auditLimit)
	}
	entries := resp.GetFields()["entries"].GetListValue().GetValues()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].GetStructValue().GetFields()["action"].GetStringValue(); got != "help" {
		t.Errorf("unexpected action %q", got)
	}

	empty := &stubAssistantUseCase{}
	resp, err = NewAssistantHandler(empty).ListAudit(context.Background(), mustStruct(t, map[string]any{}))
	if err != nil {
		t.Fatalf("ListAudit returned error: %v", err)
	}
	if empty.auditLimit != 0 {
		t.Errorf("expected limit 0 to be passed for defaulting, got %d", empty.auditLimit)
	}
	if resp.GetFields()["entries"].GetListValue() == nil {
		t.Errorf("expected empty list, got %v", resp.GetFields()["entries"])
	}
}

func TestAssistantHandler_Rollover(t *testing.T) {
	t.Parallel()

	stub := &stubAssistantUseCase{rolloverOut: &staffing.RolloverResult{
		Table:    "stellenplan_berlin",
		FromYear: 2026,
		ToYear:   2027,
		Mode:     staffing.RolloverFill,
		Results:  []staffing.RolloverItem{{ID: "1", Status: staffing.RolloverOK, Updated: []string{"jan_2027"}}},
	}}
	h := NewAssistantHandler(stub)

	resp, err := h.Rollover(context.Background(), mustStruct(t, map[string]any{
		"table":     "stellenplan_berlin",
		"from_year": 2026,
		"to_year":   2027,
		"ids":       []any{"1", 2},
		"mode":      "fill",
		"site":      "berlin",
	}))
	if err != nil {
		t.Fatalf("Rollover returned error: %v", err)
	}

	in := stub.rolloverInput
	if in.FromYear != 2026 || in.ToYear != 2027 || in.Mode != staffing.RolloverFill || in.Site != "berlin" {
		t.Errorf("unexpected input: %+v", in)
	}
	if len(in.IDs) != 2 || in.IDs[0] != "1" || in.IDs[1] != "2" {
		t.Errorf("unexpected ids: %v", in.IDs)
	}
	results := resp.GetFields()["results"].GetListValue().GetValues()
	if len(results) != 1 || results[0].GetStructValue().GetFields()["status"].GetStringValue() != "ok" {
		t.Errorf("unexpected results: %v", results)
	}

	_, err = h.Rollover(context.Background(), mustStruct(t, map[string]any{"to_year": 2027}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for missing from_year, got %v", status.Code(err))
	}
}

func TestAssistantService_OverGRPC(t *testing.T) {
	t.Parallel()

	stub := &stubAssistantUseCase{runErr: staffing.ErrMissingEmployeeName}

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterAssistantServer(srv, NewAssistantHandler(stub))
	go func() {
		_ = srv.Serve(lis)
	}()
	defer srv.Stop()

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := NewAssistantClient(conn)
	_, err = client.Call(ctx, "RunCommand", mustStruct(t, map[string]any{"command": "Wo arbeitet ?"}))
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", err)
	}
	if stub.runInput.Command != "Wo arbeitet ?" {
		t.Errorf("request did not reach handler: %+v", stub.runInput)
	}
}
