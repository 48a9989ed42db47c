package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/assistant"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/audit"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/intent"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/staffing"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// AssistantHandler は gRPC 層からアシスタントのユースケースを呼び出すアダプタです。
type AssistantHandler struct {
	useCase assistant.UseCase
}

var _ AssistantServer = (*AssistantHandler)(nil)

// NewAssistantHandler は AssistantHandler を生成します。
func NewAssistantHandler(uc assistant.UseCase) *AssistantHandler {
	return &AssistantHandler{useCase: uc}
}

type runCommandResponse struct {
	Parsed   *intent.Command           `json:"parsed,omitempty"`
	Kind     string                    `json:"kind,omitempty"`
	Result   staffing.Result           `json:"result,omitempty"`
	PlanYear *int                      `json:"plan_year,omitempty"`
	Fallback *assistant.Interpretation `json:"fallback,omitempty"`
}

// RunCommand は command を解釈して実行します。
// 受け付ける項目: command, table, year, site, allow_fallback。
func (h *AssistantHandler) RunCommand(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	year, err := optionalInt(req, "year")
	if err != nil {
		return nil, err
	}

	out, err := h.useCase.RunCommand(ctx, assistant.RunCommandInput{
		Command:       stringField(req, "command"),
		Table:         stringField(req, "table"),
		Year:          year,
		Site:          stringField(req, "site"),
		AllowFallback: boolField(req, "allow_fallback"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := runCommandResponse{
		Parsed:   out.Parsed,
		Result:   out.Result,
		PlanYear: out.PlanYear,
		Fallback: out.Fallback,
	}
	if out.Result != nil {
		resp.Kind = out.Result.Kind()
	}
	return toStruct(resp)
}

// InterpretCommand は補助解釈の結果だけを返します。
func (h *AssistantHandler) InterpretCommand(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	interpretation, err := h.useCase.InterpretCommand(ctx, stringField(req, "command"))
	if err != nil {
		return nil, toStatusError(err)
	}
	return toStruct(struct {
		Interpretation *assistant.Interpretation `json:"interpretation"`
		Command        intent.Command            `json:"command"`
	}{
		Interpretation: interpretation,
		Command:        interpretation.Command(),
	})
}

// ListAudit は拠点の最新の監査記録を返します。
func (h *AssistantHandler) ListAudit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit, err := optionalInt(req, "limit")
	if err != nil {
		return nil, err
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	entries, err := h.useCase.ListAudit(ctx, stringField(req, "site"), n)
	if err != nil {
		return nil, toStatusError(err)
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return toStruct(struct {
		Entries []audit.Entry `json:"entries"`
	}{Entries: entries})
}

// Rollover は年次繰り越しを実行します。
// 受け付ける項目: table, from_year, to_year, dept, ids, mode, site。
func (h *AssistantHandler) Rollover(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	from, err := requiredInt(req, "from_year")
	if err != nil {
		return nil, err
	}
	to, err := requiredInt(req, "to_year")
	if err != nil {
		return nil, err
	}

	result, err := h.useCase.Rollover(ctx, assistant.RolloverInput{
		RolloverInput: staffing.RolloverInput{
			Table:      stringField(req, "table"),
			FromYear:   from,
			ToYear:     to,
			Department: stringField(req, "dept"),
			IDs:        stringList(req, "ids"),
			Mode:       staffing.RolloverMode(stringField(req, "mode")),
		},
		Site: stringField(req, "site"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toStruct(result)
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

func boolField(req *structpb.Struct, key string) bool {
	return req.GetFields()[key].GetBoolValue()
}

func stringList(req *structpb.Struct, key string) []string {
	values := req.GetFields()[key].GetListValue().GetValues()
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch kind := v.GetKind().(type) {
		case *structpb.Value_StringValue:
			out = append(out, kind.StringValue)
		case *structpb.Value_NumberValue:
			out = append(out, fmt.Sprintf("%.0f", kind.NumberValue))
		}
	}
	return out
}

func optionalInt(req *structpb.Struct, key string) (*int, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return nil, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_NumberValue:
		f := kind.NumberValue
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return nil, status.Errorf(codes.InvalidArgument, "%s must be an integer", key)
		}
		n := int(f)
		return &n, nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "%s must be a number", key)
	}
}

func requiredInt(req *structpb.Struct, key string) (int, error) {
	v, err := optionalInt(req, key)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return *v, nil
}

// toStruct は JSON タグに従って値を Struct に変換します。
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}
