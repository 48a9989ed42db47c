package assistant

import (
	"context"
	"strconv"
	"strings"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/intent"
	"github.com/shopspring/decimal"
)

// Interpreter は正規表現で解釈できなかった文を構造化する補助です。
// 結果は表示用であり、実行には使いません。
type Interpreter interface {
	Interpret(ctx context.Context, text string) (*Interpretation, error)
}

// InterpretedFields は補助解釈で得られた項目です。不明な項目は nil です。
type InterpretedFields struct {
	EmployeeName   *string             `json:"employee_name"`
	PersonalNumber *string             `json:"personal_number"`
	Month          *string             `json:"month"`
	Year           *int                `json:"year"`
	DeltaFTE       decimal.NullDecimal `json:"delta_fte"`
	TargetFTE      decimal.NullDecimal `json:"target_fte"`
	Unit           *string             `json:"unit"`
	Site           *string             `json:"site"`
}

// Interpretation は補助解釈の結果です。
type Interpretation struct {
	Intent                string            `json:"intent"`
	Fields                InterpretedFields `json:"fields"`
	Confidence            float64           `json:"confidence"`
	NeedsClarification    bool              `json:"needs_clarification"`
	ClarificationQuestion *string           `json:"clarification_question"`
	Notes                 *string           `json:"notes"`
}

var interpretedIntents = map[string]intent.Intent{
	"adjust_person_fte_rel": intent.AdjustRelative,
	"adjust_person_fte_abs": intent.AdjustAbsolute,
	"move_employee_unit":    intent.TransferByYear,
	"check_employee_exists": intent.CheckEmployeeExists,
	"get_employee_unit":     intent.EmployeeStation,
	"list_unit_employees":   intent.ListDepartment,
	"get_employee_fte_year": intent.EmployeeFTEYear,
	"help":                  intent.Help,
}

// Command は解釈結果をパーサと同じ形に変換します。
func (i Interpretation) Command() intent.Command {
	name := strings.TrimSpace(i.Intent)
	mapped, ok := interpretedIntents[name]
	if !ok {
		mapped = intent.Intent(name)
	}

	fields := make(intent.Fields)
	set := func(key string, v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			fields[key] = strings.TrimSpace(*v)
		}
	}
	set(intent.FieldName, i.Fields.EmployeeName)
	set(intent.FieldPersonnelNumber, i.Fields.PersonalNumber)
	set(intent.FieldMonth, i.Fields.Month)
	set(intent.FieldDepartment, i.Fields.Unit)
	set(intent.FieldSite, i.Fields.Site)
	if i.Fields.Year != nil {
		fields[intent.FieldYear] = strconv.Itoa(*i.Fields.Year)
	}

	switch {
	case i.Fields.DeltaFTE.Valid:
		delta := i.Fields.DeltaFTE.Decimal
		fields[intent.FieldAmount] = delta.Abs().String()
		if delta.IsNegative() {
			fields[intent.FieldDirection] = "reduzieren"
		} else {
			fields[intent.FieldDirection] = "erhöhen"
		}
	case i.Fields.TargetFTE.Valid:
		fields[intent.FieldAmount] = i.Fields.TargetFTE.Decimal.String()
	}

	return intent.Command{Intent: mapped, Fields: fields}
}
