package assistant

import (
	"errors"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/calendar"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/identifier"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/staffing"
)

var (
	ErrUnrecognizedCommand    = errors.New("assistant: unrecognized command")
	ErrInterpreterUnavailable = errors.New("assistant: interpreter unavailable")
	ErrAuditUnavailable       = errors.New("assistant: audit log unavailable")
)

// 呼び出し側に返す安定したエラーコード。
const (
	CodeUnrecognizedCommand       = "UNRECOGNIZED_COMMAND"
	CodeInvalidIdentifier         = "INVALID_IDENTIFIER"
	CodeUnknownMonth              = "UNKNOWN_MONTH"
	CodeInvalidPlanYear           = "INVALID_PLAN_YEAR"
	CodeMissingEmployeeName       = "MISSING_EMPLOYEE_NAME"
	CodeMissingField              = "MISSING_FIELD"
	CodeRecordNotFound            = "RECORD_NOT_FOUND"
	CodeUnsupportedCrossYearRange = "UNSUPPORTED_CROSS_YEAR_RANGE"
	CodeMalformedNumeral          = "MALFORMED_NUMERAL"
	CodeInvalidDate               = "INVALID_DATE"
	CodeInvalidDateRange          = "INVALID_DATE_RANGE"
	CodeInvalidDirection          = "INVALID_DIRECTION"
	CodeUnsupportedIntent         = "UNSUPPORTED_INTENT"
	CodeInvalidRollover           = "INVALID_ROLLOVER"
	CodeTableNotFound             = "TABLE_NOT_FOUND"
	CodeColumnNotFound            = "COLUMN_NOT_FOUND"
	CodeInterpreterUnavailable    = "INTERPRETER_UNAVAILABLE"
	CodeAuditUnavailable          = "AUDIT_UNAVAILABLE"
	CodeInternal                  = "INTERNAL"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrUnrecognizedCommand, CodeUnrecognizedCommand},
	{ErrInterpreterUnavailable, CodeInterpreterUnavailable},
	{ErrAuditUnavailable, CodeAuditUnavailable},
	{identifier.ErrInvalidIdentifier, CodeInvalidIdentifier},
	{calendar.ErrUnknownMonth, CodeUnknownMonth},
	{staffing.ErrInvalidPlanYear, CodeInvalidPlanYear},
	{staffing.ErrMissingEmployeeName, CodeMissingEmployeeName},
	{staffing.ErrMissingField, CodeMissingField},
	{staffing.ErrRecordNotFound, CodeRecordNotFound},
	{staffing.ErrUnsupportedCrossYearRange, CodeUnsupportedCrossYearRange},
	{staffing.ErrMalformedNumeral, CodeMalformedNumeral},
	{staffing.ErrInvalidDate, CodeInvalidDate},
	{staffing.ErrInvalidDateRange, CodeInvalidDateRange},
	{staffing.ErrInvalidDirection, CodeInvalidDirection},
	{staffing.ErrUnsupportedIntent, CodeUnsupportedIntent},
	{staffing.ErrInvalidRollover, CodeInvalidRollover},
	{staffing.ErrTableNotFound, CodeTableNotFound},
	{staffing.ErrColumnNotFound, CodeColumnNotFound},
}

// ErrorCode はエラーを安定したコードへ変換します。該当しなければ INTERNAL です。
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}
