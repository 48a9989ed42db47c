package handler

import (
	"errors"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/assistant"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/calendar"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/identifier"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/staffing"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, assistant.ErrUnrecognizedCommand),
		errors.Is(err, identifier.ErrInvalidIdentifier),
		errors.Is(err, calendar.ErrUnknownMonth),
		errors.Is(err, staffing.ErrInvalidPlanYear),
		errors.Is(err, staffing.ErrMissingField),
		errors.Is(err, staffing.ErrUnsupportedCrossYearRange),
		errors.Is(err, staffing.ErrMalformedNumeral),
		errors.Is(err, staffing.ErrInvalidDate),
		errors.Is(err, staffing.ErrInvalidDateRange),
		errors.Is(err, staffing.ErrInvalidDirection),
		errors.Is(err, staffing.ErrUnsupportedIntent),
		errors.Is(err, staffing.ErrInvalidRollover):
		return withCode(codes.InvalidArgument, err)
	case errors.Is(err, staffing.ErrMissingEmployeeName):
		return withCode(codes.FailedPrecondition, err)
	case errors.Is(err, staffing.ErrRecordNotFound),
		errors.Is(err, staffing.ErrTableNotFound),
		errors.Is(err, staffing.ErrColumnNotFound):
		return withCode(codes.NotFound, err)
	case errors.Is(err, assistant.ErrInterpreterUnavailable),
		errors.Is(err, assistant.ErrAuditUnavailable):
		return withCode(codes.Unavailable, err)
	default:
		return withCode(codes.Internal, err)
	}
}

// withCode はメッセージの先頭に安定したエラーコードを付けます。
func withCode(c codes.Code, err error) error {
	return status.Error(c, assistant.ErrorCode(err)+": "+err.Error())
}
