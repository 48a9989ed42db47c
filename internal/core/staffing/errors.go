package staffing

import "errors"

var (
	ErrInvalidPlanYear           = errors.New("staffing: invalid plan year")
	ErrMissingEmployeeName       = errors.New("staffing: missing employee name")
	ErrMissingField              = errors.New("staffing: missing required field")
	ErrRecordNotFound            = errors.New("staffing: record not found")
	ErrUnsupportedCrossYearRange = errors.New("staffing: date range spans more than one year")
	ErrMalformedNumeral          = errors.New("staffing: malformed numeral")
	ErrInvalidDate               = errors.New("staffing: invalid date")
	ErrInvalidDateRange          = errors.New("staffing: end date before start date")
	ErrInvalidDirection          = errors.New("staffing: invalid direction")
	ErrUnsupportedIntent         = errors.New("staffing: unsupported intent")
	ErrInvalidRollover           = errors.New("staffing: invalid rollover request")
	ErrTableNotFound             = errors.New("staffing: table not found")
	ErrColumnNotFound            = errors.New("staffing: column not found")
)
