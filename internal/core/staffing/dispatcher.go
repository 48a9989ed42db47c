package staffing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/intent"
)

// DispatchInput はパース済みコマンドの実行要求です。
type DispatchInput struct {
	Table   string
	Command intent.Command
	// Year は呼び出し側が指定した計画年です。コマンド中の年が優先されます。
	Year *int
}

type dispatch struct {
	table  string
	fields intent.Fields
	// year は解決済みの計画年です。explicit はコマンドか呼び出し側が年を指定したときだけ非 nil です。
	year     int
	explicit *int
}

type handlerFunc func(ctx context.Context, d dispatch) (Result, error)

// Dispatcher は意図ごとのハンドラを選んで実行します。
type Dispatcher struct {
	svc      *Service
	handlers map[intent.Intent]handlerFunc
}

// NewDispatcher は Dispatcher を生成します。
func NewDispatcher(svc *Service) *Dispatcher {
	d := &Dispatcher{svc: svc}
	d.handlers = map[intent.Intent]handlerFunc{
		intent.AdjustRelative:            d.adjustRelative,
		intent.AdjustRelativeMissingName: d.missingName,
		intent.AdjustAbsolute:            d.adjustAbsolute,
		intent.AdjustRange:               d.adjustRange,
		intent.TransferByDate:            d.transfer,
		intent.TransferByYear:            d.transfer,
		intent.ExcludeFromPlanning:       d.exclude,
		intent.CheckPersonnelNumber:      d.personnelNumber,
		intent.StationByPersonnelNumber:  d.personnelNumber,
		intent.CheckEmployeeExists:       d.checkEmployee,
		intent.EmployeeStation:           d.employeeStation,
		intent.ListDepartment:            d.listDepartment,
		intent.EmployeeFTEYear:           d.personFTE,
		intent.DepartmentFTEYear:         d.departmentFTE,
		intent.ListSiteYear:              d.listSite,
		intent.Help:                      d.help,
	}
	return d
}

// Supports は意図にハンドラがあるかを返します。
func (d *Dispatcher) Supports(in intent.Intent) bool {
	_, ok := d.handlers[in]
	return ok
}

// ResolveYear はコマンド中の年、呼び出し側の年、現在年の順に計画年を決めます。
// 返す explicit は前の 2 つのいずれかが指定されたときだけ非 nil です。
func (d *Dispatcher) ResolveYear(fields intent.Fields, requested *int) (int, *int, error) {
	if fields.Has(intent.FieldYear) {
		raw := fields.Get(intent.FieldYear)
		year, err := strconv.Atoi(raw)
		if err != nil {
			return 0, nil, fmt.Errorf("year %q: %w", raw, ErrInvalidPlanYear)
		}
		return year, &year, nil
	}
	if requested != nil {
		year := *requested
		return year, &year, nil
	}
	return d.svc.clock.Now().Year(), nil, nil
}

// Dispatch はコマンドを対応するハンドラで実行します。
func (d *Dispatcher) Dispatch(ctx context.Context, in DispatchInput) (Result, error) {
	handler, ok := d.handlers[in.Command.Intent]
	if !ok {
		return nil, fmt.Errorf("%q: %w", in.Command.Intent, ErrUnsupportedIntent)
	}

	year, explicit, err := d.ResolveYear(in.Command.Fields, in.Year)
	if err != nil {
		return nil, err
	}

	return handler(ctx, dispatch{
		table:    in.Table,
		fields:   in.Command.Fields,
		year:     year,
		explicit: explicit,
	})
}

func (d *Dispatcher) adjustRelative(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.AdjustRelative(ctx, AdjustRelativeInput{
		Table:     in.table,
		Name:      in.fields.Get(intent.FieldName),
		Month:     in.fields.Get(intent.FieldMonth),
		Year:      in.year,
		Amount:    in.fields.Get(intent.FieldAmount),
		Direction: in.fields.Get(intent.FieldDirection),
	}))
}

func (d *Dispatcher) missingName(context.Context, dispatch) (Result, error) {
	return nil, fmt.Errorf("which employee should be adjusted: %w", ErrMissingEmployeeName)
}

func (d *Dispatcher) adjustAbsolute(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.AdjustAbsolute(ctx, AdjustAbsoluteInput{
		Table:  in.table,
		Name:   in.fields.Get(intent.FieldName),
		Month:  in.fields.Get(intent.FieldMonth),
		Year:   in.year,
		Amount: in.fields.Get(intent.FieldAmount),
	}))
}

func (d *Dispatcher) adjustRange(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.AdjustRange(ctx, AdjustRangeInput{
		Table:     in.table,
		Name:      in.fields.Get(intent.FieldName),
		From:      in.fields.Get(intent.FieldFrom),
		To:        in.fields.Get(intent.FieldTo),
		Amount:    in.fields.Get(intent.FieldAmount),
		Direction: in.fields.Get(intent.FieldDirection),
		Reason:    in.fields.Get(intent.FieldReason),
	}))
}

func (d *Dispatcher) transfer(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.Transfer(ctx, TransferInput{
		Table:      in.table,
		Name:       in.fields.Get(intent.FieldName),
		Department: in.fields.Get(intent.FieldDepartment),
		Date:       in.fields.Get(intent.FieldDate),
		Year:       in.explicit,
	}))
}

func (d *Dispatcher) exclude(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.Exclude(ctx, ExcludeInput{
		Table: in.table,
		Name:  in.fields.Get(intent.FieldName),
		Year:  in.year,
	}))
}

func (d *Dispatcher) personnelNumber(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.FindByPersonnelNumber(ctx, PersonnelNumberInput{
		Table:           in.table,
		PersonnelNumber: in.fields.Get(intent.FieldPersonnelNumber),
		Year:            in.explicit,
	}))
}

func (d *Dispatcher) checkEmployee(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.CheckEmployee(ctx, FindEmployeeInput{
		Table: in.table,
		Name:  in.fields.Get(intent.FieldName),
		Year:  in.explicit,
	}))
}

func (d *Dispatcher) employeeStation(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.EmployeeStation(ctx, FindEmployeeInput{
		Table: in.table,
		Name:  in.fields.Get(intent.FieldName),
		Year:  in.explicit,
	}))
}

func (d *Dispatcher) listDepartment(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.ListDepartment(ctx, RosterInput{
		Table:      in.table,
		Department: in.fields.Get(intent.FieldDepartment),
		Year:       in.explicit,
	}))
}

func (d *Dispatcher) personFTE(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.PersonFTE(ctx, PersonFTEInput{
		Table: in.table,
		Name:  in.fields.Get(intent.FieldName),
		Year:  in.year,
	}))
}

func (d *Dispatcher) departmentFTE(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.DepartmentFTE(ctx, DepartmentFTEInput{
		Table:      in.table,
		Department: in.fields.Get(intent.FieldDepartment),
		Year:       in.year,
	}))
}

func (d *Dispatcher) listSite(ctx context.Context, in dispatch) (Result, error) {
	return wrap(d.svc.ListSite(ctx, SiteRosterInput{
		Table: in.table,
		Site:  in.fields.Get(intent.FieldSite),
		Year:  in.year,
	}))
}

func (d *Dispatcher) help(context.Context, dispatch) (Result, error) {
	return d.svc.Help(), nil
}

// wrap は型付きの結果を Result に包みます。エラー時は nil を返します。
func wrap[T Result](result T, err error) (Result, error) {
	if err != nil {
		return nil, err
	}
	return result, nil
}
