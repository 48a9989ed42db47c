// Package staffing は人員計画テーブルに対する調整と照会を実行します。
package staffing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/calendar"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/identifier"
	"github.com/shopspring/decimal"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は人員計画の調整と照会をまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
	years PlanYears
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager, years PlanYears) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if years.count == 0 {
		years = DefaultPlanYears()
	}
	return &Service{repo: repo, clock: clock, tx: tx, years: years}
}

// PlanYears は対応している計画年を返します。
func (s *Service) PlanYears() PlanYears {
	return s.years
}

// AdjustRelativeInput は相対調整の入力です。
type AdjustRelativeInput struct {
	Table     string
	Name      string
	Month     string
	Year      int
	Amount    string
	Direction string
}

// AdjustAbsoluteInput は絶対値設定の入力です。
type AdjustAbsoluteInput struct {
	Table  string
	Name   string
	Month  string
	Year   int
	Amount string
}

// AdjustRangeInput は期間調整の入力です。Direction が空なら減算します。
type AdjustRangeInput struct {
	Table     string
	Name      string
	From      string
	To        string
	Amount    string
	Direction string
	Reason    string
}

// TransferInput は部署異動の入力です。Date があれば Year より優先します。
type TransferInput struct {
	Table      string
	Name       string
	Department string
	Date       string
	Year       *int
}

// ExcludeInput は計画対象外への変更の入力です。
type ExcludeInput struct {
	Table string
	Name  string
	Year  int
}

// AdjustRelative は 1 か月分の配分を増減します。
func (s *Service) AdjustRelative(ctx context.Context, in AdjustRelativeInput) (*AllocationChange, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := s.years.Check(in.Year); err != nil {
		return nil, err
	}
	column, err := calendar.ColumnName(in.Month, in.Year)
	if err != nil {
		return nil, err
	}
	magnitude, err := ParseNumeral(in.Amount)
	if err != nil {
		return nil, err
	}
	direction, err := ParseDirection(in.Direction)
	if err != nil {
		return nil, err
	}

	delta := direction.Apply(magnitude)
	change, err := s.updateMonth(ctx, table, name, in.Year, column, func(old decimal.Decimal) decimal.Decimal {
		return old.Add(delta)
	})
	if err != nil {
		return nil, err
	}
	change.Delta = &delta
	return change, nil
}

// AdjustAbsolute は 1 か月分の配分を指定値にします。現在値は結果にのみ使います。
func (s *Service) AdjustAbsolute(ctx context.Context, in AdjustAbsoluteInput) (*AllocationChange, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := s.years.Check(in.Year); err != nil {
		return nil, err
	}
	column, err := calendar.ColumnName(in.Month, in.Year)
	if err != nil {
		return nil, err
	}
	target, err := ParseNumeral(in.Amount)
	if err != nil {
		return nil, err
	}

	return s.updateMonth(ctx, table, name, in.Year, column, func(decimal.Decimal) decimal.Decimal {
		return target
	})
}

func (s *Service) updateMonth(ctx context.Context, table, name string, year int, column string, compute func(decimal.Decimal) decimal.Decimal) (*AllocationChange, error) {
	var change *AllocationChange
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		row, err := s.lockAllocation(txCtx, table, name, year, []string{column})
		if err != nil {
			return err
		}

		old := row.Value(0)
		next := compute(old)
		if err := s.repo.UpdateAllocations(txCtx, table, row.RecordID, []ColumnValue{
			{Column: column, Value: decimal.NewNullDecimal(next)},
		}, s.clock.Now()); err != nil {
			return err
		}

		change = &AllocationChange{
			RecordID: row.RecordID,
			Table:    table,
			Name:     row.Name,
			Year:     year,
			Column:   column,
			OldValue: old,
			NewValue: next,
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return change, nil
}

// AdjustRange は同一年内の期間の各月に同じ増減を適用します。
func (s *Service) AdjustRange(ctx context.Context, in AdjustRangeInput) (*RangeChange, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	from, err := ParseDate(in.From)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(in.To)
	if err != nil {
		return nil, err
	}
	if from.Year() != to.Year() {
		return nil, fmt.Errorf("%s..%s: %w", in.From, in.To, ErrUnsupportedCrossYearRange)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%s..%s: %w", in.From, in.To, ErrInvalidDateRange)
	}
	year := from.Year()
	if err := s.years.Check(year); err != nil {
		return nil, err
	}
	columns, err := calendar.ColumnsBetween(int(from.Month())-1, int(to.Month())-1, year)
	if err != nil {
		return nil, err
	}
	magnitude, err := ParseNumeral(in.Amount)
	if err != nil {
		return nil, err
	}
	direction := Decrease
	if strings.TrimSpace(in.Direction) != "" {
		if direction, err = ParseDirection(in.Direction); err != nil {
			return nil, err
		}
	}
	delta := direction.Apply(magnitude)

	var change *RangeChange
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		row, err := s.lockAllocation(txCtx, table, name, year, columns)
		if err != nil {
			return err
		}

		oldValues := make([]decimal.Decimal, len(columns))
		newValues := make([]decimal.Decimal, len(columns))
		updates := make([]ColumnValue, len(columns))
		for i, column := range columns {
			oldValues[i] = row.Value(i)
			newValues[i] = oldValues[i].Add(delta)
			updates[i] = ColumnValue{Column: column, Value: decimal.NewNullDecimal(newValues[i])}
		}
		if err := s.repo.UpdateAllocations(txCtx, table, row.RecordID, updates, s.clock.Now()); err != nil {
			return err
		}

		change = &RangeChange{
			RecordID:  row.RecordID,
			Table:     table,
			Name:      row.Name,
			Year:      year,
			From:      from.Format(time.DateOnly),
			To:        to.Format(time.DateOnly),
			Delta:     delta,
			Reason:    strings.TrimSpace(in.Reason),
			Columns:   columns,
			OldValues: oldValues,
			NewValues: newValues,
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return change, nil
}

// Transfer は所属部署を変更します。月別配分には触れません。
func (s *Service) Transfer(ctx context.Context, in TransferInput) (*TransferChange, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	department := strings.TrimSpace(in.Department)
	if department == "" {
		return nil, fmt.Errorf("department: %w", ErrMissingField)
	}

	var (
		year      int
		effective string
	)
	switch {
	case strings.TrimSpace(in.Date) != "":
		date, err := ParseDate(in.Date)
		if err != nil {
			return nil, err
		}
		year = date.Year()
		effective = date.Format(time.DateOnly)
	case in.Year != nil:
		year = *in.Year
		effective = fmt.Sprintf("%d", year)
	default:
		return nil, fmt.Errorf("date or year: %w", ErrMissingField)
	}
	if err := s.years.Check(year); err != nil {
		return nil, err
	}

	var change *TransferChange
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		records, err := s.lockRecords(txCtx, table, name, year)
		if err != nil {
			return err
		}
		target := records[0]

		if err := s.repo.UpdateDepartment(txCtx, table, []string{target.ID}, department, s.clock.Now()); err != nil {
			return err
		}

		change = &TransferChange{
			RecordID:      target.ID,
			Table:         table,
			Name:          target.Name,
			Year:          year,
			OldDepartment: target.Department,
			NewDepartment: department,
			EffectiveFrom: effective,
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return change, nil
}

// Exclude は該当するすべての行を計画対象外にします。行は削除しません。
func (s *Service) Exclude(ctx context.Context, in ExcludeInput) (*ExclusionChange, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := s.years.Check(in.Year); err != nil {
		return nil, err
	}

	var change *ExclusionChange
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		records, err := s.lockRecords(txCtx, table, name, in.Year)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.ID)
		}
		if err := s.repo.UpdateInclude(txCtx, table, ids, false, s.clock.Now()); err != nil {
			return err
		}

		change = &ExclusionChange{
			RecordIDs: ids,
			Table:     table,
			Name:      records[0].Name,
			Year:      in.Year,
			Include:   false,
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return change, nil
}

func (s *Service) lockAllocation(ctx context.Context, table, name string, year int, columns []string) (Allocation, error) {
	rows, err := s.repo.FindAllocations(ctx, AllocationQuery{
		Table:   table,
		Filter:  Filter{Name: name, Year: &year, ForUpdate: true},
		Columns: columns,
	})
	if err != nil {
		return Allocation{}, err
	}
	if len(rows) == 0 {
		return Allocation{}, fmt.Errorf("%s in %d (%s): %w", name, year, table, ErrRecordNotFound)
	}
	return rows[0], nil
}

func (s *Service) lockRecords(ctx context.Context, table, name string, year int) ([]Record, error) {
	records, err := s.repo.FindRecords(ctx, table, Filter{Name: name, Year: &year, ForUpdate: true})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s in %d (%s): %w", name, year, table, ErrRecordNotFound)
	}
	return records, nil
}

func requireName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrMissingEmployeeName
	}
	return name, nil
}
