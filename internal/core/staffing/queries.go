package staffing

import (
	"context"
	"fmt"
	"strings"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/calendar"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/identifier"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/intent"
	"github.com/shopspring/decimal"
)

const averagePlaces = 4

var monthsPerYear = decimal.NewFromInt(calendar.MonthsPerYear)

// FindEmployeeInput は名前による照会の入力です。Year が nil なら全年を対象にします。
type FindEmployeeInput struct {
	Table string
	Name  string
	Year  *int
}

// RosterInput は部署の一覧の入力です。
type RosterInput struct {
	Table      string
	Department string
	Year       *int
}

// PersonFTEInput は従業員の年間配分照会の入力です。
type PersonFTEInput struct {
	Table string
	Name  string
	Year  int
}

// DepartmentFTEInput は部署の年間配分照会の入力です。
type DepartmentFTEInput struct {
	Table      string
	Department string
	Year       int
}

// PersonnelNumberInput は人事番号による照会の入力です。
type PersonnelNumberInput struct {
	Table           string
	PersonnelNumber string
	Year            *int
}

// SiteRosterInput は拠点の年次一覧の入力です。
type SiteRosterInput struct {
	Table string
	Site  string
	Year  int
}

// CheckEmployee は名前に一致する行があるかを返します。
func (s *Service) CheckEmployee(ctx context.Context, in FindEmployeeInput) (*ExistenceResult, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}

	records, err := s.findRecords(ctx, table, Filter{Name: name, Year: in.Year})
	if err != nil {
		return nil, err
	}
	return &ExistenceResult{Name: name, Exists: len(records) > 0, Matches: records}, nil
}

// EmployeeStation は従業員の所属を返します。該当がなければ ErrRecordNotFound です。
func (s *Service) EmployeeStation(ctx context.Context, in FindEmployeeInput) (*StationResult, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}

	records, err := s.findRecords(ctx, table, Filter{Name: name, Year: in.Year})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("station of %s (%s): %w", name, table, ErrRecordNotFound)
	}
	return &StationResult{Name: name, Stations: records}, nil
}

// ListDepartment は部署に所属する行を返します。
func (s *Service) ListDepartment(ctx context.Context, in RosterInput) (*RosterResult, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}
	department := strings.TrimSpace(in.Department)
	if department == "" {
		return nil, fmt.Errorf("department: %w", ErrMissingField)
	}

	records, err := s.findRecords(ctx, table, Filter{Department: department, Year: in.Year})
	if err != nil {
		return nil, err
	}
	return &RosterResult{Department: department, Year: in.Year, Employees: records}, nil
}

// PersonFTE は従業員の 12 か月分の配分と合計、月平均を返します。
// 複数行に一致した場合は月ごとに合算します。
func (s *Service) PersonFTE(ctx context.Context, in PersonFTEInput) (*PersonFTEResult, error) {
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

	columns := calendar.Columns(in.Year)
	rows, err := s.findAllocations(ctx, AllocationQuery{
		Table:   table,
		Filter:  Filter{Name: name, Year: &in.Year},
		Columns: columns,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s in %d (%s): %w", name, in.Year, table, ErrRecordNotFound)
	}

	months := make([]MonthValue, len(columns))
	total := decimal.Zero
	for i, column := range columns {
		sum := decimal.Zero
		for _, row := range rows {
			sum = sum.Add(row.Value(i))
		}
		months[i] = MonthValue{Column: column, Value: sum}
		total = total.Add(sum)
	}

	return &PersonFTEResult{
		Name:    name,
		Year:    in.Year,
		Rows:    len(rows),
		Months:  months,
		Total:   total,
		Average: average(total),
	}, nil
}

// DepartmentFTE は部署の全行の 12 か月分を合計します。該当がなければ合計は 0 です。
func (s *Service) DepartmentFTE(ctx context.Context, in DepartmentFTEInput) (*DepartmentFTEResult, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}
	department := strings.TrimSpace(in.Department)
	if department == "" {
		return nil, fmt.Errorf("department: %w", ErrMissingField)
	}
	if err := s.years.Check(in.Year); err != nil {
		return nil, err
	}

	columns := calendar.Columns(in.Year)
	rows, err := s.findAllocations(ctx, AllocationQuery{
		Table:   table,
		Filter:  Filter{Department: department, Year: &in.Year},
		Columns: columns,
	})
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, row := range rows {
		for i := range columns {
			total = total.Add(row.Value(i))
		}
	}

	return &DepartmentFTEResult{
		Department: department,
		Year:       in.Year,
		Employees:  len(rows),
		Total:      total,
		Average:    average(total),
	}, nil
}

// FindByPersonnelNumber は人事番号に一致する行を返します。
func (s *Service) FindByPersonnelNumber(ctx context.Context, in PersonnelNumberInput) (*PersonnelNumberResult, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}
	pnr := strings.TrimSpace(in.PersonnelNumber)
	if pnr == "" {
		return nil, fmt.Errorf("personnel number: %w", ErrMissingField)
	}

	records, err := s.findRecords(ctx, table, Filter{PersonnelNumber: pnr, Year: in.Year})
	if err != nil {
		return nil, err
	}
	return &PersonnelNumberResult{PersonnelNumber: pnr, Year: in.Year, Found: len(records) > 0, Matches: records}, nil
}

// ListSite は拠点テーブルのその年の全行を返します。
func (s *Service) ListSite(ctx context.Context, in SiteRosterInput) (*SiteRosterResult, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}

	records, err := s.findRecords(ctx, table, Filter{Year: &in.Year})
	if err != nil {
		return nil, err
	}
	return &SiteRosterResult{Site: strings.TrimSpace(in.Site), Table: table, Year: in.Year, Employees: records}, nil
}

// Help は対応している意図を返します。ストレージには触れません。
func (s *Service) Help() *HelpResult {
	return &HelpResult{Help: true, Intents: intent.Intents()}
}

func (s *Service) findRecords(ctx context.Context, table string, filter Filter) ([]Record, error) {
	var records []Record
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindRecords(txCtx, table, filter)
		if err != nil {
			return err
		}
		records = found
		return nil
	}); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *Service) findAllocations(ctx context.Context, query AllocationQuery) ([]Allocation, error) {
	var rows []Allocation
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindAllocations(txCtx, query)
		if err != nil {
			return err
		}
		rows = found
		return nil
	}); err != nil {
		return nil, err
	}
	return rows, nil
}

func average(total decimal.Decimal) decimal.Decimal {
	return total.Div(monthsPerYear).Round(averagePlaces)
}
