package staffing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const testTable = "stellenplan_employees_test"

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type countingTx struct {
	readOnly  int
	readWrite int
}

func (c *countingTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	c.readOnly++
	return fn(ctx)
}

func (c *countingTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	c.readWrite++
	return fn(ctx)
}

type fakeRow struct {
	record    Record
	values    map[string]decimal.NullDecimal
	updatedAt time.Time
}

// fakeStaffingRepo は読み取りと書き込みの回数を数えるインメモリ実装です。
type fakeStaffingRepo struct {
	rows      []*fakeRow
	selects   int
	mutations int
	sequence  int
}

func newFakeStaffingRepo() *fakeStaffingRepo {
	return &fakeStaffingRepo{}
}

// add は行を追加します。values は "jan_2026": "0.5" の形で、空文字列は NULL です。
func (r *fakeStaffingRepo) add(name, pnr, dept string, year int, values map[string]string) string {
	r.sequence++
	id := fmt.Sprintf("row-%02d", r.sequence)
	row := &fakeRow{
		record: Record{ID: id, Name: name, PersonnelNumber: pnr, Year: year, Department: dept, Include: true},
		values: make(map[string]decimal.NullDecimal, len(values)),
	}
	for column, raw := range values {
		if raw == "" {
			row.values[column] = decimal.NullDecimal{}
			continue
		}
		row.values[column] = decimal.NewNullDecimal(decimal.RequireFromString(raw))
	}
	r.rows = append(r.rows, row)
	return id
}

func (r *fakeStaffingRepo) byID(id string) *fakeRow {
	for _, row := range r.rows {
		if row.record.ID == id {
			return row
		}
	}
	return nil
}

func (r *fakeStaffingRepo) value(id, column string) decimal.NullDecimal {
	row := r.byID(id)
	if row == nil {
		return decimal.NullDecimal{}
	}
	return row.values[column]
}

func (r *fakeStaffingRepo) match(row *fakeRow, table string, f Filter) bool {
	if table != testTable {
		return false
	}
	if len(f.IDs) > 0 {
		found := false
		for _, id := range f.IDs {
			if id == row.record.ID {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if f.Name != "" && !strings.EqualFold(f.Name, row.record.Name) {
		return false
	}
	if f.PersonnelNumber != "" && f.PersonnelNumber != row.record.PersonnelNumber {
		return false
	}
	if f.Department != "" && !strings.EqualFold(f.Department, row.record.Department) {
		return false
	}
	if f.Year != nil && *f.Year != row.record.Year {
		return false
	}
	return true
}

func (r *fakeStaffingRepo) FindRecords(_ context.Context, table string, filter Filter) ([]Record, error) {
	r.selects++
	var out []Record
	for _, row := range r.rows {
		if r.match(row, table, filter) {
			out = append(out, row.record)
		}
	}
	return out, nil
}

func (r *fakeStaffingRepo) FindAllocations(_ context.Context, q AllocationQuery) ([]Allocation, error) {
	r.selects++
	var out []Allocation
	for _, row := range r.rows {
		if !r.match(row, q.Table, q.Filter) {
			continue
		}
		values := make([]decimal.NullDecimal, len(q.Columns))
		for i, column := range q.Columns {
			values[i] = row.values[column]
		}
		out = append(out, Allocation{
			RecordID:   row.record.ID,
			Name:       row.record.Name,
			Department: row.record.Department,
			Columns:    append([]string(nil), q.Columns...),
			Values:     values,
		})
	}
	return out, nil
}

func (r *fakeStaffingRepo) UpdateAllocations(_ context.Context, _ string, id string, values []ColumnValue, updatedAt time.Time) error {
	r.mutations++
	row := r.byID(id)
	if row == nil {
		return ErrRecordNotFound
	}
	for _, v := range values {
		row.values[v.Column] = v.Value
	}
	row.updatedAt = updatedAt
	return nil
}

func (r *fakeStaffingRepo) UpdateDepartment(_ context.Context, _ string, ids []string, department string, updatedAt time.Time) error {
	r.mutations++
	for _, id := range ids {
		row := r.byID(id)
		if row == nil {
			return ErrRecordNotFound
		}
		row.record.Department = department
		row.updatedAt = updatedAt
	}
	return nil
}

func (r *fakeStaffingRepo) UpdateInclude(_ context.Context, _ string, ids []string, include bool, updatedAt time.Time) error {
	r.mutations++
	for _, id := range ids {
		row := r.byID(id)
		if row == nil {
			return ErrRecordNotFound
		}
		row.record.Include = include
		row.updatedAt = updatedAt
	}
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
}

func newTestService(repo *fakeStaffingRepo) (*Service, *countingTx) {
	tx := &countingTx{}
	return NewService(repo, &stubClock{now: fixedNow()}, tx, DefaultPlanYears()), tx
}

func uniform(year int, value string) map[string]string {
	out := make(map[string]string, 12)
	for _, code := range []string{"jan", "feb", "mrz", "apr", "mai", "jun", "jul", "aug", "sep", "okt", "nov", "dez"} {
		out[fmt.Sprintf("%s_%d", code, year)] = value
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
