package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/identifier"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/staffing"
	pgdb "github.com/ogurasousui/staffing-plan-assistant/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

const (
	undefinedTableCode  = "42P01"
	undefinedColumnCode = "42703"
)

const recordColumns = "id::text, name, personal_number, year, dept, include"

// StaffingRepository は拠点テーブル (stellenplan_*) を PostgreSQL で扱う実装です。
// テーブル名とカラム名は identifier.Quote を通したものだけを SQL に埋め込みます。
type StaffingRepository struct {
	pool pgdb.Queryer
}

// NewStaffingRepository は StaffingRepository を生成します。
func NewStaffingRepository(pool pgdb.Queryer) *StaffingRepository {
	return &StaffingRepository{pool: pool}
}

// FindRecords は条件に一致する行を id 順で返します。
func (r *StaffingRepository) FindRecords(ctx context.Context, table string, filter staffing.Filter) ([]staffing.Record, error) {
	quoted, err := identifier.Quote(table)
	if err != nil {
		return nil, err
	}

	whereClause, args := buildFilter(filter, nil)
	query := "SELECT " + recordColumns + " FROM " + quoted + whereClause + " ORDER BY id" + lockClause(filter)

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateStaffingPgError(err)
	}
	defer rows.Close()

	records := make([]staffing.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, translateStaffingPgError(err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, translateStaffingPgError(err)
	}
	return records, nil
}

// FindAllocations は指定した月カラムの値を行ごとに返します。
func (r *StaffingRepository) FindAllocations(ctx context.Context, q staffing.AllocationQuery) ([]staffing.Allocation, error) {
	quoted, err := identifier.Quote(q.Table)
	if err != nil {
		return nil, err
	}
	columns, err := identifier.QuoteAll(q.Columns)
	if err != nil {
		return nil, err
	}

	selectList := "id::text, name, dept"
	if len(columns) > 0 {
		selectList += ", " + strings.Join(columns, ", ")
	}

	whereClause, args := buildFilter(q.Filter, nil)
	query := "SELECT " + selectList + " FROM " + quoted + whereClause + " ORDER BY id" + lockClause(q.Filter)

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateStaffingPgError(err)
	}
	defer rows.Close()

	allocations := make([]staffing.Allocation, 0)
	for rows.Next() {
		var (
			id   string
			name string
			dept sql.NullString
		)
		values := make([]decimal.NullDecimal, len(q.Columns))
		dest := make([]any, 0, 3+len(values))
		dest = append(dest, &id, &name, &dept)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, translateStaffingPgError(err)
		}
		allocations = append(allocations, staffing.Allocation{
			RecordID:   id,
			Name:       name,
			Department: dept.String,
			Columns:    append([]string(nil), q.Columns...),
			Values:     values,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, translateStaffingPgError(err)
	}
	return allocations, nil
}

// UpdateAllocations は 1 行の月カラムをまとめて更新します。
func (r *StaffingRepository) UpdateAllocations(ctx context.Context, table, id string, values []staffing.ColumnValue, updatedAt time.Time) error {
	if len(values) == 0 {
		return nil
	}
	quoted, err := identifier.Quote(table)
	if err != nil {
		return err
	}

	args := make([]any, 0, len(values)+2)
	assignments := make([]string, 0, len(values)+1)
	for _, v := range values {
		column, err := identifier.Quote(v.Column)
		if err != nil {
			return err
		}
		placeholder := "$" + strconv.Itoa(len(args)+1)
		assignments = append(assignments, column+" = "+placeholder)
		args = append(args, v.Value)
	}

	assignments = append(assignments, "updated_at = $"+strconv.Itoa(len(args)+1))
	args = append(args, updatedAt)
	idPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, id)

	query := "UPDATE " + quoted + " SET " + strings.Join(assignments, ", ") + " WHERE id::text = " + idPlaceholder
	return r.exec(ctx, query, args...)
}

// UpdateDepartment は指定行の所属部署を書き換えます。
func (r *StaffingRepository) UpdateDepartment(ctx context.Context, table string, ids []string, department string, updatedAt time.Time) error {
	quoted, err := identifier.Quote(table)
	if err != nil {
		return err
	}
	query := "UPDATE " + quoted + " SET dept = $1, updated_at = $2 WHERE id::text = ANY($3)"
	return r.exec(ctx, query, department, updatedAt, ids)
}

// UpdateInclude は指定行の include フラグを書き換えます。
func (r *StaffingRepository) UpdateInclude(ctx context.Context, table string, ids []string, include bool, updatedAt time.Time) error {
	quoted, err := identifier.Quote(table)
	if err != nil {
		return err
	}
	query := "UPDATE " + quoted + " SET include = $1, updated_at = $2 WHERE id::text = ANY($3)"
	return r.exec(ctx, query, include, updatedAt, ids)
}

func (r *StaffingRepository) exec(ctx context.Context, query string, args ...any) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, query, args...)
	if err != nil {
		return translateStaffingPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return staffing.ErrRecordNotFound
	}
	return nil
}

// buildFilter は WHERE 句とバインド値を組み立てます。args には先行するバインド値を渡します。
func buildFilter(filter staffing.Filter, args []any) (string, []any) {
	conditions := make([]string, 0, 5)

	if len(filter.IDs) > 0 {
		conditions = append(conditions, "id::text = ANY($"+strconv.Itoa(len(args)+1)+")")
		args = append(args, filter.IDs)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		conditions = append(conditions, "LOWER(name) = LOWER($"+strconv.Itoa(len(args)+1)+")")
		args = append(args, name)
	}
	if pnr := strings.TrimSpace(filter.PersonnelNumber); pnr != "" {
		conditions = append(conditions, "personal_number = $"+strconv.Itoa(len(args)+1))
		args = append(args, pnr)
	}
	if dept := strings.TrimSpace(filter.Department); dept != "" {
		conditions = append(conditions, "LOWER(dept) = LOWER($"+strconv.Itoa(len(args)+1)+")")
		args = append(args, dept)
	}
	if filter.Year != nil {
		conditions = append(conditions, "year = $"+strconv.Itoa(len(args)+1))
		args = append(args, *filter.Year)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func lockClause(filter staffing.Filter) string {
	if filter.ForUpdate {
		return " FOR UPDATE"
	}
	return ""
}

func scanRecord(row pgx.Row) (staffing.Record, error) {
	var (
		id      string
		name    string
		pnr     sql.NullString
		year    int
		dept    sql.NullString
		include sql.NullBool
	)
	if err := row.Scan(&id, &name, &pnr, &year, &dept, &include); err != nil {
		return staffing.Record{}, err
	}
	return staffing.Record{
		ID:              id,
		Name:            name,
		PersonnelNumber: pnr.String,
		Year:            year,
		Department:      dept.String,
		// 未設定の行は集計対象として扱う
		Include: !include.Valid || include.Bool,
	}, nil
}

func translateStaffingPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return staffing.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case undefinedTableCode:
			return staffing.ErrTableNotFound
		case undefinedColumnCode:
			return staffing.ErrColumnNotFound
		}
	}
	return err
}
