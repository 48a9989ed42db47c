package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/audit"
	pgdb "github.com/ogurasousui/staffing-plan-assistant/internal/platform/db/postgres"
)

// AuditRepository は assistant_audit テーブルへの監査記録の永続化です。
// audit.Sink と audit.Reader の両方を満たします。
type AuditRepository struct {
	pool pgdb.Queryer
}

// NewAuditRepository は AuditRepository を生成します。
func NewAuditRepository(pool pgdb.Queryer) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Record は監査記録を 1 件追加します。
func (r *AuditRepository) Record(ctx context.Context, entry audit.Entry) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO assistant_audit (id, created_at, site, command, action, target_table, plan_year, status, result)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `,
		entry.ID.String(),
		entry.CreatedAt,
		entry.Site,
		entry.Command,
		entry.Intent,
		entry.TargetTable,
		nullableInt(entry.PlanYear),
		string(entry.Status),
		resultOrEmpty(entry.Result),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListRecent は拠点の監査記録を新しい順に最大 limit 件返します。
func (r *AuditRepository) ListRecent(ctx context.Context, site string, limit int) ([]audit.Entry, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id::text, created_at, site, command, action, target_table, plan_year, status, result::text
          FROM assistant_audit
         WHERE site = $1
         ORDER BY created_at DESC
         LIMIT $2
    `, site, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]audit.Entry, 0, limit)
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

func scanAuditEntry(row pgx.Row) (audit.Entry, error) {
	var (
		id          string
		createdAt   time.Time
		site        string
		command     string
		action      string
		targetTable string
		planYear    sql.NullInt64
		status      string
		result      sql.NullString
	)
	if err := row.Scan(&id, &createdAt, &site, &command, &action, &targetTable, &planYear, &status, &result); err != nil {
		return audit.Entry{}, fmt.Errorf("scan audit entry: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("scan audit entry: %w", err)
	}

	entry := audit.Entry{
		ID:          parsed,
		CreatedAt:   createdAt.UTC(),
		Site:        site,
		Command:     command,
		Intent:      action,
		TargetTable: targetTable,
		Status:      audit.Status(status),
		Result:      json.RawMessage(`{}`),
	}
	if planYear.Valid {
		year := int(planYear.Int64)
		entry.PlanYear = &year
	}
	if result.Valid && result.String != "" {
		entry.Result = json.RawMessage(result.String)
	}
	return entry, nil
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func resultOrEmpty(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}
