package staffing

import (
	"context"
	"time"
)

// Repository は拠点テーブルへのアクセスの抽象です。
// table とカラム名は呼び出し側で検証済みですが、実装も埋め込み前に再度検証します。
type Repository interface {
	FindRecords(ctx context.Context, table string, filter Filter) ([]Record, error)
	FindAllocations(ctx context.Context, query AllocationQuery) ([]Allocation, error)
	UpdateAllocations(ctx context.Context, table, id string, values []ColumnValue, updatedAt time.Time) error
	UpdateDepartment(ctx context.Context, table string, ids []string, department string, updatedAt time.Time) error
	UpdateInclude(ctx context.Context, table string, ids []string, include bool, updatedAt time.Time) error
}

// Filter は行の絞り込み条件です。空の項目は条件に含めません。
// Name と Department は大文字小文字を区別せずに比較します。
type Filter struct {
	IDs             []string
	Name            string
	PersonnelNumber string
	Department      string
	Year            *int
	ForUpdate       bool
}

// AllocationQuery は月カラムの読み出し条件です。
type AllocationQuery struct {
	Table   string
	Filter  Filter
	Columns []string
}
