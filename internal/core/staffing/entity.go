package staffing

import "github.com/shopspring/decimal"

// Record は 1 従業員 1 計画年の行です。
type Record struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PersonnelNumber string `json:"personal_number,omitempty"`
	Year            int    `json:"year"`
	Department      string `json:"dept"`
	Include         bool   `json:"include"`
}

// Allocation は行の月別配分です。Values は問い合わせたカラムと同じ順に並びます。
type Allocation struct {
	RecordID   string
	Name       string
	Department string
	Columns    []string
	Values     []decimal.NullDecimal
}

// Value は i 番目の値を返します。NULL は 0 として扱います。
func (a Allocation) Value(i int) decimal.Decimal {
	if i < 0 || i >= len(a.Values) || !a.Values[i].Valid {
		return decimal.Zero
	}
	return a.Values[i].Decimal
}

// ColumnValue は更新対象の月カラムと新しい値です。
type ColumnValue struct {
	Column string
	Value  decimal.NullDecimal
}
