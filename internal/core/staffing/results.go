package staffing

import (
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/intent"
	"github.com/shopspring/decimal"
)

// Result は実行結果です。Kind は結果の種類を識別します。
type Result interface {
	Kind() string
}

// AllocationChange は単一月カラムの変更です。
type AllocationChange struct {
	RecordID string           `json:"employee_id"`
	Table    string           `json:"table"`
	Name     string           `json:"name"`
	Year     int              `json:"year"`
	Column   string           `json:"column"`
	OldValue decimal.Decimal  `json:"old_value"`
	NewValue decimal.Decimal  `json:"new_value"`
	Delta    *decimal.Decimal `json:"delta,omitempty"`
}

func (AllocationChange) Kind() string { return "allocation_change" }

// RangeChange は期間内の複数月カラムの変更です。
type RangeChange struct {
	RecordID  string            `json:"employee_id"`
	Table     string            `json:"table"`
	Name      string            `json:"name"`
	Year      int               `json:"year"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Delta     decimal.Decimal   `json:"delta"`
	Reason    string            `json:"reason,omitempty"`
	Columns   []string          `json:"columns"`
	OldValues []decimal.Decimal `json:"old_values"`
	NewValues []decimal.Decimal `json:"new_values"`
}

func (RangeChange) Kind() string { return "range_change" }

// TransferChange は所属の変更です。月別配分は変わりません。
type TransferChange struct {
	RecordID      string `json:"employee_id"`
	Table         string `json:"table"`
	Name          string `json:"name"`
	Year          int    `json:"year"`
	OldDepartment string `json:"old_dept"`
	NewDepartment string `json:"new_dept"`
	EffectiveFrom string `json:"effective_from"`
}

func (TransferChange) Kind() string { return "transfer_change" }

// ExclusionChange は計画対象からの除外です。
type ExclusionChange struct {
	RecordIDs []string `json:"employee_ids"`
	Table     string   `json:"table"`
	Name      string   `json:"name"`
	Year      int      `json:"year"`
	Include   bool     `json:"include"`
}

func (ExclusionChange) Kind() string { return "exclusion_change" }

// ExistenceResult は在籍確認の結果です。
type ExistenceResult struct {
	Name    string   `json:"name"`
	Exists  bool     `json:"exists"`
	Matches []Record `json:"matches"`
}

func (ExistenceResult) Kind() string { return "existence" }

// StationResult は従業員の所属一覧です。
type StationResult struct {
	Name     string   `json:"name"`
	Stations []Record `json:"stations"`
}

func (StationResult) Kind() string { return "station" }

// RosterResult は部署の従業員一覧です。
type RosterResult struct {
	Department string   `json:"dept"`
	Year       *int     `json:"year,omitempty"`
	Employees  []Record `json:"employees"`
}

func (RosterResult) Kind() string { return "roster" }

// MonthValue は月カラムと値の組です。
type MonthValue struct {
	Column string          `json:"column"`
	Value  decimal.Decimal `json:"value"`
}

// PersonFTEResult は従業員の年間配分です。
type PersonFTEResult struct {
	Name    string          `json:"name"`
	Year    int             `json:"year"`
	Rows    int             `json:"rows"`
	Months  []MonthValue    `json:"months"`
	Total   decimal.Decimal `json:"total_vk"`
	Average decimal.Decimal `json:"avg_vk"`
}

func (PersonFTEResult) Kind() string { return "person_fte" }

// DepartmentFTEResult は部署の年間配分の合計です。
type DepartmentFTEResult struct {
	Department string          `json:"dept"`
	Year       int             `json:"year"`
	Employees  int             `json:"employees"`
	Total      decimal.Decimal `json:"total_vk"`
	Average    decimal.Decimal `json:"avg_vk"`
}

func (DepartmentFTEResult) Kind() string { return "department_fte" }

// PersonnelNumberResult は人事番号による照会の結果です。
type PersonnelNumberResult struct {
	PersonnelNumber string   `json:"pnr"`
	Year            *int     `json:"year,omitempty"`
	Found           bool     `json:"found"`
	Matches         []Record `json:"matches"`
}

func (PersonnelNumberResult) Kind() string { return "personnel_number" }

// SiteRosterResult は拠点テーブルの年次一覧です。
type SiteRosterResult struct {
	Site      string   `json:"site"`
	Table     string   `json:"site_table"`
	Year      int      `json:"year"`
	Employees []Record `json:"employees"`
}

func (SiteRosterResult) Kind() string { return "site_roster" }

// HelpResult は対応している意図の一覧です。
type HelpResult struct {
	Help    bool            `json:"help"`
	Intents []intent.Intent `json:"intents"`
}

func (HelpResult) Kind() string { return "help" }

// RolloverStatus は行ごとの繰り越し結果です。
type RolloverStatus string

const (
	RolloverOK       RolloverStatus = "ok"
	RolloverSkipped  RolloverStatus = "skipped"
	RolloverNotFound RolloverStatus = "not_found"
)

// RolloverItem は 1 行分の繰り越し結果です。
type RolloverItem struct {
	ID      string         `json:"id"`
	Status  RolloverStatus `json:"status"`
	Updated []string       `json:"updated,omitempty"`
}

// RolloverResult は繰り越し全体の結果です。
type RolloverResult struct {
	Table      string         `json:"table"`
	FromYear   int            `json:"from_year"`
	ToYear     int            `json:"to_year"`
	Department string         `json:"dept,omitempty"`
	Mode       RolloverMode   `json:"mode"`
	Results    []RolloverItem `json:"results"`
}

func (RolloverResult) Kind() string { return "rollover" }
