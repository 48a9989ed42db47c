// Package intent は自然文のコマンドを固定の意図集合へ分類します。
package intent

import "strings"

// Intent はコマンドの意図を表します。
type Intent string

const (
	AdjustRelative            Intent = "adjust_person_fte_rel_full"
	AdjustRelativeMissingName Intent = "adjust_person_fte_rel_missing_name"
	AdjustAbsolute            Intent = "adjust_person_fte_abs_full"
	AdjustRange               Intent = "adjust_person_fte_range"
	TransferByDate            Intent = "transfer_staff_unit"
	TransferByYear            Intent = "move_employee_to_station_year"
	ExcludeFromPlanning       Intent = "exclude_employee_year"
	CheckPersonnelNumber      Intent = "check_employee_by_personal_number"
	StationByPersonnelNumber  Intent = "get_station_by_personal_number"
	CheckEmployeeExists       Intent = "check_employee_works_here"
	EmployeeStation           Intent = "get_employee_station"
	ListDepartment            Intent = "list_employees_on_station"
	EmployeeFTEYear           Intent = "get_employee_vks_year"
	DepartmentFTEYear         Intent = "get_station_vks_year"
	ListSiteYear              Intent = "list_employees_site_year"
	Help                      Intent = "assistant_help"
)

// フィールド名。
const (
	FieldName            = "name"
	FieldMonth           = "month"
	FieldYear            = "year"
	FieldAmount          = "amount"
	FieldDirection       = "direction"
	FieldDepartment      = "department"
	FieldFrom            = "from"
	FieldTo              = "to"
	FieldDate            = "date"
	FieldPersonnelNumber = "personnel_number"
	FieldSite            = "site"
	FieldReason          = "reason"
)

var mutating = map[Intent]bool{
	AdjustRelative:            true,
	AdjustRelativeMissingName: true,
	AdjustAbsolute:            true,
	AdjustRange:               true,
	TransferByDate:            true,
	TransferByYear:            true,
	ExcludeFromPlanning:       true,
}

// IsMutation は書き込みを伴う意図かどうかを返します。
func (i Intent) IsMutation() bool {
	return mutating[i]
}

// Fields は抽出されたフィールドです。値は前後の空白を除いた生の文字列です。
type Fields map[string]string

// Get はフィールド値を返します。存在しなければ空文字列です。
func (f Fields) Get(key string) string {
	if f == nil {
		return ""
	}
	return strings.TrimSpace(f[key])
}

// Has は空でない値が存在するかを返します。
func (f Fields) Has(key string) bool {
	return f.Get(key) != ""
}

// Command はパース済みのコマンドです。
type Command struct {
	Intent Intent `json:"intent"`
	Fields Fields `json:"fields"`
}
