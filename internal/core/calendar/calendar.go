// Package calendar は月名と月別配分カラムの対応を扱います。
package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMonth は解釈できない月名を表します。
var ErrUnknownMonth = errors.New("calendar: unknown month")

// MonthsPerYear は 1 計画年あたりの月数です。
const MonthsPerYear = 12

var codes = [MonthsPerYear]string{"jan", "feb", "mrz", "apr", "mai", "jun", "jul", "aug", "sep", "okt", "nov", "dez"}

// 表記ゆれ（略記・ウムラウトの転写）を含む月名 → コード。
var aliases = map[string]string{
	"januar":    "jan",
	"jänner":    "jan",
	"jaenner":   "jan",
	"jan":       "jan",
	"februar":   "feb",
	"feber":     "feb",
	"feb":       "feb",
	"märz":      "mrz",
	"maerz":     "mrz",
	"marz":      "mrz",
	"mrz":       "mrz",
	"mär":       "mrz",
	"april":     "apr",
	"apr":       "apr",
	"mai":       "mai",
	"juni":      "jun",
	"jun":       "jun",
	"juli":      "jul",
	"jul":       "jul",
	"august":    "aug",
	"aug":       "aug",
	"september": "sep",
	"sept":      "sep",
	"sep":       "sep",
	"oktober":   "okt",
	"okt":       "okt",
	"november":  "nov",
	"nov":       "nov",
	"dezember":  "dez",
	"dez":       "dez",
}

var indexByCode = func() map[string]int {
	m := make(map[string]int, MonthsPerYear)
	for i, c := range codes {
		m[c] = i
	}
	return m
}()

// Code は月名を 3 文字のコードへ変換します。大文字小文字と前後の空白は無視します。
func Code(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, ".")
	if code, ok := aliases[key]; ok {
		return code, nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownMonth)
}

// Index は月名を 0 始まりの月インデックスへ変換します。
func Index(name string) (int, error) {
	code, err := Code(name)
	if err != nil {
		return 0, err
	}
	return indexByCode[code], nil
}

// CodeAt は 0 始まりのインデックスに対応するコードを返します。
func CodeAt(idx int) (string, error) {
	if idx < 0 || idx >= MonthsPerYear {
		return "", fmt.Errorf("month index %d: %w", idx, ErrUnknownMonth)
	}
	return codes[idx], nil
}

// Codes は暦順のコード一覧を返します。
func Codes() []string {
	out := make([]string, MonthsPerYear)
	copy(out, codes[:])
	return out
}

// ColumnName は "<code>_<year>" 形式のカラム名を返します。
func ColumnName(month string, year int) (string, error) {
	code, err := Code(month)
	if err != nil {
		return "", err
	}
	return column(code, year), nil
}

// Columns は指定年の 12 カラムを暦順で返します。
func Columns(year int) []string {
	out := make([]string, 0, MonthsPerYear)
	for _, c := range codes {
		out = append(out, column(c, year))
	}
	return out
}

// ColumnsBetween は from..to（0 始まり、両端含む）のカラムを返します。
func ColumnsBetween(from, to, year int) ([]string, error) {
	if from < 0 || to >= MonthsPerYear || from > to {
		return nil, fmt.Errorf("month range %d..%d: %w", from, to, ErrUnknownMonth)
	}
	out := make([]string, 0, to-from+1)
	for _, c := range codes[from : to+1] {
		out = append(out, column(c, year))
	}
	return out, nil
}

func column(code string, year int) string {
	return fmt.Sprintf("%s_%d", code, year)
}
