package staffing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction は相対調整の符号です。
type Direction int

const (
	Decrease Direction = -1
	Increase Direction = 1
)

var directions = map[string]Direction{
	"reduzieren": Decrease,
	"verringern": Decrease,
	"senken":     Decrease,
	"runter":     Decrease,
	"decrease":   Decrease,
	"erhöhen":    Increase,
	"erhoehen":   Increase,
	"aufstocken": Increase,
	"hoch":       Increase,
	"increase":   Increase,
}

// ParseDirection は方向語を Direction に変換します。
func ParseDirection(raw string) (Direction, error) {
	d, ok := directions[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return 0, fmt.Errorf("%q: %w", raw, ErrInvalidDirection)
	}
	return d, nil
}

// Apply は数値に含まれる符号を捨て、方向の符号を付けます。
func (d Direction) Apply(magnitude decimal.Decimal) decimal.Decimal {
	abs := magnitude.Abs()
	if d == Decrease {
		return abs.Neg()
	}
	return abs
}

func (d Direction) String() string {
	if d == Decrease {
		return "decrease"
	}
	return "increase"
}

// ParseNumeral は小数点としてのカンマを受け付けて 10 進数を解釈します。
func ParseNumeral(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if normalized == "" {
		return decimal.Zero, fmt.Errorf("empty: %w", ErrMalformedNumeral)
	}
	v, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q: %w", raw, ErrMalformedNumeral)
	}
	return v, nil
}

const germanDateLayout = "2.1.2006"

// ParseDate は D.M.YYYY 形式の日付を解釈します。
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(germanDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", raw, ErrInvalidDate)
	}
	return t, nil
}
