package staffing

import "fmt"

const (
	DefaultFirstPlanYear = 2026
	DefaultPlanYearCount = 6
)

// PlanYears は対応する計画年の連続した範囲です。
type PlanYears struct {
	first int
	count int
}

// NewPlanYears は first から count 年分の範囲を返します。count が 0 以下なら既定値を使います。
func NewPlanYears(first, count int) PlanYears {
	if first <= 0 {
		first = DefaultFirstPlanYear
	}
	if count <= 0 {
		count = DefaultPlanYearCount
	}
	return PlanYears{first: first, count: count}
}

// DefaultPlanYears は 2026 年から 6 年分です。
func DefaultPlanYears() PlanYears {
	return NewPlanYears(DefaultFirstPlanYear, DefaultPlanYearCount)
}

func (p PlanYears) First() int { return p.first }

func (p PlanYears) Last() int { return p.first + p.count - 1 }

// Contains は year が範囲内かを返します。
func (p PlanYears) Contains(year int) bool {
	return year >= p.first && year <= p.Last()
}

// Years は範囲内の年を昇順で返します。
func (p PlanYears) Years() []int {
	out := make([]int, 0, p.count)
	for y := p.first; y <= p.Last(); y++ {
		out = append(out, y)
	}
	return out
}

// Check は範囲外の年に対して ErrInvalidPlanYear を返します。
func (p PlanYears) Check(year int) error {
	if !p.Contains(year) {
		return fmt.Errorf("%d (supported %d-%d): %w", year, p.first, p.Last(), ErrInvalidPlanYear)
	}
	return nil
}
