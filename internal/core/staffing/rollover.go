package staffing

import (
	"context"
	"fmt"
	"strings"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/calendar"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/identifier"
)

// RolloverMode は繰り越し先の既存値の扱いです。
type RolloverMode string

const (
	// RolloverFill は繰り越し先が NULL の月だけを埋めます。
	RolloverFill RolloverMode = "fill"
	// RolloverOverwrite は繰り越し先を常に上書きします。
	RolloverOverwrite RolloverMode = "overwrite"
)

// RolloverInput は年次繰り越しの入力です。
type RolloverInput struct {
	Table      string
	FromYear   int
	ToYear     int
	Department string
	IDs        []string
	Mode       RolloverMode
}

// Rollover は指定行の FromYear の月別配分を ToYear のカラムへコピーします。
func (s *Service) Rollover(ctx context.Context, in RolloverInput) (*RolloverResult, error) {
	table, err := identifier.Validate(in.Table)
	if err != nil {
		return nil, err
	}
	mode, err := normalizeRolloverMode(in.Mode)
	if err != nil {
		return nil, err
	}
	if err := s.years.Check(in.FromYear); err != nil {
		return nil, err
	}
	if err := s.years.Check(in.ToYear); err != nil {
		return nil, err
	}
	if in.FromYear >= in.ToYear {
		return nil, fmt.Errorf("%d -> %d must move forward: %w", in.FromYear, in.ToYear, ErrInvalidRollover)
	}
	ids := normalizeIDs(in.IDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("ids required: %w", ErrInvalidRollover)
	}
	department := strings.TrimSpace(in.Department)

	source := calendar.Columns(in.FromYear)
	target := calendar.Columns(in.ToYear)
	columns := append(append([]string{}, source...), target...)

	result := &RolloverResult{
		Table:      table,
		FromYear:   in.FromYear,
		ToYear:     in.ToYear,
		Department: department,
		Mode:       mode,
		Results:    make([]RolloverItem, 0, len(ids)),
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		for _, id := range ids {
			rows, err := s.repo.FindAllocations(txCtx, AllocationQuery{
				Table:   table,
				Filter:  Filter{IDs: []string{id}, Department: department, ForUpdate: true},
				Columns: columns,
			})
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				result.Results = append(result.Results, RolloverItem{ID: id, Status: RolloverNotFound})
				continue
			}

			row := rows[0]
			var updates []ColumnValue
			for i, column := range target {
				from := row.Values[i]
				to := row.Values[len(source)+i]
				if mode == RolloverFill && (to.Valid || !from.Valid) {
					continue
				}
				updates = append(updates, ColumnValue{Column: column, Value: from})
			}
			if len(updates) == 0 {
				result.Results = append(result.Results, RolloverItem{ID: id, Status: RolloverSkipped})
				continue
			}

			if err := s.repo.UpdateAllocations(txCtx, table, row.RecordID, updates, now); err != nil {
				return err
			}
			updated := make([]string, len(updates))
			for i, u := range updates {
				updated[i] = u.Column
			}
			result.Results = append(result.Results, RolloverItem{ID: id, Status: RolloverOK, Updated: updated})
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func normalizeRolloverMode(mode RolloverMode) (RolloverMode, error) {
	switch RolloverMode(strings.ToLower(strings.TrimSpace(string(mode)))) {
	case "", RolloverFill:
		return RolloverFill, nil
	case RolloverOverwrite:
		return RolloverOverwrite, nil
	default:
		return "", fmt.Errorf("mode %q: %w", mode, ErrInvalidRollover)
	}
}

func normalizeIDs(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
