package staffing

import (
	"context"
	"errors"
	"testing"
)

func TestService_RolloverFillOnlyNullTargets(t *testing.T) {
	t.Parallel()

	repo := newFakeStaffingRepo()
	values := uniform(2026, "0.5")
	for column, v := range uniform(2027, "") {
		values[column] = v
	}
	values["jan_2027"] = "1"
	filled := repo.add("Max Muster", "", "IMC", 2026, values)
	complete := repo.add("Erika Beispiel", "", "IMC", 2026, mergeValues(uniform(2026, "0.5"), uniform(2027, "0.7")))
	svc, _ := newTestService(repo)

	result, err := svc.Rollover(context.Background(), RolloverInput{
		Table:    testTable,
		FromYear: 2026,
		ToYear:   2027,
		IDs:      []string{filled, complete, "missing", filled},
	})
	if err != nil {
		t.Fatalf("Rollover returned error: %v", err)
	}
	if result.Mode != RolloverFill || len(result.Results) != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}

	if result.Results[0].Status != RolloverOK || len(result.Results[0].Updated) != 11 {
		t.Fatalf("expected eleven filled months, got %+v", result.Results[0])
	}
	if got := repo.value(filled, "jan_2027"); !got.Decimal.Equal(dec("1")) {
		t.Fatalf("existing target must be kept in fill mode, got %v", got)
	}
	if got := repo.value(filled, "feb_2027"); !got.Decimal.Equal(dec("0.5")) {
		t.Fatalf("null target must be filled, got %v", got)
	}
	if result.Results[1].Status != RolloverSkipped {
		t.Fatalf("expected skipped, got %+v", result.Results[1])
	}
	if result.Results[2].Status != RolloverNotFound || result.Results[2].ID != "missing" {
		t.Fatalf("expected not_found, got %+v", result.Results[2])
	}
}

func TestService_RolloverOverwrite(t *testing.T) {
	t.Parallel()

	repo := newFakeStaffingRepo()
	id := repo.add("Max Muster", "", "IMC", 2026, mergeValues(uniform(2026, "0.5"), uniform(2028, "1")))
	svc, _ := newTestService(repo)

	result, err := svc.Rollover(context.Background(), RolloverInput{
		Table:      testTable,
		FromYear:   2026,
		ToYear:     2028,
		Department: "imc",
		IDs:        []string{id},
		Mode:       RolloverOverwrite,
	})
	if err != nil {
		t.Fatalf("Rollover returned error: %v", err)
	}
	if result.Results[0].Status != RolloverOK || len(result.Results[0].Updated) != 12 {
		t.Fatalf("unexpected item: %+v", result.Results[0])
	}
	if got := repo.value(id, "dez_2028"); !got.Decimal.Equal(dec("0.5")) {
		t.Fatalf("expected overwrite, got %v", got)
	}

	other, err := svc.Rollover(context.Background(), RolloverInput{
		Table:      testTable,
		FromYear:   2026,
		ToYear:     2028,
		Department: "Station 1",
		IDs:        []string{id},
	})
	if err != nil {
		t.Fatalf("Rollover returned error: %v", err)
	}
	if other.Results[0].Status != RolloverNotFound {
		t.Fatalf("department filter must exclude the row, got %+v", other.Results[0])
	}
}

func TestService_RolloverValidation(t *testing.T) {
	t.Parallel()

	repo := newFakeStaffingRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RolloverInput
		want error
	}{
		{name: "backwards", in: RolloverInput{Table: testTable, FromYear: 2028, ToYear: 2027, IDs: []string{"a"}}, want: ErrInvalidRollover},
		{name: "same year", in: RolloverInput{Table: testTable, FromYear: 2027, ToYear: 2027, IDs: []string{"a"}}, want: ErrInvalidRollover},
		{name: "no ids", in: RolloverInput{Table: testTable, FromYear: 2026, ToYear: 2027, IDs: []string{" "}}, want: ErrInvalidRollover},
		{name: "bad mode", in: RolloverInput{Table: testTable, FromYear: 2026, ToYear: 2027, IDs: []string{"a"}, Mode: "merge"}, want: ErrInvalidRollover},
		{name: "outside plan years", in: RolloverInput{Table: testTable, FromYear: 2031, ToYear: 2032, IDs: []string{"a"}}, want: ErrInvalidPlanYear},
	}
	for _, tc := range cases {
		if _, err := svc.Rollover(ctx, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if repo.selects != 0 {
		t.Fatalf("validation failures must not touch storage")
	}
}

func mergeValues(parts ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, p := range parts {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}
