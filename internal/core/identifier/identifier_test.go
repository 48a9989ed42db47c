package identifier

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_Accepts(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"stellenplan_employees_gfodin", "jan_2026", "A", "_x_", "T1"} {
		got, err := Validate(id)
		if err != nil {
			t.Fatalf("Validate(%q) returned error: %v", id, err)
		}
		again, err := Validate(got)
		if err != nil || again != id {
			t.Fatalf("Validate must be idempotent for %q, got %q, %v", id, again, err)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()

	bad := []string{
		"",
		"employees; DROP TABLE x",
		"name\"",
		"dept-1",
		"mrz 2026",
		"märz_2026",
		"public.employees",
		strings.Repeat("a", MaxLength+1),
	}
	for _, id := range bad {
		if _, err := Validate(id); !errors.Is(err, ErrInvalidIdentifier) {
			t.Fatalf("expected ErrInvalidIdentifier for %q, got %v", id, err)
		}
	}
}

func TestValidateAll(t *testing.T) {
	t.Parallel()

	if err := ValidateAll([]string{"jan_2026", "feb_2026"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateAll([]string{"jan_2026", "x)--"}); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	got, err := Quote("jan_2026")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `"jan_2026"` {
		t.Fatalf("expected quoted identifier, got %s", got)
	}

	if _, err := Quote(`x"; DROP TABLE y; --`); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}

	all, err := QuoteAll([]string{"a", "b_1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(all, ",") != `"a","b_1"` {
		t.Fatalf("unexpected quoted list: %v", all)
	}
}
