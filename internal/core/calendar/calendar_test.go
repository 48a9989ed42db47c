package calendar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnName_SpellingsShareColumn(t *testing.T) {
	t.Parallel()

	groups := map[string][]string{
		"mrz_2027": {"März", "maerz", " MRZ ", "Marz"},
		"jan_2027": {"Januar", "jan", "Jänner", "JAN."},
		"dez_2027": {"Dezember", "dez"},
		"sep_2027": {"September", "Sept", "sep"},
	}

	for want, spellings := range groups {
		for _, s := range spellings {
			got, err := ColumnName(s, 2027)
			require.NoError(t, err, s)
			assert.Equal(t, want, got, s)
		}
	}
}

func TestCode_Unknown(t *testing.T) {
	t.Parallel()

	_, err := Code("Brumaire")
	if !errors.Is(err, ErrUnknownMonth) {
		t.Fatalf("expected ErrUnknownMonth, got %v", err)
	}

	if _, err := ColumnName("", 2026); !errors.Is(err, ErrUnknownMonth) {
		t.Fatalf("expected ErrUnknownMonth for empty month, got %v", err)
	}
}

func TestIndex(t *testing.T) {
	t.Parallel()

	cases := map[string]int{"januar": 0, "März": 2, "mai": 4, "Oktober": 9, "dez": 11}
	for name, want := range cases {
		got, err := Index(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestColumns(t *testing.T) {
	t.Parallel()

	cols := Columns(2028)
	require.Len(t, cols, MonthsPerYear)
	assert.Equal(t, "jan_2028", cols[0])
	assert.Equal(t, "dez_2028", cols[11])

	cols[0] = "mutated"
	assert.Equal(t, "jan", Codes()[0], "Codes must not share backing storage")
}

func TestColumnsBetween(t *testing.T) {
	t.Parallel()

	cols, err := ColumnsBetween(2, 4, 2026)
	require.NoError(t, err)
	assert.Equal(t, []string{"mrz_2026", "apr_2026", "mai_2026"}, cols)

	_, err = ColumnsBetween(5, 3, 2026)
	assert.ErrorIs(t, err, ErrUnknownMonth)

	_, err = ColumnsBetween(0, 12, 2026)
	assert.ErrorIs(t, err, ErrUnknownMonth)
}

func TestCodeAt(t *testing.T) {
	t.Parallel()

	code, err := CodeAt(6)
	require.NoError(t, err)
	assert.Equal(t, "jul", code)

	_, err = CodeAt(-1)
	assert.ErrorIs(t, err, ErrUnknownMonth)
}
