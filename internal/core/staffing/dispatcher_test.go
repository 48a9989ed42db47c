package staffing

import (
	"context"
	"testing"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/intent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_ResolveYear(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(newFakeStaffingRepo())
	d := NewDispatcher(svc)
	requested := 2028

	year, explicit, err := d.ResolveYear(intent.Fields{intent.FieldYear: "2027"}, &requested)
	require.NoError(t, err)
	assert.Equal(t, 2027, year)
	require.NotNil(t, explicit)
	assert.Equal(t, 2027, *explicit)

	year, explicit, err = d.ResolveYear(intent.Fields{}, &requested)
	require.NoError(t, err)
	assert.Equal(t, 2028, year)
	require.NotNil(t, explicit)

	year, explicit, err = d.ResolveYear(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, fixedNow().Year(), year)
	assert.Nil(t, explicit)

	_, _, err = d.ResolveYear(intent.Fields{intent.FieldYear: "zwanzig"}, nil)
	assert.ErrorIs(t, err, ErrInvalidPlanYear)
}

func TestDispatcher_CoversEveryIntent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(newFakeStaffingRepo())
	d := NewDispatcher(svc)

	for _, in := range intent.Intents() {
		assert.True(t, d.Supports(in), "no handler for %s", in)
	}

	_, err := d.Dispatch(context.Background(), DispatchInput{Table: testTable, Command: intent.Command{Intent: "delete_everything"}})
	assert.ErrorIs(t, err, ErrUnsupportedIntent)
}

func TestDispatcher_MissingNameNeverTouchesStorage(t *testing.T) {
	t.Parallel()

	repo := newFakeStaffingRepo()
	svc, tx := newTestService(repo)
	d := NewDispatcher(svc)

	cmd, ok := intent.Parse("Ein Mitarbeiter möchte zum März 2026 seinen Stellenanteil um 0,5 VK reduzieren")
	require.True(t, ok)

	_, err := d.Dispatch(context.Background(), DispatchInput{Table: testTable, Command: cmd})
	assert.ErrorIs(t, err, ErrMissingEmployeeName)
	assert.Zero(t, repo.selects)
	assert.Zero(t, tx.readWrite)
}

func TestDispatcher_FieldYearWinsOverRequestYear(t *testing.T) {
	t.Parallel()

	repo := newFakeStaffingRepo()
	id2027 := repo.add("Martin Kohn", "", "Station 1", 2027, map[string]string{"jan_2027": "0.5"})
	repo.add("Martin Kohn", "", "Station 1", 2026, map[string]string{"jan_2026": "0.5"})
	svc, _ := newTestService(repo)
	d := NewDispatcher(svc)
	requested := 2026

	cmd, ok := intent.Parse("Mitarbeiter Martin Kohn möchte zum Januar 2027 seinen Stellenanteil um 0,3 VK reduzieren")
	require.True(t, ok)

	result, err := d.Dispatch(context.Background(), DispatchInput{Table: testTable, Command: cmd, Year: &requested})
	require.NoError(t, err)

	change, ok := result.(*AllocationChange)
	require.True(t, ok, "unexpected result type %T", result)
	assert.Equal(t, id2027, change.RecordID)
	assert.Equal(t, "jan_2027", change.Column)
	assert.True(t, repo.value(id2027, "jan_2027").Decimal.Equal(dec("0.2")))
}

func TestDispatcher_RoundTrip(t *testing.T) {
	t.Parallel()

	repo := newFakeStaffingRepo()
	repo.add("Frau Schulz", "", "Station 2", 2028, uniform(2028, "0.9"))
	svc, _ := newTestService(repo)
	d := NewDispatcher(svc)
	ctx := context.Background()

	cmd, ok := intent.Parse("Setze Frau Schulz ab März 2028 auf 0,8 VK.")
	require.True(t, ok)
	result, err := d.Dispatch(ctx, DispatchInput{Table: testTable, Command: cmd})
	require.NoError(t, err)
	change := result.(*AllocationChange)
	assert.Equal(t, "allocation_change", result.Kind())

	query, ok := intent.Parse("Wie viele VK hat Frau Schulz im Jahr 2028?")
	require.True(t, ok)
	reread, err := d.Dispatch(ctx, DispatchInput{Table: testTable, Command: query})
	require.NoError(t, err)

	fte := reread.(*PersonFTEResult)
	assert.True(t, fte.Months[2].Value.Equal(change.NewValue), "stored %s, returned %s", fte.Months[2].Value, change.NewValue)
	assert.Equal(t, "mrz_2028", fte.Months[2].Column)
}

func TestDispatcher_LookupsNarrowOnlyOnExplicitYear(t *testing.T) {
	t.Parallel()

	repo := newFakeStaffingRepo()
	repo.add("Max Muster", "4711", "IMC", 2026, nil)
	repo.add("Max Muster", "4711", "Station 3", 2027, nil)
	svc, _ := newTestService(repo)
	d := NewDispatcher(svc)
	ctx := context.Background()

	cmd, ok := intent.Parse("Wo arbeitet Max Muster?")
	require.True(t, ok)

	result, err := d.Dispatch(ctx, DispatchInput{Table: testTable, Command: cmd})
	require.NoError(t, err)
	assert.Len(t, result.(*StationResult).Stations, 2)

	year := 2027
	result, err = d.Dispatch(ctx, DispatchInput{Table: testTable, Command: cmd, Year: &year})
	require.NoError(t, err)
	stations := result.(*StationResult).Stations
	require.Len(t, stations, 1)
	assert.Equal(t, "Station 3", stations[0].Department)
}

func TestDispatcher_TransferAndHelp(t *testing.T) {
	t.Parallel()

	repo := newFakeStaffingRepo()
	repo.add("Lena Vogt", "", "Station 1", 2028, nil)
	svc, _ := newTestService(repo)
	d := NewDispatcher(svc)
	ctx := context.Background()

	cmd, ok := intent.Parse("Verschiebe Lena Vogt ab 2028 auf Station 3")
	require.True(t, ok)
	result, err := d.Dispatch(ctx, DispatchInput{Table: testTable, Command: cmd})
	require.NoError(t, err)
	transfer := result.(*TransferChange)
	assert.Equal(t, "2028", transfer.EffectiveFrom)
	assert.Equal(t, "Station 3", transfer.NewDepartment)

	help, ok := intent.Parse("hilfe")
	require.True(t, ok)
	result, err = d.Dispatch(ctx, DispatchInput{Table: testTable, Command: help})
	require.NoError(t, err)
	assert.Equal(t, "help", result.Kind())
}
