package crud

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
)

func TestTotalPriceRecomputesOnEverySet(t *testing.T) {
	f := NewForm(schemaOf(t, modules.SalesMeat), nil)
	assert.Equal(t, "", f.Value("total_price"))

	require.NoError(t, f.Set("live_weight", "10"))
	assert.Equal(t, "", f.Value("total_price"))
	require.NoError(t, f.Set("price_per_kg", "5000"))
	assert.Equal(t, "50000", f.Value("total_price"))
	require.NoError(t, f.Set("live_weight", "12"))
	assert.Equal(t, "60000", f.Value("total_price"))

	assert.NotContains(t, f.Payload(), "total_price")
}

func TestMonthlySummaryComputedFields(t *testing.T) {
	f := NewForm(schemaOf(t, modules.MonthlySummaries), nil)
	for name, value := range map[string]string{
		"opening_goats": "50", "births": "3", "purchases": "1", "deaths": "1",
		"sold_breeding": "2", "sold_meat": "1",
		"total_income_ugx": "200000", "total_expenses_ugx": "150000",
	} {
		require.NoError(t, f.Set(name, value))
	}
	assert.Equal(t, "50", f.Value("closing_goats"))
	assert.Equal(t, "50000.00", f.Value("net_profit_ugx"))
	assert.Equal(t, map[string]string{"closing_goats": "50", "net_profit_ugx": "50000.00"}, f.Computed())
}

func TestRequiredFieldsGateSubmit(t *testing.T) {
	f := NewForm(schemaOf(t, modules.Breeding), nil)
	require.NoError(t, f.Set("doe_id", "GT-1"))

	calls := 0
	submit := func(context.Context, models.Record) error {
		calls++
		return nil
	}

	err := f.Submit(context.Background(), submit)
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"mating_time"}, missing.Fields)
	assert.Zero(t, calls)

	require.NoError(t, f.Set("mating_time", "2026-10-01T08:30"))
	require.NoError(t, f.Set("doe_id", "  "))
	require.ErrorAs(t, f.Submit(context.Background(), submit), &missing)
	assert.Equal(t, []string{"doe_id"}, missing.Fields)
	assert.Zero(t, calls)

	require.NoError(t, f.Set("doe_id", "GT-1"))
	require.NoError(t, f.Submit(context.Background(), submit))
	assert.Equal(t, 1, calls)
}

func TestReentrantSubmitIsDropped(t *testing.T) {
	f := NewForm(schemaOf(t, modules.Coffee), nil)
	require.NoError(t, f.Set("date", "2026-10-19"))
	require.NoError(t, f.Set("activity", "Weeding"))

	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	slow := func(context.Context, models.Record) error {
		mu.Lock()
		calls++
		mu.Unlock()
		close(entered)
		<-release
		return nil
	}

	done := make(chan error)
	go func() { done <- f.Submit(context.Background(), slow) }()
	<-entered

	assert.True(t, f.Submitting())
	assert.ErrorIs(t, f.Submit(context.Background(), slow), ErrSubmitInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.Submitting())
	assert.Equal(t, 1, calls)
}

func TestCreateResetsDraftButEditKeepsIt(t *testing.T) {
	f := NewForm(schemaOf(t, modules.Coffee), nil)
	require.NoError(t, f.Set("date", "2026-10-19"))
	require.NoError(t, f.Set("activity", "Harvest"))

	var sent models.Record
	require.NoError(t, f.Submit(context.Background(), func(_ context.Context, rec models.Record) error {
		sent = rec
		return nil
	}))
	assert.Equal(t, models.Record{"date": "2026-10-19", "activity": "Harvest"}, sent)
	assert.Equal(t, "", f.Value("activity"))

	edit := NewForm(schemaOf(t, modules.Coffee), models.Record{"coffee_id": "CF-1", "date": "2026-10-19", "activity": "Harvest", "plot": "A"})
	require.NoError(t, edit.Set("plot", ""))
	require.NoError(t, edit.Submit(context.Background(), func(_ context.Context, rec models.Record) error {
		sent = rec
		return nil
	}))
	assert.Equal(t, "", sent["plot"])
	assert.Equal(t, "CF-1", sent["coffee_id"])
	assert.Equal(t, "Harvest", edit.Value("activity"))
}

func TestFailedSubmitKeepsDraft(t *testing.T) {
	f := NewForm(schemaOf(t, modules.Coffee), nil)
	require.NoError(t, f.Set("date", "2026-10-19"))
	require.NoError(t, f.Set("activity", "Pruning"))

	err := f.Submit(context.Background(), func(context.Context, models.Record) error { return errors.New("offline") })
	assert.EqualError(t, err, "offline")
	assert.Equal(t, "Pruning", f.Value("activity"))
	assert.False(t, f.Submitting())
}

func TestEditModeLocksIdentifyingField(t *testing.T) {
	f := NewForm(schemaOf(t, modules.Goats), models.Record{
		"goat_id":       "GT-5",
		"date_of_birth": "2025-02-03T00:00:00Z",
		"birth_weight":  3.5,
		"photo":         "data:image/jpeg;base64,AAAA",
	})
	assert.True(t, f.Editing())
	assert.ErrorIs(t, f.Set("goat_id", "GT-6"), ErrLockedField)
	assert.ErrorIs(t, f.Set("colour", "brown"), ErrUnknownField)

	assert.Equal(t, "GT-5", f.Value("goat_id"))
	assert.Equal(t, "2025-02-03", f.Value("date_of_birth"))
	assert.Equal(t, "3.5", f.Value("birth_weight"))
	assert.Equal(t, "", f.Value("name"))
	assert.NotContains(t, f.Payload(), "photo")
}

func TestDateTimeSeeding(t *testing.T) {
	f := NewForm(schemaOf(t, modules.Breeding), models.Record{"breeding_id": "BR-1", "mating_time": "2026-09-30T14:05:00.000Z"})
	assert.Equal(t, "2026-09-30T14:05", f.Value("mating_time"))
}

func TestReminderTripleTravelsWithPayload(t *testing.T) {
	f := NewForm(schemaOf(t, modules.Vaccinations), nil)
	f.SetReminder("2026-11-01", "Booster")
	payload := f.Payload()
	assert.Equal(t, true, payload[models.KeySetReminder])
	assert.Equal(t, "2026-11-01", payload[models.KeyReminderDate])

	noReminders := NewForm(schemaOf(t, modules.Expenses), nil)
	noReminders.SetReminder("2026-11-01", "ignored")
	assert.NotContains(t, noReminders.Payload(), models.KeySetReminder)
}

func TestCancelInvokesCallbackOnly(t *testing.T) {
	f := NewForm(schemaOf(t, modules.Coffee), nil)
	cancelled := false
	f.Cancel(func() { cancelled = true })
	assert.True(t, cancelled)
}

func TestRestrictedFieldRejectsOtherValues(t *testing.T) {
	f := NewForm(schemaOf(t, modules.SalesMeat), nil)
	require.NoError(t, f.Set("goat_id", "GT-5"))

	f.Restrict("goat_id", []string{"GT-1", "GT-2"})
	err := f.Set("goat_id", "GT-5")
	require.ErrorIs(t, err, ErrNotSelectable)
	assert.Contains(t, err.Error(), "GT-5")
	require.NoError(t, f.Set("goat_id", "GT-2"))
	assert.Equal(t, "GT-2", f.Value("goat_id"))
	assert.Nil(t, f.Options("live_weight"))
}
