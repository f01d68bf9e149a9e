package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
	"github.com/mamadbah2/hannan/internal/repository/memory"
)

type stubMirror struct {
	appended []string
	err      error
}

func (m *stubMirror) AppendRecord(_ context.Context, schema models.Schema, rec models.Record) error {
	m.appended = append(m.appended, schema.Module+":"+schema.ID(rec))
	return m.err
}

func newTestService(t *testing.T) (*Service, *stubMirror) {
	t.Helper()
	mirror := &stubMirror{}
	svc := NewService(memory.NewStore(), mirror, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	seq := 0
	svc.newID = func(prefix string) string {
		seq++
		return prefix + "-" + string(rune('0'+seq))
	}
	return svc, mirror
}

func TestCreateThenListContainsExactlyOne(t *testing.T) {
	ctx := context.Background()
	svc, mirror := newTestService(t)

	rec, err := svc.Create(ctx, modules.Goats, models.Record{
		"goat_id":       " gt-014 ",
		"breed":         "Boer",
		"sex":           "female",
		"date_of_birth": "2025-03-04T00:00:00.000Z",
		"status":        "Active",
		"birth_weight":  "3.2",
		"age":           "derived values are dropped",
	})
	require.NoError(t, err)
	assert.Equal(t, "GT-014", rec["goat_id"])
	assert.Equal(t, "Female", rec["sex"])
	assert.Equal(t, "2025-03-04", rec["date_of_birth"])
	assert.Equal(t, 3.2, rec["birth_weight"])
	assert.NotContains(t, rec, "age")

	list, err := svc.List(ctx, modules.Goats)
	require.NoError(t, err)
	var matches int
	for _, r := range list {
		if r["goat_id"] == "GT-014" {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
	assert.Equal(t, []string{"goats:GT-014"}, mirror.appended)

	require.NoError(t, svc.Delete(ctx, modules.Goats, "gt-014"))
	list, err = svc.List(ctx, modules.Goats)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateAssignsIDWhenBlank(t *testing.T) {
	svc, _ := newTestService(t)
	rec, err := svc.Create(context.Background(), modules.Expenses, models.Record{
		"date":        "2026-09-01",
		"category":    "Feed",
		"description": "Maize bran",
		"amount_ugx":  120000,
	})
	require.NoError(t, err)
	assert.Equal(t, "EX-1", rec["expense_id"])
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	svc, mirror := newTestService(t)
	_, err := svc.Create(context.Background(), modules.Breeding, models.Record{"doe_id": "GT-1", "mating_time": ""})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"mating_time": "is required"}, verr.Fields)
	assert.Empty(t, mirror.appended)
}

func TestCreateRejectsMalformedValues(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), modules.SalesMeat, models.Record{
		"goat_id":        "GT-1",
		"sale_date":      "yesterday",
		"live_weight":    "heavy",
		"price_per_kg":   "-5",
		"payment_method": "barter",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a date", verr.Fields["sale_date"])
	assert.Equal(t, "must be a number", verr.Fields["live_weight"])
	assert.Equal(t, "must not be negative", verr.Fields["price_per_kg"])
	assert.Contains(t, verr.Fields["payment_method"], "must be one of")

	_, err = svc.Create(context.Background(), modules.Expenses, models.Record{
		"date":        "2024-02-30",
		"category":    "Feed",
		"description": "Maize bran",
		"amount_ugx":  "1000",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a date", verr.Fields["date"])
}

func TestCreateCanonicalisesEnumCase(t *testing.T) {
	svc, _ := newTestService(t)
	rec, err := svc.Create(context.Background(), modules.Expenses, models.Record{
		"date":           "2025-03-02",
		"category":       "Feed",
		"description":    "Maize bran",
		"amount_ugx":     "1000",
		"payment_method": "mobile money",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mobile Money", rec["payment_method"])
}

func TestCreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	goat := models.Record{"goat_id": "GT-1", "breed": "Boer", "sex": "Male", "date_of_birth": "2025-01-01", "status": "Active"}

	_, err := svc.Create(ctx, modules.Goats, goat)
	require.NoError(t, err)
	_, err = svc.Create(ctx, modules.Goats, goat)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestCreateWithReminderCreatesReminderRecord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	rec, err := svc.Create(ctx, modules.Vaccinations, models.Record{
		"goat_id":                     "GT-1",
		"vaccine_name":                "PPR",
		"date_administered":           "2026-10-01",
		models.KeySetReminder:         true,
		models.KeyReminderDate:        "2027-04-01",
		models.KeyReminderDescription: "PPR booster",
	})
	require.NoError(t, err)
	assert.NotContains(t, rec, models.KeySetReminder)

	reminders, err := svc.List(ctx, modules.Reminders)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "2027-04-01", reminders[0]["reminder_date"])
	assert.Equal(t, "PPR booster", reminders[0]["description"])
	assert.Equal(t, modules.Vaccinations, reminders[0]["related_module"])
	assert.Equal(t, rec["vaccination_id"], reminders[0]["related_id"])
	assert.Equal(t, modules.ReminderPending, reminders[0]["status"])
}

func TestReminderIgnoredWhenModuleHasNone(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, modules.Expenses, models.Record{
		"date": "2026-09-01", "category": "Feed", "description": "Bran", "amount_ugx": 1,
		models.KeySetReminder: true, models.KeyReminderDate: "2026-10-01",
	})
	require.NoError(t, err)

	reminders, err := svc.List(ctx, modules.Reminders)
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestMirrorFailureDoesNotFailCreate(t *testing.T) {
	svc, mirror := newTestService(t)
	mirror.err = errors.New("quota exceeded")

	_, err := svc.Create(context.Background(), modules.Coffee, models.Record{"date": "2026-10-01", "activity": "Harvest"})
	assert.NoError(t, err)
}

func TestUpdateKeepsIdentifyingFieldLocked(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Create(ctx, modules.Health, models.Record{
		"health_id": "HL-1", "goat_id": "GT-1", "date": "2026-10-01", "condition": "Cough", "treatment": "Oxytetracycline",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, modules.Health, "HL-1", models.Record{"health_id": "HL-2"})
	assert.ErrorIs(t, err, ErrImmutableID)

	updated, err := svc.Update(ctx, modules.Health, "HL-1", models.Record{
		"health_id":       "HL-1",
		"recovery_status": "Recovered",
		"treatment":       "",
	})
	require.NoError(t, err)
	assert.Equal(t, "Recovered", updated["recovery_status"])
	assert.NotContains(t, updated, "treatment")
	assert.Equal(t, "Cough", updated["condition"])

	_, err = svc.Update(ctx, modules.Health, "HL-1", models.Record{"condition": ""})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Update(ctx, modules.Health, "HL-9", models.Record{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnknownModule(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.List(context.Background(), "poultry")
	assert.ErrorIs(t, err, ErrUnknownModule)
}

func TestStatsSumsDerivedTotals(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	for _, sale := range []models.Record{
		{"goat_id": "GT-1", "sale_date": "2026-09-01", "live_weight": 10, "price_per_kg": 5000, "payment_method": "Cash"},
		{"goat_id": "GT-2", "sale_date": "2026-09-02", "live_weight": 20.5, "price_per_kg": 6000},
	} {
		_, err := svc.Create(ctx, modules.SalesMeat, sale)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, modules.SalesMeat)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, map[string]int{"Cash": 1, unspecifiedGroup: 1}, stats.ByGroup)
	assert.True(t, stats.Sums["total_price"].Equal(decimal.NewFromInt(173000)), stats.Sums["total_price"].String())
	assert.True(t, stats.Sums["live_weight"].Equal(decimal.NewFromFloat(30.5)))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Create(ctx, modules.Matooke, models.Record{"date": "2026-10-01", "activity": "Harvest", "plot": "North"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, modules.Matooke, models.Record{"date": "2026-10-02", "activity": "Weeding", "plot": "South"})
	require.NoError(t, err)

	found, err := svc.Search(ctx, modules.Matooke, "  north ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Harvest", found[0]["activity"])
}

func TestNotificationDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	rec, err := svc.Create(context.Background(), modules.Notifications, models.Record{"title": "Kidding due", "message": "Doe GT-3 due"})
	require.NoError(t, err)
	assert.Equal(t, false, rec["is_read"])
	assert.Equal(t, "2026-10-19T09:00", rec["created_at"])
}
