package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubLister struct {
	data    map[string][]models.Record
	failing string
}

func (s stubLister) List(_ context.Context, module string) ([]models.Record, error) {
	if module == s.failing {
		return nil, errors.New("connection reset")
	}
	return s.data[module], nil
}

func TestOverview(t *testing.T) {
	src := stubLister{data: map[string][]models.Record{
		modules.Goats: {
			{"goat_id": "G1", "status": "Active"},
			{"goat_id": "G2", "status": "Active"},
			{"goat_id": "G3", "status": "Sold"},
		},
		modules.Reminders: {
			{"reminder_id": "R1", "status": "Pending"},
			{"reminder_id": "R2", "status": "Done"},
		},
		modules.Notifications: {
			{"notification_id": "N1", "is_read": false},
			{"notification_id": "N2", "is_read": true},
			{"notification_id": "N3"},
		},
		modules.Expenses: {
			{"expense_id": "E1", "category": "Feed", "amount_ugx": 1000},
		},
	}}

	overview, err := NewService(src, nil).Overview(context.Background())
	require.NoError(t, err)

	assert.Len(t, overview.Modules, len(modules.All()))
	assert.Equal(t, 3, overview.Modules[modules.Goats].Total)
	assert.Equal(t, 2, overview.Modules[modules.Goats].ByGroup["Active"])
	assert.Equal(t, "1000", overview.Modules[modules.Expenses].Sums["amount_ugx"].String())
	assert.Equal(t, 2, overview.ActiveGoats)
	assert.Equal(t, 1, overview.PendingReminders)
	assert.Equal(t, 2, overview.UnreadNotifications)
	assert.False(t, overview.GeneratedAt.IsZero())
}

func TestOverviewFailsWhenAModuleFails(t *testing.T) {
	_, err := NewService(stubLister{failing: modules.Coffee}, nil).Overview(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load coffee")
}
