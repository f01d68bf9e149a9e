package crud

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/hannan/internal/domain/badge"
	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
)

func TestRenderTableWithFuzzyBadges(t *testing.T) {
	schema := schemaOf(t, modules.Health)
	table := RenderTable(schema, []models.Record{
		{"health_id": "HL-1", "goat_id": "GT-1", "date": "2026-10-01", "condition": "Cough", "recovery_status": "Almost fully recovered now"},
		{"health_id": "HL-2", "goat_id": "GT-2", "date": "2026-10-02T00:00:00Z", "condition": "Bloat", "recovery_status": "No improvement seen"},
		{"health_id": "HL-3", "goat_id": "GT-3", "date": "2026-10-03", "condition": "Limp"},
	})

	want := Table{
		Columns: []Column{
			{Field: "health_id", Label: "Health ID"},
			{Field: "goat_id", Label: "Goat"},
			{Field: "date", Label: "Date"},
			{Field: "condition", Label: "Condition / symptoms"},
			{Field: "recovery_status", Label: "Recovery status"},
		},
		Rows: []Row{
			{
				ID:     "HL-1",
				Cells:  []string{"HL-1", "GT-1", "2026-10-01", "Cough", "Almost fully recovered now"},
				Badges: []models.Badge{{Field: "recovery_status", Label: "recovered", Color: badge.Green}},
			},
			{
				ID:     "HL-2",
				Cells:  []string{"HL-2", "GT-2", "2026-10-02", "Bloat", "No improvement seen"},
				Badges: []models.Badge{{Field: "recovery_status", Label: "no improvement", Color: badge.Red}},
			},
			{
				ID:    "HL-3",
				Cells: []string{"HL-3", "GT-3", "2026-10-03", "Limp", ""},
			},
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderTableEmptyState(t *testing.T) {
	table := RenderTable(schemaOf(t, modules.Coffee), nil)
	assert.Equal(t, EmptyMessage, table.Empty)
	assert.Empty(t, table.Rows)
	assert.NotEmpty(t, table.Columns)
}

func TestDeleteRowNeedsConfirmation(t *testing.T) {
	schema := schemaOf(t, modules.Expenses)
	var deleted []string
	onDelete := func(_ context.Context, id string) { deleted = append(deleted, id) }

	var prompt string
	refuse := ConfirmFunc(func(p string) bool { prompt = p; return false })
	assert.False(t, DeleteRow(context.Background(), refuse, schema, "EX-1", onDelete))
	assert.Empty(t, deleted)
	assert.Contains(t, prompt, "EX-1")

	assert.False(t, DeleteRow(context.Background(), nil, schema, "EX-1", onDelete))
	assert.Empty(t, deleted)

	accept := ConfirmFunc(func(string) bool { return true })
	assert.True(t, DeleteRow(context.Background(), accept, schema, "EX-1", onDelete))
	assert.Equal(t, []string{"EX-1"}, deleted)
}
