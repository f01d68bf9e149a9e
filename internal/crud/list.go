package crud

import (
	"context"
	"fmt"

	"github.com/mamadbah2/hannan/internal/domain/models"
)

// EmptyMessage is shown instead of rows when a module has no records.
const EmptyMessage = "No records found"

// Column is one table header.
type Column struct {
	Field string
	Label string
}

// Row is one rendered record keyed by its identifying value.
type Row struct {
	ID     string
	Cells  []string
	Badges []models.Badge
}

// Table is a rendered module list. Empty is set when there are no rows.
type Table struct {
	Columns []Column
	Rows    []Row
	Empty   string
}

// RenderTable renders records as rows of the module's listed fields plus
// badges derived from its status and category fields.
func RenderTable(schema models.Schema, records []models.Record) Table {
	listed := schema.ListedFields()
	table := Table{Columns: make([]Column, 0, len(listed))}
	for _, f := range listed {
		table.Columns = append(table.Columns, Column{Field: f.Name, Label: f.Label})
	}

	if len(records) == 0 {
		table.Empty = EmptyMessage
		return table
	}

	table.Rows = make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{ID: schema.ID(rec), Cells: make([]string, 0, len(listed))}
		for _, f := range listed {
			row.Cells = append(row.Cells, inputValue(f, rec))
		}
		for _, rule := range schema.Badges {
			if value := rec.String(rule.Field); value != "" {
				row.Badges = append(row.Badges, rule.Classify(value))
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls fn.
func (fn ConfirmFunc) Confirm(prompt string) bool {
	return fn(prompt)
}

// DeleteRow invokes onDelete only after the confirmer agrees. It reports
// whether the delete went ahead.
func DeleteRow(ctx context.Context, confirm Confirmer, schema models.Schema, id string, onDelete func(ctx context.Context, id string)) bool {
	prompt := fmt.Sprintf("Delete %s %s? This cannot be undone.", schema.Title, id)
	if confirm == nil || !confirm.Confirm(prompt) {
		return false
	}
	onDelete(ctx, id)
	return true
}
