package crud

import (
	"time"

	"github.com/mamadbah2/hannan/internal/domain/derive"
	"github.com/mamadbah2/hannan/internal/domain/models"
)

// Line is one label/value pair of a details view.
type Line struct {
	Label   string
	Value   string
	Derived bool
}

// RenderDetails lists every stored field of rec followed by the module's
// derived values. Missing stored values read "Not recorded".
func RenderDetails(schema models.Schema, rec models.Record, now time.Time) []Line {
	lines := make([]Line, 0, len(schema.Fields)+len(schema.Details))
	for _, f := range schema.Fields {
		value := inputValue(f, rec)
		if f.Kind == models.KindImage && rec.String(f.Name) != "" {
			value = "attached"
		}
		if value == "" {
			value = derive.NotRecorded
		}
		lines = append(lines, Line{Label: f.Label, Value: value})
	}
	for _, d := range schema.Details {
		value := d.Compute(rec, now)
		if value == "" {
			value = derive.NotAvailable
		}
		lines = append(lines, Line{Label: d.Label, Value: value, Derived: true})
	}
	return lines
}
