package crud

import (
	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
)

// GoatOptions returns the ids of active goats, optionally restricted to one sex.
// It filters the loaded list and never fetches.
func GoatOptions(goats []models.Record, sex string) []string {
	var out []string
	for _, g := range goats {
		if g.String("status") != modules.StatusActive {
			continue
		}
		if sex != "" && g.String("sex") != sex {
			continue
		}
		out = append(out, g.String("goat_id"))
	}
	return out
}

// ReferenceOptions returns the selectable values of a goat reference field:
// does and mothers are female, bucks and fathers male.
func ReferenceOptions(field models.Field, goats []models.Record) []string {
	if field.Kind != models.KindRef || field.Ref != modules.Goats {
		return nil
	}
	switch field.Name {
	case "doe_id", "mother_id":
		return GoatOptions(goats, modules.SexFemale)
	case "buck_id", "father_id":
		return GoatOptions(goats, modules.SexMale)
	default:
		return GoatOptions(goats, "")
	}
}
