package records

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/hannan/internal/domain/models"
)

const maxTextLength = 2000

// normalized is one payload value after coercion; empty values clear the field.
type normalized struct {
	value any
	empty bool
}

// normalizeFields coerces every schema field present in the payload. Keys the
// schema does not declare, including derived values, are dropped.
func normalizeFields(v *validator.Validate, schema models.Schema, fields models.Record) (map[string]normalized, *ValidationError) {
	out := make(map[string]normalized, len(fields))
	verr := &ValidationError{}

	for _, f := range schema.Fields {
		raw, present := fields[f.Name]
		if !present {
			continue
		}
		n, reason := normalizeValue(v, f, raw)
		if reason != "" {
			verr.add(f.Name, reason)
			continue
		}
		out[f.Name] = n
	}

	if verr.empty() {
		return out, nil
	}
	return out, verr
}

func normalizeValue(v *validator.Validate, f models.Field, raw any) (normalized, string) {
	text := strings.TrimSpace(models.FormatValue(raw))

	switch f.Kind {
	case models.KindNumber:
		if text == "" {
			return normalized{empty: true}, ""
		}
		num, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return normalized{}, "must be a number"
		}
		if err := v.Var(num, "gte=0"); err != nil {
			return normalized{}, "must not be negative"
		}
		return normalized{value: num}, ""
	case models.KindDate, models.KindDateTime, models.KindMonth:
		if text == "" {
			return normalized{empty: true}, ""
		}
		t, ok := models.ParseDate(text)
		if !ok {
			return normalized{}, "must be a date"
		}
		layout := models.DateLayout
		switch f.Kind {
		case models.KindDateTime:
			layout = models.DateTimeLayout
		case models.KindMonth:
			layout = models.MonthLayout
		}
		return normalized{value: t.Format(layout)}, ""
	case models.KindBool:
		if text == "" {
			return normalized{empty: true}, ""
		}
		b, err := strconv.ParseBool(text)
		if err != nil {
			return normalized{}, "must be true or false"
		}
		return normalized{value: b}, ""
	case models.KindEnum:
		if text == "" {
			return normalized{empty: true}, ""
		}
		for _, option := range f.Options {
			if strings.EqualFold(option, text) {
				text = option
				break
			}
		}
		if err := v.Var(text, oneOf(f.Options)); err != nil {
			return normalized{}, "must be one of " + strings.Join(f.Options, ", ")
		}
		return normalized{value: text}, ""
	case models.KindImage:
		if text == "" {
			return normalized{empty: true}, ""
		}
		return normalized{value: text}, ""
	default:
		if text == "" {
			return normalized{empty: true}, ""
		}
		if err := v.Var(text, "max="+strconv.Itoa(maxTextLength)); err != nil {
			return normalized{}, "is too long"
		}
		return normalized{value: text}, ""
	}
}

// oneOf builds a validator tag; options are quoted so values may contain spaces.
func oneOf(options []string) string {
	quoted := make([]string, len(options))
	for i, o := range options {
		quoted[i] = "'" + o + "'"
	}
	return "oneof=" + strings.Join(quoted, " ")
}

// checkRequired reports required fields the record does not carry.
func checkRequired(v *validator.Validate, schema models.Schema, rec models.Record) *ValidationError {
	verr := &ValidationError{}
	for _, name := range schema.RequiredFields() {
		if err := v.Var(rec.String(name), "required"); err != nil {
			verr.add(name, "is required")
		}
	}
	if verr.empty() {
		return nil
	}
	return verr
}
