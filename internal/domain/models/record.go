package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts used for record date values on the wire and in forms.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
	MonthLayout    = "2006-01"
)

// Record is one flat entity instance: field name to scalar value.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String renders a field value the way a form input would hold it.
// Absent and nil values render as the empty string.
func (r Record) String(field string) string {
	return FormatValue(r[field])
}

// Float reads a numeric field, accepting numbers and numeric strings.
func (r Record) Float(field string) (float64, bool) {
	switch v := r[field].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int reads a numeric field truncated to an int.
func (r Record) Int(field string) (int, bool) {
	f, ok := r.Float(field)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Time reads a date, datetime or month field.
func (r Record) Time(field string) (time.Time, bool) {
	switch v := r[field].(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		return ParseDate(v)
	default:
		return time.Time{}, false
	}
}

// Bool reads a boolean field, accepting "true"/"false" strings.
func (r Record) Bool(field string) bool {
	switch v := r[field].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}

// ParseDate accepts RFC3339 timestamps, datetime-local strings, plain dates and months.
// Values without a zone are read as UTC. A layout may match a prefix only when
// the rest is a time or zone suffix, so "2024-02-30" is rejected rather than
// read as February.
func ParseDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	for _, layout := range []string{"2006-01-02T15:04:05", DateTimeLayout, DateLayout, MonthLayout} {
		if len(s) < len(layout) {
			continue
		}
		if rest := s[len(layout):]; rest != "" && !strings.ContainsRune("T .Z+", rune(rest[0])) {
			continue
		}
		if t, err := time.Parse(layout, s[:len(layout)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatValue converts a stored scalar into its display/input string.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(DateLayout)
	default:
		return fmt.Sprint(t)
	}
}
