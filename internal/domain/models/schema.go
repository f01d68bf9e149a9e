package models

import "time"

// FieldKind describes how a field is entered, normalized and displayed.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindNumber   FieldKind = "number"
	KindDate     FieldKind = "date"
	KindDateTime FieldKind = "datetime"
	KindMonth    FieldKind = "month"
	KindEnum     FieldKind = "enum"
	KindRef      FieldKind = "ref"
	KindBool     FieldKind = "bool"
	KindImage    FieldKind = "image"
)

// Field is one stored attribute of a module's record.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
	// Ref names the module whose identifying field this field points at.
	Ref string `json:"ref,omitempty"`
	// Listed fields appear as table columns.
	Listed bool `json:"listed,omitempty"`
}

// Computed is a value derived from stored fields. It is never persisted.
type Computed struct {
	Name    string
	Label   string
	Compute func(rec Record, now time.Time) string
}

// Badge is a colored label derived from a status or category field.
type Badge struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// BadgeRule classifies one field's value into a badge.
type BadgeRule struct {
	Field    string
	Classify func(value string) Badge
}

// Schema is the full contract of one module.
type Schema struct {
	Module     string  `json:"module"`
	Title      string  `json:"title"`
	Project    string  `json:"project"`
	Collection string  `json:"-"`
	IDField    string  `json:"id_field"`
	IDPrefix   string  `json:"-"`
	Fields     []Field `json:"fields"`

	// FormComputed fields are recomputed on every form edit and shown read-only.
	FormComputed []Computed `json:"-"`
	// Details are presentation-only values computed when a record is shown.
	Details []Computed `json:"-"`

	Badges       []BadgeRule `json:"-"`
	SearchFields []string    `json:"-"`
	GroupBy      string      `json:"-"`
	SumFields    []string    `json:"-"`
	// DateField orders the list, newest first.
	DateField string `json:"-"`
	// Reminders marks forms that carry the reminder triple.
	Reminders bool `json:"reminders"`
	// Photo names the field that stores an uploaded image; empty when the module has none.
	Photo string `json:"photo,omitempty"`
}

// Field returns the named field definition.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RequiredFields lists the names of required fields in declaration order.
func (s Schema) RequiredFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// ListedFields returns the fields rendered as table columns.
func (s Schema) ListedFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Listed {
			out = append(out, f)
		}
	}
	return out
}

// ID returns a record's identifying value.
func (s Schema) ID(rec Record) string {
	return rec.String(s.IDField)
}
