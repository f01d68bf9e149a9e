package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mamadbah2/hannan/internal/domain/models"
)

// ErrSubmitInProgress is returned when Submit is called while a previous submit is still running.
var ErrSubmitInProgress = errors.New("submit already in progress")

// ErrLockedField is returned when editing the identifying field of an existing record.
var ErrLockedField = errors.New("field cannot be changed")

// ErrUnknownField is returned for names the module does not declare.
var ErrUnknownField = errors.New("unknown field")

// ErrNotSelectable is returned when a restricted field is given a value outside its options.
var ErrNotSelectable = errors.New("value is not selectable")

// MissingFieldsError lists required fields left empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "required fields missing: " + strings.Join(e.Fields, ", ")
}

// SubmitFunc receives the packaged draft.
type SubmitFunc func(ctx context.Context, record models.Record) error

// Form collects a draft record for one module. In edit mode the identifying
// field is locked. Computed values are refreshed on every Set.
type Form struct {
	schema    models.Schema
	editingID string
	stored    map[string]string
	now       func() time.Time

	mu         sync.Mutex
	draft      map[string]string
	computed   map[string]string
	reminder   models.ReminderRequest
	options    map[string][]string
	submitting bool
}

// NewForm builds a form. A nil editing record starts a create form.
func NewForm(schema models.Schema, editing models.Record) *Form {
	f := &Form{schema: schema, now: time.Now}
	if editing != nil {
		f.editingID = schema.ID(editing)
	}
	f.seed(editing)
	if editing != nil {
		f.stored = make(map[string]string, len(f.draft))
		for k, v := range f.draft {
			f.stored[k] = v
		}
	}
	return f
}

func (f *Form) seed(rec models.Record) {
	f.draft = make(map[string]string, len(f.schema.Fields))
	for _, field := range f.schema.Fields {
		f.draft[field.Name] = inputValue(field, rec)
	}
	f.reminder = models.ReminderRequest{}
	f.recompute()
}

// inputValue renders a stored value the way the matching input holds it.
func inputValue(field models.Field, rec models.Record) string {
	if rec == nil || field.Kind == models.KindImage {
		return ""
	}
	switch field.Kind {
	case models.KindDate, models.KindDateTime, models.KindMonth:
		t, ok := rec.Time(field.Name)
		if !ok {
			return ""
		}
		switch field.Kind {
		case models.KindDateTime:
			return t.Format(models.DateTimeLayout)
		case models.KindMonth:
			return t.Format(models.MonthLayout)
		}
		return t.Format(models.DateLayout)
	}
	return rec.String(field.Name)
}

func (f *Form) recompute() {
	f.computed = make(map[string]string, len(f.schema.FormComputed))
	if len(f.schema.FormComputed) == 0 {
		return
	}
	rec := f.record()
	for _, c := range f.schema.FormComputed {
		f.computed[c.Name] = c.Compute(rec, f.now())
	}
}

func (f *Form) record() models.Record {
	rec := make(models.Record, len(f.draft))
	for name, value := range f.draft {
		rec[name] = value
	}
	return rec
}

// Editing reports whether the form edits an existing record.
func (f *Form) Editing() bool {
	return f.editingID != ""
}

// EditingID returns the identifying value of the record being edited.
func (f *Form) EditingID() string {
	return f.editingID
}

// Schema returns the form's module.
func (f *Form) Schema() models.Schema {
	return f.schema
}

// Set updates one draft field and refreshes computed values.
func (f *Form) Set(name, value string) error {
	field, ok := f.schema.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if f.Editing() && name == f.schema.IDField {
		return fmt.Errorf("%w: %s", ErrLockedField, field.Label)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.selectable(name, value) {
		return fmt.Errorf("%w: %s %s", ErrNotSelectable, field.Label, strings.TrimSpace(value))
	}
	f.draft[name] = value
	f.recompute()
	return nil
}

// Restrict limits a field to options. An empty value and, in edit mode, the
// record's stored value stay accepted.
func (f *Form) Restrict(name string, options []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.options == nil {
		f.options = make(map[string][]string)
	}
	f.options[name] = append([]string{}, options...)
}

// Options returns the values a restricted field accepts, or nil when it is free.
func (f *Form) Options(name string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.options[name]
}

func (f *Form) selectable(name, value string) bool {
	options, restricted := f.options[name]
	value = strings.TrimSpace(value)
	if !restricted || value == "" {
		return true
	}
	if f.stored != nil && f.stored[name] == value {
		return true
	}
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

// Value returns a draft field or computed value.
func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.computed[name]; ok {
		return v
	}
	return f.draft[name]
}

// Computed returns the current read-only computed values.
func (f *Form) Computed() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.computed))
	for k, v := range f.computed {
		out[k] = v
	}
	return out
}

// SetReminder attaches the reminder triple; modules without reminders ignore it.
func (f *Form) SetReminder(date, description string) {
	if !f.schema.Reminders {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminder = models.ReminderRequest{SetReminder: true, ReminderDate: date, ReminderDescription: description}
}

// Submitting reports whether a submit is in flight.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Missing lists required fields whose draft value is blank.
func (f *Form) Missing() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.missing()
}

func (f *Form) missing() []string {
	var out []string
	for _, name := range f.schema.RequiredFields() {
		if name == f.schema.IDField && f.Editing() {
			continue
		}
		if strings.TrimSpace(f.draft[name]) == "" {
			out = append(out, name)
		}
	}
	return out
}

// Payload packages the draft for the data service. Computed values and
// images are left out; in edit mode blank fields are sent so they clear.
func (f *Form) Payload() models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payload()
}

func (f *Form) payload() models.Record {
	rec := make(models.Record, len(f.draft))
	for _, field := range f.schema.Fields {
		if field.Kind == models.KindImage {
			continue
		}
		value := strings.TrimSpace(f.draft[field.Name])
		if value == "" && !f.Editing() {
			continue
		}
		rec[field.Name] = value
	}
	if f.Editing() {
		rec[f.schema.IDField] = f.editingID
	}
	f.reminder.Apply(rec)
	return rec
}

// Submit validates required fields and hands the payload to onSubmit.
// Calls made while a submit is running are dropped with ErrSubmitInProgress.
// After a successful create the draft returns to its defaults.
func (f *Form) Submit(ctx context.Context, onSubmit SubmitFunc) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	if missing := f.missing(); len(missing) > 0 {
		f.mu.Unlock()
		return &MissingFieldsError{Fields: missing}
	}
	f.submitting = true
	payload := f.payload()
	f.mu.Unlock()

	err := onSubmit(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		return err
	}
	if !f.Editing() {
		f.seed(nil)
	}
	return nil
}

// Cancel discards the draft by invoking onCancel; nothing is sent.
func (f *Form) Cancel(onCancel func()) {
	if onCancel != nil {
		onCancel()
	}
}
