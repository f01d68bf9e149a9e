package models

import "strings"

// Payload keys of the reminder triple carried by breeding, health and vaccination forms.
const (
	KeySetReminder         = "setReminder"
	KeyReminderDate        = "reminderDate"
	KeyReminderDescription = "reminderDescription"
)

// ReminderRequest asks the server to create a reminder alongside a record.
// It is never stored on the record itself.
type ReminderRequest struct {
	SetReminder         bool
	ReminderDate        string
	ReminderDescription string
}

// ExtractReminder reads the reminder triple from a payload.
func ExtractReminder(fields Record) ReminderRequest {
	return ReminderRequest{
		SetReminder:         fields.Bool(KeySetReminder),
		ReminderDate:        strings.TrimSpace(fields.String(KeyReminderDate)),
		ReminderDescription: strings.TrimSpace(fields.String(KeyReminderDescription)),
	}
}

// Apply writes the triple into a payload; a request that is not set leaves it untouched.
func (r ReminderRequest) Apply(fields Record) {
	if !r.SetReminder {
		return
	}
	fields[KeySetReminder] = true
	fields[KeyReminderDate] = r.ReminderDate
	fields[KeyReminderDescription] = r.ReminderDescription
}
