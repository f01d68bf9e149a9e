package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stats aggregates one module's records.
type Stats struct {
	Module  string                     `json:"module"`
	Total   int                        `json:"total"`
	ByGroup map[string]int             `json:"by_group,omitempty"`
	Sums    map[string]decimal.Decimal `json:"sums,omitempty"`
}

// Overview is the admin dashboard snapshot.
type Overview struct {
	Modules             map[string]Stats `json:"modules"`
	ActiveGoats         int              `json:"active_goats"`
	PendingReminders    int              `json:"pending_reminders"`
	UnreadNotifications int              `json:"unread_notifications"`
	GeneratedAt         time.Time        `json:"generated_at"`
}
