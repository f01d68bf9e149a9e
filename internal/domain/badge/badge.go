// Package badge maps free-text status and category values to colored badges.
//
// Stored status strings are not a closed set, so matching is by keyword:
// a value matches a rule when it contains the rule's keyword, ignoring case.
// Rules are checked in order, so more specific phrases come first.
package badge

import (
	"strings"

	"github.com/mamadbah2/hannan/internal/domain/models"
)

// Badge colors.
const (
	Green  = "green"
	Red    = "red"
	Yellow = "yellow"
	Blue   = "blue"
	Orange = "orange"
	Purple = "purple"
	Gray   = "gray"
)

type rule struct {
	keyword string
	label   string
	color   string
}

func classify(value string, rules []rule) models.Badge {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return models.Badge{Label: "unknown", Color: Gray}
	}
	for _, r := range rules {
		if strings.Contains(normalized, r.keyword) {
			return models.Badge{Label: r.label, Color: r.color}
		}
	}
	return models.Badge{Label: "other", Color: Gray}
}

var recoveryRules = []rule{
	{"no improvement", "no improvement", Red},
	{"not improv", "no improvement", Red},
	{"recovered", "recovered", Green},
	{"improv", "improving", Blue},
	{"treatment", "under treatment", Yellow},
	{"critical", "critical", Red},
	{"died", "died", Red},
	{"dead", "died", Red},
}

// RecoveryStatus classifies a health record's recovery_status.
func RecoveryStatus(value string) models.Badge {
	return classify(value, recoveryRules)
}

var paymentRules = []rule{
	{"cash", "cash", Green},
	{"mobile", "mobile money", Yellow},
	{"momo", "mobile money", Yellow},
	{"bank", "bank", Blue},
	{"cheque", "cheque", Purple},
	{"credit", "credit", Orange},
}

// PaymentMethod classifies a sale or expense payment_method.
func PaymentMethod(value string) models.Badge {
	return classify(value, paymentRules)
}

var goatStatusRules = []rule{
	{"inactive", "inactive", Gray},
	{"active", "active", Green},
	{"sold", "sold", Blue},
	{"dead", "dead", Red},
	{"died", "dead", Red},
	{"quarantine", "quarantine", Orange},
}

// GoatStatus classifies a goat's status.
func GoatStatus(value string) models.Badge {
	return classify(value, goatStatusRules)
}

var breedingStatusRules = []rule{
	{"kidded", "kidded", Green},
	{"confirmed", "pregnant", Blue},
	{"pregnant", "pregnant", Blue},
	{"fail", "failed", Red},
	{"abort", "failed", Red},
	{"pending", "pending", Yellow},
}

// BreedingStatus classifies a breeding record's status.
func BreedingStatus(value string) models.Badge {
	return classify(value, breedingStatusRules)
}

var expenseCategoryRules = []rule{
	{"feed", "feed", Green},
	{"vet", "veterinary", Red},
	{"medic", "veterinary", Red},
	{"drug", "veterinary", Red},
	{"labour", "labour", Blue},
	{"labor", "labour", Blue},
	{"salar", "labour", Blue},
	{"equipment", "equipment", Purple},
	{"transport", "transport", Orange},
	{"fuel", "transport", Orange},
}

// ExpenseCategory classifies an expense category.
func ExpenseCategory(value string) models.Badge {
	return classify(value, expenseCategoryRules)
}

var activityRules = []rule{
	{"harvest", "harvest", Green},
	{"sale", "sale", Blue},
	{"sold", "sale", Blue},
	{"plant", "planting", Purple},
	{"weed", "maintenance", Yellow},
	{"prun", "maintenance", Yellow},
	{"spray", "maintenance", Yellow},
	{"fertil", "maintenance", Yellow},
}

// CropActivity classifies coffee and matooke activities.
func CropActivity(value string) models.Badge {
	return classify(value, activityRules)
}

var reminderRules = []rule{
	{"pending", "pending", Yellow},
	{"notified", "notified", Blue},
	{"done", "done", Green},
	{"complete", "done", Green},
	{"cancel", "cancelled", Gray},
}

// ReminderStatus classifies a reminder's status.
func ReminderStatus(value string) models.Badge {
	return classify(value, reminderRules)
}

var notificationTypeRules = []rule{
	{"alert", "alert", Red},
	{"warning", "warning", Orange},
	{"reminder", "reminder", Yellow},
	{"info", "info", Blue},
}

// NotificationType classifies a notification's type.
func NotificationType(value string) models.Badge {
	return classify(value, notificationTypeRules)
}

// Rule binds a classifier to a field for use in a module schema.
func Rule(field string, classifier func(string) models.Badge) models.BadgeRule {
	return models.BadgeRule{
		Field: field,
		Classify: func(value string) models.Badge {
			b := classifier(value)
			b.Field = field
			return b
		},
	}
}
