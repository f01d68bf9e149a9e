package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoveryStatusKeywordMatch(t *testing.T) {
	cases := map[string]string{
		"Almost fully recovered now": "recovered",
		"RECOVERED":                  "recovered",
		"No improvement seen":        "no improvement",
		"not improving":              "no improvement",
		"Improving slowly":           "improving",
		"Under treatment":            "under treatment",
		"":                           "unknown",
		"observing":                  "other",
	}
	for value, want := range cases {
		assert.Equal(t, want, RecoveryStatus(value).Label, value)
	}

	assert.Equal(t, Green, RecoveryStatus("Almost fully recovered now").Color)
	assert.Equal(t, Red, RecoveryStatus("No improvement seen").Color)
}

func TestPaymentMethodLookup(t *testing.T) {
	assert.Equal(t, Green, PaymentMethod("Cash").Color)
	assert.Equal(t, Yellow, PaymentMethod("MTN Mobile Money").Color)
	assert.Equal(t, Blue, PaymentMethod("bank transfer").Color)
	assert.Equal(t, Gray, PaymentMethod("barter").Color)
}

func TestRuleSetsField(t *testing.T) {
	r := Rule("status", GoatStatus)
	b := r.Classify("Active")
	assert.Equal(t, "status", b.Field)
	assert.Equal(t, Green, b.Color)
}

func TestGoatStatusInactiveIsNotActive(t *testing.T) {
	b := GoatStatus("Inactive")
	assert.Equal(t, "inactive", b.Label)
	assert.Equal(t, Gray, b.Color)
	assert.Equal(t, Green, GoatStatus("active").Color)
}
