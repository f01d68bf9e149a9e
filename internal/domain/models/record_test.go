package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-03-15", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"2025-03", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"2025-03-15T08:30", time.Date(2025, 3, 15, 8, 30, 0, 0, time.UTC), true},
		{"2025-03-15T08:30:00.000", time.Date(2025, 3, 15, 8, 30, 0, 0, time.UTC), true},
		{"2025-03-15T08:30:00Z", time.Date(2025, 3, 15, 8, 30, 0, 0, time.UTC), true},
		{"2025-03-15 08:30", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024-02-30", time.Time{}, false},
		{"2025-13", time.Time{}, false},
		{"2025-03-1x", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseDate(tc.in)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.True(t, tc.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestRecordTimeRejectsImpossibleDay(t *testing.T) {
	_, ok := Record{"date": "2024-02-30"}.Time("date")
	assert.False(t, ok)
}

func TestEnvelopeKeepsEmptyData(t *testing.T) {
	raw, err := json.Marshal(Ok([]Record{}, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[]}`, string(raw))
}
