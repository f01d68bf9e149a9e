// Package derive computes values shown next to stored record fields. None of
// them are persisted; every caller recomputes from the raw fields.
package derive

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/hannan/internal/domain/models"
)

// Sentinels rendered instead of a value when inputs are missing.
const (
	NotAvailable = "N/A"
	NotRecorded  = "Not recorded"
)

const msPerDay = 86400000

// Age renders the time elapsed since birth in years, months or days.
func Age(birth, now time.Time) string {
	if birth.IsZero() || now.Before(birth) {
		return NotAvailable
	}

	years := now.Year() - birth.Year()
	months := int(now.Month()) - int(birth.Month())
	if now.Day() < birth.Day() {
		months--
	}
	if months < 0 {
		years--
		months += 12
	}

	switch {
	case years > 0 && months > 0:
		return fmt.Sprintf("%s %s", plural(years, "year"), plural(months, "month"))
	case years > 0:
		return plural(years, "year")
	case months > 0:
		return plural(months, "month")
	default:
		days := int(now.Sub(birth).Hours() / 24)
		return plural(days, "day")
	}
}

// GestationDays counts whole days from mating to kidding.
func GestationDays(mating, kidding time.Time) (int, bool) {
	if mating.IsZero() || kidding.IsZero() || kidding.Before(mating) {
		return 0, false
	}
	return int(kidding.Sub(mating).Hours() / 24), true
}

// FeedConversionRatio is feed consumed per kilogram gained.
func FeedConversionRatio(feedKg, gainKg float64) (float64, bool) {
	if feedKg <= 0 || gainKg <= 0 {
		return 0, false
	}
	return math.Round(feedKg/gainKg*100) / 100, true
}

// DueStatus describes how far a due date is from now.
type DueStatus struct {
	Overdue bool
	Days    int
}

// Due classifies a due date. Overdue days are ceil((now-due)/1 day) in milliseconds.
func Due(due, now time.Time) DueStatus {
	diff := now.Sub(due).Milliseconds()
	if diff > 0 {
		return DueStatus{Overdue: true, Days: int(math.Ceil(float64(diff) / msPerDay))}
	}
	return DueStatus{Days: int(math.Ceil(float64(-diff) / msPerDay))}
}

func (d DueStatus) String() string {
	switch {
	case d.Overdue:
		return fmt.Sprintf("Overdue by %s", plural(d.Days, "day"))
	case d.Days == 0:
		return "Due today"
	default:
		return fmt.Sprintf("Due in %s", plural(d.Days, "day"))
	}
}

// TotalPrice is live weight times price per kilogram.
func TotalPrice(weightKg, pricePerKg decimal.Decimal) decimal.Decimal {
	return weightKg.Mul(pricePerKg)
}

// ClosingGoats is opening stock plus births and purchases minus deaths and sales.
func ClosingGoats(opening, births, purchases, deaths, soldBreeding, soldMeat int) int {
	return opening + births + purchases - deaths - soldBreeding - soldMeat
}

// NetProfit is income minus expenses.
func NetProfit(income, expenses decimal.Decimal) decimal.Decimal {
	return income.Sub(expenses)
}

// Money formats an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Decimal reads a record field as a decimal amount.
func Decimal(rec models.Record, field string) (decimal.Decimal, bool) {
	f, ok := rec.Float(field)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}
