package derive

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mamadbah2/hannan/internal/domain/models"
)

// AgeOf renders the age of a goat from its date_of_birth.
func AgeOf(rec models.Record, now time.Time) string {
	birth, ok := rec.Time("date_of_birth")
	if !ok {
		return NotAvailable
	}
	return Age(birth, now)
}

// WeightGainOf is weaning weight minus birth weight.
func WeightGainOf(rec models.Record, _ time.Time) string {
	birth, okBirth := rec.Float("birth_weight")
	weaning, okWeaning := rec.Float("weaning_weight")
	if !okBirth || !okWeaning {
		return NotAvailable
	}
	return strconv.FormatFloat(weaning-birth, 'f', 2, 64) + " kg"
}

// GestationOf uses the actual kidding date when recorded, otherwise the expected one.
func GestationOf(rec models.Record, _ time.Time) string {
	mating, ok := rec.Time("mating_time")
	if !ok {
		return NotAvailable
	}
	kidding, ok := rec.Time("actual_kidding_date")
	if !ok {
		kidding, ok = rec.Time("expected_kidding_date")
	}
	if !ok {
		return NotAvailable
	}
	days, ok := GestationDays(mating, kidding)
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%d days", days)
}

// DueOf classifies a date field relative to now.
func DueOf(field string) func(models.Record, time.Time) string {
	return func(rec models.Record, now time.Time) string {
		due, ok := rec.Time(field)
		if !ok {
			return NotRecorded
		}
		return Due(due, now).String()
	}
}

// FeedConversionOf divides quantity_kg by weight_gain_kg.
func FeedConversionOf(rec models.Record, _ time.Time) string {
	feed, okFeed := rec.Float("quantity_kg")
	gain, okGain := rec.Float("weight_gain_kg")
	if !okFeed || !okGain {
		return NotAvailable
	}
	ratio, ok := FeedConversionRatio(feed, gain)
	if !ok {
		return NotAvailable
	}
	return strconv.FormatFloat(ratio, 'f', 2, 64)
}

// TotalPriceOf multiplies live_weight by price_per_kg.
func TotalPriceOf(rec models.Record, _ time.Time) string {
	weight, okWeight := Decimal(rec, "live_weight")
	price, okPrice := Decimal(rec, "price_per_kg")
	if !okWeight || !okPrice {
		return ""
	}
	return TotalPrice(weight, price).String()
}

// ClosingGoatsOf applies ClosingGoats to a summary record; missing counts are zero.
func ClosingGoatsOf(rec models.Record, _ time.Time) string {
	count := func(field string) int {
		n, _ := rec.Int(field)
		return n
	}
	closing := ClosingGoats(
		count("opening_goats"),
		count("births"),
		count("purchases"),
		count("deaths"),
		count("sold_breeding"),
		count("sold_meat"),
	)
	return strconv.Itoa(closing)
}

// NetProfitOf subtracts total_expenses_ugx from total_income_ugx with two decimals.
func NetProfitOf(rec models.Record, _ time.Time) string {
	income, _ := Decimal(rec, "total_income_ugx")
	expenses, _ := Decimal(rec, "total_expenses_ugx")
	return Money(NetProfit(income, expenses))
}

// OrNotAvailable renders the N/A sentinel where fn yields nothing.
func OrNotAvailable(fn func(models.Record, time.Time) string) func(models.Record, time.Time) string {
	return func(rec models.Record, now time.Time) string {
		if v := fn(rec, now); v != "" {
			return v
		}
		return NotAvailable
	}
}
