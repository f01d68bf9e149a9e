// Package summary drafts monthly herd and finance summaries from the recorded activity.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/domain/derive"
	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
)

// ErrInvalidMonth is returned when the month is not formatted as YYYY-MM.
var ErrInvalidMonth = errors.New("month must be formatted as YYYY-MM")

// Lister loads every record of a module.
type Lister interface {
	List(ctx context.Context, module string) ([]models.Record, error)
}

// Service computes monthly_summaries drafts.
type Service struct {
	records Lister
	logger  *zap.Logger
}

// NewService wires a new summary service instance.
func NewService(records Lister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: records, logger: logger}
}

type period struct {
	start time.Time
	end   time.Time
}

func (p period) contains(t time.Time) bool {
	return !t.Before(p.start) && t.Before(p.end)
}

// Calculate returns a draft monthly summary for month (YYYY-MM). The draft is
// not stored; closing_goats and net_profit_ugx are filled from the counts.
func (s *Service) Calculate(ctx context.Context, month string) (models.Record, error) {
	start, err := time.Parse(models.MonthLayout, month)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	p := period{start: start, end: start.AddDate(0, 1, 0)}

	goats, err := s.records.List(ctx, modules.Goats)
	if err != nil {
		return nil, fmt.Errorf("load goats: %w", err)
	}
	breeding, err := s.records.List(ctx, modules.Breeding)
	if err != nil {
		return nil, fmt.Errorf("load breeding: %w", err)
	}
	salesBreeding, err := s.records.List(ctx, modules.SalesBreeding)
	if err != nil {
		return nil, fmt.Errorf("load breeding sales: %w", err)
	}
	salesMeat, err := s.records.List(ctx, modules.SalesMeat)
	if err != nil {
		return nil, fmt.Errorf("load meat sales: %w", err)
	}
	expenses, err := s.records.List(ctx, modules.Expenses)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	summaries, err := s.records.List(ctx, modules.MonthlySummaries)
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}

	opening, fromPrevious := previousClosing(summaries, start.AddDate(0, -1, 0).Format(models.MonthLayout))
	if !fromPrevious {
		opening = s.openingHerd(goats, p.start)
	}

	var births, purchases, deaths int
	for _, rec := range breeding {
		kidding, ok := rec.Time("actual_kidding_date")
		if !ok || !p.contains(kidding) {
			continue
		}
		if n, ok := rec.Int("kids_born"); ok {
			births += n
		}
	}
	for _, rec := range goats {
		if rec.String("source") == modules.SourcePurchased {
			if acquired, ok := rec.Time("acquisition_date"); ok && p.contains(acquired) {
				purchases++
			}
		}
		if rec.String("status") == modules.StatusDead {
			if exit, ok := rec.Time("exit_date"); ok && p.contains(exit) {
				deaths++
			}
		}
	}

	income := decimal.Zero
	soldBreeding := 0
	for _, rec := range inPeriod(salesBreeding, "sale_date", p) {
		soldBreeding++
		if price, ok := derive.Decimal(rec, "price_ugx"); ok {
			income = income.Add(price)
		}
	}
	soldMeat := 0
	for _, rec := range inPeriod(salesMeat, "sale_date", p) {
		soldMeat++
		weight, okWeight := derive.Decimal(rec, "live_weight")
		price, okPrice := derive.Decimal(rec, "price_per_kg")
		if okWeight && okPrice {
			income = income.Add(derive.TotalPrice(weight, price))
		}
	}

	spent := decimal.Zero
	for _, rec := range inPeriod(expenses, "date", p) {
		if amount, ok := derive.Decimal(rec, "amount_ugx"); ok {
			spent = spent.Add(amount)
		}
	}

	draft := models.Record{
		"month":              month,
		"opening_goats":      opening,
		"births":             births,
		"purchases":          purchases,
		"deaths":             deaths,
		"sold_breeding":      soldBreeding,
		"sold_meat":          soldMeat,
		"total_income_ugx":   income.InexactFloat64(),
		"total_expenses_ugx": spent.InexactFloat64(),
	}
	draft["closing_goats"] = derive.ClosingGoats(opening, births, purchases, deaths, soldBreeding, soldMeat)
	draft["net_profit_ugx"] = derive.Money(derive.NetProfit(income, spent))

	s.logger.Debug("monthly summary calculated",
		zap.String("month", month),
		zap.Int("opening_goats", opening),
		zap.Bool("opening_from_previous", fromPrevious),
		zap.String("income", income.String()),
		zap.String("expenses", spent.String()),
	)

	return draft, nil
}

// openingHerd counts goats on the farm at start: arrived before it and not
// exited before it.
func (s *Service) openingHerd(goats []models.Record, start time.Time) int {
	count := 0
	for _, rec := range goats {
		arrived, ok := rec.Time("acquisition_date")
		if !ok {
			arrived, ok = rec.Time("date_of_birth")
		}
		if !ok {
			s.logger.Debug("skip goat without arrival date", zap.String("goat_id", rec.String("goat_id")))
			continue
		}
		if !arrived.Before(start) {
			continue
		}
		if exit, ok := rec.Time("exit_date"); ok && exit.Before(start) {
			continue
		}
		count++
	}
	return count
}

func previousClosing(summaries []models.Record, month string) (int, bool) {
	for _, rec := range summaries {
		if rec.String("month") != month {
			continue
		}
		n, err := strconv.Atoi(derive.ClosingGoatsOf(rec, time.Time{}))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func inPeriod(list []models.Record, field string, p period) []models.Record {
	var out []models.Record
	for _, rec := range list {
		if t, ok := rec.Time(field); ok && p.contains(t) {
			out = append(out, rec)
		}
	}
	return out
}
