// Package services – StatsService
//
// This file implements the income and analytics computations behind the
// statistics screens. Period totals are assembled client-side from
// independent per-day income reads dispatched in parallel; the sub-reads
// have no ordering dependency, and a failure of any one of them fails the
// whole aggregate. Change percentages compare each period against the
// immediately preceding window of the same length.
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fixlab/go-repair-backend/internal/domain"
	"github.com/fixlab/go-repair-backend/internal/store"
)

// tracer instruments the fan-out heavy income aggregation.
var tracer = otel.Tracer("github.com/fixlab/go-repair-backend/internal/services")

// IncomeSummary holds the shop's income totals for the standard periods.
// Weekly, monthly, and yearly cover the trailing 7, 30, and 365 days
// including today.
type IncomeSummary struct {
	Daily   decimal.Decimal `json:"daily"`
	Weekly  decimal.Decimal `json:"weekly"`
	Monthly decimal.Decimal `json:"monthly"`
	Yearly  decimal.Decimal `json:"yearly"`
}

// IncomeAnalysis holds percentage changes of each period against the
// preceding window of the same length (yesterday, the prior 7 days, and so
// on). A change is 0 when the preceding window had no income.
type IncomeAnalysis struct {
	DailyChange   float64 `json:"daily_change"`
	WeeklyChange  float64 `json:"weekly_change"`
	MonthlyChange float64 `json:"monthly_change"`
	YearlyChange  float64 `json:"yearly_change"`
}

// IncomeReport is the full payload of the income screen.
type IncomeReport struct {
	Income   IncomeSummary  `json:"income"`
	Analysis IncomeAnalysis `json:"analysis"`
}

// StatsService computes income summaries and aggregate reports on top of
// the ticket store.
type StatsService struct {
	// Store is the ticket persistence service.
	Store store.TicketStore

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

// NewStatsService constructs a StatsService over the given store.
func NewStatsService(st store.TicketStore) *StatsService {
	return &StatsService{Store: st, now: time.Now}
}

// DailyIncome returns the income recognized on one calendar day.
func (s *StatsService) DailyIncome(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	return s.Store.DailyIncome(ctx, day)
}

// rangeIncome sums the daily income of the `days` calendar days ending at
// `end` (inclusive). Each day is an independent store read; the reads are
// dispatched in parallel and any failing sub-read fails the whole sum.
func (s *StatsService) rangeIncome(ctx context.Context, end time.Time, days int) (decimal.Decimal, error) {
	totals := make([]decimal.Decimal, days)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < days; i++ {
		g.Go(func() error {
			day := end.AddDate(0, 0, -i)
			total, err := s.Store.DailyIncome(gctx, day)
			if err != nil {
				return err
			}
			totals[i] = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum, nil
}

// Report assembles the income totals for all periods plus their
// period-over-period change percentages.
func (s *StatsService) Report(ctx context.Context) (*IncomeReport, error) {
	ctx, span := tracer.Start(ctx, "stats.income_report",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	today := s.now().UTC()

	daily, err := s.Store.DailyIncome(ctx, today)
	if err != nil {
		return nil, err
	}
	yesterday, err := s.Store.DailyIncome(ctx, today.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	// Current and preceding windows per period. Each pair is a parallel
	// per-day fan-out; fetch the pairs sequentially to keep the load on
	// the store bounded.
	periods := []struct {
		days  int
		cur   *decimal.Decimal
		prev  *decimal.Decimal
		label string
	}{
		{7, new(decimal.Decimal), new(decimal.Decimal), "weekly"},
		{30, new(decimal.Decimal), new(decimal.Decimal), "monthly"},
		{365, new(decimal.Decimal), new(decimal.Decimal), "yearly"},
	}
	for _, p := range periods {
		cur, err := s.rangeIncome(ctx, today, p.days)
		if err != nil {
			return nil, err
		}
		prev, err := s.rangeIncome(ctx, today.AddDate(0, 0, -p.days), p.days)
		if err != nil {
			return nil, err
		}
		*p.cur, *p.prev = cur, prev
	}
	span.SetAttributes(attribute.Int("stats.days_fetched", 2+2*(7+30+365)))

	return &IncomeReport{
		Income: IncomeSummary{
			Daily:   daily,
			Weekly:  *periods[0].cur,
			Monthly: *periods[1].cur,
			Yearly:  *periods[2].cur,
		},
		Analysis: IncomeAnalysis{
			DailyChange:   pctChange(daily, yesterday),
			WeeklyChange:  pctChange(*periods[0].cur, *periods[0].prev),
			MonthlyChange: pctChange(*periods[1].cur, *periods[1].prev),
			YearlyChange:  pctChange(*periods[2].cur, *periods[2].prev),
		},
	}, nil
}

// pctChange returns the percentage change from prev to cur, or 0 when prev
// is not positive.
func pctChange(cur, prev decimal.Decimal) float64 {
	if !prev.IsPositive() {
		return 0
	}
	f, _ := cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Float64()
	return f
}

// CommonIssues returns the ranked most-common-issue report.
func (s *StatsService) CommonIssues(ctx context.Context, limit int) ([]domain.AggregateCount, error) {
	return s.Store.MostCommonIssues(ctx, limit)
}

// CommonDevices returns the ranked most-common-device-type report.
func (s *StatsService) CommonDevices(ctx context.Context, limit int) ([]domain.AggregateCount, error) {
	return s.Store.MostCommonDevices(ctx, limit)
}

// Overview returns the overall per-status ticket counts.
func (s *StatsService) Overview(ctx context.Context) (domain.StatusCounts, error) {
	return s.Store.StatusCounts(ctx)
}
