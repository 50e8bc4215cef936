// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the aggregate/statistics queries behind
// the income and analytics screens: daily income, ranked issue/device-type
// counts, and the overall status breakdown. Each function is context-aware
// and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fixlab/go-repair-backend/internal/domain"
)

// DailyIncome returns the income recognized on the given calendar day:
// the sum of amount_paid over tickets delivered on that day (UTC).
// Days without deliveries yield zero.
func DailyIncome(ctx context.Context, db *gorm.DB, day time.Time) (decimal.Decimal, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	var row struct {
		Total decimal.Decimal
	}
	err := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Select("COALESCE(SUM(amount_paid), 0) AS total").
		Where("delivered_at IS NOT NULL AND delivered_at >= ? AND delivered_at < ?", start, end).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// MostCommonIssues returns the most frequent issue descriptions across all
// tickets, ranked by count descending. Equal counts are ordered by label
// ascending so the ranking is deterministic. limit caps the number of rows;
// values < 1 fall back to 10.
func MostCommonIssues(ctx context.Context, db *gorm.DB, limit int) ([]domain.AggregateCount, error) {
	return groupedCounts(ctx, db, "issue_description", limit)
}

// MostCommonDevices returns the most frequent device types across all
// tickets, with the same ordering and limit semantics as MostCommonIssues.
func MostCommonDevices(ctx context.Context, db *gorm.DB, limit int) ([]domain.AggregateCount, error) {
	return groupedCounts(ctx, db, "device_type", limit)
}

// groupedCounts runs a GROUP BY tally over the named ticket column.
// column is always one of the fixed identifiers above, never user input.
func groupedCounts(ctx context.Context, db *gorm.DB, column string, limit int) ([]domain.AggregateCount, error) {
	if limit < 1 {
		limit = 10
	}
	var out []domain.AggregateCount
	err := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order("count DESC, label ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// StatusCounts returns the number of tickets in every lifecycle state plus
// the overall total.
func StatusCounts(ctx context.Context, db *gorm.DB) (domain.StatusCounts, error) {
	var rows []struct {
		Status domain.TicketStatus
		Count  int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return domain.StatusCounts{}, err
	}

	var sc domain.StatusCounts
	for _, r := range rows {
		switch r.Status {
		case domain.StatusPending:
			sc.Pending = r.Count
		case domain.StatusRepaired:
			sc.Repaired = r.Count
		case domain.StatusCannotRepair:
			sc.CannotRepair = r.Count
		case domain.StatusDelivered:
			sc.Delivered = r.Count
		}
		sc.Total += r.Count
	}
	return sc, nil
}
