package repo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fixlab/go-repair-backend/internal/domain"
)

func seedDelivered(t *testing.T, db *gorm.DB, paid int64, deliveredAt time.Time) {
	t.Helper()
	seedTicket(t, db, func(tk *domain.Ticket) {
		tk.Status = domain.StatusDelivered
		tk.AmountPaid = decimal.NewFromInt(paid)
		tk.RemainingAmount = decimal.Zero
		tk.DeliveredAt = &deliveredAt
	})
}

func TestDailyIncome_SumsOnlyThatDay(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	ctx := context.Background()
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	seedDelivered(t, db, 500, day.Add(9*time.Hour))
	seedDelivered(t, db, 250, day.Add(23*time.Hour+59*time.Minute))
	seedDelivered(t, db, 999, day.Add(24*time.Hour)) // next day
	seedDelivered(t, db, 111, day.Add(-time.Minute)) // previous day
	seedTicket(t, db, nil)                           // pending, no delivered_at

	got, err := DailyIncome(ctx, db, day.Add(13*time.Hour)) // any instant inside the day
	if err != nil {
		t.Fatalf("DailyIncome: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("DailyIncome = %s, want 750", got)
	}
}

func TestDailyIncome_EmptyDayIsZero(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	got, err := DailyIncome(context.Background(), db, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DailyIncome: %v", err)
	}
	if !got.Equal(decimal.Zero) {
		t.Fatalf("DailyIncome = %s, want 0", got)
	}
}

func TestMostCommonIssues_RankingAndTieBreak(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedTicket(t, db, func(tk *domain.Ticket) { tk.IssueDescription = "battery drain" })
	}
	// Tie between two issues with two tickets each.
	for i := 0; i < 2; i++ {
		seedTicket(t, db, func(tk *domain.Ticket) { tk.IssueDescription = "cracked screen" })
		seedTicket(t, db, func(tk *domain.Ticket) { tk.IssueDescription = "water damage" })
	}
	seedTicket(t, db, func(tk *domain.Ticket) { tk.IssueDescription = "no power" })

	out, err := MostCommonIssues(ctx, db, 3)
	if err != nil {
		t.Fatalf("MostCommonIssues: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0].Label != "battery drain" || out[0].Count != 3 {
		t.Fatalf("rank 1 = %+v", out[0])
	}
	// Equal counts order alphabetically.
	if out[1].Label != "cracked screen" || out[2].Label != "water damage" {
		t.Fatalf("tie-break wrong: %+v / %+v", out[1], out[2])
	}
}

func TestMostCommonDevices_DefaultLimit(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	ctx := context.Background()

	seedTicket(t, db, func(tk *domain.Ticket) { tk.DeviceType = "iPhone 12" })
	seedTicket(t, db, func(tk *domain.Ticket) { tk.DeviceType = "iPhone 12" })
	seedTicket(t, db, func(tk *domain.Ticket) { tk.DeviceType = "Samsung S21" })

	out, err := MostCommonDevices(ctx, db, 0) // falls back to 10
	if err != nil {
		t.Fatalf("MostCommonDevices: %v", err)
	}
	if len(out) != 2 || out[0].Label != "iPhone 12" || out[0].Count != 2 {
		t.Fatalf("unexpected ranking: %+v", out)
	}
}

func TestStatusCounts(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	ctx := context.Background()

	seedTicket(t, db, nil)
	seedTicket(t, db, nil)
	seedTicket(t, db, func(tk *domain.Ticket) { tk.Status = domain.StatusRepaired })
	seedTicket(t, db, func(tk *domain.Ticket) { tk.Status = domain.StatusCannotRepair })
	now := time.Now().UTC()
	seedDelivered(t, db, 100, now)

	sc, err := StatusCounts(ctx, db)
	if err != nil {
		t.Fatalf("StatusCounts: %v", err)
	}
	want := domain.StatusCounts{Pending: 2, Repaired: 1, CannotRepair: 1, Delivered: 1, Total: 5}
	if sc != want {
		t.Fatalf("StatusCounts = %+v, want %+v", sc, want)
	}
}

func TestStatusCounts_EmptyTable(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	sc, err := StatusCounts(context.Background(), db)
	if err != nil {
		t.Fatalf("StatusCounts: %v", err)
	}
	if sc != (domain.StatusCounts{}) {
		t.Fatalf("expected zero counts, got %+v", sc)
	}
}
