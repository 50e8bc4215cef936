package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fixlab/go-repair-backend/internal/domain"
)

func newTicketRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("ticket_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func seedTicket(t *testing.T, db *gorm.DB, mut func(*domain.Ticket)) *domain.Ticket {
	t.Helper()
	tk := &domain.Ticket{
		DeviceType:       "iPhone 12",
		CustomerName:     "Ahmed Hassan",
		CustomerPhone:    "+201001234567",
		IssueDescription: "cracked screen",
		ServicePrice:     decimal.NewFromInt(500),
		AmountPaid:       decimal.NewFromInt(200),
		RemainingAmount:  decimal.NewFromInt(300),
		Status:           domain.StatusPending,
		CreatedBy:        "u1",
	}
	if mut != nil {
		mut(tk)
	}
	created, err := CreateTicket(context.Background(), db, tk)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	return created
}

func TestCreateTicket_Error_NoTable(t *testing.T) {
	db := newTicketRepoDB(t /* no migrations */)
	_, err := CreateTicket(context.Background(), db, &domain.Ticket{})
	if err == nil {
		t.Fatalf("expected error creating without table")
	}
}

func TestCreateTicket_AssignsIDAndTimestamp(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	start := time.Now().UTC().Add(-time.Minute)

	tk := seedTicket(t, db, nil)
	if tk.ID == "" {
		t.Fatalf("ID not assigned")
	}
	if tk.CreatedAt.Before(start) {
		t.Fatalf("CreatedAt not stamped: %v", tk.CreatedAt)
	}

	got, err := GetTicket(context.Background(), db, tk.ID)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if got.CustomerName != "Ahmed Hassan" || got.Status != domain.StatusPending {
		t.Fatalf("unexpected ticket: %+v", got)
	}
	if !got.RemainingAmount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("RemainingAmount = %s", got.RemainingAmount)
	}
}

func TestListTickets_MostRecentFirst(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	ctx := context.Background()

	old := seedTicket(t, db, nil)
	// Separate creation times so the ordering is observable.
	if err := db.Model(&domain.Ticket{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().UTC().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	recent := seedTicket(t, db, func(tk *domain.Ticket) { tk.CustomerName = "Mona" })

	out, err := ListTickets(ctx, db)
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0].ID != recent.ID || out[1].ID != old.ID {
		t.Fatalf("order wrong: %s then %s", out[0].ID, out[1].ID)
	}
}

func TestListTicketsByStatus(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	ctx := context.Background()

	seedTicket(t, db, nil)
	seedTicket(t, db, func(tk *domain.Ticket) { tk.Status = domain.StatusRepaired })

	out, err := ListTicketsByStatus(ctx, db, domain.StatusRepaired)
	if err != nil {
		t.Fatalf("ListTicketsByStatus: %v", err)
	}
	if len(out) != 1 || out[0].Status != domain.StatusRepaired {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestSearchTickets(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	ctx := context.Background()

	seedTicket(t, db, nil) // Ahmed Hassan, iPhone 12
	seedTicket(t, db, func(tk *domain.Ticket) {
		tk.CustomerName = "Mona Ali"
		tk.CustomerPhone = "+201117654321"
		tk.DeviceType = "Samsung S21"
	})

	byName, err := SearchTickets(ctx, db, "ahmed")
	if err != nil || len(byName) != 1 || byName[0].CustomerName != "Ahmed Hassan" {
		t.Fatalf("name search: %v %+v", err, byName)
	}

	byPhone, err := SearchTickets(ctx, db, "2011")
	if err != nil || len(byPhone) != 1 || byPhone[0].CustomerName != "Mona Ali" {
		t.Fatalf("phone search: %v %+v", err, byPhone)
	}

	byDevice, err := SearchTickets(ctx, db, "SAMSUNG")
	if err != nil || len(byDevice) != 1 {
		t.Fatalf("device search: %v %+v", err, byDevice)
	}

	all, err := SearchTickets(ctx, db, "  ")
	if err != nil || len(all) != 2 {
		t.Fatalf("blank search should list all: %v %d", err, len(all))
	}
}

func TestGetTicket_NotFound(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	_, err := GetTicket(context.Background(), db, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveTicket_UpdatesAndClearsFields(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	ctx := context.Background()

	tk := seedTicket(t, db, nil)
	tk.Status = domain.StatusRepaired
	tk.AmountPaid = decimal.NewFromInt(500)
	tk.RemainingAmount = decimal.Zero
	tk.CustomerNotes = "" // zero values must persist too

	if err := SaveTicket(ctx, db, tk); err != nil {
		t.Fatalf("SaveTicket: %v", err)
	}

	got, err := GetTicket(ctx, db, tk.ID)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if got.Status != domain.StatusRepaired || !got.RemainingAmount.Equal(decimal.Zero) {
		t.Fatalf("unexpected ticket after save: %+v", got)
	}
}

func TestSaveTicket_MissingRow(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	err := SaveTicket(context.Background(), db, &domain.Ticket{ID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTicket(t *testing.T) {
	db := newTicketRepoDB(t, &domain.Ticket{})
	ctx := context.Background()

	tk := seedTicket(t, db, nil)
	if err := DeleteTicket(ctx, db, tk.ID); err != nil {
		t.Fatalf("DeleteTicket: %v", err)
	}
	if _, err := GetTicket(ctx, db, tk.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ticket still present: %v", err)
	}
	if err := DeleteTicket(ctx, db, tk.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
