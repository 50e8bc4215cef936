// Package store exposes the ticket persistence service behind a single
// interface and normalizes its failure behavior.
//
// The adapter owns the error policy at the persistence boundary:
//
//   - List and aggregate reads degrade gracefully: on a store failure they
//     log a warning and return an empty or zero result instead of an error,
//     so screens render with no data rather than breaking. Context
//     cancellation is the exception and always propagates.
//   - Get (used inside write flows) and every write fail loudly with an
//     error wrapping ErrStoreUnavailable. There are no retries.
//
// A deployment without database configuration gets the Unconfigured
// implementation: an explicit type with the same degraded reads and failing
// writes, instead of a nil handle checked at every call site.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fixlab/go-repair-backend/internal/domain"
	"github.com/fixlab/go-repair-backend/internal/repo"
)

// ErrStoreUnavailable indicates that the ticket store could not serve a
// request, either because the database failed or because the service was
// started without store configuration.
var ErrStoreUnavailable = errors.New("ticket store unavailable")

// ErrNotFound re-exports the repository's not-found error so callers can
// depend on this package alone.
var ErrNotFound = repo.ErrNotFound

// TicketStore is the persistence contract the services depend on: row-level
// CRUD over tickets plus the aggregate queries behind the statistics
// screens.
type TicketStore interface {
	// List returns all tickets, most recent first.
	List(ctx context.Context) ([]domain.Ticket, error)
	// ListByStatus returns tickets in the given lifecycle state.
	ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error)
	// Search filters tickets by customer name, phone, or device type.
	Search(ctx context.Context, q string) ([]domain.Ticket, error)
	// Get fetches one ticket by ID; ErrNotFound when missing.
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	// Create persists a new ticket and returns it with ID and timestamps set.
	Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error)
	// Save persists the full state of an existing ticket.
	Save(ctx context.Context, t *domain.Ticket) error
	// Delete removes a ticket unconditionally.
	Delete(ctx context.Context, id string) error

	// DailyIncome sums the payments recognized on one calendar day.
	DailyIncome(ctx context.Context, day time.Time) (decimal.Decimal, error)
	// MostCommonIssues returns the ranked issue report.
	MostCommonIssues(ctx context.Context, limit int) ([]domain.AggregateCount, error)
	// MostCommonDevices returns the ranked device-type report.
	MostCommonDevices(ctx context.Context, limit int) ([]domain.AggregateCount, error)
	// StatusCounts returns the overall per-status breakdown.
	StatusCounts(ctx context.Context) (domain.StatusCounts, error)
}

// GormStore is the production TicketStore backed by a GORM database handle.
type GormStore struct {
	db *gorm.DB
}

// New returns a TicketStore over the given database handle.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// degradeRead decides what a list/aggregate read does with a repository
// error: propagate cancellation, otherwise log and swallow so the caller
// falls back to an empty result.
func degradeRead(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return err
	}
	log.Warn().Err(err).Str("op", op).Msg("ticket store read degraded to empty result")
	return nil
}

// List implements TicketStore.
func (s *GormStore) List(ctx context.Context) ([]domain.Ticket, error) {
	out, err := repo.ListTickets(ctx, s.db)
	if err := degradeRead(ctx, "list", err); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Ticket{}
	}
	return out, nil
}

// ListByStatus implements TicketStore.
func (s *GormStore) ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	out, err := repo.ListTicketsByStatus(ctx, s.db, status)
	if err := degradeRead(ctx, "list_by_status", err); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Ticket{}
	}
	return out, nil
}

// Search implements TicketStore.
func (s *GormStore) Search(ctx context.Context, q string) ([]domain.Ticket, error) {
	out, err := repo.SearchTickets(ctx, s.db, q)
	if err := degradeRead(ctx, "search", err); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Ticket{}
	}
	return out, nil
}

// Get implements TicketStore. Unlike the list reads, Get participates in
// write flows, so failures surface instead of degrading.
func (s *GormStore) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	t, err := repo.GetTicket(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return t, nil
}

// Create implements TicketStore.
func (s *GormStore) Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	created, err := repo.CreateTicket(ctx, s.db, t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return created, nil
}

// Save implements TicketStore.
func (s *GormStore) Save(ctx context.Context, t *domain.Ticket) error {
	err := repo.SaveTicket(ctx, s.db, t)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete implements TicketStore.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	err := repo.DeleteTicket(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// DailyIncome implements TicketStore.
func (s *GormStore) DailyIncome(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	total, err := repo.DailyIncome(ctx, s.db, day)
	if err := degradeRead(ctx, "daily_income", err); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// MostCommonIssues implements TicketStore.
func (s *GormStore) MostCommonIssues(ctx context.Context, limit int) ([]domain.AggregateCount, error) {
	out, err := repo.MostCommonIssues(ctx, s.db, limit)
	if err := degradeRead(ctx, "most_common_issues", err); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.AggregateCount{}
	}
	return out, nil
}

// MostCommonDevices implements TicketStore.
func (s *GormStore) MostCommonDevices(ctx context.Context, limit int) ([]domain.AggregateCount, error) {
	out, err := repo.MostCommonDevices(ctx, s.db, limit)
	if err := degradeRead(ctx, "most_common_devices", err); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.AggregateCount{}
	}
	return out, nil
}

// StatusCounts implements TicketStore.
func (s *GormStore) StatusCounts(ctx context.Context) (domain.StatusCounts, error) {
	sc, err := repo.StatusCounts(ctx, s.db)
	if err := degradeRead(ctx, "status_counts", err); err != nil {
		return domain.StatusCounts{}, err
	}
	return sc, nil
}

// Unconfigured is the TicketStore used when the service starts without
// database configuration: every read yields an empty result, every write
// fails with ErrStoreUnavailable.
type Unconfigured struct{}

// NewUnconfigured returns the explicit "no store configured" implementation.
func NewUnconfigured() Unconfigured { return Unconfigured{} }

// List implements TicketStore.
func (Unconfigured) List(context.Context) ([]domain.Ticket, error) {
	return []domain.Ticket{}, nil
}

// ListByStatus implements TicketStore.
func (Unconfigured) ListByStatus(context.Context, domain.TicketStatus) ([]domain.Ticket, error) {
	return []domain.Ticket{}, nil
}

// Search implements TicketStore.
func (Unconfigured) Search(context.Context, string) ([]domain.Ticket, error) {
	return []domain.Ticket{}, nil
}

// Get implements TicketStore.
func (Unconfigured) Get(context.Context, string) (*domain.Ticket, error) {
	return nil, fmt.Errorf("%w: no store configured", ErrStoreUnavailable)
}

// Create implements TicketStore.
func (Unconfigured) Create(context.Context, *domain.Ticket) (*domain.Ticket, error) {
	return nil, fmt.Errorf("%w: no store configured", ErrStoreUnavailable)
}

// Save implements TicketStore.
func (Unconfigured) Save(context.Context, *domain.Ticket) error {
	return fmt.Errorf("%w: no store configured", ErrStoreUnavailable)
}

// Delete implements TicketStore.
func (Unconfigured) Delete(context.Context, string) error {
	return fmt.Errorf("%w: no store configured", ErrStoreUnavailable)
}

// DailyIncome implements TicketStore.
func (Unconfigured) DailyIncome(context.Context, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// MostCommonIssues implements TicketStore.
func (Unconfigured) MostCommonIssues(context.Context, int) ([]domain.AggregateCount, error) {
	return []domain.AggregateCount{}, nil
}

// MostCommonDevices implements TicketStore.
func (Unconfigured) MostCommonDevices(context.Context, int) ([]domain.AggregateCount, error) {
	return []domain.AggregateCount{}, nil
}

// StatusCounts implements TicketStore.
func (Unconfigured) StatusCounts(context.Context) (domain.StatusCounts, error) {
	return domain.StatusCounts{}, nil
}
