// Package services – TicketService
//
// This file implements the TicketService, which manages the lifecycle of
// repair tickets. Every write runs the domain rules first (required-field
// validation, remaining-amount derivation, guarded status transitions) and
// only then touches the ticket store, so an invalid request never causes a
// store call. Reads pass straight through to the store, whose adapter
// already owns the degraded-read policy.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fixlab/go-repair-backend/internal/domain"
	"github.com/fixlab/go-repair-backend/internal/store"
)

// TicketService provides ticket-level operations: intake, editing, status
// changes, listing, and deletion.
type TicketService struct {
	// Store is the ticket persistence service.
	Store store.TicketStore

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

// NewTicketService constructs a TicketService over the given store.
func NewTicketService(st store.TicketStore) *TicketService {
	return &TicketService{Store: st, now: time.Now}
}

// CreateTicketInput carries the intake-form fields for a new ticket.
type CreateTicketInput struct {
	DeviceType       string
	CustomerName     string
	CustomerPhone    string
	IssueDescription string
	ServicePrice     decimal.Decimal
	AmountPaid       decimal.Decimal
	SerialNumber     string
	CustomerNotes    string
}

// Create validates the intake fields, derives the remaining balance, and
// persists a new ticket in StatusPending owned by userID.
//
// Validation failures surface as *domain.ValidationError before any store
// call. Negative monetary inputs are normalized to zero.
func (s *TicketService) Create(ctx context.Context, userID string, in CreateTicketInput) (*domain.Ticket, error) {
	price := domain.NormalizeAmount(in.ServicePrice)
	paid := domain.NormalizeAmount(in.AmountPaid)

	t := domain.Ticket{
		DeviceType:       strings.TrimSpace(in.DeviceType),
		CustomerName:     strings.TrimSpace(in.CustomerName),
		CustomerPhone:    strings.TrimSpace(in.CustomerPhone),
		IssueDescription: strings.TrimSpace(in.IssueDescription),
		ServicePrice:     price,
		AmountPaid:       paid,
		RemainingAmount:  domain.ComputeRemaining(price, paid),
		SerialNumber:     strings.TrimSpace(in.SerialNumber),
		CustomerNotes:    strings.TrimSpace(in.CustomerNotes),
		Status:           domain.StatusPending,
		CreatedBy:        userID,
	}
	if err := domain.ValidateForCreate(t); err != nil {
		return nil, err
	}
	return s.Store.Create(ctx, &t)
}

// UpdateTicketInput carries a partial edit of an existing ticket. Nil
// pointers leave the corresponding field unchanged; the ticket status is
// never edited here (see ChangeStatus).
type UpdateTicketInput struct {
	DeviceType       *string
	CustomerName     *string
	CustomerPhone    *string
	IssueDescription *string
	ServicePrice     *decimal.Decimal
	AmountPaid       *decimal.Decimal
	SerialNumber     *string
	CustomerNotes    *string
}

// Update applies a partial edit to a ticket. Required fields must stay
// non-empty, and the remaining balance is recomputed whenever the price or
// the paid amount changes, so the derived invariant can never go stale.
func (s *TicketService) Update(ctx context.Context, id string, in UpdateTicketInput) (*domain.Ticket, error) {
	t, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	if in.DeviceType != nil {
		t.DeviceType = strings.TrimSpace(*in.DeviceType)
	}
	if in.CustomerName != nil {
		t.CustomerName = strings.TrimSpace(*in.CustomerName)
	}
	if in.CustomerPhone != nil {
		t.CustomerPhone = strings.TrimSpace(*in.CustomerPhone)
	}
	if in.IssueDescription != nil {
		t.IssueDescription = strings.TrimSpace(*in.IssueDescription)
	}
	if in.ServicePrice != nil {
		t.ServicePrice = domain.NormalizeAmount(*in.ServicePrice)
	}
	if in.AmountPaid != nil {
		t.AmountPaid = domain.NormalizeAmount(*in.AmountPaid)
	}
	if in.SerialNumber != nil {
		t.SerialNumber = strings.TrimSpace(*in.SerialNumber)
	}
	if in.CustomerNotes != nil {
		t.CustomerNotes = strings.TrimSpace(*in.CustomerNotes)
	}

	if err := domain.ValidateForCreate(*t); err != nil {
		return nil, err
	}
	t.RemainingAmount = domain.ComputeRemaining(t.ServicePrice, t.AmountPaid)

	if err := s.Store.Save(ctx, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

// ChangeStatus moves a ticket to target, running the lifecycle guards
// first. Errors from the state machine (domain.ErrInvalidTransition,
// domain.ErrOutstandingBalance, a missing cannot-repair reason) are
// returned as-is and nothing is persisted.
func (s *TicketService) ChangeStatus(ctx context.Context, id string, target domain.TicketStatus, notes string) (*domain.Ticket, error) {
	if !target.Valid() {
		return nil, ErrUnknownStatus
	}
	t, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	updated, err := domain.Transition(*t, target, notes, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Store.Save(ctx, &updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// List returns tickets, optionally filtered by status and/or a free-text
// search over customer name, phone, and device type. An unknown status
// yields ErrUnknownStatus.
func (s *TicketService) List(ctx context.Context, status, q string) ([]domain.Ticket, error) {
	status = strings.TrimSpace(status)
	q = strings.TrimSpace(q)

	if status != "" && !domain.TicketStatus(status).Valid() {
		return nil, ErrUnknownStatus
	}

	var (
		items []domain.Ticket
		err   error
	)
	switch {
	case q != "":
		items, err = s.Store.Search(ctx, q)
	case status != "":
		return s.Store.ListByStatus(ctx, domain.TicketStatus(status))
	default:
		return s.Store.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	if status == "" {
		return items, nil
	}
	filtered := make([]domain.Ticket, 0, len(items))
	for _, t := range items {
		if t.Status == domain.TicketStatus(status) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// Get fetches one ticket by ID.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	t, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

// Delete removes a ticket unconditionally.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTicketNotFound
	}
	return err
}
