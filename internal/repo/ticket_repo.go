// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Ticket
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. Lifecycle rules (required fields,
// status guards, remaining-amount derivation) live in the domain package
// and are enforced by the service layer before anything reaches this file.
//
// Error semantics:
//   - When a ticket is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated. Degrading reads to empty results is
//     the store adapter's job, not the repository's.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fixlab/go-repair-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the store, service layer, and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateTicket inserts the given ticket, assigning a UUID primary key and a
// UTC creation timestamp. The caller is expected to have validated and
// derived all fields already.
//
// On success, it returns the persisted Ticket. On failure, a DB error.
func CreateTicket(ctx context.Context, db *gorm.DB, t *domain.Ticket) (*domain.Ticket, error) {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// ListTickets returns all tickets, ordered by creation time descending
// (most recent first). It returns an empty slice when the table is empty.
func ListTickets(ctx context.Context, db *gorm.DB) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListTicketsByStatus returns all tickets in the given status, ordered by
// creation time descending.
func ListTicketsByStatus(ctx context.Context, db *gorm.DB, status domain.TicketStatus) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// SearchTickets returns tickets whose customer name, customer phone, or
// device type contains q (case-insensitive), ordered by creation time
// descending. An empty q behaves like ListTickets.
func SearchTickets(ctx context.Context, db *gorm.DB, q string) ([]domain.Ticket, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return ListTickets(ctx, db)
	}
	like := "%" + strings.ToLower(q) + "%"
	var out []domain.Ticket
	err := db.WithContext(ctx).
		Where("lower(customer_name) LIKE ? OR customer_phone LIKE ? OR lower(device_type) LIKE ?",
			like, like, like).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetTicket fetches a single ticket by ID. If the record does not exist, it
// returns ErrNotFound. On other DB errors, the raw error is returned.
func GetTicket(ctx context.Context, db *gorm.DB, id string) (*domain.Ticket, error) {
	var t domain.Ticket
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SaveTicket persists the full current state of an existing ticket.
// If no row matches the ticket ID, it returns ErrNotFound.
func SaveTicket(ctx context.Context, db *gorm.DB, t *domain.Ticket) error {
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ?", t.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTicket removes a ticket unconditionally. Deleting a missing ticket
// returns ErrNotFound.
func DeleteTicket(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Ticket{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
