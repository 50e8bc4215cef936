// Package domain defines the persistence models for repair tickets and user
// accounts, together with the pure ticket lifecycle rules (see lifecycle.go).
// These types are mapped with GORM and form the core data layer of the
// repair-shop application.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketStatus is the closed set of states a repair ticket can be in.
// A ticket starts as StatusPending and ends, at the latest, in
// StatusDelivered; the legal moves between states are defined by Transition.
type TicketStatus string

const (
	// StatusPending is the initial state of every ticket: the device has
	// been received and is waiting for the technician.
	StatusPending TicketStatus = "pending"
	// StatusRepaired means the device was fixed and awaits pickup.
	StatusRepaired TicketStatus = "repaired"
	// StatusCannotRepair means the shop gave up on the device; the reason
	// is recorded in RepairNotes.
	StatusCannotRepair TicketStatus = "cannot_repair"
	// StatusDelivered is terminal: the device went back to the customer.
	StatusDelivered TicketStatus = "delivered"
)

// Valid reports whether s is one of the four known ticket statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusPending, StatusRepaired, StatusCannotRepair, StatusDelivered:
		return true
	}
	return false
}

// Ticket represents one device-repair job.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - DeviceType / CustomerName / CustomerPhone / IssueDescription: required
//     identity of the request, validated by ValidateForCreate.
//   - ServicePrice / AmountPaid: non-negative monetary amounts stored as
//     decimal(12,2) so currency values round-trip exactly.
//   - RemainingAmount: derived, always max(ServicePrice-AmountPaid, 0);
//     recomputed whenever either input changes, never negative.
//   - SerialNumber / CustomerNotes / RepairNotes: optional free text.
//   - Status: lifecycle state, see TicketStatus.
//   - DeliveredAt: set exactly once, when the ticket transitions into
//     StatusDelivered.
//   - CreatedBy: ID of the authenticated user who opened the ticket.
type Ticket struct {
	ID               string          `json:"id"                gorm:"type:char(36);primaryKey"`
	DeviceType       string          `json:"device_type"       gorm:"type:varchar(128);not null"`
	CustomerName     string          `json:"customer_name"     gorm:"type:varchar(255);not null;index"`
	CustomerPhone    string          `json:"customer_phone"    gorm:"type:varchar(32);not null;index"`
	IssueDescription string          `json:"issue_description" gorm:"type:text;not null"`
	ServicePrice     decimal.Decimal `json:"service_price"     gorm:"type:decimal(12,2);not null;default:0"`
	AmountPaid       decimal.Decimal `json:"amount_paid"       gorm:"type:decimal(12,2);not null;default:0"`
	RemainingAmount  decimal.Decimal `json:"remaining_amount"  gorm:"type:decimal(12,2);not null;default:0"`
	SerialNumber     string          `json:"serial_number,omitempty"  gorm:"type:varchar(128)"`
	CustomerNotes    string          `json:"customer_notes,omitempty" gorm:"type:text"`
	RepairNotes      string          `json:"repair_notes,omitempty"   gorm:"type:text"`
	Status           TicketStatus    `json:"status"            gorm:"type:varchar(16);not null;index;default:'pending'"`
	CreatedAt        time.Time       `json:"created_at"        gorm:"index"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeliveredAt      *time.Time      `json:"delivered_at,omitempty" gorm:"index"`
	CreatedBy        string          `json:"created_by"        gorm:"type:char(36);not null;index"`
}

// TableName returns the database table name for Ticket.
func (Ticket) TableName() string { return "tickets" }

// User is a shop employee account used for email/password authentication.
// Passwords are stored only as bcrypt hashes.
type User struct {
	ID           string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email"     gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-"         gorm:"type:varchar(128);not null"`
	FullName     string    `json:"full_name" gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// AggregateCount is one row of a ranked report: a label (an issue
// description or a device type) and how many tickets carry it.
type AggregateCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// StatusCounts is the overall breakdown of tickets by lifecycle state.
type StatusCounts struct {
	Pending      int64 `json:"pending"`
	Repaired     int64 `json:"repaired"`
	CannotRepair int64 `json:"cannot_repair"`
	Delivered    int64 `json:"delivered"`
	Total        int64 `json:"total"`
}
