// Ticket lifecycle rules.
//
// This file is the pure core of the application: the arithmetic linking
// price, payment and remaining balance, the required-field check performed
// before a ticket may be created, and the guarded state machine for status
// changes. Nothing here touches the database; callers persist the returned
// values through the store.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle errors. Handlers map these onto HTTP results; the store is never
// touched when one of them is returned.
var (
	// ErrInvalidTransition is returned for any status change outside the
	// transition table, including every attempt to leave StatusDelivered.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOutstandingBalance blocks delivery while the customer still owes
	// money. The ticket is left unchanged.
	ErrOutstandingBalance = errors.New("balance outstanding")
)

// ValidationError reports the required ticket fields that were empty or
// all-whitespace. Fields holds JSON field names, in declaration order.
type ValidationError struct {
	Fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// ValidateForCreate checks that the four required identity fields of a
// candidate ticket are non-empty after trimming. It is a pure check: no
// normalization is applied to the ticket itself.
//
// On failure it returns a *ValidationError naming every missing field.
func ValidateForCreate(t Ticket) error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"device_type", t.DeviceType},
		{"customer_name", t.CustomerName},
		{"customer_phone", t.CustomerPhone},
		{"issue_description", t.IssueDescription},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// NormalizeAmount clamps a monetary input to the domain: negative values
// become zero. The original intake form fell back to zero on unparseable
// input as well; JSON decoding handles that case upstream, so only the sign
// is normalized here.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ComputeRemaining derives the balance still owed by the customer:
// max(servicePrice - amountPaid, 0). Negative inputs are clamped to zero
// before subtraction, and the result is never negative. Arithmetic is
// decimal-exact; two-decimal currency values round-trip without drift.
func ComputeRemaining(servicePrice, amountPaid decimal.Decimal) decimal.Decimal {
	remaining := NormalizeAmount(servicePrice).Sub(NormalizeAmount(amountPaid))
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// transitions is the legal-move table of the ticket state machine. Guards
// (the cannot_repair reason and the zero-balance delivery check) are
// enforced in Transition.
var transitions = map[TicketStatus][]TicketStatus{
	StatusPending:      {StatusRepaired, StatusCannotRepair},
	StatusRepaired:     {StatusDelivered},
	StatusCannotRepair: {StatusDelivered},
	StatusDelivered:    {}, // terminal
}

// allowed reports whether the table permits moving from one status to another.
func allowed(from, to TicketStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition applies a status change to a copy of the ticket and returns it.
// It persists nothing; the caller writes the result through the store.
//
// Rules:
//   - Only moves in the transition table are accepted; anything else fails
//     with ErrInvalidTransition (StatusDelivered is terminal).
//   - pending → cannot_repair requires a non-empty reason, which is stored
//     as RepairNotes. A blank reason fails with a *ValidationError naming
//     repair_notes.
//   - Moving into StatusDelivered requires RemainingAmount to be zero,
//     otherwise ErrOutstandingBalance is returned and the ticket is left
//     untouched. The balance guard wins over the table: an unpaid ticket
//     reports ErrOutstandingBalance whatever its current status.
//   - DeliveredAt is stamped with now exactly when the target is
//     StatusDelivered and the guard passed. Optional notes on other
//     transitions are stored as RepairNotes when non-empty.
func Transition(t Ticket, target TicketStatus, notes string, now time.Time) (Ticket, error) {
	if target == StatusDelivered && t.RemainingAmount.IsPositive() {
		return t, ErrOutstandingBalance
	}
	if !target.Valid() || !allowed(t.Status, target) {
		return t, ErrInvalidTransition
	}

	notes = strings.TrimSpace(notes)
	if target == StatusCannotRepair && notes == "" {
		return t, &ValidationError{Fields: []string{"repair_notes"}}
	}

	t.Status = target
	if notes != "" {
		t.RepairNotes = notes
	}
	if target == StatusDelivered {
		deliveredAt := now.UTC()
		t.DeliveredAt = &deliveredAt
	}
	return t, nil
}
