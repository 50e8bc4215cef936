// Package services defines the business logic for tickets, statistics, and
// authentication. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; mapping
// them onto user-facing messages or HTTP status codes is performed at the
// handler layer. Lifecycle errors (invalid transition, outstanding balance,
// missing required fields) are defined in the domain package and pass
// through the services unchanged.
package services

import "errors"

// Ticket-related errors.
var (
	// ErrTicketNotFound indicates that the requested ticket does not exist.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrUnknownStatus is returned when a list filter names a status
	// outside the four known lifecycle states.
	ErrUnknownStatus = errors.New("unknown ticket status")
)

// Authentication errors.
var (
	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidEmail is returned when the supplied email is empty or
	// not plausibly an address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned when the supplied password is shorter
	// than the minimum length.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidCredentials is returned for a sign-in with an unknown
	// email or a wrong password. The two cases are deliberately not
	// distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound indicates that a session references an account
	// that no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
