// Package handlers defines HTTP-layer error codes used across all API
// endpoints.
//
// These symbolic constants give clients a stable, machine-readable error
// taxonomy alongside the HTTP status. Codes are lowercase snake_case;
// generic codes mirror common status semantics, domain-specific codes cover
// business failures a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeValidation         = "validation_failed"
	ErrCodeInvalidTransition  = "invalid_transition"
	ErrCodeBalanceOutstanding = "balance_outstanding"
	ErrCodeStoreUnavailable   = "store_unavailable"
	ErrCodeMethodNotAllowed   = "method_not_allowed"
)
