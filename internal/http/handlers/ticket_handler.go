// Ticket HTTP handlers.
//
// This file exposes REST endpoints for ticket resources:
//   - GET    /tickets             (list, optional status filter and search)
//   - POST   /tickets             (intake)
//   - GET    /tickets/{id}        (fetch)
//   - PUT    /tickets/{id}        (edit fields)
//   - DELETE /tickets/{id}        (remove)
//   - PUT    /tickets/{id}/status (lifecycle transition)
//
// Handlers are transport-thin: they validate input shape, call application
// services, and translate results into HTTP responses. Lifecycle rules are
// enforced in the domain package and surface here as typed errors.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fixlab/go-repair-backend/internal/domain"
	"github.com/fixlab/go-repair-backend/internal/http/middleware"
	"github.com/fixlab/go-repair-backend/internal/services"
	"github.com/fixlab/go-repair-backend/internal/store"
)

//
// Service contracts (context-aware)
//

// TicketService defines ticket operations consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use and honor the provided
// context for cancellation and timeouts.
type TicketService interface {
	// Create validates intake fields and persists a new pending ticket.
	Create(ctx context.Context, userID string, in services.CreateTicketInput) (*domain.Ticket, error)
	// Update applies a partial edit and recomputes the remaining balance.
	Update(ctx context.Context, id string, in services.UpdateTicketInput) (*domain.Ticket, error)
	// ChangeStatus runs the guarded lifecycle transition.
	ChangeStatus(ctx context.Context, id string, target domain.TicketStatus, notes string) (*domain.Ticket, error)
	// List returns tickets filtered by optional status and search text.
	List(ctx context.Context, status, q string) ([]domain.Ticket, error)
	// Get fetches one ticket by ID.
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	// Delete removes a ticket unconditionally.
	Delete(ctx context.Context, id string) error
}

// StatsService defines the statistics operations consumed by HTTP handlers.
type StatsService interface {
	// DailyIncome returns the income recognized on one calendar day.
	DailyIncome(ctx context.Context, day time.Time) (decimal.Decimal, error)
	// Report assembles income totals and period-over-period changes.
	Report(ctx context.Context) (*services.IncomeReport, error)
	// CommonIssues returns the ranked most-common-issue report.
	CommonIssues(ctx context.Context, limit int) ([]domain.AggregateCount, error)
	// CommonDevices returns the ranked most-common-device report.
	CommonDevices(ctx context.Context, limit int) ([]domain.AggregateCount, error)
	// Overview returns per-status ticket counts.
	Overview(ctx context.Context) (domain.StatusCounts, error)
}

// AuthService defines account operations consumed by HTTP handlers.
type AuthService interface {
	// Register creates a new account.
	Register(ctx context.Context, email, password, fullName string) (*domain.User, error)
	// Login verifies credentials and issues an access token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// CurrentUser resolves the account behind a session.
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for tickets, statistics, and auth.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	ticketSvc TicketService
	statsSvc  StatsService
	authSvc   AuthService
}

// New constructs a Handlers instance bound to the given services.
func New(ticketSvc TicketService, statsSvc StatsService, authSvc AuthService) *Handlers {
	return &Handlers{ticketSvc: ticketSvc, statsSvc: statsSvc, authSvc: authSvc}
}

//
// DTOs
//

// CreateTicketRequest is the JSON payload for opening a ticket. Monetary
// amounts accept JSON numbers or strings and are decoded decimal-exact.
type CreateTicketRequest struct {
	DeviceType       string          `json:"device_type" example:"iPhone 12"`
	CustomerName     string          `json:"customer_name" example:"Ahmed Hassan"`
	CustomerPhone    string          `json:"customer_phone" example:"+201001234567"`
	IssueDescription string          `json:"issue_description" example:"cracked screen"`
	ServicePrice     decimal.Decimal `json:"service_price" swaggertype:"number" example:"500"`
	AmountPaid       decimal.Decimal `json:"amount_paid" swaggertype:"number" example:"200"`
	SerialNumber     string          `json:"serial_number,omitempty"`
	CustomerNotes    string          `json:"customer_notes,omitempty"`
}

// UpdateTicketRequest is the JSON payload for a partial ticket edit.
// Absent fields are left unchanged.
type UpdateTicketRequest struct {
	DeviceType       *string          `json:"device_type,omitempty"`
	CustomerName     *string          `json:"customer_name,omitempty"`
	CustomerPhone    *string          `json:"customer_phone,omitempty"`
	IssueDescription *string          `json:"issue_description,omitempty"`
	ServicePrice     *decimal.Decimal `json:"service_price,omitempty" swaggertype:"number"`
	AmountPaid       *decimal.Decimal `json:"amount_paid,omitempty" swaggertype:"number"`
	SerialNumber     *string          `json:"serial_number,omitempty"`
	CustomerNotes    *string          `json:"customer_notes,omitempty"`
}

// ChangeStatusRequest is the JSON payload for a lifecycle transition.
// Notes are required when the target is cannot_repair (the reason).
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required" example:"repaired"`
	Notes  string `json:"notes,omitempty" example:"water damage beyond repair"`
}

//
// Helpers
//

// failTicketErr maps service/domain errors onto the error envelope.
func failTicketErr(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ErrCodeValidation, ve.Error())
	case errors.Is(err, domain.ErrOutstandingBalance):
		fail(c, http.StatusConflict, ErrCodeBalanceOutstanding, "cannot deliver: balance outstanding")
	case errors.Is(err, domain.ErrInvalidTransition):
		fail(c, http.StatusConflict, ErrCodeInvalidTransition, "invalid status transition")
	case errors.Is(err, services.ErrTicketNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "ticket not found")
	case errors.Is(err, services.ErrUnknownStatus):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown ticket status")
	case errors.Is(err, store.ErrStoreUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "ticket store unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// parseTicketID validates the path parameter and reports failure itself.
func parseTicketID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ticket id must be a UUID")
		return "", false
	}
	return id, true
}

//
// Handlers
//

// ListTickets godoc
// @ID          listTickets
// @Summary     List repair tickets
// @Description Returns tickets, most recent first, optionally filtered by status and by a search over customer name, phone, and device type.
// @Tags        Tickets
// @Produce     json
// @Security    BearerAuth
//
// @Param       status  query  string  false  "Filter by lifecycle status"  Enums(pending, repaired, cannot_repair, delivered)
// @Param       q       query  string  false  "Search text"
//
// @Success     200  {array}   domain.Ticket
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Router      /tickets [get]
func (h *Handlers) ListTickets(c *gin.Context) {
	items, err := h.ticketSvc.List(c.Request.Context(), c.Query("status"), c.Query("q"))
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// CreateTicket godoc
// @ID          createTicket
// @Summary     Open a repair ticket
// @Description Validates the intake fields and creates a ticket in the pending state owned by the current user.
// @Tags        Tickets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.CreateTicketRequest  true  "Intake payload"
//
// @Success     201  {object}  domain.Ticket
// @Failure     400  {object}  handlers.ErrorResponse "Missing required fields"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     503  {object}  handlers.ErrorResponse "Store unavailable"
// @Router      /tickets [post]
func (h *Handlers) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	t, err := h.ticketSvc.Create(c.Request.Context(), middleware.UserID(c), services.CreateTicketInput{
		DeviceType:       req.DeviceType,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		IssueDescription: req.IssueDescription,
		ServicePrice:     req.ServicePrice,
		AmountPaid:       req.AmountPaid,
		SerialNumber:     req.SerialNumber,
		CustomerNotes:    req.CustomerNotes,
	})
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusCreated, t)
}

// GetTicket godoc
// @ID          getTicket
// @Summary     Fetch a ticket
// @Tags        Tickets
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Ticket ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Ticket
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Ticket not found"
// @Router      /tickets/{id} [get]
func (h *Handlers) GetTicket(c *gin.Context) {
	id, okID := parseTicketID(c)
	if !okID {
		return
	}
	t, err := h.ticketSvc.Get(c.Request.Context(), id)
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// UpdateTicket godoc
// @ID          updateTicket
// @Summary     Edit ticket fields
// @Description Applies a partial edit. Required fields must stay non-empty; the remaining balance is recomputed when price or payment changes.
// @Tags        Tickets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string                        true  "Ticket ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateTicketRequest  true  "Partial edit"
//
// @Success     200  {object}  domain.Ticket
// @Failure     400  {object}  handlers.ErrorResponse "Validation failed"
// @Failure     404  {object}  handlers.ErrorResponse "Ticket not found"
// @Failure     503  {object}  handlers.ErrorResponse "Store unavailable"
// @Router      /tickets/{id} [put]
func (h *Handlers) UpdateTicket(c *gin.Context) {
	id, okID := parseTicketID(c)
	if !okID {
		return
	}
	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	t, err := h.ticketSvc.Update(c.Request.Context(), id, services.UpdateTicketInput{
		DeviceType:       req.DeviceType,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		IssueDescription: req.IssueDescription,
		ServicePrice:     req.ServicePrice,
		AmountPaid:       req.AmountPaid,
		SerialNumber:     req.SerialNumber,
		CustomerNotes:    req.CustomerNotes,
	})
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// DeleteTicket godoc
// @ID          deleteTicket
// @Summary     Delete a ticket
// @Description Removes a ticket unconditionally.
// @Tags        Tickets
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Ticket ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Ticket not found"
// @Failure     503  {object}  handlers.ErrorResponse "Store unavailable"
// @Router      /tickets/{id} [delete]
func (h *Handlers) DeleteTicket(c *gin.Context) {
	id, okID := parseTicketID(c)
	if !okID {
		return
	}
	if err := h.ticketSvc.Delete(c.Request.Context(), id); err != nil {
		failTicketErr(c, err)
		return
	}
	noContent(c)
}

// ChangeTicketStatus godoc
// @ID          changeTicketStatus
// @Summary     Move a ticket through its lifecycle
// @Description Applies a guarded status transition. Delivery requires a zero remaining balance; cannot_repair requires a reason in notes.
// @Tags        Tickets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string                       true  "Ticket ID (UUID)"  format(uuid)
// @Param       body  body  handlers.ChangeStatusRequest true  "Transition payload"
//
// @Success     200  {object}  domain.Ticket
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Ticket not found"
// @Failure     409  {object}  handlers.ErrorResponse "Invalid transition or balance outstanding"
// @Failure     503  {object}  handlers.ErrorResponse "Store unavailable"
// @Router      /tickets/{id}/status [put]
func (h *Handlers) ChangeTicketStatus(c *gin.Context) {
	id, okID := parseTicketID(c)
	if !okID {
		return
	}
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}

	t, err := h.ticketSvc.ChangeStatus(c.Request.Context(), id, domain.TicketStatus(req.Status), req.Notes)
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}
