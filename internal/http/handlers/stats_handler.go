// Statistics HTTP handlers.
//
// Endpoints:
//   - GET /stats/overview       (per-status ticket counts)
//   - GET /stats/income         (income report with period changes)
//   - GET /stats/income/daily   (income for one calendar day)
//   - GET /stats/common-issues  (ranked issue descriptions)
//   - GET /stats/common-devices (ranked device types)
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fixlab/go-repair-backend/internal/utils"
)

const (
	defaultAggregateLimit = 10
	maxAggregateLimit     = 100
)

// DailyIncomeResponse reports the income recognized on one day.
type DailyIncomeResponse struct {
	Date  string          `json:"date" example:"2025-03-14"`
	Total decimal.Decimal `json:"total" swaggertype:"number" example:"750"`
}

// aggregateLimit clamps the ?limit= query to a sane range.
func aggregateLimit(c *gin.Context) int {
	n := utils.AtoiDefault(c.Query("limit"), defaultAggregateLimit)
	if n < 1 {
		n = defaultAggregateLimit
	}
	if n > maxAggregateLimit {
		n = maxAggregateLimit
	}
	return n
}

// Overview godoc
// @ID          statsOverview
// @Summary     Ticket counts by status
// @Tags        Stats
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  domain.StatusCounts
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Router      /stats/overview [get]
func (h *Handlers) Overview(c *gin.Context) {
	counts, err := h.statsSvc.Overview(c.Request.Context())
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, counts)
}

// IncomeReport godoc
// @ID          incomeReport
// @Summary     Income report
// @Description Returns daily, weekly, monthly, and yearly income with change percentages against the preceding period of the same length.
// @Tags        Stats
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  services.IncomeReport
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Router      /stats/income [get]
func (h *Handlers) IncomeReport(c *gin.Context) {
	report, err := h.statsSvc.Report(c.Request.Context())
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, report)
}

// DailyIncome godoc
// @ID          dailyIncome
// @Summary     Income for one day
// @Description Returns income recognized on the given UTC calendar day; defaults to today.
// @Tags        Stats
// @Produce     json
// @Security    BearerAuth
//
// @Param       date  query  string  false  "Day in YYYY-MM-DD form"  format(date)
//
// @Success     200  {object}  handlers.DailyIncomeResponse
// @Failure     400  {object}  handlers.ErrorResponse "Malformed date"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Router      /stats/income/daily [get]
func (h *Handlers) DailyIncome(c *gin.Context) {
	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	total, err := h.statsSvc.DailyIncome(c.Request.Context(), day)
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, DailyIncomeResponse{Date: day.Format("2006-01-02"), Total: total})
}

// CommonIssues godoc
// @ID          commonIssues
// @Summary     Most common issues
// @Description Returns issue descriptions ranked by ticket count.
// @Tags        Stats
// @Produce     json
// @Security    BearerAuth
//
// @Param       limit  query  int  false  "Maximum rows (1-100, default 10)"
//
// @Success     200  {array}   domain.AggregateCount
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Router      /stats/common-issues [get]
func (h *Handlers) CommonIssues(c *gin.Context) {
	items, err := h.statsSvc.CommonIssues(c.Request.Context(), aggregateLimit(c))
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// CommonDevices godoc
// @ID          commonDevices
// @Summary     Most common devices
// @Description Returns device types ranked by ticket count.
// @Tags        Stats
// @Produce     json
// @Security    BearerAuth
//
// @Param       limit  query  int  false  "Maximum rows (1-100, default 10)"
//
// @Success     200  {array}   domain.AggregateCount
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Router      /stats/common-devices [get]
func (h *Handlers) CommonDevices(c *gin.Context) {
	items, err := h.statsSvc.CommonDevices(c.Request.Context(), aggregateLimit(c))
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}
