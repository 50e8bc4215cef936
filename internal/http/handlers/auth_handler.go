// Auth HTTP handlers.
//
// Endpoints:
//   - POST /auth/register
//   - POST /auth/login
//   - POST /auth/logout
//   - GET  /auth/me
//
// Sessions are stateless JWTs; logout is a client-side discard and the
// endpoint exists only so clients have a uniform call to make.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixlab/go-repair-backend/internal/domain"
	"github.com/fixlab/go-repair-backend/internal/http/middleware"
	"github.com/fixlab/go-repair-backend/internal/services"
	"github.com/fixlab/go-repair-backend/internal/store"
)

// RegisterRequest is the JSON payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required" example:"owner@fixlab.example"`
	Password string `json:"password" binding:"required" example:"correct horse battery"`
	FullName string `json:"full_name,omitempty" example:"Ahmed Hassan"`
}

// LoginRequest is the JSON payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"owner@fixlab.example"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token and its owner.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func failAuthErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidEmail):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid email address")
	case errors.Is(err, services.ErrWeakPassword):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "password too short")
	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, "email already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
	case errors.Is(err, store.ErrStoreUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "account store unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Registers a staff account with an email and password.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Account details"
//
// @Success     201  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse "Invalid email or weak password"
// @Failure     409  {object}  handlers.ErrorResponse "Email already registered"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}
	u, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		failAuthErr(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and returns a bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.LoginResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}
	token, u, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failAuthErr(c, err)
		return
	}
	ok(c, http.StatusOK, LoginResponse{Token: token, User: u})
}

// Logout godoc
// @ID          logout
// @Summary     Log out
// @Description Tokens are stateless; the client discards its copy.
// @Tags        Auth
// @Security    BearerAuth
//
// @Success     204  {string}  string "No Content"
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	noContent(c)
}

// Me godoc
// @ID          me
// @Summary     Current account
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse "User not found"
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	u, err := h.authSvc.CurrentUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		failAuthErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
