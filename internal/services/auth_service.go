// Package services – AuthService
//
// This file implements email/password authentication: account registration
// with bcrypt password hashing, sign-in issuing a signed HS256 JWT, and
// current-session lookup. Sign-out is stateless (the client discards its
// token), so no server-side session storage exists.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fixlab/go-repair-backend/internal/domain"
	"github.com/fixlab/go-repair-backend/internal/repo"
	"github.com/fixlab/go-repair-backend/internal/store"
)

// minPasswordLen is the minimum accepted password length.
const minPasswordLen = 8

// AuthService manages user accounts and access tokens.
type AuthService struct {
	// DB is the GORM handle used for account persistence.
	DB *gorm.DB
	// Secret signs and verifies access tokens (HS256).
	Secret []byte
	// TokenTTL bounds how long an issued token stays valid.
	TokenTTL time.Duration

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

// NewAuthService constructs an AuthService with the given signing secret
// and token lifetime.
func NewAuthService(db *gorm.DB, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{DB: db, Secret: secret, TokenTTL: ttl, now: time.Now}
}

// Register creates a new account. The email must look like an address and
// be unused; the password must meet the minimum length. The stored hash is
// bcrypt; the plaintext is never persisted.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("%w: no database configured", store.ErrStoreUnavailable)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	if _, err := repo.GetUserByEmail(ctx, s.DB, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return repo.CreateUser(ctx, s.DB, email, string(hash), fullName)
}

// Login verifies the credentials and returns a signed access token plus the
// account. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if s.DB == nil {
		return "", nil, fmt.Errorf("%w: no database configured", store.ErrStoreUnavailable)
	}
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  u.ID,
		"name": u.FullName,
		"iat":  now.Unix(),
		"exp":  now.Add(s.TokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", nil, err
	}
	return signed, u, nil
}

// CurrentUser resolves the account behind an authenticated session.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("%w: no database configured", store.ErrStoreUnavailable)
	}
	u, err := repo.GetUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
