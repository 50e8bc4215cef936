package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fixlab/go-repair-backend/internal/domain"
	"github.com/fixlab/go-repair-backend/internal/store"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t, &domain.User{})
	return NewAuthService(db, []byte("test-secret"), time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, " Owner@FixLab.example ", "long-enough", "Ahmed Hassan")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == "" || u.Email != "owner@fixlab.example" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "long-enough" || u.PasswordHash == "" {
		t.Fatalf("password stored in the clear or missing")
	}
}

func TestAuthService_Register_Rejections(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "long-enough", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Register(ctx, "", "long-enough", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail for blank, got %v", err)
	}
	if _, err := svc.Register(ctx, "a@b.c", "short", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if _, err := svc.Register(ctx, "a@b.c", "long-enough", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "A@B.C", "long-enough", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "owner@fixlab.example", "long-enough", "Ahmed")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, got, err := svc.Login(ctx, "owner@fixlab.example", "long-enough")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != u.ID || token == "" {
		t.Fatalf("unexpected login result: %+v token=%q", got, token)
	}

	// Token parses with the same secret and carries the user as subject.
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub != u.ID {
		t.Fatalf("subject = %q, want %q", sub, u.ID)
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil || time.Until(exp.Time) > time.Hour+time.Minute {
		t.Fatalf("unexpected expiry: %v", exp)
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "owner@fixlab.example", "long-enough", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "owner@fixlab.example", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@fixlab.example", "long-enough"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "owner@fixlab.example", "long-enough", "Ahmed")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := svc.CurrentUser(ctx, u.ID)
	if err != nil || got.Email != u.Email {
		t.Fatalf("CurrentUser: %v %+v", err, got)
	}
	if _, err := svc.CurrentUser(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_NilDB(t *testing.T) {
	svc := NewAuthService(nil, []byte("s"), time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.c", "long-enough", ""); !errors.Is(err, store.ErrStoreUnavailable) {
		t.Fatalf("Register: expected ErrStoreUnavailable, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "a@b.c", "long-enough"); !errors.Is(err, store.ErrStoreUnavailable) {
		t.Fatalf("Login: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := svc.CurrentUser(ctx, "id"); !errors.Is(err, store.ErrStoreUnavailable) {
		t.Fatalf("CurrentUser: expected ErrStoreUnavailable, got %v", err)
	}
}
