package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lifelearn/lifelearn/internal/app/models/dto"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
	"github.com/lifelearn/lifelearn/internal/pkg/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret-key-for-unit-tests",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "lifelearn.test",
	})
}

func TestRegisterCreatesUser(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, newTestJWTService(), zerolog.Nop())

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "hunter22",
		Name:     "Jane Doe",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Existing {
		t.Error("first registration reported as existing")
	}
	if resp.User.Email != "jane@example.com" {
		t.Errorf("unexpected email %q", resp.User.Email)
	}
	if resp.User.Role != "none" {
		t.Errorf("new user role = %q, want none", resp.User.Role)
	}

	user, err := store.GetUserByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if user.Password == "hunter22" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, newTestJWTService(), zerolog.Nop())

	req := &dto.RegisterRequest{Email: "jane@example.com", Password: "hunter22", Name: "Jane Doe"}
	first, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	second, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "Jane@Example.com",
		Password: "different-password",
		Name:     "Someone Else",
	})
	if err != nil {
		t.Fatalf("second Register failed: %v", err)
	}
	if !second.Existing {
		t.Error("second registration not reported as existing")
	}
	if second.User.ID != first.User.ID {
		t.Errorf("second registration returned user %d, want %d", second.User.ID, first.User.ID)
	}
	if second.User.Name != "Jane Doe" {
		t.Errorf("existing user mutated: name = %q", second.User.Name)
	}

	users, _ := store.GetAllUsers(context.Background())
	if len(users) != 1 {
		t.Errorf("got %d user rows, want 1", len(users))
	}
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, newTestJWTService(), zerolog.Nop())

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "jane@example.com", Password: "hunter22", Name: "Jane Doe",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "jane@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("empty token")
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600", resp.ExpiresIn)
	}

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "jane@example.com", Password: "wrong",
	}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "nobody@example.com", Password: "hunter22",
	}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}
