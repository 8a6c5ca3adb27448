package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	appauth "github.com/lifelearn/lifelearn/internal/app/auth"
	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
)

func newUserFixture(t *testing.T) (*memStore, UserService) {
	t.Helper()
	store := newMemStore()
	svc := NewUserService(store, appauth.NewAuthorizationService(store), zerolog.Nop())
	return store, svc
}

func TestGetRoleRequiresOwnership(t *testing.T) {
	store, svc := newUserFixture(t)

	if _, err := store.CreateUser(context.Background(), &models.User{
		Email: "victim@example.com",
		Name:  "Vic Tim",
		Role:  models.RoleAdmin,
	}); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	resp, err := svc.GetRole(context.Background(), "mallory@example.com", "victim@example.com")
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
	if resp != nil {
		t.Errorf("role disclosed to non-owner: %+v", resp)
	}
}

func TestGetRoleReturnsOwnRole(t *testing.T) {
	store, svc := newUserFixture(t)

	if _, err := store.CreateUser(context.Background(), &models.User{
		Email: "teach@example.com",
		Name:  "Pat Teach",
		Role:  models.RoleInstructor,
	}); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	resp, err := svc.GetRole(context.Background(), "Teach@Example.com", "teach@example.com")
	if err != nil {
		t.Fatalf("GetRole failed: %v", err)
	}
	if resp.Role != string(models.RoleInstructor) {
		t.Errorf("got role %q, want %q", resp.Role, models.RoleInstructor)
	}
}

func TestGetRoleUnknownEmailIsNone(t *testing.T) {
	_, svc := newUserFixture(t)

	resp, err := svc.GetRole(context.Background(), "nobody@example.com", "nobody@example.com")
	if err != nil {
		t.Fatalf("GetRole failed: %v", err)
	}
	if resp.Role != string(models.RoleNone) {
		t.Errorf("got role %q, want %q", resp.Role, models.RoleNone)
	}
}
