package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
)

type mapRoleStore map[string]models.Role

func (m mapRoleStore) GetRoleByEmail(_ context.Context, email string) (models.Role, error) {
	if role, ok := m[email]; ok {
		return role, nil
	}
	// Unknown emails hold no role
	return models.RoleNone, nil
}

func TestResolveRole(t *testing.T) {
	svc := NewAuthorizationService(mapRoleStore{
		"admin@example.com": models.RoleAdmin,
		"teach@example.com": models.RoleInstructor,
	})

	cases := []struct {
		email string
		want  models.Role
	}{
		{"admin@example.com", models.RoleAdmin},
		{"teach@example.com", models.RoleInstructor},
		{"student@example.com", models.RoleNone},
	}
	for _, tc := range cases {
		got, err := svc.ResolveRole(context.Background(), tc.email)
		if err != nil {
			t.Fatalf("ResolveRole(%q) failed: %v", tc.email, err)
		}
		if got != tc.want {
			t.Errorf("ResolveRole(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestRequireRole(t *testing.T) {
	svc := NewAuthorizationService(mapRoleStore{
		"admin@example.com": models.RoleAdmin,
		"teach@example.com": models.RoleInstructor,
	})

	if err := svc.RequireRole(context.Background(), "admin@example.com", models.RoleAdmin); err != nil {
		t.Errorf("admin denied: %v", err)
	}
	if err := svc.RequireRole(context.Background(), "teach@example.com", models.RoleAdmin); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("instructor passing admin check: %v", err)
	}
	if err := svc.RequireRole(context.Background(), "teach@example.com", models.RoleInstructor); err != nil {
		t.Errorf("instructor denied: %v", err)
	}
	// Admins do not implicitly hold the instructor role
	if err := svc.RequireRole(context.Background(), "admin@example.com", models.RoleInstructor); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("admin passing instructor check: %v", err)
	}
	if err := svc.RequireRole(context.Background(), "nobody@example.com", models.RoleInstructor); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("unknown email passing instructor check: %v", err)
	}
}

func TestRequireOwner(t *testing.T) {
	svc := NewAuthorizationService(mapRoleStore{})

	if err := svc.RequireOwner("a@example.com", "a@example.com"); err != nil {
		t.Errorf("owner denied: %v", err)
	}
	if err := svc.RequireOwner("A@Example.com", "a@example.com"); err != nil {
		t.Errorf("owner denied on case difference: %v", err)
	}
	if err := svc.RequireOwner("a@example.com", "b@example.com"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("non-owner allowed: %v", err)
	}
}
