package auth

import (
	"context"
	"strings"

	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
	"github.com/lifelearn/lifelearn/internal/pkg/logger"
)

// RoleStore looks up the stored role for an email. Accounts without a
// stored role resolve to models.RoleNone.
type RoleStore interface {
	GetRoleByEmail(ctx context.Context, email string) (models.Role, error)
}

// AuthorizationService handles authorization checks. Roles are always
// resolved from the store at check time, never taken from token claims.
type AuthorizationService struct {
	roles RoleStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(roles RoleStore) *AuthorizationService {
	return &AuthorizationService{roles: roles}
}

// ResolveRole returns the current stored role for the email
func (s *AuthorizationService) ResolveRole(ctx context.Context, email string) (models.Role, error) {
	role, err := s.roles.GetRoleByEmail(ctx, email)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error resolving role")
		return models.RoleNone, err
	}
	return role, nil
}

// RequireRole validates that the email currently holds the given role
func (s *AuthorizationService) RequireRole(ctx context.Context, email string, required models.Role) error {
	role, err := s.ResolveRole(ctx, email)
	if err != nil {
		return err
	}
	if role != required {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// RequireOwner validates that the actor owns the resource. Emails compare
// case-insensitively. Admins are not exempt here; endpoints that allow
// admin access check the role explicitly.
func (s *AuthorizationService) RequireOwner(actorEmail, resourceEmail string) error {
	if !strings.EqualFold(actorEmail, resourceEmail) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
