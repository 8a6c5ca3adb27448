package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appauth "github.com/lifelearn/lifelearn/internal/app/auth"
	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/app/models/dto"
	"github.com/lifelearn/lifelearn/internal/app/repositories"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
)

// UserService handles user and role management
type UserService interface {
	GetRole(ctx context.Context, actorEmail, email string) (*dto.RoleResponse, error)
	UpdateRole(ctx context.Context, id int64, role string) error
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	ListInstructors(ctx context.Context) ([]dto.UserResponse, error)
}

type userServiceImpl struct {
	users  UserStore
	authz  *appauth.AuthorizationService
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, authz *appauth.AuthorizationService, logger zerolog.Logger) UserService {
	return &userServiceImpl{users: users, authz: authz, logger: logger}
}

// GetRole resolves the role attached to an email. Callers may only query
// their own identity. Unknown emails resolve to role none rather than an
// error.
func (s *userServiceImpl) GetRole(ctx context.Context, actorEmail, email string) (*dto.RoleResponse, error) {
	email = normalizeEmail(email)
	if err := s.authz.RequireOwner(normalizeEmail(actorEmail), email); err != nil {
		return nil, err
	}

	role, err := s.users.GetRoleByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Error getting role")
		return nil, err
	}
	return &dto.RoleResponse{Email: email, Role: string(role)}, nil
}

// UpdateRole changes a user's stored role. Reachable only through
// admin-gated routes: roles are never self-service.
func (s *userServiceImpl) UpdateRole(ctx context.Context, id int64, role string) error {
	r := models.Role(role)
	if !r.IsValid() {
		return apperrors.ErrInvalidRole
	}

	if err := s.users.UpdateRole(ctx, id, r); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		s.logger.Error().Err(err).Int64("userID", id).Str("role", role).Msg("Error updating role")
		return err
	}
	return nil
}

// DeleteUser removes a user account
func (s *userServiceImpl) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		s.logger.Error().Err(err).Int64("userID", id).Msg("Error deleting user")
		return err
	}
	return nil
}

// ListUsers returns all registered users
func (s *userServiceImpl) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing users")
		return nil, err
	}
	return usersToResponses(users), nil
}

// ListInstructors returns users holding the instructor role. This is a
// public catalog view.
func (s *userServiceImpl) ListInstructors(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.GetUsersByRole(ctx, models.RoleInstructor)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing instructors")
		return nil, err
	}
	return usersToResponses(users), nil
}

func usersToResponses(users []*models.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, userToResponse(user))
	}
	return responses
}
