package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/app/models/dto"
	"github.com/lifelearn/lifelearn/internal/app/repositories"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
	"github.com/lifelearn/lifelearn/internal/pkg/auth"
)

// AuthService handles registration and session token issuance
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

type authServiceImpl struct {
	users      UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a user account. Registration is idempotent: when the
// email is already registered the existing account is returned unchanged
// and flagged as existing, never treated as a conflict.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		s.logger.Error().Err(err).Str("email", email).Msg("Error checking for existing user")
		return nil, err
	}
	if existing != nil {
		return &dto.RegisterResponse{User: userToResponse(existing), Existing: true}, nil
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		Name:     strings.TrimSpace(req.Name),
		Role:     models.RoleNone,
	}
	if req.PhotoURL != "" {
		user.PhotoURL = &req.PhotoURL
	}

	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		// Lost a registration race; hand back the winner's row.
		if errors.Is(err, repositories.ErrEmailAlreadyExists) {
			winner, lookupErr := s.users.GetUserByEmail(ctx, email)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return &dto.RegisterResponse{User: userToResponse(winner), Existing: true}, nil
		}
		s.logger.Error().Err(err).Str("email", email).Msg("Error creating user")
		return nil, err
	}
	user.ID = id

	created, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{User: userToResponse(created), Existing: false}, nil
}

// Login verifies credentials and issues a session token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Str("email", email).Msg("Error fetching user for login")
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user.Email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Error generating token")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.TokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		User:      userToResponse(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userToResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		PhotoURL:  user.PhotoURL,
		CreatedAt: user.CreatedAt,
	}
}
