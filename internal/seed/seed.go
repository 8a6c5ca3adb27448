package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/lifelearn/lifelearn/internal/app/models"
	appRepos "github.com/lifelearn/lifelearn/internal/app/repositories"
	"github.com/lifelearn/lifelearn/internal/config"
	pkgAuth "github.com/lifelearn/lifelearn/internal/pkg/auth"
)

// CreateDefaultData creates the default admin account if it doesn't exist.
// Roles are never self-service, so without a seeded admin nobody could
// grant the first admin role.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	adminEmail := config.GetEnv("ADMIN_EMAIL", "admin@lifelearn.app")
	adminPassword := config.GetEnv("ADMIN_PASSWORD", "")
	if adminPassword == "" {
		lgr.Warn().Msg("ADMIN_PASSWORD not set, skipping default admin creation")
		return nil
	}

	if _, err := userRepo.GetUserByEmail(ctx, adminEmail); err == nil {
		lgr.Debug().Str("email", adminEmail).Msg("Default admin already exists")
		return nil
	} else if !errors.Is(err, appRepos.ErrNotFound) {
		return err
	}

	hashed, err := pkgAuth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := &appModels.User{
		Email:    adminEmail,
		Password: hashed,
		Name:     "Administrator",
		Role:     appModels.RoleAdmin,
	}
	if _, err := userRepo.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, appRepos.ErrEmailAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating default admin")
		return err
	}

	lgr.Info().Str("email", adminEmail).Msg("Default admin account created")
	return nil
}
