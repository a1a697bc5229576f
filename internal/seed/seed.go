package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/app/repositories"
	"github.com/aiu/stimulus/internal/config"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
	"github.com/aiu/stimulus/internal/pkg/auth"
)

// CreateDefaultData seeds the default admin account when the seed credentials
// are configured. Without SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD the seeding
// step is skipped entirely, so production deployments opt in explicitly.
func CreateDefaultData(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	email := cfg.Seed.AdminEmail
	password := cfg.Seed.AdminPassword
	if email == "" || password == "" {
		lgr.Info().Msg("Admin seed credentials not configured, skipping default data")
		return nil
	}

	userRepo := repositories.NewUserRepository(dbPool)

	exists, err := userRepo.EmailExists(ctx, email)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to check for existing admin account")
		return err
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Admin account already present")
		return nil
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to hash admin password")
		return err
	}

	fullName := cfg.Seed.AdminFullName
	if fullName == "" {
		fullName = "Administrator"
	}

	admin := &models.User{
		Email:    email,
		Password: passwordHash,
		FullName: fullName,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Failed to create admin account")
		return err
	}

	lgr.Info().Str("email", email).Msg("Default admin account created")
	return nil
}
