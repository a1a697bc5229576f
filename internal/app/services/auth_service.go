package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/app/models/dto"
	"github.com/aiu/stimulus/internal/app/repositories"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
	"github.com/aiu/stimulus/internal/pkg/auth"
	"github.com/aiu/stimulus/internal/pkg/logger"
	"github.com/aiu/stimulus/internal/pkg/validation"
)

// AuthService handles authentication, registration and profile operations.
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *repositories.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login verifies credentials and returns a refresh/access token pair with
// the authenticated account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Email и пароль обязательны.")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Same response for unknown email and wrong password
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Неверные учетные данные.")
	}

	if !auth.CheckPassword(user.Password, password) || !user.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Неверные учетные данные.")
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Failed to generate token pair")
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &dto.TokenResponse{
		Refresh: refreshToken,
		Access:  accessToken,
		User:    dto.NewUserResponse(user),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", apperrors.ErrTokenInvalid
	}
	if !user.IsActive {
		return "", apperrors.ErrAccountDisabled
	}

	accessToken, _, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, nil
}

// Register creates a researcher account.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.ValidateEmail(email) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"Укажите корректный email.").WithField("email")
	}
	if !validation.ValidatePassword(req.Password) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"Пароль должен содержать не менее 8 символов.").WithField("password")
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:       email,
		Password:    hashed,
		FullName:    req.FullName,
		Role:        models.RoleResearcher,
		Position:    req.Position,
		Subdivision: req.Subdivision,
		Telephone:   req.Telephone,
		IsActive:    true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Str("email", user.Email).Msg("Researcher account registered")
	return user, nil
}

// UpdateMe applies a partial profile update. Email and role stay read only.
func (s *AuthService) UpdateMe(ctx context.Context, user *models.User, req *dto.UpdateMeRequest) (*models.User, error) {
	fields := map[string]interface{}{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Position != nil {
		fields["position"] = *req.Position
	}
	if req.Subdivision != nil {
		fields["subdivision"] = *req.Subdivision
	}
	if req.Telephone != nil {
		fields["telephone"] = *req.Telephone
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateProfile(ctx, user.ID, fields); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetByID(ctx, user.ID)
}
