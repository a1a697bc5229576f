package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/aiu/stimulus/internal/app/models"
)

// LoginRequest is the credentials payload for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"researcher@aiu.edu.kz"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RegisterRequest is the payload for POST /api/auth/register
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"required"`
	Position    string `json:"position" binding:"required"`
	Subdivision string `json:"subdivision" binding:"required"`
	Telephone   string `json:"telephone" binding:"required"`
}

// UpdateMeRequest is the payload for PATCH /api/auth/me.
// Email and role are read-only; omitted fields are left untouched.
type UpdateMeRequest struct {
	FullName    *string `json:"full_name"`
	Position    *string `json:"position"`
	Subdivision *string `json:"subdivision"`
	Telephone   *string `json:"telephone"`
}

// UserResponse is the public projection of a user account.
type UserResponse struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	Role        models.RoleType `json:"role"`
	Position    string          `json:"position"`
	Subdivision string          `json:"subdivision"`
	Telephone   string          `json:"telephone"`
	IsStaff     bool            `json:"is_staff"`
	DateJoined  time.Time       `json:"date_joined"`
}

// NewUserResponse projects a user model into its API representation.
func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		Position:    user.Position,
		Subdivision: user.Subdivision,
		Telephone:   user.Telephone,
		IsStaff:     user.IsAdmin(),
		DateJoined:  user.CreatedAt,
	}
}

// RefreshRequest is the payload for POST /api/auth/refresh
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// RefreshResponse carries the new access token.
type RefreshResponse struct {
	Access string `json:"access"`
}

// TokenResponse is the login response: a token pair plus the authenticated user.
type TokenResponse struct {
	Refresh string        `json:"refresh"`
	Access  string        `json:"access"`
	User    *UserResponse `json:"user"`
}
