package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/aiu/stimulus/internal/app/models"
)

// CoauthorRequest is the payload for the standalone coauthor CRUD endpoints.
type CoauthorRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Position      string `json:"position"`
	Subdivision   string `json:"subdivision"`
	Telephone     string `json:"telephone"`
	Email         string `json:"email" binding:"omitempty,email"`
	IsAIUEmployee bool   `json:"is_aiu_employee"`
}

// CoauthorUpdateRequest is the partial-update payload for coauthors.
// Omitted fields keep their persisted values.
type CoauthorUpdateRequest struct {
	FullName      *string `json:"full_name"`
	Position      *string `json:"position"`
	Subdivision   *string `json:"subdivision"`
	Telephone     *string `json:"telephone"`
	Email         *string `json:"email" binding:"omitempty,email"`
	IsAIUEmployee *bool   `json:"is_aiu_employee"`
}

// CoauthorFilterRequest holds list query parameters for coauthors.
type CoauthorFilterRequest struct {
	Subdivision string `form:"subdivision"`
	Position    string `form:"position"`
	Ordering    string `form:"ordering"` // full_name | email | created_at
	Search      string `form:"search"`
}

// CoauthorResponse is the API projection of a coauthor.
type CoauthorResponse struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	Position      string    `json:"position"`
	Subdivision   string    `json:"subdivision"`
	Telephone     string    `json:"telephone"`
	Email         string    `json:"email"`
	IsAIUEmployee bool      `json:"is_aiu_employee"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewCoauthorResponse projects a coauthor model into its API representation.
func NewCoauthorResponse(co *models.Coauthor) *CoauthorResponse {
	return &CoauthorResponse{
		ID:            co.ID,
		FullName:      co.FullName,
		Position:      co.Position,
		Subdivision:   co.Subdivision,
		Telephone:     co.Telephone,
		Email:         co.Email,
		IsAIUEmployee: co.IsAIUEmployee,
		CreatedAt:     co.CreatedAt,
	}
}
