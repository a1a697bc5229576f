package models

import (
	"time"

	"github.com/google/uuid"
)

// Coauthor is a named contributor associated with a paper. Coauthors have no
// user account; every paper submission inserts fresh rows (see paper service).
type Coauthor struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FullName      string    `json:"full_name" db:"full_name"`
	Position      string    `json:"position" db:"position"`
	Subdivision   string    `json:"subdivision" db:"subdivision"`
	Telephone     string    `json:"telephone" db:"telephone"`
	Email         string    `json:"email" db:"email"`
	IsAIUEmployee bool      `json:"is_aiu_employee" db:"is_aiu_employee"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
