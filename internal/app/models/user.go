package models

import (
	"time"

	"github.com/google/uuid"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Email       string    `json:"email" db:"email" example:"researcher@aiu.edu.kz"`
	Password    string    `json:"-" db:"password"` // Hashed, excluded from JSON
	FullName    string    `json:"full_name" db:"full_name" example:"Иванов Иван Иванович"`
	Role        RoleType  `json:"role" db:"role" example:"researcher"`
	Position    string    `json:"position" db:"position" example:"Профессор"`
	Subdivision string    `json:"subdivision" db:"subdivision"`
	Telephone   string    `json:"telephone" db:"telephone"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
