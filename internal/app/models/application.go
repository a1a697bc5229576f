package models

import (
	"time"

	"github.com/google/uuid"
)

// Application is a researcher's compensation claim aggregating one or more papers.
type Application struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	OwnerID       uuid.UUID         `json:"owner" db:"owner_id"`
	Status        ApplicationStatus `json:"status" db:"status" example:"draft"`
	Faculty       *Faculty          `json:"faculty" db:"faculty"` // Nullable until the owner picks one
	ReportYear    int               `json:"report_year" db:"report_year"`
	AdminComment  string            `json:"admin_comment" db:"admin_comment"`
	GeneratedDocx *string           `json:"generated_docx" db:"generated_docx"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`

	Owner  *User    `json:"-"`
	Papers []*Paper `json:"papers,omitempty"`
}

// Editable reports whether the application is in a status its owner may modify.
func (a *Application) Editable() bool {
	return a.Status == StatusDraft || a.Status == StatusRejected
}

// Blocked reports whether non-admin edits are locked out.
func (a *Application) Blocked() bool {
	return a.Status == StatusSubmitted || a.Status == StatusApproved
}
