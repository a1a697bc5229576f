package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/aiu/stimulus/internal/app/models"
)

// CreateApplicationRequest is the payload for POST /api/applications.
// Owner and status are always forced server-side (caller, draft).
type CreateApplicationRequest struct {
	Faculty    *models.Faculty `json:"faculty"`
	ReportYear *int            `json:"report_year"`
}

// UpdateApplicationRequest is the payload for PATCH /api/applications/:id.
// Omitted fields keep their persisted values (update_fields semantics).
type UpdateApplicationRequest struct {
	Faculty    *models.Faculty           `json:"faculty"`
	ReportYear *int                      `json:"report_year"`
	Status     *models.ApplicationStatus `json:"status"`
}

// ReviewRequest carries the admin comment for approve/reject actions.
type ReviewRequest struct {
	Comment string `json:"comment"`
}

// ApplicationFilterRequest holds list query parameters.
type ApplicationFilterRequest struct {
	Status   string `form:"status"`
	Faculty  string `form:"faculty"`
	Ordering string `form:"ordering"` // created_at | report_year, "-" prefix for descending
	Search   string `form:"search"`   // matches owner email / full name
}

// ApplicationResponse is the API projection of an application aggregate.
type ApplicationResponse struct {
	ID            uuid.UUID                `json:"id"`
	Owner         uuid.UUID                `json:"owner"`
	OwnerEmail    string                   `json:"owner_email"`
	OwnerFullName string                   `json:"owner_full_name"`
	Faculty       *models.Faculty          `json:"faculty"`
	Status        models.ApplicationStatus `json:"status"`
	StatusDisplay string                   `json:"status_display"`
	ReportYear    int                      `json:"report_year"`
	AdminComment  string                   `json:"admin_comment"`
	GeneratedDocx *string                  `json:"generated_docx"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	Papers        []PaperResponse          `json:"papers"`
}

// NewApplicationResponse projects an application aggregate, including nested papers.
func NewApplicationResponse(app *models.Application) *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:            app.ID,
		Owner:         app.OwnerID,
		Faculty:       app.Faculty,
		Status:        app.Status,
		StatusDisplay: app.Status.Label(),
		ReportYear:    app.ReportYear,
		AdminComment:  app.AdminComment,
		GeneratedDocx: app.GeneratedDocx,
		CreatedAt:     app.CreatedAt,
		UpdatedAt:     app.UpdatedAt,
		Papers:        []PaperResponse{},
	}
	if app.Owner != nil {
		resp.OwnerEmail = app.Owner.Email
		resp.OwnerFullName = app.Owner.FullName
	}
	for _, paper := range app.Papers {
		resp.Papers = append(resp.Papers, *NewPaperResponse(paper))
	}
	return resp
}
