package dto

import "github.com/aiu/stimulus/internal/app/models"

// FacultiesResponse is the payload of GET /api/meta/faculties.
type FacultiesResponse struct {
	Faculties []models.Choice `json:"faculties"`
}

// IndexationResponse is the payload of GET /api/meta/indexation.
type IndexationResponse struct {
	Indexation []models.Choice `json:"indexation"`
}

// ReportYearsResponse is the payload of GET /api/meta/report_years.
type ReportYearsResponse struct {
	Years []int `json:"years"`
}
