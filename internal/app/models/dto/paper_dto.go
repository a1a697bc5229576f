package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aiu/stimulus/internal/app/models"
)

// CoauthorInput is a coauthor descriptor supplied with a paper. A provided id
// is accepted but ignored: submissions always insert fresh coauthor rows.
type CoauthorInput struct {
	ID            *uuid.UUID `json:"id"`
	FullName      string     `json:"full_name"`
	Position      string     `json:"position"`
	Subdivision   string     `json:"subdivision"`
	Telephone     string     `json:"telephone"`
	Email         string     `json:"email"`
	IsAIUEmployee bool       `json:"is_aiu_employee"`
}

// PaperForm is the create/update payload for papers. It binds from JSON bodies
// and from multipart forms (file uploads ride alongside in the same request).
// Every field is optional so partial updates can tell "omitted" from "zero".
type PaperForm struct {
	Application              *uuid.UUID         `json:"application" form:"application"`
	Title                    *string            `json:"title" form:"title"`
	JournalOrSource          *string            `json:"journal_or_source" form:"journal_or_source"`
	Indexation               *models.Indexation `json:"indexation" form:"indexation"`
	Quartile                 *string            `json:"quartile" form:"quartile"`
	Percentile               *int               `json:"percentile" form:"percentile"`
	DOI                      *string            `json:"doi" form:"doi"`
	PublicationDate          *string            `json:"publication_date" form:"publication_date"` // YYYY-MM-DD
	Year                     *int               `json:"year" form:"year"`
	Volume                   *int               `json:"volume" form:"volume"`
	Number                   *string            `json:"number" form:"number"`
	Pages                    *string            `json:"pages" form:"pages"`
	HasUniversityAffiliation *bool              `json:"has_university_affiliation" form:"has_university_affiliation"`
	RegisteredInPlatonus     *bool              `json:"registered_in_platonus" form:"registered_in_platonus"`
	SourceURL                *string            `json:"source_url" form:"source_url"`

	// Structured coauthor list (JSON bodies).
	Coauthors []CoauthorInput `json:"coauthors" form:"-"`
	// Serialized fallback for multipart forms; parsed into the same structure.
	CoauthorsJSON *string `json:"coauthors_json" form:"coauthors_json"`
}

// ResolveCoauthors returns the coauthor descriptors for this form, preferring
// the serialized fallback when both are present. provided is false when the
// request did not touch coauthors at all (partial update must leave them be).
func (f *PaperForm) ResolveCoauthors() (coauthors []CoauthorInput, provided bool, err error) {
	if f.CoauthorsJSON != nil && strings.TrimSpace(*f.CoauthorsJSON) != "" {
		if err := json.Unmarshal([]byte(*f.CoauthorsJSON), &coauthors); err != nil {
			return nil, true, err
		}
		return coauthors, true, nil
	}
	if f.Coauthors != nil {
		return f.Coauthors, true, nil
	}
	return nil, false, nil
}

// PaperFilterRequest holds list query parameters for papers.
type PaperFilterRequest struct {
	Application string `form:"application"`
	Indexation  string `form:"indexation"`
	Quartile    string `form:"quartile"`
	Percentile  *int   `form:"percentile"`
	Year        *int   `form:"year"`
	Ordering    string `form:"ordering"` // created_at | publication_date | year
	Search      string `form:"search"`   // matches title / doi / journal_or_source
}

// PaperResponse is the API projection of a paper with its coauthors.
type PaperResponse struct {
	ID                       uuid.UUID         `json:"id"`
	Application              uuid.UUID         `json:"application"`
	Title                    string            `json:"title"`
	JournalOrSource          string            `json:"journal_or_source"`
	Indexation               models.Indexation `json:"indexation"`
	IndexationDisplay        string            `json:"indexation_display"`
	Quartile                 *models.Quartile  `json:"quartile"`
	Percentile               *int              `json:"percentile"`
	DOI                      string            `json:"doi"`
	PublicationDate          *string           `json:"publication_date"`
	Year                     *int              `json:"year"`
	Volume                   *int              `json:"volume"`
	Number                   string            `json:"number"`
	Pages                    string            `json:"pages"`
	HasUniversityAffiliation bool              `json:"has_university_affiliation"`
	RegisteredInPlatonus     bool              `json:"registered_in_platonus"`
	SourceURL                string            `json:"source_url"`
	FileUpload               *string           `json:"file_upload"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
	Coauthors                []CoauthorResponse `json:"coauthors"`
}

// NewPaperResponse projects a paper model into its API representation.
func NewPaperResponse(paper *models.Paper) *PaperResponse {
	resp := &PaperResponse{
		ID:                       paper.ID,
		Application:              paper.ApplicationID,
		Title:                    paper.Title,
		JournalOrSource:          paper.JournalOrSource,
		Indexation:               paper.Indexation,
		IndexationDisplay:        paper.Indexation.Label(),
		Quartile:                 paper.Quartile,
		Percentile:               paper.Percentile,
		DOI:                      paper.DOI,
		Year:                     paper.Year,
		Volume:                   paper.Volume,
		Number:                   paper.Number,
		Pages:                    paper.Pages,
		HasUniversityAffiliation: paper.HasUniversityAffiliation,
		RegisteredInPlatonus:     paper.RegisteredInPlatonus,
		SourceURL:                paper.SourceURL,
		FileUpload:               paper.FileUpload,
		CreatedAt:                paper.CreatedAt,
		UpdatedAt:                paper.UpdatedAt,
		Coauthors:                []CoauthorResponse{},
	}
	if paper.PublicationDate != nil {
		formatted := paper.PublicationDate.Format("2006-01-02")
		resp.PublicationDate = &formatted
	}
	for _, co := range paper.Coauthors {
		resp.Coauthors = append(resp.Coauthors, *NewCoauthorResponse(co))
	}
	return resp
}
