package models

import (
	"time"

	"github.com/google/uuid"
)

// Paper is one publication record backing a claim line item.
//
// Exactly one of Quartile/Percentile is populated, determined by Indexation:
// wos papers carry a quartile, scopus papers carry a percentile. The database
// enforces this with the paper_scopus_wos_fields_exclusive check constraint;
// the service layer enforces it first so the error is a validation error.
type Paper struct {
	ID                       uuid.UUID  `json:"id" db:"id"`
	ApplicationID            uuid.UUID  `json:"application" db:"application_id"`
	Title                    string     `json:"title" db:"title"`
	JournalOrSource          string     `json:"journal_or_source" db:"journal_or_source"`
	Indexation               Indexation `json:"indexation" db:"indexation" example:"scopus"`
	Quartile                 *Quartile  `json:"quartile" db:"quartile"`
	Percentile               *int       `json:"percentile" db:"percentile"` // 1..99
	DOI                      string     `json:"doi" db:"doi"`
	PublicationDate          *time.Time `json:"publication_date" db:"publication_date"`
	Year                     *int       `json:"year" db:"year"`
	Volume                   *int       `json:"volume" db:"volume"`
	Number                   string     `json:"number" db:"number"`
	Pages                    string     `json:"pages" db:"pages"`
	HasUniversityAffiliation bool       `json:"has_university_affiliation" db:"has_university_affiliation"`
	RegisteredInPlatonus     bool       `json:"registered_in_platonus" db:"registered_in_platonus"`
	SourceURL                string     `json:"source_url" db:"source_url"`
	FileUpload               *string    `json:"file_upload" db:"file_upload"`
	CreatedAt                time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at" db:"updated_at"`

	Coauthors []*Coauthor `json:"coauthors,omitempty"`
}
