package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin      RoleType = "admin"
	RoleResearcher RoleType = "researcher"
)

// ApplicationStatus is the lifecycle state of a compensation application.
type ApplicationStatus string

const (
	StatusDraft     ApplicationStatus = "draft"
	StatusSubmitted ApplicationStatus = "submitted"
	StatusApproved  ApplicationStatus = "approved"
	StatusRejected  ApplicationStatus = "rejected"
)

// statusLabels maps status codes to their human-readable (Russian) labels.
var statusLabels = map[ApplicationStatus]string{
	StatusDraft:     "Черновик",
	StatusSubmitted: "Отправлено",
	StatusApproved:  "Одобрено",
	StatusRejected:  "Отклонено",
}

// Label returns the display label for the status, falling back to the raw code.
func (s ApplicationStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsValid reports whether s is one of the known statuses.
func (s ApplicationStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Faculty is one of the university's graduate schools.
type Faculty string

const (
	FacultyPedagogicalInstitute Faculty = "pedagogical_institute"
	FacultyArtsHumanities       Faculty = "arts_humanities"
	FacultyITEngineering        Faculty = "it_engineering"
	FacultyNaturalSciences      Faculty = "natural_sciences"
	FacultyEconomics            Faculty = "economics"
	FacultyLaw                  Faculty = "law"
)

// Choice is a (value, label) pair used by the meta endpoints and exporters.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FacultyChoices lists all faculties in presentation order.
var FacultyChoices = []Choice{
	{Value: string(FacultyPedagogicalInstitute), Label: "Педагогический институт"},
	{Value: string(FacultyArtsHumanities), Label: "Высшая школа искусства и гуманитарных наук"},
	{Value: string(FacultyITEngineering), Label: "Высшая школа информационных технологий и инженерии"},
	{Value: string(FacultyNaturalSciences), Label: "Высшая школа естественных наук"},
	{Value: string(FacultyEconomics), Label: "Высшая школа экономики"},
	{Value: string(FacultyLaw), Label: "Высшая школа права"},
}

// Label returns the display label for the faculty, falling back to the raw code.
func (f Faculty) Label() string {
	for _, c := range FacultyChoices {
		if c.Value == string(f) {
			return c.Label
		}
	}
	return string(f)
}

// IsValid reports whether f is one of the known faculties.
func (f Faculty) IsValid() bool {
	for _, c := range FacultyChoices {
		if c.Value == string(f) {
			return true
		}
	}
	return false
}

// Indexation is the bibliographic index a paper is listed in.
type Indexation string

const (
	IndexationScopus Indexation = "scopus"
	IndexationWoS    Indexation = "wos"
)

// IndexationChoices lists the supported indexations.
var IndexationChoices = []Choice{
	{Value: string(IndexationScopus), Label: "Scopus"},
	{Value: string(IndexationWoS), Label: "Web of Science"},
}

// Label returns the display label for the indexation.
func (i Indexation) Label() string {
	for _, c := range IndexationChoices {
		if c.Value == string(i) {
			return c.Label
		}
	}
	return string(i)
}

// IsValid reports whether i is one of the known indexations.
func (i Indexation) IsValid() bool {
	return i == IndexationScopus || i == IndexationWoS
}

// Quartile is a WoS journal quartile.
type Quartile string

const (
	QuartileQ1   Quartile = "Q1"
	QuartileQ2   Quartile = "Q2"
	QuartileQ3   Quartile = "Q3"
	QuartileQ4   Quartile = "Q4"
	QuartileNone Quartile = "N/A"
)

// IsValid reports whether q is one of the known quartiles.
func (q Quartile) IsValid() bool {
	switch q {
	case QuartileQ1, QuartileQ2, QuartileQ3, QuartileQ4, QuartileNone:
		return true
	}
	return false
}
