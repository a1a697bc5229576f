package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/app/models/dto"
	"github.com/aiu/stimulus/internal/app/repositories"
	"github.com/aiu/stimulus/internal/app/workflow"
	"github.com/aiu/stimulus/internal/db"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
	"github.com/aiu/stimulus/internal/pkg/filestorage"
	"github.com/aiu/stimulus/internal/pkg/logger"
	"github.com/aiu/stimulus/internal/pkg/validation"
)

// PaperService handles publication records and their coauthor lists.
type PaperService struct {
	database  *db.PostgresDB
	paperRepo *repositories.PaperRepository
	appRepo   *repositories.ApplicationRepository
	storage   filestorage.FileStorage
}

// NewPaperService creates a new PaperService
func NewPaperService(
	database *db.PostgresDB,
	paperRepo *repositories.PaperRepository,
	appRepo *repositories.ApplicationRepository,
	storage filestorage.FileStorage,
) *PaperService {
	return &PaperService{
		database:  database,
		paperRepo: paperRepo,
		appRepo:   appRepo,
		storage:   storage,
	}
}

// Create adds a paper to one of the actor's applications. The parent must be
// editable unless the actor is an admin. Coauthors and an uploaded file may
// arrive with the same request.
func (s *PaperService) Create(ctx context.Context, actor *models.User, form *dto.PaperForm, file *multipart.FileHeader) (*models.Paper, error) {
	if form.Application == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"Application ID is required.").WithField("application")
	}

	app, err := s.appRepo.GetByID(ctx, *form.Application)
	if err != nil || app.OwnerID != actor.ID {
		// A foreign or missing application reads the same from outside.
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"Invalid application.").WithField("application")
	}

	if !workflow.CanEdit(app.Status) && !actor.IsAdmin() {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"Можно добавлять публикации только в черновики или отклонённые заявки.").WithField("application")
	}

	paper := &models.Paper{
		ApplicationID: app.ID,
		Indexation:    models.IndexationScopus,
	}
	if err := applyPaperForm(paper, form); err != nil {
		return nil, err
	}
	if strings.TrimSpace(paper.Title) == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"Title is required.").WithField("title")
	}

	quartile, percentile, err := validation.ResolveIndexationFields(paper.Indexation, paper.Quartile, paper.Percentile)
	if err != nil {
		return nil, err
	}
	paper.Quartile, paper.Percentile = quartile, percentile

	if file != nil {
		storedPath, err := s.saveUpload(file)
		if err != nil {
			return nil, err
		}
		paper.FileUpload = &storedPath
	}

	coauthors, provided, err := resolveCoauthors(form)
	if err != nil {
		return nil, err
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.paperRepo.Create(ctx, tx, paper); err != nil {
			return err
		}
		if provided {
			return s.paperRepo.ReplaceCoauthors(ctx, tx, paper.ID, coauthors)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	paper.Coauthors = coauthors
	return paper, nil
}

// Get retrieves one paper, owner scoped for non-admins.
func (s *PaperService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Paper, error) {
	paper, err := s.paperRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.checkOwner(ctx, actor, paper); err != nil {
		return nil, err
	}

	return paper, nil
}

// List retrieves papers matching the filter, owner scoped for non-admins.
func (s *PaperService) List(ctx context.Context, actor *models.User, req *dto.PaperFilterRequest) ([]*models.Paper, error) {
	filter := repositories.PaperFilter{
		Percentile: req.Percentile,
		Year:       req.Year,
		Search:     req.Search,
		Ordering:   req.Ordering,
	}
	if req.Indexation != "" {
		indexation := models.Indexation(req.Indexation)
		filter.Indexation = &indexation
	}
	if req.Quartile != "" {
		quartile := models.Quartile(req.Quartile)
		filter.Quartile = &quartile
	}
	if req.Application != "" {
		appID, err := uuid.Parse(req.Application)
		if err != nil {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"Invalid application.").WithField("application")
		}
		filter.ApplicationID = &appID
	}
	if !actor.IsAdmin() {
		filter.OwnerID = &actor.ID
	}

	return s.paperRepo.List(ctx, filter)
}

// Update applies a partial update to a paper, re-resolving the Scopus/WoS
// exclusive fields over the merged state and reconciling coauthors when the
// request supplies them.
func (s *PaperService) Update(ctx context.Context, actor *models.User, id uuid.UUID, form *dto.PaperForm, file *multipart.FileHeader) (*models.Paper, error) {
	paper, err := s.paperRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	app, err := s.checkOwner(ctx, actor, paper)
	if err != nil {
		return nil, err
	}

	if !workflow.CanEdit(app.Status) && !actor.IsAdmin() {
		return nil, apperrors.NewPreconditionError(
			"Можно редактировать публикации только в черновики или отклонённые заявки.")
	}

	if err := applyPaperForm(paper, form); err != nil {
		return nil, err
	}

	quartile, percentile, err := validation.ResolveIndexationFields(paper.Indexation, paper.Quartile, paper.Percentile)
	if err != nil {
		return nil, err
	}
	paper.Quartile, paper.Percentile = quartile, percentile

	if file != nil {
		storedPath, err := s.saveUpload(file)
		if err != nil {
			return nil, err
		}
		paper.FileUpload = &storedPath
	}

	coauthors, provided, err := resolveCoauthors(form)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"title":                      paper.Title,
		"journal_or_source":          paper.JournalOrSource,
		"indexation":                 paper.Indexation,
		"quartile":                   paper.Quartile,
		"percentile":                 paper.Percentile,
		"doi":                        paper.DOI,
		"publication_date":           paper.PublicationDate,
		"year":                       paper.Year,
		"volume":                     paper.Volume,
		"number":                     paper.Number,
		"pages":                      paper.Pages,
		"has_university_affiliation": paper.HasUniversityAffiliation,
		"registered_in_platonus":     paper.RegisteredInPlatonus,
		"source_url":                 paper.SourceURL,
		"file_upload":                paper.FileUpload,
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.paperRepo.UpdateFields(ctx, tx, id, fields); err != nil {
			return err
		}
		if provided {
			return s.paperRepo.ReplaceCoauthors(ctx, tx, id, coauthors)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.paperRepo.GetByID(ctx, id)
}

// Delete removes a paper. The parent application must be editable unless the
// actor is an admin.
func (s *PaperService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	paper, err := s.paperRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	app, err := s.checkOwner(ctx, actor, paper)
	if err != nil {
		return err
	}

	if !workflow.CanEdit(app.Status) && !actor.IsAdmin() {
		return apperrors.NewPreconditionError(
			"Можно удалять публикации только в черновики или отклонённые заявки.")
	}

	if paper.FileUpload != nil {
		if err := s.storage.DeleteFile(*paper.FileUpload); err != nil {
			logger.Warn().Err(err).Str("paper_id", id.String()).Msg("Failed to delete paper file")
		}
	}

	return s.paperRepo.Delete(ctx, id)
}

// checkOwner loads the parent application and hides foreign papers from
// non-admins the way the list scope does.
func (s *PaperService) checkOwner(ctx context.Context, actor *models.User, paper *models.Paper) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, paper.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && app.OwnerID != actor.ID {
		return nil, apperrors.ErrPaperNotFound
	}
	return app, nil
}

func (s *PaperService) saveUpload(file *multipart.FileHeader) (string, error) {
	if err := validation.ValidatePaperFile(file.Filename, file.Size); err != nil {
		return "", err
	}
	return s.storage.SaveUpload(file, filestorage.PapersDir)
}

// applyPaperForm merges supplied form fields into the paper, leaving omitted
// fields untouched.
func applyPaperForm(paper *models.Paper, form *dto.PaperForm) error {
	if form.Title != nil {
		paper.Title = *form.Title
	}
	if form.JournalOrSource != nil {
		paper.JournalOrSource = *form.JournalOrSource
	}
	if form.Indexation != nil {
		if !form.Indexation.IsValid() {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"Недопустимое значение индексации.").WithField("indexation")
		}
		paper.Indexation = *form.Indexation
	}
	if form.Quartile != nil {
		if *form.Quartile == "" {
			paper.Quartile = nil
		} else {
			quartile := models.Quartile(*form.Quartile)
			if !quartile.IsValid() {
				return apperrors.NewCustomError(apperrors.ErrValidationFailed,
					"Недопустимое значение квартиля.").WithField("quartile")
			}
			paper.Quartile = &quartile
		}
	}
	if form.Percentile != nil {
		if *form.Percentile == 0 {
			paper.Percentile = nil
		} else {
			paper.Percentile = form.Percentile
		}
	}
	if form.DOI != nil {
		paper.DOI = *form.DOI
	}
	if form.PublicationDate != nil {
		if *form.PublicationDate == "" {
			paper.PublicationDate = nil
		} else {
			parsed, err := time.Parse("2006-01-02", *form.PublicationDate)
			if err != nil {
				return apperrors.NewCustomError(apperrors.ErrValidationFailed,
					"Дата публикации должна быть в формате YYYY-MM-DD.").WithField("publication_date")
			}
			paper.PublicationDate = &parsed
		}
	}
	if form.Year != nil {
		paper.Year = form.Year
	}
	if form.Volume != nil {
		paper.Volume = form.Volume
	}
	if form.Number != nil {
		paper.Number = *form.Number
	}
	if form.Pages != nil {
		paper.Pages = *form.Pages
	}
	if form.HasUniversityAffiliation != nil {
		paper.HasUniversityAffiliation = *form.HasUniversityAffiliation
	}
	if form.RegisteredInPlatonus != nil {
		paper.RegisteredInPlatonus = *form.RegisteredInPlatonus
	}
	if form.SourceURL != nil {
		paper.SourceURL = *form.SourceURL
	}
	return nil
}

// resolveCoauthors turns the form's coauthor descriptors into fresh rows to
// insert. Blank names are dropped and supplied ids ignored.
func resolveCoauthors(form *dto.PaperForm) ([]*models.Coauthor, bool, error) {
	inputs, provided, err := form.ResolveCoauthors()
	if err != nil {
		return nil, provided, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"Invalid JSON format.").WithField("coauthors")
	}
	if !provided {
		return nil, false, nil
	}

	coauthors := make([]*models.Coauthor, 0, len(inputs))
	for _, input := range inputs {
		fullName := strings.TrimSpace(input.FullName)
		if fullName == "" {
			continue
		}
		coauthors = append(coauthors, &models.Coauthor{
			FullName:      fullName,
			Position:      input.Position,
			Subdivision:   input.Subdivision,
			Telephone:     input.Telephone,
			Email:         input.Email,
			IsAIUEmployee: input.IsAIUEmployee,
		})
	}

	return coauthors, true, nil
}
