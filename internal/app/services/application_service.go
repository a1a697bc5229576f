package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	appauth "github.com/aiu/stimulus/internal/app/auth"
	"github.com/aiu/stimulus/internal/app/export"
	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/app/models/dto"
	"github.com/aiu/stimulus/internal/app/repositories"
	"github.com/aiu/stimulus/internal/app/workflow"
	"github.com/aiu/stimulus/internal/db"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
	"github.com/aiu/stimulus/internal/pkg/filestorage"
	"github.com/aiu/stimulus/internal/pkg/logger"
)

// ApplicationService handles compensation application operations, including
// the status workflow and the two export formats.
type ApplicationService struct {
	database  *db.PostgresDB
	appRepo   *repositories.ApplicationRepository
	paperRepo *repositories.PaperRepository
	storage   filestorage.FileStorage
	docx      *export.DocxGenerator
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	database *db.PostgresDB,
	appRepo *repositories.ApplicationRepository,
	paperRepo *repositories.PaperRepository,
	storage filestorage.FileStorage,
	docx *export.DocxGenerator,
) *ApplicationService {
	return &ApplicationService{
		database:  database,
		appRepo:   appRepo,
		paperRepo: paperRepo,
		storage:   storage,
		docx:      docx,
	}
}

// Create opens a new draft application owned by the actor.
func (s *ApplicationService) Create(ctx context.Context, actor *models.User, req *dto.CreateApplicationRequest) (*models.Application, error) {
	app := &models.Application{
		OwnerID:    actor.ID,
		Status:     models.StatusDraft,
		ReportYear: time.Now().Year(),
	}

	if req.Faculty != nil && *req.Faculty != "" {
		faculty := models.Faculty(*req.Faculty)
		if !faculty.IsValid() {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				fmt.Sprintf("Недопустимая высшая школа: %s.", faculty)).WithField("faculty")
		}
		app.Faculty = &faculty
	}
	if req.ReportYear != nil {
		app.ReportYear = *req.ReportYear
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	app.Owner = actor
	return app, nil
}

// Get retrieves one application with papers. Owners see their own; admins
// see everything except foreign drafts, which stay invisible to review.
func (s *ApplicationService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkVisible(actor, app); err != nil {
		return nil, err
	}

	if err := s.loadPapers(ctx, []*models.Application{app}); err != nil {
		return nil, err
	}

	return app, nil
}

// List retrieves applications visible to the actor, papers nested.
func (s *ApplicationService) List(ctx context.Context, actor *models.User, req *dto.ApplicationFilterRequest) ([]*models.Application, error) {
	filter := repositories.ApplicationFilter{
		Search:   req.Search,
		Ordering: req.Ordering,
	}
	if req.Status != "" {
		status := models.ApplicationStatus(req.Status)
		filter.Status = &status
	}
	if req.Faculty != "" {
		faculty := models.Faculty(req.Faculty)
		filter.Faculty = &faculty
	}

	if actor.IsAdmin() {
		filter.ExcludeDrafts = true
	} else {
		filter.OwnerID = &actor.ID
	}

	apps, err := s.appRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := s.loadPapers(ctx, apps); err != nil {
		return nil, err
	}

	return apps, nil
}

// Update applies a partial update. A status value present in the request is
// validated through the workflow guards; the whole read-check-write sequence
// runs on a locked row.
func (s *ApplicationService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.UpdateApplicationRequest) (*models.Application, error) {
	app, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !appauth.Can(actor, appauth.CapabilityModify, app.OwnerID) {
		return nil, apperrors.ErrPermissionDenied
	}

	fields := map[string]interface{}{}
	if req.Faculty != nil {
		if *req.Faculty == "" {
			fields["faculty"] = nil
		} else {
			faculty := models.Faculty(*req.Faculty)
			if !faculty.IsValid() {
				return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
					fmt.Sprintf("Недопустимая высшая школа: %s.", faculty)).WithField("faculty")
			}
			fields["faculty"] = faculty
		}
	}
	if req.ReportYear != nil {
		fields["report_year"] = *req.ReportYear
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.appRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.loadPapersOn(ctx, tx, locked); err != nil {
			return err
		}

		if req.Status == nil || models.ApplicationStatus(*req.Status) == locked.Status {
			// No transition requested: the edit gate alone decides.
			if err := workflow.CheckEditable(actor.IsAdmin(), locked.Status); err != nil {
				return err
			}
		} else {
			newStatus := models.ApplicationStatus(*req.Status)
			if err := workflow.CheckStatusChange(actor.IsAdmin(), locked, newStatus); err != nil {
				return err
			}
			if newStatus == models.StatusSubmitted && locked.Status == models.StatusRejected {
				fields["admin_comment"] = ""
			}
			fields["status"] = newStatus
		}

		return s.appRepo.UpdateFields(ctx, tx, id, fields)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, actor, id)
}

// Delete removes an application and its papers.
func (s *ApplicationService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkVisible(actor, app); err != nil {
		return err
	}
	if !appauth.Can(actor, appauth.CapabilityDelete, app.OwnerID) {
		return apperrors.ErrPermissionDenied
	}

	return s.appRepo.Delete(ctx, id)
}

// Submit moves an editable, complete application to submitted and clears any
// previous review comment. Runs on a locked row.
func (s *ApplicationService) Submit(ctx context.Context, actor *models.User, id uuid.UUID) error {
	app, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if !appauth.Can(actor, appauth.CapabilityModify, app.OwnerID) {
		return apperrors.ErrPermissionDenied
	}

	return s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.appRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		// Papers must be re-read under the row lock so a concurrent
		// deletion cannot slip past the completeness check.
		if err := s.loadPapersOn(ctx, tx, locked); err != nil {
			return err
		}

		if err := workflow.CheckSubmit(locked); err != nil {
			return err
		}

		return s.appRepo.UpdateFields(ctx, tx, id, map[string]interface{}{
			"status":        models.StatusSubmitted,
			"admin_comment": "",
		})
	})
}

// Approve moves a submitted application to approved, storing the optional
// review comment.
func (s *ApplicationService) Approve(ctx context.Context, actor *models.User, id uuid.UUID, comment string) error {
	return s.review(ctx, actor, id, models.StatusApproved, strings.TrimSpace(comment))
}

// Reject moves a submitted application to rejected. The comment is required
// and stored for the owner.
func (s *ApplicationService) Reject(ctx context.Context, actor *models.User, id uuid.UUID, comment string) error {
	return s.review(ctx, actor, id, models.StatusRejected, strings.TrimSpace(comment))
}

func (s *ApplicationService) review(ctx context.Context, actor *models.User, id uuid.UUID, target models.ApplicationStatus, comment string) error {
	if !appauth.CanReview(actor) {
		return apperrors.ErrPermissionDenied
	}

	return s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.appRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := workflow.CheckReview(locked, target, comment); err != nil {
			return err
		}

		fields := map[string]interface{}{"status": target}
		if comment != "" {
			fields["admin_comment"] = comment
		}

		return s.appRepo.UpdateFields(ctx, tx, id, fields)
	})
}

// GenerateDocx renders the application into the claim document, stores a
// copy and returns the bytes for download.
func (s *ApplicationService) GenerateDocx(ctx context.Context, actor *models.User, id uuid.UUID) ([]byte, string, error) {
	if !appauth.CanReview(actor) {
		return nil, "", apperrors.ErrPermissionDenied
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if err := s.loadPapers(ctx, []*models.Application{app}); err != nil {
		return nil, "", err
	}

	content, err := s.docx.Generate(app, time.Now())
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("application_%s.docx", app.ID)
	storedPath, err := s.storage.SaveBytes(content, filestorage.GeneratedDir, filename)
	if err != nil {
		logger.Error().Err(err).Str("application_id", app.ID.String()).Msg("Failed to store generated document")
		return nil, "", err
	}

	if err := s.appRepo.UpdateFields(ctx, s.appRepo.DB, id, map[string]interface{}{
		"generated_docx": storedPath,
	}); err != nil {
		return nil, "", err
	}

	return content, filename, nil
}

// ExportXLSX renders the applications visible to the actor's filter into a
// spreadsheet for download.
func (s *ApplicationService) ExportXLSX(ctx context.Context, actor *models.User, req *dto.ApplicationFilterRequest) ([]byte, string, error) {
	if !appauth.CanReview(actor) {
		return nil, "", apperrors.ErrPermissionDenied
	}

	apps, err := s.List(ctx, actor, req)
	if err != nil {
		return nil, "", err
	}

	content, err := export.BuildApplicationsWorkbook(apps)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("applications_export_%s.xlsx", time.Now().Format("2006-01-02_15-04"))
	return content, filename, nil
}

// checkVisible applies the listing scope to single-object access: owners see
// their own applications, admins see everything except foreign drafts.
func (s *ApplicationService) checkVisible(actor *models.User, app *models.Application) error {
	if actor.IsAdmin() {
		if app.Status == models.StatusDraft && app.OwnerID != actor.ID {
			return apperrors.ErrApplicationNotFound
		}
		return nil
	}
	if app.OwnerID != actor.ID {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

func (s *ApplicationService) loadPapers(ctx context.Context, apps []*models.Application) error {
	if len(apps) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.ID)
	}

	byApplication, err := s.paperRepo.ListByApplicationIDs(ctx, s.paperRepo.DB, ids)
	if err != nil {
		return err
	}

	for _, app := range apps {
		app.Papers = byApplication[app.ID]
	}

	return nil
}

// loadPapersOn loads one application's papers through the given transaction,
// keeping workflow guards consistent with the locked row.
func (s *ApplicationService) loadPapersOn(ctx context.Context, q repositories.Querier, app *models.Application) error {
	byApplication, err := s.paperRepo.ListByApplicationIDs(ctx, q, []uuid.UUID{app.ID})
	if err != nil {
		return err
	}
	app.Papers = byApplication[app.ID]
	return nil
}
