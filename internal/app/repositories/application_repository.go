package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
	"github.com/aiu/stimulus/internal/pkg/logger"
)

// ApplicationFilter holds list filtering, search and ordering parameters.
type ApplicationFilter struct {
	Status        *models.ApplicationStatus
	Faculty       *models.Faculty
	OwnerID       *uuid.UUID // scope to one owner's applications
	ExcludeDrafts bool       // admin listings skip drafts
	Search        string     // matched against owner email and full name
	Ordering      string     // created_at | report_year, "-" prefix for DESC
}

// applicationOrderings whitelists orderable columns.
var applicationOrderings = map[string]string{
	"created_at":  "a.created_at",
	"report_year": "a.report_year",
}

// ApplicationRepository handles database operations for applications.
type ApplicationRepository struct {
	DB *pgxpool.Pool
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{DB: db}
}

// selectApplicationQuery joins the owner so responses can render owner
// identity without a second query.
func selectApplicationQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"a.id", "a.owner_id", "a.status", "a.faculty", "a.report_year",
		"a.admin_comment", "a.generated_docx", "a.created_at", "a.updated_at",
		"u.email", "u.full_name", "u.position", "u.subdivision", "u.telephone",
	).From("applications a").
		Join("users u ON a.owner_id = u.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var app models.Application
	var owner models.User
	err := row.Scan(
		&app.ID, &app.OwnerID, &app.Status, &app.Faculty, &app.ReportYear,
		&app.AdminComment, &app.GeneratedDocx, &app.CreatedAt, &app.UpdatedAt,
		&owner.Email, &owner.FullName, &owner.Position, &owner.Subdivision, &owner.Telephone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		logger.Error().Err(err).Msg("Error scanning application row")
		return nil, err
	}
	owner.ID = app.OwnerID
	app.Owner = &owner
	return &app, nil
}

// Create inserts a new application and fills in generated fields.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	sqlStr, args, err := squirrel.Insert("applications").
		Columns("owner_id", "status", "faculty", "report_year").
		Values(app.OwnerID, app.Status, app.Faculty, app.ReportYear).
		Suffix("RETURNING id, admin_comment, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create application SQL: %w", err)
	}

	err = r.DB.QueryRow(ctx, sqlStr, args...).
		Scan(&app.ID, &app.AdminComment, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating application")
		return fmt.Errorf("error creating application: %w", err)
	}

	return nil
}

// GetByID retrieves a single application with its owner.
func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	sqlStr, args, err := selectApplicationQuery().
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get application SQL: %w", err)
	}

	return scanApplication(r.DB.QueryRow(ctx, sqlStr, args...))
}

// GetForUpdate locks the application row for the duration of the enclosing
// transaction and returns its current state. Owner data is not loaded.
func (r *ApplicationRepository) GetForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.Application, error) {
	sqlStr, args, err := squirrel.Select(
		"id", "owner_id", "status", "faculty", "report_year",
		"admin_comment", "generated_docx", "created_at", "updated_at",
	).From("applications").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building lock application SQL: %w", err)
	}

	var app models.Application
	err = q.QueryRow(ctx, sqlStr, args...).Scan(
		&app.ID, &app.OwnerID, &app.Status, &app.Faculty, &app.ReportYear,
		&app.AdminComment, &app.GeneratedDocx, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		logger.Error().Err(err).Msg("Error locking application row")
		return nil, err
	}

	return &app, nil
}

// List retrieves applications matching the filter, newest first unless the
// filter orders otherwise.
func (r *ApplicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, error) {
	builder := selectApplicationQuery()

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"a.status": *filter.Status})
	}
	if filter.Faculty != nil {
		builder = builder.Where(squirrel.Eq{"a.faculty": *filter.Faculty})
	}
	if filter.OwnerID != nil {
		builder = builder.Where(squirrel.Eq{"a.owner_id": *filter.OwnerID})
	}
	if filter.ExcludeDrafts {
		builder = builder.Where(squirrel.NotEq{"a.status": models.StatusDraft})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"u.email": pattern},
			squirrel.ILike{"u.full_name": pattern},
		})
	}

	builder = builder.OrderBy(orderClause(filter.Ordering, applicationOrderings, "a.created_at DESC"))

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list applications SQL: %w", err)
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing applications")
		return nil, err
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

// UpdateFields applies a partial update to one application. Runs on the pool
// or inside a caller's transaction depending on q.
func (r *ApplicationRepository) UpdateFields(ctx context.Context, q Querier, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	sqlStr, args, err := squirrel.Update("applications").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update application SQL: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Str("application_id", id.String()).Msg("Error updating application")
		return fmt.Errorf("error updating application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}

	return nil
}

// Delete removes an application; papers cascade at the database level.
func (r *ApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("application_id", id.String()).Msg("Error deleting application")
		return fmt.Errorf("error deleting application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// Exists reports whether an application with the given ID exists.
func (r *ApplicationRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking application existence: %w", err)
	}
	return exists, nil
}

// orderClause resolves a "-column" style ordering against a whitelist,
// falling back to a default clause for unknown columns.
func orderClause(ordering string, allowed map[string]string, fallback string) string {
	if ordering == "" {
		return fallback
	}
	direction := "ASC"
	name := ordering
	if name[0] == '-' {
		direction = "DESC"
		name = name[1:]
	}
	column, ok := allowed[name]
	if !ok {
		return fallback
	}
	return column + " " + direction
}
