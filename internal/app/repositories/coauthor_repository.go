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

// CoauthorFilter holds list filtering, search and ordering parameters.
type CoauthorFilter struct {
	Subdivision *string
	Position    *string
	Search      string // matched against name, email, telephone, subdivision and position
	Ordering    string // full_name | email | created_at
}

var coauthorOrderings = map[string]string{
	"full_name":  "full_name",
	"email":      "email",
	"created_at": "created_at",
}

var coauthorColumns = []string{
	"id", "full_name", "position", "subdivision",
	"telephone", "email", "is_aiu_employee", "created_at", "updated_at",
}

// CoauthorRepository handles database operations for the coauthor directory.
type CoauthorRepository struct {
	DB *pgxpool.Pool
}

// NewCoauthorRepository creates a new CoauthorRepository
func NewCoauthorRepository(db *pgxpool.Pool) *CoauthorRepository {
	return &CoauthorRepository{DB: db}
}

func scanCoauthor(row pgx.Row) (*models.Coauthor, error) {
	var coauthor models.Coauthor
	err := row.Scan(
		&coauthor.ID, &coauthor.FullName, &coauthor.Position, &coauthor.Subdivision,
		&coauthor.Telephone, &coauthor.Email, &coauthor.IsAIUEmployee,
		&coauthor.CreatedAt, &coauthor.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCoauthorNotFound
		}
		logger.Error().Err(err).Msg("Error scanning coauthor row")
		return nil, err
	}
	return &coauthor, nil
}

// Create inserts a new coauthor and fills in generated fields.
func (r *CoauthorRepository) Create(ctx context.Context, coauthor *models.Coauthor) error {
	sqlStr, args, err := squirrel.Insert("coauthors").
		Columns("full_name", "position", "subdivision", "telephone", "email", "is_aiu_employee").
		Values(coauthor.FullName, coauthor.Position, coauthor.Subdivision,
			coauthor.Telephone, coauthor.Email, coauthor.IsAIUEmployee).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create coauthor SQL: %w", err)
	}

	err = r.DB.QueryRow(ctx, sqlStr, args...).
		Scan(&coauthor.ID, &coauthor.CreatedAt, &coauthor.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating coauthor")
		return fmt.Errorf("error creating coauthor: %w", err)
	}

	return nil
}

// GetByID retrieves a coauthor by ID
func (r *CoauthorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Coauthor, error) {
	sqlStr, args, err := squirrel.Select(coauthorColumns...).
		From("coauthors").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get coauthor SQL: %w", err)
	}

	return scanCoauthor(r.DB.QueryRow(ctx, sqlStr, args...))
}

// List retrieves coauthors matching the filter, alphabetical by default.
func (r *CoauthorRepository) List(ctx context.Context, filter CoauthorFilter) ([]*models.Coauthor, error) {
	builder := squirrel.Select(coauthorColumns...).
		From("coauthors").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Subdivision != nil {
		builder = builder.Where(squirrel.Eq{"subdivision": *filter.Subdivision})
	}
	if filter.Position != nil {
		builder = builder.Where(squirrel.Eq{"position": *filter.Position})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"telephone": pattern},
			squirrel.ILike{"subdivision": pattern},
			squirrel.ILike{"position": pattern},
		})
	}

	builder = builder.OrderBy(orderClause(filter.Ordering, coauthorOrderings, "full_name ASC"))

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list coauthors SQL: %w", err)
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing coauthors")
		return nil, err
	}
	defer rows.Close()

	var coauthors []*models.Coauthor
	for rows.Next() {
		coauthor, err := scanCoauthor(rows)
		if err != nil {
			return nil, err
		}
		coauthors = append(coauthors, coauthor)
	}

	return coauthors, rows.Err()
}

// UpdateFields applies a partial update to one coauthor.
func (r *CoauthorRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	sqlStr, args, err := squirrel.Update("coauthors").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update coauthor SQL: %w", err)
	}

	tag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Str("coauthor_id", id.String()).Msg("Error updating coauthor")
		return fmt.Errorf("error updating coauthor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCoauthorNotFound
	}

	return nil
}

// Delete removes a coauthor; paper links cascade at the database level.
func (r *CoauthorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM coauthors WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("coauthor_id", id.String()).Msg("Error deleting coauthor")
		return fmt.Errorf("error deleting coauthor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCoauthorNotFound
	}
	return nil
}
