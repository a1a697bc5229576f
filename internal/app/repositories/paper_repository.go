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

// PaperFilter holds list filtering, search and ordering parameters.
type PaperFilter struct {
	Indexation    *models.Indexation
	Quartile      *models.Quartile
	Percentile    *int
	Year          *int
	ApplicationID *uuid.UUID
	OwnerID       *uuid.UUID // scope to papers of one owner's applications
	Search        string     // matched against title, doi and journal
	Ordering      string     // created_at | publication_date | year
}

var paperOrderings = map[string]string{
	"created_at":       "p.created_at",
	"publication_date": "p.publication_date",
	"year":             "p.year",
}

var paperColumns = []string{
	"p.id", "p.application_id", "p.title", "p.journal_or_source", "p.indexation",
	"p.quartile", "p.percentile", "p.doi", "p.publication_date", "p.year",
	"p.volume", "p.number", "p.pages", "p.has_university_affiliation",
	"p.registered_in_platonus", "p.source_url", "p.file_upload",
	"p.created_at", "p.updated_at",
}

// PaperRepository handles database operations for papers and their coauthor links.
type PaperRepository struct {
	DB *pgxpool.Pool
}

// NewPaperRepository creates a new PaperRepository
func NewPaperRepository(db *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{DB: db}
}

func scanPaper(row pgx.Row) (*models.Paper, error) {
	var paper models.Paper
	err := row.Scan(
		&paper.ID, &paper.ApplicationID, &paper.Title, &paper.JournalOrSource, &paper.Indexation,
		&paper.Quartile, &paper.Percentile, &paper.DOI, &paper.PublicationDate, &paper.Year,
		&paper.Volume, &paper.Number, &paper.Pages, &paper.HasUniversityAffiliation,
		&paper.RegisteredInPlatonus, &paper.SourceURL, &paper.FileUpload,
		&paper.CreatedAt, &paper.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaperNotFound
		}
		logger.Error().Err(err).Msg("Error scanning paper row")
		return nil, err
	}
	return &paper, nil
}

// Create inserts a new paper and fills in generated fields.
func (r *PaperRepository) Create(ctx context.Context, q Querier, paper *models.Paper) error {
	sqlStr, args, err := squirrel.Insert("papers").
		Columns("application_id", "title", "journal_or_source", "indexation",
			"quartile", "percentile", "doi", "publication_date", "year",
			"volume", "number", "pages", "has_university_affiliation",
			"registered_in_platonus", "source_url", "file_upload").
		Values(paper.ApplicationID, paper.Title, paper.JournalOrSource, paper.Indexation,
			paper.Quartile, paper.Percentile, paper.DOI, paper.PublicationDate, paper.Year,
			paper.Volume, paper.Number, paper.Pages, paper.HasUniversityAffiliation,
			paper.RegisteredInPlatonus, paper.SourceURL, paper.FileUpload).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create paper SQL: %w", err)
	}

	err = q.QueryRow(ctx, sqlStr, args...).Scan(&paper.ID, &paper.CreatedAt, &paper.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating paper")
		return fmt.Errorf("error creating paper: %w", err)
	}

	return nil
}

// GetByID retrieves a single paper with its coauthors.
func (r *PaperRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Paper, error) {
	sqlStr, args, err := squirrel.Select(paperColumns...).
		From("papers p").
		Where(squirrel.Eq{"p.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get paper SQL: %w", err)
	}

	paper, err := scanPaper(r.DB.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, err
	}

	if err := r.attachCoauthors(ctx, r.DB, []*models.Paper{paper}); err != nil {
		return nil, err
	}

	return paper, nil
}

// List retrieves papers matching the filter with coauthors attached.
func (r *PaperRepository) List(ctx context.Context, filter PaperFilter) ([]*models.Paper, error) {
	builder := squirrel.Select(paperColumns...).
		From("papers p").
		PlaceholderFormat(squirrel.Dollar)

	if filter.OwnerID != nil {
		builder = builder.
			Join("applications a ON p.application_id = a.id").
			Where(squirrel.Eq{"a.owner_id": *filter.OwnerID})
	}
	if filter.Indexation != nil {
		builder = builder.Where(squirrel.Eq{"p.indexation": *filter.Indexation})
	}
	if filter.Quartile != nil {
		builder = builder.Where(squirrel.Eq{"p.quartile": *filter.Quartile})
	}
	if filter.Percentile != nil {
		builder = builder.Where(squirrel.Eq{"p.percentile": *filter.Percentile})
	}
	if filter.Year != nil {
		builder = builder.Where(squirrel.Eq{"p.year": *filter.Year})
	}
	if filter.ApplicationID != nil {
		builder = builder.Where(squirrel.Eq{"p.application_id": *filter.ApplicationID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"p.title": pattern},
			squirrel.ILike{"p.doi": pattern},
			squirrel.ILike{"p.journal_or_source": pattern},
		})
	}

	builder = builder.OrderBy(orderClause(filter.Ordering, paperOrderings, "p.created_at DESC"))

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list papers SQL: %w", err)
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing papers")
		return nil, err
	}
	defer rows.Close()

	var papers []*models.Paper
	for rows.Next() {
		paper, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, paper)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachCoauthors(ctx, r.DB, papers); err != nil {
		return nil, err
	}

	return papers, nil
}

// ListByApplicationIDs loads the papers of several applications at once,
// coauthors attached, newest paper first. Runs on the pool or inside a
// caller's transaction depending on q.
func (r *PaperRepository) ListByApplicationIDs(ctx context.Context, q Querier, ids []uuid.UUID) (map[uuid.UUID][]*models.Paper, error) {
	byApplication := make(map[uuid.UUID][]*models.Paper, len(ids))
	if len(ids) == 0 {
		return byApplication, nil
	}

	sqlStr, args, err := squirrel.Select(paperColumns...).
		From("papers p").
		Where(squirrel.Eq{"p.application_id": ids}).
		OrderBy("p.created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building papers by application SQL: %w", err)
	}

	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading papers for applications")
		return nil, err
	}
	defer rows.Close()

	var papers []*models.Paper
	for rows.Next() {
		paper, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, paper)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachCoauthors(ctx, q, papers); err != nil {
		return nil, err
	}

	for _, paper := range papers {
		byApplication[paper.ApplicationID] = append(byApplication[paper.ApplicationID], paper)
	}

	return byApplication, nil
}

// UpdateFields applies a partial update to one paper.
func (r *PaperRepository) UpdateFields(ctx context.Context, q Querier, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	sqlStr, args, err := squirrel.Update("papers").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update paper SQL: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Str("paper_id", id.String()).Msg("Error updating paper")
		return fmt.Errorf("error updating paper: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPaperNotFound
	}

	return nil
}

// Delete removes a paper; its coauthor links cascade at the database level.
func (r *PaperRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM papers WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("paper_id", id.String()).Msg("Error deleting paper")
		return fmt.Errorf("error deleting paper: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPaperNotFound
	}
	return nil
}

// ReplaceCoauthors clears the paper's coauthor links and inserts a fresh
// coauthor row per descriptor, keeping the supplied order. Previous coauthor
// rows are intentionally not reused or deleted; they stay addressable through
// the coauthor directory.
func (r *PaperRepository) ReplaceCoauthors(ctx context.Context, q Querier, paperID uuid.UUID, coauthors []*models.Coauthor) error {
	if _, err := q.Exec(ctx, `DELETE FROM paper_coauthors WHERE paper_id = $1`, paperID); err != nil {
		logger.Error().Err(err).Str("paper_id", paperID.String()).Msg("Error clearing paper coauthors")
		return fmt.Errorf("error clearing paper coauthors: %w", err)
	}

	for ord, coauthor := range coauthors {
		err := q.QueryRow(ctx, `
			INSERT INTO coauthors (full_name, position, subdivision, telephone, email, is_aiu_employee)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
			coauthor.FullName, coauthor.Position, coauthor.Subdivision,
			coauthor.Telephone, coauthor.Email, coauthor.IsAIUEmployee,
		).Scan(&coauthor.ID, &coauthor.CreatedAt, &coauthor.UpdatedAt)
		if err != nil {
			logger.Error().Err(err).Msg("Error inserting coauthor")
			return fmt.Errorf("error inserting coauthor: %w", err)
		}

		_, err = q.Exec(ctx, `
			INSERT INTO paper_coauthors (paper_id, coauthor_id, ord)
			VALUES ($1, $2, $3)`,
			paperID, coauthor.ID, ord)
		if err != nil {
			logger.Error().Err(err).Msg("Error linking coauthor to paper")
			return fmt.Errorf("error linking coauthor: %w", err)
		}
	}

	return nil
}

// attachCoauthors loads the coauthors of the given papers in link order.
func (r *PaperRepository) attachCoauthors(ctx context.Context, q Querier, papers []*models.Paper) error {
	if len(papers) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Paper, len(papers))
	ids := make([]uuid.UUID, 0, len(papers))
	for _, paper := range papers {
		byID[paper.ID] = paper
		ids = append(ids, paper.ID)
	}

	sqlStr, args, err := squirrel.Select(
		"pc.paper_id",
		"c.id", "c.full_name", "c.position", "c.subdivision",
		"c.telephone", "c.email", "c.is_aiu_employee", "c.created_at", "c.updated_at",
	).From("paper_coauthors pc").
		Join("coauthors c ON pc.coauthor_id = c.id").
		Where(squirrel.Eq{"pc.paper_id": ids}).
		OrderBy("pc.paper_id", "pc.ord").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building paper coauthors SQL: %w", err)
	}

	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading paper coauthors")
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var paperID uuid.UUID
		var coauthor models.Coauthor
		err := rows.Scan(
			&paperID,
			&coauthor.ID, &coauthor.FullName, &coauthor.Position, &coauthor.Subdivision,
			&coauthor.Telephone, &coauthor.Email, &coauthor.IsAIUEmployee,
			&coauthor.CreatedAt, &coauthor.UpdatedAt,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning paper coauthor row")
			return err
		}
		if paper, ok := byID[paperID]; ok {
			paper.Coauthors = append(paper.Coauthors, &coauthor)
		}
	}

	return rows.Err()
}
