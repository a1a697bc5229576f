package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingQuerier captures executed SQL and returns empty result sets.
type recordingQuerier struct {
	queries []string
}

func (q *recordingQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.queries = append(q.queries, sql)
	return pgconn.CommandTag{}, nil
}

func (q *recordingQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, sql)
	return emptyRows{}, nil
}

func (q *recordingQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	return emptyRows{}
}

type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(dest ...any) error                       { return pgx.ErrNoRows }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

// The workflow guards read papers through the caller's transaction, so the
// query must run on the Querier handed in, never on the repository's pool.
func TestListByApplicationIDsRunsOnGivenQuerier(t *testing.T) {
	repo := NewPaperRepository(nil)
	querier := &recordingQuerier{}

	byApplication, err := repo.ListByApplicationIDs(context.Background(), querier, []uuid.UUID{uuid.New()})
	require.NoError(t, err)

	assert.Empty(t, byApplication)
	require.Len(t, querier.queries, 1)
	assert.Contains(t, querier.queries[0], "FROM papers")
}

func TestListByApplicationIDsNoIDs(t *testing.T) {
	repo := NewPaperRepository(nil)
	querier := &recordingQuerier{}

	byApplication, err := repo.ListByApplicationIDs(context.Background(), querier, nil)
	require.NoError(t, err)

	assert.Empty(t, byApplication)
	assert.Empty(t, querier.queries)
}
