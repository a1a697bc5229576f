package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the common query surface of *pgxpool.Pool and pgx.Tx. Repository
// methods that must run inside a caller-controlled transaction take one.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	ApplicationRepository *ApplicationRepository
	PaperRepository       *PaperRepository
	CoauthorRepository    *CoauthorRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		ApplicationRepository: NewApplicationRepository(db),
		PaperRepository:       NewPaperRepository(db),
		CoauthorRepository:    NewCoauthorRepository(db),
	}
}
