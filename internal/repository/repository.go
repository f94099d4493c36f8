package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/redis/go-redis/v9"

	"fintrack/internal/models"
)

var (
	// ErrAlreadyExists is returned by CredentialRepo.Create for a taken username.
	ErrAlreadyExists = errors.New("credential already exists")
	// ErrConflict is returned by CompareAndReplace when the stored ledger moved on.
	ErrConflict = errors.New("ledger version conflict")
)

type CredentialRepo interface {
	// Create stores c unless a credential for c.Username exists.
	Create(ctx context.Context, c models.Credential) error
	// Get returns (nil, nil) when no credential exists.
	Get(ctx context.Context, username string) (*models.Credential, error)
}

type LedgerRepo interface {
	// Load returns an empty ledger with version 0 when nothing is stored.
	Load(ctx context.Context, username string) (models.Ledger, error)
	// Replace overwrites the whole ledger unconditionally.
	Replace(ctx context.Context, username string, records []models.FinancialRecord) error
	// CompareAndReplace overwrites only if the stored version equals expected.
	CompareAndReplace(ctx context.Context, username string, expected int64, records []models.FinancialRecord) error
}

type Repository struct {
	Credentials CredentialRepo
	Ledgers     LedgerRepo

	closer func() error
}

// NewRepository builds the SQLite-backed repositories over an open db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Credentials: NewCredentialSQLite(db),
		Ledgers:     NewLedgerSQLite(db),
		closer:      db.Close,
	}
}

// NewRedisRepository builds repositories over the remote document store.
func NewRedisRepository(rdb *redis.Client) *Repository {
	store := NewRedisStore(rdb)
	return &Repository{
		Credentials: store,
		Ledgers:     store,
		closer:      rdb.Close,
	}
}

// NewMemoryRepository builds process-local repositories.
func NewMemoryRepository() *Repository {
	store := NewMemoryStore()
	return &Repository{
		Credentials: store,
		Ledgers:     store,
	}
}

// Close releases the underlying connection, if any.
func (r *Repository) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer()
}
