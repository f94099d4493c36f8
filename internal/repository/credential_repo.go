package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"
)

type CredentialSQLite struct {
	db *sql.DB
}

func NewCredentialSQLite(db *sql.DB) *CredentialSQLite {
	return &CredentialSQLite{db: db}
}

// Ensure implementation of CredentialRepo interface at compile time.
var _ CredentialRepo = (*CredentialSQLite)(nil)

const (
	insertCredentialSQL = `INSERT INTO credentials (username, password_hash, created_at) VALUES (?, ?, ?) ON CONFLICT(username) DO NOTHING`
	selectCredentialSQL = `SELECT username, password_hash, created_at FROM credentials WHERE username = ?`
)

// Create inserts a credential; a second insert for the same username is a no-op reported as ErrAlreadyExists.
func (r *CredentialSQLite) Create(ctx context.Context, c models.Credential) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, insertCredentialSQL, c.Username, c.PasswordHash, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("insert credential %q: %w", c.Username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected for credential %q: %w", c.Username, err)
	}
	if n == 0 {
		return fmt.Errorf("credential %q: %w", c.Username, ErrAlreadyExists)
	}
	return nil
}

// Get fetches a credential by username. Returns (nil, nil) if not found.
func (r *CredentialSQLite) Get(ctx context.Context, username string) (*models.Credential, error) {
	var c models.Credential
	err := r.db.QueryRowContext(ctx, selectCredentialSQL, username).Scan(&c.Username, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select credential %q: %w", username, err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}
