package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"
)

type LedgerSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewLedgerSQLite(db *sql.DB) *LedgerSQLite {
	return &LedgerSQLite{db: db, now: time.Now}
}

var _ LedgerRepo = (*LedgerSQLite)(nil)

const (
	// The whole ledger lives in one row as a JSON document.
	upsertLedgerSQL = `
		INSERT INTO ledgers (username, records, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(username) DO UPDATE SET
			records=excluded.records,
			version=ledgers.version+1,
			updated_at=excluded.updated_at
	`

	insertFirstLedgerSQL = `
		INSERT INTO ledgers (username, records, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(username) DO NOTHING
	`

	updateLedgerAtVersionSQL = `
		UPDATE ledgers SET records=?, version=version+1, updated_at=?
		WHERE username=? AND version=?
	`

	selectLedgerSQL = `SELECT records, version FROM ledgers WHERE username=?`
)

// encodeRecords converts the list to a JSON array, never "null".
func encodeRecords(records []models.FinancialRecord) (string, error) {
	if records == nil {
		records = []models.FinancialRecord{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode records: %w", err)
	}
	return string(b), nil
}

// decodeRecords parses a stored JSON array; empty input yields an empty list.
func decodeRecords(s string) ([]models.FinancialRecord, error) {
	records := []models.FinancialRecord{}
	if s == "" || s == "null" {
		return records, nil
	}
	if err := json.Unmarshal([]byte(s), &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []models.FinancialRecord{}
	}
	return records, nil
}

// Load fetches the ledger row for username.
func (r *LedgerSQLite) Load(ctx context.Context, username string) (models.Ledger, error) {
	var (
		body    string
		version int64
	)
	err := r.db.QueryRowContext(ctx, selectLedgerSQL, username).Scan(&body, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Ledger{Records: []models.FinancialRecord{}}, nil // nothing written yet
		}
		return models.Ledger{}, fmt.Errorf("select ledger %q: %w", username, err)
	}

	records, err := decodeRecords(body)
	if err != nil {
		return models.Ledger{}, fmt.Errorf("ledger %q: %w", username, err)
	}
	return models.Ledger{Records: records, Version: version}, nil
}

// Replace upserts the ledger row, bumping its version.
func (r *LedgerSQLite) Replace(ctx context.Context, username string, records []models.FinancialRecord) error {
	body, err := encodeRecords(records)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, upsertLedgerSQL, username, body, r.now().UTC()); err != nil {
		return fmt.Errorf("upsert ledger %q: %w", username, err)
	}
	return nil
}

// CompareAndReplace writes only when the stored version is still expected.
func (r *LedgerSQLite) CompareAndReplace(ctx context.Context, username string, expected int64, records []models.FinancialRecord) error {
	body, err := encodeRecords(records)
	if err != nil {
		return err
	}

	var res sql.Result
	if expected == 0 {
		res, err = r.db.ExecContext(ctx, insertFirstLedgerSQL, username, body, r.now().UTC())
	} else {
		res, err = r.db.ExecContext(ctx, updateLedgerAtVersionSQL, body, r.now().UTC(), username, expected)
	}
	if err != nil {
		return fmt.Errorf("write ledger %q at version %d: %w", username, expected, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected for ledger %q: %w", username, err)
	}
	if n == 0 {
		return fmt.Errorf("ledger %q at version %d: %w", username, expected, ErrConflict)
	}
	return nil
}
