package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"fintrack/internal/models"
)

// Key namespaces of the remote document store.
const (
	credentialPrefix    = "credentials/"
	ledgerPrefix        = "ledgers/"
	ledgerVersionPrefix = "ledger_versions/"

	// anyVersion disables the version check in writeLedger.
	anyVersion = -1

	defaultWatchRetries = 5
)

// RedisStore keeps credentials and ledgers as JSON documents in Redis.
type RedisStore struct {
	rdb     *redis.Client
	retries int
	now     func() time.Time
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, retries: defaultWatchRetries, now: time.Now}
}

var (
	_ CredentialRepo = (*RedisStore)(nil)
	_ LedgerRepo     = (*RedisStore)(nil)
)

// credentialDoc is the stored shape of credentials/<username>.
type credentialDoc struct {
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func credentialKey(username string) string    { return credentialPrefix + username }
func ledgerKey(username string) string        { return ledgerPrefix + username }
func ledgerVersionKey(username string) string { return ledgerVersionPrefix + username }

// Create stores the credential with SETNX so that only the first signup wins.
func (s *RedisStore) Create(ctx context.Context, c models.Credential) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	b, err := json.Marshal(credentialDoc{PasswordHash: c.PasswordHash, CreatedAt: createdAt.UTC()})
	if err != nil {
		return fmt.Errorf("encode credential %q: %w", c.Username, err)
	}
	ok, err := s.rdb.SetNX(ctx, credentialKey(c.Username), b, 0).Result()
	if err != nil {
		return fmt.Errorf("setnx credential %q: %w", c.Username, err)
	}
	if !ok {
		return fmt.Errorf("credential %q: %w", c.Username, ErrAlreadyExists)
	}
	return nil
}

// Get returns (nil, nil) when the key does not exist.
func (s *RedisStore) Get(ctx context.Context, username string) (*models.Credential, error) {
	b, err := s.rdb.Get(ctx, credentialKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential %q: %w", username, err)
	}
	var doc credentialDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode credential %q: %w", username, err)
	}
	return &models.Credential{
		Username:     username,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt.UTC(),
	}, nil
}

// Load reads the record list and its version in one MGET.
func (s *RedisStore) Load(ctx context.Context, username string) (models.Ledger, error) {
	vals, err := s.rdb.MGet(ctx, ledgerKey(username), ledgerVersionKey(username)).Result()
	if err != nil {
		return models.Ledger{}, fmt.Errorf("mget ledger %q: %w", username, err)
	}

	body, _ := vals[0].(string)
	records, err := decodeRecords(body)
	if err != nil {
		return models.Ledger{}, fmt.Errorf("ledger %q: %w", username, err)
	}

	var version int64
	if raw, ok := vals[1].(string); ok {
		if version, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return models.Ledger{}, fmt.Errorf("parse ledger version %q: %w", raw, err)
		}
	}
	return models.Ledger{Records: records, Version: version}, nil
}

// Replace overwrites the ledger regardless of its version.
func (s *RedisStore) Replace(ctx context.Context, username string, records []models.FinancialRecord) error {
	return s.writeLedger(ctx, username, anyVersion, records)
}

// CompareAndReplace overwrites the ledger only if its version is still expected.
func (s *RedisStore) CompareAndReplace(ctx context.Context, username string, expected int64, records []models.FinancialRecord) error {
	return s.writeLedger(ctx, username, expected, records)
}

// writeLedger sets the list and bumps the version inside WATCH/MULTI.
// A concurrent writer aborts the transaction: conditional writes report
// ErrConflict, unconditional ones retry.
func (s *RedisStore) writeLedger(ctx context.Context, username string, expected int64, records []models.FinancialRecord) error {
	body, err := encodeRecords(records)
	if err != nil {
		return err
	}
	key, vkey := ledgerKey(username), ledgerVersionKey(username)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("get ledger version %q: %w", username, err)
		}
		if expected != anyVersion && current != expected {
			return fmt.Errorf("ledger %q at version %d (stored %d): %w", username, expected, current, ErrConflict)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, body, 0)
			pipe.Set(ctx, vkey, current+1, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < s.retries; attempt++ {
		err := s.rdb.Watch(ctx, txf, key, vkey)
		if errors.Is(err, redis.TxFailedErr) {
			if expected != anyVersion {
				return fmt.Errorf("ledger %q at version %d: %w", username, expected, ErrConflict)
			}
			continue
		}
		if err != nil && !errors.Is(err, ErrConflict) {
			return fmt.Errorf("write ledger %q: %w", username, err)
		}
		return err
	}
	return fmt.Errorf("write ledger %q: gave up after %d contended attempts", username, s.retries)
}
