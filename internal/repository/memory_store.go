package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/models"
)

// MemoryStore is a process-local backend for development and tests.
type MemoryStore struct {
	mu          sync.Mutex
	credentials map[string]models.Credential
	ledgers     map[string]models.Ledger
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		credentials: make(map[string]models.Credential),
		ledgers:     make(map[string]models.Ledger),
	}
}

var (
	_ CredentialRepo = (*MemoryStore)(nil)
	_ LedgerRepo     = (*MemoryStore)(nil)
)

func (s *MemoryStore) Create(_ context.Context, c models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credentials[c.Username]; ok {
		return fmt.Errorf("credential %q: %w", c.Username, ErrAlreadyExists)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.credentials[c.Username] = c
	return nil
}

func (s *MemoryStore) Get(_ context.Context, username string) (*models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.credentials[username]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryStore) Load(_ context.Context, username string) (models.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledgers[username]
	return models.Ledger{Records: copyRecords(l.Records), Version: l.Version}, nil
}

func (s *MemoryStore) Replace(_ context.Context, username string, records []models.FinancialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(username, records)
	return nil
}

func (s *MemoryStore) CompareAndReplace(_ context.Context, username string, expected int64, records []models.FinancialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current := s.ledgers[username].Version; current != expected {
		return fmt.Errorf("ledger %q at version %d (stored %d): %w", username, expected, current, ErrConflict)
	}
	s.put(username, records)
	return nil
}

// put must be called with mu held.
func (s *MemoryStore) put(username string, records []models.FinancialRecord) {
	s.ledgers[username] = models.Ledger{
		Records: copyRecords(records),
		Version: s.ledgers[username].Version + 1,
	}
}

func copyRecords(in []models.FinancialRecord) []models.FinancialRecord {
	out := make([]models.FinancialRecord, len(in))
	copy(out, in)
	return out
}
