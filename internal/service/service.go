package service

import (
	"context"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/models"
	"fintrack/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (Session, string, error)
	SignIn(ctx context.Context, username, password string) (Session, string, error)
	Logout(sessionID string) error
	ParseToken(accessToken string) (Session, error)
}

// Ledger exposes the record list of one user: load, append, delete, bulk import.
type Ledger interface {
	List(ctx context.Context, username string) (models.Ledger, error)
	Add(ctx context.Context, username string, in RecordInput) (models.FinancialRecord, error)
	Delete(ctx context.Context, username string, index int) (models.FinancialRecord, error)
	Import(ctx context.Context, username string, records []models.FinancialRecord) (int, error)
}

// Analysis computes dashboard figures from the stored ledger.
type Analysis interface {
	Summary(ctx context.Context, username string) (models.Summary, error)
}

type Taxonomy interface {
	Categories() models.Taxonomy
}

// Service aggregates all sub-services the handlers use.
type Service struct {
	Authorization
	Ledger
	Analysis
	Taxonomy
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, auth config.Auth) *Service {
	sessions := NewSessionStore(auth.SigningKey, auth.TokenTTL)
	taxonomy := models.DefaultTaxonomy()
	return &Service{
		Authorization: NewAuthService(repos.Credentials, sessions),
		Ledger:        NewLedgerService(repos.Ledgers, taxonomy),
		Analysis:      NewAnalysisService(repos.Ledgers),
		Taxonomy:      NewTaxonomyService(taxonomy),
	}
}

// clock is swapped in tests.
type clock func() time.Time

func systemClock() time.Time { return time.Now() }
