package service

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/models"
	"fintrack/internal/repository"
)

type LedgerService struct {
	repo     repository.LedgerRepo
	taxonomy models.Taxonomy
	now      clock
}

func NewLedgerService(repo repository.LedgerRepo, taxonomy models.Taxonomy) *LedgerService {
	return &LedgerService{repo: repo, taxonomy: taxonomy, now: systemClock}
}

// List returns the stored ledger as is.
func (s *LedgerService) List(ctx context.Context, username string) (models.Ledger, error) {
	l, err := s.repo.Load(ctx, username)
	if err != nil {
		return models.Ledger{}, storeErr("load ledger", err)
	}
	return l, nil
}

// Add validates in, appends it to a fresh copy of the ledger and writes the
// copy back only if nobody else wrote in between.
func (s *LedgerService) Add(ctx context.Context, username string, in RecordInput) (models.FinancialRecord, error) {
	rec, err := s.buildRecord(in)
	if err != nil {
		return models.FinancialRecord{}, err
	}

	l, err := s.repo.Load(ctx, username)
	if err != nil {
		return models.FinancialRecord{}, storeErr("load ledger", err)
	}
	next := make([]models.FinancialRecord, 0, len(l.Records)+1)
	next = append(append(next, l.Records...), rec)

	if err := s.repo.CompareAndReplace(ctx, username, l.Version, next); err != nil {
		return models.FinancialRecord{}, storeErr("add record", err)
	}
	return rec, nil
}

// Delete removes the record at index and returns it.
func (s *LedgerService) Delete(ctx context.Context, username string, index int) (models.FinancialRecord, error) {
	l, err := s.repo.Load(ctx, username)
	if err != nil {
		return models.FinancialRecord{}, storeErr("load ledger", err)
	}
	if index < 0 || index >= len(l.Records) {
		return models.FinancialRecord{}, fmt.Errorf("delete %d of %d: %w", index, len(l.Records), ErrRecordIndex)
	}
	removed := l.Records[index]

	if err := s.repo.CompareAndReplace(ctx, username, l.Version, models.Without(l.Records, index)); err != nil {
		return models.FinancialRecord{}, storeErr("delete record", err)
	}
	return removed, nil
}

// Import overwrites the whole ledger with records, last writer wins.
// Every record is validated first; nothing is written if one is rejected.
func (s *LedgerService) Import(ctx context.Context, username string, records []models.FinancialRecord) (int, error) {
	clean := make([]models.FinancialRecord, len(records))
	for i, r := range records {
		r, err := s.normalize(r)
		if err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
		clean[i] = r
	}
	if err := s.repo.Replace(ctx, username, clean); err != nil {
		return 0, storeErr("import ledger", err)
	}
	return len(clean), nil
}

func (s *LedgerService) buildRecord(in RecordInput) (models.FinancialRecord, error) {
	date := models.DateOf(s.now())
	if strings.TrimSpace(in.Date) != "" {
		d, err := models.ParseDate(in.Date)
		if err != nil {
			return models.FinancialRecord{}, invalidRecord("%v", err)
		}
		date = d
	}
	return s.normalize(models.FinancialRecord{
		Date:        date,
		Type:        in.Type,
		Category:    strings.TrimSpace(in.Category),
		Subcategory: strings.TrimSpace(in.Subcategory),
		Amount:      in.Amount,
		ExpenseKind: in.ExpenseKind,
	})
}

// normalize checks r against the taxonomy. Income records get the sentinel
// subcategory and expense kind.
func (s *LedgerService) normalize(r models.FinancialRecord) (models.FinancialRecord, error) {
	if r.Date.IsZero() {
		return r, invalidRecord("date is required")
	}
	if r.Amount.IsNegative() {
		return r, invalidRecord("amount must not be negative, got %s", r.Amount)
	}

	switch r.Type {
	case models.Income:
		if !s.taxonomy.HasIncome(r.Category) {
			return r, invalidRecord("unknown income category %q", r.Category)
		}
		r.Subcategory = models.Sentinel
		r.ExpenseKind = models.NoKind
	case models.Expense:
		if !s.taxonomy.HasExpense(r.Category, r.Subcategory) {
			return r, invalidRecord("unknown expense subcategory %q in %q", r.Subcategory, r.Category)
		}
		if !r.ExpenseKind.Valid() {
			return r, invalidRecord("expense kind must be Need or Want, got %q", r.ExpenseKind)
		}
	default:
		return r, invalidRecord("type must be Income or Expense, got %q", r.Type)
	}
	return r, nil
}
