package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/repository"
)

// WindowDays is the length of the rolling daily table.
const WindowDays = 30

var hundred = decimal.NewFromInt(100)

type AnalysisService struct {
	repo repository.LedgerRepo
	now  clock
}

func NewAnalysisService(repo repository.LedgerRepo) *AnalysisService {
	return &AnalysisService{repo: repo, now: systemClock}
}

// Summary loads the ledger and summarizes it as of now.
func (s *AnalysisService) Summary(ctx context.Context, username string) (models.Summary, error) {
	l, err := s.repo.Load(ctx, username)
	if err != nil {
		return models.Summary{}, storeErr("load ledger", err)
	}
	return Summarize(l.Records, s.now()), nil
}

// Summarize derives the dashboard from records. It has no side effects.
// The need/want and category charts are nil when there is no expense.
func Summarize(records []models.FinancialRecord, now time.Time) models.Summary {
	sum := models.Summary{
		Empty:        len(records) == 0,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	need, want := decimal.Zero, decimal.Zero
	bySub := map[string]decimal.Decimal{}
	for _, r := range records {
		switch {
		case r.IsIncome():
			sum.TotalIncome = sum.TotalIncome.Add(r.Amount)
		case r.IsExpense():
			sum.TotalExpense = sum.TotalExpense.Add(r.Amount)
			bySub[r.Subcategory] = bySub[r.Subcategory].Add(r.Amount)
			switch r.ExpenseKind {
			case models.Need:
				need = need.Add(r.Amount)
			case models.Want:
				want = want.Add(r.Amount)
			}
		}
	}
	sum.Balance = sum.TotalIncome.Sub(sum.TotalExpense)
	sum.Last30Days = rollingWindow(records, now)

	if !sum.TotalExpense.IsPositive() {
		return sum
	}

	if kinds := need.Add(want); kinds.IsPositive() {
		sum.NeedWant = &models.NeedWantSplit{
			Need:        need,
			Want:        want,
			NeedPercent: percent(need, kinds),
			WantPercent: percent(want, kinds),
		}
	}

	subs := make([]string, 0, len(bySub))
	for name := range bySub {
		subs = append(subs, name)
	}
	sort.Strings(subs)
	sum.Categories = make([]models.CategoryShare, 0, len(subs))
	for _, name := range subs {
		sum.Categories = append(sum.Categories, models.CategoryShare{
			Subcategory: name,
			Amount:      bySub[name],
			Percent:     percent(bySub[name], sum.TotalExpense),
		})
	}
	return sum
}

// rollingWindow groups records dated at or after now-30 days by day and
// pivots them into income and expense columns, oldest first. Record dates
// are compared as midnight against now's wall clock.
func rollingWindow(records []models.FinancialRecord, now time.Time) []models.DailyTotals {
	wall := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
	cutoff := wall.AddDate(0, 0, -WindowDays)

	byDay := map[string]*models.DailyTotals{}
	for _, r := range records {
		if r.Date.IsZero() || r.Date.Before(cutoff) {
			continue
		}
		day := r.Date.String()
		row, ok := byDay[day]
		if !ok {
			row = &models.DailyTotals{Date: r.Date, Income: decimal.Zero, Expense: decimal.Zero}
			byDay[day] = row
		}
		switch {
		case r.IsIncome():
			row.Income = row.Income.Add(r.Amount)
		case r.IsExpense():
			row.Expense = row.Expense.Add(r.Amount)
		}
	}

	out := make([]models.DailyTotals, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	return part.Mul(hundred).Div(whole).Round(2)
}
