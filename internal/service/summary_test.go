package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/repository"
)

var summaryNow = time.Date(2025, 8, 27, 15, 0, 0, 0, time.UTC)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func income(day models.Date, category, amount string) models.FinancialRecord {
	return models.FinancialRecord{
		Date: day, Type: models.Income, Category: category,
		Subcategory: models.Sentinel, Amount: dec(amount), ExpenseKind: models.NoKind,
	}
}

func expense(day models.Date, sub string, kind models.ExpenseKind, amount string) models.FinancialRecord {
	return models.FinancialRecord{
		Date: day, Type: models.Expense, Category: "Other",
		Subcategory: sub, Amount: dec(amount), ExpenseKind: kind,
	}
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestSummarize_Scenario(t *testing.T) {
	day := models.NewDate(2025, time.August, 20)
	records := []models.FinancialRecord{
		income(day, "Salary", "1000"),
		expense(day, "Rent", models.Need, "300"),
		expense(day, "Restaurant/Cafe", models.Want, "200"),
	}

	s := Summarize(records, summaryNow)

	if s.Empty {
		t.Fatalf("non-empty ledger reported empty")
	}
	assertDec(t, "total income", s.TotalIncome, "1000")
	assertDec(t, "total expense", s.TotalExpense, "500")
	assertDec(t, "balance", s.Balance, "500")

	if s.NeedWant == nil {
		t.Fatalf("expected need/want split")
	}
	assertDec(t, "need", s.NeedWant.Need, "300")
	assertDec(t, "want", s.NeedWant.Want, "200")
	assertDec(t, "need%", s.NeedWant.NeedPercent, "60")
	assertDec(t, "want%", s.NeedWant.WantPercent, "40")

	if len(s.Categories) != 2 {
		t.Fatalf("expected 2 category slices, got %+v", s.Categories)
	}
	// sorted by subcategory name
	if s.Categories[0].Subcategory != "Rent" || s.Categories[1].Subcategory != "Restaurant/Cafe" {
		t.Fatalf("unexpected category order: %+v", s.Categories)
	}
	assertDec(t, "rent%", s.Categories[0].Percent, "60")

	if len(s.Last30Days) != 1 {
		t.Fatalf("expected one day in window, got %+v", s.Last30Days)
	}
	assertDec(t, "day income", s.Last30Days[0].Income, "1000")
	assertDec(t, "day expense", s.Last30Days[0].Expense, "500")
}

func TestSummarize_ZeroExpenseSuppressesCharts(t *testing.T) {
	tests := []struct {
		name    string
		records []models.FinancialRecord
		empty   bool
	}{
		{name: "empty ledger", records: nil, empty: true},
		{name: "income only", records: []models.FinancialRecord{income(models.NewDate(2025, 8, 1), "Salary", "50")}},
		{name: "zero-amount expense", records: []models.FinancialRecord{expense(models.NewDate(2025, 8, 1), "Rent", models.Need, "0")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.records, summaryNow)
			if s.Empty != tt.empty {
				t.Fatalf("Empty = %v, want %v", s.Empty, tt.empty)
			}
			if s.NeedWant != nil || s.Categories != nil {
				t.Fatalf("charts must be suppressed, got %+v %+v", s.NeedWant, s.Categories)
			}
			if s.Last30Days == nil {
				t.Fatalf("window table should be an empty list, not nil")
			}
		})
	}
}

func TestSummarize_BalanceAndNeedWantInvariants(t *testing.T) {
	day := models.NewDate(2025, time.August, 25)
	records := []models.FinancialRecord{
		income(day, "Salary", "1234.56"),
		income(day, "Side Income", "10.01"),
		expense(day, "Rent", models.Need, "700.10"),
		expense(day, "Groceries", models.Need, "99.99"),
		expense(day, "Entertainment/Social Life", models.Want, "45.5"),
	}
	s := Summarize(records, summaryNow)

	if !s.TotalIncome.Sub(s.TotalExpense).Equal(s.Balance) {
		t.Fatalf("income - expense != balance")
	}
	if !s.NeedWant.Need.Add(s.NeedWant.Want).Equal(s.TotalExpense) {
		t.Fatalf("need + want != total expense")
	}
	var total decimal.Decimal
	for _, c := range s.Categories {
		total = total.Add(c.Amount)
	}
	if !total.Equal(s.TotalExpense) {
		t.Fatalf("category amounts do not add up: %s vs %s", total, s.TotalExpense)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	records := []models.FinancialRecord{
		income(models.NewDate(2025, 8, 10), "Salary", "1000"),
		expense(models.NewDate(2025, 8, 11), "Rent", models.Need, "300"),
		expense(models.NewDate(2025, 8, 12), "Transport", models.Want, "12.5"),
	}
	a := Summarize(records, summaryNow)
	b := Summarize(records, summaryNow)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("summaries differ:\n%+v\n%+v", a, b)
	}
}

func TestSummarize_WindowBoundary(t *testing.T) {
	// now - 30 days = 2025-07-28 15:00
	records := []models.FinancialRecord{
		expense(models.NewDate(2025, time.July, 27), "Rent", models.Need, "1"),
		expense(models.NewDate(2025, time.July, 28), "Rent", models.Need, "2"),
		expense(models.NewDate(2025, time.July, 29), "Rent", models.Need, "4"),
		income(models.NewDate(2025, time.August, 27), "Salary", "8"),
		expense(models.NewDate(2025, time.August, 27), "Rent", models.Need, "16"),
		expense(models.Date{}, "Rent", models.Need, "32"),
	}
	s := Summarize(records, summaryNow)

	got := make([]string, 0, len(s.Last30Days))
	for _, d := range s.Last30Days {
		got = append(got, d.Date.String())
	}
	want := []string{"2025-07-29", "2025-08-27"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("window days = %v, want %v", got, want)
	}
	assertDec(t, "last income", s.Last30Days[1].Income, "8")
	assertDec(t, "last expense", s.Last30Days[1].Expense, "16")
	assertDec(t, "first income", s.Last30Days[0].Income, "0")

	// the totals still cover every record
	assertDec(t, "total expense", s.TotalExpense, "55")
}

func TestSummarize_SentinelKindIsNotASlice(t *testing.T) {
	records := []models.FinancialRecord{
		expense(models.NewDate(2025, 8, 1), "Rent", models.Need, "30"),
		expense(models.NewDate(2025, 8, 1), "Other Expenses", models.NoKind, "70"),
	}
	s := Summarize(records, summaryNow)
	if s.NeedWant == nil {
		t.Fatalf("expected need/want split")
	}
	assertDec(t, "need%", s.NeedWant.NeedPercent, "100")
	assertDec(t, "want%", s.NeedWant.WantPercent, "0")
	assertDec(t, "other%", s.Categories[0].Percent, "70")
}

func TestAnalysisService_Summary(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	if err := store.Replace(ctx, "alice", []models.FinancialRecord{income(models.NewDate(2025, 8, 1), "Salary", "10")}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewAnalysisService(store)
	svc.now = func() time.Time { return summaryNow }

	s, err := svc.Summary(ctx, "alice")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	assertDec(t, "income", s.TotalIncome, "10")

	s, err = svc.Summary(ctx, "nobody")
	if err != nil || !s.Empty {
		t.Fatalf("unknown user should get an empty summary, got %+v, %v", s, err)
	}
}

func TestAnalysisService_StoreOutage(t *testing.T) {
	svc := NewAnalysisService(&fakeLedgerRepo{loadErr: errors.New("connection refused")})
	if _, err := svc.Summary(context.Background(), "alice"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
