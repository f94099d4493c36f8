package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFinancialRecord_UnmarshalCoercesAmount(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want decimal.Decimal
	}{
		{"number", `300`, decimal.NewFromInt(300)},
		{"fraction", `12.5`, decimal.RequireFromString("12.5")},
		{"numeric string", `"42.10"`, decimal.RequireFromString("42.1")},
		{"garbage string", `"abc"`, decimal.Zero},
		{"null", `null`, decimal.Zero},
		{"bool", `true`, decimal.Zero},
		{"negative number", `-5`, decimal.Zero},
		{"negative string", `"-0.01"`, decimal.Zero},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"date":"2025-08-01","type":"Expense","category":"Health","subcategory":"Medical","amount":` + tc.raw + `,"expense_kind":"Need"}`
			var r FinancialRecord
			if err := json.Unmarshal([]byte(body), &r); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !r.Amount.Equal(tc.want) {
				t.Fatalf("amount: got %s, want %s", r.Amount, tc.want)
			}
			if r.Type != Expense || r.Subcategory != "Medical" || r.ExpenseKind != Need {
				t.Fatalf("other fields not decoded: %+v", r)
			}
			if !r.Date.Equal(NewDate(2025, time.August, 1).Time) {
				t.Fatalf("date: got %v", r.Date)
			}
		})
	}
}

func TestFinancialRecord_MarshalWireShape(t *testing.T) {
	r := FinancialRecord{
		Date:        NewDate(2025, time.March, 9),
		Type:        Income,
		Category:    "Salary",
		Subcategory: Sentinel,
		Amount:      decimal.NewFromInt(1000),
		ExpenseKind: NoKind,
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	for _, want := range []string{`"date":"2025-03-09"`, `"type":"Income"`, `"amount":1000`, `"expense_kind":"-"`, `"subcategory":"-"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %s in %s", want, got)
		}
	}
}

func TestDate_UnparseableBecomesZero(t *testing.T) {
	var r FinancialRecord
	if err := json.Unmarshal([]byte(`{"date":"yesterday","type":"Income","amount":1}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !r.Date.IsZero() {
		t.Fatalf("expected zero date, got %v", r.Date)
	}
	if r.Date.String() != "" {
		t.Fatalf("zero date should print empty, got %q", r.Date.String())
	}
}

func TestWithout(t *testing.T) {
	in := []FinancialRecord{{Category: "a"}, {Category: "b"}, {Category: "c"}}
	out := Without(in, 1)
	if len(out) != 2 || out[0].Category != "a" || out[1].Category != "c" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if in[1].Category != "b" {
		t.Fatalf("input was mutated: %+v", in)
	}
	if got := Without(in[:1], 0); len(got) != 0 {
		t.Fatalf("expected empty slice, got %+v", got)
	}
}

func TestTaxonomy(t *testing.T) {
	tx := DefaultTaxonomy()
	if !tx.HasIncome("Salary") || tx.HasIncome("Rent") {
		t.Fatalf("income lookup wrong")
	}
	if !tx.HasExpense("Housing", "Rent") {
		t.Fatalf("expected Housing/Rent")
	}
	if tx.HasExpense("Housing", "Medical") || tx.HasExpense("Nope", "Rent") {
		t.Fatalf("unexpected match")
	}
	tx.Income[0] = "changed"
	if DefaultTaxonomy().Income[0] != "Salary" {
		t.Fatalf("DefaultTaxonomy must return a copy")
	}
}
