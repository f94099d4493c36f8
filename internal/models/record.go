package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel marks an unused subcategory or expense kind (income records).
const Sentinel = "-"

// DateLayout is the wire format of FinancialRecord.Date.
const DateLayout = "2006-01-02"

func init() {
	// Amounts travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type EntryType string

const (
	Income  EntryType = "Income"
	Expense EntryType = "Expense"
)

func (t EntryType) Valid() bool {
	return t == Income || t == Expense
}

type ExpenseKind string

const (
	Need   ExpenseKind = "Need"
	Want   ExpenseKind = "Want"
	NoKind ExpenseKind = Sentinel
)

func (k ExpenseKind) Valid() bool {
	return k == Need || k == Want
}

// Date is a calendar day without time of day, encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate returns midnight UTC of the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON leaves the date zero when the stored value is not a valid day.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}

// FinancialRecord is one ledger line.
type FinancialRecord struct {
	Date        Date            `json:"date"`
	Type        EntryType       `json:"type"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseKind ExpenseKind     `json:"expense_kind"`
}

// UnmarshalJSON accepts amounts as numbers or numeric strings; anything else,
// negatives included, becomes zero.
func (r *FinancialRecord) UnmarshalJSON(b []byte) error {
	type plain FinancialRecord
	var raw struct {
		plain
		Amount json.RawMessage `json:"amount"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = FinancialRecord(raw.plain)
	r.Amount = coerceAmount(raw.Amount)
	return nil
}

func coerceAmount(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// IsExpense reports whether the record counts toward expense totals.
func (r FinancialRecord) IsExpense() bool { return r.Type == Expense }

// IsIncome reports whether the record counts toward income totals.
func (r FinancialRecord) IsIncome() bool { return r.Type == Income }
