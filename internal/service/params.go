package service

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// RecordInput is what the entry form submits for a new record.
type RecordInput struct {
	Date        string             `json:"date"` // "YYYY-MM-DD"; empty means today
	Type        models.EntryType   `json:"type" binding:"required"`
	Category    string             `json:"category" binding:"required"`
	Subcategory string             `json:"subcategory"` // ignored for Income
	Amount      decimal.Decimal    `json:"amount"`
	ExpenseKind models.ExpenseKind `json:"expense_kind"` // ignored for Income
}
