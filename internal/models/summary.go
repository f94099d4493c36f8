package models

import "github.com/shopspring/decimal"

// Summary is the dashboard view derived from a ledger.
// NeedWant and Categories are nil when there is no expense to chart.
type Summary struct {
	Empty        bool            `json:"empty"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	NeedWant     *NeedWantSplit  `json:"need_want"`
	Categories   []CategoryShare `json:"categories"`
	Last30Days   []DailyTotals   `json:"last_30_days"`
}

// NeedWantSplit is the two-slice need/want pie.
type NeedWantSplit struct {
	Need        decimal.Decimal `json:"need"`
	Want        decimal.Decimal `json:"want"`
	NeedPercent decimal.Decimal `json:"need_percent"`
	WantPercent decimal.Decimal `json:"want_percent"`
}

// CategoryShare is one slice of the expense-by-subcategory pie.
type CategoryShare struct {
	Subcategory string          `json:"subcategory"`
	Amount      decimal.Decimal `json:"amount"`
	Percent     decimal.Decimal `json:"percent"`
}

// DailyTotals is one row of the rolling window table.
type DailyTotals struct {
	Date    Date            `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}
