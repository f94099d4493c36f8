package models

// Ledger is the full ordered record list of one user as last stored.
// Version is 0 when nothing has been written yet.
type Ledger struct {
	Records []FinancialRecord `json:"records"`
	Version int64             `json:"version"`
}

// Without returns a copy of records with the element at index removed.
func Without(records []FinancialRecord, index int) []FinancialRecord {
	out := make([]FinancialRecord, 0, len(records))
	out = append(out, records[:index]...)
	return append(out, records[index+1:]...)
}
