package models

// MonthlyStats is a pure aggregation over one user's transactions for a
// calendar month. Safe to recompute any number of times; nothing is stored.
type MonthlyStats struct {
	TotalExpenses    int64            `json:"total_expenses_cents"`
	TotalIncome      int64            `json:"total_income_cents"`
	ByCategory       map[string]int64 `json:"by_category_cents"`
	TransactionCount int              `json:"transaction_count"`
}
