package models

import "time"

// Budget is the per-user monthly expense ceiling. LastAlertSent is only
// ever written by the budget-alert evaluator, at most once per calendar
// month.
type Budget struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Amount        int64      `json:"amount_cents"`
	LastAlertSent *time.Time `json:"last_alert_sent,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type UpsertBudgetRequest struct {
	// Amount is the monthly ceiling as a decimal string ("1500.00").
	Amount string `json:"amount" binding:"required"`
}

type BudgetStatus struct {
	Budget          *Budget `json:"budget"`
	CurrentExpenses int64   `json:"current_expenses_cents"`
}
