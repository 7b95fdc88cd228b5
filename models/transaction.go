package models

import "time"

const (
	TransactionTypeExpense = "EXPENSE"
	TransactionTypeIncome  = "INCOME"
)

const (
	RecurringDaily   = "DAILY"
	RecurringWeekly  = "WEEKLY"
	RecurringMonthly = "MONTHLY"
	RecurringYearly  = "YEARLY"
)

func ValidTransactionType(t string) bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

func ValidRecurringInterval(i string) bool {
	switch i {
	case RecurringDaily, RecurringWeekly, RecurringMonthly, RecurringYearly:
		return true
	}
	return false
}

// ExpenseCategories and IncomeCategories form the fixed category catalog.
var ExpenseCategories = []string{
	"housing", "transport", "groceries", "utilities", "entertainment",
	"food", "shopping", "healthcare", "education", "personal", "travel",
	"insurance", "gifts", "bills", "other-expense",
}

var IncomeCategories = []string{
	"salary", "freelance", "investments", "business", "rental", "other-income",
}

func ValidCategory(txType, category string) bool {
	catalog := ExpenseCategories
	if txType == TransactionTypeIncome {
		catalog = IncomeCategories
	}
	for _, c := range catalog {
		if c == category {
			return true
		}
	}
	return false
}

// Transaction is a single dated monetary movement against an account.
// Amount is a non-negative magnitude in cents; the sign is derived from
// Type when the ledger aggregates balances.
type Transaction struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	AccountID         string     `json:"account_id"`
	Type              string     `json:"type"`
	Amount            int64      `json:"amount_cents"`
	Category          string     `json:"category"`
	Description       string     `json:"description"`
	Date              time.Time  `json:"date"`
	IsRecurring       bool       `json:"is_recurring"`
	RecurringInterval string     `json:"recurring_interval,omitempty"`
	NextRecurringDate *time.Time `json:"next_recurring_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type CreateTransactionRequest struct {
	AccountID string `json:"account_id" binding:"required"`
	Type      string `json:"type" binding:"required"`
	// Amount is a positive decimal string ("42.50"), parsed to cents.
	Amount            string    `json:"amount" binding:"required"`
	Category          string    `json:"category" binding:"required"`
	Description       string    `json:"description"`
	Date              time.Time `json:"date" binding:"required"`
	IsRecurring       bool      `json:"is_recurring"`
	RecurringInterval string    `json:"recurring_interval"`
}

type BulkDeleteRequest struct {
	TransactionIDs []string `json:"transaction_ids" binding:"required"`
}

// TransactionDraft is a prefilled transaction produced by the receipt
// scanner. It is ordinary untrusted input: the client reviews it and
// submits a CreateTransactionRequest as usual.
type TransactionDraft struct {
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}
