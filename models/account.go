package models

import "time"

// Account types. The set is fixed; the database enforces it with a CHECK
// constraint and handlers reject anything else before writing.
const (
	AccountTypeCurrent    = "CURRENT"
	AccountTypeSavings    = "SAVINGS"
	AccountTypeLoan       = "LOAN"
	AccountTypeInvestment = "INVESTMENT"
)

var AccountTypes = []string{
	AccountTypeCurrent,
	AccountTypeSavings,
	AccountTypeLoan,
	AccountTypeInvestment,
}

func ValidAccountType(t string) bool {
	for _, at := range AccountTypes {
		if at == t {
			return true
		}
	}
	return false
}

// Account is a user-owned balance-bearing bucket that transactions attach
// to. Balance is stored in cents and is only ever mutated by the ledger
// service, never written directly by handlers.
type Account struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   int64     `json:"balance_cents"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TransactionCount int `json:"transaction_count,omitempty"`
}

type CreateAccountRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
	// Balance is the opening balance as a decimal string ("1234.56").
	// Parsed to cents before any write; an unparsable value is rejected.
	Balance   string `json:"balance" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

type AccountWithTransactions struct {
	Account
	Transactions []Transaction `json:"transactions"`
}
