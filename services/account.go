package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finance-api/models"
	"finance-api/utils"

	"github.com/google/uuid"
)

type AccountService struct {
	db *sql.DB
}

func NewAccountService(db *sql.DB) *AccountService {
	return &AccountService{db: db}
}

// resolveDefault decides whether a new account becomes the default: the
// user's first account always does, otherwise the request decides.
func resolveDefault(existingCount int, requested bool) bool {
	if existingCount == 0 {
		return true
	}
	return requested
}

// Create parses and validates the opening balance before any write, then
// inserts the account. When the new account is the default (requested or
// forced as the first account), every other account of the user is demoted
// in the same transaction.
func (s *AccountService) Create(ctx context.Context, userID string, req models.CreateAccountRequest) (*models.Account, error) {
	if !models.ValidAccountType(req.Type) {
		return nil, fmt.Errorf("%w: unknown account type %q", ErrInvalidInput, req.Type)
	}

	balance, err := utils.ParseCents(req.Balance)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := time.Now()
	account := &models.Account{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Type:      req.Type,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var existing int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM accounts WHERE user_id = $1`, userID,
		).Scan(&existing); err != nil {
			return err
		}

		account.IsDefault = resolveDefault(existing, req.IsDefault)

		if account.IsDefault {
			if _, err := tx.ExecContext(ctx,
				`UPDATE accounts SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`,
				userID,
			); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (id, user_id, name, type, balance, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, account.ID, account.UserID, account.Name, account.Type,
			account.Balance, account.IsDefault, account.CreatedAt, account.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// SetDefault clears every default flag for the user and sets the requested
// account, all inside one transaction. If the account does not belong to
// the user the unit rolls back and the previous default stays intact.
func (s *AccountService) SetDefault(ctx context.Context, userID, accountID string) (*models.Account, error) {
	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`,
			userID,
		); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE accounts SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`,
			accountID, userID,
		)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, userID, accountID)
}

// GetByID returns one of the user's accounts.
func (s *AccountService) GetByID(ctx context.Context, userID, accountID string) (*models.Account, error) {
	var a models.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, balance, is_default, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND user_id = $2
	`, accountID, userID).Scan(
		&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.IsDefault,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns the user's accounts, newest first, with transaction counts.
func (s *AccountService) List(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.user_id, a.name, a.type, a.balance, a.is_default,
		       a.created_at, a.updated_at,
		       (SELECT COUNT(*) FROM transactions t WHERE t.account_id = a.id) AS tx_count
		FROM accounts a
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		err := rows.Scan(
			&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.IsDefault,
			&a.CreatedAt, &a.UpdatedAt, &a.TransactionCount,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetWithTransactions returns an account and its transactions, newest
// first.
func (s *AccountService) GetWithTransactions(ctx context.Context, userID, accountID string) (*models.AccountWithTransactions, error) {
	account, err := s.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, account_id, type, amount, category, description, date,
		       is_recurring, COALESCE(recurring_interval, ''), next_recurring_date,
		       created_at, updated_at
		FROM transactions
		WHERE account_id = $1 AND user_id = $2
		ORDER BY date DESC
	`, accountID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	account.TransactionCount = len(transactions)
	return &models.AccountWithTransactions{
		Account:      *account,
		Transactions: transactions,
	}, nil
}
