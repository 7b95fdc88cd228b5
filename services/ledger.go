package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finance-api/models"
	"finance-api/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// LedgerService owns the invariant that an account's stored balance equals
// the signed sum of its transactions. Every transaction write and its
// balance adjustment happen inside one database transaction, and balance
// adjustments are increments so concurrent writers never lose updates.
type LedgerService struct {
	db *sql.DB
}

func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{db: db}
}

// SignedAmount converts a stored magnitude to its balance contribution:
// income adds, expense subtracts.
func SignedAmount(txType string, amount int64) int64 {
	if txType == models.TransactionTypeExpense {
		return -amount
	}
	return amount
}

// reversalDeltas computes, per account, the balance adjustment that undoes
// the listed transactions.
func reversalDeltas(transactions []models.Transaction) map[string]int64 {
	deltas := make(map[string]int64)
	for _, t := range transactions {
		deltas[t.AccountID] -= SignedAmount(t.Type, t.Amount)
	}
	return deltas
}

// NextRecurringDate advances a date by one recurring interval.
func NextRecurringDate(from time.Time, interval string) time.Time {
	switch interval {
	case models.RecurringDaily:
		return from.AddDate(0, 0, 1)
	case models.RecurringWeekly:
		return from.AddDate(0, 0, 7)
	case models.RecurringMonthly:
		return from.AddDate(0, 1, 0)
	case models.RecurringYearly:
		return from.AddDate(1, 0, 0)
	}
	return from
}

// CreateTransaction validates the request, then inserts the transaction
// and applies its balance delta atomically.
func (s *LedgerService) CreateTransaction(ctx context.Context, userID string, req models.CreateTransactionRequest) (*models.Transaction, error) {
	if !models.ValidTransactionType(req.Type) {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, req.Type)
	}
	if !models.ValidCategory(req.Type, req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, req.Category)
	}
	if req.IsRecurring && !models.ValidRecurringInterval(req.RecurringInterval) {
		return nil, fmt.Errorf("%w: unknown recurring interval %q", ErrInvalidInput, req.RecurringInterval)
	}

	amount, err := utils.ParsePositiveCents(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Ownership check before any write.
	var owned bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2)`,
		req.AccountID, userID,
	).Scan(&owned)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrNotFound
	}

	now := time.Now()
	txn := &models.Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		AccountID:   req.AccountID,
		Type:        req.Type,
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
		IsRecurring: req.IsRecurring,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsRecurring {
		txn.RecurringInterval = req.RecurringInterval
		next := NextRecurringDate(req.Date, req.RecurringInterval)
		txn.NextRecurringDate = &next
	}

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions
				(id, user_id, account_id, type, amount, category, description, date,
				 is_recurring, recurring_interval, next_recurring_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13)
		`, txn.ID, txn.UserID, txn.AccountID, txn.Type, txn.Amount, txn.Category,
			txn.Description, txn.Date, txn.IsRecurring, txn.RecurringInterval,
			txn.NextRecurringDate, txn.CreatedAt, txn.UpdatedAt)
		if err != nil {
			return err
		}

		return applyBalanceDelta(ctx, tx, txn.AccountID, SignedAmount(txn.Type, txn.Amount))
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// UpdateTransaction rewrites a transaction and reconciles the balance in
// the same atomic unit: the old signed amount is reversed and the new one
// applied, spanning both accounts if the transaction moved.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID, transactionID string, req models.CreateTransactionRequest) (*models.Transaction, error) {
	if !models.ValidTransactionType(req.Type) {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, req.Type)
	}
	if !models.ValidCategory(req.Type, req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, req.Category)
	}

	amount, err := utils.ParsePositiveCents(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	old, err := s.getOwned(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	var ownedAccount bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2)`,
		req.AccountID, userID,
	).Scan(&ownedAccount)
	if err != nil {
		return nil, err
	}
	if !ownedAccount {
		return nil, ErrNotFound
	}

	updated := *old
	updated.AccountID = req.AccountID
	updated.Type = req.Type
	updated.Amount = amount
	updated.Category = req.Category
	updated.Description = req.Description
	updated.Date = req.Date
	updated.UpdatedAt = time.Now()

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET account_id = $1, type = $2, amount = $3, category = $4,
			    description = $5, date = $6, updated_at = $7
			WHERE id = $8 AND user_id = $9
		`, updated.AccountID, updated.Type, updated.Amount, updated.Category,
			updated.Description, updated.Date, updated.UpdatedAt, updated.ID, userID)
		if err != nil {
			return err
		}

		if err := applyBalanceDelta(ctx, tx, old.AccountID, -SignedAmount(old.Type, old.Amount)); err != nil {
			return err
		}
		return applyBalanceDelta(ctx, tx, updated.AccountID, SignedAmount(updated.Type, updated.Amount))
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteTransaction removes a single transaction, reversing its balance
// contribution atomically.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	txn, err := s.getOwned(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
			transactionID, userID)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			// Already gone; nothing to reverse.
			return nil
		}
		return applyBalanceDelta(ctx, tx, txn.AccountID, -SignedAmount(txn.Type, txn.Amount))
	})
}

// BulkDeleteTransactions deletes every listed transaction owned by the
// user and reverses the balance effect per account. Ids that are unknown
// or foreign are silently excluded; an empty effective set is a no-op.
// The reversal deltas are computed from the rows the DELETE actually
// removed, so a concurrent delete of an overlapping id set can never be
// reversed twice.
func (s *LedgerService) BulkDeleteTransactions(ctx context.Context, userID string, transactionIDs []string) error {
	if len(transactionIDs) == 0 {
		return nil
	}

	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			DELETE FROM transactions
			WHERE id = ANY($1) AND user_id = $2
			RETURNING id, account_id, type, amount
		`, pq.Array(transactionIDs), userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		var deleted []models.Transaction
		for rows.Next() {
			var t models.Transaction
			if err := rows.Scan(&t.ID, &t.AccountID, &t.Type, &t.Amount); err != nil {
				return err
			}
			deleted = append(deleted, t)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		for accountID, delta := range reversalDeltas(deleted) {
			if err := applyBalanceDelta(ctx, tx, accountID, delta); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTransactions lists a user's transactions, newest first.
func (s *LedgerService) GetTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, account_id, type, amount, category, description, date,
		       is_recurring, COALESCE(recurring_interval, ''), next_recurring_date,
		       created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (s *LedgerService) getOwned(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, account_id, type, amount, category, description, date,
		       is_recurring, COALESCE(recurring_interval, ''), next_recurring_date,
		       created_at, updated_at
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`, transactionID, userID).Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.Type, &t.Amount, &t.Category,
		&t.Description, &t.Date, &t.IsRecurring, &t.RecurringInterval,
		&t.NextRecurringDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// applyBalanceDelta adjusts an account balance by increment so concurrent
// unrelated updates to the same account are never lost.
func applyBalanceDelta(ctx context.Context, tx *sql.Tx, accountID string, delta int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, accountID)
	return err
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.ID, &t.UserID, &t.AccountID, &t.Type, &t.Amount, &t.Category,
			&t.Description, &t.Date, &t.IsRecurring, &t.RecurringInterval,
			&t.NextRecurringDate, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
