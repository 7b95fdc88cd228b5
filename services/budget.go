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

type BudgetService struct {
	db *sql.DB
}

func NewBudgetService(db *sql.DB) *BudgetService {
	return &BudgetService{db: db}
}

// Get returns the user's budget together with the current-month expense
// total of their default account. Users without a budget get a nil budget
// and a zero total.
func (s *BudgetService) Get(ctx context.Context, userID string) (*models.BudgetStatus, error) {
	var b models.Budget
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, last_alert_sent, created_at, updated_at
		FROM budgets
		WHERE user_id = $1
	`, userID).Scan(&b.ID, &b.UserID, &b.Amount, &b.LastAlertSent, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return &models.BudgetStatus{}, nil
	}
	if err != nil {
		return nil, err
	}

	monthStart := startOfMonth(time.Now())
	var expenses int64
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE a.user_id = $1 AND a.is_default
		  AND t.type = 'EXPENSE' AND t.date >= $2
	`, userID, monthStart).Scan(&expenses)
	if err != nil {
		return nil, err
	}

	return &models.BudgetStatus{Budget: &b, CurrentExpenses: expenses}, nil
}

// Upsert creates or replaces the amount of the user's single budget row.
// LastAlertSent is never touched here; only the alert evaluator writes it.
func (s *BudgetService) Upsert(ctx context.Context, userID string, req models.UpsertBudgetRequest) (*models.Budget, error) {
	amount, err := utils.ParsePositiveCents(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var b models.Budget
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO budgets (id, user_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		RETURNING id, user_id, amount, last_alert_sent, created_at, updated_at
	`, uuid.New().String(), userID, amount).Scan(
		&b.ID, &b.UserID, &b.Amount, &b.LastAlertSent, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
