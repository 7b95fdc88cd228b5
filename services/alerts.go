package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"finance-api/models"
	"finance-api/utils"
)

// alertThresholdPercent is the budget usage at which an alert fires.
const alertThresholdPercent = 80.0

// BudgetCheck carries everything the evaluator needs for one budget.
// DefaultAccount is nil when the user has no default account, in which
// case the budget is skipped entirely.
type BudgetCheck struct {
	Budget         models.Budget
	UserEmail      string
	UserName       string
	DefaultAccount *models.Account
	TotalExpenses  int64
}

// BudgetAlertData is the structured content of an alert notification.
type BudgetAlertData struct {
	PercentageUsed float64
	BudgetAmount   int64
	TotalExpenses  int64
	AccountName    string
}

// AlertStore is the storage surface the evaluator needs.
type AlertStore interface {
	DueBudgets(ctx context.Context, monthStart time.Time) ([]BudgetCheck, error)
	MarkAlertSent(ctx context.Context, budgetID string, at time.Time) error
}

// AlertDispatcher delivers an alert notification. A returned error means
// the alert was not delivered and must not be marked as sent.
type AlertDispatcher interface {
	SendBudgetAlert(to, userName string, data BudgetAlertData) error
}

// BudgetAlertService walks every budget on a fixed schedule and fires an
// at-most-once-per-month email when usage crosses the threshold.
type BudgetAlertService struct {
	store      AlertStore
	dispatcher AlertDispatcher
	now        func() time.Time
}

func NewBudgetAlertService(db *sql.DB, dispatcher AlertDispatcher) *BudgetAlertService {
	return &BudgetAlertService{
		store:      &sqlAlertStore{db: db},
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// shouldSendAlert is the whole decision rule. A zero (or negative) budget
// amount never alerts, the threshold is inclusive, and an alert already
// sent in the current calendar month suppresses another one.
func shouldSendAlert(budgetAmount, totalExpenses int64, lastAlertSent *time.Time, now time.Time) bool {
	if budgetAmount <= 0 {
		return false
	}
	percentageUsed := float64(totalExpenses) / float64(budgetAmount) * 100
	if percentageUsed < alertThresholdPercent {
		return false
	}
	if lastAlertSent == nil {
		return true
	}
	return lastAlertSent.Month() != now.Month() || lastAlertSent.Year() != now.Year()
}

// Run evaluates every budget once. Dispatch failures only skip the state
// update for that budget (so it is retried next cycle); they never stop
// the rest of the batch.
func (s *BudgetAlertService) Run(ctx context.Context) error {
	now := s.now()
	checks, err := s.store.DueBudgets(ctx, startOfMonth(now))
	if err != nil {
		return err
	}

	for _, check := range checks {
		if check.DefaultAccount == nil {
			continue
		}
		if !shouldSendAlert(check.Budget.Amount, check.TotalExpenses, check.Budget.LastAlertSent, now) {
			continue
		}

		data := BudgetAlertData{
			PercentageUsed: float64(check.TotalExpenses) / float64(check.Budget.Amount) * 100,
			BudgetAmount:   check.Budget.Amount,
			TotalExpenses:  check.TotalExpenses,
			AccountName:    check.DefaultAccount.Name,
		}

		if err := s.dispatcher.SendBudgetAlert(check.UserEmail, check.UserName, data); err != nil {
			log.Printf("⚠️ Budget alert dispatch failed for budget %s: %v", check.Budget.ID, err)
			continue
		}

		utils.SafeLogf("📧 Budget alert sent to %s (%.1f%% used)", check.UserEmail, data.PercentageUsed)

		if err := s.store.MarkAlertSent(ctx, check.Budget.ID, now); err != nil {
			log.Printf("❌ Failed to record alert for budget %s: %v", check.Budget.ID, err)
		}
	}

	return nil
}

type sqlAlertStore struct {
	db *sql.DB
}

func (s *sqlAlertStore) DueBudgets(ctx context.Context, monthStart time.Time) ([]BudgetCheck, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.amount, b.last_alert_sent,
		       u.email, u.name,
		       a.id, a.name,
		       COALESCE((
		           SELECT SUM(t.amount) FROM transactions t
		           WHERE t.account_id = a.id AND t.type = 'EXPENSE' AND t.date >= $1
		       ), 0) AS total_expenses
		FROM budgets b
		JOIN users u ON b.user_id = u.id
		LEFT JOIN accounts a ON a.user_id = u.id AND a.is_default
	`, monthStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []BudgetCheck
	for rows.Next() {
		var check BudgetCheck
		var accountID, accountName sql.NullString
		var total sql.NullInt64
		err := rows.Scan(
			&check.Budget.ID, &check.Budget.UserID, &check.Budget.Amount,
			&check.Budget.LastAlertSent,
			&check.UserEmail, &check.UserName,
			&accountID, &accountName, &total,
		)
		if err != nil {
			return nil, err
		}
		if accountID.Valid {
			check.DefaultAccount = &models.Account{ID: accountID.String, Name: accountName.String}
			check.TotalExpenses = total.Int64
		}
		checks = append(checks, check)
	}
	return checks, rows.Err()
}

func (s *sqlAlertStore) MarkAlertSent(ctx context.Context, budgetID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE budgets SET last_alert_sent = $1, updated_at = NOW() WHERE id = $2
	`, at, budgetID)
	return err
}
