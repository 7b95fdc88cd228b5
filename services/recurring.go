package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"finance-api/models"
	"finance-api/utils"

	"github.com/google/uuid"
)

// RecurringService materializes due recurring transactions. Each template
// transaction spawns a fresh non-recurring transaction dated now, the
// balance delta is applied, and the template's next due date advances by
// its interval. All three writes share one transaction per template.
type RecurringService struct {
	db  *sql.DB
	now func() time.Time
}

func NewRecurringService(db *sql.DB) *RecurringService {
	return &RecurringService{db: db, now: time.Now}
}

func (s *RecurringService) Run(ctx context.Context) error {
	now := s.now()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, account_id, type, amount, category, description,
		       COALESCE(recurring_interval, ''), next_recurring_date
		FROM transactions
		WHERE is_recurring AND next_recurring_date <= $1
	`, now)
	if err != nil {
		return err
	}
	defer rows.Close()

	var due []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Type, &t.Amount,
			&t.Category, &t.Description, &t.RecurringInterval, &t.NextRecurringDate)
		if err != nil {
			return err
		}
		due = append(due, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	processed := 0
	for _, template := range due {
		if err := s.processTemplate(ctx, template, now); err != nil {
			log.Printf("❌ Recurring transaction %s failed: %v", template.ID, err)
			continue
		}
		processed++
	}

	if processed > 0 {
		log.Printf("🔁 Processed %d recurring transactions", processed)
	}
	return nil
}

func (s *RecurringService) processTemplate(ctx context.Context, template models.Transaction, now time.Time) error {
	next := NextRecurringDate(*template.NextRecurringDate, template.RecurringInterval)

	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions
				(id, user_id, account_id, type, amount, category, description, date, is_recurring)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
		`, uuid.New().String(), template.UserID, template.AccountID, template.Type,
			template.Amount, template.Category, template.Description, now)
		if err != nil {
			return err
		}

		if err := applyBalanceDelta(ctx, tx, template.AccountID, SignedAmount(template.Type, template.Amount)); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE transactions SET next_recurring_date = $1, updated_at = NOW() WHERE id = $2
		`, next, template.ID)
		return err
	})
}
