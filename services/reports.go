package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"finance-api/models"
)

// computeMonthlyStats aggregates one month of transactions. Pure and
// stateless: expenses and income are totalled separately and expenses are
// additionally broken down by category.
func computeMonthlyStats(transactions []models.Transaction) models.MonthlyStats {
	stats := models.MonthlyStats{
		ByCategory:       make(map[string]int64),
		TransactionCount: len(transactions),
	}
	for _, t := range transactions {
		if t.Type == models.TransactionTypeExpense {
			stats.TotalExpenses += t.Amount
			stats.ByCategory[t.Category] += t.Amount
		} else {
			stats.TotalIncome += t.Amount
		}
	}
	return stats
}

// InsightGenerator produces a few short spending observations for a
// monthly report. Implementations may call out to an external service;
// failures are recovered with fallback insights, never propagated.
type InsightGenerator interface {
	Generate(ctx context.Context, stats models.MonthlyStats, month time.Time) ([]string, error)
}

// ReportDispatcher delivers a monthly report email.
type ReportDispatcher interface {
	SendMonthlyReport(to, userName string, month time.Time, stats models.MonthlyStats, insights []string) error
}

// ReportUser identifies a recipient of a monthly report.
type ReportUser struct {
	ID    string
	Email string
	Name  string
}

// ReportStore is the storage surface the report sender needs. The
// last-report marker is persisted per user, so "at most once per month"
// survives process restarts.
type ReportStore interface {
	DueUsers(ctx context.Context, monthStart time.Time) ([]ReportUser, error)
	MonthlyStats(ctx context.Context, userID string, month time.Time) (models.MonthlyStats, error)
	MarkReportSent(ctx context.Context, userID string, at time.Time) error
}

type ReportService struct {
	store      ReportStore
	insights   InsightGenerator
	dispatcher ReportDispatcher
	now        func() time.Time
}

func NewReportService(db *sql.DB, insights InsightGenerator, dispatcher ReportDispatcher) *ReportService {
	return &ReportService{
		store:      &sqlReportStore{db: db},
		insights:   insights,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// GetMonthlyStats aggregates all of a user's transactions dated within the
// given calendar month.
func (s *ReportService) GetMonthlyStats(ctx context.Context, userID string, month time.Time) (models.MonthlyStats, error) {
	return s.store.MonthlyStats(ctx, userID, month)
}

// Run sends last month's report to every user who has not received one
// this month. It only does work on the first day of a month. A failing
// insight generator is replaced by fallback insights; the report is sent
// regardless. Each report goes to its own user, and the per-user marker
// is only written after the dispatch succeeded, so a failed send is
// retried on the next cycle.
func (s *ReportService) Run(ctx context.Context) error {
	now := s.now()
	if now.Day() != 1 {
		return nil
	}
	month := startOfMonth(now)

	users, err := s.store.DueUsers(ctx, month)
	if err != nil {
		return err
	}

	lastMonth := month.AddDate(0, -1, 0)
	for _, u := range users {
		stats, err := s.store.MonthlyStats(ctx, u.ID, lastMonth)
		if err != nil {
			log.Printf("❌ Monthly stats failed for user %s: %v", u.ID, err)
			continue
		}

		insights := s.generateInsights(ctx, stats, lastMonth)

		if err := s.dispatcher.SendMonthlyReport(u.Email, u.Name, lastMonth, stats, insights); err != nil {
			log.Printf("⚠️ Monthly report dispatch failed for user %s: %v", u.ID, err)
			continue
		}

		if err := s.store.MarkReportSent(ctx, u.ID, now); err != nil {
			log.Printf("❌ Failed to record report for user %s: %v", u.ID, err)
		}
	}

	return nil
}

func (s *ReportService) generateInsights(ctx context.Context, stats models.MonthlyStats, month time.Time) []string {
	if s.insights != nil {
		insights, err := s.insights.Generate(ctx, stats, month)
		if err == nil && len(insights) > 0 {
			return insights
		}
		if err != nil {
			log.Printf("⚠️ Insight generation unavailable, using fallback: %v", err)
		}
	}
	return FallbackInsights()
}

// FallbackInsights are generic, non-personalized observations used when
// the insight collaborator is unavailable.
func FallbackInsights() []string {
	return []string{
		"Your highest expense category this month might need attention.",
		"Consider setting up a budget for better financial management.",
		"Track your recurring expenses to identify potential savings.",
	}
}

type sqlReportStore struct {
	db *sql.DB
}

func (s *sqlReportStore) DueUsers(ctx context.Context, monthStart time.Time) ([]ReportUser, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, name FROM users
		WHERE last_report_sent IS NULL OR last_report_sent < $1
	`, monthStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []ReportUser
	for rows.Next() {
		var u ReportUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *sqlReportStore) MonthlyStats(ctx context.Context, userID string, month time.Time) (models.MonthlyStats, error) {
	start := startOfMonth(month)
	end := start.AddDate(0, 1, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, account_id, type, amount, category, description, date,
		       is_recurring, COALESCE(recurring_interval, ''), next_recurring_date,
		       created_at, updated_at
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`, userID, start, end)
	if err != nil {
		return models.MonthlyStats{}, err
	}
	defer rows.Close()

	transactions, err := scanTransactions(rows)
	if err != nil {
		return models.MonthlyStats{}, err
	}
	return computeMonthlyStats(transactions), nil
}

func (s *sqlReportStore) MarkReportSent(ctx context.Context, userID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET last_report_sent = $1, updated_at = NOW() WHERE id = $2
	`, at, userID)
	return err
}
