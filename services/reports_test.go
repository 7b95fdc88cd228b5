package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finance-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMonthlyStats(t *testing.T) {
	transactions := []models.Transaction{
		{Type: models.TransactionTypeExpense, Amount: 1000, Category: "food"},
		{Type: models.TransactionTypeExpense, Amount: 2000, Category: "food"},
		{Type: models.TransactionTypeExpense, Amount: 500, Category: "transport"},
		{Type: models.TransactionTypeIncome, Amount: 10000, Category: "salary"},
	}

	stats := computeMonthlyStats(transactions)

	assert.Equal(t, int64(3500), stats.TotalExpenses)
	assert.Equal(t, int64(10000), stats.TotalIncome)
	assert.Equal(t, int64(3000), stats.ByCategory["food"])
	assert.Equal(t, int64(500), stats.ByCategory["transport"])
	assert.Equal(t, 4, stats.TransactionCount)
}

func TestComputeMonthlyStatsEmpty(t *testing.T) {
	stats := computeMonthlyStats(nil)

	assert.Zero(t, stats.TotalExpenses)
	assert.Zero(t, stats.TotalIncome)
	assert.Empty(t, stats.ByCategory)
	assert.Zero(t, stats.TransactionCount)
}

type failingInsights struct{}

func (failingInsights) Generate(ctx context.Context, stats models.MonthlyStats, month time.Time) ([]string, error) {
	return nil, errors.New("service unavailable")
}

type staticInsights struct{ out []string }

func (s staticInsights) Generate(ctx context.Context, stats models.MonthlyStats, month time.Time) ([]string, error) {
	return s.out, nil
}

func TestGenerateInsightsFallsBackOnFailure(t *testing.T) {
	svc := &ReportService{insights: failingInsights{}}

	insights := svc.generateInsights(context.Background(), models.MonthlyStats{}, time.Now())

	// The collaborator being down must not abort report generation.
	assert.Equal(t, FallbackInsights(), insights)
	assert.Len(t, insights, 3)
}

func TestGenerateInsightsUsesCollaborator(t *testing.T) {
	expected := []string{"a", "b", "c"}
	svc := &ReportService{insights: staticInsights{out: expected}}

	assert.Equal(t, expected, svc.generateInsights(context.Background(), models.MonthlyStats{}, time.Now()))
}

type fakeReportStore struct {
	users  []ReportUser
	stats  map[string]models.MonthlyStats
	marked []string
}

func (f *fakeReportStore) DueUsers(ctx context.Context, monthStart time.Time) ([]ReportUser, error) {
	return f.users, nil
}

func (f *fakeReportStore) MonthlyStats(ctx context.Context, userID string, month time.Time) (models.MonthlyStats, error) {
	return f.stats[userID], nil
}

func (f *fakeReportStore) MarkReportSent(ctx context.Context, userID string, at time.Time) error {
	f.marked = append(f.marked, userID)
	return nil
}

type fakeReportDispatcher struct {
	failFor map[string]bool
	sent    []string
}

func (f *fakeReportDispatcher) SendMonthlyReport(to, userName string, month time.Time, stats models.MonthlyStats, insights []string) error {
	if f.failFor[to] {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func firstOfMonth() time.Time {
	return time.Date(2026, time.September, 1, 6, 0, 0, 0, time.UTC)
}

func TestReportRunOnlyOnFirstOfMonth(t *testing.T) {
	store := &fakeReportStore{users: []ReportUser{{ID: "u1", Email: "u1@example.com"}}}
	dispatcher := &fakeReportDispatcher{}

	midMonth := time.Date(2026, time.September, 15, 6, 0, 0, 0, time.UTC)
	svc := &ReportService{store: store, dispatcher: dispatcher, now: func() time.Time { return midMonth }}
	require.NoError(t, svc.Run(context.Background()))

	assert.Empty(t, dispatcher.sent)
	assert.Empty(t, store.marked)
}

// The per-user marker is persisted by the store and only written after a
// successful dispatch, so a restart on the first of the month does not
// re-send already delivered reports, and failed sends retry next cycle.
func TestReportRunMarksOnlyAfterDispatchSuccess(t *testing.T) {
	store := &fakeReportStore{users: []ReportUser{
		{ID: "u1", Email: "fail@example.com"},
		{ID: "u2", Email: "ok@example.com"},
	}}
	dispatcher := &fakeReportDispatcher{failFor: map[string]bool{"fail@example.com": true}}

	svc := &ReportService{store: store, dispatcher: dispatcher, now: firstOfMonth}
	require.NoError(t, svc.Run(context.Background()))

	assert.Equal(t, []string{"ok@example.com"}, dispatcher.sent)
	assert.Equal(t, []string{"u2"}, store.marked)
}

func TestReportRunSendsEachReportToItsOwnUser(t *testing.T) {
	store := &fakeReportStore{users: []ReportUser{
		{ID: "u1", Email: "u1@example.com"},
		{ID: "u2", Email: "u2@example.com"},
	}}
	dispatcher := &fakeReportDispatcher{}

	svc := &ReportService{store: store, dispatcher: dispatcher, now: firstOfMonth}
	require.NoError(t, svc.Run(context.Background()))

	assert.Equal(t, []string{"u1@example.com", "u2@example.com"}, dispatcher.sent)
	assert.Equal(t, []string{"u1", "u2"}, store.marked)
}

func TestStartOfMonth(t *testing.T) {
	in := time.Date(2026, time.August, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), startOfMonth(in))
}
