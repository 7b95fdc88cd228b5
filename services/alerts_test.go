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

func ts(t time.Time) *time.Time { return &t }

func TestShouldSendAlertThreshold(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	budget := int64(100000) // 1000.00

	// 79.9% used: below threshold.
	assert.False(t, shouldSendAlert(budget, 79900, nil, now))
	// Exactly 80%: fires.
	assert.True(t, shouldSendAlert(budget, 80000, nil, now))
	// Over budget: fires.
	assert.True(t, shouldSendAlert(budget, 150000, nil, now))
}

func TestShouldSendAlertMonthGating(t *testing.T) {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)
	budget := int64(100000)
	spent := int64(95000) // 95%

	// Already alerted 15 days ago, same calendar month: suppressed.
	assert.False(t, shouldSendAlert(budget, spent, ts(now.AddDate(0, 0, -15)), now))
	// Alerted 35 days ago, previous calendar month: fires again.
	assert.True(t, shouldSendAlert(budget, spent, ts(now.AddDate(0, 0, -35)), now))
	// Same month number but a year ago: fires.
	assert.True(t, shouldSendAlert(budget, spent, ts(now.AddDate(-1, 0, 0)), now))
}

func TestShouldSendAlertZeroBudget(t *testing.T) {
	now := time.Now()
	// Division-by-zero guard: a zero budget never alerts.
	assert.False(t, shouldSendAlert(0, 999999, nil, now))
	assert.False(t, shouldSendAlert(-100, 999999, nil, now))
}

type fakeAlertStore struct {
	checks []BudgetCheck
	marked []string
}

func (f *fakeAlertStore) DueBudgets(ctx context.Context, monthStart time.Time) ([]BudgetCheck, error) {
	return f.checks, nil
}

func (f *fakeAlertStore) MarkAlertSent(ctx context.Context, budgetID string, at time.Time) error {
	f.marked = append(f.marked, budgetID)
	return nil
}

type fakeDispatcher struct {
	failFor map[string]bool
	sent    []string
}

func (f *fakeDispatcher) SendBudgetAlert(to, userName string, data BudgetAlertData) error {
	if f.failFor[to] {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func overBudgetCheck(id, email string) BudgetCheck {
	return BudgetCheck{
		Budget:         models.Budget{ID: id, Amount: 100000},
		UserEmail:      email,
		UserName:       "Test User",
		DefaultAccount: &models.Account{ID: "acc-" + id, Name: "Main"},
		TotalExpenses:  95000,
	}
}

func TestRunMarksAlertOnlyAfterDispatchSuccess(t *testing.T) {
	store := &fakeAlertStore{checks: []BudgetCheck{
		overBudgetCheck("b1", "fail@example.com"),
		overBudgetCheck("b2", "ok@example.com"),
	}}
	dispatcher := &fakeDispatcher{failFor: map[string]bool{"fail@example.com": true}}

	svc := &BudgetAlertService{store: store, dispatcher: dispatcher, now: time.Now}
	require.NoError(t, svc.Run(context.Background()))

	// The failed dispatch must not be recorded, so it retries next cycle.
	// The failure must not stop the rest of the batch either.
	assert.Equal(t, []string{"ok@example.com"}, dispatcher.sent)
	assert.Equal(t, []string{"b2"}, store.marked)
}

func TestRunSkipsBudgetsWithoutDefaultAccount(t *testing.T) {
	check := overBudgetCheck("b1", "user@example.com")
	check.DefaultAccount = nil

	store := &fakeAlertStore{checks: []BudgetCheck{check}}
	dispatcher := &fakeDispatcher{}

	svc := &BudgetAlertService{store: store, dispatcher: dispatcher, now: time.Now}
	require.NoError(t, svc.Run(context.Background()))

	assert.Empty(t, dispatcher.sent)
	assert.Empty(t, store.marked)
}

func TestRunIsIdempotentWithinMonth(t *testing.T) {
	now := time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC)
	check := overBudgetCheck("b1", "user@example.com")
	check.Budget.LastAlertSent = ts(now.AddDate(0, 0, -2))

	store := &fakeAlertStore{checks: []BudgetCheck{check}}
	dispatcher := &fakeDispatcher{}

	svc := &BudgetAlertService{store: store, dispatcher: dispatcher, now: func() time.Time { return now }}
	require.NoError(t, svc.Run(context.Background()))

	assert.Empty(t, dispatcher.sent)
	assert.Empty(t, store.marked)
}

func TestRunAlertPayload(t *testing.T) {
	store := &fakeAlertStore{checks: []BudgetCheck{overBudgetCheck("b1", "user@example.com")}}

	var captured BudgetAlertData
	dispatcher := &captureDispatcher{onSend: func(data BudgetAlertData) { captured = data }}

	svc := &BudgetAlertService{store: store, dispatcher: dispatcher, now: time.Now}
	require.NoError(t, svc.Run(context.Background()))

	assert.InDelta(t, 95.0, captured.PercentageUsed, 0.001)
	assert.Equal(t, int64(100000), captured.BudgetAmount)
	assert.Equal(t, int64(95000), captured.TotalExpenses)
	assert.Equal(t, "Main", captured.AccountName)
}

type captureDispatcher struct {
	onSend func(BudgetAlertData)
}

func (c *captureDispatcher) SendBudgetAlert(to, userName string, data BudgetAlertData) error {
	c.onSend(data)
	return nil
}
