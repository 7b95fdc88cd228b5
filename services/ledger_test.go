package services

import (
	"testing"
	"time"

	"finance-api/models"

	"github.com/stretchr/testify/assert"
)

func expense(account string, cents int64) models.Transaction {
	return models.Transaction{AccountID: account, Type: models.TransactionTypeExpense, Amount: cents}
}

func income(account string, cents int64) models.Transaction {
	return models.Transaction{AccountID: account, Type: models.TransactionTypeIncome, Amount: cents}
}

func TestSignedAmount(t *testing.T) {
	assert.Equal(t, int64(-1000), SignedAmount(models.TransactionTypeExpense, 1000))
	assert.Equal(t, int64(1000), SignedAmount(models.TransactionTypeIncome, 1000))
}

func TestReversalDeltasUndoContribution(t *testing.T) {
	// Deleting an expense gives the money back; deleting an income takes
	// it away.
	deltas := reversalDeltas([]models.Transaction{
		expense("acc-1", 1000),
		income("acc-1", 2500),
	})

	assert.Equal(t, map[string]int64{"acc-1": 1000 - 2500}, deltas)
}

func TestReversalDeltasSpanMultipleAccounts(t *testing.T) {
	deltas := reversalDeltas([]models.Transaction{
		expense("acc-1", 1000),
		expense("acc-1", 500),
		income("acc-2", 3000),
		expense("acc-3", 200),
	})

	assert.Equal(t, int64(1500), deltas["acc-1"])
	assert.Equal(t, int64(-3000), deltas["acc-2"])
	assert.Equal(t, int64(200), deltas["acc-3"])
	assert.Len(t, deltas, 3)
}

func TestReversalDeltasEmpty(t *testing.T) {
	assert.Empty(t, reversalDeltas(nil))
}

// Replaying any sequence of creations and deletions through the signed
// delta arithmetic must leave the balance equal to the signed sum of the
// transactions that remain.
func TestBalanceReplayMatchesRemainingTransactions(t *testing.T) {
	all := []models.Transaction{
		income("acc-1", 100000),
		expense("acc-1", 1000),
		expense("acc-1", 2000),
		income("acc-1", 500),
		expense("acc-1", 35050),
	}

	var balance int64
	for _, txn := range all {
		balance += SignedAmount(txn.Type, txn.Amount)
	}

	// Bulk delete two of them.
	deleted := []models.Transaction{all[1], all[4]}
	for _, delta := range reversalDeltas(deleted) {
		balance += delta
	}

	remaining := []models.Transaction{all[0], all[2], all[3]}
	var expected int64
	for _, txn := range remaining {
		expected += SignedAmount(txn.Type, txn.Amount)
	}

	assert.Equal(t, expected, balance)
	assert.Equal(t, int64(100000-2000+500), balance)
}

// Two overlapping delete requests must each reverse only the rows they
// actually removed. If the loser of the race reversed its full requested
// set, the shared row would be reversed twice and the balance would drift
// away from the signed sum of the remaining transactions.
func TestOverlappingDeletesReverseOnlyRemovedRows(t *testing.T) {
	t0 := income("acc-1", 100000)
	t1 := expense("acc-1", 1000)
	t2 := expense("acc-1", 2000)
	t3 := income("acc-1", 500)

	all := []models.Transaction{t0, t1, t2, t3}
	var balance int64
	for _, txn := range all {
		balance += SignedAmount(txn.Type, txn.Amount)
	}

	// First request removes t1 and t2.
	for _, delta := range reversalDeltas([]models.Transaction{t1, t2}) {
		balance += delta
	}

	// Second request asked for t2 and t3, but t2 is already gone: only t3
	// is removed, and only t3 may be reversed.
	for _, delta := range reversalDeltas([]models.Transaction{t3}) {
		balance += delta
	}

	assert.Equal(t, SignedAmount(t0.Type, t0.Amount), balance)

	// Reversing the full requested set instead would additionally reverse
	// the already-deleted t2 and overstate the balance.
	wrong := balance
	for _, delta := range reversalDeltas([]models.Transaction{t2}) {
		wrong += delta
	}
	assert.NotEqual(t, SignedAmount(t0.Type, t0.Amount), wrong)
}

func TestNextRecurringDate(t *testing.T) {
	from := time.Date(2026, time.January, 31, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, from.AddDate(0, 0, 1), NextRecurringDate(from, models.RecurringDaily))
	assert.Equal(t, from.AddDate(0, 0, 7), NextRecurringDate(from, models.RecurringWeekly))
	assert.Equal(t, from.AddDate(0, 1, 0), NextRecurringDate(from, models.RecurringMonthly))
	assert.Equal(t, time.Date(2027, time.January, 31, 10, 0, 0, 0, time.UTC), NextRecurringDate(from, models.RecurringYearly))
}
