package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
)

// buildLedgerState drives a realistic history through the live services:
// a loan created and activated, a partial collection, a distribution and a
// manually entered expense.
func buildLedgerState(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()

	loanSvc := newLoanTestSvc(env)
	client := seedClient(t, env, false)

	loan := newLoanRequest(client.ID)
	require.NoError(t, loanSvc.Create(ctx, loan, nil))
	_, err := loanSvc.ChangeStatus(ctx, loan.ID, models.LoanStatusActive, nil)
	require.NoError(t, err)

	_, err = loanSvc.AddCollections(ctx, loan.ID, []*models.Collection{{
		Currency:        models.CurrencyLRD,
		ScheduledAmount: decimal.NewFromInt(2750),
		AmountCollected: decimal.NewFromInt(2000),
	}}, nil)
	require.NoError(t, err)

	distSvc := NewDistributionService(env.deps, NewMetricsService(env.deps))
	_, err = distSvc.Create(ctx, loan.ID, &models.DistributionRequest{
		DistributionEntry: models.DistributionEntry{
			Amount:   decimal.NewFromInt(1500),
			Currency: models.CurrencyLRD,
		},
	}, nil)
	require.NoError(t, err)

	expSvc := NewExpenseService(env.deps, NewMetricsService(env.deps))
	require.NoError(t, expSvc.Create(ctx, &models.Expense{
		Description: "fuel for field visits",
		Amount:      decimal.NewFromInt(800),
		Currency:    models.CurrencyLRD,
		BranchCode:  "MON-01",
	}, nil))
}

func TestRecalculate_ReproducesLiveTotals(t *testing.T) {
	env := newTestEnv()
	buildLedgerState(t, env)
	svc := NewMetricsService(env.deps)

	before := make(map[models.MetricName]decimal.Decimal)
	for _, name := range models.LoanDerivedMetrics {
		before[name] = env.metrics.sum(name)
	}

	replayed, err := svc.Recalculate(context.Background())
	require.NoError(t, err)
	assert.Greater(t, replayed, 0)

	for _, name := range models.LoanDerivedMetrics {
		assert.True(t, env.metrics.sum(name).Equal(before[name]),
			"%s: live %s, replayed %s", name, before[name], env.metrics.sum(name))
	}
}

func TestRecalculate_IsIdempotent(t *testing.T) {
	env := newTestEnv()
	buildLedgerState(t, env)
	svc := NewMetricsService(env.deps)

	first, err := svc.Recalculate(context.Background())
	require.NoError(t, err)

	snapshot := make(map[models.MetricName]decimal.Decimal)
	for _, name := range models.LoanDerivedMetrics {
		snapshot[name] = env.metrics.sum(name)
	}

	second, err := svc.Recalculate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, name := range models.LoanDerivedMetrics {
		assert.True(t, env.metrics.sum(name).Equal(snapshot[name]), "%s drifted", name)
	}
}

func TestRecalculate_PreservesManualExpenses(t *testing.T) {
	env := newTestEnv()
	buildLedgerState(t, env)
	svc := NewMetricsService(env.deps)

	require.True(t, env.metrics.sum(models.MetricExpenses).Equal(decimal.NewFromInt(800)))

	_, err := svc.Recalculate(context.Background())
	require.NoError(t, err)

	assert.True(t, env.metrics.sum(models.MetricExpenses).Equal(decimal.NewFromInt(800)))
}

func TestRecalculate_RepairsDrift(t *testing.T) {
	env := newTestEnv()
	buildLedgerState(t, env)
	svc := NewMetricsService(env.deps)

	expected := env.metrics.sum(models.MetricWaitingToBeCollected)

	// Simulate drift from a lost emission.
	require.NoError(t, env.metrics.RecordMany(context.Background(), []*models.MetricEvent{{
		Name:  models.MetricWaitingToBeCollected,
		Value: decimal.NewFromInt(99999),
	}}))
	require.False(t, env.metrics.sum(models.MetricWaitingToBeCollected).Equal(expected))

	_, err := svc.Recalculate(context.Background())
	require.NoError(t, err)

	assert.True(t, env.metrics.sum(models.MetricWaitingToBeCollected).Equal(expected))
}

func TestSummary_AppliesFilter(t *testing.T) {
	env := newTestEnv()
	buildLedgerState(t, env)
	svc := NewMetricsService(env.deps)

	all, err := svc.Summary(context.Background(), repository.MetricFilter{})
	require.NoError(t, err)
	assert.True(t, all[models.MetricExpenses].Equal(decimal.NewFromInt(800)))

	scoped, err := svc.Summary(context.Background(), repository.MetricFilter{BranchCode: "KAK-99"})
	require.NoError(t, err)
	assert.True(t, scoped[models.MetricExpenses].IsZero())
}

func TestEmit_SwallowsEmptyBatch(t *testing.T) {
	env := newTestEnv()
	svc := NewMetricsService(env.deps)

	svc.Emit(context.Background())
	assert.Empty(t, env.metrics.events)
}
