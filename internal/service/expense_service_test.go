package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

func newExpense(branchCode string) *models.Expense {
	return &models.Expense{
		Description: "office rent",
		Amount:      decimal.NewFromInt(1200),
		Currency:    models.CurrencyLRD,
		BranchName:  "Monrovia Central",
		BranchCode:  branchCode,
	}
}

func TestExpenseCreate_EmitsMetric(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.deps, NewMetricsService(env.deps))

	e := newExpense("MON-01")
	require.NoError(t, svc.Create(context.Background(), e, nil))

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.Date.IsZero())
	assert.True(t, env.metrics.sum(models.MetricExpenses).Equal(decimal.NewFromInt(1200)))
}

func TestExpenseCreate_RestrictedActorScopedToOwnBranch(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.deps, NewMetricsService(env.deps))
	actor := &models.Staff{
		Username:   "jdoe",
		Role:       models.RoleLoanOfficer,
		BranchName: "Kakata",
		BranchCode: "KAK-02",
	}

	e := newExpense("MON-01")
	require.NoError(t, svc.Create(context.Background(), e, actor))

	assert.Equal(t, "KAK-02", e.BranchCode)
	assert.Equal(t, "jdoe", e.RecordedBy)
}

func TestExpenseList_RestrictedActorSeesOwnBranchOnly(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.deps, NewMetricsService(env.deps))

	require.NoError(t, svc.Create(context.Background(), newExpense("MON-01"), nil))
	require.NoError(t, svc.Create(context.Background(), newExpense("KAK-02"), nil))

	all, err := svc.List(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	actor := &models.Staff{Role: models.RoleFieldAgent, BranchCode: "KAK-02"}
	scoped, err := svc.List(context.Background(), "MON-01", actor)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "KAK-02", scoped[0].BranchCode)
}

func TestExpenseDelete_EmitsCompensatingEvent(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.deps, NewMetricsService(env.deps))

	e := newExpense("MON-01")
	require.NoError(t, svc.Create(context.Background(), e, nil))
	require.NoError(t, svc.Delete(context.Background(), e.ID))

	// Both events stay in the ledger and cancel out.
	assert.Len(t, env.metrics.events, 2)
	assert.True(t, env.metrics.sum(models.MetricExpenses).IsZero())

	all, err := svc.List(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}
