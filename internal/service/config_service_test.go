package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

func TestResolve_BranchOverGlobalOverFallback(t *testing.T) {
	env := newTestEnv()
	svc := NewConfigService(env.deps)
	ctx := context.Background()

	// No config at all: hard-coded fallbacks.
	fees := svc.Resolve(ctx, "MON-01", models.LoanCategoryGroup, false, false, models.CurrencyLRD)
	assert.True(t, fees.ProcessingFeePercent.Equal(models.FallbackProcessingGroup))

	// Global config takes over.
	require.NoError(t, svc.Upsert(ctx, &models.LoanConfig{
		Group: models.CategoryFees{ProcessingFeePercent: decimal.NewFromInt(5)},
	}))
	fees = svc.Resolve(ctx, "MON-01", models.LoanCategoryGroup, false, false, models.CurrencyLRD)
	assert.True(t, fees.ProcessingFeePercent.Equal(decimal.NewFromInt(5)))

	// Branch config wins over global.
	require.NoError(t, svc.Upsert(ctx, &models.LoanConfig{
		BranchName: "Monrovia Central",
		BranchCode: "MON-01",
		Group:      models.CategoryFees{ProcessingFeePercent: decimal.NewFromInt(7)},
	}))
	fees = svc.Resolve(ctx, "MON-01", models.LoanCategoryGroup, false, false, models.CurrencyLRD)
	assert.True(t, fees.ProcessingFeePercent.Equal(decimal.NewFromInt(7)))

	// Other branches still resolve through the global document.
	fees = svc.Resolve(ctx, "KAK-02", models.LoanCategoryGroup, false, false, models.CurrencyLRD)
	assert.True(t, fees.ProcessingFeePercent.Equal(decimal.NewFromInt(5)))
}

func TestResolve_PartialConfigFallsThroughPerField(t *testing.T) {
	env := newTestEnv()
	svc := NewConfigService(env.deps)
	ctx := context.Background()

	require.NoError(t, svc.Upsert(ctx, &models.LoanConfig{
		Individual: models.CategoryFees{InspectionFee: decimal.NewFromInt(150)},
	}))

	fees := svc.Resolve(ctx, "", models.LoanCategoryIndividual, false, false, models.CurrencyLRD)
	assert.True(t, fees.InspectionFee.Equal(decimal.NewFromInt(150)))
	assert.True(t, fees.ProcessingFeePercent.Equal(models.FallbackProcessingIndividual))
	assert.True(t, fees.FormFee.Equal(models.FallbackFormFeeNewIndividual))
}

func TestUpsert_BranchNameRequiresCode(t *testing.T) {
	env := newTestEnv()
	svc := NewConfigService(env.deps)

	err := svc.Upsert(context.Background(), &models.LoanConfig{BranchName: "Monrovia Central"})
	assert.EqualError(t, err, "branch config requires a branch code")
}

func TestGetForBranch_FallsBackToGlobal(t *testing.T) {
	env := newTestEnv()
	svc := NewConfigService(env.deps)
	ctx := context.Background()

	global := &models.LoanConfig{}
	require.NoError(t, svc.Upsert(ctx, global))

	cfg, err := svc.GetForBranch(ctx, "MON-01")
	require.NoError(t, err)
	assert.True(t, cfg.IsGlobal())
}
