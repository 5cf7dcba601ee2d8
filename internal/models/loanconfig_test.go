package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResolveFees_Fallbacks(t *testing.T) {
	tests := []struct {
		name       string
		category   LoanCategory
		inGroup    bool
		returning  bool
		currency   Currency
		processing string
		collateral string
		formFee    string
	}{
		{
			name:       "group loan",
			category:   LoanCategoryGroup,
			currency:   CurrencyLRD,
			processing: "3",
			collateral: "8",
			formFee:    "200",
		},
		{
			name:       "standalone individual new client",
			category:   LoanCategoryIndividual,
			currency:   CurrencyLRD,
			processing: "4",
			collateral: "10",
			formFee:    "500",
		},
		{
			name:       "standalone individual returning client",
			category:   LoanCategoryIndividual,
			returning:  true,
			currency:   CurrencyLRD,
			processing: "4",
			collateral: "10",
			formFee:    "400",
		},
		{
			name:       "individual inside a group",
			category:   LoanCategoryIndividual,
			inGroup:    true,
			currency:   CurrencyLRD,
			processing: "3",
			collateral: "10",
			formFee:    "500",
		},
		{
			name:       "express uses individual fallbacks",
			category:   LoanCategoryExpress,
			currency:   CurrencyLRD,
			processing: "4",
			collateral: "10",
			formFee:    "500",
		},
		{
			name:       "usd loan carries no form fee",
			category:   LoanCategoryIndividual,
			currency:   CurrencyUSD,
			processing: "4",
			collateral: "10",
			formFee:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFees(CategoryFees{}, tt.category, tt.inGroup, tt.returning, tt.currency)

			assert.True(t, got.ProcessingFeePercent.Equal(decimal.RequireFromString(tt.processing)),
				"processing: got %s", got.ProcessingFeePercent)
			assert.True(t, got.CollateralCashPercent.Equal(decimal.RequireFromString(tt.collateral)),
				"collateral: got %s", got.CollateralCashPercent)
			assert.True(t, got.FormFee.Equal(decimal.RequireFromString(tt.formFee)),
				"form fee: got %s", got.FormFee)
		})
	}
}

func TestResolveFees_ConfiguredValuesWin(t *testing.T) {
	fees := CategoryFees{
		ProcessingFeePercent:  decimal.NewFromInt(5),
		CollateralCashPercent: decimal.NewFromInt(12),
		FormFeeNew:            decimal.NewFromInt(350),
		InspectionFee:         decimal.NewFromInt(100),
	}

	got := ResolveFees(fees, LoanCategoryIndividual, false, false, CurrencyLRD)

	assert.True(t, got.ProcessingFeePercent.Equal(decimal.NewFromInt(5)))
	assert.True(t, got.CollateralCashPercent.Equal(decimal.NewFromInt(12)))
	assert.True(t, got.FormFee.Equal(decimal.NewFromInt(350)))
	assert.True(t, got.InspectionFee.Equal(decimal.NewFromInt(100)))
}

func TestResolveFees_ZeroConfiguredFieldFallsThrough(t *testing.T) {
	// Only the processing percent is configured; everything else falls back.
	fees := CategoryFees{ProcessingFeePercent: decimal.NewFromInt(6)}

	got := ResolveFees(fees, LoanCategoryGroup, false, false, CurrencyLRD)

	assert.True(t, got.ProcessingFeePercent.Equal(decimal.NewFromInt(6)))
	assert.True(t, got.CollateralCashPercent.Equal(FallbackCollateralGroup))
	assert.True(t, got.FormFee.Equal(FallbackFormFeeGroup))
}

func TestCategoryFeesFor_NilConfig(t *testing.T) {
	var cfg *LoanConfig

	fees := cfg.CategoryFeesFor(LoanCategoryGroup)
	assert.True(t, fees.ProcessingFeePercent.IsZero())
}

func TestLoanConfig_IsGlobal(t *testing.T) {
	assert.True(t, (&LoanConfig{}).IsGlobal())
	assert.False(t, (&LoanConfig{BranchCode: "MON-01"}).IsGlobal())
}
