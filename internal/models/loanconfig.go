package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Hard-coded fee fallbacks applied when no configuration value is available.
// A zero configured value falls through to these, matching the historical
// behaviour of the branch configuration documents.
var (
	FallbackProcessingGroup            = decimal.NewFromInt(3)
	FallbackProcessingIndividual       = decimal.NewFromInt(4)
	FallbackProcessingIndividualInGrp  = decimal.NewFromInt(3)
	FallbackCollateralGroup            = decimal.NewFromInt(8)
	FallbackCollateralIndividual       = decimal.NewFromInt(10)
	FallbackFormFeeGroup               = decimal.NewFromInt(200)
	FallbackFormFeeNewIndividual       = decimal.NewFromInt(500)
	FallbackFormFeeReturningIndividual = decimal.NewFromInt(400)
)

// CategoryFees holds the fee parameters for one loan category
type CategoryFees struct {
	ProcessingFeePercent  decimal.Decimal `json:"processingFeePercent"`
	CollateralCashPercent decimal.Decimal `json:"collateralCashPercent"`
	FormFeeFlat           decimal.Decimal `json:"formFeeFlat"`
	FormFeeNew            decimal.Decimal `json:"formFeeNew"`
	FormFeeReturning      decimal.Decimal `json:"formFeeReturning"`
	InspectionFee         decimal.Decimal `json:"inspectionFee"`
}

// Value implements driver.Valuer
func (f CategoryFees) Value() (driver.Value, error) {
	return jsonValue(f)
}

// Scan implements sql.Scanner
func (f *CategoryFees) Scan(src interface{}) error {
	return jsonScan(src, f)
}

// LoanConfig holds per-branch default fee parameters for each loan category.
// A config with an empty branch code is the single global default; branch
// configs are keyed uniquely by branch code.
type LoanConfig struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	BranchName string       `json:"branchName" db:"branch_name"`
	BranchCode string       `json:"branchCode" db:"branch_code"`
	Express    CategoryFees `json:"express" db:"express"`
	Individual CategoryFees `json:"individual" db:"individual"`
	Group      CategoryFees `json:"group" db:"group_fees"`
	CreatedAt  time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time    `json:"updatedAt" db:"updated_at"`
}

// IsGlobal reports whether this is the global (branch-less) config
func (c *LoanConfig) IsGlobal() bool {
	return c.BranchCode == ""
}

// CategoryFeesFor picks the fee block for a loan category. A nil config
// yields the zero value, which resolves entirely through fallbacks.
func (c *LoanConfig) CategoryFeesFor(category LoanCategory) CategoryFees {
	if c == nil {
		return CategoryFees{}
	}

	switch category {
	case LoanCategoryExpress:
		return c.Express
	case LoanCategoryGroup:
		return c.Group
	default:
		return c.Individual
	}
}

// ResolvedFees is the effective fee set for one loan after fallbacks
type ResolvedFees struct {
	ProcessingFeePercent  decimal.Decimal
	CollateralCashPercent decimal.Decimal
	FormFee               decimal.Decimal
	InspectionFee         decimal.Decimal
}

// ResolveFees merges configured category fees with the hard-coded fallbacks
// for one loan. inGroup marks an individual loan linked to a group (member
// loan), returning marks a returning client. Form fees apply to the local
// currency only; foreign-currency loans always carry a zero form fee.
func ResolveFees(fees CategoryFees, category LoanCategory, inGroup, returning bool, currency Currency) ResolvedFees {
	resolved := ResolvedFees{
		ProcessingFeePercent:  fees.ProcessingFeePercent,
		CollateralCashPercent: fees.CollateralCashPercent,
		InspectionFee:         fees.InspectionFee,
	}

	if resolved.ProcessingFeePercent.IsZero() {
		switch {
		case category == LoanCategoryGroup:
			resolved.ProcessingFeePercent = FallbackProcessingGroup
		case category == LoanCategoryIndividual && inGroup:
			resolved.ProcessingFeePercent = FallbackProcessingIndividualInGrp
		default:
			resolved.ProcessingFeePercent = FallbackProcessingIndividual
		}
	}

	if resolved.CollateralCashPercent.IsZero() {
		if category == LoanCategoryGroup {
			resolved.CollateralCashPercent = FallbackCollateralGroup
		} else {
			resolved.CollateralCashPercent = FallbackCollateralIndividual
		}
	}

	if currency != CurrencyLRD {
		resolved.FormFee = decimal.Zero
		return resolved
	}

	switch {
	case category == LoanCategoryGroup:
		resolved.FormFee = fees.FormFeeFlat
		if resolved.FormFee.IsZero() {
			resolved.FormFee = FallbackFormFeeGroup
		}
	case returning:
		resolved.FormFee = fees.FormFeeReturning
		if resolved.FormFee.IsZero() {
			resolved.FormFee = FallbackFormFeeReturningIndividual
		}
	default:
		resolved.FormFee = fees.FormFeeNew
		if resolved.FormFee.IsZero() {
			resolved.FormFee = FallbackFormFeeNewIndividual
		}
	}

	return resolved
}
