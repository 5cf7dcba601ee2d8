package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validIndividualLoan() *Loan {
	clientID := uuid.New()
	return &Loan{
		ID:             uuid.New(),
		Category:       LoanCategoryIndividual,
		ClientID:       &clientID,
		Currency:       CurrencyLRD,
		LoanAmount:     decimal.NewFromInt(10000),
		InterestRate:   decimal.NewFromInt(10),
		PaymentPlan:    PaymentPlanWeekly,
		DurationNumber: 4,
		DurationUnit:   DurationWeeks,
		Guarantors:     GuarantorList{{Name: "Moses Kollie"}},
		Status:         LoanStatusPending,
	}
}

func TestLoanValidate_Categories(t *testing.T) {
	groupID := uuid.New()
	clientID := uuid.New()

	tests := []struct {
		name    string
		mutate  func(l *Loan)
		wantErr string
	}{
		{
			name:   "valid individual",
			mutate: func(l *Loan) {},
		},
		{
			name: "individual without client",
			mutate: func(l *Loan) {
				l.ClientID = nil
			},
			wantErr: "individual loan requires a client",
		},
		{
			name: "standalone individual without guarantor",
			mutate: func(l *Loan) {
				l.Guarantors = nil
			},
			wantErr: "individual loan requires at least one guarantor",
		},
		{
			name: "member individual loan needs no guarantor",
			mutate: func(l *Loan) {
				l.GroupID = &groupID
				l.Guarantors = nil
			},
		},
		{
			name: "group loan without group reference",
			mutate: func(l *Loan) {
				l.Category = LoanCategoryGroup
				l.ClientID = nil
				l.ClientIDs = UUIDList{clientID}
			},
			wantErr: "group loan requires a group reference",
		},
		{
			name: "group loan without clients",
			mutate: func(l *Loan) {
				l.Category = LoanCategoryGroup
				l.ClientID = nil
				l.GroupID = &groupID
			},
			wantErr: "group loan requires at least one client",
		},
		{
			name: "group loan with single client reference",
			mutate: func(l *Loan) {
				l.Category = LoanCategoryGroup
				l.GroupID = &groupID
				l.ClientIDs = UUIDList{clientID}
			},
			wantErr: "group loan must not carry a single client reference",
		},
		{
			name: "valid group loan",
			mutate: func(l *Loan) {
				l.Category = LoanCategoryGroup
				l.ClientID = nil
				l.GroupID = &groupID
				l.ClientIDs = UUIDList{clientID}
			},
		},
		{
			name: "express loan with group reference",
			mutate: func(l *Loan) {
				l.Category = LoanCategoryExpress
				l.GroupID = &groupID
				l.DurationNumber = 1
				l.DurationUnit = DurationMonths
			},
			wantErr: "express loan must not carry group or client-list references",
		},
		{
			name: "valid express loan",
			mutate: func(l *Loan) {
				l.Category = LoanCategoryExpress
				l.DurationNumber = 1
				l.DurationUnit = DurationMonths
			},
		},
		{
			name: "unknown category",
			mutate: func(l *Loan) {
				l.Category = LoanCategory("bridge")
			},
			wantErr: "invalid loan category",
		},
		{
			name: "invalid currency",
			mutate: func(l *Loan) {
				l.Currency = Currency("EUR")
			},
			wantErr: "currency must be USD or LRD",
		},
		{
			name: "non-positive amount",
			mutate: func(l *Loan) {
				l.LoanAmount = decimal.Zero
			},
			wantErr: "loan amount must be positive",
		},
		{
			name: "zero duration",
			mutate: func(l *Loan) {
				l.DurationNumber = 0
			},
			wantErr: "duration must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := validIndividualLoan()
			tt.mutate(loan)

			err := loan.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestApplyDerivedFields_StandaloneIndividual(t *testing.T) {
	loan := validIndividualLoan()
	fees := ResolveFees(CategoryFees{}, loan.Category, false, false, loan.Currency)

	loan.ApplyDerivedFields(fees)

	assert.True(t, loan.ProcessingFeeAmount.Equal(decimal.NewFromInt(400)), "processing: %s", loan.ProcessingFeeAmount)
	assert.True(t, loan.CollateralCashAmount.Equal(decimal.NewFromInt(1000)), "collateral: %s", loan.CollateralCashAmount)
	assert.True(t, loan.FormFeeAmount.Equal(decimal.NewFromInt(500)), "form: %s", loan.FormFeeAmount)
	assert.True(t, loan.NetDisbursedAmount.Equal(decimal.NewFromInt(9100)), "net: %s", loan.NetDisbursedAmount)
	assert.True(t, loan.TotalAmountToBePaid.Equal(decimal.NewFromInt(11000)), "total: %s", loan.TotalAmountToBePaid)
	assert.True(t, loan.CashAmountCredited.Equal(decimal.NewFromInt(9100)), "credited: %s", loan.CashAmountCredited)
}

func TestApplyDerivedFields_SubmittedTotalWins(t *testing.T) {
	loan := validIndividualLoan()
	loan.TotalAmountToBePaid = decimal.NewFromInt(12000)

	loan.ApplyDerivedFields(ResolveFees(CategoryFees{}, loan.Category, false, false, loan.Currency))

	assert.True(t, loan.TotalAmountToBePaid.Equal(decimal.NewFromInt(12000)))
}

func TestApplyDerivedFields_ExpressPinnedToOneMonth(t *testing.T) {
	loan := validIndividualLoan()
	loan.Category = LoanCategoryExpress
	loan.DurationNumber = 9
	loan.DurationUnit = DurationWeeks

	loan.ApplyDerivedFields(ResolveFees(CategoryFees{}, loan.Category, false, false, loan.Currency))

	assert.Equal(t, 1, loan.DurationNumber)
	assert.Equal(t, DurationMonths, loan.DurationUnit)
}

func TestApplyDerivedFields_EndingDateFromDisbursement(t *testing.T) {
	loan := validIndividualLoan()
	disbursed := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	loan.DisbursementDate = &disbursed

	loan.ApplyDerivedFields(ResolveFees(CategoryFees{}, loan.Category, false, false, loan.Currency))

	if assert.NotNil(t, loan.EndingDate) {
		assert.Equal(t, disbursed.AddDate(0, 0, 28), *loan.EndingDate)
	}
}

func TestPeriods_DateSteppedWinsOverDurationTable(t *testing.T) {
	loan := validIndividualLoan()

	// Duration says 4 weekly periods.
	assert.Equal(t, 4, loan.Periods())

	// Dates say 6 periods; dates win.
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 35)
	loan.CollectionStartDate = &start
	loan.EndingDate = &end

	assert.Equal(t, 6, loan.Periods())
}

func TestPlannedInterest(t *testing.T) {
	loan := validIndividualLoan()
	loan.ApplyDerivedFields(ResolveFees(CategoryFees{}, loan.Category, false, false, loan.Currency))

	assert.True(t, loan.PlannedInterest().Equal(decimal.NewFromInt(1000)))
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from   LoanStatus
		to     LoanStatus
		want   bool
	}{
		{LoanStatusPending, LoanStatusActive, true},
		{LoanStatusPending, LoanStatusPaid, false},
		{LoanStatusPending, LoanStatusDefaulted, false},
		{LoanStatusActive, LoanStatusPaid, true},
		{LoanStatusActive, LoanStatusDefaulted, true},
		{LoanStatusActive, LoanStatusPending, false},
		{LoanStatusPaid, LoanStatusActive, false},
		{LoanStatusDefaulted, LoanStatusActive, false},
	}

	for _, tt := range tests {
		loan := &Loan{Status: tt.from}
		assert.Equal(t, tt.want, loan.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCollateralItemsTotalValue(t *testing.T) {
	items := CollateralItemList{
		{Description: "generator", Value: decimal.NewFromInt(1500)},
		{Description: "sewing machine", Value: decimal.RequireFromString("750.50")},
	}

	assert.True(t, items.TotalValue().Equal(decimal.RequireFromString("2250.50")))
}
