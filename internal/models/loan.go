package models

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanCategory defines the kind of loan
type LoanCategory string

const (
	LoanCategoryExpress    LoanCategory = "express"
	LoanCategoryGroup      LoanCategory = "group"
	LoanCategoryIndividual LoanCategory = "individual"
)

// LoanStatus defines the lifecycle status of a loan
type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusActive    LoanStatus = "active"
	LoanStatusPaid      LoanStatus = "paid"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// Guarantor is a guarantor signatory on a loan document
type Guarantor struct {
	Name     string `json:"name"`
	Contact  string `json:"contact,omitempty"`
	Address  string `json:"address,omitempty"`
	Relation string `json:"relation,omitempty"`
}

// GuarantorList is persisted as a JSONB array
type GuarantorList []Guarantor

// Value implements driver.Valuer
func (l GuarantorList) Value() (driver.Value, error) {
	if l == nil {
		return jsonValue([]Guarantor{})
	}
	return jsonValue([]Guarantor(l))
}

// Scan implements sql.Scanner
func (l *GuarantorList) Scan(src interface{}) error {
	return jsonScan(src, l)
}

// CollateralItem is one pledged physical item on a loan
type CollateralItem struct {
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
}

// CollateralItemList is persisted as a JSONB array
type CollateralItemList []CollateralItem

// Value implements driver.Valuer
func (l CollateralItemList) Value() (driver.Value, error) {
	if l == nil {
		return jsonValue([]CollateralItem{})
	}
	return jsonValue([]CollateralItem(l))
}

// Scan implements sql.Scanner
func (l *CollateralItemList) Scan(src interface{}) error {
	return jsonScan(src, l)
}

// TotalValue sums the declared value of all collateral items
func (l CollateralItemList) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l {
		total = total.Add(item.Value)
	}
	return Round2(total)
}

// Loan is the central aggregate: terms, derived fees, lifecycle status and
// the embedded collection ledger. Fee fields are derived, never trusted as
// input; they are recomputed on every validation pass.
type Loan struct {
	ID       uuid.UUID    `json:"id" db:"id"`
	Category LoanCategory `json:"category" db:"category"`

	GroupID   *uuid.UUID `json:"groupId,omitempty" db:"group_id"`
	ClientID  *uuid.UUID `json:"clientId,omitempty" db:"client_id"`
	ClientIDs UUIDList   `json:"clientIds,omitempty" db:"client_ids"`

	BranchName  string `json:"branchName" db:"branch_name"`
	BranchCode  string `json:"branchCode" db:"branch_code"`
	LoanOfficer string `json:"loanOfficer" db:"loan_officer"`

	Currency        Currency        `json:"currency" db:"currency"`
	LoanAmount      decimal.Decimal `json:"loanAmount" db:"loan_amount"`
	InterestRate    decimal.Decimal `json:"interestRate" db:"interest_rate"`
	PaymentPlan     PaymentPlan     `json:"paymentPlan" db:"payment_plan"`
	DurationNumber  int             `json:"durationNumber" db:"duration_number"`
	DurationUnit    DurationUnit    `json:"durationUnit" db:"duration_unit"`
	ReturningClient bool            `json:"returningClient" db:"returning_client"`

	ProcessingFeePercent  decimal.Decimal `json:"processingFeePercent" db:"processing_fee_percent"`
	CollateralCashPercent decimal.Decimal `json:"collateralCashPercent" db:"collateral_cash_percent"`
	ProcessingFeeAmount   decimal.Decimal `json:"processingFeeAmount" db:"processing_fee_amount"`
	CollateralCashAmount  decimal.Decimal `json:"collateralCashAmount" db:"collateral_cash_amount"`
	FormFeeAmount         decimal.Decimal `json:"formFeeAmount" db:"form_fee_amount"`
	InspectionFeeAmount   decimal.Decimal `json:"inspectionFeeAmount" db:"inspection_fee_amount"`
	NetDisbursedAmount    decimal.Decimal `json:"netDisbursedAmount" db:"net_disbursed_amount"`
	TotalAmountToBePaid   decimal.Decimal `json:"totalAmountToBePaid" db:"total_amount_to_be_paid"`
	CashAmountCredited    decimal.Decimal `json:"cashAmountCredited" db:"cash_amount_credited"`
	WeeklyInstallment     decimal.Decimal `json:"weeklyInstallment" db:"weekly_installment"`

	Status              LoanStatus `json:"status" db:"status"`
	DisbursementDate    *time.Time `json:"disbursementDate,omitempty" db:"disbursement_date"`
	CollectionStartDate *time.Time `json:"collectionStartDate,omitempty" db:"collection_start_date"`
	EndingDate          *time.Time `json:"endingDate,omitempty" db:"ending_date"`

	Guarantors      GuarantorList      `json:"guarantors" db:"guarantors"`
	Signatories     Document           `json:"signatories" db:"signatories"`
	CreditorProfile Document           `json:"creditorProfile" db:"creditor_profile"`
	CollateralItems CollateralItemList `json:"collateralItems" db:"collateral_items"`

	Collections    []*Collection   `json:"collections"`
	RealizedAmount decimal.Decimal `json:"realizedAmount" db:"realized_amount"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Validate checks the loan's invariants with an exhaustive match over the
// category tag. Reference combinations differ per category:
//   - group: group reference and at least one client, no single-client ref
//   - individual: a client, and at least one guarantor unless the loan is a
//     group member loan
//   - express: exactly one month, no group or client-list references
func (l *Loan) Validate() error {
	if !ValidCurrency(l.Currency) {
		return errors.New("currency must be USD or LRD")
	}

	if l.LoanAmount.LessThanOrEqual(decimal.Zero) {
		return errors.New("loan amount must be positive")
	}

	if l.InterestRate.IsNegative() {
		return errors.New("interest rate cannot be negative")
	}

	switch l.PaymentPlan {
	case PaymentPlanWeekly, PaymentPlanBiWeekly, PaymentPlanMonthly:
	default:
		return errors.New("invalid payment plan")
	}

	switch l.Category {
	case LoanCategoryGroup:
		if l.GroupID == nil {
			return errors.New("group loan requires a group reference")
		}
		if len(l.ClientIDs) == 0 {
			return errors.New("group loan requires at least one client")
		}
		if l.ClientID != nil {
			return errors.New("group loan must not carry a single client reference")
		}
	case LoanCategoryIndividual:
		if l.ClientID == nil {
			return errors.New("individual loan requires a client")
		}
		if l.GroupID == nil && len(l.Guarantors) < 1 {
			return errors.New("individual loan requires at least one guarantor")
		}
	case LoanCategoryExpress:
		if l.GroupID != nil || len(l.ClientIDs) > 0 {
			return errors.New("express loan must not carry group or client-list references")
		}
		if l.ClientID == nil {
			return errors.New("express loan requires a client")
		}
	default:
		return errors.New("invalid loan category")
	}

	if l.Category != LoanCategoryExpress && l.DurationNumber <= 0 {
		return errors.New("duration must be positive")
	}

	switch l.DurationUnit {
	case DurationDays, DurationWeeks, DurationMonths, DurationYears:
	case "":
		if l.Category != LoanCategoryExpress {
			return errors.New("invalid duration unit")
		}
	default:
		return errors.New("invalid duration unit")
	}

	return nil
}

// ApplyDerivedFields recomputes every derived monetary field from the loan
// terms and the resolved fee configuration. Express loans are pinned to a
// one-month duration before anything else is derived.
func (l *Loan) ApplyDerivedFields(fees ResolvedFees) {
	if l.Category == LoanCategoryExpress {
		l.DurationNumber = 1
		l.DurationUnit = DurationMonths
	}

	l.ProcessingFeePercent = fees.ProcessingFeePercent
	l.CollateralCashPercent = fees.CollateralCashPercent
	l.ProcessingFeeAmount = PercentOf(l.LoanAmount, fees.ProcessingFeePercent)
	l.CollateralCashAmount = PercentOf(l.LoanAmount, fees.CollateralCashPercent)
	l.FormFeeAmount = Round2(fees.FormFee)
	l.InspectionFeeAmount = Round2(fees.InspectionFee)

	l.NetDisbursedAmount = Round2(l.LoanAmount.
		Sub(l.ProcessingFeeAmount).
		Sub(l.FormFeeAmount).
		Sub(l.InspectionFeeAmount))

	if l.TotalAmountToBePaid.IsZero() {
		l.TotalAmountToBePaid = Round2(l.LoanAmount.Add(PercentOf(l.LoanAmount, l.InterestRate)))
	} else {
		l.TotalAmountToBePaid = Round2(l.TotalAmountToBePaid)
	}

	if l.CashAmountCredited.IsZero() {
		l.CashAmountCredited = l.NetDisbursedAmount
	} else {
		l.CashAmountCredited = Round2(l.CashAmountCredited)
	}

	if l.EndingDate == nil && l.DisbursementDate != nil {
		end := AddDuration(*l.DisbursementDate, l.DurationNumber, l.DurationUnit)
		l.EndingDate = &end
	}
}

// Periods returns the authoritative repayment period count. When both a
// collection start date and an ending date are known the date-stepped
// sequence wins; otherwise the duration table is used.
func (l *Loan) Periods() int {
	if l.CollectionStartDate != nil && l.EndingDate != nil {
		if n := len(DueDates(l.PaymentPlan, *l.CollectionStartDate, *l.EndingDate)); n > 0 {
			return n
		}
	}
	return PeriodCount(l.PaymentPlan, l.DurationNumber, l.DurationUnit)
}

// PlannedInterest is the interest expected over the life of the loan
func (l *Loan) PlannedInterest() decimal.Decimal {
	return Round2(l.TotalAmountToBePaid.Sub(l.LoanAmount))
}

// IsGroupLoan reports whether the loan is a group-category loan
func (l *Loan) IsGroupLoan() bool {
	return l.Category == LoanCategoryGroup
}

// ValidStatus reports whether s is a known loan status
func ValidStatus(s LoanStatus) bool {
	switch s {
	case LoanStatusPending, LoanStatusActive, LoanStatusPaid, LoanStatusDefaulted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the loan may move to the target status.
// pending→active→paid|defaulted, never back to pending.
func (l *Loan) CanTransitionTo(target LoanStatus) bool {
	switch l.Status {
	case LoanStatusPending:
		return target == LoanStatusActive
	case LoanStatusActive:
		return target == LoanStatusPaid || target == LoanStatusDefaulted
	default:
		return false
	}
}
