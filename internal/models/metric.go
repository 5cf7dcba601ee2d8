package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MetricName identifies a financial metric in the event ledger
type MetricName string

const (
	MetricLoanAmountDistributed     MetricName = "loanAmountDistributed"
	MetricWaitingToBeCollected      MetricName = "waitingToBeCollected"
	MetricOverdue                   MetricName = "overdue"
	MetricInterestCollected         MetricName = "interestCollected"
	MetricTotalCollectionsCollected MetricName = "totalCollectionsCollected"
	MetricTotalCollateral           MetricName = "totalCollateral"
	MetricCollateralCashRequired    MetricName = "collateralCashRequired"
	MetricTotalFormFees             MetricName = "totalFormFees"
	MetricTotalInspectionFees       MetricName = "totalInspectionFees"
	MetricTotalProcessingFees       MetricName = "totalProcessingFees"
	MetricCollateralCashDeposited   MetricName = "collateralCashDeposited"
	MetricExpenses                  MetricName = "expenses"
)

// LoanDerivedMetrics is the set of metric names reconstructible from Loan
// and Distribution state. Recalculation deletes and replays exactly these;
// manually entered metrics such as expenses are preserved.
var LoanDerivedMetrics = []MetricName{
	MetricLoanAmountDistributed,
	MetricWaitingToBeCollected,
	MetricOverdue,
	MetricInterestCollected,
	MetricTotalCollectionsCollected,
	MetricTotalCollateral,
	MetricCollateralCashRequired,
	MetricTotalFormFees,
	MetricTotalInspectionFees,
	MetricTotalProcessingFees,
	MetricCollateralCashDeposited,
}

// MetricEvent is one immutable signed-value entry in the financial event
// ledger. Deposits are positive, reversals negative; the sum over all events
// for a metric and dimension set is the current balance. Events are never
// mutated after insert. Deleting a loan removes its events as the single
// exception to append-only.
type MetricEvent struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        MetricName      `json:"name" db:"name"`
	Value       decimal.Decimal `json:"value" db:"value"`
	Date        time.Time       `json:"date" db:"date"`
	BranchName  string          `json:"branchName" db:"branch_name"`
	BranchCode  string          `json:"branchCode" db:"branch_code"`
	LoanOfficer string          `json:"loanOfficer" db:"loan_officer"`
	Currency    Currency        `json:"currency" db:"currency"`
	LoanID      *uuid.UUID      `json:"loanId,omitempty" db:"loan_id"`
	GroupID     *uuid.UUID      `json:"groupId,omitempty" db:"group_id"`
	ClientID    *uuid.UUID      `json:"clientId,omitempty" db:"client_id"`
	Meta        Document        `json:"meta,omitempty" db:"meta"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// LoanEvent builds a metric event carrying a loan's dimensional tags
func LoanEvent(loan *Loan, name MetricName, value decimal.Decimal, date time.Time) *MetricEvent {
	return &MetricEvent{
		Name:        name,
		Value:       value,
		Date:        date,
		BranchName:  loan.BranchName,
		BranchCode:  loan.BranchCode,
		LoanOfficer: loan.LoanOfficer,
		Currency:    loan.Currency,
		LoanID:      &loan.ID,
		GroupID:     loan.GroupID,
		ClientID:    loan.ClientID,
	}
}
