package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StartDateRule names a computed collection-start-date adjustment applied
// when a distribution is recorded
type StartDateRule string

const (
	// StartDateOneWeekAfter sets the start date seven days after the anchor
	StartDateOneWeekAfter StartDateRule = "one_week_after"
	// StartDateNextWeek sets the start date to the next Monday strictly
	// after the anchor
	StartDateNextWeek StartDateRule = "next_week"
)

// Distribution is one disbursement tranche paid out against an active loan
type Distribution struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	LoanID     uuid.UUID       `json:"loanId" db:"loan_id"`
	MemberName string          `json:"memberName" db:"member_name"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Currency   Currency        `json:"currency" db:"currency"`
	Date       time.Time       `json:"date" db:"date"`
	Notes      string          `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

// Validate checks a distribution against its parent loan
func (d *Distribution) Validate(loan *Loan) error {
	if loan.Status != LoanStatusActive {
		return errors.New("distributions require an active loan")
	}

	if d.Currency != loan.Currency {
		return errors.New("distribution currency must match loan currency")
	}

	if d.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("distribution amount must be positive")
	}

	return nil
}

// WaitingValue is the waitingToBeCollected contribution of a distribution
// amount: group loans carry the interest share on top of the principal,
// every other category contributes the raw amount.
func WaitingValue(loan *Loan, amount decimal.Decimal) decimal.Decimal {
	if loan.IsGroupLoan() {
		return Round2(amount.Add(PercentOf(amount, loan.InterestRate)))
	}
	return Round2(amount)
}

// ApplyStartDateRule resolves a named rule against an anchor date
func ApplyStartDateRule(rule StartDateRule, anchor time.Time) (time.Time, error) {
	switch rule {
	case StartDateOneWeekAfter:
		return anchor.AddDate(0, 0, 7), nil
	case StartDateNextWeek:
		return NextMonday(anchor), nil
	default:
		return time.Time{}, errors.New("unknown start date rule")
	}
}
