package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Collection is one repayment observation against a loan's schedule.
// Entries are append-only and immutable once written.
type Collection struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	LoanID          uuid.UUID       `json:"loanId" db:"loan_id"`
	Position        int             `json:"position" db:"position"`
	MemberName      string          `json:"memberName" db:"member_name"`
	ScheduledAmount decimal.Decimal `json:"scheduledAmount" db:"scheduled_amount"`
	AmountCollected decimal.Decimal `json:"amountCollected" db:"amount_collected"`
	AdvancePayment  decimal.Decimal `json:"advancePayment" db:"advance_payment"`
	FieldBalance    decimal.Decimal `json:"fieldBalance" db:"field_balance"`
	Currency        Currency        `json:"currency" db:"currency"`
	CollectionDate  time.Time       `json:"collectionDate" db:"collection_date"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// Validate checks a collection entry against its parent loan
func (c *Collection) Validate(loan *Loan) error {
	if c.Currency != loan.Currency {
		return errors.New("collection currency must match loan currency")
	}

	if c.AmountCollected.IsNegative() {
		return errors.New("amount collected cannot be negative")
	}

	if c.ScheduledAmount.IsNegative() {
		return errors.New("scheduled amount cannot be negative")
	}

	return nil
}

// Overdue is the entry's overdue contribution: max(scheduled − collected, 0)
func (c *Collection) Overdue() decimal.Decimal {
	overdue := c.ScheduledAmount.Sub(c.AmountCollected)
	if overdue.IsNegative() {
		return decimal.Zero
	}
	return Round2(overdue)
}
