package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a manually entered spend record. Its metric events are the
// manual kind that survive a full recalculation sweep.
type Expense struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Currency    Currency        `json:"currency" db:"currency"`
	Date        time.Time       `json:"date" db:"date"`
	BranchName  string          `json:"branchName" db:"branch_name"`
	BranchCode  string          `json:"branchCode" db:"branch_code"`
	RecordedBy  string          `json:"recordedBy" db:"recorded_by"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// Validate checks required expense fields
func (e *Expense) Validate() error {
	if e.Description == "" {
		return errors.New("expense description is required")
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("expense amount must be positive")
	}
	if !ValidCurrency(e.Currency) {
		return errors.New("currency must be USD or LRD")
	}
	return nil
}
