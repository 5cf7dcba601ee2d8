package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Group is a lending group of clients. GroupLoanTotal is a denormalized
// cache of the principal outstanding across member individual loans; it is
// recomputed from loan records after any such loan changes and is never a
// source of truth on its own.
type Group struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Code           string          `json:"code" db:"code"`
	BranchName     string          `json:"branchName" db:"branch_name"`
	BranchCode     string          `json:"branchCode" db:"branch_code"`
	GroupLoanTotal decimal.Decimal `json:"groupLoanTotal" db:"group_loan_total"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// Validate checks required group fields
func (g *Group) Validate() error {
	if g.Name == "" {
		return errors.New("group name is required")
	}
	if g.Code == "" {
		return errors.New("group code is required")
	}
	return nil
}
