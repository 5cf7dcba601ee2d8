package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsTransactionType defines the direction of a savings transaction
type SavingsTransactionType string

const (
	SavingsDeposit    SavingsTransactionType = "deposit"
	SavingsWithdrawal SavingsTransactionType = "withdrawal"
)

// SavingsAccount is an individual savings account, at most one per client.
// Collateral cash withheld at loan activation is deposited here.
type SavingsAccount struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ClientID  uuid.UUID       `json:"clientId" db:"client_id"`
	Currency  Currency        `json:"currency" db:"currency"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// SavingsTransaction is one append-only entry on a savings account
type SavingsTransaction struct {
	ID        uuid.UUID              `json:"id" db:"id"`
	AccountID uuid.UUID              `json:"accountId" db:"account_id"`
	Type      SavingsTransactionType `json:"type" db:"type"`
	Amount    decimal.Decimal        `json:"amount" db:"amount"`
	Currency  Currency               `json:"currency" db:"currency"`
	Date      time.Time              `json:"date" db:"date"`
	Memo      string                 `json:"memo,omitempty" db:"memo"`
	CreatedAt time.Time              `json:"createdAt" db:"created_at"`
}

// SignedAmount is the balance contribution of the transaction
func (t *SavingsTransaction) SignedAmount() decimal.Decimal {
	if t.Type == SavingsWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}
