package models

import (
	"time"

	"github.com/google/uuid"
)

// LoanAgreement is a denormalized document snapshot generated from a loan
// when it is first activated. Exactly one agreement may exist per loan; the
// unique key on the loan reference makes generation idempotent.
type LoanAgreement struct {
	ID          uuid.UUID `json:"id" db:"id"`
	LoanID      uuid.UUID `json:"loanId" db:"loan_id"`
	Content     string    `json:"content" db:"content"`
	GeneratedAt time.Time `json:"generatedAt" db:"generated_at"`
}
