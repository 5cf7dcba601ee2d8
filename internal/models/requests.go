package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DistributionEntry is one tranche in a distribution request
type DistributionEntry struct {
	MemberName string          `json:"memberName"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   Currency        `json:"currency"`
	Date       *time.Time      `json:"date,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// DistributionRequest creates one or more distributions against a loan and
// may push schedule adjustments back onto it. Single-tranche requests fill
// the top-level entry fields; batch requests use Entries.
type DistributionRequest struct {
	DistributionEntry
	Entries []DistributionEntry `json:"entries,omitempty"`

	// Schedule push-back: an explicit start date wins over a named rule.
	CollectionStartDate *time.Time    `json:"collectionStartDate,omitempty"`
	StartDateRule       StartDateRule `json:"startDateRule,omitempty"`

	// Duration adjustment; setting it invalidates any cached ending date.
	DurationNumber *int          `json:"durationNumber,omitempty"`
	DurationUnit   *DurationUnit `json:"durationUnit,omitempty"`
}

// AllEntries normalizes the request into a list of tranches
func (r *DistributionRequest) AllEntries() []DistributionEntry {
	if len(r.Entries) > 0 {
		return r.Entries
	}
	return []DistributionEntry{r.DistributionEntry}
}

// DistributionUpdate carries the mutable fields of a distribution
type DistributionUpdate struct {
	MemberName *string          `json:"memberName,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

// CollectionRequest appends one or more entries to a loan's ledger. Single
// entries fill the top-level fields; batches use Entries.
type CollectionRequest struct {
	Collection
	Entries []*Collection `json:"entries,omitempty"`
}

// AllEntries normalizes the request into a list of ledger entries
func (r *CollectionRequest) AllEntries() []*Collection {
	if len(r.Entries) > 0 {
		return r.Entries
	}
	c := r.Collection
	return []*Collection{&c}
}

// StatusChangeRequest is the payload for a loan status transition
type StatusChangeRequest struct {
	Status LoanStatus `json:"status"`
}

// DueCollection is one row of the due-collections report: a scheduled
// repayment falling inside the queried window
type DueCollection struct {
	LoanID          uuid.UUID       `json:"loanId"`
	Category        LoanCategory    `json:"category"`
	ClientID        *uuid.UUID      `json:"clientId,omitempty"`
	GroupID         *uuid.UUID      `json:"groupId,omitempty"`
	BranchCode      string          `json:"branchCode"`
	Currency        Currency        `json:"currency"`
	DueDate         time.Time       `json:"dueDate"`
	Period          int             `json:"period"`
	ScheduledAmount decimal.Decimal `json:"scheduledAmount"`
}
