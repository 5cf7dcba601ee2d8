package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Client is a borrower. PassbookNumber is unique across the institution.
// Returning drives the individual form-fee tier.
type Client struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	FullName       string     `json:"fullName" db:"full_name"`
	PassbookNumber string     `json:"passbookNumber" db:"passbook_number"`
	Phone          string     `json:"phone,omitempty" db:"phone"`
	BranchName     string     `json:"branchName" db:"branch_name"`
	BranchCode     string     `json:"branchCode" db:"branch_code"`
	GroupID        *uuid.UUID `json:"groupId,omitempty" db:"group_id"`
	Returning      bool       `json:"returning" db:"is_returning"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// Validate checks required client fields
func (c *Client) Validate() error {
	if c.FullName == "" {
		return errors.New("client name is required")
	}
	if c.PassbookNumber == "" {
		return errors.New("passbook number is required")
	}
	return nil
}
