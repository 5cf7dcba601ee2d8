package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StaffRole defines what a staff member may see and do
type StaffRole string

const (
	RoleAdmin         StaffRole = "admin"
	RoleBranchManager StaffRole = "branch manager"
	RoleLoanOfficer   StaffRole = "loan officer"
	RoleFieldAgent    StaffRole = "field agent"
)

// Staff is an internal user resolved from the identity headers. There are no
// sessions or tokens; requests carry an email or username header and the
// middleware looks the record up per request.
type Staff struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Email      string    `json:"email" db:"email"`
	Username   string    `json:"username" db:"username"`
	PassHash   string    `json:"-" db:"pass_hash"`
	Role       StaffRole `json:"role" db:"role"`
	BranchName string    `json:"branchName" db:"branch_name"`
	BranchCode string    `json:"branchCode" db:"branch_code"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// IsRestricted reports whether the role is scoped to its own records
func (s *Staff) IsRestricted() bool {
	if s == nil {
		return false
	}
	return s.Role == RoleLoanOfficer || s.Role == RoleFieldAgent
}

// CanApprove reports whether the staff member may activate loans. An absent
// identity carries no restriction.
func (s *Staff) CanApprove() bool {
	if s == nil {
		return true
	}
	return s.Role == RoleAdmin || s.Role == RoleBranchManager
}

// StaffRegistration is the payload for creating a staff record
type StaffRegistration struct {
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Password   string    `json:"password"`
	Role       StaffRole `json:"role"`
	BranchName string    `json:"branchName"`
	BranchCode string    `json:"branchCode"`
}

// Validate checks the registration payload
func (r *StaffRegistration) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	if r.Username == "" {
		return errors.New("username is required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	switch r.Role {
	case RoleAdmin, RoleBranchManager, RoleLoanOfficer, RoleFieldAgent:
	default:
		return errors.New("invalid role")
	}

	return nil
}
