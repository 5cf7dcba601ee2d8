package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
	"github.com/jalh2/godgraceenterprise/pkg/crypto"
)

// StaffSvc is an implementation of the service.StaffService interface
type StaffSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	hasher *crypto.PasswordHasher
}

// NewStaffService creates a new StaffSvc
func NewStaffService(deps Dependencies) *StaffSvc {
	return &StaffSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		hasher: crypto.NewPasswordHasher(),
	}
}

// Register creates a staff record with a hashed password
func (s *StaffSvc) Register(ctx context.Context, reg *models.StaffRegistration) (*models.Staff, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	staff := &models.Staff{
		ID:         uuid.New(),
		Email:      reg.Email,
		Username:   reg.Username,
		PassHash:   hash,
		Role:       reg.Role,
		BranchName: reg.BranchName,
		BranchCode: reg.BranchCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repos.Staff.Create(ctx, staff); err != nil {
		return nil, fmt.Errorf("failed to create staff record: %w", err)
	}

	s.logger.Infof("Staff registered: %s role=%s branch=%s", staff.Username, staff.Role, staff.BranchCode)
	return staff, nil
}

// Identify resolves a staff record from an email or username header value
func (s *StaffSvc) Identify(ctx context.Context, email, username string) (*models.Staff, error) {
	if email != "" {
		return s.repos.Staff.GetByEmail(ctx, email)
	}
	if username != "" {
		return s.repos.Staff.GetByUsername(ctx, username)
	}
	return nil, errors.New("no identity provided")
}
