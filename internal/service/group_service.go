package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
)

// GroupSvc is an implementation of the service.GroupService interface
type GroupSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
}

// NewGroupService creates a new GroupSvc
func NewGroupService(deps Dependencies) *GroupSvc {
	return &GroupSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
	}
}

// Create stores a new lending group
func (s *GroupSvc) Create(ctx context.Context, g *models.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}

	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	g.GroupLoanTotal = decimal.Zero
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := s.repos.Group.Create(ctx, g); err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Infof("Group created: %s code=%s branch=%s", g.ID, g.Code, g.BranchCode)
	return nil
}

// GetByID gets a group
func (s *GroupSvc) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	return s.repos.Group.GetByID(ctx, id)
}

// List lists groups, optionally scoped to one branch
func (s *GroupSvc) List(ctx context.Context, branchCode string) ([]*models.Group, error) {
	return s.repos.Group.List(ctx, branchCode)
}

// Update mutates a group's descriptive fields. The loan total cache is
// preserved from the stored row; RecalculateLoanTotal owns it.
func (s *GroupSvc) Update(ctx context.Context, g *models.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}

	existing, err := s.repos.Group.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}

	g.GroupLoanTotal = existing.GroupLoanTotal
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = time.Now()

	return s.repos.Group.Update(ctx, g)
}

// Delete removes a group
func (s *GroupSvc) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Group.Delete(ctx, id)
}

// RecalculateLoanTotal recomputes the cached member loan total from loan
// rows and stores it
func (s *GroupSvc) RecalculateLoanTotal(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.repos.Group.GetByID(ctx, id); err != nil {
		return decimal.Zero, err
	}

	total, err := s.repos.Loan.SumPrincipalByGroup(ctx, id, models.LoanCategoryIndividual)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum member loans: %w", err)
	}

	if err := s.repos.Group.UpdateLoanTotal(ctx, id, total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to store loan total: %w", err)
	}

	return total, nil
}
