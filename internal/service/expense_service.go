package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
)

// ExpenseSvc is an implementation of the service.ExpenseService interface
type ExpenseSvc struct {
	repos   *repository.Repository
	logger  *logrus.Logger
	metrics MetricsService
}

// NewExpenseService creates a new ExpenseSvc
func NewExpenseService(deps Dependencies, metrics MetricsService) *ExpenseSvc {
	return &ExpenseSvc{
		repos:   deps.Repos,
		logger:  deps.Logger,
		metrics: metrics,
	}
}

// Create stores an expense and emits its metric event. The event is manual,
// not loan-derived, so recalculation leaves it in place.
func (s *ExpenseSvc) Create(ctx context.Context, e *models.Expense, actor *models.Staff) error {
	if err := e.Validate(); err != nil {
		return err
	}

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	if actor != nil {
		e.RecordedBy = actor.Username
		if e.BranchCode == "" || actor.IsRestricted() {
			e.BranchCode = actor.BranchCode
			e.BranchName = actor.BranchName
		}
	}
	e.CreatedAt = time.Now()

	if err := s.repos.Expense.Create(ctx, e); err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	s.metrics.Emit(ctx, &models.MetricEvent{
		Name:        models.MetricExpenses,
		Value:       models.Round2(e.Amount),
		Date:        e.Date,
		BranchName:  e.BranchName,
		BranchCode:  e.BranchCode,
		LoanOfficer: e.RecordedBy,
		Currency:    e.Currency,
	})

	s.logger.Infof("Expense recorded: %s %s %s branch=%s", e.ID, e.Amount, e.Currency, e.BranchCode)
	return nil
}

// List lists expenses; restricted roles only see their own branch
func (s *ExpenseSvc) List(ctx context.Context, branchCode string, actor *models.Staff) ([]*models.Expense, error) {
	if actor.IsRestricted() {
		branchCode = actor.BranchCode
	}
	return s.repos.Expense.List(ctx, branchCode)
}

// Delete removes an expense. Its metric event stays in the ledger; a
// compensating entry keeps totals honest.
func (s *ExpenseSvc) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := s.repos.Expense.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repos.Expense.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.Emit(ctx, &models.MetricEvent{
		Name:        models.MetricExpenses,
		Value:       models.Round2(e.Amount).Neg(),
		Date:        time.Now(),
		BranchName:  e.BranchName,
		BranchCode:  e.BranchCode,
		LoanOfficer: e.RecordedBy,
		Currency:    e.Currency,
	})

	return nil
}
