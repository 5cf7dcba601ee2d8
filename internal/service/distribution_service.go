package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
)

// DistributionSvc is an implementation of the service.DistributionService interface
type DistributionSvc struct {
	repos   *repository.Repository
	logger  *logrus.Logger
	metrics MetricsService
}

// NewDistributionService creates a new DistributionSvc
func NewDistributionService(deps Dependencies, metrics MetricsService) *DistributionSvc {
	return &DistributionSvc{
		repos:   deps.Repos,
		logger:  deps.Logger,
		metrics: metrics,
	}
}

// Create records one or more disbursement tranches against an active loan.
// Schedule adjustments carried on the request are pushed back onto the loan
// before any tranche is stored.
func (s *DistributionSvc) Create(ctx context.Context, loanID uuid.UUID, req *models.DistributionRequest, actor *models.Staff) ([]*models.Distribution, error) {
	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(loan, actor); err != nil {
		return nil, err
	}

	if err := s.pushBackSchedule(ctx, loan, req); err != nil {
		return nil, err
	}

	memberName := ""
	if loan.ClientID != nil {
		client, err := s.repos.Client.GetByID(ctx, *loan.ClientID)
		if err != nil {
			return nil, fmt.Errorf("distribution client: %w", err)
		}
		memberName = client.FullName
	}

	now := time.Now()
	var created []*models.Distribution
	for _, entry := range req.AllEntries() {
		d := &models.Distribution{
			ID:         uuid.New(),
			LoanID:     loan.ID,
			MemberName: entry.MemberName,
			Amount:     entry.Amount,
			Currency:   entry.Currency,
			Notes:      entry.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if d.Currency == "" {
			d.Currency = loan.Currency
		}
		if entry.Date != nil {
			d.Date = *entry.Date
		} else {
			d.Date = now
		}
		// Loans tied to a single client always attribute tranches to that
		// client regardless of the submitted name.
		if memberName != "" {
			d.MemberName = memberName
		}

		if err := d.Validate(loan); err != nil {
			return nil, err
		}

		if err := s.repos.Distribution.Create(ctx, d); err != nil {
			return nil, fmt.Errorf("failed to create distribution: %w", err)
		}

		s.metrics.Emit(ctx, DistributionEvents(loan, d.Amount, d.Date)...)
		created = append(created, d)
	}

	s.logger.Infof("Recorded %d distribution(s) against loan %s", len(created), loan.ID)
	return created, nil
}

// GetByID gets a distribution
func (s *DistributionSvc) GetByID(ctx context.Context, id uuid.UUID) (*models.Distribution, error) {
	return s.repos.Distribution.GetByID(ctx, id)
}

// GetByLoan lists every distribution recorded against a loan
func (s *DistributionSvc) GetByLoan(ctx context.Context, loanID uuid.UUID) ([]*models.Distribution, error) {
	return s.repos.Distribution.GetByLoanID(ctx, loanID)
}

// Update mutates a distribution and emits a compensating metric event pair
// for the amount delta so running totals stay consistent
func (s *DistributionSvc) Update(ctx context.Context, id uuid.UUID, upd *models.DistributionUpdate, actor *models.Staff) (*models.Distribution, error) {
	d, err := s.repos.Distribution.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	loan, err := s.repos.Loan.GetByID(ctx, d.LoanID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(loan, actor); err != nil {
		return nil, err
	}

	oldAmount := d.Amount
	if upd.MemberName != nil {
		d.MemberName = *upd.MemberName
	}
	if upd.Amount != nil {
		d.Amount = *upd.Amount
	}
	if upd.Date != nil {
		d.Date = *upd.Date
	}
	if upd.Notes != nil {
		d.Notes = *upd.Notes
	}
	d.UpdatedAt = time.Now()

	if d.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("distribution amount must be positive")
	}

	if err := s.repos.Distribution.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update distribution: %w", err)
	}

	delta := d.Amount.Sub(oldAmount)
	if !delta.IsZero() {
		s.metrics.Emit(ctx, DistributionEvents(loan, delta, d.Date)...)
	}

	return d, nil
}

// Delete removes a distribution, reversing its metric contribution with a
// negative event pair
func (s *DistributionSvc) Delete(ctx context.Context, id uuid.UUID, actor *models.Staff) error {
	d, err := s.repos.Distribution.GetByID(ctx, id)
	if err != nil {
		return err
	}

	loan, err := s.repos.Loan.GetByID(ctx, d.LoanID)
	if err != nil {
		return err
	}

	if err := s.authorize(loan, actor); err != nil {
		return err
	}

	if err := s.repos.Distribution.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.Emit(ctx, DistributionEvents(loan, d.Amount.Neg(), time.Now())...)
	s.logger.Infof("Distribution %s deleted from loan %s", id, loan.ID)
	return nil
}

// authorize rejects restricted roles touching tranches on loans outside
// their own records
func (s *DistributionSvc) authorize(loan *models.Loan, actor *models.Staff) error {
	if !actor.IsRestricted() {
		return nil
	}

	if loan.LoanOfficer != actor.Username && loan.BranchCode != actor.BranchCode {
		return errors.New("access denied: loan belongs to another officer")
	}

	return nil
}

// pushBackSchedule applies the schedule adjustments carried on a
// distribution request to the parent loan. An explicit start date wins over
// a named rule; a duration change drops the cached ending date so it is
// re-derived.
func (s *DistributionSvc) pushBackSchedule(ctx context.Context, loan *models.Loan, req *models.DistributionRequest) error {
	changed := false

	switch {
	case req.CollectionStartDate != nil:
		loan.CollectionStartDate = req.CollectionStartDate
		changed = true
	case req.StartDateRule != "":
		anchor := time.Now()
		if req.Date != nil {
			anchor = *req.Date
		}
		start, err := models.ApplyStartDateRule(req.StartDateRule, anchor)
		if err != nil {
			return err
		}
		loan.CollectionStartDate = &start
		changed = true
	}

	if req.DurationNumber != nil && req.DurationUnit != nil {
		loan.DurationNumber = *req.DurationNumber
		loan.DurationUnit = *req.DurationUnit
		loan.EndingDate = nil
		changed = true
	}

	if !changed {
		return nil
	}

	loan.UpdatedAt = time.Now()
	if err := s.repos.Loan.Update(ctx, loan); err != nil {
		return fmt.Errorf("failed to apply schedule adjustment: %w", err)
	}

	s.logger.Infof("Schedule adjusted for loan %s via distribution request", loan.ID)
	return nil
}
