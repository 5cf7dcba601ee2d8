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

// LoanSvc is an implementation of the service.LoanService interface
type LoanSvc struct {
	repos        *repository.Repository
	logger       *logrus.Logger
	config       ConfigService
	metrics      MetricsService
	agreement    AgreementService
	notification NotificationService
}

// NewLoanService creates a new LoanSvc
func NewLoanService(deps Dependencies, config ConfigService, metrics MetricsService, agreement AgreementService, notification NotificationService) *LoanSvc {
	return &LoanSvc{
		repos:        deps.Repos,
		logger:       deps.Logger,
		config:       config,
		metrics:      metrics,
		agreement:    agreement,
		notification: notification,
	}
}

// Create validates a submitted loan, derives its fee and schedule fields and
// stores it in pending status. Fee metric events and the group total refresh
// are best-effort follow-ups.
func (s *LoanSvc) Create(ctx context.Context, loan *models.Loan, actor *models.Staff) error {
	if loan.ID == uuid.Nil {
		loan.ID = uuid.New()
	}
	loan.Status = models.LoanStatusPending
	loan.RealizedAmount = decimal.Zero
	loan.WeeklyInstallment = decimal.Zero
	now := time.Now()
	loan.CreatedAt = now
	loan.UpdatedAt = now

	s.applyActorScope(loan, actor)

	if err := s.prepare(ctx, loan); err != nil {
		return err
	}

	if err := s.repos.Loan.Create(ctx, loan); err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	s.logger.Infof("Loan created: %s category=%s amount=%s %s branch=%s",
		loan.ID, loan.Category, loan.LoanAmount, loan.Currency, loan.BranchCode)

	s.metrics.Emit(ctx, CreationFeeEvents(loan)...)
	s.refreshGroupTotal(ctx, loan)

	return nil
}

// GetByID gets a loan and enforces restricted-role scoping
func (s *LoanSvc) GetByID(ctx context.Context, id uuid.UUID, actor *models.Staff) (*models.Loan, error) {
	loan, err := s.repos.Loan.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(loan, actor); err != nil {
		return nil, err
	}

	return loan, nil
}

// List lists loans; restricted roles only see their own records
func (s *LoanSvc) List(ctx context.Context, filter repository.LoanFilter, actor *models.Staff) ([]*models.Loan, error) {
	if actor.IsRestricted() {
		filter.ScopeOfficer = actor.Username
		filter.ScopeBranch = actor.BranchCode
	}

	return s.repos.Loan.List(ctx, filter)
}

// Update re-validates and re-derives a loan's fields. Status, the realized
// total and the collection ledger are owned by their own operations and are
// preserved from the stored row.
func (s *LoanSvc) Update(ctx context.Context, loan *models.Loan, actor *models.Staff) error {
	existing, err := s.repos.Loan.GetByID(ctx, loan.ID)
	if err != nil {
		return err
	}

	if err := s.authorize(existing, actor); err != nil {
		return err
	}

	loan.Status = existing.Status
	loan.RealizedAmount = existing.RealizedAmount
	loan.WeeklyInstallment = existing.WeeklyInstallment
	loan.CreatedAt = existing.CreatedAt
	loan.UpdatedAt = time.Now()

	// Activation anchors the schedule dates; an edit that omits them must
	// not wipe the committed schedule.
	if existing.Status != models.LoanStatusPending {
		if loan.DisbursementDate == nil {
			loan.DisbursementDate = existing.DisbursementDate
		}
		if loan.CollectionStartDate == nil {
			loan.CollectionStartDate = existing.CollectionStartDate
		}
		if loan.EndingDate == nil {
			loan.EndingDate = existing.EndingDate
		}
	}

	if err := s.prepare(ctx, loan); err != nil {
		return err
	}

	if err := s.repos.Loan.Update(ctx, loan); err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}

	s.refreshGroupTotal(ctx, loan)
	if existing.GroupID != nil && (loan.GroupID == nil || *existing.GroupID != *loan.GroupID) {
		s.refreshGroupTotalByID(ctx, *existing.GroupID)
	}

	return nil
}

// Delete removes a loan and purges its metric events
func (s *LoanSvc) Delete(ctx context.Context, id uuid.UUID, actor *models.Staff) error {
	loan, err := s.repos.Loan.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorize(loan, actor); err != nil {
		return err
	}

	if err := s.repos.Loan.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.repos.Metric.DeleteByLoanID(ctx, id); err != nil {
		s.logger.Warnf("Failed to purge metric events for deleted loan %s: %v", id, err)
	}
	s.refreshGroupTotal(ctx, loan)

	s.logger.Infof("Loan deleted: %s", id)
	return nil
}

// ChangeStatus moves a loan through its lifecycle. Only pending→active and
// active→paid|defaulted are legal; activation requires an approver role and
// runs its side effects exactly once, guarded by the prior pending status.
func (s *LoanSvc) ChangeStatus(ctx context.Context, id uuid.UUID, target models.LoanStatus, actor *models.Staff) (*models.Loan, error) {
	if !models.ValidStatus(target) {
		return nil, errors.New("invalid loan status")
	}

	loan, err := s.repos.Loan.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(loan, actor); err != nil {
		return nil, err
	}

	if target == models.LoanStatusActive && !actor.CanApprove() {
		return nil, errors.New("role is not permitted to activate loans")
	}

	if !loan.CanTransitionTo(target) {
		return nil, fmt.Errorf("cannot transition loan from %s to %s", loan.Status, target)
	}

	firstActivation := loan.Status == models.LoanStatusPending && target == models.LoanStatusActive
	loan.Status = target
	loan.UpdatedAt = time.Now()

	if firstActivation {
		s.commitSchedule(loan)
	}

	if err := s.repos.Loan.Update(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to update loan status: %w", err)
	}

	if firstActivation {
		// Side effects are at-least-once: a failure here is logged and does
		// not roll back the activation. Recalculation repairs metric drift.
		// The collateral deposit metric follows the savings transaction, not
		// the activation itself, so it is excluded here.
		var events []*models.MetricEvent
		for _, e := range ActivationEvents(loan) {
			if e.Name == models.MetricCollateralCashDeposited {
				continue
			}
			events = append(events, e)
		}
		s.metrics.Emit(ctx, events...)
		s.ensureAgreement(ctx, loan)
		s.depositCollateral(ctx, loan)
		s.notification.SendActivationNotice(loan)
	}

	s.logger.Infof("Loan %s status changed to %s", loan.ID, target)
	return loan, nil
}

// AddCollections appends repayment entries to a loan's ledger. The append
// and the realized-total increment are one storage transaction; metric
// events follow best-effort.
func (s *LoanSvc) AddCollections(ctx context.Context, loanID uuid.UUID, entries []*models.Collection, actor *models.Staff) (*models.Loan, error) {
	if len(entries) == 0 {
		return nil, errors.New("no collection entries provided")
	}

	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(loan, actor); err != nil {
		return nil, err
	}

	increment := decimal.Zero
	now := time.Now()
	for _, entry := range entries {
		if err := entry.Validate(loan); err != nil {
			return nil, err
		}
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		if entry.CollectionDate.IsZero() {
			entry.CollectionDate = now
		}
		increment = increment.Add(entry.AmountCollected)
	}

	if err := s.repos.Loan.AppendCollections(ctx, loanID, entries, increment); err != nil {
		return nil, err
	}

	loan.Collections = append(loan.Collections, entries...)
	loan.RealizedAmount = loan.RealizedAmount.Add(increment)

	var events []*models.MetricEvent
	for _, entry := range entries {
		events = append(events, CollectionEvents(loan, entry)...)
	}
	s.metrics.Emit(ctx, events...)

	s.logger.Infof("Appended %d collection(s) to loan %s, realized total now %s",
		len(entries), loanID, loan.RealizedAmount)

	return loan, nil
}

// DueCollections reports every scheduled repayment of an active loan that
// falls inside [from, to], derived from the date-stepped schedule
func (s *LoanSvc) DueCollections(ctx context.Context, from, to time.Time, actor *models.Staff) ([]*models.DueCollection, error) {
	if to.Before(from) {
		return nil, errors.New("invalid date range")
	}

	loans, err := s.List(ctx, repository.LoanFilter{Status: models.LoanStatusActive}, actor)
	if err != nil {
		return nil, err
	}

	var due []*models.DueCollection
	for _, loan := range loans {
		start := loan.CollectionStartDate
		if start == nil {
			start = loan.DisbursementDate
		}
		if start == nil {
			continue
		}

		end := loan.EndingDate
		if end == nil {
			derived := models.AddDuration(*start, loan.DurationNumber, loan.DurationUnit)
			end = &derived
		}

		dates := models.DueDates(loan.PaymentPlan, *start, *end)
		amounts := models.ScheduledAmounts(loan.TotalAmountToBePaid, len(dates))

		for i, date := range dates {
			if date.Before(from) || date.After(to) {
				continue
			}
			due = append(due, &models.DueCollection{
				LoanID:          loan.ID,
				Category:        loan.Category,
				ClientID:        loan.ClientID,
				GroupID:         loan.GroupID,
				BranchCode:      loan.BranchCode,
				Currency:        loan.Currency,
				DueDate:         date,
				Period:          i + 1,
				ScheduledAmount: amounts[i],
			})
		}
	}

	return due, nil
}

// prepare resolves references and configuration, then derives every
// computed field and validates the aggregate
func (s *LoanSvc) prepare(ctx context.Context, loan *models.Loan) error {
	if loan.ClientID != nil {
		client, err := s.repos.Client.GetByID(ctx, *loan.ClientID)
		if err != nil {
			return fmt.Errorf("loan client: %w", err)
		}
		loan.ReturningClient = client.Returning
		if loan.BranchCode == "" {
			loan.BranchCode = client.BranchCode
			loan.BranchName = client.BranchName
		}
	}

	if loan.GroupID != nil {
		if _, err := s.repos.Group.GetByID(ctx, *loan.GroupID); err != nil {
			return fmt.Errorf("loan group: %w", err)
		}
	}

	fees := s.config.Resolve(ctx, loan.BranchCode, loan.Category,
		loan.GroupID != nil, loan.ReturningClient, loan.Currency)
	loan.ApplyDerivedFields(fees)

	return loan.Validate()
}

// commitSchedule fixes the disbursement date, the ending date and the
// installment amount at first activation
func (s *LoanSvc) commitSchedule(loan *models.Loan) {
	if loan.DisbursementDate == nil {
		now := time.Now()
		loan.DisbursementDate = &now
	}

	if loan.EndingDate == nil {
		end := models.AddDuration(*loan.DisbursementDate, loan.DurationNumber, loan.DurationUnit)
		loan.EndingDate = &end
	}

	loan.WeeklyInstallment = models.InstallmentAmount(loan.TotalAmountToBePaid, loan.Periods())
}

func (s *LoanSvc) ensureAgreement(ctx context.Context, loan *models.Loan) {
	created, err := s.agreement.EnsureForLoan(ctx, loan)
	if err != nil {
		s.logger.Warnf("Failed to generate agreement for loan %s: %v", loan.ID, err)
		return
	}
	if created {
		s.logger.Infof("Generated agreement for loan %s", loan.ID)
	}
}

// depositCollateral moves the withheld collateral cash into the client's
// savings account when the loan has a single client
func (s *LoanSvc) depositCollateral(ctx context.Context, loan *models.Loan) {
	if loan.ClientID == nil || !loan.CollateralCashAmount.IsPositive() {
		return
	}

	account, err := s.repos.Savings.FindOrCreate(ctx, *loan.ClientID, loan.Currency)
	if err != nil {
		s.logger.Warnf("Failed to provision savings account for loan %s: %v", loan.ID, err)
		return
	}

	date := time.Now()
	if loan.DisbursementDate != nil {
		date = *loan.DisbursementDate
	}

	txn := &models.SavingsTransaction{
		ID:        uuid.New(),
		AccountID: account.ID,
		Type:      models.SavingsDeposit,
		Amount:    loan.CollateralCashAmount,
		Currency:  loan.Currency,
		Date:      date,
		Memo:      fmt.Sprintf("Collateral cash for loan %s", loan.ID),
		CreatedAt: time.Now(),
	}

	if err := s.repos.Savings.AppendTransaction(ctx, txn); err != nil {
		s.logger.Warnf("Failed to deposit collateral for loan %s: %v", loan.ID, err)
		return
	}

	s.metrics.Emit(ctx, models.LoanEvent(loan, models.MetricCollateralCashDeposited,
		loan.CollateralCashAmount, date))
}

// refreshGroupTotal recomputes the denormalized group loan total after an
// individual member loan changed. Best-effort: the total is a cache and is
// always recomputable from loan rows.
func (s *LoanSvc) refreshGroupTotal(ctx context.Context, loan *models.Loan) {
	if loan.GroupID == nil || loan.Category != models.LoanCategoryIndividual {
		return
	}
	s.refreshGroupTotalByID(ctx, *loan.GroupID)
}

func (s *LoanSvc) refreshGroupTotalByID(ctx context.Context, groupID uuid.UUID) {
	total, err := s.repos.Loan.SumPrincipalByGroup(ctx, groupID, models.LoanCategoryIndividual)
	if err != nil {
		s.logger.Warnf("Failed to recompute loan total for group %s: %v", groupID, err)
		return
	}

	if err := s.repos.Group.UpdateLoanTotal(ctx, groupID, total); err != nil {
		s.logger.Warnf("Failed to store loan total for group %s: %v", groupID, err)
	}
}

// applyActorScope fills branch and officer attribution from the acting
// staff member; restricted roles always record under their own identity
func (s *LoanSvc) applyActorScope(loan *models.Loan, actor *models.Staff) {
	if actor == nil {
		return
	}

	if loan.LoanOfficer == "" || actor.IsRestricted() {
		loan.LoanOfficer = actor.Username
	}
	if loan.BranchCode == "" || actor.IsRestricted() {
		loan.BranchCode = actor.BranchCode
		loan.BranchName = actor.BranchName
	}
}

// authorize rejects restricted roles reaching outside their own records
func (s *LoanSvc) authorize(loan *models.Loan, actor *models.Staff) error {
	if !actor.IsRestricted() {
		return nil
	}

	if loan.LoanOfficer != actor.Username && loan.BranchCode != actor.BranchCode {
		return errors.New("access denied: loan belongs to another officer")
	}

	return nil
}
