package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
)

// metricBatchSize bounds memory while replaying the full event history
const metricBatchSize = 50

// MetricsSvc is an implementation of the service.MetricsService interface
type MetricsSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
}

// NewMetricsService creates a new MetricsSvc
func NewMetricsService(deps Dependencies) *MetricsSvc {
	return &MetricsSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
	}
}

// Emit records metric events best-effort. The ledger is the source of truth
// and metric drift is repairable by recalculation, so failures are logged
// and swallowed, never surfaced to the primary mutation.
func (s *MetricsSvc) Emit(ctx context.Context, events ...*models.MetricEvent) {
	if len(events) == 0 {
		return
	}

	if err := s.recordBatched(ctx, events); err != nil {
		s.logger.Warnf("Failed to record %d metric event(s): %v", len(events), err)
	}
}

// Recalculate rebuilds every loan-derived metric from current Loan and
// Distribution state: it deletes the derived events (manually entered
// metrics such as expenses are preserved) and replays, in loan-creation
// order, creation-time fees, activation events and embedded collections,
// then every distribution keyed by its parent loan's current fields. The
// result depends on ledger state alone, so re-running it is idempotent.
func (s *MetricsSvc) Recalculate(ctx context.Context) (int, error) {
	if err := s.repos.Metric.DeleteByNames(ctx, models.LoanDerivedMetrics); err != nil {
		return 0, fmt.Errorf("failed to clear derived metrics: %w", err)
	}

	loans, err := s.repos.Loan.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load loans for replay: %w", err)
	}

	loansByID := make(map[string]*models.Loan, len(loans))
	var events []*models.MetricEvent

	for _, loan := range loans {
		loansByID[loan.ID.String()] = loan

		events = append(events, CreationFeeEvents(loan)...)

		if loan.Status != models.LoanStatusPending {
			events = append(events, ActivationEvents(loan)...)
		}

		for _, c := range loan.Collections {
			events = append(events, CollectionEvents(loan, c)...)
		}
	}

	distributions, err := s.repos.Distribution.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load distributions for replay: %w", err)
	}

	for _, d := range distributions {
		loan, ok := loansByID[d.LoanID.String()]
		if !ok {
			s.logger.Warnf("Distribution %s references missing loan %s, skipping", d.ID, d.LoanID)
			continue
		}
		events = append(events, DistributionEvents(loan, d.Amount, d.Date)...)
	}

	count := 0
	for start := 0; start < len(events); start += metricBatchSize {
		end := start + metricBatchSize
		if end > len(events) {
			end = len(events)
		}

		if err := s.repos.Metric.RecordMany(ctx, events[start:end]); err != nil {
			s.logger.Warnf("Failed to replay metric batch at %d: %v", start, err)
			continue
		}
		count += end - start
	}

	s.logger.Infof("Recalculated metrics: replayed %d of %d events from %d loans and %d distributions",
		count, len(events), len(loans), len(distributions))

	return count, nil
}

// Summary sums event values per metric name within the filter
func (s *MetricsSvc) Summary(ctx context.Context, filter repository.MetricFilter) (map[models.MetricName]decimal.Decimal, error) {
	sums, err := s.repos.Metric.SumByName(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate metrics: %w", err)
	}
	return sums, nil
}

func (s *MetricsSvc) recordBatched(ctx context.Context, events []*models.MetricEvent) error {
	for start := 0; start < len(events); start += metricBatchSize {
		end := start + metricBatchSize
		if end > len(events) {
			end = len(events)
		}
		if err := s.repos.Metric.RecordMany(ctx, events[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// CreationFeeEvents are the fee metrics emitted when a loan is recorded
func CreationFeeEvents(loan *models.Loan) []*models.MetricEvent {
	date := loan.CreatedAt
	events := []*models.MetricEvent{
		models.LoanEvent(loan, models.MetricTotalProcessingFees, loan.ProcessingFeeAmount, date),
		models.LoanEvent(loan, models.MetricCollateralCashRequired, loan.CollateralCashAmount, date),
		models.LoanEvent(loan, models.MetricTotalFormFees, loan.FormFeeAmount, date),
		models.LoanEvent(loan, models.MetricTotalInspectionFees, loan.InspectionFeeAmount, date),
	}

	if collateral := loan.CollateralItems.TotalValue(); collateral.IsPositive() {
		events = append(events, models.LoanEvent(loan, models.MetricTotalCollateral, collateral, date))
	}

	return events
}

// ActivationEvents are the metrics emitted when a loan first becomes active.
// Group loans defer disbursement metrics to their distribution tranches.
func ActivationEvents(loan *models.Loan) []*models.MetricEvent {
	date := loan.CreatedAt
	if loan.DisbursementDate != nil {
		date = *loan.DisbursementDate
	}

	events := []*models.MetricEvent{
		models.LoanEvent(loan, models.MetricInterestCollected, loan.PlannedInterest(), date),
	}

	if !loan.IsGroupLoan() {
		events = append(events,
			models.LoanEvent(loan, models.MetricLoanAmountDistributed, loan.NetDisbursedAmount, date),
			models.LoanEvent(loan, models.MetricWaitingToBeCollected, loan.LoanAmount, date),
		)
	}

	if loan.ClientID != nil && loan.CollateralCashAmount.IsPositive() {
		events = append(events,
			models.LoanEvent(loan, models.MetricCollateralCashDeposited, loan.CollateralCashAmount, date))
	}

	return events
}

// CollectionEvents are the metrics emitted per collection ledger entry:
// collected in, waiting down, and any overdue remainder
func CollectionEvents(loan *models.Loan, c *models.Collection) []*models.MetricEvent {
	events := []*models.MetricEvent{
		models.LoanEvent(loan, models.MetricTotalCollectionsCollected, c.AmountCollected, c.CollectionDate),
		models.LoanEvent(loan, models.MetricWaitingToBeCollected, c.AmountCollected.Neg(), c.CollectionDate),
	}

	if overdue := c.Overdue(); overdue.IsPositive() {
		events = append(events, models.LoanEvent(loan, models.MetricOverdue, overdue, c.CollectionDate))
	}

	return events
}

// DistributionEvents are the metrics for a distribution amount delta against
// its parent loan. Group loans carry the interest share on the waiting value.
// Negative amounts produce compensating reversals.
func DistributionEvents(loan *models.Loan, amount decimal.Decimal, date time.Time) []*models.MetricEvent {
	return []*models.MetricEvent{
		models.LoanEvent(loan, models.MetricLoanAmountDistributed, models.Round2(amount), date),
		models.LoanEvent(loan, models.MetricWaitingToBeCollected, models.WaitingValue(loan, amount), date),
	}
}
