package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/configs"
	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
)

// ConfigService resolves and manages fee configuration
type ConfigService interface {
	// Resolve returns the effective fee set for one loan. It never fails:
	// lookup errors fall back to the hard-coded constants.
	Resolve(ctx context.Context, branchCode string, category models.LoanCategory, inGroup, returning bool, currency models.Currency) models.ResolvedFees
	Upsert(ctx context.Context, cfg *models.LoanConfig) error
	List(ctx context.Context) ([]*models.LoanConfig, error)
	GetForBranch(ctx context.Context, branchCode string) (*models.LoanConfig, error)
}

// LoanService governs the loan aggregate: creation, lifecycle transitions,
// the embedded collection ledger and the due-collections report
type LoanService interface {
	Create(ctx context.Context, loan *models.Loan, actor *models.Staff) error
	GetByID(ctx context.Context, id uuid.UUID, actor *models.Staff) (*models.Loan, error)
	List(ctx context.Context, filter repository.LoanFilter, actor *models.Staff) ([]*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan, actor *models.Staff) error
	Delete(ctx context.Context, id uuid.UUID, actor *models.Staff) error
	ChangeStatus(ctx context.Context, id uuid.UUID, target models.LoanStatus, actor *models.Staff) (*models.Loan, error)
	AddCollections(ctx context.Context, loanID uuid.UUID, entries []*models.Collection, actor *models.Staff) (*models.Loan, error)
	DueCollections(ctx context.Context, from, to time.Time, actor *models.Staff) ([]*models.DueCollection, error)
}

// DistributionService manages disbursement tranches with compensating
// metric events on every change
type DistributionService interface {
	Create(ctx context.Context, loanID uuid.UUID, req *models.DistributionRequest, actor *models.Staff) ([]*models.Distribution, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Distribution, error)
	GetByLoan(ctx context.Context, loanID uuid.UUID) ([]*models.Distribution, error)
	Update(ctx context.Context, id uuid.UUID, upd *models.DistributionUpdate, actor *models.Staff) (*models.Distribution, error)
	Delete(ctx context.Context, id uuid.UUID, actor *models.Staff) error
}

// MetricsService is the append-only metric event store and its
// recalculation engine
type MetricsService interface {
	// Emit records events best-effort: failures are logged, never returned.
	Emit(ctx context.Context, events ...*models.MetricEvent)
	Recalculate(ctx context.Context) (int, error)
	Summary(ctx context.Context, filter repository.MetricFilter) (map[models.MetricName]decimal.Decimal, error)
}

// AgreementService generates and serves loan agreement snapshots
type AgreementService interface {
	EnsureForLoan(ctx context.Context, loan *models.Loan) (bool, error)
	GetByLoan(ctx context.Context, loanID uuid.UUID) (*models.LoanAgreement, error)
}

// NotificationService sends best-effort email notices
type NotificationService interface {
	SendActivationNotice(loan *models.Loan)
}

// StaffService manages staff records and identity lookups
type StaffService interface {
	Register(ctx context.Context, reg *models.StaffRegistration) (*models.Staff, error)
	Identify(ctx context.Context, email, username string) (*models.Staff, error)
}

// GroupService manages lending groups
type GroupService interface {
	Create(ctx context.Context, g *models.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	List(ctx context.Context, branchCode string) ([]*models.Group, error)
	Update(ctx context.Context, g *models.Group) error
	Delete(ctx context.Context, id uuid.UUID) error
	RecalculateLoanTotal(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}

// ClientService manages borrower records
type ClientService interface {
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context, branchCode string, groupID *uuid.UUID) ([]*models.Client, error)
	Update(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SavingsService serves savings accounts and their transactions
type SavingsService interface {
	GetByClient(ctx context.Context, clientID uuid.UUID) (*models.SavingsAccount, []*models.SavingsTransaction, error)
}

// ExpenseService manages manually entered expenses
type ExpenseService interface {
	Create(ctx context.Context, e *models.Expense, actor *models.Staff) error
	List(ctx context.Context, branchCode string, actor *models.Staff) ([]*models.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Dependencies contains dependencies for services
type Dependencies struct {
	Repos  *repository.Repository
	Logger *logrus.Logger
	Config *configs.Config
}

// Service is a composition of all services
type Service struct {
	Config       ConfigService
	Loan         LoanService
	Distribution DistributionService
	Metrics      MetricsService
	Agreement    AgreementService
	Notification NotificationService
	Staff        StaffService
	Group        GroupService
	Client       ClientService
	Savings      SavingsService
	Expense      ExpenseService
}

// NewService creates a new service with all sub-services
func NewService(deps Dependencies) *Service {
	metrics := NewMetricsService(deps)
	config := NewConfigService(deps)
	agreement := NewAgreementService(deps)
	notification := NewNotificationService(deps)

	return &Service{
		Config:       config,
		Loan:         NewLoanService(deps, config, metrics, agreement, notification),
		Distribution: NewDistributionService(deps, metrics),
		Metrics:      metrics,
		Agreement:    agreement,
		Notification: notification,
		Staff:        NewStaffService(deps),
		Group:        NewGroupService(deps),
		Client:       NewClientService(deps),
		Savings:      NewSavingsService(deps),
		Expense:      NewExpenseService(deps, metrics),
	}
}
