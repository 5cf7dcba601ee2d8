package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository/postgres"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = postgres.ErrNotFound

// LoanFilter narrows loan listings; zero values mean no restriction
type LoanFilter = postgres.LoanFilter

// LoanRepository defines methods for the loan repository. Reads load the
// embedded collection ledger alongside the loan row.
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	List(ctx context.Context, filter LoanFilter) ([]*models.Loan, error)
	ListAll(ctx context.Context) ([]*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AppendCollections appends ledger entries and increments the realized
	// total atomically in one database transaction.
	AppendCollections(ctx context.Context, loanID uuid.UUID, entries []*models.Collection, increment decimal.Decimal) error

	// SumPrincipalByGroup recomputes a group's loan total from loan rows
	SumPrincipalByGroup(ctx context.Context, groupID uuid.UUID, category models.LoanCategory) (decimal.Decimal, error)
}

// LoanConfigRepository defines methods for fee configuration documents
type LoanConfigRepository interface {
	Upsert(ctx context.Context, cfg *models.LoanConfig) error
	GetGlobal(ctx context.Context) (*models.LoanConfig, error)
	GetByBranchCode(ctx context.Context, code string) (*models.LoanConfig, error)
	List(ctx context.Context) ([]*models.LoanConfig, error)
}

// DistributionRepository defines methods for disbursement tranches
type DistributionRepository interface {
	Create(ctx context.Context, d *models.Distribution) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Distribution, error)
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*models.Distribution, error)
	ListAll(ctx context.Context) ([]*models.Distribution, error)
	Update(ctx context.Context, d *models.Distribution) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupRepository defines methods for lending groups
type GroupRepository interface {
	Create(ctx context.Context, g *models.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	GetByCode(ctx context.Context, code string) (*models.Group, error)
	List(ctx context.Context, branchCode string) ([]*models.Group, error)
	Update(ctx context.Context, g *models.Group) error
	UpdateLoanTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClientRepository defines methods for borrower records
type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetByPassbook(ctx context.Context, passbook string) (*models.Client, error)
	List(ctx context.Context, branchCode string, groupID *uuid.UUID) ([]*models.Client, error)
	Update(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SavingsRepository defines methods for savings accounts. FindOrCreate is an
// atomic upsert keyed on the client, not a read-then-write.
type SavingsRepository interface {
	FindOrCreate(ctx context.Context, clientID uuid.UUID, currency models.Currency) (*models.SavingsAccount, error)
	GetByClientID(ctx context.Context, clientID uuid.UUID) (*models.SavingsAccount, error)
	AppendTransaction(ctx context.Context, txn *models.SavingsTransaction) error
	GetTransactions(ctx context.Context, accountID uuid.UUID) ([]*models.SavingsTransaction, error)
}

// MetricFilter narrows metric aggregation; zero values mean no restriction
type MetricFilter = postgres.MetricFilter

// MetricRepository defines methods for the append-only metric event ledger
type MetricRepository interface {
	RecordMany(ctx context.Context, events []*models.MetricEvent) error
	DeleteByNames(ctx context.Context, names []models.MetricName) error
	DeleteByLoanID(ctx context.Context, loanID uuid.UUID) error
	SumByName(ctx context.Context, filter MetricFilter) (map[models.MetricName]decimal.Decimal, error)
}

// AgreementRepository defines methods for loan agreement snapshots
type AgreementRepository interface {
	// Upsert inserts the agreement unless one already exists for the loan;
	// it reports whether a row was created.
	Upsert(ctx context.Context, a *models.LoanAgreement) (bool, error)
	GetByLoanID(ctx context.Context, loanID uuid.UUID) (*models.LoanAgreement, error)
}

// StaffRepository defines methods for staff identity records
type StaffRepository interface {
	Create(ctx context.Context, s *models.Staff) error
	GetByEmail(ctx context.Context, email string) (*models.Staff, error)
	GetByUsername(ctx context.Context, username string) (*models.Staff, error)
}

// ExpenseRepository defines methods for manually entered expenses
type ExpenseRepository interface {
	Create(ctx context.Context, e *models.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	List(ctx context.Context, branchCode string) ([]*models.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository is a composition of all repositories
type Repository struct {
	DB           *sql.DB
	Loan         LoanRepository
	LoanConfig   LoanConfigRepository
	Distribution DistributionRepository
	Group        GroupRepository
	Client       ClientRepository
	Savings      SavingsRepository
	Metric       MetricRepository
	Agreement    AgreementRepository
	Staff        StaffRepository
	Expense      ExpenseRepository
}

// NewRepository creates a new repository with all sub-repositories, running
// the schema bootstrap first
func NewRepository(db *sql.DB) (*Repository, error) {
	if err := postgres.Migrate(db); err != nil {
		return nil, err
	}

	return &Repository{
		DB:           db,
		Loan:         postgres.NewLoanRepository(db),
		LoanConfig:   postgres.NewLoanConfigRepository(db),
		Distribution: postgres.NewDistributionRepository(db),
		Group:        postgres.NewGroupRepository(db),
		Client:       postgres.NewClientRepository(db),
		Savings:      postgres.NewSavingsRepository(db),
		Metric:       postgres.NewMetricRepository(db),
		Agreement:    postgres.NewAgreementRepository(db),
		Staff:        postgres.NewStaffRepository(db),
		Expense:      postgres.NewExpenseRepository(db),
	}, nil
}
