package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

// LoanFilter narrows loan listings; zero values mean no restriction.
// ScopeOfficer and ScopeBranch are set together for restricted roles and
// match loans owned by the officer or belonging to the branch.
type LoanFilter struct {
	BranchCode   string
	LoanOfficer  string
	GroupID      *uuid.UUID
	Status       models.LoanStatus
	ScopeOfficer string
	ScopeBranch  string
}

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

const loanColumns = `id, category, group_id, client_id, client_ids, branch_name, branch_code,
	loan_officer, currency, loan_amount, interest_rate, payment_plan, duration_number,
	duration_unit, returning_client, processing_fee_percent, collateral_cash_percent,
	processing_fee_amount, collateral_cash_amount, form_fee_amount, inspection_fee_amount,
	net_disbursed_amount, total_amount_to_be_paid, cash_amount_credited, weekly_installment,
	status, disbursement_date, collection_start_date, ending_date, guarantors, signatories,
	creditor_profile, collateral_items, realized_amount, created_at, updated_at`

// LoanRepo is a PostgreSQL implementation of the repository.LoanRepository interface
type LoanRepo struct {
	db *sql.DB
}

// NewLoanRepository creates a new LoanRepo
func NewLoanRepository(db *sql.DB) *LoanRepo {
	return &LoanRepo{db: db}
}

// Create creates a new loan in the database
func (r *LoanRepo) Create(ctx context.Context, loan *models.Loan) error {
	query := `INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33,
			$34, $35, $36)`

	_, err := r.db.ExecContext(ctx, query, loanArgs(loan)...)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	return nil
}

// GetByID gets a loan by ID, including its collection ledger
func (r *LoanRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("loan %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	collections, err := r.getCollections(ctx, id)
	if err != nil {
		return nil, err
	}
	loan.Collections = collections

	return loan, nil
}

// List lists loans matching the filter, newest first
func (r *LoanRepo) List(ctx context.Context, filter LoanFilter) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE 1=1`
	var args []interface{}

	if filter.BranchCode != "" {
		args = append(args, filter.BranchCode)
		query += fmt.Sprintf(" AND branch_code = $%d", len(args))
	}
	if filter.LoanOfficer != "" {
		args = append(args, filter.LoanOfficer)
		query += fmt.Sprintf(" AND loan_officer = $%d", len(args))
	}
	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		query += fmt.Sprintf(" AND group_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ScopeOfficer != "" || filter.ScopeBranch != "" {
		args = append(args, filter.ScopeOfficer, filter.ScopeBranch)
		query += fmt.Sprintf(" AND (loan_officer = $%d OR branch_code = $%d)", len(args)-1, len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

// ListAll lists every loan in creation order with its collection ledger.
// This is the replay input for metric recalculation.
func (r *LoanRepo) ListAll(ctx context.Context) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	loans, err := scanLoans(rows)
	if err != nil {
		return nil, err
	}

	for _, loan := range loans {
		collections, err := r.getCollections(ctx, loan.ID)
		if err != nil {
			return nil, err
		}
		loan.Collections = collections
	}

	return loans, nil
}

// Update updates a loan
func (r *LoanRepo) Update(ctx context.Context, loan *models.Loan) error {
	query := `UPDATE loans SET category = $2, group_id = $3, client_id = $4, client_ids = $5,
		branch_name = $6, branch_code = $7, loan_officer = $8, currency = $9, loan_amount = $10,
		interest_rate = $11, payment_plan = $12, duration_number = $13, duration_unit = $14,
		returning_client = $15, processing_fee_percent = $16, collateral_cash_percent = $17,
		processing_fee_amount = $18, collateral_cash_amount = $19, form_fee_amount = $20,
		inspection_fee_amount = $21, net_disbursed_amount = $22, total_amount_to_be_paid = $23,
		cash_amount_credited = $24, weekly_installment = $25, status = $26,
		disbursement_date = $27, collection_start_date = $28, ending_date = $29,
		guarantors = $30, signatories = $31, creditor_profile = $32, collateral_items = $33,
		realized_amount = $34, updated_at = now()
		WHERE id = $1`

	args := loanArgs(loan)
	result, err := r.db.ExecContext(ctx, query, args[:34]...)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("loan %s: %w", loan.ID, ErrNotFound)
	}

	return nil
}

// Delete deletes a loan; collections and distributions cascade
func (r *LoanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("loan %s: %w", id, ErrNotFound)
	}

	return nil
}

// AppendCollections appends ledger entries and bumps the realized total in
// one database transaction, so a concurrent append cannot lose the increment
func (r *LoanRepo) AppendCollections(ctx context.Context, loanID uuid.UUID, entries []*models.Collection, increment decimal.Decimal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM loan_collections WHERE loan_id = $1`,
		loanID).Scan(&position)
	if err != nil {
		return fmt.Errorf("failed to read collection position: %w", err)
	}

	insert := `INSERT INTO loan_collections (id, loan_id, position, member_name,
		scheduled_amount, amount_collected, advance_payment, field_balance, currency,
		collection_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for i, entry := range entries {
		entry.LoanID = loanID
		entry.Position = position + i
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}

		_, err = tx.ExecContext(ctx, insert,
			entry.ID, entry.LoanID, entry.Position, entry.MemberName,
			entry.ScheduledAmount, entry.AmountCollected, entry.AdvancePayment,
			entry.FieldBalance, entry.Currency, entry.CollectionDate, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to append collection: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE loans SET realized_amount = realized_amount + $2, updated_at = now() WHERE id = $1`,
		loanID, increment)
	if err != nil {
		return fmt.Errorf("failed to increment realized amount: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit collection append: %w", err)
	}

	return nil
}

// SumPrincipalByGroup sums loan principal for a group and category
func (r *LoanRepo) SumPrincipalByGroup(ctx context.Context, groupID uuid.UUID, category models.LoanCategory) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(loan_amount), 0) FROM loans WHERE group_id = $1 AND category = $2`,
		groupID, category).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum group principal: %w", err)
	}

	return total, nil
}

func (r *LoanRepo) getCollections(ctx context.Context, loanID uuid.UUID) ([]*models.Collection, error) {
	query := `SELECT id, loan_id, position, member_name, scheduled_amount, amount_collected,
		advance_payment, field_balance, currency, collection_date, created_at
		FROM loan_collections WHERE loan_id = $1 ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collections: %w", err)
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		c := &models.Collection{}
		err := rows.Scan(&c.ID, &c.LoanID, &c.Position, &c.MemberName, &c.ScheduledAmount,
			&c.AmountCollected, &c.AdvancePayment, &c.FieldBalance, &c.Currency,
			&c.CollectionDate, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collections = append(collections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return collections, nil
}

func loanArgs(loan *models.Loan) []interface{} {
	return []interface{}{
		loan.ID, loan.Category, loan.GroupID, loan.ClientID, loan.ClientIDs,
		loan.BranchName, loan.BranchCode, loan.LoanOfficer, loan.Currency,
		loan.LoanAmount, loan.InterestRate, loan.PaymentPlan, loan.DurationNumber,
		loan.DurationUnit, loan.ReturningClient, loan.ProcessingFeePercent,
		loan.CollateralCashPercent, loan.ProcessingFeeAmount, loan.CollateralCashAmount,
		loan.FormFeeAmount, loan.InspectionFeeAmount, loan.NetDisbursedAmount,
		loan.TotalAmountToBePaid, loan.CashAmountCredited, loan.WeeklyInstallment,
		loan.Status, loan.DisbursementDate, loan.CollectionStartDate, loan.EndingDate,
		loan.Guarantors, loan.Signatories, loan.CreditorProfile, loan.CollateralItems,
		loan.RealizedAmount, loan.CreatedAt, loan.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	loan := &models.Loan{}
	err := row.Scan(
		&loan.ID, &loan.Category, &loan.GroupID, &loan.ClientID, &loan.ClientIDs,
		&loan.BranchName, &loan.BranchCode, &loan.LoanOfficer, &loan.Currency,
		&loan.LoanAmount, &loan.InterestRate, &loan.PaymentPlan, &loan.DurationNumber,
		&loan.DurationUnit, &loan.ReturningClient, &loan.ProcessingFeePercent,
		&loan.CollateralCashPercent, &loan.ProcessingFeeAmount, &loan.CollateralCashAmount,
		&loan.FormFeeAmount, &loan.InspectionFeeAmount, &loan.NetDisbursedAmount,
		&loan.TotalAmountToBePaid, &loan.CashAmountCredited, &loan.WeeklyInstallment,
		&loan.Status, &loan.DisbursementDate, &loan.CollectionStartDate, &loan.EndingDate,
		&loan.Guarantors, &loan.Signatories, &loan.CreditorProfile, &loan.CollateralItems,
		&loan.RealizedAmount, &loan.CreatedAt, &loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func scanLoans(rows *sql.Rows) ([]*models.Loan, error) {
	var loans []*models.Loan

	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return loans, nil
}
