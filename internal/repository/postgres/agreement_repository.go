package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

// AgreementRepo is a PostgreSQL implementation of the repository.AgreementRepository interface
type AgreementRepo struct {
	db *sql.DB
}

// NewAgreementRepository creates a new AgreementRepo
func NewAgreementRepository(db *sql.DB) *AgreementRepo {
	return &AgreementRepo{db: db}
}

// Upsert inserts the agreement unless one already exists for its loan. The
// unique key on loan_id carries the idempotency; no read precedes the write.
func (r *AgreementRepo) Upsert(ctx context.Context, a *models.LoanAgreement) (bool, error) {
	query := `INSERT INTO loan_agreements (id, loan_id, content, generated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (loan_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, a.ID, a.LoanID, a.Content, a.GeneratedAt)
	if err != nil {
		return false, fmt.Errorf("failed to upsert loan agreement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// GetByLoanID gets the agreement for a loan
func (r *AgreementRepo) GetByLoanID(ctx context.Context, loanID uuid.UUID) (*models.LoanAgreement, error) {
	query := `SELECT id, loan_id, content, generated_at FROM loan_agreements WHERE loan_id = $1`

	a := &models.LoanAgreement{}
	err := r.db.QueryRowContext(ctx, query, loanID).Scan(&a.ID, &a.LoanID, &a.Content, &a.GeneratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agreement for loan %s: %w", loanID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get loan agreement: %w", err)
	}

	return a, nil
}
