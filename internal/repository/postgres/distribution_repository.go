package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

const distributionColumns = `id, loan_id, member_name, amount, currency, date, notes, created_at, updated_at`

// DistributionRepo is a PostgreSQL implementation of the repository.DistributionRepository interface
type DistributionRepo struct {
	db *sql.DB
}

// NewDistributionRepository creates a new DistributionRepo
func NewDistributionRepository(db *sql.DB) *DistributionRepo {
	return &DistributionRepo{db: db}
}

// Create creates a new distribution in the database
func (r *DistributionRepo) Create(ctx context.Context, d *models.Distribution) error {
	query := `INSERT INTO distributions (` + distributionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.LoanID, d.MemberName, d.Amount, d.Currency, d.Date, d.Notes,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create distribution: %w", err)
	}

	return nil
}

// GetByID gets a distribution by ID
func (r *DistributionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Distribution, error) {
	query := `SELECT ` + distributionColumns + ` FROM distributions WHERE id = $1`

	d := &models.Distribution{}
	err := scanDistribution(r.db.QueryRowContext(ctx, query, id), d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("distribution %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get distribution: %w", err)
	}

	return d, nil
}

// GetByLoanID gets all distributions for a loan in creation order
func (r *DistributionRepo) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*models.Distribution, error) {
	query := `SELECT ` + distributionColumns + ` FROM distributions
		WHERE loan_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get distributions: %w", err)
	}
	defer rows.Close()

	return scanDistributions(rows)
}

// ListAll lists every distribution in creation order for metric replay
func (r *DistributionRepo) ListAll(ctx context.Context) ([]*models.Distribution, error) {
	query := `SELECT ` + distributionColumns + ` FROM distributions ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions: %w", err)
	}
	defer rows.Close()

	return scanDistributions(rows)
}

// Update updates a distribution
func (r *DistributionRepo) Update(ctx context.Context, d *models.Distribution) error {
	query := `UPDATE distributions SET member_name = $2, amount = $3, currency = $4,
		date = $5, notes = $6, updated_at = now() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		d.ID, d.MemberName, d.Amount, d.Currency, d.Date, d.Notes)
	if err != nil {
		return fmt.Errorf("failed to update distribution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("distribution %s: %w", d.ID, ErrNotFound)
	}

	return nil
}

// Delete deletes a distribution
func (r *DistributionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM distributions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete distribution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("distribution %s: %w", id, ErrNotFound)
	}

	return nil
}

func scanDistribution(row rowScanner, d *models.Distribution) error {
	return row.Scan(&d.ID, &d.LoanID, &d.MemberName, &d.Amount, &d.Currency,
		&d.Date, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
}

func scanDistributions(rows *sql.Rows) ([]*models.Distribution, error) {
	var distributions []*models.Distribution

	for rows.Next() {
		d := &models.Distribution{}
		if err := scanDistribution(rows, d); err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		distributions = append(distributions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return distributions, nil
}
