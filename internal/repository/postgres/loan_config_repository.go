package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

const loanConfigColumns = `id, branch_name, branch_code, express, individual, group_fees, created_at, updated_at`

// LoanConfigRepo is a PostgreSQL implementation of the repository.LoanConfigRepository interface
type LoanConfigRepo struct {
	db *sql.DB
}

// NewLoanConfigRepository creates a new LoanConfigRepo
func NewLoanConfigRepository(db *sql.DB) *LoanConfigRepo {
	return &LoanConfigRepo{db: db}
}

// Upsert inserts or replaces the config for its branch key. The partial
// unique indexes guarantee one config per branch code and a single global
// config, so the conflict target is the branch key itself.
func (r *LoanConfigRepo) Upsert(ctx context.Context, cfg *models.LoanConfig) error {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}

	query := `INSERT INTO loan_configs (` + loanConfigColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (branch_code) WHERE branch_code <> ''
		DO UPDATE SET branch_name = EXCLUDED.branch_name, express = EXCLUDED.express,
			individual = EXCLUDED.individual, group_fees = EXCLUDED.group_fees,
			updated_at = now()`

	if cfg.BranchCode == "" {
		query = `INSERT INTO loan_configs (` + loanConfigColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			ON CONFLICT ((branch_code = '')) WHERE branch_code = ''
			DO UPDATE SET express = EXCLUDED.express, individual = EXCLUDED.individual,
				group_fees = EXCLUDED.group_fees, updated_at = now()`
	}

	_, err := r.db.ExecContext(ctx, query,
		cfg.ID, cfg.BranchName, cfg.BranchCode, cfg.Express, cfg.Individual, cfg.Group)
	if err != nil {
		return fmt.Errorf("failed to upsert loan config: %w", err)
	}

	return nil
}

// GetGlobal gets the single branch-less config
func (r *LoanConfigRepo) GetGlobal(ctx context.Context) (*models.LoanConfig, error) {
	return r.getOne(ctx, `SELECT `+loanConfigColumns+` FROM loan_configs WHERE branch_code = ''`)
}

// GetByBranchCode gets the config for a branch
func (r *LoanConfigRepo) GetByBranchCode(ctx context.Context, code string) (*models.LoanConfig, error) {
	return r.getOne(ctx, `SELECT `+loanConfigColumns+` FROM loan_configs WHERE branch_code = $1`, code)
}

// List lists all configs, global first
func (r *LoanConfigRepo) List(ctx context.Context) ([]*models.LoanConfig, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+loanConfigColumns+` FROM loan_configs ORDER BY branch_code ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan configs: %w", err)
	}
	defer rows.Close()

	var configs []*models.LoanConfig
	for rows.Next() {
		cfg := &models.LoanConfig{}
		if err := r.scan(rows, cfg); err != nil {
			return nil, fmt.Errorf("failed to scan loan config: %w", err)
		}
		configs = append(configs, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return configs, nil
}

func (r *LoanConfigRepo) getOne(ctx context.Context, query string, args ...interface{}) (*models.LoanConfig, error) {
	cfg := &models.LoanConfig{}
	err := r.scan(r.db.QueryRowContext(ctx, query, args...), cfg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("loan config: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get loan config: %w", err)
	}
	return cfg, nil
}

func (r *LoanConfigRepo) scan(row rowScanner, cfg *models.LoanConfig) error {
	return row.Scan(&cfg.ID, &cfg.BranchName, &cfg.BranchCode,
		&cfg.Express, &cfg.Individual, &cfg.Group, &cfg.CreatedAt, &cfg.UpdatedAt)
}
