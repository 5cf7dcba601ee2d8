package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

const groupColumns = `id, name, code, branch_name, branch_code, group_loan_total, created_at, updated_at`

// GroupRepo is a PostgreSQL implementation of the repository.GroupRepository interface
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepository creates a new GroupRepo
func NewGroupRepository(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// Create creates a new group in the database
func (r *GroupRepo) Create(ctx context.Context, g *models.Group) error {
	query := `INSERT INTO groups (` + groupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.Name, g.Code, g.BranchName, g.BranchCode, g.GroupLoanTotal,
		g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	return nil
}

// GetByID gets a group by ID
func (r *GroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	return r.getOne(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = $1`, id)
}

// GetByCode gets a group by its unique code
func (r *GroupRepo) GetByCode(ctx context.Context, code string) (*models.Group, error) {
	return r.getOne(ctx, `SELECT `+groupColumns+` FROM groups WHERE code = $1`, code)
}

// List lists groups, optionally scoped to a branch
func (r *GroupRepo) List(ctx context.Context, branchCode string) ([]*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups`
	var args []interface{}

	if branchCode != "" {
		query += ` WHERE branch_code = $1`
		args = append(args, branchCode)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		g := &models.Group{}
		if err := scanGroup(rows, g); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return groups, nil
}

// Update updates a group
func (r *GroupRepo) Update(ctx context.Context, g *models.Group) error {
	query := `UPDATE groups SET name = $2, code = $3, branch_name = $4, branch_code = $5,
		updated_at = now() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, g.ID, g.Name, g.Code, g.BranchName, g.BranchCode)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}

	return requireRow(result, fmt.Sprintf("group %s", g.ID))
}

// UpdateLoanTotal writes the recomputed denormalized loan total
func (r *GroupRepo) UpdateLoanTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE groups SET group_loan_total = $2, updated_at = now() WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("failed to update group loan total: %w", err)
	}

	return requireRow(result, fmt.Sprintf("group %s", id))
}

// Delete deletes a group
func (r *GroupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	return requireRow(result, fmt.Sprintf("group %s", id))
}

func (r *GroupRepo) getOne(ctx context.Context, query string, args ...interface{}) (*models.Group, error) {
	g := &models.Group{}
	err := scanGroup(r.db.QueryRowContext(ctx, query, args...), g)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("group: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

func scanGroup(row rowScanner, g *models.Group) error {
	return row.Scan(&g.ID, &g.Name, &g.Code, &g.BranchName, &g.BranchCode,
		&g.GroupLoanTotal, &g.CreatedAt, &g.UpdatedAt)
}

// requireRow converts a zero-row result into ErrNotFound
func requireRow(result sql.Result, subject string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", subject, ErrNotFound)
	}
	return nil
}
