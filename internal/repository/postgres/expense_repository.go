package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

const expenseColumns = `id, description, amount, currency, date, branch_name, branch_code, recorded_by, created_at`

// ExpenseRepo is a PostgreSQL implementation of the repository.ExpenseRepository interface
type ExpenseRepo struct {
	db *sql.DB
}

// NewExpenseRepository creates a new ExpenseRepo
func NewExpenseRepository(db *sql.DB) *ExpenseRepo {
	return &ExpenseRepo{db: db}
}

// Create creates a new expense in the database
func (r *ExpenseRepo) Create(ctx context.Context, e *models.Expense) error {
	query := `INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Description, e.Amount, e.Currency, e.Date, e.BranchName, e.BranchCode,
		e.RecordedBy, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetByID gets an expense by ID
func (r *ExpenseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	e := &models.Expense{}
	err := scanExpense(r.db.QueryRowContext(ctx, query, id), e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expense %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// List lists expenses, optionally scoped to a branch
func (r *ExpenseRepo) List(ctx context.Context, branchCode string) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses`
	var args []interface{}

	if branchCode != "" {
		query += ` WHERE branch_code = $1`
		args = append(args, branchCode)
	}
	query += ` ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := scanExpense(rows, e); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return expenses, nil
}

// Delete deletes an expense
func (r *ExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return requireRow(result, fmt.Sprintf("expense %s", id))
}

func scanExpense(row rowScanner, e *models.Expense) error {
	return row.Scan(&e.ID, &e.Description, &e.Amount, &e.Currency, &e.Date,
		&e.BranchName, &e.BranchCode, &e.RecordedBy, &e.CreatedAt)
}
