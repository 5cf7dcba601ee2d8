package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

const staffColumns = `id, email, username, pass_hash, role, branch_name, branch_code, created_at, updated_at`

// StaffRepo is a PostgreSQL implementation of the repository.StaffRepository interface
type StaffRepo struct {
	db *sql.DB
}

// NewStaffRepository creates a new StaffRepo
func NewStaffRepository(db *sql.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

// Create creates a new staff record in the database
func (r *StaffRepo) Create(ctx context.Context, s *models.Staff) error {
	query := `INSERT INTO staff (` + staffColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Email, s.Username, s.PassHash, s.Role, s.BranchName, s.BranchCode,
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}

	return nil
}

// GetByEmail gets a staff record by email
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (*models.Staff, error) {
	return r.getOne(ctx, `SELECT `+staffColumns+` FROM staff WHERE email = $1`, email)
}

// GetByUsername gets a staff record by username
func (r *StaffRepo) GetByUsername(ctx context.Context, username string) (*models.Staff, error) {
	return r.getOne(ctx, `SELECT `+staffColumns+` FROM staff WHERE username = $1`, username)
}

func (r *StaffRepo) getOne(ctx context.Context, query string, args ...interface{}) (*models.Staff, error) {
	s := &models.Staff{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.Email, &s.Username, &s.PassHash, &s.Role, &s.BranchName,
		&s.BranchCode, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("staff: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}

	return s, nil
}
