package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

const clientColumns = `id, full_name, passbook_number, phone, branch_name, branch_code, group_id, is_returning, created_at, updated_at`

// ClientRepo is a PostgreSQL implementation of the repository.ClientRepository interface
type ClientRepo struct {
	db *sql.DB
}

// NewClientRepository creates a new ClientRepo
func NewClientRepository(db *sql.DB) *ClientRepo {
	return &ClientRepo{db: db}
}

// Create creates a new client in the database
func (r *ClientRepo) Create(ctx context.Context, c *models.Client) error {
	query := `INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.FullName, c.PassbookNumber, c.Phone, c.BranchName, c.BranchCode,
		c.GroupID, c.Returning, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// GetByID gets a client by ID
func (r *ClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
}

// GetByPassbook gets a client by passbook number
func (r *ClientRepo) GetByPassbook(ctx context.Context, passbook string) (*models.Client, error) {
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE passbook_number = $1`, passbook)
}

// List lists clients, optionally scoped to a branch and/or group
func (r *ClientRepo) List(ctx context.Context, branchCode string, groupID *uuid.UUID) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE 1=1`
	var args []interface{}

	if branchCode != "" {
		args = append(args, branchCode)
		query += fmt.Sprintf(" AND branch_code = $%d", len(args))
	}
	if groupID != nil {
		args = append(args, *groupID)
		query += fmt.Sprintf(" AND group_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c := &models.Client{}
		if err := scanClient(rows, c); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return clients, nil
}

// Update updates a client
func (r *ClientRepo) Update(ctx context.Context, c *models.Client) error {
	query := `UPDATE clients SET full_name = $2, passbook_number = $3, phone = $4,
		branch_name = $5, branch_code = $6, group_id = $7, is_returning = $8, updated_at = now()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		c.ID, c.FullName, c.PassbookNumber, c.Phone, c.BranchName, c.BranchCode,
		c.GroupID, c.Returning)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	return requireRow(result, fmt.Sprintf("client %s", c.ID))
}

// Delete deletes a client
func (r *ClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	return requireRow(result, fmt.Sprintf("client %s", id))
}

func (r *ClientRepo) getOne(ctx context.Context, query string, args ...interface{}) (*models.Client, error) {
	c := &models.Client{}
	err := scanClient(r.db.QueryRowContext(ctx, query, args...), c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("client: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

func scanClient(row rowScanner, c *models.Client) error {
	return row.Scan(&c.ID, &c.FullName, &c.PassbookNumber, &c.Phone, &c.BranchName,
		&c.BranchCode, &c.GroupID, &c.Returning, &c.CreatedAt, &c.UpdatedAt)
}
