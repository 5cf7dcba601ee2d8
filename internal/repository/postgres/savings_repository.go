package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

const savingsColumns = `id, client_id, currency, balance, created_at, updated_at`

// SavingsRepo is a PostgreSQL implementation of the repository.SavingsRepository interface
type SavingsRepo struct {
	db *sql.DB
}

// NewSavingsRepository creates a new SavingsRepo
func NewSavingsRepository(db *sql.DB) *SavingsRepo {
	return &SavingsRepo{db: db}
}

// FindOrCreate returns the client's savings account, creating it atomically
// if absent. The unique key on client_id makes this safe under concurrent
// activation of two loans for the same client.
func (r *SavingsRepo) FindOrCreate(ctx context.Context, clientID uuid.UUID, currency models.Currency) (*models.SavingsAccount, error) {
	query := `INSERT INTO savings_accounts (id, client_id, currency, balance, created_at, updated_at)
		VALUES ($1, $2, $3, 0, now(), now())
		ON CONFLICT (client_id) DO UPDATE SET updated_at = now()
		RETURNING ` + savingsColumns

	account := &models.SavingsAccount{}
	err := scanSavings(r.db.QueryRowContext(ctx, query, uuid.New(), clientID, currency), account)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create savings account: %w", err)
	}

	return account, nil
}

// GetByClientID gets the savings account for a client
func (r *SavingsRepo) GetByClientID(ctx context.Context, clientID uuid.UUID) (*models.SavingsAccount, error) {
	query := `SELECT ` + savingsColumns + ` FROM savings_accounts WHERE client_id = $1`

	account := &models.SavingsAccount{}
	err := scanSavings(r.db.QueryRowContext(ctx, query, clientID), account)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("savings account for client %s: %w", clientID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get savings account: %w", err)
	}

	return account, nil
}

// AppendTransaction inserts the transaction and applies its signed amount to
// the account balance in one database transaction
func (r *SavingsRepo) AppendTransaction(ctx context.Context, txn *models.SavingsTransaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO savings_transactions (id, account_id, type, amount, currency, date, memo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID, txn.AccountID, txn.Type, txn.Amount, txn.Currency, txn.Date, txn.Memo, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert savings transaction: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE savings_accounts SET balance = balance + $2, updated_at = now() WHERE id = $1`,
		txn.AccountID, txn.SignedAmount())
	if err != nil {
		return fmt.Errorf("failed to update savings balance: %w", err)
	}

	if err := requireRow(result, fmt.Sprintf("savings account %s", txn.AccountID)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit savings transaction: %w", err)
	}

	return nil
}

// GetTransactions gets the transactions of an account, oldest first
func (r *SavingsRepo) GetTransactions(ctx context.Context, accountID uuid.UUID) ([]*models.SavingsTransaction, error) {
	query := `SELECT id, account_id, type, amount, currency, date, memo, created_at
		FROM savings_transactions WHERE account_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get savings transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.SavingsTransaction
	for rows.Next() {
		t := &models.SavingsTransaction{}
		err := rows.Scan(&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Currency,
			&t.Date, &t.Memo, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan savings transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return transactions, nil
}

func scanSavings(row rowScanner, a *models.SavingsAccount) error {
	return row.Scan(&a.ID, &a.ClientID, &a.Currency, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
}
