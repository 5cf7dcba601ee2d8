package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/jalh2/godgraceenterprise/internal/models"
)

// MetricFilter narrows metric aggregation; zero values mean no restriction
type MetricFilter struct {
	From        *time.Time
	To          *time.Time
	BranchCode  string
	LoanOfficer string
	Currency    models.Currency
}

// MetricRepo is a PostgreSQL implementation of the repository.MetricRepository interface
type MetricRepo struct {
	db *sql.DB
}

// NewMetricRepository creates a new MetricRepo
func NewMetricRepository(db *sql.DB) *MetricRepo {
	return &MetricRepo{db: db}
}

// RecordMany inserts a batch of metric events
func (r *MetricRepo) RecordMany(ctx context.Context, events []*models.MetricEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO metric_events (id, name, value, date, branch_name, branch_code,
		loan_officer, currency, loan_id, group_id, client_id, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	for _, e := range events {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}

		_, err = tx.ExecContext(ctx, query,
			e.ID, e.Name, e.Value, e.Date, e.BranchName, e.BranchCode,
			e.LoanOfficer, e.Currency, e.LoanID, e.GroupID, e.ClientID, e.Meta, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to record metric event: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit metric events: %w", err)
	}

	return nil
}

// DeleteByNames deletes all events carrying one of the given metric names
func (r *MetricRepo) DeleteByNames(ctx context.Context, names []models.MetricName) error {
	nameStrings := make([]string, len(names))
	for i, n := range names {
		nameStrings[i] = string(n)
	}

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM metric_events WHERE name = ANY($1)`, pq.Array(nameStrings))
	if err != nil {
		return fmt.Errorf("failed to delete metric events: %w", err)
	}

	return nil
}

// DeleteByLoanID purges every event tagged with a loan. Loan deletion is the
// single exception to the ledger's append-only rule.
func (r *MetricRepo) DeleteByLoanID(ctx context.Context, loanID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metric_events WHERE loan_id = $1`, loanID)
	if err != nil {
		return fmt.Errorf("failed to delete loan metric events: %w", err)
	}

	return nil
}

// SumByName sums event values per metric name within the filter
func (r *MetricRepo) SumByName(ctx context.Context, filter MetricFilter) (map[models.MetricName]decimal.Decimal, error) {
	query := `SELECT name, COALESCE(SUM(value), 0) FROM metric_events WHERE 1=1`
	var args []interface{}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if filter.BranchCode != "" {
		args = append(args, filter.BranchCode)
		query += fmt.Sprintf(" AND branch_code = $%d", len(args))
	}
	if filter.LoanOfficer != "" {
		args = append(args, filter.LoanOfficer)
		query += fmt.Sprintf(" AND loan_officer = $%d", len(args))
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		query += fmt.Sprintf(" AND currency = $%d", len(args))
	}

	query += " GROUP BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum metrics: %w", err)
	}
	defer rows.Close()

	sums := make(map[models.MetricName]decimal.Decimal)
	for rows.Next() {
		var name models.MetricName
		var sum decimal.Decimal
		if err := rows.Scan(&name, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan metric sum: %w", err)
		}
		sums[name] = sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return sums, nil
}
