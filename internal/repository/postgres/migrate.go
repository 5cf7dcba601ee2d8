package postgres

import (
	"database/sql"
	"fmt"
)

// Migrate bootstraps the schema. Unique keys encode the invariants the
// services rely on: a single global fee config, one branch config per code,
// one agreement per loan, one savings account per client, unique passbook
// and group codes.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS staff (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL UNIQUE,
			pass_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			branch_name TEXT NOT NULL DEFAULT '',
			branch_code TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS loan_configs (
			id UUID PRIMARY KEY,
			branch_name TEXT NOT NULL DEFAULT '',
			branch_code TEXT NOT NULL DEFAULT '',
			express JSONB NOT NULL DEFAULT '{}',
			individual JSONB NOT NULL DEFAULT '{}',
			group_fees JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS loan_configs_branch_code_key
			ON loan_configs (branch_code) WHERE branch_code <> ''`,
		`CREATE UNIQUE INDEX IF NOT EXISTS loan_configs_global_key
			ON loan_configs ((branch_code = '')) WHERE branch_code = ''`,
		`CREATE TABLE IF NOT EXISTS groups (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			code TEXT NOT NULL UNIQUE,
			branch_name TEXT NOT NULL DEFAULT '',
			branch_code TEXT NOT NULL DEFAULT '',
			group_loan_total NUMERIC(18,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS clients (
			id UUID PRIMARY KEY,
			full_name TEXT NOT NULL,
			passbook_number TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL DEFAULT '',
			branch_name TEXT NOT NULL DEFAULT '',
			branch_code TEXT NOT NULL DEFAULT '',
			group_id UUID REFERENCES groups(id),
			is_returning BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS loans (
			id UUID PRIMARY KEY,
			category TEXT NOT NULL,
			group_id UUID REFERENCES groups(id),
			client_id UUID REFERENCES clients(id),
			client_ids JSONB NOT NULL DEFAULT '[]',
			branch_name TEXT NOT NULL DEFAULT '',
			branch_code TEXT NOT NULL DEFAULT '',
			loan_officer TEXT NOT NULL DEFAULT '',
			currency TEXT NOT NULL,
			loan_amount NUMERIC(18,2) NOT NULL,
			interest_rate NUMERIC(9,4) NOT NULL DEFAULT 0,
			payment_plan TEXT NOT NULL,
			duration_number INTEGER NOT NULL DEFAULT 0,
			duration_unit TEXT NOT NULL DEFAULT '',
			returning_client BOOLEAN NOT NULL DEFAULT FALSE,
			processing_fee_percent NUMERIC(9,4) NOT NULL DEFAULT 0,
			collateral_cash_percent NUMERIC(9,4) NOT NULL DEFAULT 0,
			processing_fee_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
			collateral_cash_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
			form_fee_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
			inspection_fee_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
			net_disbursed_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
			total_amount_to_be_paid NUMERIC(18,2) NOT NULL DEFAULT 0,
			cash_amount_credited NUMERIC(18,2) NOT NULL DEFAULT 0,
			weekly_installment NUMERIC(18,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			disbursement_date TIMESTAMPTZ,
			collection_start_date TIMESTAMPTZ,
			ending_date TIMESTAMPTZ,
			guarantors JSONB NOT NULL DEFAULT '[]',
			signatories JSONB NOT NULL DEFAULT '{}',
			creditor_profile JSONB NOT NULL DEFAULT '{}',
			collateral_items JSONB NOT NULL DEFAULT '[]',
			realized_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS loan_collections (
			id UUID PRIMARY KEY,
			loan_id UUID NOT NULL REFERENCES loans(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			member_name TEXT NOT NULL DEFAULT '',
			scheduled_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
			amount_collected NUMERIC(18,2) NOT NULL DEFAULT 0,
			advance_payment NUMERIC(18,2) NOT NULL DEFAULT 0,
			field_balance NUMERIC(18,2) NOT NULL DEFAULT 0,
			currency TEXT NOT NULL,
			collection_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (loan_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS distributions (
			id UUID PRIMARY KEY,
			loan_id UUID NOT NULL REFERENCES loans(id) ON DELETE CASCADE,
			member_name TEXT NOT NULL DEFAULT '',
			amount NUMERIC(18,2) NOT NULL,
			currency TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS savings_accounts (
			id UUID PRIMARY KEY,
			client_id UUID NOT NULL UNIQUE REFERENCES clients(id),
			currency TEXT NOT NULL,
			balance NUMERIC(18,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS savings_transactions (
			id UUID PRIMARY KEY,
			account_id UUID NOT NULL REFERENCES savings_accounts(id),
			type TEXT NOT NULL,
			amount NUMERIC(18,2) NOT NULL,
			currency TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			memo TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS metric_events (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			value NUMERIC(18,2) NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			branch_name TEXT NOT NULL DEFAULT '',
			branch_code TEXT NOT NULL DEFAULT '',
			loan_officer TEXT NOT NULL DEFAULT '',
			currency TEXT NOT NULL DEFAULT '',
			loan_id UUID,
			group_id UUID,
			client_id UUID,
			meta JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS metric_events_name_idx ON metric_events (name)`,
		`CREATE INDEX IF NOT EXISTS metric_events_loan_idx ON metric_events (loan_id)`,
		`CREATE TABLE IF NOT EXISTS loan_agreements (
			id UUID PRIMARY KEY,
			loan_id UUID NOT NULL UNIQUE REFERENCES loans(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id UUID PRIMARY KEY,
			description TEXT NOT NULL,
			amount NUMERIC(18,2) NOT NULL,
			currency TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			branch_name TEXT NOT NULL DEFAULT '',
			branch_code TEXT NOT NULL DEFAULT '',
			recorded_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run schema migration: %w", err)
		}
	}

	return nil
}
