package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the ledger schema used for local bootstrap.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id BIGSERIAL PRIMARY KEY,
	code VARCHAR(20) NOT NULL UNIQUE,
	description VARCHAR(255) NOT NULL,
	type VARCHAR(16) NOT NULL,
	nature VARCHAR(8) NOT NULL,
	level INT NOT NULL CHECK (level >= 1),
	parent_id BIGINT REFERENCES accounts(id),
	accepts_postings BOOLEAN NOT NULL DEFAULT TRUE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_accounts_code_pattern ON accounts (code varchar_pattern_ops);

CREATE TABLE IF NOT EXISTS reason_codes (
	id BIGSERIAL PRIMARY KEY,
	code VARCHAR(10) NOT NULL UNIQUE,
	description VARCHAR(255) NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS cost_centers (
	id BIGSERIAL PRIMARY KEY,
	code VARCHAR(10) NOT NULL UNIQUE,
	description VARCHAR(255) NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id BIGSERIAL PRIMARY KEY,
	entry_date DATE NOT NULL,
	batch_number VARCHAR(20),
	reason_code_id BIGINT NOT NULL REFERENCES reason_codes(id),
	memo VARCHAR(500),
	user_id BIGINT,
	status VARCHAR(10) NOT NULL DEFAULT 'POSTED' CHECK (status IN ('POSTED','REPLACED')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_date ON ledger_entries (entry_date);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_batch ON ledger_entries (batch_number);

CREATE TABLE IF NOT EXISTS line_items (
	id BIGSERIAL PRIMARY KEY,
	entry_id BIGINT NOT NULL REFERENCES ledger_entries(id) ON DELETE CASCADE,
	position INT NOT NULL,
	account_id BIGINT NOT NULL REFERENCES accounts(id),
	direction VARCHAR(6) NOT NULL CHECK (direction IN ('DEBIT','CREDIT')),
	amount NUMERIC(15,2) NOT NULL CHECK (amount >= 0),
	cost_center_id BIGINT REFERENCES cost_centers(id)
);
CREATE INDEX IF NOT EXISTS idx_line_items_entry ON line_items (entry_id, position);
CREATE INDEX IF NOT EXISTS idx_line_items_account ON line_items (account_id);

CREATE TABLE IF NOT EXISTS audit_logs (
	id BIGSERIAL PRIMARY KEY,
	actor_id BIGINT,
	action TEXT NOT NULL,
	entity TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	meta JSONB,
	occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the ledger tables when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("platform/db: ensure schema: %w", err)
	}
	return nil
}
