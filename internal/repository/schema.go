package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Types are kept to TEXT and INTEGER so the same DDL runs on SQLite and Postgres.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS ledger_runs (
		id          TEXT PRIMARY KEY,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		documents   INTEGER NOT NULL,
		orders      INTEGER NOT NULL,
		customers   INTEGER NOT NULL,
		warnings    INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_documents (
		run_id      TEXT NOT NULL,
		position    INTEGER NOT NULL,
		document_id TEXT NOT NULL,
		format      TEXT NOT NULL,
		hash_hex    TEXT NOT NULL,
		orders      INTEGER NOT NULL,
		warnings    INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_customers (
		id             TEXT PRIMARY KEY,
		run_id         TEXT NOT NULL,
		position       INTEGER NOT NULL,
		canonical_name TEXT NOT NULL,
		names_json     TEXT NOT NULL,
		emails_json    TEXT NOT NULL,
		phones_json    TEXT NOT NULL,
		total_units    INTEGER NOT NULL,
		paid_units     INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ledger_customers_run_idx ON ledger_customers (run_id, position)`,
	`CREATE TABLE IF NOT EXISTS ledger_orders (
		run_id         TEXT NOT NULL,
		customer_id    TEXT NOT NULL,
		position       INTEGER NOT NULL,
		document       TEXT NOT NULL,
		block_index    INTEGER NOT NULL,
		order_id       TEXT NOT NULL,
		customer_name  TEXT NOT NULL,
		email          TEXT NOT NULL,
		phone          TEXT NOT NULL,
		buyer_name     TEXT NOT NULL,
		buyer_phone    TEXT NOT NULL,
		unit_count     INTEGER NOT NULL,
		declared_units INTEGER,
		paid           INTEGER NOT NULL,
		payment_known  INTEGER NOT NULL,
		items_json     TEXT NOT NULL,
		PRIMARY KEY (run_id, document, order_id)
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_warnings (
		run_id         TEXT NOT NULL,
		seq            INTEGER NOT NULL,
		kind           TEXT NOT NULL,
		document       TEXT NOT NULL,
		block_index    INTEGER NOT NULL,
		order_ids_json TEXT NOT NULL,
		message        TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
}

// Migrate creates the ledger tables when missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
