//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
)

// Schema SQL for the investment tracking tables. Matches the schema the
// ingestion pipeline writes into; kept idempotent so seed and tests can
// run against a fresh database.
const createSchemaSQL = `
-- Insider transactions: SEC filing-derived purchases/sales, annotated by
-- the signal scoring pipeline as stages complete.
CREATE TABLE IF NOT EXISTS insider_transactions (
    id                 BIGSERIAL PRIMARY KEY,
    transaction_id     TEXT UNIQUE,
    ticker             TEXT NOT NULL,
    company_name       TEXT,
    insider_name       TEXT,
    transaction_date   DATE,
    filing_date        DATE,
    shares             BIGINT,
    transaction_value  DOUBLE PRECISION,
    signal_generated   BOOLEAN NOT NULL DEFAULT FALSE,
    signal_quality     TEXT,
    signal_score       DOUBLE PRECISION,
    final_signal_score DOUBLE PRECISION,
    auto_rejected      BOOLEAN NOT NULL DEFAULT FALSE,
    alert_sent         BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_insider_transactions_ticker
    ON insider_transactions (ticker);
CREATE INDEX IF NOT EXISTS idx_insider_transactions_transaction_date
    ON insider_transactions (transaction_date DESC);
CREATE INDEX IF NOT EXISTS idx_insider_transactions_filing_date
    ON insider_transactions (filing_date DESC);

-- LLM calls: algorithmic trade recommendations. Created open; pnl_dollars
-- transitions from NULL to a signed value when the call is closed.
CREATE TABLE IF NOT EXISTS llm_calls (
    id               BIGSERIAL PRIMARY KEY,
    ticker           TEXT NOT NULL,
    company_name     TEXT,
    recommendation   TEXT,
    status           TEXT,
    is_closed        BOOLEAN NOT NULL DEFAULT FALSE,
    entry_date       DATE,
    call_date        TIMESTAMPTZ,
    price_change_pct DOUBLE PRECISION,
    pnl_dollars      DOUBLE PRECISION,
    holding_days     INTEGER,
    batch_id         TEXT,
    rank             INTEGER
);

CREATE INDEX IF NOT EXISTS idx_llm_calls_ticker ON llm_calls (ticker);
CREATE INDEX IF NOT EXISTS idx_llm_calls_entry_date ON llm_calls (entry_date DESC);
CREATE INDEX IF NOT EXISTS idx_llm_calls_batch_id ON llm_calls (batch_id);

-- Market context: per-batch market snapshots with semi-structured
-- document fields produced by the ingestion run.
CREATE TABLE IF NOT EXISTS market_context (
    id                 BIGSERIAL PRIMARY KEY,
    timestamp          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    batch_size         INTEGER,
    sector_activity    JSONB,
    ceo_cfo_buys       JSONB,
    large_transactions JSONB,
    notable_patterns   JSONB
);

CREATE INDEX IF NOT EXISTS idx_market_context_timestamp
    ON market_context (timestamp DESC);
`

// EnsureSchema creates the investment tracking tables if they do not
// already exist.
func (d *DB) EnsureSchema(ctx context.Context) error {
	conn, err := d.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
