//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package db provides the bounded connection pool and query execution
// layer for invtrack-mcp. Every operation acquires a connection from the
// pool and releases it on all exit paths; callers never hold connections
// across calls.
package db

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invtrack/invtrack-mcp/internal/logging"
)

var (
	// ErrPoolClosed is returned when an operation runs after Close.
	ErrPoolClosed = errors.New("database pool is closed")

	// ErrPoolExhausted is returned when no connection becomes available
	// within the configured acquire timeout.
	ErrPoolExhausted = errors.New("no database connection available")
)

// Row is a result row keyed by column name.
type Row = map[string]any

// PoolConfig bounds the connection pool.
type PoolConfig struct {
	MinConns       int32
	MaxConns       int32
	AcquireTimeout time.Duration
}

// DefaultPoolConfig returns default pool bounds.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MinConns:       1,
		MaxConns:       5,
		AcquireTimeout: 10 * time.Second,
	}
}

// DB wraps a pgx connection pool with scoped-acquisition query helpers.
type DB struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
	closed         atomic.Bool
}

// Connect establishes a bounded connection pool and verifies it with a ping.
func Connect(ctx context.Context, connString string, cfg PoolConfig) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.MaxConns < 1 {
		cfg = DefaultPoolConfig()
	}
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	logging.Debug().
		Str("host", poolCfg.ConnConfig.Host).
		Uint16("port", poolCfg.ConnConfig.Port).
		Str("database", poolCfg.ConnConfig.Database).
		Int32("max_conns", cfg.MaxConns).
		Msg("Connecting to database")

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Msg("Connected to database")

	timeout := cfg.AcquireTimeout
	if timeout <= 0 {
		timeout = DefaultPoolConfig().AcquireTimeout
	}

	return &DB{pool: pool, acquireTimeout: timeout}, nil
}

// Pool exposes the underlying pgx pool for data generation and tests.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Close drains and closes all connections. Safe to call more than once;
// operations after Close fail with ErrPoolClosed.
func (d *DB) Close() {
	if d.closed.CompareAndSwap(false, true) {
		d.pool.Close()
		logging.Info().Msg("Database pool closed")
	}
}

func (d *DB) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	if d.closed.Load() {
		return nil, ErrPoolClosed
	}

	acquireCtx, cancel := context.WithTimeout(ctx, d.acquireTimeout)
	defer cancel()

	conn, err := d.pool.Acquire(acquireCtx)
	if err != nil {
		if d.closed.Load() {
			return nil, ErrPoolClosed
		}
		if errors.Is(acquireCtx.Err(), context.DeadlineExceeded) {
			return nil, ErrPoolExhausted
		}
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return conn, nil
}

// Query executes a read statement and returns every column as a named
// field per row.
func (d *DB) Query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	conn, err := d.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	results, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return results, nil
}

// QueryOne executes a read statement and returns the first row, or a nil
// row when nothing matched. Absence is a legitimate result at this layer;
// callers decide whether it is an error.
func (d *DB) QueryOne(ctx context.Context, sql string, args ...any) (Row, error) {
	conn, err := d.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}
	return row, nil
}

// Write executes a mutating statement inside a single-statement
// transaction and returns the affected row count. The transaction is
// rolled back on any execution error, so a failed write leaves no
// partial visible state.
func (d *DB) Write(ctx context.Context, sql string, args ...any) (int64, error) {
	conn, err := d.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("write failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Probe runs a trivial query and reports whether the database is
// reachable. It never propagates an error.
func (d *DB) Probe(ctx context.Context) bool {
	var one int
	conn, err := d.acquire(ctx)
	if err != nil {
		return false
	}
	defer conn.Release()

	if err := conn.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		logging.Error().Err(err).Msg("Database probe failed")
		return false
	}
	return true
}
