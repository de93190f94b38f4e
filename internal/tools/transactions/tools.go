//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package transactions implements the insider transaction tools.
package transactions

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/invtrack/invtrack-mcp/internal/logging"
	"github.com/invtrack/invtrack-mcp/internal/query"
	"github.com/invtrack/invtrack-mcp/internal/tools"
)

const (
	defaultLimit = 100
	maxLimit     = 1000

	signalsDefaultLimit = 50
	signalsMaxLimit     = 500
)

func init() {
	tools.Register(tools.Tool{
		Name:        "get_insider_transactions",
		Description: "Query insider transactions with optional filters and pagination",
		Handler:     getInsiderTransactions,
	})
	tools.Register(tools.Tool{
		Name:        "get_transaction_by_id",
		Description: "Get a specific insider transaction by numeric or external ID",
		Handler:     getTransactionByID,
	})
	tools.Register(tools.Tool{
		Name:        "get_recent_signals",
		Description: "Get recent transactions with signals generated",
		Handler:     getRecentSignals,
	})
	tools.Register(tools.Tool{
		Name:        "get_unprocessed_transactions",
		Description: "Get transactions not yet processed for signal generation",
		Handler:     getUnprocessedTransactions,
	})
	tools.Register(tools.Tool{
		Name:        "get_insider_stats",
		Description: "Get aggregate statistics about insider transactions",
		Handler:     getInsiderStats,
	})
}

func getInsiderTransactions(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	limit := query.ClampLimit(args.Int("limit", defaultLimit), defaultLimit, maxLimit)
	offset := args.Int("offset", 0)
	if offset < 0 {
		offset = 0
	}

	var f query.Filter
	if ticker := args.Upper("ticker"); ticker != "" {
		f.Add("ticker =", ticker)
	}
	if name := args.String("insider_name"); name != "" {
		f.AddContains("insider_name", name)
	}
	if start := args.String("start_date"); start != "" {
		f.Add("transaction_date >=", start)
	}
	if end := args.String("end_date"); end != "" {
		f.Add("transaction_date <=", end)
	}
	if generated, ok := args.OptBool("signal_generated"); ok {
		f.Add("signal_generated =", generated)
	}
	if quality := strings.ToLower(args.String("signal_quality")); quality != "" {
		f.Add("signal_quality =", quality)
	}
	if sent, ok := args.OptBool("alert_sent"); ok {
		f.Add("alert_sent =", sent)
	}

	rows, total, err := query.Paginate(ctx, store, "insider_transactions", &f,
		"transaction_date DESC NULLS LAST, filing_date DESC", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve insider transactions: %w", err)
	}

	logging.Debug().Int("count", len(rows)).Msg("Retrieved insider transactions")

	return tools.Envelope(map[string]any{
		"transactions": rows,
		"count":        len(rows),
		"total":        total,
		"limit":        limit,
		"offset":       offset,
	}), nil
}

func getTransactionByID(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	id := args.String("transaction_id")
	if id == "" {
		if n := args.Int("transaction_id", 0); n > 0 {
			id = strconv.Itoa(n)
		}
	}

	// Numeric input is tried as the primary key first, then as the
	// external transaction_id.
	if numeric, err := strconv.ParseInt(id, 10, 64); err == nil {
		row, err := store.QueryOne(ctx,
			"SELECT * FROM insider_transactions WHERE id = $1", numeric)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
		}
		if row != nil {
			return tools.Envelope(map[string]any{"transaction": row}), nil
		}
	}

	row, err := store.QueryOne(ctx,
		"SELECT * FROM insider_transactions WHERE transaction_id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}
	if row == nil {
		return nil, &tools.NotFoundError{Entity: "transaction", ID: id}
	}

	return tools.Envelope(map[string]any{"transaction": row}), nil
}

func getRecentSignals(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	days := args.Days("days", 7)
	limit := query.ClampLimit(args.Int("limit", signalsDefaultLimit),
		signalsDefaultLimit, signalsMaxLimit)

	var f query.Filter
	f.Add("filing_date >=", tools.Since(days))
	if quality := strings.ToLower(args.String("signal_quality")); quality != "" {
		f.Add("signal_quality =", quality)
	}

	sql := fmt.Sprintf(`
		SELECT * FROM insider_transactions
		WHERE signal_generated = TRUE AND %s
		ORDER BY filing_date DESC, signal_score DESC NULLS LAST
		LIMIT %s`, f.Where(), f.Placeholder(1))

	params := append(f.Params(), limit)
	rows, err := store.Query(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recent signals: %w", err)
	}

	logging.Debug().Int("count", len(rows)).Msg("Retrieved recent signals")

	return tools.Envelope(map[string]any{
		"signals": rows,
		"count":   len(rows),
		"days":    days,
	}), nil
}

func getUnprocessedTransactions(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	limit := query.ClampLimit(args.Int("limit", defaultLimit), defaultLimit, maxLimit)

	rows, err := store.Query(ctx, `
		SELECT * FROM insider_transactions
		WHERE signal_generated = FALSE
		ORDER BY filing_date DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve unprocessed transactions: %w", err)
	}

	return tools.Envelope(map[string]any{
		"transactions": rows,
		"count":        len(rows),
	}), nil
}

func getInsiderStats(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	days := args.Days("days", 30)
	ticker := args.Upper("ticker")
	name := args.String("insider_name")

	var f query.Filter
	f.Add("transaction_date >=", tools.Since(days))
	if ticker != "" {
		f.Add("ticker =", ticker)
	}
	if name != "" {
		f.AddContains("insider_name", name)
	}

	sql := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_transactions,
			COUNT(DISTINCT ticker) AS unique_tickers,
			COUNT(DISTINCT insider_name) AS unique_insiders,
			SUM(transaction_value) AS total_value,
			AVG(transaction_value) AS avg_value,
			SUM(shares)::bigint AS total_shares,
			COUNT(CASE WHEN signal_generated = TRUE THEN 1 END) AS signals_generated,
			COUNT(CASE WHEN alert_sent = TRUE THEN 1 END) AS alerts_sent
		FROM insider_transactions
		WHERE %s`, f.Where())

	row, err := store.QueryOne(ctx, sql, f.Params()...)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve insider statistics: %w", err)
	}

	return tools.Envelope(map[string]any{
		"statistics": row,
		"days":       days,
		"filters": map[string]any{
			"ticker":       ticker,
			"insider_name": name,
		},
	}), nil
}
