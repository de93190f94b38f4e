//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package analytics implements the cross-entity analytics tools.
package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/invtrack/invtrack-mcp/internal/metrics"
	"github.com/invtrack/invtrack-mcp/internal/query"
	"github.com/invtrack/invtrack-mcp/internal/tools"
)

const (
	performersDefaultLimit = 10
	performersMaxLimit     = 50
)

func init() {
	tools.Register(tools.Tool{
		Name:        "get_portfolio_summary",
		Description: "Get overall portfolio performance summary",
		Handler:     getPortfolioSummary,
	})
	tools.Register(tools.Tool{
		Name:        "get_ticker_analysis",
		Description: "Get comprehensive analysis for a specific ticker",
		Handler:     getTickerAnalysis,
	})
	tools.Register(tools.Tool{
		Name:        "get_signal_statistics",
		Description: "Get statistics on signal generation and quality",
		Handler:     getSignalStatistics,
	})
	tools.Register(tools.Tool{
		Name:        "get_top_performers",
		Description: "Get top performing tickers by pnl, price_change, or transaction_value",
		Handler:     getTopPerformers,
	})
}

func getPortfolioSummary(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	days := args.Days("days", 30)
	since := tools.Since(days)

	callsRow, err := store.QueryOne(ctx, `
		SELECT
			COUNT(*) AS total_calls,
			COUNT(CASE WHEN is_closed = TRUE THEN 1 END) AS closed_calls,
			COUNT(CASE WHEN is_closed = FALSE THEN 1 END) AS open_calls,
			SUM(pnl_dollars) AS total_pnl,
			AVG(pnl_dollars) AS avg_pnl,
			AVG(price_change_pct) AS avg_price_change_pct,
			COUNT(CASE WHEN pnl_dollars > 0 THEN 1 END) AS winning_calls,
			COUNT(CASE WHEN pnl_dollars < 0 THEN 1 END) AS losing_calls
		FROM llm_calls
		WHERE entry_date >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve portfolio summary: %w", err)
	}

	txRow, err := store.QueryOne(ctx, `
		SELECT
			COUNT(*) AS total_transactions,
			COUNT(DISTINCT ticker) AS unique_tickers,
			COUNT(DISTINCT insider_name) AS unique_insiders,
			SUM(transaction_value) AS total_transaction_value,
			COUNT(CASE WHEN signal_generated = TRUE THEN 1 END) AS signals_generated,
			COUNT(CASE WHEN alert_sent = TRUE THEN 1 END) AS alerts_sent
		FROM insider_transactions
		WHERE transaction_date >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve portfolio summary: %w", err)
	}

	winRate := metrics.Rate(
		tools.Count(callsRow, "winning_calls"),
		tools.Count(callsRow, "closed_calls"),
	)

	return tools.Envelope(map[string]any{
		"portfolio_summary": map[string]any{
			"llm_calls":            callsRow,
			"insider_transactions": txRow,
			"win_rate_pct":         winRate,
		},
		"days": days,
	}), nil
}

func getTickerAnalysis(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	ticker := args.Upper("ticker")
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	days := args.Days("days", 30)
	since := tools.Since(days)

	txRow, err := store.QueryOne(ctx, `
		SELECT
			COUNT(*) AS transaction_count,
			COUNT(DISTINCT insider_name) AS unique_insiders,
			SUM(transaction_value) AS total_transaction_value,
			AVG(transaction_value) AS avg_transaction_value,
			SUM(shares)::bigint AS total_shares,
			COUNT(CASE WHEN signal_generated = TRUE THEN 1 END) AS signals_generated,
			COUNT(CASE WHEN signal_quality = 'high' THEN 1 END) AS high_quality_signals,
			MAX(transaction_date) AS latest_transaction_date
		FROM insider_transactions
		WHERE ticker = $1 AND transaction_date >= $2`, ticker, since)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ticker analysis: %w", err)
	}

	callsRow, err := store.QueryOne(ctx, `
		SELECT
			COUNT(*) AS call_count,
			COUNT(CASE WHEN is_closed = TRUE THEN 1 END) AS closed_calls,
			COUNT(CASE WHEN is_closed = FALSE THEN 1 END) AS open_calls,
			AVG(price_change_pct) AS avg_price_change_pct,
			SUM(pnl_dollars) AS total_pnl,
			AVG(pnl_dollars) AS avg_pnl,
			MAX(entry_date) AS latest_call_date
		FROM llm_calls
		WHERE ticker = $1 AND entry_date >= $2`, ticker, since)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ticker analysis: %w", err)
	}

	recentTx, err := store.Query(ctx, `
		SELECT * FROM insider_transactions
		WHERE ticker = $1 AND transaction_date >= $2
		ORDER BY transaction_date DESC
		LIMIT 10`, ticker, since)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ticker analysis: %w", err)
	}

	recentCalls, err := store.Query(ctx, `
		SELECT * FROM llm_calls
		WHERE ticker = $1 AND entry_date >= $2
		ORDER BY entry_date DESC
		LIMIT 10`, ticker, since)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ticker analysis: %w", err)
	}

	return tools.Envelope(map[string]any{
		"ticker": ticker,
		"analysis": map[string]any{
			"insider_transactions": txRow,
			"llm_calls":            callsRow,
		},
		"recent_transactions": recentTx,
		"recent_calls":        recentCalls,
		"days":                days,
	}), nil
}

func getSignalStatistics(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	days := args.Days("days", 30)

	row, err := store.QueryOne(ctx, `
		SELECT
			COUNT(*) AS total_transactions,
			COUNT(CASE WHEN signal_generated = TRUE THEN 1 END) AS signals_generated,
			COUNT(CASE WHEN signal_generated = FALSE THEN 1 END) AS signals_pending,
			COUNT(CASE WHEN alert_sent = TRUE THEN 1 END) AS alerts_sent,
			COUNT(CASE WHEN signal_quality = 'high' THEN 1 END) AS high_quality_signals,
			COUNT(CASE WHEN signal_quality = 'medium' THEN 1 END) AS medium_quality_signals,
			COUNT(CASE WHEN signal_quality = 'low' THEN 1 END) AS low_quality_signals,
			AVG(signal_score) AS avg_signal_score,
			AVG(final_signal_score) AS avg_final_signal_score,
			COUNT(CASE WHEN auto_rejected = TRUE THEN 1 END) AS auto_rejected_signals
		FROM insider_transactions
		WHERE transaction_date >= $1`, tools.Since(days))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve signal statistics: %w", err)
	}

	statistics := row
	if statistics == nil {
		statistics = map[string]any{}
	}
	signals := tools.Count(row, "signals_generated")
	statistics["signal_generation_rate_pct"] = metrics.Rate(
		signals, tools.Count(row, "total_transactions"))
	statistics["alert_rate_pct"] = metrics.Rate(
		tools.Count(row, "alerts_sent"), signals)

	return tools.Envelope(map[string]any{
		"statistics": statistics,
		"days":       days,
	}), nil
}

func getTopPerformers(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	days := args.Days("days", 30)
	limit := query.ClampLimit(args.Int("limit", performersDefaultLimit),
		performersDefaultLimit, performersMaxLimit)
	metric := strings.ToLower(args.String("metric"))
	if metric == "" {
		metric = "pnl"
	}

	// Unrecognized metrics fall through to the transaction_value variant;
	// this is a different fallback policy from the quality/status filters,
	// which simply match nothing.
	var sql string
	switch metric {
	case "pnl":
		sql = `
			SELECT
				ticker,
				company_name,
				COUNT(*) AS call_count,
				SUM(pnl_dollars) AS total_pnl,
				AVG(pnl_dollars) AS avg_pnl,
				AVG(price_change_pct) AS avg_price_change_pct,
				COUNT(CASE WHEN pnl_dollars > 0 THEN 1 END) AS winning_calls
			FROM llm_calls
			WHERE entry_date >= $1 AND is_closed = TRUE
			GROUP BY ticker, company_name
			ORDER BY total_pnl DESC NULLS LAST
			LIMIT $2`
	case "price_change":
		sql = `
			SELECT
				ticker,
				company_name,
				COUNT(*) AS call_count,
				AVG(price_change_pct) AS avg_price_change_pct,
				SUM(pnl_dollars) AS total_pnl
			FROM llm_calls
			WHERE entry_date >= $1 AND is_closed = TRUE
			GROUP BY ticker, company_name
			ORDER BY avg_price_change_pct DESC NULLS LAST
			LIMIT $2`
	default:
		sql = `
			SELECT
				ticker,
				company_name,
				COUNT(*) AS transaction_count,
				SUM(transaction_value) AS total_transaction_value,
				AVG(transaction_value) AS avg_transaction_value,
				COUNT(DISTINCT insider_name) AS unique_insiders
			FROM insider_transactions
			WHERE transaction_date >= $1
			GROUP BY ticker, company_name
			ORDER BY total_transaction_value DESC NULLS LAST
			LIMIT $2`
	}

	rows, err := store.Query(ctx, sql, tools.Since(days), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve top performers: %w", err)
	}

	return tools.Envelope(map[string]any{
		"top_performers": rows,
		"metric":         metric,
		"days":           days,
		"limit":          limit,
	}), nil
}
