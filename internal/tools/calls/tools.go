//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package calls implements the LLM trade call tools.
package calls

import (
	"context"
	"fmt"
	"strconv"

	"github.com/invtrack/invtrack-mcp/internal/logging"
	"github.com/invtrack/invtrack-mcp/internal/metrics"
	"github.com/invtrack/invtrack-mcp/internal/query"
	"github.com/invtrack/invtrack-mcp/internal/tools"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

func init() {
	tools.Register(tools.Tool{
		Name:        "get_llm_calls",
		Description: "Query LLM calls with optional filters and pagination",
		Handler:     getLLMCalls,
	})
	tools.Register(tools.Tool{
		Name:        "get_call_by_id",
		Description: "Get a specific LLM call by ID",
		Handler:     getCallByID,
	})
	tools.Register(tools.Tool{
		Name:        "get_open_calls",
		Description: "Get open calls that have not been closed yet",
		Handler:     getOpenCalls,
	})
	tools.Register(tools.Tool{
		Name:        "get_call_performance",
		Description: "Get performance metrics for LLM calls, including win rate",
		Handler:     getCallPerformance,
	})
	tools.Register(tools.Tool{
		Name:        "get_calls_by_batch",
		Description: "Get all LLM calls from a specific batch",
		Handler:     getCallsByBatch,
	})
}

func getLLMCalls(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	limit := query.ClampLimit(args.Int("limit", defaultLimit), defaultLimit, maxLimit)
	offset := args.Int("offset", 0)
	if offset < 0 {
		offset = 0
	}

	var f query.Filter
	if ticker := args.Upper("ticker"); ticker != "" {
		f.Add("ticker =", ticker)
	}
	if status := args.Upper("status"); status != "" {
		f.Add("status =", status)
	}
	if rec := args.Upper("recommendation"); rec != "" {
		f.Add("recommendation =", rec)
	}
	if closed, ok := args.OptBool("is_closed"); ok {
		f.Add("is_closed =", closed)
	}
	if start := args.String("start_date"); start != "" {
		f.Add("entry_date >=", start)
	}
	if end := args.String("end_date"); end != "" {
		f.Add("entry_date <=", end)
	}

	rows, total, err := query.Paginate(ctx, store, "llm_calls", &f,
		"entry_date DESC, call_date DESC", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve LLM calls: %w", err)
	}

	logging.Debug().Int("count", len(rows)).Msg("Retrieved LLM calls")

	return tools.Envelope(map[string]any{
		"calls":  rows,
		"count":  len(rows),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}), nil
}

func getCallByID(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	id := args.Int("call_id", 0)

	row, err := store.QueryOne(ctx, "SELECT * FROM llm_calls WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve call: %w", err)
	}
	if row == nil {
		return nil, &tools.NotFoundError{Entity: "call", ID: strconv.Itoa(id)}
	}

	return tools.Envelope(map[string]any{"call": row}), nil
}

func getOpenCalls(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	limit := query.ClampLimit(args.Int("limit", defaultLimit), defaultLimit, maxLimit)

	rows, err := store.Query(ctx, `
		SELECT * FROM llm_calls
		WHERE is_closed = FALSE
		ORDER BY entry_date DESC, call_date DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve open calls: %w", err)
	}

	return tools.Envelope(map[string]any{
		"calls": rows,
		"count": len(rows),
	}), nil
}

func getCallPerformance(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	days := args.Days("days", 30)
	ticker := args.Upper("ticker")
	rec := args.Upper("recommendation")

	var f query.Filter
	f.Add("entry_date >=", tools.Since(days))
	if ticker != "" {
		f.Add("ticker =", ticker)
	}
	if rec != "" {
		f.Add("recommendation =", rec)
	}

	sql := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_calls,
			COUNT(CASE WHEN is_closed = TRUE THEN 1 END) AS closed_calls,
			COUNT(CASE WHEN is_closed = FALSE THEN 1 END) AS open_calls,
			AVG(price_change_pct) AS avg_price_change_pct,
			SUM(pnl_dollars) AS total_pnl,
			AVG(pnl_dollars) AS avg_pnl,
			AVG(holding_days)::float8 AS avg_holding_days,
			COUNT(CASE WHEN pnl_dollars > 0 THEN 1 END) AS winning_calls,
			COUNT(CASE WHEN pnl_dollars < 0 THEN 1 END) AS losing_calls,
			COUNT(CASE WHEN pnl_dollars IS NULL THEN 1 END) AS pending_calls
		FROM llm_calls
		WHERE %s`, f.Where())

	row, err := store.QueryOne(ctx, sql, f.Params()...)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve call performance: %w", err)
	}

	performance := row
	if performance == nil {
		performance = map[string]any{}
	}
	performance["win_rate_pct"] = metrics.Rate(
		tools.Count(row, "winning_calls"),
		tools.Count(row, "closed_calls"),
	)

	return tools.Envelope(map[string]any{
		"performance": performance,
		"days":        days,
		"filters": map[string]any{
			"ticker":         ticker,
			"recommendation": rec,
		},
	}), nil
}

func getCallsByBatch(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	batchID := args.String("batch_id")

	rows, err := store.Query(ctx, `
		SELECT * FROM llm_calls
		WHERE batch_id = $1
		ORDER BY rank ASC, call_date DESC`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve calls by batch: %w", err)
	}

	logging.Debug().Str("batch_id", batchID).Int("count", len(rows)).Msg("Retrieved batch calls")

	return tools.Envelope(map[string]any{
		"calls":    rows,
		"count":    len(rows),
		"batch_id": batchID,
	}), nil
}
