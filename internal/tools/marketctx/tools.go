//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package marketctx implements the market context tools.
package marketctx

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/invtrack/invtrack-mcp/internal/db"
	"github.com/invtrack/invtrack-mcp/internal/query"
	"github.com/invtrack/invtrack-mcp/internal/tools"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// documentFields are the semi-structured columns a batch identifier may
// be embedded in.
var documentFields = []string{
	"sector_activity",
	"ceo_cfo_buys",
	"large_transactions",
	"notable_patterns",
}

func init() {
	tools.Register(tools.Tool{
		Name:        "get_market_context",
		Description: "Get market context records filtered by time window and batch ID",
		Handler:     getMarketContext,
	})
	tools.Register(tools.Tool{
		Name:        "get_latest_market_context",
		Description: "Get the most recent market context record",
		Handler:     getLatestMarketContext,
	})
	tools.Register(tools.Tool{
		Name:        "get_market_context_by_id",
		Description: "Get a specific market context record by ID",
		Handler:     getMarketContextByID,
	})
	tools.Register(tools.Tool{
		Name:        "get_market_context_summary",
		Description: "Get summary statistics of market context over a time period",
		Handler:     getMarketContextSummary,
	})
}

func getMarketContext(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	limit := query.ClampLimit(args.Int("limit", defaultLimit), defaultLimit, maxLimit)
	start := args.String("start_timestamp")
	end := args.String("end_timestamp")
	batchID := args.String("batch_id")

	var f query.Filter
	if start != "" {
		f.Add("timestamp >=", start)
	}
	if end != "" {
		f.Add("timestamp <=", end)
	}

	sql := fmt.Sprintf(`
		SELECT * FROM market_context
		WHERE %s
		ORDER BY timestamp DESC
		LIMIT %s`, f.Where(), f.Placeholder(1))

	params := append(f.Params(), limit)
	rows, err := store.Query(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve market context: %w", err)
	}

	// The store cannot conveniently match an arbitrary identifier
	// embedded anywhere inside a document column, so the batch filter is
	// a substring scan over the already time-bounded result set.
	if batchID != "" {
		rows = filterByBatch(rows, batchID)
	}

	return tools.Envelope(map[string]any{
		"market_contexts": rows,
		"count":           len(rows),
		"limit":           limit,
		"filters": map[string]any{
			"start_timestamp": start,
			"end_timestamp":   end,
			"batch_id":        batchID,
		},
	}), nil
}

// filterByBatch keeps rows where batchID appears as a substring in the
// serialized form of any document field.
func filterByBatch(rows []db.Row, batchID string) []db.Row {
	filtered := make([]db.Row, 0, len(rows))
	for _, row := range rows {
		if rowContains(row, batchID) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func rowContains(row db.Row, batchID string) bool {
	for _, field := range documentFields {
		value := row[field]
		if value == nil {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			continue
		}
		if strings.Contains(string(encoded), batchID) {
			return true
		}
	}
	return false
}

func getLatestMarketContext(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	row, err := store.QueryOne(ctx, `
		SELECT * FROM market_context
		ORDER BY timestamp DESC
		LIMIT 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve latest market context: %w", err)
	}

	if row == nil {
		// An empty table is not an error for the latest-record tool.
		return tools.Envelope(map[string]any{
			"market_context": nil,
			"message":        "No market context records found",
		}), nil
	}

	return tools.Envelope(map[string]any{"market_context": row}), nil
}

func getMarketContextByID(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	id := args.Int("context_id", 0)

	row, err := store.QueryOne(ctx, "SELECT * FROM market_context WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve market context: %w", err)
	}
	if row == nil {
		return nil, &tools.NotFoundError{Entity: "market context", ID: strconv.Itoa(id)}
	}

	return tools.Envelope(map[string]any{"market_context": row}), nil
}

func getMarketContextSummary(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	days := args.Days("days", 7)

	row, err := store.QueryOne(ctx, `
		SELECT
			COUNT(*) AS total_records,
			MIN(timestamp) AS earliest_timestamp,
			MAX(timestamp) AS latest_timestamp,
			AVG(batch_size)::float8 AS avg_batch_size,
			SUM(batch_size)::bigint AS total_batch_size
		FROM market_context
		WHERE timestamp >= $1`, tools.Since(days))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve market context summary: %w", err)
	}

	return tools.Envelope(map[string]any{
		"summary": row,
		"days":    days,
	}), nil
}
