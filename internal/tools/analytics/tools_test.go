//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package analytics

import (
	"context"
	"strings"
	"testing"

	"github.com/invtrack/invtrack-mcp/internal/db"
	"github.com/invtrack/invtrack-mcp/internal/tools"
)

type fakeStore struct {
	rows    []db.Row
	oneRows []db.Row

	queries []string
	args    [][]any
}

func (f *fakeStore) Query(ctx context.Context, sql string, args ...any) ([]db.Row, error) {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, args)
	return f.rows, nil
}

func (f *fakeStore) QueryOne(ctx context.Context, sql string, args ...any) (db.Row, error) {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, args)
	if len(f.oneRows) == 0 {
		return nil, nil
	}
	row := f.oneRows[0]
	f.oneRows = f.oneRows[1:]
	return row, nil
}

func (f *fakeStore) Probe(ctx context.Context) bool { return true }

func TestGetPortfolioSummary(t *testing.T) {
	store := &fakeStore{
		oneRows: []db.Row{
			{
				"total_calls":   int64(10),
				"closed_calls":  int64(8),
				"winning_calls": int64(6),
			},
			{
				"total_transactions": int64(50),
			},
		},
	}

	resp, err := getPortfolioSummary(context.Background(), store, tools.Args{})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if resp["days"] != 30 {
		t.Errorf("days = %v, want default 30", resp["days"])
	}

	summary, ok := resp["portfolio_summary"].(map[string]any)
	if !ok {
		t.Fatalf("portfolio_summary is %T, want map", resp["portfolio_summary"])
	}
	if summary["win_rate_pct"] != 75.0 {
		t.Errorf("win_rate_pct = %v, want 75", summary["win_rate_pct"])
	}

	callsRow, ok := summary["llm_calls"].(db.Row)
	if !ok {
		t.Fatalf("llm_calls is %T, want row", summary["llm_calls"])
	}
	if callsRow["total_calls"] != int64(10) {
		t.Errorf("total_calls = %v, want 10", callsRow["total_calls"])
	}
}

func TestGetTickerAnalysisRequiresTicker(t *testing.T) {
	store := &fakeStore{}

	_, err := getTickerAnalysis(context.Background(), store, tools.Args{})
	if err == nil {
		t.Fatal("handler succeeded without ticker, want error")
	}
	if !strings.Contains(err.Error(), "ticker is required") {
		t.Errorf("error = %v", err)
	}
}

func TestGetTickerAnalysis(t *testing.T) {
	store := &fakeStore{
		rows: []db.Row{{"id": int64(1)}},
		oneRows: []db.Row{
			{"transaction_count": int64(4)},
			{"call_count": int64(2)},
		},
	}

	resp, err := getTickerAnalysis(context.Background(), store, tools.Args{
		"ticker": "nvda",
		"days":   float64(14),
	})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if resp["ticker"] != "NVDA" {
		t.Errorf("ticker = %v, want NVDA", resp["ticker"])
	}
	if resp["days"] != 14 {
		t.Errorf("days = %v, want 14", resp["days"])
	}

	// Two aggregates and two recent-record listings.
	if len(store.queries) != 4 {
		t.Fatalf("issued %d queries, want 4", len(store.queries))
	}
	for i, args := range store.args {
		if len(args) != 2 {
			t.Errorf("query %d bound %d args, want ticker and window start", i, len(args))
		}
		if args[0] != "NVDA" {
			t.Errorf("query %d ticker = %v, want NVDA", i, args[0])
		}
	}

	analysis, ok := resp["analysis"].(map[string]any)
	if !ok {
		t.Fatalf("analysis is %T, want map", resp["analysis"])
	}
	if analysis["insider_transactions"] == nil || analysis["llm_calls"] == nil {
		t.Error("analysis missing one of the entity aggregates")
	}
}

func TestGetSignalStatisticsRates(t *testing.T) {
	store := &fakeStore{
		oneRows: []db.Row{{
			"total_transactions": int64(200),
			"signals_generated":  int64(50),
			"alerts_sent":        int64(10),
		}},
	}

	resp, err := getSignalStatistics(context.Background(), store, tools.Args{})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	stats, ok := resp["statistics"].(db.Row)
	if !ok {
		t.Fatalf("statistics is %T, want row", resp["statistics"])
	}
	if stats["signal_generation_rate_pct"] != 25.0 {
		t.Errorf("signal_generation_rate_pct = %v, want 25",
			stats["signal_generation_rate_pct"])
	}
	// Alert rate is against generated signals, not all transactions.
	if stats["alert_rate_pct"] != 20.0 {
		t.Errorf("alert_rate_pct = %v, want 20", stats["alert_rate_pct"])
	}
}

func TestGetSignalStatisticsEmptyWindow(t *testing.T) {
	store := &fakeStore{oneRows: []db.Row{nil}}

	resp, err := getSignalStatistics(context.Background(), store, tools.Args{})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	stats, ok := resp["statistics"].(db.Row)
	if !ok {
		t.Fatalf("statistics is %T, want map", resp["statistics"])
	}
	if stats["signal_generation_rate_pct"] != 0.0 {
		t.Errorf("signal_generation_rate_pct = %v, want 0",
			stats["signal_generation_rate_pct"])
	}
}

func TestGetTopPerformersMetricSwitch(t *testing.T) {
	tests := []struct {
		name       string
		metric     any
		wantMetric string
		wantTable  string
		wantOrder  string
	}{
		{"default", nil, "pnl", "llm_calls", "ORDER BY total_pnl DESC"},
		{"pnl", "pnl", "pnl", "llm_calls", "ORDER BY total_pnl DESC"},
		{"price change", "PRICE_CHANGE", "price_change", "llm_calls",
			"ORDER BY avg_price_change_pct DESC"},
		{"transaction value", "transaction_value", "transaction_value",
			"insider_transactions", "ORDER BY total_transaction_value DESC"},
		// Anything unrecognized falls through to the transaction value
		// variant rather than erroring.
		{"unrecognized", "bogus", "bogus", "insider_transactions",
			"ORDER BY total_transaction_value DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{rows: []db.Row{{"ticker": "AAPL"}}}

			args := tools.Args{}
			if tt.metric != nil {
				args["metric"] = tt.metric
			}

			resp, err := getTopPerformers(context.Background(), store, args)
			if err != nil {
				t.Fatalf("handler failed: %v", err)
			}
			if resp["metric"] != tt.wantMetric {
				t.Errorf("metric = %v, want %q", resp["metric"], tt.wantMetric)
			}

			sql := store.queries[0]
			if !strings.Contains(sql, "FROM "+tt.wantTable) {
				t.Errorf("query targets wrong table: %q", sql)
			}
			if !strings.Contains(sql, tt.wantOrder) {
				t.Errorf("query missing %q: %q", tt.wantOrder, sql)
			}
		})
	}
}

func TestGetTopPerformersLimitClamp(t *testing.T) {
	store := &fakeStore{}

	resp, err := getTopPerformers(context.Background(), store,
		tools.Args{"limit": float64(500)})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if resp["limit"] != performersDefaultLimit {
		t.Errorf("limit = %v, want clamped to %d",
			resp["limit"], performersDefaultLimit)
	}

	args := store.args[0]
	if args[1] != performersDefaultLimit {
		t.Errorf("bound limit = %v, want %d", args[1], performersDefaultLimit)
	}
}
