//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package calls

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

func TestGetLLMCallsFilterBinding(t *testing.T) {
	store := &fakeStore{oneRows: []db.Row{{"total": int64(0)}}}

	resp, err := getLLMCalls(context.Background(), store, tools.Args{
		"ticker":         "nvda",
		"status":         "open",
		"recommendation": "buy",
		"is_closed":      false,
	})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if resp["limit"] != defaultLimit {
		t.Errorf("limit = %v, want %d", resp["limit"], defaultLimit)
	}

	pageArgs := store.args[0]
	if len(pageArgs) != 6 {
		t.Fatalf("page query bound %d args, want 6", len(pageArgs))
	}
	if pageArgs[0] != "NVDA" || pageArgs[1] != "OPEN" || pageArgs[2] != "BUY" {
		t.Errorf("enum filters = %v, want upper-cased", pageArgs[:3])
	}
	if pageArgs[3] != false {
		t.Errorf("is_closed bound as %v, want false", pageArgs[3])
	}

	if got := len(store.args[1]); got != 4 {
		t.Errorf("count query bound %d args, want 4", got)
	}
}

func TestGetCallByID(t *testing.T) {
	store := &fakeStore{oneRows: []db.Row{{"id": int64(12)}}}

	resp, err := getCallByID(context.Background(), store,
		tools.Args{"call_id": float64(12)})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	call, ok := resp["call"].(db.Row)
	if !ok {
		t.Fatalf("call is %T, want row", resp["call"])
	}
	if call["id"] != int64(12) {
		t.Errorf("id = %v, want 12", call["id"])
	}
}

func TestGetCallByIDNotFound(t *testing.T) {
	store := &fakeStore{}

	_, err := getCallByID(context.Background(), store,
		tools.Args{"call_id": float64(99)})
	if err == nil {
		t.Fatal("handler succeeded, want not-found error")
	}
	if !tools.IsNotFound(err) {
		t.Errorf("error %v is not a NotFoundError", err)
	}
}

func TestGetOpenCalls(t *testing.T) {
	store := &fakeStore{rows: []db.Row{{"id": int64(1)}, {"id": int64(2)}}}

	resp, err := getOpenCalls(context.Background(), store, tools.Args{})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if resp["count"] != 2 {
		t.Errorf("count = %v, want 2", resp["count"])
	}
	if !strings.Contains(store.queries[0], "is_closed = FALSE") {
		t.Errorf("query missing open predicate: %q", store.queries[0])
	}
}

// Three closed calls with pnl [100, -50, 25] and one still open: two
// winners out of three closed is a 66.67% win rate.
func TestGetCallPerformanceWinRate(t *testing.T) {
	store := &fakeStore{
		oneRows: []db.Row{{
			"total_calls":   int64(4),
			"closed_calls":  int64(3),
			"open_calls":    int64(1),
			"winning_calls": int64(2),
			"losing_calls":  int64(1),
			"pending_calls": int64(1),
			"total_pnl":     75.0,
		}},
	}

	resp, err := getCallPerformance(context.Background(), store, tools.Args{})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	perf, ok := resp["performance"].(db.Row)
	if !ok {
		t.Fatalf("performance is %T, want row", resp["performance"])
	}
	if perf["win_rate_pct"] != 66.67 {
		t.Errorf("win_rate_pct = %v, want 66.67", perf["win_rate_pct"])
	}
}

func TestGetCallPerformanceEmptyWindow(t *testing.T) {
	store := &fakeStore{oneRows: []db.Row{nil}}

	resp, err := getCallPerformance(context.Background(), store, tools.Args{
		"ticker": "tsla",
	})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	perf, ok := resp["performance"].(db.Row)
	if !ok {
		t.Fatalf("performance is %T, want map", resp["performance"])
	}
	if perf["win_rate_pct"] != 0.0 {
		t.Errorf("win_rate_pct = %v, want 0", perf["win_rate_pct"])
	}

	filters := resp["filters"].(map[string]any)
	if filters["ticker"] != "TSLA" {
		t.Errorf("echoed ticker = %v, want TSLA", filters["ticker"])
	}
}

func TestGetCallPerformanceFilterBinding(t *testing.T) {
	store := &fakeStore{oneRows: []db.Row{{"closed_calls": int64(0)}}}

	_, err := getCallPerformance(context.Background(), store, tools.Args{
		"ticker":         "amd",
		"recommendation": "buy",
		"days":           float64(90),
	})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	// Window start, ticker, recommendation.
	args := store.args[0]
	if len(args) != 3 {
		t.Fatalf("bound %d args, want 3", len(args))
	}
	if args[1] != "AMD" || args[2] != "BUY" {
		t.Errorf("filters = %v, want upper-cased", args[1:])
	}
}

func TestGetCallsByBatch(t *testing.T) {
	store := &fakeStore{rows: []db.Row{{"rank": int32(1)}, {"rank": int32(2)}}}

	resp, err := getCallsByBatch(context.Background(), store,
		tools.Args{"batch_id": "batch-000042"})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if resp["batch_id"] != "batch-000042" {
		t.Errorf("batch_id = %v, want echoed back", resp["batch_id"])
	}
	if resp["count"] != 2 {
		t.Errorf("count = %v, want 2", resp["count"])
	}
	if !strings.Contains(store.queries[0], "ORDER BY rank ASC") {
		t.Errorf("query missing rank ordering: %q", store.queries[0])
	}
	if store.args[0][0] != "batch-000042" {
		t.Errorf("batch_id bound as %v", store.args[0][0])
	}
}
