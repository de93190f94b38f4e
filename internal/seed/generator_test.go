//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package seed

import (
	"strings"
	"testing"
)

func TestNewGeneratorWithSeedDeterministic(t *testing.T) {
	g1 := NewGeneratorWithSeed(nil, 12345)
	g2 := NewGeneratorWithSeed(nil, 12345)

	if len(g1.tickers) != len(g2.tickers) {
		t.Fatalf("ticker pool sizes differ: %d vs %d",
			len(g1.tickers), len(g2.tickers))
	}
	for i := range g1.tickers {
		if g1.tickers[i] != g2.tickers[i] {
			t.Errorf("ticker %d differs: %q vs %q", i, g1.tickers[i], g2.tickers[i])
		}
	}
	for i := range g1.batchIDs {
		if g1.batchIDs[i] != g2.batchIDs[i] {
			t.Errorf("batch id %d differs: %q vs %q", i, g1.batchIDs[i], g2.batchIDs[i])
		}
	}
}

func TestGeneratorPools(t *testing.T) {
	g := NewGeneratorWithSeed(nil, 1)

	if len(g.tickers) == 0 || len(g.batchIDs) == 0 {
		t.Fatal("generator pools are empty")
	}

	for _, ticker := range g.tickers {
		if ticker != strings.ToUpper(ticker) {
			t.Errorf("ticker %q is not upper-cased", ticker)
		}
		if len(ticker) < 3 || len(ticker) > 4 {
			t.Errorf("ticker %q has unexpected length", ticker)
		}
	}

	for _, id := range g.batchIDs {
		if !strings.HasPrefix(id, "batch-") {
			t.Errorf("batch id %q missing prefix", id)
		}
	}
}

func TestMustJSON(t *testing.T) {
	got := string(mustJSON(map[string]any{"batch_id": "batch-000001"}))
	if got != `{"batch_id":"batch-000001"}` {
		t.Errorf("mustJSON = %s", got)
	}
}
