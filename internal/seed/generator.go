//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package seed generates realistic development data for the investment
// tracking tables.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/invtrack/invtrack-mcp/internal/db"
	"github.com/invtrack/invtrack-mcp/internal/logging"
)

// Counts sets how many rows to generate per table.
type Counts struct {
	Transactions int
	Calls        int
	Contexts     int
}

// Generator produces coherent fake rows: closed calls carry pnl, alerts
// only follow generated signals, and market context documents reference
// batch identifiers that exist in llm_calls.
type Generator struct {
	db    *db.DB
	faker *gofakeit.Faker
	rng   *rand.Rand

	tickers   []string
	companies map[string]string
	batchIDs  []string
}

// NewGenerator creates a Generator with a random seed.
func NewGenerator(database *db.DB) *Generator {
	return NewGeneratorWithSeed(database, uint64(time.Now().UnixNano()))
}

// NewGeneratorWithSeed creates a Generator with a specific seed for
// reproducibility.
func NewGeneratorWithSeed(database *db.DB, seed uint64) *Generator {
	g := &Generator{
		db:        database,
		faker:     gofakeit.New(seed),
		rng:       rand.New(rand.NewSource(int64(seed))),
		companies: make(map[string]string),
	}

	for i := 0; i < 40; i++ {
		tk := strings.ToUpper(g.faker.LetterN(uint(3 + g.rng.Intn(2))))
		g.tickers = append(g.tickers, tk)
		g.companies[tk] = g.faker.Company()
	}
	for i := 0; i < 12; i++ {
		g.batchIDs = append(g.batchIDs, fmt.Sprintf("batch-%s", g.faker.DigitN(6)))
	}
	return g
}

// Run populates all three tables.
func (g *Generator) Run(ctx context.Context, counts Counts) error {
	start := time.Now()

	if err := g.seedTransactions(ctx, counts.Transactions); err != nil {
		return fmt.Errorf("failed to seed insider transactions: %w", err)
	}
	if err := g.seedCalls(ctx, counts.Calls); err != nil {
		return fmt.Errorf("failed to seed llm calls: %w", err)
	}
	if err := g.seedContexts(ctx, counts.Contexts); err != nil {
		return fmt.Errorf("failed to seed market context: %w", err)
	}

	logging.Info().
		Int("transactions", counts.Transactions).
		Int("calls", counts.Calls).
		Int("contexts", counts.Contexts).
		Dur("duration", time.Since(start)).
		Msg("Seed complete")
	return nil
}

func (g *Generator) ticker() string {
	return g.tickers[g.rng.Intn(len(g.tickers))]
}

func (g *Generator) batchID() string {
	return g.batchIDs[g.rng.Intn(len(g.batchIDs))]
}

// daysAgo returns a date within the past n days.
func (g *Generator) daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -g.rng.Intn(n))
}

func (g *Generator) seedTransactions(ctx context.Context, count int) error {
	qualities := []string{"high", "medium", "low"}

	for i := 0; i < count; i++ {
		txDate := g.daysAgo(90)
		filingDate := txDate.AddDate(0, 0, g.rng.Intn(4))
		shares := int64(100 + g.rng.Intn(50000))
		value := float64(shares) * (5 + g.rng.Float64()*495)

		generated := g.rng.Float64() < 0.6
		var quality any
		var score, finalScore any
		rejected := false
		alerted := false
		if generated {
			quality = qualities[g.rng.Intn(len(qualities))]
			s := g.rng.Float64() * 100
			score = s
			finalScore = s * (0.8 + g.rng.Float64()*0.4)
			rejected = g.rng.Float64() < 0.1
			// Alerts only go out for signals that were not rejected.
			alerted = !rejected && g.rng.Float64() < 0.5
		}

		tk := g.ticker()
		_, err := g.db.Write(ctx, `
			INSERT INTO insider_transactions
				(transaction_id, ticker, company_name, insider_name,
				 transaction_date, filing_date, shares, transaction_value,
				 signal_generated, signal_quality, signal_score,
				 final_signal_score, auto_rejected, alert_sent)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			fmt.Sprintf("TX-%s", g.faker.UUID()),
			tk,
			g.companies[tk],
			g.faker.Name(),
			txDate, filingDate, shares, value,
			generated, quality, score, finalScore, rejected, alerted)
		if err != nil {
			return err
		}
	}

	logging.Debug().Int("count", count).Msg("Seeded insider transactions")
	return nil
}

func (g *Generator) seedCalls(ctx context.Context, count int) error {
	recommendations := []string{"BUY", "SELL", "HOLD"}

	for i := 0; i < count; i++ {
		entryDate := g.daysAgo(90)
		callDate := entryDate.Add(time.Duration(g.rng.Intn(86400)) * time.Second)
		closed := g.rng.Float64() < 0.7

		status := "OPEN"
		var priceChange, pnl, holdingDays any
		if closed {
			status = "CLOSED"
			pct := -20 + g.rng.Float64()*50
			priceChange = pct
			pnl = pct * float64(100+g.rng.Intn(900))
			holdingDays = 1 + g.rng.Intn(60)
		}

		tk := g.ticker()
		_, err := g.db.Write(ctx, `
			INSERT INTO llm_calls
				(ticker, company_name, recommendation, status, is_closed,
				 entry_date, call_date, price_change_pct, pnl_dollars,
				 holding_days, batch_id, rank)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			tk,
			g.companies[tk],
			recommendations[g.rng.Intn(len(recommendations))],
			status, closed, entryDate, callDate,
			priceChange, pnl, holdingDays,
			g.batchID(), 1+g.rng.Intn(20))
		if err != nil {
			return err
		}
	}

	logging.Debug().Int("count", count).Msg("Seeded llm calls")
	return nil
}

func (g *Generator) seedContexts(ctx context.Context, count int) error {
	sectors := []string{
		"Technology", "Healthcare", "Financials", "Energy",
		"Industrials", "Consumer Discretionary",
	}

	for i := 0; i < count; i++ {
		batch := g.batchID()
		ts := g.daysAgo(30)

		sectorActivity := map[string]any{
			"batch_id": batch,
			"sectors": map[string]int{
				sectors[g.rng.Intn(len(sectors))]: 1 + g.rng.Intn(20),
				sectors[g.rng.Intn(len(sectors))]: 1 + g.rng.Intn(20),
			},
		}
		ceoCfoBuys := map[string]any{
			"batch_id": batch,
			"buys": []map[string]any{
				{"ticker": g.ticker(), "role": "CEO", "name": g.faker.Name()},
				{"ticker": g.ticker(), "role": "CFO", "name": g.faker.Name()},
			},
		}
		largeTransactions := map[string]any{
			"batch_id": batch,
			"transactions": []map[string]any{
				{"ticker": g.ticker(), "value": 1e6 + g.rng.Float64()*9e6},
			},
		}
		notablePatterns := map[string]any{
			"batch_id": batch,
			"patterns": []string{
				fmt.Sprintf("cluster buying in %s", g.ticker()),
			},
		}

		_, err := g.db.Write(ctx, `
			INSERT INTO market_context
				(timestamp, batch_size, sector_activity, ceo_cfo_buys,
				 large_transactions, notable_patterns)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			ts, 5+g.rng.Intn(45),
			mustJSON(sectorActivity), mustJSON(ceoCfoBuys),
			mustJSON(largeTransactions), mustJSON(notablePatterns))
		if err != nil {
			return err
		}
	}

	logging.Debug().Int("count", count).Msg("Seeded market context")
	return nil
}

// mustJSON serializes a document field for a JSONB column. The inputs
// are generator-built maps, so marshalling cannot fail.
func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
