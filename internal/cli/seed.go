//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/invtrack/invtrack-mcp/internal/db"
	"github.com/invtrack/invtrack-mcp/internal/seed"
)

var (
	seedTransactions int
	seedCalls        int
	seedContexts     int
	seedSeed         uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and populate it with generated data",
	Long: `Create the investment tracking tables if they do not exist and
fill them with realistic generated data for development and testing.

Example:
  invtrack-mcp seed --transactions 1000 --calls 400 --contexts 100`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedTransactions, "transactions", 0,
		"number of insider transactions to generate")
	seedCmd.Flags().IntVar(&seedCalls, "calls", 0,
		"number of LLM calls to generate")
	seedCmd.Flags().IntVar(&seedContexts, "contexts", 0,
		"number of market context snapshots to generate")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0,
		"random seed for reproducible data (0 = random)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedTransactions > 0 {
		cfg.Seed.Transactions = seedTransactions
	}
	if seedCalls > 0 {
		cfg.Seed.Calls = seedCalls
	}
	if seedContexts > 0 {
		cfg.Seed.Contexts = seedContexts
	}

	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.Database.URL, db.PoolConfig{
		MinConns:       cfg.Database.MinConns,
		MaxConns:       cfg.Database.MaxConns,
		AcquireTimeout: time.Duration(cfg.Database.AcquireTimeout) * time.Second,
	})
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	gen := seed.NewGenerator(database)
	if seedSeed != 0 {
		gen = seed.NewGeneratorWithSeed(database, seedSeed)
	}

	return gen.Run(ctx, seed.Counts{
		Transactions: cfg.Seed.Transactions,
		Calls:        cfg.Seed.Calls,
		Contexts:     cfg.Seed.Contexts,
	})
}
