//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/invtrack/invtrack-mcp/internal/db"
	"github.com/invtrack/invtrack-mcp/internal/logging"
	"github.com/invtrack/invtrack-mcp/internal/server"
)

var (
	servePort   int
	serveAPIKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tool catalog over HTTP",
	Long: `Start the HTTP tool server. Tools are invoked with
POST /v1/tools/{name} carrying a JSON argument object; the catalog is
listed at GET /v1/tools and liveness at GET /health.

Example:
  invtrack-mcp serve --port 8000
  invtrack-mcp serve --database-url postgres://localhost/invtrack`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"listen port")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "",
		"shared secret required on tool calls (empty disables auth)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if serveAPIKey != "" {
		cfg.Server.APIKey = serveAPIKey
	}

	if err := cfg.ValidateServe(); err != nil {
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

	// A down database is not fatal at startup; the server reports
	// degraded health until it recovers.
	if !database.Probe(ctx) {
		logging.Warn().Msg("Database probe failed at startup")
	}

	if cfg.Server.APIKey == "" {
		logging.Warn().Msg("No API key configured, authentication disabled")
	}

	srv := server.New(database, cfg.Server.Port, cfg.Server.APIKey)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
