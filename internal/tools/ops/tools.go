//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package ops implements operational tools.
package ops

import (
	"context"
	"time"

	"github.com/invtrack/invtrack-mcp/internal/tools"
	"github.com/invtrack/invtrack-mcp/pkg/version"
)

func init() {
	tools.Register(tools.Tool{
		Name:        "health_check",
		Description: "Check server and database connectivity",
		Handler:     healthCheck,
	})
}

// healthCheck reports degraded rather than failing when the database is
// unreachable, so callers can always distinguish a down database from a
// down server.
func healthCheck(ctx context.Context, store tools.Store, args tools.Args) (map[string]any, error) {
	status := "healthy"
	database := "connected"
	if !store.Probe(ctx) {
		status = "degraded"
		database = "disconnected"
	}

	return map[string]any{
		"status":    status,
		"database":  database,
		"server":    "invtrack-mcp",
		"version":   version.Short(),
		"timestamp": time.Now().Format(time.RFC3339),
	}, nil
}
