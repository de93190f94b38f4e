// Package main is the entry point for invtrack-mcp.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/invtrack/invtrack-mcp/internal/cli"

	// Register tools
	_ "github.com/invtrack/invtrack-mcp/internal/tools/analytics"
	_ "github.com/invtrack/invtrack-mcp/internal/tools/calls"
	_ "github.com/invtrack/invtrack-mcp/internal/tools/marketctx"
	_ "github.com/invtrack/invtrack-mcp/internal/tools/ops"
	_ "github.com/invtrack/invtrack-mcp/internal/tools/transactions"
)

func main() {
	// A .env file is optional; deployment environments inject variables
	// directly.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
