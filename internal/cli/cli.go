//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for invtrack-mcp.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/invtrack/invtrack-mcp/internal/config"
	"github.com/invtrack/invtrack-mcp/internal/logging"
	"github.com/invtrack/invtrack-mcp/internal/tools"
	"github.com/invtrack/invtrack-mcp/pkg/version"
)

var (
	// Global flags
	cfgFile     string
	databaseURL string
	logLevel    string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "invtrack-mcp",
		Short: "Read-oriented tool server for investment tracking data",
		Long: `invtrack-mcp serves a catalog of read and aggregate tools over an
investment tracking PostgreSQL database: insider transactions, LLM trade
calls, and market context snapshots.

Tools are invoked over HTTP as JSON argument objects. The server never
mutates the tracked data; writes are limited to the seed command.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./invtrack-mcp.yaml)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if databaseURL != "" {
		cfg.Database.URL = databaseURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available tools",
	Long:  `List every tool the server exposes, with a short description.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available tools:")
		cmd.Println()
		for _, t := range tools.All() {
			cmd.Printf("  %-32s %s\n", t.Name, t.Description)
		}
	},
}
