//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package config handles configuration management for invtrack-mcp.
// Configuration is loaded from a config file, then overridden by a small
// set of deployment environment variables (DATABASE_URL, API_KEY, PORT),
// then by CLI flags. CLI flags take precedence over everything else.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for invtrack-mcp.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Database holds connection pool configuration.
	Database DatabaseConfig `mapstructure:"database"`

	// Server holds configuration for the serve subcommand.
	Server ServerConfig `mapstructure:"server"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// DatabaseConfig holds connection pool configuration.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string.
	URL string `mapstructure:"url"`

	// MinConns is the number of standing connections kept open.
	MinConns int32 `mapstructure:"min_conns"`

	// MaxConns is the connection pool ceiling.
	MaxConns int32 `mapstructure:"max_conns"`

	// AcquireTimeout is how long a caller waits for a free connection,
	// in seconds, before the acquire fails.
	AcquireTimeout int `mapstructure:"acquire_timeout"`
}

// ServerConfig holds configuration for the HTTP tool server.
type ServerConfig struct {
	// Port is the listen port.
	Port int `mapstructure:"port"`

	// APIKey is the shared secret required on tool calls. When empty,
	// authentication is disabled (local development mode).
	APIKey string `mapstructure:"api_key"`
}

// SeedConfig holds row counts for the seed subcommand.
type SeedConfig struct {
	// Transactions is the number of insider transactions to generate.
	Transactions int `mapstructure:"transactions"`

	// Calls is the number of LLM calls to generate.
	Calls int `mapstructure:"calls"`

	// Contexts is the number of market context snapshots to generate.
	Contexts int `mapstructure:"contexts"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Database: DatabaseConfig{
			MinConns:       1,
			MaxConns:       5,
			AcquireTimeout: 10,
		},
		Server: ServerConfig{
			Port: 8000,
		},
		Seed: SeedConfig{
			Transactions: 500,
			Calls:        200,
			Contexts:     50,
		},
	}
}

// Load reads configuration from config files and the environment.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./invtrack-mcp.yaml
// 3. ~/.config/invtrack-mcp/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("invtrack-mcp")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "invtrack-mcp"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	applyEnv(cfg)

	return cfg, nil
}

// applyEnv overlays the deployment environment variables the hosting
// platform injects. These sit between the config file and CLI flags.
func applyEnv(cfg *Config) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if key := os.Getenv("API_KEY"); key != "" {
		cfg.Server.APIKey = key
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			cfg.Server.Port = p
		}
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required")
	}
	if c.Database.MinConns < 0 {
		return fmt.Errorf("database min_conns must be non-negative")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("database max_conns must be at least 1")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database max_conns must be >= min_conns")
	}
	if c.Database.AcquireTimeout < 1 {
		return fmt.Errorf("database acquire_timeout must be at least 1 second")
	}
	return nil
}

// ValidateServe checks configuration required for the serve command.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Seed.Transactions < 0 || c.Seed.Calls < 0 || c.Seed.Contexts < 0 {
		return fmt.Errorf("seed row counts must be non-negative")
	}
	return nil
}
