package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the memory service.
// Environment variables are parsed from the MEMORY_SERVICE_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage Configuration
	StoreDriver string `envconfig:"STORE_DRIVER" default:"jsonl"`
	DataDir     string `envconfig:"DATA_DIR" default:"./data/memories"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/memories.db"`

	// Retention policy applied by the cleanup endpoint when the caller does
	// not supply its own window.
	RetentionDays int `envconfig:"RETENTION_DAYS" default:"90"`

	// LLM classifier: anthropic | ollama | none
	LLMProvider    string        `envconfig:"LLM_PROVIDER" default:"none"`
	LLMModel       string        `envconfig:"LLM_MODEL" default:""`
	LLMTimeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"10s"`
	OllamaURL      string        `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	AnthropicModel string        `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-haiku-latest"`
}

// ResolveDefaults validates the driver/provider selections and derives
// dependent defaults.
func (c *Config) ResolveDefaults() error {
	switch c.StoreDriver {
	case "jsonl", "sqlite":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	switch c.LLMProvider {
	case "anthropic":
		if c.LLMModel == "" {
			c.LLMModel = c.AnthropicModel
		}
	case "ollama":
		if c.LLMModel == "" {
			c.LLMModel = "llama3.1"
		}
	case "none":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER: %s", c.LLMProvider)
	}
	if c.RetentionDays <= 0 {
		return fmt.Errorf("RETENTION_DAYS must be positive, got %d", c.RetentionDays)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Example: MEMORY_SERVICE_HTTP_PORT, MEMORY_SERVICE_STORE_DRIVER.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MEMORY_SERVICE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("store_driver", cfg.StoreDriver).
		Str("data_dir", cfg.DataDir).
		Str("llm_provider", cfg.LLMProvider).
		Str("llm_model", cfg.LLMModel).
		Dur("llm_timeout", cfg.LLMTimeout).
		Int("retention_days", cfg.RetentionDays).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		Environment:   EnvTesting,
		HTTPPort:      8080,
		StoreDriver:   "jsonl",
		DataDir:       "./testdata/memories",
		SQLitePath:    ":memory:",
		RetentionDays: 90,
		LLMProvider:   "none",
		LLMTimeout:    time.Second,
	}
}

// IsTesting returns true if the environment is set to testing.
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
