// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	Addr            string        `env:"SPLITLEDGER_ADDR"             envDefault:":8080"`
	DBPath          string        `env:"SPLITLEDGER_DB_PATH"          envDefault:"./data/ledger.db"`
	LogLevel        string        `env:"LOG_LEVEL"                    envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT"                   envDefault:"text"`
	CORSOrigins     []string      `env:"SPLITLEDGER_CORS_ORIGINS"     envDefault:"*" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SPLITLEDGER_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Assistant AssistantConfig
}

// AssistantConfig controls the optional remote text-generation backend.
// The assistant falls back to its built-in rules when Token is empty.
type AssistantConfig struct {
	URL     string        `env:"SPLITLEDGER_ASSISTANT_URL"`
	Token   string        `env:"SPLITLEDGER_ASSISTANT_TOKEN"`
	Timeout time.Duration `env:"SPLITLEDGER_ASSISTANT_TIMEOUT" envDefault:"30s"`
}

// Load reads the given .env files (default ".env") when present, then parses
// the environment. Variables already set in the environment win over .env entries.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: want text or json", c.LogFormat)
	}
	if c.Addr == "" {
		return errors.New("SPLITLEDGER_ADDR must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("SPLITLEDGER_DB_PATH must not be empty")
	}
	if c.Assistant.Timeout <= 0 {
		return fmt.Errorf("invalid SPLITLEDGER_ASSISTANT_TIMEOUT %s", c.Assistant.Timeout)
	}
	return nil
}
