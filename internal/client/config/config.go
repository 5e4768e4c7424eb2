package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the arch1v terminal client.
//
// Fields:
//   - ServerBaseURL: base URL of the archive server, e.g. http://localhost:8080.
//   - StorageBackend: local session store, "sqlite" or "badger".
//   - StoragePath: SQLite file or Badger directory.
//   - LogLevel, LogBackend: see internal/logging.
//   - NoticeTTL: how long a status notice stays on screen.
type Config struct {
	ServerBaseURL  string        `validate:"required,url"`
	StorageBackend string        `validate:"oneof=sqlite badger"`
	StoragePath    string        `validate:"required"`
	LogLevel       string        `validate:"oneof=debug info warn warning error"`
	LogBackend     string        `validate:"oneof=slog zap"`
	NoticeTTL      time.Duration `validate:"gt=0"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.StorageBackend = "sqlite"
	c.StoragePath = "arch1v.db"
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.NoticeTTL = 5 * time.Second
}

// LoadConfig builds a Config from defaults, then the JSON file named by -c
// or -config, then the environment, then command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
