package config

import (
	"fmt"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// EnvConfig lists the ARCH1V_* variables. Unset variables stay nil.
type EnvConfig struct {
	ServerBaseURL  *string `env:"ARCH1V_SERVER_URL"`
	StorageBackend *string `env:"ARCH1V_STORAGE_BACKEND"`
	StoragePath    *string `env:"ARCH1V_STORAGE_PATH"`
	LogLevel       *string `env:"ARCH1V_LOG_LEVEL"`
	LogBackend     *string `env:"ARCH1V_LOG_BACKEND"`
	NoticeTTL      *string `env:"ARCH1V_NOTICE_TTL"`
}

// parseEnv overlays cfg with ARCH1V_* variables. A .env file in the working
// directory is loaded first; it never overrides variables already set.
func parseEnv(cfg *Config) error {
	_ = godotenv.Load()

	var ec EnvConfig
	if _, err := env.UnmarshalFromEnviron(&ec); err != nil {
		return err
	}

	for dst, v := range map[*string]*string{
		&cfg.ServerBaseURL:  ec.ServerBaseURL,
		&cfg.StorageBackend: ec.StorageBackend,
		&cfg.StoragePath:    ec.StoragePath,
		&cfg.LogLevel:       ec.LogLevel,
		&cfg.LogBackend:     ec.LogBackend,
	} {
		if v != nil {
			setIf(dst, *v)
		}
	}

	if ec.NoticeTTL != nil && *ec.NoticeTTL != "" {
		d, err := time.ParseDuration(*ec.NoticeTTL)
		if err != nil {
			return fmt.Errorf("ARCH1V_NOTICE_TTL: %w", err)
		}
		cfg.NoticeTTL = d
	}
	return nil
}
