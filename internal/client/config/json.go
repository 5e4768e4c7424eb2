package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/arch1v/internal/flagx"
	"github.com/dmitrijs2005/arch1v/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields leave the current value alone.
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	StorageBackend string         `json:"storage_backend"`
	StoragePath    string         `json:"storage_path"`
	LogLevel       string         `json:"log_level"`
	LogBackend     string         `json:"log_backend"`
	NoticeTTL      timex.Duration `json:"notice_ttl"`
}

// parseJson overlays cfg with the file given by -c or -config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	setIf(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setIf(&cfg.StorageBackend, jc.StorageBackend)
	setIf(&cfg.StoragePath, jc.StoragePath)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogBackend, jc.LogBackend)
	if jc.NoticeTTL.Duration > 0 {
		cfg.NoticeTTL = jc.NoticeTTL.Duration
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
