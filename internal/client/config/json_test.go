package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_base_url": "http://archive.example:9000",
		"notice_ttl":      "10s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		cfg := &Config{StoragePath: "keep.db"}
		require.NoError(t, parseJson(cfg, []string{"-config", pathFlag}))

		assert.Equal(t, "http://archive.example:9000", cfg.ServerBaseURL)
		assert.Equal(t, 10*time.Second, cfg.NoticeTTL)
		assert.Equal(t, "keep.db", cfg.StoragePath, "absent fields keep their value")
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{ServerBaseURL: "http://defaults:1234", NoticeTTL: 42 * time.Second}
		require.NoError(t, parseJson(cfg, nil))

		assert.Equal(t, "http://defaults:1234", cfg.ServerBaseURL)
		assert.Equal(t, 42*time.Second, cfg.NoticeTTL)
	})

	t.Run("nanosecond duration", func(t *testing.T) {
		p := writeTempJSON(t, dir, "ns.json", map[string]any{"notice_ttl": int64(3 * time.Second)})
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-c=" + p}))
		assert.Equal(t, 3*time.Second, cfg.NoticeTTL)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Error(t, parseJson(&Config{}, []string{"-config", bad}))
	})
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	err := parseFlags(cfg, []string{"-a", "http://127.0.0.1:9090", "-s", "badger", "-d", "/tmp/arch1v", "-n", "10", "-x", "ignored"})
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9090", cfg.ServerBaseURL)
	assert.Equal(t, "badger", cfg.StorageBackend)
	assert.Equal(t, "/tmp/arch1v", cfg.StoragePath)
	assert.Equal(t, 10*time.Second, cfg.NoticeTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}
