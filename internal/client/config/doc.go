// Package config loads runtime configuration for the arch1v terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Environment: ARCH1V_* variables, plus a .env file in the working
//     directory if one exists.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the archive server
//	-s string   storage backend (sqlite|badger)
//	-d string   storage path
//	-l string   log level (debug|info|warn|error)
//	-b string   log backend (slog|zap)
//	-n int      notice lifetime (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the notice lifetime, so it can be
// either a string like "5s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8080",
//	  "storage_backend": "sqlite",
//	  "storage_path": "arch1v.db",
//	  "log_level": "info",
//	  "log_backend": "slog",
//	  "notice_ttl": "5s"
//	}
//
// Environment variables
//
//	ARCH1V_SERVER_URL, ARCH1V_STORAGE_BACKEND, ARCH1V_STORAGE_PATH,
//	ARCH1V_LOG_LEVEL, ARCH1V_LOG_BACKEND, ARCH1V_NOTICE_TTL ("5s")
package config
