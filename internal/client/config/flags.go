package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/arch1v/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the archive server
//	-s string   storage backend (sqlite|badger)
//	-d string   storage path
//	-l string   log level
//	-b string   log backend (slog|zap)
//	-n int      notice lifetime in seconds
//
// Unknown flags are filtered out with flagx.FilterArgs so that -c/-config
// and flags of other components do not interfere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-d", "-l", "-b", "-n"})

	fs := flag.NewFlagSet("arch1v", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the archive server")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend (sqlite|badger)")
	fs.StringVar(&cfg.StoragePath, "d", cfg.StoragePath, "storage path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogBackend, "b", cfg.LogBackend, "log backend (slog|zap)")
	noticeTTL := fs.Int("n", int(cfg.NoticeTTL.Seconds()), "notice lifetime (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.NoticeTTL = time.Duration(*noticeTTL) * time.Second
	return nil
}
