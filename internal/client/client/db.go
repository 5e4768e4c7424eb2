package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/arch1v/internal/client/migrations"
	"github.com/dmitrijs2005/arch1v/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/arch1v/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	StorageSQLite = "sqlite"
	StorageBadger = "badger"
)

// Storage is the client's durable local state.
type Storage struct {
	Metadata metadata.Repository
	close    func() error
}

func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// RunMigrations applies the embedded goose migrations. Safe to call on an
// already migrated database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// InitDatabase opens (creating if needed) the SQLite database at dsn and
// migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenStorage opens the local store for the configured backend.
func OpenStorage(ctx context.Context, backend, path string) (*Storage, error) {
	switch strings.ToLower(backend) {
	case "", StorageSQLite:
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("init sqlite storage: %w", err)
		}
		db, err := InitDatabase(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("init sqlite storage: %w", err)
		}
		return &Storage{Metadata: metadata.NewSQLiteRepository(db), close: db.Close}, nil

	case StorageBadger:
		if err := filex.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("init badger storage: %w", err)
		}
		db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
		if err != nil {
			return nil, fmt.Errorf("init badger storage: %w", err)
		}
		return &Storage{Metadata: metadata.NewBadgerRepository(db), close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
