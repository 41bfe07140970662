package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const pragmaJournalModeWAL = `PRAGMA journal_mode=WAL`

// Connection pragmas ride on the DSN so the driver applies them to every
// pooled connection, not only the one that happens to run an Exec.
const (
	dsnForeignKeys = "_pragma=foreign_keys(1)"
	dsnBusyTimeout = "_pragma=busy_timeout(5000)"
)

var openDB = sql.Open

// Open returns a ready handle to target without touching its schema.
func Open(ctx context.Context, target Target) (*sql.DB, error) {
	if target.Location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrStoreOpen)
	}

	if target.Kind == KindFile {
		if err := os.MkdirAll(filepath.Dir(target.Location), 0o700); err != nil {
			return nil, fmt.Errorf("%w: create parent dir: %w", ErrStoreOpen, err)
		}
		f, err := os.OpenFile(target.Location, os.O_RDWR|os.O_CREATE, 0o600)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreOpen, err)
		}
		_ = f.Close()
	}

	db, err := openDB(target.driverName(), target.dataSourceName())
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrStoreOpen, target, err)
	}
	if target.Kind == KindMemory {
		// Each connection to :memory: is its own database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w %s: %w", ErrStoreOpen, target, err)
	}

	if err := configure(ctx, db, target.Kind); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w %s: %w", ErrStoreOpen, target, err)
	}

	if target.Kind == KindFile {
		if err := ensureDBPermissions(target.Location); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w %s: %w", ErrStoreOpen, target, err)
		}
	}
	return db, nil
}

// Initialize provisions the users schema on target. Steps run strictly in
// order: open, apply, then either hand back the handle (transient targets) or
// close it (durable targets). A failed apply closes the handle before the
// error is returned.
func Initialize(ctx context.Context, target Target, logger *slog.Logger) (Result, error) {
	return initialize(ctx, target, logger, SchemaStatements(target.Kind))
}

func initialize(ctx context.Context, target Target, logger *slog.Logger, statements []string) (Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := Open(ctx, target)
	if err != nil {
		return Result{}, err
	}

	if err := ApplySchema(ctx, db, target.Kind, statements); err != nil {
		_ = db.Close()
		return Result{}, err
	}

	logger.Info("database migration completed", "target", target.String(), "kind", target.Kind.String())

	if target.IsTransient() {
		return Result{Target: target, DB: db}, nil
	}
	if err := db.Close(); err != nil {
		return Result{}, fmt.Errorf("close %s: %w", target, err)
	}
	return Result{Target: target}, nil
}

// configure sets database-wide state. WAL mode is stored in the file itself,
// so one connection setting it is enough.
func configure(ctx context.Context, db *sql.DB, kind Kind) error {
	if kind != KindFile {
		return nil
	}
	if _, err := db.ExecContext(ctx, pragmaJournalModeWAL); err != nil {
		return fmt.Errorf("configure sqlite %q: %w", pragmaJournalModeWAL, err)
	}
	return nil
}

func ensureDBPermissions(path string) error {
	if err := os.Chmod(path, 0o600); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("set db file permissions: %w", err)
		}
	}

	walPath := path + "-wal"
	if err := os.Chmod(walPath, 0o600); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("set wal file permissions: %w", err)
		}
	}
	return nil
}
