package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/medinal/swade-character-creator/internal/platform/storage/sqlitemigrate"
	"github.com/medinal/swade-character-creator/internal/services/game/storage"
	"github.com/medinal/swade-character-creator/internal/services/game/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

var (
	_ storage.ContentStore   = (*Store)(nil)
	_ storage.CharacterStore = (*Store)(nil)
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis reverses toMillis for persisted millisecond timestamps.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store provides a SQLite-backed store implementing the storage interfaces.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// OpenContent opens a SQLite content catalog store at the provided path.
func OpenContent(path string) (*Store, error) {
	return openStore(path, migrations.ContentFS, "content")
}

// OpenCharacters opens a SQLite character snapshot store at the provided path.
func OpenCharacters(path string) (*Store, error) {
	return openStore(path, migrations.CharactersFS, "characters")
}

// Close closes the underlying SQLite database.
//
// Close is nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// openStore boots a SQLite database for one purpose (content or characters)
// and applies its embedded migrations before the store is handed out.
func openStore(path string, migrationFS fs.FS, migrationRoot string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrationFS, migrationRoot); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// inTx runs fn in a transaction, rolling back on any error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
