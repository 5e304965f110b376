// Package sqlitemigrate applies embedded SQL migrations to a SQLite database.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const migrationTable = "schema_migrations"

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// ApplyMigrations executes the .sql files under migrationRoot in name order,
// each at most once, and returns the keys of the files applied by this call.
func ApplyMigrations(ctx context.Context, sqlDB *sql.DB, migrationFS fs.FS, migrationRoot string) ([]string, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("sql db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	root := strings.TrimSpace(migrationRoot)
	if root == "" {
		root = "."
	}

	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`, migrationTable)
	if _, err := sqlDB.ExecContext(ctx, createSQL); err != nil {
		return nil, fmt.Errorf("ensure migration table: %w", err)
	}

	var applied []string
	for _, file := range sqlFiles {
		key := migrationKey(root, file)

		content, err := fs.ReadFile(migrationFS, path.Join(root, file))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", file, err)
		}

		done, err := isApplied(ctx, sqlDB, key)
		if err != nil {
			return applied, fmt.Errorf("check migration %s: %w", file, err)
		}
		if done {
			continue
		}

		upSQL := ExtractUpMigration(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		if err := applyOne(ctx, sqlDB, key, upSQL); err != nil {
			return applied, fmt.Errorf("migration %s: %w", file, err)
		}
		applied = append(applied, key)
	}

	return applied, nil
}

func applyOne(ctx context.Context, sqlDB *sql.DB, key, upSQL string) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, upSQL); err != nil && !IsAlreadyExistsError(err) {
		_ = tx.Rollback()
		return fmt.Errorf("exec: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT OR IGNORE INTO %s (name, applied_at) VALUES (?, ?)", migrationTable),
		key,
		time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record: %w", err)
	}

	return tx.Commit()
}

func migrationKey(root, file string) string {
	if root == "." {
		return file
	}
	return path.Join(root, file)
}

// ExtractUpMigration returns the SQL in the -- +migrate Up section.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, downMarker)
	if downIdx == -1 {
		return content[upIdx+len(upMarker):]
	}
	return content[upIdx+len(upMarker) : downIdx]
}

// IsAlreadyExistsError reports whether this error indicates idempotent DDL success.
func IsAlreadyExistsError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func isApplied(ctx context.Context, sqlDB *sql.DB, name string) (bool, error) {
	var found int
	row := sqlDB.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name)
	err := row.Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
