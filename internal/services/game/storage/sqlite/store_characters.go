package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/storage"
)

// Character methods.

// CreateCharacter persists a new character record.
func (s *Store) CreateCharacter(ctx context.Context, c storage.CharacterRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	payload, err := encodeCharacter(c)
	if err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO characters (id, name, phase, version, snapshot, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING`,
		c.Snapshot.ID, c.Snapshot.Name, string(c.Snapshot.Phase), c.Version, payload,
		toMillis(c.CreatedAt), toMillis(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create character: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create character: %w", err)
	}
	if n == 0 {
		return storage.ErrAlreadyExists
	}
	return nil
}

// PutCharacter replaces a stored character record.
func (s *Store) PutCharacter(ctx context.Context, c storage.CharacterRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	payload, err := encodeCharacter(c)
	if err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE characters
SET name = ?, phase = ?, version = ?, snapshot = ?, updated_at = ?
WHERE id = ?`,
		c.Snapshot.Name, string(c.Snapshot.Phase), c.Version, payload, toMillis(c.UpdatedAt), c.Snapshot.ID)
	if err != nil {
		return fmt.Errorf("put character: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("put character: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetCharacter fetches a character record by id.
func (s *Store) GetCharacter(ctx context.Context, id string) (storage.CharacterRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.CharacterRecord{}, err
	}
	if strings.TrimSpace(id) == "" {
		return storage.CharacterRecord{}, fmt.Errorf("character id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT version, snapshot, created_at, updated_at FROM characters WHERE id = ?`, id)
	rec, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CharacterRecord{}, storage.ErrNotFound
		}
		return storage.CharacterRecord{}, fmt.Errorf("get character: %w", err)
	}
	return rec, nil
}

// DeleteCharacter deletes a character record by id.
func (s *Store) DeleteCharacter(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("character id is required")
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListCharacters returns a page of character records ordered by id. The page
// token is the id of the last record of the previous page.
func (s *Store) ListCharacters(ctx context.Context, pageSize int, pageToken string) (storage.CharacterPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.CharacterPage{}, err
	}
	if pageSize <= 0 {
		return storage.CharacterPage{}, fmt.Errorf("page size must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT version, snapshot, created_at, updated_at
FROM characters
WHERE id > ?
ORDER BY id
LIMIT ?`, pageToken, pageSize+1)
	if err != nil {
		return storage.CharacterPage{}, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	page := storage.CharacterPage{Characters: make([]storage.CharacterRecord, 0, pageSize)}
	for rows.Next() {
		rec, err := scanCharacter(rows)
		if err != nil {
			return storage.CharacterPage{}, fmt.Errorf("list characters: %w", err)
		}
		page.Characters = append(page.Characters, rec)
	}
	if err := rows.Err(); err != nil {
		return storage.CharacterPage{}, fmt.Errorf("list characters: %w", err)
	}

	if len(page.Characters) > pageSize {
		page.Characters = page.Characters[:pageSize]
		page.NextPageToken = page.Characters[pageSize-1].Snapshot.ID
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (storage.CharacterRecord, error) {
	var (
		rec       storage.CharacterRecord
		payload   string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&rec.Version, &payload, &createdAt, &updatedAt); err != nil {
		return storage.CharacterRecord{}, err
	}
	var snapshot character.Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return storage.CharacterRecord{}, fmt.Errorf("decode character snapshot: %w", err)
	}
	rec.Snapshot = snapshot
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

func encodeCharacter(c storage.CharacterRecord) (string, error) {
	if strings.TrimSpace(c.Snapshot.ID) == "" {
		return "", fmt.Errorf("character id is required")
	}
	payload, err := json.Marshal(c.Snapshot)
	if err != nil {
		return "", fmt.Errorf("encode character snapshot: %w", err)
	}
	return string(payload), nil
}
