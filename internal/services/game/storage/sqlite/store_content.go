package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/storage"
)

// contentRow is one catalog entity as stored.
type contentRow struct {
	kind    content.Kind
	id      string
	name    string
	payload []byte
}

// UpsertContent inserts or replaces every entity in data. Existing entities
// keep their position; new ones are appended after the stored ones.
func (s *Store) UpsertContent(ctx context.Context, data content.Data) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	rows, err := contentRows(data)
	if err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.upsertRows(ctx, tx, rows)
	})
}

// ReplaceContent deletes the stored catalog and writes data in its place.
func (s *Store) ReplaceContent(ctx context.Context, data content.Data) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	rows, err := contentRows(data)
	if err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM content_entities`); err != nil {
			return fmt.Errorf("clear content: %w", err)
		}
		return s.upsertRows(ctx, tx, rows)
	})
}

// LoadContent reads every stored entity back into catalog data.
func (s *Store) LoadContent(ctx context.Context) (content.Data, error) {
	if err := s.ready(ctx); err != nil {
		return content.Data{}, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT kind, id, name, payload FROM content_entities ORDER BY kind, position, id`)
	if err != nil {
		return content.Data{}, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var data content.Data
	for rows.Next() {
		var row contentRow
		var kind string
		if err := rows.Scan(&kind, &row.id, &row.name, &row.payload); err != nil {
			return content.Data{}, fmt.Errorf("scan content: %w", err)
		}
		row.kind = content.Kind(kind)
		if err := appendRow(&data, row); err != nil {
			return content.Data{}, err
		}
	}
	if err := rows.Err(); err != nil {
		return content.Data{}, fmt.Errorf("iterate content: %w", err)
	}
	return data, nil
}

// DeleteContent removes one entity.
func (s *Store) DeleteContent(ctx context.Context, kind content.Kind, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("content id is required")
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM content_entities WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) upsertRows(ctx context.Context, tx *sql.Tx, rows []contentRow) error {
	next := map[content.Kind]int64{}
	updatedAt := toMillis(s.now())
	for _, row := range rows {
		pos, ok := next[row.kind]
		if !ok {
			if err := tx.QueryRowContext(ctx,
				`SELECT COALESCE(MAX(position), -1) + 1 FROM content_entities WHERE kind = ?`,
				string(row.kind)).Scan(&pos); err != nil {
				return fmt.Errorf("next content position: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO content_entities (kind, id, name, position, payload, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (kind, id) DO UPDATE SET
    name = excluded.name,
    payload = excluded.payload,
    updated_at = excluded.updated_at`,
			string(row.kind), row.id, row.name, pos, string(row.payload), updatedAt); err != nil {
			return fmt.Errorf("put %s %q: %w", row.kind, row.id, err)
		}
		next[row.kind] = pos + 1
	}
	return nil
}

func contentRows(data content.Data) ([]contentRow, error) {
	var out []contentRow
	add := func(kind content.Kind, id, name string, v any) error {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%s id is required", kind)
		}
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s %q: %w", kind, id, err)
		}
		out = append(out, contentRow{kind: kind, id: id, name: name, payload: payload})
		return nil
	}
	for _, v := range data.Attributes {
		if err := add(content.KindAttribute, v.ID, v.Name, v); err != nil {
			return nil, err
		}
	}
	for _, v := range data.Skills {
		if err := add(content.KindSkill, v.ID, v.Name, v); err != nil {
			return nil, err
		}
	}
	for _, v := range data.Edges {
		if err := add(content.KindEdge, v.ID, v.Name, v); err != nil {
			return nil, err
		}
	}
	for _, v := range data.Hindrances {
		if err := add(content.KindHindrance, v.ID, v.Name, v); err != nil {
			return nil, err
		}
	}
	for _, v := range data.Powers {
		if err := add(content.KindPower, v.ID, v.Name, v); err != nil {
			return nil, err
		}
	}
	for _, v := range data.Ancestries {
		if err := add(content.KindAncestry, v.ID, v.Name, v); err != nil {
			return nil, err
		}
	}
	for _, v := range data.ArcaneBackgrounds {
		if err := add(content.KindArcaneBackground, v.ID, v.Name, v); err != nil {
			return nil, err
		}
	}
	for _, v := range data.Gear {
		if err := add(content.KindGear, v.ID, v.Name, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendRow(data *content.Data, row contentRow) error {
	var err error
	switch row.kind {
	case content.KindAttribute:
		data.Attributes, err = decodeInto(data.Attributes, row)
	case content.KindSkill:
		data.Skills, err = decodeInto(data.Skills, row)
	case content.KindEdge:
		data.Edges, err = decodeInto(data.Edges, row)
	case content.KindHindrance:
		data.Hindrances, err = decodeInto(data.Hindrances, row)
	case content.KindPower:
		data.Powers, err = decodeInto(data.Powers, row)
	case content.KindAncestry:
		data.Ancestries, err = decodeInto(data.Ancestries, row)
	case content.KindArcaneBackground:
		data.ArcaneBackgrounds, err = decodeInto(data.ArcaneBackgrounds, row)
	case content.KindGear:
		data.Gear, err = decodeInto(data.Gear, row)
	default:
		err = fmt.Errorf("unknown content kind %q for %q", row.kind, row.id)
	}
	return err
}

func decodeInto[T any](items []T, row contentRow) ([]T, error) {
	var v T
	if err := json.Unmarshal(row.payload, &v); err != nil {
		return items, fmt.Errorf("decode %s %q: %w", row.kind, row.id, err)
	}
	return append(items, v), nil
}
