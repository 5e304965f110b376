package storage

import (
	"context"
	"time"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrAlreadyExists indicates a create targeted an id that is already stored.
var ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "record already exists")

// CharacterRecord is a persisted character snapshot. Version increases by one
// on every accepted write.
type CharacterRecord struct {
	Snapshot  character.Snapshot
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CharacterPage is one page of character records ordered by id.
type CharacterPage struct {
	Characters    []CharacterRecord
	NextPageToken string
}

// CharacterStore persists character snapshots.
type CharacterStore interface {
	// CreateCharacter stores a new record and returns ErrAlreadyExists when
	// the id is taken.
	CreateCharacter(ctx context.Context, record CharacterRecord) error
	// PutCharacter replaces a stored record. It returns ErrNotFound when the
	// id is unknown.
	PutCharacter(ctx context.Context, record CharacterRecord) error
	GetCharacter(ctx context.Context, id string) (CharacterRecord, error)
	DeleteCharacter(ctx context.Context, id string) error
	ListCharacters(ctx context.Context, pageSize int, pageToken string) (CharacterPage, error)
}

// ContentStore persists the reference catalog.
type ContentStore interface {
	// UpsertContent inserts or replaces every entity in data, leaving other
	// stored entities untouched.
	UpsertContent(ctx context.Context, data content.Data) error
	// ReplaceContent swaps the whole stored catalog for data in one
	// transaction.
	ReplaceContent(ctx context.Context, data content.Data) error
	// LoadContent returns every stored entity in import order.
	LoadContent(ctx context.Context) (content.Data, error)
	DeleteContent(ctx context.Context, kind content.Kind, id string) error
}
