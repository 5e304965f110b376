package domain

import (
	"context"

	"github.com/medinal/swade-character-creator/internal/services/game/app"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/availability"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/ledger"
)

// CharacterService is the slice of the character builder the tools call.
type CharacterService interface {
	CreateCharacter(ctx context.Context, characterID, name string) (app.CharacterView, error)
	GetCharacter(ctx context.Context, characterID string) (app.CharacterView, error)
	ListCharacters(ctx context.Context, pageSize int, pageToken string) ([]app.CharacterSummary, string, error)
	Apply(ctx context.Context, characterID string, req ledger.Request, opts ledger.Options) (app.CharacterView, error)
	AwardAdvance(ctx context.Context, characterID string) (app.CharacterView, error)
	CommitAdvance(ctx context.Context, characterID string, adv character.Advance) (app.CharacterView, error)
	DerivedStats(ctx context.Context, characterID string) (character.DerivedStats, error)
	Availability(ctx context.Context, characterID string, kind content.Kind, entityID string) ([]availability.Result, error)
	ListCatalog(ctx context.Context, kind content.Kind, filter string) ([]content.Entry, error)
}

var _ CharacterService = (*app.Service)(nil)
