package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/platform/id"
	"github.com/medinal/swade-character-creator/internal/platform/pagination"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/advancement"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/availability"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/ledger"
	"github.com/medinal/swade-character-creator/internal/services/game/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/medinal/swade-character-creator/internal/services/game/app"

// Service runs the rules engine against stored characters.
type Service struct {
	cfg        swade.GameConfig
	catalog    *content.Catalog
	ledger     *ledger.Ledger
	machine    *advancement.Machine
	characters storage.CharacterStore
	locks      *keyedLocks
	tracer     trace.Tracer
	now        func() time.Time
	newID      func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how character ids are minted.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService validates cfg, loads the catalog once from contentStore and
// returns a service writing to characters.
func NewService(ctx context.Context, cfg swade.GameConfig, contentStore storage.ContentStore, characters storage.CharacterStore, opts ...Option) (*Service, error) {
	if contentStore == nil {
		return nil, errors.New("content store is required")
	}
	if characters == nil {
		return nil, errors.New("character store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	data, err := contentStore.LoadContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	catalog, err := content.New(data)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	log.Printf("swade catalog loaded: %d attributes, %d skills, %d edges, %d hindrances, %d powers",
		len(data.Attributes), len(data.Skills), len(data.Edges), len(data.Hindrances), len(data.Powers))
	return newService(cfg, catalog, characters, opts...), nil
}

func newService(cfg swade.GameConfig, catalog *content.Catalog, characters storage.CharacterStore, opts ...Option) *Service {
	s := &Service{
		cfg:        cfg,
		catalog:    catalog,
		ledger:     ledger.New(cfg, catalog),
		machine:    advancement.New(cfg, catalog),
		characters: characters,
		locks:      newKeyedLocks(),
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
		newID:      id.NewID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Config returns the rule configuration.
func (s *Service) Config() swade.GameConfig { return s.cfg }

// Catalog returns the loaded reference catalog.
func (s *Service) Catalog() *content.Catalog { return s.catalog }

// CreateCharacter stores a new creation-phase character. An empty id is
// replaced by a generated one.
func (s *Service) CreateCharacter(ctx context.Context, characterID, name string) (CharacterView, error) {
	ctx, span := s.start(ctx, "CreateCharacter", characterID)
	defer span.End()

	characterID = strings.TrimSpace(characterID)
	if characterID == "" {
		generated, err := s.newID()
		if err != nil {
			return CharacterView{}, fail(span, err)
		}
		characterID = generated
	}
	snapshot, err := ledger.NewCharacter(s.cfg, s.catalog, characterID, name)
	if err != nil {
		return CharacterView{}, fail(span, err)
	}
	now := s.now().UTC()
	record := storage.CharacterRecord{Snapshot: snapshot, Version: 1, CreatedAt: now, UpdatedAt: now}
	if err := s.characters.CreateCharacter(ctx, record); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return CharacterView{}, fail(span, apperrors.WithMetadata(apperrors.CodeAlreadyExists,
				fmt.Sprintf("character %q already exists", characterID),
				map[string]string{"Kind": "Character", "ID": characterID}))
		}
		log.Printf("create character %s: %v", characterID, err)
		return CharacterView{}, fail(span, err)
	}
	return s.view(record), nil
}

// GetCharacter loads a character with its budgets and derived statistics.
func (s *Service) GetCharacter(ctx context.Context, characterID string) (CharacterView, error) {
	ctx, span := s.start(ctx, "GetCharacter", characterID)
	defer span.End()

	record, err := s.load(ctx, characterID)
	if err != nil {
		return CharacterView{}, fail(span, err)
	}
	return s.view(record), nil
}

// ListCharacters returns one page of stored characters.
func (s *Service) ListCharacters(ctx context.Context, pageSize int, pageToken string) ([]CharacterSummary, string, error) {
	ctx, span := s.start(ctx, "ListCharacters", "")
	defer span.End()

	pageSize = pagination.ClampPageSize(pageSize, pagination.PageSizeConfig{Default: defaultPageSize, Max: maxPageSize})
	page, err := s.characters.ListCharacters(ctx, pageSize, pageToken)
	if err != nil {
		return nil, "", fail(span, err)
	}
	out := make([]CharacterSummary, 0, len(page.Characters))
	for _, record := range page.Characters {
		out = append(out, s.summary(record))
	}
	return out, page.NextPageToken, nil
}

// DeleteCharacter removes a stored character.
func (s *Service) DeleteCharacter(ctx context.Context, characterID string) error {
	ctx, span := s.start(ctx, "DeleteCharacter", characterID)
	defer span.End()

	characterID, err := normalizeCharacterID(characterID)
	if err != nil {
		return fail(span, err)
	}
	unlock := s.locks.lock(characterID)
	defer unlock()
	if err := s.characters.DeleteCharacter(ctx, characterID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fail(span, characterNotFound(characterID))
		}
		return fail(span, err)
	}
	return nil
}

// Apply runs one build mutation through the ledger.
func (s *Service) Apply(ctx context.Context, characterID string, req ledger.Request, opts ledger.Options) (CharacterView, error) {
	mutation, err := req.Mutation()
	if err != nil {
		_, span := s.start(ctx, "Apply", characterID)
		defer span.End()
		return CharacterView{}, fail(span, err)
	}
	return s.mutate(ctx, "Apply", characterID, func(snapshot character.Snapshot) (character.Snapshot, error) {
		return s.ledger.Apply(snapshot, mutation, opts)
	}, attribute.String("swade.mutation", string(mutation.Kind())))
}

// AwardAdvance records a reached milestone.
func (s *Service) AwardAdvance(ctx context.Context, characterID string) (CharacterView, error) {
	return s.mutate(ctx, "AwardAdvance", characterID, s.machine.Award)
}

// CommitAdvance spends an awarded advance on adv.
func (s *Service) CommitAdvance(ctx context.Context, characterID string, adv character.Advance) (CharacterView, error) {
	return s.mutate(ctx, "CommitAdvance", characterID, func(snapshot character.Snapshot) (character.Snapshot, error) {
		return s.machine.Commit(snapshot, adv)
	})
}

// DerivedStats computes a character's derived statistics.
func (s *Service) DerivedStats(ctx context.Context, characterID string) (character.DerivedStats, error) {
	ctx, span := s.start(ctx, "DerivedStats", characterID)
	defer span.End()

	record, err := s.load(ctx, characterID)
	if err != nil {
		return character.DerivedStats{}, fail(span, err)
	}
	return character.Derive(record.Snapshot, s.catalog, s.cfg), nil
}

// Availability reports whether a character may take one reference entity,
// or every entity of kind when entityID is empty.
func (s *Service) Availability(ctx context.Context, characterID string, kind content.Kind, entityID string) ([]availability.Result, error) {
	ctx, span := s.start(ctx, "Availability", characterID)
	defer span.End()
	span.SetAttributes(attribute.String("swade.kind", string(kind)))

	record, err := s.load(ctx, characterID)
	if err != nil {
		return nil, fail(span, err)
	}
	if strings.TrimSpace(entityID) == "" {
		results, err := availability.List(kind, record.Snapshot, s.catalog, s.cfg)
		if err != nil {
			return nil, fail(span, err)
		}
		return results, nil
	}
	result, err := availability.Check(kind, strings.TrimSpace(entityID), record.Snapshot, s.catalog, s.cfg)
	if err != nil {
		return nil, fail(span, err)
	}
	return []availability.Result{result}, nil
}

// ListCatalog lists catalog entities of kind matching an AIP-160 filter.
func (s *Service) ListCatalog(ctx context.Context, kind content.Kind, filter string) ([]content.Entry, error) {
	_, span := s.start(ctx, "ListCatalog", "")
	defer span.End()
	span.SetAttributes(attribute.String("swade.kind", string(kind)))

	entries, err := s.catalog.List(kind, filter)
	if err != nil {
		return nil, fail(span, err)
	}
	return entries, nil
}

// mutate loads a character under its lock, runs fn and persists the result.
// Rejections leave the stored record untouched.
func (s *Service) mutate(ctx context.Context, op, characterID string, fn func(character.Snapshot) (character.Snapshot, error), attrs ...attribute.KeyValue) (CharacterView, error) {
	ctx, span := s.start(ctx, op, characterID)
	defer span.End()
	span.SetAttributes(attrs...)

	characterID, err := normalizeCharacterID(characterID)
	if err != nil {
		return CharacterView{}, fail(span, err)
	}
	unlock := s.locks.lock(characterID)
	defer unlock()

	record, err := s.load(ctx, characterID)
	if err != nil {
		return CharacterView{}, fail(span, err)
	}
	next, err := fn(record.Snapshot)
	if err != nil {
		return CharacterView{}, fail(span, err)
	}
	record.Snapshot = next
	record.Version++
	record.UpdatedAt = s.now().UTC()
	if err := s.characters.PutCharacter(ctx, record); err != nil {
		log.Printf("%s character %s: persist snapshot: %v", op, characterID, err)
		return CharacterView{}, fail(span, err)
	}
	return s.view(record), nil
}

func (s *Service) load(ctx context.Context, characterID string) (storage.CharacterRecord, error) {
	characterID, err := normalizeCharacterID(characterID)
	if err != nil {
		return storage.CharacterRecord{}, err
	}
	record, err := s.characters.GetCharacter(ctx, characterID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.CharacterRecord{}, characterNotFound(characterID)
		}
		return storage.CharacterRecord{}, err
	}
	return record, nil
}

// normalizeCharacterID trims id so every caller locks and loads under the same
// key.
func normalizeCharacterID(characterID string) (string, error) {
	characterID = strings.TrimSpace(characterID)
	if characterID == "" {
		return "", apperrors.New(apperrors.CodeCharacterEmptyID, "character id is required")
	}
	return characterID, nil
}

func (s *Service) start(ctx context.Context, op, characterID string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "swade."+op)
	if characterID != "" {
		span.SetAttributes(attribute.String("swade.character_id", characterID))
	}
	return ctx, span
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, string(apperrors.CodeOf(err)))
	return err
}

func characterNotFound(characterID string) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound,
		fmt.Sprintf("character %q not found", characterID),
		map[string]string{"Kind": "Character", "ID": characterID})
}
