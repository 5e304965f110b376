package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/advancement"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content/contenttest"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/ledger"
	"github.com/medinal/swade-character-creator/internal/services/game/storage"
	"github.com/medinal/swade-character-creator/internal/services/game/storage/sqlite"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	contentStore, err := sqlite.OpenContent(filepath.Join(dir, "content.sqlite"))
	if err != nil {
		t.Fatalf("open content store: %v", err)
	}
	t.Cleanup(func() { _ = contentStore.Close() })
	characters, err := sqlite.OpenCharacters(filepath.Join(dir, "characters.sqlite"))
	if err != nil {
		t.Fatalf("open character store: %v", err)
	}
	t.Cleanup(func() { _ = characters.Close() })

	ctx := context.Background()
	if err := contentStore.ReplaceContent(ctx, contenttest.Data()); err != nil {
		t.Fatalf("seed content: %v", err)
	}
	svc, err := NewService(ctx, swade.DefaultConfig(), contentStore, characters,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() (string, error) { return "generated", nil }))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func expectCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if got := apperrors.CodeOf(err); got != code {
		t.Fatalf("expected %s, got %s (%v)", code, got, err)
	}
}

func apply(t *testing.T, svc *Service, characterID string, kind ledger.MutationKind, target string) CharacterView {
	t.Helper()
	view, err := svc.Apply(context.Background(), characterID, ledger.Request{Kind: kind, Target: target}, ledger.Options{})
	if err != nil {
		t.Fatalf("apply %s %s: %v", kind, target, err)
	}
	return view
}

func TestNewServiceRequiresStores(t *testing.T) {
	ctx := context.Background()
	if _, err := NewService(ctx, swade.DefaultConfig(), nil, &memoryCharacters{}); err == nil {
		t.Fatal("expected missing content store to be rejected")
	}
	if _, err := NewService(ctx, swade.DefaultConfig(), memoryContent{data: contenttest.Data()}, nil); err == nil {
		t.Fatal("expected missing character store to be rejected")
	}
}

func TestNewServiceValidatesConfig(t *testing.T) {
	cfg := swade.DefaultConfig()
	cfg.StartingSkillPoints = -1
	_, err := NewService(context.Background(), cfg, memoryContent{data: contenttest.Data()}, &memoryCharacters{})
	expectCode(t, err, apperrors.CodeInvalidConfig)
}

func TestNewServiceRejectsInvalidCatalog(t *testing.T) {
	data := contenttest.Data()
	data.Skills = append(data.Skills, content.Skill{ID: "lockpicking", Name: "Lockpicking", LinkedAttribute: "dexterity"})
	if _, err := NewService(context.Background(), swade.DefaultConfig(), memoryContent{data: data}, &memoryCharacters{}); err == nil {
		t.Fatal("expected a skill linked to an unknown attribute to be rejected")
	}
}

func TestCreateAndGetCharacter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCharacter(ctx, "", "Gabe")
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	if created.Snapshot.ID != "generated" || created.Version != 1 {
		t.Fatalf("unexpected created view: id %q version %d", created.Snapshot.ID, created.Version)
	}
	if created.Snapshot.Phase != character.PhaseCreation {
		t.Fatalf("expected creation phase, got %s", created.Snapshot.Phase)
	}
	if created.Budget.AttributePoints != 5 || created.Budget.SkillPoints != 12 {
		t.Fatalf("unexpected budget: %+v", created.Budget)
	}
	if created.Creation.Ready || created.Creation.NextStep != ledger.CreationStepAncestry {
		t.Fatalf("expected ancestry to be the next step, got %+v", created.Creation)
	}
	if created.AdvancementState != advancement.StateNotStarted {
		t.Fatalf("expected not_started, got %s", created.AdvancementState)
	}

	got, err := svc.GetCharacter(ctx, "generated")
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if got.Snapshot.Name != "Gabe" || got.Derived.Pace != 6 {
		t.Fatalf("unexpected stored character: %+v", got)
	}

	_, err = svc.CreateCharacter(ctx, "generated", "Again")
	expectCode(t, err, apperrors.CodeAlreadyExists)
}

func TestCreateCharacterRequiresName(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateCharacter(context.Background(), "c1", "  ")
	expectCode(t, err, apperrors.CodeCharacterEmptyName)
}

func TestGetCharacterNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetCharacter(context.Background(), "ghost")
	expectCode(t, err, apperrors.CodeNotFound)
	_, err = svc.GetCharacter(context.Background(), "")
	expectCode(t, err, apperrors.CodeCharacterEmptyID)
}

func TestApplyPersistsAcceptedSnapshots(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "c1", "Gabe"); err != nil {
		t.Fatalf("create character: %v", err)
	}

	view := apply(t, svc, "c1", ledger.KindRaiseAttribute, "agility")
	if view.Version != 2 || view.Budget.AttributeSpent != 1 {
		t.Fatalf("expected version 2 with one attribute point spent, got %d / %+v", view.Version, view.Budget)
	}

	stored, err := svc.GetCharacter(ctx, "c1")
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if stored.Snapshot.Attributes["agility"].String() != "d6" {
		t.Fatalf("expected stored agility d6, got %s", stored.Snapshot.Attributes["agility"])
	}
}

func TestApplyRejectionLeavesStoredSnapshot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "c1", "Gabe"); err != nil {
		t.Fatalf("create character: %v", err)
	}

	_, err := svc.Apply(ctx, "c1", ledger.Request{Kind: ledger.KindAddEdge, Target: "block"}, ledger.Options{})
	expectCode(t, err, apperrors.CodeRequirementNotMet)

	stored, err := svc.GetCharacter(ctx, "c1")
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if stored.Version != 1 || len(stored.Snapshot.Edges) != 0 {
		t.Fatalf("expected untouched record, got version %d edges %v", stored.Version, stored.Snapshot.Edges)
	}

	_, err = svc.Apply(ctx, "c1", ledger.Request{Kind: "juggle"}, ledger.Options{})
	expectCode(t, err, apperrors.CodeInvalidMutation)

	_, err = svc.Apply(ctx, "ghost", ledger.Request{Kind: ledger.KindAddGear, Target: "long_sword"}, ledger.Options{})
	expectCode(t, err, apperrors.CodeNotFound)
}

func TestApplyWithBypass(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "c1", "Gabe"); err != nil {
		t.Fatalf("create character: %v", err)
	}
	view, err := svc.Apply(ctx, "c1", ledger.Request{Kind: ledger.KindAddEdge, Target: "block"}, ledger.Options{BypassBudget: true, BypassRequirements: true})
	if err != nil {
		t.Fatalf("apply with bypass: %v", err)
	}
	if !view.Snapshot.HasEdge("block") {
		t.Fatal("expected block to be taken")
	}
}

func finalized(t *testing.T, svc *Service, characterID string) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, characterID, "Gabe"); err != nil {
		t.Fatalf("create character: %v", err)
	}
	if _, err := svc.Apply(ctx, characterID, ledger.Request{Kind: ledger.KindFinalizeCreation}, ledger.Options{BypassRequirements: true}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
}

func TestAdvancementFlow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateCharacter(ctx, "c1", "Gabe"); err != nil {
		t.Fatalf("create character: %v", err)
	}
	_, err := svc.AwardAdvance(ctx, "c1")
	expectCode(t, err, apperrors.CodeAdvancementRuleViolation)
	_, err = svc.Apply(ctx, "c1", ledger.Request{Kind: ledger.KindFinalizeCreation}, ledger.Options{})
	expectCode(t, err, apperrors.CodeCreationIncomplete)

	finalized(t, svc, "c2")
	awarded, err := svc.AwardAdvance(ctx, "c2")
	if err != nil {
		t.Fatalf("award advance: %v", err)
	}
	if awarded.AdvancementState != advancement.StateAdvanceAvailable {
		t.Fatalf("expected advance_available, got %s", awarded.AdvancementState)
	}

	committed, err := svc.CommitAdvance(ctx, "c2", character.Advance{SkillSteps: []string{"fighting", "shooting"}})
	if err != nil {
		t.Fatalf("commit advance: %v", err)
	}
	if committed.AdvancementState != advancement.StateAdvanceCommitted {
		t.Fatalf("expected advance_committed, got %s", committed.AdvancementState)
	}
	if len(committed.Snapshot.Advances) != 1 || committed.Snapshot.Advances[0].Summary != "Raised Fighting to d4 and Shooting to d4" {
		t.Fatalf("unexpected advance history: %+v", committed.Snapshot.Advances)
	}

	_, err = svc.CommitAdvance(ctx, "c2", character.Advance{Attribute: "agility"})
	expectCode(t, err, apperrors.CodeAdvancementRuleViolation)
}

func TestRankRisesWithAdvances(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	finalized(t, svc, "c1")

	skills := []string{"fighting", "shooting", "healing", "faith"}
	var view CharacterView
	for _, sk := range skills {
		if _, err := svc.AwardAdvance(ctx, "c1"); err != nil {
			t.Fatalf("award advance: %v", err)
		}
		var err error
		view, err = svc.CommitAdvance(ctx, "c1", character.Advance{SkillSteps: []string{sk}})
		if err != nil {
			t.Fatalf("commit %s: %v", sk, err)
		}
	}
	if view.Rank != swade.RankSeasoned {
		t.Fatalf("expected Seasoned after four advances, got %s", view.Rank)
	}
}

func TestDerivedStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "c1", "Gabe"); err != nil {
		t.Fatalf("create character: %v", err)
	}
	apply(t, svc, "c1", ledger.KindAddGear, "leather_jacket")

	stats, err := svc.DerivedStats(ctx, "c1")
	if err != nil {
		t.Fatalf("derived stats: %v", err)
	}
	want := character.Derive(mustSnapshot(t, svc, "c1"), svc.Catalog(), svc.Config())
	if stats.Toughness != want.Toughness || stats.Parry != want.Parry || stats.Pace != want.Pace {
		t.Fatalf("derived stats = %+v, want %+v", stats, want)
	}
}

func mustSnapshot(t *testing.T, svc *Service, characterID string) character.Snapshot {
	t.Helper()
	view, err := svc.GetCharacter(context.Background(), characterID)
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	return view.Snapshot
}

func TestAvailability(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "c1", "Gabe"); err != nil {
		t.Fatalf("create character: %v", err)
	}

	one, err := svc.Availability(ctx, "c1", content.KindEdge, "block")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(one) != 1 || one[0].IsAvailable {
		t.Fatalf("expected block to be unavailable, got %+v", one)
	}

	all, err := svc.Availability(ctx, "c1", content.KindEdge, "")
	if err != nil {
		t.Fatalf("availability list: %v", err)
	}
	if len(all) != len(svc.Catalog().Data().Edges) {
		t.Fatalf("expected one result per edge, got %d", len(all))
	}

	_, err = svc.Availability(ctx, "c1", content.KindEdge, "flying_kick")
	expectCode(t, err, apperrors.CodeNotFound)
}

func TestListCatalog(t *testing.T) {
	svc := newTestService(t)
	entries, err := svc.ListCatalog(context.Background(), content.KindHindrance, `severity = "major"`)
	if err != nil {
		t.Fatalf("list catalog: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected major hindrances")
	}
	for _, e := range entries {
		h, err := svc.Catalog().Hindrance(e.ID)
		if err != nil {
			t.Fatalf("hindrance %s: %v", e.ID, err)
		}
		if h.Severity != content.SeverityMajor {
			t.Fatalf("expected only major hindrances, got %s", e.ID)
		}
	}

	_, err = svc.ListCatalog(context.Background(), content.KindEdge, `colour = "red"`)
	expectCode(t, err, apperrors.CodeInvalidFilter)
}

func TestListAndDeleteCharacters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := svc.CreateCharacter(ctx, id, "Hero "+id); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	page, token, err := svc.ListCharacters(ctx, 2, "")
	if err != nil {
		t.Fatalf("list characters: %v", err)
	}
	if len(page) != 2 || token == "" {
		t.Fatalf("expected a first page of two with a token, got %d / %q", len(page), token)
	}
	rest, token, err := svc.ListCharacters(ctx, 2, token)
	if err != nil {
		t.Fatalf("list characters: %v", err)
	}
	if len(rest) != 1 || token != "" || rest[0].ID != "c" {
		t.Fatalf("unexpected last page: %+v / %q", rest, token)
	}

	if err := svc.DeleteCharacter(ctx, "b"); err != nil {
		t.Fatalf("delete character: %v", err)
	}
	expectCode(t, svc.DeleteCharacter(ctx, "b"), apperrors.CodeNotFound)
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	store := &memoryCharacters{}
	svc := newService(swade.DefaultConfig(), contenttest.Catalog(), store, WithClock(func() time.Time { return testNow }))
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "c1", "Gabe"); err != nil {
		t.Fatalf("create character: %v", err)
	}

	// Padded spellings of the id must share the lock of the stored record.
	ids := []string{"c1", " c1", "c1 ", "\tc1\n"}
	const writers = 8
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(characterID string) {
			defer wg.Done()
			if _, err := svc.Apply(ctx, characterID, ledger.Request{Kind: ledger.KindAddGear, Target: "leather_jacket"}, ledger.Options{}); err != nil {
				t.Errorf("apply: %v", err)
			}
		}(ids[i%len(ids)])
	}
	wg.Wait()

	view, err := svc.GetCharacter(ctx, "c1")
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if len(view.Snapshot.Gear) != writers || view.Version != writers+1 {
		t.Fatalf("expected %d gear and version %d, got %d / %d", writers, writers+1, len(view.Snapshot.Gear), view.Version)
	}
	if n := svc.locks.len(); n != 0 {
		t.Fatalf("expected locks to be released, %d held", n)
	}
}

func TestMutationsRejectBlankIDs(t *testing.T) {
	svc := newService(swade.DefaultConfig(), contenttest.Catalog(), &memoryCharacters{})
	ctx := context.Background()
	_, err := svc.AwardAdvance(ctx, "  ")
	expectCode(t, err, apperrors.CodeCharacterEmptyID)
	expectCode(t, svc.DeleteCharacter(ctx, " "), apperrors.CodeCharacterEmptyID)
	if n := svc.locks.len(); n != 0 {
		t.Fatalf("blank ids must not take locks, %d held", n)
	}
}

func TestDeleteCharacterTrimsID(t *testing.T) {
	store := &memoryCharacters{}
	svc := newService(swade.DefaultConfig(), contenttest.Catalog(), store)
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "c1", "Gabe"); err != nil {
		t.Fatalf("create character: %v", err)
	}
	if err := svc.DeleteCharacter(ctx, " c1 "); err != nil {
		t.Fatalf("delete character: %v", err)
	}
	_, err := svc.GetCharacter(ctx, "c1")
	expectCode(t, err, apperrors.CodeNotFound)
}

func TestApplyTracesUndecodableRequests(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	svc := newService(swade.DefaultConfig(), contenttest.Catalog(), &memoryCharacters{})
	svc.tracer = provider.Tracer("test")

	_, err := svc.Apply(context.Background(), "c1", ledger.Request{Kind: "teleport", Target: "x"}, ledger.Options{})
	expectCode(t, err, apperrors.CodeInvalidMutation)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected one span, got %d", len(spans))
	}
	if spans[0].Name() != "swade.Apply" {
		t.Fatalf("span name = %q", spans[0].Name())
	}
	if status := spans[0].Status(); status.Code != otelcodes.Error || status.Description != string(apperrors.CodeInvalidMutation) {
		t.Fatalf("span status = %+v", status)
	}
}

func TestPersistFailureIsReported(t *testing.T) {
	store := &memoryCharacters{putErr: errors.New("disk full")}
	svc := newService(swade.DefaultConfig(), contenttest.Catalog(), store)
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "c1", "Gabe"); err != nil {
		t.Fatalf("create character: %v", err)
	}
	if _, err := svc.Apply(ctx, "c1", ledger.Request{Kind: ledger.KindAddGear, Target: "leather_jacket"}, ledger.Options{}); err == nil {
		t.Fatal("expected persist failure to surface")
	}
}

type memoryContent struct {
	data content.Data
}

func (m memoryContent) UpsertContent(context.Context, content.Data) error  { return nil }
func (m memoryContent) ReplaceContent(context.Context, content.Data) error { return nil }
func (m memoryContent) LoadContent(context.Context) (content.Data, error)  { return m.data, nil }
func (m memoryContent) DeleteContent(context.Context, content.Kind, string) error {
	return nil
}

type memoryCharacters struct {
	mu      sync.Mutex
	records map[string]storage.CharacterRecord
	putErr  error
}

func (m *memoryCharacters) CreateCharacter(_ context.Context, rec storage.CharacterRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = map[string]storage.CharacterRecord{}
	}
	if _, ok := m.records[rec.Snapshot.ID]; ok {
		return storage.ErrAlreadyExists
	}
	m.records[rec.Snapshot.ID] = rec
	return nil
}

func (m *memoryCharacters) PutCharacter(_ context.Context, rec storage.CharacterRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	if _, ok := m.records[rec.Snapshot.ID]; !ok {
		return storage.ErrNotFound
	}
	m.records[rec.Snapshot.ID] = rec
	return nil
}

func (m *memoryCharacters) GetCharacter(_ context.Context, id string) (storage.CharacterRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return storage.CharacterRecord{}, storage.ErrNotFound
	}
	rec.Snapshot = rec.Snapshot.Clone()
	return rec, nil
}

func (m *memoryCharacters) DeleteCharacter(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memoryCharacters) ListCharacters(context.Context, int, string) (storage.CharacterPage, error) {
	return storage.CharacterPage{}, errors.New("not implemented")
}
