package advancement

import (
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content/contenttest"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/ledger"
)

func newMachine(t *testing.T) (*Machine, character.Snapshot) {
	t.Helper()
	cfg := swade.DefaultConfig()
	catalog := contenttest.Catalog()
	s, err := ledger.NewCharacter(cfg, catalog, "char-1", "Red")
	if err != nil {
		t.Fatalf("new character: %v", err)
	}
	s.Phase = character.PhasePlay
	return New(cfg, catalog), s
}

// advance awards and commits one advance.
func advance(t *testing.T, m *Machine, s character.Snapshot, adv character.Advance) character.Snapshot {
	t.Helper()
	s, err := m.Award(s)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	s, err = m.Commit(s, adv)
	if err != nil {
		t.Fatalf("commit %+v: %v", adv, err)
	}
	return s
}

// tryAdvance awards an advance and returns the commit error.
func tryAdvance(t *testing.T, m *Machine, s character.Snapshot, adv character.Advance) error {
	t.Helper()
	s, err := m.Award(s)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	_, err = m.Commit(s, adv)
	return err
}

func pastAdvances(n int) []character.AdvanceRecord {
	out := make([]character.AdvanceRecord, n)
	for i := range out {
		out[i] = character.AdvanceRecord{Number: i + 1, Pattern: string(PatternEdge)}
	}
	return out
}

func TestStateTransitions(t *testing.T) {
	m, s := newMachine(t)
	if got := m.State(s); got != StateNotStarted {
		t.Fatalf("state = %s", got)
	}
	if _, err := m.Commit(s, character.Advance{Edge: "alertness"}); !apperrors.HasCode(err, apperrors.CodeAdvancementRuleViolation) {
		t.Fatalf("expected ADVANCEMENT_RULE_VIOLATION without an award, got %v", err)
	}

	s, err := m.Award(s)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if got := m.State(s); got != StateAdvanceAvailable {
		t.Fatalf("state = %s", got)
	}

	s, err = m.Commit(s, character.Advance{Edge: "alertness"})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if got := m.State(s); got != StateAdvanceCommitted {
		t.Fatalf("state = %s", got)
	}
	if s.PendingAdvances != 0 || s.AdvanceCount() != 1 {
		t.Fatalf("pending %d advances %d", s.PendingAdvances, s.AdvanceCount())
	}
	last, _ := s.LastAdvance()
	if last.Number != 1 || last.Pattern != "edge" || last.Summary != "Took Alertness" {
		t.Fatalf("record = %+v", last)
	}

	creating := s.Clone()
	creating.Phase = character.PhaseCreation
	if _, err := m.Award(creating); !apperrors.HasCode(err, apperrors.CodeAdvancementRuleViolation) {
		t.Fatalf("expected ADVANCEMENT_RULE_VIOLATION during creation, got %v", err)
	}
}

func TestPatternOf(t *testing.T) {
	tests := []struct {
		name string
		adv  character.Advance
		want Pattern
		ok   bool
	}{
		{"attribute", character.Advance{Attribute: "agility"}, PatternAttribute, true},
		{"skills", character.Advance{SkillSteps: []string{"fighting"}}, PatternSkills, true},
		{"edge", character.Advance{Edge: "quick"}, PatternEdge, true},
		{"hindrance", character.Advance{Hindrance: "loyal"}, PatternHindrance, true},
		{"empty", character.Advance{}, "", false},
		{"blank attribute", character.Advance{Attribute: "  "}, "", false},
		{"mixed", character.Advance{Attribute: "agility", Edge: "quick"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PatternOf(tt.adv)
			if tt.ok {
				if err != nil || got != tt.want {
					t.Fatalf("PatternOf = %q, %v; want %q", got, err, tt.want)
				}
				return
			}
			if !apperrors.HasCode(err, apperrors.CodeAdvancementRuleViolation) {
				t.Fatalf("expected ADVANCEMENT_RULE_VIOLATION, got %v", err)
			}
		})
	}
}

func TestAttributeSpacing(t *testing.T) {
	m, s := newMachine(t)
	s = advance(t, m, s, character.Advance{Attribute: "agility"})
	if got := s.Attributes["agility"]; got != die.D6() {
		t.Fatalf("agility = %s, want d6", got)
	}

	err := tryAdvance(t, m, s, character.Advance{Attribute: "smarts"})
	if !apperrors.HasCode(err, apperrors.CodeAdvancementRuleViolation) {
		t.Fatalf("expected ADVANCEMENT_RULE_VIOLATION, got %v", err)
	}

	s = advance(t, m, s, character.Advance{SkillSteps: []string{"fighting"}})
	s = advance(t, m, s, character.Advance{Attribute: "smarts"})
	if got := s.Attributes["smarts"]; got != die.D6() {
		t.Fatalf("smarts = %s, want d6", got)
	}
}

func TestAttributeCeiling(t *testing.T) {
	m, s := newMachine(t)
	s.Attributes["agility"] = die.D12()

	err := tryAdvance(t, m, s, character.Advance{Attribute: "agility"})
	if !apperrors.HasCode(err, apperrors.CodeAdvancementRuleViolation) {
		t.Fatalf("expected ADVANCEMENT_RULE_VIOLATION, got %v", err)
	}

	s.Edges = append(s.Edges, character.Selection{ID: "expert_agility", Provenance: character.ProvenanceAdvancement})
	s = advance(t, m, s, character.Advance{Attribute: "agility"})
	if got := s.Attributes["agility"]; got != die.MustNew(12, 1) {
		t.Fatalf("agility = %s, want d12+1", got)
	}
}

func TestSkillSteps(t *testing.T) {
	m, s := newMachine(t)
	s.Attributes["agility"] = die.D8()
	s.Skills["fighting"] = die.D4()

	t.Run("one skill two cheap steps", func(t *testing.T) {
		got := advance(t, m, s, character.Advance{SkillSteps: []string{"fighting", "fighting"}})
		if d, _ := got.Skill("fighting"); d != die.D8() {
			t.Fatalf("fighting = %s, want d8", d)
		}
		last, _ := got.LastAdvance()
		if !reflect.DeepEqual(last.SkillCosts, []int{1, 1}) || last.Summary != "Raised Fighting to d8" {
			t.Fatalf("record = %+v", last)
		}
	})

	t.Run("two skills", func(t *testing.T) {
		got := advance(t, m, s, character.Advance{SkillSteps: []string{"shooting", "stealth"}})
		if d, _ := got.Skill("shooting"); d != die.D4() {
			t.Fatalf("shooting = %s, want d4", d)
		}
		if d, _ := got.Skill("stealth"); d != die.D6() {
			t.Fatalf("stealth = %s, want d6", d)
		}
		last, _ := got.LastAdvance()
		if last.Summary != "Raised Shooting to d4 and Stealth to d6" {
			t.Fatalf("summary = %q", last.Summary)
		}
	})

	t.Run("expensive step uses the whole advance", func(t *testing.T) {
		got := advance(t, m, s, character.Advance{SkillSteps: []string{"notice"}})
		last, _ := got.LastAdvance()
		if !reflect.DeepEqual(last.SkillCosts, []int{2}) {
			t.Fatalf("costs = %v", last.SkillCosts)
		}
	})

	tests := []struct {
		name  string
		steps []string
		code  apperrors.Code
	}{
		{"over budget", []string{"fighting", "notice"}, apperrors.CodeAdvancementRuleViolation},
		{"too many steps", []string{"fighting", "stealth", "athletics"}, apperrors.CodeAdvancementRuleViolation},
		{"unknown skill", []string{"lockpicking"}, apperrors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := m.Award(s)
			if err != nil {
				t.Fatalf("award: %v", err)
			}
			awarded := s.Clone()
			got, err := m.Commit(s, character.Advance{SkillSteps: tt.steps})
			if !apperrors.HasCode(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			if !reflect.DeepEqual(got, awarded) {
				t.Fatal("rejected commit must return the input snapshot")
			}
		})
	}
}

func TestSkillCeiling(t *testing.T) {
	m, s := newMachine(t)
	s.Attributes["agility"] = die.D12()
	s.Skills["fighting"] = die.D12()
	err := tryAdvance(t, m, s, character.Advance{SkillSteps: []string{"fighting"}})
	if !apperrors.HasCode(err, apperrors.CodeAdvancementRuleViolation) {
		t.Fatalf("expected ADVANCEMENT_RULE_VIOLATION, got %v", err)
	}
}

func TestEdgeAdvance(t *testing.T) {
	m, s := newMachine(t)
	s.Skills["fighting"] = die.D8()

	err := tryAdvance(t, m, s, character.Advance{Edge: "block"})
	if !apperrors.HasCode(err, apperrors.CodeRequirementNotMet) || !strings.Contains(err.Error(), "Seasoned") {
		t.Fatalf("expected REQUIREMENT_NOT_MET naming Seasoned, got %v", err)
	}

	s.Advances = pastAdvances(4)
	s = advance(t, m, s, character.Advance{Edge: "block"})
	if i := character.IndexOf(s.Edges, "block"); i < 0 || s.Edges[i].Provenance != character.ProvenanceAdvancement {
		t.Fatalf("edges = %+v", s.Edges)
	}
	if got := m.cfg.RankForAdvances(s.AdvanceCount()); got != swade.RankSeasoned {
		t.Fatalf("rank = %s", got)
	}

	err = tryAdvance(t, m, s, character.Advance{Edge: "block"})
	if !apperrors.HasCode(err, apperrors.CodeDuplicateSelection) {
		t.Fatalf("expected DUPLICATE_SELECTION, got %v", err)
	}

	err = tryAdvance(t, m, s, character.Advance{Edge: "teleport"})
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRankRisesWithAdvances(t *testing.T) {
	m, s := newMachine(t)
	for _, adv := range []character.Advance{
		{SkillSteps: []string{"fighting"}},
		{SkillSteps: []string{"shooting"}},
		{SkillSteps: []string{"healing"}},
		{SkillSteps: []string{"faith"}},
	} {
		s = advance(t, m, s, adv)
	}
	if got := character.NewView(s, m.catalog, m.cfg).Rank(); got != swade.RankSeasoned {
		t.Fatalf("rank after 4 advances = %s, want seasoned", got)
	}
}

func TestHindranceAdvance(t *testing.T) {
	m, s := newMachine(t)
	s.Hindrances = []character.Selection{
		{ID: "pacifist_major", Provenance: character.ProvenanceCreation, Cost: 2},
		{ID: "loyal", Provenance: character.ProvenanceCreation, Cost: 1},
		{ID: "curious", Provenance: character.ProvenanceCreation, Cost: 2},
	}

	s = advance(t, m, s, character.Advance{Hindrance: "pacifist_major"})
	if s.HasHindrance("pacifist_major") || !s.HasHindrance("pacifist_minor") {
		t.Fatalf("hindrances = %+v", s.Hindrances)
	}
	last, _ := s.LastAdvance()
	if last.Summary != "Reduced Pacifist (Major) to Pacifist (Minor)" {
		t.Fatalf("summary = %q", last.Summary)
	}

	s = advance(t, m, s, character.Advance{Hindrance: "loyal"})
	if s.HasHindrance("loyal") {
		t.Fatal("loyal should be bought off")
	}

	tests := []struct {
		name      string
		hindrance string
		code      apperrors.Code
	}{
		{"not held", "heroic", apperrors.CodeAdvancementRuleViolation},
		{"major without minor", "curious", apperrors.CodeAdvancementRuleViolation},
		{"unknown", "greedy", apperrors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tryAdvance(t, m, s, character.Advance{Hindrance: tt.hindrance})
			if !apperrors.HasCode(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}
