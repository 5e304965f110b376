// Package advancement runs the play-phase advancement state machine: a
// milestone awards an advance, and committing it applies exactly one of the
// advance patterns (attribute, skills, edge, hindrance).
package advancement

import (
	"fmt"
	"strings"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/ledger"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/modifier"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/requirement"
)

// State is where a character stands in the current milestone.
type State string

const (
	// StateNotStarted means no advance was ever awarded.
	StateNotStarted State = "not_started"
	// StateAdvanceAvailable means an awarded advance waits to be committed.
	StateAdvanceAvailable State = "advance_available"
	// StateAdvanceCommitted means every awarded advance is committed.
	StateAdvanceCommitted State = "advance_committed"
)

// Pattern is the shape of one advance.
type Pattern string

const (
	PatternAttribute Pattern = "attribute"
	PatternSkills    Pattern = "skills"
	PatternEdge      Pattern = "edge"
	PatternHindrance Pattern = "hindrance"
)

// PatternOf infers the pattern from the populated fields. Exactly one group
// must be set.
func PatternOf(adv character.Advance) (Pattern, error) {
	var patterns []Pattern
	if strings.TrimSpace(adv.Attribute) != "" {
		patterns = append(patterns, PatternAttribute)
	}
	if len(adv.SkillSteps) > 0 {
		patterns = append(patterns, PatternSkills)
	}
	if strings.TrimSpace(adv.Edge) != "" {
		patterns = append(patterns, PatternEdge)
	}
	if strings.TrimSpace(adv.Hindrance) != "" {
		patterns = append(patterns, PatternHindrance)
	}
	switch len(patterns) {
	case 0:
		return "", violation("an advance must raise an attribute, raise skills, take an edge or buy off a hindrance")
	case 1:
		return patterns[0], nil
	default:
		return "", violation(fmt.Sprintf("an advance follows one pattern, got %d", len(patterns)))
	}
}

// Machine applies advances under a rule configuration and catalog.
type Machine struct {
	cfg     swade.GameConfig
	catalog *content.Catalog
}

// New returns a machine bound to cfg and catalog.
func New(cfg swade.GameConfig, catalog *content.Catalog) *Machine {
	return &Machine{cfg: cfg, catalog: catalog}
}

// State reports the character's advancement state.
func (m *Machine) State(s character.Snapshot) State {
	switch {
	case s.PendingAdvances > 0:
		return StateAdvanceAvailable
	case len(s.Advances) > 0:
		return StateAdvanceCommitted
	default:
		return StateNotStarted
	}
}

// Award records a reached milestone. Creation must be finalized first.
func (m *Machine) Award(s character.Snapshot) (character.Snapshot, error) {
	if s.Phase != character.PhasePlay {
		return s, violation("character creation is not finalized")
	}
	next := s.Clone()
	next.PendingAdvances++
	return next, nil
}

// Commit validates adv as a whole and applies it, consuming one awarded
// advance. On rejection s is returned unchanged.
func (m *Machine) Commit(s character.Snapshot, adv character.Advance) (character.Snapshot, error) {
	if s.Phase != character.PhasePlay {
		return s, violation("character creation is not finalized")
	}
	if s.PendingAdvances <= 0 {
		return s, violation("no advance is available")
	}
	pattern, err := PatternOf(adv)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	record := character.AdvanceRecord{
		Number:  len(s.Advances) + 1,
		Pattern: string(pattern),
		Advance: character.Advance{
			Attribute:  strings.TrimSpace(adv.Attribute),
			SkillSteps: append([]string(nil), adv.SkillSteps...),
			Edge:       strings.TrimSpace(adv.Edge),
			Hindrance:  strings.TrimSpace(adv.Hindrance),
		},
	}
	switch pattern {
	case PatternAttribute:
		err = m.raiseAttribute(&next, &record)
	case PatternSkills:
		err = m.raiseSkills(&next, &record)
	case PatternEdge:
		err = m.takeEdge(&next, &record)
	case PatternHindrance:
		err = m.buyOffHindrance(&next, &record)
	}
	if err != nil {
		return s, err
	}
	next.PendingAdvances--
	next.Advances = append(next.Advances, record)
	return next, nil
}

func (m *Machine) view(s character.Snapshot) *character.View {
	return character.NewView(s, m.catalog, m.cfg)
}

func (m *Machine) raiseAttribute(s *character.Snapshot, record *character.AdvanceRecord) error {
	a, err := m.catalog.Attribute(record.Advance.Attribute)
	if err != nil {
		return err
	}
	lookback := max(m.cfg.AttributeAdvanceSpacing-1, 0)
	for i := len(s.Advances) - 1; i >= 0 && i >= len(s.Advances)-lookback; i-- {
		if s.Advances[i].Pattern == string(PatternAttribute) {
			return violation(fmt.Sprintf("attributes may be raised once every %d advances", m.cfg.AttributeAdvanceSpacing))
		}
	}
	current, ok := s.Attributes[a.ID]
	if !ok {
		current = m.cfg.StartingAttributeDie
	}
	raised := current.Increment()
	if ceiling := m.view(*s).TraitCeiling(modifier.TargetAttribute, a.ID); raised.Compare(ceiling) > 0 {
		return violation(fmt.Sprintf("%s cannot exceed %s", a.Name, ceiling))
	}
	s.Attributes[a.ID] = raised
	record.Summary = fmt.Sprintf("Raised %s to %s", a.Name, raised)
	return nil
}

func (m *Machine) raiseSkills(s *character.Snapshot, record *character.AdvanceRecord) error {
	steps := record.Advance.SkillSteps
	if len(steps) > 2 {
		return violation("an advance raises at most two skill steps")
	}
	view := m.view(*s)
	raised := map[string]die.Die{}
	var order []string
	total := 0
	costs := make([]int, 0, len(steps))
	for _, id := range steps {
		sk, err := m.catalog.Skill(strings.TrimSpace(id))
		if err != nil {
			return err
		}
		current, trained := raised[sk.ID]
		if !trained {
			current, trained = s.Skills[sk.ID]
			order = append(order, sk.ID)
		}
		next := die.D4()
		if trained {
			next = current.Increment()
		}
		if ceiling := view.TraitCeiling(modifier.TargetSkill, sk.ID); next.Compare(ceiling) > 0 {
			return violation(fmt.Sprintf("%s cannot exceed %s", sk.Name, ceiling))
		}
		cost := ledger.StepCost(next, view.AttributeDie(sk.LinkedAttribute))
		costs = append(costs, cost)
		total += cost
		raised[sk.ID] = next
	}
	if total > m.cfg.AdvanceSkillPoints {
		return violation(fmt.Sprintf("skill steps cost %d, an advance allows %d", total, m.cfg.AdvanceSkillPoints))
	}

	parts := make([]string, 0, len(order))
	for _, id := range order {
		s.Skills[id] = raised[id]
		sk, _ := m.catalog.Skill(id)
		parts = append(parts, fmt.Sprintf("%s to %s", sk.Name, raised[id]))
	}
	record.SkillCosts = costs
	record.Summary = "Raised " + strings.Join(parts, " and ")
	return nil
}

func (m *Machine) takeEdge(s *character.Snapshot, record *character.AdvanceRecord) error {
	e, err := m.catalog.Edge(record.Advance.Edge)
	if err != nil {
		return err
	}
	if s.HasEdge(e.ID) && !e.Repeatable {
		return ledger.DuplicateSelection(e.Name)
	}
	view := m.view(*s)
	if expr := e.Prerequisites(); !requirement.Evaluate(expr, view) {
		return ledger.RequirementNotMet(e.Name, requirement.Unmet(expr, view))
	}
	s.Edges = append(s.Edges, character.Selection{ID: e.ID, Provenance: character.ProvenanceAdvancement})
	record.Summary = "Took " + e.Name
	return nil
}

func (m *Machine) buyOffHindrance(s *character.Snapshot, record *character.AdvanceRecord) error {
	h, err := m.catalog.Hindrance(record.Advance.Hindrance)
	if err != nil {
		return err
	}
	i := character.IndexOf(s.Hindrances, h.ID)
	if i < 0 {
		return violation(fmt.Sprintf("%s is not held", h.Name))
	}
	if h.Severity == content.SeverityMinor {
		s.Hindrances = character.Without(s.Hindrances, i)
		record.Summary = "Bought off " + h.Name
		return nil
	}
	if h.CompanionID == "" {
		return violation(fmt.Sprintf("%s has no minor version to reduce to", h.Name))
	}
	minor, err := m.catalog.Hindrance(h.CompanionID)
	if err != nil {
		return err
	}
	s.Hindrances[i] = character.Selection{
		ID:         minor.ID,
		Provenance: character.ProvenanceAdvancement,
		Cost:       minor.Severity.Points(m.cfg),
	}
	record.Summary = fmt.Sprintf("Reduced %s to %s", h.Name, minor.Name)
	return nil
}

func violation(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeAdvancementRuleViolation, reason, map[string]string{"Reason": reason})
}
