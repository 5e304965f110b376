// Package ledger enforces the creation-phase point budgets: attribute and
// skill points, hindrance points and their conversions, edge slots and power
// picks. Every mutation is validated against a clone of the snapshot, so a
// rejection leaves the caller's snapshot untouched.
package ledger

import (
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
)

// Options relaxes validation for editor flows.
type Options struct {
	// BypassBudget accepts mutations that overspend a pool or exceed the
	// hindrance cap, and allows creation mutations after creation ends.
	BypassBudget bool `json:"bypass_budget,omitempty"`
	// BypassRequirements skips prerequisite checks.
	BypassRequirements bool `json:"bypass_requirements,omitempty"`
}

// Ledger applies build mutations under a rule configuration and catalog.
type Ledger struct {
	cfg     swade.GameConfig
	catalog *content.Catalog
}

// New returns a ledger bound to cfg and catalog.
func New(cfg swade.GameConfig, catalog *content.Catalog) *Ledger {
	return &Ledger{cfg: cfg, catalog: catalog}
}

// Config returns the rule configuration.
func (l *Ledger) Config() swade.GameConfig { return l.cfg }

// Catalog returns the reference catalog.
func (l *Ledger) Catalog() *content.Catalog { return l.catalog }

// NewCharacter returns a creation-phase snapshot with every attribute at the
// starting die and every core skill at the core die.
func NewCharacter(cfg swade.GameConfig, catalog *content.Catalog, id, name string) (character.Snapshot, error) {
	s, err := character.New(id, name)
	if err != nil {
		return character.Snapshot{}, err
	}
	for _, a := range catalog.Attributes() {
		s.Attributes[a.ID] = cfg.StartingAttributeDie
	}
	for _, sk := range catalog.CoreSkills() {
		s.Skills[sk.ID] = cfg.CoreSkillDie
	}
	return s, nil
}

// Apply validates m against s and returns the resulting snapshot. On any
// rejection it returns s unchanged together with the error.
func (l *Ledger) Apply(s character.Snapshot, m Mutation, opts Options) (character.Snapshot, error) {
	if m == nil {
		return s, InvalidMutation("mutation is required")
	}
	t := &txn{ledger: l, s: s.Clone(), opts: opts}
	if err := m.apply(t); err != nil {
		return s, err
	}
	return t.s, nil
}

// StepCost prices one skill step: 1 when the resulting die does not exceed
// the linked attribute's effective die, 2 otherwise.
func StepCost(result, linked die.Die) int {
	if result.Compare(linked) > 0 {
		return 2
	}
	return 1
}

// Budget summarizes a snapshot's creation pools.
type Budget struct {
	AttributePoints int `json:"attribute_points"`
	AttributeSpent  int `json:"attribute_spent"`
	SkillPoints     int `json:"skill_points"`
	SkillSpent      int `json:"skill_spent"`

	// HindranceEarned may exceed the cap; only HindranceUsable counts.
	HindranceEarned    int `json:"hindrance_earned"`
	HindranceUsable    int `json:"hindrance_usable"`
	HindranceSpent     int `json:"hindrance_spent"`
	HindranceAvailable int `json:"hindrance_available"`

	EdgeSlots  int `json:"edge_slots"`
	EdgesTaken int `json:"edges_taken"`

	PowerPicks  int `json:"power_picks"`
	PowersKnown int `json:"powers_known"`
}

// Budget computes the pools of s.
func (l *Ledger) Budget(s character.Snapshot) Budget {
	p := s.Points
	usable := min(p.HindranceEarned, l.cfg.MaxHindrancePoints)
	return Budget{
		AttributePoints:    l.cfg.StartingAttributePoints + p.Converted(character.ConvertToAttribute),
		AttributeSpent:     p.AttributeSpent,
		SkillPoints:        l.cfg.StartingSkillPoints + p.Converted(character.ConvertToSkill),
		SkillSpent:         p.SkillSpent,
		HindranceEarned:    p.HindranceEarned,
		HindranceUsable:    usable,
		HindranceSpent:     p.HindranceSpent,
		HindranceAvailable: usable - p.HindranceSpent,
		EdgeSlots:          l.edgeSlots(s),
		EdgesTaken:         edgesTaken(s),
		PowerPicks:         PowerPicks(s, l.catalog),
		PowersKnown:        len(s.Powers),
	}
}

func (l *Ledger) edgeSlots(s character.Snapshot) int {
	slots := l.cfg.StartingEdges + s.Points.Converted(character.ConvertToEdge)
	if s.Ancestry != "" {
		if a, err := l.catalog.Ancestry(s.Ancestry); err == nil {
			slots += a.BonusEdges
		}
	}
	return slots
}

// edgesTaken counts creation picks that use an edge slot. Arcane backgrounds
// are edges in the core rules and take a slot too.
func edgesTaken(s character.Snapshot) int {
	n := s.CountEdgesWithProvenance(character.ProvenanceCreation)
	for _, sel := range s.ArcaneBackgrounds {
		if sel.Provenance == character.ProvenanceCreation {
			n++
		}
	}
	return n
}

// PowerPicks is the number of powers s may know: the starting powers of its
// arcane backgrounds plus powers granted by held edges.
func PowerPicks(s character.Snapshot, catalog *content.Catalog) int {
	n := 0
	for _, sel := range s.ArcaneBackgrounds {
		if ab, err := catalog.ArcaneBackground(sel.ID); err == nil {
			n += ab.StartingPowers
		}
	}
	for _, sel := range s.Edges {
		if e, err := catalog.Edge(sel.ID); err == nil {
			n += e.GrantsPowers
		}
	}
	return n
}
