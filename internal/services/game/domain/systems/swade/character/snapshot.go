// Package character models a character snapshot and the read-only views the
// rules engine computes from it.
package character

import (
	"fmt"
	"strings"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
)

// Provenance records how a selection was acquired.
type Provenance string

const (
	ProvenanceCreation    Provenance = "creation"
	ProvenanceAncestry    Provenance = "ancestry"
	ProvenanceAdvancement Provenance = "advancement"
	ProvenanceEditor      Provenance = "editor"
)

// ParseProvenance reads a provenance name. Unknown names are an error.
func ParseProvenance(value string) (Provenance, error) {
	switch p := Provenance(strings.ToLower(strings.TrimSpace(value))); p {
	case ProvenanceCreation, ProvenanceAncestry, ProvenanceAdvancement, ProvenanceEditor:
		return p, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeInvalidMutation,
			fmt.Sprintf("unknown provenance %q", value), map[string]string{"Reason": "unknown provenance " + value})
	}
}

// Phase is the character's lifecycle stage.
type Phase string

const (
	PhaseCreation Phase = "creation"
	PhasePlay     Phase = "play"
)

// Selection is one attached reference entity.
type Selection struct {
	ID         string     `json:"id"`
	Provenance Provenance `json:"provenance"`
	// Cost is what the selection consumed, for refunds: hindrance points for
	// a creation edge paid by conversion, zero otherwise.
	Cost int `json:"cost,omitempty"`
}

// ConversionTarget names what surplus hindrance points were traded for.
type ConversionTarget string

const (
	ConvertToAttribute ConversionTarget = "attribute"
	ConvertToSkill     ConversionTarget = "skill"
	ConvertToEdge      ConversionTarget = "edge"
)

// ParseConversionTarget reads a conversion target name.
func ParseConversionTarget(value string) (ConversionTarget, error) {
	switch c := ConversionTarget(strings.ToLower(strings.TrimSpace(value))); c {
	case ConvertToAttribute, ConvertToSkill, ConvertToEdge:
		return c, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeInvalidMutation,
			fmt.Sprintf("unknown conversion target %q", value), map[string]string{"Reason": "unknown conversion target " + value})
	}
}

// Conversion is one trade of hindrance points for a mechanical benefit.
type Conversion struct {
	Target ConversionTarget `json:"target"`
	Cost   int              `json:"cost"`
}

// Points holds the creation budgets' running counters.
type Points struct {
	AttributeSpent int `json:"attribute_spent"`
	SkillSpent     int `json:"skill_spent"`
	// HindranceEarned counts every point granted by hindrances, including
	// those beyond the mechanical cap.
	HindranceEarned int          `json:"hindrance_earned"`
	HindranceSpent  int          `json:"hindrance_spent"`
	Conversions     []Conversion `json:"conversions,omitempty"`
}

// Converted counts conversions to target.
func (p Points) Converted(target ConversionTarget) int {
	n := 0
	for _, c := range p.Conversions {
		if c.Target == target {
			n++
		}
	}
	return n
}

// Advance is one proposed advancement. Exactly one group of fields is set:
// Attribute, SkillSteps, Edge or Hindrance.
type Advance struct {
	Attribute string `json:"attribute,omitempty"`
	// SkillSteps lists one skill id per die step; a skill listed twice is
	// raised two steps.
	SkillSteps []string `json:"skill_steps,omitempty"`
	Edge       string   `json:"edge,omitempty"`
	// Hindrance is the held hindrance to buy off: a major moves to its minor
	// companion, a minor is removed.
	Hindrance string `json:"hindrance,omitempty"`
}

// AdvanceRecord is a committed advance.
type AdvanceRecord struct {
	Number  int     `json:"number"`
	Pattern string  `json:"pattern"`
	Advance Advance `json:"advance"`
	// SkillCosts holds the price of each skill step, in SkillSteps order.
	SkillCosts []int  `json:"skill_costs,omitempty"`
	Summary    string `json:"summary"`
}

// Snapshot is the full state of one character. The engine never mutates a
// snapshot it was given; it works on a Clone.
type Snapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phase    Phase  `json:"phase"`
	Ancestry string `json:"ancestry,omitempty"`

	Attributes map[string]die.Die `json:"attributes"`
	// Skills holds trained skills only; an absent id is untrained.
	Skills map[string]die.Die `json:"skills"`

	// AttributeCosts and SkillCosts record the price paid for each
	// purchased step so refunds return what was paid.
	AttributeCosts map[string][]int `json:"attribute_costs"`
	SkillCosts     map[string][]int `json:"skill_costs"`

	Edges             []Selection `json:"edges,omitempty"`
	Hindrances        []Selection `json:"hindrances,omitempty"`
	Powers            []Selection `json:"powers,omitempty"`
	ArcaneBackgrounds []Selection `json:"arcane_backgrounds,omitempty"`
	Gear              []Selection `json:"gear,omitempty"`

	Points          Points          `json:"points"`
	PendingAdvances int             `json:"pending_advances,omitempty"`
	Advances        []AdvanceRecord `json:"advances,omitempty"`
}

// New returns an empty creation-phase snapshot.
func New(id, name string) (Snapshot, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Snapshot{}, apperrors.New(apperrors.CodeCharacterEmptyID, "character id is required")
	}
	if name == "" {
		return Snapshot{}, apperrors.New(apperrors.CodeCharacterEmptyName, "character name is required")
	}
	return Snapshot{
		ID:             id,
		Name:           name,
		Phase:          PhaseCreation,
		Attributes:     map[string]die.Die{},
		Skills:         map[string]die.Die{},
		AttributeCosts: map[string][]int{},
		SkillCosts:     map[string][]int{},
	}, nil
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Attributes = cloneDice(s.Attributes)
	out.Skills = cloneDice(s.Skills)
	out.AttributeCosts = cloneCosts(s.AttributeCosts)
	out.SkillCosts = cloneCosts(s.SkillCosts)
	out.Edges = append([]Selection(nil), s.Edges...)
	out.Hindrances = append([]Selection(nil), s.Hindrances...)
	out.Powers = append([]Selection(nil), s.Powers...)
	out.ArcaneBackgrounds = append([]Selection(nil), s.ArcaneBackgrounds...)
	out.Gear = append([]Selection(nil), s.Gear...)
	out.Points.Conversions = append([]Conversion(nil), s.Points.Conversions...)
	out.Advances = make([]AdvanceRecord, len(s.Advances))
	for i, r := range s.Advances {
		r.Advance.SkillSteps = append([]string(nil), r.Advance.SkillSteps...)
		r.SkillCosts = append([]int(nil), r.SkillCosts...)
		out.Advances[i] = r
	}
	if len(s.Advances) == 0 {
		out.Advances = nil
	}
	return out
}

// AdvanceCount is the number of committed advances.
func (s Snapshot) AdvanceCount() int { return len(s.Advances) }

// LastAdvance returns the most recent committed advance.
func (s Snapshot) LastAdvance() (AdvanceRecord, bool) {
	if len(s.Advances) == 0 {
		return AdvanceRecord{}, false
	}
	return s.Advances[len(s.Advances)-1], true
}

// Skill returns a trained skill's base die.
func (s Snapshot) Skill(id string) (die.Die, bool) {
	d, ok := s.Skills[id]
	return d, ok
}

// CountEdge counts how many times the edge is held.
func (s Snapshot) CountEdge(id string) int { return count(s.Edges, id) }

// HasEdge reports whether the edge is held.
func (s Snapshot) HasEdge(id string) bool { return count(s.Edges, id) > 0 }

// HasHindrance reports whether the hindrance is held.
func (s Snapshot) HasHindrance(id string) bool { return count(s.Hindrances, id) > 0 }

// HasPower reports whether the power is known.
func (s Snapshot) HasPower(id string) bool { return count(s.Powers, id) > 0 }

// HasArcaneBackground reports whether the background is held. An empty id
// matches any background.
func (s Snapshot) HasArcaneBackground(id string) bool {
	if id == "" {
		return len(s.ArcaneBackgrounds) > 0
	}
	return count(s.ArcaneBackgrounds, id) > 0
}

// HasGear reports whether the gear item is carried.
func (s Snapshot) HasGear(id string) bool { return count(s.Gear, id) > 0 }

// CountEdgesWithProvenance counts held edges acquired through p.
func (s Snapshot) CountEdgesWithProvenance(p Provenance) int {
	n := 0
	for _, sel := range s.Edges {
		if sel.Provenance == p {
			n++
		}
	}
	return n
}

// IndexOf returns the position of the last selection with id, or -1.
func IndexOf(selections []Selection, id string) int {
	for i := len(selections) - 1; i >= 0; i-- {
		if selections[i].ID == id {
			return i
		}
	}
	return -1
}

// Without returns selections minus the element at i.
func Without(selections []Selection, i int) []Selection {
	out := make([]Selection, 0, len(selections)-1)
	out = append(out, selections[:i]...)
	return append(out, selections[i+1:]...)
}

func count(selections []Selection, id string) int {
	n := 0
	for _, sel := range selections {
		if sel.ID == id {
			n++
		}
	}
	return n
}

func cloneDice(in map[string]die.Die) map[string]die.Die {
	out := make(map[string]die.Die, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneCosts(in map[string][]int) map[string][]int {
	out := make(map[string][]int, len(in))
	for k, v := range in {
		out[k] = append([]int(nil), v...)
	}
	return out
}
