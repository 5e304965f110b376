// Package requirement evaluates prerequisite trees for edges, powers and
// other reference entities against a read-only view of a character.
package requirement

import (
	"fmt"
	"strings"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
)

// Kind selects the predicate a leaf requirement applies.
type Kind string

const (
	KindAttribute        Kind = "attribute"
	KindSkill            Kind = "skill"
	KindEdge             Kind = "edge"
	KindHindrance        Kind = "hindrance"
	KindArcaneBackground Kind = "arcane_background"
	KindRank             Kind = "rank"
	KindPowerCount       Kind = "power_count"
)

// ParseKind reads a requirement kind name. Unknown names are an error.
func ParseKind(value string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(value))); k {
	case KindAttribute, KindSkill, KindEdge, KindHindrance, KindArcaneBackground, KindRank, KindPowerCount:
		return k, nil
	default:
		return "", invalidReference(fmt.Sprintf("unknown requirement kind %q", value))
	}
}

// Context is the read-only view of a character the evaluator consults.
type Context interface {
	AttributeDie(id string) die.Die
	// SkillDie reports false for an untrained skill.
	SkillDie(id string) (die.Die, bool)
	Rank() swade.Rank
	HasEdge(id string) bool
	HasHindrance(id string) bool
	// HasArcaneBackground matches any background when id is empty.
	HasArcaneBackground(id string) bool
	PowerCount() int
}

// Requirement is an atomic prerequisite. Which threshold field is read
// depends on Kind: Die for attribute and skill, Rank for rank, Count for
// power_count.
type Requirement struct {
	Kind   Kind       `json:"kind"`
	Target string     `json:"target,omitempty"`
	Die    *die.Die   `json:"die,omitempty"`
	Rank   swade.Rank `json:"rank,omitempty"`
	Count  int        `json:"count,omitempty"`
	// Label overrides the generated description.
	Label string `json:"label,omitempty"`
}

// Validate checks that the leaf carries the fields its kind needs.
func (r Requirement) Validate() error {
	if _, err := ParseKind(string(r.Kind)); err != nil {
		return err
	}
	switch r.Kind {
	case KindAttribute, KindSkill:
		if r.Target == "" {
			return invalidReference(fmt.Sprintf("%s requirement needs a target", r.Kind))
		}
		if r.Die == nil || r.Die.IsZero() {
			return invalidReference(fmt.Sprintf("%s requirement on %s needs a die", r.Kind, r.Target))
		}
	case KindEdge, KindHindrance:
		if r.Target == "" {
			return invalidReference(fmt.Sprintf("%s requirement needs a target", r.Kind))
		}
	case KindRank:
		if r.Rank < swade.RankNovice || r.Rank > swade.RankLegendary {
			return invalidReference(fmt.Sprintf("rank requirement has invalid rank %d", int(r.Rank)))
		}
	case KindPowerCount:
		if r.Count <= 0 {
			return invalidReference("power_count requirement needs a positive count")
		}
	}
	return nil
}

// Met applies the leaf predicate to ctx.
func (r Requirement) Met(ctx Context) bool {
	switch r.Kind {
	case KindAttribute:
		return r.Die != nil && ctx.AttributeDie(r.Target).AtLeast(*r.Die)
	case KindSkill:
		current, trained := ctx.SkillDie(r.Target)
		return trained && r.Die != nil && current.AtLeast(*r.Die)
	case KindEdge:
		return ctx.HasEdge(r.Target)
	case KindHindrance:
		return ctx.HasHindrance(r.Target)
	case KindArcaneBackground:
		return ctx.HasArcaneBackground(r.Target)
	case KindRank:
		return ctx.Rank().AtLeast(r.Rank)
	case KindPowerCount:
		return ctx.PowerCount() >= r.Count
	default:
		return false
	}
}

// Description renders the leaf for display, e.g. "Agility d8+".
func (r Requirement) Description() string {
	if r.Label != "" {
		return r.Label
	}
	switch r.Kind {
	case KindAttribute, KindSkill:
		threshold := "d?"
		if r.Die != nil {
			threshold = r.Die.String()
		}
		return fmt.Sprintf("%s %s+", swade.DisplayName(r.Target), threshold)
	case KindEdge:
		return "Edge: " + swade.DisplayName(r.Target)
	case KindHindrance:
		return "Hindrance: " + swade.DisplayName(r.Target)
	case KindArcaneBackground:
		if r.Target == "" {
			return "Arcane Background (any)"
		}
		return fmt.Sprintf("Arcane Background (%s)", swade.DisplayName(r.Target))
	case KindRank:
		return r.Rank.Label()
	case KindPowerCount:
		if r.Count == 1 {
			return "At least 1 power"
		}
		return fmt.Sprintf("At least %d powers", r.Count)
	default:
		return string(r.Kind)
	}
}

func invalidReference(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidReference, reason, map[string]string{"Reason": reason})
}
