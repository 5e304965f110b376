// Package content holds the immutable reference data the rules engine reads:
// attributes, skills, edges, hindrances, powers, ancestries, arcane
// backgrounds and gear.
package content

import (
	"fmt"
	"strings"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/modifier"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/requirement"
)

// Kind names a reference entity type.
type Kind string

const (
	KindAttribute        Kind = "attribute"
	KindSkill            Kind = "skill"
	KindEdge             Kind = "edge"
	KindHindrance        Kind = "hindrance"
	KindPower            Kind = "power"
	KindAncestry         Kind = "ancestry"
	KindArcaneBackground Kind = "arcane_background"
	KindGear             Kind = "gear"
)

// Kinds lists every reference kind in catalog order.
func Kinds() []Kind {
	return []Kind{KindAttribute, KindSkill, KindEdge, KindHindrance, KindPower, KindAncestry, KindArcaneBackground, KindGear}
}

// ParseKind reads a reference kind name. Unknown names are an error.
func ParseKind(value string) (Kind, error) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, k := range Kinds() {
		if k == normalized {
			return k, nil
		}
	}
	return "", invalidReference(fmt.Sprintf("unknown content kind %q", value))
}

// EdgeCategory groups edges as in the core rules.
type EdgeCategory string

const (
	EdgeBackground   EdgeCategory = "background"
	EdgeCombat       EdgeCategory = "combat"
	EdgeLeadership   EdgeCategory = "leadership"
	EdgePower        EdgeCategory = "power"
	EdgeProfessional EdgeCategory = "professional"
	EdgeSocial       EdgeCategory = "social"
	EdgeWeird        EdgeCategory = "weird"
	EdgeLegendary    EdgeCategory = "legendary"
)

// ParseEdgeCategory reads an edge category name. Unknown names are an error,
// never a fallback category.
func ParseEdgeCategory(value string) (EdgeCategory, error) {
	switch c := EdgeCategory(strings.ToLower(strings.TrimSpace(value))); c {
	case EdgeBackground, EdgeCombat, EdgeLeadership, EdgePower, EdgeProfessional, EdgeSocial, EdgeWeird, EdgeLegendary:
		return c, nil
	default:
		return "", invalidReference(fmt.Sprintf("unknown edge category %q", value))
	}
}

// Severity is a hindrance's weight.
type Severity string

const (
	SeverityMinor Severity = "minor"
	SeverityMajor Severity = "major"
)

// ParseSeverity reads a hindrance severity. Unknown names are an error.
func ParseSeverity(value string) (Severity, error) {
	switch s := Severity(strings.ToLower(strings.TrimSpace(value))); s {
	case SeverityMinor, SeverityMajor:
		return s, nil
	default:
		return "", invalidReference(fmt.Sprintf("unknown hindrance severity %q", value))
	}
}

// Points returns the hindrance points the severity grants under cfg.
func (s Severity) Points(cfg swade.GameConfig) int {
	if s == SeverityMajor {
		return cfg.MajorHindrancePoints
	}
	return cfg.MinorHindrancePoints
}

// Attribute is one of the five core attributes.
type Attribute struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Skill is a trained ability linked to an attribute. Core skills start at
// the configured core die for free.
type Skill struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	LinkedAttribute string `json:"linked_attribute"`
	Core            bool   `json:"core,omitempty"`
	Description     string `json:"description,omitempty"`
}

// Edge is a purchasable advantage.
type Edge struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Category     EdgeCategory        `json:"category"`
	Rank         swade.Rank          `json:"rank,omitempty"`
	Requirements requirement.Tree    `json:"requirements"`
	Modifiers    []modifier.Modifier `json:"modifiers,omitempty"`
	Repeatable   bool                `json:"repeatable,omitempty"`
	// GrantsPowers is the number of extra powers the edge lets a character
	// learn.
	GrantsPowers int    `json:"grants_powers,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Prerequisites combines the edge's minimum rank with its requirement tree.
func (e Edge) Prerequisites() requirement.Expr {
	return withRank(e.Rank, e.Requirements.Expr)
}

// Hindrance is a flaw that grants hindrance points. A hindrance available at
// both severities is stored as two entries naming each other as companions.
type Hindrance struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Severity    Severity            `json:"severity"`
	CompanionID string              `json:"companion_id,omitempty"`
	Modifiers   []modifier.Modifier `json:"modifiers,omitempty"`
	Description string              `json:"description,omitempty"`
}

// Power is an arcane effect learned through an arcane background.
type Power struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Rank         swade.Rank       `json:"rank,omitempty"`
	PowerPoints  int              `json:"power_points"`
	Range        string           `json:"range,omitempty"`
	Duration     string           `json:"duration,omitempty"`
	Requirements requirement.Tree `json:"requirements"`
	Description  string           `json:"description,omitempty"`
}

// Prerequisites requires any arcane background, the power's rank and its
// own requirement tree.
func (p Power) Prerequisites() requirement.Expr {
	children := []requirement.Expr{requirement.ArcaneBackgroundHeld("")}
	if p.Rank > swade.RankNovice {
		children = append(children, requirement.RankAtLeast(p.Rank))
	}
	if p.Requirements.Expr != nil {
		children = append(children, p.Requirements.Expr)
	}
	return requirement.AllOf(children...)
}

// Ancestry grants modifiers, free edges and optional bonus edge picks.
type Ancestry struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Modifiers   []modifier.Modifier `json:"modifiers,omitempty"`
	FreeEdges   []string            `json:"free_edges,omitempty"`
	BonusEdges  int                 `json:"bonus_edges,omitempty"`
	Description string              `json:"description,omitempty"`
}

// ArcaneBackground unlocks powers.
type ArcaneBackground struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	ArcaneSkill    string              `json:"arcane_skill"`
	StartingPowers int                 `json:"starting_powers"`
	PowerPoints    int                 `json:"power_points"`
	Requirements   requirement.Tree    `json:"requirements"`
	Modifiers      []modifier.Modifier `json:"modifiers,omitempty"`
	Description    string              `json:"description,omitempty"`
}

// Gear is equipment that may carry modifiers (armor, shields).
type Gear struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Category    string              `json:"category,omitempty"`
	Cost        int                 `json:"cost,omitempty"`
	Weight      int                 `json:"weight,omitempty"`
	MinStrength *die.Die            `json:"min_strength,omitempty"`
	Modifiers   []modifier.Modifier `json:"modifiers,omitempty"`
	Description string              `json:"description,omitempty"`
}

// Data is the serialized form of a catalog.
type Data struct {
	Attributes        []Attribute        `json:"attributes"`
	Skills            []Skill            `json:"skills"`
	Edges             []Edge             `json:"edges"`
	Hindrances        []Hindrance        `json:"hindrances"`
	Powers            []Power            `json:"powers"`
	Ancestries        []Ancestry         `json:"ancestries"`
	ArcaneBackgrounds []ArcaneBackground `json:"arcane_backgrounds"`
	Gear              []Gear             `json:"gear"`
}

func withRank(rank swade.Rank, expr requirement.Expr) requirement.Expr {
	if rank <= swade.RankNovice {
		if expr == nil {
			return requirement.AllOf()
		}
		return expr
	}
	if expr == nil {
		return requirement.RankAtLeast(rank)
	}
	return requirement.AllOf(requirement.RankAtLeast(rank), expr)
}

// NotFound builds the error returned for a missing reference id.
func NotFound(kind Kind, id string) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound,
		fmt.Sprintf("%s %q not found", kind, id),
		map[string]string{"Kind": swade.DisplayName(string(kind)), "ID": id})
}

func invalidReference(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidReference, reason, map[string]string{"Reason": reason})
}
