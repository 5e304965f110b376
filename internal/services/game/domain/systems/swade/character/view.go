package character

import (
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/modifier"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/requirement"
)

// View is a read-only facade over a snapshot plus reference data. It
// implements requirement.Context. Modifiers are resolved when the view is
// built, so build a new view after every mutation.
type View struct {
	snapshot Snapshot
	catalog  *content.Catalog
	cfg      swade.GameConfig
	mods     modifier.Set
}

var _ requirement.Context = (*View)(nil)

// NewView builds the view of s.
func NewView(s Snapshot, catalog *content.Catalog, cfg swade.GameConfig) *View {
	return &View{snapshot: s, catalog: catalog, cfg: cfg, mods: Modifiers(s, catalog)}
}

// Modifiers returns the effective modifier set of s: every modifier granted
// by its ancestry, edges, hindrances, arcane backgrounds and gear, tagged
// with the granting source. Ids missing from the catalog contribute nothing.
func Modifiers(s Snapshot, catalog *content.Catalog) modifier.Set {
	var sets []modifier.Set
	if s.Ancestry != "" {
		if a, err := catalog.Ancestry(s.Ancestry); err == nil {
			sets = append(sets, modifier.FromSource("ancestry."+a.ID, a.Modifiers))
		}
	}
	for _, sel := range s.Edges {
		if e, err := catalog.Edge(sel.ID); err == nil {
			sets = append(sets, modifier.FromSource("edge."+e.ID, e.Modifiers))
		}
	}
	for _, sel := range s.Hindrances {
		if h, err := catalog.Hindrance(sel.ID); err == nil {
			sets = append(sets, modifier.FromSource("hindrance."+h.ID, h.Modifiers))
		}
	}
	for _, sel := range s.ArcaneBackgrounds {
		if ab, err := catalog.ArcaneBackground(sel.ID); err == nil {
			sets = append(sets, modifier.FromSource("arcane_background."+ab.ID, ab.Modifiers))
		}
	}
	for _, sel := range s.Gear {
		if g, err := catalog.Gear(sel.ID); err == nil {
			sets = append(sets, modifier.FromSource("gear."+g.ID, g.Modifiers))
		}
	}
	return modifier.Concat(sets...)
}

// Snapshot returns the snapshot behind the view.
func (v *View) Snapshot() Snapshot { return v.snapshot }

// Modifiers returns the resolved modifier set.
func (v *View) Modifiers() modifier.Set { return v.mods }

// AttributeDie returns the attribute's effective die. An unknown attribute
// returns the zero die, which satisfies no threshold.
func (v *View) AttributeDie(id string) die.Die {
	base, ok := v.snapshot.Attributes[id]
	if !ok {
		return die.Die{}
	}
	return v.mods.Die(base, modifier.TargetAttribute, id)
}

// SkillDie returns a trained skill's effective die.
func (v *View) SkillDie(id string) (die.Die, bool) {
	base, ok := v.snapshot.Skills[id]
	if !ok {
		return die.Die{}, false
	}
	return v.mods.Die(base, modifier.TargetSkill, id), true
}

// Rank returns the rank earned by committed advances.
func (v *View) Rank() swade.Rank { return v.cfg.RankForAdvances(v.snapshot.AdvanceCount()) }

// HasEdge reports whether the edge is held.
func (v *View) HasEdge(id string) bool { return v.snapshot.HasEdge(id) }

// HasHindrance reports whether the hindrance is held.
func (v *View) HasHindrance(id string) bool { return v.snapshot.HasHindrance(id) }

// HasArcaneBackground reports whether the background is held; "" matches any.
func (v *View) HasArcaneBackground(id string) bool { return v.snapshot.HasArcaneBackground(id) }

// PowerCount returns the number of known powers.
func (v *View) PowerCount() int { return len(v.snapshot.Powers) }

// TraitCeiling returns the highest die an attribute or skill may reach
// through purchases: the configured ceiling raised by trait_max modifiers.
func (v *View) TraitCeiling(targetType modifier.TargetType, id string) die.Die {
	ceiling := v.cfg.SkillCeiling
	if targetType == modifier.TargetAttribute {
		ceiling = v.cfg.AttributeCeiling
	}
	return v.mods.Die(ceiling, modifier.TargetTraitMax, id)
}
