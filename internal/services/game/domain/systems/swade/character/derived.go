package character

import (
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/modifier"
)

// DerivedStats are computed from a snapshot on demand and never stored.
type DerivedStats struct {
	Pace      int        `json:"pace"`
	Parry     int        `json:"parry"`
	Toughness int        `json:"toughness"`
	Size      int        `json:"size"`
	Rank      swade.Rank `json:"rank"`
	// Sources lists the entities contributing to each statistic.
	Sources map[string][]string `json:"sources,omitempty"`
}

// Derive computes the derived statistics of s.
//
// Pace is the base pace plus pace modifiers. Parry is the base parry plus
// half the effective parry skill die (zero when untrained) plus parry
// modifiers. Toughness is the base toughness plus half the effective
// toughness attribute die plus Size plus toughness modifiers.
func Derive(s Snapshot, catalog *content.Catalog, cfg swade.GameConfig) DerivedStats {
	view := NewView(s, catalog, cfg)
	mods := view.Modifiers()

	size := mods.Value(modifier.TargetDerived, modifier.DerivedSize)

	parry := cfg.BaseParry + mods.Value(modifier.TargetDerived, modifier.DerivedParry)
	if fighting, trained := view.SkillDie(cfg.ParrySkill); trained {
		parry += fighting.Half()
	}

	toughness := cfg.BaseToughness + size + mods.Value(modifier.TargetDerived, modifier.DerivedToughness)
	if vigor := view.AttributeDie(cfg.ToughnessAttribute); !vigor.IsZero() {
		toughness += vigor.Half()
	}

	stats := DerivedStats{
		Pace:      cfg.BasePace + mods.Value(modifier.TargetDerived, modifier.DerivedPace),
		Parry:     parry,
		Toughness: toughness,
		Size:      size,
		Rank:      view.Rank(),
		Sources:   map[string][]string{},
	}
	for _, target := range []string{modifier.DerivedPace, modifier.DerivedParry, modifier.DerivedToughness, modifier.DerivedSize} {
		if sources := mods.Sources(modifier.TargetDerived, target); len(sources) > 0 {
			stats.Sources[target] = sources
		}
	}
	return stats
}
