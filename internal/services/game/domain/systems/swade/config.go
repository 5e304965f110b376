// Package swade holds the rule constants shared by the Savage Worlds
// character build engine. The engine packages live underneath it.
package swade

import (
	"fmt"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/platform/config"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
)

// SystemID identifies the rule system in stored payloads.
const SystemID = "swade"

// GameConfig enumerates every tunable rule constant. It is passed explicitly
// into the ledger and the advancement machine so house rules are just a
// different value.
type GameConfig struct {
	// Creation budgets.
	StartingAttributePoints int `env:"STARTING_ATTRIBUTE_POINTS" envDefault:"5"`
	StartingSkillPoints     int `env:"STARTING_SKILL_POINTS" envDefault:"12"`
	StartingEdges           int `env:"STARTING_EDGES" envDefault:"0"`

	// Hindrance economy.
	MaxHindrancePoints               int `env:"MAX_HINDRANCE_POINTS" envDefault:"4"`
	MinorHindrancePoints             int `env:"MINOR_HINDRANCE_POINTS" envDefault:"1"`
	MajorHindrancePoints             int `env:"MAJOR_HINDRANCE_POINTS" envDefault:"2"`
	HindrancePointsPerEdge           int `env:"HINDRANCE_POINTS_PER_EDGE" envDefault:"2"`
	HindrancePointsPerAttributePoint int `env:"HINDRANCE_POINTS_PER_ATTRIBUTE_POINT" envDefault:"2"`
	HindrancePointsPerSkillPoint     int `env:"HINDRANCE_POINTS_PER_SKILL_POINT" envDefault:"1"`

	// Trait dice.
	StartingAttributeDie die.Die `env:"STARTING_ATTRIBUTE_DIE" envDefault:"d4"`
	CoreSkillDie         die.Die `env:"CORE_SKILL_DIE" envDefault:"d4"`
	AttributeCeiling     die.Die `env:"ATTRIBUTE_CEILING" envDefault:"d12"`
	SkillCeiling         die.Die `env:"SKILL_CEILING" envDefault:"d12"`

	// Advancement.
	AdvancesPerRank         int `env:"ADVANCES_PER_RANK" envDefault:"4"`
	LegendaryAdvances       int `env:"LEGENDARY_ADVANCES" envDefault:"16"`
	AdvanceSkillPoints      int `env:"ADVANCE_SKILL_POINTS" envDefault:"2"`
	AttributeAdvanceSpacing int `env:"ATTRIBUTE_ADVANCE_SPACING" envDefault:"2"`

	// Derived statistics.
	BasePace           int    `env:"BASE_PACE" envDefault:"6"`
	BaseParry          int    `env:"BASE_PARRY" envDefault:"2"`
	BaseToughness      int    `env:"BASE_TOUGHNESS" envDefault:"2"`
	ParrySkill         string `env:"PARRY_SKILL" envDefault:"fighting"`
	ToughnessAttribute string `env:"TOUGHNESS_ATTRIBUTE" envDefault:"vigor"`
}

// EnvPrefix is the prefix of the environment variables read by LoadConfig.
const EnvPrefix = "SWADE_"

// DefaultConfig returns the Adventure Edition core rules.
func DefaultConfig() GameConfig {
	return GameConfig{
		StartingAttributePoints:          5,
		StartingSkillPoints:              12,
		StartingEdges:                    0,
		MaxHindrancePoints:               4,
		MinorHindrancePoints:             1,
		MajorHindrancePoints:             2,
		HindrancePointsPerEdge:           2,
		HindrancePointsPerAttributePoint: 2,
		HindrancePointsPerSkillPoint:     1,
		StartingAttributeDie:             die.D4(),
		CoreSkillDie:                     die.D4(),
		AttributeCeiling:                 die.D12(),
		SkillCeiling:                     die.D12(),
		AdvancesPerRank:                  4,
		LegendaryAdvances:                16,
		AdvanceSkillPoints:               2,
		AttributeAdvanceSpacing:          2,
		BasePace:                         6,
		BaseParry:                        2,
		BaseToughness:                    2,
		ParrySkill:                       "fighting",
		ToughnessAttribute:               "vigor",
	}
}

// LoadConfig reads a GameConfig from SWADE_* environment variables, using the
// core rules for anything unset, and validates it.
func LoadConfig() (GameConfig, error) {
	var cfg GameConfig
	if err := config.ParseEnvWithPrefix(&cfg, EnvPrefix); err != nil {
		return GameConfig{}, apperrors.Wrap(apperrors.CodeInvalidConfig, "load game config", err)
	}
	if err := cfg.Validate(); err != nil {
		return GameConfig{}, err
	}
	return cfg, nil
}

// Validate checks that every constant is usable by the engine.
func (c GameConfig) Validate() error {
	nonNegative := []struct {
		name  string
		value int
	}{
		{"starting_attribute_points", c.StartingAttributePoints},
		{"starting_skill_points", c.StartingSkillPoints},
		{"starting_edges", c.StartingEdges},
		{"max_hindrance_points", c.MaxHindrancePoints},
		{"base_pace", c.BasePace},
		{"base_parry", c.BaseParry},
		{"base_toughness", c.BaseToughness},
	}
	for _, field := range nonNegative {
		if field.value < 0 {
			return invalidConfig(fmt.Sprintf("%s must be non-negative, got %d", field.name, field.value))
		}
	}

	positive := []struct {
		name  string
		value int
	}{
		{"minor_hindrance_points", c.MinorHindrancePoints},
		{"major_hindrance_points", c.MajorHindrancePoints},
		{"hindrance_points_per_edge", c.HindrancePointsPerEdge},
		{"hindrance_points_per_attribute_point", c.HindrancePointsPerAttributePoint},
		{"hindrance_points_per_skill_point", c.HindrancePointsPerSkillPoint},
		{"advances_per_rank", c.AdvancesPerRank},
		{"advance_skill_points", c.AdvanceSkillPoints},
		{"attribute_advance_spacing", c.AttributeAdvanceSpacing},
	}
	for _, field := range positive {
		if field.value <= 0 {
			return invalidConfig(fmt.Sprintf("%s must be positive, got %d", field.name, field.value))
		}
	}

	if c.LegendaryAdvances < c.AdvancesPerRank*int(RankHeroic) {
		return invalidConfig(fmt.Sprintf("legendary_advances must be at least %d", c.AdvancesPerRank*int(RankHeroic)))
	}
	for name, d := range map[string]die.Die{
		"starting_attribute_die": c.StartingAttributeDie,
		"core_skill_die":         c.CoreSkillDie,
		"attribute_ceiling":      c.AttributeCeiling,
		"skill_ceiling":          c.SkillCeiling,
	} {
		if d.IsZero() {
			return invalidConfig(name + " is required")
		}
	}
	if c.AttributeCeiling.Less(c.StartingAttributeDie) {
		return invalidConfig("attribute_ceiling is below starting_attribute_die")
	}
	if c.SkillCeiling.Less(c.CoreSkillDie) {
		return invalidConfig("skill_ceiling is below core_skill_die")
	}
	if c.ParrySkill == "" || c.ToughnessAttribute == "" {
		return invalidConfig("parry_skill and toughness_attribute are required")
	}
	return nil
}

// RankForAdvances returns the rank reached after the given number of
// committed advances.
func (c GameConfig) RankForAdvances(advances int) Rank {
	if advances >= c.LegendaryAdvances {
		return RankLegendary
	}
	if c.AdvancesPerRank <= 0 || advances < 0 {
		return RankNovice
	}
	rank := Rank(advances / c.AdvancesPerRank)
	if rank > RankHeroic {
		return RankHeroic
	}
	return rank
}

func invalidConfig(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidConfig, "invalid game config: "+reason, map[string]string{"Reason": reason})
}
