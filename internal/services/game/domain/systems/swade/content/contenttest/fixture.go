// Package contenttest provides a small core-rules catalog for tests.
package contenttest

import (
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/modifier"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/requirement"
)

// Catalog returns the fixture catalog. It panics if the fixture is invalid.
func Catalog() *content.Catalog {
	c, err := content.New(Data())
	if err != nil {
		panic(err)
	}
	return c
}

func tree(expr requirement.Expr) requirement.Tree { return requirement.Tree{Expr: expr} }

// Data returns the fixture data.
func Data() content.Data {
	return content.Data{
		Attributes: []content.Attribute{
			{ID: "agility", Name: "Agility"},
			{ID: "smarts", Name: "Smarts"},
			{ID: "spirit", Name: "Spirit"},
			{ID: "strength", Name: "Strength"},
			{ID: "vigor", Name: "Vigor"},
		},
		Skills: []content.Skill{
			{ID: "athletics", Name: "Athletics", LinkedAttribute: "agility", Core: true},
			{ID: "common_knowledge", Name: "Common Knowledge", LinkedAttribute: "smarts", Core: true},
			{ID: "notice", Name: "Notice", LinkedAttribute: "smarts", Core: true},
			{ID: "persuasion", Name: "Persuasion", LinkedAttribute: "spirit", Core: true},
			{ID: "stealth", Name: "Stealth", LinkedAttribute: "agility", Core: true},
			{ID: "fighting", Name: "Fighting", LinkedAttribute: "agility"},
			{ID: "shooting", Name: "Shooting", LinkedAttribute: "agility"},
			{ID: "spellcasting", Name: "Spellcasting", LinkedAttribute: "smarts"},
			{ID: "faith", Name: "Faith", LinkedAttribute: "spirit"},
			{ID: "healing", Name: "Healing", LinkedAttribute: "smarts"},
			{ID: "intimidation", Name: "Intimidation", LinkedAttribute: "spirit"},
		},
		Edges: []content.Edge{
			{
				ID: "alertness", Name: "Alertness", Category: content.EdgeBackground,
				Modifiers: []modifier.Modifier{modifier.RollBonus(modifier.TargetSkill, "notice", 2)},
			},
			{
				ID: "brawny", Name: "Brawny", Category: content.EdgeBackground,
				Requirements: tree(requirement.AllOf(
					requirement.AttributeAtLeast("strength", die.D6()),
					requirement.AttributeAtLeast("vigor", die.D6()),
				)),
				Modifiers: []modifier.Modifier{
					modifier.FlatBonus(modifier.TargetDerived, modifier.DerivedSize, 1),
					modifier.FlatBonus(modifier.TargetDerived, modifier.DerivedToughness, 1),
				},
			},
			{
				ID: "quick", Name: "Quick", Category: content.EdgeBackground,
				Requirements: tree(requirement.AttributeAtLeast("agility", die.D8())),
			},
			{
				ID: "fleet_footed", Name: "Fleet-Footed", Category: content.EdgeBackground,
				Requirements: tree(requirement.AttributeAtLeast("agility", die.D6())),
				Modifiers: []modifier.Modifier{
					modifier.FlatBonus(modifier.TargetDerived, modifier.DerivedPace, 2),
				},
			},
			{
				ID: "berserk", Name: "Berserk", Category: content.EdgeBackground,
				Requirements: tree(requirement.Negate(requirement.HindranceHeld("pacifist_major"))),
			},
			{
				ID: "block", Name: "Block", Category: content.EdgeCombat, Rank: swade.RankSeasoned,
				Requirements: tree(requirement.SkillAtLeast("fighting", die.D8())),
				Modifiers: []modifier.Modifier{
					modifier.FlatBonus(modifier.TargetDerived, modifier.DerivedParry, 1),
				},
			},
			{
				ID: "improved_block", Name: "Improved Block", Category: content.EdgeCombat, Rank: swade.RankVeteran,
				Requirements: tree(requirement.EdgeHeld("block")),
				Modifiers: []modifier.Modifier{
					modifier.FlatBonus(modifier.TargetDerived, modifier.DerivedParry, 1),
				},
			},
			{
				ID: "marksman", Name: "Marksman", Category: content.EdgeCombat, Rank: swade.RankSeasoned,
				Requirements: tree(requirement.AnyOf(
					requirement.SkillAtLeast("shooting", die.D8()),
					requirement.SkillAtLeast("athletics", die.D8()),
				)),
			},
			{
				ID: "power_points", Name: "Power Points", Category: content.EdgePower,
				Requirements: tree(requirement.ArcaneBackgroundHeld("")),
				Repeatable:   true,
			},
			{
				ID: "new_powers", Name: "New Powers", Category: content.EdgePower,
				Requirements: tree(requirement.ArcaneBackgroundHeld("")),
				Repeatable:   true,
				GrantsPowers: 2,
			},
			{
				ID: "expert_agility", Name: "Expert (Agility)", Category: content.EdgeLegendary, Rank: swade.RankLegendary,
				Requirements: tree(requirement.AttributeAtLeast("agility", die.D12())),
				Modifiers: []modifier.Modifier{
					modifier.DieIncrement(modifier.TargetTraitMax, "agility"),
				},
			},
		},
		Hindrances: []content.Hindrance{
			{ID: "loyal", Name: "Loyal", Severity: content.SeverityMinor},
			{ID: "curious", Name: "Curious", Severity: content.SeverityMajor},
			{ID: "quirk", Name: "Quirk", Severity: content.SeverityMinor},
			{ID: "heroic", Name: "Heroic", Severity: content.SeverityMajor},
			{ID: "cautious", Name: "Cautious", Severity: content.SeverityMinor},
			{ID: "pacifist_minor", Name: "Pacifist (Minor)", Severity: content.SeverityMinor, CompanionID: "pacifist_major"},
			{ID: "pacifist_major", Name: "Pacifist (Major)", Severity: content.SeverityMajor, CompanionID: "pacifist_minor"},
			{
				ID: "bad_eyes_minor", Name: "Bad Eyes (Minor)", Severity: content.SeverityMinor, CompanionID: "bad_eyes_major",
				Modifiers: []modifier.Modifier{modifier.Descriptive(modifier.TargetSkill, "notice", "-1 to sight-based rolls without glasses")},
			},
			{
				ID: "bad_eyes_major", Name: "Bad Eyes (Major)", Severity: content.SeverityMajor, CompanionID: "bad_eyes_minor",
				Modifiers: []modifier.Modifier{modifier.RollBonus(modifier.TargetSkill, "notice", -2)},
			},
			{
				ID: "slow_minor", Name: "Slow (Minor)", Severity: content.SeverityMinor, CompanionID: "slow_major",
				Modifiers: []modifier.Modifier{modifier.FlatBonus(modifier.TargetDerived, modifier.DerivedPace, -1)},
			},
			{
				ID: "slow_major", Name: "Slow (Major)", Severity: content.SeverityMajor, CompanionID: "slow_minor",
				Modifiers: []modifier.Modifier{modifier.FlatBonus(modifier.TargetDerived, modifier.DerivedPace, -2)},
			},
		},
		Powers: []content.Power{
			{ID: "bolt", Name: "Bolt", PowerPoints: 1, Range: "Smarts x2", Duration: "Instant"},
			{ID: "healing", Name: "Healing", PowerPoints: 3, Range: "Touch", Duration: "Instant"},
			{ID: "armor", Name: "Armor", PowerPoints: 2, Range: "Touch", Duration: "5"},
			{ID: "blast", Name: "Blast", Rank: swade.RankSeasoned, PowerPoints: 3, Range: "Smarts x4", Duration: "Instant"},
			{ID: "fly", Name: "Fly", Rank: swade.RankVeteran, PowerPoints: 3, Range: "Touch", Duration: "5"},
		},
		Ancestries: []content.Ancestry{
			{ID: "human", Name: "Human", BonusEdges: 1},
			{
				ID: "dwarf", Name: "Dwarf",
				Modifiers: []modifier.Modifier{
					modifier.DieIncrement(modifier.TargetAttribute, "vigor"),
					modifier.FlatBonus(modifier.TargetDerived, modifier.DerivedPace, -1),
					modifier.Descriptive(modifier.TargetSkill, "notice", "low light vision"),
				},
			},
			{
				ID: "elf", Name: "Elf",
				Modifiers: []modifier.Modifier{
					modifier.DieIncrement(modifier.TargetAttribute, "agility"),
				},
			},
			{
				ID: "half_folk", Name: "Half-Folk",
				Modifiers: []modifier.Modifier{
					modifier.FlatBonus(modifier.TargetDerived, modifier.DerivedSize, -1),
				},
				FreeEdges: []string{"fleet_footed"},
			},
		},
		ArcaneBackgrounds: []content.ArcaneBackground{
			{ID: "magic", Name: "Magic", ArcaneSkill: "spellcasting", StartingPowers: 3, PowerPoints: 10},
			{ID: "miracles", Name: "Miracles", ArcaneSkill: "faith", StartingPowers: 3, PowerPoints: 10},
		},
		Gear: []content.Gear{
			{
				ID: "leather_jacket", Name: "Leather Jacket", Category: "armor", Cost: 20, Weight: 5,
				Modifiers: []modifier.Modifier{modifier.FlatBonus(modifier.TargetDerived, modifier.DerivedToughness, 1)},
			},
			{
				ID: "small_shield", Name: "Small Shield", Category: "shield", Cost: 25, Weight: 4,
				Modifiers: []modifier.Modifier{modifier.FlatBonus(modifier.TargetDerived, modifier.DerivedParry, 1)},
			},
			{ID: "long_sword", Name: "Long Sword", Category: "weapon", Cost: 300, Weight: 3, MinStrength: dieRef(die.D8())},
		},
	}
}

func dieRef(d die.Die) *die.Die { return &d }
