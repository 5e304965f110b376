package modifier

import (
	"encoding/json"
	"reflect"
	"testing"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
)

func TestEffectiveValueSumsSourcesAndIgnoresDescriptive(t *testing.T) {
	mods := Concat(
		FromSource("edge.alertness", []Modifier{FlatBonus(TargetSkill, "notice", 1)}),
		FromSource("ancestry.elf", []Modifier{FlatBonus(TargetSkill, "notice", 1)}),
	)
	if got := EffectiveValue(TargetSkill, "notice", mods); got != 2 {
		t.Fatalf("expected notice bonus 2, got %d", got)
	}

	mods = Concat(mods, FromSource("gear.spyglass", []Modifier{
		Descriptive(TargetSkill, "notice", "ignore distance penalties"),
	}))
	if got := mods.Value(TargetSkill, "notice"); got != 2 {
		t.Fatalf("descriptive modifier changed value: got %d", got)
	}
}

func TestEffectiveValueMatchesTargetTypeAndID(t *testing.T) {
	mods := Set{
		RollBonus(TargetSkill, "notice", 2),
		FlatBonus(TargetAttribute, "notice", 5),
		FlatBonus(TargetSkill, "stealth", 3),
		DieIncrement(TargetSkill, "notice"),
	}
	if got := EffectiveValue(TargetSkill, "notice", mods); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := EffectiveValue(TargetSkill, "fighting", mods); got != 0 {
		t.Fatalf("expected 0 for untouched target, got %d", got)
	}
}

func TestEffectiveDieCountsIncrements(t *testing.T) {
	mods := Set{
		DieIncrement(TargetAttribute, "vigor"),
		FlatBonus(TargetAttribute, "vigor", 4),
		DieIncrement(TargetAttribute, "vigor"),
		DieIncrement(TargetAttribute, "agility"),
	}
	if got := EffectiveDie(die.D6(), TargetAttribute, "vigor", mods); got != die.D10() {
		t.Fatalf("expected d10, got %s", got)
	}
	if got := mods.Die(die.D12(), TargetAttribute, "vigor"); got != die.MustNew(12, 2) {
		t.Fatalf("expected d12+2, got %s", got)
	}
}

func TestEffectiveDieCountsModifiersNotValues(t *testing.T) {
	tests := []struct {
		name  string
		value *int
	}{
		{"value two", Int(2)},
		{"value zero", Int(0)},
		{"no value", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods := Set{{TargetType: TargetAttribute, Target: "vigor", ValueType: ValueDieIncrement, Value: tt.value}}
			if got := EffectiveDie(die.D6(), TargetAttribute, "vigor", mods); got != die.D8() {
				t.Fatalf("expected d8, got %s", got)
			}
		})
	}
}

func TestTraitMaxIncrementRaisesCeilingOneStep(t *testing.T) {
	mods := Set{{TargetType: TargetTraitMax, Target: "agility", ValueType: ValueDieIncrement, Value: Int(3)}}
	if got := mods.Die(die.D12(), TargetTraitMax, "agility"); got != die.MustNew(12, 1) {
		t.Fatalf("expected d12+1, got %s", got)
	}
}

func TestEffectiveDieIsOrderIndependent(t *testing.T) {
	a := Set{DieIncrement(TargetSkill, "shooting"), RollBonus(TargetSkill, "shooting", 1), DieIncrement(TargetSkill, "shooting")}
	b := Set{a[2], a[1], a[0]}
	if EffectiveDie(die.D4(), TargetSkill, "shooting", a) != EffectiveDie(die.D4(), TargetSkill, "shooting", b) {
		t.Fatal("effective die depends on modifier order")
	}
}

func TestSources(t *testing.T) {
	mods := Concat(
		FromSource("edge.brawny", []Modifier{FlatBonus(TargetDerived, DerivedToughness, 1)}),
		FromSource("gear.leather", []Modifier{FlatBonus(TargetDerived, DerivedToughness, 1)}),
		FromSource("edge.brawny", []Modifier{FlatBonus(TargetDerived, DerivedToughness, 0)}),
	)
	want := []string{"edge.brawny", "gear.leather"}
	if got := mods.Sources(TargetDerived, DerivedToughness); !reflect.DeepEqual(got, want) {
		t.Fatalf("sources = %v, want %v", got, want)
	}
}

func TestFromSourceDoesNotAlias(t *testing.T) {
	original := []Modifier{FlatBonus(TargetDerived, DerivedPace, 2)}
	tagged := FromSource("ancestry.saurian", original)
	if original[0].Source != "" {
		t.Fatal("FromSource mutated its input")
	}
	if tagged[0].Source != "ancestry.saurian" {
		t.Fatalf("unexpected source %q", tagged[0].Source)
	}
}

func TestParseTypes(t *testing.T) {
	if tt, err := ParseTargetType(" Trait_Max "); err != nil || tt != TargetTraitMax {
		t.Fatalf("ParseTargetType = %q, %v", tt, err)
	}
	if vt, err := ParseValueType("roll_bonus"); err != nil || vt != ValueRollBonus {
		t.Fatalf("ParseValueType = %q, %v", vt, err)
	}
	if _, err := ParseTargetType("stat"); !apperrors.HasCode(err, apperrors.CodeInvalidReference) {
		t.Fatalf("expected INVALID_REFERENCE, got %v", err)
	}
	if _, err := ParseValueType("bonus"); !apperrors.HasCode(err, apperrors.CodeInvalidReference) {
		t.Fatalf("expected INVALID_REFERENCE, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mod     Modifier
		wantErr bool
	}{
		{"flat bonus", FlatBonus(TargetSkill, "notice", 1), false},
		{"descriptive", Descriptive(TargetSkill, "notice", "text"), false},
		{"descriptive with value", Modifier{TargetType: TargetSkill, Target: "notice", ValueType: ValueDescriptive, Value: Int(1)}, true},
		{"numeric without value", Modifier{TargetType: TargetSkill, Target: "notice", ValueType: ValueFlatBonus}, true},
		{"increment", DieIncrement(TargetAttribute, "vigor"), false},
		{"increment without value", Modifier{TargetType: TargetAttribute, Target: "vigor", ValueType: ValueDieIncrement}, false},
		{"increment worth two", Modifier{TargetType: TargetAttribute, Target: "vigor", ValueType: ValueDieIncrement, Value: Int(2)}, true},
		{"increment worth zero", Modifier{TargetType: TargetAttribute, Target: "vigor", ValueType: ValueDieIncrement, Value: Int(0)}, true},
		{"negative increment", Modifier{TargetType: TargetAttribute, Target: "vigor", ValueType: ValueDieIncrement, Value: Int(-1)}, true},
		{"missing target", FlatBonus(TargetSkill, " ", 1), true},
		{"unknown target type", Modifier{TargetType: "stat", Target: "x", ValueType: ValueFlatBonus, Value: Int(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mod.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestJSONOmitsSource(t *testing.T) {
	m := FlatBonus(TargetSkill, "notice", 2)
	m.Source = "edge.alertness"
	payload, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"target_type":"skill","target":"notice","value_type":"flat_bonus","value":2}`
	if string(payload) != want {
		t.Fatalf("json = %s, want %s", payload, want)
	}
}
