package modifier

import "github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"

// Set is the effective modifier set of a character: the concatenation of the
// modifiers of every attached source. Sets are rebuilt from the snapshot for
// each query and never cached.
type Set []Modifier

// Concat returns a new set holding the modifiers of every given set in order.
func Concat(sets ...Set) Set {
	total := 0
	for _, s := range sets {
		total += len(s)
	}
	out := make(Set, 0, total)
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// FromSource copies mods and tags each copy with the granting source id.
func FromSource(source string, mods []Modifier) Set {
	out := make(Set, len(mods))
	for i, m := range mods {
		m.Source = source
		out[i] = m
	}
	return out
}

// ForTarget returns the modifiers that apply to the target, in set order.
func (s Set) ForTarget(targetType TargetType, target string) Set {
	var out Set
	for _, m := range s {
		if m.Matches(targetType, target) {
			out = append(out, m)
		}
	}
	return out
}

// Sources returns the distinct source ids contributing to the target, in
// first-seen order.
func (s Set) Sources(targetType TargetType, target string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range s.ForTarget(targetType, target) {
		if m.Source == "" {
			continue
		}
		if _, ok := seen[m.Source]; ok {
			continue
		}
		seen[m.Source] = struct{}{}
		out = append(out, m.Source)
	}
	return out
}

// Value sums the roll_bonus and flat_bonus modifiers of the target.
func (s Set) Value(targetType TargetType, target string) int {
	return EffectiveValue(targetType, target, s)
}

// Die applies the target's die_increment modifiers to base.
func (s Set) Die(base die.Die, targetType TargetType, target string) die.Die {
	return EffectiveDie(base, targetType, target, s)
}

// EffectiveValue sums every numeric modifier whose target matches. Descriptive
// and die_increment modifiers contribute nothing.
func EffectiveValue(targetType TargetType, target string, mods []Modifier) int {
	total := 0
	for _, m := range mods {
		if !m.Matches(targetType, target) {
			continue
		}
		switch m.ValueType {
		case ValueRollBonus, ValueFlatBonus:
			total += m.Amount()
		}
	}
	return total
}

// DieSteps counts the die_increment modifiers granted to the target. Each
// matching modifier is one step; its value is not read.
func DieSteps(targetType TargetType, target string, mods []Modifier) int {
	steps := 0
	for _, m := range mods {
		if m.Matches(targetType, target) && m.ValueType == ValueDieIncrement {
			steps++
		}
	}
	return steps
}

// EffectiveDie returns base raised by every matching die_increment modifier.
// Increments commute, so modifier order does not matter.
func EffectiveDie(base die.Die, targetType TargetType, target string, mods []Modifier) die.Die {
	out := base
	for i := DieSteps(targetType, target, mods); i > 0; i-- {
		out = out.Increment()
	}
	return out
}
