// Package modifier resolves bonuses granted by ancestries, edges, hindrances,
// gear and arcane backgrounds into effective trait values.
package modifier

import (
	"fmt"
	"strings"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
)

// TargetType names the kind of statistic a modifier applies to.
type TargetType string

const (
	TargetAttribute TargetType = "attribute"
	TargetSkill     TargetType = "skill"
	TargetDerived   TargetType = "derived"
	// TargetTraitMax raises the advancement ceiling of an attribute or skill.
	TargetTraitMax TargetType = "trait_max"
)

// ValueType names how a modifier's value is applied.
type ValueType string

const (
	ValueDieIncrement ValueType = "die_increment"
	ValueRollBonus    ValueType = "roll_bonus"
	ValueFlatBonus    ValueType = "flat_bonus"
	// ValueDescriptive carries rules text only and never aggregates.
	ValueDescriptive ValueType = "descriptive"
)

// Derived statistic identifiers used as modifier targets.
const (
	DerivedPace      = "pace"
	DerivedParry     = "parry"
	DerivedToughness = "toughness"
	DerivedSize      = "size"
)

// ParseTargetType reads a target type name. Unknown names are an error.
func ParseTargetType(value string) (TargetType, error) {
	switch t := TargetType(strings.ToLower(strings.TrimSpace(value))); t {
	case TargetAttribute, TargetSkill, TargetDerived, TargetTraitMax:
		return t, nil
	default:
		return "", invalidReference(fmt.Sprintf("unknown modifier target type %q", value))
	}
}

// ParseValueType reads a value type name. Unknown names are an error.
func ParseValueType(value string) (ValueType, error) {
	switch v := ValueType(strings.ToLower(strings.TrimSpace(value))); v {
	case ValueDieIncrement, ValueRollBonus, ValueFlatBonus, ValueDescriptive:
		return v, nil
	default:
		return "", invalidReference(fmt.Sprintf("unknown modifier value type %q", value))
	}
}

// Modifier is one typed bonus, penalty or die-step change on a named target.
type Modifier struct {
	TargetType  TargetType `json:"target_type"`
	Target      string     `json:"target"`
	ValueType   ValueType  `json:"value_type"`
	Value       *int       `json:"value,omitempty"`
	Description string     `json:"description,omitempty"`
	// Source is the id of the entity that granted the modifier. It is filled
	// in during aggregation and is not part of reference data.
	Source string `json:"-"`
}

// Validate checks that the modifier is well formed.
func (m Modifier) Validate() error {
	if _, err := ParseTargetType(string(m.TargetType)); err != nil {
		return err
	}
	if _, err := ParseValueType(string(m.ValueType)); err != nil {
		return err
	}
	if strings.TrimSpace(m.Target) == "" {
		return invalidReference("modifier target is required")
	}
	if m.ValueType == ValueDescriptive {
		if m.Value != nil {
			return invalidReference(fmt.Sprintf("descriptive modifier on %s must not carry a value", m.Target))
		}
		return nil
	}
	if m.ValueType == ValueDieIncrement {
		if m.Value != nil && *m.Value != 1 {
			return invalidReference(fmt.Sprintf("die_increment modifier on %s is one step; value must be 1 or omitted", m.Target))
		}
		return nil
	}
	if m.Value == nil {
		return invalidReference(fmt.Sprintf("%s modifier on %s requires a value", m.ValueType, m.Target))
	}
	return nil
}

// Matches reports whether the modifier applies to the target.
func (m Modifier) Matches(targetType TargetType, target string) bool {
	return m.TargetType == targetType && m.Target == target
}

// Amount returns the modifier's value, or zero when it carries none.
func (m Modifier) Amount() int {
	if m.Value == nil || m.ValueType == ValueDescriptive {
		return 0
	}
	return *m.Value
}

// Int returns a pointer to v for building modifiers in literals.
func Int(v int) *int { return &v }

// FlatBonus builds a flat_bonus modifier.
func FlatBonus(targetType TargetType, target string, value int) Modifier {
	return Modifier{TargetType: targetType, Target: target, ValueType: ValueFlatBonus, Value: Int(value)}
}

// RollBonus builds a roll_bonus modifier.
func RollBonus(targetType TargetType, target string, value int) Modifier {
	return Modifier{TargetType: targetType, Target: target, ValueType: ValueRollBonus, Value: Int(value)}
}

// DieIncrement builds a die_increment modifier. Each one is worth a single
// step.
func DieIncrement(targetType TargetType, target string) Modifier {
	return Modifier{TargetType: targetType, Target: target, ValueType: ValueDieIncrement, Value: Int(1)}
}

// Descriptive builds a value-less descriptive modifier.
func Descriptive(targetType TargetType, target, description string) Modifier {
	return Modifier{TargetType: targetType, Target: target, ValueType: ValueDescriptive, Description: description}
}

func invalidReference(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidReference, reason, map[string]string{"Reason": reason})
}
