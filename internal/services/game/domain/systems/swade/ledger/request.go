package ledger

import (
	"fmt"
	"strings"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
)

// Request is the wire form of a mutation. Target carries the entity id, or
// the conversion target for conversion mutations.
type Request struct {
	Kind   MutationKind `json:"kind"`
	Target string       `json:"target,omitempty"`
}

// Mutation decodes the request. Unknown kinds and missing targets are
// INVALID_MUTATION.
func (r Request) Mutation() (Mutation, error) {
	kind := MutationKind(strings.ToLower(strings.TrimSpace(string(r.Kind))))
	target := strings.TrimSpace(r.Target)
	if target == "" && kind != KindFinalizeCreation && kind != KindSetAncestry {
		return nil, InvalidMutation(fmt.Sprintf("%s needs a target", kind))
	}
	switch kind {
	case KindSetAncestry:
		return SetAncestry{Ancestry: target}, nil
	case KindRaiseAttribute:
		return RaiseAttribute{Attribute: target}, nil
	case KindLowerAttribute:
		return LowerAttribute{Attribute: target}, nil
	case KindRaiseSkill:
		return RaiseSkill{Skill: target}, nil
	case KindLowerSkill:
		return LowerSkill{Skill: target}, nil
	case KindAddHindrance:
		return AddHindrance{Hindrance: target}, nil
	case KindRemoveHindrance:
		return RemoveHindrance{Hindrance: target}, nil
	case KindConvertHindrancePoints:
		c, err := character.ParseConversionTarget(target)
		if err != nil {
			return nil, err
		}
		return ConvertHindrancePoints{Target: c}, nil
	case KindRevertConversion:
		c, err := character.ParseConversionTarget(target)
		if err != nil {
			return nil, err
		}
		return RevertConversion{Target: c}, nil
	case KindAddEdge:
		return AddEdge{Edge: target}, nil
	case KindRemoveEdge:
		return RemoveEdge{Edge: target}, nil
	case KindAddArcaneBackground:
		return AddArcaneBackground{ArcaneBackground: target}, nil
	case KindRemoveArcaneBackground:
		return RemoveArcaneBackground{ArcaneBackground: target}, nil
	case KindAddPower:
		return AddPower{Power: target}, nil
	case KindRemovePower:
		return RemovePower{Power: target}, nil
	case KindAddGear:
		return AddGear{Gear: target}, nil
	case KindRemoveGear:
		return RemoveGear{Gear: target}, nil
	case KindFinalizeCreation:
		return FinalizeCreation{}, nil
	default:
		return nil, InvalidMutation(fmt.Sprintf("unknown mutation kind %q", r.Kind))
	}
}
