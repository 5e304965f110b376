// Package availability answers whether a reference entity can be selected
// by a character right now, and why not.
package availability

import (
	"fmt"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/requirement"
)

// Result is the availability of one entity for one character.
type Result struct {
	Kind content.Kind `json:"kind"`
	ID   string       `json:"id"`
	Name string       `json:"name"`
	// IsAvailable is false when the entity is already held and not
	// repeatable, or its requirements fail.
	IsAvailable         bool                 `json:"is_available"`
	AlreadySelected     bool                 `json:"already_selected"`
	RequirementStatuses []requirement.Status `json:"requirement_statuses"`
}

// Check evaluates the entity of kind with id against s. Attributes and
// skills are not selections and are rejected with INVALID_REFERENCE.
func Check(kind content.Kind, id string, s character.Snapshot, catalog *content.Catalog, cfg swade.GameConfig) (Result, error) {
	view := character.NewView(s, catalog, cfg)
	return check(kind, id, view, catalog)
}

// List checks every entity of kind, in catalog order.
func List(kind content.Kind, s character.Snapshot, catalog *content.Catalog, cfg swade.GameConfig) ([]Result, error) {
	entries, err := catalog.List(kind, "")
	if err != nil {
		return nil, err
	}
	view := character.NewView(s, catalog, cfg)
	out := make([]Result, 0, len(entries))
	for _, entry := range entries {
		r, err := check(kind, entry.ID, view, catalog)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func check(kind content.Kind, id string, view *character.View, catalog *content.Catalog) (Result, error) {
	s := view.Snapshot()
	var (
		name     string
		expr     requirement.Expr
		selected bool
		blocked  bool
		extra    []requirement.Status
	)
	switch kind {
	case content.KindEdge:
		e, err := catalog.Edge(id)
		if err != nil {
			return Result{}, err
		}
		name, expr = e.Name, e.Prerequisites()
		selected = s.HasEdge(id)
		blocked = selected && !e.Repeatable
	case content.KindHindrance:
		h, err := catalog.Hindrance(id)
		if err != nil {
			return Result{}, err
		}
		name = h.Name
		selected = s.HasHindrance(id)
		blocked = selected
		if h.CompanionID != "" {
			companion, err := catalog.Hindrance(h.CompanionID)
			if err != nil {
				return Result{}, err
			}
			held := s.HasHindrance(companion.ID)
			extra = append(extra, requirement.Status{Description: "not " + companion.Name, Met: !held})
			blocked = blocked || held
		}
	case content.KindPower:
		p, err := catalog.Power(id)
		if err != nil {
			return Result{}, err
		}
		name, expr = p.Name, p.Prerequisites()
		selected = s.HasPower(id)
		blocked = selected
	case content.KindArcaneBackground:
		ab, err := catalog.ArcaneBackground(id)
		if err != nil {
			return Result{}, err
		}
		name, expr = ab.Name, ab.Requirements.Expr
		selected = s.HasArcaneBackground(id)
		blocked = selected
	case content.KindAncestry:
		a, err := catalog.Ancestry(id)
		if err != nil {
			return Result{}, err
		}
		name = a.Name
		selected = s.Ancestry == id
		blocked = selected
	case content.KindGear:
		g, err := catalog.Gear(id)
		if err != nil {
			return Result{}, err
		}
		name = g.Name
		selected = s.HasGear(id)
	default:
		reason := fmt.Sprintf("availability does not apply to %s", kind)
		return Result{}, apperrors.WithMetadata(apperrors.CodeInvalidReference, reason, map[string]string{"Reason": reason})
	}

	statuses := append(requirement.Statuses(expr, view), extra...)
	if statuses == nil {
		statuses = []requirement.Status{}
	}
	return Result{
		Kind:                kind,
		ID:                  id,
		Name:                name,
		IsAvailable:         !blocked && requirement.Evaluate(expr, view),
		AlreadySelected:     selected,
		RequirementStatuses: statuses,
	}, nil
}
