package ledger

import (
	"fmt"
	"slices"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/modifier"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/requirement"
)

// MutationKind names a mutation on the wire.
type MutationKind string

const (
	KindSetAncestry            MutationKind = "set_ancestry"
	KindRaiseAttribute         MutationKind = "raise_attribute"
	KindLowerAttribute         MutationKind = "lower_attribute"
	KindRaiseSkill             MutationKind = "raise_skill"
	KindLowerSkill             MutationKind = "lower_skill"
	KindAddHindrance           MutationKind = "add_hindrance"
	KindRemoveHindrance        MutationKind = "remove_hindrance"
	KindConvertHindrancePoints MutationKind = "convert_hindrance_points"
	KindRevertConversion       MutationKind = "revert_conversion"
	KindAddEdge                MutationKind = "add_edge"
	KindRemoveEdge             MutationKind = "remove_edge"
	KindAddArcaneBackground    MutationKind = "add_arcane_background"
	KindRemoveArcaneBackground MutationKind = "remove_arcane_background"
	KindAddPower               MutationKind = "add_power"
	KindRemovePower            MutationKind = "remove_power"
	KindAddGear                MutationKind = "add_gear"
	KindRemoveGear             MutationKind = "remove_gear"
	KindFinalizeCreation       MutationKind = "finalize_creation"
)

// Mutation is one build change. The set of mutations is closed.
type Mutation interface {
	Kind() MutationKind
	apply(t *txn) error
}

// SetAncestry selects an ancestry, replacing any previous one and the free
// edges it granted. An empty id clears the ancestry.
type SetAncestry struct{ Ancestry string }

// RaiseAttribute buys one attribute step for one attribute point.
type RaiseAttribute struct{ Attribute string }

// LowerAttribute refunds the attribute's most recent purchased step.
type LowerAttribute struct{ Attribute string }

// RaiseSkill buys one skill step. An untrained skill's first step is d4.
type RaiseSkill struct{ Skill string }

// LowerSkill refunds the skill's most recent purchased step.
type LowerSkill struct{ Skill string }

// AddHindrance takes a hindrance and earns its points.
type AddHindrance struct{ Hindrance string }

// RemoveHindrance drops a hindrance and the points it earned.
type RemoveHindrance struct{ Hindrance string }

// ConvertHindrancePoints trades usable hindrance points for an attribute
// point, a skill point or an edge slot.
type ConvertHindrancePoints struct{ Target character.ConversionTarget }

// RevertConversion undoes the most recent conversion to Target.
type RevertConversion struct{ Target character.ConversionTarget }

// AddEdge takes an edge during creation using an edge slot.
type AddEdge struct{ Edge string }

// RemoveEdge drops the most recent non-ancestry selection of an edge.
type RemoveEdge struct{ Edge string }

// AddArcaneBackground takes an arcane background using an edge slot.
type AddArcaneBackground struct{ ArcaneBackground string }

// RemoveArcaneBackground drops an arcane background.
type RemoveArcaneBackground struct{ ArcaneBackground string }

// AddPower learns a power using a power pick.
type AddPower struct{ Power string }

// RemovePower forgets a power.
type RemovePower struct{ Power string }

// AddGear carries a gear item. Gear is not budgeted.
type AddGear struct{ Gear string }

// RemoveGear drops one carried gear item.
type RemoveGear struct{ Gear string }

// FinalizeCreation ends the creation phase once every creation step is
// complete.
type FinalizeCreation struct{}

func (SetAncestry) Kind() MutationKind            { return KindSetAncestry }
func (RaiseAttribute) Kind() MutationKind         { return KindRaiseAttribute }
func (LowerAttribute) Kind() MutationKind         { return KindLowerAttribute }
func (RaiseSkill) Kind() MutationKind             { return KindRaiseSkill }
func (LowerSkill) Kind() MutationKind             { return KindLowerSkill }
func (AddHindrance) Kind() MutationKind           { return KindAddHindrance }
func (RemoveHindrance) Kind() MutationKind        { return KindRemoveHindrance }
func (ConvertHindrancePoints) Kind() MutationKind { return KindConvertHindrancePoints }
func (RevertConversion) Kind() MutationKind       { return KindRevertConversion }
func (AddEdge) Kind() MutationKind                { return KindAddEdge }
func (RemoveEdge) Kind() MutationKind             { return KindRemoveEdge }
func (AddArcaneBackground) Kind() MutationKind    { return KindAddArcaneBackground }
func (RemoveArcaneBackground) Kind() MutationKind { return KindRemoveArcaneBackground }
func (AddPower) Kind() MutationKind               { return KindAddPower }
func (RemovePower) Kind() MutationKind            { return KindRemovePower }
func (AddGear) Kind() MutationKind                { return KindAddGear }
func (RemoveGear) Kind() MutationKind             { return KindRemoveGear }
func (FinalizeCreation) Kind() MutationKind       { return KindFinalizeCreation }

// txn is one mutation in flight over a private clone.
type txn struct {
	ledger *Ledger
	s      character.Snapshot
	opts   Options
}

func (t *txn) view() *character.View {
	return character.NewView(t.s, t.ledger.catalog, t.ledger.cfg)
}

func (t *txn) provenance() character.Provenance {
	if t.s.Phase == character.PhasePlay {
		return character.ProvenanceEditor
	}
	return character.ProvenanceCreation
}

func (t *txn) requireCreation() error {
	if t.s.Phase == character.PhasePlay && !t.opts.BypassBudget {
		return InvalidMutation("character creation is finalized")
	}
	return nil
}

// spend rejects cost when the pool has less than that available.
func (t *txn) spend(pool string, cost, available int) error {
	if cost > available && !t.opts.BypassBudget {
		return InsufficientPoints(pool, cost, max(available, 0))
	}
	return nil
}

func (t *txn) checkRequirements(entity string, expr requirement.Expr) error {
	if t.opts.BypassRequirements {
		return nil
	}
	view := t.view()
	if requirement.Evaluate(expr, view) {
		return nil
	}
	return RequirementNotMet(entity, requirement.Unmet(expr, view))
}

// checkPools rejects a state where a refund left a pool overdrawn.
func (t *txn) checkPools() error {
	if t.opts.BypassBudget {
		return nil
	}
	b := t.ledger.Budget(t.s)
	switch {
	case b.AttributeSpent > b.AttributePoints:
		return InsufficientPoints(PoolAttribute, b.AttributeSpent, b.AttributePoints)
	case b.SkillSpent > b.SkillPoints:
		return InsufficientPoints(PoolSkill, b.SkillSpent, b.SkillPoints)
	case b.HindranceSpent > b.HindranceUsable:
		return InsufficientPoints(PoolHindrance, b.HindranceSpent, b.HindranceUsable)
	case b.EdgesTaken > b.EdgeSlots:
		return InsufficientPoints(PoolEdge, b.EdgesTaken, b.EdgeSlots)
	case b.PowersKnown > b.PowerPicks:
		return InsufficientPoints(PoolPower, b.PowersKnown, b.PowerPicks)
	}
	return nil
}

func (m SetAncestry) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	catalog := t.ledger.catalog
	var freeEdges []string
	if m.Ancestry != "" {
		a, err := catalog.Ancestry(m.Ancestry)
		if err != nil {
			return err
		}
		freeEdges = a.FreeEdges
	}

	edges := make([]character.Selection, 0, len(t.s.Edges))
	for _, sel := range t.s.Edges {
		if sel.Provenance != character.ProvenanceAncestry {
			edges = append(edges, sel)
		}
	}
	t.s.Edges = edges
	t.s.Ancestry = m.Ancestry

	for _, id := range freeEdges {
		e, err := catalog.Edge(id)
		if err != nil {
			return err
		}
		if t.s.HasEdge(id) && !e.Repeatable {
			return DuplicateSelection(e.Name)
		}
		t.s.Edges = append(t.s.Edges, character.Selection{ID: id, Provenance: character.ProvenanceAncestry})
	}
	return t.checkPools()
}

func (m RaiseAttribute) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	a, err := t.ledger.catalog.Attribute(m.Attribute)
	if err != nil {
		return err
	}
	current, ok := t.s.Attributes[a.ID]
	if !ok {
		current = t.ledger.cfg.StartingAttributeDie
	}
	next := current.Increment()
	if next.Compare(t.view().TraitCeiling(modifier.TargetAttribute, a.ID)) > 0 {
		return InvalidMutation(fmt.Sprintf("%s is already at its maximum %s", a.Name, current))
	}
	b := t.ledger.Budget(t.s)
	if err := t.spend(PoolAttribute, 1, b.AttributePoints-b.AttributeSpent); err != nil {
		return err
	}
	t.s.Attributes[a.ID] = next
	t.s.AttributeCosts[a.ID] = append(t.s.AttributeCosts[a.ID], 1)
	t.s.Points.AttributeSpent++
	return nil
}

func (m LowerAttribute) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	a, err := t.ledger.catalog.Attribute(m.Attribute)
	if err != nil {
		return err
	}
	costs := t.s.AttributeCosts[a.ID]
	if len(costs) == 0 {
		return InvalidMutation(fmt.Sprintf("%s has no purchased step to refund", a.Name))
	}
	prev, err := t.s.Attributes[a.ID].Decrement()
	if err != nil {
		return InvalidMutation(fmt.Sprintf("%s cannot be lowered: %v", a.Name, err))
	}
	refund := costs[len(costs)-1]
	setCosts(t.s.AttributeCosts, a.ID, costs[:len(costs)-1])
	t.s.Attributes[a.ID] = prev
	t.s.Points.AttributeSpent = max(t.s.Points.AttributeSpent-refund, 0)
	return nil
}

func (m RaiseSkill) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	sk, err := t.ledger.catalog.Skill(m.Skill)
	if err != nil {
		return err
	}
	view := t.view()
	next := die.D4()
	if current, trained := t.s.Skills[sk.ID]; trained {
		next = current.Increment()
	}
	if next.Compare(view.TraitCeiling(modifier.TargetSkill, sk.ID)) > 0 {
		return InvalidMutation(fmt.Sprintf("%s is already at its maximum", sk.Name))
	}
	cost := StepCost(next, view.AttributeDie(sk.LinkedAttribute))
	b := t.ledger.Budget(t.s)
	if err := t.spend(PoolSkill, cost, b.SkillPoints-b.SkillSpent); err != nil {
		return err
	}
	t.s.Skills[sk.ID] = next
	t.s.SkillCosts[sk.ID] = append(t.s.SkillCosts[sk.ID], cost)
	t.s.Points.SkillSpent += cost
	return nil
}

func (m LowerSkill) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	sk, err := t.ledger.catalog.Skill(m.Skill)
	if err != nil {
		return err
	}
	costs := t.s.SkillCosts[sk.ID]
	current, trained := t.s.Skills[sk.ID]
	if len(costs) == 0 || !trained {
		return InvalidMutation(fmt.Sprintf("%s has no purchased step to refund", sk.Name))
	}
	refund := costs[len(costs)-1]
	setCosts(t.s.SkillCosts, sk.ID, costs[:len(costs)-1])
	if current == die.D4() {
		delete(t.s.Skills, sk.ID)
	} else {
		prev, err := current.Decrement()
		if err != nil {
			return InvalidMutation(fmt.Sprintf("%s cannot be lowered: %v", sk.Name, err))
		}
		t.s.Skills[sk.ID] = prev
	}
	t.s.Points.SkillSpent = max(t.s.Points.SkillSpent-refund, 0)
	return nil
}

func (m AddHindrance) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	catalog := t.ledger.catalog
	h, err := catalog.Hindrance(m.Hindrance)
	if err != nil {
		return err
	}
	if t.s.HasHindrance(h.ID) {
		return DuplicateSelection(h.Name)
	}
	if h.CompanionID != "" && t.s.HasHindrance(h.CompanionID) {
		companion, err := catalog.Hindrance(h.CompanionID)
		if err != nil {
			return err
		}
		return CompanionConflict(h.Name, companion.Name)
	}
	points := h.Severity.Points(t.ledger.cfg)
	if err := t.spend(PoolHindrance, points, t.ledger.cfg.MaxHindrancePoints-t.s.Points.HindranceEarned); err != nil {
		return err
	}
	t.s.Hindrances = append(t.s.Hindrances, character.Selection{ID: h.ID, Provenance: t.provenance(), Cost: points})
	t.s.Points.HindranceEarned += points
	return nil
}

func (m RemoveHindrance) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	h, err := t.ledger.catalog.Hindrance(m.Hindrance)
	if err != nil {
		return err
	}
	i := character.IndexOf(t.s.Hindrances, h.ID)
	if i < 0 {
		return InvalidMutation(fmt.Sprintf("%s is not selected", h.Name))
	}
	granted := t.s.Hindrances[i].Cost
	t.s.Hindrances = character.Without(t.s.Hindrances, i)
	t.s.Points.HindranceEarned = max(t.s.Points.HindranceEarned-granted, 0)
	return t.checkPools()
}

func (m ConvertHindrancePoints) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	target, err := character.ParseConversionTarget(string(m.Target))
	if err != nil {
		return err
	}
	cost := t.ledger.conversionCost(target)
	if err := t.spend(PoolHindrance, cost, t.ledger.Budget(t.s).HindranceAvailable); err != nil {
		return err
	}
	t.s.Points.Conversions = append(t.s.Points.Conversions, character.Conversion{Target: target, Cost: cost})
	t.s.Points.HindranceSpent += cost
	return nil
}

func (m RevertConversion) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	target, err := character.ParseConversionTarget(string(m.Target))
	if err != nil {
		return err
	}
	i := -1
	for j := len(t.s.Points.Conversions) - 1; j >= 0; j-- {
		if t.s.Points.Conversions[j].Target == target {
			i = j
			break
		}
	}
	if i < 0 {
		return InvalidMutation(fmt.Sprintf("no %s conversion to revert", target))
	}
	refund := t.s.Points.Conversions[i].Cost
	t.s.Points.Conversions = slices.Delete(t.s.Points.Conversions, i, i+1)
	t.s.Points.HindranceSpent = max(t.s.Points.HindranceSpent-refund, 0)
	return t.checkPools()
}

func (m AddEdge) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	e, err := t.ledger.catalog.Edge(m.Edge)
	if err != nil {
		return err
	}
	if t.s.HasEdge(e.ID) && !e.Repeatable {
		return DuplicateSelection(e.Name)
	}
	if err := t.checkRequirements(e.Name, e.Prerequisites()); err != nil {
		return err
	}
	provenance := t.provenance()
	if provenance == character.ProvenanceCreation {
		b := t.ledger.Budget(t.s)
		if err := t.spend(PoolEdge, 1, b.EdgeSlots-b.EdgesTaken); err != nil {
			return err
		}
	}
	t.s.Edges = append(t.s.Edges, character.Selection{ID: e.ID, Provenance: provenance})
	return nil
}

func (m RemoveEdge) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	e, err := t.ledger.catalog.Edge(m.Edge)
	if err != nil {
		return err
	}
	i := -1
	for j := len(t.s.Edges) - 1; j >= 0; j-- {
		if t.s.Edges[j].ID == e.ID && t.s.Edges[j].Provenance != character.ProvenanceAncestry {
			i = j
			break
		}
	}
	if i < 0 {
		if t.s.HasEdge(e.ID) {
			return InvalidMutation(fmt.Sprintf("%s is granted by ancestry", e.Name))
		}
		return InvalidMutation(fmt.Sprintf("%s is not selected", e.Name))
	}
	t.s.Edges = character.Without(t.s.Edges, i)
	return t.checkPools()
}

func (m AddArcaneBackground) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	ab, err := t.ledger.catalog.ArcaneBackground(m.ArcaneBackground)
	if err != nil {
		return err
	}
	if t.s.HasArcaneBackground(ab.ID) {
		return DuplicateSelection(ab.Name)
	}
	if ab.Requirements.Expr != nil {
		if err := t.checkRequirements(ab.Name, ab.Requirements.Expr); err != nil {
			return err
		}
	}
	provenance := t.provenance()
	if provenance == character.ProvenanceCreation {
		b := t.ledger.Budget(t.s)
		if err := t.spend(PoolEdge, 1, b.EdgeSlots-b.EdgesTaken); err != nil {
			return err
		}
	}
	t.s.ArcaneBackgrounds = append(t.s.ArcaneBackgrounds, character.Selection{ID: ab.ID, Provenance: provenance})
	return nil
}

func (m RemoveArcaneBackground) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	ab, err := t.ledger.catalog.ArcaneBackground(m.ArcaneBackground)
	if err != nil {
		return err
	}
	i := character.IndexOf(t.s.ArcaneBackgrounds, ab.ID)
	if i < 0 {
		return InvalidMutation(fmt.Sprintf("%s is not selected", ab.Name))
	}
	t.s.ArcaneBackgrounds = character.Without(t.s.ArcaneBackgrounds, i)
	return t.checkPools()
}

// AddPower is accepted after creation too: powers granted by edges taken
// as advances are picked in play.
func (m AddPower) apply(t *txn) error {
	p, err := t.ledger.catalog.Power(m.Power)
	if err != nil {
		return err
	}
	if t.s.HasPower(p.ID) {
		return DuplicateSelection(p.Name)
	}
	if err := t.checkRequirements(p.Name, p.Prerequisites()); err != nil {
		return err
	}
	b := t.ledger.Budget(t.s)
	if err := t.spend(PoolPower, 1, b.PowerPicks-b.PowersKnown); err != nil {
		return err
	}
	provenance := character.ProvenanceCreation
	if t.s.Phase == character.PhasePlay {
		provenance = character.ProvenanceAdvancement
	}
	t.s.Powers = append(t.s.Powers, character.Selection{ID: p.ID, Provenance: provenance})
	return nil
}

func (m RemovePower) apply(t *txn) error {
	if err := t.requireCreation(); err != nil {
		return err
	}
	p, err := t.ledger.catalog.Power(m.Power)
	if err != nil {
		return err
	}
	i := character.IndexOf(t.s.Powers, p.ID)
	if i < 0 {
		return InvalidMutation(fmt.Sprintf("%s is not known", p.Name))
	}
	t.s.Powers = character.Without(t.s.Powers, i)
	return nil
}

func (m AddGear) apply(t *txn) error {
	g, err := t.ledger.catalog.Gear(m.Gear)
	if err != nil {
		return err
	}
	t.s.Gear = append(t.s.Gear, character.Selection{ID: g.ID, Provenance: t.provenance()})
	return nil
}

func (m RemoveGear) apply(t *txn) error {
	g, err := t.ledger.catalog.Gear(m.Gear)
	if err != nil {
		return err
	}
	i := character.IndexOf(t.s.Gear, g.ID)
	if i < 0 {
		return InvalidMutation(fmt.Sprintf("%s is not carried", g.Name))
	}
	t.s.Gear = character.Without(t.s.Gear, i)
	return nil
}

func (FinalizeCreation) apply(t *txn) error {
	if t.s.Phase == character.PhasePlay {
		return InvalidMutation("character creation is already finalized")
	}
	progress := EvaluateCreationProgress(t.s, t.ledger.cfg, t.ledger.catalog)
	if !progress.Ready && !t.opts.BypassRequirements {
		return creationIncomplete(progress.UnmetReasons)
	}
	t.s.Phase = character.PhasePlay
	return nil
}

func (l *Ledger) conversionCost(target character.ConversionTarget) int {
	switch target {
	case character.ConvertToAttribute:
		return l.cfg.HindrancePointsPerAttributePoint
	case character.ConvertToSkill:
		return l.cfg.HindrancePointsPerSkillPoint
	default:
		return l.cfg.HindrancePointsPerEdge
	}
}

func setCosts(costs map[string][]int, id string, remaining []int) {
	if len(remaining) == 0 {
		delete(costs, id)
		return
	}
	costs[id] = remaining
}
