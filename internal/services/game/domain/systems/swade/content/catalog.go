package content

import (
	"fmt"
	"strings"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/modifier"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/requirement"
)

// Catalog is a validated, read-only set of reference entities. It is safe
// for concurrent use because nothing mutates it after New returns.
type Catalog struct {
	data Data

	attributes        map[string]int
	skills            map[string]int
	edges             map[string]int
	hindrances        map[string]int
	powers            map[string]int
	ancestries        map[string]int
	arcaneBackgrounds map[string]int
	gear              map[string]int
}

// New indexes and validates data. Cross references (linked attributes,
// companions, requirement targets, modifier targets, free edges) must resolve
// inside the same catalog.
func New(data Data) (*Catalog, error) {
	c := &Catalog{data: cloneData(data)}
	var err error
	if c.attributes, err = index(KindAttribute, len(c.data.Attributes), func(i int) string { return c.data.Attributes[i].ID }); err != nil {
		return nil, err
	}
	if c.skills, err = index(KindSkill, len(c.data.Skills), func(i int) string { return c.data.Skills[i].ID }); err != nil {
		return nil, err
	}
	if c.edges, err = index(KindEdge, len(c.data.Edges), func(i int) string { return c.data.Edges[i].ID }); err != nil {
		return nil, err
	}
	if c.hindrances, err = index(KindHindrance, len(c.data.Hindrances), func(i int) string { return c.data.Hindrances[i].ID }); err != nil {
		return nil, err
	}
	if c.powers, err = index(KindPower, len(c.data.Powers), func(i int) string { return c.data.Powers[i].ID }); err != nil {
		return nil, err
	}
	if c.ancestries, err = index(KindAncestry, len(c.data.Ancestries), func(i int) string { return c.data.Ancestries[i].ID }); err != nil {
		return nil, err
	}
	if c.arcaneBackgrounds, err = index(KindArcaneBackground, len(c.data.ArcaneBackgrounds), func(i int) string { return c.data.ArcaneBackgrounds[i].ID }); err != nil {
		return nil, err
	}
	if c.gear, err = index(KindGear, len(c.data.Gear), func(i int) string { return c.data.Gear[i].ID }); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Data returns a copy of the catalog's serialized form.
func (c *Catalog) Data() Data { return cloneData(c.data) }

// Attribute looks up an attribute by id.
func (c *Catalog) Attribute(id string) (Attribute, error) {
	i, ok := c.attributes[id]
	if !ok {
		return Attribute{}, NotFound(KindAttribute, id)
	}
	return c.data.Attributes[i], nil
}

// Skill looks up a skill by id.
func (c *Catalog) Skill(id string) (Skill, error) {
	i, ok := c.skills[id]
	if !ok {
		return Skill{}, NotFound(KindSkill, id)
	}
	return c.data.Skills[i], nil
}

// Edge looks up an edge by id.
func (c *Catalog) Edge(id string) (Edge, error) {
	i, ok := c.edges[id]
	if !ok {
		return Edge{}, NotFound(KindEdge, id)
	}
	return c.data.Edges[i], nil
}

// Hindrance looks up a hindrance by id.
func (c *Catalog) Hindrance(id string) (Hindrance, error) {
	i, ok := c.hindrances[id]
	if !ok {
		return Hindrance{}, NotFound(KindHindrance, id)
	}
	return c.data.Hindrances[i], nil
}

// Power looks up a power by id.
func (c *Catalog) Power(id string) (Power, error) {
	i, ok := c.powers[id]
	if !ok {
		return Power{}, NotFound(KindPower, id)
	}
	return c.data.Powers[i], nil
}

// Ancestry looks up an ancestry by id.
func (c *Catalog) Ancestry(id string) (Ancestry, error) {
	i, ok := c.ancestries[id]
	if !ok {
		return Ancestry{}, NotFound(KindAncestry, id)
	}
	return c.data.Ancestries[i], nil
}

// ArcaneBackground looks up an arcane background by id.
func (c *Catalog) ArcaneBackground(id string) (ArcaneBackground, error) {
	i, ok := c.arcaneBackgrounds[id]
	if !ok {
		return ArcaneBackground{}, NotFound(KindArcaneBackground, id)
	}
	return c.data.ArcaneBackgrounds[i], nil
}

// Gear looks up a gear item by id.
func (c *Catalog) Gear(id string) (Gear, error) {
	i, ok := c.gear[id]
	if !ok {
		return Gear{}, NotFound(KindGear, id)
	}
	return c.data.Gear[i], nil
}

// Attributes returns every attribute in catalog order.
func (c *Catalog) Attributes() []Attribute { return append([]Attribute(nil), c.data.Attributes...) }

// Skills returns every skill in catalog order.
func (c *Catalog) Skills() []Skill { return append([]Skill(nil), c.data.Skills...) }

// Ancestries returns every ancestry in catalog order.
func (c *Catalog) Ancestries() []Ancestry { return append([]Ancestry(nil), c.data.Ancestries...) }

// CoreSkills returns the skills every character starts with.
func (c *Catalog) CoreSkills() []Skill {
	var out []Skill
	for _, s := range c.data.Skills {
		if s.Core {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether an entity of kind with id exists.
func (c *Catalog) Has(kind Kind, id string) bool {
	var ok bool
	switch kind {
	case KindAttribute:
		_, ok = c.attributes[id]
	case KindSkill:
		_, ok = c.skills[id]
	case KindEdge:
		_, ok = c.edges[id]
	case KindHindrance:
		_, ok = c.hindrances[id]
	case KindPower:
		_, ok = c.powers[id]
	case KindAncestry:
		_, ok = c.ancestries[id]
	case KindArcaneBackground:
		_, ok = c.arcaneBackgrounds[id]
	case KindGear:
		_, ok = c.gear[id]
	}
	return ok
}

func (c *Catalog) validate() error {
	if len(c.data.Attributes) == 0 {
		return invalidReference("catalog has no attributes")
	}
	for _, s := range c.data.Skills {
		if !c.Has(KindAttribute, s.LinkedAttribute) {
			return invalidReference(fmt.Sprintf("skill %s links unknown attribute %q", s.ID, s.LinkedAttribute))
		}
	}
	for _, e := range c.data.Edges {
		if _, err := ParseEdgeCategory(string(e.Category)); err != nil {
			return fmt.Errorf("edge %s: %w", e.ID, err)
		}
		if e.GrantsPowers < 0 {
			return invalidReference(fmt.Sprintf("edge %s grants negative powers", e.ID))
		}
		if err := c.validateEntity(KindEdge, e.ID, e.Requirements.Expr, e.Modifiers); err != nil {
			return err
		}
	}
	for _, h := range c.data.Hindrances {
		if _, err := ParseSeverity(string(h.Severity)); err != nil {
			return fmt.Errorf("hindrance %s: %w", h.ID, err)
		}
		if err := c.validateCompanion(h); err != nil {
			return err
		}
		if err := c.validateEntity(KindHindrance, h.ID, nil, h.Modifiers); err != nil {
			return err
		}
	}
	for _, p := range c.data.Powers {
		if p.PowerPoints < 0 {
			return invalidReference(fmt.Sprintf("power %s has negative power points", p.ID))
		}
		if err := c.validateEntity(KindPower, p.ID, p.Requirements.Expr, nil); err != nil {
			return err
		}
	}
	for _, a := range c.data.Ancestries {
		for _, edgeID := range a.FreeEdges {
			if !c.Has(KindEdge, edgeID) {
				return invalidReference(fmt.Sprintf("ancestry %s grants unknown edge %q", a.ID, edgeID))
			}
		}
		if a.BonusEdges < 0 {
			return invalidReference(fmt.Sprintf("ancestry %s has negative bonus edges", a.ID))
		}
		if err := c.validateEntity(KindAncestry, a.ID, nil, a.Modifiers); err != nil {
			return err
		}
	}
	for _, ab := range c.data.ArcaneBackgrounds {
		if !c.Has(KindSkill, ab.ArcaneSkill) {
			return invalidReference(fmt.Sprintf("arcane background %s uses unknown skill %q", ab.ID, ab.ArcaneSkill))
		}
		if ab.StartingPowers < 0 || ab.PowerPoints < 0 {
			return invalidReference(fmt.Sprintf("arcane background %s has negative powers or power points", ab.ID))
		}
		if err := c.validateEntity(KindArcaneBackground, ab.ID, ab.Requirements.Expr, ab.Modifiers); err != nil {
			return err
		}
	}
	for _, g := range c.data.Gear {
		if err := c.validateEntity(KindGear, g.ID, nil, g.Modifiers); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) validateCompanion(h Hindrance) error {
	if h.CompanionID == "" {
		return nil
	}
	i, ok := c.hindrances[h.CompanionID]
	if !ok {
		return invalidReference(fmt.Sprintf("hindrance %s names unknown companion %q", h.ID, h.CompanionID))
	}
	companion := c.data.Hindrances[i]
	if companion.CompanionID != h.ID {
		return invalidReference(fmt.Sprintf("hindrance companions %s and %s do not name each other", h.ID, companion.ID))
	}
	if companion.Severity == h.Severity {
		return invalidReference(fmt.Sprintf("hindrance companions %s and %s share severity %s", h.ID, companion.ID, h.Severity))
	}
	return nil
}

func (c *Catalog) validateEntity(kind Kind, id string, expr requirement.Expr, mods []modifier.Modifier) error {
	if err := requirement.Validate(expr); err != nil {
		return fmt.Errorf("%s %s requirements: %w", kind, id, err)
	}
	for _, leaf := range requirement.Leaves(expr) {
		if err := c.validateLeaf(leaf); err != nil {
			return fmt.Errorf("%s %s requirements: %w", kind, id, err)
		}
	}
	for _, m := range mods {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%s %s modifiers: %w", kind, id, err)
		}
		if err := c.validateModifierTarget(m); err != nil {
			return fmt.Errorf("%s %s modifiers: %w", kind, id, err)
		}
	}
	return nil
}

func (c *Catalog) validateLeaf(r requirement.Requirement) error {
	var kind Kind
	switch r.Kind {
	case requirement.KindAttribute:
		kind = KindAttribute
	case requirement.KindSkill:
		kind = KindSkill
	case requirement.KindEdge:
		kind = KindEdge
	case requirement.KindHindrance:
		kind = KindHindrance
	case requirement.KindArcaneBackground:
		if r.Target == "" {
			return nil
		}
		kind = KindArcaneBackground
	default:
		return nil
	}
	if !c.Has(kind, r.Target) {
		return invalidReference(fmt.Sprintf("requirement names unknown %s %q", kind, r.Target))
	}
	return nil
}

func (c *Catalog) validateModifierTarget(m modifier.Modifier) error {
	switch m.TargetType {
	case modifier.TargetAttribute:
		if !c.Has(KindAttribute, m.Target) {
			return invalidReference(fmt.Sprintf("modifier targets unknown attribute %q", m.Target))
		}
	case modifier.TargetSkill:
		if !c.Has(KindSkill, m.Target) {
			return invalidReference(fmt.Sprintf("modifier targets unknown skill %q", m.Target))
		}
	case modifier.TargetTraitMax:
		if !c.Has(KindAttribute, m.Target) && !c.Has(KindSkill, m.Target) {
			return invalidReference(fmt.Sprintf("trait_max modifier targets unknown trait %q", m.Target))
		}
	case modifier.TargetDerived:
		switch m.Target {
		case modifier.DerivedPace, modifier.DerivedParry, modifier.DerivedToughness, modifier.DerivedSize:
		default:
			return invalidReference(fmt.Sprintf("modifier targets unknown derived statistic %q", m.Target))
		}
	}
	return nil
}

func index(kind Kind, n int, idAt func(int) string) (map[string]int, error) {
	out := make(map[string]int, n)
	for i := 0; i < n; i++ {
		id := idAt(i)
		if strings.TrimSpace(id) == "" {
			return nil, invalidReference(fmt.Sprintf("%s at position %d has no id", kind, i))
		}
		if _, dup := out[id]; dup {
			return nil, invalidReference(fmt.Sprintf("duplicate %s id %q", kind, id))
		}
		out[id] = i
	}
	return out, nil
}

// cloneData copies the top-level slices. Entities are treated as read-only,
// so nested slices are shared.
func cloneData(d Data) Data {
	return Data{
		Attributes:        append([]Attribute(nil), d.Attributes...),
		Skills:            append([]Skill(nil), d.Skills...),
		Edges:             append([]Edge(nil), d.Edges...),
		Hindrances:        append([]Hindrance(nil), d.Hindrances...),
		Powers:            append([]Power(nil), d.Powers...),
		Ancestries:        append([]Ancestry(nil), d.Ancestries...),
		ArcaneBackgrounds: append([]ArcaneBackground(nil), d.ArcaneBackgrounds...),
		Gear:              append([]Gear(nil), d.Gear...),
	}
}
