package content

import (
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content/filter"
)

// Entry is one catalog entity in a listing.
type Entry struct {
	Kind  Kind   `json:"kind"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

var commonFields = filter.Fields{"id": filter.FieldString, "name": filter.FieldString}

// FilterFields returns the fields a listing of kind can filter on.
func FilterFields(kind Kind) filter.Fields {
	fields := filter.Fields{}
	for name, t := range commonFields {
		fields[name] = t
	}
	switch kind {
	case KindSkill:
		fields["linked_attribute"] = filter.FieldString
		fields["core"] = filter.FieldBool
	case KindEdge:
		fields["category"] = filter.FieldString
		fields["rank"] = filter.FieldInt
		fields["repeatable"] = filter.FieldBool
	case KindHindrance:
		fields["severity"] = filter.FieldString
		fields["companion_id"] = filter.FieldString
	case KindPower:
		fields["rank"] = filter.FieldInt
		fields["power_points"] = filter.FieldInt
	case KindAncestry:
		fields["free_edges"] = filter.FieldString
		fields["bonus_edges"] = filter.FieldInt
	case KindArcaneBackground:
		fields["arcane_skill"] = filter.FieldString
		fields["starting_powers"] = filter.FieldInt
	case KindGear:
		fields["category"] = filter.FieldString
		fields["cost"] = filter.FieldInt
	}
	return fields
}

// List returns the entities of kind matching an AIP-160 filter, in catalog
// order. An empty filter lists everything.
func (c *Catalog) List(kind Kind, filterStr string) ([]Entry, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	match, err := filter.Compile(filterStr, FilterFields(kind))
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, entry := range c.entries(kind) {
		ok, err := match(resolverFor(entry))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (c *Catalog) entries(kind Kind) []Entry {
	var out []Entry
	switch kind {
	case KindAttribute:
		for _, v := range c.data.Attributes {
			out = append(out, Entry{Kind: kind, ID: v.ID, Name: v.Name, Value: v})
		}
	case KindSkill:
		for _, v := range c.data.Skills {
			out = append(out, Entry{Kind: kind, ID: v.ID, Name: v.Name, Value: v})
		}
	case KindEdge:
		for _, v := range c.data.Edges {
			out = append(out, Entry{Kind: kind, ID: v.ID, Name: v.Name, Value: v})
		}
	case KindHindrance:
		for _, v := range c.data.Hindrances {
			out = append(out, Entry{Kind: kind, ID: v.ID, Name: v.Name, Value: v})
		}
	case KindPower:
		for _, v := range c.data.Powers {
			out = append(out, Entry{Kind: kind, ID: v.ID, Name: v.Name, Value: v})
		}
	case KindAncestry:
		for _, v := range c.data.Ancestries {
			out = append(out, Entry{Kind: kind, ID: v.ID, Name: v.Name, Value: v})
		}
	case KindArcaneBackground:
		for _, v := range c.data.ArcaneBackgrounds {
			out = append(out, Entry{Kind: kind, ID: v.ID, Name: v.Name, Value: v})
		}
	case KindGear:
		for _, v := range c.data.Gear {
			out = append(out, Entry{Kind: kind, ID: v.ID, Name: v.Name, Value: v})
		}
	}
	return out
}

func resolverFor(entry Entry) filter.Resolver {
	return func(name string) (any, bool) {
		switch name {
		case "id":
			return entry.ID, true
		case "name":
			return entry.Name, true
		}
		switch v := entry.Value.(type) {
		case Skill:
			switch name {
			case "linked_attribute":
				return v.LinkedAttribute, true
			case "core":
				return v.Core, true
			}
		case Edge:
			switch name {
			case "category":
				return string(v.Category), true
			case "rank":
				return int(v.Rank), true
			case "repeatable":
				return v.Repeatable, true
			}
		case Hindrance:
			switch name {
			case "severity":
				return string(v.Severity), true
			case "companion_id":
				return v.CompanionID, true
			}
		case Power:
			switch name {
			case "rank":
				return int(v.Rank), true
			case "power_points":
				return v.PowerPoints, true
			}
		case Ancestry:
			switch name {
			case "free_edges":
				return v.FreeEdges, true
			case "bonus_edges":
				return v.BonusEdges, true
			}
		case ArcaneBackground:
			switch name {
			case "arcane_skill":
				return v.ArcaneSkill, true
			case "starting_powers":
				return v.StartingPowers, true
			}
		case Gear:
			switch name {
			case "category":
				return v.Category, true
			case "cost":
				return v.Cost, true
			}
		}
		return nil, false
	}
}
