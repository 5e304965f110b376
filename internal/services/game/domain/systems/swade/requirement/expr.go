package requirement

import (
	"strings"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/die"
)

// Expr is a prerequisite tree: And, Or, Not or Leaf. Each node owns its
// children; trees never share nodes. A nil Expr means "no requirements".
type Expr interface {
	isExpr()
}

// And holds when every child holds. An empty And holds.
type And struct {
	Children []Expr
}

// Or holds when at least one child holds. An empty Or never holds, so an
// empty alternative list cannot grant free access.
type Or struct {
	Children []Expr
}

// Not negates its child.
type Not struct {
	Child Expr
}

// Leaf wraps an atomic requirement.
type Leaf struct {
	Requirement Requirement
}

func (And) isExpr()  {}
func (Or) isExpr()   {}
func (Not) isExpr()  {}
func (Leaf) isExpr() {}

// AllOf builds an And node.
func AllOf(children ...Expr) Expr { return And{Children: children} }

// AnyOf builds an Or node.
func AnyOf(children ...Expr) Expr { return Or{Children: children} }

// Negate builds a Not node.
func Negate(child Expr) Expr { return Not{Child: child} }

// AttributeAtLeast requires the attribute's effective die to be at least d.
func AttributeAtLeast(id string, d die.Die) Expr {
	return Leaf{Requirement{Kind: KindAttribute, Target: id, Die: &d}}
}

// SkillAtLeast requires a trained skill whose effective die is at least d.
func SkillAtLeast(id string, d die.Die) Expr {
	return Leaf{Requirement{Kind: KindSkill, Target: id, Die: &d}}
}

// EdgeHeld requires the edge.
func EdgeHeld(id string) Expr { return Leaf{Requirement{Kind: KindEdge, Target: id}} }

// HindranceHeld requires the hindrance.
func HindranceHeld(id string) Expr { return Leaf{Requirement{Kind: KindHindrance, Target: id}} }

// ArcaneBackgroundHeld requires the arcane background, or any one when id is
// empty.
func ArcaneBackgroundHeld(id string) Expr {
	return Leaf{Requirement{Kind: KindArcaneBackground, Target: id}}
}

// RankAtLeast requires the rank.
func RankAtLeast(rank swade.Rank) Expr { return Leaf{Requirement{Kind: KindRank, Rank: rank}} }

// PowersAtLeast requires at least n known powers.
func PowersAtLeast(n int) Expr { return Leaf{Requirement{Kind: KindPowerCount, Count: n}} }

// Evaluate reports whether ctx satisfies expr.
func Evaluate(expr Expr, ctx Context) bool {
	switch node := expr.(type) {
	case nil:
		return true
	case And:
		for _, child := range node.Children {
			if !Evaluate(child, ctx) {
				return false
			}
		}
		return true
	case Or:
		for _, child := range node.Children {
			if Evaluate(child, ctx) {
				return true
			}
		}
		return false
	case Not:
		return !Evaluate(node.Child, ctx)
	case Leaf:
		return node.Requirement.Met(ctx)
	default:
		return false
	}
}

// Status is one line of an availability explanation.
type Status struct {
	Description string `json:"description"`
	Met         bool   `json:"is_met"`
}

// Statuses lists every leaf under expr with its outcome, in tree order. And
// and Or are transparent. A Not node is reported as a single entry
// "not <child>" that is met when the negation holds; its child is never
// listed on its own. An Or without children can never be met and is reported
// as one failing "no alternatives" entry.
func Statuses(expr Expr, ctx Context) []Status {
	var out []Status
	collectStatuses(expr, ctx, &out)
	return out
}

func collectStatuses(expr Expr, ctx Context, out *[]Status) {
	switch node := expr.(type) {
	case And:
		for _, child := range node.Children {
			collectStatuses(child, ctx, out)
		}
	case Or:
		if len(node.Children) == 0 {
			*out = append(*out, Status{Description: Describe(node), Met: false})
			return
		}
		for _, child := range node.Children {
			collectStatuses(child, ctx, out)
		}
	case Not:
		*out = append(*out, Status{Description: Describe(node), Met: Evaluate(node, ctx)})
	case Leaf:
		*out = append(*out, Status{Description: node.Requirement.Description(), Met: node.Requirement.Met(ctx)})
	}
}

// Unmet lists the descriptions of every failing entry reported by Statuses.
// Failing leaves under an Or are listed even when a sibling satisfies it.
func Unmet(expr Expr, ctx Context) []string {
	var out []string
	for _, status := range Statuses(expr, ctx) {
		if !status.Met {
			out = append(out, status.Description)
		}
	}
	return out
}

// Describe renders the whole tree, e.g.
// "Seasoned and (Fighting d8+ or Shooting d8+)".
func Describe(expr Expr) string {
	return describe(expr, false)
}

func describe(expr Expr, nested bool) string {
	switch node := expr.(type) {
	case nil:
		return "no requirements"
	case And:
		return joinChildren(node.Children, " and ", "no requirements", nested)
	case Or:
		return joinChildren(node.Children, " or ", "no alternatives", nested)
	case Not:
		return "not " + describe(node.Child, true)
	case Leaf:
		return node.Requirement.Description()
	default:
		return ""
	}
}

func joinChildren(children []Expr, sep, empty string, nested bool) string {
	switch len(children) {
	case 0:
		return empty
	case 1:
		return describe(children[0], nested)
	}
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = describe(child, true)
	}
	joined := strings.Join(parts, sep)
	if nested {
		return "(" + joined + ")"
	}
	return joined
}

// Leaves returns every leaf requirement in tree order, including those under
// Not nodes.
func Leaves(expr Expr) []Requirement {
	var out []Requirement
	var walk func(Expr)
	walk = func(e Expr) {
		switch node := e.(type) {
		case And:
			for _, child := range node.Children {
				walk(child)
			}
		case Or:
			for _, child := range node.Children {
				walk(child)
			}
		case Not:
			walk(node.Child)
		case Leaf:
			out = append(out, node.Requirement)
		}
	}
	walk(expr)
	return out
}

// Validate checks every leaf of the tree and rejects Not nodes without a
// child.
func Validate(expr Expr) error {
	switch node := expr.(type) {
	case nil:
		return nil
	case And:
		return validateChildren(node.Children)
	case Or:
		return validateChildren(node.Children)
	case Not:
		if node.Child == nil {
			return invalidReference("not requirement needs a child")
		}
		return Validate(node.Child)
	case Leaf:
		return node.Requirement.Validate()
	default:
		return invalidReference("unknown requirement node")
	}
}

func validateChildren(children []Expr) error {
	for _, child := range children {
		if child == nil {
			return invalidReference("requirement group contains an empty child")
		}
		if err := Validate(child); err != nil {
			return err
		}
	}
	return nil
}
