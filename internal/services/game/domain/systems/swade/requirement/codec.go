package requirement

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// maxDepth bounds decoded trees so hostile payloads cannot exhaust the stack.
const maxDepth = 32

// Tree adapts an Expr for JSON fields. It encodes as
// {"and":[...]}, {"or":[...]}, {"not":{...}} or {"leaf":{...}}, and null for
// an empty tree.
type Tree struct {
	Expr Expr
}

// MarshalJSON implements json.Marshaler.
func (t Tree) MarshalJSON() ([]byte, error) {
	return Encode(t.Expr)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tree) UnmarshalJSON(data []byte) error {
	expr, err := Decode(data)
	if err != nil {
		return err
	}
	t.Expr = expr
	return nil
}

// Encode renders expr as JSON.
func Encode(expr Expr) ([]byte, error) {
	node, err := toWire(expr)
	if err != nil {
		return nil, err
	}
	return json.Marshal(node)
}

// Decode parses a JSON tree and validates its leaves.
func Decode(data []byte) (Expr, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	expr, err := fromWire(trimmed, 0)
	if err != nil {
		return nil, err
	}
	if err := Validate(expr); err != nil {
		return nil, err
	}
	return expr, nil
}

func toWire(expr Expr) (any, error) {
	switch node := expr.(type) {
	case nil:
		return nil, nil
	case And:
		children, err := childrenToWire(node.Children)
		if err != nil {
			return nil, err
		}
		return map[string]any{"and": children}, nil
	case Or:
		children, err := childrenToWire(node.Children)
		if err != nil {
			return nil, err
		}
		return map[string]any{"or": children}, nil
	case Not:
		child, err := toWire(node.Child)
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, invalidReference("not requirement needs a child")
		}
		return map[string]any{"not": child}, nil
	case Leaf:
		return map[string]any{"leaf": node.Requirement}, nil
	default:
		return nil, invalidReference(fmt.Sprintf("unknown requirement node %T", expr))
	}
}

func childrenToWire(children []Expr) ([]any, error) {
	out := make([]any, 0, len(children))
	for _, child := range children {
		wire, err := toWire(child)
		if err != nil {
			return nil, err
		}
		out = append(out, wire)
	}
	return out, nil
}

func fromWire(data []byte, depth int) (Expr, error) {
	if depth > maxDepth {
		return nil, invalidReference(fmt.Sprintf("requirement tree deeper than %d levels", maxDepth))
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, invalidReference(fmt.Sprintf("decode requirement node: %v", err))
	}
	if len(fields) != 1 {
		return nil, invalidReference("requirement node must have exactly one of and, or, not, leaf")
	}
	for key, raw := range fields {
		switch key {
		case "and", "or":
			var rawChildren []json.RawMessage
			if err := json.Unmarshal(raw, &rawChildren); err != nil {
				return nil, invalidReference(fmt.Sprintf("decode %s children: %v", key, err))
			}
			var children []Expr
			for _, rawChild := range rawChildren {
				child, err := fromWire(rawChild, depth+1)
				if err != nil {
					return nil, err
				}
				children = append(children, child)
			}
			if key == "and" {
				return And{Children: children}, nil
			}
			return Or{Children: children}, nil
		case "not":
			child, err := fromWire(raw, depth+1)
			if err != nil {
				return nil, err
			}
			return Not{Child: child}, nil
		case "leaf":
			var req Requirement
			if err := json.Unmarshal(raw, &req); err != nil {
				return nil, invalidReference(fmt.Sprintf("decode requirement leaf: %v", err))
			}
			return Leaf{Requirement: req}, nil
		default:
			return nil, invalidReference(fmt.Sprintf("unknown requirement node %q", key))
		}
	}
	return nil, invalidReference("empty requirement node")
}
