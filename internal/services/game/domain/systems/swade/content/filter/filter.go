// Package filter parses AIP-160 filter strings used to narrow catalog
// listings, e.g. `category = "combat" AND rank <= 1`.
package filter

import (
	"fmt"
	"sort"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
)

// FieldType describes a supported filter field type.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
	FieldBool   FieldType = "bool"
)

// Fields defines filterable fields and their types.
type Fields map[string]FieldType

// Names returns the field names in sorted order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse parses an AIP-160 filter expression for the provided fields. An empty
// filter parses to nil, which matches everything.
func Parse(filterStr string, fields Fields) (*expr.Expr, error) {
	if strings.TrimSpace(filterStr) == "" {
		return nil, nil
	}

	decls, err := declarations(fields)
	if err != nil {
		return nil, err
	}

	filter, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return nil, invalidFilter(fmt.Sprintf("parse filter %q: %v", filterStr, err))
	}

	return filter.CheckedExpr.Expr, nil
}

// Predicate reports whether the entry behind resolve matches a parsed filter.
type Predicate func(resolve Resolver) (bool, error)

// Compile parses filterStr once and returns a predicate to run per entry.
func Compile(filterStr string, fields Fields) (Predicate, error) {
	parsed, err := Parse(filterStr, fields)
	if err != nil {
		return nil, err
	}
	return func(resolve Resolver) (bool, error) {
		return Evaluate(parsed, resolve)
	}, nil
}

func declarations(fields Fields) (*filtering.Declarations, error) {
	decls := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for _, name := range fields.Names() {
		switch kind := fields[name]; kind {
		case FieldString:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeString))
		case FieldInt:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeInt))
		case FieldBool:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeBool))
		default:
			return nil, invalidFilter(fmt.Sprintf("unsupported field type %q for %s", kind, name))
		}
	}

	return filtering.NewDeclarations(decls...)
}

func invalidFilter(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidFilter, reason, map[string]string{"Reason": reason})
}
