package filter

import (
	"testing"

	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
)

var edgeFields = Fields{
	"id":         FieldString,
	"category":   FieldString,
	"rank":       FieldInt,
	"repeatable": FieldBool,
	"free_edges": FieldString,
}

func brawnyResolver(name string) (any, bool) {
	switch name {
	case "id":
		return "brawny", true
	case "category":
		return "background", true
	case "rank":
		return 0, true
	case "repeatable":
		return false, true
	case "free_edges":
		return []string{"brawny", "quick"}, true
	default:
		return nil, false
	}
}

func TestParse(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		e, err := Parse("   ", edgeFields)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e != nil {
			t.Fatal("expected nil expr for blank filter")
		}
	})

	t.Run("invalid syntax", func(t *testing.T) {
		_, err := Parse("!!!invalid", edgeFields)
		if !apperrors.HasCode(err, apperrors.CodeInvalidFilter) {
			t.Fatalf("expected INVALID_FILTER, got %v", err)
		}
	})

	t.Run("undeclared field", func(t *testing.T) {
		if _, err := Parse(`power_points = 2`, edgeFields); err == nil {
			t.Fatal("expected error for undeclared field")
		}
	})

	t.Run("unsupported field type", func(t *testing.T) {
		_, err := Parse(`x = "foo"`, Fields{"x": FieldType("complex")})
		if !apperrors.HasCode(err, apperrors.CodeInvalidFilter) {
			t.Fatalf("expected INVALID_FILTER, got %v", err)
		}
	})
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		filter string
		want   bool
	}{
		{`category = "background"`, true},
		{`category != "background"`, false},
		{`rank <= 1`, true},
		{`rank > 0`, false},
		{`category = "combat" OR rank = 0`, true},
		{`category = "background" AND rank >= 1`, false},
		{`NOT category = "combat"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			match, err := Compile(tt.filter, edgeFields)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got, err := match(brawnyResolver)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateNilMatches(t *testing.T) {
	ok, err := Evaluate(nil, brawnyResolver)
	if err != nil || !ok {
		t.Fatalf("nil expression = %v, %v", ok, err)
	}
}

func TestEvaluateUnknownField(t *testing.T) {
	e, err := Parse(`missing = "x"`, Fields{"missing": FieldString})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Evaluate(e, brawnyResolver); !apperrors.HasCode(err, apperrors.CodeInvalidFilter) {
		t.Fatalf("expected INVALID_FILTER, got %v", err)
	}
}

func TestEvaluateBareIdentifier(t *testing.T) {
	e := &expr.Expr{ExprKind: &expr.Expr_IdentExpr{IdentExpr: &expr.Expr_Ident{Name: "repeatable"}}}
	ok, err := Evaluate(e, brawnyResolver)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if ok {
		t.Fatal("expected repeatable to be false")
	}

	e = &expr.Expr{ExprKind: &expr.Expr_IdentExpr{IdentExpr: &expr.Expr_Ident{Name: "category"}}}
	if _, err := Evaluate(e, brawnyResolver); err == nil {
		t.Fatal("expected error for non-boolean identifier")
	}
}

func hasCall(field, value string) *expr.Expr {
	return &expr.Expr{ExprKind: &expr.Expr_CallExpr{CallExpr: &expr.Expr_Call{
		Function: ":",
		Args: []*expr.Expr{
			{ExprKind: &expr.Expr_IdentExpr{IdentExpr: &expr.Expr_Ident{Name: field}}},
			{ExprKind: &expr.Expr_ConstExpr{ConstExpr: &expr.Constant{ConstantKind: &expr.Constant_StringValue{StringValue: value}}}},
		},
	}}}
}

func TestEvaluateHas(t *testing.T) {
	tests := []struct {
		field, value string
		want         bool
	}{
		{"id", "RAWN", true},
		{"id", "quick", false},
		{"free_edges", "quick", true},
		{"free_edges", "alertness", false},
	}
	for _, tt := range tests {
		got, err := Evaluate(hasCall(tt.field, tt.value), brawnyResolver)
		if err != nil {
			t.Fatalf("%s:%q: %v", tt.field, tt.value, err)
		}
		if got != tt.want {
			t.Fatalf("%s:%q = %v, want %v", tt.field, tt.value, got, tt.want)
		}
	}
	if _, err := Evaluate(hasCall("rank", "1"), brawnyResolver); err == nil {
		t.Fatal("expected has on an int field to fail")
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name        string
		left, right any
		want        int
		wantErr     bool
	}{
		{"string equal", "a", "a", 0, false},
		{"string less", "a", "b", -1, false},
		{"string mismatch", "a", int64(1), 0, true},
		{"int vs int64", 5, int64(5), 0, false},
		{"int64 greater", int64(7), int64(5), 1, false},
		{"int mismatch", 3, "3", 0, true},
		{"bool order", false, true, -1, false},
		{"bool mismatch", true, "true", 0, true},
		{"unsupported", 1.5, 1.5, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compareValues(tt.left, tt.right)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("compare = %d, want %d", got, tt.want)
			}
		})
	}
}
