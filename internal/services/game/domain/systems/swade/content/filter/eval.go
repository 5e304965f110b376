package filter

import (
	"fmt"
	"strings"

	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Resolver returns a value for a field name. Values are strings, integers,
// booleans or string slices.
type Resolver func(name string) (any, bool)

// Evaluate evaluates a parsed filter expression against a resolver. A nil
// expression matches.
func Evaluate(e *expr.Expr, resolve Resolver) (bool, error) {
	if e == nil {
		return true, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return evalCall(kind.CallExpr, resolve)
	case *expr.Expr_IdentExpr:
		return evalBoolField(kind.IdentExpr.Name, resolve)
	default:
		return false, invalidFilter(fmt.Sprintf("unsupported expression type: %T", kind))
	}
}

func evalCall(call *expr.Expr_Call, resolve Resolver) (bool, error) {
	switch call.Function {
	case "_&&_", "AND":
		return evalAnd(call.Args, resolve)
	case "_||_", "OR":
		return evalOr(call.Args, resolve)
	case "_!_", "NOT", "-":
		return evalNot(call.Args, resolve)
	case "_==_", "=":
		return evalCompare(call.Args, resolve, "=")
	case "_!=_", "!=":
		return evalCompare(call.Args, resolve, "!=")
	case "_<_", "<":
		return evalCompare(call.Args, resolve, "<")
	case "_<=_", "<=":
		return evalCompare(call.Args, resolve, "<=")
	case "_>_", ">":
		return evalCompare(call.Args, resolve, ">")
	case "_>=_", ">=":
		return evalCompare(call.Args, resolve, ">=")
	case ":":
		return evalHas(call.Args, resolve)
	default:
		return false, invalidFilter(fmt.Sprintf("unsupported function: %s", call.Function))
	}
}

func evalAnd(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) != 2 {
		return false, invalidFilter("AND requires 2 arguments")
	}
	left, err := Evaluate(args[0], resolve)
	if err != nil || !left {
		return left, err
	}
	return Evaluate(args[1], resolve)
}

func evalOr(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) != 2 {
		return false, invalidFilter("OR requires 2 arguments")
	}
	left, err := Evaluate(args[0], resolve)
	if err != nil {
		return false, err
	}
	if left {
		return true, nil
	}
	return Evaluate(args[1], resolve)
}

func evalNot(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) != 1 {
		return false, invalidFilter("NOT requires 1 argument")
	}
	inner, err := Evaluate(args[0], resolve)
	if err != nil {
		return false, err
	}
	return !inner, nil
}

func evalBoolField(name string, resolve Resolver) (bool, error) {
	value, ok := resolve(name)
	if !ok {
		return false, invalidFilter(fmt.Sprintf("unknown field: %s", name))
	}
	b, ok := value.(bool)
	if !ok {
		return false, invalidFilter(fmt.Sprintf("field %s is not a boolean", name))
	}
	return b, nil
}

func evalCompare(args []*expr.Expr, resolve Resolver, op string) (bool, error) {
	left, right, err := operands(args, resolve)
	if err != nil {
		return false, err
	}

	cmp, err := compareValues(left, right)
	if err != nil {
		return false, err
	}

	switch op {
	case "=":
		return cmp == 0, nil
	case "!=":
		return cmp != 0, nil
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case ">=":
		return cmp >= 0, nil
	default:
		return false, invalidFilter(fmt.Sprintf("unsupported operator: %s", op))
	}
}

// evalHas matches a substring of a string field, case-insensitively, or an
// element of a string list field.
func evalHas(args []*expr.Expr, resolve Resolver) (bool, error) {
	left, right, err := operands(args, resolve)
	if err != nil {
		return false, err
	}
	needle, ok := right.(string)
	if !ok {
		return false, invalidFilter(fmt.Sprintf("has operator needs a string, got %T", right))
	}
	switch l := left.(type) {
	case string:
		return strings.Contains(strings.ToLower(l), strings.ToLower(needle)), nil
	case []string:
		for _, item := range l {
			if item == needle {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, invalidFilter(fmt.Sprintf("has operator unsupported for %T", left))
	}
}

func operands(args []*expr.Expr, resolve Resolver) (any, any, error) {
	if len(args) != 2 {
		return nil, nil, invalidFilter("comparison requires 2 arguments")
	}

	field, err := extractFieldName(args[0])
	if err != nil {
		return nil, nil, err
	}

	left, ok := resolve(field)
	if !ok {
		return nil, nil, invalidFilter(fmt.Sprintf("unknown field: %s", field))
	}

	right, err := extractValue(args[1])
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", invalidFilter("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", invalidFilter(fmt.Sprintf("expected identifier, got %T", kind))
	}
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, invalidFilter("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	default:
		return nil, invalidFilter(fmt.Sprintf("expected constant, got %T", kind))
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, invalidFilter("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, invalidFilter(fmt.Sprintf("unsupported constant type: %T", kind))
	}
}

func compareValues(left any, right any) (int, error) {
	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		if !ok {
			return 0, invalidFilter(fmt.Sprintf("type mismatch: string vs %T", right))
		}
		return strings.Compare(l, r), nil
	case int:
		return compareInts(int64(l), right)
	case int64:
		return compareInts(l, right)
	case bool:
		r, ok := right.(bool)
		if !ok {
			return 0, invalidFilter(fmt.Sprintf("type mismatch: bool vs %T", right))
		}
		return compareBools(l, r), nil
	default:
		return 0, invalidFilter(fmt.Sprintf("unsupported value type: %T", left))
	}
}

func compareInts(left int64, right any) (int, error) {
	var r int64
	switch v := right.(type) {
	case int:
		r = int64(v)
	case int64:
		r = v
	default:
		return 0, invalidFilter(fmt.Sprintf("type mismatch: number vs %T", right))
	}
	switch {
	case left < r:
		return -1, nil
	case left > r:
		return 1, nil
	default:
		return 0, nil
	}
}

func compareBools(left, right bool) int {
	if left == right {
		return 0
	}
	if !left && right {
		return -1
	}
	return 1
}
