package eval

import (
	"regexp"
	"strings"

	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/value"
)

func (e *Evaluator) evalUnaryOp(n *ast.UnaryOp) (value.Value, error) {
	if n.Operator == "not" {
		v, err := e.Eval(n.Operand)
		if err != nil {
			return nil, err
		}
		return &value.Boolean{Value: !value.Truthy(v)}, nil
	}

	v, err := e.Eval(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "-":
		switch t := v.(type) {
		case *value.Integer:
			return &value.Integer{Value: -t.Value}, nil
		case *value.Float:
			return &value.Float{Value: -t.Value}, nil
		default:
			return nil, evalErrf(n.Line(), "unary - requires a number, got %s", v.Type())
		}
	case "+":
		if value.IsNumeric(v) {
			return v, nil
		}
		return nil, evalErrf(n.Line(), "unary + requires a number, got %s", v.Type())
	default:
		return nil, evalErrf(n.Line(), "unknown unary operator %q", n.Operator)
	}
}

// evalBinaryOp implements §4.4's arithmetic promotion, overloaded `+`,
// comparisons, and the `and`/`or` short-circuit normalization.
func (e *Evaluator) evalBinaryOp(n *ast.BinaryOp) (value.Value, error) {
	switch n.Operator {
	case "and":
		left, err := e.Eval(n.Left)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(left) {
			return &value.Boolean{Value: false}, nil
		}
		right, err := e.Eval(n.Right)
		if err != nil {
			return nil, err
		}
		return &value.Boolean{Value: value.Truthy(right)}, nil
	case "or":
		left, err := e.Eval(n.Left)
		if err != nil {
			return nil, err
		}
		if value.Truthy(left) {
			return &value.Boolean{Value: true}, nil
		}
		right, err := e.Eval(n.Right)
		if err != nil {
			return nil, err
		}
		return &value.Boolean{Value: value.Truthy(right)}, nil
	}

	left, err := e.Eval(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case "+":
		return evalAdd(n.Line(), left, right)
	case "-", "*", "/", "//", "%", "**":
		return evalArith(n.Line(), n.Operator, left, right)
	case "==":
		return &value.Boolean{Value: value.Equal(left, right)}, nil
	case "!=":
		return &value.Boolean{Value: !value.Equal(left, right)}, nil
	case "<", "<=", ">", ">=":
		return evalOrder(n.Line(), n.Operator, left, right)
	case "contains":
		return evalContains(n.Line(), left, right)
	case "matches":
		return evalMatches(n.Line(), left, right)
	case "equals":
		return &value.Boolean{Value: value.Equal(left, right)}, nil
	default:
		return nil, evalErrf(n.Line(), "unknown binary operator %q", n.Operator)
	}
}

func evalAdd(line int, left, right value.Value) (value.Value, error) {
	if _, ok := left.(*value.String); ok {
		return &value.String{Value: value.Stringify(left) + value.Stringify(right)}, nil
	}
	if _, ok := right.(*value.String); ok {
		return &value.String{Value: value.Stringify(left) + value.Stringify(right)}, nil
	}
	if ll, ok := left.(*value.List); ok {
		if rl, ok := right.(*value.List); ok {
			elems := make([]value.Value, 0, len(ll.Elements)+len(rl.Elements))
			elems = append(elems, ll.Elements...)
			elems = append(elems, rl.Elements...)
			return &value.List{Elements: elems}, nil
		}
		return nil, evalErrf(line, "cannot add list and %s", right.Type())
	}
	if value.IsNumeric(left) && value.IsNumeric(right) {
		return evalArith(line, "+", left, right)
	}
	return nil, evalErrf(line, "cannot add %s and %s", left.Type(), right.Type())
}

func evalArith(line int, op string, left, right value.Value) (value.Value, error) {
	if !value.IsNumeric(left) || !value.IsNumeric(right) {
		return nil, evalErrf(line, "operator %s requires numbers, got %s and %s", op, left.Type(), right.Type())
	}
	li, lIsInt := left.(*value.Integer)
	ri, rIsInt := right.(*value.Integer)
	bothInt := lIsInt && rIsInt

	lf, _ := value.AsFloat64(left)
	rf, _ := value.AsFloat64(right)

	switch op {
	case "-":
		if bothInt {
			return &value.Integer{Value: li.Value - ri.Value}, nil
		}
		return &value.Float{Value: lf - rf}, nil
	case "*":
		if bothInt {
			return &value.Integer{Value: li.Value * ri.Value}, nil
		}
		return &value.Float{Value: lf * rf}, nil
	case "/":
		if rf == 0 {
			return nil, evalErrf(line, "division by zero")
		}
		return &value.Float{Value: lf / rf}, nil
	case "//":
		if rf == 0 {
			return nil, evalErrf(line, "division by zero")
		}
		return &value.Integer{Value: int64(floorDiv(lf, rf))}, nil
	case "%":
		if rf == 0 {
			return nil, evalErrf(line, "modulo by zero")
		}
		// §4.4: `%` always returns an integer, Go-native truncation
		// (matching original_source/'s own modulo semantics, not a
		// Python-style floor modulo).
		if bothInt && ri.Value != 0 {
			return &value.Integer{Value: li.Value % ri.Value}, nil
		}
		return &value.Integer{Value: int64(lf) % int64(rf)}, nil
	case "**":
		if bothInt && ri.Value >= 0 {
			return &value.Integer{Value: intPow(li.Value, ri.Value)}, nil
		}
		return &value.Float{Value: floatPow(lf, rf)}, nil
	default:
		return nil, evalErrf(line, "unknown arithmetic operator %q", op)
	}
}

func floorDiv(a, b float64) float64 {
	q := a / b
	if q < 0 && q != float64(int64(q)) {
		return float64(int64(q)) - 1
	}
	return float64(int64(q))
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func floatPow(base, exp float64) float64 {
	result := 1.0
	neg := exp < 0
	if neg {
		exp = -exp
	}
	for i := 0.0; i < exp; i++ {
		result *= base
	}
	if neg {
		return 1 / result
	}
	return result
}

func evalOrder(line int, op string, left, right value.Value) (value.Value, error) {
	if !value.IsNumeric(left) || !value.IsNumeric(right) {
		return nil, evalErrf(line, "operator %s requires numbers, got %s and %s", op, left.Type(), right.Type())
	}
	lf, _ := value.AsFloat64(left)
	rf, _ := value.AsFloat64(right)
	var result bool
	switch op {
	case "<":
		result = lf < rf
	case "<=":
		result = lf <= rf
	case ">":
		result = lf > rf
	case ">=":
		result = lf >= rf
	}
	return &value.Boolean{Value: result}, nil
}

func evalContains(line int, left, right value.Value) (value.Value, error) {
	switch t := left.(type) {
	case *value.String:
		return &value.Boolean{Value: strings.Contains(t.Value, value.Stringify(right))}, nil
	case *value.List:
		for _, elem := range t.Elements {
			if value.Equal(elem, right) {
				return &value.Boolean{Value: true}, nil
			}
		}
		return &value.Boolean{Value: false}, nil
	case *value.HostObject:
		return &value.Boolean{Value: strings.Contains(t.String(), value.Stringify(right))}, nil
	default:
		return nil, evalErrf(line, "contains requires a string, list, or host object on the left, got %s", left.Type())
	}
}

func evalMatches(line int, left, right value.Value) (value.Value, error) {
	pattern, ok := right.(*value.String)
	if !ok {
		return nil, evalErrf(line, "matches requires a string pattern, got %s", right.Type())
	}
	re, err := regexp.Compile(pattern.Value)
	if err != nil {
		return nil, evalErrf(line, "invalid regular expression %q: %s", pattern.Value, err.Error())
	}
	return &value.Boolean{Value: re.MatchString(value.Stringify(left))}, nil
}
