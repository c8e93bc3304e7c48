package builtins

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/flowby/flowby/internal/value"
)

func mathDispatch(method string, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	switch method {
	case "abs":
		x, err := floatArg(args, kwargs, 0, "x")
		if err != nil {
			return nil, err
		}
		if isIntegerArg(args, 0) {
			return &value.Integer{Value: int64(math.Abs(x))}, nil
		}
		return &value.Float{Value: math.Abs(x)}, nil
	case "floor":
		x, err := floatArg(args, kwargs, 0, "x")
		if err != nil {
			return nil, err
		}
		return &value.Integer{Value: int64(math.Floor(x))}, nil
	case "ceil":
		x, err := floatArg(args, kwargs, 0, "x")
		if err != nil {
			return nil, err
		}
		return &value.Integer{Value: int64(math.Ceil(x))}, nil
	case "round":
		x, err := floatArg(args, kwargs, 0, "x")
		if err != nil {
			return nil, err
		}
		return &value.Integer{Value: int64(math.Round(x))}, nil
	case "min":
		return reduceFloats(args, math.Min)
	case "max":
		return reduceFloats(args, math.Max)
	case "pow":
		base, err := floatArg(args, kwargs, 0, "base")
		if err != nil {
			return nil, err
		}
		exp, err := floatArg(args, kwargs, 1, "exp")
		if err != nil {
			return nil, err
		}
		return &value.Float{Value: math.Pow(base, exp)}, nil
	case "sqrt":
		x, err := floatArg(args, kwargs, 0, "x")
		if err != nil {
			return nil, err
		}
		return &value.Float{Value: math.Sqrt(x)}, nil
	case "random":
		return &value.Float{Value: rand.Float64()}, nil
	default:
		return nil, fmt.Errorf("Math has no method %q", method)
	}
}

func isIntegerArg(args []value.Value, i int) bool {
	if i >= len(args) {
		return false
	}
	_, ok := args[i].(*value.Integer)
	return ok
}

func reduceFloats(args []value.Value, f func(a, b float64) float64) (value.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expected at least one argument")
	}
	best, ok := value.AsFloat64(args[0])
	if !ok {
		return nil, fmt.Errorf("argument must be numeric, got %s", args[0].Type())
	}
	allInt := isIntegerArg(args, 0)
	for i := 1; i < len(args); i++ {
		v, ok := value.AsFloat64(args[i])
		if !ok {
			return nil, fmt.Errorf("argument must be numeric, got %s", args[i].Type())
		}
		best = f(best, v)
		if !isIntegerArg(args, i) {
			allInt = false
		}
	}
	if allInt {
		return &value.Integer{Value: int64(best)}, nil
	}
	return &value.Float{Value: best}, nil
}
