package builtins

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/flowby/flowby/internal/value"
)

const randomStringAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomDispatch(method string, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	switch method {
	case "int":
		lo, err := floatArg(args, kwargs, 0, "min")
		if err != nil {
			return nil, err
		}
		hi, err := floatArg(args, kwargs, 1, "max")
		if err != nil {
			return nil, err
		}
		if hi < lo {
			return nil, fmt.Errorf("random.int: max must be >= min")
		}
		n := int64(hi) - int64(lo) + 1
		return &value.Integer{Value: int64(lo) + rand.Int64N(n)}, nil
	case "string":
		n, err := floatArg(args, kwargs, 0, "length")
		if err != nil {
			return nil, err
		}
		return &value.String{Value: randomString(int(n))}, nil
	case "email":
		return &value.String{Value: fmt.Sprintf("%s@example.com", randomString(10))}, nil
	default:
		return nil, fmt.Errorf("random has no method %q", method)
	}
}

func randomString(n int) string {
	if n <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(randomStringAlphabet[rand.IntN(len(randomStringAlphabet))])
	}
	return sb.String()
}
