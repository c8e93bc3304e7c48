package builtins

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/flowby/flowby/internal/value"
)

func uuidDispatch(method string, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	switch method {
	case "v4":
		return &value.String{Value: uuid.NewString()}, nil
	case "isValid":
		s, err := stringArg(args, kwargs, 0, "value")
		if err != nil {
			return nil, err
		}
		_, parseErr := uuid.Parse(s)
		return &value.Boolean{Value: parseErr == nil}, nil
	default:
		return nil, fmt.Errorf("UUID has no method %q", method)
	}
}
