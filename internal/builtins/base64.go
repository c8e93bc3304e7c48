package builtins

import (
	"encoding/base64"
	"fmt"

	"github.com/flowby/flowby/internal/value"
)

func base64Dispatch(method string, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	s, err := stringArg(args, kwargs, 0, "text")
	if err != nil {
		return nil, err
	}
	switch method {
	case "encode":
		return &value.String{Value: base64.StdEncoding.EncodeToString([]byte(s))}, nil
	case "decode":
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("Base64.decode: %w", err)
		}
		return &value.String{Value: string(decoded)}, nil
	default:
		return nil, fmt.Errorf("Base64 has no method %q", method)
	}
}
