package builtins

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/flowby/flowby/internal/value"
)

func hashDispatch(method string, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	s, err := stringArg(args, kwargs, 0, "text")
	if err != nil {
		return nil, err
	}
	switch method {
	case "sha256":
		sum := sha256.Sum256([]byte(s))
		return &value.String{Value: hex.EncodeToString(sum[:])}, nil
	case "md5":
		sum := md5.Sum([]byte(s))
		return &value.String{Value: hex.EncodeToString(sum[:])}, nil
	default:
		return nil, fmt.Errorf("Hash has no method %q", method)
	}
}
