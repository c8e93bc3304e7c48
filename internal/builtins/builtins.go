// Package builtins implements Flowby's reserved built-in namespaces
// (§6.2, SPEC_FULL.md §12.1): Math, JSON, Date, UUID, Hash, Base64, and
// random. A host's CallBuiltinNamespace dispatches here for every
// namespace except `http`, which stays a real host capability (out of
// scope per §1).
package builtins

import (
	"fmt"

	"github.com/flowby/flowby/internal/value"
)

// Namespaces lists the reserved names this package resolves, used by
// the symbol table's global pre-seeding (§4.3) and by hosts deciding
// whether to dispatch here or elsewhere.
var Namespaces = []string{"Math", "JSON", "Date", "UUID", "Hash", "Base64", "random"}

// IsBuiltinNamespace reports whether ns is one of Namespaces.
func IsBuiltinNamespace(ns string) bool {
	for _, n := range Namespaces {
		if n == ns {
			return true
		}
	}
	return false
}

// Dispatch calls method on namespace ns with already-evaluated args and
// kwargs, implementing the call_builtin_namespace seam (§6.4) for every
// namespace this package owns.
func Dispatch(ns, method string, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	switch ns {
	case "Math":
		return mathDispatch(method, args, kwargs)
	case "JSON":
		return jsonDispatch(method, args, kwargs)
	case "Date":
		return dateDispatch(method, args, kwargs)
	case "UUID":
		return uuidDispatch(method, args, kwargs)
	case "Hash":
		return hashDispatch(method, args, kwargs)
	case "Base64":
		return base64Dispatch(method, args, kwargs)
	case "random":
		return randomDispatch(method, args, kwargs)
	default:
		return nil, fmt.Errorf("unknown builtin namespace %q", ns)
	}
}

// arg fetches args[i] if present, else the kwarg named name, else nil.
func arg(args []value.Value, kwargs map[string]value.Value, i int, name string) value.Value {
	if i < len(args) {
		return args[i]
	}
	if kwargs != nil {
		if v, ok := kwargs[name]; ok {
			return v
		}
	}
	return nil
}

func floatArg(args []value.Value, kwargs map[string]value.Value, i int, name string) (float64, error) {
	v := arg(args, kwargs, i, name)
	if v == nil {
		return 0, fmt.Errorf("missing argument %q", name)
	}
	f, ok := value.AsFloat64(v)
	if !ok {
		return 0, fmt.Errorf("argument %q must be numeric, got %s", name, v.Type())
	}
	return f, nil
}

func stringArg(args []value.Value, kwargs map[string]value.Value, i int, name string) (string, error) {
	v := arg(args, kwargs, i, name)
	if v == nil {
		return "", fmt.Errorf("missing argument %q", name)
	}
	s, ok := v.(*value.String)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %s", name, v.Type())
	}
	return s.Value, nil
}
