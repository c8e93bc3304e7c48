package builtins

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/flowby/flowby/internal/value"
)

func jsonDispatch(method string, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	switch method {
	case "parse":
		raw, err := stringArg(args, kwargs, 0, "text")
		if err != nil {
			return nil, err
		}
		var decoded interface{}
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return nil, fmt.Errorf("JSON.parse: %w", err)
		}
		return fromGo(decoded), nil
	case "stringify":
		v := arg(args, kwargs, 0, "value")
		if v == nil {
			return nil, fmt.Errorf("JSON.stringify: missing argument")
		}
		encoded, err := json.Marshal(toGo(v))
		if err != nil {
			return nil, fmt.Errorf("JSON.stringify: %w", err)
		}
		return &value.String{Value: string(encoded)}, nil
	case "get":
		doc, err := stringArg(args, kwargs, 0, "doc")
		if err != nil {
			return nil, err
		}
		path, err := stringArg(args, kwargs, 1, "path")
		if err != nil {
			return nil, err
		}
		result := gjson.Get(doc, path)
		if !result.Exists() {
			return value.NullValue, nil
		}
		return fromGo(result.Value()), nil
	case "set":
		doc, err := stringArg(args, kwargs, 0, "doc")
		if err != nil {
			return nil, err
		}
		path, err := stringArg(args, kwargs, 1, "path")
		if err != nil {
			return nil, err
		}
		v := arg(args, kwargs, 2, "value")
		if v == nil {
			return nil, fmt.Errorf("JSON.set: missing value argument")
		}
		updated, err := sjson.Set(doc, path, toGo(v))
		if err != nil {
			return nil, fmt.Errorf("JSON.set: %w", err)
		}
		return &value.String{Value: updated}, nil
	default:
		return nil, fmt.Errorf("JSON has no method %q", method)
	}
}

// fromGo converts a decoded encoding/json or gjson value into a Flowby
// runtime value.
func fromGo(v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return value.NullValue
	case bool:
		return &value.Boolean{Value: t}
	case float64:
		if t == float64(int64(t)) {
			return &value.Integer{Value: int64(t)}
		}
		return &value.Float{Value: t}
	case string:
		return &value.String{Value: t}
	case []interface{}:
		elems := make([]value.Value, len(t))
		for i, e := range t {
			elems[i] = fromGo(e)
		}
		return &value.List{Elements: elems}
	case map[string]interface{}:
		obj := value.NewObject()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, fromGo(t[k]))
		}
		return obj
	default:
		return value.NullValue
	}
}

// toGo converts a Flowby runtime value into a plain Go value suitable
// for json.Marshal/sjson.Set.
func toGo(v value.Value) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case *value.Null:
		return nil
	case *value.Boolean:
		return t.Value
	case *value.Integer:
		return t.Value
	case *value.Float:
		return t.Value
	case *value.String:
		return t.Value
	case *value.List:
		out := make([]interface{}, len(t.Elements))
		for i, e := range t.Elements {
			out[i] = toGo(e)
		}
		return out
	case *value.Object:
		out := make(map[string]interface{}, len(t.Keys))
		for _, k := range t.Keys {
			val, _ := t.Get(k)
			out[k] = toGo(val)
		}
		return out
	default:
		return v.String()
	}
}
