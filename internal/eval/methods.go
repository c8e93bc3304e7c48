package eval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/flowby/flowby/internal/value"
)

// caseUpper/caseLower do Unicode-correct case mapping (German ß→SS,
// Turkic-neutral dotless-i handling, etc.), not byte-wise ASCII
// folding — the same golang.org/x/text/cases package the teacher
// reaches for in its string builtins, applied to language.Und since
// Flowby carries no per-script locale tag through its string values.
var (
	caseUpper = cases.Upper(language.Und)
	caseLower = cases.Lower(language.Und)
)

// stringMethod implements §4.4's built-in String method table.
func stringMethod(line int, name string, s *value.String, args []value.Value) (value.Value, error) {
	switch name {
	case "length":
		return &value.Integer{Value: int64(len([]rune(s.Value)))}, nil
	case "upper":
		return &value.String{Value: caseUpper.String(s.Value)}, nil
	case "lower":
		return &value.String{Value: caseLower.String(s.Value)}, nil
	case "strip":
		cutset := " \t\n\r"
		if len(args) > 0 {
			c, err := asString(args[0])
			if err != nil {
				return nil, evalErrf(line, "strip: %s", err.Error())
			}
			cutset = c
		}
		return &value.String{Value: strings.Trim(s.Value, cutset)}, nil
	case "split":
		sep := ""
		if len(args) > 0 {
			v, err := asString(args[0])
			if err != nil {
				return nil, evalErrf(line, "split: %s", err.Error())
			}
			sep = v
		}
		var parts []string
		if sep == "" {
			parts = strings.Fields(s.Value)
		} else {
			parts = strings.Split(s.Value, sep)
		}
		if len(args) > 1 {
			max, err := asInt(args[1])
			if err != nil {
				return nil, evalErrf(line, "split: %s", err.Error())
			}
			if max >= 0 && int(max) < len(parts) {
				joined := strings.Join(parts[max:], sep)
				parts = append(parts[:max], joined)
			}
		}
		elems := make([]value.Value, len(parts))
		for i, p := range parts {
			elems[i] = &value.String{Value: p}
		}
		return &value.List{Elements: elems}, nil
	case "replace":
		if len(args) < 2 {
			return nil, evalErrf(line, "replace requires old and new arguments")
		}
		old, err := asString(args[0])
		if err != nil {
			return nil, evalErrf(line, "replace: %s", err.Error())
		}
		newS, err := asString(args[1])
		if err != nil {
			return nil, evalErrf(line, "replace: %s", err.Error())
		}
		count := -1
		if len(args) > 2 {
			c, err := asInt(args[2])
			if err != nil {
				return nil, evalErrf(line, "replace: %s", err.Error())
			}
			count = int(c)
		}
		return &value.String{Value: strings.Replace(s.Value, old, newS, count)}, nil
	case "substring":
		runes := []rune(s.Value)
		start := 0
		if len(args) > 0 {
			v, err := asInt(args[0])
			if err != nil {
				return nil, evalErrf(line, "substring: %s", err.Error())
			}
			start = int(v)
		}
		end := len(runes)
		if len(args) > 1 {
			v, err := asInt(args[1])
			if err != nil {
				return nil, evalErrf(line, "substring: %s", err.Error())
			}
			end = int(v)
		}
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start > end {
			start = end
		}
		return &value.String{Value: string(runes[start:end])}, nil
	case "startswith":
		if len(args) < 1 {
			return nil, evalErrf(line, "startswith requires a prefix argument")
		}
		p, err := asString(args[0])
		if err != nil {
			return nil, evalErrf(line, "startswith: %s", err.Error())
		}
		return &value.Boolean{Value: strings.HasPrefix(norm.NFC.String(s.Value), norm.NFC.String(p))}, nil
	case "endswith":
		if len(args) < 1 {
			return nil, evalErrf(line, "endswith requires a suffix argument")
		}
		suf, err := asString(args[0])
		if err != nil {
			return nil, evalErrf(line, "endswith: %s", err.Error())
		}
		return &value.Boolean{Value: strings.HasSuffix(norm.NFC.String(s.Value), norm.NFC.String(suf))}, nil
	case "find":
		if len(args) < 1 {
			return nil, evalErrf(line, "find requires a substring argument")
		}
		sub, err := asString(args[0])
		if err != nil {
			return nil, evalErrf(line, "find: %s", err.Error())
		}
		start := 0
		if len(args) > 1 {
			v, err := asInt(args[1])
			if err != nil {
				return nil, evalErrf(line, "find: %s", err.Error())
			}
			start = int(v)
		}
		if start < 0 || start > len(s.Value) {
			return &value.Integer{Value: -1}, nil
		}
		idx := strings.Index(s.Value[start:], sub)
		if idx < 0 {
			return &value.Integer{Value: -1}, nil
		}
		return &value.Integer{Value: int64(start + idx)}, nil
	case "contains":
		if len(args) < 1 {
			return nil, evalErrf(line, "contains requires a substring argument")
		}
		sub, err := asString(args[0])
		if err != nil {
			return nil, evalErrf(line, "contains: %s", err.Error())
		}
		return &value.Boolean{Value: strings.Contains(norm.NFC.String(s.Value), norm.NFC.String(sub))}, nil
	default:
		return nil, evalErrf(line, "string has no method %q", name)
	}
}

// listMethod implements §4.4's built-in List method table. The three
// higher-order methods (filter/map/reduce) call back into a
// user-supplied function or lambda via the Adapter.
func (e *Evaluator) listMethod(line int, name string, l *value.List, args []value.Value) (value.Value, error) {
	switch name {
	case "length":
		return &value.Integer{Value: int64(len(l.Elements))}, nil
	case "push":
		if len(args) < 1 {
			return nil, evalErrf(line, "push requires a value argument")
		}
		l.Elements = append(l.Elements, args[0])
		return l, nil
	case "pop":
		if len(l.Elements) == 0 {
			return nil, evalErrf(line, "pop from an empty list")
		}
		idx := len(l.Elements) - 1
		if len(args) > 0 {
			v, err := asInt(args[0])
			if err != nil {
				return nil, evalErrf(line, "pop: %s", err.Error())
			}
			idx = int(v)
		}
		if idx < 0 || idx >= len(l.Elements) {
			return nil, evalErrf(line, "pop index %d out of range", idx)
		}
		popped := l.Elements[idx]
		l.Elements = append(l.Elements[:idx], l.Elements[idx+1:]...)
		return popped, nil
	case "contains":
		if len(args) < 1 {
			return nil, evalErrf(line, "contains requires a value argument")
		}
		for _, elem := range l.Elements {
			if value.Equal(elem, args[0]) {
				return &value.Boolean{Value: true}, nil
			}
		}
		return &value.Boolean{Value: false}, nil
	case "filter":
		if len(args) < 1 {
			return nil, evalErrf(line, "filter requires a function argument")
		}
		out := make([]value.Value, 0, len(l.Elements))
		for _, elem := range l.Elements {
			res, err := e.callValue(args[0], []value.Value{elem}, line)
			if err != nil {
				return nil, err
			}
			if value.Truthy(res) {
				out = append(out, elem)
			}
		}
		return &value.List{Elements: out}, nil
	case "map":
		if len(args) < 1 {
			return nil, evalErrf(line, "map requires a function argument")
		}
		out := make([]value.Value, len(l.Elements))
		for i, elem := range l.Elements {
			res, err := e.callValue(args[0], []value.Value{elem}, line)
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return &value.List{Elements: out}, nil
	case "reduce":
		if len(args) < 2 {
			return nil, evalErrf(line, "reduce requires a function and an initial value")
		}
		acc := args[1]
		for _, elem := range l.Elements {
			res, err := e.callValue(args[0], []value.Value{acc, elem}, line)
			if err != nil {
				return nil, err
			}
			acc = res
		}
		return acc, nil
	default:
		return nil, evalErrf(line, "list has no method %q", name)
	}
}

// objectMethod implements §4.4's built-in Object method table.
func objectMethod(line int, name string, o *value.Object, args []value.Value) (value.Value, error) {
	switch name {
	case "keys":
		elems := make([]value.Value, len(o.Keys))
		for i, k := range o.Keys {
			elems[i] = &value.String{Value: k}
		}
		return &value.List{Elements: elems}, nil
	case "values":
		elems := make([]value.Value, len(o.Keys))
		for i, k := range o.Keys {
			elems[i] = o.Fields[k]
		}
		return &value.List{Elements: elems}, nil
	case "length":
		return &value.Integer{Value: int64(len(o.Keys))}, nil
	default:
		return nil, evalErrf(line, "object has no method %q", name)
	}
}

func asString(v value.Value) (string, error) {
	s, ok := v.(*value.String)
	if !ok {
		return "", fmt.Errorf("expected a string, got %s", v.Type())
	}
	return s.Value, nil
}

func asInt(v value.Value) (int64, error) {
	switch t := v.(type) {
	case *value.Integer:
		return t.Value, nil
	case *value.Float:
		return int64(t.Value), nil
	default:
		return 0, fmt.Errorf("expected a number, got %s", v.Type())
	}
}

// globalBuiltin is a global built-in function's implementation.
type globalBuiltin func(e *Evaluator, line int, args []value.Value, kwargs map[string]value.Value) (value.Value, error)

// globalBuiltinNames is the table of free-standing built-in functions.
// The string/list/object operations (upper, lower, strip, split, join,
// replace, ...) are reachable only as methods (`s.upper()`); this table
// has no free-function form of them.
var globalBuiltinNames = map[string]globalBuiltin{
	"int":       biInt,
	"float":     biFloat,
	"str":       biStr,
	"bool":      biBool,
	"len":       biLen,
	"range":     biRange,
	"enumerate": biEnumerate,
	"isNaN":     biIsNaN,
	"isFinite":  biIsFinite,
	"env":       biEnv,
}

func biInt(e *Evaluator, line int, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 1 {
		return nil, evalErrf(line, "int() requires one argument")
	}
	switch t := args[0].(type) {
	case *value.Integer:
		return t, nil
	case *value.Float:
		return &value.Integer{Value: int64(t.Value)}, nil
	case *value.Boolean:
		if t.Value {
			return &value.Integer{Value: 1}, nil
		}
		return &value.Integer{Value: 0}, nil
	case *value.String:
		s := strings.TrimSpace(t.Value)
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return nil, evalErrf(line, "int(): cannot convert %q to an integer", t.Value)
			}
			return &value.Integer{Value: int64(f)}, nil
		}
		return &value.Integer{Value: i}, nil
	default:
		return nil, evalErrf(line, "int(): cannot convert %s", args[0].Type())
	}
}

func biFloat(e *Evaluator, line int, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 1 {
		return nil, evalErrf(line, "float() requires one argument")
	}
	n, err := value.ToNumber(args[0])
	if err != nil {
		return nil, evalErrf(line, "float(): %s", err.Error())
	}
	f, _ := value.AsFloat64(n)
	return &value.Float{Value: f}, nil
}

func biStr(e *Evaluator, line int, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 1 {
		return nil, evalErrf(line, "str() requires one argument")
	}
	return &value.String{Value: value.Stringify(args[0])}, nil
}

func biBool(e *Evaluator, line int, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 1 {
		return nil, evalErrf(line, "bool() requires one argument")
	}
	return &value.Boolean{Value: value.Truthy(args[0])}, nil
}

func biLen(e *Evaluator, line int, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 1 {
		return nil, evalErrf(line, "len() requires one argument")
	}
	switch t := args[0].(type) {
	case *value.List:
		return &value.Integer{Value: int64(len(t.Elements))}, nil
	case *value.String:
		return &value.Integer{Value: int64(len([]rune(t.Value)))}, nil
	case *value.Object:
		return &value.Integer{Value: int64(len(t.Keys))}, nil
	default:
		return nil, evalErrf(line, "len(): %s has no length", args[0].Type())
	}
}

func biRange(e *Evaluator, line int, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		v, err := asInt(args[0])
		if err != nil {
			return nil, evalErrf(line, "range(): %s", err.Error())
		}
		stop = v
	case 2:
		a, err := asInt(args[0])
		if err != nil {
			return nil, evalErrf(line, "range(): %s", err.Error())
		}
		b, err := asInt(args[1])
		if err != nil {
			return nil, evalErrf(line, "range(): %s", err.Error())
		}
		start, stop = a, b
	case 3:
		a, err := asInt(args[0])
		if err != nil {
			return nil, evalErrf(line, "range(): %s", err.Error())
		}
		b, err := asInt(args[1])
		if err != nil {
			return nil, evalErrf(line, "range(): %s", err.Error())
		}
		c, err := asInt(args[2])
		if err != nil {
			return nil, evalErrf(line, "range(): %s", err.Error())
		}
		start, stop, step = a, b, c
	default:
		return nil, evalErrf(line, "range() takes 1 to 3 arguments")
	}
	if step == 0 {
		return nil, evalErrf(line, "range() step cannot be zero")
	}
	var elems []value.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			elems = append(elems, &value.Integer{Value: i})
		}
	} else {
		for i := start; i > stop; i += step {
			elems = append(elems, &value.Integer{Value: i})
		}
	}
	return &value.List{Elements: elems}, nil
}

func biEnumerate(e *Evaluator, line int, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 1 {
		return nil, evalErrf(line, "enumerate() requires a list argument")
	}
	l, ok := args[0].(*value.List)
	if !ok {
		return nil, evalErrf(line, "enumerate() requires a list, got %s", args[0].Type())
	}
	out := make([]value.Value, len(l.Elements))
	for i, elem := range l.Elements {
		out[i] = &value.List{Elements: []value.Value{&value.Integer{Value: int64(i)}, elem}}
	}
	return &value.List{Elements: out}, nil
}

func biIsNaN(e *Evaluator, line int, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 1 {
		return nil, evalErrf(line, "isNaN() requires one argument")
	}
	f, ok := args[0].(*value.Float)
	if !ok {
		return &value.Boolean{Value: false}, nil
	}
	return &value.Boolean{Value: math.IsNaN(f.Value)}, nil
}

func biIsFinite(e *Evaluator, line int, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 1 {
		return nil, evalErrf(line, "isFinite() requires one argument")
	}
	f, ok := args[0].(*value.Float)
	if !ok {
		return &value.Boolean{Value: true}, nil
	}
	return &value.Boolean{Value: !math.IsNaN(f.Value) && !math.IsInf(f.Value, 0)}, nil
}

func biEnv(e *Evaluator, line int, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 1 {
		return nil, evalErrf(line, "env() requires a variable name argument")
	}
	name, err := asString(args[0])
	if err != nil {
		return nil, evalErrf(line, "env(): %s", err.Error())
	}
	v, ok := e.Host.EnvLookup(name)
	if !ok {
		if len(args) > 1 {
			return args[1], nil
		}
		return value.NullValue, nil
	}
	return &value.String{Value: v}, nil
}
