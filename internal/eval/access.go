package eval

import (
	"strings"

	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/value"
)

// systemObject is the proxy the global scope pre-seeds `page`, `env`,
// and `response` (and any host-declared system variable) with (§4.4:
// "root-name resolution to a proxy object that intercepts member
// access and routes to host-provided state"). Path accumulates the
// chain of names walked so far. Every member step calls resolve_system
// with the whole path; when the host answers nil, the step yields a new
// proxy with the longer path, so for `page.response.status` the host is
// asked for ["page","response"] and then ["page","response","status"].
type systemObject struct {
	value.HostObject
	Path []string
}

// NewSystemProxy creates the root proxy value bound to a system
// variable name in the global scope.
func NewSystemProxy(name string) value.Value {
	return &systemObject{HostObject: value.HostObject{Kind: "SYSTEM", Display: "<" + name + ">"}, Path: []string{name}}
}

// namespaceObject is what a reserved builtin-namespace name (Math,
// JSON, Date, UUID, Hash, Base64, random, http) resolves to in the
// global scope; MethodCall routes a call on one of these through
// host.CallBuiltinNamespace rather than ordinary method dispatch.
type namespaceObject struct {
	value.HostObject
	Name string
}

// NewNamespaceProxy creates the value bound to a reserved namespace
// name in the global scope.
func NewNamespaceProxy(name string) value.Value {
	return &namespaceObject{HostObject: value.HostObject{Kind: "NAMESPACE", Display: name}, Name: name}
}

func (e *Evaluator) evalMemberAccess(n *ast.MemberAccess) (value.Value, error) {
	obj, err := e.Eval(n.Object)
	if err != nil {
		return nil, err
	}
	return e.memberOf(n.Line(), obj, n.Name)
}

func (e *Evaluator) memberOf(line int, obj value.Value, name string) (value.Value, error) {
	switch t := obj.(type) {
	case *systemObject:
		path := append(append([]string{}, t.Path...), name)
		v, err := e.Host.ResolveSystem(path)
		if err != nil {
			return nil, evalErrf(line, "%s", err.Error())
		}
		if v == nil {
			return &systemObject{HostObject: value.HostObject{Kind: "SYSTEM", Display: "<" + strings.Join(path, ".") + ">"}, Path: path}, nil
		}
		return v, nil
	case *namespaceObject:
		return nil, evalErrf(line, "%s has no member %q; call it as a method instead", t.Name, name)
	case *value.Object:
		v, ok := t.Get(name)
		if !ok {
			return nil, evalErrf(line, "object has no key %q", name)
		}
		return v, nil
	case *value.Module:
		v, ok := t.Exports[name]
		if !ok {
			return nil, evalErrf(line, "module %q has no export %q", t.Name, name)
		}
		return v, nil
	case *value.Resource:
		op, ok := t.Operations[name]
		if !ok {
			return nil, evalErrf(line, "resource %q has no operation %q", t.SpecPath, name)
		}
		return &value.BoundOperation{Resource: t, Op: op}, nil
	case *value.List:
		if name == "length" {
			return &value.Integer{Value: int64(len(t.Elements))}, nil
		}
		return nil, evalErrf(line, "list has no member %q", name)
	case *value.String:
		if name == "length" {
			return &value.Integer{Value: int64(len([]rune(t.Value)))}, nil
		}
		return nil, evalErrf(line, "string has no member %q", name)
	default:
		return nil, evalErrf(line, "cannot access member %q on a %s value", name, obj.Type())
	}
}

func (e *Evaluator) evalArrayAccess(n *ast.ArrayAccess) (value.Value, error) {
	obj, err := e.Eval(n.Object)
	if err != nil {
		return nil, err
	}
	idxVal, err := e.Eval(n.Index)
	if err != nil {
		return nil, err
	}
	idxInt, ok := idxVal.(*value.Integer)
	if !ok {
		return nil, evalErrf(n.Line(), "index must be an integer, got %s", idxVal.Type())
	}
	idx := int(idxInt.Value)

	switch t := obj.(type) {
	case *value.List:
		if idx < 0 || idx >= len(t.Elements) {
			return nil, evalErrf(n.Line(), "list index %d out of range [0, %d)", idx, len(t.Elements))
		}
		return t.Elements[idx], nil
	case *value.String:
		runes := []rune(t.Value)
		if idx < 0 || idx >= len(runes) {
			return nil, evalErrf(n.Line(), "string index %d out of range [0, %d)", idx, len(runes))
		}
		return &value.String{Value: string(runes[idx])}, nil
	default:
		return nil, evalErrf(n.Line(), "cannot index a %s value", obj.Type())
	}
}
