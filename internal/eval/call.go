package eval

import (
	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/value"
)

// evalArgs evaluates a call's positional and keyword arguments,
// left-to-right, positional before kwargs, per §4.3's ordering
// guarantee.
func (e *Evaluator) evalArgs(args []ast.Expression, kwargs []ast.KeywordArg) ([]value.Value, map[string]value.Value, error) {
	positional := make([]value.Value, len(args))
	for i, a := range args {
		v, err := e.Eval(a)
		if err != nil {
			return nil, nil, err
		}
		positional[i] = v
	}
	var named map[string]value.Value
	if len(kwargs) > 0 {
		named = make(map[string]value.Value, len(kwargs))
		for _, kw := range kwargs {
			v, err := e.Eval(kw.Value)
			if err != nil {
				return nil, nil, err
			}
			named[kw.Name] = v
		}
	}
	return positional, named, nil
}

func (e *Evaluator) evalMethodCall(n *ast.MethodCall) (value.Value, error) {
	obj, err := e.Eval(n.Object)
	if err != nil {
		return nil, err
	}
	args, kwargs, err := e.evalArgs(n.Args, n.Kwargs)
	if err != nil {
		return nil, err
	}

	if ns, ok := obj.(*namespaceObject); ok {
		v, err := e.Host.CallBuiltinNamespace(ns.Name, n.Name, args, kwargs)
		if err != nil {
			return nil, evalErrf(n.Line(), "%s.%s: %s", ns.Name, n.Name, err.Error())
		}
		return v, nil
	}

	switch t := obj.(type) {
	case *value.String:
		return stringMethod(n.Line(), n.Name, t, args)
	case *value.List:
		return e.listMethod(n.Line(), n.Name, t, args)
	case *value.Object:
		return objectMethod(n.Line(), n.Name, t, args)
	case *value.Module:
		fnVal, ok := t.Exports[n.Name]
		if !ok {
			return nil, evalErrf(n.Line(), "module %q has no export %q", t.Name, n.Name)
		}
		return e.callValue(fnVal, args, n.Line())
	case *value.Resource:
		op, ok := t.Operations[n.Name]
		if !ok {
			return nil, evalErrf(n.Line(), "resource %q has no operation %q", t.SpecPath, n.Name)
		}
		return e.callOperation(n.Line(), t, op, args, kwargs)
	default:
		return nil, evalErrf(n.Line(), "cannot call method %q on a %s value", n.Name, obj.Type())
	}
}

func (e *Evaluator) evalFunctionCall(n *ast.FunctionCall) (value.Value, error) {
	if bi, ok := globalBuiltinNames[n.Name]; ok {
		args, kwargs, err := e.evalArgs(n.Args, n.Kwargs)
		if err != nil {
			return nil, err
		}
		v, err := bi(e, n.Line(), args, kwargs)
		if err != nil {
			return nil, evalErrf(n.Line(), "%s", err.Error())
		}
		return v, nil
	}

	if n.Name == "Resource" {
		return e.evalResourceConstructor(n)
	}

	raw, err := e.Syms.Get(n.Name)
	if err != nil {
		return nil, evalErrf(n.Line(), "%s", err.Error())
	}
	callee, ok := raw.(value.Value)
	if !ok {
		return nil, evalErrf(n.Line(), "%q is not callable", n.Name)
	}
	args, kwargs, err := e.evalArgs(n.Args, n.Kwargs)
	if err != nil {
		return nil, err
	}
	if bound, ok := callee.(*value.BoundOperation); ok {
		return e.callOperation(n.Line(), bound.Resource, bound.Op, args, kwargs)
	}
	if len(kwargs) > 0 {
		return nil, evalErrf(n.Line(), "function %q does not accept keyword arguments", n.Name)
	}
	return e.callValue(callee, args, n.Line())
}

// callValue dispatches a call to whichever callable kind v is.
func (e *Evaluator) callValue(v value.Value, args []value.Value, line int) (value.Value, error) {
	switch fn := v.(type) {
	case *value.Function:
		res, err := e.Adapter.CallFunction(fn, args, line)
		if err != nil {
			return nil, evalErrf(line, "%s", err.Error())
		}
		return res, nil
	case *value.Lambda:
		res, err := e.Adapter.CallLambda(fn, args, line)
		if err != nil {
			return nil, evalErrf(line, "%s", err.Error())
		}
		return res, nil
	case *value.BoundOperation:
		return e.callOperation(line, fn.Resource, fn.Op, args, nil)
	default:
		return nil, evalErrf(line, "%s value is not callable", v.Type())
	}
}

// callOperation performs a resource-operation call (§4.4's method-call
// rule for resource objects and §12.5): positional args fill
// PathParams in declaration order, then kwargs override/extend.
func (e *Evaluator) callOperation(line int, r *value.Resource, op value.Operation, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	merged := make(map[string]value.Value, len(kwargs)+len(args))
	for i, name := range op.PathParams {
		if i < len(args) {
			merged[name] = args[i]
		}
	}
	for k, v := range kwargs {
		merged[k] = v
	}
	if err := e.Host.PerformAction(ast.ActionResourceCall, mergeOperandMap(op, merged)); err != nil {
		return nil, evalErrf(line, "%s", err.Error())
	}
	return value.NullValue, nil
}

func mergeOperandMap(op value.Operation, params map[string]value.Value) map[string]value.Value {
	out := make(map[string]value.Value, len(params)+3)
	for k, v := range params {
		out[k] = v
	}
	out["__operation_id"] = &value.String{Value: op.ID}
	out["__method"] = &value.String{Value: op.Method}
	out["__path"] = &value.String{Value: op.PathTmpl}
	return out
}

// evalResourceConstructor implements `Resource(spec_file, **kwargs)`
// (§4.4): a special-cased global function that receives the current
// execution context as an implicit argument.
func (e *Evaluator) evalResourceConstructor(n *ast.FunctionCall) (value.Value, error) {
	args, kwargs, err := e.evalArgs(n.Args, n.Kwargs)
	if err != nil {
		return nil, err
	}
	if len(args) < 1 {
		return nil, evalErrf(n.Line(), "Resource() requires a spec file path argument")
	}
	specPath, ok := args[0].(*value.String)
	if !ok {
		return nil, evalErrf(n.Line(), "Resource() spec path must be a string, got %s", args[0].Type())
	}
	v, err := e.Host.OpenSpec(specPath.Value, kwargs)
	if err != nil {
		return nil, evalErrf(n.Line(), "%s", err.Error())
	}
	return v, nil
}
