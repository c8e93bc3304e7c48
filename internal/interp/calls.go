package interp

import (
	"strings"

	"github.com/flowby/flowby/internal/errors"
	"github.com/flowby/flowby/internal/symtable"
	"github.com/flowby/flowby/internal/value"
)

// CallFunction implements eval.Adapter's half of the function-call
// protocol (§4.5): arity check, recursion check via CallStack, closure
// resumption, parameter binding, body execution, and return-flag
// teardown.
func (ip *Interpreter) CallFunction(fn *value.Function, args []value.Value, line int) (value.Value, error) {
	name := fn.Decl.Name
	if len(args) != len(fn.Decl.Params) {
		return nil, ip.runtimeErr(line, errors.RuntimeError, "function %q expects %d argument(s), got %d", name, len(fn.Decl.Params), len(args))
	}
	for _, onStack := range ip.CallStack {
		if onStack == name {
			return nil, ip.runtimeErr(line, errors.RuntimeError, "recursive call to %q is not allowed (call stack: %s)", name, strings.Join(append(append([]string{}, ip.CallStack...), name), " -> "))
		}
	}
	ip.CallStack = append(ip.CallStack, name)
	defer func() { ip.CallStack = ip.CallStack[:len(ip.CallStack)-1] }()

	restore := ip.Syms.PushCapturedScope(fn.Closure)
	defer restore()
	ip.Syms.EnterScope("function:" + name)
	defer ip.Syms.ExitScope()

	for i, p := range fn.Decl.Params {
		if err := ip.Syms.Define(p.Name, args[i], symtable.PARAMETER, line); err != nil {
			return nil, err
		}
	}

	if err := ip.ExecBlock(fn.Decl.Body); err != nil {
		return nil, err
	}

	result := ip.returnValue
	if result == nil {
		result = value.NullValue
	}
	ip.returnFlag = false
	ip.returnValue = nil
	return result, nil
}

// CallLambda mirrors CallFunction but without arity enforcement or
// recursion tracking: lambdas are anonymous, so §4.5's call-stack
// recursion check does not apply to them, and a missing trailing
// argument simply binds to null rather than erroring.
func (ip *Interpreter) CallLambda(lam *value.Lambda, args []value.Value, line int) (value.Value, error) {
	restore := ip.Syms.PushCapturedScope(lam.Closure)
	defer restore()
	ip.Syms.EnterScope("lambda")
	defer ip.Syms.ExitScope()

	for i, p := range lam.Decl.Params {
		var v value.Value = value.NullValue
		if i < len(args) {
			v = args[i]
		}
		if err := ip.Syms.Define(p, v, symtable.PARAMETER, line); err != nil {
			return nil, err
		}
	}

	return ip.Eval.Eval(lam.Decl.Body)
}
