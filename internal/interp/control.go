package interp

import (
	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/errors"
	"github.com/flowby/flowby/internal/symtable"
	"github.com/flowby/flowby/internal/value"
)

// execWhile repeatedly evaluates n.Condition and runs n.Body in a fresh
// child scope until the condition is falsy or a break/return/exit fires
// (§4.6). A safety counter guards against a condition that never turns
// false.
func (ip *Interpreter) execWhile(n *ast.WhileLoop) error {
	for iter := 0; ; iter++ {
		if iter >= MaxLoopIterations {
			return ip.runtimeErr(n.Line(), errors.InfiniteLoopDetected, "while loop exceeded %d iterations", MaxLoopIterations)
		}
		cond, err := ip.Eval.Eval(n.Condition)
		if err != nil {
			return err
		}
		if !value.Truthy(cond) {
			return nil
		}
		if err := ip.execScopedBlock("while", n.Body); err != nil {
			return err
		}
		if ip.returnFlag {
			return nil
		}
		if ip.breakFlag {
			ip.breakFlag = false
			return nil
		}
		ip.continueFlag = false
	}
}

// execFor evaluates n.Iterable once, then runs n.Body once per element
// in a fresh child scope with n.Targets bound (§4.6). More than one
// target name requires every element to be a list of exactly that
// arity.
func (ip *Interpreter) execFor(n *ast.EachLoop) error {
	it, err := ip.Eval.Eval(n.Iterable)
	if err != nil {
		return err
	}
	list, ok := it.(*value.List)
	if !ok {
		return ip.runtimeErr(n.Line(), errors.RuntimeError, "for loop requires a list, got %s", it.Type())
	}
	for idx, elem := range list.Elements {
		if idx >= MaxLoopIterations {
			return ip.runtimeErr(n.Line(), errors.InfiniteLoopDetected, "for loop exceeded %d iterations", MaxLoopIterations)
		}
		ip.Syms.EnterScope("for")
		if err := ip.bindForTargets(n, elem); err != nil {
			ip.Syms.ExitScope()
			return err
		}
		err := ip.ExecBlock(n.Body)
		ip.Syms.ExitScope()
		if err != nil {
			return err
		}
		if ip.returnFlag {
			return nil
		}
		if ip.breakFlag {
			ip.breakFlag = false
			return nil
		}
		ip.continueFlag = false
	}
	return nil
}

func (ip *Interpreter) bindForTargets(n *ast.EachLoop, elem value.Value) error {
	if len(n.Targets) == 1 {
		return ip.Syms.Define(n.Targets[0], elem, symtable.VARIABLE, n.Line())
	}
	tuple, ok := elem.(*value.List)
	if !ok || len(tuple.Elements) != len(n.Targets) {
		return ip.runtimeErr(n.Line(), errors.RuntimeError, "for loop with %d targets requires each element to be a %d-element list", len(n.Targets), len(n.Targets))
	}
	for i, name := range n.Targets {
		if err := ip.Syms.Define(name, tuple.Elements[i], symtable.VARIABLE, n.Line()); err != nil {
			return err
		}
	}
	return nil
}
