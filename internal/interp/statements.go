package interp

import (
	"fmt"

	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/errors"
	"github.com/flowby/flowby/internal/symtable"
	"github.com/flowby/flowby/internal/value"
)

// ExecBlock runs stmts in order against the current top scope,
// hoisting any function declarations the block contains first so a
// function may call a sibling declared later in the same block (§4.2),
// mirroring the parser's own hoistFunctionDecls pass. Execution stops
// as soon as any control-flow flag is set, letting the caller (a loop,
// an if-branch, a function call) decide what that flag means for it.
func (ip *Interpreter) ExecBlock(stmts []ast.Statement) error {
	if err := ip.hoistFunctions(stmts); err != nil {
		return err
	}
	for _, stmt := range stmts {
		if err := ip.Exec(stmt); err != nil {
			return err
		}
		if ip.returnFlag || ip.breakFlag || ip.continueFlag {
			return nil
		}
	}
	return nil
}

// hoistFunctions pre-declares every function-def statement directly in
// stmts (not nested any deeper) as a FUNCTION symbol bound to a
// *value.Function closing over the current scope, before any of the
// block's other statements run.
func (ip *Interpreter) hoistFunctions(stmts []ast.Statement) error {
	closure := ip.Syms.Top()
	for _, stmt := range stmts {
		var fn *ast.FunctionDefNode
		switch t := stmt.(type) {
		case *ast.FunctionDefNode:
			fn = t
		case *ast.ExportStatement:
			fn = t.Func
		}
		if fn == nil {
			continue
		}
		if err := ip.Syms.Define(fn.Name, &value.Function{Decl: fn, Closure: closure}, symtable.FUNCTION, fn.Line()); err != nil {
			return err
		}
	}
	return nil
}

// execScopedBlock runs stmts in a fresh child scope, the shape every
// braceless block (if/elif/else arm, when case, step body) needs (§3.5).
func (ip *Interpreter) execScopedBlock(name string, stmts []ast.Statement) error {
	ip.Syms.EnterScope(name)
	defer ip.Syms.ExitScope()
	return ip.ExecBlock(stmts)
}

// Exec dispatches a single statement by its concrete AST type (§3.2).
func (ip *Interpreter) Exec(stmt ast.Statement) error {
	switch n := stmt.(type) {
	case *ast.LetStatement:
		return ip.execLet(n)
	case *ast.ConstStatement:
		return ip.execConst(n)
	case *ast.Assignment:
		return ip.execAssignment(n)
	case *ast.IfBlock:
		return ip.execIf(n)
	case *ast.WhenBlock:
		return ip.execWhen(n)
	case *ast.WhileLoop:
		return ip.execWhile(n)
	case *ast.EachLoop:
		return ip.execFor(n)
	case *ast.BreakStatement:
		ip.breakFlag = true
		return nil
	case *ast.ContinueStatement:
		ip.continueFlag = true
		return nil
	case *ast.ReturnNode:
		return ip.execReturn(n)
	case *ast.ExitStatement:
		return ip.execExit(n)
	case *ast.FunctionDefNode:
		// Already bound to a closure value by hoistFunctions; nothing
		// further happens at the function's own textual position.
		return nil
	case *ast.StepBlock:
		return ip.execStep(n)
	case *ast.ExpressionStatement:
		_, err := ip.Eval.Eval(n.Expr)
		return err
	case *ast.LogStatement:
		return ip.execLog(n)
	case *ast.AssertStatement:
		return ip.execAssert(n)
	case *ast.LibraryDeclaration:
		// Validated by the module loader before any statement runs.
		return nil
	case *ast.ExportStatement:
		return ip.execExport(n)
	case *ast.ImportStatement:
		return ip.execImport(n)
	case *ast.ActionStatement:
		return ip.execAction(n)
	default:
		return fmt.Errorf("interp: cannot execute statement of type %T", stmt)
	}
}

func (ip *Interpreter) execLet(n *ast.LetStatement) error {
	v, err := ip.Eval.Eval(n.Value)
	if err != nil {
		return err
	}
	return ip.Syms.Define(n.Name, v, symtable.VARIABLE, n.Line())
}

func (ip *Interpreter) execConst(n *ast.ConstStatement) error {
	v, err := ip.Eval.Eval(n.Value)
	if err != nil {
		return err
	}
	return ip.Syms.Define(n.Name, v, symtable.CONSTANT, n.Line())
}

func (ip *Interpreter) execAssignment(n *ast.Assignment) error {
	v, err := ip.Eval.Eval(n.Value)
	if err != nil {
		return err
	}
	switch target := n.Target.(type) {
	case *ast.Identifier:
		return ip.Syms.Set(target.Name, v, n.Line())
	case *ast.ArrayAccess:
		obj, err := ip.Eval.Eval(target.Object)
		if err != nil {
			return err
		}
		idxVal, err := ip.Eval.Eval(target.Index)
		if err != nil {
			return err
		}
		idxInt, ok := idxVal.(*value.Integer)
		if !ok {
			return ip.runtimeErr(n.Line(), errors.RuntimeError, "index must be an integer, got %s", idxVal.Type())
		}
		list, ok := obj.(*value.List)
		if !ok {
			return ip.runtimeErr(n.Line(), errors.RuntimeError, "cannot assign into a %s value by index", obj.Type())
		}
		idx := int(idxInt.Value)
		if idx < 0 || idx >= len(list.Elements) {
			return ip.runtimeErr(n.Line(), errors.RuntimeError, "list index %d out of range [0, %d)", idx, len(list.Elements))
		}
		list.Elements[idx] = v
		return nil
	case *ast.MemberAccess:
		obj, err := ip.Eval.Eval(target.Object)
		if err != nil {
			return err
		}
		o, ok := obj.(*value.Object)
		if !ok {
			return ip.runtimeErr(n.Line(), errors.RuntimeError, "cannot assign member %q on a %s value", target.Name, obj.Type())
		}
		o.Set(target.Name, v)
		return nil
	default:
		return ip.runtimeErr(n.Line(), errors.RuntimeError, "invalid assignment target %T", n.Target)
	}
}

func (ip *Interpreter) execIf(n *ast.IfBlock) error {
	cond, err := ip.Eval.Eval(n.Condition)
	if err != nil {
		return err
	}
	if value.Truthy(cond) {
		return ip.execScopedBlock("if", n.Then)
	}
	for _, ei := range n.ElseIfs {
		c, err := ip.Eval.Eval(ei.Condition)
		if err != nil {
			return err
		}
		if value.Truthy(c) {
			return ip.execScopedBlock("elseif", ei.Body)
		}
	}
	if n.Else != nil {
		return ip.execScopedBlock("else", n.Else)
	}
	return nil
}

func (ip *Interpreter) execWhen(n *ast.WhenBlock) error {
	disc, err := ip.Eval.Eval(n.Discriminant)
	if err != nil {
		return err
	}
	for _, c := range n.Cases {
		for _, ve := range c.Values {
			v, err := ip.Eval.Eval(ve)
			if err != nil {
				return err
			}
			if value.Equal(disc, v) {
				return ip.execScopedBlock("when-case", c.Body)
			}
		}
	}
	if n.Otherwise != nil {
		return ip.execScopedBlock("otherwise", n.Otherwise)
	}
	return nil
}

func (ip *Interpreter) execStep(n *ast.StepBlock) error {
	if n.Condition != nil {
		c, err := ip.Eval.Eval(n.Condition)
		if err != nil {
			return err
		}
		if !value.Truthy(c) {
			return nil
		}
	}
	return ip.execScopedBlock("step", n.Body)
}

func (ip *Interpreter) execReturn(n *ast.ReturnNode) error {
	if n.Value == nil {
		ip.returnValue = value.NullValue
		ip.returnFlag = true
		return nil
	}
	v, err := ip.Eval.Eval(n.Value)
	if err != nil {
		return err
	}
	ip.returnValue = v
	ip.returnFlag = true
	return nil
}

func (ip *Interpreter) execExit(n *ast.ExitStatement) error {
	code := 0
	if n.Code != nil {
		v, err := ip.Eval.Eval(n.Code)
		if err != nil {
			return err
		}
		iv, ok := v.(*value.Integer)
		if !ok {
			return ip.runtimeErr(n.Line(), errors.RuntimeError, "exit code must be an integer, got %s", v.Type())
		}
		code = int(iv.Value)
	}
	switch {
	case code < 0:
		code = 0
	case code > 255:
		code = 255
	}
	msg := ""
	if n.Message != nil {
		v, err := ip.Eval.Eval(n.Message)
		if err != nil {
			return err
		}
		msg = value.Stringify(v)
	}
	return &ExitError{Code: code, Message: msg}
}

func (ip *Interpreter) execLog(n *ast.LogStatement) error {
	v, err := ip.Eval.Eval(n.Value)
	if err != nil {
		return err
	}
	ip.Host.Log(logLevelName(n.Level), n.Line(), value.Stringify(v))
	return nil
}

func logLevelName(l ast.LogLevel) string {
	switch l {
	case ast.LogDebug:
		return "debug"
	case ast.LogInfo:
		return "info"
	case ast.LogSuccess:
		return "success"
	case ast.LogWarning:
		return "warning"
	case ast.LogError:
		return "error"
	default:
		return "info"
	}
}

func (ip *Interpreter) execAssert(n *ast.AssertStatement) error {
	v, err := ip.Eval.Eval(n.Condition)
	if err != nil {
		return err
	}
	if value.Truthy(v) {
		return nil
	}
	msg := "assertion failed"
	if n.Message != nil {
		mv, err := ip.Eval.Eval(n.Message)
		if err != nil {
			return err
		}
		msg = value.Stringify(mv)
	}
	return ip.runtimeErr(n.Line(), errors.ActionError, "%s", msg)
}

func (ip *Interpreter) execExport(n *ast.ExportStatement) error {
	if n.Const != nil {
		return ip.execConst(n.Const)
	}
	// n.Func was already bound by hoistFunctions.
	return nil
}

func (ip *Interpreter) execImport(n *ast.ImportStatement) error {
	mod, err := ip.Modules.Load(n.Path, ip.CurrentDir())
	if err != nil {
		return err
	}
	if n.Alias != "" {
		return ip.Syms.Define(n.Alias, &value.Module{Path: mod.Path, Name: mod.Name, Exports: mod.Exports}, symtable.MODULE, n.Line())
	}
	for _, name := range n.Names {
		v, ok := mod.Exports[name]
		if !ok {
			return ip.runtimeErr(n.Line(), errors.ModuleError, "module %q has no export %q", mod.Name, name)
		}
		if err := ip.Syms.Define(name, v, symtable.IMPORTED, n.Line()); err != nil {
			return err
		}
	}
	return nil
}

func (ip *Interpreter) execAction(n *ast.ActionStatement) error {
	operands := make(map[string]value.Value, len(n.Operands)+2)
	if n.Target != nil {
		v, err := ip.Eval.Eval(n.Target)
		if err != nil {
			return err
		}
		operands["target"] = v
	}
	if n.Value != nil {
		v, err := ip.Eval.Eval(n.Value)
		if err != nil {
			return err
		}
		operands["value"] = v
	}
	for name, expr := range n.Operands {
		v, err := ip.Eval.Eval(expr)
		if err != nil {
			return err
		}
		operands[name] = v
	}
	return ip.Host.PerformAction(n.Kind, operands)
}
