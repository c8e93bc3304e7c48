// Package eval implements Flowby's expression evaluator (§4.4): a pure
// function of an AST expression, the current scope stack, and the
// host, that returns a runtime value or an error.
//
// The evaluator needs to call back into user-defined functions and
// lambdas, which in turn need to execute statements — that's
// internal/interp's job, and internal/interp imports internal/eval to
// evaluate the expressions inside those statements. To avoid the
// resulting import cycle, eval defines the small Adapter interface
// below; interp's Interpreter implements it and is injected at
// construction time. This is grounded on the teacher's own
// internal/interp/evaluator package, which defines an
// InterpreterAdapter interface for exactly the same reason (its
// evaluator subpackage needs to call back into the outer Interpreter
// for user-function calls without importing it directly).
package eval

import (
	"fmt"
	"strconv"

	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/host"
	"github.com/flowby/flowby/internal/lexer"
	"github.com/flowby/flowby/internal/symtable"
	"github.com/flowby/flowby/internal/value"
)

// Adapter is what the evaluator needs from the interpreter: the
// ability to invoke a user function or lambda value. Both calls
// execute statements, push/pop the call stack, and manage scope —
// all interpreter concerns the evaluator itself never touches.
type Adapter interface {
	CallFunction(fn *value.Function, args []value.Value, line int) (value.Value, error)
	CallLambda(lam *value.Lambda, args []value.Value, line int) (value.Value, error)
}

// Evaluator evaluates expressions against a live scope stack and host.
type Evaluator struct {
	Syms    *symtable.Stack
	Host    host.Host
	Adapter Adapter
}

// New creates an Evaluator. Adapter may be set after construction
// (interp.New wires itself in once both sides exist).
func New(syms *symtable.Stack, h host.Host, adapter Adapter) *Evaluator {
	return &Evaluator{Syms: syms, Host: h, Adapter: adapter}
}

// EvalError is a runtime evaluation error, carrying the line it
// occurred on for the caller to wrap into an errors.FlowbyError.
type EvalError struct {
	Line    int
	Message string
}

func (e *EvalError) Error() string { return e.Message }

func evalErrf(line int, format string, args ...interface{}) *EvalError {
	return &EvalError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// Eval dispatches on the expression's concrete type (§4.4).
func (e *Evaluator) Eval(node ast.Expression) (value.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return e.evalLiteral(n)
	case *ast.Identifier:
		return e.evalIdentifier(n)
	case *ast.BinaryOp:
		return e.evalBinaryOp(n)
	case *ast.UnaryOp:
		return e.evalUnaryOp(n)
	case *ast.MemberAccess:
		return e.evalMemberAccess(n)
	case *ast.ArrayAccess:
		return e.evalArrayAccess(n)
	case *ast.MethodCall:
		return e.evalMethodCall(n)
	case *ast.FunctionCall:
		return e.evalFunctionCall(n)
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(n)
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(n)
	case *ast.StringInterpolation:
		return e.evalStringInterpolation(n)
	case *ast.LambdaExpression:
		return &value.Lambda{Decl: n, Closure: e.Syms.Top()}, nil
	case *ast.InputExpression:
		return e.evalInput(n)
	default:
		return nil, evalErrf(node.Line(), "cannot evaluate expression of type %T", node)
	}
}

func (e *Evaluator) evalLiteral(n *ast.Literal) (value.Value, error) {
	switch n.Kind {
	case ast.IntegerLit:
		i, err := strconv.ParseInt(n.Raw, 10, 64)
		if err != nil {
			return nil, evalErrf(n.Line(), "invalid integer literal %q: %s", n.Raw, err.Error())
		}
		return &value.Integer{Value: i}, nil
	case ast.FloatLit:
		f, err := lexer.ParseNumberLiteral(n.Raw)
		if err != nil {
			return nil, evalErrf(n.Line(), "invalid number literal %q: %s", n.Raw, err.Error())
		}
		return &value.Float{Value: f}, nil
	case ast.StringLit:
		return &value.String{Value: n.Value.(string)}, nil
	case ast.BoolLit:
		return &value.Boolean{Value: n.Value.(bool)}, nil
	case ast.NullLit:
		return value.NullValue, nil
	default:
		return nil, evalErrf(n.Line(), "unknown literal kind")
	}
}

func (e *Evaluator) evalIdentifier(n *ast.Identifier) (value.Value, error) {
	raw, err := e.Syms.Get(n.Name)
	if err != nil {
		return nil, evalErrf(n.Line(), "%s", err.Error())
	}
	v, ok := raw.(value.Value)
	if !ok {
		return nil, evalErrf(n.Line(), "symbol %q has no runtime value bound yet", n.Name)
	}
	return v, nil
}

func (e *Evaluator) evalArrayLiteral(n *ast.ArrayLiteral) (value.Value, error) {
	elems := make([]value.Value, len(n.Elements))
	for i, expr := range n.Elements {
		v, err := e.Eval(expr)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return &value.List{Elements: elems}, nil
}

func (e *Evaluator) evalObjectLiteral(n *ast.ObjectLiteral) (value.Value, error) {
	obj := value.NewObject()
	for _, entry := range n.Entries {
		v, err := e.Eval(entry.Value)
		if err != nil {
			return nil, err
		}
		obj.Set(entry.Key, v)
	}
	return obj, nil
}

func (e *Evaluator) evalStringInterpolation(n *ast.StringInterpolation) (value.Value, error) {
	var sb []byte
	for _, part := range n.Parts {
		if part.Expr == nil {
			sb = append(sb, part.Text...)
			continue
		}
		v, err := e.Eval(part.Expr)
		if err != nil {
			return nil, err
		}
		sb = append(sb, value.Stringify(v)...)
	}
	return &value.String{Value: string(sb)}, nil
}

func (e *Evaluator) evalInput(n *ast.InputExpression) (value.Value, error) {
	prompt := ""
	if n.Prompt != nil {
		pv, err := e.Eval(n.Prompt)
		if err != nil {
			return nil, err
		}
		prompt = value.Stringify(pv)
	}

	var raw string
	if !e.Host.IsInteractive() {
		if n.Default == nil {
			return nil, evalErrf(n.Line(), "input() has no default and the host is non-interactive")
		}
		return e.Eval(n.Default)
	}

	mode := "text"
	if n.Type == ast.InputPassword {
		mode = "password"
	}
	line, err := e.Host.ReadInput(prompt, mode)
	if err != nil {
		return nil, evalErrf(n.Line(), "input: %s", err.Error())
	}
	raw = line

	switch n.Type {
	case ast.InputInteger:
		iv, err := value.ToNumber(&value.String{Value: raw})
		if err != nil {
			return nil, evalErrf(n.Line(), "input: %s", err.Error())
		}
		if f, ok := iv.(*value.Float); ok {
			return &value.Integer{Value: int64(f.Value)}, nil
		}
		return iv, nil
	case ast.InputFloat:
		fv, err := value.ToNumber(&value.String{Value: raw})
		if err != nil {
			return nil, evalErrf(n.Line(), "input: %s", err.Error())
		}
		if i, ok := fv.(*value.Integer); ok {
			return &value.Float{Value: float64(i.Value)}, nil
		}
		return fv, nil
	default:
		return &value.String{Value: raw}, nil
	}
}
