package eval_test

import (
	"fmt"
	"testing"

	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/host"
	"github.com/flowby/flowby/internal/interp"
	"github.com/flowby/flowby/internal/value"
)

// newTestEvaluator builds a real interpreter (satisfying eval.Adapter
// via internal/interp) and hands back its evaluator, so method-call
// tests that exercise lambdas exercise the actual call protocol
// instead of a hand-rolled stand-in. Living in the external eval_test
// package, rather than inside package eval, is what makes importing
// internal/interp possible without an import cycle (interp itself
// imports eval).
func newTestEvaluator() *interp.Interpreter {
	ip := interp.New(host.NewNullHost(), ".")
	return ip
}

func lit(kind ast.LiteralKind, raw string) *ast.Literal {
	return &ast.Literal{Kind: kind, Raw: raw}
}

func intLit(n int64) *ast.Literal {
	return &ast.Literal{Kind: ast.IntegerLit, Raw: fmt.Sprintf("%d", n)}
}

func strLit(s string) *ast.Literal {
	return &ast.Literal{Kind: ast.StringLit, Value: s}
}

func TestEvalIntegerLiteral(t *testing.T) {
	ip := newTestEvaluator()
	v, err := ip.Eval.Eval(intLit(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	i, ok := v.(*value.Integer)
	if !ok || i.Value != 42 {
		t.Fatalf("expected Integer(42), got %#v", v)
	}
}

func TestEvalFloatLiteralWithTimeSuffix(t *testing.T) {
	ip := newTestEvaluator()
	v, err := ip.Eval.Eval(lit(ast.FloatLit, "2s"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := v.(*value.Float)
	if !ok || f.Value != 2 {
		t.Fatalf("expected Float(2), got %#v", v)
	}
}

func TestEvalArithmeticPromotion(t *testing.T) {
	ip := newTestEvaluator()
	bin := &ast.BinaryOp{Operator: "+", Left: intLit(1), Right: intLit(2)}
	v, err := ip.Eval.Eval(bin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	i, ok := v.(*value.Integer)
	if !ok || i.Value != 3 {
		t.Fatalf("expected Integer(3), got %#v", v)
	}

	div := &ast.BinaryOp{Operator: "/", Left: intLit(7), Right: intLit(2)}
	v, err = ip.Eval.Eval(div)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := v.(*value.Float)
	if !ok || f.Value != 3.5 {
		t.Fatalf("expected Float(3.5), got %#v", v)
	}

	mod := &ast.BinaryOp{Operator: "%", Left: intLit(-7), Right: intLit(2)}
	v, err = ip.Eval.Eval(mod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mi, ok := v.(*value.Integer)
	if !ok || mi.Value != -1 {
		t.Fatalf("expected Go-truncating -7 %% 2 == -1, got %#v", v)
	}
}

func TestEvalStringConcatenation(t *testing.T) {
	ip := newTestEvaluator()
	bin := &ast.BinaryOp{Operator: "+", Left: strLit("foo"), Right: strLit("bar")}
	v, err := ip.Eval.Eval(bin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := v.(*value.String)
	if !ok || s.Value != "foobar" {
		t.Fatalf("expected String(foobar), got %#v", v)
	}
}

func TestEvalAndOrShortCircuitNormalizesToBoolean(t *testing.T) {
	ip := newTestEvaluator()
	and := &ast.BinaryOp{Operator: "and", Left: intLit(0), Right: intLit(5)}
	v, err := ip.Eval.Eval(and)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := v.(*value.Boolean)
	if !ok || b.Value != false {
		t.Fatalf("expected Boolean(false), got %#v", v)
	}

	or := &ast.BinaryOp{Operator: "or", Left: intLit(0), Right: intLit(5)}
	v, err = ip.Eval.Eval(or)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok = v.(*value.Boolean)
	if !ok || b.Value != true {
		t.Fatalf("expected Boolean(true), got %#v", v)
	}
}

func TestEvalListLiteralAndIndex(t *testing.T) {
	ip := newTestEvaluator()
	list := &ast.ArrayLiteral{Elements: []ast.Expression{intLit(10), intLit(20), intLit(30)}}
	idx := &ast.ArrayAccess{Object: list, Index: intLit(1)}
	v, err := ip.Eval.Eval(idx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	i, ok := v.(*value.Integer)
	if !ok || i.Value != 20 {
		t.Fatalf("expected Integer(20), got %#v", v)
	}
}

func TestEvalListLengthMember(t *testing.T) {
	ip := newTestEvaluator()
	list := &ast.ArrayLiteral{Elements: []ast.Expression{intLit(1), intLit(2)}}
	member := &ast.MemberAccess{Object: list, Name: "length"}
	v, err := ip.Eval.Eval(member)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	i, ok := v.(*value.Integer)
	if !ok || i.Value != 2 {
		t.Fatalf("expected Integer(2), got %#v", v)
	}
}

func TestEvalListMapWithLambda(t *testing.T) {
	ip := newTestEvaluator()
	lam := &ast.LambdaExpression{
		Params: []string{"x"},
		Body:   &ast.BinaryOp{Operator: "*", Left: &ast.Identifier{Name: "x"}, Right: intLit(2)},
	}
	list := &ast.ArrayLiteral{Elements: []ast.Expression{intLit(1), intLit(2), intLit(3)}}
	call := &ast.MethodCall{Object: list, Name: "map", Args: []ast.Expression{lam}}
	v, err := ip.Eval.Eval(call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l, ok := v.(*value.List)
	if !ok || len(l.Elements) != 3 {
		t.Fatalf("expected a 3-element list, got %#v", v)
	}
	want := []int64{2, 4, 6}
	for i, elem := range l.Elements {
		iv, ok := elem.(*value.Integer)
		if !ok || iv.Value != want[i] {
			t.Fatalf("element %d: expected %d, got %#v", i, want[i], elem)
		}
	}
}

func TestEvalStringMethodUpperAndSplit(t *testing.T) {
	ip := newTestEvaluator()
	upper := &ast.MethodCall{Object: strLit("hello"), Name: "upper"}
	v, err := ip.Eval.Eval(upper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := v.(*value.String); !ok || s.Value != "HELLO" {
		t.Fatalf("expected String(HELLO), got %#v", v)
	}

	split := &ast.MethodCall{Object: strLit("a,b,c"), Name: "split", Args: []ast.Expression{strLit(",")}}
	v, err = ip.Eval.Eval(split)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l, ok := v.(*value.List)
	if !ok || len(l.Elements) != 3 {
		t.Fatalf("expected a 3-element list, got %#v", v)
	}
}

func TestEvalGlobalBuiltinLen(t *testing.T) {
	ip := newTestEvaluator()
	call := &ast.FunctionCall{Name: "len", Args: []ast.Expression{strLit("hello")}}
	v, err := ip.Eval.Eval(call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	i, ok := v.(*value.Integer)
	if !ok || i.Value != 5 {
		t.Fatalf("expected Integer(5), got %#v", v)
	}
}

func TestEvalRangeBuiltin(t *testing.T) {
	ip := newTestEvaluator()
	call := &ast.FunctionCall{Name: "range", Args: []ast.Expression{intLit(3)}}
	v, err := ip.Eval.Eval(call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l, ok := v.(*value.List)
	if !ok || len(l.Elements) != 3 {
		t.Fatalf("expected [0,1,2], got %#v", v)
	}
}

func TestEvalObjectLiteralAndMember(t *testing.T) {
	ip := newTestEvaluator()
	obj := &ast.ObjectLiteral{Entries: []ast.ObjectEntry{
		{Key: "name", Value: strLit("flowby")},
	}}
	member := &ast.MemberAccess{Object: obj, Name: "name"}
	v, err := ip.Eval.Eval(member)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := v.(*value.String); !ok || s.Value != "flowby" {
		t.Fatalf("expected String(flowby), got %#v", v)
	}
}

func TestEvalComparisonOperators(t *testing.T) {
	ip := newTestEvaluator()
	lt := &ast.BinaryOp{Operator: "<", Left: intLit(1), Right: intLit(2)}
	v, err := ip.Eval.Eval(lt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, ok := v.(*value.Boolean); !ok || !b.Value {
		t.Fatalf("expected Boolean(true), got %#v", v)
	}
}

func TestEvalIdentifierNotFound(t *testing.T) {
	ip := newTestEvaluator()
	_, err := ip.Eval.Eval(&ast.Identifier{Name: "missing"})
	if err == nil {
		t.Fatal("expected an error for an undefined identifier")
	}
}

// TestEvalUserFunctionCallRoundTrip exercises the real CallFunction
// path end to end: a hoisted function symbol, parameter binding, a
// body that returns a value, and the call-stack teardown afterward.
func TestEvalUserFunctionCallRoundTrip(t *testing.T) {
	ip := newTestEvaluator()
	decl := &ast.FunctionDefNode{
		Name:   "double",
		Params: []ast.Param{{Name: "x"}},
		Body: []ast.Statement{
			&ast.ReturnNode{Value: &ast.BinaryOp{Operator: "*", Left: &ast.Identifier{Name: "x"}, Right: intLit(2)}},
		},
	}
	if err := ip.ExecBlock([]ast.Statement{decl}); err != nil {
		t.Fatalf("unexpected error hoisting function: %v", err)
	}
	call := &ast.FunctionCall{Name: "double", Args: []ast.Expression{intLit(21)}}
	v, err := ip.Eval.Eval(call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	i, ok := v.(*value.Integer)
	if !ok || i.Value != 42 {
		t.Fatalf("expected Integer(42), got %#v", v)
	}
	if len(ip.CallStack) != 0 {
		t.Fatalf("expected call stack to be empty after return, got %v", ip.CallStack)
	}
}

// TestEvalDirectRecursionRejected confirms §4.5's recursion check: a
// function that calls itself is rejected rather than overflowing the
// Go call stack.
func TestEvalDirectRecursionRejected(t *testing.T) {
	ip := newTestEvaluator()
	decl := &ast.FunctionDefNode{
		Name: "loop",
		Body: []ast.Statement{
			&ast.ExpressionStatement{Expr: &ast.FunctionCall{Name: "loop"}},
		},
	}
	if err := ip.ExecBlock([]ast.Statement{decl}); err != nil {
		t.Fatalf("unexpected error hoisting function: %v", err)
	}
	call := &ast.FunctionCall{Name: "loop"}
	_, err := ip.Eval.Eval(call)
	if err == nil {
		t.Fatal("expected a recursion error")
	}
}
