package parser

import (
	"testing"

	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/lexer"
)

func parseProgram(t *testing.T, src string) (*ast.Program, *Parser) {
	t.Helper()
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	return prog, p
}

func requireNoErrors(t *testing.T, p *Parser) {
	t.Helper()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected parser errors: %v", errs)
	}
}

func TestLetAndConstDeclarations(t *testing.T) {
	prog, p := parseProgram(t, "let x = 1\nconst y = 2\n")
	requireNoErrors(t, p)
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	let, ok := prog.Statements[0].(*ast.LetStatement)
	if !ok || let.Name != "x" {
		t.Fatalf("statement 0 = %#v, want LetStatement{Name: x}", prog.Statements[0])
	}
	c, ok := prog.Statements[1].(*ast.ConstStatement)
	if !ok || c.Name != "y" {
		t.Fatalf("statement 1 = %#v, want ConstStatement{Name: y}", prog.Statements[1])
	}
}

func TestUseBeforeDeclareIsParseError(t *testing.T) {
	_, p := parseProgram(t, "let x = y\n")
	errs := p.Errors()
	if len(errs) != 1 || errs[0].Code != ErrUseBeforeDeclare {
		t.Fatalf("expected a single VR-001 error, got %v", errs)
	}
}

func TestAssignToConstIsParseError(t *testing.T) {
	_, p := parseProgram(t, "const x = 1\nx = 2\n")
	errs := p.Errors()
	if len(errs) != 1 || errs[0].Code != ErrAssignToConst {
		t.Fatalf("expected a single VR-002 error, got %v", errs)
	}
}

func TestRedeclareInSameScopeIsParseError(t *testing.T) {
	_, p := parseProgram(t, "let x = 1\nlet x = 2\n")
	errs := p.Errors()
	if len(errs) != 1 || errs[0].Code != ErrRedeclared {
		t.Fatalf("expected a single VR-003 error, got %v", errs)
	}
}

func TestAssignToSystemNameIsParseError(t *testing.T) {
	_, p := parseProgram(t, "page = 1\n")
	errs := p.Errors()
	if len(errs) != 1 || errs[0].Code != ErrAssignToSystem {
		t.Fatalf("expected a single VR-004 error, got %v", errs)
	}
}

func TestShadowingInNestedScopeIsNotAnError(t *testing.T) {
	src := "let x = 1\nfor x in [1, 2, 3]:\n    log x\n"
	_, p := parseProgram(t, src)
	requireNoErrors(t, p)
}

func TestUnusedVariableWarning(t *testing.T) {
	_, p := parseProgram(t, "let unused = 1\n")
	warns := p.Warnings()
	if len(warns) != 1 || warns[0].Code != "VR-006" {
		t.Fatalf("expected a single VR-006 warning, got %v", warns)
	}
}

func TestUnderscorePrefixedNameSkipsUnusedWarning(t *testing.T) {
	_, p := parseProgram(t, "let _ignored = 1\n")
	if warns := p.Warnings(); len(warns) != 0 {
		t.Fatalf("expected no warnings for _-prefixed name, got %v", warns)
	}
}

func TestIfElseIfElseChain(t *testing.T) {
	src := "if 1 == 1:\n    let a = 1\nelse if 2 == 2:\n    let b = 2\nelse:\n    let c = 3\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	ifBlock, ok := prog.Statements[0].(*ast.IfBlock)
	if !ok {
		t.Fatalf("statement 0 = %#v, want *ast.IfBlock", prog.Statements[0])
	}
	if len(ifBlock.Then) != 1 || len(ifBlock.ElseIfs) != 1 || len(ifBlock.Else) != 1 {
		t.Fatalf("unexpected if-chain shape: %+v", ifBlock)
	}
}

func TestWhenWithPipePatternsAndOtherwise(t *testing.T) {
	src := "let status = 200\nwhen status:\n    200 | 201:\n        log \"ok\"\n    otherwise:\n        log \"fail\"\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	when, ok := prog.Statements[1].(*ast.WhenBlock)
	if !ok {
		t.Fatalf("statement 1 = %#v, want *ast.WhenBlock", prog.Statements[1])
	}
	if len(when.Cases) != 1 || len(when.Cases[0].Values) != 2 {
		t.Fatalf("expected one case with two pattern values, got %+v", when.Cases)
	}
	if len(when.Otherwise) != 1 {
		t.Fatalf("expected otherwise clause, got %+v", when.Otherwise)
	}
}

func TestForLoopBindsTupleTargets(t *testing.T) {
	src := "for k, v in {a: 1}:\n    log k\n    log v\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	loop, ok := prog.Statements[0].(*ast.EachLoop)
	if !ok {
		t.Fatalf("statement 0 = %#v, want *ast.EachLoop", prog.Statements[0])
	}
	if len(loop.Targets) != 2 || loop.Targets[0] != "k" || loop.Targets[1] != "v" {
		t.Fatalf("unexpected loop targets: %v", loop.Targets)
	}
}

func TestBreakOutsideLoopIsParseError(t *testing.T) {
	_, p := parseProgram(t, "break\n")
	if errs := p.Errors(); len(errs) != 1 {
		t.Fatalf("expected one error for break outside a loop, got %v", errs)
	}
}

func TestBreakInsideWhileIsAccepted(t *testing.T) {
	src := "while True:\n    break\n"
	_, p := parseProgram(t, src)
	requireNoErrors(t, p)
}

func TestFunctionCanCallLaterSiblingFunction(t *testing.T) {
	src := "function first():\n    return second()\n\nfunction second():\n    return 1\n\nlet result = first()\n"
	_, p := parseProgram(t, src)
	requireNoErrors(t, p)
}

func TestFunctionParamsScopedToBody(t *testing.T) {
	src := "function add(a, b):\n    return a + b\n\nlet sum = add(1, 2)\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	fn, ok := prog.Statements[0].(*ast.FunctionDefNode)
	if !ok || len(fn.Params) != 2 {
		t.Fatalf("statement 0 = %#v, want FunctionDefNode with 2 params", prog.Statements[0])
	}
}

func TestDuplicateFunctionNameIsRedeclareError(t *testing.T) {
	src := "function f():\n    return 1\n\nfunction f():\n    return 2\n"
	_, p := parseProgram(t, src)
	errs := p.Errors()
	if len(errs) != 1 || errs[0].Code != ErrRedeclared {
		t.Fatalf("expected a single VR-003 error for duplicate function, got %v", errs)
	}
}

func TestSingleParamLambda(t *testing.T) {
	src := "let double = x => x * 2\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	let := prog.Statements[0].(*ast.LetStatement)
	lam, ok := let.Value.(*ast.LambdaExpression)
	if !ok || len(lam.Params) != 1 || lam.Params[0] != "x" {
		t.Fatalf("value = %#v, want single-param LambdaExpression", let.Value)
	}
}

func TestMultiParamLambdaDisambiguatesFromGroupedExpression(t *testing.T) {
	src := "let add = (a, b) => a + b\nlet grouped = (1 + 2) * 3\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	add := prog.Statements[0].(*ast.LetStatement)
	lam, ok := add.Value.(*ast.LambdaExpression)
	if !ok || len(lam.Params) != 2 {
		t.Fatalf("add value = %#v, want 2-param LambdaExpression", add.Value)
	}
	grouped := prog.Statements[1].(*ast.LetStatement)
	if _, ok := grouped.Value.(*ast.BinaryOp); !ok {
		t.Fatalf("grouped value = %#v, want *ast.BinaryOp", grouped.Value)
	}
}

func TestEmptyParenLambda(t *testing.T) {
	src := "let f = () => 42\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	let := prog.Statements[0].(*ast.LetStatement)
	lam, ok := let.Value.(*ast.LambdaExpression)
	if !ok || len(lam.Params) != 0 {
		t.Fatalf("value = %#v, want zero-param LambdaExpression", let.Value)
	}
}

func TestFStringSplitsTextAndExpressionParts(t *testing.T) {
	src := "let name = \"world\"\nlet greeting = f\"hello {name}!\"\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	let := prog.Statements[1].(*ast.LetStatement)
	interp, ok := let.Value.(*ast.StringInterpolation)
	if !ok {
		t.Fatalf("value = %#v, want *ast.StringInterpolation", let.Value)
	}
	if len(interp.Parts) != 3 {
		t.Fatalf("expected 3 parts (text, expr, text), got %d: %+v", len(interp.Parts), interp.Parts)
	}
	if interp.Parts[0].Text != "hello " {
		t.Fatalf("parts[0] = %+v, want text %q", interp.Parts[0], "hello ")
	}
	ident, ok := interp.Parts[1].Expr.(*ast.Identifier)
	if !ok || ident.Name != "name" {
		t.Fatalf("parts[1].Expr = %#v, want Identifier{name}", interp.Parts[1].Expr)
	}
	if interp.Parts[2].Text != "!" {
		t.Fatalf("parts[2] = %+v, want text %q", interp.Parts[2], "!")
	}
}

func TestFStringUseBeforeDeclareInsideInterpolation(t *testing.T) {
	_, p := parseProgram(t, "let s = f\"{missing}\"\n")
	errs := p.Errors()
	if len(errs) != 1 || errs[0].Code != ErrUseBeforeDeclare {
		t.Fatalf("expected a single VR-001 error from inside the f-string, got %v", errs)
	}
}

func TestImportAliasShapeDefinesModuleSymbol(t *testing.T) {
	src := "import helpers from \"./helpers.fb\"\nlet x = helpers.add(1, 2)\n"
	_, p := parseProgram(t, src)
	requireNoErrors(t, p)
}

func TestImportSelectiveShapeDefinesEachName(t *testing.T) {
	src := "from \"./helpers.fb\" import add, subtract\nlet x = add(1, subtract(5, 2))\n"
	_, p := parseProgram(t, src)
	requireNoErrors(t, p)
}

func TestImportClashIsParseError(t *testing.T) {
	src := "let helpers = 1\nimport helpers from \"./helpers.fb\"\n"
	_, p := parseProgram(t, src)
	errs := p.Errors()
	if len(errs) != 1 || errs[0].Code != ErrImportClash {
		t.Fatalf("expected a single VR-005 error, got %v", errs)
	}
}

func TestExportConstAndFunction(t *testing.T) {
	src := "export const limit = 10\nexport function double(n):\n    return n * 2\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	exp1, ok := prog.Statements[0].(*ast.ExportStatement)
	if !ok || exp1.Const == nil || exp1.Const.Name != "limit" {
		t.Fatalf("statement 0 = %#v, want ExportStatement{Const: limit}", prog.Statements[0])
	}
	exp2, ok := prog.Statements[1].(*ast.ExportStatement)
	if !ok || exp2.Func == nil || exp2.Func.Name != "double" {
		t.Fatalf("statement 1 = %#v, want ExportStatement{Func: double}", prog.Statements[1])
	}
}

func TestStepBlockWithDiagnosisAndCondition(t *testing.T) {
	src := "let shouldRun = True\nstep \"login\" with diagnosis detailed if shouldRun:\n    log \"logging in\"\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	step, ok := prog.Statements[1].(*ast.StepBlock)
	if !ok {
		t.Fatalf("statement 1 = %#v, want *ast.StepBlock", prog.Statements[1])
	}
	if step.Diagnosis != ast.DiagnosisDetailed {
		t.Fatalf("diagnosis = %v, want DiagnosisDetailed", step.Diagnosis)
	}
	if step.Condition == nil {
		t.Fatalf("expected a guard condition on the step block")
	}
}

func TestStepBlockIntroducesItsOwnScope(t *testing.T) {
	src := "step \"setup\":\n    let token = \"abc\"\nlet other = token\n"
	_, p := parseProgram(t, src)
	errs := p.Errors()
	if len(errs) != 1 || errs[0].Code != ErrUseBeforeDeclare {
		t.Fatalf("expected the step-local variable to be invisible outside the block, got %v", errs)
	}
}

func TestNavigateActionCapturesTargetExpression(t *testing.T) {
	src := "navigate \"https://example.com\"\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	act, ok := prog.Statements[0].(*ast.ActionStatement)
	if !ok || act.Kind != ast.ActionNavigate || act.Target == nil {
		t.Fatalf("statement 0 = %#v, want ActionStatement{Kind: ActionNavigate}", prog.Statements[0])
	}
}

func TestClickActionWithSelector(t *testing.T) {
	src := "click \"#submit\"\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	act := prog.Statements[0].(*ast.ActionStatement)
	if act.Kind != ast.ActionClick || act.Target == nil {
		t.Fatalf("action = %+v, want ActionClick with a target", act)
	}
}

func TestTypeActionWithValueAndIntoSelector(t *testing.T) {
	src := "type \"hello\" into \"#search\"\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	act := prog.Statements[0].(*ast.ActionStatement)
	if act.Kind != ast.ActionType || act.Target == nil {
		t.Fatalf("action = %+v, want ActionType with a target", act)
	}
	if _, ok := act.Operands["into"]; !ok {
		t.Fatalf("expected an 'into' operand, got %+v", act.Operands)
	}
}

func TestWaitForElementIsReclassifiedFromWaitDuration(t *testing.T) {
	src := "wait for element\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	act := prog.Statements[0].(*ast.ActionStatement)
	if act.Kind != ast.ActionWaitForElement {
		t.Fatalf("kind = %v, want ActionWaitForElement", act.Kind)
	}
}

func TestScrollToTopBareModifier(t *testing.T) {
	src := "scroll top\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	act := prog.Statements[0].(*ast.ActionStatement)
	if _, ok := act.Operands["top"]; !ok {
		t.Fatalf("expected a bare 'top' operand, got %+v", act.Operands)
	}
}

func TestAssertWithMessage(t *testing.T) {
	src := "let ok = True\nassert ok, \"should be true\"\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	as, ok := prog.Statements[1].(*ast.AssertStatement)
	if !ok || as.Message == nil {
		t.Fatalf("statement 1 = %#v, want AssertStatement with a message", prog.Statements[1])
	}
}

func TestExitWithCodeAndMessage(t *testing.T) {
	src := "exit 1, \"fatal\"\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	ex, ok := prog.Statements[0].(*ast.ExitStatement)
	if !ok || ex.Code == nil || ex.Message == nil {
		t.Fatalf("statement 0 = %#v, want ExitStatement with code and message", prog.Statements[0])
	}
}

func TestMemberAssignmentTarget(t *testing.T) {
	src := "let obj = {a: 1}\nobj.a = 2\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	assign, ok := prog.Statements[1].(*ast.Assignment)
	if !ok {
		t.Fatalf("statement 1 = %#v, want *ast.Assignment", prog.Statements[1])
	}
	if _, ok := assign.Target.(*ast.MemberAccess); !ok {
		t.Fatalf("target = %#v, want *ast.MemberAccess", assign.Target)
	}
}

func TestIndexAssignmentTarget(t *testing.T) {
	src := "let list = [1, 2, 3]\nlist[0] = 9\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	assign, ok := prog.Statements[1].(*ast.Assignment)
	if !ok {
		t.Fatalf("statement 1 = %#v, want *ast.Assignment", prog.Statements[1])
	}
	if _, ok := assign.Target.(*ast.ArrayAccess); !ok {
		t.Fatalf("target = %#v, want *ast.ArrayAccess", assign.Target)
	}
}

func TestInputExpressionTypeTag(t *testing.T) {
	src := "let pw = input(\"password: \", type=password)\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	let := prog.Statements[0].(*ast.LetStatement)
	in, ok := let.Value.(*ast.InputExpression)
	if !ok || in.Type != ast.InputPassword {
		t.Fatalf("value = %#v, want InputExpression{Type: InputPassword}", let.Value)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	src := "let x = 1 + 2 * 3\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	let := prog.Statements[0].(*ast.LetStatement)
	bin, ok := let.Value.(*ast.BinaryOp)
	if !ok || bin.Operator != "+" {
		t.Fatalf("value = %#v, want top-level '+'", let.Value)
	}
	if _, ok := bin.Right.(*ast.BinaryOp); !ok {
		t.Fatalf("right = %#v, want nested '*' BinaryOp", bin.Right)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	src := "let x = 2 ** 3 ** 2\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	let := prog.Statements[0].(*ast.LetStatement)
	top, ok := let.Value.(*ast.BinaryOp)
	if !ok || top.Operator != "**" {
		t.Fatalf("value = %#v, want top-level '**'", let.Value)
	}
	right, ok := top.Right.(*ast.BinaryOp)
	if !ok || right.Operator != "**" {
		t.Fatalf("right = %#v, want nested '**' (right-associative), not a flat left fold", top.Right)
	}
}

func TestMethodCallChain(t *testing.T) {
	src := "let s = \"hi\"\nlet upper = s.upper().trim()\n"
	prog, p := parseProgram(t, src)
	requireNoErrors(t, p)
	let := prog.Statements[1].(*ast.LetStatement)
	outer, ok := let.Value.(*ast.MethodCall)
	if !ok || outer.Name != "trim" {
		t.Fatalf("value = %#v, want outer MethodCall{trim}", let.Value)
	}
	if _, ok := outer.Object.(*ast.MethodCall); !ok {
		t.Fatalf("object = %#v, want nested MethodCall{upper}", outer.Object)
	}
}
