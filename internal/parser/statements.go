package parser

import (
	"fmt"

	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/symtable"
	"github.com/flowby/flowby/internal/token"
)

// atStatementEnd reports whether k closes a statement: end of line, end
// of block, or end of file.
func (p *Parser) atStatementEnd(k token.Kind) bool {
	return k == token.NEWLINE || k == token.DEDENT || k == token.EOF
}

func (p *Parser) parseLetStatement() ast.Statement {
	line := p.cur.Pos.Line
	if !p.expectPeek(token.IDENTIFIER) {
		return nil
	}
	name := p.cur.Literal
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.advance()
	value := p.parseExpression(LOWEST)
	p.defineSymbol(name, symtable.VARIABLE, line, ErrRedeclared)
	p.advance()
	return &ast.LetStatement{Base: ast.Base{Ln: line}, Name: name, Value: value}
}

func (p *Parser) parseConstStatement() ast.Statement {
	line := p.cur.Pos.Line
	if !p.expectPeek(token.IDENTIFIER) {
		return nil
	}
	name := p.cur.Literal
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.advance()
	value := p.parseExpression(LOWEST)
	p.defineSymbol(name, symtable.CONSTANT, line, ErrRedeclared)
	p.advance()
	return &ast.ConstStatement{Base: ast.Base{Ln: line}, Name: name, Value: value}
}

// parseExpressionOrAssignStatement handles the default case of the
// statement switch: a bare expression evaluated for side effects, or an
// assignment to a plain name, a member (`obj.field = v`), or an index
// (`list[i] = v`). A plain-identifier target bypasses VR-001 (reading
// it isn't what's happening) and goes through checkAssignTarget
// (VR-002/VR-004) instead.
func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	line := p.cur.Pos.Line
	if p.curIs(token.IDENTIFIER) && p.peekIs(token.ASSIGN) {
		name := p.cur.Literal
		p.advance() // cur = ASSIGN
		p.advance() // cur = first value token
		value := p.parseExpression(LOWEST)
		p.checkAssignTarget(name, token.Position{Line: line})
		p.advance()
		return &ast.Assignment{
			Base:   ast.Base{Ln: line},
			Target: &ast.Identifier{Base: ast.Base{Ln: line}, Name: name},
			Value:  value,
		}
	}

	expr := p.parseExpression(LOWEST)
	if p.peekIs(token.ASSIGN) {
		switch expr.(type) {
		case *ast.MemberAccess, *ast.ArrayAccess:
			p.advance() // cur = ASSIGN
			p.advance() // cur = first value token
			value := p.parseExpression(LOWEST)
			p.advance()
			return &ast.Assignment{Base: ast.Base{Ln: line}, Target: expr, Value: value}
		default:
			p.addError(p.peek.Pos, ErrUnexpectedToken, "invalid assignment target")
		}
	}
	p.advance()
	return &ast.ExpressionStatement{Base: ast.Base{Ln: line}, Expr: expr}
}

// parseIfStatement does not push a scope (§4.2 line 169): `if`/`else`
// bodies share the enclosing scope.
func (p *Parser) parseIfStatement() ast.Statement {
	line := p.cur.Pos.Line
	p.advance()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	then := p.parseBlock()

	var elseIfs []ast.ElseIf
	var elseBody []ast.Statement
	for p.curIs(token.ELSE) && p.peekIs(token.IF) {
		p.advance() // cur = IF
		p.advance() // cur = first cond token
		econd := p.parseExpression(LOWEST)
		if !p.expectPeek(token.COLON) {
			break
		}
		ebody := p.parseBlock()
		elseIfs = append(elseIfs, ast.ElseIf{Condition: econd, Body: ebody})
	}
	if p.curIs(token.ELSE) {
		if p.expectPeek(token.COLON) {
			elseBody = p.parseBlock()
		}
	}
	return &ast.IfBlock{Base: ast.Base{Ln: line}, Condition: cond, Then: then, ElseIfs: elseIfs, Else: elseBody}
}

// parseWhenStatement parses `when`'s own case-list grammar directly
// rather than through parseBlock, since a case body is itself
// introduced by `:` after a value-list, not a bare statement. No new
// scope, matching `if`/`while`.
func (p *Parser) parseWhenStatement() ast.Statement {
	line := p.cur.Pos.Line
	p.advance()
	disc := p.parseExpression(LOWEST)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	p.advance()

	var cases []ast.WhenCase
	var otherwise []ast.Statement
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		if p.curIs(token.NEWLINE) {
			p.advance()
			continue
		}
		if p.curIs(token.OTHERWISE) {
			if !p.expectPeek(token.COLON) {
				break
			}
			otherwise = p.parseBlock()
			continue
		}
		var values []ast.Expression
		values = append(values, p.parseExpression(LOWEST))
		for p.peekIs(token.PIPE) {
			p.advance()
			p.advance()
			values = append(values, p.parseExpression(LOWEST))
		}
		if !p.expectPeek(token.COLON) {
			break
		}
		body := p.parseBlock()
		cases = append(cases, ast.WhenCase{Values: values, Body: body})
	}
	if p.curIs(token.DEDENT) {
		p.advance()
	} else {
		p.addError(p.cur.Pos, ErrUnexpectedToken, "expected end of when-block, got %v", p.cur.Kind)
	}
	return &ast.WhenBlock{Base: ast.Base{Ln: line}, Discriminant: disc, Cases: cases, Otherwise: otherwise}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	line := p.cur.Pos.Line
	p.advance()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	return &ast.WhileLoop{Base: ast.Base{Ln: line}, Condition: cond, Body: body}
}

// parseForStatement pushes a new scope holding the loop variable(s),
// per §4.2/§4.6.
func (p *Parser) parseForStatement() ast.Statement {
	line := p.cur.Pos.Line
	p.advance()
	if !p.curIs(token.IDENTIFIER) {
		p.addError(p.cur.Pos, ErrUnexpectedToken, "expected loop variable name, got %v", p.cur.Kind)
		return nil
	}
	targets := []string{p.cur.Literal}
	for p.peekIs(token.COMMA) {
		p.advance()
		if !p.expectPeek(token.IDENTIFIER) {
			break
		}
		targets = append(targets, p.cur.Literal)
	}
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.advance()
	iterable := p.parseExpression(LOWEST)
	if !p.expectPeek(token.COLON) {
		return nil
	}

	p.syms.EnterScope("for")
	for _, t := range targets {
		p.syms.Define(t, nil, symtable.LOOP_VARIABLE, line)
	}
	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	p.syms.ExitScope()

	return &ast.EachLoop{Base: ast.Base{Ln: line}, Targets: targets, Iterable: iterable, Body: body}
}

// parseFunctionDef pushes a new scope for parameters and body. The
// function's own name is declared in the *enclosing* scope — usually
// already done by hoistFunctionDecls, hence defineFunctionSymbol's
// idempotence — so sibling functions and recursive self-reference both
// resolve at parse time (actual recursion is rejected at call time,
// §4.5).
func (p *Parser) parseFunctionDef() ast.Statement {
	line := p.cur.Pos.Line
	if !p.expectPeek(token.IDENTIFIER) {
		return nil
	}
	name := p.cur.Literal
	p.defineFunctionSymbol(name, line)

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	var params []ast.Param
	if !p.peekIs(token.RPAREN) {
		p.advance()
		for {
			if !p.curIs(token.IDENTIFIER) {
				p.addError(p.cur.Pos, ErrUnexpectedToken, "expected parameter name, got %v", p.cur.Kind)
				break
			}
			params = append(params, ast.Param{Name: p.cur.Literal})
			if p.peekIs(token.COMMA) {
				p.advance()
				p.advance()
				continue
			}
			break
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}

	p.syms.EnterScope("function:" + name)
	for _, param := range params {
		p.syms.Define(param.Name, nil, symtable.PARAMETER, line)
	}
	p.funcDepth++
	savedLoopDepth := p.loopDepth
	p.loopDepth = 0 // break/continue never cross a function boundary
	body := p.parseBlock()
	p.loopDepth = savedLoopDepth
	p.funcDepth--
	p.syms.ExitScope()

	return &ast.FunctionDefNode{Base: ast.Base{Ln: line}, Name: name, Params: params, Body: body}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	line := p.cur.Pos.Line
	var value ast.Expression
	if !p.atStatementEnd(p.peek.Kind) {
		p.advance()
		value = p.parseExpression(LOWEST)
	}
	p.advance()
	return &ast.ReturnNode{Base: ast.Base{Ln: line}, Value: value}
}

func (p *Parser) parseBreakStatement() ast.Statement {
	line := p.cur.Pos.Line
	if p.loopDepth == 0 {
		p.addError(p.cur.Pos, ErrUnexpectedToken, "'break' outside of a loop")
	}
	p.advance()
	return &ast.BreakStatement{Base: ast.Base{Ln: line}}
}

func (p *Parser) parseContinueStatement() ast.Statement {
	line := p.cur.Pos.Line
	if p.loopDepth == 0 {
		p.addError(p.cur.Pos, ErrUnexpectedToken, "'continue' outside of a loop")
	}
	p.advance()
	return &ast.ContinueStatement{Base: ast.Base{Ln: line}}
}

// parseExitStatement is `exit (code)? (',' message)?` (§4.6, §6.5).
func (p *Parser) parseExitStatement() ast.Statement {
	line := p.cur.Pos.Line
	var code, msg ast.Expression
	if !p.atStatementEnd(p.peek.Kind) && !p.peekIs(token.COMMA) {
		p.advance()
		code = p.parseExpression(LOWEST)
	}
	if p.peekIs(token.COMMA) {
		p.advance()
		p.advance()
		msg = p.parseExpression(LOWEST)
	}
	p.advance()
	return &ast.ExitStatement{Base: ast.Base{Ln: line}, Code: code, Message: msg}
}

func logLevelFromToken(k token.Kind) (ast.LogLevel, bool) {
	switch k {
	case token.LEVEL_DEBUG:
		return ast.LogDebug, true
	case token.LEVEL_INFO:
		return ast.LogInfo, true
	case token.LEVEL_SUCCESS:
		return ast.LogSuccess, true
	case token.LEVEL_WARNING:
		return ast.LogWarning, true
	case token.LEVEL_ERROR:
		return ast.LogError, true
	default:
		return 0, false
	}
}

// parseLogStatement is `log level? (STRING|FSTRING|expression)`; the
// level defaults to info when omitted.
func (p *Parser) parseLogStatement() ast.Statement {
	line := p.cur.Pos.Line
	level := ast.LogInfo
	if lvl, ok := logLevelFromToken(p.peek.Kind); ok {
		p.advance()
		level = lvl
	}
	p.advance()
	value := p.parseExpression(LOWEST)
	p.advance()
	return &ast.LogStatement{Base: ast.Base{Ln: line}, Level: level, Value: value}
}

// parseAssertStatement is `assert expression (',' message)?`; a failing
// assertion raises an ActionError carrying message's evaluated string
// (§7).
func (p *Parser) parseAssertStatement() ast.Statement {
	line := p.cur.Pos.Line
	p.advance()
	cond := p.parseExpression(LOWEST)
	var msg ast.Expression
	if p.peekIs(token.COMMA) {
		p.advance()
		p.advance()
		msg = p.parseExpression(LOWEST)
	}
	p.advance()
	return &ast.AssertStatement{Base: ast.Base{Ln: line}, Condition: cond, Message: msg}
}

func (p *Parser) parseLibraryDeclaration() ast.Statement {
	line := p.cur.Pos.Line
	if !p.expectPeek(token.IDENTIFIER) {
		return nil
	}
	name := p.cur.Literal
	p.advance()
	return &ast.LibraryDeclaration{Base: ast.Base{Ln: line}, Name: name}
}

// parseExportStatement wraps either a const or a function declaration;
// both sub-parsers already leave cur correctly positioned, so there is
// nothing left for this function to advance past.
func (p *Parser) parseExportStatement() ast.Statement {
	line := p.cur.Pos.Line
	p.advance()
	switch p.cur.Kind {
	case token.CONST:
		stmt := p.parseConstStatement()
		c, ok := stmt.(*ast.ConstStatement)
		if !ok {
			return nil
		}
		return &ast.ExportStatement{Base: ast.Base{Ln: line}, Const: c}
	case token.FUNCTION:
		stmt := p.parseFunctionDef()
		f, ok := stmt.(*ast.FunctionDefNode)
		if !ok {
			return nil
		}
		return &ast.ExportStatement{Base: ast.Base{Ln: line}, Func: f}
	default:
		p.addError(p.cur.Pos, ErrUnexpectedToken, "'export' must be followed by 'const' or 'function', got %v", p.cur.Kind)
		return nil
	}
}

// parseImportStatement covers both shapes of §4.7:
//
//	import ALIAS from "path"
//	from "path" import a, b, c
func (p *Parser) parseImportStatement() ast.Statement {
	line := p.cur.Pos.Line
	if p.curIs(token.IMPORT) {
		if !p.expectPeek(token.IDENTIFIER) {
			return nil
		}
		alias := p.cur.Literal
		if !p.expectPeek(token.FROM) {
			return nil
		}
		if !p.expectPeek(token.STRING) {
			return nil
		}
		path := p.cur.Literal
		p.defineSymbol(alias, symtable.MODULE, line, ErrImportClash)
		p.advance()
		return &ast.ImportStatement{Base: ast.Base{Ln: line}, Alias: alias, Path: path}
	}

	if !p.expectPeek(token.STRING) {
		return nil
	}
	path := p.cur.Literal
	if !p.expectPeek(token.IMPORT) {
		return nil
	}
	if !p.expectPeek(token.IDENTIFIER) {
		return nil
	}
	names := []string{p.cur.Literal}
	for p.peekIs(token.COMMA) {
		p.advance()
		if !p.expectPeek(token.IDENTIFIER) {
			break
		}
		names = append(names, p.cur.Literal)
	}
	for _, name := range names {
		p.defineSymbol(name, symtable.IMPORTED, line, ErrImportClash)
	}
	p.advance()
	return &ast.ImportStatement{Base: ast.Base{Ln: line}, Names: names, Path: path}
}

func diagLevelFromToken(k token.Kind) ast.DiagnosisLevel {
	switch k {
	case token.DIAG_NONE:
		return ast.DiagnosisNone
	case token.DIAG_MINIMAL:
		return ast.DiagnosisMinimal
	case token.DIAG_BASIC:
		return ast.DiagnosisBasic
	case token.DIAG_STANDARD:
		return ast.DiagnosisStandard
	case token.DIAG_DETAILED:
		return ast.DiagnosisDetailed
	case token.DIAG_FULL:
		return ast.DiagnosisFull
	default:
		return ast.DiagnosisUnset
	}
}

// parseStepBlock is `step NAME ('with' 'diagnosis' LEVEL)? ('if' cond)?
// ':' block` (§3.2, §6.3). It pushes a new scope, like a function body.
func (p *Parser) parseStepBlock() ast.Statement {
	line := p.cur.Pos.Line
	p.advance()

	var name ast.Expression
	switch p.cur.Kind {
	case token.STRING:
		name = p.parseStringLiteral()
	case token.FSTRING:
		name = p.parseFStringLiteral()
	default:
		p.addError(p.cur.Pos, ErrUnexpectedToken, "expected step name string, got %v", p.cur.Kind)
	}

	diag := ast.DiagnosisUnset
	if p.peekIs(token.WITH) {
		p.advance() // cur = WITH, peek = DIAGNOSIS
		// The level keyword ("none", "detailed", ...) is only lexed as
		// DIAG_* under this context; it must be set before the lexer
		// produces that token, i.e. before expectPeek below advances
		// past DIAGNOSIS and pulls the level token in as the new peek.
		p.l.SetDiagnosisLevelContext(true)
		if !p.expectPeek(token.DIAGNOSIS) {
			p.l.SetDiagnosisLevelContext(false)
			return nil
		}
		p.advance() // cur = diagnosis level token
		diag = diagLevelFromToken(p.cur.Kind)
		p.l.SetDiagnosisLevelContext(false)
	}

	var cond ast.Expression
	if p.peekIs(token.IF) {
		p.advance() // cur = IF
		p.advance() // cur = first cond token
		cond = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}

	p.syms.EnterScope("step")
	body := p.parseBlock()
	p.syms.ExitScope()

	return &ast.StepBlock{Base: ast.Base{Ln: line}, Name: name, Diagnosis: diag, Condition: cond, Body: body}
}

// actionKindForVerb maps the statement-opening action keyword to its
// ActionKind. `wait` defaults to ActionWaitDuration and is corrected to
// ActionWaitForElement by parseActionStatement once a `for` operand is
// seen.
func actionKindForVerb(k token.Kind) (ast.ActionKind, bool) {
	switch k {
	case token.NAVIGATE, token.GO, token.BACK, token.FORWARD, token.RELOAD:
		return ast.ActionNavigate, true
	case token.WAIT:
		return ast.ActionWaitDuration, true
	case token.SELECT:
		return ast.ActionSelect, true
	case token.TYPE:
		return ast.ActionType, true
	case token.CLICK:
		return ast.ActionClick, true
	case token.HOVER:
		return ast.ActionHover, true
	case token.CLEAR:
		return ast.ActionClear, true
	case token.PRESS:
		return ast.ActionPress, true
	case token.SCROLL:
		return ast.ActionScroll, true
	case token.CHECK:
		return ast.ActionCheck, true
	case token.UNCHECK:
		return ast.ActionUncheck, true
	case token.UPLOAD:
		return ast.ActionUpload, true
	case token.EXTRACT:
		return ast.ActionExtract, true
	case token.SCREENSHOT:
		return ast.ActionScreenshot, true
	default:
		return 0, false
	}
}

// bareModifierKeyword is the set of action-grammar keywords that stand
// on their own as a flag operand (`go back`, `scroll top`, `wait for
// navigation`) rather than introducing a following expression.
func bareModifierKeyword(k token.Kind) bool {
	switch k {
	case token.TOP, token.BOTTOM, token.ELEMENT, token.NAVIGATION, token.NETWORKIDLE,
		token.DOMCONTENTLOADED, token.LOAD, token.ATTACHED, token.DETACHED, token.VISIBLE,
		token.HIDDEN, token.BACK, token.FORWARD, token.FULLPAGE:
		return true
	default:
		return false
	}
}

// exprModifierKeyword is the set of action-grammar keywords that
// introduce a following operand expression (`from "sel"`, `into "out"`,
// `attr "href"`).
func exprModifierKeyword(k token.Kind) bool {
	switch k {
	case token.FOR, token.FROM, token.INTO, token.OVER, token.AS, token.WITH, token.UNTIL,
		token.ATTR, token.PATTERN, token.FILE, token.OPTION, token.WHERE:
		return true
	default:
		return false
	}
}

// parseActionStatement parses every host-facing action verb (§6.3) into
// one ActionStatement shape. The core doesn't know or care what
// `navigate`/`click`/`extract` actually do — it only needs to capture
// the already-parsed operand expressions for perform_action (§6.4) — so
// a single generic operand scanner serves all of them: a positional
// Target, an optional positional Value, named operands introduced by a
// keyword like `from`/`into`/`attr`, and bare flag keywords like `top`
// or `fullpage`.
func (p *Parser) parseActionStatement() ast.Statement {
	line := p.cur.Pos.Line
	kind, ok := actionKindForVerb(p.cur.Kind)
	if !ok {
		p.addError(p.cur.Pos, ErrUnexpectedToken, "unknown action verb %v", p.cur.Kind)
		p.advance()
		return nil
	}
	stmt := &ast.ActionStatement{Base: ast.Base{Ln: line}, Kind: kind, Operands: map[string]ast.Expression{}}

	for !p.atStatementEnd(p.peek.Kind) {
		p.advance()
		switch {
		case bareModifierKeyword(p.cur.Kind):
			name := p.cur.Literal
			stmt.Operands[name] = &ast.Literal{Base: ast.Base{Ln: p.cur.Pos.Line}, Kind: ast.BoolLit, Raw: name, Value: true}
		case exprModifierKeyword(p.cur.Kind):
			name := p.cur.Literal
			if p.atStatementEnd(p.peek.Kind) {
				continue
			}
			if bareModifierKeyword(p.peek.Kind) {
				// e.g. `wait for element`, `wait for navigation`: the
				// operand is a bare target keyword, not an expression.
				p.advance()
				stmt.Operands[name] = &ast.Literal{Base: ast.Base{Ln: p.cur.Pos.Line}, Kind: ast.StringLit, Raw: p.cur.Literal, Value: p.cur.Literal}
				continue
			}
			p.advance()
			stmt.Operands[name] = p.parseExpression(LOWEST)
		default:
			switch {
			case stmt.Target == nil:
				stmt.Target = p.parseExpression(LOWEST)
			case stmt.Value == nil:
				stmt.Value = p.parseExpression(LOWEST)
			default:
				stmt.Operands[fmt.Sprintf("operand%d", len(stmt.Operands))] = p.parseExpression(LOWEST)
			}
		}
	}

	if kind == ast.ActionWaitDuration {
		if _, hasFor := stmt.Operands["for"]; hasFor {
			stmt.Kind = ast.ActionWaitForElement
		}
	}

	p.advance()
	return stmt
}
