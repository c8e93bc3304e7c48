package parser

import (
	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/lexer"
	"github.com/flowby/flowby/internal/symtable"
	"github.com/flowby/flowby/internal/token"
)

// parseExpression is the Pratt loop: parse a prefix production, then
// repeatedly fold in postfix/infix operators whose precedence exceeds
// the caller's minimum (§4.2's precedence table).
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for precedence < p.peekPrecedence() {
		switch p.peek.Kind {
		case token.DOT, token.LBRACKET, token.LPAREN:
			p.advance()
			left = p.parsePostfix(left)
		default:
			p.advance()
			left = p.parseBinaryOp(left)
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Kind {
	case token.INTEGER:
		return p.parseIntegerLiteral()
	case token.NUMBER:
		return p.parseNumberLiteral()
	case token.STRING:
		return p.parseStringLiteral()
	case token.FSTRING:
		return p.parseFStringLiteral()
	case token.TRUE, token.FALSE:
		return p.parseBoolLiteral()
	case token.NONE:
		return p.parseNullLiteral()
	case token.IDENTIFIER:
		return p.parseIdentifier()
	case token.MINUS, token.PLUS, token.NOT:
		return p.parseUnary()
	case token.LPAREN:
		return p.parseParenOrLambda()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	default:
		p.addError(p.cur.Pos, ErrUnexpectedToken, "unexpected token %v in expression", p.cur.Kind)
		return nil
	}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	return &ast.Literal{Base: ast.Base{Ln: p.cur.Pos.Line}, Kind: ast.IntegerLit, Raw: p.cur.Literal, Value: p.cur.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	return &ast.Literal{Base: ast.Base{Ln: p.cur.Pos.Line}, Kind: ast.FloatLit, Raw: p.cur.Literal, Value: p.cur.Literal}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.Literal{Base: ast.Base{Ln: p.cur.Pos.Line}, Kind: ast.StringLit, Raw: p.cur.Literal, Value: p.cur.Literal}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.Literal{Base: ast.Base{Ln: p.cur.Pos.Line}, Kind: ast.BoolLit, Raw: p.cur.Literal, Value: p.curIs(token.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.Literal{Base: ast.Base{Ln: p.cur.Pos.Line}, Kind: ast.NullLit, Raw: p.cur.Literal, Value: nil}
}

// parseIdentifier resolves a bare name against the live symbol table
// (VR-001), unless it is immediately followed by `=>`, in which case it
// is the sole parameter of a lambda (§4.4).
func (p *Parser) parseIdentifier() ast.Expression {
	name := p.cur.Literal
	line := p.cur.Pos.Line
	if p.peekIs(token.ARROW) {
		p.advance() // cur = ARROW
		p.advance() // cur = first body token
		p.syms.EnterScope("lambda")
		p.syms.Define(name, nil, symtable.PARAMETER, line)
		body := p.parseExpression(LOWEST)
		p.syms.ExitScope()
		return &ast.LambdaExpression{Base: ast.Base{Ln: line}, Params: []string{name}, Body: body}
	}
	p.checkUseBeforeDeclare(name, p.cur.Pos)
	return &ast.Identifier{Base: ast.Base{Ln: line}, Name: name}
}

func (p *Parser) parseUnary() ast.Expression {
	op := p.cur.Literal
	line := p.cur.Pos.Line
	// `not` sits below the comparison operators, so `not a == b` is
	// `not (a == b)`; its operand stops only at `and`/`or`.
	operandPrec := PREC_PREFIX
	if p.cur.Kind == token.NOT {
		operandPrec = PREC_AND
	}
	p.advance()
	operand := p.parseExpression(operandPrec)
	return &ast.UnaryOp{Base: ast.Base{Ln: line}, Operator: op, Operand: operand}
}

func (p *Parser) parseBinaryOp(left ast.Expression) ast.Expression {
	op := p.cur.Literal
	line := p.cur.Pos.Line
	precedence := p.curPrecedence()
	rightPrec := precedence
	if p.cur.Kind == token.STARSTAR {
		rightPrec-- // right-associative: allow an equal-precedence ** to nest on the right
	}
	p.advance()
	right := p.parseExpression(rightPrec)
	return &ast.BinaryOp{Base: ast.Base{Ln: line}, Operator: op, Left: left, Right: right}
}

// parsePostfix is entered with cur on the DOT/LBRACKET/LPAREN that
// starts the postfix operator (§4.2 level 9: member, index, call chain).
func (p *Parser) parsePostfix(left ast.Expression) ast.Expression {
	switch p.cur.Kind {
	case token.DOT:
		return p.parseMemberOrMethod(left)
	case token.LBRACKET:
		return p.parseIndex(left)
	case token.LPAREN:
		return p.parseCallOnIdentifier(left)
	default:
		return left
	}
}

func (p *Parser) parseMemberOrMethod(left ast.Expression) ast.Expression {
	if !p.expectPeek(token.IDENTIFIER) {
		return left
	}
	name := p.cur.Literal
	line := p.cur.Pos.Line
	if p.peekIs(token.LPAREN) {
		p.advance() // cur = LPAREN
		args, kwargs := p.parseCallArgs()
		return &ast.MethodCall{Base: ast.Base{Ln: line}, Object: left, Name: name, Args: args, Kwargs: kwargs}
	}
	return &ast.MemberAccess{Base: ast.Base{Ln: line}, Object: left, Name: name}
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	line := p.cur.Pos.Line
	p.advance() // move to first token of the index expression
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return left
	}
	return &ast.ArrayAccess{Base: ast.Base{Ln: line}, Object: left, Index: idx}
}

func (p *Parser) parseCallOnIdentifier(left ast.Expression) ast.Expression {
	line := p.cur.Pos.Line
	ident, ok := left.(*ast.Identifier)
	args, kwargs := p.parseCallArgs()
	if !ok {
		p.addError(token.Position{Line: line}, ErrUnexpectedToken, "expression is not callable")
		return left
	}
	if ident.Name == "input" {
		return p.buildInputExpression(line, args, kwargs)
	}
	return &ast.FunctionCall{Base: ast.Base{Ln: line}, Name: ident.Name, Args: args, Kwargs: kwargs}
}

// parseCallArgs parses `( arg (, arg)* )` with cur on the opening
// LPAREN, supporting trailing `name=value` keyword arguments.
func (p *Parser) parseCallArgs() ([]ast.Expression, []ast.KeywordArg) {
	var args []ast.Expression
	var kwargs []ast.KeywordArg
	if p.peekIs(token.RPAREN) {
		p.advance()
		return args, kwargs
	}
	p.advance()
	for {
		if p.curIs(token.IDENTIFIER) && p.peekIs(token.ASSIGN) {
			name := p.cur.Literal
			p.advance() // cur = ASSIGN
			p.advance() // cur = first token of value
			kwargs = append(kwargs, ast.KeywordArg{Name: name, Value: p.parseExpression(LOWEST)})
		} else {
			args = append(args, p.parseExpression(LOWEST))
		}
		if p.peekIs(token.COMMA) {
			p.advance()
			p.advance()
			continue
		}
		break
	}
	p.expectPeek(token.RPAREN)
	return args, kwargs
}

func (p *Parser) buildInputExpression(line int, args []ast.Expression, kwargs []ast.KeywordArg) ast.Expression {
	in := &ast.InputExpression{Base: ast.Base{Ln: line}, Type: ast.InputText}
	if len(args) > 0 {
		in.Prompt = args[0]
	}
	for _, kw := range kwargs {
		switch kw.Name {
		case "default":
			in.Default = kw.Value
		case "type":
			switch stringTag(kw.Value) {
			case "password":
				in.Type = ast.InputPassword
			case "integer":
				in.Type = ast.InputInteger
			case "float":
				in.Type = ast.InputFloat
			}
		}
	}
	return in
}

// stringTag extracts a plain string tag from either a string literal or
// a bare identifier, used for the unquoted-or-quoted `type=password`
// style keyword argument value.
func stringTag(e ast.Expression) string {
	switch v := e.(type) {
	case *ast.Literal:
		if v.Kind == ast.StringLit {
			if s, ok := v.Value.(string); ok {
				return s
			}
		}
	case *ast.Identifier:
		return v.Name
	}
	return ""
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	line := p.cur.Pos.Line
	var elems []ast.Expression
	if p.peekIs(token.RBRACKET) {
		p.advance()
		return &ast.ArrayLiteral{Base: ast.Base{Ln: line}, Elements: elems}
	}
	p.advance()
	for {
		elems = append(elems, p.parseExpression(LOWEST))
		if p.peekIs(token.COMMA) {
			p.advance()
			p.advance()
			continue
		}
		break
	}
	p.expectPeek(token.RBRACKET)
	return &ast.ArrayLiteral{Base: ast.Base{Ln: line}, Elements: elems}
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	line := p.cur.Pos.Line
	var entries []ast.ObjectEntry
	if p.peekIs(token.RBRACE) {
		p.advance()
		return &ast.ObjectLiteral{Base: ast.Base{Ln: line}, Entries: entries}
	}
	p.advance()
	for {
		var key string
		switch p.cur.Kind {
		case token.STRING:
			key = p.cur.Literal
		case token.IDENTIFIER:
			key = p.cur.Literal
		default:
			p.addError(p.cur.Pos, ErrUnexpectedToken, "expected object key, got %v", p.cur.Kind)
		}
		if !p.expectPeek(token.COLON) {
			break
		}
		p.advance()
		value := p.parseExpression(LOWEST)
		entries = append(entries, ast.ObjectEntry{Key: key, Value: value})
		if p.peekIs(token.COMMA) {
			p.advance()
			p.advance()
			continue
		}
		break
	}
	p.expectPeek(token.RBRACE)
	return &ast.ObjectLiteral{Base: ast.Base{Ln: line}, Entries: entries}
}

// parseParenOrLambda disambiguates `(expr)` grouping from a
// multi-parameter `(a, b) => expr` lambda by speculatively trying the
// lambda-parameter-list shape first and rewinding on failure (§4.4).
func (p *Parser) parseParenOrLambda() ast.Expression {
	if lam, ok := p.tryParseLambda(); ok {
		return lam
	}
	p.advance() // move past LPAREN into the grouped expression
	expr := p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	return expr
}

type parserSnapshot struct {
	lex    *lexer.Lexer
	cur    token.Token
	peek   token.Token
	errLen int
}

func (p *Parser) snapshot() parserSnapshot {
	return parserSnapshot{lex: p.l.Clone(), cur: p.cur, peek: p.peek, errLen: len(p.errors)}
}

func (p *Parser) restore(s parserSnapshot) {
	p.l = s.lex
	p.cur = s.cur
	p.peek = s.peek
	p.errors = p.errors[:s.errLen]
}

func (p *Parser) tryParseLambda() (*ast.LambdaExpression, bool) {
	snap := p.snapshot()
	line := p.cur.Pos.Line
	p.advance() // move past LPAREN

	var params []string
	if !p.curIs(token.RPAREN) {
		for {
			if !p.curIs(token.IDENTIFIER) {
				p.restore(snap)
				return nil, false
			}
			params = append(params, p.cur.Literal)
			if p.peekIs(token.COMMA) {
				p.advance()
				p.advance()
				continue
			}
			break
		}
		if !p.peekIs(token.RPAREN) {
			p.restore(snap)
			return nil, false
		}
		p.advance() // cur = RPAREN
	}
	if !p.peekIs(token.ARROW) {
		p.restore(snap)
		return nil, false
	}
	p.advance() // cur = ARROW
	p.advance() // cur = first token of body

	p.syms.EnterScope("lambda")
	for _, name := range params {
		p.syms.Define(name, nil, symtable.PARAMETER, line)
	}
	body := p.parseExpression(LOWEST)
	p.syms.ExitScope()
	return &ast.LambdaExpression{Base: ast.Base{Ln: line}, Params: params, Body: body}, true
}
