// Package parser implements Flowby's recursive-descent, Pratt-style
// expression parser. It builds the AST and, at the same time, drives a
// live symbol-table stack so that the VR-00x validation rules are
// parse-time errors rather than runtime surprises.
//
// The two-token lookahead (cur/peek) and prefix/infix parse-function
// table are grounded on the teacher's internal/parser Pratt design
// (precedences map, prefixParseFn/infixParseFn); Flowby drops the
// teacher's immutable TokenCursor in favor of the simpler mutable
// cur/peek pair since Flowby's grammar needs no speculative
// backtracking except for the lambda-parameter-list disambiguation,
// which is handled locally with a lexer/parser snapshot.
package parser

import (
	"fmt"

	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/lexer"
	"github.com/flowby/flowby/internal/symtable"
	"github.com/flowby/flowby/internal/token"
)

// reservedNames is the global, pre-bound namespace of §6.2: built-in
// namespace objects and system-variable roots. VR-001 treats these as
// already declared; VR-003/VR-004 reject user redeclaration of them.
var reservedNames = []string{
	"Math", "JSON", "Date", "UUID", "Hash", "Base64", "random",
	"http", "page", "env", "response",
}

// Parser turns a token stream into an *ast.Program, accumulating
// ParserErrors (collected as far as is cheap, not necessarily fatal
// immediately) and Warnings (VR-006).
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token

	syms *symtable.Stack

	errors   []*ParserError
	warnings []Warning

	loopDepth int
	funcDepth int
}

// New creates a Parser with a fresh global symbol-table stack seeded
// with the reserved names.
func New(l *lexer.Lexer) *Parser {
	syms := symtable.NewStack()
	for _, name := range reservedNames {
		syms.DefineGlobal(name, nil, symtable.SYSTEM)
	}
	return newParser(l, syms)
}

// newWithSharedScope builds a parser over a nested lexer (used for
// f-string sub-expression re-entry, §4.2) that shares the *caller's*
// live symbol-table stack, so names already in scope are visible to
// the interpolated expression.
func newWithSharedScope(l *lexer.Lexer, syms *symtable.Stack) *Parser {
	return newParser(l, syms)
}

func newParser(l *lexer.Lexer, syms *symtable.Stack) *Parser {
	p := &Parser{l: l, syms: syms}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

// expectPeek advances past peek if it matches k, else records a
// syntax error and leaves the cursor unmoved.
func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekIs(k) {
		p.advance()
		return true
	}
	p.addError(p.peek.Pos, ErrUnexpectedToken, "expected %v, got %v (%q)", k, p.peek.Kind, p.peek.Literal)
	return false
}

func (p *Parser) addError(pos token.Position, code, format string, args ...interface{}) {
	p.errors = append(p.errors, newError(pos, code, format, args...))
}

func (p *Parser) addWarning(pos token.Position, code, format string, args ...interface{}) {
	p.warnings = append(p.warnings, Warning{Message: fmt.Sprintf(format, args...), Code: code, Pos: pos})
}

// Errors returns every ParserError accumulated so far.
func (p *Parser) Errors() []*ParserError { return p.errors }

// Warnings returns every Warning accumulated so far (VR-006 is appended
// only once parsing finishes, since it requires the final symbol set).
func (p *Parser) Warnings() []Warning { return p.warnings }

// ParseProgram parses the whole token stream into an *ast.Program, then
// runs the VR-006 unused-variable pass over the final global scope.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipSeparators()
	p.hoistFunctionDecls()
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipSeparators()
	}
	p.runUnusedVariableCheck()
	return prog
}

func (p *Parser) skipSeparators() {
	for p.curIs(token.NEWLINE) {
		p.advance()
	}
}

// parseBlock parses `NEWLINE INDENT statement+ DEDENT`, expected to be
// called with cur on the COLON that introduces the block.
func (p *Parser) parseBlock() []ast.Statement {
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	p.advance()
	p.hoistFunctionDecls()

	var stmts []ast.Statement
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		if p.curIs(token.NEWLINE) {
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if p.curIs(token.DEDENT) {
		p.advance()
	} else {
		p.addError(p.cur.Pos, ErrUnexpectedToken, "expected end of block, got %v", p.cur.Kind)
	}
	return stmts
}

// parseStatement dispatches on the current token. Every parse*Statement
// function it calls is responsible for leaving cur positioned at the
// first token following the statement (NEWLINE, DEDENT, EOF, or — for
// block-bearing statements whose block parsing already consumed a
// trailing DEDENT — directly at the next statement's opening token).
func (p *Parser) parseStatement() ast.Statement {
	var stmt ast.Statement
	switch p.cur.Kind {
	case token.LET:
		stmt = p.parseLetStatement()
	case token.CONST:
		stmt = p.parseConstStatement()
	case token.IF:
		stmt = p.parseIfStatement()
	case token.WHEN:
		stmt = p.parseWhenStatement()
	case token.WHILE:
		stmt = p.parseWhileStatement()
	case token.FOR:
		stmt = p.parseForStatement()
	case token.FUNCTION:
		stmt = p.parseFunctionDef()
	case token.RETURN:
		stmt = p.parseReturnStatement()
	case token.BREAK:
		stmt = p.parseBreakStatement()
	case token.CONTINUE:
		stmt = p.parseContinueStatement()
	case token.EXIT:
		stmt = p.parseExitStatement()
	case token.LOG:
		stmt = p.parseLogStatement()
	case token.ASSERT:
		stmt = p.parseAssertStatement()
	case token.LIBRARY:
		stmt = p.parseLibraryDeclaration()
	case token.EXPORT:
		stmt = p.parseExportStatement()
	case token.IMPORT, token.FROM:
		stmt = p.parseImportStatement()
	case token.STEP:
		stmt = p.parseStepBlock()
	case token.NAVIGATE, token.GO, token.BACK, token.FORWARD, token.RELOAD,
		token.WAIT, token.SELECT, token.TYPE, token.CLICK, token.HOVER,
		token.CLEAR, token.PRESS, token.SCROLL, token.CHECK, token.UNCHECK,
		token.UPLOAD, token.EXTRACT, token.SCREENSHOT:
		stmt = p.parseActionStatement()
	default:
		stmt = p.parseExpressionOrAssignStatement()
	}
	return stmt
}
