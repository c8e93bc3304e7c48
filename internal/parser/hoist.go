package parser

import (
	"github.com/flowby/flowby/internal/symtable"
	"github.com/flowby/flowby/internal/token"
)

// hoistFunctionDecls pre-declares every `function NAME` found directly
// inside the block about to be parsed (not nested any deeper) as a
// FUNCTION symbol in the current scope, before any of the block's own
// statements are parsed. This is what lets a function call a sibling
// function declared later in the same scope — §4.2 allows forward
// reference to functions, unlike every other declaration kind. A
// preceding `export` keyword doesn't need special handling: the
// FUNCTION token itself is still visited by this same scan.
//
// It scans ahead with a cloned lexer so the real cursor is untouched,
// but keeps any VR-003 errors genuine duplicate names raise: those are
// real errors regardless of which pass notices them first.
func (p *Parser) hoistFunctionDecls() {
	savedLex := p.l.Clone()
	savedCur := p.cur
	savedPeek := p.peek

	depth := 0
	for !p.curIs(token.EOF) {
		if depth == 0 && p.curIs(token.DEDENT) {
			break
		}
		switch p.cur.Kind {
		case token.INDENT:
			depth++
		case token.DEDENT:
			depth--
		case token.FUNCTION:
			if depth == 0 && p.peekIs(token.IDENTIFIER) {
				p.defineSymbol(p.peek.Literal, symtable.FUNCTION, p.cur.Pos.Line, ErrRedeclared)
			}
		}
		p.advance()
	}

	p.l = savedLex
	p.cur = savedCur
	p.peek = savedPeek
}
