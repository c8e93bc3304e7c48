package parser

import (
	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/lexer"
	"github.com/flowby/flowby/internal/token"
)

// parseFStringLiteral implements the "F-string expansion" step of §4.2:
// the current FSTRING token's lexeme is split into plain-text fragments
// and balanced `{…}` slices; each slice is handed to a fresh
// lexer+parser pair that shares this parser's live symbol-table stack,
// so VR-001 sees whatever names are already in scope at this point in
// the outer program.
func (p *Parser) parseFStringLiteral() ast.Expression {
	line := p.cur.Pos.Line
	raw := p.cur.Literal
	parts := p.splitInterpolation(raw, line)
	return &ast.StringInterpolation{Base: ast.Base{Ln: line}, Parts: parts}
}

func (p *Parser) splitInterpolation(raw string, line int) []ast.InterpPart {
	var parts []ast.InterpPart
	runes := []rune(raw)
	var text []rune

	flushText := func() {
		if len(text) > 0 {
			parts = append(parts, ast.InterpPart{Text: string(text)})
			text = nil
		}
	}

	i := 0
	for i < len(runes) {
		if runes[i] != '{' {
			text = append(text, runes[i])
			i++
			continue
		}
		depth := 1
		j := i + 1
		for j < len(runes) && depth > 0 {
			switch runes[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				break
			}
			j++
		}
		if depth != 0 {
			p.addError(token.Position{Line: line}, ErrUnexpectedToken, "unterminated interpolation expression in f-string")
			text = append(text, runes[i:]...)
			break
		}
		flushText()
		slice := string(runes[i+1 : j])
		if slice == "" {
			parts = append(parts, ast.InterpPart{Text: ""})
		} else {
			parts = append(parts, ast.InterpPart{Expr: p.parseInterpolationSlice(slice, line)})
		}
		i = j + 1
	}
	flushText()
	return parts
}

func (p *Parser) parseInterpolationSlice(slice string, line int) ast.Expression {
	sub := newWithSharedScope(lexer.New(slice), p.syms)
	expr := sub.parseExpression(LOWEST)
	for _, e := range sub.Errors() {
		e.Pos.Line = line
		p.errors = append(p.errors, e)
	}
	p.warnings = append(p.warnings, sub.Warnings()...)
	return expr
}
