package parser

import "github.com/flowby/flowby/internal/token"

// Precedence levels, lowest to highest, matching the operator table of
// §4.2. Grounded on the teacher's named-constant precedence ladder
// (internal/parser/parser.go's LOWEST..MEMBER), reshaped to Flowby's
// own operator set.
const (
	LOWEST int = iota
	PREC_OR
	PREC_AND
	PREC_EQUALITY // == != < <= > >= contains matches equals
	PREC_SUM      // + -
	PREC_PRODUCT  // * / % //
	PREC_POWER    // ** (right-associative)
	PREC_PREFIX   // unary - + (`not` parses its operand at PREC_AND, see parseUnary)
	PREC_POSTFIX  // . [] ()
)

var precedences = map[token.Kind]int{
	token.OR:  PREC_OR,
	token.AND: PREC_AND,

	token.EQ: PREC_EQUALITY, token.NEQ: PREC_EQUALITY,
	token.LT: PREC_EQUALITY, token.LTE: PREC_EQUALITY,
	token.GT: PREC_EQUALITY, token.GTE: PREC_EQUALITY,
	token.CONTAINS: PREC_EQUALITY, token.MATCHES: PREC_EQUALITY, token.EQUALS: PREC_EQUALITY,

	token.PLUS: PREC_SUM, token.MINUS: PREC_SUM,

	token.STAR: PREC_PRODUCT, token.SLASH: PREC_PRODUCT,
	token.PERCENT: PREC_PRODUCT, token.SLASHSLASH: PREC_PRODUCT,

	token.STARSTAR: PREC_POWER,

	token.DOT: PREC_POSTFIX, token.LBRACKET: PREC_POSTFIX, token.LPAREN: PREC_POSTFIX,
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Kind]; ok {
		return pr
	}
	return LOWEST
}
