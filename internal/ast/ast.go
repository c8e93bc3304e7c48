// Package ast defines the Abstract Syntax Tree node types produced by the
// Flowby parser (§3.2). Every node carries the source line it came from;
// the interfaces below follow the teacher's Node/Expression/Statement
// split (internal/ast/ast.go) but trade its Token-based position and
// TokenLiteral() for a plain Line(), since Flowby's error model (§3.7)
// only ever needs a line/column pair, not the originating token.
package ast

// Node is the base interface implemented by every AST node.
type Node interface {
	Line() int
	String() string
}

// Expression is any node that produces a runtime value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself
// producing a value.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) Line() int {
	if len(p.Statements) > 0 {
		return p.Statements[0].Line()
	}
	return 0
}

func (p *Program) String() string {
	out := ""
	for _, s := range p.Statements {
		out += s.String() + "\n"
	}
	return out
}

// Base is embedded by every concrete node to carry its source line. The
// parser sets Ln directly when it builds a node (ast.Base{Ln: line}).
type Base struct {
	Ln int
}

func (b Base) Line() int { return b.Ln }
