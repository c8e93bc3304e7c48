package parser

import (
	"strings"

	"github.com/flowby/flowby/internal/symtable"
	"github.com/flowby/flowby/internal/token"
)

// checkUseBeforeDeclare is VR-001: every identifier read must resolve
// in the current scope or an ancestor. A successful lookup also marks
// the symbol used, feeding VR-006.
func (p *Parser) checkUseBeforeDeclare(name string, pos token.Position) {
	if _, err := p.syms.Get(name); err != nil {
		p.addError(pos, ErrUseBeforeDeclare, "%q is not defined in this scope", name)
	}
}

// checkAssignTarget is VR-002 and VR-004: rejects assignment to a
// CONSTANT, FUNCTION, MODULE, IMPORTED, or SYSTEM-kind name.
func (p *Parser) checkAssignTarget(name string, pos token.Position) {
	sym, ok := p.syms.GetSymbol(name)
	if !ok {
		p.addError(pos, ErrUseBeforeDeclare, "%q is not defined in this scope", name)
		return
	}
	if sym.Kind == symtable.SYSTEM {
		p.addError(pos, ErrAssignToSystem, "cannot assign to system variable %q", name)
		return
	}
	if !sym.Kind.Mutable() {
		p.addError(pos, ErrAssignToConst, "cannot assign to %s %q (declared at line %d)", sym.Kind, name, sym.DefiningLine)
	}
}

// defineSymbol is VR-003 (and, with code set to ErrImportClash, VR-005):
// bind name in the current scope, reporting a redeclaration error under
// the given code if it already exists there. Shadowing a name bound in
// an ancestor scope is never an error.
func (p *Parser) defineSymbol(name string, kind symtable.Kind, line int, code string) {
	if err := p.syms.Define(name, nil, kind, line); err != nil {
		if re, ok := err.(*symtable.RedeclaredError); ok {
			p.addError(token.Position{Line: line}, code, "%q is already declared in this scope (line %d)", name, re.DefiningLine)
		}
	}
}

// defineFunctionSymbol installs name as a FUNCTION symbol in the current
// scope at its declaration site, unless hoistFunctionDecls already did
// so — in which case re-running Define would misreport the hoist as a
// duplicate declaration.
func (p *Parser) defineFunctionSymbol(name string, line int) {
	if p.syms.ExistsInCurrentScope(name) {
		return
	}
	p.syms.Define(name, nil, symtable.FUNCTION, line)
}

// runUnusedVariableCheck is VR-006, run once at the end of parsing over
// every symbol still visible from the (by then) global scope.
func (p *Parser) runUnusedVariableCheck() {
	for name, sym := range p.syms.AllSymbols() {
		if sym.Used {
			continue
		}
		if sym.Kind == symtable.SYSTEM || sym.Kind == symtable.FUNCTION {
			continue
		}
		if strings.HasPrefix(name, "_") {
			continue
		}
		p.addWarning(token.Position{Line: sym.DefiningLine}, "VR-006", "%q is declared but never used", name)
	}
}
