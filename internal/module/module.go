// Package module implements Flowby's library loader (§4.7, §12.3):
// path resolution relative to the importing file, cycle detection,
// per-file parsing with a fresh lexer/parser/symtable (the parser does
// no cross-module resolution of its own), `library NAME` stem
// validation, and export collection. It is grounded on the shape of
// the teacher's deleted internal/units package (see DESIGN.md), which
// loaded DWScript units off disk by name with the same
// cache/import-stack/stem-check structure, generalized here to
// Flowby's `.flow` files and named exports.
package module

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/lexer"
	"github.com/flowby/flowby/internal/parser"
	"github.com/flowby/flowby/internal/symtable"
	"github.com/flowby/flowby/internal/value"
)

// Runner is what the loader needs back from the interpreter to execute
// a library's top-level statements: directory-stack plumbing so the
// library's own nested imports resolve against its directory rather
// than the importing script's, and a way to run a parsed program
// against whatever scope the loader has already made current.
type Runner interface {
	PushDir(dir string)
	PopDir()
	RunTopLevel(prog *ast.Program) error
}

// Module is a loaded library: its resolved path, declared name, and
// the values its `export` statements made public.
type Module struct {
	Path    string
	Name    string
	Exports map[string]value.Value
}

// Error is a module-loading failure: a bad path, a missing file, a
// circular import, a parse error in the library, or a stem mismatch.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("import %q: %s", e.Path, e.Message) }

// ReadFile abstracts the loader's filesystem access so tests can
// substitute an in-memory source set without touching disk.
type ReadFile func(path string) ([]byte, error)

// Loader resolves and executes `.flow` library files, caching each
// distinct resolved path so a library imported from two places is
// parsed and run only once (§4.7).
type Loader struct {
	runner   Runner
	syms     *symtable.Stack
	readFile ReadFile

	cache      map[string]*Module
	importPath []string
}

// NewLoader builds a Loader that executes libraries through runner,
// sharing syms with the interpreter so export collection can read the
// library scope's bindings directly after it runs.
func NewLoader(runner Runner, syms *symtable.Stack) *Loader {
	return &Loader{
		runner:   runner,
		syms:     syms,
		readFile: defaultReadFile,
		cache:    make(map[string]*Module),
	}
}

// Load resolves rawPath relative to fromDir, then parses and executes
// it as a library if it has not already been loaded or is not already
// in progress on the current import chain.
func (l *Loader) Load(rawPath, fromDir string) (*Module, error) {
	resolved, err := resolvePath(rawPath, fromDir)
	if err != nil {
		return nil, &Error{Path: rawPath, Message: err.Error()}
	}

	if m, ok := l.cache[resolved]; ok {
		return m, nil
	}
	for _, onChain := range l.importPath {
		if onChain == resolved {
			chain := append(append([]string{}, l.importPath...), resolved)
			return nil, &Error{Path: resolved, Message: "circular import: " + strings.Join(chain, " -> ")}
		}
	}

	src, err := l.readFile(resolved)
	if err != nil {
		return nil, &Error{Path: resolved, Message: err.Error()}
	}

	l.importPath = append(l.importPath, resolved)
	defer func() { l.importPath = l.importPath[:len(l.importPath)-1] }()

	prog, err := parseLibrarySource(string(src))
	if err != nil {
		return nil, &Error{Path: resolved, Message: err.Error()}
	}

	lib, err := validateLibraryDeclaration(prog, resolved)
	if err != nil {
		return nil, err
	}

	prevTop := l.syms.Top()
	l.syms.EnterScopeWithParent("library:"+lib.Name, nil)
	l.runner.PushDir(filepath.Dir(resolved))
	runErr := l.runner.RunTopLevel(prog)
	l.runner.PopDir()
	if runErr != nil {
		l.syms.PushCapturedScope(prevTop)
		return nil, runErr
	}

	exports := collectExports(l.syms, prog.Statements)
	l.syms.PushCapturedScope(prevTop)

	mod := &Module{Path: resolved, Name: lib.Name, Exports: exports}
	l.cache[resolved] = mod
	return mod, nil
}

// parseLibrarySource gives the library its own fresh lexer, parser,
// and (inside parser.New) symtable, since cross-module resolution
// never happens at parse time (§4.2) — each file is parsed in
// complete isolation from whatever is importing it.
func parseLibrarySource(src string) (*ast.Program, error) {
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return prog, nil
}

// validateLibraryDeclaration enforces §3.6/§4.7's rule that a library
// file's first statement must be `library NAME`, with NAME equal to
// the file's own stem.
func validateLibraryDeclaration(prog *ast.Program, resolvedPath string) (*ast.LibraryDeclaration, *Error) {
	if len(prog.Statements) == 0 {
		return nil, &Error{Path: resolvedPath, Message: "library file is empty"}
	}
	lib, ok := prog.Statements[0].(*ast.LibraryDeclaration)
	if !ok {
		return nil, &Error{Path: resolvedPath, Message: "library file must begin with a `library NAME` declaration"}
	}
	stem := stemOf(resolvedPath)
	if lib.Name != stem {
		return nil, &Error{Path: resolvedPath, Message: fmt.Sprintf("library name %q does not match file name %q", lib.Name, stem)}
	}
	return lib, nil
}

// collectExports walks a library's top-level statements for
// `export`-marked consts and functions, reading their runtime values
// back out of the library's own scope (still the current top when
// this runs, since it has no parent, find() cannot see past it).
func collectExports(syms *symtable.Stack, stmts []ast.Statement) map[string]value.Value {
	exports := make(map[string]value.Value)
	for _, stmt := range stmts {
		ex, ok := stmt.(*ast.ExportStatement)
		if !ok {
			continue
		}
		name := ""
		if ex.Func != nil {
			name = ex.Func.Name
		} else if ex.Const != nil {
			name = ex.Const.Name
		}
		if name == "" {
			continue
		}
		if sym, ok := syms.GetSymbol(name); ok {
			if v, ok := sym.Value.(value.Value); ok {
				exports[name] = v
			}
		}
	}
	return exports
}

// resolvePath turns an import path into an absolute-to-the-loader
// filesystem path (§4.7): `\`-separated paths are normalized to `/`
// first (a supplemented behavior so Windows-authored scripts still
// import cleanly), a missing extension defaults to `.flow`, absolute
// import paths are rejected outright, and the result is resolved
// relative to fromDir and `..`/`.`-normalized.
func resolvePath(raw, fromDir string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("import path must not be empty")
	}
	clean := strings.ReplaceAll(raw, "\\", "/")
	if path.IsAbs(clean) {
		return "", fmt.Errorf("import path %q must be relative, not absolute", raw)
	}
	if path.Ext(clean) == "" {
		clean += ".flow"
	}
	if fromDir == "" {
		fromDir = "."
	}
	joined := path.Join(filepath.ToSlash(fromDir), clean)
	return filepath.FromSlash(path.Clean(joined)), nil
}

// stemOf returns a path's base file name without its extension.
func stemOf(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
