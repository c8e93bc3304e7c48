// Package interp implements Flowby's statement interpreter (§4.5, §4.6):
// the piece that walks a parsed program, manages the call stack and the
// break/continue/return control-flow flags, and feeds expressions to
// internal/eval for evaluation. It satisfies eval.Adapter so the
// evaluator can call back into user functions and lambdas without
// either package importing the other's concrete type, the same
// adapter-injection split the teacher's internal/interp/evaluator
// package uses against its own outer Interpreter.
package interp

import (
	"fmt"

	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/builtins"
	"github.com/flowby/flowby/internal/errors"
	"github.com/flowby/flowby/internal/eval"
	"github.com/flowby/flowby/internal/host"
	"github.com/flowby/flowby/internal/module"
	"github.com/flowby/flowby/internal/symtable"
	"github.com/flowby/flowby/internal/value"
)

// MaxLoopIterations bounds while/for execution (§4.6's "default ~100k
// iterations"); exceeding it raises InfiniteLoopDetected rather than
// hanging the process.
const MaxLoopIterations = 100000

// Interpreter walks a parsed program against a live scope stack,
// evaluating expressions through Eval and dispatching host-facing
// effects through Host.
type Interpreter struct {
	Syms    *symtable.Stack
	Host    host.Host
	Eval    *eval.Evaluator
	Modules *module.Loader

	// CallStack holds the names of currently-executing user functions,
	// innermost last, for §4.5's recursion check.
	CallStack []string

	dirStack []string

	returnFlag   bool
	returnValue  value.Value
	breakFlag    bool
	continueFlag bool
}

// New builds an Interpreter wired to host h, resolving the entry
// script's imports relative to scriptDir (the directory of the file
// being run; "." for a snippet with no file of its own).
func New(h host.Host, scriptDir string) *Interpreter {
	if scriptDir == "" {
		scriptDir = "."
	}
	ip := &Interpreter{
		Syms:     symtable.NewStack(),
		Host:     h,
		dirStack: []string{scriptDir},
	}
	ip.Eval = eval.New(ip.Syms, h, ip)
	ip.Modules = module.NewLoader(ip, ip.Syms)
	ip.seedGlobals()
	return ip
}

// seedGlobals pre-binds the reserved system-variable roots and builtin
// namespaces (§4.3, §6.2) so scripts never see an undefined-name error
// for them, matching what the parser's own reservedNames list already
// assumes is present.
func (ip *Interpreter) seedGlobals() {
	for _, name := range []string{"page", "env", "response"} {
		ip.Syms.DefineGlobal(name, eval.NewSystemProxy(name), symtable.SYSTEM)
	}
	namespaces := append(append([]string{}, builtins.Namespaces...), "http")
	for _, name := range namespaces {
		ip.Syms.DefineGlobal(name, eval.NewNamespaceProxy(name), symtable.SYSTEM)
	}
}

// ExitError unwinds the whole program (§4.6, §6.5): an `exit` statement
// surfaces one of these past every loop, block, and function call on
// the stack, to be caught only by the top-level driver.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit(%d)", e.Code)
}

// RuntimeError is a statement-level execution error, carrying the kind
// (§7) and source line for the driver to lift into an errors.FlowbyError
// once it has the file path and source text in hand — the same division
// of labor DESIGN.md documents for internal/parser.ParserError.
type RuntimeError struct {
	Kind    errors.Kind
	Line    int
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func (ip *Interpreter) runtimeErr(line int, kind errors.Kind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// Run executes prog's top-level statements to completion. A normal
// `exit` statement surfaces as *ExitError, not as a process failure;
// the caller (cmd/flowby) distinguishes the two.
func (ip *Interpreter) Run(prog *ast.Program) error {
	return ip.ExecBlock(prog.Statements)
}

// CurrentDir is the directory `import`/`from ... import` statements
// resolve relative paths against: the directory of whichever file is
// currently executing, library or entry script (§4.7).
func (ip *Interpreter) CurrentDir() string {
	return ip.dirStack[len(ip.dirStack)-1]
}

// PushDir and PopDir implement module.Runner's directory-tracking half:
// the loader pushes a library's own directory before running its
// top-level statements, so nested imports inside that library resolve
// against the library's directory rather than the entry script's.
func (ip *Interpreter) PushDir(dir string) {
	ip.dirStack = append(ip.dirStack, dir)
}

func (ip *Interpreter) PopDir() {
	ip.dirStack = ip.dirStack[:len(ip.dirStack)-1]
}

// RunTopLevel implements module.Runner's other half: executing a
// loaded library's statements through this same interpreter, under
// whatever scope the loader has already made current.
func (ip *Interpreter) RunTopLevel(prog *ast.Program) error {
	return ip.ExecBlock(prog.Statements)
}
