package value

import (
	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/symtable"
)

// Function is a reference to a declared function symbol, carrying the
// closure scope captured at the point the symbol was installed (§3.5,
// §9): the scope the evaluator resumes execution under regardless of
// where the call happens.
type Function struct {
	Decl    *ast.FunctionDefNode
	Closure *symtable.Scope
}

func (f *Function) Type() string   { return "FUNCTION" }
func (f *Function) String() string { return "<function " + f.Decl.Name + ">" }

// Lambda is the `params => expr` value kind (§3.3, §4.4): a parameter
// list, a single expression body, and the scope captured at the point
// the lambda literal was evaluated.
type Lambda struct {
	Decl    *ast.LambdaExpression
	Closure *symtable.Scope
}

func (l *Lambda) Type() string   { return "LAMBDA" }
func (l *Lambda) String() string { return "<lambda>" }

// Module wraps a loaded library's exports map (§3.6). Member access on
// a Module value (`alias.name`) looks up Exports; a missing export is
// reported as an eval.EvalError naming the module, not as a ModuleError.
type Module struct {
	Path    string
	Name    string
	Exports map[string]Value
}

func (m *Module) Type() string   { return "MODULE" }
func (m *Module) String() string { return "<module " + m.Name + ">" }

// HostObject is an opaque handle produced by the host (§3.3) — an HTTP
// response, a page handle, etc. The core never inspects Payload; it
// only ever passes it back to the host or stringifies it via Display.
type HostObject struct {
	Kind    string
	Payload interface{}
	Display string
}

func (h *HostObject) Type() string { return "HOST_OBJECT:" + h.Kind }
func (h *HostObject) String() string {
	if h.Display != "" {
		return h.Display
	}
	return "<" + h.Kind + ">"
}

// Resource is an OpenAPI-backed object (§3.3, §12.5 of SPEC_FULL.md)
// whose members are dynamically-named operations. Member access
// resolves an operationId to a BoundOperation value; calling it
// reaches back into the host's perform_action/call seam.
type Resource struct {
	SpecPath   string
	Operations map[string]Operation
}

func (r *Resource) Type() string   { return "RESOURCE" }
func (r *Resource) String() string { return "<resource " + r.SpecPath + ">" }

// Operation describes one OpenAPI operation resolved from a Resource's
// spec: the HTTP method/path template and the declared path-parameter
// order used to merge positional args with kwargs (§4.4's method-call
// rule for resource objects).
type Operation struct {
	ID         string
	Method     string
	PathTmpl   string
	PathParams []string
}

func (o Operation) Type() string   { return "" }
func (o Operation) String() string { return o.ID }

// BoundOperation is what member access on a Resource evaluates to
// (§4.4: "resolves to a bound operation which, when subsequently
// called, performs the host HTTP action").
type BoundOperation struct {
	Resource *Resource
	Op       Operation
}

func (b *BoundOperation) Type() string   { return "BOUND_OPERATION" }
func (b *BoundOperation) String() string { return "<operation " + b.Op.ID + ">" }
