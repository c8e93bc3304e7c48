// Package host defines the narrow interpreter/host boundary (§6.4) and
// ships two implementations: NullHost, the pkg/flowby Engine's default
// and the host unit tests use, and CLIHost, the host of `flowby run`. Neither drives a
// real browser or HTTP client — that stays out of scope — but both
// implement the full seam so the interpreter never special-cases
// "no host available".
package host

import (
	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/value"
)

// ActionKind reuses the parser's own action-verb enum (ast.ActionKind)
// rather than redefining a parallel one: the interpreter hands the
// host exactly the Kind the parser already settled on, including its
// `wait`/`wait for` and `navigate`/`go back`/`go forward`/`reload`
// collapsing (see internal/ast/actions.go and DESIGN.md).
type ActionKind = ast.ActionKind

// Re-exported for callers that only import internal/host.
const (
	ActionNavigate       = ast.ActionNavigate
	ActionWaitDuration   = ast.ActionWaitDuration
	ActionWaitForElement = ast.ActionWaitForElement
	ActionSelect         = ast.ActionSelect
	ActionType           = ast.ActionType
	ActionClick          = ast.ActionClick
	ActionHover          = ast.ActionHover
	ActionClear          = ast.ActionClear
	ActionPress          = ast.ActionPress
	ActionScroll         = ast.ActionScroll
	ActionCheck          = ast.ActionCheck
	ActionUncheck        = ast.ActionUncheck
	ActionUpload         = ast.ActionUpload
	ActionExtract        = ast.ActionExtract
	ActionScreenshot     = ast.ActionScreenshot
	ActionResourceCall   = ast.ActionResourceCall
)

// Host is the entire surface the interpreter needs from its
// environment (§6.4). The core never imports a browser or HTTP
// library directly; every externally-observable effect goes through
// one of these eight calls.
type Host interface {
	// ResolveSystem routes a system-variable access like `page.url`
	// (path_parts == ["page", "url"]) to its current value.
	ResolveSystem(pathParts []string) (value.Value, error)

	// CallBuiltinNamespace dispatches Math.abs(...), http.get(...),
	// random.email(...), and similar reserved-namespace calls.
	CallBuiltinNamespace(ns, method string, args []value.Value, kwargs map[string]value.Value) (value.Value, error)

	// PerformAction executes an action statement. Operands arrive
	// already evaluated. A host-raised error surfaces to the caller
	// as an ActionError (§7).
	PerformAction(kind ActionKind, operands map[string]value.Value) error

	// ReadInput and IsInteractive back the `input(prompt, mode)`
	// builtin and its interactivity check.
	ReadInput(prompt, mode string) (string, error)
	IsInteractive() bool

	// EnvLookup backs the `env` system namespace; a missing key
	// returns ("", false) rather than an error.
	EnvLookup(name string) (string, bool)

	// OpenSpec loads an OpenAPI-like document and returns the
	// resource-object value whose methods are its operationIds
	// (§12.5).
	OpenSpec(specPath string, context map[string]value.Value) (value.Value, error)

	// Log backs the `log` statement (§3.2): level, the statement's
	// source line, and the already-stringified message.
	Log(level string, line int, message string)
}
