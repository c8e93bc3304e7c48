package ast

// ActionKind enumerates the host-facing statement verbs of §6.3. Their
// semantics live entirely behind the host interface (§6.4); the core
// only needs to parse operands and hand them to perform_action.
type ActionKind int

const (
	ActionNavigate ActionKind = iota
	ActionWaitDuration
	ActionWaitForElement
	ActionSelect
	ActionType
	ActionClick
	ActionHover
	ActionClear
	ActionPress
	ActionScroll
	ActionCheck
	ActionUncheck
	ActionUpload
	ActionExtract
	ActionScreenshot
	ActionResourceCall
)

// ActionStatement is the single AST shape for every host-dispatched
// action verb (Navigate, WaitDuration, WaitForElement, Select, Type,
// Click, Hover, Clear, Press, Scroll, Check, Uncheck, Upload, Extract,
// Screenshot, resource-style statements — §3.2).
//
// The host interface's perform_action(kind, operands) (§6.4) takes a
// kind tag plus a flat operand bag; one Go struct with that same shape,
// rather than fifteen near-identical structs that only exist to be
// switched on by kind, is the generalization the parser's action-verb
// grammar production and the host call both already assume.
type ActionStatement struct {
	Base
	Kind     ActionKind
	Target   Expression            // primary operand: selector, URL, prompt, etc. (nil if none)
	Value    Expression            // secondary operand: value typed, option selected, etc. (nil if none)
	Operands map[string]Expression // named operands, e.g. "timeout", "attr", "pattern", "as", "fullpage"
}

func (a *ActionStatement) statementNode() {}
func (a *ActionStatement) String() string { return "<action " + a.Kind.String() + ">" }

var actionKindNames = [...]string{
	"navigate", "wait", "wait_for_element", "select", "type", "click",
	"hover", "clear", "press", "scroll", "check", "uncheck", "upload",
	"extract", "screenshot", "resource_call",
}

func (k ActionKind) String() string {
	if int(k) < 0 || int(k) >= len(actionKindNames) {
		return "unknown"
	}
	return actionKindNames[k]
}
