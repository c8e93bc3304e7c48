package host

import (
	"github.com/flowby/flowby/internal/value"
)

// NullHost is the no-op host a pkg/flowby Engine starts with, also used
// by tests that run code without a real environment: every action is
// recorded but never performed, system variables resolve to null, and
// namespace calls return a stub value rather than erroring, so a
// script that never inspects the host's replies still runs to
// completion.
type NullHost struct {
	// Actions records every PerformAction call, in order, for tests to
	// assert against.
	Actions []RecordedAction
}

// RecordedAction is one PerformAction call NullHost did not actually
// perform.
type RecordedAction struct {
	Kind     ActionKind
	Operands map[string]value.Value
}

// NewNullHost returns a ready-to-use NullHost.
func NewNullHost() *NullHost {
	return &NullHost{}
}

func (h *NullHost) ResolveSystem(pathParts []string) (value.Value, error) {
	return value.NullValue, nil
}

func (h *NullHost) CallBuiltinNamespace(ns, method string, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	return value.NullValue, nil
}

func (h *NullHost) PerformAction(kind ActionKind, operands map[string]value.Value) error {
	h.Actions = append(h.Actions, RecordedAction{Kind: kind, Operands: operands})
	return nil
}

func (h *NullHost) ReadInput(prompt, mode string) (string, error) {
	return "", nil
}

func (h *NullHost) IsInteractive() bool {
	return false
}

func (h *NullHost) EnvLookup(name string) (string, bool) {
	return "", false
}

func (h *NullHost) OpenSpec(specPath string, context map[string]value.Value) (value.Value, error) {
	return LoadResourceSpec(specPath)
}

func (h *NullHost) Log(level string, line int, message string) {
	// NullHost is used where output is not observed; tests assert
	// against Actions instead of stdout.
}
