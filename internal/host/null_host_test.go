package host

import (
	"testing"

	"github.com/flowby/flowby/internal/value"
)

func TestNullHostResolveSystemReturnsNull(t *testing.T) {
	h := NewNullHost()
	v, err := h.ResolveSystem([]string{"page", "url"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.IsNull(v) {
		t.Fatalf("expected null, got %s", v.String())
	}
}

func TestNullHostRecordsActions(t *testing.T) {
	h := NewNullHost()
	operands := map[string]value.Value{"url": &value.String{Value: "https://example.com"}}
	if err := h.PerformAction(ActionNavigate, operands); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.Actions) != 1 {
		t.Fatalf("expected 1 recorded action, got %d", len(h.Actions))
	}
	if h.Actions[0].Kind != ActionNavigate {
		t.Fatalf("expected ActionNavigate, got %v", h.Actions[0].Kind)
	}
}

func TestNullHostNotInteractive(t *testing.T) {
	h := NewNullHost()
	if h.IsInteractive() {
		t.Fatal("NullHost must never report interactive")
	}
	if _, ok := h.EnvLookup("ANYTHING"); ok {
		t.Fatal("NullHost must never resolve an env var")
	}
}
