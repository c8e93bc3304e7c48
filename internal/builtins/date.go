package builtins

import (
	"fmt"
	"strings"
	"time"

	"github.com/flowby/flowby/internal/value"
)

func dateDispatch(method string, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	switch method {
	case "now":
		return &value.String{Value: time.Now().UTC().Format(time.RFC3339)}, nil
	case "parse":
		s, err := stringArg(args, kwargs, 0, "text")
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("Date.parse: %w", err)
		}
		return &value.String{Value: t.UTC().Format(time.RFC3339)}, nil
	case "addSeconds":
		s, err := stringArg(args, kwargs, 0, "text")
		if err != nil {
			return nil, err
		}
		secs, err := floatArg(args, kwargs, 1, "seconds")
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("Date.addSeconds: %w", err)
		}
		return &value.String{Value: t.Add(time.Duration(secs * float64(time.Second))).UTC().Format(time.RFC3339)}, nil
	case "format":
		s, err := stringArg(args, kwargs, 0, "text")
		if err != nil {
			return nil, err
		}
		layout, err := stringArg(args, kwargs, 1, "layout")
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("Date.format: %w", err)
		}
		return &value.String{Value: t.Format(goLayout(layout))}, nil
	default:
		return nil, fmt.Errorf("Date has no method %q", method)
	}
}

// goLayout maps a handful of common strftime-ish tokens (YYYY, MM, DD,
// hh, mm, ss) to Go's reference-time layout without pulling in a
// strftime library.
func goLayout(layout string) string {
	replacer := map[string]string{
		"YYYY": "2006",
		"MM":   "01",
		"DD":   "02",
		"hh":   "15",
		"mm":   "04",
		"ss":   "05",
	}
	out := layout
	for token, repl := range replacer {
		out = strings.ReplaceAll(out, token, repl)
	}
	return out
}
