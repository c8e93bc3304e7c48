package host

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/flowby/flowby/internal/value"
)

// specDoc is the minimal OpenAPI shape §12.5 needs: paths, each with
// methods, each carrying an operationId. Anything else in the document
// is ignored, matching the teacher's habit of decoding only the
// fields a consumer actually uses rather than the whole schema.
type specDoc struct {
	Paths map[string]map[string]struct {
		OperationID string `json:"operationId" yaml:"operationId"`
	} `json:"paths" yaml:"paths"`
}

// LoadResourceSpec parses an OpenAPI-like document at specPath (YAML or
// JSON, chosen by extension) and returns the resource-object value
// whose member names are the spec's operationIds (§6.4's open_spec,
// §12.5).
func LoadResourceSpec(specPath string) (value.Value, error) {
	raw, err := os.ReadFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("open_spec: %w", err)
	}

	var doc specDoc
	if strings.HasSuffix(specPath, ".json") {
		err = json.Unmarshal(raw, &doc)
	} else {
		err = yaml.Unmarshal(raw, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("open_spec: parsing %s: %w", specPath, err)
	}

	ops := make(map[string]value.Operation)
	for pathTmpl, methods := range doc.Paths {
		for method, op := range methods {
			if op.OperationID == "" {
				continue
			}
			ops[op.OperationID] = value.Operation{
				ID:         op.OperationID,
				Method:     strings.ToUpper(method),
				PathTmpl:   pathTmpl,
				PathParams: pathParamsOf(pathTmpl),
			}
		}
	}

	return &value.Resource{SpecPath: specPath, Operations: ops}, nil
}

// pathParamsOf extracts `{name}` placeholders from an OpenAPI path
// template, in left-to-right order, for merging positional call
// arguments with kwargs (§4.4's resource-call rule).
func pathParamsOf(pathTmpl string) []string {
	var params []string
	for {
		start := strings.IndexByte(pathTmpl, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(pathTmpl[start:], '}')
		if end < 0 {
			break
		}
		params = append(params, pathTmpl[start+1:start+end])
		pathTmpl = pathTmpl[start+end+1:]
	}
	return params
}
