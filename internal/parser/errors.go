package parser

import (
	"fmt"

	"github.com/flowby/flowby/internal/token"
)

// ParserError is a single parse-time error: a syntax error or a VR-00x
// validation failure (§3.7, §4.2).
type ParserError struct {
	Message string
	Code    string
	Pos     token.Position
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

func newError(pos token.Position, code, format string, args ...interface{}) *ParserError {
	return &ParserError{Message: fmt.Sprintf(format, args...), Code: code, Pos: pos}
}

// Error codes. Syntax errors use ErrUnexpectedToken; everything else
// maps directly to the VR-00x rule that raised it (§4.2's table).
const (
	ErrUnexpectedToken = "E_UNEXPECTED_TOKEN"
	ErrUseBeforeDeclare = "VR-001"
	ErrAssignToConst    = "VR-002"
	ErrRedeclared       = "VR-003"
	ErrAssignToSystem   = "VR-004"
	ErrImportClash      = "VR-005"
)

// Warning is a non-fatal diagnostic — currently only VR-006
// (unused-variable) — attached to a line rather than aborting parsing.
type Warning struct {
	Message string
	Code    string
	Pos     token.Position
}
