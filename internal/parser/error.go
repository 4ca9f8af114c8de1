package parser

import (
	"fmt"

	"github.com/simonsan/llhd/pkg/token"
)

// Error represents a parsing error with position information. Parsing
// stops at the first error; no partial module is returned.
type Error struct {
	Message string
	Code    string
	Pos     token.Position
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// NewError creates a new Error with the given parameters.
func NewError(pos token.Position, message, code string) *Error {
	return &Error{Message: message, Pos: pos, Code: code}
}

// Error code constants for programmatic error handling
const (
	// ErrUnexpectedToken indicates an unexpected token was encountered
	ErrUnexpectedToken = "E_UNEXPECTED_TOKEN"

	// ErrExpectedType indicates a type was expected
	ErrExpectedType = "E_EXPECTED_TYPE"

	// ErrExpectedValue indicates an inline value was expected
	ErrExpectedValue = "E_EXPECTED_VALUE"

	// ErrExpectedEOL indicates a line terminator was expected
	ErrExpectedEOL = "E_EXPECTED_EOL"

	// ErrRedefinedName indicates a name was introduced twice in a scope
	ErrRedefinedName = "E_REDEFINED_NAME"

	// ErrUndeclaredName indicates a reference to an unknown name
	ErrUndeclaredName = "E_UNDECLARED_NAME"

	// ErrNotABlock indicates a label position named a non-block value
	ErrNotABlock = "E_NOT_A_BLOCK"

	// ErrUnresolvedBlock indicates a forward block reference was never
	// declared before its unit closed
	ErrUnresolvedBlock = "E_UNRESOLVED_BLOCK"

	// ErrMissingArgument indicates a call or instance operand without a
	// positional formal argument
	ErrMissingArgument = "E_MISSING_ARGUMENT"

	// ErrCannotInferType indicates a constant whose type is neither
	// annotated nor available from context
	ErrCannotInferType = "E_CANNOT_INFER_TYPE"

	// ErrWrongValueKind indicates a value of the wrong shape, such as a
	// call target that is not a function
	ErrWrongValueKind = "E_WRONG_VALUE_KIND"

	// ErrInvalidLiteral indicates a malformed literal
	ErrInvalidLiteral = "E_INVALID_LITERAL"
)
