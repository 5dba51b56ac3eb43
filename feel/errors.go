package feel

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/dmnrun/feelengine/feel/parser"
)

// ParseError is returned by Engine.Parse* on a syntax-level failure (spec
// §4.7/§7): it carries the 1-based line/column the underlying
// feel/parser.SyntaxError's byte offset maps to, following the teacher's
// convention of wrapping an internal cause with `pkg/errors` rather than
// relying on bare `%w` formatting (see SPEC_FULL.md AMBIENT STACK).
type ParseError struct {
	Line, Column int
	Message      string
	cause        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feel: parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// Cause exposes the wrapped error for github.com/pkg/errors.Cause callers.
func (e *ParseError) Cause() error { return e.cause }

// Unwrap supports the standard library's errors.Is/As.
func (e *ParseError) Unwrap() error { return e.cause }

// ArgumentError is returned for argument-validation failures that are not
// syntax errors: empty/whitespace-only parse input. An input-parameter
// name absent from a decision definition is reported by dmn/runtime's
// UnknownInputError instead.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string { return "feel: " + e.Message }

// EvaluationError wraps an unexpected host-level failure surfaced while
// walking an AST (spec §7 "Evaluator runtime"): well-formed FEEL models
// should never produce one, since ill-typed operations return null rather
// than erroring (spec §4.5).
type EvaluationError struct {
	Message string
	cause   error
}

func (e *EvaluationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("feel: evaluation error: %s: %s", e.Message, e.cause)
	}
	return "feel: evaluation error: " + e.Message
}

func (e *EvaluationError) Cause() error  { return e.cause }
func (e *EvaluationError) Unwrap() error { return e.cause }

func newArgumentError(format string, args ...any) error {
	return &ArgumentError{Message: fmt.Sprintf(format, args...)}
}

// newParseError translates a parser/lexer failure into a *ParseError,
// computing 1-based line/column from a feel/parser.SyntaxError's byte
// offset when available, and falling back to 1:1 for lexer-level errors
// that don't carry structured position info.
func newParseError(src string, err error) *ParseError {
	line, col := 1, 1
	if se, ok := errors.Cause(err).(*parser.SyntaxError); ok {
		line, col = lineCol(src, se.Offset)
		return &ParseError{Line: line, Column: col, Message: se.Message, cause: err}
	}
	return &ParseError{Line: line, Column: col, Message: err.Error(), cause: err}
}

func lineCol(src string, offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	line = 1 + strings.Count(src[:offset], "\n")
	if idx := strings.LastIndexByte(src[:offset], '\n'); idx >= 0 {
		col = offset - idx
	} else {
		col = offset + 1
	}
	return line, col
}
