// Package diag carries the compiler's error taxonomy: every failure from
// lexing through codegen is tagged with a closed-set Tag so the driver can
// render it consistently regardless of which stage raised it.
package diag

import (
	"fmt"

	"github.com/samber/lo"
)

// Tag is the closed set of failure categories a compilation can end with.
type Tag string

const (
	LexTag     Tag = "LexError"
	ParseTag   Tag = "ParseError"
	CodegenTag Tag = "CodegenError"
	IOTag      Tag = "IOError"
	CLITag     Tag = "CLIError"
)

// Error is a fatal, position-aware compiler error. Line is 0 when the
// failure is not tied to a source line (e.g. codegen's internal invariant
// violations, which are pinned to a node kind instead).
type Error struct {
	Tag   Tag
	Line  int
	Err   error
	Extra map[string]any
}

// Error returns the message verbatim and adds no position of its own. Lex
// errors and the parser's "Expected ..."/"Unexpected token ..." messages
// embed their own "at line L [column C]" suffix; the parser's other guard
// messages (e.g. "spawn expects a function call") carry their line only in
// Line.
func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Exception renders the error as a JSON-friendly envelope for the server
// mode's error responses.
func (e *Error) Exception() map[string]any {
	o := map[string]any{
		"tag":     e.Tag,
		"message": e.Err.Error(),
	}
	if e.Line > 0 {
		o["line"] = e.Line
	}
	if len(e.Extra) != 0 {
		o = lo.Assign(o, e.Extra)
	}
	return o
}

func Lex(line int, format string, args ...any) error {
	return &Error{Tag: LexTag, Line: line, Err: fmt.Errorf(format, args...)}
}

func Parse(line int, format string, args ...any) error {
	return &Error{Tag: ParseTag, Line: line, Err: fmt.Errorf(format, args...)}
}

func Codegen(format string, args ...any) error {
	return &Error{Tag: CodegenTag, Err: fmt.Errorf(format, args...)}
}

func IO(format string, args ...any) error {
	return &Error{Tag: IOTag, Err: fmt.Errorf(format, args...)}
}

func CLI(format string, args ...any) error {
	return &Error{Tag: CLITag, Err: fmt.Errorf(format, args...)}
}
