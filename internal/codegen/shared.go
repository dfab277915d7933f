// Package codegen walks an *ast.Module and emits target-language source
// text. One generator per target; all share the indented emitter in this
// file and the same statement/expression traversal shape.
package codegen

import (
	"strings"

	"github.com/trif-lang/trifc/internal/ast"
	"github.com/trif-lang/trifc/internal/diag"
)

// Target identifies which generator Generate should use.
type Target string

const (
	Python     Target = "python"
	JavaScript Target = "javascript"
	Cpp        Target = "cpp"
)

// Generate dispatches to the generator for target and returns the emitted
// source text.
func Generate(module *ast.Module, target Target) (string, error) {
	switch target {
	case Python:
		return (&pythonGenerator{}).Generate(module)
	case JavaScript:
		return (&jsGenerator{}).Generate(module)
	case Cpp:
		return (&cppGenerator{}).Generate(module), nil
	default:
		return "", diag.CLI("unknown target %q", target)
	}
}

// emitter accumulates indented output lines, one unit of indent per four
// spaces. Dedent below zero is a fatal internal error: it means a
// generator's indent/dedent calls are unbalanced.
type emitter struct {
	lines  []string
	indent int
}

func (e *emitter) emit(line string) {
	e.lines = append(e.lines, strings.Repeat("    ", e.indent)+line)
}

func (e *emitter) emitBlank() {
	e.lines = append(e.lines, "")
}

func (e *emitter) dedent() error {
	if e.indent == 0 {
		return diag.Codegen("indentation underflow: dedent at column 0")
	}
	e.indent--
	return nil
}

func (e *emitter) String() string {
	return strings.Join(e.lines, "\n") + "\n"
}

// --- shared literal rendering ---------------------------------------------

var pyBoolWords = map[bool]string{true: "True", false: "False"}
var jsBoolWords = map[bool]string{true: "true", false: "false"}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

func quoteString(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

func joinArgs(args []string) string {
	return strings.Join(args, ", ")
}
