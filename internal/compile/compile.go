// Package compile wires the lexer, parser, and codegen packages into the
// single pipeline both the CLI driver and the HTTP server mode drive:
// source text in, generated target text out.
package compile

import (
	"github.com/trif-lang/trifc/internal/ast"
	"github.com/trif-lang/trifc/internal/codegen"
	"github.com/trif-lang/trifc/internal/diag"
	"github.com/trif-lang/trifc/internal/lexer"
	"github.com/trif-lang/trifc/internal/parser"
)

// ResolveTarget maps the CLI-facing spelling, including the `js`/`c++`
// aliases, to the canonical codegen.Target. An unrecognized name is a CLI
// error.
func ResolveTarget(name string) (codegen.Target, error) {
	switch name {
	case "", "python":
		return codegen.Python, nil
	case "javascript", "js":
		return codegen.JavaScript, nil
	case "cpp", "c++":
		return codegen.Cpp, nil
	default:
		return "", diag.CLI("unknown target %q", name)
	}
}

// ToAST lexes and parses source, returning the resulting module.
func ToAST(source string) (*ast.Module, error) {
	toks, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return parser.Parse(toks)
}

// Source runs the full pipeline and returns the generated target text.
func Source(source string, target codegen.Target) (string, error) {
	module, err := ToAST(source)
	if err != nil {
		return "", err
	}
	return codegen.Generate(module, target)
}
