package parser_test

import (
	"testing"

	"github.com/trif-lang/trifc/internal/ast"
	"github.com/trif-lang/trifc/internal/lexer"
	"github.com/trif-lang/trifc/internal/parser"
	"github.com/trif-lang/trifc/internal/token"
)

func parseSource(t *testing.T, source string) *ast.Module {
	t.Helper()
	toks, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", source, err)
	}
	mod, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	return mod
}

func TestParseLetDeclaration(t *testing.T) {
	t.Parallel()

	mod := parseSource(t, `let x = 1`)
	if len(mod.Body) != 1 {
		t.Fatalf("len(mod.Body) = %d, want 1", len(mod.Body))
	}
	let, ok := mod.Body[0].(*ast.Let)
	if !ok {
		t.Fatalf("mod.Body[0] = %T, want *ast.Let", mod.Body[0])
	}
	if let.Name != "x" || !let.Mutable {
		t.Errorf("let = %+v, want Name=x Mutable=true", let)
	}
}

func TestParseConstIsImmutable(t *testing.T) {
	t.Parallel()

	mod := parseSource(t, `const x = 1`)
	let := mod.Body[0].(*ast.Let)
	if let.Mutable {
		t.Errorf("const declaration parsed as Mutable=true")
	}
}

func TestParseEqualityBindsLooserThanComparison(t *testing.T) {
	t.Parallel()

	mod := parseSource(t, `a < b == c`)
	stmt := mod.Body[0].(*ast.ExprStmt)
	top, ok := stmt.Value.(*ast.BinaryOp)
	if !ok || top.Op != "==" {
		t.Fatalf("top-level op = %#v, want ==", stmt.Value)
	}
	if _, ok := top.Left.(*ast.BinaryOp); !ok {
		t.Errorf("left operand of == should be the < comparison, got %T", top.Left)
	}
}

func TestParseOrBindsLooserThanAnd(t *testing.T) {
	t.Parallel()

	mod := parseSource(t, `a || b && c`)
	stmt := mod.Body[0].(*ast.ExprStmt)
	top, ok := stmt.Value.(*ast.BinaryOp)
	if !ok || top.Op != "||" {
		t.Fatalf("top-level op = %#v, want ||", stmt.Value)
	}
	right, ok := top.Right.(*ast.BinaryOp)
	if !ok || right.Op != "&&" {
		t.Errorf("right operand of || = %#v, want the && term", top.Right)
	}
}

func TestParseUnaryIsRightAssociative(t *testing.T) {
	t.Parallel()

	mod := parseSource(t, `!!x`)
	stmt := mod.Body[0].(*ast.ExprStmt)
	outer, ok := stmt.Value.(*ast.UnaryOp)
	if !ok || outer.Op != "!" {
		t.Fatalf("top-level expr = %#v, want a ! UnaryOp", stmt.Value)
	}
	inner, ok := outer.Operand.(*ast.UnaryOp)
	if !ok || inner.Op != "!" {
		t.Fatalf("operand = %#v, want a nested ! UnaryOp", outer.Operand)
	}
	if _, ok := inner.Operand.(*ast.Name); !ok {
		t.Errorf("innermost operand = %T, want *ast.Name", inner.Operand)
	}
}

func TestParseCallBindsTighterThanUnary(t *testing.T) {
	t.Parallel()

	mod := parseSource(t, `!f()`)
	stmt := mod.Body[0].(*ast.ExprStmt)
	unary, ok := stmt.Value.(*ast.UnaryOp)
	if !ok || unary.Op != "!" {
		t.Fatalf("top-level expr = %#v, want a ! UnaryOp", stmt.Value)
	}
	if _, ok := unary.Operand.(*ast.Call); !ok {
		t.Errorf("operand of ! = %T, want *ast.Call", unary.Operand)
	}
}

func TestParseSpawnRequiresCall(t *testing.T) {
	t.Parallel()

	if _, err := parser.Parse(tokenize(t, `spawn 1`)); err == nil {
		t.Error("expected a parse error for spawn of a non-call expression")
	}

	mod := parseSource(t, `spawn f()`)
	spawn, ok := mod.Body[0].(*ast.Spawn)
	if !ok {
		t.Fatalf("mod.Body[0] = %T, want *ast.Spawn", mod.Body[0])
	}
	if _, ok := spawn.Call.(*ast.Call); !ok {
		t.Errorf("spawn.Call = %T, want *ast.Call", spawn.Call)
	}
}

func TestParseAssignmentTargetMustBeNameOrAttribute(t *testing.T) {
	t.Parallel()

	mod := parseSource(t, `x.y = 1`)
	assign, ok := mod.Body[0].(*ast.Assign)
	if !ok {
		t.Fatalf("mod.Body[0] = %T, want *ast.Assign", mod.Body[0])
	}
	if _, ok := assign.Target.(*ast.Attribute); !ok {
		t.Errorf("assign.Target = %T, want *ast.Attribute", assign.Target)
	}
}

func TestParseBareExpressionStatement(t *testing.T) {
	t.Parallel()

	mod := parseSource(t, `print(x)`)
	if _, ok := mod.Body[0].(*ast.ExprStmt); !ok {
		t.Fatalf("mod.Body[0] = %T, want *ast.ExprStmt", mod.Body[0])
	}
}

func TestParseFunctionDefaultExportWithoutNameGetsReservedName(t *testing.T) {
	t.Parallel()

	mod := parseSource(t, `export default fn (x) { return x }`)
	fn, ok := mod.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("mod.Body[0] = %T, want *ast.FunctionDef", mod.Body[0])
	}
	if fn.Name != "__trif_default_export_fn__" {
		t.Errorf("fn.Name = %q, want the reserved default-export name", fn.Name)
	}
	if !fn.IsDefault || !fn.Exported {
		t.Errorf("fn = %+v, want IsDefault=true Exported=true", fn)
	}
}

func TestParseIfElseRequiresBraceBlock(t *testing.T) {
	t.Parallel()

	mod := parseSource(t, `if a { } else { b() }`)
	top := mod.Body[0].(*ast.If)
	if len(top.Orelse) != 1 {
		t.Fatalf("len(top.Orelse) = %d, want 1", len(top.Orelse))
	}
	if _, ok := top.Orelse[0].(*ast.ExprStmt); !ok {
		t.Errorf("top.Orelse[0] = %T, want *ast.ExprStmt", top.Orelse[0])
	}

	if _, err := parser.Parse(tokenize(t, `if a { } else if b { }`)); err == nil {
		t.Error("expected a parse error for else directly followed by if instead of a brace block")
	}
}

func TestParseImportFromWithDefaultAndNamed(t *testing.T) {
	t.Parallel()

	mod := parseSource(t, `import main, { helper } from "pkg"`)
	imp, ok := mod.Body[0].(*ast.ImportFrom)
	if !ok {
		t.Fatalf("mod.Body[0] = %T, want *ast.ImportFrom", mod.Body[0])
	}
	if imp.Module != "pkg" || imp.DefaultName != "main" {
		t.Errorf("imp = %+v, want Module=pkg DefaultName=main", imp)
	}
	if len(imp.Names) != 1 || imp.Names[0].Source != "helper" {
		t.Errorf("imp.Names = %+v, want one spec for helper", imp.Names)
	}
}

func TestParseUnexpectedTokenIsParseError(t *testing.T) {
	t.Parallel()

	if _, err := parser.Parse(tokenize(t, `let = 1`)); err == nil {
		t.Error("expected a parse error for a missing identifier")
	}
}

func tokenize(t *testing.T, source string) []token.Token {
	t.Helper()
	toks, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", source, err)
	}
	return toks
}
