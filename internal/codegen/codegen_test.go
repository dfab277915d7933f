package codegen_test

import (
	"strings"
	"testing"

	"github.com/trif-lang/trifc/internal/codegen"
	"github.com/trif-lang/trifc/internal/lexer"
	"github.com/trif-lang/trifc/internal/parser"
)

func generate(t *testing.T, source string, target codegen.Target) string {
	t.Helper()
	toks, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", source, err)
	}
	mod, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	out, err := codegen.Generate(mod, target)
	if err != nil {
		t.Fatalf("Generate(%q, %s): %v", source, target, err)
	}
	return out
}

func TestPythonLowersShortCircuitOperators(t *testing.T) {
	t.Parallel()

	out := generate(t, `let ok = a && b || !c`, codegen.Python)
	if strings.Contains(out, "&&") || strings.Contains(out, "||") {
		t.Errorf("python output still contains &&/||:\n%s", out)
	}
	if !strings.Contains(out, " and ") || !strings.Contains(out, " or ") || !strings.Contains(out, "not c") {
		t.Errorf("python output missing lowered and/or/not:\n%s", out)
	}
}

func TestPythonEmptyFunctionBodyReturnsNone(t *testing.T) {
	t.Parallel()

	out := generate(t, `fn f() { }`, codegen.Python)
	if strings.Count(out, "return None") != 1 {
		t.Errorf("expected an empty function body to emit exactly one return None:\n%s", out)
	}
}

func TestPythonSpawnEvaluatesCallEagerly(t *testing.T) {
	t.Parallel()

	out := generate(t, `spawn worker(id)`, codegen.Python)
	if !strings.Contains(out, "runtime.spawn(worker(id))") {
		t.Errorf("expected an eagerly-evaluated spawn call, got:\n%s", out)
	}
}

func TestJavaScriptOmitsTrailingReturnWhenAlreadyPresent(t *testing.T) {
	t.Parallel()

	out := generate(t, `fn f() { return 1 }`, codegen.JavaScript)
	if strings.Count(out, "return") != 1 {
		t.Errorf("expected exactly one return statement, got:\n%s", out)
	}
}

func TestJavaScriptAddsTrailingReturnWhenMissing(t *testing.T) {
	t.Parallel()

	out := generate(t, `fn f() { let x = 1 }`, codegen.JavaScript)
	if !strings.Contains(out, "return null;") {
		t.Errorf("expected a synthesized trailing return null;:\n%s", out)
	}
}

func TestJavaScriptReexportsUseDistinctTempNames(t *testing.T) {
	t.Parallel()

	out := generate(t, "export { a } from \"m1\"\nexport { b } from \"m2\"", codegen.JavaScript)
	if strings.Contains(out, "__mod") {
		t.Errorf("re-exports should not reuse the fixed __mod binding:\n%s", out)
	}
	if !strings.Contains(out, "__trif_reexport_0") || !strings.Contains(out, "__trif_reexport_1") {
		t.Errorf("expected two distinct reexport temp names:\n%s", out)
	}
}

func TestCppStubIsStableRegardlessOfBody(t *testing.T) {
	t.Parallel()

	short := generate(t, `let x = 1`, codegen.Cpp)
	long := generate(t, `let x = 1
let y = 2
let z = 3`, codegen.Cpp)
	if short != long {
		t.Errorf("cpp stub output should not depend on the module body:\nshort:\n%s\nlong:\n%s", short, long)
	}
	if !strings.Contains(short, "int main(") {
		t.Errorf("cpp stub missing main():\n%s", short)
	}
}

func TestCodegenUnsupportedTargetIsCLIError(t *testing.T) {
	t.Parallel()

	toks, err := lexer.Tokenize(`let x = 1`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	mod, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := codegen.Generate(mod, codegen.Target("ruby")); err == nil {
		t.Error("expected an error for an unknown target")
	}
}
