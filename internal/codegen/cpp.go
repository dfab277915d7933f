package codegen

import "github.com/trif-lang/trifc/internal/ast"

// cppGenerator emits the C++ stub target: a fixed skeleton that does not
// read or translate the module. Output is identical regardless of what the
// AST contains.
type cppGenerator struct {
	e emitter
}

func (g *cppGenerator) Generate(module *ast.Module) string {
	g.e.emit(`#include "trif/runtime.hpp"`)
	g.e.emit("#include <memory>")
	g.e.emitBlank()
	g.e.emit("int main(int argc, char** argv) {")
	g.e.indent++
	g.e.emit("auto runtime = trif::runtime::create(argc, argv);")
	g.e.emit("auto module = runtime->make_module();")
	g.e.emit("module->bind_defaults();")
	g.e.emit("runtime->bootstrap(module);")
	g.e.emitBlank()
	g.e.emit("// TODO: Generated body")
	g.e.emitBlank()
	g.e.emit("runtime->register_module(module);")
	g.e.emit("return 0;")
	if err := g.e.dedent(); err != nil {
		// dedent() can only fail on underflow, which a single indent/dedent
		// pair here cannot produce.
		panic(err)
	}
	g.e.emit("}")
	return g.e.String()
}
