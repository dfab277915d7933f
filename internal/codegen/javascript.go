package codegen

import (
	"fmt"
	"strings"

	"github.com/trif-lang/trifc/internal/ast"
	"github.com/trif-lang/trifc/internal/diag"
)

// jsGenerator emits the braced dynamic target. reexportIndex gives each
// `export { ... } from MODULE` its own module binding; a fixed name like
// `__mod` would collide the moment a file has more than one re-export.
type jsGenerator struct {
	e             emitter
	reexportIndex int
}

func (g *jsGenerator) nextReexportTemp() string {
	name := fmt.Sprintf("__trif_reexport_%d", g.reexportIndex)
	g.reexportIndex++
	return name
}

func (g *jsGenerator) Generate(module *ast.Module) (string, error) {
	g.e.emit(`import { runtime } from '@trif/lang/runtime.js';`)
	g.e.emit("let __trif_exports__ = new Map();")
	g.e.emit("let __trif_default_export__ = null;")

	for _, stmt := range module.Body {
		if err := g.visitStmt(stmt); err != nil {
			return "", err
		}
	}

	g.e.emit("export default __trif_default_export__;")
	g.e.emit("export const exports = __trif_exports__;")
	return g.e.String(), nil
}

func (g *jsGenerator) visitBody(body []ast.Stmt) error {
	g.e.indent++
	for _, stmt := range body {
		if err := g.visitStmt(stmt); err != nil {
			return err
		}
	}
	return g.e.dedent()
}

func (g *jsGenerator) visitStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Import:
		alias := n.Alias
		if alias == "" {
			alias = n.Module
		}
		g.e.emit(fmt.Sprintf("const %s = await runtime.importModule('%s');", alias, n.Module))

	case *ast.ImportFrom:
		mod := "__mod"
		g.e.emit(fmt.Sprintf("const %s = await runtime.importModule('%s');", mod, n.Module))
		if n.NamespaceName != "" {
			g.e.emit(fmt.Sprintf("const %s = %s;", n.NamespaceName, mod))
		}
		if n.DefaultName != "" {
			g.e.emit(fmt.Sprintf("const %s = runtime.extractDefault(%s);", n.DefaultName, mod))
		}
		for _, spec := range n.Names {
			g.e.emit(fmt.Sprintf("const %s = runtime.extractExport(%s, '%s');", spec.Alias, mod, spec.Source))
		}

	case *ast.Let:
		value, err := g.renderExpr(n.Value)
		if err != nil {
			return err
		}
		kw := "const"
		if n.Mutable {
			kw = "let"
		}
		g.e.emit(fmt.Sprintf("%s %s = %s;", kw, n.Name, value))
		if n.Exported {
			g.e.emit(fmt.Sprintf("__trif_exports__.set('%s', %s);", n.Name, n.Name))
		}
		if n.IsDefault {
			g.e.emit(fmt.Sprintf("__trif_default_export__ = %s;", n.Name))
		}

	case *ast.Assign:
		target, err := g.renderExpr(n.Target)
		if err != nil {
			return err
		}
		value, err := g.renderExpr(n.Value)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("%s = %s;", target, value))

	case *ast.FunctionDef:
		g.e.emit(fmt.Sprintf("function %s(%s) {", n.Name, strings.Join(n.Params, ", ")))
		g.e.indent++
		for _, stmt := range n.Body {
			if err := g.visitStmt(stmt); err != nil {
				return err
			}
		}
		// Only append the trailing return when the body does not already
		// end with one; appending it unconditionally would make an
		// explicit final return dead code.
		if len(n.Body) == 0 {
			g.e.emit("return null;")
		} else if _, ok := n.Body[len(n.Body)-1].(*ast.Return); !ok {
			g.e.emit("return null;")
		}
		if err := g.e.dedent(); err != nil {
			return err
		}
		g.e.emit("}")
		if n.Exported {
			g.e.emit(fmt.Sprintf("__trif_exports__.set('%s', %s);", n.Name, n.Name))
		}
		if n.IsDefault {
			g.e.emit(fmt.Sprintf("__trif_default_export__ = %s;", n.Name))
		}

	case *ast.ExportNames:
		if n.Source != "" {
			tmp := g.nextReexportTemp()
			g.e.emit(fmt.Sprintf("const %s = await runtime.importModule('%s');", tmp, n.Source))
			for _, spec := range n.Names {
				g.e.emit(fmt.Sprintf("__trif_exports__.set('%s', runtime.extractExport(%s, '%s'));", spec.Exported, tmp, spec.Local))
			}
		} else {
			for _, spec := range n.Names {
				g.e.emit(fmt.Sprintf("__trif_exports__.set('%s', %s);", spec.Exported, spec.Local))
			}
		}

	case *ast.ExportDefault:
		value, err := g.renderExpr(n.Value)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("__trif_default_export__ = %s;", value))

	case *ast.Return:
		if n.Value == nil {
			g.e.emit("return null;")
			return nil
		}
		value, err := g.renderExpr(n.Value)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("return %s;", value))

	case *ast.If:
		test, err := g.renderExpr(n.Test)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("if (%s) {", test))
		if err := g.visitBody(n.Body); err != nil {
			return err
		}
		if len(n.Orelse) > 0 {
			g.e.emit("} else {")
			if err := g.visitBody(n.Orelse); err != nil {
				return err
			}
		}
		g.e.emit("}")

	case *ast.While:
		test, err := g.renderExpr(n.Test)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("while (%s) {", test))
		if err := g.visitBody(n.Body); err != nil {
			return err
		}
		g.e.emit("}")

	case *ast.For:
		iterator, err := g.renderExpr(n.Iterator)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("for (const %s of %s) {", n.Target, iterator))
		if err := g.visitBody(n.Body); err != nil {
			return err
		}
		g.e.emit("}")

	case *ast.Spawn:
		call, err := g.renderExpr(n.Call)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("runtime.spawn(%s);", call))

	case *ast.ExprStmt:
		value, err := g.renderExpr(n.Value)
		if err != nil {
			return err
		}
		g.e.emit(value + ";")

	default:
		return diag.Codegen("unsupported statement node %T in javascript target", s)
	}
	return nil
}

func (g *jsGenerator) renderExpr(e ast.Expr) (string, error) {
	switch n := e.(type) {
	case *ast.Name:
		return n.ID, nil
	case *ast.Number:
		return formatNumberPy(n.Value), nil
	case *ast.String:
		return quoteString(n.Value), nil
	case *ast.Boolean:
		return jsBoolWords[n.Value], nil
	case *ast.Null:
		return "null", nil
	case *ast.BinaryOp:
		left, err := g.renderExpr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := g.renderExpr(n.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, n.Op, right), nil
	case *ast.UnaryOp:
		operand, err := g.renderExpr(n.Operand)
		if err != nil {
			return "", err
		}
		return n.Op + operand, nil
	case *ast.Call:
		fn, err := g.renderExpr(n.Func)
		if err != nil {
			return "", err
		}
		args, err := g.renderExprList(n.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", fn, joinArgs(args)), nil
	case *ast.Attribute:
		value, err := g.renderExpr(n.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s", value, n.Attr), nil
	case *ast.ListLiteral:
		elems, err := g.renderExprList(n.Elements)
		if err != nil {
			return "", err
		}
		return "[" + joinArgs(elems) + "]", nil
	case *ast.DictLiteral:
		var parts []string
		for _, pair := range n.Pairs {
			k, err := g.renderExpr(pair.Key)
			if err != nil {
				return "", err
			}
			v, err := g.renderExpr(pair.Value)
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s: %s", k, v))
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", diag.Codegen("unsupported expression node %T in javascript target", e)
	}
}

func (g *jsGenerator) renderExprList(exprs []ast.Expr) ([]string, error) {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := g.renderExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
