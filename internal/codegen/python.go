package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/trif-lang/trifc/internal/ast"
	"github.com/trif-lang/trifc/internal/diag"
)

// pythonGenerator emits the indentation-sensitive target. tempIndex is a
// single shared counter for both __trif_import_N and __trif_export_N
// temporaries, so two temporaries never collide even across a mix of
// imports and re-exports in the same module.
type pythonGenerator struct {
	e         emitter
	tempIndex int
}

func (g *pythonGenerator) nextTemp(prefix string) string {
	name := fmt.Sprintf("__trif_%s_%d", prefix, g.tempIndex)
	g.tempIndex++
	return name
}

func (g *pythonGenerator) Generate(module *ast.Module) (string, error) {
	g.e.emit("import pathlib")
	g.e.emit("import sys")
	g.e.emit(`_trif_origin = pathlib.Path(__file__).resolve().parent if '__file__' in globals() else pathlib.Path.cwd()`)
	g.e.emit("for _candidate in (_trif_origin, _trif_origin.parent):")
	g.e.indent++
	g.e.emit("_candidate_pkg = _candidate / 'trif_lang'")
	g.e.emit("if _candidate_pkg.exists():")
	g.e.indent++
	g.e.emit("if str(_candidate) not in sys.path:")
	g.e.indent++
	g.e.emit("sys.path.insert(0, str(_candidate))")
	if err := g.e.dedent(); err != nil {
		return "", err
	}
	g.e.emit("break")
	if err := g.e.dedent(); err != nil {
		return "", err
	}
	if err := g.e.dedent(); err != nil {
		return "", err
	}
	g.e.emit("from trif_lang.runtime import runtime")
	g.e.emit("__trif_exports__ = {}")
	g.e.emit("__trif_default_export__ = None")
	g.e.emitBlank()

	for _, stmt := range module.Body {
		if err := g.visitStmt(stmt); err != nil {
			return "", err
		}
	}

	g.e.emitBlank()
	g.e.emit("runtime.register_module_exports(__name__, __trif_exports__, __trif_default_export__)")
	g.e.emit("if __name__ == '__main__':")
	g.e.indent++
	g.e.emit("runtime.default_entry_point(locals())")
	if err := g.e.dedent(); err != nil {
		return "", err
	}

	return g.e.String(), nil
}

func (g *pythonGenerator) visitBody(body []ast.Stmt) error {
	g.e.indent++
	for _, stmt := range body {
		if err := g.visitStmt(stmt); err != nil {
			return err
		}
	}
	if len(body) == 0 {
		g.e.emit("pass")
	}
	return g.e.dedent()
}

func (g *pythonGenerator) visitStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Import:
		alias := n.Alias
		if alias == "" {
			alias = n.Module
		}
		alias = strings.NewReplacer(".", "_", "-", "_").Replace(alias)
		g.e.emit(fmt.Sprintf("%s = runtime.import_module('%s')", alias, n.Module))

	case *ast.ImportFrom:
		tmp := g.nextTemp("import")
		g.e.emit(fmt.Sprintf("%s = runtime.import_module('%s')", tmp, n.Module))
		if n.NamespaceName != "" {
			g.e.emit(fmt.Sprintf("%s = %s", n.NamespaceName, tmp))
		}
		if n.DefaultName != "" {
			g.e.emit(fmt.Sprintf("%s = runtime.extract_default(%s)", n.DefaultName, tmp))
		}
		for _, spec := range n.Names {
			g.e.emit(fmt.Sprintf("%s = runtime.extract_export(%s, '%s')", spec.Alias, tmp, spec.Source))
		}

	case *ast.Let:
		line, err := g.renderExpr(n.Value)
		if err != nil {
			return err
		}
		stmt := fmt.Sprintf("%s = %s", n.Name, line)
		if !n.Mutable {
			stmt += "  # const"
		}
		g.e.emit(stmt)
		if n.Exported {
			g.e.emit(fmt.Sprintf("__trif_exports__['%s'] = %s", n.Name, n.Name))
		}
		if n.IsDefault {
			g.e.emit(fmt.Sprintf("__trif_default_export__ = %s", n.Name))
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
		g.e.emit(fmt.Sprintf("%s = %s", target, value))

	case *ast.FunctionDef:
		g.e.emit(fmt.Sprintf("def %s(%s):", n.Name, strings.Join(n.Params, ", ")))
		g.e.indent++
		for _, stmt := range n.Body {
			if err := g.visitStmt(stmt); err != nil {
				return err
			}
		}
		if len(n.Body) == 0 {
			g.e.emit("return None")
		} else if _, ok := n.Body[len(n.Body)-1].(*ast.Return); !ok {
			g.e.emit("return None")
		}
		if err := g.e.dedent(); err != nil {
			return err
		}
		if n.Exported {
			g.e.emit(fmt.Sprintf("__trif_exports__['%s'] = %s", n.Name, n.Name))
		}
		if n.IsDefault {
			g.e.emit(fmt.Sprintf("__trif_default_export__ = %s", n.Name))
		}
		g.e.emitBlank()

	case *ast.ExportNames:
		if n.Source != "" {
			tmp := g.nextTemp("export")
			g.e.emit(fmt.Sprintf("%s = runtime.import_module('%s')", tmp, n.Source))
			for _, spec := range n.Names {
				g.e.emit(fmt.Sprintf("__trif_exports__['%s'] = runtime.extract_export(%s, '%s')", spec.Exported, tmp, spec.Local))
			}
		} else {
			for _, spec := range n.Names {
				g.e.emit(fmt.Sprintf("__trif_exports__['%s'] = %s", spec.Exported, spec.Local))
			}
		}

	case *ast.ExportDefault:
		value, err := g.renderExpr(n.Value)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("__trif_default_export__ = %s", value))

	case *ast.Return:
		if n.Value == nil {
			g.e.emit("return None")
			return nil
		}
		value, err := g.renderExpr(n.Value)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("return %s", value))

	case *ast.If:
		test, err := g.renderExpr(n.Test)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("if %s:", test))
		if err := g.visitBody(n.Body); err != nil {
			return err
		}
		if len(n.Orelse) > 0 {
			g.e.emit("else:")
			if err := g.visitBody(n.Orelse); err != nil {
				return err
			}
		}

	case *ast.While:
		test, err := g.renderExpr(n.Test)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("while %s:", test))
		return g.visitBody(n.Body)

	case *ast.For:
		iterator, err := g.renderExpr(n.Iterator)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("for %s in %s:", n.Target, iterator))
		return g.visitBody(n.Body)

	case *ast.Spawn:
		call, err := g.renderExpr(n.Call)
		if err != nil {
			return err
		}
		g.e.emit(fmt.Sprintf("runtime.spawn(%s)", call))

	case *ast.ExprStmt:
		value, err := g.renderExpr(n.Value)
		if err != nil {
			return err
		}
		g.e.emit(value)

	default:
		return diag.Codegen("unsupported statement node %T in python target", s)
	}
	return nil
}

func (g *pythonGenerator) renderExpr(e ast.Expr) (string, error) {
	switch n := e.(type) {
	case *ast.Name:
		return n.ID, nil
	case *ast.Number:
		return formatNumberPy(n.Value), nil
	case *ast.String:
		return quoteString(n.Value), nil
	case *ast.Boolean:
		return pyBoolWords[n.Value], nil
	case *ast.Null:
		return "None", nil
	case *ast.BinaryOp:
		left, err := g.renderExpr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := g.renderExpr(n.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, pyBinaryOp(n.Op), right), nil
	case *ast.UnaryOp:
		operand, err := g.renderExpr(n.Operand)
		if err != nil {
			return "", err
		}
		if n.Op == "!" {
			return "not " + operand, nil
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
		return "", diag.Codegen("unsupported expression node %T in python target", e)
	}
}

func (g *pythonGenerator) renderExprList(exprs []ast.Expr) ([]string, error) {
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

// pyBinaryOp translates the short-circuit operators: `&&` and `||` are not
// valid Python operators, so they lower to `and`/`or` rather than being
// copied through verbatim.
func pyBinaryOp(op string) string {
	switch op {
	case "&&":
		return "and"
	case "||":
		return "or"
	default:
		return op
	}
}

func formatNumberPy(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
