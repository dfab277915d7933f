// Package parser is a recursive-descent parser over a token.Token stream,
// producing an *ast.Module: small per-construct methods, a handful of shared
// "expect X, else fail with a position-pinned message" helpers, and an
// optional trace gated behind an environment variable instead of a CLI flag.
package parser

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp"

	"github.com/trif-lang/trifc/internal/ast"
	"github.com/trif-lang/trifc/internal/diag"
	"github.com/trif-lang/trifc/internal/token"
)

var traceEnabled = os.Getenv("TRIFC_PARSER_DEBUG") != ""

// reservedDefaultExportName is assigned to a nameless `export default
// function`; the reserved prefix keeps the synthesized name from ever
// colliding with a user binding.
const reservedDefaultExportName = "__trif_default_export_fn__"

var orOps = map[string]bool{"||": true}
var andOps = map[string]bool{"&&": true}
var equalityOps = map[string]bool{"==": true, "!=": true}
var comparisonOps = map[string]bool{"<": true, ">": true, "<=": true, ">=": true}
var termOps = map[string]bool{"+": true, "-": true}
var factorOps = map[string]bool{"*": true, "/": true, "%": true}
var unaryOps = map[string]bool{"-": true, "!": true}

type parser struct {
	toks []token.Token
	pos  int
}

// Parse consumes the full token stream and returns the resulting Module.
func Parse(toks []token.Token) (*ast.Module, error) {
	p := &parser{toks: toks}
	mod := &ast.Module{}

	p.skipTerminators()
	for !p.check(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		mod.Body = append(mod.Body, stmt)
		p.skipTerminators()
	}

	if traceEnabled {
		pp.Println(mod)
	}
	return mod, nil
}

func (p *parser) current() token.Token {
	return p.toks[p.pos]
}

func (p *parser) check(k token.Kind) bool {
	return p.current().Kind == k
}

func (p *parser) checkOp(op string) bool {
	return p.current().Kind == token.OP && p.current().Value == op
}

func (p *parser) advance() token.Token {
	tok := p.current()
	if tok.Kind != token.EOF {
		p.pos++
	}
	if traceEnabled {
		log.Println("advance:", tok)
	}
	return tok
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if !p.check(k) {
		return token.Token{}, diag.Parse(p.current().Line, "Expected %s but got %s at line %d", k, p.current().Kind, p.current().Line)
	}
	return p.advance(), nil
}

func (p *parser) expectOp(op string) error {
	if !p.checkOp(op) {
		return diag.Parse(p.current().Line, "Expected %s but got %s at line %d", op, p.current().Kind, p.current().Line)
	}
	p.advance()
	return nil
}

func (p *parser) expectName() (string, error) {
	tok, err := p.expect(token.NAME)
	if err != nil {
		return "", err
	}
	return tok.Value, nil
}

// skipTerminators consumes zero or more NEWLINE/SEMICOLON tokens; both are
// eagerly consumed wherever "optional newline" is allowed.
func (p *parser) skipTerminators() {
	for p.check(token.NEWLINE) || p.check(token.SEMICOLON) {
		p.advance()
	}
}

func (p *parser) parseStatement() (ast.Stmt, error) {
	switch p.current().Kind {
	case token.IMPORT:
		return p.parseImport()
	case token.EXPORT:
		return p.parseExport()
	case token.LET, token.CONST:
		return p.parseLet(false, false)
	case token.FN, token.FUNCTION:
		return p.parseFunctionDef(false, false)
	case token.RETURN:
		return p.parseReturn()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.SPAWN:
		return p.parseSpawn()
	default:
		return p.parseExprStatement()
	}
}

func (p *parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipTerminators()

	body := []ast.Stmt{}
	for !p.check(token.RBRACE) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		p.skipTerminators()
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return body, nil
}

// --- import / export ---------------------------------------------------

func (p *parser) parseDottedModuleName() (string, error) {
	if p.check(token.STRING) {
		return p.advance().Value, nil
	}
	first, err := p.expectName()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(first)
	for p.check(token.DOT) {
		p.advance()
		part, err := p.expectName()
		if err != nil {
			return "", err
		}
		b.WriteByte('.')
		b.WriteString(part)
	}
	return b.String(), nil
}

func (p *parser) parseSpecList() ([]ast.ImportSpec, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipTerminators()

	var specs []ast.ImportSpec
	for !p.check(token.RBRACE) {
		source, err := p.expectName()
		if err != nil {
			return nil, err
		}
		alias := source
		if p.check(token.AS) {
			p.advance()
			alias, err = p.expectName()
			if err != nil {
				return nil, err
			}
		}
		specs = append(specs, ast.ImportSpec{Source: source, Alias: alias})
		p.skipTerminators()
		if p.check(token.COMMA) {
			p.advance()
			p.skipTerminators()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return specs, nil
}

func (p *parser) parseImport() (ast.Stmt, error) {
	p.advance() // IMPORT

	if p.check(token.STRING) {
		module := p.advance().Value
		if p.check(token.AS) {
			p.advance()
			alias, err := p.expectName()
			if err != nil {
				return nil, err
			}
			return &ast.Import{Module: module, Alias: alias}, nil
		}
		return &ast.Import{Module: module}, nil
	}

	if p.checkOp("*") {
		p.advance()
		if _, err := p.expect(token.AS); err != nil {
			return nil, err
		}
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.FROM); err != nil {
			return nil, err
		}
		module, err := p.parseDottedModuleName()
		if err != nil {
			return nil, err
		}
		return &ast.ImportFrom{Module: module, NamespaceName: name}, nil
	}

	if p.check(token.LBRACE) {
		specs, err := p.parseSpecList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.FROM); err != nil {
			return nil, err
		}
		module, err := p.parseDottedModuleName()
		if err != nil {
			return nil, err
		}
		return &ast.ImportFrom{Module: module, Names: specs}, nil
	}

	if p.check(token.NAME) {
		name := p.advance().Value

		if p.check(token.COMMA) {
			p.advance()
			if !p.check(token.LBRACE) {
				return nil, diag.Parse(p.current().Line, "Expected named import list after comma")
			}
			specs, err := p.parseSpecList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.FROM); err != nil {
				return nil, err
			}
			module, err := p.parseDottedModuleName()
			if err != nil {
				return nil, err
			}
			return &ast.ImportFrom{Module: module, DefaultName: name, Names: specs}, nil
		}

		if p.check(token.FROM) {
			p.advance()
			module, err := p.parseDottedModuleName()
			if err != nil {
				return nil, err
			}
			return &ast.ImportFrom{Module: module, DefaultName: name}, nil
		}

		if p.check(token.DOT) {
			var b strings.Builder
			b.WriteString(name)
			for p.check(token.DOT) {
				p.advance()
				part, err := p.expectName()
				if err != nil {
					return nil, err
				}
				b.WriteByte('.')
				b.WriteString(part)
			}
			module := b.String()
			if p.check(token.AS) {
				p.advance()
				alias, err := p.expectName()
				if err != nil {
					return nil, err
				}
				return &ast.Import{Module: module, Alias: alias}, nil
			}
			return &ast.Import{Module: module}, nil
		}

		if p.check(token.AS) {
			p.advance()
			alias, err := p.expectName()
			if err != nil {
				return nil, err
			}
			return &ast.Import{Module: name, Alias: alias}, nil
		}

		return &ast.Import{Module: name}, nil
	}

	return nil, diag.Parse(p.current().Line, "Unexpected token %s at line %d", p.current().Kind, p.current().Line)
}

func (p *parser) parseExportSpecList() ([]ast.ExportSpec, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipTerminators()

	var specs []ast.ExportSpec
	for !p.check(token.RBRACE) {
		local, err := p.expectName()
		if err != nil {
			return nil, err
		}
		exported := local
		if p.check(token.AS) {
			p.advance()
			exported, err = p.expectName()
			if err != nil {
				return nil, err
			}
		}
		specs = append(specs, ast.ExportSpec{Local: local, Exported: exported})
		p.skipTerminators()
		if p.check(token.COMMA) {
			p.advance()
			p.skipTerminators()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return specs, nil
}

func (p *parser) parseExport() (ast.Stmt, error) {
	p.advance() // EXPORT

	if p.check(token.DEFAULT) {
		p.advance()
		switch p.current().Kind {
		case token.FN, token.FUNCTION:
			return p.parseFunctionDef(true, true)
		case token.LET, token.CONST:
			return p.parseLet(true, true)
		default:
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &ast.ExportDefault{Value: value}, nil
		}
	}

	switch p.current().Kind {
	case token.FN, token.FUNCTION:
		return p.parseFunctionDef(true, false)
	case token.LET, token.CONST:
		return p.parseLet(true, false)
	case token.LBRACE:
		specs, err := p.parseExportSpecList()
		if err != nil {
			return nil, err
		}
		var source string
		if p.check(token.FROM) {
			p.advance()
			source, err = p.parseDottedModuleName()
			if err != nil {
				return nil, err
			}
		}
		return &ast.ExportNames{Names: specs, Source: source}, nil
	default:
		return nil, diag.Parse(p.current().Line, "Unsupported export statement")
	}
}

// --- declarations --------------------------------------------------------

func (p *parser) parseLet(exported, isDefault bool) (ast.Stmt, error) {
	mutable := p.check(token.LET)
	p.advance() // LET or CONST

	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp("="); err != nil {
		return nil, diag.Parse(p.current().Line, "Expected '=' in variable declaration")
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Let{Name: name, Value: value, Mutable: mutable, Exported: exported, IsDefault: isDefault}, nil
}

func (p *parser) parseParams() ([]string, error) {
	var params []string
	for !p.check(token.RPAREN) {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		params = append(params, name)
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return params, nil
}

func (p *parser) parseFunctionDef(exported, isDefault bool) (ast.Stmt, error) {
	p.advance() // FN or FUNCTION

	name := ""
	if p.check(token.NAME) {
		name = p.advance().Value
	} else if !isDefault {
		return nil, diag.Parse(p.current().Line, "Function declaration requires a name")
	} else {
		name = reservedDefaultExportName
	}

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDef{Name: name, Params: params, Body: body, Exported: exported, IsDefault: isDefault}, nil
}

func (p *parser) parseReturn() (ast.Stmt, error) {
	p.advance() // RETURN
	if p.check(token.NEWLINE) || p.check(token.RBRACE) || p.check(token.EOF) {
		return &ast.Return{}, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: value}, nil
}

func (p *parser) parseIf() (ast.Stmt, error) {
	p.advance() // IF
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	orelse := []ast.Stmt{}
	if p.check(token.ELSE) {
		p.advance()
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &ast.If{Test: test, Body: body, Orelse: orelse}, nil
}

func (p *parser) parseWhile() (ast.Stmt, error) {
	p.advance() // WHILE
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Test: test, Body: body}, nil
}

func (p *parser) parseFor() (ast.Stmt, error) {
	p.advance() // FOR
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iterator, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.For{Target: name, Iterator: iterator, Body: body}, nil
}

func (p *parser) parseSpawn() (ast.Stmt, error) {
	line := p.current().Line
	p.advance() // SPAWN
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*ast.Call)
	if !ok {
		return nil, diag.Parse(line, "spawn expects a function call")
	}
	return &ast.Spawn{Call: call}, nil
}

func (p *parser) parseExprStatement() (ast.Stmt, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	switch expr.(type) {
	case *ast.Name, *ast.Attribute:
		if p.checkOp("=") {
			p.advance()
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &ast.Assign{Target: expr, Value: value}, nil
		}
	}

	return &ast.ExprStmt{Value: expr}, nil
}

// --- expressions ----------------------------------------------------------

func (p *parser) parseExpression() (ast.Expr, error) {
	return p.parseBinaryLevel(orOps, p.parseAnd)
}

func (p *parser) parseAnd() (ast.Expr, error) {
	return p.parseBinaryLevel(andOps, p.parseEquality)
}

func (p *parser) parseEquality() (ast.Expr, error) {
	return p.parseBinaryLevel(equalityOps, p.parseComparison)
}

func (p *parser) parseComparison() (ast.Expr, error) {
	return p.parseBinaryLevel(comparisonOps, p.parseTerm)
}

func (p *parser) parseTerm() (ast.Expr, error) {
	return p.parseBinaryLevel(termOps, p.parseFactor)
}

func (p *parser) parseFactor() (ast.Expr, error) {
	return p.parseBinaryLevel(factorOps, p.parseUnary)
}

// parseBinaryLevel implements one left-associative precedence level: parse
// the next-higher level, then fold in zero or more `op next` pairs whose op
// is in ops.
func (p *parser) parseBinaryLevel(ops map[string]bool, next func() (ast.Expr, error)) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.check(token.OP) && ops[p.current().Value] {
		op := p.advance().Value
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: op, Right: right}
	}
	return left, nil
}

// parseUnary is right-associative: `!!x` parses as `!(!x)`.
func (p *parser) parseUnary() (ast.Expr, error) {
	if p.check(token.OP) && unaryOps[p.current().Value] {
		op := p.advance().Value
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: op, Operand: operand}, nil
	}
	return p.parseCallChain()
}

func (p *parser) parseCallChain() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		if p.check(token.LPAREN) {
			p.advance()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			expr = &ast.Call{Func: expr, Args: args}
			continue
		}
		if p.check(token.DOT) {
			p.advance()
			attr, err := p.expectName()
			if err != nil {
				return nil, err
			}
			expr = &ast.Attribute{Value: expr, Attr: attr}
			continue
		}
		break
	}
	return expr, nil
}

func (p *parser) parseArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	for !p.check(token.RPAREN) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	tok := p.current()
	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, diag.Parse(tok.Line, "invalid number literal %q at line %d", tok.Value, tok.Line)
		}
		return &ast.Number{Value: v}, nil

	case token.STRING:
		p.advance()
		return &ast.String{Value: tok.Value}, nil

	case token.TRUE:
		p.advance()
		return &ast.Boolean{Value: true}, nil

	case token.FALSE:
		p.advance()
		return &ast.Boolean{Value: false}, nil

	case token.NULL:
		p.advance()
		return &ast.Null{}, nil

	case token.NAME:
		p.advance()
		return &ast.Name{ID: tok.Value}, nil

	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case token.LBRACKET:
		p.advance()
		var elements []ast.Expr
		for !p.check(token.RBRACKET) {
			el, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
			if p.check(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.ListLiteral{Elements: elements}, nil

	case token.LBRACE:
		p.advance()
		var pairs []ast.DictPair
		for !p.check(token.RBRACE) {
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, ast.DictPair{Key: key, Value: value})
			if p.check(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return &ast.DictLiteral{Pairs: pairs}, nil

	default:
		return nil, diag.Parse(tok.Line, "Unexpected token %s at line %d", tok.Kind, tok.Line)
	}
}
