// Package ast defines the tagged AST produced by the parser. Statement and
// Expression are disjoint marker interfaces over a closed set of node
// structs; each struct carries its own discriminant implicitly through its
// Go type, the tagged-sum-type idiom this spec favors over a class
// hierarchy with virtual dispatch.
package ast

// Stmt is implemented by every statement (module-body item) node.
type Stmt interface {
	stmtNode()
}

// Expr is implemented by every expression (value) node.
type Expr interface {
	exprNode()
}

// Module is the AST root: an ordered sequence of top-level statements.
type Module struct {
	Body []Stmt
}

// Import is a whole-module import: `import "mod"` or `import "mod" as m`.
type Import struct {
	Module string
	Alias  string // "" when absent
}

// ImportSpec is one `{ source as alias }` entry in an import/export list.
// Alias defaults to Source when no `as` clause was written.
type ImportSpec struct {
	Source string
	Alias  string
}

// ImportFrom covers every `import ... from MODULE` form: default import,
// namespace import, and named imports, any combination of which may be
// present on a single statement.
type ImportFrom struct {
	Module        string
	Names         []ImportSpec
	DefaultName   string // "" when absent
	NamespaceName string // "" when absent
}

// ExportSpec is one `{ local as exported }` entry in an export list.
type ExportSpec struct {
	Local    string
	Exported string
}

// Let is a `let`/`const` variable declaration.
type Let struct {
	Name      string
	Value     Expr
	Mutable   bool
	Exported  bool
	IsDefault bool
}

// Assign is `target = value`; Target is always a Name or Attribute,
// enforced by the parser.
type Assign struct {
	Target Expr
	Value  Expr
}

// FunctionDef is a function declaration.
type FunctionDef struct {
	Name      string
	Params    []string
	Body      []Stmt
	Exported  bool
	IsDefault bool
}

// ExportNames is `export { specs } [from MODULE]`: a re-export with an
// optional source module.
type ExportNames struct {
	Names  []ExportSpec
	Source string // "" when absent
}

// ExportDefault is `export default <expression>` where the expression is
// not itself a function or variable declaration.
type ExportDefault struct {
	Value Expr
}

// Return is `return [value]`.
type Return struct {
	Value Expr // nil when valueless
}

// If is `if test { body } [else { orelse }]`. Orelse is an empty (not nil)
// slice when no else clause was written.
type If struct {
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// While is `while test { body }`.
type While struct {
	Test Expr
	Body []Stmt
}

// For is `for target in iterator { body }`.
type For struct {
	Target   string
	Iterator Expr
	Body     []Stmt
}

// Spawn is `spawn <call>`; Call is always a *Call, enforced by the parser.
type Spawn struct {
	Call Expr
}

// ExprStmt is a bare expression used as a statement, e.g. a call whose
// result is discarded: `print(x)` on its own line.
type ExprStmt struct {
	Value Expr
}

func (*Module) stmtNode()        {}
func (*Import) stmtNode()        {}
func (*ImportFrom) stmtNode()    {}
func (*Let) stmtNode()           {}
func (*Assign) stmtNode()        {}
func (*FunctionDef) stmtNode()   {}
func (*ExportNames) stmtNode()   {}
func (*ExportDefault) stmtNode() {}
func (*Return) stmtNode()        {}
func (*If) stmtNode()            {}
func (*While) stmtNode()         {}
func (*For) stmtNode()           {}
func (*Spawn) stmtNode()         {}
func (*ExprStmt) stmtNode()      {}

// Name is a bare identifier reference.
type Name struct {
	ID string
}

// Number is a floating-point literal (the grammar has no separate integer
// kind: NUMBER always decodes to a double).
type Number struct {
	Value float64
}

// String is a string literal; Value is already escape-decoded.
type String struct {
	Value string
}

// Boolean is `true` or `false`.
type Boolean struct {
	Value bool
}

// Null is the literal `null`.
type Null struct{}

// BinaryOp is `left op right`.
type BinaryOp struct {
	Left  Expr
	Op    string
	Right Expr
}

// UnaryOp is a prefix `-` or `!`.
type UnaryOp struct {
	Op      string
	Operand Expr
}

// Call is `func(args...)`.
type Call struct {
	Func Expr
	Args []Expr
}

// Attribute is `value.attr`.
type Attribute struct {
	Value Expr
	Attr  string
}

// ListLiteral is `[elements...]`.
type ListLiteral struct {
	Elements []Expr
}

// DictPair is one `key: value` entry; DictLiteral preserves source order.
type DictPair struct {
	Key   Expr
	Value Expr
}

// DictLiteral is `{ pairs... }`. Keys are arbitrary expressions, not
// restricted to strings.
type DictLiteral struct {
	Pairs []DictPair
}

func (*Name) exprNode()        {}
func (*Number) exprNode()      {}
func (*String) exprNode()      {}
func (*Boolean) exprNode()     {}
func (*Null) exprNode()        {}
func (*BinaryOp) exprNode()    {}
func (*UnaryOp) exprNode()     {}
func (*Call) exprNode()        {}
func (*Attribute) exprNode()   {}
func (*ListLiteral) exprNode() {}
func (*DictLiteral) exprNode() {}
