// Package token defines the token kinds and literal Token value produced by
// the lexer and consumed by the parser.
package token

import "github.com/samber/lo"

// Kind is the closed set of token discriminants. Keyword kinds are the
// uppercase spelling of the keyword itself.
type Kind int

const (
	EOF Kind = iota
	NUMBER
	STRING
	NAME
	OP
	NEWLINE
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	COLON
	DOT
	SEMICOLON

	LET
	CONST
	FN
	FUNCTION
	RETURN
	IF
	ELSE
	WHILE
	FOR
	IN
	TRUE
	FALSE
	NULL
	IMPORT
	AS
	FROM
	EXPORT
	DEFAULT
	SPAWN
)

var kindNames = map[Kind]string{
	EOF:       "EOF",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	NAME:      "NAME",
	OP:        "OP",
	NEWLINE:   "NEWLINE",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACE:    "LBRACE",
	RBRACE:    "RBRACE",
	LBRACKET:  "LBRACKET",
	RBRACKET:  "RBRACKET",
	COMMA:     "COMMA",
	COLON:     "COLON",
	DOT:       "DOT",
	SEMICOLON: "SEMICOLON",
	LET:       "LET",
	CONST:     "CONST",
	FN:        "FN",
	FUNCTION:  "FUNCTION",
	RETURN:    "RETURN",
	IF:        "IF",
	ELSE:      "ELSE",
	WHILE:     "WHILE",
	FOR:       "FOR",
	IN:        "IN",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	NULL:      "NULL",
	IMPORT:    "IMPORT",
	AS:        "AS",
	FROM:      "FROM",
	EXPORT:    "EXPORT",
	DEFAULT:   "DEFAULT",
	SPAWN:     "SPAWN",
}

// keywordSpellings is the reserved-keyword table: keyword kind -> source
// spelling. nameToKind is its inverse (lo.Invert), built once instead of
// maintained by hand in both directions.
var keywordSpellings = map[Kind]string{
	LET: "let", CONST: "const", FN: "fn", FUNCTION: "function",
	RETURN: "return", IF: "if", ELSE: "else", WHILE: "while", FOR: "for",
	IN: "in", TRUE: "true", FALSE: "false", NULL: "null", IMPORT: "import",
	AS: "as", FROM: "from", EXPORT: "export", DEFAULT: "default", SPAWN: "spawn",
}

var nameToKind = lo.Invert(keywordSpellings)

// LookupKeyword returns the keyword Kind for name and true, or (0, false) if
// name is not a reserved word.
func LookupKeyword(name string) (Kind, bool) {
	k, ok := nameToKind[name]
	return k, ok
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is a single lexical unit with 1-based source position.
//
// For STRING tokens, Value is the decoded payload (quotes stripped, escapes
// interpreted). For every other kind, Value is the raw matched text.
type Token struct {
	Kind   Kind   `json:"kind"`
	Value  string `json:"value"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (t Token) String() string {
	return t.Kind.String() + "(" + t.Value + ")"
}
