package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/trif-lang/trifc/internal/lexer"
	"github.com/trif-lang/trifc/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func values(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Value
	}
	return out
}

func TestTokenizeKeywordsVsNames(t *testing.T) {
	t.Parallel()

	toks, err := lexer.Tokenize(`let mut x = letter`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	got := kinds(toks)
	want := []token.Kind{token.LET, token.NAME, token.NAME, token.OP, token.NAME, token.EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeNumberBeforeDot(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source string
		want   []token.Kind
	}{
		{"1.5", []token.Kind{token.NUMBER, token.EOF}},
		{"x.y", []token.Kind{token.NAME, token.DOT, token.NAME, token.EOF}},
	} {
		toks, err := lexer.Tokenize(tt.source)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", tt.source, err)
		}
		if diff := cmp.Diff(tt.want, kinds(toks)); diff != "" {
			t.Errorf("Tokenize(%q) kinds mismatch (-want +got):\n%s", tt.source, diff)
		}
	}
}

func TestTokenizeLongestOperatorWins(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source string
		want   []string
	}{
		{"==", []string{"==", ""}},
		{"=", []string{"=", ""}},
		{"<=", []string{"<=", ""}},
		{"<", []string{"<", ""}},
		{"&&", []string{"&&", ""}},
		{"||", []string{"||", ""}},
	} {
		toks, err := lexer.Tokenize(tt.source)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", tt.source, err)
		}
		if len(toks) != 2 || toks[0].Kind != token.OP {
			t.Fatalf("Tokenize(%q) = %v, want a single OP token before EOF", tt.source, toks)
		}
		if diff := cmp.Diff(tt.want, values(toks)); diff != "" {
			t.Errorf("Tokenize(%q) values mismatch (-want +got):\n%s", tt.source, diff)
		}
	}
}

func TestTokenizeStringRoundTrip(t *testing.T) {
	t.Parallel()

	toks, err := lexer.Tokenize(`"hello world"`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) < 1 || toks[0].Kind != token.STRING {
		t.Fatalf("expected a STRING token, got %v", kinds(toks))
	}
	if toks[0].Value != "hello world" {
		t.Errorf("decoded string = %q, want %q", toks[0].Value, "hello world")
	}
}

func TestTokenizeUnknownEscapePassesCharacterThrough(t *testing.T) {
	t.Parallel()

	toks, err := lexer.Tokenize(`"a\qb"`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) < 1 || toks[0].Kind != token.STRING {
		t.Fatalf("expected a STRING token, got %v", kinds(toks))
	}
	if toks[0].Value != "aqb" {
		t.Errorf("decoded string = %q, want %q", toks[0].Value, "aqb")
	}
}

func TestTokenizeEndsWithSingleEOF(t *testing.T) {
	t.Parallel()

	toks, err := lexer.Tokenize("let x = 1\nlet y = 2")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("last token = %v, want EOF", toks)
	}
	eofCount := 0
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			eofCount++
		}
	}
	if eofCount != 1 {
		t.Errorf("EOF count = %d, want 1", eofCount)
	}
}

func TestTokenizeUnterminatedBlockCommentIsLexError(t *testing.T) {
	t.Parallel()

	_, err := lexer.Tokenize("/* never closed")
	if err == nil {
		t.Fatal("expected a lex error for an unterminated block comment")
	}
}

func TestTokenizeUnexpectedCharacterIsLexError(t *testing.T) {
	t.Parallel()

	_, err := lexer.Tokenize("let x = `")
	if err == nil {
		t.Fatal("expected a lex error for an unrecognized character")
	}
}
