package lexer_test

import (
	"testing"

	"github.com/cwbudde/grib/internal/lexer"
	"github.com/cwbudde/grib/internal/token"
)

func TestNextTokenCoversKeywordsAndOperators(t *testing.T) {
	src := `decl x = 1 + 2; im y = x >= 3 && x != 0;`
	want := []token.Kind{
		token.DECL, token.IDENT, token.ASSIGN, token.NUMBER, token.PLUS, token.NUMBER, token.SEMI,
		token.IM, token.IDENT, token.ASSIGN, token.IDENT, token.GE, token.NUMBER, token.AND, token.IDENT, token.NEQ, token.NUMBER, token.SEMI,
		token.EOF,
	}

	l := lexer.New(src)
	for i, k := range want {
		tok := l.NextToken()
		if tok.Kind != k {
			t.Fatalf("token %d: got %s, want %s (literal %q)", i, tok.Kind, k, tok.Literal)
		}
	}
	if errs := l.Errors(); len(errs) != 0 {
		t.Errorf("unexpected lexical errors: %v", errs)
	}
}

func TestNextTokenReportsIllegalCharacter(t *testing.T) {
	src := `decl x = 1 ^ ;`
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
	}
	errs := l.Errors()
	if len(errs) == 0 {
		t.Fatal("expected at least one lexical error for '^'")
	}
	if errs[0].Pos.Line != 1 {
		t.Errorf("error line = %d, want 1", errs[0].Pos.Line)
	}
}

func TestPositionsAreByteOffsets(t *testing.T) {
	src := "decl x = 1;"
	l := lexer.New(src)
	tok := l.NextToken() // "decl"
	if tok.Pos.Column != 1 {
		t.Errorf("first token column = %d, want 1", tok.Pos.Column)
	}
}
