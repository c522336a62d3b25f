package lexer_test

import (
	"testing"

	"compiscript/internal/lexer"
	"compiscript/internal/token"
)

func TestLexKeywordsAndIdentifiers(t *testing.T) {
	tokens, err := lexer.Lex("let x: integer = 10;")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	want := []token.Type{
		token.LET, token.IDENT, token.COLON, token.INTEGER_TYPE,
		token.ASSIGN, token.INTEGER, token.SEMICOLON, token.EOF,
	}
	assertTypes(t, tokens, want)
}

func TestLexStringLiteral(t *testing.T) {
	tokens, err := lexer.Lex(`print("hola");`)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	assertTypes(t, tokens, []token.Type{
		token.PRINT, token.LPAREN, token.STRING, token.RPAREN, token.SEMICOLON, token.EOF,
	})
	if tokens[2].Lexeme != "hola" {
		t.Fatalf("expected string lexeme %q, got %q", "hola", tokens[2].Lexeme)
	}
}

func TestLexOperators(t *testing.T) {
	tokens, err := lexer.Lex("<= >= == != && || !")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	assertTypes(t, tokens, []token.Type{
		token.LESS_EQ, token.GREATER_EQ, token.EQUALS, token.NOT_EQ,
		token.AND_LOGICAL, token.OR_LOGICAL, token.NOT, token.EOF,
	})
}

func TestLexLineAndColumnTracking(t *testing.T) {
	tokens, err := lexer.Lex("let a;\nlet b;")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	// `b`, declared by the second `let`, is on line 2
	for _, tok := range tokens {
		if tok.Lexeme == "b" {
			if tok.Line != 2 {
				t.Fatalf("expected identifier b on line 2, got line %d", tok.Line)
			}
			return
		}
	}
	t.Fatalf("identifier b not found in token stream")
}

func TestLexRejectsUnterminatedString(t *testing.T) {
	_, err := lexer.Lex(`let s: string = "unterminated;`)
	if err == nil {
		t.Fatalf("expected an error for an unterminated string literal")
	}
}

func assertTypes(t *testing.T, tokens []token.Token, want []token.Type) {
	t.Helper()
	if len(tokens) != len(want) {
		t.Fatalf("token count mismatch: got %d, want %d (%v)", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w {
			t.Fatalf("token %d: got %s, want %s", i, tokens[i].Type, w)
		}
	}
}
