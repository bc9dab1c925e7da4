package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := map[string]TokenType{
		"class":   CLASS,
		"public":  PUBLIC,
		"static":  STATIC,
		"void":    VOID,
		"extends": EXTENDS,
		"return":  RETURN,
		"int":     INT_KW,
		"boolean": BOOLEAN,
		"if":      IF,
		"else":    ELSE,
		"while":   WHILE,
		"true":    TRUE,
		"false":   FALSE,
		"this":    THIS,
		"new":     NEW,
		"length":  LENGTH,
		"main":    IDENT,
		"String":  IDENT,
		"x":       IDENT,
	}

	for in, want := range tests {
		if got := LookupIdent(in); got != want {
			t.Fatalf("LookupIdent(%q)=%q want=%q", in, got, want)
		}
	}
}
