package token

// TokenType is a string alias for token types
// Using string makes debugging easier (we can print "PLUS" instead of a number)
type TokenType string

// Token holds the type, the literal text and where it starts in the source
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// Token constants - the vocabulary of MiniJava
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL" // Unknown/invalid character
	EOF     TokenType = "EOF"     // End of file, tells parser we're done

	// Identifiers and literals
	IDENT TokenType = "IDENT" // Names: x, Tree, getLeft
	INT   TokenType = "INT"   // Integers: 1, 42, 999

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	BANG     TokenType = "!"
	LT       TokenType = "<"
	AND      TokenType = "&&"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	DOT       TokenType = "."
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords
	CLASS   TokenType = "CLASS"
	PUBLIC  TokenType = "PUBLIC"
	STATIC  TokenType = "STATIC"
	VOID    TokenType = "VOID"
	EXTENDS TokenType = "EXTENDS"
	RETURN  TokenType = "RETURN"
	INT_KW  TokenType = "INT_KW"
	BOOLEAN TokenType = "BOOLEAN"
	IF      TokenType = "IF"
	ELSE    TokenType = "ELSE"
	WHILE   TokenType = "WHILE"
	TRUE    TokenType = "TRUE"
	FALSE   TokenType = "FALSE"
	THIS    TokenType = "THIS"
	NEW     TokenType = "NEW"
	LENGTH  TokenType = "LENGTH"
	PRINTLN TokenType = "PRINTLN" // System.out.println, lexed as one token
)

// keywords maps reserved words to their token type
// "main" and "String" stay identifiers; the parser checks them by value
var keywords = map[string]TokenType{
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
}

// PrintlnLiteral is the only dotted name the lexer folds into a single token.
const PrintlnLiteral = "System.out.println"

// LookupIdent checks if an identifier is a keyword
// Returns IDENT when it is a user-defined name
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
