package parser

import (
	"fmt"

	"mjc/internal/ast"
	"mjc/internal/diag"
	"mjc/internal/lexer"
	"mjc/internal/token"
)

// precedence levels (lowest to highest)
// These determine operator binding: 5 + 3 * 2 parses as 5 + (3 * 2) because * has higher precedence
const (
	_ int = iota // Start at 0, ignore this
	LOWEST
	LOGICAND    // &&
	LESSGREATER // <
	SUM         // + or -
	PRODUCT     // *
	PREFIX      // !X
	INDEX       // myArray[X]
	METHOD      // obj.method(...), obj.length, obj.field
)

// precedence table maps token types to their precedence level
var precedences = map[token.TokenType]int{
	token.AND:      LOGICAND,
	token.LT:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.LBRACKET: INDEX,
	token.DOT:      METHOD,
}

// bailout unwinds the parser after the first error
type bailout struct{}

type Parser struct {
	l *lexer.Lexer // The lexer feeding us tokens

	curToken   token.Token // Current token under examination
	peekToken  token.Token // Next Token (for look-ahead)
	peek2Token token.Token // Token after peekToken, needed to tell `Foo x;` from `x = ...;`

	err *diag.CodeError // First (and only) parse error

	// Pratt parser tables
	prefixParseFns map[token.TokenType]prefixParseFn // Functions for tokens that start expressions
	infixParseFns  map[token.TokenType]infixParseFn  // Functions for tokens that appear in the middle
}

// prefixParseFn parses expressions that start with a specific token
// Example: !true, 42, x, new Foo()
type prefixParseFn func() ast.Expression

// infixParseFn parses expressions where the operator is between operands
// Example: 5 + 3, a[2], t.Start(2)
// The ast.Expression is the left side already parsed
type infixParseFn func(ast.Expression) ast.Expression

// New creates a new parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	// Initialize function tables
	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.infixParseFns = make(map[token.TokenType]infixParseFn)

	// Register prefix parsers (tokens that can START an expression)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.NEW, p.parseNewExpression)

	// Register infix parsers (tokens that appear BETWEEN expressions)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.ASTERISK, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.AND, p.parseInfixExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseDotExpression)

	// Read three tokens to set curToken, peekToken and peek2Token
	p.nextToken()
	p.nextToken()
	p.nextToken()

	return p
}

// Parse is a convenience wrapper: source text in, program or first syntax error out
func Parse(src string) (*ast.Program, error) {
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	if err := p.Err(); err != nil {
		return nil, err
	}
	return prog, nil
}

// registerPrefix adds a prefix parser for a token type
func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix adds an infix parser for a token type
func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.peek2Token
	p.peek2Token = p.l.NextToken()
}

// Errors returns the parse error messages (at most one, parsing stops at the first)
func (p *Parser) Errors() []string {
	if p.err == nil {
		return nil
	}
	return []string{p.err.Error()}
}

// Err returns the parse error as a *diag.CodeError, or nil
func (p *Parser) Err() error {
	if p.err == nil {
		return nil
	}
	return p.err
}

// fail records the error at tok and unwinds to ParseProgram
func (p *Parser) fail(tok token.Token, format string, args ...any) {
	p.err = &diag.CodeError{
		Kind:    diag.KindSyntax,
		Phase:   diag.PhaseParse,
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	}
	panic(bailout{})
}

// peekError fails when we expected a different token
func (p *Parser) peekError(t token.TokenType) {
	p.fail(p.peekToken, "expected next token to be %s, got %s instead", t, describe(p.peekToken))
}

// curTokenIs checks if current token matches
func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs checks if next token matches
func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek checks next token and advances if correct, else fails
// Used for mandatory syntax like "class <ident> {"
func (p *Parser) expectPeek(t token.TokenType) {
	if !p.peekTokenIs(t) {
		p.peekError(t)
	}
	p.nextToken()
}

// expectPeekIdent is expectPeek for an identifier with a fixed spelling (main, String)
func (p *Parser) expectPeekIdent(name string) {
	if !p.peekTokenIs(token.IDENT) || p.peekToken.Literal != name {
		p.fail(p.peekToken, "expected %q, got %s instead", name, describe(p.peekToken))
	}
	p.nextToken()
}

// peekPrecedence returns precedence of next token
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

// curPrecedence returns precedence of current token
func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// ParseProgram parses the main class followed by any number of classes
// On failure it returns nil and Err reports why.
func (p *Parser) ParseProgram() (program *ast.Program) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			program = nil
		}
	}()

	program = p.parseMainClass()
	for p.peekTokenIs(token.CLASS) {
		p.nextToken()
		program.Classes = append(program.Classes, p.parseClass())
	}
	if !p.peekTokenIs(token.EOF) {
		p.fail(p.peekToken, "expected end of file, got %s instead", describe(p.peekToken))
	}
	return program
}

// parseMainClass handles
// class Name { public static void main(String[] arg) { statement } }
// and leaves curToken on the closing brace of the class
func (p *Parser) parseMainClass() *ast.Program {
	if !p.curTokenIs(token.CLASS) {
		p.fail(p.curToken, "expected class, got %s instead", describe(p.curToken))
	}
	p.expectPeek(token.IDENT)
	program := &ast.Program{MainClass: p.curToken.Literal}
	p.expectPeek(token.LBRACE)
	p.expectPeek(token.PUBLIC)
	p.expectPeek(token.STATIC)
	p.expectPeek(token.VOID)
	p.expectPeekIdent("main")
	p.expectPeek(token.LPAREN)
	p.expectPeekIdent("String")
	p.expectPeek(token.LBRACKET)
	p.expectPeek(token.RBRACKET)
	p.expectPeek(token.IDENT)
	program.MainArg = p.curToken.Literal
	p.expectPeek(token.RPAREN)
	p.expectPeek(token.LBRACE)
	p.nextToken()
	program.Main = p.parseStatement()
	p.expectPeek(token.RBRACE)
	p.expectPeek(token.RBRACE)
	return program
}

// parseClass handles class Name [extends Parent] { fields methods }
func (p *Parser) parseClass() *ast.ClassDecl {
	class := &ast.ClassDecl{Token: p.curToken}
	p.expectPeek(token.IDENT)
	class.Name = p.curToken.Literal
	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		p.expectPeek(token.IDENT)
		class.Parent = p.curToken.Literal
	}
	p.expectPeek(token.LBRACE)

	for p.peekStartsVarDecl() {
		p.nextToken()
		class.Fields = append(class.Fields, p.parseVarDecl())
	}
	for p.peekTokenIs(token.PUBLIC) {
		p.nextToken()
		class.Methods = append(class.Methods, p.parseMethod())
	}
	p.expectPeek(token.RBRACE)
	return class
}

// parseMethod handles
// public Type name(Type a, Type b) { locals statements return expr; }
func (p *Parser) parseMethod() *ast.MethodDecl {
	method := &ast.MethodDecl{Token: p.curToken}
	p.nextToken()
	method.ReturnType = p.parseTypeName()
	p.expectPeek(token.IDENT)
	method.Name = p.curToken.Literal
	p.expectPeek(token.LPAREN)

	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		method.Params = append(method.Params, p.parseParam())
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			method.Params = append(method.Params, p.parseParam())
		}
	}
	p.expectPeek(token.RPAREN)
	p.expectPeek(token.LBRACE)

	for p.peekStartsVarDecl() {
		p.nextToken()
		method.Locals = append(method.Locals, p.parseVarDecl())
	}
	for !p.peekTokenIs(token.RETURN) {
		if p.peekTokenIs(token.EOF) || p.peekTokenIs(token.RBRACE) {
			p.fail(p.peekToken, "expected return, got %s instead", describe(p.peekToken))
		}
		p.nextToken()
		method.Body = append(method.Body, p.parseStatement())
	}
	p.nextToken()
	p.nextToken()
	method.Return = p.parseExpression(LOWEST)
	p.expectPeek(token.SEMICOLON)
	p.expectPeek(token.RBRACE)
	return method
}

// parseParam handles Type name inside a parameter list
func (p *Parser) parseParam() *ast.VarDecl {
	decl := &ast.VarDecl{Token: p.curToken}
	decl.TypeName = p.parseTypeName()
	p.expectPeek(token.IDENT)
	decl.Name = p.curToken.Literal
	return decl
}

// parseVarDecl handles Type name;
func (p *Parser) parseVarDecl() *ast.VarDecl {
	decl := p.parseParam()
	p.expectPeek(token.SEMICOLON)
	return decl
}

// describe renders a token for error messages
func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", tok.Literal)
}
