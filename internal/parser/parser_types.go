package parser

import "mjc/internal/token"

// Spellings of the built-in types as they appear in VarDecl.TypeName
const (
	TypeInt      = "int"
	TypeBoolean  = "boolean"
	TypeIntArray = "int[]"
)

// parseTypeName reads a type starting at curToken: int, int[], boolean or a class name
func (p *Parser) parseTypeName() string {
	switch p.curToken.Type {
	case token.INT_KW:
		if p.peekTokenIs(token.LBRACKET) {
			p.nextToken()
			p.expectPeek(token.RBRACKET)
			return TypeIntArray
		}
		return TypeInt
	case token.BOOLEAN:
		return TypeBoolean
	case token.IDENT:
		return p.curToken.Literal
	default:
		p.fail(p.curToken, "expected a type, got %s instead", describe(p.curToken))
		return ""
	}
}

// peekStartsVarDecl reports whether the next tokens open a declaration.
// A class-typed declaration needs two tokens of look-ahead: `Tree t;` versus `t = x;`
func (p *Parser) peekStartsVarDecl() bool {
	switch p.peekToken.Type {
	case token.INT_KW, token.BOOLEAN:
		return true
	case token.IDENT:
		return p.peek2Token.Type == token.IDENT
	default:
		return false
	}
}
