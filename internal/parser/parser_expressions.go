package parser

import (
	"strconv"

	"mjc/internal/ast"
	"mjc/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	// First, find a prefix parser for current token
	// This handles: literals, identifiers, this, new, !, grouped expressions
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.fail(p.curToken, "expected an expression, got %s instead", describe(p.curToken))
	}
	leftExp := prefix()

	// While next token is an infix operator with higher precedence than ours,
	// consume it and build the expression tree
	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()            // Advance to the operator
		leftExp = infix(leftExp) // Parse with left side already known
	}

	return leftExp
}

// parseIdentifier parses a variable name
func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseIntegerLiteral parses a decimal number
func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.fail(p.curToken, "could not parse %q as integer", p.curToken.Literal)
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseThis() ast.Expression {
	return &ast.ThisExpression{Token: p.curToken}
}

// parsePrefixExpression handles !X; postfix operators bind tighter, so !a.f() is !(a.f())
func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	return exp
}

// parseNewExpression handles new int[size] and new ClassName()
func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.curToken
	switch p.peekToken.Type {
	case token.INT_KW:
		p.nextToken()
		p.expectPeek(token.LBRACKET)
		p.nextToken()
		size := p.parseExpression(LOWEST)
		p.expectPeek(token.RBRACKET)
		return &ast.NewArrayExpression{Token: tok, Size: size}
	case token.IDENT:
		p.nextToken()
		name := p.curToken.Literal
		p.expectPeek(token.LPAREN)
		p.expectPeek(token.RPAREN)
		return &ast.NewObjectExpression{Token: tok, Class: name}
	default:
		p.fail(p.peekToken, "expected int or a class name after new, got %s instead", describe(p.peekToken))
		return nil
	}
}

// parseInfixExpression handles binary operators, all left-associative
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	return expression
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	p.expectPeek(token.RBRACKET)
	return exp
}

// parseDotExpression handles everything after a dot: .length, .method(args) and .field
func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	dot := p.curToken
	if p.peekTokenIs(token.LENGTH) {
		p.nextToken()
		return &ast.LengthExpression{Token: p.curToken, Array: left}
	}
	p.expectPeek(token.IDENT)
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.peekTokenIs(token.LPAREN) {
		return &ast.FieldAccessExpression{Token: dot, Object: left, Field: name}
	}
	p.nextToken()
	call := &ast.MethodCallExpression{Token: dot, Object: left, Method: name}
	call.Arguments = p.parseCallArguments()
	return call
}

// parseCallArguments reads a comma-separated list up to the closing paren
func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	p.expectPeek(token.RPAREN)
	return args
}
