package parser

import (
	"mjc/internal/ast"
	"mjc/internal/token"
)

// parseStatement dispatches on curToken; every statement parser leaves
// curToken on the last token of its statement
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.PRINTLN:
		return p.parsePrintStatement()
	case token.IDENT:
		switch p.peekToken.Type {
		case token.ASSIGN:
			return p.parseAssignStatement()
		case token.LBRACKET:
			return p.parseArrayAssignStatement()
		}
		p.fail(p.peekToken, "expected = or [ after %q, got %s instead", p.curToken.Literal, describe(p.peekToken))
	default:
		p.fail(p.curToken, "expected a statement, got %s instead", describe(p.curToken))
	}
	return nil
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.peekError(token.RBRACE)
		}
		p.nextToken()
		block.Statements = append(block.Statements, p.parseStatement())
	}
	p.nextToken()
	return block
}

// parseIfStatement handles if (cond) stmt else stmt; the else branch is mandatory
func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	p.expectPeek(token.LPAREN)
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	p.nextToken()
	stmt.Consequence = p.parseStatement()
	p.expectPeek(token.ELSE)
	p.nextToken()
	stmt.Alternative = p.parseStatement()
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	p.expectPeek(token.LPAREN)
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	p.nextToken()
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStatement{Token: p.curToken}
	p.expectPeek(token.LPAREN)
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	p.expectPeek(token.SEMICOLON)
	return stmt
}

func (p *Parser) parseAssignStatement() ast.Statement {
	stmt := &ast.AssignStatement{Token: p.curToken}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken() // =
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	p.expectPeek(token.SEMICOLON)
	return stmt
}

func (p *Parser) parseArrayAssignStatement() ast.Statement {
	stmt := &ast.ArrayAssignStatement{Token: p.curToken}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken() // [
	p.nextToken()
	stmt.Index = p.parseExpression(LOWEST)
	p.expectPeek(token.RBRACKET)
	p.expectPeek(token.ASSIGN)
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	p.expectPeek(token.SEMICOLON)
	return stmt
}
