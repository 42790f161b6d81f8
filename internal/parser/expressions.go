package parser

import (
	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/token"
)

var binaryOperators = map[token.TokenType]ast.BinOp{
	token.OR:        ast.OpOr,
	token.AND:       ast.OpAnd,
	token.PIPE:      ast.OpBitOr,
	token.CARET:     ast.OpXor,
	token.AMPERSAND: ast.OpBitAnd,
	token.EQ:        ast.OpEq,
	token.NOT_EQ:    ast.OpNotEq,
	token.LT:        ast.OpLt,
	token.GT:        ast.OpGt,
	token.LTE:       ast.OpLte,
	token.GTE:       ast.OpGte,
	token.PLUS:      ast.OpAdd,
	token.MINUS:     ast.OpSub,
	token.ASTERISK:  ast.OpMul,
	token.SLASH:     ast.OpDiv,
	token.PERCENT:   ast.OpRem,
}

// parseExpression is a precedence climber. It keeps consuming binary
// operators that bind at least as tightly as minPrec. All operators are
// right-associative, so the right operand is parsed at the operator's own
// precedence.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.unexpected(p.curToken, "expression")
	}
	left := prefix()

	for {
		op, ok := binaryOperators[p.peekToken.Type]
		if !ok || op.Precedence() < minPrec {
			return left
		}
		p.nextToken()
		opTok := p.curToken
		p.nextToken()
		right := p.parseExpression(op.Precedence())
		left = &ast.InfixExpression{Token: opTok, Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Op: ast.OpNeg}
	if p.curTokenIs(token.BANG) {
		expr.Op = ast.OpNot
	}
	p.nextToken()
	expr.Right = p.parseExpression(ast.PrefixPrecedence)
	return expr
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	return &ast.IntegerLiteral{Token: p.curToken, Value: p.curToken.Literal.(int)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

// parseIdentifier parses `x` or `x[e]`.
func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.curToken
	v := ast.NewVariable(tok.Lexeme)
	if !p.peekTokenIs(token.LBRACKET) {
		return &ast.VariableExpression{Token: tok, Var: v}
	}
	p.nextToken() // [
	p.nextToken()
	index := p.parseExpression(0)
	p.expectPeek(token.RBRACKET)
	return &ast.IndexExpression{Token: tok, Var: v, Index: index}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	inner := p.parseExpression(0)
	p.expectPeek(token.RPAREN)
	return &ast.GroupedExpression{Token: tok, Inner: inner}
}

// parseArrayLiteral parses `[e, ...]`, possibly empty.
func (p *Parser) parseArrayLiteral() ast.Expression {
	lit := &ast.ArrayLiteral{Token: p.curToken}
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return lit
	}
	for {
		p.nextToken()
		lit.Elements = append(lit.Elements, p.parseExpression(0))
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expectPeek(token.RBRACKET)
	return lit
}

// parseContainerQuery parses empty(x), size(x) and top(x).
func (p *Parser) parseContainerQuery() ast.Expression {
	tok := p.curToken
	p.expectPeek(token.LPAREN)
	p.expectPeek(token.IDENT)
	v := ast.NewVariable(p.curToken.Lexeme)
	p.expectPeek(token.RPAREN)

	switch tok.Type {
	case token.EMPTY:
		return &ast.EmptyExpression{Token: tok, Var: v}
	case token.SIZE:
		return &ast.SizeExpression{Token: tok, Var: v}
	default:
		return &ast.TopExpression{Token: tok, Var: v}
	}
}
