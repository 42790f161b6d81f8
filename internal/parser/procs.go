package parser

import (
	"errors"
	"strconv"

	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/matrix"
	"github.com/funvibe/invl/internal/token"
)

// parseMainProcedure parses
// main() decl* S [with T]
func (p *Parser) parseMainProcedure() *ast.MainProcedure {
	mp := &ast.MainProcedure{Token: p.curToken}
	p.expectPeek(token.LPAREN)
	p.expectPeek(token.RPAREN)

	for p.peekStartsType() {
		p.nextToken()
		decl := &ast.Declaration{Var: p.parseTypedVariable()}
		if p.peekTokenIs(token.EQ) {
			p.nextToken() // =
			p.nextToken()
			decl.Value = p.parseExpression(0)
		}
		mp.Decls = append(mp.Decls, decl)
	}

	p.nextToken()
	mp.Body = p.parseStatement()

	if p.peekTokenIs(token.WITH) {
		p.nextToken() // with
		p.nextToken()
		mp.Invl = p.parseStatement()
	}

	return mp
}

func (p *Parser) parseProc() ast.Proc {
	switch p.curToken.Type {
	case token.INJ:
		return p.parseInjectiveProc()
	case token.INVL:
		return p.parseInvolutiveProc()
	}
	p.unexpected(p.curToken, `"inj" or "invl"`)
	return nil
}

// parseInjectiveProc parses
// inj f(params) S
func (p *Parser) parseInjectiveProc() *ast.InjectiveProc {
	proc := &ast.InjectiveProc{Token: p.curToken}
	p.expectPeek(token.IDENT)
	proc.Name = ast.NewProcId(p.curToken.Lexeme)
	p.expectPeek(token.LPAREN)
	proc.Params = p.parseParams()

	p.nextToken()
	proc.Body = p.parseStatement()
	return proc
}

// parseInvolutiveProc parses
// invl f(params) [S] with T
// invl f[matrix]
func (p *Parser) parseInvolutiveProc() ast.Proc {
	tok := p.curToken
	p.expectPeek(token.IDENT)
	name := ast.NewProcId(p.curToken.Lexeme)

	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		return p.parseMatrixProc(tok, name)
	}

	proc := &ast.InvolutiveProc{Token: tok, Name: name}
	p.expectPeek(token.LPAREN)
	proc.Params = p.parseParams()

	proc.Body = p.parseOptionalStatement()
	p.expectPeek(token.WITH)
	p.nextToken()
	proc.Invl = p.parseStatement()
	return proc
}

// parseMatrixProc parses a row-major integer list. Commas and semicolons
// are separators only; the validator decides the shape.
func (p *Parser) parseMatrixProc(tok token.Token, name ast.ProcId) *ast.MatrixProc {
	var data []int

	for {
		p.nextToken()
		switch p.curToken.Type {
		case token.RBRACKET:
			m, err := matrix.NewInvolutory(data)
			if err != nil {
				p.matrixError(tok, name, err)
			}
			return &ast.MatrixProc{Token: tok, Name: name, Matrix: m}
		case token.COMMA, token.SEMICOLON:
			continue
		case token.MINUS:
			p.expectPeek(token.INT)
			data = append(data, -p.curToken.Literal.(int))
		case token.INT:
			data = append(data, p.curToken.Literal.(int))
		default:
			p.unexpected(p.curToken, `integer or "]"`)
		}
	}
}

func (p *Parser) matrixError(tok token.Token, name ast.ProcId, err error) {
	var nonSquare *matrix.NonSquareError
	if errors.As(err, &nonSquare) {
		p.fail(diagnostics.ErrM001, tok, nonSquare.Len)
	}
	var notInvl *matrix.NotInvolutoryError
	if errors.As(err, &notInvl) {
		p.fail(diagnostics.ErrM002, tok, name.Name()+" "+notInvl.Matrix.String())
	}
	p.fail(diagnostics.ErrM002, tok, name.Name())
}

// parseParams parses a parenthesized typed parameter list. curToken is '('.
func (p *Parser) parseParams() []ast.TypedVariable {
	var params []ast.TypedVariable
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	for {
		p.nextToken()
		params = append(params, p.parseTypedVariable())
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expectPeek(token.RPAREN)
	return params
}

func (p *Parser) peekStartsType() bool {
	switch p.peekToken.Type {
	case token.CONST, token.INT_TYPE, token.LIST_TYPE, token.ARRAY_TYPE:
		return true
	}
	return false
}

// parseTypedVariable parses `type name`, leaving curToken on the name.
func (p *Parser) parseTypedVariable() ast.TypedVariable {
	tv := ast.TypedVariable{Token: p.curToken, Type: p.parseType()}
	p.expectPeek(token.IDENT)
	tv.Var = ast.NewVariable(p.curToken.Lexeme)
	return tv
}

// parseType parses
// [const] (int | list | array[n])
func (p *Parser) parseType() ast.Type {
	var t ast.Type
	if p.curTokenIs(token.CONST) {
		t.Const = true
		p.nextToken()
	}

	switch p.curToken.Type {
	case token.INT_TYPE:
		t.Kind = ast.KindInt
	case token.LIST_TYPE:
		t.Kind = ast.KindList
	case token.ARRAY_TYPE:
		t.Kind = ast.KindArray
		p.expectPeek(token.LBRACKET)
		p.expectPeek(token.INT)
		t.Size = p.curToken.Literal.(int)
		if t.Size <= 0 {
			p.fail(diagnostics.ErrP005, p.curToken, "array size must be positive, got "+strconv.Itoa(t.Size))
		}
		p.expectPeek(token.RBRACKET)
	default:
		p.unexpected(p.curToken, "type")
	}
	return t
}
