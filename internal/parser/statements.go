package parser

import (
	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/token"
)

func startsStatement(t token.TokenType) bool {
	switch t {
	case token.IDENT, token.IF, token.FROM, token.LOCAL, token.CALL, token.UNCALL,
		token.SKIP, token.PRINT, token.FOR,
		token.PUSH_FRONT, token.PUSH_BACK, token.POP_FRONT, token.POP_BACK:
		return true
	}
	return false
}

// parseStatement parses one or more statements. Consecutive statements
// nest to the right: S1 S2 S3 is Sequence(S1, Sequence(S2, S3)).
func (p *Parser) parseStatement() ast.Statement {
	first := p.parseSingleStatement()
	if !startsStatement(p.peekToken.Type) {
		return first
	}
	p.nextToken()
	return &ast.SequenceStatement{Token: first.GetToken(), First: first, Second: p.parseStatement()}
}

// parseOptionalStatement parses a statement if one follows, else yields Skip.
func (p *Parser) parseOptionalStatement() ast.Statement {
	if !startsStatement(p.peekToken.Type) {
		return &ast.SkipStatement{}
	}
	p.nextToken()
	return p.parseStatement()
}

func (p *Parser) parseSingleStatement() ast.Statement {
	switch p.curToken.Type {
	case token.IDENT:
		return p.parseMutation()
	case token.IF:
		return p.parseIfStatement()
	case token.FROM:
		return p.parseLoopStatement()
	case token.PUSH_FRONT, token.PUSH_BACK, token.POP_FRONT, token.POP_BACK:
		return p.parseListStatement()
	case token.LOCAL:
		return p.parseLocalStatement()
	case token.CALL, token.UNCALL:
		return p.parseCallStatement()
	case token.SKIP:
		return &ast.SkipStatement{Token: p.curToken}
	case token.PRINT:
		stmt := &ast.PrintStatement{Token: p.curToken}
		p.expectPeek(token.LPAREN)
		p.expectPeek(token.IDENT)
		stmt.Var = ast.NewVariable(p.curToken.Lexeme)
		p.expectPeek(token.RPAREN)
		return stmt
	case token.FOR:
		return p.parseForStatement()
	}
	p.unexpected(p.curToken, "statement")
	return nil
}

// parseMutation parses
// x op e | a[i] op e | a[i] <=> a[j]
func (p *Parser) parseMutation() ast.Statement {
	tok := p.curToken
	target := ast.NewVariable(tok.Lexeme)

	if !p.peekTokenIs(token.LBRACKET) {
		op := p.parseMutOp()
		p.nextToken()
		return &ast.MutateStatement{Token: tok, Target: target, Op: op, Value: p.parseMutationValue(op)}
	}

	p.nextToken() // [
	p.nextToken()
	index := p.parseExpression(0)
	p.expectPeek(token.RBRACKET)

	op := p.parseMutOp()
	p.nextToken()
	value := p.parseMutationValue(op)

	if ie, ok := value.(*ast.IndexExpression); ok && op == ast.MutSwap && ie.Var == target {
		return &ast.IndexedSwapStatement{Token: tok, Target: target, Left: index, Right: ie.Index}
	}
	return &ast.IndexedMutateStatement{Token: tok, Target: target, Index: index, Op: op, Value: value}
}

// parseMutOp consumes the operator following the target.
func (p *Parser) parseMutOp() ast.MutOp {
	p.nextToken()
	switch p.curToken.Type {
	case token.PLUS_ASSIGN:
		return ast.MutAdd
	case token.MINUS_ASSIGN:
		return ast.MutSub
	case token.XOR_ASSIGN:
		return ast.MutXor
	case token.SWAP:
		return ast.MutSwap
	}
	p.unexpected(p.curToken, `"+=", "-=", "^=" or "<=>"`)
	return 0
}

// parseMutationValue parses the right-hand side. A swap partner must be
// storage, not an arbitrary expression.
func (p *Parser) parseMutationValue(op ast.MutOp) ast.Expression {
	if op != ast.MutSwap {
		return p.parseExpression(0)
	}
	p.expectCur(token.IDENT)
	return p.parseIdentifier()
}

// parseIfStatement parses
// if E then S1 [else S2] fi E'
// if E then S1 [else S2] end
func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(0)

	p.expectPeek(token.THEN)
	p.nextToken()
	then := p.parseStatement()

	var els ast.Statement = &ast.SkipStatement{}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		els = p.parseStatement()
	}

	switch p.peekToken.Type {
	case token.FI:
		p.nextToken()
		p.nextToken()
		exit := p.parseExpression(0)
		return &ast.IfFiStatement{Token: tok, Entry: cond, Then: then, Else: els, Exit: exit}
	case token.END:
		p.nextToken()
		return &ast.IfStatement{Token: tok, Condition: cond, Then: then, Else: els}
	}
	p.unexpected(p.peekToken, `"fi" or "end"`)
	return nil
}

// parseLoopStatement parses
// from E [do S1] [loop S2] until E'
func (p *Parser) parseLoopStatement() *ast.LoopStatement {
	stmt := &ast.LoopStatement{Token: p.curToken}
	p.nextToken()
	stmt.Entry = p.parseExpression(0)

	stmt.Do = &ast.SkipStatement{}
	if p.peekTokenIs(token.DO) {
		p.nextToken()
		stmt.Do = p.parseOptionalStatement()
	}

	stmt.Loop = &ast.SkipStatement{}
	if p.peekTokenIs(token.LOOP) {
		p.nextToken()
		stmt.Loop = p.parseOptionalStatement()
	}

	p.expectPeek(token.UNTIL)
	p.nextToken()
	stmt.Exit = p.parseExpression(0)
	return stmt
}

// parseListStatement parses
// push_front(x, l) | push_back(3, l) | pop_front(x, l) | pop_back(-1, l)
func (p *Parser) parseListStatement() ast.Statement {
	tok := p.curToken
	p.expectPeek(token.LPAREN)
	p.nextToken()

	var operand ast.Expression
	switch p.curToken.Type {
	case token.IDENT:
		operand = &ast.VariableExpression{Token: p.curToken, Var: ast.NewVariable(p.curToken.Lexeme)}
	case token.INT:
		operand = &ast.IntegerLiteral{Token: p.curToken, Value: p.curToken.Literal.(int)}
	case token.MINUS:
		minus := p.curToken
		p.expectPeek(token.INT)
		operand = &ast.IntegerLiteral{Token: minus, Value: -p.curToken.Literal.(int)}
	default:
		p.unexpected(p.curToken, "integer or variable")
	}

	p.expectPeek(token.COMMA)
	p.expectPeek(token.IDENT)
	list := ast.NewVariable(p.curToken.Lexeme)
	p.expectPeek(token.RPAREN)

	switch tok.Type {
	case token.PUSH_FRONT:
		return &ast.PushStatement{Token: tok, End: ast.Front, Operand: operand, List: list}
	case token.PUSH_BACK:
		return &ast.PushStatement{Token: tok, End: ast.Back, Operand: operand, List: list}
	case token.POP_FRONT:
		return &ast.PopStatement{Token: tok, End: ast.Front, Operand: operand, List: list}
	default:
		return &ast.PopStatement{Token: tok, End: ast.Back, Operand: operand, List: list}
	}
}

// parseLocalStatement parses
// local T x = e [S] delocal T x = e'
func (p *Parser) parseLocalStatement() *ast.LocalStatement {
	stmt := &ast.LocalStatement{Token: p.curToken}
	p.nextToken()
	stmt.Local = p.parseTypedVariable()
	p.expectPeek(token.EQ)
	p.nextToken()
	stmt.Init = p.parseExpression(0)

	stmt.Body = p.parseOptionalStatement()

	p.expectPeek(token.DELOCAL)
	delocalTok := p.curToken
	p.nextToken()
	stmt.Delocal = p.parseTypedVariable()
	if !stmt.Local.Equal(stmt.Delocal) {
		p.fail(diagnostics.ErrP002, delocalTok, stmt.Local.String(), stmt.Delocal.String())
	}
	p.expectPeek(token.EQ)
	p.nextToken()
	stmt.Final = p.parseExpression(0)
	return stmt
}

// parseCallStatement parses
// call f(x, y) | uncall f()
func (p *Parser) parseCallStatement() *ast.CallStatement {
	stmt := &ast.CallStatement{Token: p.curToken, Uncall: p.curTokenIs(token.UNCALL)}
	p.expectPeek(token.IDENT)
	stmt.Proc = ast.NewProcId(p.curToken.Lexeme)
	p.expectPeek(token.LPAREN)

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return stmt
	}
	for {
		p.expectPeek(token.IDENT)
		stmt.Args = append(stmt.Args, ast.NewVariable(p.curToken.Lexeme))
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expectPeek(token.RPAREN)
	return stmt
}

// parseForStatement parses
// for packs in containers do S end
func (p *Parser) parseForStatement() *ast.ForStatement {
	stmt := &ast.ForStatement{Token: p.curToken}
	p.nextToken()
	stmt.Packs = p.parsePacks()
	p.expectPeek(token.IN)
	p.nextToken()
	stmt.Containers = p.parseContainers()

	if len(stmt.Packs) != len(stmt.Containers) {
		p.fail(diagnostics.ErrP003, stmt.Token, len(stmt.Packs), len(stmt.Containers))
	}

	p.expectPeek(token.DO)
	p.nextToken()
	stmt.Body = p.parseStatement()
	p.expectPeek(token.END)
	return stmt
}

// parsePacks parses `x`, `[x, y]`, or a parenthesized list of those.
func (p *Parser) parsePacks() [][]ast.Variable {
	if !p.curTokenIs(token.LPAREN) {
		return [][]ast.Variable{p.parsePack()}
	}
	var packs [][]ast.Variable
	for {
		p.nextToken()
		packs = append(packs, p.parsePack())
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expectPeek(token.RPAREN)
	return packs
}

func (p *Parser) parsePack() []ast.Variable {
	if p.curTokenIs(token.IDENT) {
		return []ast.Variable{ast.NewVariable(p.curToken.Lexeme)}
	}
	p.expectCur(token.LBRACKET)
	var pack []ast.Variable
	for {
		p.expectPeek(token.IDENT)
		pack = append(pack, ast.NewVariable(p.curToken.Lexeme))
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expectPeek(token.RBRACKET)
	return pack
}

// parseContainers parses `a`, `a[p]`, or a parenthesized list of those.
func (p *Parser) parseContainers() []ast.Container {
	if !p.curTokenIs(token.LPAREN) {
		return []ast.Container{p.parseContainer()}
	}
	var containers []ast.Container
	for {
		p.nextToken()
		containers = append(containers, p.parseContainer())
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expectPeek(token.RPAREN)
	return containers
}

func (p *Parser) parseContainer() ast.Container {
	p.expectCur(token.IDENT)
	c := ast.Container{Var: ast.NewVariable(p.curToken.Lexeme)}
	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		p.expectPeek(token.IDENT)
		c.Perm = ast.NewVariable(p.curToken.Lexeme)
		p.expectPeek(token.RBRACKET)
	}
	return c
}
