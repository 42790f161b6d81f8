package parser

import (
	"strconv"

	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/pipeline"
	"github.com/funvibe/invl/internal/token"
)

type (
	prefixParseFn func() ast.Expression
)

// bailout unwinds the parser after the first error has been recorded.
type bailout struct{}

type Parser struct {
	stream pipeline.TokenStream
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
}

func New(stream pipeline.TokenStream, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{stream: stream, ctx: ctx}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.NIL, p.parseNilLiteral)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.EMPTY, p.parseContainerQuery)
	p.registerPrefix(token.SIZE, p.parseContainerQuery)
	p.registerPrefix(token.TOP, p.parseContainerQuery)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances when the next token has type t and fails otherwise.
func (p *Parser) expectPeek(t token.TokenType) {
	if p.peekTokenIs(t) {
		p.nextToken()
		return
	}
	p.unexpected(p.peekToken, describeType(t))
}

// expectCur fails unless the current token has type t.
func (p *Parser) expectCur(t token.TokenType) {
	if !p.curTokenIs(t) {
		p.unexpected(p.curToken, describeType(t))
	}
}

// unexpected reports tok where expected was wanted and stops parsing.
func (p *Parser) unexpected(tok token.Token, expected string) {
	if tok.Type == token.EOF {
		p.fail(diagnostics.ErrP004, tok, expected)
	}
	p.fail(diagnostics.ErrP001, tok, expected, describe(tok))
}

// fail records the error and unwinds to ParseProgram. It never returns.
func (p *Parser) fail(code diagnostics.ErrorCode, tok token.Token, args ...interface{}) {
	err := diagnostics.NewError(code, tok, args...)
	err.File = p.ctx.FilePath
	p.ctx.Errors = append(p.ctx.Errors, err)
	panic(bailout{})
}

// ParseProgram parses a whole source file. It returns nil after recording
// the first error in the pipeline context.
func (p *Parser) ParseProgram() (program *ast.Program) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			program = nil
		}
	}()

	program = &ast.Program{File: p.ctx.FilePath}

	p.expectCur(token.MAIN)
	program.Main = p.parseMainProcedure()

	for !p.peekTokenIs(token.EOF) {
		p.nextToken()
		program.Procs = append(program.Procs, p.parseProc())
	}

	return program
}

// describe renders a token for "got ..." in error messages.
func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return strconv.Quote(tok.Lexeme)
}

// describeType renders an expected token type.
func describeType(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.INT:
		return "integer"
	case token.EOF:
		return "end of input"
	}
	for spelling, tt := range token.Keywords() {
		if tt == t {
			return strconv.Quote(spelling)
		}
	}
	return strconv.Quote(string(t))
}
