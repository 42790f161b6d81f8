package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/pipeline"
	"github.com/funvibe/invl/internal/token"
)

func types(tokens []token.Token) []token.TokenType {
	var out []token.TokenType
	for _, tok := range tokens {
		out = append(out, tok.Type)
	}
	return out
}

func TestNextToken(t *testing.T) {
	input := `main()
int x = 5
x += y * (3 - 1)
a[i] <=> a[j]
if x != 0 && !empty(l) then skip fi x <= 2
push_front(x, l) // trailing comment
`
	want := []token.TokenType{
		token.MAIN, token.LPAREN, token.RPAREN,
		token.INT_TYPE, token.IDENT, token.EQ, token.INT,
		token.IDENT, token.PLUS_ASSIGN, token.IDENT, token.ASTERISK, token.LPAREN, token.INT, token.MINUS, token.INT, token.RPAREN,
		token.IDENT, token.LBRACKET, token.IDENT, token.RBRACKET, token.SWAP, token.IDENT, token.LBRACKET, token.IDENT, token.RBRACKET,
		token.IF, token.IDENT, token.NOT_EQ, token.INT, token.AND, token.BANG, token.EMPTY, token.LPAREN, token.IDENT, token.RPAREN,
		token.THEN, token.SKIP, token.FI, token.IDENT, token.LTE, token.INT,
		token.PUSH_FRONT, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN,
		token.EOF,
	}

	assert.Equal(t, want, types(Tokenize(input)))
}

func TestLongestSymbolMatch(t *testing.T) {
	tests := []struct {
		input string
		want  []token.TokenType
	}{
		{"<=>", []token.TokenType{token.SWAP, token.EOF}},
		{"<=", []token.TokenType{token.LTE, token.EOF}},
		{"x-=-1", []token.TokenType{token.IDENT, token.MINUS_ASSIGN, token.MINUS, token.INT, token.EOF}},
		{"a[-1]", []token.TokenType{token.IDENT, token.LBRACKET, token.MINUS, token.INT, token.RBRACKET, token.EOF}},
		{"!(x)", []token.TokenType{token.BANG, token.LPAREN, token.IDENT, token.RPAREN, token.EOF}},
		{"x||y&&z", []token.TokenType{token.IDENT, token.OR, token.IDENT, token.AND, token.IDENT, token.EOF}},
		{"^=^", []token.TokenType{token.XOR_ASSIGN, token.CARET, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, types(Tokenize(tt.input)))
		})
	}
}

func TestPositions(t *testing.T) {
	tokens := Tokenize("main()\n  x += 1")
	require.Len(t, tokens, 7)

	x := tokens[3]
	assert.Equal(t, "x", x.Lexeme)
	assert.Equal(t, 2, x.Line)
	assert.Equal(t, 3, x.Column)

	one := tokens[5]
	assert.Equal(t, 1, one.Literal)
	assert.Equal(t, 8, one.Column)
}

func TestIllegalInput(t *testing.T) {
	tests := []struct {
		input string
		code  diagnostics.ErrorCode
	}{
		{"x += @", diagnostics.ErrL001},
		{"x += 12ab", diagnostics.ErrL002},
		{"x += 99999999999", diagnostics.ErrL002},
		{"x := 1", diagnostics.ErrL001},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			last := tokens[len(tokens)-1]
			require.Equal(t, token.TokenType(token.ILLEGAL), last.Type)
			assert.Equal(t, tt.code, last.Literal)
		})
	}
}

func TestMaxInt32(t *testing.T) {
	tokens := Tokenize("2147483647")
	require.Equal(t, token.TokenType(token.INT), tokens[0].Type)
	assert.Equal(t, 2147483647, tokens[0].Literal)
}

func TestLexerProcessor(t *testing.T) {
	ctx := (&LexerProcessor{}).Process(pipeline.NewPipelineContext("x += 1"))
	require.Empty(t, ctx.Errors)

	stream := ctx.TokenStream
	assert.Len(t, stream.Peek(10), 4)
	assert.Equal(t, "x", stream.Next().Lexeme)
	assert.Equal(t, "+=", stream.Next().Lexeme)
	stream.Next()
	assert.Equal(t, token.TokenType(token.EOF), stream.Next().Type)
	assert.Equal(t, token.TokenType(token.EOF), stream.Next().Type)

	ctx = (&LexerProcessor{}).Process(pipeline.NewPipelineContext("x $ 1"))
	require.Len(t, ctx.Errors, 1)
	assert.Equal(t, diagnostics.ErrL001, ctx.Errors[0].Code)
	assert.Equal(t, diagnostics.LexError, ctx.Errors[0].Code.Category())
}
