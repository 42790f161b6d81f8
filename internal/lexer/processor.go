package lexer

import (
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/pipeline"
	"github.com/funvibe/invl/internal/token"
)

// TokenStream is a slice-backed pipeline.TokenStream. Reading past the end
// keeps returning the final token.
type TokenStream struct {
	tokens []token.Token
	pos    int
}

func NewTokenStream(tokens []token.Token) *TokenStream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, token.Token{Type: token.EOF, Line: line})
	}
	return &TokenStream{tokens: tokens}
}

func (s *TokenStream) Next() token.Token {
	tok := s.tokens[s.pos]
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return tok
}

// Peek returns up to n upcoming tokens without consuming them.
func (s *TokenStream) Peek(n int) []token.Token {
	end := s.pos + n
	if end > len(s.tokens) {
		end = len(s.tokens)
	}
	return s.tokens[s.pos:end]
}

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tokens := Tokenize(ctx.SourceCode)

	last := tokens[len(tokens)-1]
	if last.Type == token.ILLEGAL {
		code, _ := last.Literal.(diagnostics.ErrorCode)
		if code == "" {
			code = diagnostics.ErrL001
		}
		err := diagnostics.NewError(code, last, last.Lexeme)
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	ctx.Tokens = tokens
	ctx.TokenStream = NewTokenStream(tokens)
	return ctx
}
