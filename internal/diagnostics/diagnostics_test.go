package diagnostics

import (
	"bytes"
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/funvibe/invl/internal/token"
)

func TestErrorFormat(t *testing.T) {
	tok := token.Token{Type: token.IDENT, Lexeme: "x", Line: 3, Column: 7}

	err := NewError(ErrR003, tok, "x")
	assert.Equal(t, "3:7: LinearityError [R003] variable x is used more than once inside an involution", err.Error())

	err.File = "swap.invl"
	assert.Equal(t, "swap.invl:3:7: LinearityError [R003] variable x is used more than once inside an involution", err.Error())

	err = NewError(ErrB001, token.Token{}, "g++ exited with status 1")
	assert.Equal(t, "BuildError [B001] g++ exited with status 1", err.Error())
}

func TestCategories(t *testing.T) {
	tests := map[ErrorCode]Category{
		ErrL002: LexError,
		ErrP003: ParseError,
		ErrN004: NameError,
		ErrR001: LinearityError,
		ErrM002: MatrixError,
		ErrI001: InversionError,
		ErrB001: BuildError,
	}
	for code, want := range tests {
		assert.Equal(t, want, code.Category(), string(code))
	}
	assert.Equal(t, Category(""), ErrorCode("").Category())
}

func TestEveryCodeHasMessage(t *testing.T) {
	for code := range errorMessages {
		assert.NotEmpty(t, code.Category(), string(code))
	}
}

func TestIsMatchesByCode(t *testing.T) {
	tok := token.Token{Line: 1, Column: 1}
	err := pkgerrors.Wrap(NewError(ErrN002, tok, "f"), "checking main.invl")

	assert.True(t, errors.Is(err, NewError(ErrN002, token.Token{})))
	assert.False(t, errors.Is(err, NewError(ErrN003, token.Token{})))

	var diag *DiagnosticError
	assert.True(t, errors.As(err, &diag))
	assert.Equal(t, "undefined procedure f", diag.Message)
}

func TestFormatterExcerpt(t *testing.T) {
	source := "main()\n    x += x\n"
	err := NewError(ErrR001, token.Token{Lexeme: "x", Line: 2, Column: 5}, "x", "x")

	var buf bytes.Buffer
	f := &Formatter{Source: source}
	f.Write(&buf, err)

	want := "error: 2:5: LinearityError [R001] mutation of x reads x\n" +
		"     2 |     x += x\n" +
		"       |     ^\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatterWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{}
	f.Write(&buf, NewError(ErrN001, token.Token{Line: 4, Column: 1}, "f"))
	assert.Equal(t, "error: 4:1: NameError [N001] procedure f is defined more than once\n", buf.String())
}

func TestFormatterColor(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Color: true, Source: "main() skip"}
	f.Write(&buf, NewError(ErrP001, token.Token{Lexeme: "skip", Line: 1, Column: 8}, "x", "y"))
	assert.Contains(t, buf.String(), ansiRed+"error"+ansiReset)
	assert.Contains(t, buf.String(), ansiYellow+"       ^^^^"+ansiReset)
}

func TestDetectColorHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, detectColor(0))
}
