package diagnostics

import (
	"fmt"

	"github.com/funvibe/invl/internal/token"
)

type ErrorCode string

// Category groups error codes into the families reported to users.
type Category string

const (
	LexError       Category = "LexError"
	ParseError     Category = "ParseError"
	NameError      Category = "NameError"
	LinearityError Category = "LinearityError"
	MatrixError    Category = "MatrixError"
	InversionError Category = "InversionError"
	BuildError     Category = "BuildError"
)

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // invalid symbol
	ErrL002 ErrorCode = "L002" // invalid integer literal

	// Parser
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // local/delocal mismatch
	ErrP003 ErrorCode = "P003" // for-loop pack/container count mismatch
	ErrP004 ErrorCode = "P004" // unexpected end of input
	ErrP005 ErrorCode = "P005" // invalid literal value

	// Names and call classes
	ErrN001 ErrorCode = "N001" // duplicate procedure
	ErrN002 ErrorCode = "N002" // undefined procedure
	ErrN003 ErrorCode = "N003" // injective call inside involution
	ErrN004 ErrorCode = "N004" // argument count mismatch
	ErrN005 ErrorCode = "N005" // undefined variable

	// Reversibility
	ErrR001 ErrorCode = "R001" // mutation reads its own target
	ErrR002 ErrorCode = "R002" // repeated call argument
	ErrR003 ErrorCode = "R003" // variable used twice inside involution
	ErrR004 ErrorCode = "R004" // statement not allowed inside involution
	ErrR005 ErrorCode = "R005" // const binding mutated

	// Matrices
	ErrM001 ErrorCode = "M001" // not square
	ErrM002 ErrorCode = "M002" // not involutory

	// Inversion
	ErrI001 ErrorCode = "I001" // statement has no inverse

	// Build
	ErrB001 ErrorCode = "B001" // code generation or native build failure
)

var errorMessages = map[ErrorCode]string{
	ErrL001: "invalid symbol %q",
	ErrL002: "invalid integer literal %q",

	ErrP001: "unexpected token: expected %s, got %s",
	ErrP002: "local %s does not match delocal %s",
	ErrP003: "for loop binds %d pack(s) to %d container(s)",
	ErrP004: "unexpected end of input: expected %s",
	ErrP005: "invalid literal: %s",

	ErrN001: "procedure %s is defined more than once",
	ErrN002: "undefined procedure %s",
	ErrN003: "cannot call injective procedure %s inside an involution",
	ErrN004: "procedure %s expects %d argument(s), got %d",
	ErrN005: "undefined variable %s",

	ErrR001: "mutation of %s reads %s",
	ErrR002: "variable %s is passed more than once to %s",
	ErrR003: "variable %s is used more than once inside an involution",
	ErrR004: "%s is not allowed inside an involution",
	ErrR005: "cannot mutate const %s",

	ErrM001: "matrix has an invalid size %d",
	ErrM002: "matrix %s is not involutory",

	ErrI001: "%s has no inverse",

	ErrB001: "%s",
}

var errorCategories = map[byte]Category{
	'L': LexError,
	'P': ParseError,
	'N': NameError,
	'R': LinearityError,
	'M': MatrixError,
	'I': InversionError,
	'B': BuildError,
}

// Category reports the family of the code.
func (c ErrorCode) Category() Category {
	if len(c) == 0 {
		return ""
	}
	return errorCategories[c[0]]
}

type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
	Args    []interface{}
}

func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	msg := code.format(args...)
	return &DiagnosticError{Code: code, Token: tok, Message: msg, Args: args}
}

func (c ErrorCode) format(args ...interface{}) string {
	tmpl, ok := errorMessages[c]
	if !ok {
		return fmt.Sprint(args...)
	}
	return fmt.Sprintf(tmpl, args...)
}

func (e *DiagnosticError) Error() string {
	loc := ""
	if e.Token.Line > 0 {
		loc = fmt.Sprintf("%d:%d: ", e.Token.Line, e.Token.Column)
	}
	if e.File != "" {
		loc = e.File + ":" + loc
		if e.Token.Line == 0 {
			loc += " "
		}
	}
	return fmt.Sprintf("%s%s [%s] %s", loc, e.Code.Category(), e.Code, e.Message)
}

// Is matches another diagnostic by code, so errors.Is works against a
// sentinel built with NewError(code, token.Token{}).
func (e *DiagnosticError) Is(target error) bool {
	t, ok := target.(*DiagnosticError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
