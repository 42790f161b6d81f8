package token

import (
	"fmt"
	"sync"
)

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT = "IDENT"
	INT   = "INT"

	// Delimiters
	LPAREN    = "("
	RPAREN    = ")"
	LBRACKET  = "["
	RBRACKET  = "]"
	COMMA     = ","
	SEMICOLON = ";"

	// Arithmetic
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"

	// Bitwise
	CARET     = "^"
	AMPERSAND = "&"
	PIPE      = "|"

	// Logical
	AND  = "&&"
	OR   = "||"
	BANG = "!"

	// Comparison. Equality is a single '=' in this language.
	EQ     = "="
	NOT_EQ = "!="
	LT     = "<"
	GT     = ">"
	LTE    = "<="
	GTE    = ">="

	// Reversible mutation
	PLUS_ASSIGN  = "+="
	MINUS_ASSIGN = "-="
	XOR_ASSIGN   = "^="
	SWAP         = "<=>"

	// Keywords
	MAIN       = "MAIN"
	INJ        = "INJ"
	INVL       = "INVL"
	WITH       = "WITH"
	CONST      = "CONST"
	INT_TYPE   = "INT_TYPE"
	LIST_TYPE  = "LIST_TYPE"
	ARRAY_TYPE = "ARRAY_TYPE"
	IF         = "IF"
	THEN       = "THEN"
	ELSE       = "ELSE"
	FI         = "FI"
	END        = "END"
	FROM       = "FROM"
	DO         = "DO"
	LOOP       = "LOOP"
	UNTIL      = "UNTIL"
	LOCAL      = "LOCAL"
	DELOCAL    = "DELOCAL"
	CALL       = "CALL"
	UNCALL     = "UNCALL"
	SKIP       = "SKIP"
	PRINT      = "PRINT"
	FOR        = "FOR"
	IN         = "IN"
	PUSH_FRONT = "PUSH_FRONT"
	PUSH_BACK  = "PUSH_BACK"
	POP_FRONT  = "POP_FRONT"
	POP_BACK   = "POP_BACK"
	EMPTY      = "EMPTY"
	SIZE       = "SIZE"
	TOP        = "TOP"
	NIL        = "NIL"
)

// Keywords returns the reserved-word table. It is built on first use and
// never mutated afterwards.
var Keywords = sync.OnceValue(func() map[string]TokenType {
	return map[string]TokenType{
		"main":       MAIN,
		"inj":        INJ,
		"invl":       INVL,
		"with":       WITH,
		"const":      CONST,
		"int":        INT_TYPE,
		"list":       LIST_TYPE,
		"array":      ARRAY_TYPE,
		"if":         IF,
		"then":       THEN,
		"else":       ELSE,
		"fi":         FI,
		"end":        END,
		"from":       FROM,
		"do":         DO,
		"loop":       LOOP,
		"until":      UNTIL,
		"local":      LOCAL,
		"delocal":    DELOCAL,
		"call":       CALL,
		"uncall":     UNCALL,
		"skip":       SKIP,
		"print":      PRINT,
		"for":        FOR,
		"in":         IN,
		"push_front": PUSH_FRONT,
		"push_back":  PUSH_BACK,
		"pop_front":  POP_FRONT,
		"pop_back":   POP_BACK,
		"empty":      EMPTY,
		"size":       SIZE,
		"top":        TOP,
		"nil":        NIL,
	}
})

// Symbols returns the operator and delimiter table keyed by spelling.
var Symbols = sync.OnceValue(func() map[string]TokenType {
	return map[string]TokenType{
		"(":   LPAREN,
		")":   RPAREN,
		"[":   LBRACKET,
		"]":   RBRACKET,
		",":   COMMA,
		";":   SEMICOLON,
		"+":   PLUS,
		"-":   MINUS,
		"*":   ASTERISK,
		"/":   SLASH,
		"%":   PERCENT,
		"^":   CARET,
		"&":   AMPERSAND,
		"|":   PIPE,
		"&&":  AND,
		"||":  OR,
		"!":   BANG,
		"=":   EQ,
		"!=":  NOT_EQ,
		"<":   LT,
		">":   GT,
		"<=":  LTE,
		">=":  GTE,
		"+=":  PLUS_ASSIGN,
		"-=":  MINUS_ASSIGN,
		"^=":  XOR_ASSIGN,
		"<=>": SWAP,
	}
})

func LookupIdent(ident string) TokenType {
	if tok, ok := Keywords()[ident]; ok {
		return tok
	}
	return IDENT
}

// LookupSymbol reports the token type of an operator spelling.
func LookupSymbol(s string) (TokenType, bool) {
	tok, ok := Symbols()[s]
	return tok, ok
}

// IsSymbolChar reports whether ch can appear in an operator or delimiter.
func IsSymbolChar(ch rune) bool {
	switch ch {
	case '(', ')', '[', ']', ',', ';', '+', '-', '*', '/', '%', '^', '&', '|', '!', '=', '<', '>':
		return true
	}
	return false
}
