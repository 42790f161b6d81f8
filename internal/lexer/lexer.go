package lexer

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/token"
)

// longest operator spelling, "<=>"
const maxSymbolLen = 3

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken scans one token. Malformed input yields an ILLEGAL token whose
// Literal is the diagnostics.ErrorCode describing the problem.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	if l.atEOF() {
		return token.Token{Type: token.EOF, Lexeme: "", Line: l.line, Column: l.column}
	}

	switch {
	case isLetter(l.ch):
		line, col := l.line, l.column
		ident := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: line, Column: col}
	case isDigit(l.ch):
		return l.readNumber()
	case token.IsSymbolChar(l.ch):
		return l.readSymbol()
	}

	tok := token.Token{Type: token.ILLEGAL, Lexeme: string(l.ch), Literal: diagnostics.ErrL001, Line: l.line, Column: l.column}
	l.readChar()
	return tok
}

// readSymbol takes the longest operator that prefixes the input.
func (l *Lexer) readSymbol() token.Token {
	line, col := l.line, l.column
	start := l.position

	end := start
	for end < len(l.input) && end-start < maxSymbolLen && token.IsSymbolChar(rune(l.input[end])) {
		end++
	}

	for n := end - start; n > 0; n-- {
		lexeme := l.input[start : start+n]
		if tt, ok := token.LookupSymbol(lexeme); ok {
			for i := 0; i < n; i++ {
				l.readChar()
			}
			return token.Token{Type: tt, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
		}
	}

	lexeme := string(l.ch)
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: diagnostics.ErrL001, Line: line, Column: col}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a decimal literal that must fit in 32 bits. Letters glued
// to the digits make the whole word invalid.
func (l *Lexer) readNumber() token.Token {
	line, col := l.line, l.column
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	bad := false
	for isLetter(l.ch) || isDigit(l.ch) {
		bad = true
		l.readChar()
	}
	lexeme := l.input[position:l.position]
	if bad {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: diagnostics.ErrL002, Line: line, Column: col}
	}

	val, err := strconv.ParseInt(lexeme, 10, 32)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: diagnostics.ErrL002, Line: line, Column: col}
	}
	return token.Token{Type: token.INT, Lexeme: lexeme, Literal: int(val), Line: line, Column: col}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for {
		for !l.atEOF() && unicode.IsSpace(l.ch) {
			l.readChar()
		}
		// Line comments
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
			continue
		}
		break
	}
}

// Tokenize scans the whole input. The result always ends with EOF unless
// an ILLEGAL token stopped the scan, in which case it ends with that token.
func Tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
			return tokens
		}
	}
}
