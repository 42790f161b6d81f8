package ast

import (
	"strconv"
	"strings"
	"unique"

	"github.com/funvibe/invl/internal/matrix"
	"github.com/funvibe/invl/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
// Expressions are immutable once built and may be shared by several parents.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Variable is an interned variable name. Two variables are equal iff their
// names are equal, so Variable works as a map key.
type Variable struct {
	h unique.Handle[string]
}

func NewVariable(name string) Variable {
	return Variable{h: unique.Make(name)}
}

func (v Variable) Name() string {
	if v.IsZero() {
		return ""
	}
	return v.h.Value()
}

func (v Variable) String() string { return v.Name() }

func (v Variable) GoString() string { return "ast.NewVariable(" + strconv.Quote(v.Name()) + ")" }

// IsZero reports whether v is the zero Variable, which names nothing.
func (v Variable) IsZero() bool {
	return v.h == unique.Handle[string]{}
}

// Compare orders variables by name.
func (v Variable) Compare(other Variable) int {
	return strings.Compare(v.Name(), other.Name())
}

// ProcId is an interned procedure name.
type ProcId struct {
	h unique.Handle[string]
}

func NewProcId(name string) ProcId {
	return ProcId{h: unique.Make(name)}
}

func (p ProcId) Name() string {
	if p == (ProcId{}) {
		return ""
	}
	return p.h.Value()
}

func (p ProcId) String() string { return p.Name() }

func (p ProcId) GoString() string { return "ast.NewProcId(" + strconv.Quote(p.Name()) + ")" }

func (p ProcId) Compare(other ProcId) int {
	return strings.Compare(p.Name(), other.Name())
}

type Kind int

const (
	KindInt Kind = iota
	KindArray
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindArray:
		return "array"
	case KindList:
		return "list"
	}
	return "unknown"
}

// Type is a variable's declared type. Size is only meaningful for arrays.
type Type struct {
	Kind  Kind
	Size  int
	Const bool
}

func (t Type) String() string {
	var b strings.Builder
	if t.Const {
		b.WriteString("const ")
	}
	b.WriteString(t.Kind.String())
	if t.Kind == KindArray {
		b.WriteString("[")
		b.WriteString(strconv.Itoa(t.Size))
		b.WriteString("]")
	}
	return b.String()
}

// TypedVariable pairs a variable with its declared type.
type TypedVariable struct {
	Token token.Token // the type's first token
	Type  Type
	Var   Variable
}

// Equal compares type and name, ignoring source position.
func (tv TypedVariable) Equal(other TypedVariable) bool {
	return tv.Type == other.Type && tv.Var == other.Var
}

func (tv TypedVariable) String() string {
	return tv.Type.String() + " " + tv.Var.Name()
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File  string // Source file path
	Main  *MainProcedure
	Procs []Proc
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string {
	if p.Main != nil {
		return p.Main.TokenLiteral()
	}
	return ""
}

// LookupProc returns the first procedure named id.
func (p *Program) LookupProc(id ProcId) (Proc, bool) {
	for _, proc := range p.Procs {
		if proc.ID() == id {
			return proc, true
		}
	}
	return nil, false
}

// Declaration is a variable declared by main, with an optional initializer.
// int x = 3
type Declaration struct {
	Var   TypedVariable
	Value Expression // nil when the variable starts zeroed
}

func (d *Declaration) GetToken() token.Token { return d.Var.Token }

// MainProcedure is the entry point.
// main() decl* S [with T]
type MainProcedure struct {
	Token token.Token // The 'main' token
	Decls []*Declaration
	Body  Statement
	Invl  Statement // nil when main has no involution part
}

func (mp *MainProcedure) Accept(v Visitor)     { v.VisitMainProcedure(mp) }
func (mp *MainProcedure) TokenLiteral() string { return mp.Token.Lexeme }
func (mp *MainProcedure) GetToken() token.Token {
	if mp == nil {
		return token.Token{}
	}
	return mp.Token
}

// Proc is any named procedure.
type Proc interface {
	Node
	procNode()
	ID() ProcId
	GetToken() token.Token
	// Arity is the number of arguments a call must pass.
	Arity() int
}

// InjectiveProc runs one way; its backward version is the flipped body.
// inj f(int x, list l) S
type InjectiveProc struct {
	Token  token.Token // The 'inj' token
	Name   ProcId
	Params []TypedVariable
	Body   Statement
}

func (ip *InjectiveProc) Accept(v Visitor)     { v.VisitInjectiveProc(ip) }
func (ip *InjectiveProc) procNode()            {}
func (ip *InjectiveProc) ID() ProcId           { return ip.Name }
func (ip *InjectiveProc) Arity() int           { return len(ip.Params) }
func (ip *InjectiveProc) TokenLiteral() string { return ip.Token.Lexeme }
func (ip *InjectiveProc) GetToken() token.Token {
	if ip == nil {
		return token.Token{}
	}
	return ip.Token
}

// InvolutiveProc is self-inverse: it runs Body, then Invl, then Body flipped.
// invl f(int x) S with T
type InvolutiveProc struct {
	Token  token.Token // The 'invl' token
	Name   ProcId
	Params []TypedVariable
	Body   Statement
	Invl   Statement
}

func (ip *InvolutiveProc) Accept(v Visitor)     { v.VisitInvolutiveProc(ip) }
func (ip *InvolutiveProc) procNode()            {}
func (ip *InvolutiveProc) ID() ProcId           { return ip.Name }
func (ip *InvolutiveProc) Arity() int           { return len(ip.Params) }
func (ip *InvolutiveProc) TokenLiteral() string { return ip.Token.Lexeme }
func (ip *InvolutiveProc) GetToken() token.Token {
	if ip == nil {
		return token.Token{}
	}
	return ip.Token
}

// MatrixProc applies a validated involutory matrix to its arguments.
// invl f[0, 1; 1, 0]
type MatrixProc struct {
	Token  token.Token // The 'invl' token
	Name   ProcId
	Matrix *matrix.Involutory
}

func (mp *MatrixProc) Accept(v Visitor)     { v.VisitMatrixProc(mp) }
func (mp *MatrixProc) procNode()            {}
func (mp *MatrixProc) ID() ProcId           { return mp.Name }
func (mp *MatrixProc) Arity() int           { return mp.Matrix.Size() }
func (mp *MatrixProc) TokenLiteral() string { return mp.Token.Lexeme }
func (mp *MatrixProc) GetToken() token.Token {
	if mp == nil {
		return token.Token{}
	}
	return mp.Token
}
