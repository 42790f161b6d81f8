package ast

import (
	"strconv"

	"github.com/funvibe/invl/internal/token"
)

type BinOp int

const (
	OpOr BinOp = iota
	OpAnd
	OpBitOr
	OpXor
	OpBitAnd
	OpEq
	OpNotEq
	OpLt
	OpGt
	OpLte
	OpGte
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
)

var binOps = [...]struct {
	symbol string
	name   string
	prec   int
}{
	OpOr:     {"||", "LogicalOr", 0},
	OpAnd:    {"&&", "LogicalAnd", 1},
	OpBitOr:  {"|", "BitwiseOr", 2},
	OpXor:    {"^", "Xor", 3},
	OpBitAnd: {"&", "BitwiseAnd", 4},
	OpEq:     {"=", "Equal", 5},
	OpNotEq:  {"!=", "NotEqual", 5},
	OpLt:     {"<", "LessThan", 6},
	OpGt:     {">", "GreaterThan", 6},
	OpLte:    {"<=", "LessEqual", 6},
	OpGte:    {">=", "GreaterEqual", 6},
	OpAdd:    {"+", "Add", 7},
	OpSub:    {"-", "Sub", 7},
	OpMul:    {"*", "Mul", 8},
	OpDiv:    {"/", "Div", 8},
	OpRem:    {"%", "Rem", 8},
}

// String returns the source spelling.
func (op BinOp) String() string { return binOps[op].symbol }

// Name returns the operator's structural name, e.g. "Add".
func (op BinOp) Name() string { return binOps[op].name }

// Precedence ranks binding strength; higher binds tighter. Every binary
// operator is right-associative.
func (op BinOp) Precedence() int { return binOps[op].prec }

// PrefixPrecedence binds tighter than any binary operator.
const PrefixPrecedence = 255

type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
)

func (op UnOp) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}

func (op UnOp) Name() string {
	if op == OpNot {
		return "Not"
	}
	return "Neg"
}

type IntegerLiteral struct {
	Token token.Token
	Value int
}

func (il *IntegerLiteral) Accept(v Visitor)     { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}
func (il *IntegerLiteral) String() string { return strconv.Itoa(il.Value) }

type VariableExpression struct {
	Token token.Token
	Var   Variable
}

func (ve *VariableExpression) Accept(v Visitor)     { v.VisitVariableExpression(ve) }
func (ve *VariableExpression) expressionNode()      {}
func (ve *VariableExpression) TokenLiteral() string { return ve.Token.Lexeme }
func (ve *VariableExpression) GetToken() token.Token {
	if ve == nil {
		return token.Token{}
	}
	return ve.Token
}

// ArrayLiteral is a bracketed element list.
// [1, 2, x]
type ArrayLiteral struct {
	Token    token.Token // The '[' token
	Elements []Expression
}

func (al *ArrayLiteral) Accept(v Visitor)     { v.VisitArrayLiteral(al) }
func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Lexeme }
func (al *ArrayLiteral) GetToken() token.Token {
	if al == nil {
		return token.Token{}
	}
	return al.Token
}

// IndexExpression reads one element.
// a[i]
type IndexExpression struct {
	Token token.Token // The container identifier
	Var   Variable
	Index Expression
}

func (ie *IndexExpression) Accept(v Visitor)     { v.VisitIndexExpression(ie) }
func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}

type InfixExpression struct {
	Token token.Token // The operator token
	Left  Expression
	Op    BinOp
	Right Expression
}

func (ie *InfixExpression) Accept(v Visitor)     { v.VisitInfixExpression(ie) }
func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}

type PrefixExpression struct {
	Token token.Token // The operator token
	Op    UnOp
	Right Expression
}

func (pe *PrefixExpression) Accept(v Visitor)     { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token {
	if pe == nil {
		return token.Token{}
	}
	return pe.Token
}

// EmptyExpression tests whether a list has no elements.
// empty(l)
type EmptyExpression struct {
	Token token.Token
	Var   Variable
}

func (ee *EmptyExpression) Accept(v Visitor)     { v.VisitEmptyExpression(ee) }
func (ee *EmptyExpression) expressionNode()      {}
func (ee *EmptyExpression) TokenLiteral() string { return ee.Token.Lexeme }
func (ee *EmptyExpression) GetToken() token.Token {
	if ee == nil {
		return token.Token{}
	}
	return ee.Token
}

// SizeExpression is the element count of a list or array.
// size(l)
type SizeExpression struct {
	Token token.Token
	Var   Variable
}

func (se *SizeExpression) Accept(v Visitor)     { v.VisitSizeExpression(se) }
func (se *SizeExpression) expressionNode()      {}
func (se *SizeExpression) TokenLiteral() string { return se.Token.Lexeme }
func (se *SizeExpression) GetToken() token.Token {
	if se == nil {
		return token.Token{}
	}
	return se.Token
}

// TopExpression reads the front element of a list.
// top(l)
type TopExpression struct {
	Token token.Token
	Var   Variable
}

func (te *TopExpression) Accept(v Visitor)     { v.VisitTopExpression(te) }
func (te *TopExpression) expressionNode()      {}
func (te *TopExpression) TokenLiteral() string { return te.Token.Lexeme }
func (te *TopExpression) GetToken() token.Token {
	if te == nil {
		return token.Token{}
	}
	return te.Token
}

// NilLiteral is the empty list.
type NilLiteral struct {
	Token token.Token
}

func (nl *NilLiteral) Accept(v Visitor)     { v.VisitNilLiteral(nl) }
func (nl *NilLiteral) expressionNode()      {}
func (nl *NilLiteral) TokenLiteral() string { return nl.Token.Lexeme }
func (nl *NilLiteral) GetToken() token.Token {
	if nl == nil {
		return token.Token{}
	}
	return nl.Token
}

// GroupedExpression keeps source parentheses.
type GroupedExpression struct {
	Token token.Token // The '(' token
	Inner Expression
}

func (ge *GroupedExpression) Accept(v Visitor)     { v.VisitGroupedExpression(ge) }
func (ge *GroupedExpression) expressionNode()      {}
func (ge *GroupedExpression) TokenLiteral() string { return ge.Token.Lexeme }
func (ge *GroupedExpression) GetToken() token.Token {
	if ge == nil {
		return token.Token{}
	}
	return ge.Token
}
