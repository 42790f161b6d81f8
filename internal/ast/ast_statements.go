package ast

import "github.com/funvibe/invl/internal/token"

// MutOp is a reversible in-place update.
type MutOp int

const (
	MutAdd MutOp = iota
	MutSub
	MutXor
	MutSwap
)

func (op MutOp) String() string {
	switch op {
	case MutAdd:
		return "+="
	case MutSub:
		return "-="
	case MutXor:
		return "^="
	case MutSwap:
		return "<=>"
	}
	return "?="
}

// Inverse returns the operator that undoes op.
func (op MutOp) Inverse() MutOp {
	switch op {
	case MutAdd:
		return MutSub
	case MutSub:
		return MutAdd
	}
	return op
}

// ListEnd selects which end of a list push and pop work on.
type ListEnd int

const (
	Front ListEnd = iota
	Back
)

func (e ListEnd) String() string {
	if e == Back {
		return "back"
	}
	return "front"
}

// MutateStatement updates a scalar in place.
// x += e
type MutateStatement struct {
	Token  token.Token // The target identifier
	Target Variable
	Op     MutOp
	Value  Expression
}

func (ms *MutateStatement) Accept(v Visitor)     { v.VisitMutateStatement(ms) }
func (ms *MutateStatement) statementNode()       {}
func (ms *MutateStatement) TokenLiteral() string { return ms.Token.Lexeme }
func (ms *MutateStatement) GetToken() token.Token {
	if ms == nil {
		return token.Token{}
	}
	return ms.Token
}

// IndexedMutateStatement updates one array element in place.
// a[i] ^= e
type IndexedMutateStatement struct {
	Token  token.Token // The target identifier
	Target Variable
	Index  Expression
	Op     MutOp
	Value  Expression
}

func (ims *IndexedMutateStatement) Accept(v Visitor)     { v.VisitIndexedMutateStatement(ims) }
func (ims *IndexedMutateStatement) statementNode()       {}
func (ims *IndexedMutateStatement) TokenLiteral() string { return ims.Token.Lexeme }
func (ims *IndexedMutateStatement) GetToken() token.Token {
	if ims == nil {
		return token.Token{}
	}
	return ims.Token
}

// IndexedSwapStatement exchanges two elements of the same container.
// a[i] <=> a[j]
type IndexedSwapStatement struct {
	Token  token.Token // The target identifier
	Target Variable
	Left   Expression
	Right  Expression
}

func (iss *IndexedSwapStatement) Accept(v Visitor)     { v.VisitIndexedSwapStatement(iss) }
func (iss *IndexedSwapStatement) statementNode()       {}
func (iss *IndexedSwapStatement) TokenLiteral() string { return iss.Token.Lexeme }
func (iss *IndexedSwapStatement) GetToken() token.Token {
	if iss == nil {
		return token.Token{}
	}
	return iss.Token
}

// IfFiStatement is a conditional whose exit assertion tells the backward
// direction which arm ran.
// if E then S1 else S2 fi E'
type IfFiStatement struct {
	Token token.Token // The 'if' token
	Entry Expression
	Then  Statement
	Else  Statement
	Exit  Expression
}

func (ifs *IfFiStatement) Accept(v Visitor)     { v.VisitIfFiStatement(ifs) }
func (ifs *IfFiStatement) statementNode()       {}
func (ifs *IfFiStatement) TokenLiteral() string { return ifs.Token.Lexeme }
func (ifs *IfFiStatement) GetToken() token.Token {
	if ifs == nil {
		return token.Token{}
	}
	return ifs.Token
}

// IfStatement is a plain conditional without an exit assertion.
// if E then S1 else S2 end
type IfStatement struct {
	Token     token.Token // The 'if' token
	Condition Expression
	Then      Statement
	Else      Statement
}

func (is *IfStatement) Accept(v Visitor)     { v.VisitIfStatement(is) }
func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

// LoopStatement is a reversible loop. Entry holds only before the first
// iteration; Exit holds only after the last one.
// from E do S1 loop S2 until E'
type LoopStatement struct {
	Token token.Token // The 'from' token
	Entry Expression
	Do    Statement
	Loop  Statement
	Exit  Expression
}

func (ls *LoopStatement) Accept(v Visitor)     { v.VisitLoopStatement(ls) }
func (ls *LoopStatement) statementNode()       {}
func (ls *LoopStatement) TokenLiteral() string { return ls.Token.Lexeme }
func (ls *LoopStatement) GetToken() token.Token {
	if ls == nil {
		return token.Token{}
	}
	return ls.Token
}

// PushStatement moves Operand onto List. A variable operand is zeroed.
// push_front(x, l)
type PushStatement struct {
	Token   token.Token // The push keyword
	End     ListEnd
	Operand Expression // *IntegerLiteral or *VariableExpression
	List    Variable
}

func (ps *PushStatement) Accept(v Visitor)     { v.VisitPushStatement(ps) }
func (ps *PushStatement) statementNode()       {}
func (ps *PushStatement) TokenLiteral() string { return ps.Token.Lexeme }
func (ps *PushStatement) GetToken() token.Token {
	if ps == nil {
		return token.Token{}
	}
	return ps.Token
}

// PopStatement moves the end of List into a zeroed variable operand, or
// checks the popped value against a literal operand.
// pop_front(x, l)
type PopStatement struct {
	Token   token.Token // The pop keyword
	End     ListEnd
	Operand Expression // *IntegerLiteral or *VariableExpression
	List    Variable
}

func (ps *PopStatement) Accept(v Visitor)     { v.VisitPopStatement(ps) }
func (ps *PopStatement) statementNode()       {}
func (ps *PopStatement) TokenLiteral() string { return ps.Token.Lexeme }
func (ps *PopStatement) GetToken() token.Token {
	if ps == nil {
		return token.Token{}
	}
	return ps.Token
}

// OperandVariable returns the variable moved by a push or pop, if any.
func OperandVariable(operand Expression) (Variable, bool) {
	if ve, ok := operand.(*VariableExpression); ok {
		return ve.Var, true
	}
	return Variable{}, false
}

// LocalStatement binds a fresh variable for the duration of Body.
// local int x = e S delocal int x = e'
type LocalStatement struct {
	Token   token.Token // The 'local' token
	Local   TypedVariable
	Init    Expression
	Body    Statement
	Delocal TypedVariable
	Final   Expression
}

func (ls *LocalStatement) Accept(v Visitor)     { v.VisitLocalStatement(ls) }
func (ls *LocalStatement) statementNode()       {}
func (ls *LocalStatement) TokenLiteral() string { return ls.Token.Lexeme }
func (ls *LocalStatement) GetToken() token.Token {
	if ls == nil {
		return token.Token{}
	}
	return ls.Token
}

// CallStatement runs a procedure forwards (call) or backwards (uncall).
// call f(x, y)
type CallStatement struct {
	Token  token.Token // The 'call' or 'uncall' token
	Uncall bool
	Proc   ProcId
	Args   []Variable
}

func (cs *CallStatement) Accept(v Visitor)     { v.VisitCallStatement(cs) }
func (cs *CallStatement) statementNode()       {}
func (cs *CallStatement) TokenLiteral() string { return cs.Token.Lexeme }
func (cs *CallStatement) GetToken() token.Token {
	if cs == nil {
		return token.Token{}
	}
	return cs.Token
}

func (cs *CallStatement) Keyword() string {
	if cs.Uncall {
		return "uncall"
	}
	return "call"
}

type SkipStatement struct {
	Token token.Token // The 'skip' token, zero when implied
}

func (ss *SkipStatement) Accept(v Visitor)     { v.VisitSkipStatement(ss) }
func (ss *SkipStatement) statementNode()       {}
func (ss *SkipStatement) TokenLiteral() string { return ss.Token.Lexeme }
func (ss *SkipStatement) GetToken() token.Token {
	if ss == nil {
		return token.Token{}
	}
	return ss.Token
}

// PrintStatement writes a variable for diagnostics. It is not program state.
type PrintStatement struct {
	Token token.Token // The 'print' token
	Var   Variable
}

func (ps *PrintStatement) Accept(v Visitor)     { v.VisitPrintStatement(ps) }
func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Lexeme }
func (ps *PrintStatement) GetToken() token.Token {
	if ps == nil {
		return token.Token{}
	}
	return ps.Token
}

// Container is one iterated container of a for loop, optionally visited
// through a permutation of indexes.
type Container struct {
	Var  Variable
	Perm Variable // zero when the container is visited in order
}

// ForStatement walks containers in lock-step. Each pack binds consecutive
// elements of the matching container.
// for (x, [y, z]) in (a, b[p]) do S end
type ForStatement struct {
	Token      token.Token // The 'for' token
	Packs      [][]Variable
	Containers []Container
	Body       Statement
}

func (fs *ForStatement) Accept(v Visitor)     { v.VisitForStatement(fs) }
func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Lexeme }
func (fs *ForStatement) GetToken() token.Token {
	if fs == nil {
		return token.Token{}
	}
	return fs.Token
}

// SequenceStatement runs First then Second.
type SequenceStatement struct {
	Token  token.Token // First's token
	First  Statement
	Second Statement
}

func (ss *SequenceStatement) Accept(v Visitor)     { v.VisitSequenceStatement(ss) }
func (ss *SequenceStatement) statementNode()       {}
func (ss *SequenceStatement) TokenLiteral() string { return ss.Token.Lexeme }
func (ss *SequenceStatement) GetToken() token.Token {
	if ss == nil {
		return token.Token{}
	}
	return ss.Token
}

// Sequence folds statements into a right-nested sequence. An empty list is Skip.
func Sequence(stmts ...Statement) Statement {
	if len(stmts) == 0 {
		return &SkipStatement{}
	}
	s := stmts[len(stmts)-1]
	for i := len(stmts) - 2; i >= 0; i-- {
		s = &SequenceStatement{Token: stmts[i].GetToken(), First: stmts[i], Second: s}
	}
	return s
}

// Flatten lists the statements of a sequence in execution order.
func Flatten(s Statement) []Statement {
	seq, ok := s.(*SequenceStatement)
	if !ok {
		return []Statement{s}
	}
	return append(Flatten(seq.First), Flatten(seq.Second)...)
}
