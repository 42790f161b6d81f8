// Package inverter builds the backward form of a statement.
package inverter

import (
	"fmt"
	"slices"

	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
)

// Error reports a statement that has no inverse: a plain if-end or a for
// loop.
type Error struct {
	Stmt ast.Statement
}

func (e *Error) Error() string {
	return e.Diagnostic().Error()
}

// Diagnostic renders the error as an I001 diagnostic at the statement.
func (e *Error) Diagnostic() *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrI001, e.Stmt.GetToken(), describe(e.Stmt))
}

func (e *Error) Unwrap() error {
	return e.Diagnostic()
}

func describe(s ast.Statement) string {
	switch s.(type) {
	case *ast.IfStatement:
		return "if-end conditional"
	case *ast.ForStatement:
		return "for loop"
	}
	return fmt.Sprintf("%T", s)
}

// Flip returns the statement that undoes s. The result is a new tree; s is
// not modified. Expressions are shared with s.
func Flip(s ast.Statement) (ast.Statement, error) {
	switch s := s.(type) {
	case *ast.MutateStatement:
		return &ast.MutateStatement{Token: s.Token, Target: s.Target, Op: s.Op.Inverse(), Value: s.Value}, nil

	case *ast.IndexedMutateStatement:
		return &ast.IndexedMutateStatement{
			Token:  s.Token,
			Target: s.Target,
			Index:  s.Index,
			Op:     s.Op.Inverse(),
			Value:  s.Value,
		}, nil

	case *ast.IndexedSwapStatement:
		flipped := *s
		return &flipped, nil

	case *ast.IfFiStatement:
		then, err := Flip(s.Then)
		if err != nil {
			return nil, err
		}
		els, err := Flip(s.Else)
		if err != nil {
			return nil, err
		}
		return &ast.IfFiStatement{Token: s.Token, Entry: s.Exit, Then: then, Else: els, Exit: s.Entry}, nil

	case *ast.LoopStatement:
		do, err := Flip(s.Do)
		if err != nil {
			return nil, err
		}
		loop, err := Flip(s.Loop)
		if err != nil {
			return nil, err
		}
		return &ast.LoopStatement{Token: s.Token, Entry: s.Exit, Do: do, Loop: loop, Exit: s.Entry}, nil

	case *ast.PushStatement:
		return &ast.PopStatement{Token: s.Token, End: s.End, Operand: s.Operand, List: s.List}, nil

	case *ast.PopStatement:
		return &ast.PushStatement{Token: s.Token, End: s.End, Operand: s.Operand, List: s.List}, nil

	case *ast.LocalStatement:
		body, err := Flip(s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.LocalStatement{
			Token:   s.Token,
			Local:   s.Delocal,
			Init:    s.Final,
			Body:    body,
			Delocal: s.Local,
			Final:   s.Init,
		}, nil

	case *ast.CallStatement:
		return &ast.CallStatement{Token: s.Token, Uncall: !s.Uncall, Proc: s.Proc, Args: slices.Clone(s.Args)}, nil

	case *ast.SkipStatement:
		flipped := *s
		return &flipped, nil

	case *ast.PrintStatement:
		flipped := *s
		return &flipped, nil

	case *ast.SequenceStatement:
		second, err := Flip(s.First)
		if err != nil {
			return nil, err
		}
		first, err := Flip(s.Second)
		if err != nil {
			return nil, err
		}
		return &ast.SequenceStatement{Token: s.Token, First: first, Second: second}, nil
	}

	return nil, &Error{Stmt: s}
}

// FindIrreversible returns the first statement in s that Flip rejects, or
// nil when s can be flipped.
func FindIrreversible(s ast.Statement) ast.Statement {
	var bad ast.Statement
	ast.Inspect(s, func(n ast.Statement) bool {
		if bad != nil {
			return false
		}
		switch n.(type) {
		case *ast.IfStatement, *ast.ForStatement:
			bad = n
			return false
		}
		return true
	})
	return bad
}
