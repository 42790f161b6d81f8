package analyzer

import (
	"maps"

	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/token"
)

// Mutables tracks the non-const bindings visible to an involution body and
// whether each has been used on the current path. Untracked variables are
// not restricted.
type Mutables map[ast.Variable]bool

// NewMutables seeds the map with every non-const variable, all unused.
func NewMutables(vars []ast.TypedVariable) Mutables {
	m := make(Mutables, len(vars))
	for _, tv := range vars {
		if !tv.Type.Const {
			m[tv.Var] = false
		}
	}
	return m
}

func (m Mutables) Clone() Mutables {
	return maps.Clone(m)
}

// Merge marks every variable used in other as used in m.
func (m Mutables) Merge(other Mutables) {
	for v, used := range other {
		if _, tracked := m[v]; tracked && used {
			m[v] = true
		}
	}
}

// checkLinearity requires each tracked variable to be used at most once
// along any path through a `with` body.
func (a *Analyzer) checkLinearity() *diagnostics.DiagnosticError {
	for _, b := range a.bodies() {
		if !b.invl {
			continue
		}
		if err := a.linear(b.stmt, NewMutables(b.params)); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) use(m Mutables, v ast.Variable, tok token.Token) *diagnostics.DiagnosticError {
	used, tracked := m[v]
	if !tracked {
		return nil
	}
	if used {
		return a.errorf(diagnostics.ErrR003, tok, v.Name())
	}
	m[v] = true
	return nil
}

func (a *Analyzer) useExpr(m Mutables, e ast.Expression) *diagnostics.DiagnosticError {
	var err *diagnostics.DiagnosticError
	ast.ExpressionVariables(e, func(v ast.Variable, at ast.Expression) {
		if err == nil {
			err = a.use(m, v, at.GetToken())
		}
	})
	return err
}

func (a *Analyzer) linear(s ast.Statement, m Mutables) *diagnostics.DiagnosticError {
	switch s := s.(type) {
	case *ast.MutateStatement:
		if err := a.use(m, s.Target, s.Token); err != nil {
			return err
		}
		return a.useExpr(m, s.Value)

	case *ast.IndexedMutateStatement:
		if err := a.use(m, s.Target, s.Token); err != nil {
			return err
		}
		if err := a.useExpr(m, s.Index); err != nil {
			return err
		}
		return a.useExpr(m, s.Value)

	case *ast.IndexedSwapStatement:
		if err := a.use(m, s.Target, s.Token); err != nil {
			return err
		}
		if err := a.useExpr(m, s.Left); err != nil {
			return err
		}
		return a.useExpr(m, s.Right)

	case *ast.CallStatement:
		for _, arg := range s.Args {
			if err := a.use(m, arg, s.Token); err != nil {
				return err
			}
		}
		return nil

	case *ast.SkipStatement, *ast.PrintStatement:
		return nil

	case *ast.IfStatement:
		if err := a.useExpr(m, s.Condition); err != nil {
			return err
		}
		then := m.Clone()
		if err := a.linear(s.Then, then); err != nil {
			return err
		}
		if err := a.linear(s.Else, m); err != nil {
			return err
		}
		m.Merge(then)
		return nil

	case *ast.ForStatement:
		return a.linearFor(s, m)

	case *ast.SequenceStatement:
		if err := a.linear(s.First, m); err != nil {
			return err
		}
		return a.linear(s.Second, m)
	}

	return a.errorf(diagnostics.ErrR004, s.GetToken(), statementKind(s))
}

// linearFor checks a for loop on a copy of m, so the loop leaves the
// enclosing map as it found it. The containers are used once by the loop
// itself. Inside the body every outer variable counts as used and the pack
// variables of tracked containers start fresh.
func (a *Analyzer) linearFor(s *ast.ForStatement, m Mutables) *diagnostics.DiagnosticError {
	inner := m.Clone()
	for _, c := range s.Containers {
		if err := a.use(inner, c.Var, s.Token); err != nil {
			return err
		}
		if !c.Perm.IsZero() {
			if err := a.use(inner, c.Perm, s.Token); err != nil {
				return err
			}
		}
	}

	for v := range inner {
		inner[v] = true
	}
	for i, pack := range s.Packs {
		if _, tracked := m[s.Containers[i].Var]; !tracked {
			continue
		}
		for _, v := range pack {
			inner[v] = false
		}
	}
	return a.linear(s.Body, inner)
}

func statementKind(s ast.Statement) string {
	switch s := s.(type) {
	case *ast.IfFiStatement:
		return "if-fi conditional"
	case *ast.LoopStatement:
		return "from-loop"
	case *ast.PushStatement:
		return "push_" + s.End.String()
	case *ast.PopStatement:
		return "pop_" + s.End.String()
	case *ast.LocalStatement:
		return "local block"
	}
	return "statement"
}
