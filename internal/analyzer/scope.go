package analyzer

import (
	"maps"

	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/token"
)

// bindings maps every variable in scope to its declared type.
type bindings map[ast.Variable]ast.Type

func (b bindings) with(v ast.Variable, t ast.Type) bindings {
	c := maps.Clone(b)
	c[v] = t
	return c
}

// checkScope resolves every variable and rejects writes to const bindings.
func (a *Analyzer) checkScope() *diagnostics.DiagnosticError {
	if m := a.program.Main; m != nil {
		env := bindings{}
		for _, d := range m.Decls {
			if d.Value != nil {
				if err := a.bound(env, d.Value); err != nil {
					return err
				}
			}
			env[d.Var.Var] = d.Var.Type
		}
		if err := a.scope(m.Body, env); err != nil {
			return err
		}
		if m.Invl != nil {
			if err := a.scope(m.Invl, env); err != nil {
				return err
			}
		}
	}

	for _, b := range a.bodies() {
		if b.owner == "main" {
			continue
		}
		env := bindings{}
		for _, p := range b.params {
			env[p.Var] = p.Type
		}
		if err := a.scope(b.stmt, env); err != nil {
			return err
		}
	}
	return nil
}

// bound requires every variable in e to be in scope.
func (a *Analyzer) bound(env bindings, e ast.Expression) *diagnostics.DiagnosticError {
	var err *diagnostics.DiagnosticError
	ast.ExpressionVariables(e, func(v ast.Variable, at ast.Expression) {
		if _, ok := env[v]; !ok && err == nil {
			err = a.errorf(diagnostics.ErrN005, at.GetToken(), v.Name())
		}
	})
	return err
}

// writable requires v to be in scope and not const.
func (a *Analyzer) writable(env bindings, v ast.Variable, tok token.Token) *diagnostics.DiagnosticError {
	t, ok := env[v]
	if !ok {
		return a.errorf(diagnostics.ErrN005, tok, v.Name())
	}
	if t.Const {
		return a.errorf(diagnostics.ErrR005, tok, v.Name())
	}
	return nil
}

// swapPartner checks the right-hand side of a swap, which is written too.
func (a *Analyzer) swapPartner(env bindings, e ast.Expression) *diagnostics.DiagnosticError {
	switch e := e.(type) {
	case *ast.VariableExpression:
		return a.writable(env, e.Var, e.Token)
	case *ast.IndexExpression:
		if err := a.writable(env, e.Var, e.Token); err != nil {
			return err
		}
		return a.bound(env, e.Index)
	}
	return a.bound(env, e)
}

func (a *Analyzer) scope(s ast.Statement, env bindings) *diagnostics.DiagnosticError {
	switch s := s.(type) {
	case *ast.MutateStatement:
		if err := a.writable(env, s.Target, s.Token); err != nil {
			return err
		}
		if s.Op == ast.MutSwap {
			return a.swapPartner(env, s.Value)
		}
		return a.bound(env, s.Value)

	case *ast.IndexedMutateStatement:
		if err := a.writable(env, s.Target, s.Token); err != nil {
			return err
		}
		if err := a.bound(env, s.Index); err != nil {
			return err
		}
		if s.Op == ast.MutSwap {
			return a.swapPartner(env, s.Value)
		}
		return a.bound(env, s.Value)

	case *ast.IndexedSwapStatement:
		if err := a.writable(env, s.Target, s.Token); err != nil {
			return err
		}
		if err := a.bound(env, s.Left); err != nil {
			return err
		}
		return a.bound(env, s.Right)

	case *ast.IfFiStatement:
		if err := a.bound(env, s.Entry); err != nil {
			return err
		}
		if err := a.scope(s.Then, env); err != nil {
			return err
		}
		if err := a.scope(s.Else, env); err != nil {
			return err
		}
		return a.bound(env, s.Exit)

	case *ast.IfStatement:
		if err := a.bound(env, s.Condition); err != nil {
			return err
		}
		if err := a.scope(s.Then, env); err != nil {
			return err
		}
		return a.scope(s.Else, env)

	case *ast.LoopStatement:
		if err := a.bound(env, s.Entry); err != nil {
			return err
		}
		if err := a.scope(s.Do, env); err != nil {
			return err
		}
		if err := a.scope(s.Loop, env); err != nil {
			return err
		}
		return a.bound(env, s.Exit)

	case *ast.PushStatement:
		return a.listOp(env, s.Token, s.Operand, s.List)

	case *ast.PopStatement:
		return a.listOp(env, s.Token, s.Operand, s.List)

	case *ast.LocalStatement:
		if err := a.bound(env, s.Init); err != nil {
			return err
		}
		inner := env.with(s.Local.Var, s.Local.Type)
		if err := a.scope(s.Body, inner); err != nil {
			return err
		}
		return a.bound(inner, s.Final)

	case *ast.CallStatement:
		return a.scopeCall(env, s)

	case *ast.PrintStatement:
		if _, ok := env[s.Var]; !ok {
			return a.errorf(diagnostics.ErrN005, s.Token, s.Var.Name())
		}
		return nil

	case *ast.ForStatement:
		inner := maps.Clone(env)
		for i, c := range s.Containers {
			t, ok := env[c.Var]
			if !ok {
				return a.errorf(diagnostics.ErrN005, s.Token, c.Var.Name())
			}
			if !c.Perm.IsZero() {
				if _, ok := env[c.Perm]; !ok {
					return a.errorf(diagnostics.ErrN005, s.Token, c.Perm.Name())
				}
			}
			for _, v := range s.Packs[i] {
				inner[v] = ast.Type{Kind: ast.KindInt, Const: t.Const}
			}
		}
		return a.scope(s.Body, inner)

	case *ast.SequenceStatement:
		if err := a.scope(s.First, env); err != nil {
			return err
		}
		return a.scope(s.Second, env)
	}
	return nil
}

// listOp checks push and pop: the list and a variable operand both change.
func (a *Analyzer) listOp(env bindings, tok token.Token, operand ast.Expression, list ast.Variable) *diagnostics.DiagnosticError {
	if err := a.writable(env, list, tok); err != nil {
		return err
	}
	if v, ok := ast.OperandVariable(operand); ok {
		return a.writable(env, v, operand.GetToken())
	}
	return nil
}

// scopeCall resolves the arguments. A const argument may only be passed to a
// const parameter.
func (a *Analyzer) scopeCall(env bindings, call *ast.CallStatement) *diagnostics.DiagnosticError {
	var params []ast.TypedVariable
	switch p := a.procs[call.Proc].(type) {
	case *ast.InjectiveProc:
		params = p.Params
	case *ast.InvolutiveProc:
		params = p.Params
	}

	for i, arg := range call.Args {
		t, ok := env[arg]
		if !ok {
			return a.errorf(diagnostics.ErrN005, call.Token, arg.Name())
		}
		if !t.Const {
			continue
		}
		// matrix procedures have no declared parameters and write every argument
		if params == nil || !params[i].Type.Const {
			return a.errorf(diagnostics.ErrR005, call.Token, arg.Name())
		}
	}
	return nil
}
