package analyzer

import (
	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
)

// ProcClass separates procedures that may be called inside an involution
// from those that may not.
type ProcClass int

const (
	Injective ProcClass = iota
	Involutive
)

func (c ProcClass) String() string {
	if c == Involutive {
		return "involutive"
	}
	return "injective"
}

// ClassOf reports the class of proc. Matrix procedures are involutive.
func ClassOf(proc ast.Proc) ProcClass {
	if _, ok := proc.(*ast.InjectiveProc); ok {
		return Injective
	}
	return Involutive
}

// buildProcTable registers every procedure, rejecting a name defined twice
// regardless of class.
func (a *Analyzer) buildProcTable() *diagnostics.DiagnosticError {
	for _, proc := range a.program.Procs {
		if _, exists := a.procs[proc.ID()]; exists {
			return a.errorf(diagnostics.ErrN001, proc.GetToken(), proc.ID().Name())
		}
		a.procs[proc.ID()] = proc
	}
	return nil
}

// checkCalls resolves every call. Inside a `with` body the target must be
// involutive.
func (a *Analyzer) checkCalls() *diagnostics.DiagnosticError {
	for _, b := range a.bodies() {
		var err *diagnostics.DiagnosticError
		ast.Inspect(b.stmt, func(s ast.Statement) bool {
			if err != nil {
				return false
			}
			if call, ok := s.(*ast.CallStatement); ok {
				err = a.checkCall(call, b.invl)
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) checkCall(call *ast.CallStatement, inInvolution bool) *diagnostics.DiagnosticError {
	proc, ok := a.procs[call.Proc]
	if !ok {
		return a.errorf(diagnostics.ErrN002, call.Token, call.Proc.Name())
	}
	if inInvolution && ClassOf(proc) == Injective {
		return a.errorf(diagnostics.ErrN003, call.Token, call.Proc.Name())
	}
	if len(call.Args) != proc.Arity() {
		return a.errorf(diagnostics.ErrN004, call.Token, call.Proc.Name(), proc.Arity(), len(call.Args))
	}
	return nil
}
