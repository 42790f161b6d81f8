package analyzer

import (
	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
)

// checkDuplicates rejects updates that read their own target and calls that
// alias one variable to two parameters. Either would lose information.
func (a *Analyzer) checkDuplicates() *diagnostics.DiagnosticError {
	for _, b := range a.bodies() {
		var err *diagnostics.DiagnosticError
		ast.Inspect(b.stmt, func(s ast.Statement) bool {
			if err != nil {
				return false
			}
			err = a.checkDuplicate(s)
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) checkDuplicate(s ast.Statement) *diagnostics.DiagnosticError {
	switch s := s.(type) {
	case *ast.MutateStatement:
		if ast.HasVariable(s.Value, s.Target) {
			return a.errorf(diagnostics.ErrR001, s.Token, s.Target.Name(), s.Target.Name())
		}
	case *ast.IndexedMutateStatement:
		if ast.HasVariable(s.Value, s.Target) {
			return a.errorf(diagnostics.ErrR001, s.Token, s.Target.Name(), s.Target.Name())
		}
	case *ast.CallStatement:
		seen := make(map[ast.Variable]bool, len(s.Args))
		for _, arg := range s.Args {
			if seen[arg] {
				return a.errorf(diagnostics.ErrR002, s.Token, arg.Name(), s.Proc.Name())
			}
			seen[arg] = true
		}
	}
	return nil
}
