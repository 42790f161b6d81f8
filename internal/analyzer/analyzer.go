package analyzer

import (
	"log/slog"

	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/inverter"
	"github.com/funvibe/invl/internal/token"
)

// Analyzer decides whether a parsed program is reversible. It runs a fixed
// sequence of whole-program passes and stops at the first failure.
type Analyzer struct {
	program *ast.Program
	procs   map[ast.ProcId]ast.Proc
}

// New creates an Analyzer for program.
func New(program *ast.Program) *Analyzer {
	return &Analyzer{
		program: program,
		procs:   make(map[ast.ProcId]ast.Proc),
	}
}

// Check runs every pass over program and returns the first violation as a
// *diagnostics.DiagnosticError.
func Check(program *ast.Program) error {
	if err := New(program).Analyze(); err != nil {
		return err
	}
	return nil
}

type pass struct {
	name string
	run  func() *diagnostics.DiagnosticError
}

// Analyze runs the passes in order.
func (a *Analyzer) Analyze() *diagnostics.DiagnosticError {
	passes := []pass{
		{"procedures", a.buildProcTable},
		{"calls", a.checkCalls},
		{"duplicates", a.checkDuplicates},
		{"linearity", a.checkLinearity},
		{"scope", a.checkScope},
		{"invertibility", a.checkInvertibility},
	}
	for _, p := range passes {
		if err := p.run(); err != nil {
			slog.Debug("check failed", "pass", p.name, "code", err.Code, "file", a.program.File)
			return err
		}
	}
	return nil
}

func (a *Analyzer) errorf(code diagnostics.ErrorCode, tok token.Token, args ...interface{}) *diagnostics.DiagnosticError {
	err := diagnostics.NewError(code, tok, args...)
	err.File = a.program.File
	return err
}

// body is one statement tree owned by main or a procedure.
type body struct {
	owner  string
	stmt   ast.Statement
	params []ast.TypedVariable
	// invl marks a `with` body.
	invl bool
	// flipped marks a body whose inverse the code generator emits.
	flipped bool
}

// bodies lists every statement tree of the program in source order.
func (a *Analyzer) bodies() []body {
	var out []body
	if m := a.program.Main; m != nil {
		decls := make([]ast.TypedVariable, len(m.Decls))
		for i, d := range m.Decls {
			decls[i] = d.Var
		}
		out = append(out, body{owner: "main", stmt: m.Body, params: decls, flipped: m.Invl != nil})
		if m.Invl != nil {
			out = append(out, body{owner: "main", stmt: m.Invl, params: decls, invl: true})
		}
	}
	for _, proc := range a.program.Procs {
		switch p := proc.(type) {
		case *ast.InjectiveProc:
			out = append(out, body{owner: p.Name.Name(), stmt: p.Body, params: p.Params, flipped: true})
		case *ast.InvolutiveProc:
			out = append(out,
				body{owner: p.Name.Name(), stmt: p.Body, params: p.Params, flipped: true},
				body{owner: p.Name.Name(), stmt: p.Invl, params: p.Params, invl: true},
			)
		}
	}
	return out
}

// checkInvertibility rejects bodies the code generator must flip but cannot.
func (a *Analyzer) checkInvertibility() *diagnostics.DiagnosticError {
	for _, b := range a.bodies() {
		if !b.flipped {
			continue
		}
		if bad := inverter.FindIrreversible(b.stmt); bad != nil {
			err := (&inverter.Error{Stmt: bad}).Diagnostic()
			err.File = a.program.File
			return err
		}
	}
	return nil
}
