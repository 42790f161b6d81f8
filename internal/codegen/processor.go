package codegen

import (
	"github.com/pkg/errors"

	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/inverter"
	"github.com/funvibe/invl/internal/pipeline"
	"github.com/funvibe/invl/internal/token"
)

// CodegenProcessor stores the generated C++ in ctx.Output.
type CodegenProcessor struct {
	Options Options
}

func (cp *CodegenProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	program := ctx.Program()
	if program == nil {
		return ctx
	}

	out, err := Generate(program, cp.Options)
	if err != nil {
		var inv *inverter.Error
		var diag *diagnostics.DiagnosticError
		if errors.As(err, &inv) {
			diag = inv.Diagnostic()
		} else {
			diag = diagnostics.NewError(diagnostics.ErrB001, token.Token{}, err.Error())
		}
		diag.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, diag)
		return ctx
	}
	ctx.Output = out
	return ctx
}
