package backend

import (
	"context"
	"io"

	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/pipeline"
	"github.com/funvibe/invl/internal/token"
)

// ExecutionProcessor implements pipeline.Processor to run a Backend on the
// generated code.
type ExecutionProcessor struct {
	Backend Backend
	Context context.Context
	// Stdout receives the program's output; discarded when nil.
	Stdout io.Writer
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(ctx context.Context, b Backend, stdout io.Writer) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b, Context: ctx, Stdout: stdout}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.Output == "" || len(ctx.Errors) > 0 {
		return ctx
	}

	runCtx := p.Context
	if runCtx == nil {
		runCtx = context.Background()
	}

	res, err := p.Backend.Run(runCtx, ctx.Output)
	if res != nil && p.Stdout != nil {
		io.WriteString(p.Stdout, res.Stdout)
	}
	if err != nil {
		diag := diagnostics.NewError(diagnostics.ErrB001, token.Token{}, p.Backend.Name()+": "+err.Error())
		diag.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, diag)
	}
	return ctx
}
