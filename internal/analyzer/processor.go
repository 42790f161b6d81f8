package analyzer

import (
	"github.com/funvibe/invl/internal/pipeline"
)

// AnalyzerProcessor gates the pipeline on Check.
type AnalyzerProcessor struct{}

func (ap *AnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	program := ctx.Program()
	if program == nil {
		return ctx
	}

	if err := New(program).Analyze(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
