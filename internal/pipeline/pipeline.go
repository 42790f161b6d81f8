package pipeline

import (
	"log/slog"
	"time"
)

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Compilation is fail-fast: the first stage that
// reports an error ends the run.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		start := time.Now()
		ctx = processor.Process(ctx)
		slog.Debug("stage finished",
			"stage", stageName(processor),
			"file", ctx.FilePath,
			"errors", len(ctx.Errors),
			"elapsed", time.Since(start))
		if len(ctx.Errors) > 0 {
			break
		}
	}
	return ctx
}
