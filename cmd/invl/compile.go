package main

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/funvibe/invl/internal/analyzer"
	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/lexer"
	"github.com/funvibe/invl/internal/parser"
	"github.com/funvibe/invl/internal/pipeline"
)

// errReported marks a failure whose diagnostics were already printed.
var errReported = errors.New("compilation failed")

// reportMu keeps diagnostics of concurrently built files apart.
var reportMu sync.Mutex

func parseStages() []pipeline.Processor {
	return []pipeline.Processor{
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
	}
}

func checkStages() []pipeline.Processor {
	return append(parseStages(), &analyzer.AnalyzerProcessor{})
}

// compileFile reads path and runs it through stages. Diagnostics go to
// stderr and are returned as errReported.
func (o *Options) compileFile(path string, stages []pipeline.Processor) (*pipeline.PipelineContext, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	ctx := pipeline.NewPipelineContext(string(src))
	ctx.FilePath = path
	ctx = pipeline.New(stages...).Run(ctx)
	if len(ctx.Errors) > 0 {
		o.report(ctx)
		return ctx, errReported
	}
	return ctx, nil
}

func (o *Options) report(ctx *pipeline.PipelineContext) {
	f := &diagnostics.Formatter{Color: o.color(), Source: ctx.SourceCode}
	reportMu.Lock()
	defer reportMu.Unlock()
	for _, e := range ctx.Errors {
		f.Write(o.stderr, e)
	}
}

// program runs the checked front end on path.
func (o *Options) program(path string) (*ast.Program, error) {
	ctx, err := o.compileFile(path, checkStages())
	if err != nil {
		return nil, err
	}
	return ctx.Program(), nil
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
