package pipeline

import (
	"fmt"
	"strings"

	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/token"
)

// TokenStream feeds tokens to the parser.
type TokenStream interface {
	Next() token.Token
	Peek(n int) []token.Token
}

// PipelineContext carries one source file through the stages.
type PipelineContext struct {
	SourceCode  string
	FilePath    string
	Tokens      []token.Token
	TokenStream TokenStream
	AstRoot     ast.Node
	// Output is the generated target source, set by the code generator.
	Output string
	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source}
}

// Program returns the parsed program, or nil before parsing succeeded.
func (ctx *PipelineContext) Program() *ast.Program {
	prog, _ := ctx.AstRoot.(*ast.Program)
	return prog
}

// Err returns the first error as a plain error value.
func (ctx *PipelineContext) Err() error {
	if len(ctx.Errors) == 0 {
		return nil
	}
	return ctx.Errors[0]
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

func stageName(p Processor) string {
	name := fmt.Sprintf("%T", p)
	name = strings.TrimPrefix(name, "*")
	return name
}
