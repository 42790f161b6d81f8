package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/funvibe/invl/internal/analyzer"
	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/lexer"
	"github.com/funvibe/invl/internal/parser"
	"github.com/funvibe/invl/internal/pipeline"
)

func compile(t *testing.T, input string, opts Options) *pipeline.PipelineContext {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	ctx.FilePath = "test.invl"
	return pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.AnalyzerProcessor{},
		&CodegenProcessor{Options: opts},
	).Run(ctx)
}

func generate(t *testing.T, input string) string {
	t.Helper()
	ctx := compile(t, input, Options{})
	require.Empty(t, ctx.Errors, "input: %s", input)
	return ctx.Output
}

// mainBody returns the statements emitted for main's body, one level
// dedented.
func mainBody(t *testing.T, input string) string {
	t.Helper()
	out := generate(t, input)
	parts := strings.Split(out, "\n\n")
	for i, part := range parts {
		if strings.HasPrefix(part, "int main() {") {
			require.Greater(t, len(parts), i+1, out)
			lines := strings.Split(parts[i+1], "\n")
			for j, l := range lines {
				lines[j] = strings.TrimPrefix(l, "    ")
			}
			return strings.Join(lines, "\n")
		}
	}
	t.Fatalf("no main in output:\n%s", out)
	return ""
}

func TestStatements(t *testing.T) {
	const decls = "main() int x int y list l array[4] a\n"

	tests := []struct {
		body string
		want string
	}{
		{"x += y + 1", "x += y + 1;"},
		{"x -= 2", "x -= 2;"},
		{"x <=> y", "std::swap(x, y);"},
		{"a[x] ^= y", "a[x] ^= y;"},
		{"a[0] <=> a[1]", "std::swap(a[0], a[1]);"},
		{"a[0] <=> y", "std::swap(a[0], y);"},
		{"push_back(x, l)", "l.push_back(x);\nx = 0;"},
		{"push_front(3, l)", "l.push_front(3);"},
		{"pop_front(x, l)", "assert(x == 0);\nx = l.front();\nl.pop_front();"},
		{"pop_back(3, l)", "assert(l.back() == 3);\nl.pop_back();"},
		{"print(l)", `print("l", l);`},
		{"x += 1 y -= 2", "x += 1;\ny -= 2;"},
		{
			"if x = 0 then y += 1 else y -= 1 fi y = 1",
			"if (x == 0) {\n    y += 1;\n    assert(y == 1);\n} else {\n    y -= 1;\n    assert(!(y == 1));\n}",
		},
		{
			"if x > 0 then y += 1 end",
			"if (x > 0) {\n    y += 1;\n}",
		},
		{
			"if x > 0 then y += 1 else y -= 1 end",
			"if (x > 0) {\n    y += 1;\n} else {\n    y -= 1;\n}",
		},
		{
			"from x = 0 do x += 1 loop y += x until x = 10",
			"assert(x == 0);\nx += 1;\nwhile (!(x == 10)) {\n    y += x;\n    assert(!(x == 0));\n    x += 1;\n}",
		},
		{
			"local int t = x t += y delocal int t = x + y",
			"{\n    int t = x;\n    t += y;\n    assert(t == x + y);\n}",
		},
		{
			"local list k = nil skip delocal list k = nil",
			"{\n    std::deque<int> k = std::deque<int>{};\n    assert(k == std::deque<int>{});\n}",
		},
		{
			"local array[2] b = [1, 2] skip delocal array[2] b = [1, 2]",
			"{\n    std::array<int, 2> b = {1, 2};\n    assert(b == std::array<int, 2>{1, 2});\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, mainBody(t, decls+tt.body))
		})
	}
}

func TestExpressions(t *testing.T) {
	const decls = "main() int x int y list l\n"

	tests := []struct {
		value string
		want  string
	}{
		{"1 + 2 * 3", "1 + 2 * 3"},
		{"1 * 2 + 3", "1 * 2 + 3"},
		{"1 - 2 - 3", "1 - (2 - 3)"},
		{"(1 - 2) - 3", "(1 - 2) - 3"},
		{"-(y + 1)", "-(y + 1)"},
		{"!y", "!y"},
		{"y = 1 || y != 2", "y == 1 || y != 2"},
		{"y & 1 = 0", "y & 1 == 0"},
		{"size(l) + top(l)", "l.size() + l.front()"},
		{"empty(l) && y >= 0", "l.empty() && y >= 0"},
		{"y % 2 ^ y / 2", "y % 2 ^ y / 2"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, "x += "+tt.want+";", mainBody(t, decls+"x += "+tt.value))
		})
	}
}

func TestSynthesizedNesting(t *testing.T) {
	one := &ast.IntegerLiteral{Value: 1}
	two := &ast.IntegerLiteral{Value: 2}
	y := &ast.VariableExpression{Var: ast.NewVariable("y")}

	left := &ast.InfixExpression{Left: &ast.InfixExpression{Left: one, Op: ast.OpSub, Right: two}, Op: ast.OpSub, Right: y}
	assert.Equal(t, "1 - 2 - y", expr(left))

	low := &ast.InfixExpression{Left: &ast.InfixExpression{Left: one, Op: ast.OpAdd, Right: two}, Op: ast.OpMul, Right: y}
	assert.Equal(t, "(1 + 2) * y", expr(low))

	neg := &ast.PrefixExpression{Op: ast.OpNeg, Right: &ast.PrefixExpression{Op: ast.OpNeg, Right: y}}
	assert.Equal(t, "-(-y)", expr(neg))
}

func TestCalls(t *testing.T) {
	input := `
main() int x int y
    call f(x, y)
    uncall f(y, x)
    uncall g(x)

inj f(int a, int b) a += b
invl g(int a) with a ^= 1
`
	assert.Equal(t, "f_fwd(x, y);\nf_rev(y, x);\ng_rev(x);", mainBody(t, input))
}

func TestKeywordNames(t *testing.T) {
	out := generate(t, "main() int new int class new += class")
	assert.Contains(t, out, "int new_{};")
	assert.Contains(t, out, "new_ += class_;")
	assert.Contains(t, out, `print("new", new_);`)
}

func TestMainWithoutStatements(t *testing.T) {
	want := "#include \"prelude.hpp\"\n\nint main() {\n}\n"
	assert.Equal(t, want, generate(t, "main() skip"))
}

func TestGolden(t *testing.T) {
	for _, name := range []string{"injective", "involution", "forloop"} {
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join("testdata", name+".invl"))
			require.NoError(t, err)
			golden.Assert(t, generate(t, string(src)), name+".golden")
		})
	}
}

func TestInlinePrelude(t *testing.T) {
	ctx := compile(t, "main() int x x += 1", Options{Prelude: PreludeInline})
	require.Empty(t, ctx.Errors)
	assert.True(t, strings.HasPrefix(ctx.Output, "#ifndef PRELUDE_HPP"))
	assert.NotContains(t, ctx.Output, `#include "prelude.hpp"`)
	assert.Contains(t, ctx.Output, "#endif\n\nint main() {")
}

func TestIndentOption(t *testing.T) {
	ctx := compile(t, "main() int x x += 1", Options{Indent: "\t"})
	require.Empty(t, ctx.Errors)
	assert.Contains(t, ctx.Output, "\n\tx += 1;\n")
}

func TestParsePreludeMode(t *testing.T) {
	for in, want := range map[string]PreludeMode{"": PreludeInclude, "include": PreludeInclude, "inline": PreludeInline} {
		got, err := ParsePreludeMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePreludeMode("bundle")
	assert.ErrorContains(t, err, `"bundle"`)
	assert.Equal(t, "inline", PreludeInline.String())
}

func TestProcessorReportsIrreversibleBody(t *testing.T) {
	// Without the analyzer the generator is the first to notice.
	ctx := pipeline.NewPipelineContext("main() int x call f(x)\ninj f(int a) if a > 0 then a += 1 end")
	ctx.FilePath = "raw.invl"
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&CodegenProcessor{},
	).Run(ctx)

	require.Len(t, ctx.Errors, 1)
	assert.Equal(t, diagnostics.ErrI001, ctx.Errors[0].Code)
	assert.Equal(t, "raw.invl", ctx.Errors[0].File)
	assert.Empty(t, ctx.Output)
}

func TestGenerateWithoutMain(t *testing.T) {
	_, err := Generate(&ast.Program{}, Options{})
	assert.Error(t, err)
}

func TestMatrixTerms(t *testing.T) {
	assert.Equal(t, "0", sum(nil))
	assert.Equal(t, "x0 - x1", sum([]string{term(1, "x0"), term(-1, "x1")}))
	assert.Equal(t, "-x0 + 3 * x1 - 2 * x2", sum([]string{term(-1, "x0"), term(3, "x1"), term(-2, "x2")}))
}

func TestPreludeEmbedded(t *testing.T) {
	assert.Contains(t, Prelude(), "void print(const char *name, const T &target)")
}
