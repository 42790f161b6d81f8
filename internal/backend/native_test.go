package backend

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/invl/internal/analyzer"
	"github.com/funvibe/invl/internal/codegen"
	"github.com/funvibe/invl/internal/config"
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/lexer"
	"github.com/funvibe/invl/internal/parser"
	"github.com/funvibe/invl/internal/pipeline"
)

// fakeCompiler stands in for c++: it checks that the prelude sits next to
// the source and writes a script that prints the source file's name.
const fakeCompiler = `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    *) src="$1"; shift ;;
  esac
done
test -f prelude.hpp || { echo "missing prelude" >&2; exit 3; }
grep -q 'int main' "$src" || { echo "no main in $src" >&2; exit 4; }
printf '#!/bin/sh\necho "compiled %s"\n' "$(basename "$src")" > "$out"
chmod +x "$out"
`

const brokenCompiler = `#!/bin/sh
echo "prog.cpp:1:1: error: boom" >&2
exit 1
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts need a POSIX system")
	}
	path := filepath.Join(t.TempDir(), "cxx")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func TestNewNativeDefaults(t *testing.T) {
	n := NewNative("", nil)
	assert.Equal(t, config.DefaultCompiler, n.Compiler)
	assert.Equal(t, config.DefaultCompilerFlags(), n.Flags)
	assert.Equal(t, "native(c++)", n.Name())

	n = NewNative("clang++", []string{})
	assert.Equal(t, "clang++", n.Compiler)
	assert.Empty(t, n.Flags)
}

func TestRunWithFakeCompiler(t *testing.T) {
	n := NewNative(writeScript(t, fakeCompiler), []string{"-std=c++20"})
	n.TempDir = t.TempDir()

	res, err := n.Run(context.Background(), "int main() {}\n")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Stdout, "compiled "), res.Stdout)
	assert.True(t, strings.HasSuffix(res.Stdout, config.OutputExt+"\n"), res.Stdout)

	entries, err := os.ReadDir(n.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory should be removed")
}

func TestKeepLeavesScratchDirectory(t *testing.T) {
	n := NewNative(writeScript(t, fakeCompiler), []string{})
	n.TempDir = t.TempDir()
	n.Keep = true

	_, err := n.Run(context.Background(), "int main() {}\n")
	require.NoError(t, err)

	dirs, err := filepath.Glob(filepath.Join(n.TempDir, "invl-*", codegen.PreludeFile))
	require.NoError(t, err)
	assert.Len(t, dirs, 1)
}

func TestCompileWritesExecutable(t *testing.T) {
	n := NewNative(writeScript(t, fakeCompiler), nil)
	n.TempDir = t.TempDir()
	exe := filepath.Join(t.TempDir(), "prog")

	require.NoError(t, n.Compile(context.Background(), "int main() {}\n", exe))
	info, err := os.Stat(exe)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111)
}

func TestCompilerFailure(t *testing.T) {
	n := NewNative(writeScript(t, brokenCompiler), nil)
	n.TempDir = t.TempDir()

	_, err := n.Run(context.Background(), "int main() {}\n")
	require.Error(t, err)

	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Contains(t, be.Output, "error: boom")
	assert.Contains(t, err.Error(), "error: boom")

	var exitErr *exec.ExitError
	assert.True(t, errors.As(err, &exitErr))
}

func TestMissingCompiler(t *testing.T) {
	n := NewNative("invl-no-such-compiler", nil)
	n.TempDir = t.TempDir()

	err := n.Compile(context.Background(), "int main() {}\n", filepath.Join(t.TempDir(), "prog"))
	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "invl-no-such-compiler", be.Compiler)
}

func TestProgramFailure(t *testing.T) {
	// The "program" exits non-zero after printing, as a failed assert would.
	script := `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
printf '#!/bin/sh\necho partial\necho "Assertion failed" >&2\nexit 134\n' > "$out"
chmod +x "$out"
`
	n := NewNative(writeScript(t, script), nil)
	n.TempDir = t.TempDir()

	res, err := n.Run(context.Background(), "int main() {}\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Assertion failed")
	require.NotNil(t, res)
	assert.Equal(t, "partial\n", res.Stdout)
}

func runPipeline(t *testing.T, input string, b Backend, stdout *bytes.Buffer) *pipeline.PipelineContext {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	ctx.FilePath = "prog.invl"
	return pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.AnalyzerProcessor{},
		&codegen.CodegenProcessor{},
		NewExecutionProcessor(context.Background(), b, stdout),
	).Run(ctx)
}

func TestExecutionProcessor(t *testing.T) {
	n := NewNative(writeScript(t, fakeCompiler), nil)
	n.TempDir = t.TempDir()

	var out bytes.Buffer
	ctx := runPipeline(t, "main() int x x += 1", n, &out)
	require.Empty(t, ctx.Errors)
	assert.Contains(t, out.String(), "compiled ")
}

func TestExecutionProcessorReportsBuildError(t *testing.T) {
	n := NewNative(writeScript(t, brokenCompiler), nil)
	n.TempDir = t.TempDir()

	var out bytes.Buffer
	ctx := runPipeline(t, "main() int x x += 1", n, &out)
	require.Len(t, ctx.Errors, 1)
	assert.Equal(t, diagnostics.ErrB001, ctx.Errors[0].Code)
	assert.Equal(t, "prog.invl", ctx.Errors[0].File)
	assert.Contains(t, ctx.Errors[0].Message, "error: boom")
}

func TestExecutionProcessorSkipsAfterErrors(t *testing.T) {
	n := NewNative("invl-no-such-compiler", nil)

	var out bytes.Buffer
	ctx := runPipeline(t, "main() int x x += x", n, &out)
	require.Len(t, ctx.Errors, 1)
	assert.Equal(t, diagnostics.ErrR001, ctx.Errors[0].Code)
	assert.Empty(t, out.String())
}

// TestNativeRoundTrip compiles a real program when INVL_NATIVE_TESTS is set
// and a C++ compiler is available.
func TestNativeRoundTrip(t *testing.T) {
	if os.Getenv("INVL_NATIVE_TESTS") == "" {
		t.Skip("set INVL_NATIVE_TESTS=1 to run against a real compiler")
	}
	if _, err := exec.LookPath(config.DefaultCompiler); err != nil {
		t.Skip("no C++ compiler in PATH")
	}

	src, err := os.ReadFile(filepath.Join("..", "codegen", "testdata", "injective.invl"))
	require.NoError(t, err)

	var out bytes.Buffer
	ctx := runPipeline(t, string(src), NewNative("", nil), &out)
	require.Empty(t, ctx.Errors)
	assert.Equal(t, "n: int = 3\nl: list = [3, 2, 1]\n", out.String())
}
