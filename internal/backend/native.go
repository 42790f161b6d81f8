package backend

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/funvibe/invl/internal/codegen"
	"github.com/funvibe/invl/internal/config"
)

// BuildError is a failed compiler invocation.
type BuildError struct {
	Compiler string
	Output   string // combined compiler output
	Err      error
}

func (e *BuildError) Error() string {
	msg := e.Compiler + ": " + e.Err.Error()
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *BuildError) Unwrap() error { return e.Err }

// Native compiles with an external C++ compiler.
type Native struct {
	Compiler string
	Flags    []string
	// TempDir holds the per-build scratch directories; os.TempDir() when
	// empty.
	TempDir string
	// Keep leaves scratch directories in place for inspection.
	Keep bool
}

// NewNative returns a backend using compiler, or the default compiler when
// it is empty. A nil flags slice selects the default flags.
func NewNative(compiler string, flags []string) *Native {
	if compiler == "" {
		compiler = config.DefaultCompiler
	}
	if flags == nil {
		flags = config.DefaultCompilerFlags()
	}
	return &Native{Compiler: compiler, Flags: flags}
}

func (n *Native) Name() string {
	return "native(" + n.Compiler + ")"
}

// Compile writes source and the prelude into a scratch directory and builds
// the executable exe.
func (n *Native) Compile(ctx context.Context, source, exe string) error {
	exe, err := filepath.Abs(exe)
	if err != nil {
		return errors.Wrap(err, "resolve output path")
	}
	dir, err := n.scratch()
	if err != nil {
		return err
	}
	if !n.Keep {
		defer os.RemoveAll(dir)
	}
	return n.compileIn(ctx, dir, source, exe)
}

func (n *Native) compileIn(ctx context.Context, dir, source, exe string) error {
	src := filepath.Join(dir, uuid.NewString()+config.OutputExt)
	if err := os.WriteFile(src, []byte(source), 0o644); err != nil {
		return errors.Wrap(err, "write generated source")
	}
	if err := os.WriteFile(filepath.Join(dir, codegen.PreludeFile), []byte(codegen.Prelude()), 0o644); err != nil {
		return errors.Wrap(err, "write prelude")
	}

	args := append(append([]string{}, n.Flags...), "-o", exe, src)
	cmd := exec.CommandContext(ctx, n.Compiler, args...)
	cmd.Dir = dir

	start := time.Now()
	out, err := cmd.CombinedOutput()
	slog.Debug("native compile",
		"compiler", n.Compiler,
		"args", args,
		"elapsed", time.Since(start),
		"ok", err == nil)
	if err != nil {
		return &BuildError{Compiler: n.Compiler, Output: string(out), Err: err}
	}
	return nil
}

// Run compiles source into a scratch directory and runs the executable.
// A failed runtime assertion surfaces as an error carrying the program's
// output so far.
func (n *Native) Run(ctx context.Context, source string) (*Result, error) {
	dir, err := n.scratch()
	if err != nil {
		return nil, err
	}
	if !n.Keep {
		defer os.RemoveAll(dir)
	}

	exe := filepath.Join(dir, "program")
	if err := n.compileIn(ctx, dir, source, exe); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	res := &Result{Stdout: stdout.String(), Elapsed: time.Since(start)}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "program failed"
		}
		return res, errors.Wrap(err, msg)
	}
	return res, nil
}

func (n *Native) scratch() (string, error) {
	dir, err := os.MkdirTemp(n.TempDir, "invl-")
	if err != nil {
		return "", errors.Wrap(err, "create build directory")
	}
	// the compiler runs inside dir, so every path handed to it is absolute
	return filepath.Abs(dir)
}
