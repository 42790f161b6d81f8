package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/backend"
	"github.com/funvibe/invl/internal/codegen"
	"github.com/funvibe/invl/internal/inverter"
	"github.com/funvibe/invl/internal/prettyprinter"
)

func buildCmd(opts *Options) *cobra.Command {
	var (
		output  string
		jobs    int
		prelude string
		native  bool
	)

	cmd := &cobra.Command{
		Use:   "build [flags] FILE...",
		Short: "Compile programs to C++",
		Long: `Compile each program to a C++ source file.

The output goes next to the source unless the project file sets
output.dir or -o names the file. With the include prelude mode the
runtime header prelude.hpp is written next to the output.`,
		Example: `  invl build prog.invl
  invl build -o out/prog.cpp prog.invl
  invl build --jobs 4 --native *.invl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return errors.New("-o needs exactly one input file")
			}
			if jobs < 1 {
				return errors.Errorf("--jobs must be at least 1, got %d", jobs)
			}

			var g errgroup.Group
			g.SetLimit(jobs)
			for _, path := range args {
				g.Go(func() error {
					return opts.buildFile(cmd.Context(), path, output, prelude, native)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (single input only)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Number of files compiled in parallel")
	cmd.Flags().StringVar(&prelude, "prelude", "", `Prelude mode, "include" or "inline" (default from project file)`)
	cmd.Flags().BoolVar(&native, "native", false, "Also compile the C++ output to an executable")
	return cmd
}

func (o *Options) buildFile(ctx context.Context, path, override, preludeFlag string, native bool) error {
	proj, err := o.project(filepath.Dir(path))
	if err != nil {
		return err
	}
	mode := proj.Output.Prelude
	if preludeFlag != "" {
		mode = preludeFlag
	}
	pm, err := codegen.ParsePreludeMode(mode)
	if err != nil {
		return err
	}

	stages := append(checkStages(), &codegen.CodegenProcessor{Options: codegen.Options{Prelude: pm}})
	pctx, err := o.compileFile(path, stages)
	if err != nil {
		return err
	}

	out := proj.OutputPath(path, override)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return errors.Wrapf(err, "create output directory for %s", path)
	}
	if err := os.WriteFile(out, []byte(pctx.Output), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", out)
	}
	if pm == codegen.PreludeInclude {
		header := filepath.Join(filepath.Dir(out), codegen.PreludeFile)
		if err := os.WriteFile(header, []byte(codegen.Prelude()), 0o644); err != nil {
			return errors.Wrapf(err, "write %s", header)
		}
	}
	slog.Debug("generated", "source", path, "output", out, "prelude", pm)

	if native {
		exe := strings.TrimSuffix(out, filepath.Ext(out))
		b := backend.NewNative(proj.Compiler.Command, proj.Compiler.Flags)
		if err := b.Compile(ctx, pctx.Output, exe); err != nil {
			return errors.Wrapf(err, "build %s", path)
		}
		out = exe
	}

	reportMu.Lock()
	defer reportMu.Unlock()
	_, err = fmt.Fprintln(o.stdout, out)
	return err
}

func checkCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Parse and check programs without generating code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed error
			for _, path := range args {
				if _, err := opts.program(path); err != nil {
					failed = err
					continue
				}
				fmt.Fprintf(opts.stdout, "%s: ok\n", path)
			}
			return failed
		},
	}
}

func flipCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "flip FILE PROC",
		Short: "Print the inverse of a procedure",
		Long: `Print the inverse of a procedure as source.

An injective procedure is printed with its body flipped. Involutions
are their own inverse and print unchanged.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := opts.program(args[0])
			if err != nil {
				return err
			}
			proc, ok := prog.LookupProc(ast.NewProcId(args[1]))
			if !ok {
				return errors.Errorf("%s: no procedure %q", args[0], args[1])
			}

			if p, ok := proc.(*ast.InjectiveProc); ok {
				body, err := inverter.Flip(p.Body)
				if err != nil {
					return err
				}
				proc = &ast.InjectiveProc{Token: p.Token, Name: p.Name, Params: p.Params, Body: body}
			}
			return writeString(opts.stdout, prettyprinter.Format(proc))
		},
	}
}

func fmtCmd(opts *Options) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt [flags] FILE...",
		Short: "Format source files",
		Long: `Format source files in the canonical style.

By default, fmt prints the formatted source to stdout.
Use -w to write the result back to the source file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				ctx, err := opts.compileFile(path, parseStages())
				if err != nil {
					return err
				}
				formatted := prettyprinter.Format(ctx.Program())
				if !write {
					if err := writeString(opts.stdout, formatted); err != nil {
						return err
					}
					continue
				}
				if formatted == ctx.SourceCode {
					continue
				}
				if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
					return errors.Wrapf(err, "write %s", path)
				}
				fmt.Fprintln(opts.stdout, path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write result to source file instead of stdout")
	return cmd
}

func astCmd(opts *Options) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "ast [flags] FILE",
		Short: "Dump the syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.compileFile(args[0], parseStages())
			if err != nil {
				return err
			}
			if tree {
				return writeString(opts.stdout, prettyprinter.TreeString(ctx.Program())+"\n")
			}
			_, err = pretty.Fprintf(opts.stdout, "%# v\n", ctx.Program())
			return err
		},
	}

	cmd.Flags().BoolVarP(&tree, "tree", "t", false, "Print the compact structural form")
	return cmd
}

func runCmd(opts *Options) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "run [flags] FILE",
		Short: "Compile natively and run a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			proj, err := opts.project(filepath.Dir(path))
			if err != nil {
				return err
			}

			b := backend.NewNative(proj.Compiler.Command, proj.Compiler.Flags)
			b.Keep = keep
			stages := append(checkStages(),
				&codegen.CodegenProcessor{},
				backend.NewExecutionProcessor(cmd.Context(), b, opts.stdout),
			)
			_, err = opts.compileFile(path, stages)
			return err
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "Keep the build directory")
	return cmd
}
