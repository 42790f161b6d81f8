package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/funvibe/invl/internal/config"
	"github.com/funvibe/invl/internal/diagnostics"
)

// Options holds the global flags.
type Options struct {
	Config  string
	Debug   bool
	NoColor bool

	stdout io.Writer
	stderr io.Writer
}

func main() {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			// diagnostics were already printed with their source excerpt
			if errors.Is(err, errReported) {
				return
			}
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &Options{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "invl",
		Short: "Compiler for a reversible language",
		Long: `invl compiles reversible programs to C++.

Procedures are injective (inj) or involutive (invl). Every injective
procedure gets a generated inverse; involutions are their own inverse.`,
		Example: `  # Compile a program to prog.cpp
  invl build prog.invl

  # Check several programs without generating code
  invl check a.invl b.invl

  # Show the inverse of an injective procedure
  invl flip prog.invl fib

  # Compile natively and run
  invl run prog.invl`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "Project file (default: invl.yaml or invl.toml found from the source directory up)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		buildCmd(opts),
		checkCmd(opts),
		flipCmd(opts),
		fmtCmd(opts),
		astCmd(opts),
		runCmd(opts),
	)
	return rootCmd
}

func (o *Options) color() bool {
	return !o.NoColor && diagnostics.ColorEnabled()
}

func setupLogging(opts *Options) {
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(opts.stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !opts.color(),
	})
	slog.SetDefault(slog.New(handler))
}

// project loads the --config file, or the project governing dir.
func (o *Options) project(dir string) (*config.Project, error) {
	if o.Config != "" {
		return config.LoadProject(o.Config)
	}
	return config.Discover(dir)
}
