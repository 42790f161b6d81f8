// Package codegen lowers a checked program to C++.
//
// Every procedure becomes a forward and a reverse function taking its
// parameters by reference. Exit conditions, delocal values and pop targets
// become runtime assertions.
package codegen

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/inverter"
)

// PreludeMode selects how the runtime header reaches the output.
type PreludeMode int

const (
	// PreludeInclude emits #include "prelude.hpp"; the header must be
	// written next to the generated file.
	PreludeInclude PreludeMode = iota
	// PreludeInline copies the header into the generated file.
	PreludeInline
)

func (m PreludeMode) String() string {
	if m == PreludeInline {
		return "inline"
	}
	return "include"
}

// ParsePreludeMode accepts "include" and "inline". An empty string means
// include.
func ParsePreludeMode(s string) (PreludeMode, error) {
	switch s {
	case "", "include":
		return PreludeInclude, nil
	case "inline":
		return PreludeInline, nil
	}
	return PreludeInclude, errors.Errorf("unknown prelude mode %q (want include or inline)", s)
}

type Options struct {
	Prelude PreludeMode
	// Indent is one nesting level; four spaces when empty.
	Indent string
}

func (o Options) indent() string {
	if o.Indent == "" {
		return "    "
	}
	return o.Indent
}

// Generator writes one translation unit.
type Generator struct {
	program *ast.Program
	opts    Options
	out     strings.Builder
	depth   int
	loops   int // nesting depth of for loops, names their counters
}

// Generate lowers program to C++. The program must have passed the
// analyzer; a body that cannot be flipped fails with an *inverter.Error in
// the chain.
func Generate(program *ast.Program, opts Options) (string, error) {
	if program == nil || program.Main == nil {
		return "", errors.New("codegen: program has no main procedure")
	}
	g := &Generator{program: program, opts: opts}
	if err := g.generate(); err != nil {
		return "", err
	}
	return g.out.String(), nil
}

func (g *Generator) generate() error {
	if g.opts.Prelude == PreludeInline {
		g.out.WriteString(strings.TrimRight(prelude, "\n"))
		g.out.WriteString("\n\n")
	} else {
		fmt.Fprintf(&g.out, "#include %q\n\n", PreludeFile)
	}

	if len(g.program.Procs) > 0 {
		for _, proc := range g.program.Procs {
			params := g.signature(proc)
			g.line("void %s_fwd(%s);", proc.ID().Name(), params)
			g.line("void %s_rev(%s);", proc.ID().Name(), params)
		}
		g.out.WriteByte('\n')
	}

	if err := g.main(g.program.Main); err != nil {
		return err
	}

	for _, proc := range g.program.Procs {
		g.out.WriteByte('\n')
		if err := g.proc(proc); err != nil {
			return err
		}
	}
	return nil
}

// line writes one indented line.
func (g *Generator) line(format string, args ...any) {
	for range g.depth {
		g.out.WriteString(g.opts.indent())
	}
	fmt.Fprintf(&g.out, format, args...)
	g.out.WriteByte('\n')
}

// block writes the lines produced by body one level deeper.
func (g *Generator) block(body func()) {
	g.depth++
	body()
	g.depth--
}

// flip inverts a body that is about to be emitted in reverse.
func flip(owner string, s ast.Statement) (ast.Statement, error) {
	inv, err := inverter.Flip(s)
	if err != nil {
		return nil, errors.Wrapf(err, "reverse of %s", owner)
	}
	return inv, nil
}

// isEmpty reports whether s emits no code.
func isEmpty(s ast.Statement) bool {
	for _, st := range ast.Flatten(s) {
		if _, ok := st.(*ast.SkipStatement); !ok {
			return false
		}
	}
	return true
}
