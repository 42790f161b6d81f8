package codegen

import (
	"strconv"
	"strings"

	"github.com/funvibe/invl/internal/ast"
)

func (g *Generator) statement(s ast.Statement) {
	switch s := s.(type) {
	case *ast.MutateStatement:
		g.line("%s", mutate(cppName(s.Target.Name()), s.Op, expr(s.Value)))

	case *ast.IndexedMutateStatement:
		target := cppName(s.Target.Name()) + "[" + expr(s.Index) + "]"
		g.line("%s", mutate(target, s.Op, expr(s.Value)))

	case *ast.IndexedSwapStatement:
		a := cppName(s.Target.Name())
		g.line("std::swap(%s[%s], %s[%s]);", a, expr(s.Left), a, expr(s.Right))

	case *ast.IfFiStatement:
		exit := expr(s.Exit)
		g.line("if (%s) {", expr(s.Entry))
		g.block(func() {
			g.statement(s.Then)
			g.line("assert(%s);", exit)
		})
		g.line("} else {")
		g.block(func() {
			g.statement(s.Else)
			g.line("assert(!(%s));", exit)
		})
		g.line("}")

	case *ast.IfStatement:
		g.line("if (%s) {", expr(s.Condition))
		g.block(func() { g.statement(s.Then) })
		if !isEmpty(s.Else) {
			g.line("} else {")
			g.block(func() { g.statement(s.Else) })
		}
		g.line("}")

	case *ast.LoopStatement:
		entry := expr(s.Entry)
		g.line("assert(%s);", entry)
		g.statement(s.Do)
		g.line("while (!(%s)) {", expr(s.Exit))
		g.block(func() {
			g.statement(s.Loop)
			g.line("assert(!(%s));", entry)
			g.statement(s.Do)
		})
		g.line("}")

	case *ast.PushStatement:
		list := cppName(s.List.Name())
		g.line("%s.push_%s(%s);", list, s.End, expr(s.Operand))
		if v, ok := ast.OperandVariable(s.Operand); ok {
			g.line("%s = 0;", cppName(v.Name()))
		}

	case *ast.PopStatement:
		list := cppName(s.List.Name())
		if v, ok := ast.OperandVariable(s.Operand); ok {
			x := cppName(v.Name())
			g.line("assert(%s == 0);", x)
			g.line("%s = %s.%s();", x, list, s.End)
		} else {
			g.line("assert(%s.%s() == %s);", list, s.End, expr(s.Operand))
		}
		g.line("%s.pop_%s();", list, s.End)

	case *ast.LocalStatement:
		name := cppName(s.Local.Var.Name())
		g.line("{")
		g.block(func() {
			g.line("%s %s = %s;", cppType(s.Local.Type), name, initializer(s.Init))
			g.statement(s.Body)
			g.line("assert(%s == %s);", name, typedValue(s.Delocal.Type, s.Final))
		})
		g.line("}")

	case *ast.CallStatement:
		dir := "fwd"
		if s.Uncall {
			dir = "rev"
		}
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = cppName(a.Name())
		}
		g.line("%s_%s(%s);", s.Proc.Name(), dir, strings.Join(args, ", "))

	case *ast.SkipStatement:

	case *ast.PrintStatement:
		g.line("print(%q, %s);", s.Var.Name(), cppName(s.Var.Name()))

	case *ast.ForStatement:
		g.forLoop(s)

	case *ast.SequenceStatement:
		g.statement(s.First)
		g.statement(s.Second)
	}
}

func mutate(target string, op ast.MutOp, value string) string {
	if op == ast.MutSwap {
		return "std::swap(" + target + ", " + value + ");"
	}
	return target + " " + op.String() + " " + value + ";"
}

// forLoop walks the containers in lock-step. Each iteration binds a pack of
// consecutive elements per container, starting at the chunk chosen by the
// permutation index when there is one. The first container sets the count.
func (g *Generator) forLoop(s *ast.ForStatement) {
	i := "i" + strconv.Itoa(g.loops) + "_"
	first := s.Containers[0]
	count := cppName(first.Var.Name()) + ".size()"
	if n := len(s.Packs[0]); n > 1 {
		count += " / " + strconv.Itoa(n)
	}

	g.line("for (std::size_t %s = 0; %s < %s; ++%s) {", i, i, count, i)
	g.loops++
	g.block(func() {
		for c, container := range s.Containers {
			chunk := i
			if !container.Perm.IsZero() {
				chunk = cppName(container.Perm.Name()) + "[" + i + "]"
			}
			pack := s.Packs[c]
			for k, v := range pack {
				g.line("auto& %s = %s[%s];", cppName(v.Name()), cppName(container.Var.Name()), element(chunk, len(pack), k))
			}
		}
		g.statement(s.Body)
	})
	g.loops--
	g.line("}")
}

// element is the index of the k-th pack variable in chunk.
func element(chunk string, size, k int) string {
	if size == 1 {
		return chunk
	}
	idx := strconv.Itoa(size) + " * " + chunk
	if k > 0 {
		idx += " + " + strconv.Itoa(k)
	}
	return idx
}
