package inverter_test

import (
	"errors"
	"fmt"
	"slices"

	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/inverter"
)

// A small reference evaluator: enough of the language to run a procedure
// forwards and then run its flipped body.

type slot struct {
	n  int
	xs []int // array elements, or list contents front first
}

type state map[ast.Variable]*slot

func (s state) clone() state {
	c := make(state, len(s))
	for v, sl := range s {
		c[v] = &slot{n: sl.n, xs: slices.Clone(sl.xs)}
	}
	return c
}

func (s state) snapshot() map[string]string {
	out := make(map[string]string, len(s))
	for v, sl := range s {
		out[v.Name()] = fmt.Sprintf("%d %v", sl.n, sl.xs)
	}
	return out
}

type assertion struct {
	msg string
}

type machine struct {
	prog *ast.Program
}

func (m *machine) fail(format string, args ...interface{}) {
	panic(assertion{msg: fmt.Sprintf(format, args...)})
}

// run executes s against env, turning a failed assertion into an error.
func (m *machine) run(s ast.Statement, env state) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a, ok := r.(assertion)
			if !ok {
				panic(r)
			}
			err = errors.New(a.msg)
		}
	}()
	m.exec(s, env)
	return nil
}

func apply(target *int, op ast.MutOp, v int) {
	switch op {
	case ast.MutAdd:
		*target += v
	case ast.MutSub:
		*target -= v
	case ast.MutXor:
		*target ^= v
	}
}

func (m *machine) exec(s ast.Statement, env state) {
	switch s := s.(type) {
	case *ast.MutateStatement:
		target := &env[s.Target].n
		if s.Op == ast.MutSwap {
			other := m.ref(s.Value, env)
			*target, *other = *other, *target
			return
		}
		apply(target, s.Op, m.eval(s.Value, env))

	case *ast.IndexedMutateStatement:
		target := &env[s.Target].xs[m.eval(s.Index, env)]
		if s.Op == ast.MutSwap {
			other := m.ref(s.Value, env)
			*target, *other = *other, *target
			return
		}
		apply(target, s.Op, m.eval(s.Value, env))

	case *ast.IndexedSwapStatement:
		xs := env[s.Target].xs
		l, r := m.eval(s.Left, env), m.eval(s.Right, env)
		xs[l], xs[r] = xs[r], xs[l]

	case *ast.IfFiStatement:
		cond := m.eval(s.Entry, env) != 0
		if cond {
			m.exec(s.Then, env)
		} else {
			m.exec(s.Else, env)
		}
		if (m.eval(s.Exit, env) != 0) != cond {
			m.fail("fi assertion does not match the entry condition")
		}

	case *ast.LoopStatement:
		if m.eval(s.Entry, env) == 0 {
			m.fail("from condition is false on entry")
		}
		m.exec(s.Do, env)
		for m.eval(s.Exit, env) == 0 {
			m.exec(s.Loop, env)
			if m.eval(s.Entry, env) != 0 {
				m.fail("from condition holds inside the loop")
			}
			m.exec(s.Do, env)
		}

	case *ast.PushStatement:
		v := m.eval(s.Operand, env)
		if x, ok := ast.OperandVariable(s.Operand); ok {
			env[x].n = 0
		}
		l := env[s.List]
		if s.End == ast.Front {
			l.xs = append([]int{v}, l.xs...)
		} else {
			l.xs = append(slices.Clone(l.xs), v)
		}

	case *ast.PopStatement:
		l := env[s.List]
		if len(l.xs) == 0 {
			m.fail("pop from empty list %s", s.List)
		}
		var v int
		if s.End == ast.Front {
			v, l.xs = l.xs[0], l.xs[1:]
		} else {
			v, l.xs = l.xs[len(l.xs)-1], l.xs[:len(l.xs)-1]
		}
		if x, ok := ast.OperandVariable(s.Operand); ok {
			if env[x].n != 0 {
				m.fail("pop into non-zero %s", x)
			}
			env[x].n = v
		} else if want := m.eval(s.Operand, env); want != v {
			m.fail("popped %d, expected %d", v, want)
		}

	case *ast.LocalStatement:
		x := s.Local.Var
		env[x] = &slot{n: m.eval(s.Init, env)}
		m.exec(s.Body, env)
		if got, want := env[x].n, m.eval(s.Final, env); got != want {
			m.fail("delocal %s = %d, expected %d", x, got, want)
		}
		delete(env, x)

	case *ast.CallStatement:
		proc, ok := m.prog.LookupProc(s.Proc)
		if !ok {
			m.fail("undefined procedure %s", s.Proc)
		}
		inj, ok := proc.(*ast.InjectiveProc)
		if !ok {
			m.fail("unsupported procedure %s", s.Proc)
		}
		callee := state{}
		for i, p := range inj.Params {
			callee[p.Var] = env[s.Args[i]]
		}
		body := inj.Body
		if s.Uncall {
			flipped, err := inverter.Flip(body)
			if err != nil {
				m.fail("%v", err)
			}
			body = flipped
		}
		m.exec(body, callee)

	case *ast.SequenceStatement:
		m.exec(s.First, env)
		m.exec(s.Second, env)

	case *ast.SkipStatement, *ast.PrintStatement:

	default:
		m.fail("unsupported statement %T", s)
	}
}

// ref returns the storage behind a swap partner.
func (m *machine) ref(e ast.Expression, env state) *int {
	switch e := e.(type) {
	case *ast.VariableExpression:
		return &env[e.Var].n
	case *ast.IndexExpression:
		return &env[e.Var].xs[m.eval(e.Index, env)]
	}
	m.fail("cannot swap with %T", e)
	return nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (m *machine) eval(e ast.Expression, env state) int {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return e.Value
	case *ast.VariableExpression:
		return env[e.Var].n
	case *ast.IndexExpression:
		return env[e.Var].xs[m.eval(e.Index, env)]
	case *ast.GroupedExpression:
		return m.eval(e.Inner, env)
	case *ast.EmptyExpression:
		return b2i(len(env[e.Var].xs) == 0)
	case *ast.SizeExpression:
		return len(env[e.Var].xs)
	case *ast.TopExpression:
		xs := env[e.Var].xs
		if len(xs) == 0 {
			m.fail("top of empty list %s", e.Var)
		}
		return xs[0]
	case *ast.PrefixExpression:
		v := m.eval(e.Right, env)
		if e.Op == ast.OpNot {
			return b2i(v == 0)
		}
		return -v
	case *ast.InfixExpression:
		l, r := m.eval(e.Left, env), m.eval(e.Right, env)
		switch e.Op {
		case ast.OpOr:
			return b2i(l != 0 || r != 0)
		case ast.OpAnd:
			return b2i(l != 0 && r != 0)
		case ast.OpBitOr:
			return l | r
		case ast.OpXor:
			return l ^ r
		case ast.OpBitAnd:
			return l & r
		case ast.OpEq:
			return b2i(l == r)
		case ast.OpNotEq:
			return b2i(l != r)
		case ast.OpLt:
			return b2i(l < r)
		case ast.OpGt:
			return b2i(l > r)
		case ast.OpLte:
			return b2i(l <= r)
		case ast.OpGte:
			return b2i(l >= r)
		case ast.OpAdd:
			return l + r
		case ast.OpSub:
			return l - r
		case ast.OpMul:
			return l * r
		case ast.OpDiv:
			return l / r
		case ast.OpRem:
			return l % r
		}
	}
	m.fail("unsupported expression %T", e)
	return 0
}
