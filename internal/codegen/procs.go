package codegen

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/funvibe/invl/internal/ast"
)

// main emits int main(): declarations, the body, then a print of every
// declared variable.
func (g *Generator) main(m *ast.MainProcedure) error {
	body, err := g.involution("main", m.Body, m.Invl)
	if err != nil {
		return err
	}

	g.line("int main() {")
	g.block(func() {
		for _, d := range m.Decls {
			g.declaration(d)
		}
		if !isEmpty(body) {
			if len(m.Decls) > 0 {
				g.out.WriteByte('\n')
			}
			g.statement(body)
		}
		if len(m.Decls) > 0 {
			g.out.WriteByte('\n')
			for _, d := range m.Decls {
				name := d.Var.Var.Name()
				g.line("print(%q, %s);", name, cppName(name))
			}
		}
	})
	g.line("}")
	return nil
}

func (g *Generator) declaration(d *ast.Declaration) {
	t := cppType(d.Var.Type)
	if d.Var.Type.Const {
		t = "const " + t
	}
	name := cppName(d.Var.Var.Name())
	if d.Value == nil {
		g.line("%s %s{};", t, name)
		return
	}
	g.line("%s %s = %s;", t, name, initializer(d.Value))
}

// involution composes S; T; flip(S). Without a `with` part the body is
// returned unchanged.
func (g *Generator) involution(owner string, body, invl ast.Statement) (ast.Statement, error) {
	if invl == nil {
		return body, nil
	}
	undo, err := flip(owner, body)
	if err != nil {
		return nil, err
	}
	return ast.Sequence(body, invl, undo), nil
}

func (g *Generator) proc(proc ast.Proc) error {
	name := proc.ID().Name()
	params := g.signature(proc)

	var fwd, rev ast.Statement
	var err error
	switch p := proc.(type) {
	case *ast.InjectiveProc:
		fwd = p.Body
		if rev, err = flip(name, p.Body); err != nil {
			return err
		}
	case *ast.InvolutiveProc:
		if fwd, err = g.involution(name, p.Body, p.Invl); err != nil {
			return err
		}
	case *ast.MatrixProc:
		g.line("void %s_fwd(%s) {", name, params)
		g.block(func() { g.matrix(p) })
		g.line("}")
		g.out.WriteByte('\n')
		g.selfInverse(p)
		return nil
	default:
		return errors.Errorf("codegen: unsupported procedure %T", proc)
	}

	g.line("void %s_fwd(%s) {", name, params)
	g.block(func() { g.statement(fwd) })
	g.line("}")
	g.out.WriteByte('\n')

	if rev == nil {
		g.selfInverse(proc)
		return nil
	}
	g.line("void %s_rev(%s) {", name, params)
	g.block(func() { g.statement(rev) })
	g.line("}")
	return nil
}

// selfInverse emits a reverse function that runs the forward one.
func (g *Generator) selfInverse(proc ast.Proc) {
	name := proc.ID().Name()
	g.line("void %s_rev(%s) {", name, g.signature(proc))
	g.block(func() {
		g.line("%s_fwd(%s);", name, strings.Join(argNames(proc), ", "))
	})
	g.line("}")
}

// signature renders the parameter list shared by both directions.
func (g *Generator) signature(proc ast.Proc) string {
	var params []ast.TypedVariable
	switch p := proc.(type) {
	case *ast.InjectiveProc:
		params = p.Params
	case *ast.InvolutiveProc:
		params = p.Params
	case *ast.MatrixProc:
		names := matrixParams(p.Arity())
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = "int& " + n
		}
		return strings.Join(parts, ", ")
	}

	parts := make([]string, len(params))
	for i, tv := range params {
		t := cppType(tv.Type)
		if tv.Type.Const {
			t = "const " + t
		}
		parts[i] = t + "& " + cppName(tv.Var.Name())
	}
	return strings.Join(parts, ", ")
}

// argNames lists the parameter names as the body refers to them.
func argNames(proc ast.Proc) []string {
	var params []ast.TypedVariable
	switch p := proc.(type) {
	case *ast.InjectiveProc:
		params = p.Params
	case *ast.InvolutiveProc:
		params = p.Params
	case *ast.MatrixProc:
		return matrixParams(p.Arity())
	}
	names := make([]string, len(params))
	for i, tv := range params {
		names[i] = cppName(tv.Var.Name())
	}
	return names
}

func matrixParams(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "x" + strconv.Itoa(i)
	}
	return names
}

// matrix multiplies the argument vector in place. Identity rows keep their
// value and need neither a temporary nor an assignment.
func (g *Generator) matrix(p *ast.MatrixProc) {
	m := p.Matrix
	xs := matrixParams(m.Size())

	var rows []int
	for row := range m.Size() {
		if !m.IsIdentityRow(row) {
			rows = append(rows, row)
		}
	}
	for _, row := range rows {
		var terms []string
		for col := range m.Size() {
			if c := m.Get(row, col); c != 0 {
				terms = append(terms, term(c, xs[col]))
			}
		}
		g.line("const int t%d = %s;", row, sum(terms))
	}
	for _, row := range rows {
		g.line("%s = t%d;", xs[row], row)
	}
}

func term(coeff int, x string) string {
	switch coeff {
	case 1:
		return x
	case -1:
		return "-" + x
	}
	return strconv.Itoa(coeff) + " * " + x
}

func sum(terms []string) string {
	if len(terms) == 0 {
		return "0"
	}
	var b strings.Builder
	b.WriteString(terms[0])
	for _, t := range terms[1:] {
		if rest, ok := strings.CutPrefix(t, "-"); ok {
			b.WriteString(" - ")
			b.WriteString(rest)
			continue
		}
		b.WriteString(" + ")
		b.WriteString(t)
	}
	return b.String()
}
