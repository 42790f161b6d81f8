package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/invl/internal/ast"
)

// --- Tree Printer (Output shows AST structure) ---

// TreePrinter renders nodes as nested constructor calls, e.g.
// Add(Const(1), Mul(Const(2), Const(3))). Source positions are not shown,
// so two trees print the same iff they are structurally equal.
type TreePrinter struct {
	buf bytes.Buffer
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

// TreeString renders a single node.
func TreeString(n ast.Node) string {
	p := NewTreePrinter()
	n.Accept(p)
	return p.String()
}

func (p *TreePrinter) String() string {
	return p.buf.String()
}

func (p *TreePrinter) write(s string) {
	p.buf.WriteString(s)
}

// call writes name(args...) where each arg is a node or a plain string.
func (p *TreePrinter) call(name string, args ...interface{}) {
	p.write(name)
	if len(args) == 0 {
		return
	}
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		switch a := a.(type) {
		case ast.Node:
			a.Accept(p)
		case string:
			p.write(a)
		}
	}
	p.write(")")
}

func varList(vs []ast.Variable) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func typedList(ps []ast.TypedVariable) string {
	parts := make([]string, len(ps))
	for i, tv := range ps {
		parts[i] = tv.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (p *TreePrinter) VisitProgram(n *ast.Program) {
	args := []interface{}{}
	if n.Main != nil {
		args = append(args, n.Main)
	}
	for _, proc := range n.Procs {
		args = append(args, proc)
	}
	p.call("Program", args...)
}

func (p *TreePrinter) VisitMainProcedure(n *ast.MainProcedure) {
	decls := make([]string, len(n.Decls))
	for i, d := range n.Decls {
		decls[i] = d.Var.String()
		if d.Value != nil {
			decls[i] += " = " + TreeString(d.Value)
		}
	}
	args := []interface{}{"[" + strings.Join(decls, ", ") + "]", n.Body}
	if n.Invl != nil {
		args = append(args, n.Invl)
	}
	p.call("Main", args...)
}

func (p *TreePrinter) VisitInjectiveProc(n *ast.InjectiveProc) {
	p.call("Inj", n.Name.Name(), typedList(n.Params), n.Body)
}

func (p *TreePrinter) VisitInvolutiveProc(n *ast.InvolutiveProc) {
	p.call("Invl", n.Name.Name(), typedList(n.Params), n.Body, n.Invl)
}

func (p *TreePrinter) VisitMatrixProc(n *ast.MatrixProc) {
	p.call("Mat", n.Name.Name(), n.Matrix.String())
}

func (p *TreePrinter) VisitMutateStatement(n *ast.MutateStatement) {
	p.call("Mut", n.Target.Name(), n.Op.String(), n.Value)
}

func (p *TreePrinter) VisitIndexedMutateStatement(n *ast.IndexedMutateStatement) {
	p.call("IndexedMut", n.Target.Name(), n.Index, n.Op.String(), n.Value)
}

func (p *TreePrinter) VisitIndexedSwapStatement(n *ast.IndexedSwapStatement) {
	p.call("IndexedSwap", n.Target.Name(), n.Left, n.Right)
}

func (p *TreePrinter) VisitIfFiStatement(n *ast.IfFiStatement) {
	p.call("IfFi", n.Entry, n.Then, n.Else, n.Exit)
}

func (p *TreePrinter) VisitIfStatement(n *ast.IfStatement) {
	p.call("If", n.Condition, n.Then, n.Else)
}

func (p *TreePrinter) VisitLoopStatement(n *ast.LoopStatement) {
	p.call("Loop", n.Entry, n.Do, n.Loop, n.Exit)
}

func (p *TreePrinter) VisitPushStatement(n *ast.PushStatement) {
	p.call("Push", n.End.String(), n.Operand, n.List.Name())
}

func (p *TreePrinter) VisitPopStatement(n *ast.PopStatement) {
	p.call("Pop", n.End.String(), n.Operand, n.List.Name())
}

func (p *TreePrinter) VisitLocalStatement(n *ast.LocalStatement) {
	p.call("Local", n.Local.String(), n.Init, n.Body, n.Delocal.String(), n.Final)
}

func (p *TreePrinter) VisitCallStatement(n *ast.CallStatement) {
	name := "Call"
	if n.Uncall {
		name = "Uncall"
	}
	p.call(name, n.Proc.Name(), varList(n.Args))
}

func (p *TreePrinter) VisitSkipStatement(n *ast.SkipStatement) {
	p.write("Skip")
}

func (p *TreePrinter) VisitPrintStatement(n *ast.PrintStatement) {
	p.call("Print", n.Var.Name())
}

func (p *TreePrinter) VisitForStatement(n *ast.ForStatement) {
	packs := make([]string, len(n.Packs))
	for i, pack := range n.Packs {
		packs[i] = varList(pack)
	}
	containers := make([]string, len(n.Containers))
	for i, c := range n.Containers {
		containers[i] = c.Var.Name()
		if !c.Perm.IsZero() {
			containers[i] += "[" + c.Perm.Name() + "]"
		}
	}
	p.call("For", "["+strings.Join(packs, ", ")+"]", "["+strings.Join(containers, ", ")+"]", n.Body)
}

func (p *TreePrinter) VisitSequenceStatement(n *ast.SequenceStatement) {
	p.call("Seq", n.First, n.Second)
}

func (p *TreePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.call("Const", strconv.Itoa(n.Value))
}

func (p *TreePrinter) VisitVariableExpression(n *ast.VariableExpression) {
	p.call("Var", n.Var.Name())
}

func (p *TreePrinter) VisitArrayLiteral(n *ast.ArrayLiteral) {
	args := make([]interface{}, len(n.Elements))
	for i, el := range n.Elements {
		args[i] = el
	}
	if len(args) == 0 {
		p.write("Array()")
		return
	}
	p.call("Array", args...)
}

func (p *TreePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.call("Index", n.Var.Name(), n.Index)
}

func (p *TreePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	p.call(n.Op.Name(), n.Left, n.Right)
}

func (p *TreePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.call(n.Op.Name(), n.Right)
}

func (p *TreePrinter) VisitEmptyExpression(n *ast.EmptyExpression) {
	p.call("Empty", n.Var.Name())
}

func (p *TreePrinter) VisitSizeExpression(n *ast.SizeExpression) {
	p.call("Size", n.Var.Name())
}

func (p *TreePrinter) VisitTopExpression(n *ast.TopExpression) {
	p.call("Top", n.Var.Name())
}

func (p *TreePrinter) VisitNilLiteral(n *ast.NilLiteral) {
	p.write("Nil")
}

func (p *TreePrinter) VisitGroupedExpression(n *ast.GroupedExpression) {
	p.call("Wrapped", n.Inner)
}
