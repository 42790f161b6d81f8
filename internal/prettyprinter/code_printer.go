package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/invl/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
	column int // current column position
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Format renders a node back to source text.
func Format(n ast.Node) string {
	p := NewCodePrinter()
	n.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
	p.column = p.indent * 4
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
	// Track column position
	if idx := strings.LastIndex(s, "\n"); idx != -1 {
		p.column = len(s) - idx - 1
	} else {
		p.column += len(s)
	}
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
	p.column = 0
}

// line writes one indented line.
func (p *CodePrinter) line(s string) {
	p.writeIndent()
	p.write(s)
	p.writeln()
}

// block prints s one level deeper.
func (p *CodePrinter) block(s ast.Statement) {
	p.indent++
	s.Accept(p)
	p.indent--
}

// topLevel is the context precedence of a whole expression.
const topLevel = -1

// printExpr prints an expression, adding parentheses only if needed.
// Every binary operator is right-associative, so a left operand of equal
// precedence needs parentheses and a right one does not.
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	switch e := expr.(type) {
	case *ast.InfixExpression:
		prec := e.Op.Precedence()
		needParens := prec < parentPrec || (prec == parentPrec && !isRight)
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		p.write(" " + e.Op.String() + " ")
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}
	case *ast.PrefixExpression:
		p.write(e.Op.String())
		p.printExpr(e.Right, ast.PrefixPrecedence, false)
	default:
		expr.Accept(p)
	}
}

func (p *CodePrinter) expr(e ast.Expression) string {
	sub := &CodePrinter{}
	sub.printExpr(e, topLevel, false)
	return sub.String()
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	if n.Main != nil {
		n.Main.Accept(p)
	}
	for _, proc := range n.Procs {
		p.writeln()
		proc.Accept(p)
	}
}

func (p *CodePrinter) VisitMainProcedure(n *ast.MainProcedure) {
	p.line("main()")
	p.indent++
	for _, d := range n.Decls {
		s := d.Var.String()
		if d.Value != nil {
			s += " = " + p.expr(d.Value)
		}
		p.line(s)
	}
	n.Body.Accept(p)
	p.indent--
	if n.Invl != nil {
		p.line("with")
		p.block(n.Invl)
	}
}

func params(ps []ast.TypedVariable) string {
	parts := make([]string, len(ps))
	for i, tv := range ps {
		parts[i] = tv.String()
	}
	return strings.Join(parts, ", ")
}

func (p *CodePrinter) VisitInjectiveProc(n *ast.InjectiveProc) {
	p.line("inj " + n.Name.Name() + "(" + params(n.Params) + ")")
	p.block(n.Body)
}

func (p *CodePrinter) VisitInvolutiveProc(n *ast.InvolutiveProc) {
	p.line("invl " + n.Name.Name() + "(" + params(n.Params) + ")")
	if _, skip := n.Body.(*ast.SkipStatement); !skip {
		p.block(n.Body)
	}
	p.line("with")
	p.block(n.Invl)
}

func (p *CodePrinter) VisitMatrixProc(n *ast.MatrixProc) {
	p.line("invl " + n.Name.Name() + n.Matrix.String())
}

func (p *CodePrinter) VisitMutateStatement(n *ast.MutateStatement) {
	p.line(n.Target.Name() + " " + n.Op.String() + " " + p.expr(n.Value))
}

func (p *CodePrinter) VisitIndexedMutateStatement(n *ast.IndexedMutateStatement) {
	p.line(n.Target.Name() + "[" + p.expr(n.Index) + "] " + n.Op.String() + " " + p.expr(n.Value))
}

func (p *CodePrinter) VisitIndexedSwapStatement(n *ast.IndexedSwapStatement) {
	x := n.Target.Name()
	p.line(x + "[" + p.expr(n.Left) + "] <=> " + x + "[" + p.expr(n.Right) + "]")
}

func (p *CodePrinter) VisitIfFiStatement(n *ast.IfFiStatement) {
	p.line("if " + p.expr(n.Entry) + " then")
	p.block(n.Then)
	if _, skip := n.Else.(*ast.SkipStatement); !skip {
		p.line("else")
		p.block(n.Else)
	}
	p.line("fi " + p.expr(n.Exit))
}

func (p *CodePrinter) VisitIfStatement(n *ast.IfStatement) {
	p.line("if " + p.expr(n.Condition) + " then")
	p.block(n.Then)
	if _, skip := n.Else.(*ast.SkipStatement); !skip {
		p.line("else")
		p.block(n.Else)
	}
	p.line("end")
}

func (p *CodePrinter) VisitLoopStatement(n *ast.LoopStatement) {
	p.line("from " + p.expr(n.Entry))
	if _, skip := n.Do.(*ast.SkipStatement); !skip {
		p.line("do")
		p.block(n.Do)
	}
	if _, skip := n.Loop.(*ast.SkipStatement); !skip {
		p.line("loop")
		p.block(n.Loop)
	}
	p.line("until " + p.expr(n.Exit))
}

func (p *CodePrinter) VisitPushStatement(n *ast.PushStatement) {
	p.line("push_" + n.End.String() + "(" + p.expr(n.Operand) + ", " + n.List.Name() + ")")
}

func (p *CodePrinter) VisitPopStatement(n *ast.PopStatement) {
	p.line("pop_" + n.End.String() + "(" + p.expr(n.Operand) + ", " + n.List.Name() + ")")
}

func (p *CodePrinter) VisitLocalStatement(n *ast.LocalStatement) {
	p.line("local " + n.Local.String() + " = " + p.expr(n.Init))
	if _, skip := n.Body.(*ast.SkipStatement); !skip {
		p.block(n.Body)
	}
	p.line("delocal " + n.Delocal.String() + " = " + p.expr(n.Final))
}

func (p *CodePrinter) VisitCallStatement(n *ast.CallStatement) {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.Name()
	}
	p.line(n.Keyword() + " " + n.Proc.Name() + "(" + strings.Join(args, ", ") + ")")
}

func (p *CodePrinter) VisitSkipStatement(n *ast.SkipStatement) {
	p.line("skip")
}

func (p *CodePrinter) VisitPrintStatement(n *ast.PrintStatement) {
	p.line("print(" + n.Var.Name() + ")")
}

func (p *CodePrinter) VisitForStatement(n *ast.ForStatement) {
	packs := make([]string, len(n.Packs))
	for i, pack := range n.Packs {
		if len(pack) == 1 {
			packs[i] = pack[0].Name()
			continue
		}
		names := make([]string, len(pack))
		for j, v := range pack {
			names[j] = v.Name()
		}
		packs[i] = "[" + strings.Join(names, ", ") + "]"
	}
	containers := make([]string, len(n.Containers))
	for i, c := range n.Containers {
		containers[i] = c.Var.Name()
		if !c.Perm.IsZero() {
			containers[i] += "[" + c.Perm.Name() + "]"
		}
	}
	p.line("for " + group(packs) + " in " + group(containers) + " do")
	p.block(n.Body)
	p.line("end")
}

func group(items []string) string {
	if len(items) == 1 {
		return items[0]
	}
	return "(" + strings.Join(items, ", ") + ")"
}

func (p *CodePrinter) VisitSequenceStatement(n *ast.SequenceStatement) {
	n.First.Accept(p)
	n.Second.Accept(p)
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.write(strconv.Itoa(n.Value))
}

func (p *CodePrinter) VisitVariableExpression(n *ast.VariableExpression) {
	p.write(n.Var.Name())
}

func (p *CodePrinter) VisitArrayLiteral(n *ast.ArrayLiteral) {
	p.write("[")
	for i, el := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(el, topLevel, false)
	}
	p.write("]")
}

func (p *CodePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.write(n.Var.Name() + "[")
	p.printExpr(n.Index, topLevel, false)
	p.write("]")
}

func (p *CodePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	p.printExpr(n, topLevel, false)
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.printExpr(n, topLevel, false)
}

func (p *CodePrinter) VisitEmptyExpression(n *ast.EmptyExpression) {
	p.write("empty(" + n.Var.Name() + ")")
}

func (p *CodePrinter) VisitSizeExpression(n *ast.SizeExpression) {
	p.write("size(" + n.Var.Name() + ")")
}

func (p *CodePrinter) VisitTopExpression(n *ast.TopExpression) {
	p.write("top(" + n.Var.Name() + ")")
}

func (p *CodePrinter) VisitNilLiteral(n *ast.NilLiteral) {
	p.write("nil")
}

func (p *CodePrinter) VisitGroupedExpression(n *ast.GroupedExpression) {
	p.write("(")
	p.printExpr(n.Inner, topLevel, false)
	p.write(")")
}
