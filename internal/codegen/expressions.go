package codegen

import (
	"strconv"
	"strings"

	"github.com/funvibe/invl/internal/ast"
)

func cppType(t ast.Type) string {
	switch t.Kind {
	case ast.KindArray:
		return "std::array<int, " + strconv.Itoa(t.Size) + ">"
	case ast.KindList:
		return "std::deque<int>"
	}
	return "int"
}

// cppKeywords are C++ reserved words that are plain identifiers in source.
var cppKeywords = map[string]bool{
	"alignas": true, "alignof": true, "and": true, "and_eq": true, "asm": true,
	"auto": true, "bitand": true, "bitor": true, "bool": true, "break": true,
	"case": true, "catch": true, "char": true, "char8_t": true, "char16_t": true,
	"char32_t": true, "class": true, "compl": true, "concept": true,
	"const_cast": true, "consteval": true, "constexpr": true, "constinit": true,
	"continue": true, "co_await": true, "co_return": true, "co_yield": true,
	"decltype": true, "default": true, "delete": true, "double": true,
	"dynamic_cast": true, "enum": true, "explicit": true, "export": true,
	"extern": true, "false": true, "float": true, "friend": true, "goto": true,
	"inline": true, "long": true, "mutable": true, "namespace": true, "new": true,
	"noexcept": true, "not": true, "not_eq": true, "nullptr": true,
	"operator": true, "or": true, "or_eq": true, "private": true,
	"protected": true, "public": true, "register": true,
	"reinterpret_cast": true, "requires": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "static_assert": true,
	"static_cast": true, "struct": true, "switch": true, "template": true,
	"this": true, "thread_local": true, "throw": true, "true": true, "try": true,
	"typedef": true, "typeid": true, "typename": true, "union": true,
	"unsigned": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "wchar_t": true, "while": true, "xor": true, "xor_eq": true,
}

// cppName maps a source identifier to a C++ one.
func cppName(name string) string {
	if cppKeywords[name] {
		return name + "_"
	}
	return name
}

// initializer renders the right-hand side of a declaration. Array literals
// become braced lists so they fit both arrays and lists.
func initializer(e ast.Expression) string {
	if lit, ok := e.(*ast.ArrayLiteral); ok {
		return "{" + elements(lit) + "}"
	}
	return expr(e)
}

// typedValue renders e as a value of type t.
func typedValue(t ast.Type, e ast.Expression) string {
	if lit, ok := e.(*ast.ArrayLiteral); ok {
		return cppType(t) + "{" + elements(lit) + "}"
	}
	return expr(e)
}

func elements(lit *ast.ArrayLiteral) string {
	parts := make([]string, len(lit.Elements))
	for i, el := range lit.Elements {
		parts[i] = expr(el)
	}
	return strings.Join(parts, ", ")
}

func expr(e ast.Expression) string {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return strconv.Itoa(e.Value)
	case *ast.VariableExpression:
		return cppName(e.Var.Name())
	case *ast.ArrayLiteral:
		return "std::array<int, " + strconv.Itoa(len(e.Elements)) + ">{" + elements(e) + "}"
	case *ast.IndexExpression:
		return cppName(e.Var.Name()) + "[" + expr(e.Index) + "]"
	case *ast.InfixExpression:
		prec := e.Op.Precedence()
		return operand(e.Left, prec, false) + " " + binOp(e.Op) + " " + operand(e.Right, prec, true)
	case *ast.PrefixExpression:
		switch e.Right.(type) {
		case *ast.InfixExpression, *ast.PrefixExpression:
			return e.Op.String() + "(" + expr(e.Right) + ")"
		}
		return e.Op.String() + expr(e.Right)
	case *ast.EmptyExpression:
		return cppName(e.Var.Name()) + ".empty()"
	case *ast.SizeExpression:
		return cppName(e.Var.Name()) + ".size()"
	case *ast.TopExpression:
		return cppName(e.Var.Name()) + ".front()"
	case *ast.NilLiteral:
		return "std::deque<int>{}"
	case *ast.GroupedExpression:
		return "(" + expr(e.Inner) + ")"
	}
	return ""
}

// operand parenthesizes a nested binary expression unless C++'s own
// precedence and left associativity already group it the same way.
func operand(e ast.Expression, parent int, right bool) string {
	in, ok := e.(*ast.InfixExpression)
	if !ok {
		return expr(e)
	}
	prec := in.Op.Precedence()
	if prec < parent || right && prec == parent {
		return "(" + expr(e) + ")"
	}
	return expr(e)
}

func binOp(op ast.BinOp) string {
	if op == ast.OpEq {
		return "=="
	}
	return op.String()
}
