package ast

// ExpressionVariables calls fn for every variable e mentions, in source order.
// Containers of index, empty, size and top expressions count as mentions.
func ExpressionVariables(e Expression, fn func(Variable, Expression)) {
	switch e := e.(type) {
	case *VariableExpression:
		fn(e.Var, e)
	case *IndexExpression:
		fn(e.Var, e)
		ExpressionVariables(e.Index, fn)
	case *EmptyExpression:
		fn(e.Var, e)
	case *SizeExpression:
		fn(e.Var, e)
	case *TopExpression:
		fn(e.Var, e)
	case *ArrayLiteral:
		for _, el := range e.Elements {
			ExpressionVariables(el, fn)
		}
	case *InfixExpression:
		ExpressionVariables(e.Left, fn)
		ExpressionVariables(e.Right, fn)
	case *PrefixExpression:
		ExpressionVariables(e.Right, fn)
	case *GroupedExpression:
		ExpressionVariables(e.Inner, fn)
	}
}

// HasVariable reports whether e mentions v anywhere.
func HasVariable(e Expression, v Variable) bool {
	found := false
	ExpressionVariables(e, func(x Variable, _ Expression) {
		if x == v {
			found = true
		}
	})
	return found
}

// Children returns the direct sub-statements of s.
func Children(s Statement) []Statement {
	switch s := s.(type) {
	case *IfFiStatement:
		return []Statement{s.Then, s.Else}
	case *IfStatement:
		return []Statement{s.Then, s.Else}
	case *LoopStatement:
		return []Statement{s.Do, s.Loop}
	case *LocalStatement:
		return []Statement{s.Body}
	case *ForStatement:
		return []Statement{s.Body}
	case *SequenceStatement:
		return []Statement{s.First, s.Second}
	}
	return nil
}

// Inspect walks s depth-first in execution order. Returning false from fn
// skips the children of that statement.
func Inspect(s Statement, fn func(Statement) bool) {
	if s == nil || !fn(s) {
		return
	}
	for _, c := range Children(s) {
		Inspect(c, fn)
	}
}
