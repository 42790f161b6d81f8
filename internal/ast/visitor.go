package ast

// Visitor dispatches on concrete node types.
type Visitor interface {
	VisitProgram(node *Program)
	VisitMainProcedure(node *MainProcedure)
	VisitInjectiveProc(node *InjectiveProc)
	VisitInvolutiveProc(node *InvolutiveProc)
	VisitMatrixProc(node *MatrixProc)

	VisitMutateStatement(node *MutateStatement)
	VisitIndexedMutateStatement(node *IndexedMutateStatement)
	VisitIndexedSwapStatement(node *IndexedSwapStatement)
	VisitIfFiStatement(node *IfFiStatement)
	VisitIfStatement(node *IfStatement)
	VisitLoopStatement(node *LoopStatement)
	VisitPushStatement(node *PushStatement)
	VisitPopStatement(node *PopStatement)
	VisitLocalStatement(node *LocalStatement)
	VisitCallStatement(node *CallStatement)
	VisitSkipStatement(node *SkipStatement)
	VisitPrintStatement(node *PrintStatement)
	VisitForStatement(node *ForStatement)
	VisitSequenceStatement(node *SequenceStatement)

	VisitIntegerLiteral(node *IntegerLiteral)
	VisitVariableExpression(node *VariableExpression)
	VisitArrayLiteral(node *ArrayLiteral)
	VisitIndexExpression(node *IndexExpression)
	VisitInfixExpression(node *InfixExpression)
	VisitPrefixExpression(node *PrefixExpression)
	VisitEmptyExpression(node *EmptyExpression)
	VisitSizeExpression(node *SizeExpression)
	VisitTopExpression(node *TopExpression)
	VisitNilLiteral(node *NilLiteral)
	VisitGroupedExpression(node *GroupedExpression)
}
