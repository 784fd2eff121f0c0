package ncc

// StmtVisitor is the exhaustive double-dispatch interface every AST
// node accepts, generalizing the teacher's AstNodeVisitor (one
// Visit*Node method per node kind) from a PEG grammar's node set to
// this language's expression and statement hierarchies. The code
// generator implements it once, for value context; address context is
// a separate genAddr method on the same type, not a second
// implementation of this interface.
type StmtVisitor interface {
	VisitUnaryExpr(*UnaryExpr) error
	VisitBinaryExpr(*BinaryExpr) error
	VisitConditionalExpr(*ConditionalExpr) error
	VisitIntegerConst(*IntegerConst) error
	VisitFloatConst(*FloatConst) error
	VisitCharConst(*CharConst) error
	VisitStringConst(*StringConst) error
	VisitVariableExpr(*VariableExpr) error
	VisitFunctionExpr(*FunctionExpr) error
	VisitCallExpr(*CallExpr) error
	VisitMemberExpr(*MemberExpr) error
	VisitIndexExpr(*IndexExpr) error
	VisitAddrOfExpr(*AddrOfExpr) error
	VisitCastExpr(*CastExpr) error
	VisitSizeofExpr(*SizeofExpr) error

	VisitNullStmt(*NullStmt) error
	VisitBlockStmt(*BlockStmt) error
	VisitIfStmt(*IfStmt) error
	VisitForStmt(*ForStmt) error
	VisitWhileStmt(*WhileStmt) error
	VisitDoStmt(*DoStmt) error
	VisitLabelStmt(*LabelStmt) error
	VisitCaseLabelStmt(*CaseLabelStmt) error
	VisitDefaultLabelStmt(*DefaultLabelStmt) error
	VisitGotoStmt(*GotoStmt) error
	VisitBreakStmt(*BreakStmt) error
	VisitContinueStmt(*ContinueStmt) error
	VisitReturnStmt(*ReturnStmt) error
	VisitSwitchStmt(*SwitchStmt) error
}

// Stmt is implemented by every statement (and, since expressions are
// statements, by every expression too).
type Stmt interface {
	Accept(StmtVisitor) error
	Position() Position
}

// Expr is a statement that additionally produces a value: it carries
// a result type and knows whether it designates an addressable
// object (IsLValue) or is foldable at compile time (IsConst).
type Expr interface {
	Stmt
	ResultType() *Type
	SetResultType(*Type)
	IsLValue() bool
	IsConst() bool
}

// BaseExpr is embedded by every concrete Expr to supply the common
// token/position/result-type bookkeeping, the same role CExpression
// plays as the base of the original source's expression hierarchy.
type BaseExpr struct {
	Kind TokenKind
	Pos  Position
	rt   *Type
}

func (e *BaseExpr) Position() Position    { return e.Pos }
func (e *BaseExpr) ResultType() *Type     { return e.rt }
func (e *BaseExpr) SetResultType(t *Type) { e.rt = t }
func (e *BaseExpr) IsLValue() bool        { return false }
func (e *BaseExpr) IsConst() bool         { return false }
