package ncc

// UnaryExpr covers every unary operator: prefix +/-/~/!, prefix
// ++/--, and (with Postfix set) postfix ++/--, generalizing the
// original source's CUnaryOp/CPostfixOp pair into one node kind
// distinguished by a flag instead of a subclass.
type UnaryExpr struct {
	BaseExpr
	Op      TokenKind
	Arg     Expr
	Postfix bool
}

func (e *UnaryExpr) Accept(v StmtVisitor) error { return v.VisitUnaryExpr(e) }
func (e *UnaryExpr) IsLValue() bool             { return e.Op == TokStar && !e.Postfix }

// BinaryExpr covers every binary operator including assignment and
// compound assignment; Op distinguishes them.
type BinaryExpr struct {
	BaseExpr
	Op    TokenKind
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) Accept(v StmtVisitor) error { return v.VisitBinaryExpr(e) }

// ConditionalExpr is the ternary `cond ? t : f`.
type ConditionalExpr struct {
	BaseExpr
	Cond, True, False Expr
}

func (e *ConditionalExpr) Accept(v StmtVisitor) error { return v.VisitConditionalExpr(e) }

type IntegerConst struct {
	BaseExpr
	Value int
}

func (e *IntegerConst) Accept(v StmtVisitor) error { return v.VisitIntegerConst(e) }
func (e *IntegerConst) IsConst() bool              { return true }

type FloatConst struct {
	BaseExpr
	Value float64
}

func (e *FloatConst) Accept(v StmtVisitor) error { return v.VisitFloatConst(e) }
func (e *FloatConst) IsConst() bool              { return true }

type CharConst struct {
	BaseExpr
	Value byte
}

func (e *CharConst) Accept(v StmtVisitor) error { return v.VisitCharConst(e) }
func (e *CharConst) IsConst() bool              { return true }

// StringConst is a string literal; codegen interns it into the
// assembly object's string table rather than re-emitting it per use.
type StringConst struct {
	BaseExpr
	Value string
}

func (e *StringConst) Accept(v StmtVisitor) error { return v.VisitStringConst(e) }

// VariableExpr names a variable, parameter, or field. Sym is resolved
// by the semantic analyzer; it is nil until then.
type VariableExpr struct {
	BaseExpr
	Name string
	Sym  *VariableSymbol
}

func (e *VariableExpr) Accept(v StmtVisitor) error { return v.VisitVariableExpr(e) }
func (e *VariableExpr) IsLValue() bool             { return true }

// FunctionExpr names a function used as a value (taking its address,
// or as the callee before call resolution binds Sym).
type FunctionExpr struct {
	BaseExpr
	Name string
	Sym  *FunctionSymbol
}

func (e *FunctionExpr) Accept(v StmtVisitor) error { return v.VisitFunctionExpr(e) }

// CallExpr is a function call; Callee is resolved by the semantic
// analyzer from CalleeName.
type CallExpr struct {
	BaseExpr
	CalleeName string
	Callee     *FunctionSymbol
	Args       []Expr
}

func (e *CallExpr) Accept(v StmtVisitor) error { return v.VisitCallExpr(e) }

// MemberExpr covers both `.` and `->` struct member access; Arrow
// distinguishes them instead of two separate node kinds.
type MemberExpr struct {
	BaseExpr
	Struct Expr
	Field  string
	Arrow  bool
}

func (e *MemberExpr) Accept(v StmtVisitor) error { return v.VisitMemberExpr(e) }
func (e *MemberExpr) IsLValue() bool             { return true }

// IndexExpr is `base[index]`, desugared at codegen time to the same
// address arithmetic `*(base + index)` would produce.
type IndexExpr struct {
	BaseExpr
	Array Expr
	Index Expr
}

func (e *IndexExpr) Accept(v StmtVisitor) error { return v.VisitIndexExpr(e) }
func (e *IndexExpr) IsLValue() bool             { return true }

// AddrOfExpr is `&arg`. Arg must be an lvalue; the semantic analyzer
// rejects it otherwise.
type AddrOfExpr struct {
	BaseExpr
	Arg Expr
}

func (e *AddrOfExpr) Accept(v StmtVisitor) error { return v.VisitAddrOfExpr(e) }

// CastExpr is an explicit `(type)expr` conversion.
type CastExpr struct {
	BaseExpr
	Target *Type
	Arg    Expr
}

func (e *CastExpr) Accept(v StmtVisitor) error { return v.VisitCastExpr(e) }

// SizeofExpr is `sizeof(expr)`. Per the Design Notes decision,
// sizeof-of-type-name is rejected at parse time; only sizeof applied
// to an expression is implemented, so Arg is always present.
type SizeofExpr struct {
	BaseExpr
	Arg Expr
}

func (e *SizeofExpr) Accept(v StmtVisitor) error { return v.VisitSizeofExpr(e) }
func (e *SizeofExpr) IsConst() bool              { return true }
