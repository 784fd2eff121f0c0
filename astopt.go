package ncc

// This file implements the three optimization passes the driver runs
// when asked to optimize, in order: constant folding, unreachable
// code elimination, and loop-invariant hoisting. Each rewrites the
// AST in place by replacing entries in a BlockStmt's Stmts slice, the
// same tree-rewriting shape the original source's optimization pass
// uses, adapted from C++'s mutable node pointers to Go's slice
// replacement.

// evalConstExpr evaluates e as a compile-time constant, returning
// false if any part of it isn't foldable (a variable reference, a
// call, an address-of, anything with a side effect).
func evalConstExpr(e Expr) (float64, bool) {
	switch n := e.(type) {
	case *IntegerConst:
		return float64(n.Value), true
	case *FloatConst:
		return n.Value, true
	case *CharConst:
		return float64(n.Value), true
	case *UnaryExpr:
		if n.Postfix {
			return 0, false
		}
		v, ok := evalConstExpr(n.Arg)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case TokPlus:
			return v, true
		case TokMinus:
			return -v, true
		case TokBitwiseNot:
			return float64(^int(v)), true
		case TokLogicNot:
			if v == 0 {
				return 1, true
			}
			return 0, true
		}
		return 0, false
	case *BinaryExpr:
		return evalConstBinary(n)
	case *ConditionalExpr:
		c, ok := evalConstExpr(n.Cond)
		if !ok {
			return 0, false
		}
		if c != 0 {
			return evalConstExpr(n.True)
		}
		return evalConstExpr(n.False)
	case *SizeofExpr:
		if rt := n.Arg.ResultType(); rt != nil {
			return float64(rt.Size()), true
		}
		return 0, false
	case *CastExpr:
		v, ok := evalConstExpr(n.Arg)
		if !ok {
			return 0, false
		}
		if n.Target.IsInt() || n.Target.IsChar() {
			return float64(int(v)), true
		}
		return v, true
	default:
		return 0, false
	}
}

func evalConstBinary(n *BinaryExpr) (float64, bool) {
	l, ok1 := evalConstExpr(n.Left)
	r, ok2 := evalConstExpr(n.Right)
	if !ok1 || !ok2 {
		return 0, false
	}
	switch n.Op {
	case TokPlus:
		return l + r, true
	case TokMinus:
		return l - r, true
	case TokStar:
		return l * r, true
	case TokSlash:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case TokPercent:
		if int(r) == 0 {
			return 0, false
		}
		return float64(int(l) % int(r)), true
	case TokAmp:
		return float64(int(l) & int(r)), true
	case TokPipe:
		return float64(int(l) | int(r)), true
	case TokCaret:
		return float64(int(l) ^ int(r)), true
	case TokShl:
		return float64(int(l) << uint(int(r))), true
	case TokShr:
		return float64(int(l) >> uint(int(r))), true
	case TokLogicAnd:
		return boolToFloat(l != 0 && r != 0), true
	case TokLogicOr:
		return boolToFloat(l != 0 || r != 0), true
	case TokEqual:
		return boolToFloat(l == r), true
	case TokNotEqual:
		return boolToFloat(l != r), true
	case TokLess:
		return boolToFloat(l < r), true
	case TokGreater:
		return boolToFloat(l > r), true
	case TokLessEqual:
		return boolToFloat(l <= r), true
	case TokGreaterEqual:
		return boolToFloat(l >= r), true
	}
	return 0, false
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// FoldConstants rewrites every constant-foldable subexpression
// reachable from block into a literal, recursing into every nested
// block and control-flow body.
func FoldConstants(block *BlockStmt) {
	for i, s := range block.Stmts {
		block.Stmts[i] = foldStmt(s)
	}
	for _, nb := range block.NestedBlocks {
		FoldConstants(nb)
	}
}

func foldStmt(s Stmt) Stmt {
	switch n := s.(type) {
	case Expr:
		return foldExpr(n)
	case *IfStmt:
		n.Cond = foldExpr(n.Cond)
		n.Then = foldStmt(n.Then)
		if n.Else != nil {
			n.Else = foldStmt(n.Else)
		}
		return n
	case *ForStmt:
		if n.Init != nil {
			n.Init = foldStmt(n.Init)
		}
		if n.Cond != nil {
			n.Cond = foldExpr(n.Cond)
		}
		if n.Update != nil {
			n.Update = foldExpr(n.Update)
		}
		n.Body = foldStmt(n.Body)
		return n
	case *WhileStmt:
		n.Cond = foldExpr(n.Cond)
		n.Body = foldStmt(n.Body)
		return n
	case *DoStmt:
		n.Cond = foldExpr(n.Cond)
		n.Body = foldStmt(n.Body)
		return n
	case *SwitchStmt:
		n.Test = foldExpr(n.Test)
		return n
	case *ReturnStmt:
		if n.Expr != nil {
			n.Expr = foldExpr(n.Expr)
		}
		return n
	case *LabelStmt:
		n.Next = foldStmt(n.Next)
		return n
	case *CaseLabelStmt:
		n.CaseExpr = foldExpr(n.CaseExpr)
		n.Next = foldStmt(n.Next)
		return n
	case *DefaultLabelStmt:
		n.Next = foldStmt(n.Next)
		return n
	default:
		return s
	}
}

func foldExpr(e Expr) Expr {
	switch n := e.(type) {
	case *UnaryExpr:
		n.Arg = foldExpr(n.Arg)
	case *BinaryExpr:
		n.Left = foldExpr(n.Left)
		n.Right = foldExpr(n.Right)
	case *ConditionalExpr:
		n.Cond = foldExpr(n.Cond)
		n.True = foldExpr(n.True)
		n.False = foldExpr(n.False)
	case *IndexExpr:
		n.Array = foldExpr(n.Array)
		n.Index = foldExpr(n.Index)
	case *MemberExpr:
		n.Struct = foldExpr(n.Struct)
	case *CallExpr:
		for i, a := range n.Args {
			n.Args[i] = foldExpr(a)
		}
	case *CastExpr:
		n.Arg = foldExpr(n.Arg)
	case *AddrOfExpr:
		n.Arg = foldExpr(n.Arg)
	case *SizeofExpr:
		n.Arg = foldExpr(n.Arg)
	}

	if v, ok := evalConstExpr(e); ok {
		if rt := e.ResultType(); rt != nil && rt.IsFloat() {
			return &FloatConst{BaseExpr{Pos: e.Position(), rt: rt}, v}
		}
		if _, isLit := e.(*IntegerConst); isLit {
			return e
		}
		if _, isLit := e.(*FloatConst); isLit {
			return e
		}
		ic := &IntegerConst{BaseExpr{Pos: e.Position()}, int(v)}
		ic.SetResultType(e.ResultType())
		return ic
	}
	return e
}

// EliminateUnreachable drops statements that provably never execute:
// the untaken arm of an if whose condition folded to a constant, and
// the statements following an unconditional return/break/continue/
// goto within the same block, up to the next statement that carries a
// label (user label, case or default). Such a statement may be a jump
// target, so it and the statements after it are kept.
func EliminateUnreachable(block *BlockStmt) {
	var kept []Stmt
	terminated := false
	for _, s := range block.Stmts {
		s = simplifyBranches(s)
		if terminated {
			if !containsLabel(s) {
				continue
			}
			terminated = false
		}
		kept = append(kept, s)
		if isTerminator(s) {
			terminated = true
		}
	}
	block.Stmts = kept
	for _, nb := range block.NestedBlocks {
		EliminateUnreachable(nb)
	}
}

func simplifyBranches(s Stmt) Stmt {
	ifs, ok := s.(*IfStmt)
	if !ok {
		return s
	}
	if v, ok := evalConstExpr(ifs.Cond); ok {
		if v != 0 {
			return ifs.Then
		}
		if ifs.Else != nil {
			return ifs.Else
		}
		return &NullStmt{BaseStmt{ifs.Pos}}
	}
	return ifs
}

func isTerminator(s Stmt) bool {
	switch s.(type) {
	case *ReturnStmt, *BreakStmt, *ContinueStmt, *GotoStmt:
		return true
	}
	return false
}

func containsLabel(s Stmt) bool {
	switch n := s.(type) {
	case *LabelStmt:
		return true
	case *CaseLabelStmt:
		return true
	case *DefaultLabelStmt:
		return true
	case *IfStmt:
		return containsLabel(n.Then) || (n.Else != nil && containsLabel(n.Else))
	case *ForStmt:
		return containsLabel(n.Body)
	case *WhileStmt:
		return containsLabel(n.Body)
	case *DoStmt:
		return containsLabel(n.Body)
	}
	return false
}

// HoistLoopInvariants moves top-level expression statements of `for`
// and `while` loop bodies to just before the loop when they contain
// no call or address-of and read no variable the loop assigns (see
// hoistLoop). Statements move whole and unchanged; no temporaries are
// introduced. This is the transform the original source's
// optimization pass runs under the name loop-invariant code motion.
func HoistLoopInvariants(fn *FunctionSymbol) {
	if fn.Body != nil {
		hoistInBlock(fn.Body, fn)
	}
}

func hoistInBlock(block *BlockStmt, fn *FunctionSymbol) {
	var rewritten []Stmt
	for _, s := range block.Stmts {
		switch n := s.(type) {
		case *ForStmt:
			hoistInBlock(bodyAsBlock(n.Body), fn)
			rewritten = append(rewritten, hoistLoop(&n.Body, n.Update, n)...)
			continue
		case *WhileStmt:
			hoistInBlock(bodyAsBlock(n.Body), fn)
			rewritten = append(rewritten, hoistLoop(&n.Body, nil, n)...)
			continue
		}
		rewritten = append(rewritten, s)
	}
	block.Stmts = rewritten
	for _, nb := range block.NestedBlocks {
		hoistInBlock(nb, fn)
	}
}

func bodyAsBlock(s Stmt) *BlockStmt {
	if b, ok := s.(*BlockStmt); ok {
		return b
	}
	return &BlockStmt{Labels: map[string]bool{}}
}

// hoistLoop finds loopStmt's body's top-level expression-statements
// whose used variables are disjoint from the loop's affected-variable
// set and which contain no call or address-of, and splices them into
// the parent block just ahead of loopStmt, preserving their mutual
// order. update is the loop's per-iteration update expression (a
// ForStmt's Update, or nil for a WhileStmt) and is folded into the
// affected set since it runs every iteration just like the body does.
func hoistLoop(body *Stmt, update Expr, loopStmt Stmt) []Stmt {
	affected := map[string]bool{}
	collectAffected(*body, affected)
	if update != nil {
		collectAffected(update, affected)
	}

	bodyBlock, ok := (*body).(*BlockStmt)
	if !ok {
		return []Stmt{loopStmt}
	}

	var hoisted, kept []Stmt
	for _, s := range bodyBlock.Stmts {
		expr, ok := s.(Expr)
		if !ok || !qualifiesForHoist(expr, affected) {
			kept = append(kept, s)
			continue
		}
		hoisted = append(hoisted, expr)
	}
	bodyBlock.Stmts = kept
	return append(hoisted, loopStmt)
}

// qualifiesForHoist reports whether e is safe to run once ahead of the
// loop instead of on every iteration: no call or address-of, and no
// variable it reads is assigned anywhere in the loop.
func qualifiesForHoist(e Expr, affected map[string]bool) bool {
	if containsCallOrAddrOf(e) {
		return false
	}
	if affected["*"] {
		return false
	}
	used := map[string]bool{}
	collectReadVars(e, used)
	for name := range used {
		if affected[name] {
			return false
		}
	}
	return true
}

// collectReadVars records every variable name read by e, the value
// side of a plain assignment's left operand excluded (it is written,
// not read) but included for every compound-assignment operator.
func collectReadVars(e Expr, out map[string]bool) {
	switch n := e.(type) {
	case *VariableExpr:
		out[n.Name] = true
	case *BinaryExpr:
		if n.Op == TokAssign {
			collectReadVars(n.Right, out)
			return
		}
		collectReadVars(n.Left, out)
		collectReadVars(n.Right, out)
	case *UnaryExpr:
		collectReadVars(n.Arg, out)
	case *ConditionalExpr:
		collectReadVars(n.Cond, out)
		collectReadVars(n.True, out)
		collectReadVars(n.False, out)
	case *IndexExpr:
		collectReadVars(n.Array, out)
		collectReadVars(n.Index, out)
	case *MemberExpr:
		collectReadVars(n.Struct, out)
	case *CallExpr:
		for _, a := range n.Args {
			collectReadVars(a, out)
		}
	case *CastExpr:
		collectReadVars(n.Arg, out)
	case *SizeofExpr:
		collectReadVars(n.Arg, out)
	case *AddrOfExpr:
		collectReadVars(n.Arg, out)
	}
}

// containsCallOrAddrOf reports whether e contains a call or an
// address-of anywhere in its subtree, disqualifying it from hoisting
// regardless of which variables it reads.
func containsCallOrAddrOf(e Expr) bool {
	switch n := e.(type) {
	case *CallExpr:
		return true
	case *AddrOfExpr:
		return true
	case *BinaryExpr:
		return containsCallOrAddrOf(n.Left) || containsCallOrAddrOf(n.Right)
	case *UnaryExpr:
		return containsCallOrAddrOf(n.Arg)
	case *ConditionalExpr:
		return containsCallOrAddrOf(n.Cond) || containsCallOrAddrOf(n.True) || containsCallOrAddrOf(n.False)
	case *IndexExpr:
		return containsCallOrAddrOf(n.Array) || containsCallOrAddrOf(n.Index)
	case *MemberExpr:
		return containsCallOrAddrOf(n.Struct)
	case *CastExpr:
		return containsCallOrAddrOf(n.Arg)
	case *SizeofExpr:
		return containsCallOrAddrOf(n.Arg)
	}
	return false
}

// collectAffected records every variable name assigned, incremented,
// or decremented anywhere in s; a loop body containing a call is
// treated as affecting every variable, the conservative fallback.
func collectAffected(s Stmt, out map[string]bool) {
	switch n := s.(type) {
	case *BlockStmt:
		for _, st := range n.Stmts {
			collectAffected(st, out)
		}
	case *BinaryExpr:
		if assignOps[n.Op] {
			collectLValueNames(n.Left, out)
		}
		collectAffected(n.Left, out)
		collectAffected(n.Right, out)
	case *UnaryExpr:
		if n.Op == TokIncrement || n.Op == TokDecrement {
			collectLValueNames(n.Arg, out)
		}
		collectAffected(n.Arg, out)
	case *CallExpr:
		out["*"] = true
		for _, a := range n.Args {
			collectAffected(a, out)
		}
	case *IfStmt:
		collectAffected(n.Cond, out)
		collectAffected(n.Then, out)
		if n.Else != nil {
			collectAffected(n.Else, out)
		}
	case *ForStmt:
		if n.Init != nil {
			collectAffected(n.Init, out)
		}
		if n.Update != nil {
			collectAffected(n.Update, out)
		}
		collectAffected(n.Body, out)
	case *WhileStmt:
		collectAffected(n.Cond, out)
		collectAffected(n.Body, out)
	case *DoStmt:
		collectAffected(n.Cond, out)
		collectAffected(n.Body, out)
	case *ReturnStmt:
		if n.Expr != nil {
			collectAffected(n.Expr, out)
		}
	case *IndexExpr:
		collectAffected(n.Array, out)
		collectAffected(n.Index, out)
	case *MemberExpr:
		collectAffected(n.Struct, out)
	case *ConditionalExpr:
		collectAffected(n.Cond, out)
		collectAffected(n.True, out)
		collectAffected(n.False, out)
	case *AddrOfExpr:
		collectLValueNames(n.Arg, out)
	}
}

func collectLValueNames(e Expr, out map[string]bool) {
	switch n := e.(type) {
	case *VariableExpr:
		out[n.Name] = true
	case *MemberExpr:
		collectLValueNames(n.Struct, out)
	case *IndexExpr:
		collectLValueNames(n.Array, out)
	}
	if out["*"] {
		return
	}
}
