package ncc

// This file is the precedence ladder: each level calls the next
// tighter-binding level and only consumes its own operators, the
// standard recursive-descent shape for an operator-precedence
// grammar. Binary levels loop left-associatively; parseAssignmentExpr
// and parseConditionalExpr recurse on the right for right-association.
//
// Every construction site also annotates the node it just built via
// SetResultType and reports whatever semantic errors apply to that
// node, right there during the reduction that builds it: because the
// grammar is parsed bottom-up, every child already carries its result
// type by the time its parent is constructed, so annotation never
// needs a second pass over the tree.

func (p *Parser) parseExpr() Expr {
	e := p.parseAssignmentExpr()
	for p.at(TokComma) {
		opPos := p.pos()
		p.advance()
		rhs := p.parseAssignmentExpr()
		bin := &BinaryExpr{BaseExpr{Pos: opPos, Kind: TokComma}, TokComma, e, rhs}
		bin.SetResultType(p.resultTypeForBinary(bin))
		e = bin
	}
	return e
}

var assignOps = map[TokenKind]bool{
	TokAssign: true, TokPlusAssign: true, TokMinusAssign: true, TokStarAssign: true,
	TokSlashAssign: true, TokPercentAssign: true, TokAmpAssign: true, TokPipeAssign: true,
	TokCaretAssign: true, TokShlAssign: true, TokShrAssign: true,
}

// compoundBaseOp maps each compound-assignment operator to the plain
// binary operator codegen lowers it to (`a += b` becomes `a = a + b`);
// a missing entry reads back as TokInvalid, which is never itself a
// valid compound-assignment key.
var compoundBaseOp = map[TokenKind]TokenKind{
	TokPlusAssign: TokPlus, TokMinusAssign: TokMinus, TokStarAssign: TokStar,
	TokSlashAssign: TokSlash, TokPercentAssign: TokPercent, TokAmpAssign: TokAmp,
	TokPipeAssign: TokPipe, TokCaretAssign: TokCaret, TokShlAssign: TokShl, TokShrAssign: TokShr,
}

var relationalOps = map[TokenKind]bool{
	TokEqual: true, TokNotEqual: true, TokLess: true, TokGreater: true,
	TokLessEqual: true, TokGreaterEqual: true, TokLogicAnd: true, TokLogicOr: true,
}

// resultTypeForBinary computes n's result type from its (already
// annotated) operands: assignment and compound assignment take the
// left operand's type, relational and logical operators always
// produce int, comma takes the right operand's type, and everything
// else follows the usual float/pointer/array promotion ladder down to
// a plain int.
func (p *Parser) resultTypeForBinary(n *BinaryExpr) *Type {
	l, r := n.Left.ResultType(), n.Right.ResultType()
	switch {
	case n.Op == TokAssign:
		return l
	case compoundBaseOp[n.Op] != TokInvalid:
		return l
	case relationalOps[n.Op]:
		return p.types.Int()
	case n.Op == TokComma:
		return r
	case l.IsFloat() || r.IsFloat():
		return p.types.Float()
	case l.IsPointer() || l.IsArray():
		return l
	case r.IsPointer() || r.IsArray():
		return r
	default:
		return p.types.Int()
	}
}

func (p *Parser) parseAssignmentExpr() Expr {
	lhs := p.parseConditionalExpr()
	if assignOps[p.cur().Kind] {
		op := p.cur().Kind
		opPos := p.pos()
		p.advance()
		rhs := p.parseAssignmentExpr()
		if !lhs.IsLValue() {
			p.error(semanticError(opPos, "assignment target is not an lvalue"))
		}
		bin := &BinaryExpr{BaseExpr{Pos: opPos, Kind: op}, op, lhs, rhs}
		bin.SetResultType(p.resultTypeForBinary(bin))
		return bin
	}
	return lhs
}

func (p *Parser) parseConditionalExpr() Expr {
	cond := p.parseLogicalOrExpr()
	if p.at(TokConditional) {
		opPos := p.pos()
		p.advance()
		t := p.parseExpr()
		p.expect(TokColon)
		f := p.parseConditionalExpr()
		ce := &ConditionalExpr{BaseExpr{Pos: opPos}, cond, t, f}
		ce.SetResultType(t.ResultType())
		return ce
	}
	return cond
}

func (p *Parser) binaryLevel(next func() Expr, ops ...TokenKind) Expr {
	e := next()
	for {
		matched := false
		for _, op := range ops {
			if p.cur().Kind == op {
				opPos := p.pos()
				p.advance()
				rhs := next()
				bin := &BinaryExpr{BaseExpr{Pos: opPos, Kind: op}, op, e, rhs}
				bin.SetResultType(p.resultTypeForBinary(bin))
				e = bin
				matched = true
				break
			}
		}
		if !matched {
			return e
		}
	}
}

func (p *Parser) parseLogicalOrExpr() Expr {
	return p.binaryLevel(p.parseLogicalAndExpr, TokLogicOr)
}
func (p *Parser) parseLogicalAndExpr() Expr {
	return p.binaryLevel(p.parseBitOrExpr, TokLogicAnd)
}
func (p *Parser) parseBitOrExpr() Expr { return p.binaryLevel(p.parseBitXorExpr, TokPipe) }
func (p *Parser) parseBitXorExpr() Expr { return p.binaryLevel(p.parseBitAndExpr, TokCaret) }
func (p *Parser) parseBitAndExpr() Expr { return p.binaryLevel(p.parseEqualityExpr, TokAmp) }
func (p *Parser) parseEqualityExpr() Expr {
	return p.binaryLevel(p.parseRelationalExpr, TokEqual, TokNotEqual)
}
func (p *Parser) parseRelationalExpr() Expr {
	return p.binaryLevel(p.parseShiftExpr, TokLess, TokGreater, TokLessEqual, TokGreaterEqual)
}
func (p *Parser) parseShiftExpr() Expr { return p.binaryLevel(p.parseAdditiveExpr, TokShl, TokShr) }
func (p *Parser) parseAdditiveExpr() Expr {
	return p.binaryLevel(p.parseMultiplicativeExpr, TokPlus, TokMinus)
}
func (p *Parser) parseMultiplicativeExpr() Expr {
	return p.binaryLevel(p.parseCastExpr, TokStar, TokSlash, TokPercent)
}

// parseCastExpr disambiguates `(type) expr` from a parenthesized
// expression by looking one token past `(` for a type specifier
// start; on a mismatch it retreats and falls through to a unary
// expression.
func (p *Parser) parseCastExpr() Expr {
	if p.at(TokLParen) {
		opPos := p.pos()
		p.advance()
		if p.startsTypeName() {
			base, _ := p.parseTypeSpecifier()
			target := base
			for p.at(TokStar) {
				p.advance()
				target = p.types.NewPointer(target)
			}
			p.expect(TokRParen)
			arg := p.parseCastExpr()
			ce := &CastExpr{BaseExpr{Pos: opPos}, target, arg}
			ce.SetResultType(target)
			return ce
		}
		p.ts.RetreatOne()
	}
	return p.parseUnaryExpr()
}

func (p *Parser) startsTypeName() bool {
	switch {
	case p.atKeyword("const"), p.atKeyword("int"), p.atKeyword("float"),
		p.atKeyword("char"), p.atKeyword("void"), p.atKeyword("struct"):
		return true
	}
	return p.at(TokIdentifier) && p.scopes.LookupType(p.cur().Text) != nil
}

var unaryPrefixOps = map[TokenKind]bool{
	TokPlus: true, TokMinus: true, TokBitwiseNot: true, TokLogicNot: true,
	TokIncrement: true, TokDecrement: true,
}

func (p *Parser) parseUnaryExpr() Expr {
	opPos := p.pos()
	switch {
	case p.atKeyword("sizeof"):
		p.advance()
		paren := p.at(TokLParen)
		if paren {
			p.advance()
		}
		arg := p.parseUnaryExpr()
		if paren {
			p.expect(TokRParen)
		}
		se := &SizeofExpr{BaseExpr{Pos: opPos}, arg}
		se.SetResultType(p.types.Int())
		return se
	case p.at(TokAmp):
		p.advance()
		arg := p.parseCastExpr()
		if !arg.IsLValue() {
			p.error(semanticError(opPos, "cannot take the address of a non-lvalue"))
		}
		ae := &AddrOfExpr{BaseExpr{Pos: opPos}, arg}
		ae.SetResultType(p.types.NewPointer(arg.ResultType()))
		return ae
	case p.at(TokStar):
		p.advance()
		arg := p.parseCastExpr()
		ue := &UnaryExpr{BaseExpr{Pos: opPos, Kind: TokStar}, TokStar, arg, false}
		p.annotateUnary(ue)
		return ue
	case unaryPrefixOps[p.cur().Kind]:
		op := p.cur().Kind
		p.advance()
		arg := p.parseCastExpr()
		ue := &UnaryExpr{BaseExpr{Pos: opPos, Kind: op}, op, arg, false}
		p.annotateUnary(ue)
		return ue
	default:
		return p.parsePostfixExpr()
	}
}

// annotateUnary sets n's result type from its (already typed)
// operand: `!` always yields int, `*` dereferences a pointer or array
// operand (an error, defaulting to int, otherwise), and every other
// unary and postfix operator (+, -, ~, ++, --) passes the operand's
// type through unchanged.
func (p *Parser) annotateUnary(n *UnaryExpr) {
	arg := n.Arg.ResultType()
	switch {
	case n.Op == TokLogicNot:
		n.SetResultType(p.types.Int())
	case n.Op == TokStar:
		if arg != nil && (arg.IsPointer() || arg.IsArray()) {
			n.SetResultType(arg.ElementType())
		} else {
			p.error(semanticError(n.Pos, "cannot dereference non-pointer %s", arg))
			n.SetResultType(p.types.Int())
		}
	default:
		n.SetResultType(arg)
	}
}

func (p *Parser) parsePostfixExpr() Expr {
	e := p.parsePrimaryExpr()
	for {
		opPos := p.pos()
		switch {
		case p.at(TokLBracket):
			p.advance()
			idx := p.parseExpr()
			p.expect(TokRBracket)
			ie := &IndexExpr{BaseExpr{Pos: opPos}, e, idx}
			p.annotateIndex(ie)
			e = ie
		case p.at(TokLParen):
			p.advance()
			var args []Expr
			for !p.at(TokRParen) && !p.at(TokEOF) {
				args = append(args, p.parseAssignmentExpr())
				if p.at(TokComma) {
					p.advance()
					continue
				}
				break
			}
			p.expect(TokRParen)
			name := ""
			if fe, ok := e.(*FunctionExpr); ok {
				name = fe.Name
			} else if ve, ok := e.(*VariableExpr); ok {
				name = ve.Name
			}
			call := &CallExpr{BaseExpr{Pos: opPos}, name, nil, args}
			if fn := p.scopes.LookupFunction(name); fn != nil {
				call.Callee = fn
			} else {
				p.error(semanticError(opPos, "call to undeclared function %q", name))
			}
			p.annotateCall(call)
			e = call
		case p.at(TokDot):
			p.advance()
			field := p.cur().Text
			p.expect(TokIdentifier)
			me := &MemberExpr{BaseExpr{Pos: opPos}, e, field, false}
			p.annotateMember(me)
			e = me
		case p.at(TokArrow):
			p.advance()
			field := p.cur().Text
			p.expect(TokIdentifier)
			me := &MemberExpr{BaseExpr{Pos: opPos}, e, field, true}
			p.annotateMember(me)
			e = me
		case p.at(TokIncrement):
			p.advance()
			ue := &UnaryExpr{BaseExpr{Pos: opPos, Kind: TokIncrement}, TokIncrement, e, true}
			p.annotateUnary(ue)
			e = ue
		case p.at(TokDecrement):
			p.advance()
			ue := &UnaryExpr{BaseExpr{Pos: opPos, Kind: TokDecrement}, TokDecrement, e, true}
			p.annotateUnary(ue)
			e = ue
		default:
			return e
		}
	}
}

// annotateIndex sets n's result type to the element type of its array
// operand, which must be a pointer or an array.
func (p *Parser) annotateIndex(n *IndexExpr) {
	arr := n.Array.ResultType()
	if arr != nil && (arr.IsPointer() || arr.IsArray()) {
		n.SetResultType(arr.ElementType())
	} else {
		p.error(semanticError(n.Pos, "cannot index non-array, non-pointer %s", arr))
		n.SetResultType(p.types.Int())
	}
}

// annotateCall sets n's result type to its callee's return type and
// validates the argument count; a call to an unresolved callee (its
// undeclared-function error already reported at the call site)
// degrades to int so the surrounding expression still has a type to
// work with.
func (p *Parser) annotateCall(n *CallExpr) {
	if n.Callee == nil {
		n.SetResultType(p.types.Int())
		return
	}
	n.SetResultType(n.Callee.ReturnType)
	if len(n.Args) != len(n.Callee.ParamOrder) {
		p.error(semanticError(n.Pos, "call to %q has %d arguments, expected %d",
			n.CalleeName, len(n.Args), len(n.Callee.ParamOrder)))
	}
}

// annotateMember resolves n.Field against its struct operand's field
// table, dereferencing through a pointer first when Arrow is set.
func (p *Parser) annotateMember(n *MemberExpr) {
	st := n.Struct.ResultType()
	base := st
	if n.Arrow {
		if st == nil || !st.IsPointer() {
			p.error(semanticError(n.Pos, "-> applied to non-pointer %s", st))
			n.SetResultType(p.types.Int())
			return
		}
		base = st.ElementType()
	}
	if base == nil || !base.IsStruct() {
		p.error(semanticError(n.Pos, "member access on non-struct %s", base))
		n.SetResultType(p.types.Int())
		return
	}
	field := base.Underlying().Fields.GetField(n.Field)
	if field == nil {
		p.error(semanticError(n.Pos, "struct %s has no member %q", base, n.Field))
		n.SetResultType(p.types.Int())
		return
	}
	n.SetResultType(field.Type)
}

func (p *Parser) parsePrimaryExpr() Expr {
	tok := p.cur()
	switch {
	case tok.Kind == TokIntegerConst:
		p.advance()
		ic := &IntegerConst{BaseExpr{Pos: tok.Pos}, tok.IntVal}
		ic.SetResultType(p.types.Int())
		return ic
	case tok.Kind == TokFloatConst:
		p.advance()
		fc := &FloatConst{BaseExpr{Pos: tok.Pos}, tok.FltVal}
		fc.SetResultType(p.types.Float())
		return fc
	case tok.Kind == TokCharConst:
		p.advance()
		cc := &CharConst{BaseExpr{Pos: tok.Pos}, tok.ChrVal}
		cc.SetResultType(p.types.Char())
		return cc
	case tok.Kind == TokStringConst:
		p.advance()
		sc := &StringConst{BaseExpr{Pos: tok.Pos}, tok.Text}
		sc.SetResultType(p.types.NewPointer(p.types.Char()))
		return sc
	case tok.Kind == TokIdentifier:
		p.advance()
		if fn := p.scopes.LookupFunction(tok.Text); fn != nil && p.scopes.LookupVariable(tok.Text) == nil {
			fe := &FunctionExpr{BaseExpr{Pos: tok.Pos}, tok.Text, fn}
			fe.SetResultType(fn.ReturnType)
			return fe
		}
		ve := &VariableExpr{BaseExpr{Pos: tok.Pos}, tok.Text, nil}
		ve.Sym = p.scopes.LookupVariable(tok.Text)
		if ve.Sym == nil {
			p.error(semanticError(tok.Pos, "undeclared identifier %q", tok.Text))
			ve.SetResultType(p.types.Int())
		} else {
			ve.SetResultType(ve.Sym.Type)
		}
		return ve
	case tok.Kind == TokLParen:
		p.advance()
		e := p.parseExpr()
		p.expect(TokRParen)
		return e
	default:
		p.error(syntaxError(tok.Pos, "expected expression, got %s", tok.Kind))
		p.advance()
		ic := &IntegerConst{BaseExpr{Pos: tok.Pos}, 0}
		ic.SetResultType(p.types.Int())
		return ic
	}
}
