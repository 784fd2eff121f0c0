package ncc

import "fmt"

// TranslationUnit is everything the parser produces from one input
// file: the type arena backing every Type it allocated, and the
// global scope holding every top-level variable, function, typedef
// and struct tag.
type TranslationUnit struct {
	Types   *TypeArena
	Globals *GlobalSymbolTable
}

// Parser is a recursive-descent parser and, at the same time, the
// name resolver: declarations are bound into the scope stack as they
// are parsed, so a reference always sees every declaration that
// precedes it in the input, the same single-pass discipline the
// original source's CParser follows.
type Parser struct {
	ts     *TokenStream
	cfg    *Config
	types  *TypeArena
	global *GlobalSymbolTable
	scopes *ScopeStack
	errs   []*CompileError

	currentFunc *FunctionSymbol
	blockStack  []*BlockStmt
	loopDepth   int
	switchDepth int
}

func NewParser(ts *TokenStream, cfg *Config) *Parser {
	types := NewTypeArena()
	global := NewGlobalSymbolTable()
	registerBuiltins(global, types)
	return &Parser{
		ts:     ts,
		cfg:    cfg,
		types:  types,
		global: global,
		scopes: NewScopeStack(global),
	}
}

// registerBuiltins seeds the global scope with the handful of
// builtin functions every translation unit may call without an
// explicit forward declaration, the same role CParser::CParser plays
// for `__print_int`/`__print_float` in the original source. Builtin
// is set and Body stays nil, so codegen never emits a body for them
// but a call site still resolves and generates a plain `call` to the
// builtin's name, trusting the assembler/linker to provide it.
func registerBuiltins(global *GlobalSymbolTable, types *TypeArena) {
	builtin := func(name string, ret *Type, params ...*Type) {
		fn := &FunctionSymbol{Name: name, ReturnType: ret, Params: NewParamScope(), Builtin: true}
		for i, pt := range params {
			p := &VariableSymbol{Name: fmt.Sprintf("arg%d", i), Type: pt}
			fn.Params.AddVariable(p)
			fn.ParamOrder = append(fn.ParamOrder, p)
		}
		global.AddFunction(fn)
	}
	builtin("__print_int", types.Void(), types.Int())
	builtin("__print_float", types.Void(), types.Float())
}

func (p *Parser) Errors() []*CompileError { return p.errs }

func (p *Parser) error(err *CompileError) { p.errs = append(p.errs, err) }

func (p *Parser) cur() Token  { return p.ts.Current() }
func (p *Parser) pos() Position { return p.ts.Current().Pos }

func (p *Parser) at(k TokenKind) bool { return p.cur().Kind == k }

func (p *Parser) atKeyword(text string) bool {
	return p.cur().Kind == TokKeyword && p.cur().Text == text
}

func (p *Parser) advance() Token { return p.ts.Advance() }

func (p *Parser) expect(k TokenKind) Token {
	if !p.at(k) {
		p.error(syntaxError(p.pos(), "expected %s, got %s", k, p.cur().Kind))
		return p.cur()
	}
	t := p.cur()
	p.advance()
	return t
}

func (p *Parser) expectSemicolon() { p.expect(TokSemicolon) }

func (p *Parser) expectKeyword(text string) {
	if !p.atKeyword(text) {
		p.error(syntaxError(p.pos(), "expected %q, got %s", text, p.cur().Text))
		return
	}
	p.advance()
}

// ParseTranslationUnit parses every external declaration in the
// token stream and returns the populated symbol tables.
func (p *Parser) ParseTranslationUnit() *TranslationUnit {
	for !p.at(TokEOF) {
		p.parseExternalDeclaration()
	}
	return &TranslationUnit{Types: p.types, Globals: p.global}
}

func (p *Parser) parseExternalDeclaration() {
	if p.atKeyword("typedef") {
		p.parseTypedef()
		return
	}

	if p.atKeyword("struct") && p.structDeclarationOnly() {
		p.parseTypeSpecifier()
		p.expectSemicolon()
		return
	}

	base, _ := p.parseTypeSpecifier()
	if p.at(TokSemicolon) {
		p.advance()
		return
	}

	for {
		declPos := p.pos()
		name, vtype := p.parseDeclarator(base)

		if p.at(TokLParen) {
			p.parseFunction(name, vtype, declPos)
			return
		}

		sym := &VariableSymbol{Name: name, Type: vtype, Global: true, DeclAt: declPos}
		if p.at(TokAssign) {
			p.advance()
			if c, ok := evalConstExpr(p.parseAssignmentExpr()); ok {
				sym.HasInit, sym.InitVal = true, c
			} else {
				p.error(semanticError(declPos, "global initializer for %q must be a constant expression", name))
			}
		}
		if p.global.Exists(name) {
			p.error(semanticError(declPos, "redeclaration of %q", name))
		} else {
			p.global.AddVariable(sym)
		}

		if p.at(TokComma) {
			p.advance()
			continue
		}
		break
	}
	p.expectSemicolon()
}

// structDeclarationOnly looks ahead past `struct Tag` to decide
// whether this is a bare tag declaration (`struct Tag;`) rather than
// the start of a variable or function declaration using that struct
// type.
func (p *Parser) structDeclarationOnly() bool {
	save := p.ts.Current()
	_ = save
	p.advance() // struct
	if p.at(TokIdentifier) {
		p.advance()
	}
	isBare := p.at(TokSemicolon)
	p.ts.RetreatOne()
	if p.cur().Kind == TokIdentifier {
		p.ts.RetreatOne()
	}
	return isBare
}

func (p *Parser) parseTypedef() {
	p.advance() // typedef
	base, _ := p.parseTypeSpecifier()
	name, vtype := p.parseDeclarator(base)
	td := p.types.NewTypedef(name, vtype)
	p.scopes.Top().AddType(td)
	p.expectSemicolon()
}

// parseTypeSpecifier parses a base type: an optional `const`, a
// primitive keyword, a struct specifier, or a typedef name, in
// either order for `const`.
func (p *Parser) parseTypeSpecifier() (*Type, bool) {
	isConst := false
	if p.atKeyword("const") {
		p.advance()
		isConst = true
	}

	var base *Type
	switch {
	case p.atKeyword("int"):
		p.advance()
		base = p.types.Int()
	case p.atKeyword("float"):
		p.advance()
		base = p.types.Float()
	case p.atKeyword("char"):
		p.advance()
		base = p.types.Char()
	case p.atKeyword("void"):
		p.advance()
		base = p.types.Void()
	case p.atKeyword("struct"):
		base = p.parseStructSpecifier()
	case p.at(TokIdentifier) && p.scopes.LookupType(p.cur().Text) != nil:
		base = p.scopes.LookupType(p.cur().Text)
		p.advance()
	default:
		p.error(syntaxError(p.pos(), "expected type specifier, got %s", p.cur().Kind))
		base = p.types.Int()
	}

	if p.atKeyword("const") {
		p.advance()
		isConst = true
	}
	if isConst {
		return base.ConstClone(true), true
	}
	return base, false
}

func (p *Parser) parseStructSpecifier() *Type {
	p.advance() // struct
	tag := ""
	if p.at(TokIdentifier) {
		tag = p.cur().Text
		p.advance()
	}

	existing := (*Type)(nil)
	if tag != "" {
		existing = p.scopes.LookupTag(tag)
	}

	if !p.at(TokBlockStart) {
		if existing != nil {
			return existing
		}
		st := p.types.NewStruct(tag)
		if tag != "" {
			p.scopes.Top().AddTag(st)
		}
		return st
	}

	var st *Type
	if existing != nil && !existing.Complete {
		st = existing
	} else {
		st = p.types.NewStruct(tag)
	}
	p.advance() // {
	for !p.at(TokBlockEnd) && !p.at(TokEOF) {
		fieldBase, _ := p.parseTypeSpecifier()
		for {
			fieldPos := p.pos()
			fname, ftype := p.parseDeclarator(fieldBase)
			st.Fields.AddVariable(&VariableSymbol{Name: fname, Type: ftype, DeclAt: fieldPos})
			if p.at(TokComma) {
				p.advance()
				continue
			}
			break
		}
		p.expectSemicolon()
	}
	p.expect(TokBlockEnd)
	st.Complete = true
	if tag != "" {
		p.scopes.Top().AddTag(st)
	}
	return st
}

// parseDeclarator parses pointer prefixes, the declared name, and
// array suffixes, applying them to base in that left-to-right order,
// which for this grammar's declarators (no parenthesized declarators,
// no function pointers) already produces the correct C type: pointer
// wrapping happens before array wrapping, so `int *a[3]` correctly
// becomes an array of pointer-to-int rather than the reverse.
func (p *Parser) parseDeclarator(base *Type) (string, *Type) {
	t := base
	for p.at(TokStar) {
		p.advance()
		t = p.types.NewPointer(t)
	}
	name := p.cur().Text
	p.expect(TokIdentifier)
	for p.at(TokLBracket) {
		p.advance()
		lenTok := p.expect(TokIntegerConst)
		p.expect(TokRBracket)
		t = p.types.NewArray(t, lenTok.IntVal)
	}
	return name, t
}

func (p *Parser) parseFunction(name string, retType *Type, declPos Position) {
	params := NewParamScope()
	p.advance() // (
	var order []*VariableSymbol
	if !p.atKeyword("void") || p.peekIsNotSoleVoid() {
		for !p.at(TokRParen) && !p.at(TokEOF) {
			pbase, _ := p.parseTypeSpecifier()
			pname, ptype := p.parseDeclarator(pbase)
			psym := &VariableSymbol{Name: pname, Type: ptype, DeclAt: p.pos()}
			params.AddVariable(psym)
			order = append(order, psym)
			if p.at(TokComma) {
				p.advance()
				continue
			}
			break
		}
	} else {
		p.advance() // sole `void` parameter list
	}
	p.expect(TokRParen)

	fn := &FunctionSymbol{Name: name, ReturnType: retType, Params: params, ParamOrder: order, DeclAt: declPos}

	if p.at(TokSemicolon) {
		p.advance()
		if existing := p.global.GetFunction(name); existing == nil {
			p.global.AddFunction(fn)
		}
		return
	}

	if existing := p.global.GetFunction(name); existing != nil && existing.Body == nil {
		existing.Params = params
		existing.ParamOrder = order
		fn = existing
	} else {
		p.global.AddFunction(fn)
	}

	p.currentFunc = fn
	p.scopes.Push(params)
	body := p.parseCompoundStmt(nil)
	p.scopes.Pop()
	p.currentFunc = nil

	fn.Body = body
	p.checkGotos(fn, body)
}

// peekIsNotSoleVoid distinguishes `f(void)` (no parameters) from
// `f(void *p)` (one pointer-to-void parameter) by checking whether
// the token after `void` is `)`.
func (p *Parser) peekIsNotSoleVoid() bool {
	next := p.ts.Advance()
	p.ts.RetreatOne()
	return next.Kind != TokRParen
}

// parseCompoundStmt parses `{ ... }`, declarations first within each
// run, statements interleaved with further declarations as they
// appear, matching the original source's relaxed placement (this
// subset does not enforce C89's declarations-before-statements rule).
func (p *Parser) parseCompoundStmt(parent *BlockStmt) *BlockStmt {
	blockPos := p.pos()
	block := NewBlockStmt(blockPos, parent)
	p.expect(TokBlockStart)
	p.scopes.Push(block.Scope)
	p.blockStack = append(p.blockStack, block)

	for !p.at(TokBlockEnd) && !p.at(TokEOF) {
		if p.looksLikeDeclarationStart() {
			p.parseLocalDeclaration(block)
			continue
		}
		stmt := p.parseStmt(block)
		block.Stmts = append(block.Stmts, stmt)
		p.registerLabel(block, stmt)
	}
	p.expect(TokBlockEnd)

	p.blockStack = p.blockStack[:len(p.blockStack)-1]
	p.scopes.Pop()
	return block
}

func (p *Parser) registerLabel(block *BlockStmt, stmt Stmt) {
	if ls, ok := stmt.(*LabelStmt); ok {
		block.Labels[ls.Name] = true
	}
}

func (p *Parser) looksLikeDeclarationStart() bool {
	if p.atKeyword("typedef") {
		return true
	}
	switch {
	case p.atKeyword("const"), p.atKeyword("int"), p.atKeyword("float"),
		p.atKeyword("char"), p.atKeyword("void"), p.atKeyword("struct"):
		return true
	}
	return p.at(TokIdentifier) && p.scopes.LookupType(p.cur().Text) != nil
}

func (p *Parser) parseLocalDeclaration(block *BlockStmt) {
	if p.atKeyword("typedef") {
		p.parseTypedef()
		return
	}

	base, _ := p.parseTypeSpecifier()
	if p.at(TokSemicolon) {
		p.advance()
		return
	}

	for {
		declPos := p.pos()
		name, vtype := p.parseDeclarator(base)
		sym := &VariableSymbol{Name: name, Type: vtype, DeclAt: declPos}

		if block.Scope.Exists(name) {
			p.error(semanticError(declPos, "redeclaration of %q", name))
		} else {
			block.Scope.AddVariable(sym)
		}

		if p.at(TokAssign) {
			p.advance()
			init := p.parseAssignmentExpr()
			varExpr := &VariableExpr{BaseExpr: BaseExpr{Pos: declPos}, Name: name, Sym: sym}
			varExpr.SetResultType(vtype)
			assign := &BinaryExpr{BaseExpr: BaseExpr{Pos: declPos, Kind: TokAssign}, Op: TokAssign, Left: varExpr, Right: init}
			assign.SetResultType(vtype)
			block.Stmts = append(block.Stmts, assign)
		}

		if p.at(TokComma) {
			p.advance()
			continue
		}
		break
	}
	p.expectSemicolon()
}

func (p *Parser) parseStmt(block *BlockStmt) Stmt {
	stmtPos := p.pos()

	switch {
	case p.at(TokSemicolon):
		p.advance()
		return &NullStmt{BaseStmt{stmtPos}}
	case p.at(TokBlockStart):
		return p.parseCompoundStmt(block)
	case p.atKeyword("if"):
		return p.parseIf(block, stmtPos)
	case p.atKeyword("for"):
		return p.parseFor(block, stmtPos)
	case p.atKeyword("while"):
		return p.parseWhile(block, stmtPos)
	case p.atKeyword("do"):
		return p.parseDo(block, stmtPos)
	case p.atKeyword("switch"):
		return p.parseSwitch(block, stmtPos)
	case p.atKeyword("break"):
		p.advance()
		if p.loopDepth == 0 && p.switchDepth == 0 {
			p.error(semanticError(stmtPos, "break outside loop or switch"))
		}
		p.expectSemicolon()
		return &BreakStmt{BaseStmt{stmtPos}}
	case p.atKeyword("continue"):
		p.advance()
		if p.loopDepth == 0 {
			p.error(semanticError(stmtPos, "continue outside loop"))
		}
		p.expectSemicolon()
		return &ContinueStmt{BaseStmt{stmtPos}}
	case p.atKeyword("goto"):
		p.advance()
		label := p.cur().Text
		p.expect(TokIdentifier)
		p.expectSemicolon()
		return &GotoStmt{BaseStmt{stmtPos}, label}
	case p.atKeyword("return"):
		p.advance()
		var e Expr
		if !p.at(TokSemicolon) {
			e = p.parseExpr()
		}
		p.expectSemicolon()
		ret := &ReturnStmt{BaseStmt{stmtPos}, e}
		p.checkReturn(ret)
		return ret
	case p.atKeyword("case"):
		p.advance()
		ce := p.parseAssignmentExpr()
		if _, ok := evalConstExpr(ce); !ok {
			p.error(semanticError(ce.Position(), "case expression must be a constant"))
		}
		p.expect(TokColon)
		next := p.parseStmt(block)
		return &CaseLabelStmt{BaseStmt{stmtPos}, ce, next}
	case p.atKeyword("default"):
		p.advance()
		p.expect(TokColon)
		next := p.parseStmt(block)
		return &DefaultLabelStmt{BaseStmt{stmtPos}, next}
	case p.at(TokIdentifier) && p.isLabelAhead():
		name := p.cur().Text
		p.advance()
		p.advance() // colon
		next := p.parseStmt(block)
		return &LabelStmt{BaseStmt{stmtPos}, name, next}
	default:
		e := p.parseExpr()
		p.expectSemicolon()
		return e
	}
}

func (p *Parser) isLabelAhead() bool {
	next := p.ts.Advance()
	isColon := next.Kind == TokColon
	p.ts.RetreatOne()
	return isColon
}

func (p *Parser) parseIf(block *BlockStmt, stmtPos Position) Stmt {
	p.advance()
	p.expect(TokLParen)
	cond := p.parseExpr()
	p.expect(TokRParen)
	then := p.parseStmt(block)
	var els Stmt
	if p.atKeyword("else") {
		p.advance()
		els = p.parseStmt(block)
	}
	return &IfStmt{BaseStmt{stmtPos}, cond, then, els}
}

func (p *Parser) parseFor(block *BlockStmt, stmtPos Position) Stmt {
	p.advance()
	p.expect(TokLParen)
	var init Stmt
	if !p.at(TokSemicolon) {
		init = p.parseExpr()
	}
	p.expectSemicolon()
	var cond Expr
	if !p.at(TokSemicolon) {
		cond = p.parseExpr()
	}
	p.expectSemicolon()
	var upd Expr
	if !p.at(TokRParen) {
		upd = p.parseExpr()
	}
	p.expect(TokRParen)
	p.loopDepth++
	body := p.parseStmt(block)
	p.loopDepth--
	return &ForStmt{BaseStmt{stmtPos}, init, cond, upd, body}
}

func (p *Parser) parseWhile(block *BlockStmt, stmtPos Position) Stmt {
	p.advance()
	p.expect(TokLParen)
	cond := p.parseExpr()
	p.expect(TokRParen)
	p.loopDepth++
	body := p.parseStmt(block)
	p.loopDepth--
	return &WhileStmt{BaseStmt{stmtPos}, cond, body}
}

func (p *Parser) parseDo(block *BlockStmt, stmtPos Position) Stmt {
	p.advance()
	p.loopDepth++
	body := p.parseStmt(block)
	p.loopDepth--
	p.expectKeyword("while")
	p.expect(TokLParen)
	cond := p.parseExpr()
	p.expect(TokRParen)
	p.expectSemicolon()
	return &DoStmt{BaseStmt{stmtPos}, cond, body}
}

func (p *Parser) parseSwitch(block *BlockStmt, stmtPos Position) Stmt {
	p.advance()
	p.expect(TokLParen)
	test := p.parseExpr()
	p.expect(TokRParen)
	p.switchDepth++
	body := p.parseCompoundStmt(block)
	p.switchDepth--

	sw := &SwitchStmt{BaseStmt{stmtPos}, test, body, nil, nil}
	collectSwitchLabels(body.Stmts, sw)
	return sw
}

// collectSwitchLabels walks a switch body's label chains (`case`
// labels nest their successor statement via Next, so a run of labels
// sharing one target statement all appear at the start of one entry
// in Stmts) and records every case/default label found.
func collectSwitchLabels(stmts []Stmt, sw *SwitchStmt) {
	for _, s := range stmts {
		collectLabelChain(s, sw)
	}
}

func collectLabelChain(s Stmt, sw *SwitchStmt) {
	switch n := s.(type) {
	case *CaseLabelStmt:
		sw.Cases = append(sw.Cases, n)
		collectLabelChain(n.Next, sw)
	case *DefaultLabelStmt:
		sw.Default = n
		collectLabelChain(n.Next, sw)
	case *LabelStmt:
		collectLabelChain(n.Next, sw)
	}
}

// checkReturn validates n against the function it returns from:
// a non-void function must return a value, a void function must not,
// and a returned value's type must be compatible with (or at least
// both arithmetic alongside) the declared return type.
func (p *Parser) checkReturn(n *ReturnStmt) {
	fn := p.currentFunc
	if n.Expr == nil {
		if fn != nil && !fn.ReturnType.IsVoid() {
			p.error(semanticError(n.Pos, "non-void function %q must return a value", fn.Name))
		}
		return
	}
	rt := n.Expr.ResultType()
	if fn != nil && fn.ReturnType.IsVoid() {
		p.error(semanticError(n.Pos, "void function %q cannot return a value", fn.Name))
		return
	}
	if fn != nil && rt != nil && !rt.CompatibleWith(fn.ReturnType) && !(rt.IsArithmetic() && fn.ReturnType.IsArithmetic()) {
		p.error(semanticError(n.Pos, "cannot return %s from function returning %s", rt, fn.ReturnType))
	}
}

// checkGotos validates that every goto in fn's body targets a label
// reachable from the block it appears in, the same validation the
// original source runs once a function body is fully parsed.
func (p *Parser) checkGotos(fn *FunctionSymbol, body *BlockStmt) {
	walkGotos(body, func(g *GotoStmt, owner *BlockStmt) {
		if !owner.HasLabel(g.Label) {
			p.error(semanticError(g.Pos, "goto to undeclared label %q", g.Label))
		}
	})
}

func walkGotos(block *BlockStmt, visit func(*GotoStmt, *BlockStmt)) {
	for _, s := range block.Stmts {
		walkStmtForGotos(s, block, visit)
	}
	for _, nb := range block.NestedBlocks {
		walkGotos(nb, visit)
	}
}

func walkStmtForGotos(s Stmt, owner *BlockStmt, visit func(*GotoStmt, *BlockStmt)) {
	switch n := s.(type) {
	case *GotoStmt:
		visit(n, owner)
	case *LabelStmt:
		walkStmtForGotos(n.Next, owner, visit)
	case *CaseLabelStmt:
		walkStmtForGotos(n.Next, owner, visit)
	case *DefaultLabelStmt:
		walkStmtForGotos(n.Next, owner, visit)
	case *IfStmt:
		walkStmtForGotos(n.Then, owner, visit)
		if n.Else != nil {
			walkStmtForGotos(n.Else, owner, visit)
		}
	case *ForStmt:
		walkStmtForGotos(n.Body, owner, visit)
	case *WhileStmt:
		walkStmtForGotos(n.Body, owner, visit)
	case *DoStmt:
		walkStmtForGotos(n.Body, owner, visit)
	case *SwitchStmt:
		// n.Body is a nested block, walked separately via NestedBlocks.
	}
}
