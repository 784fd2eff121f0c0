package ncc

import (
	"fmt"
	"strings"
)

// indentWriter accumulates text with tracked indentation, the same
// small helper shape the teacher keeps as a standalone writer rather
// than threading a depth counter through every print call.
type indentWriter struct {
	buf    strings.Builder
	depth  int
	indent string
}

func newIndentWriter(indent string) *indentWriter {
	return &indentWriter{indent: indent}
}

func (w *indentWriter) push()  { w.depth++ }
func (w *indentWriter) pop()   { w.depth-- }
func (w *indentWriter) line(format string, args ...interface{}) {
	for i := 0; i < w.depth; i++ {
		w.buf.WriteString(w.indent)
	}
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}
func (w *indentWriter) String() string { return w.buf.String() }

// DumpTokens renders the scan-mode output: one line per token in the
// same tab-separated `line, column, kind, text` shape Token.String
// already produces.
func DumpTokens(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DumpParseTree renders the parse-mode output in tree form: every
// function and global declaration, indented one level per nesting
// level of statement and expression.
func DumpParseTree(tu *TranslationUnit, mode ParserOutputMode) string {
	w := newIndentWriter("  ")
	for _, v := range tu.Globals.Variables() {
		w.line("var %s %s", v.Name, v.Type)
	}
	for _, fn := range tu.Globals.Functions() {
		dumpFunction(w, fn, mode)
	}
	return w.String()
}

func dumpFunction(w *indentWriter, fn *FunctionSymbol, mode ParserOutputMode) {
	w.line("func %s(%s) %s", fn.Name, paramList(fn), fn.ReturnType)
	if fn.Body == nil {
		return
	}
	w.push()
	if mode == ParserOutputLinear {
		w.line("%s", dumpBlockLinear(fn.Body))
	} else {
		dumpBlockTree(w, fn.Body)
	}
	w.pop()
}

func paramList(fn *FunctionSymbol) string {
	parts := make([]string, len(fn.ParamOrder))
	for i, p := range fn.ParamOrder {
		parts[i] = fmt.Sprintf("%s %s", p.Type, p.Name)
	}
	return strings.Join(parts, ", ")
}

func dumpBlockTree(w *indentWriter, b *BlockStmt) {
	for _, s := range b.Stmts {
		dumpStmtTree(w, s)
	}
}

func dumpStmtTree(w *indentWriter, s Stmt) {
	switch n := s.(type) {
	case Expr:
		w.line("%s", ExprString(n))
	case *BlockStmt:
		w.line("block")
		w.push()
		dumpBlockTree(w, n)
		w.pop()
	case *NullStmt:
		w.line(";")
	case *IfStmt:
		w.line("if (%s)", ExprString(n.Cond))
		w.push()
		dumpStmtTree(w, n.Then)
		w.pop()
		if n.Else != nil {
			w.line("else")
			w.push()
			dumpStmtTree(w, n.Else)
			w.pop()
		}
	case *ForStmt:
		w.line("for (%s; %s; %s)", stmtHeader(n.Init), exprOrEmpty(n.Cond), exprOrEmpty(n.Update))
		w.push()
		dumpStmtTree(w, n.Body)
		w.pop()
	case *WhileStmt:
		w.line("while (%s)", ExprString(n.Cond))
		w.push()
		dumpStmtTree(w, n.Body)
		w.pop()
	case *DoStmt:
		w.line("do")
		w.push()
		dumpStmtTree(w, n.Body)
		w.pop()
		w.line("while (%s)", ExprString(n.Cond))
	case *SwitchStmt:
		w.line("switch (%s)", ExprString(n.Test))
		w.push()
		dumpBlockTree(w, n.Body)
		w.pop()
	case *CaseLabelStmt:
		w.line("case %s:", ExprString(n.CaseExpr))
		dumpStmtTree(w, n.Next)
	case *DefaultLabelStmt:
		w.line("default:")
		dumpStmtTree(w, n.Next)
	case *LabelStmt:
		w.line("%s:", n.Name)
		dumpStmtTree(w, n.Next)
	case *GotoStmt:
		w.line("goto %s;", n.Label)
	case *BreakStmt:
		w.line("break;")
	case *ContinueStmt:
		w.line("continue;")
	case *ReturnStmt:
		if n.Expr != nil {
			w.line("return %s;", ExprString(n.Expr))
		} else {
			w.line("return;")
		}
	}
}

func stmtHeader(s Stmt) string {
	if s == nil {
		return ""
	}
	if e, ok := s.(Expr); ok {
		return ExprString(e)
	}
	return ""
}

func exprOrEmpty(e Expr) string {
	if e == nil {
		return ""
	}
	return ExprString(e)
}

// dumpBlockLinear flattens a block to one line, the ParserOutputLinear
// alternative to the indented tree.
func dumpBlockLinear(b *BlockStmt) string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = stmtString(s)
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func stmtString(s Stmt) string {
	switch n := s.(type) {
	case Expr:
		return ExprString(n) + ";"
	case *BlockStmt:
		return dumpBlockLinear(n)
	case *IfStmt:
		if n.Else != nil {
			return fmt.Sprintf("if (%s) %s else %s", ExprString(n.Cond), stmtString(n.Then), stmtString(n.Else))
		}
		return fmt.Sprintf("if (%s) %s", ExprString(n.Cond), stmtString(n.Then))
	case *ForStmt:
		return fmt.Sprintf("for (%s; %s; %s) %s", stmtHeader(n.Init), exprOrEmpty(n.Cond), exprOrEmpty(n.Update), stmtString(n.Body))
	case *WhileStmt:
		return fmt.Sprintf("while (%s) %s", ExprString(n.Cond), stmtString(n.Body))
	case *DoStmt:
		return fmt.Sprintf("do %s while (%s);", stmtString(n.Body), ExprString(n.Cond))
	case *ReturnStmt:
		if n.Expr != nil {
			return fmt.Sprintf("return %s;", ExprString(n.Expr))
		}
		return "return;"
	case *BreakStmt:
		return "break;"
	case *ContinueStmt:
		return "continue;"
	case *GotoStmt:
		return fmt.Sprintf("goto %s;", n.Label)
	case *NullStmt:
		return ";"
	default:
		return ""
	}
}

// ExprString reconstructs C-like source text for e, used by both
// parse-tree printer modes.
func ExprString(e Expr) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *IntegerConst:
		return fmt.Sprintf("%d", n.Value)
	case *FloatConst:
		return fmt.Sprintf("%g", n.Value)
	case *CharConst:
		return fmt.Sprintf("'%s'", escapeLiteral(string(n.Value)))
	case *StringConst:
		return fmt.Sprintf("%q", n.Value)
	case *VariableExpr:
		return n.Name
	case *FunctionExpr:
		return n.Name
	case *UnaryExpr:
		if n.Postfix {
			return fmt.Sprintf("%s%s", ExprString(n.Arg), opSymbol(n.Op))
		}
		return fmt.Sprintf("%s%s", opSymbol(n.Op), ExprString(n.Arg))
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", ExprString(n.Left), opSymbol(n.Op), ExprString(n.Right))
	case *ConditionalExpr:
		return fmt.Sprintf("(%s ? %s : %s)", ExprString(n.Cond), ExprString(n.True), ExprString(n.False))
	case *CallExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = ExprString(a)
		}
		return fmt.Sprintf("%s(%s)", n.CalleeName, strings.Join(args, ", "))
	case *MemberExpr:
		if n.Arrow {
			return fmt.Sprintf("%s->%s", ExprString(n.Struct), n.Field)
		}
		return fmt.Sprintf("%s.%s", ExprString(n.Struct), n.Field)
	case *IndexExpr:
		return fmt.Sprintf("%s[%s]", ExprString(n.Array), ExprString(n.Index))
	case *AddrOfExpr:
		return "&" + ExprString(n.Arg)
	case *CastExpr:
		return fmt.Sprintf("(%s)%s", n.Target, ExprString(n.Arg))
	case *SizeofExpr:
		return fmt.Sprintf("sizeof(%s)", ExprString(n.Arg))
	default:
		return "?"
	}
}

func opSymbol(k TokenKind) string {
	if name, ok := operatorSymbols[k]; ok {
		return name
	}
	return k.String()
}

var operatorSymbols = map[TokenKind]string{
	TokPlus: "+", TokMinus: "-", TokStar: "*", TokSlash: "/", TokPercent: "%",
	TokAssign: "=", TokPlusAssign: "+=", TokMinusAssign: "-=", TokStarAssign: "*=",
	TokSlashAssign: "/=", TokPercentAssign: "%=", TokAmpAssign: "&=", TokPipeAssign: "|=",
	TokCaretAssign: "^=", TokShlAssign: "<<=", TokShrAssign: ">>=",
	TokEqual: "==", TokNotEqual: "!=", TokLess: "<", TokGreater: ">",
	TokLessEqual: "<=", TokGreaterEqual: ">=", TokLogicAnd: "&&", TokLogicOr: "||",
	TokLogicNot: "!", TokAmp: "&", TokPipe: "|", TokBitwiseNot: "~", TokCaret: "^",
	TokShl: "<<", TokShr: ">>", TokIncrement: "++", TokDecrement: "--", TokComma: ",",
}

var literalSanitizer = strings.NewReplacer(
	`"`, `\"`,
	`\`, `\\`,
	string('\n'), `\n`,
	string('\r'), `\r`,
	string('\t'), `\t`,
)

func escapeLiteral(s string) string {
	return literalSanitizer.Replace(s)
}

// DumpSymbols renders the symbol-table dump: every global variable,
// then every function with its parameters, in declaration order.
// Struct tags and their fields are not listed.
func DumpSymbols(tu *TranslationUnit) string {
	w := newIndentWriter("  ")
	w.line("globals:")
	w.push()
	for _, v := range tu.Globals.Variables() {
		w.line("%s %s", v.Type, v.Name)
	}
	w.pop()

	w.line("functions:")
	w.push()
	for _, fn := range tu.Globals.Functions() {
		w.line("%s %s(%s)", fn.ReturnType, fn.Name, paramList(fn))
	}
	w.pop()
	return w.String()
}
