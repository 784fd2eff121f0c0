package ncc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpTokens_OneLinePerToken(t *testing.T) {
	toks := scanAll(t, "int x;")
	out := DumpTokens(toks)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, len(toks))
	assert.Contains(t, lines[0], "int")
}

func TestExprString_ReconstructsPrecedenceWithParens(t *testing.T) {
	tu, p := parseSrc(t, `
		int main() {
			int x;
			x = 1 + 2 * 3;
			return x;
		}
	`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("main")
	var assign *BinaryExpr
	for _, s := range fn.Body.Stmts {
		if b, ok := s.(*BinaryExpr); ok && b.Op == TokAssign {
			assign = b
		}
	}
	require.NotNil(t, assign)
	assert.Equal(t, "(1 + (2 * 3))", ExprString(assign.Right))
}

func TestExprString_PostfixAndPrefixUnaryUseSymbols(t *testing.T) {
	tu, p := parseSrc(t, `
		int main() {
			int i;
			i = 0;
			i++;
			--i;
			return i;
		}
	`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("main")
	var unaries []*UnaryExpr
	for _, s := range fn.Body.Stmts {
		if u, ok := s.(*UnaryExpr); ok {
			unaries = append(unaries, u)
		}
	}
	require.Len(t, unaries, 2)
	assert.Equal(t, "i++", ExprString(unaries[0]))
	assert.Equal(t, "--i", ExprString(unaries[1]))
}

func TestExprString_CallRendersArgumentsInOrder(t *testing.T) {
	tu, p := parseSrc(t, `
		int add(int a, int b);
		int main() {
			return add(1, 2);
		}
	`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("main")
	ret := fn.Body.Stmts[0].(*ReturnStmt)
	assert.Equal(t, "add(1, 2)", ExprString(ret.Expr))
}

func TestExprString_MemberAccessDistinguishesDotFromArrow(t *testing.T) {
	tu, p := parseSrc(t, `
		struct Point { int x; };
		int main() {
			struct Point p;
			struct Point *pp;
			pp = &p;
			p.x = 1;
			pp->x = 2;
			return 0;
		}
	`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("main")
	var members []*MemberExpr
	for _, s := range fn.Body.Stmts {
		if b, ok := s.(*BinaryExpr); ok {
			if m, ok := b.Left.(*MemberExpr); ok {
				members = append(members, m)
			}
		}
	}
	require.Len(t, members, 2)
	assert.Equal(t, "p.x", ExprString(members[0]))
	assert.Equal(t, "pp->x", ExprString(members[1]))
}

func TestDumpParseTree_TreeModeIndentsNestedBlocks(t *testing.T) {
	tu, p := parseSrc(t, `
		int main() {
			if (1) {
				return 1;
			}
			return 0;
		}
	`)
	require.Empty(t, p.Errors())
	out := DumpParseTree(tu, ParserOutputTree)
	assert.Contains(t, out, "func main()")
	assert.Contains(t, out, "if (1)")
	assert.Contains(t, out, "return 1;")
	assert.Contains(t, out, "return 0;")
}

func TestDumpParseTree_LinearModeFlattensToOneLinePerFunction(t *testing.T) {
	tu, p := parseSrc(t, `
		int main() {
			int x;
			x = 1;
			return x;
		}
	`)
	require.Empty(t, p.Errors())
	out := DumpParseTree(tu, ParserOutputLinear)
	assert.Contains(t, out, "{ (x = 1); return x; }")
}

func TestDumpSymbols_ListsGlobalsAndFunctions(t *testing.T) {
	tu, p := parseSrc(t, `
		int counter;
		int add(int a, int b);
		int main() {
			return 0;
		}
	`)
	require.Empty(t, p.Errors())
	out := DumpSymbols(tu)
	assert.Contains(t, out, "globals:")
	assert.Contains(t, out, "counter")
	assert.Contains(t, out, "functions:")
	assert.Contains(t, out, "add(int a, int b)")
	assert.Contains(t, out, "main()")
}
