package ncc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) (*TranslationUnit, *Parser) {
	t.Helper()
	lexer := NewLexer([]byte(src))
	ts := NewTokenStream(lexer)
	p := NewParser(ts, NewConfig())
	tu := p.ParseTranslationUnit()
	require.Empty(t, lexer.Errors(), "lexer errors: %v", lexer.Errors())
	return tu, p
}

func TestParser_FunctionDeclarationAndDefinition(t *testing.T) {
	tu, p := parseSrc(t, `
		int add(int a, int b);
		int add(int a, int b) { return a + b; }
	`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("add")
	require.NotNil(t, fn)
	assert.True(t, fn.ReturnType.IsInt())
	require.Len(t, fn.ParamOrder, 2)
	assert.Equal(t, "a", fn.ParamOrder[0].Name)
	require.NotNil(t, fn.Body)
}

func TestParser_BuiltinsPreregistered(t *testing.T) {
	tu, p := parseSrc(t, `int main() { __print_int(1); return 0; }`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("__print_int")
	require.NotNil(t, fn)
	assert.True(t, fn.Builtin)
	assert.Nil(t, fn.Body)
}

func TestParser_CallToUndeclaredFunctionIsAnError(t *testing.T) {
	_, p := parseSrc(t, `int main() { return undeclared_fn(1); }`)
	require.NotEmpty(t, p.Errors())
	assert.Equal(t, ErrSemantic, p.Errors()[0].Kind)
}

func TestParser_OperatorPrecedence(t *testing.T) {
	tu, p := parseSrc(t, `
		int main() {
			int x;
			x = 1 + 2 * 3;
			return x;
		}
	`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("main")
	require.NotNil(t, fn)

	// Find the assignment statement `x = 1 + 2 * 3;`.
	var assign *BinaryExpr
	for _, s := range fn.Body.Stmts {
		if b, ok := s.(*BinaryExpr); ok && b.Op == TokAssign {
			assign = b
		}
	}
	require.NotNil(t, assign)
	rhs, ok := assign.Right.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, TokPlus, rhs.Op)
	mul, ok := rhs.Right.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, TokStar, mul.Op)
}

func TestParser_CastVsParenDisambiguation(t *testing.T) {
	tu, p := parseSrc(t, `
		int main() {
			float f;
			int x;
			x = (int)f;
			x = (x + 1);
			return x;
		}
	`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("main")
	require.NotNil(t, fn)

	var assigns []*BinaryExpr
	for _, s := range fn.Body.Stmts {
		if b, ok := s.(*BinaryExpr); ok && b.Op == TokAssign {
			assigns = append(assigns, b)
		}
	}
	require.Len(t, assigns, 2)
	_, isCast := assigns[0].Right.(*CastExpr)
	assert.True(t, isCast, "expected (int)f to parse as a cast")
	_, isBinary := assigns[1].Right.(*BinaryExpr)
	assert.True(t, isBinary, "expected (x + 1) to parse as a parenthesized expression")
}

func TestParser_StructMemberAccess(t *testing.T) {
	tu, p := parseSrc(t, `
		struct Point { int x; int y; };
		int main() {
			struct Point p;
			struct Point *pp;
			pp = &p;
			p.x = 1;
			pp->y = 2;
			return 0;
		}
	`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("main")
	require.NotNil(t, fn)

	var members []*MemberExpr
	for _, s := range fn.Body.Stmts {
		if b, ok := s.(*BinaryExpr); ok {
			if m, ok := b.Left.(*MemberExpr); ok {
				members = append(members, m)
			}
		}
	}
	require.Len(t, members, 2)
	assert.False(t, members[0].Arrow)
	assert.True(t, members[1].Arrow)
}

func TestParser_GotoToUndeclaredLabelIsAnError(t *testing.T) {
	_, p := parseSrc(t, `
		int main() {
			goto nowhere;
			return 0;
		}
	`)
	require.NotEmpty(t, p.Errors())
}

func TestParser_GotoToReachableLabelIsAccepted(t *testing.T) {
	_, p := parseSrc(t, `
		int main() {
			goto done;
		done:
			return 0;
		}
	`)
	assert.Empty(t, p.Errors())
}

func TestParser_BreakOutsideLoopOrSwitchIsAnError(t *testing.T) {
	_, p := parseSrc(t, `
		int main() {
			break;
			return 0;
		}
	`)
	require.NotEmpty(t, p.Errors())
}

func TestParser_SwitchCollectsCaseLabels(t *testing.T) {
	tu, p := parseSrc(t, `
		int main() {
			int x;
			switch (x) {
			case 1:
				x = 1;
				break;
			case 2:
				x = 2;
				break;
			default:
				x = 0;
			}
			return x;
		}
	`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("main")
	require.NotNil(t, fn)

	var sw *SwitchStmt
	for _, s := range fn.Body.Stmts {
		if s2, ok := s.(*SwitchStmt); ok {
			sw = s2
		}
	}
	require.NotNil(t, sw)
	assert.Len(t, sw.Cases, 2)
	assert.NotNil(t, sw.Default)
}
