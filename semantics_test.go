package ncc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkSrc parses src and returns the resulting translation unit and
// parser; semantic checks run inline as the parser reduces each
// declaration, statement and expression, so by the time
// ParseTranslationUnit returns, p.Errors() already carries any type
// or lvalue diagnostic alongside the lexical and syntactic ones.
func checkSrc(t *testing.T, src string) (*TranslationUnit, *Parser) {
	t.Helper()
	return parseSrc(t, src)
}

func TestParser_AnnotatesArithmeticResultType(t *testing.T) {
	tu, p := checkSrc(t, `
		int main() {
			int x;
			float f;
			x = 1 + 2;
			f = 1 + 2.0;
			return x;
		}
	`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("main")
	var assigns []*BinaryExpr
	for _, s := range fn.Body.Stmts {
		if b, ok := s.(*BinaryExpr); ok && b.Op == TokAssign {
			assigns = append(assigns, b)
		}
	}
	require.Len(t, assigns, 2)
	assert.True(t, assigns[0].Right.ResultType().IsInt())
	assert.True(t, assigns[1].Right.ResultType().IsFloat())
}

func TestParser_RelationalResultIsInt(t *testing.T) {
	tu, p := checkSrc(t, `
		int main() {
			int x;
			x = 1 < 2;
			return x;
		}
	`)
	require.Empty(t, p.Errors())
	fn := tu.Globals.GetFunction("main")
	assign := fn.Body.Stmts[0].(*BinaryExpr)
	assert.True(t, assign.Right.ResultType().IsInt())
}

func TestParser_VoidFunctionCannotReturnValue(t *testing.T) {
	_, p := checkSrc(t, `
		void f() {
			return 1;
		}
	`)
	require.NotEmpty(t, p.Errors())
}

func TestParser_NonVoidFunctionMustReturnValue(t *testing.T) {
	_, p := checkSrc(t, `
		int f() {
			return;
		}
	`)
	require.NotEmpty(t, p.Errors())
}

func TestParser_MemberAccessOnNonStructIsAnError(t *testing.T) {
	_, p := checkSrc(t, `
		int main() {
			int x;
			x = x.field;
			return 0;
		}
	`)
	require.NotEmpty(t, p.Errors())
}

func TestParser_ArrowOnNonPointerIsAnError(t *testing.T) {
	_, p := checkSrc(t, `
		struct S { int a; };
		int main() {
			struct S s;
			s->a = 1;
			return 0;
		}
	`)
	require.NotEmpty(t, p.Errors())
}

func TestParser_CallArgumentCountMismatchIsAnError(t *testing.T) {
	_, p := checkSrc(t, `
		int add(int a, int b);
		int main() {
			return add(1);
		}
	`)
	require.NotEmpty(t, p.Errors())
}

func TestParser_NonConstantCaseExpressionIsAnError(t *testing.T) {
	_, p := checkSrc(t, `
		int main() {
			int x;
			int y;
			switch (x) {
			case y:
				return 1;
			}
			return 0;
		}
	`)
	require.NotEmpty(t, p.Errors())
}

func TestParser_ConstantCaseExpressionIsAccepted(t *testing.T) {
	_, p := checkSrc(t, `
		int main() {
			int x;
			switch (x) {
			case 1 + 1:
				return 1;
			}
			return 0;
		}
	`)
	assert.Empty(t, p.Errors())
}
