package ncc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer([]byte(src))
	var toks []Token
	for {
		tok := l.AdvanceToNextToken()
		toks = append(toks, tok)
		if tok.IsEOF() {
			break
		}
	}
	return toks
}

func TestLexer_Identifiers(t *testing.T) {
	toks := scanAll(t, "foo _bar42 int")
	require.Len(t, toks, 4) // 3 idents/keywords + EOF
	assert.Equal(t, TokIdentifier, toks[0].Kind)
	assert.Equal(t, "foo", toks[0].Text)
	assert.Equal(t, TokIdentifier, toks[1].Kind)
	assert.Equal(t, "_bar42", toks[1].Text)
	assert.Equal(t, TokKeyword, toks[2].Kind)
	assert.Equal(t, "int", toks[2].Text)
}

func TestLexer_NumericConstants(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantInt bool
		intVal  int
		fltVal  float64
	}{
		{name: "integer", src: "42", wantInt: true, intVal: 42},
		{name: "float with fraction", src: "3.14", wantInt: false, fltVal: 3.14},
		{name: "whole-number float", src: "2.0", wantInt: false, fltVal: 2.0},
		{name: "leading dot", src: ".5", wantInt: false, fltVal: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := scanAll(t, tt.src)
			require.Len(t, toks, 2)
			if tt.wantInt {
				assert.Equal(t, TokIntegerConst, toks[0].Kind)
				assert.Equal(t, tt.intVal, toks[0].IntVal)
			} else {
				assert.Equal(t, TokFloatConst, toks[0].Kind)
				assert.Equal(t, tt.fltVal, toks[0].FltVal)
			}
		})
	}
}

func TestLexer_StringAndCharLiterals(t *testing.T) {
	toks := scanAll(t, `"hi\n" 'a' '\''`)
	require.Len(t, toks, 4)
	assert.Equal(t, TokStringConst, toks[0].Kind)
	assert.Equal(t, "hi\n", toks[0].Text)
	assert.Equal(t, TokCharConst, toks[1].Kind)
	assert.Equal(t, byte('a'), toks[1].ChrVal)
	assert.Equal(t, TokCharConst, toks[2].Kind)
	assert.Equal(t, byte('\''), toks[2].ChrVal)
}

func TestLexer_UnterminatedStringReportsError(t *testing.T) {
	l := NewLexer([]byte(`"unterminated`))
	tok := l.AdvanceToNextToken()
	assert.Equal(t, TokInvalid, tok.Kind)
	require.Len(t, l.Errors(), 1)
	assert.Equal(t, ErrLexical, l.Errors()[0].Kind)
}

func TestLexer_OperatorDisambiguation(t *testing.T) {
	tests := []struct {
		src  string
		kind TokenKind
	}{
		{"+", TokPlus}, {"++", TokIncrement}, {"+=", TokPlusAssign},
		{"-", TokMinus}, {"--", TokDecrement}, {"->", TokArrow},
		{"<=", TokLessEqual}, {"<<", TokShl}, {"<", TokLess},
		{"&&", TokLogicAnd}, {"&", TokAmp},
		{"==", TokEqual}, {"=", TokAssign},
	}
	for _, tt := range tests {
		toks := scanAll(t, tt.src)
		require.Len(t, toks, 2, tt.src)
		assert.Equal(t, tt.kind, toks[0].Kind, tt.src)
	}
}

func TestLexer_SkipsCommentsAndWhitespace(t *testing.T) {
	toks := scanAll(t, "int /* comment\nspanning lines */ x;")
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []TokenKind{TokKeyword, TokIdentifier, TokSemicolon, TokEOF}, kinds)
}

func TestLexer_EOFIsSticky(t *testing.T) {
	l := NewLexer([]byte(""))
	first := l.AdvanceToNextToken()
	second := l.AdvanceToNextToken()
	assert.True(t, first.IsEOF())
	assert.Equal(t, first, second)
}
