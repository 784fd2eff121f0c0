package ncc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType_SizeOfPrimitivesAndComposites(t *testing.T) {
	a := NewTypeArena()
	assert.Equal(t, 4, a.Int().Size())
	assert.Equal(t, 4, a.Float().Size())
	assert.Equal(t, 1, a.Char().Size())
	assert.Equal(t, 0, a.Void().Size())
	assert.Equal(t, 4, a.NewPointer(a.Int()).Size())
	assert.Equal(t, 40, a.NewArray(a.Int(), 10).Size())
}

func TestType_StringRendersDeclaratorShape(t *testing.T) {
	a := NewTypeArena()
	assert.Equal(t, "int", a.Int().String())
	assert.Equal(t, "int*", a.NewPointer(a.Int()).String())
	assert.Equal(t, "int[3]", a.NewArray(a.Int(), 3).String())
	st := a.NewStruct("Point")
	assert.Equal(t, "struct Point", st.String())
}

func TestType_CompatibleWithMatchesSameKindAndTarget(t *testing.T) {
	a := NewTypeArena()
	assert.True(t, a.Int().CompatibleWith(a.Int()))
	assert.False(t, a.Int().CompatibleWith(a.Float()))

	p1 := a.NewPointer(a.Int())
	p2 := a.NewPointer(a.Int())
	assert.True(t, p1.CompatibleWith(p2))

	pf := a.NewPointer(a.Float())
	assert.False(t, p1.CompatibleWith(pf))
}

func TestType_CompatibleWithMatchesStructByTagOnly(t *testing.T) {
	a := NewTypeArena()
	s1 := a.NewStruct("Point")
	s2 := a.NewStruct("Point")
	s3 := a.NewStruct("Rect")
	assert.True(t, s1.CompatibleWith(s2))
	assert.False(t, s1.CompatibleWith(s3))
}

func TestType_TypedefUnderlyingUnwrapsToTargetKind(t *testing.T) {
	a := NewTypeArena()
	td := a.NewTypedef("Meters", a.Int())
	assert.True(t, td.IsInt())
	assert.Equal(t, 4, td.Size())
}

func TestType_ArrayOfPointersSizesByPointerWidth(t *testing.T) {
	a := NewTypeArena()
	arr := a.NewArray(a.NewPointer(a.Int()), 4)
	assert.Equal(t, 16, arr.Size())
	assert.True(t, arr.IsArray())
	assert.True(t, arr.ElementType().IsPointer())
}
