package ncc

import "fmt"

// TypeKind is the tag of the Type variant.
type TypeKind int

const (
	TypeInt TypeKind = iota
	TypeFloat
	TypeVoid
	TypeChar
	TypePointer
	TypeArray
	TypeStruct
	TypeTypedef
	TypeFunction
)

// TypeID is a non-owning handle into a TypeArena. Per the design
// recommendation for the symbol model's cyclic references (a struct
// field referencing its enclosing struct's pointer type, and vice
// versa), every type-to-type reference is a TypeID rather than a raw
// pointer; the arena is the sole owner.
type TypeID int

const invalidTypeID TypeID = -1

// Type is a tagged variant over every type the language subset
// supports. Only the fields relevant to Kind are meaningful.
type Type struct {
	arena *TypeArena
	id    TypeID

	Kind TypeKind

	Const    bool
	Complete bool

	// Pointer, Array, Typedef: element/aliased type.
	Target TypeID

	// Array only.
	Length int

	// Struct only.
	Fields *StructTable
	Tag    string

	// Typedef only.
	Name string
}

// TypeArena owns every Type in a translation unit.
type TypeArena struct {
	types []*Type

	intType   TypeID
	floatType TypeID
	voidType  TypeID
	charType  TypeID
}

func NewTypeArena() *TypeArena {
	a := &TypeArena{}
	a.intType = a.alloc(&Type{Kind: TypeInt, Complete: true})
	a.floatType = a.alloc(&Type{Kind: TypeFloat, Complete: true})
	a.voidType = a.alloc(&Type{Kind: TypeVoid, Complete: true})
	a.charType = a.alloc(&Type{Kind: TypeChar, Complete: true})
	return a
}

func (a *TypeArena) alloc(t *Type) TypeID {
	id := TypeID(len(a.types))
	t.arena = a
	t.id = id
	a.types = append(a.types, t)
	return id
}

func (a *TypeArena) Resolve(id TypeID) *Type {
	if id == invalidTypeID {
		return nil
	}
	return a.types[id]
}

func (a *TypeArena) Int() *Type   { return a.Resolve(a.intType) }
func (a *TypeArena) Float() *Type { return a.Resolve(a.floatType) }
func (a *TypeArena) Void() *Type  { return a.Resolve(a.voidType) }
func (a *TypeArena) Char() *Type  { return a.Resolve(a.charType) }

func (a *TypeArena) NewPointer(target *Type) *Type {
	t := &Type{Kind: TypePointer, Target: target.id, Complete: true}
	a.alloc(t)
	return t
}

func (a *TypeArena) NewArray(element *Type, length int) *Type {
	t := &Type{Kind: TypeArray, Target: element.id, Length: length, Complete: true}
	a.alloc(t)
	return t
}

func (a *TypeArena) NewStruct(tag string) *Type {
	t := &Type{Kind: TypeStruct, Tag: tag, Fields: NewStructTable(), Complete: false}
	a.alloc(t)
	return t
}

func (a *TypeArena) NewTypedef(name string, target *Type) *Type {
	t := &Type{Kind: TypeTypedef, Name: name, Target: target.id, Complete: target.Complete}
	a.alloc(t)
	return t
}

func (a *TypeArena) NewFunctionType() *Type {
	t := &Type{Kind: TypeFunction, Complete: true}
	a.alloc(t)
	return t
}

// ConstClone returns a type identical to t except for its Const flag,
// allocating a new arena slot (types are value-identical but
// const-qualification is tracked per reference, the same strategy
// CTypeSymbol::ConstClone uses in the original source).
func (t *Type) ConstClone(c bool) *Type {
	clone := *t
	clone.Const = c
	t.arena.alloc(&clone)
	return &clone
}

// Underlying forwards through any chain of typedefs to the first
// non-typedef type, the same transparency CTypedefSymbol gives its
// IsInt/IsFloat/etc. overrides.
func (t *Type) Underlying() *Type {
	for t.Kind == TypeTypedef {
		t = t.arena.Resolve(t.Target)
	}
	return t
}

func (t *Type) IsInt() bool   { return t.Underlying().Kind == TypeInt }
func (t *Type) IsFloat() bool { return t.Underlying().Kind == TypeFloat }
func (t *Type) IsChar() bool  { return t.Underlying().Kind == TypeChar }
func (t *Type) IsVoid() bool  { return t.Underlying().Kind == TypeVoid }
func (t *Type) IsArithmetic() bool {
	u := t.Underlying()
	return u.Kind == TypeInt || u.Kind == TypeFloat || u.Kind == TypeChar
}
func (t *Type) IsPointer() bool { return t.Underlying().Kind == TypePointer }
func (t *Type) IsArray() bool   { return t.Underlying().Kind == TypeArray }
func (t *Type) IsStruct() bool  { return t.Underlying().Kind == TypeStruct }
func (t *Type) IsFunction() bool { return t.Underlying().Kind == TypeFunction }

// IsScalar matches the original source's definition: arithmetic or
// pointer, with arrays counted as pointers.
func (t *Type) IsScalar() bool {
	return t.IsArithmetic() || t.IsPointer() || t.IsArray()
}

// ElementType returns the pointee (pointer) or element type (array);
// arrays decay to pointers for this purpose, per the spec's
// "is-also-pointer" note.
func (t *Type) ElementType() *Type {
	u := t.Underlying()
	return t.arena.Resolve(u.Target)
}

func (t *Type) ArrayLength() int {
	return t.Underlying().Length
}

// Size returns the type's byte size: 4 for int/float/pointer, 1 for
// char, 0 for void, length*element.Size() for arrays, the packed sum
// of field sizes for structs.
func (t *Type) Size() int {
	switch t.Kind {
	case TypeInt, TypeFloat, TypePointer:
		return 4
	case TypeChar:
		return 1
	case TypeVoid:
		return 0
	case TypeArray:
		return t.Length * t.ElementType().Size()
	case TypeStruct:
		return t.Fields.totalSize()
	case TypeTypedef:
		return t.Underlying().Size()
	case TypeFunction:
		return 0
	}
	return 0
}

// CompatibleWith implements the spec's compatibility relation: same
// primitive kind; both pointers with compatible targets; both arrays
// with the same element type (length need not match); both the same
// struct tag.
func (t *Type) CompatibleWith(other *Type) bool {
	a, b := t.Underlying(), other.Underlying()
	switch {
	case a.Kind != b.Kind:
		return false
	case a.Kind == TypePointer:
		return a.ElementType().CompatibleWith(b.ElementType())
	case a.Kind == TypeArray:
		return a.ElementType().CompatibleWith(b.ElementType())
	case a.Kind == TypeStruct:
		return a.Tag == b.Tag
	default:
		return true
	}
}

func (t *Type) String() string {
	switch t.Kind {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeVoid:
		return "void"
	case TypeChar:
		return "char"
	case TypePointer:
		return t.ElementType().String() + "*"
	case TypeArray:
		return fmt.Sprintf("%s[%d]", t.ElementType().String(), t.Length)
	case TypeStruct:
		return "struct " + t.Tag
	case TypeTypedef:
		return t.Name
	case TypeFunction:
		return "function"
	}
	return "?"
}
