// Package sigmatch implements the overload-resolution and type-matching
// engine: given a candidate routine and an argument list, it attempts a
// match, producing either a positional error or a successful match
// carrying inferred type-variable bindings, inserted conversions, and a
// cost vector used to disambiguate between overloads.
package sigmatch

// Kind identifies the head tag of a formal or actual type.
type Kind int

const (
	KNamed Kind = iota // a nominal type symbol: an object type, an alias, or a type variable
	KBool
	KInt
	KUInt
	KFloat
	KChar
	KMut
	KOut
	KLent
	KSink
	KStatic
	KInvoke // generic instantiation: Head(Args...)
	KRange
	KArray
	KSet
	KUncheckedArray
	KOpenArray
	KTuple
	KPtr
	KRef
	KProc
	KPointer
	KCstring
	KTypedesc
	KUntyped
	KTyped
	KVarargs
)

func (k Kind) modifier() bool {
	switch k {
	case KMut, KOut, KLent, KSink, KStatic:
		return true
	default:
		return false
	}
}

// Type is a node of a declared type expression: a formal parameter
// type, a type-variable constraint operand, or an actual argument's
// type. It is a small tagged struct in the style of value.Value rather
// than a cursor into the wire token buffer, since sigmatch operates on
// already-decoded type trees.
type Type struct {
	Kind Kind

	Name      string // KNamed: the type symbol's name
	IsTypeVar bool   // KNamed: true if Name refers to a declared type variable

	Width int // KInt/KUInt/KFloat/KChar: bit width

	Elem *Type // KPtr/KRef/KArray/KSet/KUncheckedArray/KOpenArray/KVarargs/KRange(base)/modifiers: wrapped type
	Len  int   // KArray: length; -1 if unresolved (treated as a type variable and unified linearly)

	Fields []*Type // KTuple: field types, positional only
	Params []*Type // KProc: parameter types; KInvoke: instantiation arguments
	Ret    *Type   // KProc: return type
	Conv   string  // KProc: calling convention

	Head *Type // KInvoke: the generic's nominal head

	Parent *Type // KNamed object type: immediate inheritance parent, nil at the root

	AliasOf *Type // KNamed alias type: the type it stands for; nil if not an alias
}

func Named(name string) *Type { return &Type{Kind: KNamed, Name: name} }

func TypeVar(name string) *Type { return &Type{Kind: KNamed, Name: name, IsTypeVar: true} }

func Int(width int) *Type   { return &Type{Kind: KInt, Width: width} }
func UInt(width int) *Type  { return &Type{Kind: KUInt, Width: width} }
func Float(width int) *Type { return &Type{Kind: KFloat, Width: width} }
func Char() *Type           { return &Type{Kind: KChar, Width: 8} }
func Bool() *Type           { return &Type{Kind: KBool} }

func Mut(t *Type) *Type    { return &Type{Kind: KMut, Elem: t} }
func Out(t *Type) *Type    { return &Type{Kind: KOut, Elem: t} }
func Lent(t *Type) *Type   { return &Type{Kind: KLent, Elem: t} }
func Sink(t *Type) *Type   { return &Type{Kind: KSink, Elem: t} }
func Static(t *Type) *Type { return &Type{Kind: KStatic, Elem: t} }

func Ptr(t *Type) *Type { return &Type{Kind: KPtr, Elem: t} }
func Ref(t *Type) *Type { return &Type{Kind: KRef, Elem: t} }

func Array(length int, elem *Type) *Type { return &Type{Kind: KArray, Len: length, Elem: elem} }
func Set(elem *Type) *Type               { return &Type{Kind: KSet, Elem: elem} }
func UncheckedArray(elem *Type) *Type    { return &Type{Kind: KUncheckedArray, Elem: elem} }
func OpenArray(elem *Type) *Type         { return &Type{Kind: KOpenArray, Elem: elem} }
func Varargs(elem *Type) *Type           { return &Type{Kind: KVarargs, Elem: elem} }
func RangeOf(base *Type) *Type           { return &Type{Kind: KRange, Elem: base} }

func Tuple(fields ...*Type) *Type { return &Type{Kind: KTuple, Fields: fields} }

func Proc(conv string, params []*Type, ret *Type) *Type {
	return &Type{Kind: KProc, Conv: conv, Params: params, Ret: ret}
}

func Invoke(head *Type, args ...*Type) *Type {
	return &Type{Kind: KInvoke, Head: head, Params: args}
}

func Pointer() *Type            { return &Type{Kind: KPointer} }
func Cstring() *Type            { return &Type{Kind: KCstring} }
func Typedesc(elem *Type) *Type { return &Type{Kind: KTypedesc, Elem: elem} }
func Untyped() *Type            { return &Type{Kind: KUntyped} }
func Typed() *Type              { return &Type{Kind: KTyped} }

// NilLit is the type of the `nil` literal: it satisfies any Ptr, Ref,
// Pointer, or Cstring formal.
func NilLit() *Type { return &Type{Kind: KNamed, Name: "nil"} }

// StringLit is the type of a string-literal actual argument, distinct
// from Cstring: it satisfies a Cstring formal via HconvX.
func StringLit() *Type { return &Type{Kind: KNamed, Name: "string-literal"} }

// Alias wraps impl as a named alias type that transparently unfolds to
// it during matching.
func Alias(name string, impl *Type) *Type {
	return &Type{Kind: KNamed, Name: name, AliasOf: impl}
}

// WithParent attaches an inheritance parent to an object type, for
// tests exercising the inheritance-chain walk.
func (t *Type) WithParent(parent *Type) *Type {
	t.Parent = parent
	return t
}

// unfoldAlias follows alias chains to the first non-alias type.
func unfoldAlias(t *Type) *Type {
	for t.Kind == KNamed && t.AliasOf != nil {
		t = t.AliasOf
	}
	return t
}

// sameHead reports whether two types have the same head tag, used by
// the `typeKind T` constraint and by linear structural matching.
func sameHead(a, b *Type) bool {
	a, b = unfoldAlias(a), unfoldAlias(b)
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KNamed {
		return a.Name == b.Name
	}
	return true
}

// IsOrdinal reports whether t is one of the ordinal kinds (integral or
// boolean), used by the `ordinal` constraint.
func (t *Type) IsOrdinal() bool {
	switch unfoldAlias(t).Kind {
	case KInt, KUInt, KBool, KChar:
		return true
	default:
		return false
	}
}

// typeEqual is deep structural equality, ignoring type-variable
// binding state: it is used to check that a later occurrence of an
// already-bound type variable matches the original binding exactly.
func typeEqual(a, b *Type) bool {
	a, b = unfoldAlias(a), unfoldAlias(b)
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KNamed:
		return a.Name == b.Name
	case KInt, KUInt, KFloat, KChar:
		return a.Width == b.Width
	case KBool, KPointer, KCstring, KUntyped, KTyped:
		return true
	case KMut, KOut, KLent, KSink, KStatic, KPtr, KRef, KSet, KUncheckedArray, KOpenArray, KVarargs, KTypedesc, KRange:
		return typeEqual(a.Elem, b.Elem)
	case KArray:
		return a.Len == b.Len && typeEqual(a.Elem, b.Elem)
	case KTuple:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !typeEqual(a.Fields[i], b.Fields[i]) {
				return false
			}
		}
		return true
	case KProc:
		if a.Conv != b.Conv || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !typeEqual(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return typeEqual(a.Ret, b.Ret)
	case KInvoke:
		if len(a.Params) != len(b.Params) || !typeEqual(a.Head, b.Head) {
			return false
		}
		for i := range a.Params {
			if !typeEqual(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
