// Package value implements the tagged value universe and bump-allocated
// arena shared by every other component of the core: the L0 evaluator,
// the macro expander, and (via lowered trees) the signature matcher.
package value

import "fmt"

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindSymbol
	KindString
	KindPair
	KindPrimitive
	KindClosure
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindPair:
		return "pair"
	case KindPrimitive:
		return "primitive"
	case KindClosure:
		return "closure"
	case KindRef:
		return "ref"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Env is the lexical environment a Closure captures and a Primitive is
// invoked with. It is defined in package l0; Value only needs to refer
// to it opaquely to avoid an import cycle, so closures and primitives
// carry it as an untyped pointer supplied by the caller.
type Env interface{}

// PrimitiveFunc is the Go function embedded in a Primitive value.
type PrimitiveFunc func(a *Arena, env Env, args []*Value) (*Value, error)

// Value is a tagged variant over the ten value kinds of the core data
// model. Every Value in existence is owned by exactly one Arena.
type Value struct {
	kind Kind

	b bool
	i int64
	f float64
	s string // Symbol name or String bytes

	car, cdr *Value // Pair

	primName string        // Primitive
	primFn   PrimitiveFunc // Primitive

	params []string // Closure
	body   []*Value // Closure
	env    Env      // Closure

	ref *Value // Ref target (indirection cell)
}

func (v *Value) Kind() Kind { return v.kind }

func (v *Value) IsNil() bool    { return v.kind == KindNil }
func (v *Value) IsBool() bool   { return v.kind == KindBool }
func (v *Value) IsInt() bool    { return v.kind == KindInt }
func (v *Value) IsFloat() bool  { return v.kind == KindFloat }
func (v *Value) IsSymbol() bool { return v.kind == KindSymbol }
func (v *Value) IsString() bool { return v.kind == KindString }
func (v *Value) IsPair() bool   { return v.kind == KindPair }
func (v *Value) IsProc() bool   { return v.kind == KindPrimitive || v.kind == KindClosure }
func (v *Value) IsRef() bool    { return v.kind == KindRef }

// Bool returns the boolean payload; only valid when Kind() == KindBool.
func (v *Value) Bool() bool { return v.b }

// Int returns the integer payload; only valid when Kind() == KindInt.
func (v *Value) Int() int64 { return v.i }

// Float returns the float payload; only valid when Kind() == KindFloat.
func (v *Value) Float() float64 { return v.f }

// Symbol returns the symbol name; only valid when Kind() == KindSymbol.
func (v *Value) Symbol() string { return v.s }

// Str returns the string bytes; only valid when Kind() == KindString.
func (v *Value) Str() string { return v.s }

// Car returns the head of a Pair.
func (v *Value) Car() *Value { return v.car }

// Cdr returns the tail of a Pair.
func (v *Value) Cdr() *Value { return v.cdr }

// SetCar mutates the head of a Pair in place (set-car!).
func (v *Value) SetCar(x *Value) { v.car = x }

// SetCdr mutates the tail of a Pair in place (set-cdr!).
func (v *Value) SetCdr(x *Value) { v.cdr = x }

// PrimitiveName returns the name of a Primitive, for diagnostics.
func (v *Value) PrimitiveName() string { return v.primName }

// CallPrimitive invokes a Primitive's embedded function.
func (v *Value) CallPrimitive(a *Arena, env Env, args []*Value) (*Value, error) {
	return v.primFn(a, env, args)
}

// ClosureParams returns a closure's formal parameter names.
func (v *Value) ClosureParams() []string { return v.params }

// ClosureBody returns a closure's body expressions.
func (v *Value) ClosureBody() []*Value { return v.body }

// ClosureEnv returns the environment a closure captured at creation time.
func (v *Value) ClosureEnv() Env { return v.env }

// Deref follows a Ref to its current target. Reading a Ref dereferences
// transparently per the core data model.
func (v *Value) Deref() *Value { return v.ref }

// SetRef updates the target a Ref points at. Writing a Ref updates in
// place; the Ref value itself is unchanged.
func (v *Value) SetRef(target *Value) { v.ref = target }

// IsList reports whether v is Nil or a Pair whose cdr chain terminates
// in Nil.
func (v *Value) IsList() bool {
	for {
		switch {
		case v.IsNil():
			return true
		case v.IsPair():
			v = v.cdr
		default:
			return false
		}
	}
}

// IsTruthy reports whether v counts as true in a conditional context.
// Every value is truthy except Bool(false); Nil is truthy, matching the
// historical Lisp convention this language follows.
func (v *Value) IsTruthy() bool {
	return !(v.kind == KindBool && !v.b)
}

// ListSlice collects the elements of a proper list into a slice. It
// panics if v is not a proper list; callers should check IsList first.
func (v *Value) ListSlice() []*Value {
	var out []*Value
	for !v.IsNil() {
		if !v.IsPair() {
			panic("value: ListSlice of improper list")
		}
		out = append(out, v.car)
		v = v.cdr
	}
	return out
}

// ListLen returns the length of a proper list.
func (v *Value) ListLen() int {
	n := 0
	for !v.IsNil() {
		n++
		v = v.cdr
	}
	return n
}
