package value

// Arena is a monotonically growing region owning every Value produced
// during one compilation unit. It is created at unit start and released
// as a whole at unit end; there is no per-value release.
//
// All allocations live in the arena's backing slice, which grows by
// appending; since Value is only ever handed out by pointer into that
// slice's storage, callers must not retain pointers across a future
// arena (a fresh Arena must be used for a fresh unit, matching the
// single-arena-per-unit discipline of the concurrency model).
type Arena struct {
	pool []Value
	nilV *Value
}

// New creates an empty Arena with its canonical Nil value interned.
func New() *Arena {
	a := &Arena{}
	a.pool = make([]Value, 0, 256)
	a.nilV = a.alloc(Value{kind: KindNil})
	return a
}

func (a *Arena) alloc(v Value) *Value {
	a.pool = append(a.pool, v)
	return &a.pool[len(a.pool)-1]
}

// Nil returns the arena's single canonical Nil instance. Equality of
// nil is pointer equality, so every caller of Nil() on the same Arena
// observes the same address.
func (a *Arena) Nil() *Value { return a.nilV }

func (a *Arena) Bool(b bool) *Value {
	return a.alloc(Value{kind: KindBool, b: b})
}

func (a *Arena) Int(i int64) *Value {
	return a.alloc(Value{kind: KindInt, i: i})
}

func (a *Arena) Float(f float64) *Value {
	return a.alloc(Value{kind: KindFloat, f: f})
}

// Symbol copies name into the arena and returns a Symbol value. Symbol
// payloads are immutable after construction.
func (a *Arena) Symbol(name string) *Value {
	return a.alloc(Value{kind: KindSymbol, s: string(append([]byte(nil), name...))})
}

// String copies the provided bytes into the arena and returns a String
// value. String payloads are immutable after construction.
func (a *Arena) String(s string) *Value {
	return a.alloc(Value{kind: KindString, s: string(append([]byte(nil), s...))})
}

// Cons allocates a new Pair with the given car/cdr.
func (a *Arena) Cons(car, cdr *Value) *Value {
	return a.alloc(Value{kind: KindPair, car: car, cdr: cdr})
}

// List builds a proper list out of the given values, terminated in Nil.
func (a *Arena) List(vs ...*Value) *Value {
	out := a.Nil()
	for i := len(vs) - 1; i >= 0; i-- {
		out = a.Cons(vs[i], out)
	}
	return out
}

// Primitive wraps a Go function as a callable core value.
func (a *Arena) Primitive(name string, fn PrimitiveFunc) *Value {
	return a.alloc(Value{kind: KindPrimitive, primName: name, primFn: fn})
}

// Closure allocates a function value capturing the environment at the
// point of creation.
func (a *Arena) Closure(params []string, body []*Value, env Env) *Value {
	return a.alloc(Value{kind: KindClosure, params: params, body: body, env: env})
}

// Ref allocates a transparent indirection cell pointing at target.
func (a *Arena) Ref(target *Value) *Value {
	return a.alloc(Value{kind: KindRef, ref: target})
}

// IsNil reports whether v is the arena's canonical Nil instance.
func (a *Arena) IsNil(v *Value) bool { return v == a.nilV }
