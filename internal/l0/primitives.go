package l0

import (
	"fmt"

	"github.com/nifc-lang/nifc/internal/value"
)

// InstallPrimitives binds the small bootstrap procedure set into env.
// This is not part of the special-form grammar; it is the minimal
// runtime library needed to make eval/apply/macroexpand usable at all
// (a transformer body like (list (quote +) x x) needs `list` to be
// callable).
func InstallPrimitives(a *value.Arena, env *Env) {
	def := func(name string, fn value.PrimitiveFunc) {
		env.Define(name, a.Primitive(name, fn))
	}

	def("+", arith(func(x, y int64) int64 { return x + y }))
	def("-", arith(func(x, y int64) int64 { return x - y }))
	def("*", arith(func(x, y int64) int64 { return x * y }))

	def("cons", func(a *value.Arena, _ value.Env, args []*value.Value) (*value.Value, error) {
		if len(args) != 2 {
			return nil, errArityMismatch("cons wants 2 arguments")
		}
		return a.Cons(args[0], args[1]), nil
	})
	def("car", func(a *value.Arena, _ value.Env, args []*value.Value) (*value.Value, error) {
		if len(args) != 1 || !args[0].IsPair() {
			return nil, errTypeError("car wants a pair")
		}
		return args[0].Car(), nil
	})
	def("cdr", func(a *value.Arena, _ value.Env, args []*value.Value) (*value.Value, error) {
		if len(args) != 1 || !args[0].IsPair() {
			return nil, errTypeError("cdr wants a pair")
		}
		return args[0].Cdr(), nil
	})
	def("list", func(a *value.Arena, _ value.Env, args []*value.Value) (*value.Value, error) {
		return a.List(args...), nil
	})
	def("eq?", func(a *value.Arena, _ value.Env, args []*value.Value) (*value.Value, error) {
		if len(args) != 2 {
			return nil, errArityMismatch("eq? wants 2 arguments")
		}
		return a.Bool(sameValue(args[0], args[1])), nil
	})
	def("not", func(a *value.Arena, _ value.Env, args []*value.Value) (*value.Value, error) {
		if len(args) != 1 {
			return nil, errArityMismatch("not wants 1 argument")
		}
		return a.Bool(!args[0].IsTruthy()), nil
	})
}

func arith(op func(int64, int64) int64) value.PrimitiveFunc {
	return func(a *value.Arena, _ value.Env, args []*value.Value) (*value.Value, error) {
		if len(args) == 0 {
			return nil, errArityMismatch("arithmetic primitive needs at least 1 argument")
		}
		if !args[0].IsInt() {
			return nil, errTypeError(fmt.Sprintf("expected int, got %v", args[0].Kind()))
		}
		acc := args[0].Int()
		for _, v := range args[1:] {
			if !v.IsInt() {
				return nil, errTypeError(fmt.Sprintf("expected int, got %v", v.Kind()))
			}
			acc = op(acc, v.Int())
		}
		return a.Int(acc), nil
	}
}

// sameValue reports pointer identity for pairs/closures/etc and
// payload equality for the self-evaluating scalar kinds. Nil equality
// is pointer equality per the core data model; since every arena
// shares exactly one Nil instance, this falls out of the pointer
// comparison for pairs/atoms uniformly.
func sameValue(a, b *value.Value) bool {
	if a == b {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.KindBool:
		return a.Bool() == b.Bool()
	case value.KindInt:
		return a.Int() == b.Int()
	case value.KindFloat:
		return a.Float() == b.Float()
	case value.KindSymbol:
		return a.Symbol() == b.Symbol()
	case value.KindString:
		return a.Str() == b.Str()
	default:
		return false
	}
}
