// Package l0 implements the symbolic interpreter and macro expander
// for the small homoiconic meta-language L0: parse, macroexpand,
// evaluate, in preparation for handing lowered forms to the emitter.
package l0

import (
	"fmt"

	"github.com/nifc-lang/nifc/internal/value"
)

// Special form keywords. begin and set! sit alongside the five core
// forms as the minimal surface syntax for sequencing side effects and
// mutating an enclosing binding.
const (
	sfQuote   = "quote"
	sfIf      = "if"
	sfLambda  = "lambda"
	sfDefine  = "define"
	sfLet     = "let"
	sfBegin   = "begin"
	sfSetBang = "set!"
)

// Evaluator evaluates already macro-expanded L0 expressions against an
// environment. It holds no state of its own beyond the arena it
// allocates through; like the macro expander it carries no recursion
// guard, since self-application termination is the user
// program's responsibility, not the evaluator's.
type Evaluator struct {
	arena *value.Arena
}

func NewEvaluator(a *value.Arena) *Evaluator {
	return &Evaluator{arena: a}
}

// Eval evaluates one already macro-expanded expression against env.
func (ev *Evaluator) Eval(expr *value.Value, env *Env) (*value.Value, error) {
	switch expr.Kind() {
	case value.KindNil, value.KindBool, value.KindInt, value.KindFloat, value.KindString:
		// Self-evaluating atoms.
		return expr, nil

	case value.KindSymbol:
		v, ok := env.Lookup(expr.Symbol())
		if !ok {
			return nil, errUnboundSymbol(expr.Symbol())
		}
		return v, nil

	case value.KindPrimitive, value.KindClosure:
		// Already-evaluated callables can reappear in a tree after a
		// macro splices them in; they stand for themselves.
		return expr, nil

	case value.KindRef:
		// Reading a ref dereferences transparently.
		return expr.Deref(), nil

	case value.KindPair:
		return ev.evalPair(expr, env)

	default:
		panic(fmt.Sprintf("l0: unhandled value kind %v in Eval", expr.Kind()))
	}
}

func (ev *Evaluator) evalPair(expr *value.Value, env *Env) (*value.Value, error) {
	head := expr.Car()
	if head.IsSymbol() {
		switch head.Symbol() {
		case sfQuote:
			return ev.evalQuote(expr)
		case sfIf:
			return ev.evalIf(expr, env)
		case sfLambda:
			return ev.evalLambda(expr, env)
		case sfDefine:
			return ev.evalDefine(expr, env)
		case sfLet:
			return ev.evalLet(expr, env)
		case sfBegin:
			return ev.evalBody(expr.Cdr().ListSlice(), env)
		case sfSetBang:
			return ev.evalSetBang(expr, env)
		}
	}

	// Function application: evaluate callee, then arguments left to
	// right, then delegate to Apply.
	fn, err := ev.Eval(head, env)
	if err != nil {
		return nil, err
	}
	args, err := ev.evalList(expr.Cdr(), env)
	if err != nil {
		return nil, err
	}
	return ev.Apply(fn, args, env)
}

// evalList evaluates each element of a proper-list expression
// left-to-right.
func (ev *Evaluator) evalList(list *value.Value, env *Env) ([]*value.Value, error) {
	var out []*value.Value
	for !list.IsNil() {
		if !list.IsPair() {
			return nil, errTypeError("improper argument list")
		}
		v, err := ev.Eval(list.Car(), env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		list = list.Cdr()
	}
	return out, nil
}

func (ev *Evaluator) evalQuote(expr *value.Value) (*value.Value, error) {
	rest := expr.Cdr()
	if !rest.IsPair() {
		return nil, errArityMismatch("quote requires exactly one argument")
	}
	return rest.Car(), nil
}

func (ev *Evaluator) evalIf(expr *value.Value, env *Env) (*value.Value, error) {
	rest := expr.Cdr()
	if !rest.IsPair() {
		return nil, errArityMismatch("if requires a condition")
	}
	cond, err := ev.Eval(rest.Car(), env)
	if err != nil {
		return nil, err
	}
	rest = rest.Cdr()
	if !rest.IsPair() {
		return nil, errArityMismatch("if requires a then-branch")
	}
	if cond.IsTruthy() {
		return ev.Eval(rest.Car(), env)
	}
	rest = rest.Cdr()
	if !rest.IsPair() {
		// else defaults to Nil.
		return ev.arena.Nil(), nil
	}
	return ev.Eval(rest.Car(), env)
}

func (ev *Evaluator) evalLambda(expr *value.Value, env *Env) (*value.Value, error) {
	rest := expr.Cdr()
	if !rest.IsPair() {
		return nil, errArityMismatch("lambda requires a parameter list")
	}
	paramList := rest.Car()
	params, err := symbolNames(paramList)
	if err != nil {
		return nil, err
	}
	body := rest.Cdr().ListSlice()
	return ev.arena.Closure(params, body, env), nil
}

func (ev *Evaluator) evalDefine(expr *value.Value, env *Env) (*value.Value, error) {
	rest := expr.Cdr()
	if !rest.IsPair() || !rest.Car().IsSymbol() {
		return nil, errArityMismatch("define requires (define name value)")
	}
	name := rest.Car().Symbol()
	rest = rest.Cdr()
	var val *value.Value
	var err error
	if rest.IsPair() {
		val, err = ev.Eval(rest.Car(), env)
		if err != nil {
			return nil, err
		}
	} else {
		val = ev.arena.Nil()
	}
	env.Define(name, val)
	// Result is unspecified but conventionally the defined name.
	return ev.arena.Symbol(name), nil
}

func (ev *Evaluator) evalLet(expr *value.Value, env *Env) (*value.Value, error) {
	rest := expr.Cdr()
	if !rest.IsPair() {
		return nil, errArityMismatch("let requires a binding list")
	}
	bindings := rest.Car().ListSlice()
	inner := env.Extend()
	for _, b := range bindings {
		if !b.IsPair() || !b.Car().IsSymbol() {
			return nil, errTypeError("let binding must be (name value)")
		}
		name := b.Car().Symbol()
		var v *value.Value
		if b.Cdr().IsPair() {
			var err error
			// Each value is evaluated in the enclosing environment,
			// not the extended one being built.
			v, err = ev.Eval(b.Cdr().Car(), env)
			if err != nil {
				return nil, err
			}
		} else {
			v = ev.arena.Nil()
		}
		inner.Define(name, v)
	}
	return ev.evalBody(rest.Cdr().ListSlice(), inner)
}

func (ev *Evaluator) evalSetBang(expr *value.Value, env *Env) (*value.Value, error) {
	rest := expr.Cdr()
	if !rest.IsPair() || !rest.Car().IsSymbol() || !rest.Cdr().IsPair() {
		return nil, errArityMismatch("set! requires (set! name value)")
	}
	name := rest.Car().Symbol()
	val, err := ev.Eval(rest.Cdr().Car(), env)
	if err != nil {
		return nil, err
	}
	if !env.Set(name, val) {
		return nil, errUnboundSymbol(name)
	}
	return val, nil
}

// evalBody evaluates a sequence of body expressions, returning the
// last result (or Nil for an empty body).
func (ev *Evaluator) evalBody(body []*value.Value, env *Env) (*value.Value, error) {
	if len(body) == 0 {
		return ev.arena.Nil(), nil
	}
	var result *value.Value
	for _, e := range body {
		var err error
		result, err = ev.Eval(e, env)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Apply invokes a primitive or closure with already-evaluated
// arguments.
func (ev *Evaluator) Apply(fn *value.Value, args []*value.Value, env *Env) (*value.Value, error) {
	switch fn.Kind() {
	case value.KindPrimitive:
		v, err := fn.CallPrimitive(ev.arena, env, args)
		if err != nil {
			return nil, err
		}
		return v, nil

	case value.KindClosure:
		params := fn.ClosureParams()
		if len(params) != len(args) {
			return nil, errArityMismatch(fmt.Sprintf("closure wants %d argument(s), got %d", len(params), len(args)))
		}
		callEnv, ok := fn.ClosureEnv().(*Env)
		if !ok {
			panic("l0: closure env is not *l0.Env")
		}
		frame := callEnv.Extend()
		for i, p := range params {
			frame.Define(p, args[i])
		}
		return ev.evalBody(fn.ClosureBody(), frame)

	default:
		return nil, errNotApplicable(value.Repr(fn))
	}
}

// symbolNames converts a proper list of Symbol values into a []string,
// used for parameter lists.
func symbolNames(list *value.Value) ([]string, error) {
	var out []string
	for !list.IsNil() {
		if !list.IsPair() || !list.Car().IsSymbol() {
			return nil, errTypeError("expected a list of symbols")
		}
		out = append(out, list.Car().Symbol())
		list = list.Cdr()
	}
	return out, nil
}
