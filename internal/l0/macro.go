package l0

import "github.com/nifc-lang/nifc/internal/value"

// macroTableKey is the distinguished global-environment binding name
// holding the macro table.
const macroTableKey = "*macro-table*"

// Expander implements macroexpand over parsed L0 trees. It
// shares an Evaluator with its caller so that transformer bodies -
// themselves ordinary L0 closures - can be applied the same way any
// other closure would be.
type Expander struct {
	arena *value.Arena
	eval  *Evaluator
}

func NewExpander(a *value.Arena, ev *Evaluator) *Expander {
	return &Expander{arena: a, eval: ev}
}

// Expand traverses expr top-down. At every Pair whose car names a
// macro bound in the macro table, it applies the transformer to the
// unevaluated argument list and recursively expands the result.
// Non-macro forms are rewritten by recursing into car and cdr.
// Quoted sub-forms are not descended into.
//
// The expander does not guard against non-termination: a transformer
// that returns a form beginning with its own macro symbol is a
// non-terminating program, and that is the program's problem, not the
// expander's.
func (ex *Expander) Expand(expr *value.Value, env *Env) (*value.Value, error) {
	if !expr.IsPair() {
		return expr, nil
	}

	head := expr.Car()
	if head.IsSymbol() {
		switch head.Symbol() {
		case sfQuote:
			return expr, nil
		case "define-macro":
			return ex.expandDefineMacro(expr, env)
		}
		if transformer, ok := ex.lookupMacro(env, head.Symbol()); ok {
			args := expr.Cdr().ListSlice()
			expanded, err := ex.eval.Apply(transformer, args, env)
			if err != nil {
				return nil, err
			}
			return ex.Expand(expanded, env)
		}
	}

	carExp, err := ex.Expand(head, env)
	if err != nil {
		return nil, err
	}
	cdrExp, err := ex.Expand(expr.Cdr(), env)
	if err != nil {
		return nil, err
	}
	return ex.arena.Cons(carExp, cdrExp), nil
}

// expandDefineMacro handles (define-macro (name params...) body...),
// installing a transformer closure into the macro table. It is
// resolved entirely during expansion, not evaluation: the form
// disappears from the expanded output.
func (ex *Expander) expandDefineMacro(expr *value.Value, env *Env) (*value.Value, error) {
	rest := expr.Cdr()
	if !rest.IsPair() || !rest.Car().IsPair() {
		return nil, errArityMismatch("define-macro requires (define-macro (name params...) body...)")
	}
	signature := rest.Car()
	if !signature.Car().IsSymbol() {
		return nil, errTypeError("define-macro name must be a symbol")
	}
	name := signature.Car().Symbol()
	params, err := symbolNames(signature.Cdr())
	if err != nil {
		return nil, err
	}
	body := rest.Cdr().ListSlice()
	transformer := ex.arena.Closure(params, body, env)
	ex.defineMacro(env, name, transformer)
	return ex.arena.Nil(), nil
}

func (ex *Expander) macroTableList(genv *Env) *value.Value {
	v, ok := genv.Lookup(macroTableKey)
	if !ok {
		return ex.arena.Nil()
	}
	return v
}

// lookupMacro searches the macro table (an association list of
// (name . transformer) pairs) for name.
func (ex *Expander) lookupMacro(env *Env, name string) (*value.Value, bool) {
	list := ex.macroTableList(env.Global())
	for !list.IsNil() {
		entry := list.Car()
		if entry.Car().Symbol() == name {
			return entry.Cdr(), true
		}
		list = list.Cdr()
	}
	return nil, false
}

func (ex *Expander) defineMacro(env *Env, name string, transformer *value.Value) {
	genv := env.Global()
	entry := ex.arena.Cons(ex.arena.Symbol(name), transformer)
	genv.Define(macroTableKey, ex.arena.Cons(entry, ex.macroTableList(genv)))
}
