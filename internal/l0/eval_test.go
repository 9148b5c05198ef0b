package l0_test

import (
	"testing"

	"github.com/nifc-lang/nifc/internal/l0"
	"github.com/nifc-lang/nifc/internal/value"
)

func newEvalEnv() (*value.Arena, *l0.Evaluator, *l0.Env) {
	a := value.New()
	env := l0.NewGlobalEnv()
	l0.InstallPrimitives(a, env)
	return a, l0.NewEvaluator(a), env
}

func mustParse(t *testing.T, a *value.Arena, src string) *value.Value {
	t.Helper()
	forms, status := l0.ParseAll(a, "test.l0", []byte(src))
	if status != nil {
		t.Fatalf("parse error: %s", status.Error())
	}
	return forms
}

func TestTruthyDisciplineNilIsTruthy(t *testing.T) {
	a, ev, env := newEvalEnv()
	forms := mustParse(t, a, "(if (quote ()) 1 2)")
	result, err := ev.Eval(forms.Car(), env)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsInt() || result.Int() != 1 {
		t.Fatalf("got %s, want 1", value.Repr(result))
	}
}

func TestTruthyDisciplineFalseIsNotTruthy(t *testing.T) {
	a, ev, env := newEvalEnv()
	forms := mustParse(t, a, "(if #f 1 2)")
	result, err := ev.Eval(forms.Car(), env)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsInt() || result.Int() != 2 {
		t.Fatalf("got %s, want 2", value.Repr(result))
	}
}

func TestClosureCapture(t *testing.T) {
	a, ev, env := newEvalEnv()
	forms := mustParse(t, a, `
		(define c (let ((x 10)) (lambda (y) (+ x y))))
		(c 5)
	`)
	var result *value.Value
	var err error
	for _, form := range forms.ListSlice() {
		result, err = ev.Eval(form, env)
		if err != nil {
			t.Fatal(err)
		}
	}
	if !result.IsInt() || result.Int() != 15 {
		t.Fatalf("got %s, want 15", value.Repr(result))
	}
}

func TestQuoteReturnsUnevaluated(t *testing.T) {
	a, ev, env := newEvalEnv()
	forms := mustParse(t, a, "(quote (a b c))")
	result, err := ev.Eval(forms.Car(), env)
	if err != nil {
		t.Fatal(err)
	}
	if value.Repr(result) != "(a b c)" {
		t.Fatalf("got %s", value.Repr(result))
	}
}

func TestUnboundSymbolError(t *testing.T) {
	a, ev, env := newEvalEnv()
	forms := mustParse(t, a, "undefined-name")
	_, err := ev.Eval(forms.Car(), env)
	if err == nil {
		t.Fatal("expected an error for an unbound symbol")
	}
}

func TestArityMismatchOnClosureCall(t *testing.T) {
	a, ev, env := newEvalEnv()
	forms := mustParse(t, a, `
		(define f (lambda (x y) (+ x y)))
		(f 1)
	`)
	list := forms.ListSlice()
	if _, err := ev.Eval(list[0], env); err != nil {
		t.Fatal(err)
	}
	if _, err := ev.Eval(list[1], env); err == nil {
		t.Fatal("expected arity mismatch error")
	}
}

func TestSetBangMutatesEnclosingFrame(t *testing.T) {
	a, ev, env := newEvalEnv()
	forms := mustParse(t, a, `
		(define x 1)
		(let ((y 2)) (set! x 99))
		x
	`)
	var result *value.Value
	var err error
	for _, form := range forms.ListSlice() {
		result, err = ev.Eval(form, env)
		if err != nil {
			t.Fatal(err)
		}
	}
	if !result.IsInt() || result.Int() != 99 {
		t.Fatalf("got %s, want 99", value.Repr(result))
	}
}
