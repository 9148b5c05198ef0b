package l0_test

import (
	"testing"

	"github.com/nifc-lang/nifc/internal/l0"
	"github.com/nifc-lang/nifc/internal/value"
)

func TestParseAllReturnsProperListOfForms(t *testing.T) {
	a := value.New()
	forms, status := l0.ParseAll(a, "t.l0", []byte("(+ 1 2) \"hi\" #t"))
	if status != nil {
		t.Fatalf("parse error: %s", status.Error())
	}
	if !forms.IsList() {
		t.Fatal("ParseAll must return a proper list")
	}
	items := forms.ListSlice()
	if len(items) != 3 {
		t.Fatalf("got %d forms, want 3", len(items))
	}
	if value.Repr(items[0]) != "(+ 1 2)" {
		t.Errorf("form 0 = %s", value.Repr(items[0]))
	}
	if !items[1].IsString() || items[1].Str() != "hi" {
		t.Errorf("form 1 = %s", value.Repr(items[1]))
	}
	if !items[2].IsBool() || !items[2].Bool() {
		t.Errorf("form 2 = %s", value.Repr(items[2]))
	}
}

func TestParseAllUnterminatedListIsUnexpectedEOF(t *testing.T) {
	a := value.New()
	_, status := l0.ParseAll(a, "t.l0", []byte("(+ 1 2"))
	if status == nil {
		t.Fatal("expected a parse error")
	}
	if status.Kind != l0.StatusUnexpectedEOF {
		t.Errorf("kind = %v, want StatusUnexpectedEOF", status.Kind)
	}
}

func TestParseAllUnexpectedCloseParenIsInvalidSyntax(t *testing.T) {
	a := value.New()
	_, status := l0.ParseAll(a, "t.l0", []byte(")"))
	if status == nil {
		t.Fatal("expected a parse error")
	}
	if status.Kind != l0.StatusInvalidSyntax {
		t.Errorf("kind = %v, want StatusInvalidSyntax", status.Kind)
	}
}

func TestParseAllQuoteShorthand(t *testing.T) {
	a := value.New()
	forms, status := l0.ParseAll(a, "t.l0", []byte("'(a b)"))
	if status != nil {
		t.Fatalf("parse error: %s", status.Error())
	}
	if value.Repr(forms.Car()) != "(quote (a b))" {
		t.Errorf("got %s", value.Repr(forms.Car()))
	}
}

func TestParseAllNegativeAndFloatLiterals(t *testing.T) {
	a := value.New()
	forms, status := l0.ParseAll(a, "t.l0", []byte("-3 2.5"))
	if status != nil {
		t.Fatalf("parse error: %s", status.Error())
	}
	items := forms.ListSlice()
	if !items[0].IsInt() || items[0].Int() != -3 {
		t.Errorf("form 0 = %s", value.Repr(items[0]))
	}
	if !items[1].IsFloat() || items[1].Float() != 2.5 {
		t.Errorf("form 1 = %s", value.Repr(items[1]))
	}
}
