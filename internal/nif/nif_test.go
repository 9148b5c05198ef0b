package nif_test

import (
	"testing"

	"github.com/nifc-lang/nifc/internal/diag"
	"github.com/nifc-lang/nifc/internal/nif"
)

func buildSimple() *nif.Buffer {
	var b nif.Builder
	pos := diag.Position{File: "t.nif", Line: 1, Col: 1}
	b.ParLe("call", pos)
	b.Add(nif.Token{Kind: nif.Ident, SVal: "add", Pos: pos})
	b.Add(nif.Token{Kind: nif.IntLit, IVal: 1, Pos: pos})
	b.Add(nif.Token{Kind: nif.IntLit, IVal: 2, Pos: pos})
	b.ParRi(pos)
	return b.Finish()
}

func TestCursorWalksForwardOnly(t *testing.T) {
	buf := buildSimple()
	c := buf.Cursor()
	var kinds []nif.Kind
	for !c.Done() {
		var tok nif.Token
		tok, c = c.Next()
		kinds = append(kinds, tok.Kind)
	}
	want := []nif.Kind{nif.ParLe, nif.Ident, nif.IntLit, nif.IntLit, nif.ParRi}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestSkipToMatchingParRi(t *testing.T) {
	buf := buildSimple()
	c := buf.Cursor()
	after := c.SkipToMatchingParRi()
	if !after.Done() {
		t.Fatalf("expected cursor to reach end of single top-level form")
	}
}

func TestCloneDoesNotAffectOriginal(t *testing.T) {
	buf := buildSimple()
	c := buf.Cursor()
	clone := c.Clone()
	_, clone = clone.Next()
	if c.Peek().Kind != nif.ParLe {
		t.Fatal("advancing the clone must not advance the original cursor")
	}
	if clone.Peek().Kind != nif.Ident {
		t.Fatal("clone did not advance")
	}
}

func TestKindString(t *testing.T) {
	if got := nif.ParLe.String(); got != "ParLe" {
		t.Errorf("ParLe.String() = %q", got)
	}
	if got := nif.EofToken.String(); got != "EofToken" {
		t.Errorf("EofToken.String() = %q", got)
	}
}
