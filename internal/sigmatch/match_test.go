package sigmatch

import "testing"

func sig(params []Param, ret *Type) *Signature {
	return &Signature{Params: params, ReturnType: ret}
}

func TestOverloadDisambiguationPrefersNarrowerIntWidth(t *testing.T) {
	i32 := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "x", Type: Int(32)}}, Int(32))}
	i64 := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "x", Type: Int(64)}}, Int(64))}

	actual := Int(8)
	sA := Match(i32, []Item{{Typ: actual}})
	sB := Match(i64, []Item{{Typ: actual}})

	if !sA.Ok() || !sB.Ok() {
		t.Fatalf("expected both candidates to match, got sA.Err=%v sB.Err=%v", sA.Err, sB.Err)
	}
	if got := CompareMatches(sA, sB); got != AWins {
		t.Fatalf("CompareMatches = %v, want AWins (int32 has lower intCosts than int64)", got)
	}
}

func TestOverloadDisambiguationPrefersExactBaseOverUpcast(t *testing.T) {
	base := Named("Base")
	derived := Named("Derived").WithParent(base)

	fBase := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "x", Type: base}}, Untyped())}
	fDerived := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "x", Type: derived}}, Untyped())}

	sBase := Match(fBase, []Item{{Typ: derived}})
	sDerived := Match(fDerived, []Item{{Typ: derived}})

	if !sBase.Ok() || !sDerived.Ok() {
		t.Fatalf("expected both to match, got sBase.Err=%v sDerived.Err=%v", sBase.Err, sDerived.Err)
	}
	if got := CompareMatches(sBase, sDerived); got != BWins {
		t.Fatalf("CompareMatches = %v, want BWins (f(Derived) has zero inheritanceCosts)", got)
	}
}

func TestMatchFailsOnMutableWideningConversion(t *testing.T) {
	c := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "x", Type: Mut(Int(64))}}, Untyped())}
	s := Match(c, []Item{{Typ: Int(32)}})
	if s.Ok() {
		t.Fatalf("expected mutable int widening to fail")
	}
	if s.Err.Kind != EImplicitConversionNotMutable {
		t.Fatalf("expected EImplicitConversionNotMutable, got %v", s.Err)
	}
}

func TestMatchInfersGenericTypeVariable(t *testing.T) {
	tv := TypeVar("T")
	c := &Candidate{
		Sym: "identity",
		Sig: &Signature{
			TypeParams: []TypeParamDecl{{Name: "T"}},
			Params:     []Param{{Name: "x", Type: tv}},
			ReturnType: tv,
		},
	}
	s := Match(c, []Item{{Typ: Int(32)}})
	if !s.Ok() {
		t.Fatalf("expected generic match to succeed, got %v", s.Err)
	}
	if s.ReturnType.Kind != KInt || s.ReturnType.Width != 32 {
		t.Fatalf("expected inferred return type int32, got %+v", s.ReturnType)
	}
}

func TestMatchConflictingRematchOfTypeVariable(t *testing.T) {
	tv := TypeVar("T")
	c := &Candidate{
		Sym: "pair",
		Sig: &Signature{
			TypeParams: []TypeParamDecl{{Name: "T"}},
			Params:     []Param{{Name: "a", Type: tv}, {Name: "b", Type: tv}},
			ReturnType: Untyped(),
		},
	}
	s := Match(c, []Item{{Typ: Int(32)}, {Typ: Int(64)}})
	if s.Ok() {
		t.Fatalf("expected conflicting rematch to fail")
	}
	if s.Err.Kind != EInvalidRematch {
		t.Fatalf("expected EInvalidRematch, got %v", s.Err)
	}
}

func TestMatchConstraintViolationRejectsTypeVariable(t *testing.T) {
	tv := TypeVar("T")
	c := &Candidate{
		Sym: "succ",
		Sig: &Signature{
			TypeParams: []TypeParamDecl{{Name: "T", Constraint: Ordinal()}},
			Params:     []Param{{Name: "x", Type: tv}},
			ReturnType: tv,
		},
	}
	s := Match(c, []Item{{Typ: Named("Widget")}})
	if s.Ok() {
		t.Fatalf("expected ordinal constraint violation to fail match")
	}
	if s.Err.Kind != EConstraintMismatch {
		t.Fatalf("expected EConstraintMismatch, got %v", s.Err)
	}
}

func TestMatchVarargsConsumesRemainingActuals(t *testing.T) {
	c := &Candidate{
		Sym: "printf",
		Sig: sig([]Param{
			{Name: "fmt", Type: Cstring()},
			{Name: "rest", Type: Varargs(Untyped())},
		}, Untyped()),
	}
	s := Match(c, []Item{{Typ: Cstring()}, {Typ: Int(32)}, {Typ: Bool()}, {Typ: Named("Widget")}})
	if !s.Ok() {
		t.Fatalf("expected varargs match to succeed, got %v", s.Err)
	}
}

func TestMatchTooFewArgumentsWithoutDefault(t *testing.T) {
	c := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "x", Type: Int(32)}}, Untyped())}
	s := Match(c, nil)
	if s.Ok() {
		t.Fatalf("expected too-few-arguments failure")
	}
	if s.Err.Kind != ETooFewArguments {
		t.Fatalf("expected ETooFewArguments, got %v", s.Err)
	}
}

func TestMatchDefaultParameterMayBeOmitted(t *testing.T) {
	c := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "x", Type: Int(32), Default: true}}, Int(32))}
	s := Match(c, nil)
	if !s.Ok() {
		t.Fatalf("expected default parameter to allow omission, got %v", s.Err)
	}
}

func TestMatchTooManyArguments(t *testing.T) {
	c := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "x", Type: Int(32)}}, Untyped())}
	s := Match(c, []Item{{Typ: Int(32)}, {Typ: Int(32)}})
	if s.Ok() {
		t.Fatalf("expected too-many-arguments failure")
	}
	if s.Err.Kind != ETooManyArguments {
		t.Fatalf("expected ETooManyArguments, got %v", s.Err)
	}
}

func TestMatchNilLiteralSatisfiesPtrAndCstring(t *testing.T) {
	cPtr := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "p", Type: Ptr(Int(32))}}, Untyped())}
	cStr := &Candidate{Sym: "g", Sig: sig([]Param{{Name: "p", Type: Cstring()}}, Untyped())}

	if s := Match(cPtr, []Item{{Typ: NilLit()}}); !s.Ok() {
		t.Fatalf("expected nil to satisfy Ptr formal, got %v", s.Err)
	}
	if s := Match(cStr, []Item{{Typ: NilLit()}}); !s.Ok() {
		t.Fatalf("expected nil to satisfy Cstring formal, got %v", s.Err)
	}
}

func TestCompareMatchesWithSelfIsTie(t *testing.T) {
	c := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "x", Type: Int(32)}}, Int(32))}
	s := Match(c, []Item{{Typ: Int(8)}})
	if !s.Ok() {
		t.Fatalf("expected match, got %v", s.Err)
	}
	if got := CompareMatches(s, s); got != NobodyWins {
		t.Fatalf("CompareMatches(s, s) = %v, want NobodyWins", got)
	}
}

func TestMatchExplicitGenericParameters(t *testing.T) {
	tv, uv := TypeVar("T"), TypeVar("U")
	c := &Candidate{
		Sym: "zip",
		Sig: &Signature{
			TypeParams: []TypeParamDecl{{Name: "T"}, {Name: "U"}},
			Params:     []Param{{Name: "a", Type: tv}, {Name: "b", Type: uv}},
			ReturnType: Tuple(tv, uv),
		},
	}

	s := Match(c, []Item{
		{Typ: Int(32), Kind: ItemTypeArg},
		{Typ: Bool(), Kind: ItemTypeArg},
		{Typ: Int(32)},
		{Typ: Bool()},
	})
	if !s.Ok() {
		t.Fatalf("expected fully explicit instantiation to match, got %v", s.Err)
	}
	if s.ReturnType.Kind != KTuple || s.ReturnType.Fields[0].Kind != KInt || s.ReturnType.Fields[1].Kind != KBool {
		t.Fatalf("expected substituted tuple return type, got %+v", s.ReturnType)
	}

	s = Match(c, []Item{{Typ: Int(32), Kind: ItemTypeArg}, {Typ: Int(32)}, {Typ: Bool()}})
	if s.Ok() || s.Err.Kind != EMissingExplicitGenericParameter {
		t.Fatalf("expected EMissingExplicitGenericParameter, got ok=%v err=%v", s.Ok(), s.Err)
	}

	s = Match(c, []Item{
		{Typ: Int(32), Kind: ItemTypeArg},
		{Typ: Bool(), Kind: ItemTypeArg},
		{Typ: Char(), Kind: ItemTypeArg},
		{Typ: Int(32)},
		{Typ: Bool()},
	})
	if s.Ok() || s.Err.Kind != EExtraGenericParameter {
		t.Fatalf("expected EExtraGenericParameter, got ok=%v err=%v", s.Ok(), s.Err)
	}
}

func TestMatchExplicitTypeArgsToNonGenericRoutine(t *testing.T) {
	c := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "x", Type: Int(32)}}, Untyped())}
	s := Match(c, []Item{{Typ: Int(32), Kind: ItemTypeArg}, {Typ: Int(32)}})
	if s.Ok() || s.Err.Kind != ERoutineIsNotGeneric {
		t.Fatalf("expected ERoutineIsNotGeneric, got ok=%v err=%v", s.Ok(), s.Err)
	}
}

func TestMatchVarargsFormalMustBeLast(t *testing.T) {
	c := &Candidate{
		Sym: "bad",
		Sig: sig([]Param{
			{Name: "rest", Type: Varargs(Untyped())},
			{Name: "x", Type: Int(32)},
		}, Untyped()),
	}
	s := Match(c, []Item{{Typ: Int(32)}})
	if s.Ok() || s.Err.Kind != EFormalTypeNotAtEnd {
		t.Fatalf("expected EFormalTypeNotAtEnd, got ok=%v err=%v", s.Ok(), s.Err)
	}
}

func TestMatchRecordsFirstVarargPosition(t *testing.T) {
	c := &Candidate{
		Sym: "printf",
		Sig: sig([]Param{
			{Name: "fmt", Type: Cstring()},
			{Name: "rest", Type: Varargs(Untyped())},
		}, Untyped()),
	}
	s := Match(c, []Item{{Typ: Cstring()}, {Typ: Int(32)}, {Typ: Bool()}})
	if !s.Ok() {
		t.Fatalf("expected match, got %v", s.Err)
	}
	if s.FirstVarargPos != 2 {
		t.Fatalf("FirstVarargPos = %d, want 2", s.FirstVarargPos)
	}
}

func TestMatchSubstitutesTypeVarInsideCompoundReturn(t *testing.T) {
	tv := TypeVar("T")
	c := &Candidate{
		Sym: "addr",
		Sig: &Signature{
			TypeParams: []TypeParamDecl{{Name: "T"}},
			Params:     []Param{{Name: "x", Type: tv}},
			ReturnType: Ptr(tv),
		},
	}
	s := Match(c, []Item{{Typ: Int(64)}})
	if !s.Ok() {
		t.Fatalf("expected match, got %v", s.Err)
	}
	if s.ReturnType.Kind != KPtr || s.ReturnType.Elem.Kind != KInt || s.ReturnType.Elem.Width != 64 {
		t.Fatalf("expected ptr(int64) return type, got %+v", s.ReturnType)
	}
}

func TestMatchProcCallingConventionMismatch(t *testing.T) {
	formalProc := Proc("cdecl", []*Type{Int(32)}, Untyped())
	actualProc := Proc("stdcall", []*Type{Int(32)}, Untyped())
	c := &Candidate{Sym: "hook", Sig: sig([]Param{{Name: "fn", Type: formalProc}}, Untyped())}
	s := Match(c, []Item{{Typ: actualProc}})
	if s.Ok() {
		t.Fatalf("expected calling-convention mismatch to fail")
	}
	if s.Err.Kind != ECallConvMismatch {
		t.Fatalf("expected ECallConvMismatch, got %v", s.Err)
	}
}
