package sigmatch

// typeParamConstraint looks up the declared constraint for a type
// variable name, or nil if name is not one of the candidate's type
// parameters (an unconstrained inference variable introduced by the
// matcher itself, e.g. inside a generic Invoke).
func (c *Candidate) typeParamConstraint(name string) *Constraint {
	for _, tp := range c.Sig.TypeParams {
		if tp.Name == name {
			return tp.Constraint
		}
	}
	return nil
}

// Match attempts to match actuals (and any explicit generic type
// arguments, which must appear first in actuals tagged ItemTypeArg)
// against candidate's formal parameter list. It always
// returns a *State; callers check State.Ok() and inspect State.Err for
// the first failure.
func Match(c *Candidate, actuals []Item) *State {
	s := newState(c)

	explicit, args := splitExplicitTypeArgs(actuals)

	// Step 1: type-variable preparation. Explicit type arguments, when
	// given at all, must cover every declared type parameter.
	if len(explicit) > 0 {
		if !c.IsGeneric() {
			s.fail(errAt(ERoutineIsNotGeneric, 0))
			return s
		}
		if len(explicit) > len(c.Sig.TypeParams) {
			s.fail(errAt(EExtraGenericParameter, 0))
			return s
		}
		if len(explicit) < len(c.Sig.TypeParams) {
			s.fail(errAt(EMissingExplicitGenericParameter, 0))
			return s
		}
		for i, item := range explicit {
			name := c.Sig.TypeParams[i].Name
			if con := c.Sig.TypeParams[i].Constraint; con != nil && !con.Satisfies(item.Typ) {
				s.fail(&MatchError{Kind: EConstraintMismatch, TypeVar: name, Got: item.Typ})
				return s
			}
			s.typeVars[name] = item.Typ
		}
	}

	// Step 2: parameter loop, with varargs handling.
	ai := 0
	for pi, param := range c.Sig.Params {
		formal := param.Type

		if formal.Kind == KVarargs {
			if pi != len(c.Sig.Params)-1 {
				s.fail(errAt(EFormalTypeNotAtEnd, 0))
				return s
			}
			s.FirstVarargPos = ai + 1
			for ai < len(args) {
				s.paramCursor = ai + 1
				args[ai].N = ai + 1
				if err := s.singleArg(formal.Elem, &args[ai]); err != nil {
					s.fail(err)
					return s
				}
				ai++
			}
			continue
		}

		if ai >= len(args) {
			if param.Default {
				continue
			}
			s.fail(errAt(ETooFewArguments, pi+1))
			return s
		}

		s.paramCursor = ai + 1
		args[ai].N = ai + 1
		if err := s.singleArg(formal, &args[ai]); err != nil {
			s.fail(err)
			return s
		}
		ai++
	}

	if ai < len(args) {
		s.fail(errAt(ETooManyArguments, ai+1))
		return s
	}

	// Step 3: return-type capture, substituting any inferred type
	// variables appearing in the declared return type.
	s.ReturnType = s.substitute(c.Sig.ReturnType)

	// Step 4: type-variable completeness check.
	for _, tp := range c.Sig.TypeParams {
		if _, ok := s.typeVars[tp.Name]; !ok {
			s.fail(&MatchError{Kind: ECouldNotInferTypeVar, TypeVar: tp.Name})
			return s
		}
	}

	return s
}

func splitExplicitTypeArgs(actuals []Item) (explicit, args []Item) {
	i := 0
	for i < len(actuals) && actuals[i].Kind == ItemTypeArg {
		i++
	}
	return actuals[:i], actuals[i:]
}

// substitute replaces bound type variables within t with their
// inferred types, recursing through compound structure; unbound
// structure is left untouched (and shared, since matching never
// mutates a declared type).
func (s *State) substitute(t *Type) *Type {
	if t == nil {
		return nil
	}
	if t.Kind == KNamed && t.IsTypeVar {
		if bound, ok := s.typeVars[t.Name]; ok {
			return bound
		}
		return t
	}
	out := *t
	changed := false
	sub := func(x *Type) *Type {
		y := s.substitute(x)
		if y != x {
			changed = true
		}
		return y
	}
	out.Elem = sub(t.Elem)
	out.Ret = sub(t.Ret)
	out.Head = sub(t.Head)
	if len(t.Fields) > 0 {
		fields := make([]*Type, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = sub(f)
		}
		out.Fields = fields
	}
	if len(t.Params) > 0 {
		params := make([]*Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = sub(p)
		}
		out.Params = params
	}
	if !changed {
		return t
	}
	return &out
}

// singleArg matches one actual item against one formal type,
// dispatching by the formal's head kind.
func (s *State) singleArg(formal *Type, actual *Item) *MatchError {
	mutable := false
	return s.singleArgCtx(formal, actual, mutable)
}

func (s *State) singleArgCtx(formal *Type, actual *Item, mutable bool) *MatchError {
	switch formal.Kind {
	case KMut, KOut:
		return s.singleArgCtx(formal.Elem, actual, true)
	case KLent, KSink, KStatic:
		return s.singleArgCtx(formal.Elem, actual, mutable)
	}

	at := actual.Typ

	switch formal.Kind {
	case KNamed:
		if formal.IsTypeVar {
			if con := s.Candidate.typeParamConstraint(formal.Name); con != nil && !con.Satisfies(at) {
				return &MatchError{Kind: EConstraintMismatch, Pos: actual.N, TypeVar: formal.Name, Got: at}
			}
			if err := s.bindTypeVarChecked(formal.Name, at); err != nil {
				return err
			}
			return nil
		}
		return s.matchNamed(formal, at, actual, mutable)

	case KInt, KUInt, KFloat, KChar:
		return s.matchIntegral(formal, at, actual, mutable)

	case KBool:
		if unfoldAlias(at).Kind != KBool {
			return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
		}
		return nil

	case KInvoke:
		return s.matchInvoke(formal, at, actual)

	case KRange:
		uf := unfoldAlias(at)
		if uf.Kind != KRange {
			return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
		}
		return s.linearMatch(formal.Elem, uf.Elem, actual.N)

	case KArray:
		uf := unfoldAlias(at)
		if uf.Kind != KArray {
			return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
		}
		if formal.Len != -1 && uf.Len != -1 && formal.Len != uf.Len {
			return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
		}
		return s.linearMatch(formal.Elem, uf.Elem, actual.N)

	case KSet, KUncheckedArray, KOpenArray:
		uf := unfoldAlias(at)
		if uf.Kind != formal.Kind {
			return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
		}
		return s.linearMatch(formal.Elem, uf.Elem, actual.N)

	case KTuple:
		uf := unfoldAlias(at)
		if uf.Kind != KTuple || len(uf.Fields) != len(formal.Fields) {
			return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
		}
		for i := range formal.Fields {
			if err := s.linearMatch(formal.Fields[i], uf.Fields[i], actual.N); err != nil {
				return err
			}
		}
		return nil

	case KPtr, KRef:
		uf := unfoldAlias(at)
		if uf.Kind == KNamed && uf.Name == "nil" {
			return nil
		}
		if uf.Kind != formal.Kind {
			return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
		}
		return s.linearMatch(formal.Elem, uf.Elem, actual.N)

	case KProc:
		return s.matchProc(formal, at, actual)

	case KPointer:
		uf := unfoldAlias(at)
		if uf.Kind == KNamed && uf.Name == "nil" {
			return nil
		}
		if uf.Kind == KPtr {
			s.IntCosts++
			return nil
		}
		return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}

	case KCstring:
		uf := unfoldAlias(at)
		if uf.Kind == KNamed && uf.Name == "nil" {
			return nil
		}
		if uf.Kind == KNamed && uf.Name == "string-literal" {
			s.IntCosts++
			s.Coerced = append(s.Coerced, Coercion{Item: actual, Conv: ConvHconv})
			return nil
		}
		if uf.Kind != KCstring {
			return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
		}
		return nil

	case KTypedesc:
		uf := unfoldAlias(at)
		if uf.Kind != KTypedesc {
			return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
		}
		return s.linearMatch(formal.Elem, uf.Elem, actual.N)

	case KUntyped, KTyped:
		return nil

	case KVarargs:
		return s.singleArgCtx(formal.Elem, actual, mutable)

	default:
		return &MatchError{Kind: EUnhandledType, Pos: actual.N}
	}
}

func (s *State) bindTypeVarChecked(name string, t *Type) *MatchError {
	if prior, ok := s.typeVars[name]; ok {
		if !typeEqual(prior, t) {
			return &MatchError{Kind: EInvalidRematch, Pos: s.paramCursor, TypeVar: name, Expected: prior, Got: t}
		}
		return nil
	}
	s.typeVars[name] = t
	return nil
}

// matchNamed handles a nominal object-type formal: exact identity, or
// an upcast along the inheritance chain (OconvX, +1 inheritanceCosts
// per step walked); subtype coercion is unavailable for mutable
// parameters.
func (s *State) matchNamed(formal, at *Type, actual *Item, mutable bool) *MatchError {
	uf := unfoldAlias(at)
	if uf.Kind != KNamed {
		return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
	}
	depth := 0
	for cur := uf; cur != nil; cur = cur.Parent {
		if cur.Name == formal.Name {
			if depth > 0 {
				if mutable {
					return &MatchError{Kind: EUnavailableSubtypeRelation, Pos: actual.N, Expected: formal, Got: at}
				}
				s.InheritanceCosts += depth
				s.Coerced = append(s.Coerced, Coercion{Item: actual, Conv: ConvOconv, Depth: depth})
			}
			return nil
		}
		depth++
	}
	return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
}

// matchIntegral handles Int/UInt/Float/Char formals: equal width is an
// exact match; a formal wider than the actual widens it via HconvX,
// charging intCosts equal to the width gap in bits (int8->int32 costs
// 24, int8->int64 costs 56) so the narrowest
// applicable overload is preferred; a narrower formal never accepts a
// wider actual, and mutable parameters forbid widening altogether.
func (s *State) matchIntegral(formal, at *Type, actual *Item, mutable bool) *MatchError {
	uf := unfoldAlias(at)
	if uf.Kind != formal.Kind {
		return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
	}
	if uf.Width == formal.Width {
		return nil
	}
	if uf.Width > formal.Width {
		return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
	}
	if mutable {
		return &MatchError{Kind: EImplicitConversionNotMutable, Pos: actual.N, Expected: formal, Got: at}
	}
	s.IntCosts += formal.Width - uf.Width
	s.Coerced = append(s.Coerced, Coercion{Item: actual, Conv: ConvHconv})
	return nil
}

// matchInvoke handles a generic instantiation formal Head(Args...): the
// actual must be an instantiation of the same head, with arguments
// unified pairwise via linearMatch.
func (s *State) matchInvoke(formal, at *Type, actual *Item) *MatchError {
	uf := unfoldAlias(at)
	if uf.Kind != KInvoke || !sameHead(formal.Head, uf.Head) {
		return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
	}
	if len(formal.Params) != len(uf.Params) {
		return &MatchError{Kind: EFormalParamsMismatch, Pos: actual.N, Expected: formal, Got: at}
	}
	for i := range formal.Params {
		if err := s.linearMatch(formal.Params[i], uf.Params[i], actual.N); err != nil {
			return err
		}
	}
	return nil
}

// matchProc handles a procedural-type formal: header peeled, parameter
// lists and return type unified pairwise via linearMatch, calling
// convention compared exactly.
func (s *State) matchProc(formal, at *Type, actual *Item) *MatchError {
	uf := unfoldAlias(at)
	if uf.Kind != KProc {
		return &MatchError{Kind: EMismatch, Pos: actual.N, Expected: formal, Got: at}
	}
	if formal.Conv != uf.Conv {
		return &MatchError{Kind: ECallConvMismatch, Pos: actual.N, Expected: formal, Got: at}
	}
	if len(formal.Params) != len(uf.Params) {
		return &MatchError{Kind: EFormalParamsMismatch, Pos: actual.N, Expected: formal, Got: at}
	}
	for i := range formal.Params {
		if err := s.linearMatch(formal.Params[i], uf.Params[i], actual.N); err != nil {
			return err
		}
	}
	return s.linearMatch(formal.Ret, uf.Ret, actual.N)
}

// linearMatch is pure structural matching with type-variable binding:
// no implicit conversions are inserted. The first occurrence of a
// formal type variable binds it to the corresponding actual subtree
// (subject to its constraint); a later occurrence must structurally
// equal the binding exactly.
func (s *State) linearMatch(formal, actual *Type, pos int) *MatchError {
	if formal.Kind == KNamed && formal.IsTypeVar {
		if con := s.Candidate.typeParamConstraint(formal.Name); con != nil && !con.Satisfies(actual) {
			return &MatchError{Kind: EConstraintMismatch, Pos: pos, TypeVar: formal.Name, Got: actual}
		}
		return s.bindTypeVarChecked(formal.Name, actual)
	}

	f, a := unfoldAlias(formal), unfoldAlias(actual)
	if f.Kind != a.Kind {
		return &MatchError{Kind: EMismatch, Pos: pos, Expected: formal, Got: actual}
	}

	switch f.Kind {
	case KNamed:
		if f.Name != a.Name {
			return &MatchError{Kind: EMismatch, Pos: pos, Expected: formal, Got: actual}
		}
		return nil
	case KInt, KUInt, KFloat, KChar:
		if f.Width != a.Width {
			return &MatchError{Kind: EMismatch, Pos: pos, Expected: formal, Got: actual}
		}
		return nil
	case KBool, KPointer, KCstring, KUntyped, KTyped:
		return nil
	case KMut, KOut, KLent, KSink, KStatic, KPtr, KRef, KSet, KUncheckedArray, KOpenArray, KVarargs, KTypedesc, KRange:
		return s.linearMatch(f.Elem, a.Elem, pos)
	case KArray:
		if f.Len != -1 && a.Len != -1 && f.Len != a.Len {
			return &MatchError{Kind: EMismatch, Pos: pos, Expected: formal, Got: actual}
		}
		return s.linearMatch(f.Elem, a.Elem, pos)
	case KTuple:
		if len(f.Fields) != len(a.Fields) {
			return &MatchError{Kind: EMismatch, Pos: pos, Expected: formal, Got: actual}
		}
		for i := range f.Fields {
			if err := s.linearMatch(f.Fields[i], a.Fields[i], pos); err != nil {
				return err
			}
		}
		return nil
	case KProc:
		if f.Conv != a.Conv || len(f.Params) != len(a.Params) {
			return &MatchError{Kind: EFormalParamsMismatch, Pos: pos, Expected: formal, Got: actual}
		}
		for i := range f.Params {
			if err := s.linearMatch(f.Params[i], a.Params[i], pos); err != nil {
				return err
			}
		}
		return s.linearMatch(f.Ret, a.Ret, pos)
	case KInvoke:
		if !sameHead(f.Head, a.Head) || len(f.Params) != len(a.Params) {
			return &MatchError{Kind: EMismatch, Pos: pos, Expected: formal, Got: actual}
		}
		for i := range f.Params {
			if err := s.linearMatch(f.Params[i], a.Params[i], pos); err != nil {
				return err
			}
		}
		return nil
	default:
		return &MatchError{Kind: EUnhandledType, Pos: pos}
	}
}
