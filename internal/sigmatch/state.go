package sigmatch

// ConvKind identifies which synthetic conversion wrapper, if any, was
// inserted around a coerced argument.
type ConvKind int

const (
	ConvNone ConvKind = iota
	// ConvHconv is a hidden integral/float conversion (widening).
	ConvHconv
	// ConvOconv is an object upcast conversion.
	ConvOconv
)

// Coercion records a single argument's outcome: which item it came
// from and what conversion, if any, was applied.
type Coercion struct {
	Item  *Item
	Conv  ConvKind
	Depth int // ConvOconv: inheritance depth walked
}

// State holds the per-candidate working data consumed by the
// disambiguator.
type State struct {
	Candidate *Candidate

	typeVars map[string]*Type // type-variable symbol -> current inference

	Coerced []Coercion // output buffer of coerced argument expressions

	Err *MatchError // first-error-wins; once set, matching stops

	InheritanceCosts int
	IntCosts         int

	paramCursor int // parameter cursor position, for error localisation

	// FirstVarargPos is the 1-based argument position where a varargs
	// formal began consuming actuals; 0 if the candidate has no
	// varargs formal.
	FirstVarargPos int

	openCoercions int // count of open coercion wrappers awaiting closure

	ReturnType *Type // valid only once matching succeeds
}

func newState(c *Candidate) *State {
	return &State{
		Candidate: c,
		typeVars:  make(map[string]*Type),
	}
}

// Ok reports whether the match succeeded.
func (s *State) Ok() bool { return s.Err == nil }

// fail records the first error; later calls are no-ops. Only the
// first failure is ever reported.
func (s *State) fail(e *MatchError) {
	if s.Err == nil {
		s.Err = e
	}
}

// inferredCount returns the number of type variables this state has
// bound, whether by inference or from explicit type arguments (used in
// the cost vector's third component).
func (s *State) inferredCount() int { return len(s.typeVars) }
