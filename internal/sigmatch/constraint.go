package sigmatch

// ConstraintKind identifies the shape of a type-variable constraint
// expression.
type ConstraintKind int

const (
	// CUnconstrained means the constraint was just a dot token: the
	// type variable accepts anything.
	CUnconstrained ConstraintKind = iota
	CNot
	CAnd
	COr
	// CConcept is a raw concept symbol. Concept solving is not
	// implemented: the constraint is always satisfied.
	CConcept
	// CTypeKind matches if the actual's head tag equals Operand's head tag.
	CTypeKind
	// COrdinal matches if the actual is an ordinal type.
	COrdinal
)

// Constraint is a boolean combinator over type predicates.
type Constraint struct {
	Kind    ConstraintKind
	Sub     []*Constraint // CNot (len 1), CAnd/COr (len >= 2)
	Operand *Type         // CTypeKind
	Concept string        // CConcept: the concept symbol's name, for diagnostics only
}

func Unconstrained() *Constraint { return &Constraint{Kind: CUnconstrained} }

func Not(c *Constraint) *Constraint { return &Constraint{Kind: CNot, Sub: []*Constraint{c}} }

func And(cs ...*Constraint) *Constraint { return &Constraint{Kind: CAnd, Sub: cs} }

func Or(cs ...*Constraint) *Constraint { return &Constraint{Kind: COr, Sub: cs} }

func Concept(name string) *Constraint { return &Constraint{Kind: CConcept, Concept: name} }

func TypeKindIs(t *Type) *Constraint { return &Constraint{Kind: CTypeKind, Operand: t} }

func Ordinal() *Constraint { return &Constraint{Kind: COrdinal} }

// Satisfies reports whether actual satisfies constraint c. Aliases in
// actual are transparently unfolded before the raw predicates
// (CTypeKind, COrdinal) examine it.
func (c *Constraint) Satisfies(actual *Type) bool {
	if c == nil {
		return true
	}
	switch c.Kind {
	case CUnconstrained:
		return true
	case CNot:
		return !c.Sub[0].Satisfies(actual)
	case CAnd:
		for _, s := range c.Sub {
			if !s.Satisfies(actual) {
				return false
			}
		}
		return true
	case COr:
		for _, s := range c.Sub {
			if s.Satisfies(actual) {
				return true
			}
		}
		return false
	case CConcept:
		// Not implemented: concept solving always succeeds.
		return true
	case CTypeKind:
		return sameHead(c.Operand, actual)
	case COrdinal:
		return actual.IsOrdinal()
	default:
		return false
	}
}
