// Package nif implements the NIF token buffer: the flat, immutable,
// parenthesised tagged-token representation that is the wire format
// between the L0 evaluator/macro expander, the signature matcher, and
// the assembly emitter.
package nif

import "github.com/nifc-lang/nifc/internal/diag"

// Kind identifies the tag of a single token in the buffer.
type Kind uint8

//go:generate go run golang.org/x/tools/cmd/stringer@latest -type Kind

const (
	ParLe Kind = iota // opens a parenthesised form, carries a Tag
	ParRi             // closes the innermost open ParLe
	IntLit
	UIntLit
	FloatLit
	StringLit
	CharLit
	Ident
	Symbol
	SymbolDef
	DotToken
	UnknownToken
	EofToken
)

// Tag identifies the grammar production a ParLe/ParRi pair encloses
// (e.g. a statement list, a call, an instruction). Tags are plain
// interned strings; the emitter and matcher dispatch on them.
type Tag string

// Token is one entry of a NIF stream.
type Token struct {
	Kind Kind
	Tag  Tag // valid for ParLe
	Pos  diag.Position

	IVal int64   // IntLit / UIntLit
	FVal float64 // FloatLit
	SVal string  // StringLit / Ident / Symbol / SymbolDef / CharLit (rune as string)
}

// Buffer is a flat, immutable sequence of Tokens produced by one parse
// or lowering pass. It never mutates after construction; all access
// happens through a Cursor.
type Buffer struct {
	toks []Token
}

// NewBuffer wraps an already-built token slice. Builders append via
// Builder below; Buffer itself offers no mutation.
func NewBuffer(toks []Token) *Buffer {
	return &Buffer{toks: toks}
}

// Len returns the number of tokens in the buffer.
func (b *Buffer) Len() int { return len(b.toks) }

// At returns the token at absolute index i.
func (b *Buffer) At(i int) Token { return b.toks[i] }

// Cursor returns a cursor positioned at the start of the buffer.
func (b *Buffer) Cursor() Cursor { return Cursor{buf: b, pos: 0} }

// Builder accumulates tokens into a Buffer. It is the only way to
// produce token content; once Finish is called the result is immutable.
type Builder struct {
	toks []Token
}

func (bld *Builder) Add(t Token) { bld.toks = append(bld.toks, t) }

func (bld *Builder) ParLe(tag Tag, pos diag.Position) {
	bld.Add(Token{Kind: ParLe, Tag: tag, Pos: pos})
}

func (bld *Builder) ParRi(pos diag.Position) {
	bld.Add(Token{Kind: ParRi, Pos: pos})
}

func (bld *Builder) Finish() *Buffer {
	return NewBuffer(bld.toks)
}

// Cursor is a forward-only index into a Buffer. Cursors are cheap to
// clone for look-ahead; cloning never mutates the original.
type Cursor struct {
	buf *Buffer
	pos int
}

// Done reports whether the cursor has consumed the whole buffer.
func (c Cursor) Done() bool { return c.pos >= c.buf.Len() }

// Peek returns the token at the cursor without advancing.
func (c Cursor) Peek() Token {
	if c.Done() {
		return Token{Kind: EofToken}
	}
	return c.buf.At(c.pos)
}

// PeekAt returns the token n positions ahead of the cursor (0 = Peek).
func (c Cursor) PeekAt(n int) Token {
	i := c.pos + n
	if i < 0 || i >= c.buf.Len() {
		return Token{Kind: EofToken}
	}
	return c.buf.At(i)
}

// Next returns the current token and a cursor advanced past it. The
// receiver is left untouched, matching the "clonable, forward-only"
// cursor contract: callers thread the returned cursor explicitly.
func (c Cursor) Next() (Token, Cursor) {
	t := c.Peek()
	if c.Done() {
		return t, c
	}
	return t, Cursor{buf: c.buf, pos: c.pos + 1}
}

// Clone returns an independent copy of the cursor for look-ahead.
// Since Cursor is a small value type, this is just a copy, but the
// method documents the intended usage pattern.
func (c Cursor) Clone() Cursor { return c }

// SkipToMatchingParRi advances past tokens until (and including) the
// ParRi that matches the ParLe the cursor currently points to,
// accounting for nesting. It panics if the cursor is not at a ParLe;
// callers are expected to check first.
func (c Cursor) SkipToMatchingParRi() Cursor {
	if c.Peek().Kind != ParLe {
		panic("nif: SkipToMatchingParRi called off a ParLe token")
	}
	depth := 0
	for {
		tok, next := c.Next()
		c = next
		switch tok.Kind {
		case ParLe:
			depth++
		case ParRi:
			depth--
			if depth == 0 {
				return c
			}
		case EofToken:
			return c
		}
	}
}

// Pos returns the source position of the token the cursor currently
// points to.
func (c Cursor) Pos() diag.Position {
	return c.Peek().Pos
}
