// Package emitter implements the grammar-directed AMD64 assembly
// emitter: a set of small mutually recursive recognisers over a
// NIF token buffer, each consuming a matched ParLe/ParRi span and
// producing one line of Intel-syntax textual output per instruction,
// data item, or section.
//
// The emission discipline matches internal/printer: a small set of
// byte/string/newline primitives, fatal grammar violations signalled by
// panic and recovered at the single toplevel entry point, one
// instruction, data item, or section directive per output line.
package emitter

import (
	"bufio"
	"io"

	"github.com/nifc-lang/nifc/internal/diag"
	"github.com/nifc-lang/nifc/internal/nif"
)

// Emitter holds the output stream and the peephole optimiser's
// threaded state.
type Emitter struct {
	out        writer
	wrapped    bool
	lineLength int

	peep peepholeState
}

type writer interface {
	WriteString(string) (int, error)
	WriteByte(byte) error
}

func (e *Emitter) reset(w io.Writer) {
	e.out = bufio.NewWriter(w)
	e.wrapped = true
	e.peep = peepholeState{}
}

// GenModule is the emitter's entry point: it requires the outer tag
// "stmts", emits the Intel-syntax prologue, then reads zero or more
// sections until the matching close paren.
func GenModule(w io.Writer, buf *nif.Buffer) (err error) {
	var e Emitter
	defer e.finishTop(&err)
	e.reset(w)

	cur := buf.Cursor()
	tok := cur.Peek()
	if tok.Kind != nif.ParLe || tok.Tag != "stmts" {
		fail(tok.Pos, "emitter: expected outer tag 'stmts', got %v", tok.Kind)
	}
	_, cur = cur.Next()

	e.string(".intel_syntax noprefix")
	e.newline()

	for cur.Peek().Kind != nif.ParRi {
		if cur.Peek().Kind == nif.EofToken {
			fail(cur.Pos(), "emitter: unexpected EOF, expected ')' closing stmts")
		}
		cur = e.section(cur)
	}
	_, _ = cur.Next() // consume ParRi closing stmts
	return
}

func (e *Emitter) finishTop(err *error) {
	r := recover()
	if r == nil {
		if e.wrapped {
			*err = e.out.(*bufio.Writer).Flush()
		}
		return
	}
	ee, ok := r.(emitError)
	if !ok {
		panic(r)
	}
	*err = diag.At(ee.pos, ee.err)
}

func (e *Emitter) byte(b byte) {
	e.lineLength++
	if err := e.out.WriteByte(b); err != nil {
		panic(emitError{err: err})
	}
}

func (e *Emitter) newline() {
	e.byte('\n')
	e.lineLength = 0
}

func (e *Emitter) string(s string) {
	e.lineLength += len(s)
	if _, err := e.out.WriteString(s); err != nil {
		panic(emitError{err: err})
	}
}

// expectParLe consumes a ParLe with the given tag or fails, returning
// the cursor advanced past it.
func expectParLe(cur nif.Cursor, tag nif.Tag) nif.Cursor {
	tok := cur.Peek()
	if tok.Kind != nif.ParLe || tok.Tag != tag {
		fail(tok.Pos, "emitter: expected '(%s ...)', got %v %q", tag, tok.Kind, tok.Tag)
	}
	_, cur = cur.Next()
	return cur
}

func expectParRi(cur nif.Cursor) nif.Cursor {
	tok := cur.Peek()
	if tok.Kind != nif.ParRi {
		fail(tok.Pos, "emitter: expected closing ')', got %v", tok.Kind)
	}
	_, cur = cur.Next()
	return cur
}

func expectSymbolDef(cur nif.Cursor) (string, nif.Cursor) {
	tok := cur.Peek()
	if tok.Kind != nif.SymbolDef {
		fail(tok.Pos, "emitter: expected a symbol definition, got %v", tok.Kind)
	}
	_, cur = cur.Next()
	return tok.SVal, cur
}
