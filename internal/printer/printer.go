// Package printer renders a NIF token buffer back to its textual
// notation — the inverse of internal/nif.Decode. It exists for
// debugging the loader's index and for round-trip tests, and shares
// the emitter's emission discipline: a small byte/string/newline
// primitive set, with a fatal internal error signalled by panic and
// recovered at the single toplevel entry point.
package printer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nifc-lang/nifc/internal/nif"
)

// Printer holds output state. Not safe for concurrent use; one
// Printer renders one buffer.
type Printer struct {
	out     writer
	wrapped bool
}

type writer interface {
	WriteString(string) (int, error)
	WriteByte(byte) error
}

func (p *Printer) reset(w io.Writer) {
	p.out = bufio.NewWriter(w)
	p.wrapped = true
}

// Buffer writes buf's full token stream as parenthesized NIF text. The
// EofToken that Decode appends is not rendered, since decoding the text
// adds it back.
func (p *Printer) Buffer(w io.Writer, buf *nif.Buffer) (err error) {
	defer p.finishToplevel(&err)
	p.reset(w)

	cur := buf.Cursor()
	for !cur.Done() && cur.Peek().Kind != nif.EofToken {
		cur = p.form(cur)
	}
	return
}

type printError struct{ err error }

func (p *Printer) finishToplevel(err *error) {
	r := recover()
	if r == nil {
		if p.wrapped {
			*err = p.out.(*bufio.Writer).Flush()
		}
		return
	}
	pe, ok := r.(printError)
	if !ok {
		panic(r)
	}
	*err = pe.err
}

func (p *Printer) byte(b byte) {
	if err := p.out.WriteByte(b); err != nil {
		panic(printError{err})
	}
}

func (p *Printer) string(s string) {
	if _, err := p.out.WriteString(s); err != nil {
		panic(printError{err})
	}
}

// form renders one token, or one fully parenthesized form, and
// returns the cursor advanced past it.
func (p *Printer) form(cur nif.Cursor) nif.Cursor {
	tok := cur.Peek()

	if tok.Kind == nif.ParLe {
		p.byte('(')
		p.string(string(tok.Tag))
		_, cur = cur.Next()
		for cur.Peek().Kind != nif.ParRi {
			p.byte(' ')
			cur = p.form(cur)
		}
		p.byte(')')
		_, cur = cur.Next()
		return cur
	}

	p.string(tokenText(tok))
	_, cur = cur.Next()
	return cur
}

func tokenText(tok nif.Token) string {
	switch tok.Kind {
	case nif.Ident:
		return tok.SVal
	case nif.Symbol:
		return "$" + tok.SVal
	case nif.SymbolDef:
		return tok.SVal + ":"
	case nif.IntLit:
		return strconv.FormatInt(tok.IVal, 10)
	case nif.UIntLit:
		return strconv.FormatUint(uint64(tok.IVal), 10) + "u"
	case nif.FloatLit:
		return strconv.FormatFloat(tok.FVal, 'g', -1, 64)
	case nif.StringLit:
		return quoteString(tok.SVal)
	case nif.CharLit:
		return "'" + tok.SVal + "'"
	case nif.DotToken:
		return "."
	default:
		return fmt.Sprintf("<%s:%s>", tok.Kind, tok.SVal)
	}
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
