package nif

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nifc-lang/nifc/internal/diag"
)

// Decode parses the textual NIF notation read from disk (a readable
// rather than packed encoding of the wire format) into a Buffer.
// Grammar: `(tag ...)` opens a ParLe carrying Tag immediately followed
// by `)`-matched content; bare words are Ident, words ending in `:`
// are SymbolDef, `$`-prefixed words are Symbol references;
// string/char/int/uint/float literals use their ordinary Go-ish
// surface syntax; a lone `.` is DotToken.
func Decode(file string, src []byte) (*Buffer, *diag.Error) {
	d := &decoder{file: file, src: []rune(string(src))}
	var bld Builder
	d.skipAtmosphere()
	for !d.eof() {
		if err := d.form(&bld); err != nil {
			return nil, err
		}
		d.skipAtmosphere()
	}
	bld.Add(Token{Kind: EofToken, Pos: d.pos()})
	return bld.Finish(), nil
}

type decoder struct {
	file string
	src  []rune
	i    int
	line int
	col  int
}

func (d *decoder) pos() diag.Position {
	return diag.Position{File: d.file, Line: d.line + 1, Col: d.col + 1}
}

func (d *decoder) eof() bool { return d.i >= len(d.src) }

func (d *decoder) peek() rune {
	if d.eof() {
		return 0
	}
	return d.src[d.i]
}

func (d *decoder) advance() rune {
	r := d.src[d.i]
	d.i++
	if r == '\n' {
		d.line++
		d.col = 0
	} else {
		d.col++
	}
	return r
}

func (d *decoder) skipAtmosphere() {
	for !d.eof() {
		switch {
		case d.peek() == ';':
			for !d.eof() && d.peek() != '\n' {
				d.advance()
			}
		case d.peek() == ' ' || d.peek() == '\t' || d.peek() == '\n' || d.peek() == '\r':
			d.advance()
		default:
			return
		}
	}
}

func (d *decoder) errf(format string, args ...any) *diag.Error {
	return diag.At(d.pos(), fmt.Errorf(format, args...))
}

func (d *decoder) form(bld *Builder) *diag.Error {
	switch {
	case d.peek() == '(':
		return d.parenForm(bld)
	case d.peek() == '"':
		return d.stringLit(bld)
	case d.peek() == '\'':
		return d.charLit(bld)
	case d.peek() == '.' && !isDigit(peekAt(d.src, d.i+1)):
		pos := d.pos()
		d.advance()
		bld.Add(Token{Kind: DotToken, Pos: pos})
		return nil
	default:
		return d.atom(bld)
	}
}

func (d *decoder) parenForm(bld *Builder) *diag.Error {
	pos := d.pos()
	d.advance() // consume '('
	d.skipAtmosphere()
	tag := d.readWord()
	if tag == "" {
		return d.errf("nif: expected tag after '(' ")
	}
	bld.Add(Token{Kind: ParLe, Tag: Tag(tag), Pos: pos})
	for {
		d.skipAtmosphere()
		if d.eof() {
			return d.errf("nif: unexpected EOF inside form %q", tag)
		}
		if d.peek() == ')' {
			closePos := d.pos()
			d.advance()
			bld.Add(Token{Kind: ParRi, Pos: closePos})
			return nil
		}
		if err := d.form(bld); err != nil {
			return err
		}
	}
}

func (d *decoder) readWord() string {
	start := d.i
	for !d.eof() && !isDelimiter(d.peek()) {
		d.advance()
	}
	return string(d.src[start:d.i])
}

func (d *decoder) stringLit(bld *Builder) *diag.Error {
	pos := d.pos()
	d.advance() // opening quote
	var sb strings.Builder
	for {
		if d.eof() {
			return d.errf("nif: unterminated string literal")
		}
		r := d.advance()
		if r == '"' {
			break
		}
		if r == '\\' {
			if d.eof() {
				return d.errf("nif: unterminated escape in string literal")
			}
			esc := d.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(r)
	}
	bld.Add(Token{Kind: StringLit, SVal: sb.String(), Pos: pos})
	return nil
}

func (d *decoder) charLit(bld *Builder) *diag.Error {
	pos := d.pos()
	d.advance() // opening quote
	if d.eof() {
		return d.errf("nif: unterminated char literal")
	}
	r := d.advance()
	if d.eof() || d.peek() != '\'' {
		return d.errf("nif: char literal must contain exactly one rune")
	}
	d.advance()
	bld.Add(Token{Kind: CharLit, SVal: string(r), Pos: pos})
	return nil
}

func (d *decoder) atom(bld *Builder) *diag.Error {
	pos := d.pos()
	word := d.readWord()
	if word == "" {
		return d.errf("nif: unexpected character %q", d.peek())
	}

	switch {
	case strings.HasSuffix(word, ":"):
		bld.Add(Token{Kind: SymbolDef, SVal: strings.TrimSuffix(word, ":"), Pos: pos})
		return nil
	case strings.HasPrefix(word, "$"):
		bld.Add(Token{Kind: Symbol, SVal: strings.TrimPrefix(word, "$"), Pos: pos})
		return nil
	}

	if iv, err := strconv.ParseInt(word, 0, 64); err == nil {
		bld.Add(Token{Kind: IntLit, IVal: iv, Pos: pos})
		return nil
	}
	if strings.HasSuffix(word, "u") {
		if uv, err := strconv.ParseInt(strings.TrimSuffix(word, "u"), 0, 64); err == nil {
			bld.Add(Token{Kind: UIntLit, IVal: uv, Pos: pos})
			return nil
		}
	}
	if fv, err := strconv.ParseFloat(word, 64); err == nil {
		bld.Add(Token{Kind: FloatLit, FVal: fv, Pos: pos})
		return nil
	}
	bld.Add(Token{Kind: Ident, SVal: word, Pos: pos})
	return nil
}

func isDelimiter(r rune) bool {
	switch r {
	case '(', ')', ' ', '\t', '\n', '\r', '"', '\'', ';':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func peekAt(src []rune, i int) rune {
	if i < 0 || i >= len(src) {
		return 0
	}
	return src[i]
}
