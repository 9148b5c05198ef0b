package l0

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/nifc-lang/nifc/internal/diag"
	"github.com/nifc-lang/nifc/internal/value"
)

// ParseStatusKind classifies the outcome of a ParseAll call.
type ParseStatusKind int

const (
	StatusOK ParseStatusKind = iota
	StatusUnexpectedEOF
	StatusInvalidSyntax
	StatusMemory
	StatusRuntime
)

// ParseStatus is the shared parse-status record the reader contract
// sets on failure.
type ParseStatus struct {
	Kind    ParseStatusKind
	Message string
	Pos     diag.Position
}

func (s ParseStatus) Error() string {
	if s.Kind == StatusOK {
		return "ok"
	}
	return s.Message
}

// Reader implements parse_string_all(arena, bytes) -> Value, returning
// a proper list of top-level forms.
type Reader struct {
	arena *value.Arena
	file  string
	src   []rune
	pos   int
	line  int
	col   int
}

func NewReader(a *value.Arena, file string, src []byte) *Reader {
	return &Reader{arena: a, file: file, src: []rune(string(src)), line: 1, col: 1}
}

// ParseAll reads every top-level form in the source and returns them
// as a proper list, or a ParseStatus describing the first failure.
func ParseAll(a *value.Arena, file string, src []byte) (*value.Value, *ParseStatus) {
	r := NewReader(a, file, src)
	var forms []*value.Value
	for {
		r.skipAtmosphere()
		if r.eof() {
			break
		}
		v, status := r.readForm()
		if status != nil {
			return nil, status
		}
		forms = append(forms, v)
	}
	return a.List(forms...), nil
}

func (r *Reader) eof() bool { return r.pos >= len(r.src) }

func (r *Reader) peek() rune {
	if r.eof() {
		return 0
	}
	return r.src[r.pos]
}

func (r *Reader) peekAt(n int) rune {
	if r.pos+n >= len(r.src) {
		return 0
	}
	return r.src[r.pos+n]
}

func (r *Reader) advance() rune {
	c := r.src[r.pos]
	r.pos++
	if c == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	return c
}

func (r *Reader) position() diag.Position {
	return diag.Position{File: r.file, Line: r.line, Col: r.col}
}

func (r *Reader) skipAtmosphere() {
	for !r.eof() {
		c := r.peek()
		switch {
		case unicode.IsSpace(c):
			r.advance()
		case c == ';':
			for !r.eof() && r.peek() != '\n' {
				r.advance()
			}
		default:
			return
		}
	}
}

func isDelimiter(c rune) bool {
	return c == 0 || unicode.IsSpace(c) || c == '(' || c == ')' || c == ';' || c == '"'
}

func (r *Reader) readForm() (*value.Value, *ParseStatus) {
	r.skipAtmosphere()
	if r.eof() {
		return nil, &ParseStatus{Kind: StatusUnexpectedEOF, Message: "unexpected end of input", Pos: r.position()}
	}

	pos := r.position()
	switch c := r.peek(); {
	case c == '(':
		return r.readList()
	case c == ')':
		return nil, &ParseStatus{Kind: StatusInvalidSyntax, Message: "unexpected )", Pos: pos}
	case c == '\'':
		r.advance()
		inner, status := r.readForm()
		if status != nil {
			return nil, status
		}
		return r.arena.List(r.arena.Symbol(sfQuote), inner), nil
	case c == '"':
		return r.readString()
	default:
		return r.readAtom()
	}
}

func (r *Reader) readList() (*value.Value, *ParseStatus) {
	r.advance() // consume '('
	var items []*value.Value
	for {
		r.skipAtmosphere()
		if r.eof() {
			return nil, &ParseStatus{Kind: StatusUnexpectedEOF, Message: "unterminated list", Pos: r.position()}
		}
		if r.peek() == ')' {
			r.advance()
			return r.arena.List(items...), nil
		}
		v, status := r.readForm()
		if status != nil {
			return nil, status
		}
		items = append(items, v)
	}
}

func (r *Reader) readString() (*value.Value, *ParseStatus) {
	startPos := r.position()
	r.advance() // opening quote
	var b strings.Builder
	for {
		if r.eof() {
			return nil, &ParseStatus{Kind: StatusUnexpectedEOF, Message: "unterminated string literal", Pos: startPos}
		}
		c := r.advance()
		if c == '"' {
			return r.arena.String(b.String()), nil
		}
		if c == '\\' {
			if r.eof() {
				return nil, &ParseStatus{Kind: StatusUnexpectedEOF, Message: "unterminated string escape", Pos: startPos}
			}
			esc := r.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"', '\\':
				b.WriteRune(esc)
			default:
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(c)
	}
}

func (r *Reader) readAtom() (*value.Value, *ParseStatus) {
	pos := r.position()
	start := r.pos
	for !r.eof() && !isDelimiter(r.peek()) {
		r.advance()
	}
	text := string(r.src[start:r.pos])
	if text == "" {
		return nil, &ParseStatus{Kind: StatusInvalidSyntax, Message: "empty token", Pos: pos}
	}

	switch text {
	case "#t":
		return r.arena.Bool(true), nil
	case "#f":
		return r.arena.Bool(false), nil
	}

	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return r.arena.Int(i), nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return r.arena.Float(f), nil
	}
	return r.arena.Symbol(text), nil
}
