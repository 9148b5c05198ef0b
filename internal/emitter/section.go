package emitter

import (
	"strings"

	"github.com/nifc-lang/nifc/internal/nif"
)

// section reads and emits one section form: directives (global SYM),
// extern declarations (extern SYMDEF), code blocks (text SYMDEF
// Instruction*), data (data DataDecl* -> .bss), and rodata (rodata
// DataDecl* -> .rodata).
func (e *Emitter) section(cur nif.Cursor) nif.Cursor {
	tok := cur.Peek()
	if tok.Kind != nif.ParLe {
		fail(tok.Pos, "emitter: expected a section, got %v", tok.Kind)
	}

	switch tok.Tag {
	case "global":
		cur = expectParLe(cur, "global")
		name, c2 := operand(cur)
		cur = expectParRi(c2)
		e.emitLine(".global " + name)
		return cur

	case "extern":
		cur = expectParLe(cur, "extern")
		name, c2 := expectSymbolDef(cur)
		cur = expectParRi(c2)
		e.emitLine(".extern " + name)
		return cur

	case "text":
		cur = expectParLe(cur, "text")
		name, c2 := expectSymbolDef(cur)
		cur = c2
		e.emitLine(".text")
		e.peep.reset()
		e.string(name)
		e.byte(':')
		e.newline()
		for cur.Peek().Kind != nif.ParRi {
			if cur.Peek().Kind == nif.EofToken {
				fail(cur.Pos(), "emitter: unexpected EOF inside text block %q", name)
			}
			cur = e.instruction(cur)
		}
		e.flushPending()
		cur = expectParRi(cur)
		return cur

	case "data":
		cur = expectParLe(cur, "data")
		e.emitLine(".bss")
		for cur.Peek().Kind != nif.ParRi {
			cur = e.dataDecl(cur)
		}
		cur = expectParRi(cur)
		return cur

	case "rodata":
		cur = expectParLe(cur, "rodata")
		e.emitLine(".rodata")
		for cur.Peek().Kind != nif.ParRi {
			cur = e.dataDecl(cur)
		}
		cur = expectParRi(cur)
		return cur

	default:
		fail(tok.Pos, "emitter: unknown section tag %q", tok.Tag)
		return cur
	}
}

var dataItemDirective = map[string]string{
	"string": ".string",
	"byte":   ".byte",
	"word":   ".word",
	"long":   ".long",
	"quad":   ".quad",
}

// dataDecl reads and emits one data declaration: a bound symbol
// followed by one or more typed data items, each keyed by a literal or
// a `(times N value)` repeat.
func (e *Emitter) dataDecl(cur nif.Cursor) nif.Cursor {
	cur = expectParLe(cur, "datadecl")
	name, cur := expectSymbolDef(cur)
	e.string(name)
	e.byte(':')
	e.newline()

	for cur.Peek().Kind != nif.ParRi {
		cur = e.dataItem(cur)
	}
	cur = expectParRi(cur)
	return cur
}

func (e *Emitter) dataItem(cur nif.Cursor) nif.Cursor {
	tok := cur.Peek()
	directive, ok := dataItemDirective[string(tok.Tag)]
	if tok.Kind != nif.ParLe || !ok {
		fail(tok.Pos, "emitter: expected a data item, got %v %q", tok.Kind, tok.Tag)
	}
	tag := tok.Tag
	_, cur = cur.Next()

	if cur.Peek().Kind == nif.ParLe && cur.Peek().Tag == "times" {
		_, cur = cur.Next()
		count, c2 := operand(cur)
		cur = c2
		value, c3 := operand(cur)
		cur = c3
		cur = expectParRi(cur) // closes times
		cur = expectParRi(cur) // closes the data item

		n := parseRepeatCount(count)
		values := make([]string, n)
		for i := range values {
			values[i] = value
		}
		e.emitLine(directive + " " + strings.Join(values, ", "))
		return cur
	}

	var key string
	if tag == "string" {
		tok := cur.Peek()
		if tok.Kind != nif.StringLit {
			fail(tok.Pos, "emitter: .string item requires a string literal")
		}
		key = quoteString(tok.SVal)
		_, cur = cur.Next()
	} else {
		key, cur = operand(cur)
	}
	cur = expectParRi(cur)
	e.emitLine(directive + " " + key)
	return cur
}

func parseRepeatCount(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 1
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 1
	}
	return n
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
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
