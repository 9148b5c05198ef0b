package value

import (
	"strconv"
	"strings"
)

// Repr renders v the way the L0 reader would need to re-read it, used
// by the REPL and by diagnostics. It does not attempt to be a faithful
// printer for cyclic structures; the core gives no cyclic-structure
// contract (set-car!/set-cdr! are explicitly outside it).
func Repr(v *Value) string {
	var b strings.Builder
	writeRepr(&b, v)
	return b.String()
}

func writeRepr(b *strings.Builder, v *Value) {
	switch v.Kind() {
	case KindNil:
		b.WriteString("()")
	case KindBool:
		if v.Bool() {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case KindInt:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case KindFloat:
		b.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case KindSymbol:
		b.WriteString(v.Symbol())
	case KindString:
		b.WriteByte('"')
		for _, c := range v.Str() {
			switch c {
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteString(`\\`)
			default:
				b.WriteRune(c)
			}
		}
		b.WriteByte('"')
	case KindPair:
		b.WriteByte('(')
		writeRepr(b, v.Car())
		rest := v.Cdr()
		for {
			switch rest.Kind() {
			case KindNil:
				b.WriteByte(')')
				return
			case KindPair:
				b.WriteByte(' ')
				writeRepr(b, rest.Car())
				rest = rest.Cdr()
			default:
				b.WriteString(" . ")
				writeRepr(b, rest)
				b.WriteByte(')')
				return
			}
		}
	case KindPrimitive:
		b.WriteString("#<primitive ")
		b.WriteString(v.PrimitiveName())
		b.WriteByte('>')
	case KindClosure:
		b.WriteString("#<closure>")
	case KindRef:
		b.WriteString("#<ref>")
	}
}
