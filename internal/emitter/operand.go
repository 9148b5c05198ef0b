package emitter

import (
	"fmt"

	"github.com/nifc-lang/nifc/internal/nif"
)

// operand recognises one operand per the Primary/memory-addressing
// grammar and returns its Intel-syntax text plus the cursor advanced
// past it.
//
// Primary ::= register | fp-register | symbol | (rel SYM) | (fs SYM) | integer literal.
// Memory addressing: (mem1 P), (mem2 P P), (mem3 P P scale), (mem4 P P scale disp).
// Type overrides: (bptr P) -> "BYTE PTR P", (wptr P) -> "WORD PTR P".
func operand(cur nif.Cursor) (string, nif.Cursor) {
	tok := cur.Peek()

	switch tok.Kind {
	case nif.Ident, nif.Symbol:
		_, cur = cur.Next()
		return tok.SVal, cur
	case nif.IntLit:
		_, cur = cur.Next()
		return fmt.Sprintf("%d", tok.IVal), cur
	case nif.UIntLit:
		_, cur = cur.Next()
		return fmt.Sprintf("%d", tok.IVal), cur
	case nif.ParLe:
		return parenOperand(cur)
	default:
		fail(tok.Pos, "emitter: expected an operand, got %v", tok.Kind)
		return "", cur
	}
}

func parenOperand(cur nif.Cursor) (string, nif.Cursor) {
	tag := cur.Peek().Tag

	switch tag {
	case "rel":
		cur = expectParLe(cur, "rel")
		sym, c2 := operand(cur)
		cur = c2
		cur = expectParRi(cur)
		return fmt.Sprintf("[rip+%s]", sym), cur

	case "fs":
		cur = expectParLe(cur, "fs")
		sym, c2 := operand(cur)
		cur = c2
		cur = expectParRi(cur)
		return fmt.Sprintf("fs:[%s@TPOFF]", sym), cur

	case "mem1":
		cur = expectParLe(cur, "mem1")
		p, c2 := operand(cur)
		cur = c2
		cur = expectParRi(cur)
		return fmt.Sprintf("[%s]", p), cur

	case "mem2":
		cur = expectParLe(cur, "mem2")
		p1, c2 := operand(cur)
		cur = c2
		p2, c3 := operand(cur)
		cur = c3
		cur = expectParRi(cur)
		return fmt.Sprintf("[%s+%s]", p1, p2), cur

	case "mem3":
		cur = expectParLe(cur, "mem3")
		p1, c2 := operand(cur)
		cur = c2
		p2, c3 := operand(cur)
		cur = c3
		scale, c4 := operand(cur)
		cur = c4
		cur = expectParRi(cur)
		return fmt.Sprintf("[%s+%s*%s]", p1, p2, scale), cur

	case "mem4":
		cur = expectParLe(cur, "mem4")
		p1, c2 := operand(cur)
		cur = c2
		p2, c3 := operand(cur)
		cur = c3
		scale, c4 := operand(cur)
		cur = c4
		disp, c5 := operand(cur)
		cur = c5
		cur = expectParRi(cur)
		return fmt.Sprintf("[%s+%s*%s+%s]", p1, p2, scale, disp), cur

	case "bptr":
		cur = expectParLe(cur, "bptr")
		inner, c2 := operand(cur)
		cur = c2
		cur = expectParRi(cur)
		return "BYTE PTR " + inner, cur

	case "wptr":
		cur = expectParLe(cur, "wptr")
		inner, c2 := operand(cur)
		cur = c2
		cur = expectParRi(cur)
		return "WORD PTR " + inner, cur

	default:
		tok := cur.Peek()
		fail(tok.Pos, "emitter: unknown operand form %q", tag)
		return "", cur
	}
}
