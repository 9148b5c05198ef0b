package emitter

import (
	"strings"

	"github.com/nifc-lang/nifc/internal/nif"
)

var twoOperandMnemonics = map[string]bool{
	"mov": true, "movapd": true, "movsd": true, "lea": true,
	"add": true, "sub": true, "mul": true, "imul": true, "div": true, "idiv": true,
	"xor": true, "or": true, "and": true,
	"shl": true, "shr": true, "sal": true, "sar": true,
	"addsd": true, "subsd": true, "mulsd": true, "divsd": true,
	"cmp": true, "test": true,
}

var oneOperandMnemonics = map[string]bool{
	"push": true, "pop": true, "inc": true, "dec": true, "neg": true, "not": true, "call": true,
}

var zeroOperandMnemonics = map[string]bool{
	"nop": true, "ret": true, "syscall": true,
}

var setCCMnemonics = map[string]bool{
	"setz": true, "setnz": true, "setl": true, "setg": true,
	"sete": true, "setne": true, "setle": true, "setge": true,
	"seta": true, "setb": true, "setae": true, "setbe": true,
	"sets": true, "setns": true, "seto": true, "setno": true,
	"setc": true, "setnc": true, "setp": true, "setnp": true,
}

var jCCMnemonics = map[string]bool{
	"jz": true, "jnz": true, "jl": true, "jg": true,
	"je": true, "jne": true, "jle": true, "jge": true,
	"ja": true, "jb": true, "jae": true, "jbe": true,
	"js": true, "jns": true, "jo": true, "jno": true,
	"jc": true, "jnc": true, "jp": true, "jnp": true, "jmp": true,
}

// instruction reads and emits one instruction form, threading the
// peephole window through consecutive instructions within a text
// block. label-introducing and comment forms are boundaries/pass-
// throughs handled specially; everything else is a uniform
// mnemonic-plus-operands form.
func (e *Emitter) instruction(cur nif.Cursor) nif.Cursor {
	tok := cur.Peek()
	if tok.Kind != nif.ParLe {
		fail(tok.Pos, "emitter: expected an instruction, got %v", tok.Kind)
	}
	mnemonic := string(tok.Tag)
	pos := tok.Pos
	_, cur = cur.Next()

	switch mnemonic {
	case "lab", "looplab":
		name, c2 := expectSymbolDef(cur)
		cur = expectParRi(c2)
		e.flushPending()
		e.string(name)
		e.byte(':')
		e.newline()
		e.peep.reset()
		return cur

	case "comment":
		tok := cur.Peek()
		if tok.Kind != nif.StringLit {
			fail(tok.Pos, "emitter: comment requires a string literal")
		}
		text := tok.SVal
		_, cur = cur.Next()
		cur = expectParRi(cur)
		e.emitLine("; " + text)
		return cur
	}

	var operands []string
	for cur.Peek().Kind != nif.ParRi {
		var opText string
		opText, cur = operand(cur)
		operands = append(operands, opText)
	}
	cur = expectParRi(cur)

	switch {
	case twoOperandMnemonics[mnemonic]:
		if len(operands) != 2 {
			fail(pos, "emitter: %s requires 2 operands, got %d", mnemonic, len(operands))
		}
	case oneOperandMnemonics[mnemonic], setCCMnemonics[mnemonic], jCCMnemonics[mnemonic]:
		if len(operands) != 1 {
			fail(pos, "emitter: %s requires 1 operand, got %d", mnemonic, len(operands))
		}
	case mnemonic == "jloop":
		if len(operands) != 1 {
			fail(pos, "emitter: jloop requires 1 operand, got %d", len(operands))
		}
		mnemonic = "jmp"
	case zeroOperandMnemonics[mnemonic]:
		if len(operands) != 0 {
			fail(pos, "emitter: %s takes no operands, got %d", mnemonic, len(operands))
		}
	default:
		fail(pos, "emitter: unknown instruction mnemonic %q", mnemonic)
	}

	origMnemonic := mnemonic
	outMnemonic, outOperands := rewrite(mnemonic, operands)

	var sb strings.Builder
	sb.WriteString(outMnemonic)
	for i, op := range outOperands {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(op)
	}
	text := sb.String()

	dest := ""
	if len(operands) > 0 && !strings.Contains(operands[0], "[") {
		dest = operands[0]
	}

	prev, had := e.peep.process(origMnemonic, dest, text)
	if had {
		e.emitLine(prev)
	}
	return cur
}

// flushPending drains any instruction the peephole window is still
// holding back, used before a boundary (label, section end, EOF).
func (e *Emitter) flushPending() {
	if text, ok := e.peep.flush(); ok {
		e.emitLine(text)
	}
}

func (e *Emitter) emitLine(text string) {
	e.string(text)
	e.newline()
}
