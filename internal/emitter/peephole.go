package emitter

// peepholeState is the tiny last-instruction-window tracker the
// optimiser threads through the emitter: an explicit struct carried by
// the caller and reset at boundaries, never a module-level singleton.
//
// Rules applied (in this order, against the *original*, pre-rewrite
// mnemonic, so a mov rewritten to xor/inc/dec still participates in
// rule 1 as a mov):
//  1. mov R, _ immediately followed by mov R, _ to the same
//     destination — drop the first.
//  2. mov R, 0 -> xor R, R.
//  3. add R, 1 -> inc R.
//  4. sub R, 1 -> dec R.
type peepholeState struct {
	hasPending      bool
	pendingMnemonic string // original mnemonic, before local rewrite
	pendingDest     string // destination register, "" if not applicable
	pendingText     string // already locally-rewritten output text
}

// reset clears pending state. Called at function entry (label or
// proc boundary) so rewrites never cross a control-flow boundary.
func (s *peepholeState) reset() { *s = peepholeState{} }

// rewrite applies the local (non-lookahead) rules 2-4 to a single
// instruction, given its original mnemonic and operand texts.
func rewrite(mnemonic string, operands []string) (outMnemonic string, outOperands []string) {
	switch mnemonic {
	case "mov":
		if len(operands) == 2 && operands[1] == "0" {
			return "xor", []string{operands[0], operands[0]}
		}
	case "add":
		if len(operands) == 2 && operands[1] == "1" {
			return "inc", []string{operands[0]}
		}
	case "sub":
		if len(operands) == 2 && operands[1] == "1" {
			return "dec", []string{operands[0]}
		}
	}
	return mnemonic, operands
}

// process feeds one instruction through the window. It returns a
// previously pending line to emit now (possibly dropped by rule 1) and
// whether there was one; the new instruction always becomes the
// pending line afterward.
func (s *peepholeState) process(origMnemonic, dest, text string) (emitPrev string, hadPrev bool) {
	if s.hasPending {
		if s.pendingMnemonic == "mov" && origMnemonic == "mov" && dest != "" && dest == s.pendingDest {
			hadPrev = false
		} else {
			emitPrev, hadPrev = s.pendingText, true
		}
	}
	s.hasPending = true
	s.pendingMnemonic = origMnemonic
	s.pendingDest = dest
	s.pendingText = text
	return emitPrev, hadPrev
}

// flush drains any pending line, e.g. at the end of a text block.
func (s *peepholeState) flush() (text string, ok bool) {
	if !s.hasPending {
		return "", false
	}
	text = s.pendingText
	*s = peepholeState{}
	return text, true
}
