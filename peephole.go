package ncc

// RunPeepholeOptimizer applies the three peephole passes below
// repeatedly until none of them changes anything, the fixpoint loop
// the original source's optimization pass runs over the generated
// instruction stream: one pass can expose an opportunity for a pass
// that already ran in the same round (cancelling a push/pop pair can
// leave a `mov a, b` / `mov b, a` pair adjacent, which only the next
// round's move pass removes), so a single sweep of each isn't enough.
func RunPeepholeOptimizer(asm *AsmProgram) {
	for {
		changed := false
		changed = eliminateRedundantMoves(asm) || changed
		changed = cancelPushPopPairs(asm) || changed
		changed = eliminateJumpToNextLine(asm) || changed
		if !changed {
			return
		}
	}
}

func sameOperand(a, b Operand) bool {
	return a != nil && b != nil && a.String() == b.String()
}

// eliminateRedundantMoves drops a `mov src, dst` where src and dst
// name the same operand, and the second mov of a `mov a, b`
// immediately followed by `mov b, a` (a store straight back where the
// value was just loaded from); the first mov is kept.
func eliminateRedundantMoves(asm *AsmProgram) bool {
	changed := false
	var out []Instruction
	for i := 0; i < len(asm.Code); i++ {
		instr := asm.Code[i]
		if m, ok := instr.(Instr2); ok && m.Op == MOV && sameOperand(m.Src, m.Dst) {
			changed = true
			continue
		}
		if m, ok := instr.(Instr2); ok && m.Op == MOV && i+1 < len(asm.Code) {
			if next, ok := asm.Code[i+1].(Instr2); ok && next.Op == MOV &&
				sameOperand(next.Src, m.Dst) && sameOperand(next.Dst, m.Src) {
				out = append(out, instr)
				i++
				changed = true
				continue
			}
		}
		out = append(out, instr)
	}
	asm.Code = out
	return changed
}

// cancelPushPopPairs drops an adjacent `push %r` / `pop %r` pair that
// moves a register's value onto the stack and immediately back into
// the same register, a net no-op codegen leaves behind whenever a
// saved value turns out to be unused by the instructions it was
// meant to protect against clobbering.
func cancelPushPopPairs(asm *AsmProgram) bool {
	changed := false
	var out []Instruction
	for i := 0; i < len(asm.Code); i++ {
		if push, ok := asm.Code[i].(Instr1); ok && push.Op == PUSH && i+1 < len(asm.Code) {
			if pop, ok := asm.Code[i+1].(Instr1); ok && pop.Op == POP && sameOperand(push.Operand, pop.Operand) {
				i++
				changed = true
				continue
			}
		}
		out = append(out, asm.Code[i])
	}
	asm.Code = out
	return changed
}

// eliminateJumpToNextLine drops an unconditional jump whose target
// label is the very next instruction, left behind for example by a
// `return` that ends a function body, whose jump to the epilogue label
// lands on the label emitted right after it.
func eliminateJumpToNextLine(asm *AsmProgram) bool {
	changed := false
	var out []Instruction
	for i := 0; i < len(asm.Code); i++ {
		if jmp, ok := asm.Code[i].(Instr1); ok && jmp.Op == JMP && i+1 < len(asm.Code) {
			if lbl, ok := asm.Code[i+1].(LabelInstr); ok {
				if target, ok := jmp.Operand.(LabelOperand); ok && target.Name == lbl.LabelName {
					changed = true
					continue
				}
			}
		}
		out = append(out, asm.Code[i])
	}
	asm.Code = out
	return changed
}
