package arm7tdmi

import "goba/internal/arm7tdmi/psr"

// addInner computes a + b + carryIn and reports the unsigned carry-out and
// signed overflow, per SPEC_FULL.md §4.5.3.
func addInner(a, b uint32, carryIn bool) (result uint32, carry, overflow bool) {
	var c uint64
	if carryIn {
		c = 1
	}
	wide := uint64(a) + uint64(b) + c
	result = uint32(wide)
	carry = wide > 0xFFFFFFFF
	overflow = (a^result)&(b^result)&0x80000000 != 0
	return
}

// subInner computes a - b - 1 + carryIn (equivalently a + ^b + carryIn),
// matching the ARM convention that the carry flag holds NOT borrow.
func subInner(a, b uint32, carryIn bool) (result uint32, carry, overflow bool) {
	return addInner(a, ^b, carryIn)
}

// ApplyALU executes one of the sixteen data-processing opcodes against
// operand1 (Rn, ignored by MOV/MVN) and operand2 (the barrel shifter's
// output). shifterCarry is the carry the barrel shifter produced for this
// operand2; carryIn is the current CPSR.C, consulted by ADC/SBC/RSC.
func ApplyALU(op ALUOp, operand1, operand2 uint32, shifterCarry, carryIn bool) (result uint32, out psr.OpResult) {
	switch op {
	case OpAND, OpTST:
		result = operand1 & operand2
		out = psr.OpResult{C: shifterCarry}
	case OpEOR, OpTEQ:
		result = operand1 ^ operand2
		out = psr.OpResult{C: shifterCarry}
	case OpORR:
		result = operand1 | operand2
		out = psr.OpResult{C: shifterCarry}
	case OpBIC:
		result = operand1 &^ operand2
		out = psr.OpResult{C: shifterCarry}
	case OpMOV:
		result = operand2
		out = psr.OpResult{C: shifterCarry}
	case OpMVN:
		result = ^operand2
		out = psr.OpResult{C: shifterCarry}

	case OpADD, OpCMN:
		var c, v bool
		result, c, v = addInner(operand1, operand2, false)
		out = psr.OpResult{C: c, V: v}
	case OpADC:
		var c, v bool
		result, c, v = addInner(operand1, operand2, carryIn)
		out = psr.OpResult{C: c, V: v}

	case OpSUB, OpCMP:
		var c, v bool
		result, c, v = subInner(operand1, operand2, true)
		out = psr.OpResult{C: c, V: v}
	case OpSBC:
		var c, v bool
		result, c, v = subInner(operand1, operand2, carryIn)
		out = psr.OpResult{C: c, V: v}

	case OpRSB:
		var c, v bool
		result, c, v = subInner(operand2, operand1, true)
		out = psr.OpResult{C: c, V: v}
	case OpRSC:
		var c, v bool
		result, c, v = subInner(operand2, operand1, carryIn)
		out = psr.OpResult{C: c, V: v}
	}

	out.N = result&0x80000000 != 0
	out.Z = result == 0
	return result, out
}

// WritesResult reports whether op writes its result into Rd. TST, TEQ, CMP
// and CMN compute flags only.
func (op ALUOp) WritesResult() bool {
	switch op {
	case OpTST, OpTEQ, OpCMP, OpCMN:
		return false
	}
	return true
}
