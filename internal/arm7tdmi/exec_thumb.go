package arm7tdmi

import (
	"goba/internal/arm7tdmi/bits"
	"goba/internal/arm7tdmi/psr"
	"goba/internal/arm7tdmi/registers"
)

func (c *Core) executeThumb(instr Instruction) error {
	switch instr.Kind {
	case ThumbSoftwareInterrupt:
		return raisePanic("software interrupt %#x has no BIOS to service it", instr.Raw)
	case ThumbAddOffsetToSP:
		sp := c.Regs.Read(registers.SP)
		c.Regs.Write(registers.SP, uint32(int32(sp)+instr.BranchOffset))
	case ThumbALUOp:
		if err := c.execThumbALU(instr); err != nil {
			return err
		}
	case ThumbHiRegisterOrBX:
		return c.execThumbHiReg(instr)
	case ThumbPushPop:
		c.execThumbPushPop(instr)
	case ThumbAddSubtract:
		c.execThumbAddSubtract(instr)
	case ThumbPCRelativeLoad:
		base := (c.decode.addr + 4) &^ 3
		value := c.Bus.ReadWord(base + instr.OffsetImm)
		c.Regs.Write(instr.Rd, value)
	case ThumbLoadStoreRegOffset:
		c.execThumbLoadStoreRegOffset(instr)
	case ThumbLoadStoreSignExtended:
		c.execThumbLoadStoreSignExtended(instr)
	case ThumbUnconditionalBranch:
		target := uint32(int32(c.decode.addr) + 4 + instr.BranchOffset)
		c.FlushAndRefill(target)
	case ThumbLoadStoreHalfword:
		c.execThumbLoadStoreHalfword(instr)
	case ThumbSPRelativeLoadStore:
		c.execThumbSPRelativeLoadStore(instr)
	case ThumbLoadAddress:
		c.execThumbLoadAddress(instr)
	case ThumbMultipleLoadStore:
		c.execThumbMultipleLoadStore(instr)
	case ThumbConditionalBranch:
		target := uint32(int32(c.decode.addr) + 4 + instr.BranchOffset)
		c.FlushAndRefill(target)
	case ThumbLongBranchLink:
		c.execThumbLongBranchLink(instr)
	case ThumbMoveShiftedRegister:
		c.execThumbMoveShiftedRegister(instr)
	case ThumbMoveCmpAddSubImmediate:
		c.execThumbMoveCmpAddSubImmediate(instr)
	case ThumbLoadStoreImmediateOffset:
		c.execThumbLoadStoreImmediateOffset(instr)
	case ThumbUndefined:
		return raisePanic("undefined instruction %#x", instr.Raw)
	default:
		return raisePanic("unreachable Thumb instruction kind %d", instr.Kind)
	}

	c.tick(1)
	return nil
}

func (c *Core) execThumbMoveShiftedRegister(instr Instruction) {
	value := c.Regs.Read(instr.Rm)
	r := Shift(instr.ShiftKind, value, instr.ShiftAmount, true, c.CPSR.C())
	c.Regs.Write(instr.Rd, r.Value)
	c.CPSR.SetN(r.Value&0x80000000 != 0)
	c.CPSR.SetZ(r.Value == 0)
	c.CPSR.SetC(r.Carry)
}

func (c *Core) execThumbAddSubtract(instr Instruction) {
	op1 := c.Regs.Read(instr.Rn)
	var op2 uint32
	if instr.Imm2 {
		op2 = instr.Imm
	} else {
		op2 = c.Regs.Read(instr.Rm)
	}
	result, out := ApplyALU(instr.ALU, op1, op2, false, c.CPSR.C())
	c.Regs.Write(instr.Rd, result)
	c.CPSR.FromOpResult(out)
}

func (c *Core) execThumbMoveCmpAddSubImmediate(instr Instruction) {
	var op ALUOp
	switch instr.ThumbOp {
	case 0:
		op = OpMOV
	case 1:
		op = OpCMP
	case 2:
		op = OpADD
	default:
		op = OpSUB
	}
	op1 := c.Regs.Read(instr.Rd)
	result, out := ApplyALU(op, op1, instr.Imm, c.CPSR.C(), c.CPSR.C())
	if op.WritesResult() {
		c.Regs.Write(instr.Rd, result)
	}
	c.CPSR.FromOpResult(out)
}

// execThumbALU maps a format-4 ALU sub-opcode to either an ALUOp (for the
// entries that reduce to the 16 standard data-processing operations) or a
// shift kind (LSL/LSR/ASR/ROR, applied as a register shift with the
// existing value as the operand).
func (c *Core) execThumbALU(instr Instruction) error {
	rd := c.Regs.Read(instr.Rd)
	rm := c.Regs.Read(instr.Rm)

	switch instr.ThumbOp {
	case 0: // AND
		result, out := ApplyALU(OpAND, rd, rm, c.CPSR.C(), c.CPSR.C())
		c.thumbALUResult(instr.Rd, result, out)
	case 1: // EOR
		result, out := ApplyALU(OpEOR, rd, rm, c.CPSR.C(), c.CPSR.C())
		c.thumbALUResult(instr.Rd, result, out)
	case 2: // LSL
		r := Shift(LSL, rd, rm&0xFF, false, c.CPSR.C())
		c.Regs.Write(instr.Rd, r.Value)
		c.CPSR.SetN(r.Value&0x80000000 != 0)
		c.CPSR.SetZ(r.Value == 0)
		c.CPSR.SetC(r.Carry)
	case 3: // LSR
		r := Shift(LSR, rd, rm&0xFF, false, c.CPSR.C())
		c.Regs.Write(instr.Rd, r.Value)
		c.CPSR.SetN(r.Value&0x80000000 != 0)
		c.CPSR.SetZ(r.Value == 0)
		c.CPSR.SetC(r.Carry)
	case 4: // ASR
		r := Shift(ASR, rd, rm&0xFF, false, c.CPSR.C())
		c.Regs.Write(instr.Rd, r.Value)
		c.CPSR.SetN(r.Value&0x80000000 != 0)
		c.CPSR.SetZ(r.Value == 0)
		c.CPSR.SetC(r.Carry)
	case 5: // ADC
		result, out := ApplyALU(OpADC, rd, rm, c.CPSR.C(), c.CPSR.C())
		c.thumbALUResult(instr.Rd, result, out)
	case 6: // SBC
		result, out := ApplyALU(OpSBC, rd, rm, c.CPSR.C(), c.CPSR.C())
		c.thumbALUResult(instr.Rd, result, out)
	case 7: // ROR
		r := Shift(ROR, rd, rm&0xFF, false, c.CPSR.C())
		c.Regs.Write(instr.Rd, r.Value)
		c.CPSR.SetN(r.Value&0x80000000 != 0)
		c.CPSR.SetZ(r.Value == 0)
		c.CPSR.SetC(r.Carry)
	case 8: // TST
		_, out := ApplyALU(OpTST, rd, rm, c.CPSR.C(), c.CPSR.C())
		c.CPSR.SetN(out.N)
		c.CPSR.SetZ(out.Z)
		c.CPSR.SetC(out.C)
	case 9: // NEG
		result, out := ApplyALU(OpRSB, rm, 0, false, c.CPSR.C())
		c.Regs.Write(instr.Rd, result)
		c.CPSR.FromOpResult(out)
	case 10: // CMP
		_, out := ApplyALU(OpCMP, rd, rm, false, c.CPSR.C())
		c.CPSR.FromOpResult(out)
	case 11: // CMN
		_, out := ApplyALU(OpCMN, rd, rm, false, c.CPSR.C())
		c.CPSR.FromOpResult(out)
	case 12: // ORR
		result, out := ApplyALU(OpORR, rd, rm, c.CPSR.C(), c.CPSR.C())
		c.thumbALUResult(instr.Rd, result, out)
	case 13: // MUL: decoded but not executed, the tag is reserved.
		return raisePanic("thumb multiply %#x is decoded but not implemented", instr.Raw)
	case 14: // BIC
		result, out := ApplyALU(OpBIC, rd, rm, c.CPSR.C(), c.CPSR.C())
		c.thumbALUResult(instr.Rd, result, out)
	case 15: // MVN
		result, out := ApplyALU(OpMVN, rd, rm, c.CPSR.C(), c.CPSR.C())
		c.thumbALUResult(instr.Rd, result, out)
	}
	return nil
}

func (c *Core) thumbALUResult(rd int, result uint32, out psr.OpResult) {
	c.Regs.Write(rd, result)
	c.CPSR.SetN(out.N)
	c.CPSR.SetZ(out.Z)
	c.CPSR.SetC(out.C)
}

func (c *Core) execThumbHiReg(instr Instruction) error {
	rs := c.ReadReg(instr.Rm)

	switch instr.ThumbOp {
	case 0: // ADD
		result := c.ReadReg(instr.Rd) + rs
		c.Regs.Write(instr.Rd, result)
		if instr.Rd == registers.PC {
			c.FlushAndRefill(result)
		}
	case 1: // CMP
		_, out := ApplyALU(OpCMP, c.ReadReg(instr.Rd), rs, false, c.CPSR.C())
		c.CPSR.FromOpResult(out)
	case 2: // MOV
		c.Regs.Write(instr.Rd, rs)
		if instr.Rd == registers.PC {
			c.FlushAndRefill(rs)
		}
	case 3: // BX
		thumb := rs&1 != 0
		c.CPSR.SetThumb(thumb)
		c.FlushAndRefill(rs)
	}
	c.tick(1)
	return nil
}

func (c *Core) execThumbLoadStoreRegOffset(instr Instruction) {
	addr := c.Regs.Read(instr.Rn) + c.Regs.Read(instr.Rm)
	if instr.Load {
		var value uint32
		if instr.Byte {
			value = uint32(c.Bus.ReadByte(addr))
		} else {
			value = bits.RotateRight(c.Bus.ReadWord(addr&^3), uint((addr&3)*8))
		}
		c.Regs.Write(instr.Rd, value)
	} else {
		if instr.Byte {
			c.Bus.WriteByte(addr, uint8(c.Regs.Read(instr.Rd)))
		} else {
			c.Bus.WriteWord(addr&^3, c.Regs.Read(instr.Rd))
		}
	}
}

func (c *Core) execThumbLoadStoreSignExtended(instr Instruction) {
	addr := c.Regs.Read(instr.Rn) + c.Regs.Read(instr.Rm)
	if !instr.Load {
		// H=0,S=0: STRH.
		c.Bus.WriteHalf(addr&^1, uint16(c.Regs.Read(instr.Rd)))
		return
	}
	var value uint32
	switch instr.Halfword {
	case SignedByte:
		value = bits.SignExtend(uint32(c.Bus.ReadByte(addr)), 8)
	case SignedHalfword:
		value = bits.SignExtend(uint32(c.Bus.ReadHalf(addr&^1)), 16)
	default:
		value = uint32(c.Bus.ReadHalf(addr &^ 1))
	}
	c.Regs.Write(instr.Rd, value)
}

func (c *Core) execThumbLoadStoreImmediateOffset(instr Instruction) {
	addr := c.Regs.Read(instr.Rn) + instr.OffsetImm
	if instr.Load {
		var value uint32
		if instr.Byte {
			value = uint32(c.Bus.ReadByte(addr))
		} else {
			value = bits.RotateRight(c.Bus.ReadWord(addr&^3), uint((addr&3)*8))
		}
		c.Regs.Write(instr.Rd, value)
	} else {
		if instr.Byte {
			c.Bus.WriteByte(addr, uint8(c.Regs.Read(instr.Rd)))
		} else {
			c.Bus.WriteWord(addr&^3, c.Regs.Read(instr.Rd))
		}
	}
}

func (c *Core) execThumbLoadStoreHalfword(instr Instruction) {
	addr := c.Regs.Read(instr.Rn) + instr.OffsetImm
	if instr.Load {
		value := uint32(c.Bus.ReadHalf(addr &^ 1))
		c.Regs.Write(instr.Rd, value)
	} else {
		c.Bus.WriteHalf(addr&^1, uint16(c.Regs.Read(instr.Rd)))
	}
}

func (c *Core) execThumbSPRelativeLoadStore(instr Instruction) {
	addr := c.Regs.Read(registers.SP) + instr.OffsetImm
	if instr.Load {
		value := bits.RotateRight(c.Bus.ReadWord(addr&^3), uint((addr&3)*8))
		c.Regs.Write(instr.Rd, value)
	} else {
		c.Bus.WriteWord(addr&^3, c.Regs.Read(instr.Rd))
	}
}

func (c *Core) execThumbLoadAddress(instr Instruction) {
	var base uint32
	if instr.Sign {
		base = c.Regs.Read(registers.SP)
	} else {
		base = (c.decode.addr + 4) &^ 3
	}
	c.Regs.Write(instr.Rd, base+instr.OffsetImm)
}

func (c *Core) execThumbPushPop(instr Instruction) {
	count := 0
	for r := 0; r < 8; r++ {
		if instr.RegisterList&(1<<uint(r)) != 0 {
			count++
		}
	}
	if instr.ForceUser {
		count++
	}

	if instr.Load {
		// POP: ascending addresses from SP, R0 first, then PC if R bit set.
		addr := c.Regs.Read(registers.SP)
		for r := 0; r < 8; r++ {
			if instr.RegisterList&(1<<uint(r)) != 0 {
				c.Regs.Write(r, c.Bus.ReadWord(addr))
				addr += 4
			}
		}
		if instr.ForceUser {
			value := c.Bus.ReadWord(addr)
			addr += 4
			c.Regs.Write(registers.SP, addr)
			c.FlushAndRefill(value)
			return
		}
		c.Regs.Write(registers.SP, addr)
		return
	}

	// PUSH: pre-decrement, store R0 first at the lowest address.
	addr := c.Regs.Read(registers.SP) - uint32(count)*4
	c.Regs.Write(registers.SP, addr)
	for r := 0; r < 8; r++ {
		if instr.RegisterList&(1<<uint(r)) != 0 {
			c.Bus.WriteWord(addr, c.Regs.Read(r))
			addr += 4
		}
	}
	if instr.ForceUser {
		c.Bus.WriteWord(addr, c.Regs.Read(registers.LR))
	}
}

func (c *Core) execThumbMultipleLoadStore(instr Instruction) {
	count := 0
	for r := 0; r < 8; r++ {
		if instr.RegisterList&(1<<uint(r)) != 0 {
			count++
		}
	}

	base := c.Regs.Read(instr.Rn)
	addr := base
	for r := 0; r < 8; r++ {
		if instr.RegisterList&(1<<uint(r)) != 0 {
			if instr.Load {
				c.Regs.Write(r, c.Bus.ReadWord(addr&^3))
			} else {
				c.Bus.WriteWord(addr&^3, c.Regs.Read(r))
			}
			addr += 4
		}
	}

	if !instr.Load || instr.RegisterList&(1<<uint(instr.Rn)) == 0 {
		c.Regs.Write(instr.Rn, base+uint32(count)*4)
	}
}

func (c *Core) execThumbLongBranchLink(instr Instruction) {
	offset := uint32(instr.BranchOffset)
	if instr.ThumbBLHigh {
		high := bits.SignExtend(offset, 11) << 12
		c.Regs.Write(registers.LR, c.decode.addr+4+high)
		return
	}

	lr := c.Regs.Read(registers.LR)
	target := lr + (offset << 1)
	nextInstr := c.decode.addr + 2
	c.Regs.Write(registers.LR, nextInstr|1)
	c.FlushAndRefill(target)
}
