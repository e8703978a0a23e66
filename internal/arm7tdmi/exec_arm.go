package arm7tdmi

import (
	"goba/internal/arm7tdmi/bits"
	"goba/internal/arm7tdmi/registers"
)

func (c *Core) executeARM(instr Instruction) error {
	switch instr.Kind {
	case ArmBranchExchange:
		return c.execBranchExchange(instr)
	case ArmSingleDataSwap:
		return c.execSingleDataSwap(instr)
	case ArmMultiply:
		return c.execMultiply(instr)
	case ArmMultiplyLong:
		return c.execMultiplyLong(instr)
	case ArmHalfwordTransfer:
		return c.execHalfwordTransfer(instr)
	case ArmUndefined:
		return raisePanic("undefined instruction %#x", instr.Raw)
	case ArmSoftwareInterrupt:
		return raisePanic("software interrupt %#x has no BIOS to service it", instr.Raw)
	case ArmCoprocessorDataOp, ArmCoprocessorRegTransfer, ArmCoprocessorDataTransfer:
		return raisePanic("coprocessor instruction %#x has no GBA coprocessor to target", instr.Raw)
	case ArmBlockDataTransfer:
		return c.execBlockDataTransfer(instr)
	case ArmBranch:
		return c.execBranch(instr)
	case ArmSingleDataTransfer:
		return c.execSingleDataTransfer(instr)
	case ArmDataProcessing:
		return c.execDataProcessing(instr)
	case ArmPSRTransferMRS:
		return c.execMRS(instr)
	case ArmPSRTransferMSR, ArmPSRTransferMSRFlags:
		return c.execMSR(instr)
	}
	return raisePanic("unreachable ARM instruction kind %d", instr.Kind)
}

func (c *Core) execBranch(instr Instruction) error {
	if instr.Link {
		c.Regs.Write(registers.LR, c.decode.addr+4)
	}
	target := uint32(int32(c.decode.addr) + 8 + instr.BranchOffset)
	c.FlushAndRefill(target)
	c.tick(1)
	return nil
}

func (c *Core) execBranchExchange(instr Instruction) error {
	target := c.ReadReg(instr.Rm)
	thumb := target&1 != 0
	c.CPSR.SetThumb(thumb)
	c.FlushAndRefill(target)
	c.tick(1)
	return nil
}

// operand2 resolves a data-processing instruction's second operand and the
// carry it contributes to CPSR.C (consulted only when the opcode is
// logical and S=1).
func (c *Core) operand2(instr Instruction) (uint32, bool) {
	if instr.Imm2 {
		return instr.Imm, c.CPSR.C()
	}

	readRm := c.ReadReg
	if instr.ShiftFromReg {
		readRm = c.ReadRegShiftByReg
	}
	value := readRm(instr.Rm)

	amount := instr.ShiftAmount
	immediate := true
	if instr.ShiftFromReg {
		amount = c.Regs.Read(instr.ShiftReg) & 0xFF
		immediate = false
	}

	result := Shift(instr.ShiftKind, value, amount, immediate, c.CPSR.C())
	return result.Value, result.Carry
}

func (c *Core) execDataProcessing(instr Instruction) error {
	op2, shifterCarry := c.operand2(instr)
	op1 := c.ReadReg(instr.Rn)
	if instr.ShiftFromReg {
		op1 = c.ReadRegShiftByReg(instr.Rn)
	}

	result, out := ApplyALU(instr.ALU, op1, op2, shifterCarry, c.CPSR.C())

	if instr.ALU.WritesResult() {
		c.WriteReg(instr.Rd, result)
		if instr.Rd == registers.PC {
			if instr.S {
				// MOVS/ADDS PC, ...: restore CPSR from SPSR, the idiom for
				// returning from an exception handler.
				c.restoreCPSRFromSPSR()
			}
			c.FlushAndRefill(result)
			c.tick(1)
			return nil
		}
	}

	if instr.S && instr.Rd != registers.PC {
		c.CPSR.SetN(out.N)
		c.CPSR.SetZ(out.Z)
		c.CPSR.SetC(out.C)
		if !instr.ALU.Logical() {
			c.CPSR.SetV(out.V)
		}
	}

	c.tick(1)
	return nil
}

func (c *Core) execMRS(instr Instruction) error {
	if instr.Rd == registers.PC {
		return raisePanic("MRS with Rd=R15 is not a valid PSR transfer")
	}
	if instr.UseSPSR && !c.CPSR.Mode().HasSPSR() {
		return raisePanic("MRS SPSR has no SPSR in mode %s", c.CPSR.Mode())
	}

	if instr.UseSPSR {
		c.WriteReg(instr.Rd, c.SPSR().Value())
	} else {
		c.WriteReg(instr.Rd, c.CPSR.Value())
	}
	c.tick(1)
	return nil
}

func (c *Core) execMSR(instr Instruction) error {
	if instr.UseSPSR && !c.CPSR.Mode().HasSPSR() {
		return raisePanic("MSR SPSR has no SPSR in mode %s", c.CPSR.Mode())
	}

	var value uint32
	if instr.Imm2 {
		value = instr.Imm
	} else {
		value = c.ReadReg(instr.Rm)
	}

	target := &c.CPSR
	if instr.UseSPSR {
		target = c.SPSR()
	}

	if instr.FlagsOnly {
		target.SetFlagsRaw(value)
	} else {
		oldMode := target.Mode()
		target.SetRaw(value)
		if !instr.UseSPSR && target.Mode() != oldMode {
			c.Bank.SwapMode(&c.Regs, &c.spsr, oldMode, target.Mode())
		}
	}

	c.tick(1)
	return nil
}

// execMultiply is decoded but not executed: the tag is reserved.
func (c *Core) execMultiply(instr Instruction) error {
	return raisePanic("multiply %#x is decoded but not implemented", instr.Raw)
}

// execMultiplyLong is decoded but not executed: the tag is reserved.
func (c *Core) execMultiplyLong(instr Instruction) error {
	return raisePanic("multiply-long %#x is decoded but not implemented", instr.Raw)
}

// execSingleDataSwap is decoded but not executed: the tag is reserved.
func (c *Core) execSingleDataSwap(instr Instruction) error {
	return raisePanic("single data swap %#x is decoded but not implemented", instr.Raw)
}

func (c *Core) memOffset(instr Instruction) uint32 {
	if instr.OffsetReg < 0 {
		return instr.OffsetImm
	}
	value := c.Regs.Read(instr.OffsetReg)
	if instr.ShiftKind != 0 || instr.ShiftAmount != 0 {
		value = Shift(instr.ShiftKind, value, instr.ShiftAmount, true, c.CPSR.C()).Value
	}
	return value
}

func (c *Core) execSingleDataTransfer(instr Instruction) error {
	base := c.ReadReg(instr.Rn)
	offset := c.memOffset(instr)

	var signedOffset uint32 = offset
	if !instr.Up {
		signedOffset = -offset
	}

	addr := base
	if instr.Pre {
		addr = base + signedOffset
	}

	if instr.Load {
		var value uint32
		if instr.Byte {
			value = uint32(c.Bus.ReadByte(addr))
		} else {
			value = c.Bus.ReadWord(bits.Bits(addr, 2, 31) << 2)
			if addr&3 != 0 {
				value = bits.RotateRight(value, uint((addr&3)*8))
			}
		}
		c.WriteReg(instr.Rd, value)
		if instr.Rd == registers.PC {
			c.FlushAndRefill(value)
		}
	} else {
		value := c.Regs.Read(instr.Rd)
		if instr.Rd == registers.PC {
			value = c.decode.addr + 12
		}
		if instr.Byte {
			c.Bus.WriteByte(addr, uint8(value))
		} else {
			c.Bus.WriteWord(addr&^3, value)
		}
	}

	if !instr.Pre {
		addr = base + signedOffset
	}
	if (instr.WriteBack || !instr.Pre) && instr.Rn != registers.PC {
		c.Regs.Write(instr.Rn, addr)
	}

	c.tick(1)
	return nil
}

func (c *Core) execHalfwordTransfer(instr Instruction) error {
	base := c.ReadReg(instr.Rn)

	var offset uint32
	if instr.OffsetReg >= 0 {
		offset = c.Regs.Read(instr.OffsetReg)
	} else {
		offset = instr.OffsetImm
	}

	var signedOffset uint32 = offset
	if !instr.Up {
		signedOffset = -offset
	}

	addr := base
	if instr.Pre {
		addr = base + signedOffset
	}

	if instr.Load {
		var value uint32
		switch instr.Halfword {
		case HalfwordUnsigned:
			value = uint32(c.Bus.ReadHalf(addr &^ 1))
		case SignedByte:
			value = bits.SignExtend(uint32(c.Bus.ReadByte(addr)), 8)
		case SignedHalfword:
			value = bits.SignExtend(uint32(c.Bus.ReadHalf(addr&^1)), 16)
		}
		c.WriteReg(instr.Rd, value)
	} else {
		c.Bus.WriteHalf(addr&^1, uint16(c.Regs.Read(instr.Rd)))
	}

	if !instr.Pre {
		addr = base + signedOffset
	}
	if (instr.WriteBack || !instr.Pre) && instr.Rn != registers.PC {
		c.Regs.Write(instr.Rn, addr)
	}

	c.tick(1)
	return nil
}

func (c *Core) execBlockDataTransfer(instr Instruction) error {
	if instr.ForceUser {
		return raisePanic("block data transfer force-user (S) bit is not supported")
	}

	count := 0
	for r := 0; r < 16; r++ {
		if instr.RegisterList&(1<<uint(r)) != 0 {
			count++
		}
	}
	if count == 0 {
		return raisePanic("block data transfer with an empty register list is unpredictable")
	}

	base := c.Regs.Read(instr.Rn)

	// Whatever the direction, registers are always transferred lowest to
	// highest at ascending addresses, so the lowest register lands at the
	// lowest address; only the starting (lowest) address depends on the
	// direction.
	var addr uint32
	if instr.Up {
		addr = base
		if instr.Pre {
			addr += 4
		}
	} else {
		addr = base - uint32(count)*4
		if !instr.Pre {
			addr += 4
		}
	}

	order := make([]int, 0, count)
	for r := 0; r < 16; r++ {
		if instr.RegisterList&(1<<uint(r)) != 0 {
			order = append(order, r)
		}
	}

	finalBase := base
	if instr.Up {
		finalBase += uint32(count) * 4
	} else {
		finalBase -= uint32(count) * 4
	}

	for _, r := range order {
		if instr.Load {
			value := c.Bus.ReadWord(addr &^ 3)
			c.Regs.Write(r, value)
			if r == registers.PC {
				c.FlushAndRefill(value)
			}
		} else {
			value := c.Regs.Read(r)
			if r == registers.PC {
				value = c.decode.addr + 12
			}
			c.Bus.WriteWord(addr&^3, value)
		}
		addr += 4
	}

	if instr.WriteBack && instr.Rn != registers.PC {
		c.Regs.Write(instr.Rn, finalBase)
	}

	c.tick(1)
	return nil
}
