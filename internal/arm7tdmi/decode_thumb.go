package arm7tdmi

import (
	"goba/internal/arm7tdmi/bits"
	"goba/internal/arm7tdmi/psr"
)

// DecodeThumb classifies a 16 bit Thumb halfword into a tagged Instruction.
// As with DecodeARM, decoding is pure: the ladder below walks the nineteen
// format templates from most to least specific, per SPEC_FULL.md §4.4.
func DecodeThumb(word uint16) Instruction {
	w := uint32(word)

	switch {
	case word&0xFF00 == 0xDF00:
		// Software interrupt.
		return Instruction{Kind: ThumbSoftwareInterrupt, Raw: w, Cond: psr.AL, Imm: uint32(bits.Bits16(word, 0, 7))}

	case word&0xFF00 == 0xB000:
		// Add offset to stack pointer.
		offset := uint32(bits.Bits16(word, 0, 6)) << 2
		if bits.Bit(w, 7) {
			offset = -offset
		}
		return Instruction{
			Kind:         ThumbAddOffsetToSP,
			Raw:          w,
			Cond:         psr.AL,
			BranchOffset: int32(offset),
		}

	case word&0xFC00 == 0x4000:
		// ALU operation.
		return Instruction{
			Kind:    ThumbALUOp,
			Raw:     w,
			Cond:    psr.AL,
			ThumbOp: int(bits.Bits16(word, 6, 9)),
			Rm:      int(bits.Bits16(word, 3, 5)),
			Rd:      int(bits.Bits16(word, 0, 2)),
		}

	case word&0xFC00 == 0x4400:
		// Hi register operations / branch exchange.
		h1 := bits.Bit(w, 7)
		h2 := bits.Bit(w, 6)
		rs := int(bits.Bits16(word, 3, 5))
		rd := int(bits.Bits16(word, 0, 2))
		if h2 {
			rs += 8
		}
		if h1 {
			rd += 8
		}
		return Instruction{
			Kind:    ThumbHiRegisterOrBX,
			Raw:     w,
			Cond:    psr.AL,
			ThumbOp: int(bits.Bits16(word, 8, 9)),
			Rm:      rs,
			Rd:      rd,
		}

	case word&0xF600 == 0xB400:
		// Push/pop registers.
		return Instruction{
			Kind:         ThumbPushPop,
			Raw:          w,
			Cond:         psr.AL,
			Load:         bits.Bit(w, 11),
			ForceUser:    bits.Bit(w, 8), // R bit: include LR (push) / PC (pop)
			RegisterList: word & 0xFF,
		}

	case word&0xF800 == 0x1800:
		// Add/subtract.
		i := bits.Bit(w, 10)
		sub := bits.Bit(w, 9)
		instr := Instruction{
			Kind: ThumbAddSubtract,
			Raw:  w,
			Cond: psr.AL,
			ALU:  OpADD,
			Rn:   int(bits.Bits16(word, 3, 5)),
			Rd:   int(bits.Bits16(word, 0, 2)),
		}
		if sub {
			instr.ALU = OpSUB
		}
		if i {
			instr.Imm2 = true
			instr.Imm = uint32(bits.Bits16(word, 6, 8))
		} else {
			instr.Rm = int(bits.Bits16(word, 6, 8))
		}
		return instr

	case word&0xF800 == 0x4800:
		// PC-relative load.
		return Instruction{
			Kind:      ThumbPCRelativeLoad,
			Raw:       w,
			Cond:      psr.AL,
			Rd:        int(bits.Bits16(word, 8, 10)),
			OffsetImm: uint32(bits.Bits16(word, 0, 7)) << 2,
		}

	case word&0xF200 == 0x5000:
		// Load/store with register offset.
		return Instruction{
			Kind: ThumbLoadStoreRegOffset,
			Raw:  w,
			Cond: psr.AL,
			Load: bits.Bit(w, 11),
			Byte: bits.Bit(w, 10),
			Rm:   int(bits.Bits16(word, 6, 8)),
			Rn:   int(bits.Bits16(word, 3, 5)),
			Rd:   int(bits.Bits16(word, 0, 2)),
		}

	case word&0xF200 == 0x5200:
		// Load/store sign-extended byte/halfword.
		h := bits.Bit(w, 11)
		s := bits.Bit(w, 10)
		var kind HalfwordKind
		switch {
		case !s && !h:
			kind = HalfwordUnsigned // STRH
		case !s && h:
			kind = HalfwordUnsigned // LDRH
		case s && !h:
			kind = SignedByte // LDSB
		default:
			kind = SignedHalfword // LDSH
		}
		return Instruction{
			Kind:     ThumbLoadStoreSignExtended,
			Raw:      w,
			Cond:     psr.AL,
			Load:     s || h, // every combination but STRH (s=0,h=0) is a load
			Sign:     s,
			Halfword: kind,
			Rm:       int(bits.Bits16(word, 6, 8)),
			Rn:       int(bits.Bits16(word, 3, 5)),
			Rd:       int(bits.Bits16(word, 0, 2)),
		}

	case word&0xF800 == 0xE000:
		// Unconditional branch.
		offset := bits.SignExtend(uint32(bits.Bits16(word, 0, 10)), 11) << 1
		return Instruction{
			Kind:         ThumbUnconditionalBranch,
			Raw:          w,
			Cond:         psr.AL,
			BranchOffset: int32(offset),
		}

	case word&0xF000 == 0x8000:
		// Load/store halfword.
		return Instruction{
			Kind:      ThumbLoadStoreHalfword,
			Raw:       w,
			Cond:      psr.AL,
			Load:      bits.Bit(w, 11),
			OffsetImm: uint32(bits.Bits16(word, 6, 10)) << 1,
			Rn:        int(bits.Bits16(word, 3, 5)),
			Rd:        int(bits.Bits16(word, 0, 2)),
		}

	case word&0xF000 == 0x9000:
		// SP-relative load/store.
		return Instruction{
			Kind:      ThumbSPRelativeLoadStore,
			Raw:       w,
			Cond:      psr.AL,
			Load:      bits.Bit(w, 11),
			Rd:        int(bits.Bits16(word, 8, 10)),
			OffsetImm: uint32(bits.Bits16(word, 0, 7)) << 2,
		}

	case word&0xF000 == 0xA000:
		// Load address (ADR / ADD Rd, SP, #imm).
		return Instruction{
			Kind:      ThumbLoadAddress,
			Raw:       w,
			Cond:      psr.AL,
			Sign:      bits.Bit(w, 11), // true: base is SP, false: base is PC
			Rd:        int(bits.Bits16(word, 8, 10)),
			OffsetImm: uint32(bits.Bits16(word, 0, 7)) << 2,
		}

	case word&0xF000 == 0xC000:
		// Multiple load/store.
		return Instruction{
			Kind:         ThumbMultipleLoadStore,
			Raw:          w,
			Cond:         psr.AL,
			Load:         bits.Bit(w, 11),
			Rn:           int(bits.Bits16(word, 8, 10)),
			RegisterList: word & 0xFF,
		}

	case word&0xF000 == 0xD000:
		// Conditional branch.
		offset := bits.SignExtend(uint32(bits.Bits16(word, 0, 7)), 8) << 1
		return Instruction{
			Kind:         ThumbConditionalBranch,
			Raw:          w,
			Cond:         psr.Cond(bits.Bits16(word, 8, 11)),
			BranchOffset: int32(offset),
		}

	case word&0xF000 == 0xF000:
		// Long branch with link (first or second half of a BL pair).
		return Instruction{
			Kind:         ThumbLongBranchLink,
			Raw:          w,
			Cond:         psr.AL,
			ThumbBLHigh:  !bits.Bit(w, 11),
			BranchOffset: int32(bits.Bits16(word, 0, 10)),
		}

	case word&0xE000 == 0x0000:
		// Move shifted register (LSL/LSR/ASR immediate).
		return Instruction{
			Kind:        ThumbMoveShiftedRegister,
			Raw:         w,
			Cond:        psr.AL,
			ShiftKind:   ShiftKind(bits.Bits16(word, 11, 12)),
			ShiftAmount: uint32(bits.Bits16(word, 6, 10)),
			Rm:          int(bits.Bits16(word, 3, 5)),
			Rd:          int(bits.Bits16(word, 0, 2)),
		}

	case word&0xE000 == 0x2000:
		// Move/compare/add/subtract immediate.
		return Instruction{
			Kind:    ThumbMoveCmpAddSubImmediate,
			Raw:     w,
			Cond:    psr.AL,
			ThumbOp: int(bits.Bits16(word, 11, 12)),
			Rd:      int(bits.Bits16(word, 8, 10)),
			Imm:     uint32(bits.Bits16(word, 0, 7)),
		}

	case word&0xE000 == 0x6000:
		// Load/store with immediate offset.
		b := bits.Bit(w, 12)
		offset := uint32(bits.Bits16(word, 6, 10))
		if !b {
			offset <<= 2
		}
		return Instruction{
			Kind:      ThumbLoadStoreImmediateOffset,
			Raw:       w,
			Cond:      psr.AL,
			Load:      bits.Bit(w, 11),
			Byte:      b,
			OffsetImm: offset,
			Rn:        int(bits.Bits16(word, 3, 5)),
			Rd:        int(bits.Bits16(word, 0, 2)),
		}

	default:
		return Instruction{Kind: ThumbUndefined, Raw: w, Cond: psr.AL}
	}
}
