package arm7tdmi

import (
	"goba/internal/arm7tdmi/bits"
	"goba/internal/arm7tdmi/psr"
)

// DecodeARM classifies a 32 bit ARM word into a tagged Instruction. Decoding
// is pure and total over well-formed inputs: no register or memory access
// occurs here. The precedence ladder below tests the most-specific bit
// patterns first, per SPEC_FULL.md §4.4 — many encodings share high-nibble
// prefixes, so order matters.
func DecodeARM(word uint32) Instruction {
	cond := psr.Cond(bits.Bits(word, 28, 31))

	switch {
	case word&0x0FFFFFF0 == 0x012FFF10:
		// Branch and exchange: a fully specified 28 bit template.
		return Instruction{
			Kind: ArmBranchExchange,
			Raw:  word,
			Cond: cond,
			Rm:   int(bits.Bits(word, 0, 3)),
		}

	case word&0x0FB00FF0 == 0x01000090:
		// Single data swap.
		return Instruction{
			Kind: ArmSingleDataSwap,
			Raw:  word,
			Cond: cond,
			Byte: bits.Bit(word, 22),
			Rn:   int(bits.Bits(word, 16, 19)),
			Rd:   int(bits.Bits(word, 12, 15)),
			Rm:   int(bits.Bits(word, 0, 3)),
		}

	case word&0x0FC000F0 == 0x00000090:
		// Multiply (MUL/MLA).
		return Instruction{
			Kind: ArmMultiply,
			Raw:  word,
			Cond: cond,
			S:    bits.Bit(word, 20),
			Acc:  bits.Bit(word, 21),
			Rd:   int(bits.Bits(word, 16, 19)),
			Rn:   int(bits.Bits(word, 12, 15)), // accumulate register (Rn in MLA)
			Rs:   int(bits.Bits(word, 8, 11)),
			Rm:   int(bits.Bits(word, 0, 3)),
		}

	case word&0x0F8000F0 == 0x00800090:
		// Multiply long (UMULL/UMLAL/SMULL/SMLAL).
		return Instruction{
			Kind: ArmMultiplyLong,
			Raw:  word,
			Cond: cond,
			S:    bits.Bit(word, 20),
			Acc:  bits.Bit(word, 21),
			Sign: bits.Bit(word, 22),
			RdHi: int(bits.Bits(word, 16, 19)),
			RdLo: int(bits.Bits(word, 12, 15)),
			Rs:   int(bits.Bits(word, 8, 11)),
			Rm:   int(bits.Bits(word, 0, 3)),
		}

	case word&0x0E000090 == 0x00000090 && bits.Bits(word, 5, 6) != 0:
		// Halfword and signed data transfer, register or immediate offset.
		return decodeHalfwordTransfer(word, cond)

	case word&0x0E000010 == 0x06000010:
		// Undefined instruction space.
		return Instruction{Kind: ArmUndefined, Raw: word, Cond: cond}

	case word&0x0F000000 == 0x0F000000:
		// Software interrupt.
		return Instruction{Kind: ArmSoftwareInterrupt, Raw: word, Cond: cond}

	case word&0x0F000010 == 0x0E000000:
		// Coprocessor data operation.
		return Instruction{Kind: ArmCoprocessorDataOp, Raw: word, Cond: cond}

	case word&0x0F000010 == 0x0E000010:
		// Coprocessor register transfer (MRC/MCR).
		return Instruction{Kind: ArmCoprocessorRegTransfer, Raw: word, Cond: cond}

	case word&0x0E000000 == 0x0C000000:
		// Coprocessor data transfer (LDC/STC).
		return Instruction{Kind: ArmCoprocessorDataTransfer, Raw: word, Cond: cond}

	case word&0x0E000000 == 0x08000000:
		// Block data transfer (LDM/STM).
		return Instruction{
			Kind:         ArmBlockDataTransfer,
			Raw:          word,
			Cond:         cond,
			Up:           bits.Bit(word, 23),
			Pre:          bits.Bit(word, 24),
			WriteBack:    bits.Bit(word, 21),
			Load:         bits.Bit(word, 20),
			ForceUser:    bits.Bit(word, 22),
			Rn:           int(bits.Bits(word, 16, 19)),
			RegisterList: uint16(bits.Bits(word, 0, 15)),
		}

	case word&0x0E000000 == 0x0A000000:
		// Branch / branch with link.
		offset := bits.SignExtend(bits.Bits(word, 0, 23), 24) << 2
		return Instruction{
			Kind:         ArmBranch,
			Raw:          word,
			Cond:         cond,
			Link:         bits.Bit(word, 24),
			BranchOffset: int32(offset),
		}

	case word&0x0C000000 == 0x04000000:
		// Single data transfer (LDR/STR).
		return decodeSingleDataTransfer(word, cond)

	default:
		// Remaining 00xxxxxx space: data processing, or (when opcode is
		// TST/TEQ/CMP/CMN with S=0) a PSR transfer.
		return decodeDataProcessing(word, cond)
	}
}

func decodeHalfwordTransfer(word uint32, cond psr.Cond) Instruction {
	sh := bits.Bits(word, 5, 6)
	var kind HalfwordKind
	switch sh {
	case 0b01:
		kind = HalfwordUnsigned
	case 0b10:
		kind = SignedByte
	default:
		kind = SignedHalfword
	}

	instr := Instruction{
		Kind:      ArmHalfwordTransfer,
		Raw:       word,
		Cond:      cond,
		Up:        bits.Bit(word, 23),
		Pre:       bits.Bit(word, 24),
		WriteBack: bits.Bit(word, 21),
		Load:      bits.Bit(word, 20),
		Rn:        int(bits.Bits(word, 16, 19)),
		Rd:        int(bits.Bits(word, 12, 15)),
		Halfword:  kind,
		OffsetReg: -1,
	}

	if bits.Bit(word, 22) {
		// Immediate offset: high nibble in [11:8], low nibble in [3:0].
		instr.OffsetImm = (bits.Bits(word, 8, 11) << 4) | bits.Bits(word, 0, 3)
	} else {
		instr.OffsetReg = int(bits.Bits(word, 0, 3))
	}

	return instr
}

func decodeSingleDataTransfer(word uint32, cond psr.Cond) Instruction {
	instr := Instruction{
		Kind:      ArmSingleDataTransfer,
		Raw:       word,
		Cond:      cond,
		Up:        bits.Bit(word, 23),
		Pre:       bits.Bit(word, 24),
		WriteBack: bits.Bit(word, 21),
		Load:      bits.Bit(word, 20),
		Byte:      bits.Bit(word, 22),
		Rn:        int(bits.Bits(word, 16, 19)),
		Rd:        int(bits.Bits(word, 12, 15)),
		OffsetReg: -1,
	}

	if !bits.Bit(word, 25) {
		// Immediate 12 bit offset.
		instr.OffsetImm = bits.Bits(word, 0, 11)
		return instr
	}

	// Shifted register offset. The shift amount for a memory offset is
	// always an immediate (never register-specified) in this encoding.
	instr.OffsetReg = int(bits.Bits(word, 0, 3))
	instr.ShiftKind = ShiftKind(bits.Bits(word, 5, 6))
	instr.ShiftAmount = bits.Bits(word, 7, 11)
	instr.ShiftReg = -1
	return instr
}

func decodeDataProcessing(word uint32, cond psr.Cond) Instruction {
	opcode := ALUOp(bits.Bits(word, 21, 24))
	s := bits.Bit(word, 20)

	if !s && (opcode == OpTST || opcode == OpTEQ || opcode == OpCMP || opcode == OpCMN) {
		return decodePSRTransfer(word, cond, opcode)
	}

	instr := Instruction{
		Kind: ArmDataProcessing,
		Raw:  word,
		Cond: cond,
		ALU:  opcode,
		S:    s,
		Rn:   int(bits.Bits(word, 16, 19)),
		Rd:   int(bits.Bits(word, 12, 15)),
	}

	if bits.Bit(word, 25) {
		instr.Imm2 = true
		rotate := bits.Bits(word, 8, 11) * 2
		instr.Imm = bits.RotateRight(bits.Bits(word, 0, 7), uint(rotate))
		return instr
	}

	instr.Rm = int(bits.Bits(word, 0, 3))
	instr.ShiftKind = ShiftKind(bits.Bits(word, 5, 6))
	if bits.Bit(word, 4) {
		instr.ShiftReg = int(bits.Bits(word, 8, 11))
		instr.ShiftFromReg = true
	} else {
		instr.ShiftAmount = bits.Bits(word, 7, 11)
		instr.ShiftReg = -1
	}
	return instr
}

func decodePSRTransfer(word uint32, cond psr.Cond, opcode ALUOp) Instruction {
	useSPSR := bits.Bit(word, 22)
	isMSR := bits.Bit(word, 21)

	if !isMSR {
		return Instruction{
			Kind:    ArmPSRTransferMRS,
			Raw:     word,
			Cond:    cond,
			UseSPSR: useSPSR,
			Rd:      int(bits.Bits(word, 12, 15)),
		}
	}

	fieldMask := bits.Bits(word, 16, 19)
	flagsOnly := fieldMask&0x1 == 0 // control field (bit16) not selected

	instr := Instruction{
		Cond:      cond,
		Raw:       word,
		UseSPSR:   useSPSR,
		FlagsOnly: flagsOnly,
	}

	if bits.Bit(word, 25) {
		instr.Kind = ArmPSRTransferMSRFlags
		instr.Imm2 = true
		rotate := bits.Bits(word, 8, 11) * 2
		instr.Imm = bits.RotateRight(bits.Bits(word, 0, 7), uint(rotate))
		instr.FlagsOnly = true
		return instr
	}

	instr.Rm = int(bits.Bits(word, 0, 3))
	if flagsOnly {
		instr.Kind = ArmPSRTransferMSRFlags
	} else {
		instr.Kind = ArmPSRTransferMSR
	}
	return instr
}
