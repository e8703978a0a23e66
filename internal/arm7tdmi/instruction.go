package arm7tdmi

import "goba/internal/arm7tdmi/psr"

// Kind tags which shape an Instruction was decoded into. The decoder never
// re-parses raw bits once a Kind and its fields are set: every operand is
// already in semantic form (register indices, resolved immediates, a shift
// kind/amount pair, offset direction, index timing, ...).
type Kind int

// ARM instruction shapes, in the decoder's precedence order (most specific
// pattern first).
const (
	ArmBranchExchange Kind = iota
	ArmSingleDataSwap
	ArmMultiply
	ArmMultiplyLong
	ArmHalfwordTransfer
	ArmUndefined
	ArmSoftwareInterrupt
	ArmCoprocessorDataOp
	ArmCoprocessorRegTransfer
	ArmCoprocessorDataTransfer
	ArmBlockDataTransfer
	ArmBranch
	ArmSingleDataTransfer
	ArmDataProcessing
	ArmPSRTransferMRS
	ArmPSRTransferMSR
	ArmPSRTransferMSRFlags

	// Thumb instruction shapes, in the decoder's precedence order.
	ThumbSoftwareInterrupt
	ThumbAddOffsetToSP
	ThumbALUOp
	ThumbHiRegisterOrBX
	ThumbPushPop
	ThumbAddSubtract
	ThumbPCRelativeLoad
	ThumbLoadStoreRegOffset
	ThumbLoadStoreSignExtended
	ThumbUnconditionalBranch
	ThumbLoadStoreHalfword
	ThumbSPRelativeLoadStore
	ThumbLoadAddress
	ThumbMultipleLoadStore
	ThumbConditionalBranch
	ThumbLongBranchLink
	ThumbMoveShiftedRegister
	ThumbMoveCmpAddSubImmediate
	ThumbLoadStoreImmediateOffset
	ThumbUndefined
)

// ShiftKind is one of the four barrel-shifter operations.
type ShiftKind int

// The four shift kinds.
const (
	LSL ShiftKind = iota
	LSR
	ASR
	ROR
)

// HalfwordKind distinguishes the three halfword-transfer sub-types.
type HalfwordKind int

// The three halfword-transfer sub-types.
const (
	HalfwordUnsigned HalfwordKind = iota
	SignedByte
	SignedHalfword
)

// ALUOp is one of the sixteen data-processing opcodes.
type ALUOp int

// The sixteen ALU opcodes, indexed exactly as the 4 bit encoding.
const (
	OpAND ALUOp = iota
	OpEOR
	OpSUB
	OpRSB
	OpADD
	OpADC
	OpSBC
	OpRSC
	OpTST
	OpTEQ
	OpCMP
	OpCMN
	OpORR
	OpMOV
	OpBIC
	OpMVN
)

// Logical reports whether op is one of the eight logical ALU operations,
// whose shifter carry-out is committed to CPSR when S=1 (the arithmetic
// operations compute their own carry instead).
func (op ALUOp) Logical() bool {
	switch op {
	case OpAND, OpEOR, OpTST, OpTEQ, OpORR, OpMOV, OpBIC, OpMVN:
		return true
	}
	return false
}

// Instruction is the tagged decode record produced by DecodeARM/DecodeThumb.
// Fields are populated according to Kind; unused fields for a given Kind are
// left at their zero value.
type Instruction struct {
	Kind Kind
	Raw  uint32 // the raw 32 bit ARM word, or the raw 16 bit Thumb halfword zero-extended

	Cond psr.Cond

	Rd, Rn, Rm, Rs int // left at 0 when not used by this Kind
	RdHi, RdLo     int

	ALU  ALUOp
	S    bool // the data-processing S bit: update flags
	Acc  bool // multiply accumulate bit
	Sign bool // multiply-long signed bit

	// Operand2 of a data-processing instruction.
	Imm2         bool // operand2 is an immediate
	Imm          uint32
	ShiftKind    ShiftKind
	ShiftAmount  uint32
	ShiftReg     int  // register supplying the shift amount; meaningful only when ShiftFromReg is set
	ShiftFromReg bool // the shift amount comes from ShiftReg: selects the +12 PC offset rule

	// PSR transfer.
	UseSPSR  bool // P bit: operate on SPSR rather than CPSR
	FlagsOnly bool // MSR-flags: only N,Z,C,V are written

	// Single/halfword data transfer and block data transfer.
	Up        bool // U bit: offset added (true) or subtracted (false)
	Pre       bool // P bit: index before (true) transfer or after (false)
	WriteBack bool
	Load      bool // L bit
	Byte      bool // B bit: byte transfer, else word
	OffsetImm uint32
	OffsetReg int // -1 when the offset is an immediate
	Halfword  HalfwordKind

	// Block data transfer.
	RegisterList uint16
	ForceUser    bool // ARM S bit: unimplemented, fatal if set; Thumb PUSH/POP R bit (LR/PC included)

	// Branches.
	BranchOffset int32
	Link         bool

	// Thumb long-branch-link pair.
	ThumbBLHigh bool

	// Thumb hi-register op / BX.
	ThumbOp int
}
