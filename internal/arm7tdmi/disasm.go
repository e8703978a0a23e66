package arm7tdmi

import "fmt"

// kindNames gives each Kind a short mnemonic-like label. It is not a full
// disassembler (operand rendering is out of scope); it exists so a runner
// can stream a line per retired instruction to a debugger front-end.
var kindNames = map[Kind]string{
	ArmBranchExchange:         "BX",
	ArmSingleDataSwap:         "SWP",
	ArmMultiply:               "MUL",
	ArmMultiplyLong:           "MULL",
	ArmHalfwordTransfer:       "LDRH/STRH",
	ArmUndefined:              "UND",
	ArmSoftwareInterrupt:      "SWI",
	ArmCoprocessorDataOp:      "CDP",
	ArmCoprocessorRegTransfer: "MRC/MCR",
	ArmCoprocessorDataTransfer: "LDC/STC",
	ArmBlockDataTransfer:      "LDM/STM",
	ArmBranch:                 "B/BL",
	ArmSingleDataTransfer:     "LDR/STR",
	ArmDataProcessing:         "DP",
	ArmPSRTransferMRS:         "MRS",
	ArmPSRTransferMSR:         "MSR",
	ArmPSRTransferMSRFlags:    "MSR(flags)",

	ThumbSoftwareInterrupt:        "SWI",
	ThumbAddOffsetToSP:            "ADD(SP)",
	ThumbALUOp:                    "ALU",
	ThumbHiRegisterOrBX:           "HIREG/BX",
	ThumbPushPop:                  "PUSH/POP",
	ThumbAddSubtract:              "ADD/SUB",
	ThumbPCRelativeLoad:           "LDR(PC)",
	ThumbLoadStoreRegOffset:       "LDR/STR",
	ThumbLoadStoreSignExtended:    "LDRSB/LDRSH",
	ThumbUnconditionalBranch:      "B",
	ThumbLoadStoreHalfword:        "LDRH/STRH",
	ThumbSPRelativeLoadStore:      "LDR/STR(SP)",
	ThumbLoadAddress:              "ADR",
	ThumbMultipleLoadStore:        "LDMIA/STMIA",
	ThumbConditionalBranch:        "B<cond>",
	ThumbLongBranchLink:           "BL",
	ThumbMoveShiftedRegister:      "LSL/LSR/ASR",
	ThumbMoveCmpAddSubImmediate:   "MOV/CMP/ADD/SUB",
	ThumbLoadStoreImmediateOffset: "LDR/STR",
	ThumbUndefined:                "UND",
}

// String renders a terse, non-cycle-exact label for an instruction: its
// decoded kind and the raw word it came from. It is not a mnemonic
// disassembler with operand fields.
func (i Instruction) String() string {
	name, ok := kindNames[i.Kind]
	if !ok {
		name = "?"
	}
	return fmt.Sprintf("%s (%#x)", name, i.Raw)
}
