package arm7tdmi_test

import (
	"testing"

	"goba/internal/arm7tdmi"
	"goba/internal/arm7tdmi/psr"
	"goba/internal/testhelper"
)

func TestDecodeARMBranchOffset(t *testing.T) {
	instr := arm7tdmi.DecodeARM(0xEA00000F)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ArmBranch)
	testhelper.Equate(t, instr.Cond, psr.AL)
	testhelper.Equate(t, instr.Link, false)
	testhelper.Equate(t, instr.BranchOffset, int32(0x0F)<<2)
}

func TestDecodeARMBranchLinkNegativeOffset(t *testing.T) {
	instr := arm7tdmi.DecodeARM(0xEBFFFFFE)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ArmBranch)
	testhelper.Equate(t, instr.Link, true)
	testhelper.Equate(t, instr.BranchOffset, int32(-8))
}

func TestDecodeARMBranchExchange(t *testing.T) {
	instr := arm7tdmi.DecodeARM(0xE12FFF1E)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ArmBranchExchange)
	testhelper.Equate(t, instr.Rm, 14)
}

func TestDecodeARMDataProcessingImmediate(t *testing.T) {
	// MOVS R0, #0xFF000000 (imm=0xFF, rotate field=4 -> rotate amount 8).
	instr := arm7tdmi.DecodeARM(0xE3B004FF)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ArmDataProcessing)
	testhelper.Equate(t, instr.ALU, arm7tdmi.OpMOV)
	testhelper.Equate(t, instr.S, true)
	testhelper.Equate(t, instr.Imm2, true)
	testhelper.Equate(t, instr.Imm, uint32(0xFF000000))
}

func TestDecodeARMDataProcessingRegisterShiftedByRegister(t *testing.T) {
	// ADD R0, R1, R2, LSL R3
	instr := arm7tdmi.DecodeARM(0xE0810312)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ArmDataProcessing)
	testhelper.Equate(t, instr.ShiftFromReg, true)
	testhelper.Equate(t, instr.ShiftReg, 3)
	testhelper.Equate(t, instr.Rm, 2)
	testhelper.Equate(t, instr.Rn, 1)
	testhelper.Equate(t, instr.Rd, 0)
}

func TestDecodeARMTSTWithSZeroIsMRS(t *testing.T) {
	// MRS R0, CPSR
	instr := arm7tdmi.DecodeARM(0xE10F0000)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ArmPSRTransferMRS)
	testhelper.Equate(t, instr.UseSPSR, false)
	testhelper.Equate(t, instr.Rd, 0)
}

func TestDecodeARMBlockDataTransferRegisterList(t *testing.T) {
	// STMDB R13!, {R0,R1,R15}
	instr := arm7tdmi.DecodeARM(0xE92D8003)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ArmBlockDataTransfer)
	testhelper.Equate(t, instr.Load, false)
	testhelper.Equate(t, instr.WriteBack, true)
	testhelper.Equate(t, instr.Pre, true)
	testhelper.Equate(t, instr.Up, false)
	testhelper.Equate(t, instr.RegisterList, uint16(0x8003))
}
