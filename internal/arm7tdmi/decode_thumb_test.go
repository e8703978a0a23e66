package arm7tdmi_test

import (
	"testing"

	"goba/internal/arm7tdmi"
	"goba/internal/testhelper"
)

func TestDecodeThumbMoveShiftedRegister(t *testing.T) {
	// LSL R1, R2, #3
	instr := arm7tdmi.DecodeThumb(0x00D1)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ThumbMoveShiftedRegister)
	testhelper.Equate(t, instr.ShiftKind, arm7tdmi.LSL)
	testhelper.Equate(t, instr.ShiftAmount, uint32(3))
	testhelper.Equate(t, instr.Rm, 2)
	testhelper.Equate(t, instr.Rd, 1)
}

func TestDecodeThumbAddSubtractRegister(t *testing.T) {
	// ADD R0, R1, R2
	instr := arm7tdmi.DecodeThumb(0x1888)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ThumbAddSubtract)
	testhelper.Equate(t, instr.ALU, arm7tdmi.OpADD)
	testhelper.Equate(t, instr.Rn, 1)
	testhelper.Equate(t, instr.Rm, 2)
	testhelper.Equate(t, instr.Rd, 0)
}

func TestDecodeThumbMoveImmediate(t *testing.T) {
	// MOV R3, #0x42
	instr := arm7tdmi.DecodeThumb(0x2342)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ThumbMoveCmpAddSubImmediate)
	testhelper.Equate(t, instr.ThumbOp, 0)
	testhelper.Equate(t, instr.Rd, 3)
	testhelper.Equate(t, instr.Imm, uint32(0x42))
}

func TestDecodeThumbHiRegisterBX(t *testing.T) {
	// BX R14
	instr := arm7tdmi.DecodeThumb(0x4770)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ThumbHiRegisterOrBX)
	testhelper.Equate(t, instr.ThumbOp, 3)
	testhelper.Equate(t, instr.Rm, 14)
}

func TestDecodeThumbLongBranchLinkPair(t *testing.T) {
	high := arm7tdmi.DecodeThumb(0xF000)
	low := arm7tdmi.DecodeThumb(0xF800)
	testhelper.Equate(t, high.Kind, arm7tdmi.ThumbLongBranchLink)
	testhelper.Equate(t, high.ThumbBLHigh, true)
	testhelper.Equate(t, low.ThumbBLHigh, false)
}

func TestDecodeThumbUnconditionalBranchOffset(t *testing.T) {
	// B -4 (offset11 = 0x7FE, sign bit set)
	instr := arm7tdmi.DecodeThumb(0xE7FE)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ThumbUnconditionalBranch)
	testhelper.Equate(t, instr.BranchOffset, int32(-4))
}

func TestDecodeThumbPushPop(t *testing.T) {
	// PUSH {R0,R1,LR}
	instr := arm7tdmi.DecodeThumb(0xB503)
	testhelper.Equate(t, instr.Kind, arm7tdmi.ThumbPushPop)
	testhelper.Equate(t, instr.Load, false)
	testhelper.Equate(t, instr.ForceUser, true)
	testhelper.Equate(t, instr.RegisterList, uint16(0x03))
}
