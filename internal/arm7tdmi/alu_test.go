package arm7tdmi_test

import (
	"testing"

	"goba/internal/arm7tdmi"
	"goba/internal/testhelper"
)

func TestApplyALUAddOverflow(t *testing.T) {
	result, out := arm7tdmi.ApplyALU(arm7tdmi.OpADD, 0x7FFFFFFF, 1, false, false)
	testhelper.Equate(t, result, uint32(0x80000000))
	testhelper.Equate(t, out.V, true)
	testhelper.Equate(t, out.C, false)
	testhelper.Equate(t, out.N, true)
}

func TestApplyALUAddCarryOut(t *testing.T) {
	result, out := arm7tdmi.ApplyALU(arm7tdmi.OpADD, 0xFFFFFFFF, 2, false, false)
	testhelper.Equate(t, result, uint32(1))
	testhelper.Equate(t, out.C, true)
	testhelper.Equate(t, out.V, false)
}

func TestApplyALUADCWithCarryIn(t *testing.T) {
	result, out := arm7tdmi.ApplyALU(arm7tdmi.OpADC, 1, 1, false, true)
	testhelper.Equate(t, result, uint32(3))
	testhelper.Equate(t, out.C, false)
}

func TestApplyALUSubSetsCarryWhenNoBorrow(t *testing.T) {
	_, out := arm7tdmi.ApplyALU(arm7tdmi.OpSUB, 5, 3, false, false)
	testhelper.Equate(t, out.C, true)
}

func TestApplyALUSubClearsCarryOnBorrow(t *testing.T) {
	_, out := arm7tdmi.ApplyALU(arm7tdmi.OpSUB, 3, 5, false, false)
	testhelper.Equate(t, out.C, false)
}

func TestApplyALUSBCConsumesCarryIn(t *testing.T) {
	// 5 - 3 - (1 - carryIn); carryIn false means an extra 1 is borrowed.
	result, _ := arm7tdmi.ApplyALU(arm7tdmi.OpSBC, 5, 3, false, false)
	testhelper.Equate(t, result, uint32(1))
}

func TestApplyALURSB(t *testing.T) {
	result, _ := arm7tdmi.ApplyALU(arm7tdmi.OpRSB, 3, 10, false, false)
	testhelper.Equate(t, result, uint32(7))
}

func TestApplyALULogicalCarriesShifterCarry(t *testing.T) {
	_, out := arm7tdmi.ApplyALU(arm7tdmi.OpAND, 0xFF, 0x0F, true, false)
	testhelper.Equate(t, out.C, true)
}

func TestApplyALUCMPDoesNotWriteResult(t *testing.T) {
	testhelper.Equate(t, arm7tdmi.OpCMP.WritesResult(), false)
	testhelper.Equate(t, arm7tdmi.OpADD.WritesResult(), true)
}

func TestApplyALUMOVIgnoresOperand1(t *testing.T) {
	result, _ := arm7tdmi.ApplyALU(arm7tdmi.OpMOV, 0xDEAD, 0x1234, false, false)
	testhelper.Equate(t, result, uint32(0x1234))
}

func TestApplyALUBIC(t *testing.T) {
	result, _ := arm7tdmi.ApplyALU(arm7tdmi.OpBIC, 0xFF, 0x0F, false, false)
	testhelper.Equate(t, result, uint32(0xF0))
}
