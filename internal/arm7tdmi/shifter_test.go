package arm7tdmi_test

import (
	"testing"

	"goba/internal/arm7tdmi"
	"goba/internal/testhelper"
)

func TestShiftLSLZeroPassesCarry(t *testing.T) {
	r := arm7tdmi.Shift(arm7tdmi.LSL, 0xFFFFFFFF, 0, true, true)
	testhelper.Equate(t, r.Value, uint32(0xFFFFFFFF))
	testhelper.Equate(t, r.Carry, true)
}

func TestShiftLSL32(t *testing.T) {
	r := arm7tdmi.Shift(arm7tdmi.LSL, 0x00000001, 32, false, false)
	testhelper.Equate(t, r.Value, uint32(0))
	testhelper.Equate(t, r.Carry, true)
}

func TestShiftLSLBeyond32(t *testing.T) {
	r := arm7tdmi.Shift(arm7tdmi.LSL, 0xFFFFFFFF, 33, false, false)
	testhelper.Equate(t, r.Value, uint32(0))
	testhelper.Equate(t, r.Carry, false)
}

func TestShiftLSRImmediateZeroIsLSR32(t *testing.T) {
	r := arm7tdmi.Shift(arm7tdmi.LSR, 0x80000000, 0, true, false)
	testhelper.Equate(t, r.Value, uint32(0))
	testhelper.Equate(t, r.Carry, true)
}

func TestShiftASRSignExtends(t *testing.T) {
	r := arm7tdmi.Shift(arm7tdmi.ASR, 0x80000000, 4, false, false)
	testhelper.Equate(t, r.Value, uint32(0xF8000000))
	testhelper.Equate(t, r.Carry, false)
}

func TestShiftASRBeyond32NegativeSaturates(t *testing.T) {
	r := arm7tdmi.Shift(arm7tdmi.ASR, 0x80000000, 40, false, false)
	testhelper.Equate(t, r.Value, uint32(0xFFFFFFFF))
	testhelper.Equate(t, r.Carry, true)
}

func TestShiftRORAmount33EqualsROR1(t *testing.T) {
	direct := arm7tdmi.Shift(arm7tdmi.ROR, 0x00000001, 1, false, false)
	wrapped := arm7tdmi.Shift(arm7tdmi.ROR, 0x00000001, 33, false, false)
	testhelper.Equate(t, wrapped.Value, direct.Value)
	testhelper.Equate(t, wrapped.Carry, direct.Carry)
}

func TestShiftRORImmediateZeroIsRRX(t *testing.T) {
	r := arm7tdmi.Shift(arm7tdmi.ROR, 0x00000002, 0, true, true)
	testhelper.Equate(t, r.Value, uint32(0x80000001))
	testhelper.Equate(t, r.Carry, false)
}

func TestShiftRORMultipleOf32(t *testing.T) {
	r := arm7tdmi.Shift(arm7tdmi.ROR, 0x80000001, 32, false, false)
	testhelper.Equate(t, r.Value, uint32(0x80000001))
	testhelper.Equate(t, r.Carry, true)
}
