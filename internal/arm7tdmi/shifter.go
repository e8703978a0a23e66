package arm7tdmi

import "goba/internal/arm7tdmi/bits"

// ShiftResult is the barrel shifter's output: the shifted value and the
// carry bit it produces, which feeds CPSR.C for logical data-processing
// operations (SPEC_FULL.md §4.5.2).
type ShiftResult struct {
	Value uint32
	Carry bool
}

// Shift applies kind to value by amount, given the carry-in flag the
// shifter falls back to when amount is a register-specified zero (LSL #0
// with no rotation is the one shift that passes the carry flag through
// unchanged). immediate distinguishes an instruction-immediate shift amount
// (where amount 0 has special per-kind meaning) from a register-specified
// one (where amount 0 is always a no-op).
func Shift(kind ShiftKind, value uint32, amount uint32, immediate bool, carryIn bool) ShiftResult {
	switch kind {
	case LSL:
		return shiftLSL(value, amount, immediate, carryIn)
	case LSR:
		return shiftLSR(value, amount, immediate, carryIn)
	case ASR:
		return shiftASR(value, amount, immediate, carryIn)
	default:
		return shiftROR(value, amount, immediate, carryIn)
	}
}

func shiftLSL(value, amount uint32, immediate bool, carryIn bool) ShiftResult {
	if immediate && amount == 0 {
		return ShiftResult{Value: value, Carry: carryIn}
	}
	switch {
	case amount == 0:
		return ShiftResult{Value: value, Carry: carryIn}
	case amount < 32:
		return ShiftResult{Value: value << amount, Carry: bits.Bit(value, uint(32-amount))}
	case amount == 32:
		return ShiftResult{Value: 0, Carry: bits.Bit(value, 0)}
	default:
		return ShiftResult{Value: 0, Carry: false}
	}
}

func shiftLSR(value, amount uint32, immediate bool, carryIn bool) ShiftResult {
	if immediate && amount == 0 {
		// LSR #0 is architecturally LSR #32.
		amount = 32
	}
	switch {
	case amount == 0:
		return ShiftResult{Value: value, Carry: carryIn}
	case amount < 32:
		return ShiftResult{Value: value >> amount, Carry: bits.Bit(value, uint(amount-1))}
	case amount == 32:
		return ShiftResult{Value: 0, Carry: bits.Bit(value, 31)}
	default:
		return ShiftResult{Value: 0, Carry: false}
	}
}

func shiftASR(value, amount uint32, immediate bool, carryIn bool) ShiftResult {
	if immediate && amount == 0 {
		// ASR #0 is architecturally ASR #32.
		amount = 32
	}
	signed := int32(value)
	switch {
	case amount == 0:
		return ShiftResult{Value: value, Carry: carryIn}
	case amount < 32:
		return ShiftResult{Value: uint32(signed >> amount), Carry: bits.Bit(value, uint(amount-1))}
	default:
		// ASR by 32 or more: result is all sign bits, carry is the sign bit.
		if bits.Bit(value, 31) {
			return ShiftResult{Value: 0xFFFFFFFF, Carry: true}
		}
		return ShiftResult{Value: 0, Carry: false}
	}
}

func shiftROR(value, amount uint32, immediate bool, carryIn bool) ShiftResult {
	if immediate && amount == 0 {
		// ROR #0 in an instruction encoding means RRX: rotate right by one
		// through the carry flag.
		var carryBit uint32
		if carryIn {
			carryBit = 1
		}
		return ShiftResult{Value: (value >> 1) | (carryBit << 31), Carry: bits.Bit(value, 0)}
	}

	if amount == 0 {
		return ShiftResult{Value: value, Carry: carryIn}
	}

	n := amount & 31
	if n == 0 {
		// A multiple of 32: value is unchanged, carry is bit 31.
		return ShiftResult{Value: value, Carry: bits.Bit(value, 31)}
	}
	return ShiftResult{Value: bits.RotateRight(value, uint(n)), Carry: bits.Bit(value, uint(n-1))}
}
