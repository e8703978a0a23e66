// Package registers implements the ARM7TDMI's sixteen visible registers and
// the banked shadow storage that backs R8..R14 in FIQ mode and R13/R14 in
// the other four privileged modes.
package registers

import "goba/internal/arm7tdmi/psr"

// PC, LR and SP are the conventional indices of R15, R14 and R13.
const (
	PC = 15
	LR = 14
	SP = 13
)

// File is the set of sixteen registers currently visible to the executing
// instruction stream. Only the mode-specific subset lives here at any
// moment; everything else resides in a Bank.
type File struct {
	r [16]uint32
}

// Read returns the raw contents of register i. Reading R15 returns the
// current fetch address; the +8/+4/+12 pipeline correction is applied by
// the executor when R15 is read as an operand, not here (see design note in
// SPEC_FULL.md §3).
func (f *File) Read(i int) uint32 {
	return f.r[i]
}

// Write stores v into register i.
func (f *File) Write(i int, v uint32) {
	f.r[i] = v
}

// ReadPC is shorthand for Read(PC).
func (f *File) ReadPC() uint32 { return f.r[PC] }

// WritePC is shorthand for Write(PC, v).
func (f *File) WritePC(v uint32) { f.r[PC] = v }

// AdvancePC adds n to the program counter.
func (f *File) AdvancePC(n uint32) { f.r[PC] += n }

// AlignARM clears bits [1:0] of the PC, as required before every ARM fetch.
func (f *File) AlignARM() { f.r[PC] &^= 0x3 }

// AlignThumb clears bit [0] of the PC, as required before every Thumb
// fetch.
func (f *File) AlignThumb() { f.r[PC] &^= 0x1 }

// Snapshot returns the sixteen visible registers as a plain array, for
// internal/savestate.
func (f *File) Snapshot() [16]uint32 { return f.r }

// Restore overwrites the sixteen visible registers from a Snapshot.
func (f *File) Restore(s [16]uint32) { f.r = s }

// Bank holds every register the active File does not currently contain:
// the FIQ-only R8..R12, the five modes' private R13/R14 and SPSR, and the
// User/System shared "old" R13/R14.
type Bank struct {
	// FIQ-banked R8..R12 and the non-FIQ shadow of the same registers.
	fiqR8_12 [5]uint32
	oldR8_12 [5]uint32

	fiqR13_14 [2]uint32
	fiqSPSR   psr.PSR

	svcR13_14 [2]uint32
	svcSPSR   psr.PSR

	abtR13_14 [2]uint32
	abtSPSR   psr.PSR

	irqR13_14 [2]uint32
	irqSPSR   psr.PSR

	undR13_14 [2]uint32
	undSPSR   psr.PSR

	// User/System share a single R13/R14 pair.
	oldR13_14 [2]uint32
}

// BankSnapshot is the gob-serialisable form of a Bank, used by
// internal/savestate. PSRs are stored as their raw 32 bit value rather than
// the psr.PSR type itself, since PSR's field is unexported.
type BankSnapshot struct {
	FIQR8_12  [5]uint32
	OldR8_12  [5]uint32
	FIQR13_14 [2]uint32
	FIQSPSR   uint32
	SVCR13_14 [2]uint32
	SVCSPSR   uint32
	ABTR13_14 [2]uint32
	ABTSPSR   uint32
	IRQR13_14 [2]uint32
	IRQSPSR   uint32
	UNDR13_14 [2]uint32
	UNDSPSR   uint32
	OldR13_14 [2]uint32
}

// Snapshot captures every banked register as a BankSnapshot.
func (b *Bank) Snapshot() BankSnapshot {
	return BankSnapshot{
		FIQR8_12:  b.fiqR8_12,
		OldR8_12:  b.oldR8_12,
		FIQR13_14: b.fiqR13_14,
		FIQSPSR:   b.fiqSPSR.Value(),
		SVCR13_14: b.svcR13_14,
		SVCSPSR:   b.svcSPSR.Value(),
		ABTR13_14: b.abtR13_14,
		ABTSPSR:   b.abtSPSR.Value(),
		IRQR13_14: b.irqR13_14,
		IRQSPSR:   b.irqSPSR.Value(),
		UNDR13_14: b.undR13_14,
		UNDSPSR:   b.undSPSR.Value(),
		OldR13_14: b.oldR13_14,
	}
}

// Restore overwrites every banked register from a BankSnapshot.
func (b *Bank) Restore(s BankSnapshot) {
	b.fiqR8_12 = s.FIQR8_12
	b.oldR8_12 = s.OldR8_12
	b.fiqR13_14 = s.FIQR13_14
	b.fiqSPSR.SetRaw(s.FIQSPSR)
	b.svcR13_14 = s.SVCR13_14
	b.svcSPSR.SetRaw(s.SVCSPSR)
	b.abtR13_14 = s.ABTR13_14
	b.abtSPSR.SetRaw(s.ABTSPSR)
	b.irqR13_14 = s.IRQR13_14
	b.irqSPSR.SetRaw(s.IRQSPSR)
	b.undR13_14 = s.UNDR13_14
	b.undSPSR.SetRaw(s.UNDSPSR)
	b.oldR13_14 = s.OldR13_14
}

// SwapMode performs the bank-swap protocol of SPEC_FULL.md §4.3: it moves
// the outgoing mode's bank-owned registers (and active SPSR) from file/spsr
// into their bank slots, then loads the incoming mode's slots into
// file/spsr, leaving the CPSR mode field update to the caller. A no-op if
// from == to.
func (b *Bank) SwapMode(f *File, spsr *psr.PSR, from, to psr.Mode) {
	if from == to {
		return
	}

	switch from {
	case psr.FIQ:
		for i := 0; i < 5; i++ {
			b.fiqR8_12[i] = f.Read(8 + i)
		}
		b.fiqR13_14[0] = f.Read(SP)
		b.fiqR13_14[1] = f.Read(LR)
		b.fiqSPSR = *spsr

		for i := 0; i < 5; i++ {
			f.Write(8+i, b.oldR8_12[i])
		}
	case psr.User, psr.System:
		b.oldR13_14[0] = f.Read(SP)
		b.oldR13_14[1] = f.Read(LR)
	case psr.Supervisor:
		b.svcR13_14[0] = f.Read(SP)
		b.svcR13_14[1] = f.Read(LR)
		b.svcSPSR = *spsr
	case psr.Abort:
		b.abtR13_14[0] = f.Read(SP)
		b.abtR13_14[1] = f.Read(LR)
		b.abtSPSR = *spsr
	case psr.IRQ:
		b.irqR13_14[0] = f.Read(SP)
		b.irqR13_14[1] = f.Read(LR)
		b.irqSPSR = *spsr
	case psr.Undefined:
		b.undR13_14[0] = f.Read(SP)
		b.undR13_14[1] = f.Read(LR)
		b.undSPSR = *spsr
	}

	switch to {
	case psr.FIQ:
		for i := 0; i < 5; i++ {
			b.oldR8_12[i] = f.Read(8 + i)
		}
		for i := 0; i < 5; i++ {
			f.Write(8+i, b.fiqR8_12[i])
		}
		f.Write(SP, b.fiqR13_14[0])
		f.Write(LR, b.fiqR13_14[1])
		*spsr = b.fiqSPSR
	case psr.User, psr.System:
		f.Write(SP, b.oldR13_14[0])
		f.Write(LR, b.oldR13_14[1])
	case psr.Supervisor:
		f.Write(SP, b.svcR13_14[0])
		f.Write(LR, b.svcR13_14[1])
		*spsr = b.svcSPSR
	case psr.Abort:
		f.Write(SP, b.abtR13_14[0])
		f.Write(LR, b.abtR13_14[1])
		*spsr = b.abtSPSR
	case psr.IRQ:
		f.Write(SP, b.irqR13_14[0])
		f.Write(LR, b.irqR13_14[1])
		*spsr = b.irqSPSR
	case psr.Undefined:
		f.Write(SP, b.undR13_14[0])
		f.Write(LR, b.undR13_14[1])
		*spsr = b.undSPSR
	}
}
