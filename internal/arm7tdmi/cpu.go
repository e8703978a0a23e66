// Package arm7tdmi implements the ARM7TDMI instruction set: decoding of
// both the 32 bit ARM and 16 bit Thumb instruction streams, the barrel
// shifter and ALU, and the three-stage pipelined core that executes them
// against a caller-supplied bus.
package arm7tdmi

import (
	"goba/internal/arm7tdmi/psr"
	"goba/internal/arm7tdmi/registers"
	"goba/internal/curatederrors"
)

// Bus is everything the core needs from the system it is plugged into: byte,
// halfword and word addressed memory, and a cycle ledger the core debits as
// it fetches, decodes and executes. A concrete Bus (see internal/membus)
// owns the GBA's actual memory map; the core itself is agnostic to it.
type Bus interface {
	ReadByte(addr uint32) uint8
	ReadHalf(addr uint32) uint16
	ReadWord(addr uint32) uint32
	WriteByte(addr uint32, v uint8)
	WriteHalf(addr uint32, v uint16)
	WriteWord(addr uint32, v uint32)

	// Tick advances the PPU and timers by one CPU cycle and reports
	// whether that cycle was the one that entered V-blank.
	Tick() (vblank bool)
}

// pipelineSlot holds one in-flight instruction word and the PC it was
// fetched from.
type pipelineSlot struct {
	valid bool
	addr  uint32
	raw   uint32 // widened to 32 bits regardless of ARM/Thumb
	thumb bool   // instruction set active when this word was fetched
}

// Core is one ARM7TDMI processor: register file, banked shadow registers,
// CPSR/SPSR, and the fetch/decode/execute pipeline. Core holds no memory of
// its own; all loads and stores go through Bus.
type Core struct {
	Regs registers.File
	Bank registers.Bank
	CPSR psr.PSR
	spsr psr.PSR

	Bus Bus

	fetch, decode pipelineSlot
	decodedInstr  Instruction

	// Halted, while set, makes Step a pure cycle burn: it ticks the bus once
	// and executes nothing. No instruction sets or clears it; only Restore
	// writes it.
	Halted bool

	// vblank accumulates across every tick() call made during the Step
	// currently in flight, so a single Step can report V-blank entry even
	// though it debits several cycles (a multiply, a block transfer).
	vblank bool
}

// tick debits cycles CPU cycles from the bus, latching vblank if any of
// them entered V-blank.
func (c *Core) tick(cycles int) {
	for i := 0; i < cycles; i++ {
		if c.Bus.Tick() {
			c.vblank = true
		}
	}
}

// NewCore constructs a Core wired to bus, reset into Supervisor mode with
// interrupts masked, as the ARM7TDMI does on power-up.
func NewCore(bus Bus) *Core {
	c := &Core{Bus: bus}
	c.CPSR.SetRaw(uint32(psr.Supervisor) | 0x40 | 0x80) // F and I set, ARM state
	return c
}

// Reset drives the core's entry into the reset exception: Supervisor mode,
// IRQ and FIQ masked, PC set to the reset vector, pipeline flushed.
func (c *Core) Reset() {
	from := c.CPSR.Mode()
	c.Bank.SwapMode(&c.Regs, &c.spsr, from, psr.Supervisor)
	c.CPSR.SetMode(psr.Supervisor)
	c.CPSR.SetI(true)
	c.CPSR.SetF(true)
	c.CPSR.SetThumb(false)
	c.Regs.WritePC(0x00000000)
	c.flushPipeline()
}

func (c *Core) flushPipeline() {
	c.fetch = pipelineSlot{}
	c.decode = pipelineSlot{}
}

// pcOffset returns the value added to the address of the currently
// executing instruction to produce what that instruction sees as "PC": +8
// in ARM state, +4 in Thumb state, with a further +4 special case the
// caller applies when operand2 is a register-specified shift amount.
func (c *Core) pcOffset() uint32 {
	if c.CPSR.Thumb() {
		return 4
	}
	return 8
}

// ReadReg returns the value an instruction sees when it reads register i as
// an operand: R15 reads as the fetch address of the instruction plus the
// pipeline offset (SPEC_FULL.md §3); every other register reads its plain
// contents.
func (c *Core) ReadReg(i int) uint32 {
	if i == registers.PC {
		return c.decode.addr + c.pcOffset()
	}
	return c.Regs.Read(i)
}

// ReadRegShiftByReg is ReadReg for the one case where R15 gains an extra +4:
// the base register of a data-processing operand2 that is itself shifted by
// a register (not an immediate) amount.
func (c *Core) ReadRegShiftByReg(i int) uint32 {
	if i == registers.PC {
		return c.decode.addr + c.pcOffset() + 4
	}
	return c.Regs.Read(i)
}

// WriteReg stores v into register i. Writing R15 is a branch: the caller is
// responsible for calling FlushAndRefill afterwards.
func (c *Core) WriteReg(i int, v uint32) {
	c.Regs.Write(i, v)
}

// FlushAndRefill is called after any write to R15: it re-aligns the new PC
// for the current instruction set and discards the two in-flight pipeline
// stages, exactly as a real branch empties the fetch and decode slots.
func (c *Core) FlushAndRefill(newPC uint32) {
	if c.CPSR.Thumb() {
		c.Regs.WritePC(newPC &^ 1)
	} else {
		c.Regs.WritePC(newPC &^ 3)
	}
	c.flushPipeline()
}

// SwapToMode performs a privileged mode change: banks out the current
// mode's registers and SPSR, banks in the target mode's, and updates
// CPSR.Mode. Used by the exception-entry sequence (raiseException); an MSR
// that changes the mode field performs its own bank swap in execMSR.
func (c *Core) SwapToMode(to psr.Mode) {
	from := c.CPSR.Mode()
	if from == to {
		return
	}
	c.Bank.SwapMode(&c.Regs, &c.spsr, from, to)
	c.CPSR.SetMode(to)
}

// SPSR returns the SPSR of the current mode. Reading it in User or System
// mode (which have none) is an execute-time error surfaced by the caller
// (execMRS/execMSR), not checked here.
func (c *Core) SPSR() *psr.PSR { return &c.spsr }

// restoreCPSRFromSPSR implements the "MOVS/ADDS/... PC, ..." exception
// return idiom: CPSR (including its mode field) is overwritten wholesale
// from the current mode's SPSR, banking registers if that changes mode.
func (c *Core) restoreCPSRFromSPSR() {
	restored := *c.SPSR()
	if restored.Mode() != c.CPSR.Mode() {
		c.Bank.SwapMode(&c.Regs, &c.spsr, c.CPSR.Mode(), restored.Mode())
	}
	c.CPSR = restored
}

// Step runs one pipeline cycle: the decoded instruction in the decode slot
// (if any) runs, the fetch slot's word is decoded and promoted to the decode
// slot, and a fresh word is fetched from the current PC. This models the ARM7TDMI's
// three-stage pipeline without claiming cycle-exact timing (SPEC_FULL.md
// §4.5.8 scopes timing out explicitly). The returned bool reports whether
// the bus entered V-blank at any point during this Step.
func (c *Core) Step() (bool, error) {
	c.vblank = false

	if c.Halted {
		c.tick(1)
		return c.vblank, nil
	}

	// Execute whatever was sitting in decode from the previous Step. This
	// may itself change CPSR.Thumb (BX, an exception, a PC-writing MOVS),
	// which is why the fetch below re-reads CPSR.Thumb() fresh and the
	// decode below uses the mode recorded in its slot, rather than either
	// trusting a value cached before execute ran.
	if c.decode.valid {
		instr := c.decodedInstr
		if c.CPSR.ConditionHolds(instr.Cond) {
			if err := c.execute(instr); err != nil {
				return c.vblank, err
			}
		} else {
			c.tick(1)
		}
	}

	// Promote fetch -> decode, decoding eagerly so ReadReg's PC math in the
	// next Step has decode.addr available. Decode under the instruction
	// set that was active when this word was fetched, not whatever is
	// active now: a branch that changes mode also flushes the pipeline, so
	// a surviving (non-flushed) slot was always fetched under today's mode.
	c.decode = c.fetch
	if c.decode.valid {
		if c.decode.thumb {
			c.decodedInstr = DecodeThumb(uint16(c.decode.raw))
		} else {
			c.decodedInstr = DecodeARM(c.decode.raw)
		}
	}

	// Fetch a fresh word from the current PC, under whatever instruction
	// set execute left CPSR in.
	thumb := c.CPSR.Thumb()
	pc := c.Regs.ReadPC()
	var raw uint32
	if thumb {
		raw = uint32(c.Bus.ReadHalf(pc))
		c.Regs.WritePC(pc + 2)
	} else {
		raw = c.Bus.ReadWord(pc)
		c.Regs.WritePC(pc + 4)
	}
	c.fetch = pipelineSlot{valid: true, addr: pc, raw: raw, thumb: thumb}

	c.tick(1)
	return c.vblank, nil
}

// PendingPC returns the address of the instruction sitting in the decode
// slot, the one the next Step will execute, and whether that slot is
// currently valid (it isn't right after Reset or a branch, until the
// pipeline has refilled). A debugger tests breakpoints against this address
// before calling Step, not against ReadPC (which always reads ahead, as the
// fetch address).
func (c *Core) PendingPC() (addr uint32, valid bool) {
	return c.decode.addr, c.decode.valid
}

// PendingInstruction returns the decoded instruction sitting in the decode
// slot, for a debugger's disassembly view. Only meaningful when PendingPC
// reports valid.
func (c *Core) PendingInstruction() Instruction {
	return c.decodedInstr
}

// raisePanic converts an internal invariant violation (a Kind that should
// never reach the executor, e.g. a coprocessor instruction) into a curated
// error rather than letting it escape as a bare panic recover target.
func raisePanic(format string, values ...any) error {
	return curatederrors.Errorf(curatederrors.Execute, format, values...)
}

// Snapshot is the gob-serialisable form of a Core, used by
// internal/savestate. CPSR/SPSR are stored as raw values rather than
// psr.PSR itself (whose field is unexported); the pipeline's decoded
// instruction is not stored since Restore recomputes it from the stored
// raw word.
type Snapshot struct {
	Regs [16]uint32
	Bank registers.BankSnapshot
	CPSR uint32
	SPSR uint32

	FetchValid, DecodeValid bool
	FetchAddr, DecodeAddr   uint32
	FetchRaw, DecodeRaw     uint32
	FetchThumb, DecodeThumb bool

	Halted bool
}

// Snapshot captures the entire architectural and pipeline state of c.
func (c *Core) Snapshot() Snapshot {
	return Snapshot{
		Regs: c.Regs.Snapshot(),
		Bank: c.Bank.Snapshot(),
		CPSR: c.CPSR.Value(),
		SPSR: c.spsr.Value(),

		FetchValid: c.fetch.valid,
		FetchAddr:  c.fetch.addr,
		FetchRaw:   c.fetch.raw,
		FetchThumb: c.fetch.thumb,

		DecodeValid: c.decode.valid,
		DecodeAddr:  c.decode.addr,
		DecodeRaw:   c.decode.raw,
		DecodeThumb: c.decode.thumb,

		Halted: c.Halted,
	}
}

// Restore overwrites c's entire architectural and pipeline state from s.
// The decode slot's instruction, if valid, is re-decoded from its stored
// raw word rather than carried across as a serialised Instruction.
func (c *Core) Restore(s Snapshot) {
	c.Regs.Restore(s.Regs)
	c.Bank.Restore(s.Bank)
	c.CPSR.SetRaw(s.CPSR)
	c.spsr.SetRaw(s.SPSR)

	c.fetch = pipelineSlot{valid: s.FetchValid, addr: s.FetchAddr, raw: s.FetchRaw, thumb: s.FetchThumb}
	c.decode = pipelineSlot{valid: s.DecodeValid, addr: s.DecodeAddr, raw: s.DecodeRaw, thumb: s.DecodeThumb}
	if c.decode.valid {
		if c.decode.thumb {
			c.decodedInstr = DecodeThumb(uint16(c.decode.raw))
		} else {
			c.decodedInstr = DecodeARM(c.decode.raw)
		}
	}

	c.Halted = s.Halted
	c.vblank = false
}
