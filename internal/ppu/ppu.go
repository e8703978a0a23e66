// Package ppu is a minimal, non-cycle-exact stand-in for the GBA's LCD
// controller: just enough scanline bookkeeping to drive VCOUNT/DISPSTAT
// reads and to tell the CPU core when V-blank starts. Pixel output is out
// of scope (spec §1); nothing here ever touches VRAM or palette RAM.
package ppu

// Timing constants taken from the GBA's LCD: 228 scanlines per frame, four
// cycles per dot, 308 dots per scanline.
const (
	CyclesPerScanline = 1232
	ScanlinesPerFrame = 228
	VBlankStartLine   = 160

	// VisibleWidth and VisibleHeight are the LCD's visible resolution. A
	// framebuffer at this size is read out of VRAM by internal/membus
	// (Mode 3 bitmap only; tiled modes, sprites and blending are out of
	// scope, spec.md §1).
	VisibleWidth  = 240
	VisibleHeight = 160
)

// PPU tracks the current dot within the current frame. It has no concept of
// pixels; VCount, InVBlank, InHBlank and Cycle are all a caller can observe.
type PPU struct {
	dot   int    // 0..CyclesPerScanline*ScanlinesPerFrame-1
	total uint64 // cycles ticked since construction, never wraps
}

// New returns a PPU reset to the top of the frame.
func New() *PPU {
	return &PPU{}
}

// Tick advances the PPU by one CPU cycle and reports whether this cycle is
// the first of V-blank (the rising edge, not the whole duration).
func (p *PPU) Tick() (enteredVBlank bool) {
	before := p.scanline()
	p.dot++
	p.total++
	if p.dot >= CyclesPerScanline*ScanlinesPerFrame {
		p.dot = 0
	}
	after := p.scanline()
	return before != VBlankStartLine && after == VBlankStartLine
}

// Cycle satisfies internal/random's CycleSource: the total number of cycles
// ticked since construction, used to key rewindable noise generation.
func (p *PPU) Cycle() uint64 {
	return p.total
}

func (p *PPU) scanline() int {
	return p.dot / CyclesPerScanline
}

// VCount is the value the VCOUNT I/O register (0x04000006) reads as: the
// current scanline, 0..227.
func (p *PPU) VCount() uint8 {
	return uint8(p.scanline())
}

// InVBlank is DISPSTAT bit 0: set for scanlines 160..227 inclusive.
func (p *PPU) InVBlank() bool {
	return p.scanline() >= VBlankStartLine
}

// InHBlank is DISPSTAT bit 1: set for the last ~68 of each scanline's 308
// dots (the portion of CyclesPerScanline past the 240 visible dots).
func (p *PPU) InHBlank() bool {
	const visibleCycles = 240 * 4
	return p.dot%CyclesPerScanline >= visibleCycles
}

// Reset returns the PPU to the top of the frame, as on a hard reset or a
// save-state load that has no PPU snapshot.
func (p *PPU) Reset() {
	p.dot = 0
}

// Snapshot is the gob-serialisable form of a PPU's timing state.
type Snapshot struct {
	Dot   int
	Total uint64
}

// Snapshot and Restore let internal/savestate capture and reinstate PPU
// timing without reaching into unexported fields.
func (p *PPU) Snapshot() Snapshot { return Snapshot{Dot: p.dot, Total: p.total} }
func (p *PPU) Restore(s Snapshot) { p.dot = s.Dot; p.total = s.Total }
