// Package membus implements the GBA memory map and satisfies
// arm7tdmi.Bus: it routes the CPU's byte/halfword/word reads and writes to
// BIOS ROM, work RAM, I/O registers, palette RAM, VRAM, OAM, cartridge ROM
// and SRAM, and ticks the PPU once per CPU cycle (SPEC_FULL.md §4.8).
package membus

import (
	"encoding/binary"

	"goba/internal/cartridge"
	"goba/internal/logger"
	"goba/internal/ppu"
	"goba/internal/random"
)

// Address space boundaries, as partitioned by original_source's internal
// memory map.
const (
	biosSize = 0x00004000

	ewramBase = 0x02000000
	ewramSize = 0x00040000 // 256 KB

	iwramBase = 0x03000000
	iwramSize = 0x00008000 // 32 KB

	ioBase = 0x04000000
	ioSize = 0x00000400

	paletteBase = 0x05000000
	paletteSize = 0x00000400 // 1 KB (BG + OBJ palettes)

	vramBase = 0x06000000
	vramSize = 0x00018000 // 96 KB

	oamBase = 0x07000000
	oamSize = 0x00000400 // 1 KB

	romBase       = 0x08000000
	romMirrorSize = 0x02000000 // 32 MB per wait-state region, mirrored 3x
	romMaxSize    = 0x02000000

	sramBase = 0x0E000000
	sramSize = 0x00010000 // 64 KB

	// keyinputOffset is KEYINPUT's offset within the I/O register block.
	keyinputOffset = 0x130

	// dispstatOffset and vcountOffset back onto the PPU collaborator
	// rather than the flat ioregs backing store, so a program polling
	// V-blank by spinning on these registers observes real PPU state.
	dispstatOffset = 0x0004
	vcountOffset   = 0x0006
)

// Bus is the concrete arm7tdmi.Bus backing a running emulation: a flat byte
// array per region, a cartridge ROM/SRAM pair, and a PPU collaborator.
type Bus struct {
	bios    []byte
	ewram   []byte
	iwram   []byte
	ioregs  []byte
	palette []byte
	vram    []byte
	oam     []byte
	rom     []byte
	sram    []byte

	PPU *ppu.PPU

	// keyinput mirrors the KEYINPUT register: bit n is 0 when button n is
	// held down (the register is active-low), 1 when released. Reset to
	// all-released.
	keyinput uint16

	Header cartridge.Header
}

// New returns a Bus with bios as the 16 KB BIOS ROM and rom as the loaded
// cartridge image (copied, not aliased, so the caller's slice can be
// reused). rom is zero-padded up to romMaxSize if shorter.
func New(bios []byte, rom []byte) *Bus {
	b := &Bus{
		ewram:   make([]byte, ewramSize),
		iwram:   make([]byte, iwramSize),
		ioregs:  make([]byte, ioSize),
		palette: make([]byte, paletteSize),
		vram:    make([]byte, vramSize),
		oam:     make([]byte, oamSize),
		rom:     make([]byte, romMaxSize),
		sram:    make([]byte, sramSize),
		PPU:     ppu.New(),
	}

	b.bios = make([]byte, biosSize)
	copy(b.bios, bios)
	copy(b.rom, rom)

	b.keyinput = 0x03FF // all ten buttons released
	b.Header = cartridge.Parse(b.rom)

	return b
}

// SeedNoise fills EWRAM and IWRAM with rewindable pseudo-random noise keyed
// off seed, mirroring the indeterminate contents real GBA hardware leaves
// in work RAM at power-on. cmd/goba calls it once at startup with a
// wall-clock seed; the noise itself is reproducible thereafter because the
// PPU's cycle counter it's keyed on is snapshotted alongside it.
func (b *Bus) SeedNoise(seed uint64) {
	r := random.NewRandom(b.PPU, seed)
	for i := range b.ewram {
		b.ewram[i] = r.Rewindable(i)
	}
	for i := range b.iwram {
		b.iwram[i] = r.Rewindable(i)
	}
}

// SetKey sets or clears the active-low bit for button, where button is the
// KEYINPUT bit index (0..9: A, B, Select, Start, Right, Left, Up, Down, R,
// L).
func (b *Bus) SetKey(button uint, pressed bool) {
	mask := uint16(1) << button
	if pressed {
		b.keyinput &^= mask
	} else {
		b.keyinput |= mask
	}
}

// Tick advances the PPU by one CPU cycle and reports V-blank entry.
func (b *Bus) Tick() bool {
	return b.PPU.Tick()
}

// Framebuffer reads VRAM as a BG Mode 3 direct-color bitmap (the one video
// mode simple enough to expose without a tile/sprite/blending pipeline,
// which spec.md §1 places out of scope) and returns it as a packed
// VisibleWidth*VisibleHeight RGBA32 buffer, ready for gui/sdlplay to
// stream into a texture. It does not check DISPCNT's mode bits: callers
// that load a ROM using a different video mode get a bitmap read of
// whatever happens to be in VRAM, which is honest about the simplification
// rather than silently blanking the screen.
func (b *Bus) Framebuffer() []byte {
	out := make([]byte, ppu.VisibleWidth*ppu.VisibleHeight*4)
	for i := 0; i < ppu.VisibleWidth*ppu.VisibleHeight; i++ {
		lo := b.vram[i*2]
		hi := b.vram[i*2+1]
		bgr555 := uint16(lo) | uint16(hi)<<8
		r := uint8(bgr555&0x1F) << 3
		g := uint8((bgr555>>5)&0x1F) << 3
		bch := uint8((bgr555>>10)&0x1F) << 3
		out[i*4+0] = r
		out[i*4+1] = g
		out[i*4+2] = bch
		out[i*4+3] = 0xFF
	}
	return out
}

// region locates the backing slice and local offset for addr, or nil if
// addr falls in an unmapped hole.
func (b *Bus) region(addr uint32) (mem []byte, offset uint32) {
	switch {
	case addr < biosSize:
		return b.bios, addr
	case addr >= ewramBase && addr < ewramBase+ewramSize:
		return b.ewram, addr - ewramBase
	case addr >= iwramBase && addr < iwramBase+iwramSize:
		return b.iwram, addr - iwramBase
	case addr >= ioBase && addr < ioBase+ioSize:
		return b.ioregs, addr - ioBase
	case addr >= paletteBase && addr < paletteBase+paletteSize:
		return b.palette, addr - paletteBase
	case addr >= vramBase && addr < vramBase+vramSize:
		return b.vram, addr - vramBase
	case addr >= oamBase && addr < oamBase+oamSize:
		return b.oam, addr - oamBase
	case addr >= romBase && addr < romBase+3*romMirrorSize:
		return b.rom, (addr - romBase) % romMirrorSize
	case addr >= sramBase && addr < sramBase+sramSize:
		return b.sram, addr - sramBase
	}
	return nil, 0
}

func (b *Bus) unmapped(op string, addr uint32) {
	logger.Logf(logger.Allow, "membus", "%s to unmapped address %#08x", op, addr)
}

// ioOverride intercepts reads of I/O registers that are live views onto a
// collaborator (KEYINPUT, DISPSTAT, VCOUNT) rather than flat storage, and
// reports whether addr was one of those.
func (b *Bus) ioOverride(addr uint32) (value uint16, handled bool) {
	if addr < ioBase || addr >= ioBase+ioSize {
		return 0, false
	}
	switch addr - ioBase {
	case keyinputOffset:
		return b.keyinput, true
	case dispstatOffset:
		var v uint16
		if b.PPU.InVBlank() {
			v |= 0x0001
		}
		if b.PPU.InHBlank() {
			v |= 0x0002
		}
		return v, true
	case vcountOffset:
		return uint16(b.PPU.VCount()), true
	}
	return 0, false
}

// ReadByte implements arm7tdmi.Bus.
func (b *Bus) ReadByte(addr uint32) uint8 {
	if v, ok := b.ioOverride(addr &^ 1); ok {
		if addr&1 != 0 {
			return uint8(v >> 8)
		}
		return uint8(v)
	}
	mem, off := b.region(addr)
	if mem == nil {
		b.unmapped("read", addr)
		return 0
	}
	return mem[off]
}

// ReadHalf implements arm7tdmi.Bus. addr is expected halfword-aligned by
// the CPU core; membus does not re-align it.
func (b *Bus) ReadHalf(addr uint32) uint16 {
	if v, ok := b.ioOverride(addr); ok {
		return v
	}
	mem, off := b.region(addr)
	if mem == nil || int(off)+2 > len(mem) {
		b.unmapped("read", addr)
		return 0
	}
	return binary.LittleEndian.Uint16(mem[off:])
}

// ReadWord implements arm7tdmi.Bus.
func (b *Bus) ReadWord(addr uint32) uint32 {
	if v, ok := b.ioOverride(addr); ok {
		hi, _ := b.ioOverride(addr + 2)
		return uint32(v) | uint32(hi)<<16
	}
	mem, off := b.region(addr)
	if mem == nil || int(off)+4 > len(mem) {
		b.unmapped("read", addr)
		return 0
	}
	return binary.LittleEndian.Uint32(mem[off:])
}

// liveRegister reports whether addr (rounded down to its containing
// halfword) is one of the I/O registers backed by a collaborator rather
// than flat storage: writes there are absorbed rather than stored.
func (b *Bus) liveRegister(addr uint32) bool {
	_, ok := b.ioOverride(addr &^ 1)
	return ok
}

// WriteByte implements arm7tdmi.Bus. Writes to BIOS ROM are no-ops, logged
// as a recoverable warning; writes to live registers (KEYINPUT, DISPSTAT,
// VCOUNT — host/PPU-owned) are dropped without logging.
func (b *Bus) WriteByte(addr uint32, v uint8) {
	if addr < biosSize {
		b.unmapped("write to read-only BIOS", addr)
		return
	}
	if b.liveRegister(addr) {
		return
	}
	mem, off := b.region(addr)
	if mem == nil {
		b.unmapped("write", addr)
		return
	}
	mem[off] = v
}

// WriteHalf implements arm7tdmi.Bus.
func (b *Bus) WriteHalf(addr uint32, v uint16) {
	if addr < biosSize {
		b.unmapped("write to read-only BIOS", addr)
		return
	}
	if b.liveRegister(addr) {
		return
	}
	mem, off := b.region(addr)
	if mem == nil || int(off)+2 > len(mem) {
		b.unmapped("write", addr)
		return
	}
	binary.LittleEndian.PutUint16(mem[off:], v)
}

// Snapshot is the gob-serialisable form of a Bus's mutable memory regions,
// used by internal/savestate. The cartridge ROM and parsed Header are not
// included: a loaded ROM is re-supplied by the host when restoring, not
// round-tripped through the save file (SPEC_FULL.md §4.10).
type Snapshot struct {
	EWRAM    []byte
	IWRAM    []byte
	IORegs   []byte
	Palette  []byte
	VRAM     []byte
	SRAM     []byte
	Keyinput uint16
	PPU      ppu.Snapshot
}

// Snapshot captures every mutable memory region and the PPU's timing
// counter. Read-only regions (BIOS, cartridge ROM) are not included.
func (b *Bus) Snapshot() Snapshot {
	return Snapshot{
		EWRAM:    append([]byte(nil), b.ewram...),
		IWRAM:    append([]byte(nil), b.iwram...),
		IORegs:   append([]byte(nil), b.ioregs...),
		Palette:  append([]byte(nil), b.palette...),
		VRAM:     append([]byte(nil), b.vram...),
		SRAM:     append([]byte(nil), b.sram...),
		Keyinput: b.keyinput,
		PPU:      b.PPU.Snapshot(),
	}
}

// Restore overwrites every mutable memory region and the PPU's timing
// counter from s. It does not touch BIOS or cartridge ROM/Header: those
// come from whatever ROM the host has already loaded into b.
func (b *Bus) Restore(s Snapshot) {
	copy(b.ewram, s.EWRAM)
	copy(b.iwram, s.IWRAM)
	copy(b.ioregs, s.IORegs)
	copy(b.palette, s.Palette)
	copy(b.vram, s.VRAM)
	copy(b.sram, s.SRAM)
	b.keyinput = s.Keyinput
	b.PPU.Restore(s.PPU)
}

// WriteWord implements arm7tdmi.Bus.
func (b *Bus) WriteWord(addr uint32, v uint32) {
	if addr < biosSize {
		b.unmapped("write to read-only BIOS", addr)
		return
	}
	if b.liveRegister(addr) {
		return
	}
	mem, off := b.region(addr)
	if mem == nil || int(off)+4 > len(mem) {
		b.unmapped("write", addr)
		return
	}
	binary.LittleEndian.PutUint32(mem[off:], v)
}
