package arm7tdmi_test

import (
	"encoding/binary"
	"testing"

	"goba/internal/arm7tdmi"
	"goba/internal/arm7tdmi/psr"
	"goba/internal/arm7tdmi/registers"
	"goba/internal/testhelper"
)

// flatBus is a flat byte-addressable memory used only to exercise Core in
// tests; it implements arm7tdmi.Bus with no wait states.
type flatBus struct {
	mem []byte
}

func newFlatBus(size int) *flatBus { return &flatBus{mem: make([]byte, size)} }

func (b *flatBus) ReadByte(addr uint32) uint8 { return b.mem[addr] }
func (b *flatBus) ReadHalf(addr uint32) uint16 {
	return binary.LittleEndian.Uint16(b.mem[addr:])
}
func (b *flatBus) ReadWord(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(b.mem[addr:])
}
func (b *flatBus) WriteByte(addr uint32, v uint8) { b.mem[addr] = v }
func (b *flatBus) WriteHalf(addr uint32, v uint16) {
	binary.LittleEndian.PutUint16(b.mem[addr:], v)
}
func (b *flatBus) WriteWord(addr uint32, v uint32) {
	binary.LittleEndian.PutUint32(b.mem[addr:], v)
}
func (b *flatBus) Tick() bool { return false }

func (b *flatBus) putARM(addr uint32, word uint32) { b.WriteWord(addr, word) }
func (b *flatBus) putThumb(addr uint32, half uint16) { b.WriteHalf(addr, half) }

// runN steps the pipeline enough times to retire n instructions from a cold
// start (the first two Steps only fill the pipeline).
func runN(c *arm7tdmi.Core, n int) {
	for i := 0; i < n+2; i++ {
		if _, err := c.Step(); err != nil {
			panic(err)
		}
	}
}

func newARMCore() (*arm7tdmi.Core, *flatBus) {
	bus := newFlatBus(0x10000)
	core := arm7tdmi.NewCore(bus)
	core.CPSR.SetMode(psr.System)
	core.CPSR.SetThumb(false)
	core.Regs.WritePC(0)
	return core, bus
}

func TestStepBranchPositiveOffset(t *testing.T) {
	core, bus := newARMCore()
	bus.putARM(0, 0xEA00000F) // B #0x3C forward (from §8 example)
	runN(core, 1)
	// PC always reads as the address of the word currently being fetched,
	// one instruction past the branch target the Step that retires the
	// branch also refills.
	target := uint32(0 + 8 + (0x0F << 2))
	testhelper.Equate(t, core.Regs.ReadPC(), target+4)
}

func TestStepBranchLinkSetsLR(t *testing.T) {
	core, bus := newARMCore()
	bus.putARM(0, 0xEBFFFFFE) // BL -8
	runN(core, 1)
	testhelper.Equate(t, core.Regs.Read(registers.LR), uint32(4))
	testhelper.Equate(t, core.Regs.ReadPC(), uint32(4))
}

func TestStepADCWithCarryIn(t *testing.T) {
	core, bus := newARMCore()
	core.CPSR.SetC(true)
	core.Regs.Write(0, 1)
	core.Regs.Write(1, 1)
	// ADC R2, R0, R1
	bus.putARM(0, 0xE0A02001)
	runN(core, 1)
	testhelper.Equate(t, core.Regs.Read(2), uint32(3))
}

func TestStepMOVImmediate(t *testing.T) {
	core, bus := newARMCore()
	// MOV R0, #5
	bus.putARM(0, 0xE3A00005)
	runN(core, 1)
	testhelper.Equate(t, core.Regs.Read(0), uint32(5))
}

func TestStepSTMDBStoresR15AsPCPlus12(t *testing.T) {
	core, bus := newARMCore()
	core.Regs.Write(13, 0x1000)
	// STMDB R13!, {R15}
	bus.putARM(0, 0xE92D8000)
	runN(core, 1)
	testhelper.Equate(t, bus.ReadWord(0xFFC), uint32(0+12))
}

func TestStepRORShiftAmount33(t *testing.T) {
	core, bus := newARMCore()
	core.Regs.Write(0, 1)
	core.Regs.Write(2, 33)
	// MOV R1, R0, ROR R2
	bus.putARM(0, 0xE1A01270)
	runN(core, 1)
	expect := arm7tdmi.Shift(arm7tdmi.ROR, 1, 33, false, core.CPSR.C())
	testhelper.Equate(t, core.Regs.Read(1), expect.Value)
}

func TestStepThumbModeInterworking(t *testing.T) {
	core, bus := newARMCore()
	core.Regs.Write(0, 0x1001) // odd address: switch to Thumb
	// BX R0
	bus.putARM(0, 0xE12FFF10)
	runN(core, 1)
	testhelper.Equate(t, core.CPSR.Thumb(), true)
	testhelper.Equate(t, core.Regs.ReadPC(), uint32(0x1002))
}
