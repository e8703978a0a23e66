package savestate_test

import (
	"testing"

	"goba/internal/arm7tdmi"
	"goba/internal/membus"
	"goba/internal/savestate"
	"goba/internal/testhelper"
)

func newTestRig() (*arm7tdmi.Core, *membus.Bus) {
	bus := membus.New(make([]byte, 0x4000), make([]byte, 0x1000))
	cpu := arm7tdmi.NewCore(bus)
	return cpu, bus
}

func TestSaveLoadRoundTripsRegisters(t *testing.T) {
	cpu, bus := newTestRig()
	cpu.Regs.Write(0, 0x12345678)
	cpu.Regs.Write(13, 0x03007F00)
	bus.WriteByte(0x02000000, 0x42)

	data, err := savestate.Save(cpu, bus)
	testhelper.ExpectSuccess(t, err)

	cpu2, bus2 := newTestRig()
	testhelper.ExpectSuccess(t, savestate.Load(data, cpu2, bus2))

	testhelper.Equate(t, cpu2.Regs.Read(0), uint32(0x12345678))
	testhelper.Equate(t, cpu2.Regs.Read(13), uint32(0x03007F00))
	testhelper.Equate(t, bus2.ReadByte(0x02000000), uint8(0x42))
}

func TestLoadRejectsCorruptData(t *testing.T) {
	cpu, bus := newTestRig()
	err := savestate.Load([]byte("not a save state"), cpu, bus)
	testhelper.ExpectFailure(t, err)
}

func TestLoadLeavesStateIntactOnFailure(t *testing.T) {
	cpu, bus := newTestRig()
	cpu.Regs.Write(1, 0xCAFEBABE)

	err := savestate.Load([]byte("garbage"), cpu, bus)
	testhelper.ExpectFailure(t, err)
	testhelper.Equate(t, cpu.Regs.Read(1), uint32(0xCAFEBABE))
}
