package membus_test

import (
	"testing"

	"goba/internal/membus"
	"goba/internal/testhelper"
)

func newTestBus() *membus.Bus {
	bios := make([]byte, 0x4000)
	rom := make([]byte, 0x1000)
	return membus.New(bios, rom)
}

func TestWriteReadWordEWRAM(t *testing.T) {
	b := newTestBus()
	b.WriteWord(0x02000100, 0xDEADBEEF)
	testhelper.Equate(t, b.ReadWord(0x02000100), uint32(0xDEADBEEF))
}

func TestWriteReadHalfIWRAM(t *testing.T) {
	b := newTestBus()
	b.WriteHalf(0x03000010, 0xBEEF)
	testhelper.Equate(t, b.ReadHalf(0x03000010), uint16(0xBEEF))
}

func TestBIOSWriteIsNoOp(t *testing.T) {
	b := newTestBus()
	before := b.ReadByte(0x100)
	b.WriteByte(0x100, 0xFF)
	testhelper.Equate(t, b.ReadByte(0x100), before)
}

func TestKeyinputDefaultsToAllReleased(t *testing.T) {
	b := newTestBus()
	testhelper.Equate(t, b.ReadHalf(0x04000130), uint16(0x03FF))
}

func TestSetKeyClearsBitActiveLow(t *testing.T) {
	b := newTestBus()
	b.SetKey(0, true) // press A
	testhelper.Equate(t, b.ReadHalf(0x04000130)&1, uint16(0))
	b.SetKey(0, false)
	testhelper.Equate(t, b.ReadHalf(0x04000130)&1, uint16(1))
}

func TestKeyinputWriteIsIgnored(t *testing.T) {
	b := newTestBus()
	b.WriteHalf(0x04000130, 0x0000)
	testhelper.Equate(t, b.ReadHalf(0x04000130), uint16(0x03FF))
}

func TestROMMirrorsAcrossWaitStateRegions(t *testing.T) {
	b := newTestBus()
	testhelper.Equate(t, b.ReadByte(0x08000003), b.ReadByte(0x0A000003))
	testhelper.Equate(t, b.ReadByte(0x08000003), b.ReadByte(0x0C000003))
}

func TestVCountTracksPPU(t *testing.T) {
	b := newTestBus()
	testhelper.Equate(t, b.ReadHalf(0x04000006), uint16(0))
	for i := 0; i < 1232; i++ {
		b.Tick()
	}
	testhelper.Equate(t, b.ReadHalf(0x04000006), uint16(1))
}

func TestSeedNoiseIsReproducibleForSameSeedAndPosition(t *testing.T) {
	a := newTestBus()
	b := newTestBus()
	a.SeedNoise(0xC0FFEE)
	b.SeedNoise(0xC0FFEE)
	testhelper.Equate(t, a.ReadByte(0x02000000), b.ReadByte(0x02000000))
	testhelper.Equate(t, a.ReadByte(0x03000000), b.ReadByte(0x03000000))
}

func TestDispstatVBlankBit(t *testing.T) {
	b := newTestBus()
	testhelper.Equate(t, b.ReadHalf(0x04000004)&1, uint16(0))
	for i := 0; i < 1232*160; i++ {
		b.Tick()
	}
	testhelper.Equate(t, b.ReadHalf(0x04000004)&1, uint16(1))
}
