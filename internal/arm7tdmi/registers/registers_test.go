package registers_test

import (
	"testing"

	"goba/internal/arm7tdmi/psr"
	"goba/internal/arm7tdmi/registers"
	"goba/internal/testhelper"
)

func TestModeRoundTrip(t *testing.T) {
	var f registers.File
	var bank registers.Bank
	var spsr psr.PSR

	for i := 8; i <= 14; i++ {
		f.Write(i, uint32(0x1000+i))
	}

	bank.SwapMode(&f, &spsr, psr.System, psr.FIQ)
	for i := 8; i <= 14; i++ {
		f.Write(i, uint32(0x9000+i))
	}
	bank.SwapMode(&f, &spsr, psr.FIQ, psr.System)

	for i := 8; i <= 14; i++ {
		testhelper.Equate(t, f.Read(i), uint32(0x1000+i))
	}
}

func TestSupervisorSPSRIsolated(t *testing.T) {
	var f registers.File
	var bank registers.Bank
	var spsr psr.PSR

	bank.SwapMode(&f, &spsr, psr.User, psr.Supervisor)
	spsr.SetC(true)
	f.Write(registers.SP, 0xdead)

	bank.SwapMode(&f, &spsr, psr.Supervisor, psr.IRQ)
	testhelper.Equate(t, spsr.C(), false)

	bank.SwapMode(&f, &spsr, psr.IRQ, psr.Supervisor)
	testhelper.Equate(t, spsr.C(), true)
	testhelper.Equate(t, f.Read(registers.SP), uint32(0xdead))
}

func TestPCAlignment(t *testing.T) {
	var f registers.File
	f.WritePC(0x1003)
	f.AlignARM()
	testhelper.Equate(t, f.ReadPC(), uint32(0x1000))

	f.WritePC(0x1003)
	f.AlignThumb()
	testhelper.Equate(t, f.ReadPC(), uint32(0x1002))
}
