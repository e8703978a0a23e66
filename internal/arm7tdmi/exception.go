package arm7tdmi

import (
	"goba/internal/arm7tdmi/psr"
	"goba/internal/arm7tdmi/registers"
)

// Exception vectors, indexed by the mode each exception enters.
const (
	VectorReset          uint32 = 0x00000000
	VectorUndefined      uint32 = 0x00000004
	VectorSoftwareInt    uint32 = 0x00000008
	VectorPrefetchAbort  uint32 = 0x0000000C
	VectorDataAbort      uint32 = 0x00000010
	VectorIRQ            uint32 = 0x00000018
	VectorFIQ            uint32 = 0x0000001C
)

// raiseException performs the hardware exception-entry sequence common to
// SWI, undefined instruction, IRQ and FIQ: bank into mode, save the old
// CPSR into the new mode's SPSR, save the return address (adjusted by
// linkAdjust) into LR, force ARM state, mask IRQ (and FIQ, for FIQ/reset
// only), and jump to vector.
func (c *Core) raiseException(mode psr.Mode, vector uint32, linkAdjust uint32, maskFIQ bool) {
	oldCPSR := c.CPSR
	returnAddr := c.decode.addr + linkAdjust

	c.SwapToMode(mode)
	*c.SPSR() = oldCPSR

	c.CPSR.SetThumb(false)
	c.CPSR.SetI(true)
	if maskFIQ {
		c.CPSR.SetF(true)
	}

	c.Regs.Write(registers.LR, returnAddr)
	c.FlushAndRefill(vector)
}
