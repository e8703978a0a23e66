// Package cartridge parses the fixed 192 byte GBA cartridge header: the
// fields the BIOS boot sequence validates before handing control to the
// game's entry point, and that a debugger front-end displays alongside the
// running CPU state.
package cartridge

import (
	"goba/internal/logger"
)

// HeaderSize is the number of bytes the BIOS reads before jumping to the
// entry point.
const HeaderSize = 192

// Header field offsets and sizes. The Nintendo logo is the 156-byte bitmap
// the BIOS checks for at offset 0x04; it lies outside the range the header
// checksum covers, and the bitmap itself is never rendered or compared
// byte-for-byte (SPEC_FULL.md §4.7).
const (
	logoOffset       = 0x04
	logoSize         = 156
	titleOffset      = 0xA0
	titleSize        = 12
	gameCodeOffset   = 0xAC
	gameCodeSize     = 4
	makerCodeOffset  = 0xB0
	makerCodeSize    = 2
	fixedValueOffset = 0xB2
	unitCodeOffset   = 0xB3
	deviceTypeOffset = 0xB4
	checksumOffset   = 0xBD
)

// Header is the parsed form of a cartridge's first 192 bytes.
type Header struct {
	EntryPoint      uint32
	Title           string
	GameCode        string
	MakerCode       string
	FixedValueValid bool
	UnitCode        uint8
	DeviceType      uint8
	Checksum        uint8
	ChecksumValid   bool
}

// Parse reads a Header out of rom, which must be at least HeaderSize bytes
// long. A header checksum mismatch is not fatal: it is logged and reported
// through ChecksumValid so the loader can continue with a homebrew or
// otherwise non-conforming ROM (SPEC_FULL.md §4.7, §7 kind 3).
func Parse(rom []byte) Header {
	if len(rom) < HeaderSize {
		logger.Logf(logger.Allow, "cartridge", "ROM is shorter than the header (%d bytes)", len(rom))
		return Header{}
	}

	h := Header{
		EntryPoint:      entryPointAddress(rom),
		Title:           trimNulls(rom[titleOffset : titleOffset+titleSize]),
		GameCode:        trimNulls(rom[gameCodeOffset : gameCodeOffset+gameCodeSize]),
		MakerCode:       trimNulls(rom[makerCodeOffset : makerCodeOffset+makerCodeSize]),
		FixedValueValid: rom[fixedValueOffset] == 0x96,
		UnitCode:        rom[unitCodeOffset],
		DeviceType:      rom[deviceTypeOffset],
		Checksum:        rom[checksumOffset],
	}

	h.ChecksumValid = h.Checksum == computeChecksum(rom)
	if !h.ChecksumValid {
		logger.Logf(logger.Allow, "cartridge", "header checksum mismatch: stored %#02x, computed %#02x", h.Checksum, computeChecksum(rom))
	}

	return h
}

// entryPointAddress decodes the branch instruction at offset 0x00 (always a
// `B <entry>` in a conforming ROM) into the absolute address it targets.
// Non-branch encodings (homebrew that boots some other way) decode to 0.
func entryPointAddress(rom []byte) uint32 {
	word := uint32(rom[0]) | uint32(rom[1])<<8 | uint32(rom[2])<<16 | uint32(rom[3])<<24
	if word&0xFF000000 != 0xEA000000 {
		return 0
	}
	offset := int32(word&0x00FFFFFF) << 8 >> 8 // sign-extend 24 bits
	return uint32(8 + offset<<2)
}

// computeChecksum implements the GBA header's standard complement
// checksum: -(sum of bytes 0xA0..0xBC) - 0x19, truncated to a byte.
func computeChecksum(rom []byte) uint8 {
	var sum uint8
	for i := 0xA0; i <= 0xBC; i++ {
		sum += rom[i]
	}
	return -sum - 0x19
}

func trimNulls(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end])
}

// LogoChecksumValid reports whether the 156 byte Nintendo logo bitmap at
// offset 0x04 is present in rom. SPEC_FULL.md §4.7 scopes out comparing the
// bitmap's actual pixels against the real Nintendo logo.
func LogoChecksumValid(rom []byte) bool {
	return len(rom) >= logoOffset+logoSize
}
