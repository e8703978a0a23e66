package cartridge_test

import (
	"testing"

	"goba/internal/cartridge"
	"goba/internal/testhelper"
)

// buildHeader constructs a minimal, checksum-valid 192 byte header for
// tests: B #0 at the entry point, a title, and a correct checksum.
func buildHeader(title, gameCode, makerCode string, corruptChecksum bool) []byte {
	rom := make([]byte, cartridge.HeaderSize)
	rom[0], rom[1], rom[2], rom[3] = 0x00, 0x00, 0x00, 0xEA // B #0

	copy(rom[0xA0:0xAC], title)
	copy(rom[0xAC:0xB0], gameCode)
	copy(rom[0xB0:0xB2], makerCode)
	rom[0xB2] = 0x96 // fixed value
	rom[0xB3] = 0     // unit code
	rom[0xB4] = 0     // device type

	var sum uint8
	for i := 0xA0; i <= 0xBC; i++ {
		sum += rom[i]
	}
	checksum := -sum - 0x19
	if corruptChecksum {
		checksum++
	}
	rom[0xBD] = checksum

	return rom
}

func TestParseValidHeader(t *testing.T) {
	rom := buildHeader("GOBATEST", "GOBA", "01", false)
	h := cartridge.Parse(rom)

	testhelper.Equate(t, h.Title, "GOBATEST")
	testhelper.Equate(t, h.GameCode, "GOBA")
	testhelper.Equate(t, h.MakerCode, "01")
	testhelper.Equate(t, h.FixedValueValid, true)
	testhelper.Equate(t, h.ChecksumValid, true)
	testhelper.Equate(t, h.EntryPoint, uint32(8))
}

func TestParseBadChecksumIsRecoverable(t *testing.T) {
	rom := buildHeader("BADSUM", "BADS", "01", true)
	h := cartridge.Parse(rom)

	testhelper.Equate(t, h.ChecksumValid, false)
	// every other field still parses normally; a bad checksum doesn't
	// poison the rest of the header.
	testhelper.Equate(t, h.Title, "BADSUM")
}

func TestParseShortROMReturnsZeroHeader(t *testing.T) {
	h := cartridge.Parse(make([]byte, 10))
	testhelper.Equate(t, h.Title, "")
	testhelper.Equate(t, h.ChecksumValid, false)
}

func TestParseNonBranchEntryPointIsZero(t *testing.T) {
	rom := buildHeader("WEIRD", "WEID", "01", false)
	rom[0], rom[1], rom[2], rom[3] = 0, 0, 0, 0 // not a branch
	h := cartridge.Parse(rom)
	testhelper.Equate(t, h.EntryPoint, uint32(0))
}
