// Package savestate gob-encodes a running emulation's CPU and bus state
// into an opaque byte stream, and decodes it back. Format stability is not
// guaranteed across versions; a mismatch or corrupt stream is a
// host-recoverable error (SPEC_FULL.md §4.10, §7 kind 3), not a panic.
package savestate

import (
	"bytes"
	"encoding/gob"

	"goba/internal/arm7tdmi"
	"goba/internal/curatederrors"
	"goba/internal/membus"
)

// formatVersion is incremented whenever the Snapshot's shape changes in a
// way that would make an old save file undecodable or silently wrong.
const formatVersion = 1

// Snapshot is the complete serialisable state of one running emulation:
// the CPU core and the mutable regions of its memory bus.
type Snapshot struct {
	Version int
	CPU     arm7tdmi.Snapshot
	Bus     membus.Snapshot
}

// Save captures cpu and bus into a gob-encoded byte stream.
func Save(cpu *arm7tdmi.Core, bus *membus.Bus) ([]byte, error) {
	snap := Snapshot{
		Version: formatVersion,
		CPU:     cpu.Snapshot(),
		Bus:     bus.Snapshot(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&snap); err != nil {
		return nil, curatederrors.Errorf(curatederrors.Host, "encoding save state: %s", err)
	}
	return buf.Bytes(), nil
}

// Load decodes data and applies it to cpu and bus. A version mismatch or a
// decode failure leaves cpu and bus untouched and returns a curated Host
// error; the caller (internal/runner) logs it and keeps running rather
// than aborting.
func Load(data []byte, cpu *arm7tdmi.Core, bus *membus.Bus) error {
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return curatederrors.Errorf(curatederrors.Host, "decoding save state: %s", err)
	}
	if snap.Version != formatVersion {
		return curatederrors.Errorf(curatederrors.Host, "save state version %d does not match current version %d", snap.Version, formatVersion)
	}

	cpu.Restore(snap.CPU)
	bus.Restore(snap.Bus)
	return nil
}
