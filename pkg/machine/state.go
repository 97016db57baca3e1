// Package machine assembles the datapath (pkg/datapath) and the
// control unit (pkg/microcode) into the bcomp microsequencer: the
// register file, main memory, and the Tick() state transition that
// implements §4.5 Steps A-E of the bcomp specification.
package machine

import "github.com/bcomp-labs/bcompsim/pkg/microcode"

const (
	mask11 = 0x7FF
	mask9  = 0x1FF
)

// PS bit positions within the 9-bit program status register.
const (
	PSBitC   = 0
	PSBitV   = 1
	PSBitZ   = 2
	PSBitN   = 3
	PSBitINT = 6
	PSBitW   = 7
)

// Registers is the full programmer-visible (and microsequencer-visible)
// register file, a plain value type so it can be copied freely for
// snapshots without aliasing live simulator state.
type Registers struct {
	AC, BR, DR, CR uint16 // 16-bit
	IP, SP, AR     uint16 // 11-bit, stored pre-masked
	PS             uint16 // 9-bit, stored pre-masked
	MicroPC        uint8
}

// Snapshot is an immutable copy of simulator state for collaborators
// (pkg/trace, pkg/batch) that must never hold a live pointer into the
// machine.
type Snapshot struct {
	Registers
	Stored      bool
	LastModAddr uint16
	LastModMem  uint16
}

// N reports PS bit 3.
func (r Registers) N() bool { return r.PS&(1<<PSBitN) != 0 }

// Z reports PS bit 2.
func (r Registers) Z() bool { return r.PS&(1<<PSBitZ) != 0 }

// V reports PS bit 1.
func (r Registers) V() bool { return r.PS&(1<<PSBitV) != 0 }

// C reports PS bit 0.
func (r Registers) C() bool { return r.PS&(1<<PSBitC) != 0 }

// resetPS is the definitive reset value: bit 7 (W, run) set, all others
// clear.
const resetPS = 1 << PSBitW

// MainMemory is the 2048x16 word memory array.
type MainMemory [2048]uint16

func newResetRegisters() Registers {
	return Registers{PS: resetPS, MicroPC: microcode.MicroInfetch}
}
