package machine

import (
	"errors"
	"fmt"

	"github.com/bcomp-labs/bcompsim/pkg/datapath"
	"github.com/bcomp-labs/bcompsim/pkg/microcode"
)

// ErrInvalidROM is returned by LoadROM when handed a table of the
// wrong size. Loading the default ROM via NewMachine never triggers
// this — it is the one construction-time error boundary the core has,
// per the error handling design (ticking itself never fails).
var ErrInvalidROM = errors.New("machine: microcode ROM must have exactly 256 entries")

// IO/INTS hook bit identifiers passed to Device.Notify.
const (
	HookIO = iota
	HookINTS
)

// Device observes the IO and INTS control bits: the microsequencer
// never interprets them itself, it just notifies a Device once per
// tick either bit is asserted. pkg/iohook provides implementations;
// this package only needs the method set (duck typing), so it never
// imports pkg/iohook.
type Device interface {
	Notify(bit int, snap Snapshot)
}

type noopDevice struct{}

func (noopDevice) Notify(int, Snapshot) {}

// Machine is the bcomp microsequencer: register file, main memory, and
// microcode ROM, plus the last-modified-memory-cell bookkeeping the
// trace interface needs.
type Machine struct {
	regs Registers
	mem  MainMemory
	rom  [256]microcode.Word

	device Device

	stored      bool
	lastModAddr uint16
	lastModMem  uint16
}

// NewMachine constructs a reset machine preloaded with the default
// bcomp microcode ROM and a no-op Device.
func NewMachine() *Machine {
	m := &Machine{rom: microcode.DefaultROM, device: noopDevice{}}
	m.Reset()
	return m
}

// SetDevice attaches the collaborator notified when a tick asserts IO
// or INTS. A nil device is replaced with the no-op device.
func (m *Machine) SetDevice(d Device) {
	if d == nil {
		d = noopDevice{}
	}
	m.device = d
}

// LoadROM replaces the microcode ROM. Used by tests that want to
// exercise a synthetic microprogram instead of the default ISA.
func (m *Machine) LoadROM(rom []microcode.Word) error {
	if len(rom) != 256 {
		return fmt.Errorf("%w: got %d entries", ErrInvalidROM, len(rom))
	}
	copy(m.rom[:], rom)
	return nil
}

// Reset restores C8: PS<-0x080, microPC<-1, AC/BR/DR/CR/IP/SP/AR<-0,
// MainMemory zeroed. The ROM itself is untouched (it is preloaded once
// at construction, not on every reset).
func (m *Machine) Reset() {
	m.regs = newResetRegisters()
	m.mem = MainMemory{}
	m.stored = false
	m.lastModAddr, m.lastModMem = 0, 0
}

// LoadMemory is the preloader interface: it sets consecutive
// MainMemory cells starting at addr (masked to 11 bits) before a run.
func (m *Machine) LoadMemory(addr uint16, words []uint16) {
	a := addr & mask11
	for _, w := range words {
		m.mem[a] = w
		a = (a + 1) & mask11
	}
}

// SetIP is the preloader interface's entry-point setter.
func (m *Machine) SetIP(addr uint16) {
	m.regs.IP = addr & mask11
}

// SetAC preloads the accumulator. Used by callers seeding a scenario
// with a starting value rather than computing it via microcode.
func (m *Machine) SetAC(v uint16) {
	m.regs.AC = v
}

// SetSP preloads the stack pointer, masked to 11 bits.
func (m *Machine) SetSP(addr uint16) {
	m.regs.SP = addr & mask11
}

// Snapshot returns an immutable copy of the current state, safe for a
// collaborator to retain across ticks. Stored reports whether the
// most recently executed tick performed a STOR (LastModAddr/LastModMem
// are only meaningful when Stored is true).
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Registers:   m.regs,
		Stored:      m.stored,
		LastModAddr: m.lastModAddr,
		LastModMem:  m.lastModMem,
	}
}

// Halted reports whether the about-to-execute microinstruction (at the
// current microPC, pre-tick) has HALT asserted. The harness loop is
// `for !m.Halted() { m.Tick() }`.
func (m *Machine) Halted() bool {
	return microcode.Decode(m.rom[m.regs.MicroPC]).Halt
}

// Tick performs one rising-clock-edge cycle: Steps A-E of §4.5.
func (m *Machine) Tick() {
	mi := microcode.Decode(m.rom[m.regs.MicroPC])
	r := m.regs

	// Step A: decode input muxes.
	var left uint16
	switch {
	case mi.RdAC:
		left = r.AC
	case mi.RdBR:
		left = r.BR
	case mi.RdPS:
		left = r.PS
	}
	var right uint16
	switch {
	case mi.RdDR:
		right = r.DR
	case mi.RdCR:
		right = r.CR
	case mi.RdIP:
		right = r.IP
	case mi.RdSP:
		right = r.SP
	}

	// Step B: evaluate the datapath. Branch microinstructions force the
	// shift/sign-extend controls off so the bit test sees the raw
	// ALU sum/AND result; byte-routing bits stay active.
	comm := datapath.CommControls{
		Ltol: mi.Ltol, Ltoh: mi.Ltoh, Htol: mi.Htol, Htoh: mi.Htoh,
	}
	if !mi.Branch {
		comm.Sext, comm.Shlt, comm.Shl0, comm.Shrt, comm.Shrf =
			mi.Sext, mi.Shlt, mi.Shl0, mi.Shrt, mi.Shrf
	}

	aluOut := datapath.Eval(left, right, datapath.Controls{
		ComL: mi.ComL, ComR: mi.ComR, Pls1: mi.Pls1, Sora: mi.Sora,
	}, r.C())
	low, high, c17, c16 := datapath.EvalCommutator(aluOut, comm)
	flags := datapath.EvalFlags(low, high, c17, c16)
	result := uint16(high)<<8 | uint16(low)

	if mi.Branch {
		// Step C/E for branch microinstructions: no writes commit.
		m.stored = false
		tested := mi.BranchMask&low != 0
		var target uint8
		if tested == mi.BranchExpect {
			target = mi.BranchTarget
		}
		if target != 0 {
			m.regs.MicroPC = target
		} else {
			m.regs.MicroPC++
		}
		return
	}

	// Step D: commit writes from the pre-edge state computed above.
	next := r
	if mi.Load {
		next.DR = m.mem[r.AR&mask11]
	} else if mi.WrDR {
		next.DR = result
	}
	if mi.WrCR {
		next.CR = result
	}
	if mi.WrIP {
		next.IP = result & mask11
	}
	if mi.WrSP {
		next.SP = result & mask11
	}
	if mi.WrAC {
		next.AC = result
	}
	if mi.WrBR {
		next.BR = result
	}
	if mi.WrAR {
		next.AR = result & mask11
	}
	m.stored = mi.Stor && !mi.Load
	if m.stored {
		m.mem[r.AR&mask11] = r.DR
		m.lastModAddr, m.lastModMem = r.AR&mask11, r.DR
	}
	if mi.WrPS {
		next.PS = result & mask9
	}
	if mi.Setc {
		next.PS = setBit(next.PS, PSBitC, flags.C)
	}
	if mi.Setv {
		next.PS = setBit(next.PS, PSBitV, flags.V)
	}
	if mi.Stnz {
		next.PS = setBit(next.PS, PSBitN, flags.N)
		next.PS = setBit(next.PS, PSBitZ, flags.Z)
	}
	next.PS &= mask9

	next.MicroPC = r.MicroPC + 1
	m.regs = next

	if mi.IO {
		m.device.Notify(HookIO, m.Snapshot())
	}
	if mi.INTS {
		m.device.Notify(HookINTS, m.Snapshot())
	}
}

func setBit(v uint16, pos uint, set bool) uint16 {
	if set {
		return v | (1 << pos)
	}
	return v &^ (1 << pos)
}
