package machine

import (
	"testing"

	"github.com/bcomp-labs/bcompsim/pkg/microcode"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, m *Machine) int {
	t.Helper()
	const maxTicks = 1000
	ticks := 0
	for !m.Halted() {
		if ticks >= maxTicks {
			t.Fatalf("machine did not halt within %d ticks", maxTicks)
		}
		m.Tick()
		ticks++
	}
	return ticks
}

func TestResetState(t *testing.T) {
	m := NewMachine()
	s := m.Snapshot()
	require.EqualValues(t, microcode.MicroInfetch, s.MicroPC)
	require.EqualValues(t, 0x080, s.PS)
	require.Zero(t, s.AC)
	require.Zero(t, s.IP)
}

// Scenario 1 (spec §8.1): one ADD-direct instruction followed by HALT.
func TestScenarioAddDirect(t *testing.T) {
	m := NewMachine()
	m.LoadMemory(0x184, []uint16{0x2345, 0xFD71, 0x1630, 0x0000, 0xA184})
	m.SetIP(0x188)

	run(t, m)

	s := m.Snapshot()
	require.EqualValues(t, 0x2345, s.AC)
	require.False(t, s.N())
	require.False(t, s.Z())
	require.False(t, s.V())
	require.False(t, s.C())
}

// Scenario 2 (spec §8.2): CLA clears AC and sets Z.
func TestScenarioClearAccumulator(t *testing.T) {
	m := NewMachine()
	// opcode 1 (CLA), address field unused.
	m.LoadMemory(0x000, []uint16{uint16(microcode.OpCLA) << 11})
	m.SetIP(0x000)
	m.SetAC(0xDEAD)

	run(t, m)

	s := m.Snapshot()
	require.Zero(t, s.AC)
	require.False(t, s.N())
	require.True(t, s.Z())
	require.False(t, s.V())
}

// Scenario 3 (spec §8.3): CALL/RET round trip leaves SP unchanged and
// executes the subroutine's body (here, one CLA) before returning.
func TestScenarioCallReturn(t *testing.T) {
	m := NewMachine()
	const subroutine = 0x200
	m.LoadMemory(0x000, []uint16{
		uint16(microcode.OpCALL)<<11 | subroutine, // 0x000: CALL subroutine
		uint16(microcode.OpHLT) << 11,             // 0x001: HLT
	})
	m.LoadMemory(subroutine, []uint16{
		uint16(microcode.OpCLA) << 11, // CLA
		uint16(microcode.OpRET) << 11, // RET
	})
	m.SetIP(0x000)
	m.SetSP(0x7FF) // stack grows down from the top of the 11-bit address space

	run(t, m)

	s := m.Snapshot()
	require.EqualValues(t, 0x7FF, s.SP, "balanced CALL/RET must restore SP")
	require.Zero(t, s.AC, "subroutine body must have executed")
}

// Scenario 4 (spec §8.4): BEQ after CMP, both directions.
func TestScenarioConditionalBranch(t *testing.T) {
	t.Run("equal branches", func(t *testing.T) {
		m := NewMachine()
		const target = 0x050
		m.LoadMemory(0x000, []uint16{
			uint16(microcode.OpCMP)<<11 | 0x010, // CMP MEM[0x010] (==AC==0)
			uint16(microcode.OpBEQ)<<11 | target,
			uint16(microcode.OpHLT) << 11, // not taken would land here
		})
		m.LoadMemory(0x010, []uint16{0x0000})
		m.LoadMemory(target, []uint16{uint16(microcode.OpHLT) << 11})
		m.SetIP(0x000)

		run(t, m)
		require.EqualValues(t, target+1, m.Snapshot().IP)
	})

	t.Run("not equal falls through", func(t *testing.T) {
		m := NewMachine()
		m.LoadMemory(0x000, []uint16{
			uint16(microcode.OpCMP)<<11 | 0x010, // CMP MEM[0x010] (!=AC==0)
			uint16(microcode.OpBEQ)<<11 | 0x050,
			uint16(microcode.OpHLT) << 11,
		})
		m.LoadMemory(0x010, []uint16{0x0001})
		m.SetIP(0x000)

		run(t, m)
		require.EqualValues(t, 0x003, m.Snapshot().IP)
	})
}

// Scenario 5 (spec §8.5): ROL rotate-left-through-carry.
func TestScenarioRotateLeft(t *testing.T) {
	m := NewMachine()
	m.LoadMemory(0x000, []uint16{uint16(microcode.OpROL) << 11})
	m.SetIP(0x000)
	m.SetAC(0x8000)

	run(t, m)

	s := m.Snapshot()
	require.Zero(t, s.AC)
	require.True(t, s.C())
	require.True(t, s.Z())
}

// Scenario 6 (spec §8.6): PUSH/POP round trip.
func TestScenarioPushPop(t *testing.T) {
	m := NewMachine()
	m.LoadMemory(0x000, []uint16{
		uint16(microcode.OpPUSH) << 11,
		uint16(microcode.OpCLA) << 11,
		uint16(microcode.OpPOP) << 11,
		uint16(microcode.OpHLT) << 11,
	})
	m.SetIP(0x000)
	m.SetAC(0xBEEF)
	m.SetSP(0x7FF)

	run(t, m)

	s := m.Snapshot()
	require.EqualValues(t, 0xBEEF, s.AC, "POP must restore the pushed value")
	require.EqualValues(t, 0x7FF, s.SP, "balanced PUSH/POP must restore SP")
}

func TestLoadOverridesWrDR(t *testing.T) {
	m := NewMachine()
	m.mem[5] = 0xABCD
	mi := microcode.Microinstruction{Load: true, WrDR: true}
	require.NoError(t, m.LoadROM(singleInstructionROM(mi)))
	m.regs.AR = 5

	m.Tick()

	require.EqualValues(t, 0xABCD, m.regs.DR)
}

func TestStorUsesPreEdgeState(t *testing.T) {
	m := NewMachine()
	mi := microcode.Microinstruction{Stor: true}
	require.NoError(t, m.LoadROM(singleInstructionROM(mi)))
	m.regs.AR, m.regs.DR = 7, 0x1234

	m.Tick()

	require.EqualValues(t, 0x1234, m.mem[7])
}

func TestUnconditionalBranchAlwaysBranches(t *testing.T) {
	m := NewMachine()
	mi := microcode.Microinstruction{Branch: true, BranchTarget: 42}
	require.NoError(t, m.LoadROM(singleInstructionROM(mi)))

	m.Tick()

	require.EqualValues(t, 42, m.regs.MicroPC)
}

func singleInstructionROM(mi microcode.Microinstruction) []microcode.Word {
	rom := make([]microcode.Word, 256)
	rom[microcode.MicroInfetch] = mi.Encode()
	return rom
}
