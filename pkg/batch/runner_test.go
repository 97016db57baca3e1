package batch

import (
	"testing"

	"github.com/bcomp-labs/bcompsim/pkg/machine"
	"github.com/bcomp-labs/bcompsim/pkg/microcode"
	"github.com/stretchr/testify/require"
)

func TestDefaultScenariosAllPass(t *testing.T) {
	rn := NewRunner(4)
	reports := rn.RunAll(DefaultScenarios(), false)

	for _, r := range reports {
		require.NoError(t, r.Err, "scenario %s", r.Name)
	}
	passed, failed := rn.Stats()
	require.EqualValues(t, len(DefaultScenarios()), passed)
	require.Zero(t, failed)
}

func TestTimeoutErrorReported(t *testing.T) {
	// CALL 0x000 calls itself forever, so MaxTick must fire.
	spin := Scenario{
		Name:    "spin",
		Memory:  map[uint16][]uint16{0x000: {uint16(microcode.OpCALL)<<11 | 0x000}},
		Entry:   0x000,
		SeedSP:  Seed16(0x7FF),
		MaxTick: 5,
		Check:   func(machine.Snapshot) error { return nil },
	}

	rn := NewRunner(1)
	reports := rn.RunAll([]Scenario{spin}, false)

	require.Len(t, reports, 1)
	require.Error(t, reports[0].Err)
	var timeout *TimeoutError
	require.ErrorAs(t, reports[0].Err, &timeout)

	_, failed := rn.Stats()
	require.EqualValues(t, 1, failed)
}
