// Package batch runs the simulator's regression scenarios across a
// worker pool, grounded on the teacher's pkg/search.WorkerPool:
// a task channel, a sync.WaitGroup, atomic counters, and a
// time.Ticker progress reporter, generalized from candidate-sequence
// search to end-to-end machine scenarios.
package batch

import (
	"fmt"

	"github.com/bcomp-labs/bcompsim/pkg/machine"
)

// Seed16 returns a pointer to v, for populating Scenario.SeedAC/SeedSP
// from a literal.
func Seed16(v uint16) *uint16 { return &v }

// Scenario is one self-contained program: a memory image, an entry
// IP, optional register seeds, and the assertion function that
// inspects the final Snapshot once the machine halts.
type Scenario struct {
	Name    string
	Memory  map[uint16][]uint16
	Entry   uint16
	SeedAC  *uint16
	SeedSP  *uint16
	MaxTick int
	Check   func(s machine.Snapshot) error
}

// Run executes one Scenario against a fresh machine.Machine and
// returns the error its Check returns (nil on success), or a timeout
// error if the machine never halts within MaxTick ticks.
func (sc Scenario) Run() error {
	m := machine.NewMachine()
	for addr, words := range sc.Memory {
		m.LoadMemory(addr, words)
	}
	m.SetIP(sc.Entry)
	if sc.SeedAC != nil {
		m.SetAC(*sc.SeedAC)
	}
	if sc.SeedSP != nil {
		m.SetSP(*sc.SeedSP)
	}

	max := sc.MaxTick
	if max <= 0 {
		max = 10_000
	}
	for i := 0; !m.Halted(); i++ {
		if i >= max {
			return &TimeoutError{Scenario: sc.Name, MaxTick: max}
		}
		m.Tick()
	}
	return sc.Check(m.Snapshot())
}

// TimeoutError reports a scenario that never halted.
type TimeoutError struct {
	Scenario string
	MaxTick  int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("batch: scenario %s did not halt within %d ticks", e.Scenario, e.MaxTick)
}
