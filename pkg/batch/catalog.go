package batch

import (
	"fmt"

	"github.com/bcomp-labs/bcompsim/pkg/machine"
	"github.com/bcomp-labs/bcompsim/pkg/microcode"
)

// DefaultScenarios builds the regression catalog: the six end-to-end
// programs from the bcomp specification's worked examples, as a
// table literal built afresh on each call, mirroring the teacher's
// pkg/inst catalog idiom.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Name:    "add-direct",
			Memory:  map[uint16][]uint16{0x184: {0x2345, 0xFD71, 0x1630, 0x0000, 0xA184}},
			Entry:   0x188,
			MaxTick: 200,
			Check: func(s machine.Snapshot) error {
				return checkAll(s,
					expectEq("AC", s.AC, 0x2345),
					expectFalse("N", s.N()),
					expectFalse("Z", s.Z()),
					expectFalse("V", s.V()),
					expectFalse("C", s.C()),
				)
			},
		},
		{
			Name:    "clear-accumulator",
			Memory:  map[uint16][]uint16{0x000: {uint16(microcode.OpCLA) << 11}},
			Entry:   0x000,
			SeedAC:  Seed16(0xDEAD),
			MaxTick: 200,
			Check: func(s machine.Snapshot) error {
				return checkAll(s,
					expectEq("AC", s.AC, 0),
					expectFalse("N", s.N()),
					expectTrue("Z", s.Z()),
					expectFalse("V", s.V()),
				)
			},
		},
		{
			Name: "call-return",
			Memory: map[uint16][]uint16{
				0x000: {uint16(microcode.OpCALL)<<11 | 0x200, uint16(microcode.OpHLT) << 11},
				0x200: {uint16(microcode.OpCLA) << 11, uint16(microcode.OpRET) << 11},
			},
			Entry:   0x000,
			SeedSP:  Seed16(0x7FF),
			MaxTick: 200,
			Check: func(s machine.Snapshot) error {
				return checkAll(s,
					expectEq("SP", s.SP, 0x7FF),
					expectEq("AC", s.AC, 0),
				)
			},
		},
		{
			Name: "conditional-branch-equal",
			Memory: map[uint16][]uint16{
				0x000: {uint16(microcode.OpCMP)<<11 | 0x010, uint16(microcode.OpBEQ)<<11 | 0x050, uint16(microcode.OpHLT) << 11},
				0x010: {0x0000},
				0x050: {uint16(microcode.OpHLT) << 11},
			},
			Entry:   0x000,
			MaxTick: 200,
			Check: func(s machine.Snapshot) error {
				return checkAll(s, expectEq("IP", s.IP, 0x051))
			},
		},
		{
			Name:    "rotate-left",
			Memory:  map[uint16][]uint16{0x000: {uint16(microcode.OpROL) << 11}},
			Entry:   0x000,
			SeedAC:  Seed16(0x8000),
			MaxTick: 200,
			Check: func(s machine.Snapshot) error {
				return checkAll(s,
					expectEq("AC", s.AC, 0),
					expectTrue("C", s.C()),
					expectTrue("Z", s.Z()),
				)
			},
		},
		{
			Name: "push-pop",
			Memory: map[uint16][]uint16{
				0x000: {
					uint16(microcode.OpPUSH) << 11,
					uint16(microcode.OpCLA) << 11,
					uint16(microcode.OpPOP) << 11,
					uint16(microcode.OpHLT) << 11,
				},
			},
			Entry:   0x000,
			SeedAC:  Seed16(0xBEEF),
			SeedSP:  Seed16(0x7FF),
			MaxTick: 200,
			Check: func(s machine.Snapshot) error {
				return checkAll(s,
					expectEq("AC", s.AC, 0xBEEF),
					expectEq("SP", s.SP, 0x7FF),
				)
			},
		},
	}
}

func checkAll(_ machine.Snapshot, errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func expectEq(field string, got, want uint16) error {
	if got != want {
		return fmt.Errorf("%s: got %#04x, want %#04x", field, got, want)
	}
	return nil
}

func expectTrue(field string, got bool) error {
	if !got {
		return fmt.Errorf("%s: got false, want true", field)
	}
	return nil
}

func expectFalse(field string, got bool) error {
	if got {
		return fmt.Errorf("%s: got true, want false", field)
	}
	return nil
}
