// Package fuzz randomly exercises the unit-level arithmetic
// identities the bcomp specification states for the datapath (§8),
// checking that pkg/datapath's implementation holds for operand
// values beyond the worked examples. Grounded on the teacher's
// pkg/stoke.Mutator: an RNG-holding struct built once with
// math/rand/v2, dispatching round-robin across a fixed set of checks,
// one check per iteration.
package fuzz

import (
	"fmt"
	"math/rand/v2"

	"github.com/bcomp-labs/bcompsim/pkg/datapath"
)

// Fuzzer holds the RNG used to generate random 16-bit operands.
type Fuzzer struct {
	rng *rand.Rand
}

// NewFuzzer seeds a Fuzzer deterministically — same seed, same
// sequence of checks, so a failing run is reproducible.
func NewFuzzer(seed1, seed2 uint64) *Fuzzer {
	return &Fuzzer{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Failure records one property violation.
type Failure struct {
	Property string
	Inputs   string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Property, f.Inputs)
}

// Report summarizes one fuzzing run.
type Report struct {
	Checked  int
	Failures []Failure
}

var properties = []func(rng *rand.Rand) *Failure{
	checkAdderIdentity,
	checkAluSubtractIdentity,
	checkCommutatorPassthrough,
	checkFlagsZero,
}

// Run executes n random property checks, cycling through every
// registered property in turn (not weighted — unlike the mutation
// dispatch this grounds on, every property is equally important to
// cover, so there is no reason to bias toward one).
func (fz *Fuzzer) Run(n int) Report {
	var rep Report
	for i := 0; i < n; i++ {
		prop := properties[i%len(properties)]
		rep.Checked++
		if fail := prop(fz.rng); fail != nil {
			rep.Failures = append(rep.Failures, *fail)
		}
	}
	return rep
}

func checkAdderIdentity(rng *rand.Rand) *Failure {
	a := uint16(rng.Uint32())
	b := uint16(rng.Uint32())
	sum, c14, c15 := datapath.Summator(a, b, false)
	want := a + b
	if sum != want {
		return &Failure{"adder-sum", fmt.Sprintf("a=%#04x b=%#04x got=%#04x want=%#04x", a, b, sum, want)}
	}
	wantC15 := (uint32(a)+uint32(b))>>16 == 1
	if c15 != wantC15 {
		return &Failure{"adder-c15", fmt.Sprintf("a=%#04x b=%#04x c15=%v want=%v", a, b, c15, wantC15)}
	}
	wantC14 := ((uint32(a)&0x7FFF)+(uint32(b)&0x7FFF))>>15 == 1
	if c14 != wantC14 {
		return &Failure{"adder-c14", fmt.Sprintf("a=%#04x b=%#04x c14=%v want=%v", a, b, c14, wantC14)}
	}
	return nil
}

func checkAluSubtractIdentity(rng *rand.Rand) *Failure {
	a := uint16(rng.Uint32())
	b := uint16(rng.Uint32())
	out := datapath.Eval(a, b, datapath.Controls{ComR: true, Pls1: true}, false)
	got := uint16(out)
	want := a - b
	if got != want {
		return &Failure{"alu-subtract", fmt.Sprintf("a=%#04x b=%#04x got=%#04x want=%#04x", a, b, got, want)}
	}
	c15 := (out>>datapath.BitC15)&1 == 1
	wantC15 := a >= b
	if c15 != wantC15 {
		return &Failure{"alu-subtract-carry", fmt.Sprintf("a=%#04x b=%#04x c15=%v want=%v", a, b, c15, wantC15)}
	}
	return nil
}

func checkCommutatorPassthrough(rng *rand.Rand) *Failure {
	v := uint16(rng.Uint32())
	out := datapath.Eval(v, 0, datapath.Controls{}, false)
	low, high, _, _ := datapath.EvalCommutator(out, datapath.CommControls{Ltol: true, Htoh: true})
	got := uint16(high)<<8 | uint16(low)
	if got != v {
		return &Failure{"commutator-passthrough", fmt.Sprintf("v=%#04x got=%#04x", v, got)}
	}
	return nil
}

// checkFlagsZero exercises a+^a, which is 0xFFFF for every a (the
// one's-complement of a is always 0xFFFF-a) — Z must never be set.
func checkFlagsZero(rng *rand.Rand) *Failure {
	a := uint16(rng.Uint32())
	out := datapath.Eval(a, ^a, datapath.Controls{}, false)
	low, high, _, _ := datapath.EvalCommutator(out, datapath.CommControls{Ltol: true, Htoh: true})
	flags := datapath.EvalFlags(low, high, false, false)
	if flags.Z {
		return &Failure{"flags-zero-sanity", fmt.Sprintf("a=%#04x: a+^a==0xFFFF reported Z=true", a)}
	}
	return nil
}
