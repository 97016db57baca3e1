package main

import (
	"fmt"
	"os"

	"github.com/bcomp-labs/bcompsim/pkg/batch"
	"github.com/bcomp-labs/bcompsim/pkg/fuzz"
	"github.com/bcomp-labs/bcompsim/pkg/machine"
	"github.com/bcomp-labs/bcompsim/pkg/trace"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bcompsim",
		Short: "bcomp — cycle-accurate simulator for a 16-bit accumulator machine",
	}

	var maxTicks int

	runCmd := &cobra.Command{
		Use:   "run [program.json]",
		Short: "Load a program and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := buildMachine(args[0])
			if err != nil {
				return err
			}
			if err := runToHalt(m, maxTicks); err != nil {
				return err
			}
			printSnapshot(m.Snapshot())
			return nil
		},
	}
	runCmd.Flags().IntVar(&maxTicks, "max-ticks", 100_000, "Abort if the machine does not halt within this many ticks")

	var traceOut string
	traceCmd := &cobra.Command{
		Use:   "trace [program.json]",
		Short: "Run a program, recording an instruction-level trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := buildMachine(args[0])
			if err != nil {
				return err
			}
			rec := trace.NewRecorder()
			initial := m.Snapshot()
			rec.Seed(initial)
			prevPC := initial.MicroPC
			tickFn := func() {
				m.Tick()
				snap := m.Snapshot()
				rec.Observe(prevPC, snap)
				prevPC = snap.MicroPC
			}
			if err := runLoopToHalt(m, maxTicks, tickFn); err != nil {
				return err
			}
			if traceOut != "" {
				if err := rec.SaveSession(traceOut); err != nil {
					return fmt.Errorf("save trace session: %w", err)
				}
				fmt.Printf("trace written to %s (%d lines)\n", traceOut, rec.Len())
			}
			return rec.WriteText(os.Stdout)
		},
	}
	traceCmd.Flags().IntVar(&maxTicks, "max-ticks", 100_000, "Abort if the machine does not halt within this many ticks")
	traceCmd.Flags().StringVar(&traceOut, "save", "", "Save the trace session to this path (gob)")

	var batchWorkers int
	var batchVerbose bool
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Run the built-in regression scenario catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			rn := batch.NewRunner(batchWorkers)
			reports := rn.RunAll(batch.DefaultScenarios(), batchVerbose)

			failed := 0
			for _, r := range reports {
				if r.Err != nil {
					failed++
					fmt.Printf("  FAIL %-24s %v\n", r.Name, r.Err)
				} else {
					fmt.Printf("  PASS %-24s\n", r.Name)
				}
			}
			fmt.Printf("\n%d/%d scenarios passed\n", len(reports)-failed, len(reports))
			if failed > 0 {
				return fmt.Errorf("%d scenarios failed", failed)
			}
			return nil
		},
	}
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	batchCmd.Flags().BoolVarP(&batchVerbose, "verbose", "v", false, "Print periodic progress")

	var fuzzIterations int
	var fuzzSeed1, fuzzSeed2 uint64
	fuzzCmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Randomly exercise the datapath's arithmetic identities",
		RunE: func(cmd *cobra.Command, args []string) error {
			fz := fuzz.NewFuzzer(fuzzSeed1, fuzzSeed2)
			rep := fz.Run(fuzzIterations)
			fmt.Printf("checked %d properties, %d failures\n", rep.Checked, len(rep.Failures))
			for _, f := range rep.Failures {
				fmt.Printf("  FAIL %s\n", f.String())
			}
			if len(rep.Failures) > 0 {
				return fmt.Errorf("%d property violations", len(rep.Failures))
			}
			return nil
		},
	}
	fuzzCmd.Flags().IntVar(&fuzzIterations, "iterations", 100_000, "Number of property checks to run")
	fuzzCmd.Flags().Uint64Var(&fuzzSeed1, "seed1", 1, "First half of the PCG seed")
	fuzzCmd.Flags().Uint64Var(&fuzzSeed2, "seed2", 2, "Second half of the PCG seed")

	rootCmd.AddCommand(runCmd, traceCmd, batchCmd, fuzzCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildMachine(programPath string) (*machine.Machine, error) {
	prog, err := LoadProgram(programPath)
	if err != nil {
		return nil, err
	}
	m := machine.NewMachine()
	for _, blk := range prog.Memory {
		m.LoadMemory(blk.Addr, blk.Words)
	}
	m.SetIP(prog.Entry)
	if prog.SeedAC != nil {
		m.SetAC(*prog.SeedAC)
	}
	if prog.SeedSP != nil {
		m.SetSP(*prog.SeedSP)
	}
	return m, nil
}

func runToHalt(m *machine.Machine, maxTicks int) error {
	return runLoopToHalt(m, maxTicks, m.Tick)
}

func runLoopToHalt(m *machine.Machine, maxTicks int, tick func()) error {
	for i := 0; !m.Halted(); i++ {
		if i >= maxTicks {
			return fmt.Errorf("machine did not halt within %d ticks", maxTicks)
		}
		tick()
	}
	return nil
}

func printSnapshot(s machine.Snapshot) {
	fmt.Printf("AC=%04X BR=%04X DR=%04X CR=%04X\n", s.AC, s.BR, s.DR, s.CR)
	fmt.Printf("IP=%03X SP=%03X AR=%03X PS=%03X (N=%v Z=%v V=%v C=%v)\n",
		s.IP, s.SP, s.AR, s.PS, s.N(), s.Z(), s.V(), s.C())
}
