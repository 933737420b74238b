// Package main provides tracegen, a generator of synthetic instruction
// traces for exercising the simulator.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/oosim/trace"
)

var (
	output  = flag.String("o", "trace.bin", "Output trace file")
	count   = flag.Int("n", 1000, "Number of instructions to generate")
	pattern = flag.String("pattern", "mix", "Instruction pattern: mix, chain, or indep")
	seed    = flag.Int64("seed", 1, "Random seed for the mix pattern")
)

func main() {
	flag.Parse()

	recs, err := generate(*pattern, *count, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output: %v\n", err)
		atexit.Exit(1)
	}
	defer func() { _ = f.Close() }()

	w := trace.NewWriter(f)
	if err := w.WriteAll(recs); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing trace: %v\n", err)
		atexit.Exit(1)
	}

	fmt.Printf("Wrote %d records to %s\n", w.Count(), *output)
	atexit.Exit(0)
}

func generate(pattern string, n int, seed int64) ([]trace.Record, error) {
	switch pattern {
	case "indep":
		return independent(n), nil
	case "chain":
		return chain(n), nil
	case "mix":
		return mix(n, seed), nil
	default:
		return nil, fmt.Errorf("unknown pattern %q", pattern)
	}
}

// independent produces instructions with no data dependencies: every lane
// can schedule every cycle.
func independent(n int) []trace.Record {
	recs := make([]trace.Record, n)
	for i := range recs {
		recs[i] = trace.Record{
			Op:        trace.OpALU,
			DestValid: true,
			DestReg:   uint8(i % trace.NumArchRegs),
		}
	}
	return recs
}

// chain produces a single serial dependency chain: instruction i reads the
// register instruction i-1 wrote.
func chain(n int) []trace.Record {
	recs := make([]trace.Record, n)
	for i := range recs {
		recs[i] = trace.Record{
			Op:        trace.OpALU,
			DestValid: true,
			DestReg:   uint8(i % trace.NumArchRegs),
		}
		if i > 0 {
			recs[i].Src1Valid = true
			recs[i].Src1Reg = uint8((i - 1) % trace.NumArchRegs)
		}
	}
	return recs
}

// mix produces a randomized blend of operation kinds and register operands.
func mix(n int, seed int64) []trace.Record {
	rng := rand.New(rand.NewSource(seed))
	recs := make([]trace.Record, n)
	for i := range recs {
		rec := trace.Record{Op: randomOp(rng)}

		if rec.Op != trace.OpStore && rec.Op != trace.OpBranch && rng.Intn(10) < 9 {
			rec.DestValid = true
			rec.DestReg = uint8(rng.Intn(trace.NumArchRegs))
		}
		if rng.Intn(10) < 7 {
			rec.Src1Valid = true
			rec.Src1Reg = uint8(rng.Intn(trace.NumArchRegs))
		}
		if rng.Intn(10) < 4 {
			rec.Src2Valid = true
			rec.Src2Reg = uint8(rng.Intn(trace.NumArchRegs))
		}

		recs[i] = rec
	}
	return recs
}

func randomOp(rng *rand.Rand) trace.OpKind {
	r := rng.Intn(100)
	switch {
	case r < 50:
		return trace.OpALU
	case r < 70:
		return trace.OpLoad
	case r < 85:
		return trace.OpStore
	case r < 95:
		return trace.OpBranch
	default:
		return trace.OpOther
	}
}
