// Package main provides the entry point for OOSim.
// OOSim is a cycle-accurate out-of-order superscalar pipeline simulator.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/oosim/timing/core"
	"github.com/sarchlab/oosim/timing/latency"
	"github.com/sarchlab/oosim/timing/pipeline"
	"github.com/sarchlab/oosim/trace"
)

var (
	width      = flag.Int("width", 2, "Pipeline width (lanes per stage per cycle)")
	robSize    = flag.Int("rob", 32, "Reorder buffer capacity")
	sched      = flag.String("sched", "ooo", "Scheduling policy: inorder or ooo")
	loadLat    = flag.Uint64("loadlat", 4, "Load execution latency in cycles")
	configPath = flag.String("config", "", "Path to latency configuration JSON file")
	useAkita   = flag.Bool("akita", false, "Drive the pipeline on an Akita event engine")
	dumpState  = flag.Bool("state", false, "Print the full pipeline state every cycle")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: oosim [options] <trace file>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	atexit.Exit(run(flag.Arg(0)))
}

func run(tracePath string) int {
	policy, err := pipeline.ParsePolicy(*sched)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	timingConfig, err := loadTimingConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
		return 1
	}

	f, err := os.Open(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening trace: %v\n", err)
		return 1
	}
	defer func() { _ = f.Close() }()

	cfg := pipeline.Config{
		Width:       *width,
		ROBCapacity: *robSize,
		Policy:      policy,
	}

	opts := []pipeline.PipelineOption{
		pipeline.WithLatencyTable(latency.NewTableWithConfig(timingConfig)),
	}
	if *verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		opts = append(opts, pipeline.WithLogger(logger))
	}

	pipe, err := pipeline.NewPipeline(trace.NewReader(f), cfg, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *verbose {
		fmt.Printf("Trace: %s\n", tracePath)
		fmt.Printf("Width: %d, ROB: %d, policy: %s\n", *width, *robSize, policy)
	}

	runErr := runPipeline(pipe)

	stats := pipe.Stats()
	fmt.Printf("\n")
	fmt.Printf("Trace: %s\n", tracePath)
	fmt.Printf("Retired Instructions: %d\n", stats.Retired)
	fmt.Printf("Total Cycles: %d\n", stats.Cycles)
	fmt.Printf("CPI: %.2f\n", stats.CPI())

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "\nSimulation ended with error: %v\n", runErr)
		return 1
	}
	return 0
}

// runPipeline drives the engine to completion. With -state, the pipeline is
// stepped manually so the state dump can be printed after every cycle; with
// -akita, the core is mounted on an Akita serial engine.
func runPipeline(pipe *pipeline.Pipeline) error {
	switch {
	case *dumpState:
		for !pipe.Halted() {
			pipe.Tick()
			fmt.Println("--------------------------------------------")
			fmt.Print(pipe.Snapshot().String())
		}
		return pipe.Err()

	case *useAkita:
		engine := sim.NewSerialEngine()
		c := core.NewBuilder().
			WithEngine(engine).
			Build("Core", pipe)
		return c.Run()

	default:
		return pipe.Run()
	}
}

func loadTimingConfig() (*latency.TimingConfig, error) {
	if *configPath != "" {
		return latency.LoadConfig(*configPath)
	}

	config := latency.DefaultTimingConfig()
	config.LoadLatency = *loadLat
	return config, config.Validate()
}
