// Package main provides the entry point for OOSim.
// OOSim is a cycle-accurate out-of-order superscalar pipeline simulator.
//
// For the full CLI, use: go run ./cmd/oosim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("OOSim - Out-of-Order Superscalar Pipeline Simulator")
	fmt.Println("")
	fmt.Println("Usage: oosim [options] <trace file>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -width     Pipeline width (number of lanes)")
	fmt.Println("  -rob       Reorder buffer capacity")
	fmt.Println("  -sched     Scheduling policy: inorder or ooo")
	fmt.Println("  -config    Path to latency configuration JSON file")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/oosim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/oosim' instead.")
	}
}
