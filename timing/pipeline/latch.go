package pipeline

// Latch is one lane of a stage boundary. Each latch holds at most one
// instruction. Lanes are not inherently ordered by program order; the
// decode and issue stages restore ordering explicitly.
type Latch struct {
	// Valid says whether the latch holds an instruction.
	Valid bool
	// Stall says whether the instruction must be held in place this cycle.
	Stall bool
	// Inst is the instruction the latch holds.
	Inst InstInfo
}
