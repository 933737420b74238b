// Package latency provides per-operation execution timing for cycle-accurate
// simulation.
//
// The latency values can be configured via TimingConfig, either in code or
// from a JSON file.
package latency

import (
	"github.com/sarchlab/oosim/trace"
)

// Table provides operation latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing
// configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// Latency returns the execution latency in cycles for the given operation
// kind.
func (t *Table) Latency(op trace.OpKind) uint64 {
	switch op {
	case trace.OpALU:
		return t.config.ALULatency
	case trace.OpLoad:
		return t.config.LoadLatency
	case trace.OpStore:
		return t.config.StoreLatency
	case trace.OpBranch:
		return t.config.BranchLatency
	default:
		return t.config.OtherLatency
	}
}

// MaxLatency returns the largest latency across all operation kinds. When it
// is 1, no operation ever enters the execution queue.
func (t *Table) MaxLatency() uint64 {
	max := uint64(1)
	for op := trace.OpKind(0); op < trace.NumOpKinds; op++ {
		if l := t.Latency(op); l > max {
			max = l
		}
	}
	return max
}

// IsMultiCycle returns true if the operation takes more than one cycle to
// execute.
func (t *Table) IsMultiCycle(op trace.OpKind) bool {
	return t.Latency(op) > 1
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
