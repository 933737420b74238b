package pipeline

import "github.com/sarchlab/oosim/trace"

// NumArchRegs is the number of architectural registers in the simulated ISA.
const NumArchRegs = trace.NumArchRegs

// RATEntry is one register alias. When Valid, the latest value of the
// register has not yet committed and lives in the ROB at Tag.
type RATEntry struct {
	Valid bool
	Tag   int
}

// RAT is the register alias table: a fixed-size map from architectural
// register id to the ROB tag of its latest in-flight producer. It has no
// notion of history beyond the single current mapping per register, and no
// internal error conditions; callers supply valid register ids.
type RAT struct {
	entries [NumArchRegs]RATEntry
}

// NewRAT creates a RAT with no registers aliased.
func NewRAT() *RAT {
	return &RAT{}
}

// Lookup returns the ROB tag the register is aliased to, or TagNone if the
// register's latest value has already committed.
func (r *RAT) Lookup(reg int) int {
	if !r.entries[reg].Valid {
		return TagNone
	}
	return r.entries[reg].Tag
}

// SetRemap aliases the register to the given ROB tag, overwriting any
// previous mapping.
func (r *RAT) SetRemap(reg, tag int) {
	r.entries[reg].Valid = true
	r.entries[reg].Tag = tag
}

// Reset clears the alias of the register.
func (r *RAT) Reset(reg int) {
	r.entries[reg].Valid = false
}
