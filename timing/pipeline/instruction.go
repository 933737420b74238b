package pipeline

import "github.com/sarchlab/oosim/trace"

// RegNone marks an absent architectural register operand.
const RegNone = -1

// TagNone marks an unassigned or unmapped ROB tag.
const TagNone = -1

// InstInfo is one in-flight instruction. It is created at fetch, mutated as
// it passes each stage, and consumed at commit. Operand values are never
// computed; only the dependency structure is tracked.
type InstInfo struct {
	// SeqNum is the 1-based program-order sequence number assigned at fetch.
	SeqNum uint64

	// Op is the operation kind from the trace record.
	Op trace.OpKind

	// DestReg, Src1Reg, and Src2Reg are architectural register ids, or
	// RegNone when the operand is absent.
	DestReg int
	Src1Reg int
	Src2Reg int

	// DestTag is the instruction's own ROB tag, assigned once at issue.
	DestTag int

	// Src1Tag and Src2Tag are the ROB tags of the in-flight producers of
	// the source operands, or TagNone when the value has already committed.
	Src1Tag int
	Src2Tag int

	// Src1Ready and Src2Ready say whether the source operands are
	// available. Once set they stay set until the instruction retires.
	Src1Ready bool
	Src2Ready bool
}

// newInstInfo builds the in-flight form of a fetched trace record.
func newInstInfo(seqNum uint64, rec trace.Record) InstInfo {
	return InstInfo{
		SeqNum:  seqNum,
		Op:      rec.Op,
		DestReg: regOperand(rec.DestValid, rec.DestReg),
		Src1Reg: regOperand(rec.Src1Valid, rec.Src1Reg),
		Src2Reg: regOperand(rec.Src2Valid, rec.Src2Reg),
		DestTag: TagNone,
		Src1Tag: TagNone,
		Src2Tag: TagNone,
	}
}

func regOperand(valid bool, reg uint8) int {
	if !valid {
		return RegNone
	}
	return int(reg)
}
