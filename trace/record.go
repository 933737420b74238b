// Package trace provides reading and writing of binary instruction traces.
//
// A trace is a flat sequence of fixed-size records, each describing one
// abstract instruction: its operation kind and which architectural registers
// it reads and writes. Traces carry no operand values; they only describe
// dependency structure, which is all the timing simulator needs.
//
// Usage:
//
//	reader := trace.NewReader(file)
//	for {
//		rec, err := reader.Next()
//		if err == io.EOF {
//			break
//		}
//		// feed rec into the pipeline
//	}
package trace

// OpKind identifies the operation class of a trace record.
type OpKind uint8

// Operation kinds.
const (
	// OpALU is a single-cycle arithmetic or logic operation.
	OpALU OpKind = iota
	// OpLoad reads from memory and may take multiple cycles to execute.
	OpLoad
	// OpStore writes to memory.
	OpStore
	// OpBranch is a control-flow operation.
	OpBranch
	// OpOther covers operations with no special timing behavior.
	OpOther

	// NumOpKinds is the number of valid operation kinds. Any record whose
	// op byte is at or above this value is malformed.
	NumOpKinds
)

// String returns a short mnemonic for the operation kind.
func (k OpKind) String() string {
	switch k {
	case OpALU:
		return "ALU"
	case OpLoad:
		return "LD"
	case OpStore:
		return "ST"
	case OpBranch:
		return "BR"
	case OpOther:
		return "OTH"
	default:
		return "???"
	}
}

// RecordSize is the on-disk size of one trace record in bytes.
const RecordSize = 8

// NumArchRegs is the number of architectural registers register ids in a
// record may refer to.
const NumArchRegs = 32

// Record is one instruction of a trace. The destination and the two source
// registers are each independently optional; the Valid flag says whether the
// corresponding register id is meaningful.
type Record struct {
	// Op is the operation kind.
	Op OpKind

	// DestValid says whether the instruction writes DestReg.
	DestValid bool
	// DestReg is the architectural destination register id.
	DestReg uint8

	// Src1Valid says whether the instruction reads Src1Reg.
	Src1Valid bool
	// Src1Reg is the first architectural source register id.
	Src1Reg uint8

	// Src2Valid says whether the instruction reads Src2Reg.
	Src2Valid bool
	// Src2Reg is the second architectural source register id.
	Src2Reg uint8
}

// marshal encodes the record into its fixed-size wire form. The last byte
// is reserved and always zero.
func (r Record) marshal() [RecordSize]byte {
	var buf [RecordSize]byte
	buf[0] = byte(r.Op)
	buf[1] = boolByte(r.DestValid)
	buf[2] = r.DestReg
	buf[3] = boolByte(r.Src1Valid)
	buf[4] = r.Src1Reg
	buf[5] = boolByte(r.Src2Valid)
	buf[6] = r.Src2Reg
	return buf
}

// unmarshal decodes the wire form. It does not validate the op kind; the
// Reader does that so it can report the record index.
func (r *Record) unmarshal(buf [RecordSize]byte) {
	r.Op = OpKind(buf[0])
	r.DestValid = buf[1] != 0
	r.DestReg = buf[2]
	r.Src1Valid = buf[3] != 0
	r.Src1Reg = buf[4]
	r.Src2Valid = buf[5] != 0
	r.Src2Reg = buf[6]
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
