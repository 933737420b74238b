package pipeline

import (
	"fmt"
	"strings"
)

// LatchSnapshot is the read-only view of one latch lane.
type LatchSnapshot struct {
	Valid  bool
	Stall  bool
	SeqNum uint64
}

// ROBEntrySnapshot is the read-only view of one reorder buffer slot.
type ROBEntrySnapshot struct {
	Index     int
	Valid     bool
	Executing bool
	Ready     bool
	Inst      InstInfo
	Head      bool
	Tail      bool
}

// RATEntrySnapshot is the read-only view of one register alias.
type RATEntrySnapshot struct {
	Reg   int
	Valid bool
	Tag   int
}

// ExecQueueEntrySnapshot is the read-only view of one execution queue entry.
type ExecQueueEntrySnapshot struct {
	SeqNum    uint64
	Remaining uint64
}

// Snapshot is a point-in-time copy of the engine state for human-readable
// inspection. It plays no part in scheduling correctness.
type Snapshot struct {
	Cycle   uint64
	Retired uint64

	Fetch     []LatchSnapshot
	Decode    []LatchSnapshot
	Schedule  []LatchSnapshot
	Writeback []LatchSnapshot

	ROB       []ROBEntrySnapshot
	RAT       []RATEntrySnapshot
	ExecQueue []ExecQueueEntrySnapshot
}

// Snapshot captures the current engine state.
func (p *Pipeline) Snapshot() Snapshot {
	s := Snapshot{
		Cycle:    p.stats.Cycles,
		Retired:  p.stats.Retired,
		Fetch:    latchSnapshots(p.feLatch),
		Decode:   latchSnapshots(p.idLatch),
		Schedule: latchSnapshots(p.scLatch),
	}

	// Only occupied writeback lanes are interesting; there are hundreds.
	for _, lat := range p.exLatch {
		if lat.Valid {
			s.Writeback = append(s.Writeback, LatchSnapshot{
				Valid:  true,
				Stall:  lat.Stall,
				SeqNum: lat.Inst.SeqNum,
			})
		}
	}

	for i, e := range p.rob.entries {
		s.ROB = append(s.ROB, ROBEntrySnapshot{
			Index:     i,
			Valid:     e.Valid,
			Executing: e.Executing,
			Ready:     e.Ready,
			Inst:      e.Inst,
			Head:      i == p.rob.head,
			Tail:      i == p.rob.tail,
		})
	}

	for reg := 0; reg < NumArchRegs; reg++ {
		tag := p.rat.Lookup(reg)
		s.RAT = append(s.RAT, RATEntrySnapshot{
			Reg:   reg,
			Valid: tag != TagNone,
			Tag:   tag,
		})
	}

	for _, e := range p.exeq.entries {
		s.ExecQueue = append(s.ExecQueue, ExecQueueEntrySnapshot{
			SeqNum:    e.inst.SeqNum,
			Remaining: e.remaining,
		})
	}

	return s
}

func latchSnapshots(lats []Latch) []LatchSnapshot {
	out := make([]LatchSnapshot, len(lats))
	for i, lat := range lats {
		out[i] = LatchSnapshot{
			Valid:  lat.Valid,
			Stall:  lat.Stall,
			SeqNum: lat.Inst.SeqNum,
		}
	}
	return out
}

// String formats the snapshot as a state dump: the latch table, the RAT,
// the execution queue, and the ROB with head/tail markers.
func (s Snapshot) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "cycle %d, retired %d\n\n", s.Cycle, s.Retired)

	b.WriteString("  FE:      ID:      SCH:     EX:\n")
	lanes := len(s.Fetch)
	for i := 0; i < lanes; i++ {
		writeLane(&b, s.Fetch, i)
		writeLane(&b, s.Decode, i)
		writeLane(&b, s.Schedule, i)
		writeLane(&b, s.Writeback, i)
		b.WriteByte('\n')
	}
	for i := lanes; i < len(s.Writeback); i++ {
		b.WriteString(" ------  ------  ------ ")
		writeLane(&b, s.Writeback, i)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString("RAT state:\n")
	b.WriteString("  reg  valid  tag\n")
	for _, e := range s.RAT {
		fmt.Fprintf(&b, "  %3d  %5t  %3d\n", e.Reg, e.Valid, e.Tag)
	}
	b.WriteByte('\n')

	b.WriteString("EXEQ state:\n")
	if len(s.ExecQueue) == 0 {
		b.WriteString("  (empty)\n")
	} else {
		b.WriteString("  inst  remaining\n")
		for _, e := range s.ExecQueue {
			fmt.Fprintf(&b, "  %4d  %9d\n", e.SeqNum, e.Remaining)
		}
	}
	b.WriteByte('\n')

	b.WriteString("ROB state:\n")
	b.WriteString("  slot  inst  valid  exec  ready  s1reg  s1rdy  s1tag  s2reg  s2rdy  s2tag  dreg  dtag\n")
	for _, e := range s.ROB {
		fmt.Fprintf(&b, "  %4d  %4d  %5t  %4t  %5t  %5d  %5t  %5d  %5d  %5t  %5d  %4d  %4d",
			e.Index, e.Inst.SeqNum, e.Valid, e.Executing, e.Ready,
			e.Inst.Src1Reg, e.Inst.Src1Ready, e.Inst.Src1Tag,
			e.Inst.Src2Reg, e.Inst.Src2Ready, e.Inst.Src2Tag,
			e.Inst.DestReg, e.Inst.DestTag)
		switch {
		case e.Head && e.Tail:
			b.WriteString("  (head/tail)")
		case e.Head:
			b.WriteString("  (head)")
		case e.Tail:
			b.WriteString("  (tail)")
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func writeLane(b *strings.Builder, lanes []LatchSnapshot, i int) {
	if i < len(lanes) && lanes[i].Valid {
		fmt.Fprintf(b, " %6d ", lanes[i].SeqNum)
	} else {
		b.WriteString(" ------ ")
	}
}
