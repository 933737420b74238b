// Package pipeline provides a cycle-accurate model of an out-of-order
// superscalar instruction pipeline.
//
// The pipeline consumes abstract instruction records from an external
// source and reproduces, cycle by cycle, the scheduling, renaming, and
// retirement behavior of a hardware core: a reorder buffer enforcing
// in-order commit, a register alias table for renaming, an execution queue
// for multi-cycle operations, and seven stages (fetch, decode, issue,
// schedule, execute, writeback, commit) evaluated once per cycle.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/sarchlab/oosim/timing/latency"
	"github.com/sarchlab/oosim/trace"
)

// ErrExecQueueFull reports an execution queue overflow. The queue must be
// provisioned to never overflow under a correct configuration, so overflow
// is an unrecoverable fault, not a stall.
var ErrExecQueueFull = errors.New("execution queue full")

// InstructionSource produces instruction records one at a time on demand.
// Next returns io.EOF at a clean end-of-stream; any other error marks a
// malformed record or an I/O failure.
type InstructionSource interface {
	Next() (trace.Record, error)
}

// Statistics holds aggregate timing results.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Retired is the number of instructions committed.
	Retired uint64
}

// CPI returns the cycles per retired instruction.
func (s Statistics) CPI() float64 {
	if s.Retired == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Retired)
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithLatencyTable sets a custom execution latency table.
func WithLatencyTable(table *latency.Table) PipelineOption {
	return func(p *Pipeline) {
		p.latencyTable = table
	}
}

// WithLogger sets a structured logger for per-cycle debug tracing. Logging
// sits entirely outside the scheduling logic.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline is the seven-stage out-of-order pipeline engine.
//
// One Tick advances all stages by one cycle. Stages are evaluated in
// reverse pipeline order (commit first, fetch last) so that every stage
// observes only state produced by prior cycles, faithfully modeling
// synchronous hardware registers. The ROB, RAT, and execution queue are
// each touched by exactly one stage per cycle under this fixed order; no
// other discipline is needed.
type Pipeline struct {
	cfg Config

	// Per-stage latch lanes. feLatch, idLatch, and scLatch have Width
	// lanes; exLatch has MaxWritebacks lanes so that a burst of execution
	// queue completions always has somewhere to land.
	feLatch []Latch
	idLatch []Latch
	scLatch []Latch
	exLatch []Latch

	rob  *ROB
	rat  *RAT
	exeq *ExecQueue

	latencyTable *latency.Table
	source       InstructionSource
	logger       *slog.Logger

	stats Statistics

	// nextDecodeSeq is the decode stage's expected sequence number. It is
	// bookkeeping of its own, separate from the ROB.
	nextDecodeSeq uint64
	// lastSeqNum is the last sequence number assigned at fetch.
	lastSeqNum uint64
	// haltSeqNum is the sequence number of the final instruction in the
	// stream, or the sentinel before the stream end is known.
	haltSeqNum uint64
	srcDone    bool
	halted     bool
	err        error
}

// haltSeqSentinel is the halt sequence number used before the stream end
// has been observed.
const haltSeqSentinel = math.MaxUint64 - 3

// NewPipeline creates a pipeline engine reading instructions from source.
func NewPipeline(source InstructionSource, cfg Config, opts ...PipelineOption) (*Pipeline, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}

	p := &Pipeline{
		cfg:           cfg,
		feLatch:       make([]Latch, cfg.Width),
		idLatch:       make([]Latch, cfg.Width),
		scLatch:       make([]Latch, cfg.Width),
		exLatch:       make([]Latch, MaxWritebacks),
		rob:           NewROB(cfg.ROBCapacity),
		rat:           NewRAT(),
		exeq:          NewExecQueue(cfg.ExecQueueCapacity),
		source:        source,
		nextDecodeSeq: 1,
		haltSeqNum:    haltSeqSentinel,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.latencyTable == nil {
		p.latencyTable = latency.NewTable()
	}

	return p, nil
}

// Config returns the engine configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Stats returns the aggregate timing statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Halted returns true once the instruction stream is exhausted and every
// issued instruction has retired, or after an unrecoverable fault.
func (p *Pipeline) Halted() bool {
	return p.halted
}

// Err returns the source error or engine fault encountered, if any. A
// malformed trace or source I/O failure does not invalidate work that was
// already in flight; the pipeline drains it before halting.
func (p *Pipeline) Err() error {
	return p.err
}

// Run advances the pipeline until it halts, then returns Err().
func (p *Pipeline) Run() error {
	for !p.halted {
		p.Tick()
	}
	return p.err
}

// RunCycles advances the pipeline for at most n cycles. It returns true if
// the pipeline is still running.
func (p *Pipeline) RunCycles(n uint64) bool {
	for i := uint64(0); i < n && !p.halted; i++ {
		p.Tick()
	}
	return !p.halted
}

// Tick simulates one cycle of all stages.
func (p *Pipeline) Tick() {
	if p.halted {
		return
	}

	p.stats.Cycles++

	if p.logger != nil {
		p.logger.Debug("cycle",
			"cycle", p.stats.Cycles,
			"retired", p.stats.Retired,
			"robOccupancy", p.rob.Len())
	}

	// Reverse pipeline order: each stage sees only last cycle's state.
	p.cycleCommit()
	p.cycleWriteback()
	p.cycleExecute()
	p.cycleSchedule()
	p.cycleIssue()
	p.cycleDecode()
	p.cycleFetch()
}

// cycleFetch pulls new instructions from the source into empty, unstalled
// fetch latches, assigning sequence numbers in pull order. End-of-stream
// and malformed records both stop further fetching; a malformed record
// additionally surfaces an error through Err.
func (p *Pipeline) cycleFetch() {
	for i := range p.feLatch {
		lat := &p.feLatch[i]
		if lat.Stall || lat.Valid || p.srcDone {
			continue
		}

		rec, err := p.source.Next()
		if err != nil {
			p.srcDone = true
			p.haltSeqNum = p.lastSeqNum
			if p.stats.Retired >= p.haltSeqNum {
				p.halted = true
			}
			if err != io.EOF {
				p.err = fmt.Errorf("instruction source: %w", err)
				if p.logger != nil {
					p.logger.Warn("instruction source failed, draining pipeline",
						"err", err, "lastSeqNum", p.lastSeqNum)
				}
			}
			continue
		}

		p.lastSeqNum++
		lat.Valid = true
		lat.Stall = false
		lat.Inst = newInstInfo(p.lastSeqNum, rec)
	}
}

// cycleDecode restores program order: each empty, unstalled decode latch
// takes the fetch-latch instruction whose sequence number matches the
// expected counter, regardless of which physical fetch lane produced it.
func (p *Pipeline) cycleDecode() {
	for i := range p.idLatch {
		lat := &p.idLatch[i]
		if lat.Stall || lat.Valid {
			continue
		}

		for j := range p.feLatch {
			fe := &p.feLatch[j]
			if fe.Valid && fe.Inst.SeqNum == p.nextDecodeSeq {
				lat.Valid = true
				lat.Stall = false
				lat.Inst = fe.Inst
				fe.Valid = false
				p.nextDecodeSeq++
				break
			}
		}
	}
}

// cycleIssue inserts decoded instructions into the ROB strictly in program
// order and performs register renaming. A full ROB stalls the lane and
// every lane after it; issue stalls as an atomic unit per cycle.
func (p *Pipeline) cycleIssue() {
	// Decode may fill lanes out of program order across cycles.
	sort.SliceStable(p.idLatch, func(a, b int) bool {
		la, lb := &p.idLatch[a], &p.idLatch[b]
		if la.Valid != lb.Valid {
			return la.Valid
		}
		if !la.Valid {
			return false
		}
		return la.Inst.SeqNum < lb.Inst.SeqNum
	})

	stalled := false
	for i := range p.idLatch {
		lat := &p.idLatch[i]
		lat.Stall = stalled
		if stalled || !lat.Valid {
			continue
		}

		if !p.rob.HasSpace() {
			lat.Stall = true
			stalled = true
			continue
		}

		tag, _ := p.rob.Insert(lat.Inst)
		lat.Valid = false
		p.rename(tag)
	}
}

// rename resolves the source producers of the freshly inserted entry and
// redirects its destination register to the new tag. Sources are resolved
// before the destination is remapped, so an instruction reading and
// writing the same register sees its true producer.
func (p *Pipeline) rename(tag int) {
	inst := &p.rob.entries[tag].Inst

	if inst.Src1Reg != RegNone {
		inst.Src1Tag = p.rat.Lookup(inst.Src1Reg)
		inst.Src1Ready = inst.Src1Tag == TagNone || p.rob.IsReady(inst.Src1Tag)
	}
	if inst.Src2Reg != RegNone {
		inst.Src2Tag = p.rat.Lookup(inst.Src2Reg)
		inst.Src2Ready = inst.Src2Tag == TagNone || p.rob.IsReady(inst.Src2Tag)
	}

	inst.DestTag = tag
	if inst.DestReg != RegNone {
		p.rat.SetRemap(inst.DestReg, tag)
	}
}

// cycleSchedule makes one selection attempt per lane, each scanning the ROB
// from the head under the configured policy.
func (p *Pipeline) cycleSchedule() {
	for i := range p.scLatch {
		lat := &p.scLatch[i]

		inst, ok := p.rob.Select(p.cfg.Policy)
		if !ok {
			lat.Valid = false
			continue
		}

		lat.Valid = true
		lat.Stall = false
		lat.Inst = inst
	}
}

// cycleExecute routes scheduled instructions toward writeback. Single-cycle
// operations move directly to a writeback latch; multi-cycle operations
// enter the execution queue. The queue is then ticked once and completed
// entries are drained into writeback latches.
func (p *Pipeline) cycleExecute() {
	for i := range p.scLatch {
		lat := &p.scLatch[i]
		if !lat.Valid {
			continue
		}

		cycles := p.latencyTable.Latency(lat.Inst.Op)
		if cycles <= 1 {
			// A free writeback latch always exists in practice; if the
			// burst capacity is ever exhausted, hold the instruction in
			// place for a cycle.
			if !p.placeWriteback(lat.Inst) {
				continue
			}
			lat.Valid = false
			continue
		}

		if !p.exeq.Insert(lat.Inst, cycles) {
			p.fault(ErrExecQueueFull)
			return
		}
		lat.Valid = false
	}

	if p.exeq.Len() == 0 {
		return
	}

	p.exeq.Tick()

	for p.exeq.HasCompleted() {
		inst, _ := p.exeq.RemoveCompleted()
		if !p.placeWriteback(inst) {
			// Writeback capacity exhausted; the entry stays completed in
			// the queue and drains on a later cycle.
			break
		}
	}
}

// placeWriteback moves an instruction into the first free writeback latch.
func (p *Pipeline) placeWriteback(inst InstInfo) bool {
	for i := range p.exLatch {
		if !p.exLatch[i].Valid {
			p.exLatch[i] = Latch{Valid: true, Inst: inst}
			return true
		}
	}
	return false
}

// cycleWriteback broadcasts every completed instruction's tag to its
// dependents and marks its ROB entry ready to commit.
func (p *Pipeline) cycleWriteback() {
	for i := range p.exLatch {
		lat := &p.exLatch[i]
		if !lat.Valid || lat.Stall {
			continue
		}

		p.rob.Wakeup(lat.Inst.DestTag)
		p.rob.MarkReady(lat.Inst.DestTag)
		lat.Valid = false
	}
}

// cycleCommit retires ready instructions from the ROB head, up to Width per
// cycle, repairing the RAT and refreshing downstream stall signals as
// occupancy drops.
func (p *Pipeline) cycleCommit() {
	for i := 0; i < p.cfg.Width; i++ {
		if !p.rob.HeadReady() {
			break
		}

		inst, _ := p.rob.RemoveHead()
		p.stats.Retired++

		if inst.SeqNum >= p.haltSeqNum {
			p.halted = true
		}

		// A later rename of the same register must not be clobbered by an
		// older instruction's retirement.
		if inst.DestReg != RegNone && p.rat.Lookup(inst.DestReg) == inst.DestTag {
			p.rat.Reset(inst.DestReg)
		}

		p.idLatch[i].Stall = !p.rob.HasSpace()
	}
}

// fault halts the engine immediately with an unrecoverable error.
func (p *Pipeline) fault(err error) {
	p.err = err
	p.halted = true
	if p.logger != nil {
		p.logger.Error("engine fault", "err", err, "cycle", p.stats.Cycles)
	}
}
