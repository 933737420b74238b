package pipeline

// ROBEntry is one slot of the reorder buffer.
type ROBEntry struct {
	// Valid says whether the slot holds an in-flight instruction.
	Valid bool
	// Executing says whether the instruction has been selected by the
	// schedule stage.
	Executing bool
	// Ready says whether execution has completed and the instruction is
	// eligible to commit.
	Ready bool
	// Inst is the instruction the slot holds.
	Inst InstInfo
}

// operandsReady reports whether both source operands are available. An
// absent operand counts as ready.
func (e *ROBEntry) operandsReady() bool {
	src1 := e.Inst.Src1Reg == RegNone || e.Inst.Src1Ready
	src2 := e.Inst.Src2Reg == RegNone || e.Inst.Src2Ready
	return src1 && src2
}

// ROB is the reorder buffer: a fixed-capacity circular buffer of in-flight
// instructions. It owns retirement order and dependency-readiness
// bookkeeping. The buffer is full exactly when head == tail and the head
// slot is valid; an instruction's tag is the index of its slot.
type ROB struct {
	entries []ROBEntry
	head    int
	tail    int
}

// NewROB creates a reorder buffer with the given capacity.
func NewROB(capacity int) *ROB {
	return &ROB{
		entries: make([]ROBEntry, capacity),
	}
}

// Capacity returns the number of slots.
func (r *ROB) Capacity() int {
	return len(r.entries)
}

// Len returns the number of occupied slots.
func (r *ROB) Len() int {
	if r.head == r.tail {
		if r.entries[r.head].Valid {
			return len(r.entries)
		}
		return 0
	}
	return (r.tail - r.head + len(r.entries)) % len(r.entries)
}

// HasSpace reports whether another instruction can be inserted.
func (r *ROB) HasSpace() bool {
	return r.Len() < len(r.entries)
}

// Insert allocates the tail slot for the instruction and returns the slot
// index as its tag. It returns ok == false when the buffer is full.
func (r *ROB) Insert(inst InstInfo) (tag int, ok bool) {
	if !r.HasSpace() {
		return TagNone, false
	}

	tag = r.tail
	r.entries[tag] = ROBEntry{Valid: true, Inst: inst}
	r.tail = (r.tail + 1) % len(r.entries)
	return tag, true
}

// MarkExecuting marks the entry at tag as selected for execution.
// Idempotent.
func (r *ROB) MarkExecuting(tag int) {
	r.entries[tag].Executing = true
}

// MarkReady marks the entry at tag as having completed execution.
// Idempotent.
func (r *ROB) MarkReady(tag int) {
	r.entries[tag].Ready = true
}

// IsReady reports whether the entry at tag is valid and has completed
// execution.
func (r *ROB) IsReady(tag int) bool {
	return r.entries[tag].Valid && r.entries[tag].Ready
}

// HeadReady reports whether the head entry is eligible to commit.
func (r *ROB) HeadReady() bool {
	return r.IsReady(r.head)
}

// Wakeup broadcasts a completed producer tag to every occupied entry,
// head to tail, setting the ready flag of each source operand whose
// producer tag matches. Cost is proportional to occupancy.
func (r *ROB) Wakeup(producerTag int) {
	n := r.Len()
	i := r.head
	for k := 0; k < n; k++ {
		e := &r.entries[i]
		if e.Valid && e.Inst.Src1Tag == producerTag {
			e.Inst.Src1Ready = true
		}
		if e.Valid && e.Inst.Src2Tag == producerTag {
			e.Inst.Src2Ready = true
		}
		i = (i + 1) % len(r.entries)
	}
}

// RemoveHead retires the head entry: it clears the slot, advances the head
// pointer, and returns the retired instruction. It returns ok == false and
// leaves the buffer untouched when the head is not ready; callers must
// check HeadReady first.
func (r *ROB) RemoveHead() (InstInfo, bool) {
	if !r.HeadReady() {
		return InstInfo{}, false
	}

	inst := r.entries[r.head].Inst
	r.entries[r.head] = ROBEntry{}
	r.head = (r.head + 1) % len(r.entries)
	return inst, true
}

// Select runs one scheduling scan from head toward tail and returns the
// instruction selected for execution this attempt, marking its entry
// executing so a later scan in the same cycle cannot pick it again.
//
// Both policies share the scan; they differ only in whether a
// not-yet-executing entry with unavailable operands may be skipped. Under
// in-order scheduling the scan stops at the first such entry; under
// out-of-order scheduling it moves past it. Scanning from the head means
// the oldest eligible instruction always wins ties.
func (r *ROB) Select(policy SchedPolicy) (InstInfo, bool) {
	n := r.Len()
	i := r.head
	for k := 0; k < n; k++ {
		e := &r.entries[i]
		if e.Valid && !e.Executing {
			if e.operandsReady() {
				e.Executing = true
				return e.Inst, true
			}
			if policy == SchedInOrder {
				return InstInfo{}, false
			}
		}
		i = (i + 1) % len(r.entries)
	}
	return InstInfo{}, false
}

// Head returns the head slot index.
func (r *ROB) Head() int {
	return r.head
}

// Tail returns the tail slot index.
func (r *ROB) Tail() int {
	return r.tail
}

// Entry returns a copy of the entry at tag, for inspection.
func (r *ROB) Entry(tag int) ROBEntry {
	return r.entries[tag]
}
