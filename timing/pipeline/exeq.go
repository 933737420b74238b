package pipeline

// DefaultExecQueueCapacity is the default number of execution queue slots.
const DefaultExecQueueCapacity = 16

// execEntry is one in-flight multi-cycle instruction.
type execEntry struct {
	inst      InstInfo
	remaining uint64
}

// ExecQueue holds instructions whose execution spans multiple cycles.
// Single-cycle operations never enter it. Entries keep insertion order, so
// among entries completing in the same cycle the oldest-inserted drains
// first.
type ExecQueue struct {
	entries  []execEntry
	capacity int
}

// NewExecQueue creates an execution queue with the given capacity.
func NewExecQueue(capacity int) *ExecQueue {
	return &ExecQueue{
		entries:  make([]execEntry, 0, capacity),
		capacity: capacity,
	}
}

// Len returns the number of in-flight entries.
func (q *ExecQueue) Len() int {
	return len(q.entries)
}

// Capacity returns the number of slots.
func (q *ExecQueue) Capacity() int {
	return q.capacity
}

// Insert adds an instruction with the given remaining-cycle countdown. It
// returns false when the queue is at capacity; the queue must be
// provisioned so that this never happens, and the engine treats it as an
// unrecoverable fault.
func (q *ExecQueue) Insert(inst InstInfo, cycles uint64) bool {
	if len(q.entries) >= q.capacity {
		return false
	}

	q.entries = append(q.entries, execEntry{inst: inst, remaining: cycles})
	return true
}

// Tick advances every entry's countdown by one cycle.
func (q *ExecQueue) Tick() {
	for i := range q.entries {
		if q.entries[i].remaining > 0 {
			q.entries[i].remaining--
		}
	}
}

// HasCompleted reports whether any entry's countdown has reached zero.
func (q *ExecQueue) HasCompleted() bool {
	for i := range q.entries {
		if q.entries[i].remaining == 0 {
			return true
		}
	}
	return false
}

// RemoveCompleted removes and returns the oldest-inserted completed entry.
// It returns ok == false when no entry has completed.
func (q *ExecQueue) RemoveCompleted() (InstInfo, bool) {
	for i := range q.entries {
		if q.entries[i].remaining == 0 {
			inst := q.entries[i].inst
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return inst, true
		}
	}
	return InstInfo{}, false
}
