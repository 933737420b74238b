package pipeline

import "fmt"

// SchedPolicy selects how the schedule stage picks instructions to execute.
type SchedPolicy int

const (
	// SchedInOrder schedules instructions strictly in program order: the
	// scan never moves past a not-ready instruction.
	SchedInOrder SchedPolicy = iota
	// SchedOutOfOrder lets a younger ready instruction begin execution
	// before an older not-ready one.
	SchedOutOfOrder
)

// String returns the policy name as accepted by ParsePolicy.
func (p SchedPolicy) String() string {
	switch p {
	case SchedInOrder:
		return "inorder"
	case SchedOutOfOrder:
		return "ooo"
	default:
		return fmt.Sprintf("SchedPolicy(%d)", int(p))
	}
}

// ParsePolicy parses a scheduling policy name.
func ParsePolicy(s string) (SchedPolicy, error) {
	switch s {
	case "inorder":
		return SchedInOrder, nil
	case "ooo", "outoforder":
		return SchedOutOfOrder, nil
	default:
		return 0, fmt.Errorf("unknown scheduling policy %q", s)
	}
}

const (
	// MaxPipeWidth is the largest allowed pipeline width.
	MaxPipeWidth = 8
	// MaxROBEntries is the largest allowed reorder buffer capacity.
	MaxROBEntries = 256
	// MaxWritebacks is the number of writeback latches: the most
	// instructions that can complete execution in a single cycle.
	MaxWritebacks = 256
)

// Config carries the tunable parameters of the engine. It is supplied at
// construction and immutable thereafter.
type Config struct {
	// Width is the superscalar width: the number of lanes processed per
	// stage per cycle.
	Width int

	// ROBCapacity is the number of reorder buffer slots.
	ROBCapacity int

	// Policy selects in-order or out-of-order scheduling.
	Policy SchedPolicy

	// ExecQueueCapacity is the number of execution queue slots. Zero
	// selects DefaultExecQueueCapacity.
	ExecQueueCapacity int
}

// DefaultConfig returns a 2-wide out-of-order configuration with a 32-entry
// reorder buffer.
func DefaultConfig() Config {
	return Config{
		Width:             2,
		ROBCapacity:       32,
		Policy:            SchedOutOfOrder,
		ExecQueueCapacity: DefaultExecQueueCapacity,
	}
}

// withDefaults fills unset optional fields.
func (c Config) withDefaults() Config {
	if c.ExecQueueCapacity == 0 {
		c.ExecQueueCapacity = DefaultExecQueueCapacity
	}
	return c
}

// Validate checks the configuration bounds. Register and tag indices are
// valid by construction once the configuration passes.
func (c Config) Validate() error {
	if c.Width < 1 || c.Width > MaxPipeWidth {
		return fmt.Errorf("width must be between 1 and %d, got %d",
			MaxPipeWidth, c.Width)
	}
	if c.ROBCapacity < 1 || c.ROBCapacity > MaxROBEntries {
		return fmt.Errorf("ROB capacity must be between 1 and %d, got %d",
			MaxROBEntries, c.ROBCapacity)
	}
	if c.Policy != SchedInOrder && c.Policy != SchedOutOfOrder {
		return fmt.Errorf("unknown scheduling policy %d", int(c.Policy))
	}
	if c.ExecQueueCapacity < 0 || c.ExecQueueCapacity > MaxWritebacks {
		return fmt.Errorf("execution queue capacity must be between 0 and %d, got %d",
			MaxWritebacks, c.ExecQueueCapacity)
	}
	return nil
}
