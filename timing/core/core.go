// Package core exposes the pipeline engine as an Akita simulation
// component, so a simulated core can run on an event-driven engine
// alongside other components.
package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/oosim/timing/pipeline"
)

// Core represents one simulated processor core. It wraps a pipeline engine
// and ticks it once per simulated cycle.
type Core struct {
	*sim.TickingComponent

	// Pipeline is the underlying seven-stage pipeline engine.
	Pipeline *pipeline.Pipeline
}

// Builder can create cores.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
}

// NewBuilder returns a Builder with a 1 GHz default frequency.
func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the event-driven engine the core runs on.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// Build creates a core driving the given pipeline.
func (b Builder) Build(name string, pipe *pipeline.Pipeline) *Core {
	c := &Core{Pipeline: pipe}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	return c
}

// Tick advances the pipeline by one cycle. It reports no progress once the
// pipeline halts, which lets the engine run down.
func (c *Core) Tick() (madeProgress bool) {
	if c.Pipeline.Halted() {
		return false
	}

	c.Pipeline.Tick()
	return true
}

// Run starts the core and drives the engine until the pipeline halts. It
// returns the pipeline's error, if any.
func (c *Core) Run() error {
	c.TickNow()
	if err := c.Engine.Run(); err != nil {
		return err
	}
	return c.Pipeline.Err()
}

// Halted returns true once the pipeline has halted.
func (c *Core) Halted() bool {
	return c.Pipeline.Halted()
}

// Stats returns the pipeline's aggregate timing statistics.
func (c *Core) Stats() pipeline.Statistics {
	return c.Pipeline.Stats()
}
