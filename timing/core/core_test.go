package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/oosim/timing/core"
	"github.com/sarchlab/oosim/timing/latency"
	"github.com/sarchlab/oosim/timing/pipeline"
	"github.com/sarchlab/oosim/trace"
)

var _ = Describe("Core", func() {
	var (
		engine sim.Engine
		c      *core.Core
	)

	newCore := func(recs []trace.Record) *core.Core {
		p, err := pipeline.NewPipeline(
			trace.NewSliceSource(recs),
			pipeline.Config{
				Width:       1,
				ROBCapacity: 32,
				Policy:      pipeline.SchedOutOfOrder,
			},
			pipeline.WithLatencyTable(
				latency.NewTableWithConfig(latency.SingleCycleConfig())),
		)
		Expect(err).NotTo(HaveOccurred())
		return core.NewBuilder().
			WithEngine(engine).
			Build("Core", p)
	}

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
	})

	It("should drive the pipeline to completion on the engine", func() {
		recs := make([]trace.Record, 10)
		for i := range recs {
			recs[i] = trace.Record{
				Op:        trace.OpALU,
				DestValid: true,
				DestReg:   uint8(i),
			}
		}
		c = newCore(recs)

		Expect(c.Run()).To(Succeed())

		Expect(c.Halted()).To(BeTrue())
		Expect(c.Stats().Retired).To(Equal(uint64(10)))
		Expect(c.Stats().Cycles).To(Equal(uint64(16)))
	})

	It("should stop making progress once the pipeline halts", func() {
		c = newCore(nil)

		Expect(c.Run()).To(Succeed())

		Expect(c.Halted()).To(BeTrue())
		Expect(c.Tick()).To(BeFalse())
	})
})
