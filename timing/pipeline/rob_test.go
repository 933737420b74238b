package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oosim/timing/pipeline"
)

// aluInst builds a source-free instruction writing dest.
func aluInst(seq uint64, dest int) pipeline.InstInfo {
	return pipeline.InstInfo{
		SeqNum:  seq,
		DestReg: dest,
		Src1Reg: pipeline.RegNone,
		Src2Reg: pipeline.RegNone,
		DestTag: pipeline.TagNone,
		Src1Tag: pipeline.TagNone,
		Src2Tag: pipeline.TagNone,
	}
}

// depInst builds an instruction reading src1 from the given producer tag.
func depInst(seq uint64, dest, src1Reg, src1Tag int) pipeline.InstInfo {
	inst := aluInst(seq, dest)
	inst.Src1Reg = src1Reg
	inst.Src1Tag = src1Tag
	return inst
}

var _ = Describe("ROB", func() {
	var rob *pipeline.ROB

	BeforeEach(func() {
		rob = pipeline.NewROB(4)
	})

	Describe("Insert", func() {
		It("should assign the slot index as the tag", func() {
			for i := 0; i < 4; i++ {
				tag, ok := rob.Insert(aluInst(uint64(i+1), i))
				Expect(ok).To(BeTrue())
				Expect(tag).To(Equal(i))
			}
		})

		It("should fill all slots before reporting full", func() {
			for i := 0; i < 4; i++ {
				Expect(rob.HasSpace()).To(BeTrue())
				_, ok := rob.Insert(aluInst(uint64(i+1), i))
				Expect(ok).To(BeTrue())
			}

			Expect(rob.HasSpace()).To(BeFalse())
			Expect(rob.Len()).To(Equal(4))

			_, ok := rob.Insert(aluInst(5, 0))
			Expect(ok).To(BeFalse())
		})

		It("should regain space after the head retires", func() {
			for i := 0; i < 4; i++ {
				rob.Insert(aluInst(uint64(i+1), i))
			}
			Expect(rob.HasSpace()).To(BeFalse())

			rob.MarkReady(0)
			inst, ok := rob.RemoveHead()
			Expect(ok).To(BeTrue())
			Expect(inst.SeqNum).To(Equal(uint64(1)))

			Expect(rob.HasSpace()).To(BeTrue())
			tag, ok := rob.Insert(aluInst(5, 0))
			Expect(ok).To(BeTrue())
			Expect(tag).To(Equal(0)) // tail wrapped around
		})
	})

	Describe("Flags", func() {
		It("should be idempotent for MarkExecuting and MarkReady", func() {
			tag, _ := rob.Insert(aluInst(1, 0))

			rob.MarkExecuting(tag)
			rob.MarkExecuting(tag)
			rob.MarkReady(tag)
			rob.MarkReady(tag)

			Expect(rob.IsReady(tag)).To(BeTrue())
		})

		It("should not report an empty slot as ready", func() {
			Expect(rob.IsReady(0)).To(BeFalse())
			Expect(rob.HeadReady()).To(BeFalse())
		})
	})

	Describe("RemoveHead", func() {
		It("should refuse to remove a not-ready head", func() {
			rob.Insert(aluInst(1, 0))

			_, ok := rob.RemoveHead()
			Expect(ok).To(BeFalse())
			Expect(rob.Len()).To(Equal(1))
		})

		It("should retire in strictly increasing sequence order", func() {
			for i := 0; i < 4; i++ {
				tag, _ := rob.Insert(aluInst(uint64(i+1), i))
				rob.MarkReady(tag)
			}

			for i := 0; i < 4; i++ {
				inst, ok := rob.RemoveHead()
				Expect(ok).To(BeTrue())
				Expect(inst.SeqNum).To(Equal(uint64(i + 1)))
			}
			Expect(rob.Len()).To(BeZero())
		})
	})

	Describe("Wakeup", func() {
		It("should set the matching source-operand ready flags", func() {
			producer, _ := rob.Insert(aluInst(1, 1))
			consumer, _ := rob.Insert(depInst(2, 2, 1, producer))
			bystander, _ := rob.Insert(depInst(3, 3, 1, pipeline.TagNone))

			rob.Wakeup(producer)

			Expect(rob.Entry(consumer).Inst.Src1Ready).To(BeTrue())
			Expect(rob.Entry(bystander).Inst.Src1Ready).To(BeFalse())
		})

		It("should wake both source operands of the same consumer", func() {
			producer, _ := rob.Insert(aluInst(1, 1))
			inst := depInst(2, 2, 1, producer)
			inst.Src2Reg = 1
			inst.Src2Tag = producer
			consumer, _ := rob.Insert(inst)

			rob.Wakeup(producer)

			entry := rob.Entry(consumer)
			Expect(entry.Inst.Src1Ready).To(BeTrue())
			Expect(entry.Inst.Src2Ready).To(BeTrue())
		})

		It("should reach every occupied entry when the buffer is full", func() {
			producer, _ := rob.Insert(aluInst(1, 1))
			for seq := uint64(2); seq <= 4; seq++ {
				rob.Insert(depInst(seq, int(seq), 1, producer))
			}
			Expect(rob.HasSpace()).To(BeFalse())

			rob.Wakeup(producer)

			for tag := 1; tag < 4; tag++ {
				Expect(rob.Entry(tag).Inst.Src1Ready).To(BeTrue())
			}
		})

		It("should never clear a readiness flag once set", func() {
			producer, _ := rob.Insert(aluInst(1, 1))
			consumer, _ := rob.Insert(depInst(2, 2, 1, producer))

			rob.Wakeup(producer)
			rob.Wakeup(99) // unrelated tag

			Expect(rob.Entry(consumer).Inst.Src1Ready).To(BeTrue())
		})
	})

	Describe("Select", func() {
		Context("in-order policy", func() {
			It("should select the oldest ready entry", func() {
				tag, _ := rob.Insert(aluInst(1, 1))
				rob.Insert(aluInst(2, 2))

				inst, ok := rob.Select(pipeline.SchedInOrder)
				Expect(ok).To(BeTrue())
				Expect(inst.SeqNum).To(Equal(uint64(1)))
				Expect(rob.Entry(tag).Executing).To(BeTrue())
			})

			It("should never scan past a not-ready entry", func() {
				producer, _ := rob.Insert(aluInst(1, 1))
				rob.MarkExecuting(producer)
				rob.Insert(depInst(2, 2, 1, producer)) // not ready
				rob.Insert(aluInst(3, 3))              // ready but younger

				_, ok := rob.Select(pipeline.SchedInOrder)
				Expect(ok).To(BeFalse())
			})
		})

		Context("out-of-order policy", func() {
			It("should skip a not-ready entry to find a younger ready one", func() {
				producer, _ := rob.Insert(aluInst(1, 1))
				rob.MarkExecuting(producer)
				rob.Insert(depInst(2, 2, 1, producer)) // not ready
				young, _ := rob.Insert(aluInst(3, 3))  // ready

				inst, ok := rob.Select(pipeline.SchedOutOfOrder)
				Expect(ok).To(BeTrue())
				Expect(inst.SeqNum).To(Equal(uint64(3)))
				Expect(rob.Entry(young).Executing).To(BeTrue())
			})

			It("should prefer the oldest among equally ready entries", func() {
				rob.Insert(aluInst(1, 1))
				rob.Insert(aluInst(2, 2))

				inst, ok := rob.Select(pipeline.SchedOutOfOrder)
				Expect(ok).To(BeTrue())
				Expect(inst.SeqNum).To(Equal(uint64(1)))
			})
		})

		It("should not select the same entry twice in one cycle", func() {
			rob.Insert(aluInst(1, 1))

			_, ok := rob.Select(pipeline.SchedOutOfOrder)
			Expect(ok).To(BeTrue())

			_, ok = rob.Select(pipeline.SchedOutOfOrder)
			Expect(ok).To(BeFalse())
		})

		It("should select nothing from an empty buffer", func() {
			_, ok := rob.Select(pipeline.SchedInOrder)
			Expect(ok).To(BeFalse())
		})
	})
})
