package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oosim/timing/pipeline"
)

var _ = Describe("RAT", func() {
	var rat *pipeline.RAT

	BeforeEach(func() {
		rat = pipeline.NewRAT()
	})

	It("should report every register unmapped initially", func() {
		for reg := 0; reg < pipeline.NumArchRegs; reg++ {
			Expect(rat.Lookup(reg)).To(Equal(pipeline.TagNone))
		}
	})

	It("should remap and look up a register", func() {
		rat.SetRemap(5, 12)
		Expect(rat.Lookup(5)).To(Equal(12))
		Expect(rat.Lookup(6)).To(Equal(pipeline.TagNone))
	})

	It("should overwrite an existing mapping unconditionally", func() {
		rat.SetRemap(5, 12)
		rat.SetRemap(5, 30)
		Expect(rat.Lookup(5)).To(Equal(30))
	})

	It("should clear a mapping on reset", func() {
		rat.SetRemap(5, 12)
		rat.Reset(5)
		Expect(rat.Lookup(5)).To(Equal(pipeline.TagNone))
	})

	It("should allow looking up tag 0", func() {
		rat.SetRemap(0, 0)
		Expect(rat.Lookup(0)).To(Equal(0))
	})
})
