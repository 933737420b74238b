package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oosim/timing/latency"
	"github.com/sarchlab/oosim/trace"
)

var _ = Describe("Latency", func() {
	var table *latency.Table

	BeforeEach(func() {
		table = latency.NewTable()
	})

	Describe("Default Timing Values", func() {
		It("should treat ALU operations as single-cycle", func() {
			Expect(table.Latency(trace.OpALU)).To(Equal(uint64(1)))
		})

		It("should treat loads as multi-cycle", func() {
			Expect(table.Latency(trace.OpLoad)).To(Equal(uint64(4)))
			Expect(table.IsMultiCycle(trace.OpLoad)).To(BeTrue())
		})

		It("should treat stores, branches, and others as single-cycle", func() {
			Expect(table.Latency(trace.OpStore)).To(Equal(uint64(1)))
			Expect(table.Latency(trace.OpBranch)).To(Equal(uint64(1)))
			Expect(table.Latency(trace.OpOther)).To(Equal(uint64(1)))
		})

		It("should report the load latency as the maximum", func() {
			Expect(table.MaxLatency()).To(Equal(uint64(4)))
		})
	})

	Describe("SingleCycleConfig", func() {
		It("should make every operation single-cycle", func() {
			table = latency.NewTableWithConfig(latency.SingleCycleConfig())
			Expect(table.MaxLatency()).To(Equal(uint64(1)))
			Expect(table.IsMultiCycle(trace.OpLoad)).To(BeFalse())
		})
	})

	Describe("Custom Configuration", func() {
		It("should use configured values", func() {
			config := latency.DefaultTimingConfig()
			config.LoadLatency = 10
			config.BranchLatency = 2

			table = latency.NewTableWithConfig(config)
			Expect(table.Latency(trace.OpLoad)).To(Equal(uint64(10)))
			Expect(table.Latency(trace.OpBranch)).To(Equal(uint64(2)))
			Expect(table.MaxLatency()).To(Equal(uint64(10)))
		})
	})

	Describe("Config Files", func() {
		It("should save and reload a configuration", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "timing.json")

			config := latency.DefaultTimingConfig()
			config.LoadLatency = 7
			Expect(config.SaveConfig(path)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.LoadLatency).To(Equal(uint64(7)))
			Expect(loaded.ALULatency).To(Equal(uint64(1)))
		})

		It("should keep defaults for fields absent from the file", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "timing.json")
			Expect(os.WriteFile(path,
				[]byte(`{"load_latency": 12}`), 0644)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.LoadLatency).To(Equal(uint64(12)))
			Expect(loaded.StoreLatency).To(Equal(uint64(1)))
		})

		It("should fail on a missing file", func() {
			_, err := latency.LoadConfig("/does/not/exist.json")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Validate", func() {
		It("should accept the default configuration", func() {
			Expect(latency.DefaultTimingConfig().Validate()).To(Succeed())
		})

		It("should reject zero latencies", func() {
			config := latency.DefaultTimingConfig()
			config.LoadLatency = 0
			Expect(config.Validate()).NotTo(Succeed())
		})
	})
})
