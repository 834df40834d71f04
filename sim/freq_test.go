package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	It("should panic on zero frequency", func() {
		var f Freq
		Expect(func() { f.Period() }).To(Panic())
	})

	It("should get this tick", func() {
		var f = 1 * Hz
		Expect(f.ThisTick(1)).To(BeNumerically("~", 1, 1e-12))
		Expect(f.ThisTick(1.2)).To(BeNumerically("~", 2, 1e-12))
	})

	It("should get the next tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.000000001)).
			To(BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should get the next tick if current time is not on a tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.0000000011)).
			To(BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should get the n cycles later", func() {
		var f = 1 * GHz
		Expect(f.NCyclesLater(12, 102.000000001)).
			To(BeNumerically("~", 102.000000013, 1e-12))
	})

	It("should convert between cycles and time", func() {
		var f = 125 * MHz
		Expect(f.Cycle(f.CycleTime(1000))).To(Equal(uint64(1000)))
		Expect(f.CycleTime(125)).To(BeNumerically("~", 1e-6, 1e-15))
	})
})
