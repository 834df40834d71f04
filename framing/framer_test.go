package framing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/stream"
)

var _ = Describe("Framer", func() {
	var (
		clock     *rtl.Clock
		src       *stream.Source
		framer    *Framer
		collector *stream.Collector
	)

	BeforeEach(func() {
		clock = rtl.NewClock("Clock", 125*sim.MHz)
		src = stream.NewSource("Src", 8)
		framer = NewFramer("Framer", src.Out, 8, 32)
		collector = stream.NewCollector("Sink", framer.Out)

		clock.Add(src, framer, collector)
		clock.AddState(src.Out, framer.Out)
	})

	frames := func(n int) func() bool {
		return func() bool { return len(collector.Frames()) == n }
	}

	It("should prepend a capture header", func() {
		payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		src.Send(payload)

		Expect(clock.RunUntil(frames(1), 50)).To(Succeed())

		hdr, data, err := Split(collector.Frames()[0])
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal(payload))
		Expect(hdr.CapLen).To(Equal(uint32(10)))
		Expect(hdr.Len).To(Equal(uint32(10)))
		Expect(hdr.TsNsec).To(BeNumerically(">", 0))
	})

	It("should stamp frames in arrival order", func() {
		src.Send([]byte{1}, []byte{2})

		Expect(clock.RunUntil(frames(2), 50)).To(Succeed())

		first, _, _ := Split(collector.Frames()[0])
		second, _, _ := Split(collector.Frames()[1])
		Expect(second.Time().After(first.Time())).To(BeTrue())
	})

	It("should cut long frames at the snap length", func() {
		long := make([]byte, 100)
		src.Send(long)

		Expect(clock.RunUntil(frames(1), 100)).To(Succeed())

		hdr, data, _ := Split(collector.Frames()[0])
		Expect(data).To(HaveLen(32))
		Expect(hdr.CapLen).To(Equal(uint32(32)))
		Expect(hdr.Len).To(Equal(uint32(100)))
	})

	It("should drop empty frames", func() {
		src.Send([]byte{}, []byte{7})

		Expect(clock.RunUntil(frames(1), 50)).To(Succeed())
		clock.StepN(10)

		Expect(collector.Frames()).To(HaveLen(1))
		framed, dropped := framer.Stats()
		Expect(framed).To(Equal(uint64(1)))
		Expect(dropped).To(Equal(uint64(1)))
	})
})
