package memwrite

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/stream"
)

var _ = Describe("Memory", func() {
	var (
		clock    *rtl.Clock
		mem      *Memory
		awFeeder *rtl.Feeder[Cmd]
		wFeeder  *rtl.Feeder[stream.Beat]
		bDrain   *rtl.Drain[Ack]
	)

	BeforeEach(func() {
		clock = rtl.NewClock("Clock", 125*sim.MHz)
		mem = MakeBuilder().WithCapacity(1 << 16).Build("Mem")
		awFeeder = rtl.NewFeeder("AWFeeder", mem.AW)
		wFeeder = rtl.NewFeeder("WFeeder", mem.W)
		bDrain = rtl.NewDrain("BDrain", mem.B)

		clock.Add(awFeeder, wFeeder, mem, bDrain)
		clock.AddState(mem.AW, mem.W, mem.B)
	})

	It("should store a burst and acknowledge it", func() {
		awFeeder.Push(Cmd{ID: 7, Addr: 0x1000, Len: 6})
		wFeeder.Push(
			stream.Beat{Data: []byte{1, 2, 3, 4}},
			stream.Beat{Data: []byte{5, 6}, Last: true},
		)

		Expect(clock.RunUntil(func() bool { return len(bDrain.Items()) == 1 }, 20)).
			To(Succeed())

		Expect(bDrain.Items()).To(Equal([]Ack{{ID: 7}}))
		data, err := mem.Read(0x1000, 6)
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{1, 2, 3, 4, 5, 6}))

		bytes, bursts := mem.Stats()
		Expect(bytes).To(Equal(uint64(6)))
		Expect(bursts).To(Equal(uint64(1)))
	})

	It("should keep acknowledgements in order under backpressure", func() {
		pause := []int{1, 1, 1, 0}
		mem.SetAWPause(rtl.PatternFromInts(pause))
		mem.SetWPause(rtl.PatternFromInts(pause))
		mem.SetBPause(rtl.PatternFromInts(pause))
		bDrain.SetPause(rtl.PatternFromInts([]int{0, 1}))

		for i := 0; i < 5; i++ {
			awFeeder.Push(Cmd{ID: uint64(i), Addr: uint64(0x100 * i), Len: 4})
			wFeeder.Push(stream.Beat{Data: []byte{byte(i), 0, 0, byte(i)}, Last: true})
		}

		Expect(clock.RunUntil(func() bool { return len(bDrain.Items()) == 5 }, 200)).
			To(Succeed())

		for i, ack := range bDrain.Items() {
			Expect(ack.ID).To(Equal(uint64(i)))
			data, _ := mem.Read(uint64(0x100*i), 4)
			Expect(data).To(Equal([]byte{byte(i), 0, 0, byte(i)}))
		}
	})

	It("should not take write data before a write command", func() {
		wFeeder.Push(stream.Beat{Data: []byte{1}, Last: true})

		clock.StepN(10)
		Expect(wFeeder.Sent()).To(Equal(0))

		awFeeder.Push(Cmd{ID: 1, Addr: 0, Len: 1})
		Expect(clock.RunUntil(func() bool { return len(bDrain.Items()) == 1 }, 20)).
			To(Succeed())
	})

	It("should panic on a burst longer than its command", func() {
		awFeeder.Push(Cmd{ID: 1, Addr: 0, Len: 2})
		wFeeder.Push(stream.Beat{Data: []byte{1, 2, 3}, Last: true})

		Expect(func() { clock.StepN(10) }).To(Panic())
	})
})
