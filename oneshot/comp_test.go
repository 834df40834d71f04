package oneshot

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/artsniffer/rxdma/descpipe"
	"github.com/artsniffer/rxdma/dmawriter"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

var _ = Describe("Comp", func() {
	var (
		clock   *rtl.Clock
		comp    *Comp
		descs   *rtl.Drain[descpipe.Desc]
		results *rtl.Feeder[dmawriter.Result]
	)

	read := func(addr uint64) uint64 {
		v, err := comp.Read(addr, 4)
		Expect(err).ToNot(HaveOccurred())

		return v
	}

	write := func(addr uint64, v uint64) {
		Expect(comp.Write(addr, 4, v)).To(Succeed())
		clock.Step()
	}

	descCount := func(n int) func() bool {
		return func() bool { return len(descs.Items()) == n }
	}

	BeforeEach(func() {
		clock = rtl.NewClock("Clock", 125*sim.MHz)
		comp = MakeBuilder().Build("OneShot")
		descs = rtl.NewDrain("Descs", comp.Desc)
		results = rtl.NewFeeder("Results", comp.Result)

		clock.Add(results, comp, descs)
		clock.AddState(comp.Desc, comp.Result)

		write(RegAddr, 0x4000)
		write(RegCtrl, uint64(CtrlEnable|CtrlIRQEnable))
	})

	It("should arm on a LENGTH write without touching CTRL", func() {
		clock = rtl.NewClock("Clock", 125*sim.MHz)
		comp = MakeBuilder().Build("OneShot")
		descs = rtl.NewDrain("Descs", comp.Desc)
		descs.Hold(true)
		clock.Add(comp, descs)
		clock.AddState(comp.Desc, comp.Result)

		write(RegAddr, 0x12345678)
		write(RegLength, 0xFFFFFFFF)
		clock.StepN(5)

		Expect(comp.Enabled()).To(BeFalse())
		Expect(comp.Desc.Valid()).To(BeTrue())
		Expect(comp.Desc.Peek()).To(Equal(descpipe.Desc{
			Addr: 0x12345678, Len: LengthMask, Tag: true,
		}))
		Expect(read(RegLength)).To(Equal(uint64(LengthMask)))
	})

	It("should read back the low 12 bits of LENGTH", func() {
		descs.Hold(true)
		write(RegLength, 0x1234)

		Expect(read(RegLength)).To(Equal(uint64(0x234)))
	})

	It("should arm one descriptor per LENGTH write", func() {
		write(RegLength, 100)

		Expect(clock.RunUntil(descCount(1), 10)).To(Succeed())
		clock.StepN(5)

		Expect(descs.Items()).To(Equal([]descpipe.Desc{
			{Addr: 0x4000, Len: 100, Tag: true},
		}))
		Expect(read(RegStatus) & uint64(StatusBusy)).ToNot(BeZero())
	})

	It("should hold the descriptor until it is accepted", func() {
		descs.Hold(true)
		write(RegLength, 100)
		clock.StepN(10)

		Expect(comp.Desc.Valid()).To(BeTrue())
		Expect(comp.Desc.Peek().Len).To(Equal(uint32(100)))

		descs.Hold(false)
		Expect(clock.RunUntil(descCount(1), 10)).To(Succeed())
		clock.Step()
		Expect(comp.Desc.Valid()).To(BeFalse())
	})

	It("should keep a write while armed pending until completion", func() {
		descs.Hold(true)
		write(RegLength, 100)
		write(RegLength, 200)
		clock.StepN(3)

		Expect(comp.Desc.Peek().Len).To(Equal(uint32(100)))

		descs.Hold(false)
		Expect(clock.RunUntil(descCount(1), 10)).To(Succeed())
		clock.StepN(5)
		Expect(descs.Items()).To(HaveLen(1))

		results.Push(dmawriter.Result{Len: 60})
		Expect(clock.RunUntil(descCount(2), 10)).To(Succeed())

		Expect(descs.Items()[0].Len).To(Equal(uint32(100)))
		Expect(descs.Items()[1].Len).To(Equal(uint32(200)))
		Expect(comp.LastLength()).To(Equal(uint32(60)))
	})

	It("should raise and clear the interrupt", func() {
		write(RegLength, 100)
		Expect(clock.RunUntil(descCount(1), 10)).To(Succeed())

		results.Push(dmawriter.Result{Len: 60})
		Expect(clock.RunUntil(comp.IRQ, 10)).To(Succeed())
		Expect(read(RegStatus)).To(Equal(uint64(StatusIRQPending)))

		write(RegStatus, read(RegStatus))
		Expect(comp.IRQ()).To(BeFalse())
		Expect(comp.Transfers()).To(Equal(uint64(1)))
	})

	It("should accept a new LENGTH after completion", func() {
		write(RegLength, 100)
		Expect(clock.RunUntil(descCount(1), 10)).To(Succeed())
		results.Push(dmawriter.Result{Len: 100})
		Expect(clock.RunUntil(func() bool { return !comp.Busy() }, 10)).To(Succeed())

		write(RegLength, 300)
		Expect(clock.RunUntil(descCount(2), 10)).To(Succeed())
		Expect(descs.Items()[1].Len).To(Equal(uint32(300)))
	})

	It("should drop the armed descriptor on soft reset", func() {
		descs.Hold(true)
		write(RegLength, 100)
		clock.StepN(2)

		write(RegCtrl, uint64(CtrlEnable|CtrlReset))
		Expect(comp.SoftReset()).To(BeTrue())
		clock.Step()

		Expect(comp.SoftReset()).To(BeFalse())
		Expect(comp.Desc.Valid()).To(BeFalse())
		Expect(comp.Busy()).To(BeFalse())

		descs.Hold(false)
		clock.StepN(5)
		Expect(descs.Items()).To(BeEmpty())
	})
})
