package regbus

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

var _ = Describe("Bus", func() {
	var (
		mockCtrl *gomock.Controller
		control  *MockSpace
		descs    *MockSpace
		clock    *rtl.Clock
		bus      *Comp
		master   *Master
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		control = NewMockSpace(mockCtrl)
		descs = NewMockSpace(mockCtrl)

		clock = rtl.NewClock("Clock", 125*sim.MHz)
		bus = NewComp("Bus")
		bus.Map(SpaceControl, control)
		bus.Map(SpaceDescriptor, descs)
		master = NewMaster("Master", clock, bus)

		clock.Add(master, bus)
		clock.AddState(bus.Req, bus.Rsp)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should route reads by space", func() {
		control.EXPECT().Read(uint64(0x8), 4).Return(uint64(0x3), nil)
		descs.EXPECT().Read(uint64(0x10), 8).Return(uint64(0x40000), nil)

		v, err := master.ReadDword(SpaceControl, 0x8)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint32(0x3)))

		q, err := master.ReadQword(SpaceDescriptor, 0x10)
		Expect(err).ToNot(HaveOccurred())
		Expect(q).To(Equal(uint64(0x40000)))
	})

	It("should route writes by space", func() {
		control.EXPECT().Write(uint64(0x8), 4, uint64(0x7)).Return(nil)
		descs.EXPECT().Write(uint64(0x18), 4, uint64(1)).Return(nil)

		Expect(master.WriteDword(SpaceControl, 0x8, 0x7)).To(Succeed())
		Expect(master.WriteDword(SpaceDescriptor, 0x18, 1)).To(Succeed())

		reads, writes, errs := bus.Stats()
		Expect(reads).To(BeZero())
		Expect(writes).To(Equal(uint64(2)))
		Expect(errs).To(BeZero())
	})

	It("should return space errors", func() {
		descs.EXPECT().Write(uint64(0x4), 4, uint64(1)).Return(ErrPartialField)

		err := master.WriteDword(SpaceDescriptor, 0x4, 1)

		Expect(err).To(MatchError(ErrPartialField))
	})

	It("should reject an unknown space", func() {
		_, err := master.ReadDword(SpaceID(9), 0)

		Expect(err).To(MatchError(ErrUnknownSpace))
	})

	It("should serve at most one request every two cycles", func() {
		control.EXPECT().Read(gomock.Any(), 4).Return(uint64(0), nil).Times(4)

		txns := make([]*Txn, 4)
		for i := range txns {
			txns[i] = master.Submit(Request{Space: SpaceControl, Addr: uint64(4 * i), Size: 4})
		}

		start := clock.Cycle()
		Expect(master.Wait(txns[3])).To(Succeed())

		Expect(clock.Cycle() - start).To(BeNumerically(">=", 8))
		for i, txn := range txns {
			Expect(txn.Done).To(BeTrue())
			Expect(txn.Rsp.ID).To(Equal(txn.Req.ID), "txn %d", i)
		}
		Expect(master.Idle()).To(BeTrue())
	})

	It("should time out without a bus", func() {
		lonely := NewMaster("Lonely", rtl.NewClock("Other", 125*sim.MHz), NewComp("Dead"))
		lonely.MaxCycles = 20

		_, err := lonely.ReadDword(SpaceControl, 0)

		Expect(err).To(MatchError(rtl.ErrTimeout))
	})
})
