package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("TickingComponent", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *MockEngine
		ticker   *MockTicker
		tc       *TickingComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEngine(mockCtrl)
		ticker = NewMockTicker(mockCtrl)
		tc = NewTickingComponent("TC", engine, 1, ticker)

		engine.EXPECT().CurrentTime().Return(VTimeInSec(10)).AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should schedule a tick in the next cycle", func() {
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) {
				Expect(e.Time()).To(Equal(VTimeInSec(11)))
				Expect(e.Handler()).To(BeIdenticalTo(tc))
			})

		tc.TickLater()
	})

	It("should schedule a tick in the current cycle", func() {
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) {
				Expect(e.Time()).To(Equal(VTimeInSec(10)))
			})

		tc.TickNow()
	})

	It("should tick again when the ticker makes progress", func() {
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) {
				Expect(e.Time()).To(Equal(VTimeInSec(11)))
			})
		ticker.EXPECT().Tick().Return(true)

		Expect(tc.Handle(MakeTickEvent(tc, 10))).To(Succeed())
	})

	It("should not double schedule a tick", func() {
		engine.EXPECT().Schedule(gomock.Any()).Times(1)
		ticker.EXPECT().Tick().Return(true).Times(2)

		Expect(tc.Handle(MakeTickEvent(tc, 10))).To(Succeed())
		Expect(tc.Handle(MakeTickEvent(tc, 10))).To(Succeed())
	})

	It("should stop ticking if no progress is made", func() {
		ticker.EXPECT().Tick().Return(false)

		Expect(tc.Handle(MakeTickEvent(tc, 10))).To(Succeed())
	})
})
