package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	mockEvent := func(t VTimeInSec, h Handler, secondary bool) *MockEvent {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(t).AnyTimes()
		evt.EXPECT().Handler().Return(h).AnyTimes()
		evt.EXPECT().IsSecondary().Return(secondary).AnyTimes()

		return evt
	}

	It("should run events in time order", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := mockEvent(4, handler1, false)
		evt2 := mockEvent(2, handler2, false)
		evt3 := mockEvent(3, handler1, false)
		evt4 := mockEvent(5, handler1, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2).
			DoAndReturn(func(_ Event) error {
				engine.Schedule(evt3)
				engine.Schedule(evt4)

				return nil
			})
		handleEvt3 := handler1.EXPECT().Handle(evt3).
			Return(nil).After(handleEvt2)
		handleEvt1 := handler1.EXPECT().Handle(evt1).
			Return(nil).After(handleEvt3)
		handler1.EXPECT().Handle(evt4).Return(nil).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(5)))
		Expect(engine.HandledCount()).To(Equal(uint64(4)))
	})

	It("should run secondary events after primary events of the same time",
		func() {
			handler := NewMockHandler(mockCtrl)
			secondary := mockEvent(2, handler, true)
			primary := mockEvent(2, handler, false)

			first := handler.EXPECT().Handle(primary).Return(nil)
			handler.EXPECT().Handle(secondary).Return(nil).After(first)

			engine.Schedule(secondary)
			engine.Schedule(primary)

			Expect(engine.Run()).To(Succeed())
		})

	It("should panic when scheduling an event in the past", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEvent(2, handler, false)
		evt2 := mockEvent(1, handler, false)

		handler.EXPECT().Handle(evt1).Return(nil)

		engine.Schedule(evt1)
		Expect(engine.Run()).To(Succeed())

		Expect(func() { engine.Schedule(evt2) }).To(Panic())
	})

	It("should stop at the first handler error", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEvent(1, handler, false)
		evt2 := mockEvent(2, handler, false)

		handler.EXPECT().Handle(evt1).Return(errors.New("stuck"))

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(MatchError("stuck"))
	})

	It("should invoke hooks before and after each event", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEvent(1, handler, false)
		handler.EXPECT().Handle(evt).Return(nil)

		var positions []*HookPos
		engine.AcceptHook(HookFunc(func(ctx HookCtx) {
			positions = append(positions, ctx.Pos)
		}))

		engine.Schedule(evt)
		Expect(engine.Run()).To(Succeed())

		Expect(positions).To(Equal(
			[]*HookPos{HookPosBeforeEvent, HookPosAfterEvent}))
	})

	It("should pause and continue", func() {
		Expect(engine.IsPaused()).To(BeFalse())

		engine.Pause()
		engine.Pause()
		Expect(engine.IsPaused()).To(BeTrue())

		engine.Continue()
		Expect(engine.IsPaused()).To(BeFalse())
	})

	It("should call simulation end handlers", func() {
		var endTime VTimeInSec = -1
		engine.RegisterSimulationEndHandler(endHandlerFunc(
			func(now VTimeInSec) { endTime = now }))

		engine.Finished()

		Expect(endTime).To(Equal(VTimeInSec(0)))
	})
})

type endHandlerFunc func(now VTimeInSec)

func (f endHandlerFunc) Handle(now VTimeInSec) {
	f(now)
}
