package monitoring

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/artsniffer/rxdma/csr"
	"github.com/artsniffer/rxdma/ring"
	"github.com/artsniffer/rxdma/sim"
)

type sampleComponent struct {
	*sim.ComponentBase

	Level  int
	buffer sim.Buffer
	other  sim.Buffer
	unused sim.Buffer
}

func newSampleComponent(name string, capacity int) *sampleComponent {
	return &sampleComponent{
		ComponentBase: sim.NewComponentBase(name),
		buffer:        sim.NewBuffer(name+".Buf", capacity),
		other:         sim.NewBuffer(name+".Other", capacity),
	}
}

var _ = Describe("Monitor", func() {
	var (
		engine *sim.SerialEngine
		m      *Monitor
		server *httptest.Server
	)

	get := func(path string) (int, []byte) {
		rsp, err := http.Get(server.URL + path)
		Expect(err).ToNot(HaveOccurred())

		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).ToNot(HaveOccurred())

		return rsp.StatusCode, body
	}

	BeforeEach(func() {
		log := logrus.New()
		log.SetOutput(io.Discard)

		engine = sim.NewSerialEngine()
		m = NewMonitor(log)
		m.RegisterEngine(engine)
	})

	JustBeforeEach(func() {
		server = httptest.NewServer(m.Router())
	})

	AfterEach(func() {
		server.Close()
	})

	It("should register components and their buffers", func() {
		m.RegisterComponent(newSampleComponent("Comp", 4))

		Expect(m.components).To(HaveLen(1))
		Expect(m.buffers).To(HaveLen(2))
	})

	It("should replace low port numbers", func() {
		m.WithPortNumber(80)
		Expect(m.portNumber).To(Equal(0))

		m.WithPortNumber(8080)
		Expect(m.portNumber).To(Equal(8080))
	})

	Context("with components", func() {
		var a, b *sampleComponent

		BeforeEach(func() {
			a = newSampleComponent("A", 4)
			b = newSampleComponent("B", 8)

			for i := 0; i < 3; i++ {
				a.buffer.Push(i)
			}

			for i := 0; i < 4; i++ {
				b.other.Push(i)
			}

			m.RegisterComponent(a)
			m.RegisterComponent(b)
		})

		It("should list components", func() {
			code, body := get("/api/list_components")
			Expect(code).To(Equal(http.StatusOK))

			var names []string
			Expect(json.Unmarshal(body, &names)).To(Succeed())
			Expect(names).To(Equal([]string{"A", "B"}))
		})

		It("should report an unknown component", func() {
			code, _ := get("/api/component/Nope")
			Expect(code).To(Equal(http.StatusNotFound))
		})

		It("should serialize a component", func() {
			a.Level = 7

			code, body := get("/api/component/A")
			Expect(code).To(Equal(http.StatusOK))
			Expect(body).ToNot(BeEmpty())
		})

		It("should sort buffers by fill percentage", func() {
			code, body := get("/api/hangdetector/buffers")
			Expect(code).To(Equal(http.StatusOK))

			var rsp []bufferRsp
			Expect(json.Unmarshal(body, &rsp)).To(Succeed())
			Expect(rsp).To(HaveLen(4))
			Expect(rsp[0]).To(Equal(bufferRsp{Buffer: "A.Buf", Level: 3, Cap: 4}))
			Expect(rsp[1]).To(Equal(bufferRsp{Buffer: "B.Other", Level: 4, Cap: 8}))
		})

		It("should sort buffers by level with limit and offset", func() {
			code, body := get("/api/hangdetector/buffers?sort=level&limit=1&offset=1")
			Expect(code).To(Equal(http.StatusOK))

			var rsp []bufferRsp
			Expect(json.Unmarshal(body, &rsp)).To(Succeed())
			Expect(rsp).To(Equal([]bufferRsp{{Buffer: "A.Buf", Level: 3, Cap: 4}}))
		})

		It("should return nothing past the end", func() {
			code, body := get("/api/hangdetector/buffers?offset=10")
			Expect(code).To(Equal(http.StatusOK))
			Expect(string(body)).To(MatchJSON("[]"))
		})

		It("should reject bad buffer queries", func() {
			code, _ := get("/api/hangdetector/buffers?sort=size")
			Expect(code).To(Equal(http.StatusBadRequest))

			code, _ = get("/api/hangdetector/buffers?limit=-1")
			Expect(code).To(Equal(http.StatusBadRequest))
		})
	})

	It("should pause and continue the engine", func() {
		code, _ := get("/api/pause")
		Expect(code).To(Equal(http.StatusOK))
		Expect(engine.IsPaused()).To(BeTrue())

		code, _ = get("/api/pause")
		Expect(code).To(Equal(http.StatusOK))

		code, _ = get("/api/continue")
		Expect(code).To(Equal(http.StatusOK))
		Expect(engine.IsPaused()).To(BeFalse())
	})

	It("should report the current time", func() {
		code, body := get("/api/now")
		Expect(code).To(Equal(http.StatusOK))
		Expect(string(body)).To(MatchJSON(`{"now": 0}`))
	})

	It("should report missing registers and ring", func() {
		code, _ := get("/api/regs")
		Expect(code).To(Equal(http.StatusNotFound))

		code, _ = get("/api/ring")
		Expect(code).To(Equal(http.StatusNotFound))
	})

	Context("with a control block and a ring", func() {
		BeforeEach(func() {
			store := ring.NewStore("Ring", 2)
			store.Load(1, ring.Descriptor{Addr: 0x800, Length: 0x800})

			m.RegisterCSR(csr.MakeBuilder().WithNumSlots(2).Build("Csr"))
			m.RegisterRing(store)
		})

		It("should list registers", func() {
			code, body := get("/api/regs")
			Expect(code).To(Equal(http.StatusOK))

			var regs []registerRsp
			Expect(json.Unmarshal(body, &regs)).To(Succeed())
			Expect(regs).To(HaveLen(8))
			Expect(regs[1]).To(Equal(registerRsp{
				Name: "RING_SIZE", Addr: csr.RegRingSize, Value: 32,
			}))
		})

		It("should dump the ring", func() {
			code, body := get("/api/ring")
			Expect(code).To(Equal(http.StatusOK))

			var slots []ring.Descriptor
			Expect(json.Unmarshal(body, &slots)).To(Succeed())
			Expect(slots).To(HaveLen(2))
			Expect(slots[1].Addr).To(Equal(uint64(0x800)))
		})
	})

	It("should list progress bars until completed", func() {
		bar := m.CreateProgressBar("Run", 10)
		bar.IncrementFinished(3)

		code, body := get("/api/progress")
		Expect(code).To(Equal(http.StatusOK))
		Expect(string(body)).To(ContainSubstring(`"finished":3`))

		m.CompleteProgressBar(bar)

		_, body = get("/api/progress")
		Expect(string(body)).To(MatchJSON("[]"))
	})

	Context("with metrics", func() {
		BeforeEach(func() {
			m.WithMetrics(http.HandlerFunc(
				func(w http.ResponseWriter, _ *http.Request) {
					_, _ = io.WriteString(w, "rxdma_device_completions 1\n")
				}))
		})

		It("should serve metrics", func() {
			code, body := get("/metrics")
			Expect(code).To(Equal(http.StatusOK))
			Expect(string(body)).To(ContainSubstring("rxdma_device_completions"))
		})
	})

	It("should serve the dashboard", func() {
		code, body := get("/")
		Expect(code).To(Equal(http.StatusOK))
		Expect(string(body)).To(ContainSubstring("<html"))
	})
})
