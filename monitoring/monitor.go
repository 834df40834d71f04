// Package monitoring serves a running capture simulation over HTTP so that
// it can be paused, resumed and inspected.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"reflect"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
	"github.com/syifan/goseth"

	"github.com/artsniffer/rxdma/csr"
	"github.com/artsniffer/rxdma/monitoring/web"
	"github.com/artsniffer/rxdma/ring"
	"github.com/artsniffer/rxdma/sim"
)

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	engine      sim.Engine
	components  []sim.Named
	buffers     []sim.Buffer
	regs        *csr.Comp
	ring        *ring.Store
	metrics     http.Handler
	portNumber  int
	openBrowser bool
	log         logrus.FieldLogger

	pauseLock sync.Mutex
	paused    bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor(log logrus.FieldLogger) *Monitor {
	return &Monitor{log: log}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// replaced by a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		m.log.WithField("port", portNumber).
			Warn("port not allowed for monitoring, using a random port")

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the dashboard in a browser.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// WithMetrics serves a metrics handler at /metrics.
func (m *Monitor) WithMetrics(h http.Handler) *Monitor {
	m.metrics = h
	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterCSR registers the control block whose registers are listed.
func (m *Monitor) RegisterCSR(c *csr.Comp) {
	m.regs = c
}

// RegisterRing registers the descriptor ring.
func (m *Monitor) RegisterRing(r *ring.Store) {
	m.ring = r
}

// RegisterComponent register a component to be monitored.
func (m *Monitor) RegisterComponent(c sim.Named) {
	m.components = append(m.components, c)
	m.registerBuffers(c)
}

func (m *Monitor) registerBuffers(c any) {
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}

	v = v.Elem()
	bufferType := reflect.TypeOf((*sim.Buffer)(nil)).Elem()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.Type() != bufferType || field.IsNil() {
			continue
		}

		buf := reflect.NewAt(
			field.Type(),
			unsafe.Pointer(field.UnsafeAddr()),
		).Elem().Interface().(sim.Buffer)
		m.buffers = append(m.buffers, buf)
	}
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			bars = append(bars, b)
		}
	}

	m.progressBars = bars
}

// Router returns the HTTP routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/hangdetector/buffers", m.hangDetectorBuffers)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/regs", m.listRegisters)
	r.HandleFunc("/api/ring", m.listRing)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	if m.metrics != nil {
		r.Handle("/metrics", m.metrics)
	}

	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	m.log.WithField("url", url).Info("monitoring simulation")

	router := m.Router()

	go func() {
		err := http.Serve(listener, router)
		if err != nil && !errors.Is(err, net.ErrClosed) {
			m.log.WithError(err).Error("monitoring server stopped")
		}
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			m.log.WithError(err).Warn("cannot open browser")
		}
	}

	return url, nil
}

// withEngineStopped runs f between two events unless the engine is already
// paused by the user.
func (m *Monitor) withEngineStopped(f func()) {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	if m.engine == nil || m.paused {
		f()
		return
	}

	m.engine.Pause()
	defer m.engine.Continue()

	f()
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	if !m.paused {
		m.engine.Pause()
		m.paused = true
	}

	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	if m.paused {
		m.engine.Continue()
		m.paused = false
	}

	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", m.engine.CurrentTime())
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	component := m.findComponentOr404(w, mux.Vars(r)["name"])
	if component == nil {
		return
	}

	m.withEngineStopped(func() {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(component)
		serializer.SetMaxDepth(1)
		dieOnErr(serializer.Serialize(w))
	})
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	m.withEngineStopped(func() {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(component)
		serializer.SetMaxDepth(1)

		if err := serializer.SetEntryPoint(strings.Split(req.FieldName, ".")); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		dieOnErr(serializer.Serialize(w))
	})
}

type bufferRsp struct {
	Buffer string `json:"buffer"`
	Level  int    `json:"level"`
	Cap    int    `json:"cap"`
}

func (m *Monitor) hangDetectorBuffers(w http.ResponseWriter, r *http.Request) {
	sortMethod, limit, offset, err := buffersParseParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var rsp []bufferRsp

	m.withEngineStopped(func() {
		for _, b := range m.sortAndSelectBuffers(sortMethod, limit, offset) {
			rsp = append(rsp, bufferRsp{
				Buffer: b.Name(),
				Level:  b.Size(),
				Cap:    b.Capacity(),
			})
		}
	})

	if rsp == nil {
		rsp = []bufferRsp{}
	}

	writeJSON(w, rsp)
}

func buffersParseParams(r *http.Request) (sortMethod string, limit, offset int, err error) {
	q := r.URL.Query()

	sortMethod = q.Get("sort")
	if sortMethod == "" {
		sortMethod = "percent"
	}

	if sortMethod != "level" && sortMethod != "percent" {
		return "", 0, 0, fmt.Errorf(
			"invalid sort method %q, allowed values are level and percent",
			sortMethod)
	}

	if limit, err = intParam(q.Get("limit")); err != nil {
		return "", 0, 0, err
	}

	if offset, err = intParam(q.Get("offset")); err != nil {
		return "", 0, 0, err
	}

	return sortMethod, limit, offset, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if v < 0 {
		return 0, fmt.Errorf("negative parameter %d", v)
	}

	return v, nil
}

func bufferPercent(b sim.Buffer) float64 {
	return float64(b.Size()) / float64(b.Capacity())
}

func (m *Monitor) sortAndSelectBuffers(
	sortMethod string,
	limit, offset int,
) []sim.Buffer {
	sorted := make([]sim.Buffer, len(m.buffers))
	copy(sorted, m.buffers)

	byLevel := func(i, j int) (bool, bool) {
		si, sj := sorted[i].Size(), sorted[j].Size()
		return si > sj, si != sj
	}

	byPercent := func(i, j int) (bool, bool) {
		pi, pj := bufferPercent(sorted[i]), bufferPercent(sorted[j])
		return pi > pj, pi != pj
	}

	first, second := byPercent, byLevel
	if sortMethod == "level" {
		first, second = byLevel, byPercent
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if less, decided := first(i, j); decided {
			return less
		}

		less, _ := second(i, j)

		return less
	})

	if offset > len(sorted) {
		offset = len(sorted)
	}

	end := len(sorted)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return sorted[offset:end]
}

type registerRsp struct {
	Name  string `json:"name"`
	Addr  uint64 `json:"addr"`
	Value uint64 `json:"value"`
}

func (m *Monitor) listRegisters(w http.ResponseWriter, _ *http.Request) {
	if m.regs == nil {
		http.Error(w, "no control block registered", http.StatusNotFound)
		return
	}

	rsp := make([]registerRsp, 0, 8)

	m.withEngineStopped(func() {
		for _, addr := range csr.Registers() {
			v, err := m.regs.Read(addr, 4)
			dieOnErr(err)

			rsp = append(rsp, registerRsp{
				Name:  csr.RegName(addr),
				Addr:  addr,
				Value: v,
			})
		}
	})

	writeJSON(w, rsp)
}

func (m *Monitor) listRing(w http.ResponseWriter, _ *http.Request) {
	if m.ring == nil {
		http.Error(w, "no ring registered", http.StatusNotFound)
		return
	}

	var slots []ring.Descriptor

	m.withEngineStopped(func() {
		slots = m.ring.Snapshot()
	})

	writeJSON(w, slots)
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) sim.Named {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	http.Error(w, "component not found", http.StatusNotFound)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	mem, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: mem.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	dieOnErr(pprof.StartCPUProfile(buf))
	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	dieOnErr(json.NewEncoder(w).Encode(v))
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
