package rtl

import (
	"errors"
	"fmt"

	"github.com/artsniffer/rxdma/sim"
)

// ErrTimeout is returned when a condition is not met within the allowed
// number of cycles.
var ErrTimeout = errors.New("timed out")

// HookPosClockEdge marks the end of a cycle, after all state is committed.
// The hook item is the Ctx of the cycle that was just evaluated.
var HookPosClockEdge = &sim.HookPos{Name: "ClockEdge"}

// Ctx is the simulation context handed to every block in a cycle.
type Ctx struct {
	Cycle uint64
	Now   sim.VTimeInSec
	Reset bool
}

// A Committer publishes staged state at the end of a cycle.
type Committer interface {
	Commit()
}

// A Block is a piece of synchronous logic.
type Block interface {
	sim.Named
	Committer

	// Eval computes the next state from committed state.
	Eval(ctx Ctx)
}

// Clock evaluates and commits a set of blocks once per cycle.
type Clock struct {
	sim.HookableBase

	name     string
	freq     sim.Freq
	cycle    uint64
	blocks   []Block
	state    []Committer
	reset    int
	stopWhen func() bool
	ticking  *sim.TickingComponent
}

// NewClock creates a Clock.
func NewClock(name string, freq sim.Freq) *Clock {
	sim.NameMustBeValid(name)

	return &Clock{
		name: name,
		freq: freq,
	}
}

// Name returns the name of the clock.
func (c *Clock) Name() string {
	return c.name
}

// Freq returns the frequency of the clock.
func (c *Clock) Freq() sim.Freq {
	return c.freq
}

// Cycle returns the number of cycles that have been committed.
func (c *Clock) Cycle() uint64 {
	return c.cycle
}

// CurrentTime returns the time of the next cycle to evaluate.
func (c *Clock) CurrentTime() sim.VTimeInSec {
	return c.freq.CycleTime(c.cycle)
}

// Add registers blocks. Blocks are committed in the order they are added.
func (c *Clock) Add(blocks ...Block) {
	c.blocks = append(c.blocks, blocks...)
}

// AddState registers state elements that are not blocks, such as channels.
func (c *Clock) AddState(state ...Committer) {
	c.state = append(c.state, state...)
}

// Blocks returns the registered blocks.
func (c *Clock) Blocks() []Block {
	return c.blocks
}

// Reset asserts the global reset for the given number of cycles and steps
// through them.
func (c *Clock) Reset(cycles int) {
	c.reset = cycles
	c.StepN(cycles)
}

// Step evaluates and commits one cycle.
func (c *Clock) Step() {
	ctx := Ctx{
		Cycle: c.cycle,
		Now:   c.CurrentTime(),
		Reset: c.reset > 0,
	}

	for _, b := range c.blocks {
		b.Eval(ctx)
	}

	for _, b := range c.blocks {
		b.Commit()
	}

	for _, s := range c.state {
		s.Commit()
	}

	if c.reset > 0 {
		c.reset--
	}

	c.cycle++

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosClockEdge,
			Item:   ctx,
		})
	}
}

// StepN runs n cycles.
func (c *Clock) StepN(n int) {
	for i := 0; i < n; i++ {
		c.Step()
	}
}

// RunUntil steps the clock until cond returns true. It fails with ErrTimeout
// if cond does not hold after maxCycles cycles.
func (c *Clock) RunUntil(cond func() bool, maxCycles uint64) error {
	for i := uint64(0); ; i++ {
		if cond() {
			return nil
		}

		if i >= maxCycles {
			return fmt.Errorf("%w after %d cycles at cycle %d",
				ErrTimeout, maxCycles, c.cycle)
		}

		c.Step()
	}
}

// StopWhen sets the condition that ends an engine-driven run.
func (c *Clock) StopWhen(cond func() bool) {
	c.stopWhen = cond
}

// Tick runs one cycle and reports whether the clock wants to keep ticking.
// Without a stop condition the clock runs a single cycle per kick.
func (c *Clock) Tick() bool {
	if c.shouldStop() {
		return false
	}

	c.Step()

	return !c.shouldStop()
}

func (c *Clock) shouldStop() bool {
	return c.stopWhen == nil || c.stopWhen()
}

// AttachEngine lets an event-driven engine drive the clock. The returned
// component schedules one tick event per cycle.
func (c *Clock) AttachEngine(engine sim.Engine) *sim.TickingComponent {
	c.ticking = sim.NewTickingComponent(c.name, engine, c.freq, c)
	return c.ticking
}

// Kick schedules the first engine-driven tick.
func (c *Clock) Kick() {
	if c.ticking == nil {
		panic("clock " + c.name + " is not attached to an engine")
	}

	c.ticking.TickNow()
}
