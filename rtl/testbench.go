package rtl

// A Feeder drives queued items onto a channel, one per handshake. It keeps
// valid and the payload stable until the item is taken.
type Feeder[T any] struct {
	name  string
	Out   *Chan[T]
	queue []T
	pause *Pattern
	sent  int
}

// NewFeeder creates a Feeder that drives out.
func NewFeeder[T any](name string, out *Chan[T]) *Feeder[T] {
	return &Feeder[T]{name: name, Out: out}
}

// Name returns the name of the feeder.
func (f *Feeder[T]) Name() string {
	return f.name
}

// Push queues items to send.
func (f *Feeder[T]) Push(items ...T) {
	f.queue = append(f.queue, items...)
}

// SetPause sets the pattern that holds back new items.
func (f *Feeder[T]) SetPause(p *Pattern) {
	f.pause = p
}

// Pending returns the number of items not yet taken.
func (f *Feeder[T]) Pending() int {
	return len(f.queue)
}

// Sent returns the number of items taken.
func (f *Feeder[T]) Sent() int {
	return f.sent
}

// Eval drives the head item.
func (f *Feeder[T]) Eval(ctx Ctx) {
	if ctx.Reset {
		f.Out.Idle()
		return
	}

	if f.Out.Fire() {
		f.queue = f.queue[1:]
		f.sent++
	}

	paused := f.pause.Next()

	if f.Out.Valid() && !f.Out.Fire() {
		return
	}

	if len(f.queue) > 0 && !paused {
		f.Out.Drive(f.queue[0])
	} else {
		f.Out.Idle()
	}
}

// Commit does nothing, the channel is committed by the clock.
func (f *Feeder[T]) Commit() {}

// A Drain takes every item offered on a channel and records it.
type Drain[T any] struct {
	name  string
	In    *Chan[T]
	items []T
	pause *Pattern
	hold  bool
}

// NewDrain creates a Drain that consumes in.
func NewDrain[T any](name string, in *Chan[T]) *Drain[T] {
	return &Drain[T]{name: name, In: in}
}

// Name returns the name of the drain.
func (d *Drain[T]) Name() string {
	return d.name
}

// SetPause sets the pattern that deasserts ready.
func (d *Drain[T]) SetPause(p *Pattern) {
	d.pause = p
}

// Hold keeps ready low while set.
func (d *Drain[T]) Hold(hold bool) {
	d.hold = hold
}

// Items returns everything received so far.
func (d *Drain[T]) Items() []T {
	return d.items
}

// Eval records a transfer and decides ready for the next cycle.
func (d *Drain[T]) Eval(ctx Ctx) {
	if d.In.Fire() && !ctx.Reset {
		d.items = append(d.items, d.In.Peek())
	}

	paused := d.pause.Next()
	d.In.SetReady(!paused && !d.hold && !ctx.Reset)
}

// Commit does nothing, the channel is committed by the clock.
func (d *Drain[T]) Commit() {}
