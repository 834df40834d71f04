package rtl

// A Chan is a valid/ready handshake channel between a producer block and a
// consumer block. A transfer happens in a cycle where both the committed
// valid and the committed ready are high. Both sides observe the same Fire
// result in that cycle.
type Chan[T any] struct {
	name  string
	valid Reg[bool]
	ready Reg[bool]
	data  Reg[T]
	fires uint64
}

// NewChan creates a channel.
func NewChan[T any](name string) *Chan[T] {
	return &Chan[T]{name: name}
}

// Name returns the name of the channel.
func (c *Chan[T]) Name() string {
	return c.name
}

// Valid returns the committed valid signal.
func (c *Chan[T]) Valid() bool {
	return c.valid.Get()
}

// Ready returns the committed ready signal.
func (c *Chan[T]) Ready() bool {
	return c.ready.Get()
}

// Peek returns the committed payload.
func (c *Chan[T]) Peek() T {
	return c.data.Get()
}

// Fire tells if a transfer happens in the current cycle.
func (c *Chan[T]) Fire() bool {
	return c.valid.Get() && c.ready.Get()
}

// Drive asserts valid with v from the next cycle on. Producer side.
func (c *Chan[T]) Drive(v T) {
	c.valid.Set(true)
	c.data.Set(v)
}

// Idle deasserts valid from the next cycle on. Producer side.
func (c *Chan[T]) Idle() {
	c.valid.Set(false)
}

// SetReady sets the ready signal for the next cycle. Consumer side.
func (c *Chan[T]) SetReady(ready bool) {
	c.ready.Set(ready)
}

// Fires returns the number of transfers that have happened.
func (c *Chan[T]) Fires() uint64 {
	return c.fires
}

// Commit publishes the staged signals.
func (c *Chan[T]) Commit() {
	if c.Fire() {
		c.fires++
	}

	c.valid.Commit()
	c.ready.Commit()
	c.data.Commit()
}
