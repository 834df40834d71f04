package rtl

// A Reg is a clocked register. Get returns the committed value and Set
// stages the value for the next cycle. A register that is not set holds.
type Reg[T any] struct {
	cur T
	nxt T
}

// Get returns the committed value.
func (r *Reg[T]) Get() T {
	return r.cur
}

// Next returns the staged value.
func (r *Reg[T]) Next() T {
	return r.nxt
}

// Set stages v for the next cycle.
func (r *Reg[T]) Set(v T) {
	r.nxt = v
}

// Init forces both the committed and the staged value.
func (r *Reg[T]) Init(v T) {
	r.cur = v
	r.nxt = v
}

// Commit publishes the staged value.
func (r *Reg[T]) Commit() {
	r.cur = r.nxt
}
