package csr

// RingState is what the control block reports about the ring controller.
type RingState interface {
	Busy() bool
	Cursor() int
}
