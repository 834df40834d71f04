// Package memwrite models the host memory side of the DMA: a write address
// channel, a write data channel and a write response channel.
package memwrite

// A Cmd opens a write burst of Len bytes at Addr. The payload follows on the
// data channel; the last data beat of the burst has Last set.
type Cmd struct {
	ID   uint64
	Addr uint64
	Len  int
}

// An Ack confirms that the burst with the given ID is in memory.
type Ack struct {
	ID uint64
}
