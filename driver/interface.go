package driver

// HostMemory is the software view of host memory.
type HostMemory interface {
	Read(addr uint64, length int) ([]byte, error)
}

// IRQLine is the interrupt line of the device.
type IRQLine interface {
	IRQ() bool
}

// A Sink receives drained packets.
type Sink interface {
	Deliver(p Packet) error
}
