package csr

// Register offsets of the ring control space.
const (
	RegBaseAddr    = 0x00
	RegRingSize    = 0x04
	RegCtrl        = 0x08
	RegStatus      = 0x0C
	RegIRQTime     = 0x10
	RegPacketCount = 0x14
	RegCursor      = 0x18
	RegBaseAddrHi  = 0x1C

	spaceSize = 0x20
)

// CTRL bits.
const (
	CtrlEnable    uint32 = 1 << 0
	CtrlIRQEnable uint32 = 1 << 1
	CtrlReset     uint32 = 1 << 2
)

// STATUS bits.
const (
	StatusBusy       uint32 = 1 << 0
	StatusIRQPending uint32 = 1 << 1
)

// RegName returns the name of the register at addr.
func RegName(addr uint64) string {
	switch addr {
	case RegBaseAddr:
		return "BASE_ADDR"
	case RegRingSize:
		return "RING_SIZE"
	case RegCtrl:
		return "CTRL"
	case RegStatus:
		return "STATUS"
	case RegIRQTime:
		return "IRQ_TIME"
	case RegPacketCount:
		return "PACKET_COUNT"
	case RegCursor:
		return "CURSOR"
	case RegBaseAddrHi:
		return "BASE_ADDR_HI"
	default:
		return "?"
	}
}

// Registers lists the register offsets in address order.
func Registers() []uint64 {
	regs := make([]uint64, 0, spaceSize/4)
	for addr := uint64(0); addr < spaceSize; addr += 4 {
		regs = append(regs, addr)
	}

	return regs
}
