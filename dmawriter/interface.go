package dmawriter

// Control is the view of the control block that the writer needs.
type Control interface {
	// Enabled tells if new frames may be started.
	Enabled() bool

	// SoftReset is high for the one cycle of a soft reset pulse.
	SoftReset() bool
}
