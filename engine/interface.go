package engine

// Control is the view of the control block that the ring controller needs.
type Control interface {
	Enabled() bool
	SoftReset() bool
}
