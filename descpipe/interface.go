package descpipe

// A ResetSource reports the soft reset pulse of the control block.
type ResetSource interface {
	SoftReset() bool
}
