package rtl

// A Pattern is a cyclic sequence of pause flags. A true entry means the
// owner must not start a new transfer in that cycle.
type Pattern struct {
	steps []bool
	pos   int
}

// NewPattern creates a Pattern. An empty pattern never pauses.
func NewPattern(steps ...bool) *Pattern {
	return &Pattern{steps: steps}
}

// PatternFromInts builds a Pattern from 0/1 values, 1 meaning pause.
func PatternFromInts(steps []int) *Pattern {
	p := &Pattern{steps: make([]bool, len(steps))}
	for i, s := range steps {
		p.steps[i] = s != 0
	}

	return p
}

// Next returns the pause flag of the current cycle and advances.
func (p *Pattern) Next() bool {
	if p == nil || len(p.steps) == 0 {
		return false
	}

	pause := p.steps[p.pos]
	p.pos = (p.pos + 1) % len(p.steps)

	return pause
}

// Rewind restarts the pattern.
func (p *Pattern) Rewind() {
	if p != nil {
		p.pos = 0
	}
}
