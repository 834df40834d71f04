package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how many frames of a run have been delivered.
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// SetFinished sets the number of finished elements.
func (b *ProgressBar) SetFinished(n uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished = n
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// SetInProgress sets the number of elements being worked on.
func (b *ProgressBar) SetInProgress(n uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress = n
}
