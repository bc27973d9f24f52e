// Package cycle tracks manually advanced work cycles.
//
// Only Reset exists: it records an incorrect cycle. Nothing in this program
// classifies a cycle as correct, so Correct stays at zero.
package cycle

import (
	"sync"

	"validation/internal/models"
)

const ResetStatus = "Cycle Reset"

type Counter struct {
	mu     sync.Mutex
	counts models.Counts

	onChange func(models.Counts)
}

func NewCounter() *Counter {
	return &Counter{}
}

// OnChange registers fn to receive a snapshot after every transition.
func (c *Counter) OnChange(fn func(models.Counts)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Counter) Reset() {
	c.mu.Lock()
	c.counts.Total++
	c.counts.Incorrect++
	c.counts.Status = ResetStatus

	snapshot := c.counts
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
}

func (c *Counter) Snapshot() models.Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}
