package clock

import (
	"sync"
	"time"
)

// FakeClock is a manually driven Clock for tests. It is safe for use by
// concurrent handlers.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// SetDate jumps to midnight UTC of the given YYYY-MM-DD date.
func (c *FakeClock) SetDate(date string) error {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.now = t.UTC()
	c.mu.Unlock()
	return nil
}
