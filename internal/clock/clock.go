package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant to the engine and hosts.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock. A nil Loc keeps the process zone.
type RealClock struct {
	Loc *time.Location
}

func (c RealClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now()
	}
	return time.Now().In(c.Loc)
}

// FakeClock is a settable clock for tests and for replaying a snapshot at a
// fixed instant (view --at).
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
