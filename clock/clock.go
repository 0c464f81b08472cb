// Package clock provides wall-clock sources for utc.NowFrom: the system
// clock, an NTP-corrected clock and a controllable clock for tests.
package clock

import (
	"sync"
	"time"

	"github.com/stsysd/koyomi/utc"
)

var (
	_ utc.Clock = System{}
	_ utc.Clock = (*Mock)(nil)
	_ utc.Clock = (*NTPClock)(nil)
)

// System reads the operating system clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Mock is a test clock with controllable time.
type Mock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMock creates a mock clock set to t.
func NewMock(t time.Time) *Mock {
	return &Mock{current: t}
}

// Now returns the mock time.
func (c *Mock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Set sets the mock time.
func (c *Mock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Advance advances the mock time by d.
func (c *Mock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}
