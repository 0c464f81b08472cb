package utc

import (
	"fmt"
	"time"
)

// Clock is a source of wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the operating system clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Now returns the current moment from the system clock. A system clock set
// before the epoch is an environment failure and panics.
func Now() Moment {
	m, err := NowFrom(SystemClock{})
	if err != nil {
		panic(fmt.Sprintf("utc: unusable system clock: %v", err))
	}
	return m
}

// NowFrom returns the current moment according to c.
func NowFrom(c Clock) (Moment, error) {
	return FromInstant(InstantFromTime(c.Now()))
}
