package utc

import (
	"fmt"
	"math"
	"time"
)

// Instant is a point in time counted from the epoch: whole seconds plus a
// sub-second fraction in [0, 1). Keeping the two apart avoids losing the
// fraction to float64 rounding for large second counts.
type Instant struct {
	Sec  int64
	Frac float64
}

// maxSeconds is 2^63, the first whole second count that does not fit in an
// int64.
const maxSeconds float64 = 1 << 63

// nanosPerSecond is the resolution at which fractions are compared.
const nanosPerSecond = 1e9

// InstantOf splits a real number of seconds since the epoch into an Instant.
// Counts of 2^63 seconds or more fail with both ErrInvalidSeconds and
// ErrOutOfRange.
func InstantOf(seconds float64) (Instant, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return Instant{}, ErrInvalidSeconds
	}
	if seconds < 0 {
		return Instant{}, fmt.Errorf("%w: %v seconds", ErrBeforeEpoch, seconds)
	}
	if seconds >= maxSeconds {
		return Instant{}, fmt.Errorf("%w: %w: %v seconds", ErrInvalidSeconds, ErrOutOfRange, seconds)
	}
	whole := math.Trunc(seconds)
	return Instant{Sec: int64(whole), Frac: seconds - whole}, nil
}

// InstantFromTime returns the Instant of t.
func InstantFromTime(t time.Time) Instant {
	return Instant{
		Sec:  t.Unix(),
		Frac: float64(t.Nanosecond()) / float64(time.Second),
	}
}

// Normalize moves any whole part of Frac into Sec so that Frac ends up in
// [0, 1).
func (i Instant) Normalize() Instant {
	if i.Frac >= 0 && i.Frac < 1 {
		return i
	}
	carry := math.Floor(i.Frac)
	i.Sec += int64(carry)
	i.Frac -= carry
	return i
}

// fracNanos returns a fraction in whole nanoseconds, rounded to nearest.
func fracNanos(frac float64) int64 {
	return int64(math.Round(frac * nanosPerSecond))
}

// addSeconds returns a+b and whether the sum fits in an int64.
func addSeconds(a, b int64) (int64, bool) {
	s := a + b
	return s, (s >= a) == (b >= 0)
}

// Float returns the instant as a single real number of seconds. Large values
// lose sub-second precision.
func (i Instant) Float() float64 {
	return float64(i.Sec) + i.Frac
}

// Before reports whether i is earlier than j.
func (i Instant) Before(j Instant) bool {
	i, j = i.Normalize(), j.Normalize()
	return i.Sec < j.Sec || i.Sec == j.Sec && i.Frac < j.Frac
}
