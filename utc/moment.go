// Package utc converts between seconds since the Unix epoch and decomposed
// UTC calendar moments without going through time.Location.
//
// A Moment is built in exactly two ways: from a count of seconds (FromSeconds,
// FromInstant, Now, Epoch) or from calendar fields (FromCivil, FromDate). The
// second path normalizes its fields, folds them into a count of seconds and
// then takes the first path, so both always agree on derived fields such as
// the weekday. Moments before 1970-01-01T00:00:00Z are not representable.
package utc

import (
	"cmp"
	"fmt"
	"iter"
	"time"
)

// Moment is an immutable UTC calendar moment at or after the epoch. The zero
// Moment is not valid; use Epoch for 1970-01-01T00:00:00Z.
type Moment struct {
	year    int
	month   Month
	day     int
	weekday Weekday
	hour    int
	minute  int
	second  int
	frac    float64
}

// Year returns the year, 1970 or later.
func (m Moment) Year() int { return m.year }

// Month returns the month of the year.
func (m Moment) Month() Month { return m.month }

// MonthName returns the English name of the month.
func (m Moment) MonthName() string { return m.month.String() }

// Day returns the day of the month, starting at 1.
func (m Moment) Day() int { return m.day }

// Weekday returns the day of the week.
func (m Moment) Weekday() Weekday { return m.weekday }

// WeekdayName returns the English name of the day of the week.
func (m Moment) WeekdayName() string { return m.weekday.String() }

// Hour returns the hour within the day, in [0, 23].
func (m Moment) Hour() int { return m.hour }

// Minute returns the minute within the hour, in [0, 59].
func (m Moment) Minute() int { return m.minute }

// Second returns the whole second within the minute, in [0, 59].
func (m Moment) Second() int { return m.second }

// Fraction returns the sub-second part, in [0, 1).
func (m Moment) Fraction() float64 { return m.frac }

// SecondWithFraction returns Second plus Fraction.
func (m Moment) SecondWithFraction() float64 { return float64(m.second) + m.frac }

// IsLeapYear reports whether the moment falls in a leap year.
func (m Moment) IsLeapYear() bool { return IsLeapYear(m.year) }

// Instant returns the number of seconds between the epoch and m.
func (m Moment) Instant() Instant {
	days := daysBeforeYear(m.year) + daysBeforeMonth(m.year, m.month) + int64(m.day-1)
	sec := ((days*hoursPerDay+int64(m.hour))*minutesPerHour+int64(m.minute))*secondsPerMinute + int64(m.second)
	return Instant{Sec: sec, Frac: m.frac}
}

// Unix returns the whole seconds between the epoch and m.
func (m Moment) Unix() int64 {
	return m.Instant().Sec
}

// Time returns m as a time.Time in time.UTC, rounded to the nanosecond.
func (m Moment) Time() time.Time {
	return time.Unix(m.Unix(), fracNanos(m.frac)).UTC()
}

// IsZero reports whether m is the zero Moment, which is not a valid moment.
func (m Moment) IsZero() bool {
	return m == Moment{}
}

// Equal reports whether m and o are the same moment to the nanosecond.
func (m Moment) Equal(o Moment) bool {
	return m.Compare(o) == 0
}

// Compare returns -1 if m is before o, +1 if m is after o and 0 if they are
// the same moment. Fractions are compared in whole nanoseconds, so a moment
// rebuilt from SecondWithFraction compares equal to the original.
func (m Moment) Compare(o Moment) int {
	a, b := m.Instant(), o.Instant()
	// Both counts are non-negative, so the difference cannot wrap.
	switch d := a.Sec - b.Sec; {
	case d > 1:
		return +1
	case d < -1:
		return -1
	default:
		return cmp.Compare(d*nanosPerSecond+fracNanos(a.Frac), fracNanos(b.Frac))
	}
}

// Before reports whether m is earlier than o.
func (m Moment) Before(o Moment) bool { return m.Compare(o) < 0 }

// After reports whether m is later than o.
func (m Moment) After(o Moment) bool { return m.Compare(o) > 0 }

// Date returns midnight of the day m falls on.
func (m Moment) Date() Moment {
	d, err := FromDate(m.year, int(m.month), m.day)
	if err != nil {
		// m is canonical, so its own date cannot be before the epoch.
		panic(err)
	}
	return d
}

// AddDays returns the moment n days after m (before m for negative n). The
// result is rebuilt from m's calendar fields, so it goes through the same
// normalization as FromCivil. It fails with ErrBeforeEpoch when the result
// would be earlier than the epoch.
func (m Moment) AddDays(n int) (Moment, error) {
	day, ok := addInt(m.day, n)
	if !ok {
		return Moment{}, fmt.Errorf("%w: %d days after %s", ErrOutOfRange, n, m.BasicTimestamp())
	}
	return normalize(civil{
		year:   m.year,
		month:  int(m.month),
		day:    day,
		hour:   m.hour,
		minute: m.minute,
		second: int64(m.second),
		frac:   m.frac,
	})
}

// Days yields midnight of every calendar day from the day of from up to and
// including the day of to. Nothing is yielded when to is before from.
func Days(from, to Moment) iter.Seq[Moment] {
	return func(yield func(Moment) bool) {
		last := to.Date()
		for d := from.Date(); !d.After(last); {
			if !yield(d) {
				return
			}
			next, err := d.AddDays(1)
			if err != nil {
				return
			}
			d = next
		}
	}
}
