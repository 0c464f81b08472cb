package utc

import (
	"fmt"
	"math"
)

// civil holds calendar fields that may be out of their natural range.
type civil struct {
	year, month, day int
	hour, minute     int
	second           int64
	frac             float64
}

// FromDate returns midnight of the given date. It is FromCivil with a zero
// time of day.
func FromDate(year, month, day int) (Moment, error) {
	return FromCivil(year, month, day, 0, 0, 0)
}

// FromCivil returns the moment described by the given fields. Fields outside
// their natural range are normalized rather than rejected:
//
//   - month 0 is December of the previous year, and day 0 is the last day of
//     the previous month; month 0 together with day 0 is the last day of
//     November of the previous year.
//   - seconds, minutes and hours at or above their bound carry into the next
//     unit as (value mod bound) + 1, and the remainder stays.
//   - months above 12 carry (month mod 12) years.
//   - days past the end of the month roll into the following months.
//
// It fails with ErrBeforeEpoch when the fields resolve to a moment before
// 1970, with ErrOutOfRange when the moment is too far in the future to count
// in int64 seconds, and with ErrInvalidSeconds for a non-finite second.
func FromCivil(year, month, day, hour, minute int, second float64) (Moment, error) {
	if math.IsNaN(second) || math.IsInf(second, 0) {
		return Moment{}, ErrInvalidSeconds
	}
	whole := math.Floor(second)
	switch {
	case whole >= maxSeconds:
		return Moment{}, fmt.Errorf("%w: second %v", ErrOutOfRange, second)
	case whole < -maxSeconds:
		return Moment{}, fmt.Errorf("%w: second %v", ErrBeforeEpoch, second)
	}
	return normalize(civil{
		year:   year,
		month:  month,
		day:    day,
		hour:   hour,
		minute: minute,
		second: int64(whole),
		frac:   second - whole,
	})
}

func normalize(c civil) (Moment, error) {
	// Nothing below moves the year forward before the epoch check.
	if c.year < epochYear {
		return Moment{}, fmt.Errorf("%w: year %d", ErrBeforeEpoch, c.year)
	}
	if int64(c.year) > maxYear {
		return Moment{}, fmt.Errorf("%w: year %d", ErrOutOfRange, c.year)
	}

	if c.month < 0 {
		// Borrow whole years so that month 0 keeps its own rule below.
		c.year += c.month/monthsPerYear - 1
		c.month = c.month%monthsPerYear + monthsPerYear
	}

	switch {
	case c.month == 0 && c.day == 0:
		c.year--
		c.month = int(November)
		c.day = DaysInMonth(c.year, November)
	case c.month == 0:
		c.month = int(December)
		c.year--
	case c.day == 0:
		if c.month == int(January) {
			c.month = int(December)
			c.year--
		} else {
			c.month--
		}
		c.day = DaysInMonth(c.year, Month(c.month))
	}

	if c.year < epochYear {
		return Moment{}, fmt.Errorf("%w: year %d", ErrBeforeEpoch, c.year)
	}

	if c.frac >= 1 {
		carry := math.Floor(c.frac)
		c.second += int64(carry)
		c.frac -= carry
	}

	// NOTE: the carries below add one more unit than an exact division
	// would once the value passes its bound (e.g. 25 hours carries 2 days).
	var ok bool
	if c.second >= secondsPerMinute {
		if c.minute, ok = addInt(c.minute, int(c.second%secondsPerMinute)+1); !ok {
			return Moment{}, fmt.Errorf("%w: minute overflows", ErrOutOfRange)
		}
		c.second %= secondsPerMinute
	}
	if c.minute >= minutesPerHour {
		if c.hour, ok = addInt(c.hour, c.minute%minutesPerHour+1); !ok {
			return Moment{}, fmt.Errorf("%w: hour overflows", ErrOutOfRange)
		}
		c.minute %= minutesPerHour
	}
	if c.hour >= hoursPerDay {
		if c.day, ok = addInt(c.day, c.hour%hoursPerDay+1); !ok {
			return Moment{}, fmt.Errorf("%w: day overflows", ErrOutOfRange)
		}
		c.hour %= hoursPerDay
	}

	if c.month > monthsPerYear {
		c.year += c.month % monthsPerYear
		c.month %= monthsPerYear
		if c.month == 0 {
			c.month = int(December)
		}
	}

	// 400 years later the calendar repeats, so whole cycles of days move
	// only the year.
	if c.day > daysPer400Years {
		n := (c.day - 1) / daysPer400Years
		c.day -= n * daysPer400Years
		c.year += n * 400
	}
	if int64(c.year) > maxYear {
		return Moment{}, fmt.Errorf("%w: year %d", ErrOutOfRange, c.year)
	}

	for {
		dim := DaysInMonth(c.year, Month(c.month))
		if c.day <= dim {
			break
		}
		c.day -= dim
		c.month++
		if c.month > monthsPerYear {
			c.year++
			c.month = int(January)
		}
	}
	if int64(c.year) > maxYear {
		return Moment{}, fmt.Errorf("%w: year %d", ErrOutOfRange, c.year)
	}

	// c.day is at most 31 here, so adding it to the day count cannot wrap.
	days, err := fold(daysBeforeYear(c.year)+daysBeforeMonth(c.year, Month(c.month))+int64(c.day), 1, -1)
	if err == nil {
		days, err = fold(days, hoursPerDay, int64(c.hour))
	}
	if err == nil {
		days, err = fold(days, minutesPerHour, int64(c.minute))
	}
	total := days
	if err == nil {
		total, err = fold(days, secondsPerMinute, c.second)
	}
	if err != nil {
		return Moment{}, fmt.Errorf("%w: %04d-%02d-%02d does not fit in int64 seconds", err, c.year, c.month, c.day)
	}
	if total < 0 {
		return Moment{}, fmt.Errorf("%w: %d seconds", ErrBeforeEpoch, total)
	}

	return fromInstant(Instant{Sec: total, Frac: c.frac}), nil
}

// maxYear is the year of the last moment whose seconds since the epoch fit
// in an int64.
const maxYear int64 = 292277026596

// fold returns v*n + w for a positive unit n. It fails with ErrOutOfRange or
// ErrBeforeEpoch, by sign, when the result does not fit in an int64.
func fold(v, n, w int64) (int64, error) {
	switch {
	case v > math.MaxInt64/n:
		return 0, ErrOutOfRange
	case v < math.MinInt64/n:
		return 0, ErrBeforeEpoch
	}
	s, ok := addSeconds(v*n, w)
	switch {
	case !ok && w > 0:
		return 0, ErrOutOfRange
	case !ok:
		return 0, ErrBeforeEpoch
	}
	return s, nil
}

// addInt returns a+b and whether the sum fits in an int.
func addInt(a, b int) (int, bool) {
	s := a + b
	return s, (s >= a) == (b >= 0)
}

// leapsThrough counts the leap years from year 1 through year y.
func leapsThrough(y int64) int64 {
	return y/4 - y/100 + y/400
}

// daysBeforeYear counts the days from the epoch to January 1st of year.
func daysBeforeYear(year int) int64 {
	if year <= epochYear {
		return 0
	}
	y := int64(year)
	return 365*(y-epochYear) + leapsThrough(y-1) - leapsThrough(epochYear-1)
}

// daysBeforeMonth counts the days from January 1st of year to the first day
// of month m.
func daysBeforeMonth(year int, m Month) int64 {
	var days int64
	for mm := January; mm < m; mm++ {
		days += int64(DaysInMonth(year, mm))
	}
	return days
}
