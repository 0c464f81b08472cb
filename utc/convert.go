package utc

import (
	"fmt"
	"math"
)

// Epoch returns 1970-01-01T00:00:00Z.
func Epoch() Moment {
	return fromInstant(Instant{})
}

// FromSeconds returns the moment that is seconds after the epoch. The
// fractional part of seconds becomes the moment's sub-second fraction.
func FromSeconds(seconds float64) (Moment, error) {
	i, err := InstantOf(seconds)
	if err != nil {
		return Moment{}, err
	}
	return FromInstant(i)
}

// FromInstant returns the moment of i.
func FromInstant(i Instant) (Moment, error) {
	if math.IsNaN(i.Frac) || math.IsInf(i.Frac, 0) {
		return Moment{}, ErrInvalidSeconds
	}
	carry := math.Floor(i.Frac)
	if carry != 0 {
		if math.Abs(carry) >= maxSeconds {
			if carry < 0 {
				return Moment{}, fmt.Errorf("%w: %v seconds", ErrBeforeEpoch, i.Frac)
			}
			return Moment{}, fmt.Errorf("%w: %v seconds", ErrOutOfRange, i.Frac)
		}
		sec, ok := addSeconds(i.Sec, int64(carry))
		switch {
		case !ok && carry > 0:
			return Moment{}, fmt.Errorf("%w: %d seconds plus %v", ErrOutOfRange, i.Sec, carry)
		case !ok:
			return Moment{}, fmt.Errorf("%w: %d seconds plus %v", ErrBeforeEpoch, i.Sec, carry)
		}
		i = Instant{Sec: sec, Frac: i.Frac - carry}
	}
	if i.Sec < 0 {
		return Moment{}, fmt.Errorf("%w: %d seconds", ErrBeforeEpoch, i.Sec)
	}
	return fromInstant(i), nil
}

// fromInstant decomposes a normalized, non-negative instant. It is the only
// place a Moment is built, so every Moment is canonical.
func fromInstant(i Instant) Moment {
	total := i.Sec

	minutes := total / secondsPerMinute
	second := int(total % secondsPerMinute)
	hours := minutes / minutesPerHour
	minute := int(minutes % minutesPerHour)
	days := hours / hoursPerDay
	hour := int(hours % hoursPerDay)

	// Taken from the raw count, before the year and month loops consume it.
	weekday := weekdayOf(days)

	year := epochYear
	month := epochMonth

	if days > daysPer400Years {
		n := (days - 1) / daysPer400Years
		days -= n * daysPer400Years
		year += int(n) * 400
	}

	for {
		if diy := int64(DaysInYear(year)); days > diy {
			days -= diy
			year++
			continue
		}
		if dim := int64(DaysInMonth(year, month)); days >= dim {
			days -= dim
			month++
			if month > December {
				month = January
				year++
			}
			continue
		}
		break
	}

	return Moment{
		year:    year,
		month:   month,
		day:     int(days) + epochDay,
		weekday: weekday,
		hour:    hour,
		minute:  minute,
		second:  second,
		frac:    i.Frac,
	}
}
