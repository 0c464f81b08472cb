// Package model provides value objects for API parameter validation.
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/stsysd/koyomi/utc"
)

// CivilFields represents calendar fields that may be out of range.
type CivilFields struct {
	year, month, day int
	hour, minute     int
	second           float64
}

// NewCivilFields creates civil fields from query parameters.
// year, month and day are required; hour, minute and second default to 0.
func NewCivilFields(yearStr, monthStr, dayStr, hourStr, minuteStr, secondStr string) (*CivilFields, error) {
	var c CivilFields
	var err error

	for _, f := range []struct {
		name     string
		value    string
		required bool
		dst      *int
	}{
		{"year", yearStr, true, &c.year},
		{"month", monthStr, true, &c.month},
		{"day", dayStr, true, &c.day},
		{"hour", hourStr, false, &c.hour},
		{"minute", minuteStr, false, &c.minute},
	} {
		if f.value == "" {
			if f.required {
				return nil, NewValidationError(fmt.Sprintf("%s is required", f.name))
			}
			continue
		}
		*f.dst, err = parseInt(f.value)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("invalid %s parameter: must be an integer", f.name))
		}
	}

	if secondStr != "" {
		c.second, err = parseFinite(secondStr)
		if err != nil {
			return nil, NewValidationError("invalid second parameter: must be a finite number")
		}
	}

	return &c, nil
}

// Moment normalizes the fields into a moment.
func (c *CivilFields) Moment() (utc.Moment, error) {
	return utc.FromCivil(c.year, c.month, c.day, c.hour, c.minute, c.second)
}

// Seconds represents a real number of seconds since the epoch.
type Seconds struct {
	value float64
}

// NewSeconds creates a seconds value object.
func NewSeconds(s string) (*Seconds, error) {
	if s == "" {
		return nil, NewValidationError("seconds is required")
	}
	v, err := parseFinite(s)
	if err != nil {
		return nil, NewValidationError("invalid seconds: must be a finite number")
	}
	return &Seconds{value: v}, nil
}

// Float returns the number of seconds.
func (s *Seconds) Float() float64 {
	return s.value
}

// Moment converts the seconds into a moment.
func (s *Seconds) Moment() (utc.Moment, error) {
	return utc.FromSeconds(s.value)
}

// DefaultPrecision is the number of fraction digits used when none is given.
const DefaultPrecision = utc.MicroPrecision

// MaxPrecision is the largest number of fraction digits accepted.
const MaxPrecision = utc.NanoPrecision

// Precision represents the number of fraction digits in a timestamp.
type Precision struct {
	value int
}

// NewPrecision creates a precision value object.
func NewPrecision(s string) (*Precision, error) {
	if s == "" {
		return &Precision{value: DefaultPrecision}, nil
	}
	v, err := parseInt(s)
	if err != nil || v < 0 || v > MaxPrecision {
		return nil, NewValidationError(fmt.Sprintf("invalid precision parameter: must be an integer between 0 and %d", MaxPrecision))
	}
	return &Precision{value: v}, nil
}

// Int returns the precision.
func (p *Precision) Int() int {
	return p.value
}

// DateRange represents an inclusive range of calendar days.
type DateRange struct {
	from  utc.Moment
	to    utc.Moment
	until utc.Moment
}

// NewDateRange creates a new date range value object.
// Missing bounds default to the latest week plus 52 weeks, ending today.
func NewDateRange(fromStr, toStr string, today utc.Moment) (*DateRange, error) {
	from, to := defaultDateRange(today)

	if fromStr != "" {
		m, err := utc.ParseBasicTimestamp(fromStr)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("invalid from parameter: %v", err))
		}
		from = m
	}

	if toStr != "" {
		m, err := utc.ParseBasicTimestamp(toStr)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("invalid to parameter: %v", err))
		}
		to = m
	}

	return newDateRange(from, to)
}

func newDateRange(from, to utc.Moment) (*DateRange, error) {
	from, to = from.Date(), to.Date()
	if to.Before(from) {
		return nil, NewValidationError("from must not be after to")
	}

	until, err := to.AddDays(1)
	if err != nil {
		return nil, fmt.Errorf("failed to compute end of range: %w", err)
	}
	return &DateRange{from: from, to: to, until: until}, nil
}

// From returns midnight of the first day.
func (d *DateRange) From() utc.Moment {
	return d.from
}

// To returns midnight of the last day.
func (d *DateRange) To() utc.Moment {
	return d.to
}

// Until returns midnight of the day after the last day, the exclusive end.
func (d *DateRange) Until() utc.Moment {
	return d.until
}

// defaultDateRange calculates the default date range for the latest week + 52 weeks.
func defaultDateRange(today utc.Moment) (utc.Moment, utc.Moment) {
	from, err := today.AddDays(-(today.Weekday().SinceSunday() + 52*7))
	if err != nil {
		// the range would start before the epoch
		from = utc.Epoch()
	}
	return from, today
}

// Year represents a calendar year at or after the epoch year.
type Year struct {
	value int
}

// NewYear creates a year value object.
func NewYear(s string) (*Year, error) {
	v, err := parseInt(s)
	if err != nil {
		return nil, NewValidationError("invalid year parameter: must be an integer")
	}
	if v < 1970 {
		return nil, NewValidationError("year must be 1970 or later")
	}
	return &Year{value: v}, nil
}

// Int returns the year.
func (y *Year) Int() int {
	return y.value
}

// DateRange returns January 1st through December 31st of the year.
func (y *Year) DateRange() (*DateRange, error) {
	from, err := utc.FromDate(y.value, 1, 1)
	if err != nil {
		return nil, err
	}
	to, err := utc.FromDate(y.value, 12, 31)
	if err != nil {
		return nil, err
	}
	return newDateRange(from, to)
}

// EventID represents an event ID value object.
type EventID struct {
	value uuid.UUID
}

// NewEventID creates a new event ID value object.
func NewEventID(idStr string) (*EventID, error) {
	if idStr == "" {
		return nil, NewValidationError("event ID is required")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, NewValidationError("invalid UUID format")
	}

	return &EventID{value: id}, nil
}

// UUID returns the UUID value.
func (e *EventID) UUID() uuid.UUID {
	return e.value
}

// Pagination represents pagination parameters value object.
type Pagination struct {
	limit  int
	offset int
}

// NewPagination creates a new pagination value object.
func NewPagination(limitStr, offsetStr string) (*Pagination, error) {
	limit := 100 // Default value
	offset := 0  // Default value

	// Process limit parameter
	if limitStr != "" {
		parsedLimit, err := parseInt(limitStr)
		if err != nil {
			return nil, NewValidationError("invalid limit parameter: must be a positive integer")
		}
		if parsedLimit <= 0 {
			return nil, NewValidationError("limit must be greater than 0")
		}
		if parsedLimit > 1000 { // Set upper limit
			parsedLimit = 1000
		}
		limit = parsedLimit
	}

	// Process offset parameter
	if offsetStr != "" {
		parsedOffset, err := parseInt(offsetStr)
		if err != nil {
			return nil, NewValidationError("invalid offset parameter: must be a non-negative integer")
		}
		if parsedOffset < 0 {
			return nil, NewValidationError("offset must be non-negative")
		}
		offset = parsedOffset
	}

	return &Pagination{limit: limit, offset: offset}, nil
}

// NewPaginationWithValues creates a pagination value object without parsing.
func NewPaginationWithValues(limit, offset int) *Pagination {
	return &Pagination{limit: limit, offset: offset}
}

// Limit returns the limit value.
func (p *Pagination) Limit() int {
	return p.limit
}

// Offset returns the offset value.
func (p *Pagination) Offset() int {
	return p.offset
}

// parseInt converts a string to an integer and handles errors.
func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

var errNotFinite = errors.New("not a finite number")

// parseFinite parses a real number, rejecting NaN and infinities.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}
