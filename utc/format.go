package utc

import (
	"fmt"
	"strconv"
	"strings"
)

// MicroPrecision is the number of fraction digits used by String.
const MicroPrecision = 6

// NanoPrecision is the number of fraction digits used by the text and JSON
// encodings, so that decoding gives back an Equal moment.
const NanoPrecision = 9

// BasicTimestamp returns m in YYYY-MM-DDTHH:MM:SS form.
func (m Moment) BasicTimestamp() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
		m.year, int(m.month), m.day, m.hour, m.minute, m.second)
}

// BasicTimestampWithFraction returns m in YYYY-MM-DDTHH:MM:SS.f form with
// precision fraction digits. A precision of zero or less omits the fraction.
func (m Moment) BasicTimestampWithFraction(precision int) string {
	if precision <= 0 {
		return m.BasicTimestamp()
	}
	return m.BasicTimestamp() + "." + fractionDigits(m.frac, precision)
}

// BasicTimestampMicro returns m with six fraction digits.
func (m Moment) BasicTimestampMicro() string {
	return m.BasicTimestampWithFraction(MicroPrecision)
}

// HTTPDate returns m in the IMF-fixdate form used by HTTP, e.g.
// "Fri, 05 Jan 2024 11:44:58 GMT".
func (m Moment) HTTPDate() string {
	return fmt.Sprintf("%s, %02d %s %04d %02d:%02d:%02d GMT",
		m.weekday.Short(), m.day, m.month.Short(), m.year, m.hour, m.minute, m.second)
}

// String returns BasicTimestampMicro.
func (m Moment) String() string {
	return m.BasicTimestampMicro()
}

// fractionDigits renders frac rounded to precision digits and drops the
// leading "0.". A fraction that rounds up to 1 is clamped to all nines so the
// digits never claim the next second.
func fractionDigits(frac float64, precision int) string {
	s := strconv.FormatFloat(frac, 'f', precision, 64)
	if !strings.HasPrefix(s, "0.") {
		return strings.Repeat("9", precision)
	}
	return s[2:]
}

// MarshalText implements encoding.TextMarshaler.
func (m Moment) MarshalText() ([]byte, error) {
	return []byte(m.BasicTimestampWithFraction(NanoPrecision)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Moment) UnmarshalText(text []byte) error {
	parsed, err := ParseBasicTimestamp(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Moment) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.BasicTimestampWithFraction(NanoPrecision))), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Moment) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, data)
	}
	return m.UnmarshalText([]byte(s))
}

// ParseBasicTimestamp parses YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS or
// YYYY-MM-DDTHH:MM:SS.f, optionally followed by "Z". Field values go through
// FromCivil, so "2020-13-01" is 2021-01-01.
func ParseBasicTimestamp(s string) (Moment, error) {
	s = strings.TrimSuffix(s, "Z")
	date, clock, hasClock := strings.Cut(s, "T")

	dateParts := strings.Split(date, "-")
	if len(dateParts) != 3 || len(dateParts[0]) != 4 || len(dateParts[1]) != 2 || len(dateParts[2]) != 2 {
		return Moment{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	fields := make([]int, 0, 5)
	for _, p := range dateParts {
		n, err := atoiDigits(p)
		if err != nil {
			return Moment{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		fields = append(fields, n)
	}

	if !hasClock {
		return FromDate(fields[0], fields[1], fields[2])
	}

	clockParts := strings.Split(clock, ":")
	if len(clockParts) != 3 || len(clockParts[0]) != 2 || len(clockParts[1]) != 2 || len(clockParts[2]) < 2 {
		return Moment{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	for _, p := range clockParts[:2] {
		n, err := atoiDigits(p)
		if err != nil {
			return Moment{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		fields = append(fields, n)
	}

	whole, frac, hasFrac := strings.Cut(clockParts[2], ".")
	if len(whole) != 2 || hasFrac && frac == "" {
		return Moment{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	sec, err := atoiDigits(whole)
	if err != nil {
		return Moment{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	var f float64
	if hasFrac {
		if _, err := atoiDigits(frac); err != nil {
			return Moment{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		f, err = strconv.ParseFloat("0."+frac, 64)
		if err != nil {
			return Moment{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
	}

	return normalize(civil{
		year:   fields[0],
		month:  fields[1],
		day:    fields[2],
		hour:   fields[3],
		minute: fields[4],
		second: int64(sec),
		frac:   f,
	})
}

// ParseHTTPDate parses the form produced by HTTPDate. The weekday must match
// the date.
func ParseHTTPDate(s string) (Moment, error) {
	var wd, mon, clock string
	var day, year int
	if _, err := fmt.Sscanf(s, "%3s, %2d %3s %4d %8s GMT", &wd, &day, &mon, &year, &clock); err != nil {
		return Moment{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	wd = strings.TrimSuffix(wd, ",")

	month := Month(0)
	for m := January; m <= December; m++ {
		if m.Short() == mon {
			month = m
			break
		}
	}
	if month == 0 {
		return Moment{}, fmt.Errorf("%w: unknown month %q", ErrInvalidFormat, mon)
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return Moment{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	var hms [3]int
	for i, p := range parts {
		n, err := atoiDigits(p)
		if err != nil || len(p) != 2 {
			return Moment{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		hms[i] = n
	}

	m, err := FromCivil(year, int(month), day, hms[0], hms[1], float64(hms[2]))
	if err != nil {
		return Moment{}, err
	}
	if m.weekday.Short() != wd {
		return Moment{}, fmt.Errorf("%w: %s is a %s", ErrInvalidFormat, m.BasicTimestamp(), m.weekday)
	}
	return m, nil
}

// atoiDigits parses a non-empty run of ASCII digits.
func atoiDigits(s string) (int, error) {
	if s == "" {
		return 0, ErrInvalidFormat
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidFormat
		}
	}
	return strconv.Atoi(s)
}
