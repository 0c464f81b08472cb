package utc

import "strconv"

const (
	epochYear  = 1970
	epochMonth = January
	epochDay   = 1

	monthsPerYear = 12
	daysPerWeek   = 7

	secondsPerMinute = 60
	minutesPerHour   = 60
	hoursPerDay      = 24
	secondsPerDay    = secondsPerMinute * minutesPerHour * hoursPerDay

	// Every 400 years of the Gregorian calendar contain the same number of
	// days, no matter which year the span starts at.
	daysPer400Years = 365*400 + 97
)

// A Month specifies a month of the year (January = 1, ...).
type Month int

const (
	January Month = 1 + iota
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = [monthsPerYear]string{
	"January",
	"February",
	"March",
	"April",
	"May",
	"June",
	"July",
	"August",
	"September",
	"October",
	"November",
	"December",
}

// String returns the English name of the month ("January", "February", ...).
func (m Month) String() string {
	if m.valid() {
		return monthNames[m-1]
	}
	return "%!Month(" + strconv.Itoa(int(m)) + ")"
}

// Short returns the first three letters of the month name.
func (m Month) Short() string {
	if !m.valid() {
		return m.String()
	}
	return monthNames[m-1][:3]
}

func (m Month) valid() bool {
	return m >= January && m <= December
}

// A Weekday specifies a day of the week. The zero value is Thursday, the
// weekday of 1970-01-01, so that a count of days since the epoch maps onto a
// Weekday with a single modulo.
type Weekday int

const (
	Thursday Weekday = iota
	Friday
	Saturday
	Sunday
	Monday
	Tuesday
	Wednesday
)

var weekdayNames = [daysPerWeek]string{
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
}

// String returns the English name of the day ("Thursday", "Friday", ...).
func (d Weekday) String() string {
	if d >= 0 && d < daysPerWeek {
		return weekdayNames[d]
	}
	return "%!Weekday(" + strconv.Itoa(int(d)) + ")"
}

// Short returns the first three letters of the day name.
func (d Weekday) Short() string {
	if d < 0 || d >= daysPerWeek {
		return d.String()
	}
	return weekdayNames[d][:3]
}

// SinceSunday returns the position of the day in a week that starts on
// Sunday (Sunday = 0, ..., Saturday = 6).
func (d Weekday) SinceSunday() int {
	return (int(d) - int(Sunday) + daysPerWeek) % daysPerWeek
}

// SinceMonday returns the position of the day in a week that starts on
// Monday (Monday = 0, ..., Sunday = 6).
func (d Weekday) SinceMonday() int {
	return (int(d) - int(Monday) + daysPerWeek) % daysPerWeek
}

// weekdayOf maps a whole number of days since the epoch to its weekday.
func weekdayOf(days int64) Weekday {
	return Weekday(days % daysPerWeek)
}

// daysInMonthTable is indexed by [month-1][leap].
var daysInMonthTable = [monthsPerYear][2]int{
	{31, 31},
	{28, 29},
	{31, 31},
	{30, 30},
	{31, 31},
	{30, 30},
	{31, 31},
	{31, 31},
	{30, 30},
	{31, 31},
	{30, 30},
	{31, 31},
}

// daysInYearTable is indexed by [leap].
var daysInYearTable = func() [2]int {
	var t [2]int
	for _, row := range daysInMonthTable {
		t[0] += row[0]
		t[1] += row[1]
	}
	return t
}()

// IsLeapYear reports whether year is a leap year in the proleptic Gregorian
// calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func leap(year int) int {
	if IsLeapYear(year) {
		return 1
	}
	return 0
}

// DaysInMonth returns the number of days in month m of year. m must be in
// [January, December].
func DaysInMonth(year int, m Month) int {
	return daysInMonthTable[m-1][leap(year)]
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	return daysInYearTable[leap(year)]
}
