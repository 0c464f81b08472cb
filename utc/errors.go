package utc

import "errors"

var (
	// ErrBeforeEpoch is returned when a value resolves to a moment earlier
	// than 1970-01-01T00:00:00Z. Calendar fields out of their natural range
	// are normalized rather than rejected.
	ErrBeforeEpoch = errors.New("utc: moment is before 1970-01-01T00:00:00Z")

	// ErrInvalidSeconds is returned for NaN or infinite second counts, and
	// together with ErrOutOfRange for counts of 2^63 or more.
	ErrInvalidSeconds = errors.New("utc: seconds must be a finite number")

	// ErrOutOfRange is returned when a value resolves to a moment too far
	// after the epoch for its seconds to fit in an int64.
	ErrOutOfRange = errors.New("utc: moment is out of range")

	// ErrInvalidFormat is returned when text cannot be parsed as a moment.
	ErrInvalidFormat = errors.New("utc: invalid moment format")
)
