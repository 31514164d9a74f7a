// Package schedule provides wall-clock time-window arithmetic and the
// availability check used when bookings are created and confirmed.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidFormat is returned when a time string is not a valid 24h "HH:MM".
var ErrInvalidFormat = errors.New("invalid time format")

// ErrInvalidRange is returned when a window's end does not come after its
// start. Windows are same-day only; overnight spans are not supported.
var ErrInvalidRange = errors.New("end time must be after start time")

var hhmmPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ToMinutes parses a 24h "HH:MM" string into minutes since midnight.
func ToMinutes(hhmm string) (int, error) {
	m := hhmmPattern.FindStringSubmatch(hhmm)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, hhmm)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, hhmm)
	}
	return hour*60 + minute, nil
}

// Duration returns the length of the window [start, end) in hours.
// Fractional hours are allowed; the result is always > 0.
func Duration(start, end string) (float64, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := ToMinutes(end)
	if err != nil {
		return 0, err
	}
	if e <= s {
		return 0, fmt.Errorf("%w: %s..%s", ErrInvalidRange, start, end)
	}
	return float64(e-s) / 60.0, nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap: a booking
// ending at 11:00 does not conflict with one starting at 11:00.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}
