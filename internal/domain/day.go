package domain

import (
	"fmt"
	"time"
)

// DayLayout is the ISO calendar date format used for entry keys.
const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into midnight UTC of that date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, s)
	}
	return t, nil
}

// FormatDay formats t as a calendar date in its own location.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, n)), nil
}

// IsDayBefore reports whether a is exactly one calendar day before b.
// Invalid dates never match.
func IsDayBefore(a, b string) bool {
	prev, err := AddDays(b, -1)
	if err != nil {
		return false
	}
	return prev == a
}
