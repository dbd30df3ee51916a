// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/constants"
)

const (
	// DateLayout is the day-resolution format expected on ledger records.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a day-resolution date string. The boolean result is false
// when the string is empty or unparseable; callers exclude such records from
// time-series computations rather than failing.
func ParseDate(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysBetween returns the number of whole days from first to last.
func DaysBetween(first, last time.Time) int {
	return int(last.Sub(first).Hours() / 24)
}

// OffsetDays returns t shifted by the given number of days.
func OffsetDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}
