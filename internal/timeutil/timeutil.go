// Package timeutil holds the date primitives every pipeline stage leans on:
// null-safe parsing and the fixed-width key formats that make lexicographic
// sort equal chronological sort.
package timeutil

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ParseDate parses an event timestamp. It accepts RFC 3339 with or without a
// zone offset and never panics; ok is false for empty, whitespace-only, or
// unparsable input.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateKey formats t's calendar date as zero-padded YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthKey formats t's calendar month as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// WeekKey returns the date key of the Sunday on or before t.
func WeekKey(t time.Time) string {
	return DateKey(StartOfWeek(t))
}

// StartOfWeek returns midnight of the Sunday on or before t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// ClockUTC renders t's time of day as hh:mm in UTC.
func ClockUTC(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%02d:%02d", u.Hour(), u.Minute())
}

// DisplayMonth formats t as the history view's month key, e.g. "January 2024".
func DisplayMonth(t time.Time) string {
	return t.Format("January 2006")
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
