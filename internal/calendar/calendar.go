// Package calendar holds the date arithmetic behind a room's available-dates
// window: generating consecutive days, building a fresh window and rotating
// the window when a day is booked.
package calendar

import (
	"errors"
	"sort"
	"time"
)

// Layout is the storage format of a calendar day.
const Layout = "2006-01-02"

// DefaultWindowDays is the number of open days a new room starts with.
const DefaultWindowDays = 20

const day = 24 * time.Hour

// ErrInvalidDay is returned when a day string is not in Layout format.
var ErrInvalidDay = errors.New("invalid date format, expected YYYY-MM-DD")

// Clock abstracts the current instant so rotation can be tested with a fixed
// "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Range returns count instants starting at start, each 24 hours after the
// previous one. The time of day of start is preserved. count <= 0 yields an
// empty slice.
func Range(count int, start time.Time) []time.Time {
	if count <= 0 {
		return []time.Time{}
	}
	out := make([]time.Time, 0, count)
	cur := start
	for len(out) < count {
		out = append(out, cur)
		cur = cur.Add(day)
	}
	return out
}

// Format renders each instant as a UTC calendar day.
func Format(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.UTC().Format(Layout)
	}
	return out
}

// ParseDay parses a Layout string into midnight UTC of that day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}
	return t, nil
}

// ValidDay reports whether s is a well formed calendar day.
func ValidDay(s string) bool {
	_, err := ParseDay(s)
	return err == nil
}

// Window builds the initial window of size consecutive days beginning at now.
func Window(size int, now time.Time) []string {
	return Format(Range(size, now))
}

// Normalize returns a sorted copy of days without duplicates. Layout strings
// sort chronologically.
func Normalize(days []string) []string {
	seen := make(map[string]struct{}, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether day is present in days.
func Contains(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
