// Package clock abstracts the current date so that recurrence scheduling
// and trend windows can be tested deterministically.
package clock

import "time"

// Clock supplies the current time. Services that compute against "today"
// take a Clock instead of calling time.Now directly.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time
	// Today returns the current date truncated to midnight UTC.
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Today() time.Time {
	return Midnight(time.Now())
}

// System returns a Clock backed by the wall clock.
func System() Clock { return systemClock{} }

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	Time time.Time
}

func (f Fixed) Now() time.Time   { return f.Time }
func (f Fixed) Today() time.Time { return Midnight(f.Time) }

// Midnight truncates t to the start of its day in UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
