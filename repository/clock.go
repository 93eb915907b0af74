package repository

import "time"

// Clock supplies the timestamps stamped on writes.
type Clock func() time.Time

// SystemClock is the production clock. Stores keep millisecond precision so
// timestamps round-trip identically through every backend.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// OrSystem returns c, or SystemClock when c is nil.
func (c Clock) OrSystem() Clock {
	if c == nil {
		return SystemClock
	}
	return c
}
