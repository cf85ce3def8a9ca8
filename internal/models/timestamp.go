package models

import (
	"sync"
	"time"
)

// Timestamp is the logical clock used for last-writer-wins conflict
// resolution. It is an ISO-8601 UTC instant with fixed-width nanosecond
// precision, so lexicographic comparison of two timestamps is also
// chronological comparison.
type Timestamp string

// timestampLayout keeps every digit position fixed. time.RFC3339Nano trims
// trailing zeros, which would break lexicographic ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Newer reports whether t is strictly newer than other. Equal timestamps
// are not newer: merges favor the record already held.
func (t Timestamp) Newer(other Timestamp) bool {
	return t > other
}

// Time parses the timestamp back into a time.Time. A zero time is returned
// for values that do not parse.
func (t Timestamp) Time() time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, string(t))
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// Clock issues local write timestamps. Issued values are strictly
// increasing even when the wall clock's resolution would produce equal
// strings for back-to-back writes.
type Clock struct {
	mu   sync.Mutex
	last Timestamp
	now  func() time.Time
}

// NewClock returns a clock backed by the system wall clock.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockAt returns a clock backed by the given time source. Used in tests.
func NewClockAt(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Next returns a fresh timestamp strictly newer than any previously issued
// by this clock.
func (c *Clock) Next() Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := Timestamp(c.now().UTC().Format(timestampLayout))
	if !ts.Newer(c.last) {
		// Wall clock has not advanced past the last issue; nudge by 1ns.
		ts = Timestamp(c.last.Time().Add(time.Nanosecond).UTC().Format(timestampLayout))
	}
	c.last = ts
	return ts
}
