// Package time contains time related helpers
package time

import (
	"sync"
	"time"
)

// Clock supplies the current time. Services take one so tests can pin "now"
type Clock interface {
	Now() time.Time
}

// System is the wall clock
type System struct{}

// Now returns time.Now
func (System) Now() time.Time { return time.Now() }

// Fixed is a settable clock for tests and for CLI overrides
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixed returns a clock stuck at t
func NewFixed(t time.Time) *Fixed { return &Fixed{t: t} }

// Now returns the pinned time
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Set moves the clock to t
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// UnixMilli converts epoch milliseconds to a UTC time
func UnixMilli(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// MonthStart truncates t to 00:00 on the first day of its month, in t's location
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
