package service

import (
	"sync"
	"time"
)

// Defaults for the activity write debounce.
const (
	ActivityDebounceWindow    = 2000 * time.Millisecond
	ActivityDeduperMaxEntries = 100
)

// ActivityDeduper suppresses repeated activity writes for the same dedup key
// within a debounce window. It is an explicitly owned map rather than a
// package-level singleton so tests can construct and reset their own.
type ActivityDeduper struct {
	mu         sync.Mutex
	window     time.Duration
	maxEntries int
	seen       map[string]time.Time
	now        func() time.Time
}

// NewActivityDeduper builds a deduper with the given window and size cap.
func NewActivityDeduper(window time.Duration, maxEntries int) *ActivityDeduper {
	if window <= 0 {
		window = ActivityDebounceWindow
	}
	if maxEntries <= 0 {
		maxEntries = ActivityDeduperMaxEntries
	}
	return &ActivityDeduper{
		window:     window,
		maxEntries: maxEntries,
		seen:       make(map[string]time.Time),
		now:        time.Now,
	}
}

// ShouldRecord reports whether a write for the key is due, recording the
// current time when it is. Keys seen within the window are suppressed.
func (d *ActivityDeduper) ShouldRecord(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.seen[key]; ok && now.Sub(last) < d.window {
		return false
	}

	d.seen[key] = now
	if len(d.seen) > d.maxEntries {
		d.purge(now)
	}

	return true
}

// Reset drops all recorded keys.
func (d *ActivityDeduper) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[string]time.Time)
}

// purge drops entries older than twice the window. Caller holds the lock.
func (d *ActivityDeduper) purge(now time.Time) {
	cutoff := now.Add(-2 * d.window)
	for key, last := range d.seen {
		if last.Before(cutoff) {
			delete(d.seen, key)
		}
	}
}
