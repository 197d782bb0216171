package booking

import (
	"sync"
	"time"
)

// slotKey identifies one bookable hour at one station.
type slotKey struct {
	stationID string
	day       string // yyyy-mm-dd
	hour      int
}

// slotLocker hands out a mutex per (station, day, hour) so the capacity
// count-then-write sequence cannot race for the same slot. Entries are
// reference counted and removed once the last holder unlocks, so the map only
// holds slots currently being booked.
type slotLocker struct {
	mu      sync.Mutex
	entries map[slotKey]*slotEntry
}

type slotEntry struct {
	mu   sync.Mutex
	refs int
}

func newSlotLocker() *slotLocker {
	return &slotLocker{
		entries: make(map[slotKey]*slotEntry),
	}
}

// lock blocks until the slot is exclusively held and returns the release func.
func (l *slotLocker) lock(stationID string, day time.Time, hour int) func() {
	key := slotKey{
		stationID: stationID,
		day:       day.UTC().Format("2006-01-02"),
		hour:      hour,
	}

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &slotEntry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}
