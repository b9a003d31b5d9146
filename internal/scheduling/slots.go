// Package scheduling holds the pure slot-grid math of the availability
// calculator. Nothing here touches storage or the clock; callers feed in the
// weekly template window and the booked start times.
package scheduling

import (
	"errors"
	"fmt"
	"time"
)

// Slot is a candidate consultation window. Ephemeral: generated on demand,
// never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

var ErrInvalidClock = errors.New("invalid clock time, use HH:MM")

// ParseClock parses a wall-clock "HH:MM" string into minutes since midnight
func ParseClock(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// BuildSlotGrid generates the full candidate grid of slotMinutes-sized slots
// between startClock and endClock on the given date, in chronological order.
// The last slot must end at or before endClock, partial trailing windows are
// dropped. An empty or inverted window yields no slots.
func BuildSlotGrid(date time.Time, startClock, endClock string, slotMinutes int) ([]Slot, error) {
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("slot size must be positive, got %d", slotMinutes)
	}

	startMin, err := ParseClock(startClock)
	if err != nil {
		return nil, err
	}
	endMin, err := ParseClock(endClock)
	if err != nil {
		return nil, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var slots []Slot
	for m := startMin; m+slotMinutes <= endMin; m += slotMinutes {
		slots = append(slots, Slot{
			Start: day.Add(time.Duration(m) * time.Minute),
			End:   day.Add(time.Duration(m+slotMinutes) * time.Minute),
		})
	}
	return slots, nil
}

// FilterBooked removes every candidate slot whose start equals a booked start
// time. A cancelled appointment must not appear in bookedStarts, freeing its
// slot is exactly omitting it here.
func FilterBooked(slots []Slot, bookedStarts []time.Time) []Slot {
	if len(bookedStarts) == 0 {
		return slots
	}

	taken := make(map[int64]bool, len(bookedStarts))
	for _, s := range bookedStarts {
		taken[s.UTC().Unix()] = true
	}

	open := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		if !taken[slot.Start.UTC().Unix()] {
			open = append(open, slot)
		}
	}
	return open
}

// ContainsStart reports whether some slot in the grid starts at the given
// instant. The booking manager uses it to re-validate a requested time against
// freshly computed availability at write time.
func ContainsStart(slots []Slot, start time.Time) bool {
	for _, slot := range slots {
		if slot.Start.Equal(start) {
			return true
		}
	}
	return false
}
