package session

import (
	"time"

	"github.com/theoremus-urban-solutions/navcore/location"
)

// DefaultHistoryCapacity is the number of recent fixes retained per trip.
const DefaultHistoryCapacity = 40

// History is a fixed-capacity ring buffer of the most recent fixes. The
// oldest fix is evicted first once full.
type History struct {
	arena []location.Fix
	head  int // index of the oldest fix
	size  int
}

// NewHistory returns an empty buffer holding at most capacity fixes.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &History{arena: make([]location.Fix, capacity)}
}

// Cap returns the buffer capacity.
func (h *History) Cap() int { return len(h.arena) }

// Len returns the number of fixes held.
func (h *History) Len() int { return h.size }

// Push appends a fix, evicting the oldest when full.
func (h *History) Push(f location.Fix) {
	tail := (h.head + h.size) % len(h.arena)
	h.arena[tail] = f
	if h.size < len(h.arena) {
		h.size++
		return
	}
	h.head = (h.head + 1) % len(h.arena)
}

// At returns the i-th fix, oldest first.
func (h *History) At(i int) (location.Fix, bool) {
	if i < 0 || i >= h.size {
		return location.Fix{}, false
	}
	return h.arena[(h.head+i)%len(h.arena)], true
}

// Latest returns the most recently pushed fix.
func (h *History) Latest() (location.Fix, bool) {
	return h.At(h.size - 1)
}

// Snapshot copies the held fixes, oldest first.
func (h *History) Snapshot() []location.Fix {
	out := make([]location.Fix, h.size)
	for i := range out {
		out[i] = h.arena[(h.head+i)%len(h.arena)]
	}
	return out
}

// Split partitions the held fixes around t: before holds fixes taken at or
// before t, after those taken strictly later.
func (h *History) Split(t time.Time) (before, after []location.Fix) {
	before = make([]location.Fix, 0, h.size)
	after = make([]location.Fix, 0)
	for i := 0; i < h.size; i++ {
		f := h.arena[(h.head+i)%len(h.arena)]
		if f.Timestamp.After(t) {
			after = append(after, f)
		} else {
			before = append(before, f)
		}
	}
	return before, after
}
