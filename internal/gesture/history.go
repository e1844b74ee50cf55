package gesture

import "time"

// DefaultCapacity bounds the history buffer. At typical opentrack rates
// (~100 Hz) this holds well under a minute of samples.
const DefaultCapacity = 4000

// Record is one accepted sample enriched with its derived rates. Delta is
// the time since the previous record; Velocity and Accel are computed against
// non-adjacent records, see Classifier.
type Record struct {
	Pose     Pose
	Velocity Velocity
	Accel    Velocity
	At       time.Time
	Delta    time.Duration
}

// History is a bounded, most-recent-first ring of Records. It is owned
// exclusively by the classifier goroutine and is not safe for concurrent use.
// Traversed oldest to newest the timestamps are strictly increasing; the
// whole buffer is cleared when a timing discontinuity is detected.
type History struct {
	buf  []Record
	head int // slot of the newest record, meaningless while size == 0
	size int
}

// NewHistory creates a History with the given capacity. Capacities below one
// fall back to DefaultCapacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{buf: make([]Record, capacity)}
}

// Len returns the number of stored records.
func (h *History) Len() int {
	return h.size
}

// Cap returns the fixed capacity bound.
func (h *History) Cap() int {
	return len(h.buf)
}

// Push inserts a record at the front. When the buffer is full the oldest
// record is overwritten.
func (h *History) Push(r Record) {
	if h.size == 0 {
		h.head = 0
		h.buf[0] = r
		h.size = 1
		return
	}
	h.head = (h.head + 1) % len(h.buf)
	h.buf[h.head] = r
	if h.size < len(h.buf) {
		h.size++
	}
}

// At returns the record i slots behind the newest one; At(0) is the newest.
// The second return value is false when i is out of range.
func (h *History) At(i int) (Record, bool) {
	if i < 0 || i >= h.size {
		return Record{}, false
	}
	idx := (h.head - i + len(h.buf)) % len(h.buf)
	return h.buf[idx], true
}

// Newest returns the most recent record, if any.
func (h *History) Newest() (Record, bool) {
	return h.At(0)
}

// Reset discards every record. Used when a timing discontinuity indicates the
// tracking session was interrupted; a stale history would otherwise feed a
// huge velocity spike into subsequent estimates.
func (h *History) Reset() {
	h.size = 0
}
