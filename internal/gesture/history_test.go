package gesture

import (
	"testing"
	"time"
)

func TestHistory_PushAndOrder(t *testing.T) {
	h := NewHistory(8)

	if h.Len() != 0 {
		t.Fatalf("new history length = %d, want 0", h.Len())
	}

	base := time.Unix(1700000000, 0)
	for i := 0; i < 5; i++ {
		h.Push(Record{
			Pose: Pose{Yaw: float64(i)},
			At:   base.Add(time.Duration(i) * 10 * time.Millisecond),
		})
	}

	if h.Len() != 5 {
		t.Fatalf("length = %d, want 5", h.Len())
	}

	// At(0) is the newest record, At(4) the oldest.
	newest, ok := h.At(0)
	if !ok || newest.Pose.Yaw != 4 {
		t.Errorf("At(0) = %+v, want yaw 4", newest.Pose)
	}
	oldest, ok := h.At(4)
	if !ok || oldest.Pose.Yaw != 0 {
		t.Errorf("At(4) = %+v, want yaw 0", oldest.Pose)
	}

	// Timestamps must be strictly increasing oldest to newest.
	for i := h.Len() - 1; i > 0; i-- {
		older, _ := h.At(i)
		newer, _ := h.At(i - 1)
		if !older.At.Before(newer.At) {
			t.Errorf("records at %d and %d out of order: %v >= %v", i, i-1, older.At, newer.At)
		}
	}
}

func TestHistory_TruncatesOldest(t *testing.T) {
	h := NewHistory(4)

	base := time.Unix(1700000000, 0)
	for i := 0; i < 10; i++ {
		h.Push(Record{
			Pose: Pose{Yaw: float64(i)},
			At:   base.Add(time.Duration(i) * 10 * time.Millisecond),
		})
	}

	if h.Len() != 4 {
		t.Fatalf("length = %d, want capacity 4", h.Len())
	}

	newest, _ := h.At(0)
	if newest.Pose.Yaw != 9 {
		t.Errorf("newest yaw = %f, want 9", newest.Pose.Yaw)
	}
	oldest, _ := h.At(3)
	if oldest.Pose.Yaw != 6 {
		t.Errorf("oldest retained yaw = %f, want 6", oldest.Pose.Yaw)
	}

	if _, ok := h.At(4); ok {
		t.Error("At(4) should be out of range after truncation")
	}
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory(8)

	base := time.Unix(1700000000, 0)
	for i := 0; i < 6; i++ {
		h.Push(Record{At: base.Add(time.Duration(i) * time.Millisecond)})
	}

	h.Reset()

	if h.Len() != 0 {
		t.Fatalf("length after reset = %d, want 0", h.Len())
	}
	if _, ok := h.Newest(); ok {
		t.Error("Newest() should report no record after reset")
	}

	// The buffer must be reusable after a reset.
	h.Push(Record{Pose: Pose{Yaw: 1}, At: base.Add(time.Second)})
	if h.Len() != 1 {
		t.Errorf("length after reuse = %d, want 1", h.Len())
	}
}

func TestHistory_OutOfRange(t *testing.T) {
	h := NewHistory(4)
	if _, ok := h.At(0); ok {
		t.Error("At(0) on empty history should report false")
	}
	if _, ok := h.At(-1); ok {
		t.Error("At(-1) should report false")
	}
}
