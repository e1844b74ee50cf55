package track

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/headtilt/internal/gesture"
)

func TestDecode_RoundTrip(t *testing.T) {
	want := gesture.Pose{X: 1.5, Y: -2.25, Z: 0, Yaw: 12.5, Pitch: -3.75, Roll: 180}

	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != want {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
}

func TestDecode_BadLength(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "empty", size: 0},
		{name: "truncated", size: 47},
		{name: "oversized", size: 49},
		{name: "double packet", size: 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(make([]byte, tt.size))
			if !errors.Is(err, ErrBadLength) {
				t.Errorf("Decode(%d bytes) error = %v, want ErrBadLength", tt.size, err)
			}
		})
	}
}

func TestDecode_RejectsNonFinite(t *testing.T) {
	// A NaN in any of the six fields must be rejected before it can reach
	// the classifier.
	for field := 0; field < 6; field++ {
		pose := gesture.Pose{X: 1, Y: 2, Z: 3, Yaw: 4, Pitch: 5, Roll: 6}
		buf := Encode(pose)

		nan := math.Float64bits(math.NaN())
		for i := 0; i < 8; i++ {
			buf[field*8+i] = byte(nan >> (8 * i))
		}

		if _, err := Decode(buf); !errors.Is(err, ErrNaN) {
			t.Errorf("field %d: Decode() error = %v, want ErrNaN", field, err)
		}
	}

	inf := gesture.Pose{Yaw: math.Inf(1)}
	if _, err := Decode(Encode(inf)); !errors.Is(err, ErrNaN) {
		t.Errorf("Decode(+Inf yaw) error = %v, want ErrNaN", err)
	}
}
