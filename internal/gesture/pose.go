// Package gesture implements the head-gesture classification engine: a
// bounded pose history, a de-jittered velocity/acceleration estimator, an
// idle/directional-consistency gate and the threshold decision that turns
// fast head turns into directional signals.
package gesture

import (
	"math"
	"time"
)

// Pose is a six-field snapshot of head position and orientation at one
// instant. Position is in sensor units, orientation in degrees. Poses are
// immutable values; equality is structural.
type Pose struct {
	X     float64
	Y     float64
	Z     float64
	Yaw   float64
	Pitch float64
	Roll  float64
}

// Valid reports whether every field is a real number. The ingestion boundary
// rejects NaN payloads before they reach the classifier.
func (p Pose) Valid() bool {
	for _, f := range [6]float64{p.X, p.Y, p.Z, p.Yaw, p.Pitch, p.Roll} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Sample is a Pose paired with the monotonic instant it was received.
type Sample struct {
	Pose Pose
	At   time.Time
}

// Velocity is a Pose-shaped rate-of-change vector, units per second.
// It is computed against a non-adjacent history entry to suppress the
// sensor jitter a frame-to-frame difference would amplify.
type Velocity struct {
	X     float64
	Y     float64
	Z     float64
	Yaw   float64
	Pitch float64
	Roll  float64
}

// rateBetween differences two poses field by field over elapsed seconds.
func rateBetween(newer, older Pose, elapsed float64) Velocity {
	return Velocity{
		X:     (newer.X - older.X) / elapsed,
		Y:     (newer.Y - older.Y) / elapsed,
		Z:     (newer.Z - older.Z) / elapsed,
		Yaw:   (newer.Yaw - older.Yaw) / elapsed,
		Pitch: (newer.Pitch - older.Pitch) / elapsed,
		Roll:  (newer.Roll - older.Roll) / elapsed,
	}
}

// accelBetween differences two velocity estimates over elapsed seconds.
func accelBetween(newer, older Velocity, elapsed float64) Velocity {
	return Velocity{
		X:     (newer.X - older.X) / elapsed,
		Y:     (newer.Y - older.Y) / elapsed,
		Z:     (newer.Z - older.Z) / elapsed,
		Yaw:   (newer.Yaw - older.Yaw) / elapsed,
		Pitch: (newer.Pitch - older.Pitch) / elapsed,
		Roll:  (newer.Roll - older.Roll) / elapsed,
	}
}
