package gesture

import (
	"math"
	"time"
)

// Classification constants. Angular rates are in degrees per second; the
// asymmetric pitch thresholds reflect the ergonomic head-motion range
// (tilting one way is deliberately more sensitive than the other).
const (
	// DefaultYawRate is the column-gesture yaw velocity threshold.
	DefaultYawRate = 36.0
	// DefaultPitchUpRate is the positive pitch velocity threshold.
	DefaultPitchUpRate = 50.0
	// DefaultPitchDownRate is the negative pitch velocity threshold.
	DefaultPitchDownRate = -32.0
	// DefaultMonitorYawRate is the much faster yaw velocity that switches
	// monitors instead of columns.
	DefaultMonitorYawRate = 120.0
	// DefaultMonitorMinYaw is the minimum absolute yaw angle, in degrees,
	// required for a monitor switch.
	DefaultMonitorMinYaw = 16.0
	// DefaultWarmUp is the minimum history depth before any decision.
	DefaultWarmUp = 16
	// DefaultIdleWindow is how far back the idle/consistency gate looks.
	DefaultIdleWindow = 500 * time.Millisecond
	// DefaultMaxDelta is the sample gap treated as a timing discontinuity.
	DefaultMaxDelta = time.Second
)

// minElapsed guards the velocity and acceleration divisions against
// duplicate timestamps. Anything closer than this carries no new
// information and is skipped rather than turned into an Inf/NaN rate.
const minElapsed = time.Microsecond

// Config holds every classifier tunable so the engine can be exercised with
// synthetic parameter sets instead of scattered literals.
type Config struct {
	YawRate        float64       // column gesture threshold, deg/s
	PitchUpRate    float64       // positive pitch threshold, deg/s
	PitchDownRate  float64       // negative pitch threshold, deg/s
	MonitorYawRate float64       // monitor switch threshold, deg/s
	MonitorMinYaw  float64       // minimum absolute yaw for a monitor switch, deg
	IdleWindow     time.Duration // lead-in window examined by the gate
	WarmUp         int           // minimum history depth before any decision
	Capacity       int           // history capacity bound
	MaxDelta       time.Duration // sample gap treated as a discontinuity
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		YawRate:        DefaultYawRate,
		PitchUpRate:    DefaultPitchUpRate,
		PitchDownRate:  DefaultPitchDownRate,
		MonitorYawRate: DefaultMonitorYawRate,
		MonitorMinYaw:  DefaultMonitorMinYaw,
		IdleWindow:     DefaultIdleWindow,
		WarmUp:         DefaultWarmUp,
		Capacity:       DefaultCapacity,
		MaxDelta:       DefaultMaxDelta,
	}
}

// axis selects which rotation component a decision step reads.
type axis int

const (
	axisYaw axis = iota
	axisPitch
)

// Classifier turns a stream of pose samples into directional signals. It is
// stateless between invocations apart from the shared rolling history: every
// accepted sample independently decides "does this instant look like the
// apex of a fast directional motion". Not safe for concurrent use; the
// pipeline owns one classifier on a single goroutine.
type Classifier struct {
	cfg  Config
	hist *History
}

// NewClassifier creates a Classifier with the given configuration. Zero or
// negative tunables fall back to their defaults.
func NewClassifier(cfg Config) *Classifier {
	def := DefaultConfig()
	if cfg.YawRate <= 0 {
		cfg.YawRate = def.YawRate
	}
	if cfg.PitchUpRate <= 0 {
		cfg.PitchUpRate = def.PitchUpRate
	}
	if cfg.PitchDownRate >= 0 {
		cfg.PitchDownRate = def.PitchDownRate
	}
	if cfg.MonitorYawRate <= 0 {
		cfg.MonitorYawRate = def.MonitorYawRate
	}
	if cfg.MonitorMinYaw <= 0 {
		cfg.MonitorMinYaw = def.MonitorMinYaw
	}
	if cfg.IdleWindow <= 0 {
		cfg.IdleWindow = def.IdleWindow
	}
	if cfg.WarmUp <= 0 {
		cfg.WarmUp = def.WarmUp
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.MaxDelta <= 0 {
		cfg.MaxDelta = def.MaxDelta
	}
	return &Classifier{
		cfg:  cfg,
		hist: NewHistory(cfg.Capacity),
	}
}

// Config returns the active thresholds.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Depth returns the current history length.
func (c *Classifier) Depth() int {
	return c.hist.Len()
}

// Reset clears the history, forcing a fresh warm-up sequence.
func (c *Classifier) Reset() {
	c.hist.Reset()
}

// Process accepts one sample and re-evaluates the decision rule. It returns
// the emitted signal (SignalNop when nothing crossed threshold), the history
// record built for the sample, and whether the sample was accepted at all.
// Duplicate timestamps are skipped as carrying no new information.
func (c *Classifier) Process(s Sample) (Signal, Record, bool) {
	prev, hasPrev := c.hist.Newest()

	var delta time.Duration
	if hasPrev {
		delta = s.At.Sub(prev.At)
		if delta > c.cfg.MaxDelta || delta < 0 {
			// A stall or out-of-order arrival starts a fresh tracking
			// session; stale history would pollute the next estimates.
			c.hist.Reset()
			c.hist.Push(Record{Pose: s.Pose, At: s.At})
			return SignalNop, Record{Pose: s.Pose, At: s.At}, true
		}
		if delta < minElapsed {
			return SignalNop, Record{}, false
		}
	}

	rec := Record{Pose: s.Pose, At: s.At, Delta: delta}

	// Velocity differences the current sample against a record two slots
	// older, skipping one intermediate sample: consecutive samples are only
	// milliseconds apart and a frame-to-frame derivative amplifies jitter.
	// During warm-up, before three records exist, a coarser adjacent
	// derivative stands in.
	if older, ok := c.hist.At(1); ok {
		elapsed := s.At.Sub(older.At)
		if elapsed >= minElapsed {
			rec.Velocity = rateBetween(s.Pose, older.Pose, elapsed.Seconds())
		}
	} else if hasPrev {
		rec.Velocity = rateBetween(s.Pose, prev.Pose, delta.Seconds())
	}

	// Acceleration is the discrete derivative of the smoothed velocity,
	// one slot back, not of raw pose.
	if hasPrev && delta >= minElapsed {
		rec.Accel = accelBetween(rec.Velocity, prev.Velocity, delta.Seconds())
	}

	c.hist.Push(rec)
	return c.decide(rec), rec, true
}

// decide applies the threshold rules in priority order: monitor yaw, column
// yaw, then pitch. At most one signal is emitted per sample.
func (c *Classifier) decide(rec Record) Signal {
	if c.hist.Len() < c.cfg.WarmUp || rec.Delta > c.cfg.MaxDelta {
		return SignalNop
	}

	v := rec.Velocity

	if math.Abs(v.Yaw) >= c.cfg.MonitorYawRate && math.Abs(rec.Pose.Yaw) > c.cfg.MonitorMinYaw &&
		c.fromIdle(rec, axisYaw) {
		if v.Yaw > 0 {
			return SignalLeftMonitor
		}
		return SignalRightMonitor
	}

	if math.Abs(v.Yaw) >= c.cfg.YawRate && c.fromIdle(rec, axisYaw) {
		if v.Yaw > 0 {
			return SignalLeftColumn
		}
		return SignalRightColumn
	}

	if (v.Pitch > c.cfg.PitchUpRate || v.Pitch < c.cfg.PitchDownRate) &&
		c.fromIdle(rec, axisPitch) {
		if v.Pitch > 0 {
			return SignalDown
		}
		return SignalUp
	}

	return SignalNop
}

// fromIdle is the idle/directional-consistency gate. Every record younger
// than the idle window, excluding the newest one, must either have been
// genuinely idle on the candidate axis or already moving in the same
// direction as the motion about to be classified. A sudden turn preceded by
// turning the other way is not a clean gesture start.
func (c *Classifier) fromIdle(rec Record, ax axis) bool {
	current := axisRate(rec.Velocity, ax)
	for i := 1; ; i++ {
		past, ok := c.hist.At(i)
		if !ok {
			break
		}
		if rec.At.Sub(past.At) >= c.cfg.IdleWindow {
			break
		}
		rate := axisRate(past.Velocity, ax)
		if c.belowThreshold(rate, ax) {
			continue
		}
		if rate*current > 0 {
			continue
		}
		return false
	}
	return true
}

// axisRate extracts the rotation rate for the given axis.
func axisRate(v Velocity, ax axis) float64 {
	if ax == axisPitch {
		return v.Pitch
	}
	return v.Yaw
}

// belowThreshold reports whether a rate counts as idle on the given axis.
func (c *Classifier) belowThreshold(rate float64, ax axis) bool {
	if ax == axisPitch {
		return rate < c.cfg.PitchUpRate && rate > c.cfg.PitchDownRate
	}
	return math.Abs(rate) < c.cfg.YawRate
}
