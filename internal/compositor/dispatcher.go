package compositor

import (
	"log"
	"time"

	"github.com/ayusman/headtilt/internal/gesture"
)

// Dispatch timing constants.
const (
	// DefaultMinInterval is the minimum gap between any two issued commands,
	// protecting the compositor from command flooding. It is independent of
	// the classifier's own idle gate.
	DefaultMinInterval = 300 * time.Millisecond
	// DefaultRepeatInterval is the minimum gap before the same signal is
	// issued again. A sustained turn classifies on many consecutive samples;
	// this collapses the burst into one focus change.
	DefaultRepeatInterval = 800 * time.Millisecond
)

// Dispatcher consumes signals in emission order, applies debounce and issues
// the mapped focus command. Not safe for concurrent use; the pipeline runs
// one dispatcher on a single goroutine.
type Dispatcher struct {
	client         Client
	minInterval    time.Duration
	repeatInterval time.Duration

	last       time.Time
	lastSignal gesture.Signal
}

// NewDispatcher creates a Dispatcher over the given control channel client.
// Non-positive intervals fall back to their defaults.
func NewDispatcher(client Client, minInterval, repeatInterval time.Duration) *Dispatcher {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	if repeatInterval <= 0 {
		repeatInterval = DefaultRepeatInterval
	}
	return &Dispatcher{
		client:         client,
		minInterval:    minInterval,
		repeatInterval: repeatInterval,
	}
}

// Run processes signals until the channel is closed. A closed channel means
// the classifier stage is gone and the pipeline cannot make progress.
func (d *Dispatcher) Run(signals <-chan gesture.Signal) {
	for sig := range signals {
		d.Dispatch(sig)
	}
}

// Dispatch issues one signal, subject to debounce. It reports whether a
// command was actually sent to the compositor.
func (d *Dispatcher) Dispatch(sig gesture.Signal) bool {
	return d.dispatchAt(sig, time.Now())
}

func (d *Dispatcher) dispatchAt(sig gesture.Signal, now time.Time) bool {
	action, ok := ActionFor(sig)
	if !ok {
		return false
	}

	if !d.last.IsZero() {
		since := now.Sub(d.last)
		if sig == d.lastSignal && since < d.repeatInterval {
			return false
		}
		if since < d.minInterval {
			return false
		}
	}

	d.last = now
	d.lastSignal = sig

	if err := d.client.Do(action); err != nil {
		// The compositor owns its failure modes; a rejected or lost command
		// is logged and the stream continues.
		log.Printf("compositor: dispatch %s: %v", action, err)
		return false
	}
	log.Printf("compositor: %s", action)
	return true
}
