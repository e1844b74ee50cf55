package app

import (
	"log"

	"github.com/ayusman/headtilt/internal/compositor"
	"github.com/ayusman/headtilt/internal/gesture"
	"github.com/ayusman/headtilt/internal/store"
	"github.com/google/uuid"
)

// runPipeline runs the three-stage pipeline until the source ends or Stop is
// called. The two hand-off channels each hold a single slot: the ingestion
// side sheds samples on backpressure, while signals are rare enough that the
// classifier may block on the dispatcher.
func (a *App) runPipeline() {
	defer close(a.done)

	samples := make(chan gesture.Sample, 1)
	signals := make(chan gesture.Signal, 1)

	sourceDone := make(chan struct{})
	go func() {
		defer close(sourceDone)
		defer close(samples)
		if err := a.source.Run(samples); err != nil {
			log.Printf("app: source ended: %v", err)
		}
	}()

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		a.dispatcher.Run(signals)
	}()

	for {
		select {
		case <-a.stopChan():
			// Drain and shut the downstream stage; the source is closed by
			// Stop and unblocks on its own.
			close(signals)
			<-dispatcherDone
			return
		case s, ok := <-samples:
			if !ok {
				// Source exhausted: the pipeline cannot make progress, wind
				// down cleanly.
				close(signals)
				<-dispatcherDone
				return
			}
			a.process(s, signals)
		}
	}
}

// stopChan returns the current stop channel, or a nil channel (blocking
// forever) when the pipeline is not running.
func (a *App) stopChan() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh
}

// process feeds one sample through the classifier and forwards any signal.
func (a *App) process(s gesture.Sample, signals chan<- gesture.Signal) {
	if !a.IsEnabled() {
		return
	}

	sig, rec, accepted := a.classifier.Process(s)
	if !accepted {
		return
	}

	if a.onSample != nil {
		a.onSample(rec)
	}

	if sig == gesture.SignalNop {
		return
	}

	log.Printf("app: %s (rate %.1f deg/s)", sig, axisRate(sig, rec))
	a.recordEvent(sig, rec)
	if a.onSignal != nil {
		a.onSignal(sig, rec)
	}

	signals <- sig
}

// recordEvent appends the signal to the event log.
func (a *App) recordEvent(sig gesture.Signal, rec gesture.Record) {
	if a.config.Store == nil {
		return
	}

	err := a.config.Store.Events().Create(&store.Event{
		ID:     uuid.NewString(),
		Signal: sig.String(),
		Axis:   sig.Axis(),
		Rate:   axisRate(sig, rec),
	})
	if err != nil {
		log.Printf("app: record event: %v", err)
	}
}

// axisRate picks the velocity component that produced the signal.
func axisRate(sig gesture.Signal, rec gesture.Record) float64 {
	if sig.Axis() == "pitch" {
		return rec.Velocity.Pitch
	}
	return rec.Velocity.Yaw
}

// Dispatcher exposes the dispatcher for status reporting.
func (a *App) Dispatcher() *compositor.Dispatcher {
	return a.dispatcher
}
