// Package app provides the main application logic for the headtilt daemon:
// it wires the sensor stream, the gesture classifier and the compositor
// dispatcher into one pipeline.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ayusman/headtilt/internal/compositor"
	"github.com/ayusman/headtilt/internal/gesture"
	"github.com/ayusman/headtilt/internal/store"
	"github.com/ayusman/headtilt/internal/track"
)

// settingEnabled is the settings key persisting the detection toggle.
const settingEnabled = "enabled"

// Config holds configuration options for the application.
type Config struct {
	Store  *store.Store
	Source track.Source
	Client compositor.Client
	Engine gesture.Config

	// Dispatcher debounce; zero values fall back to the dispatcher defaults.
	MinInterval    time.Duration
	RepeatInterval time.Duration
}

// App orchestrates the ingestion, classification and dispatch stages.
type App struct {
	config     Config
	source     track.Source
	classifier *gesture.Classifier
	dispatcher *compositor.Dispatcher

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	done    chan struct{}

	onSample func(gesture.Record)
	onSignal func(gesture.Signal, gesture.Record)
}

// New creates a new App instance with the given configuration. The detection
// toggle is restored from the settings table when a store is configured.
func New(config Config) (*App, error) {
	if config.Source == nil {
		return nil, errors.New("app: no sensor source configured")
	}
	if config.Client == nil {
		return nil, errors.New("app: no compositor client configured")
	}

	a := &App{
		config:     config,
		source:     config.Source,
		classifier: gesture.NewClassifier(config.Engine),
		dispatcher: compositor.NewDispatcher(config.Client, config.MinInterval, config.RepeatInterval),
		enabled:    true,
	}

	if config.Store != nil {
		if v, err := config.Store.Settings().Get(settingEnabled); err == nil {
			a.enabled = v != "false"
		}
	}

	return a, nil
}

// SetEnabled enables or disables gesture detection and persists the choice.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if a.config.Store != nil {
		value := "true"
		if !enabled {
			value = "false"
		}
		if err := a.config.Store.Settings().Set(settingEnabled, value); err != nil {
			log.Printf("app: persist enabled state: %v", err)
		}
	}
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnSample registers a callback invoked for every accepted sample. Used by
// the live feed; must be set before Start.
func (a *App) OnSample(fn func(gesture.Record)) {
	a.onSample = fn
}

// OnSignal registers a callback invoked for every emitted signal. Used by
// the tray and the live feed; must be set before Start.
func (a *App) OnSignal(fn func(gesture.Signal, gesture.Record)) {
	a.onSignal = fn
}

// Classifier returns the engine, for status reporting.
func (a *App) Classifier() *gesture.Classifier {
	return a.classifier
}

// Start opens the sensor source and launches the pipeline goroutines.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.source.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline()

	log.Println("app: pipeline started")
	return nil
}

// Stop halts the pipeline and releases the sensor source. It blocks until
// every stage has drained.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	done := a.done
	a.stopCh = nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	if err := a.source.Close(); err != nil {
		log.Printf("app: close source: %v", err)
	}
	<-done

	log.Println("app: pipeline stopped")
}

// Wait blocks until the pipeline has ended, either through Stop or because
// the sensor source was exhausted.
func (a *App) Wait() {
	a.mu.RLock()
	done := a.done
	a.mu.RUnlock()

	if done != nil {
		<-done
	}
}
