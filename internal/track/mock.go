package track

import (
	"sync"

	"github.com/ayusman/headtilt/internal/gesture"
)

// MockSource plays back a pre-recorded sample sequence for testing. Unlike
// the UDP listener it delivers every sample, blocking until the consumer
// drains the channel, so tests stay deterministic.
type MockSource struct {
	samples []gesture.Sample
	mu      sync.Mutex
	open    bool
	done    chan struct{}
}

// NewMockSource creates a MockSource over the given samples.
func NewMockSource(samples []gesture.Sample) *MockSource {
	return &MockSource{
		samples: samples,
		done:    make(chan struct{}),
	}
}

func (m *MockSource) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	return nil
}

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		m.open = false
		close(m.done)
	}
	return nil
}

// Run delivers every sample in order, then returns.
func (m *MockSource) Run(out chan<- gesture.Sample) error {
	for _, s := range m.samples {
		select {
		case out <- s:
		case <-m.done:
			return nil
		}
	}
	return nil
}

// SetSamples replaces the playback sequence.
func (m *MockSource) SetSamples(samples []gesture.Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = samples
}
