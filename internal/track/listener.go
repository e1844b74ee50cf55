package track

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/headtilt/internal/gesture"
)

// Source defines the interface for sensor stream implementations.
type Source interface {
	Open() error
	Close() error
	// Run reads the stream and offers samples to out until the source is
	// closed or exhausted. It never blocks on a full channel: the pipeline
	// prefers losing a stale frame over adding latency.
	Run(out chan<- gesture.Sample) error
}

// ErrNotOpen is returned when running a listener that has not been opened.
var ErrNotOpen = errors.New("track: listener is not open")

// Listener reads opentrack datagrams from a UDP port.
type Listener struct {
	port    int
	conn    *net.UDPConn
	mu      sync.Mutex
	drops   atomic.Uint64
	invalid atomic.Uint64
}

// NewListener creates a Listener for the given UDP port. Port 0 binds an
// ephemeral port, which tests use.
func NewListener(port int) *Listener {
	return &Listener{port: port}
}

// Open binds the UDP socket.
func (l *Listener) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		return nil
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: l.port})
	if err != nil {
		return fmt.Errorf("track: listen on port %d: %w", l.port, err)
	}
	l.conn = conn
	return nil
}

// Close shuts the socket down, unblocking Run.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}
	err := l.conn.Close()
	l.conn = nil
	return err
}

// Addr returns the bound address, or nil before Open.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// Run reads datagrams until the listener is closed. Malformed packets are
// logged and discarded; valid samples are offered to out without blocking.
func (l *Listener) Run(out chan<- gesture.Sample) error {
	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()

	if conn == nil {
		return ErrNotOpen
	}

	buf := make([]byte, 1024)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("track: read error: %v", err)
			continue
		}

		pose, err := Decode(buf[:n])
		if err != nil {
			l.invalid.Add(1)
			log.Printf("track: discarding datagram (%d bytes): %v", n, err)
			continue
		}

		if !offer(out, gesture.Sample{Pose: pose, At: time.Now()}) {
			// The classifier has not drained the previous sample yet.
			// Gesture classification cares about the shape of motion over
			// hundreds of milliseconds, not any single frame.
			l.drops.Add(1)
		}
	}
}

// Drops returns how many samples were shed on backpressure.
func (l *Listener) Drops() uint64 {
	return l.drops.Load()
}

// Invalid returns how many datagrams failed validation.
func (l *Listener) Invalid() uint64 {
	return l.invalid.Load()
}

// offer is the single-slot, non-blocking hand-off into the classifier stage.
func offer(out chan<- gesture.Sample, s gesture.Sample) bool {
	select {
	case out <- s:
		return true
	default:
		return false
	}
}
