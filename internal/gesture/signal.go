package gesture

// Signal is the classified output of the engine: one discrete directional
// gesture, or Nop when the current sample does not look like a gesture apex.
type Signal int

const (
	// SignalNop means no gesture was detected for this sample.
	SignalNop Signal = iota
	// SignalLeftColumn focuses the column to the left.
	SignalLeftColumn
	// SignalRightColumn focuses the column to the right.
	SignalRightColumn
	// SignalUp focuses the window or workspace above.
	SignalUp
	// SignalDown focuses the window or workspace below.
	SignalDown
	// SignalLeftMonitor focuses the monitor to the left.
	SignalLeftMonitor
	// SignalRightMonitor focuses the monitor to the right.
	SignalRightMonitor
)

var signalNames = map[Signal]string{
	SignalNop:          "nop",
	SignalLeftColumn:   "left-column",
	SignalRightColumn:  "right-column",
	SignalUp:           "up",
	SignalDown:         "down",
	SignalLeftMonitor:  "left-monitor",
	SignalRightMonitor: "right-monitor",
}

// String returns the stable lowercase name used in logs and the event store.
func (s Signal) String() string {
	if name, ok := signalNames[s]; ok {
		return name
	}
	return "unknown"
}

// Axis returns which rotation axis produced the signal ("yaw", "pitch"),
// or an empty string for Nop.
func (s Signal) Axis() string {
	switch s {
	case SignalLeftColumn, SignalRightColumn, SignalLeftMonitor, SignalRightMonitor:
		return "yaw"
	case SignalUp, SignalDown:
		return "pitch"
	}
	return ""
}
