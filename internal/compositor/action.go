// Package compositor issues directional focus commands to a tiling window
// compositor in response to classified head gestures.
package compositor

import "github.com/ayusman/headtilt/internal/gesture"

// Action is a named directional focus command understood by the compositor
// control channel.
type Action string

const (
	ActionFocusColumnLeft   Action = "focus-column-left"
	ActionFocusColumnRight  Action = "focus-column-right"
	ActionFocusUp           Action = "focus-window-or-workspace-up"
	ActionFocusDown         Action = "focus-window-or-workspace-down"
	ActionFocusMonitorLeft  Action = "focus-monitor-left"
	ActionFocusMonitorRight Action = "focus-monitor-right"
)

var signalActions = map[gesture.Signal]Action{
	gesture.SignalLeftColumn:   ActionFocusColumnLeft,
	gesture.SignalRightColumn:  ActionFocusColumnRight,
	gesture.SignalUp:           ActionFocusUp,
	gesture.SignalDown:         ActionFocusDown,
	gesture.SignalLeftMonitor:  ActionFocusMonitorLeft,
	gesture.SignalRightMonitor: ActionFocusMonitorRight,
}

// ActionFor maps a signal to its focus command. Nop maps to nothing.
func ActionFor(sig gesture.Signal) (Action, bool) {
	a, ok := signalActions[sig]
	return a, ok
}

// Client defines the interface for compositor control channel implementations.
type Client interface {
	Do(action Action) error
}
