package compositor

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// niriActionNames maps focus commands to the niri IPC action variants.
var niriActionNames = map[Action]string{
	ActionFocusColumnLeft:   "FocusColumnLeft",
	ActionFocusColumnRight:  "FocusColumnRight",
	ActionFocusUp:           "FocusWindowOrWorkspaceUp",
	ActionFocusDown:         "FocusWindowOrWorkspaceDown",
	ActionFocusMonitorLeft:  "FocusMonitorLeft",
	ActionFocusMonitorRight: "FocusMonitorRight",
}

// DefaultNiriTimeout bounds one IPC round trip. Focus commands are cheap;
// a compositor that takes longer than this is not going to respond at all.
const DefaultNiriTimeout = 2 * time.Second

// NiriClient issues focus actions over the niri IPC unix socket. Each command
// opens a fresh connection, sends one single-line JSON request and reads one
// reply; signals are rare enough that connection reuse buys nothing.
type NiriClient struct {
	socketPath string
	timeout    time.Duration
}

// NewNiriClient creates a client for the given socket path. An empty path
// falls back to the NIRI_SOCKET environment variable, which niri sets for
// its session.
func NewNiriClient(socketPath string) *NiriClient {
	return &NiriClient{
		socketPath: socketPath,
		timeout:    DefaultNiriTimeout,
	}
}

// Do sends one focus action and waits for the compositor's reply.
func (c *NiriClient) Do(action Action) error {
	name, ok := niriActionNames[action]
	if !ok {
		return fmt.Errorf("compositor: unknown action %q", action)
	}

	path := c.socketPath
	if path == "" {
		path = os.Getenv("NIRI_SOCKET")
	}
	if path == "" {
		return errors.New("compositor: NIRI_SOCKET is not set")
	}

	conn, err := net.DialTimeout("unix", path, c.timeout)
	if err != nil {
		return fmt.Errorf("compositor: connect to niri: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	request := map[string]map[string]struct{}{
		"Action": {name: {}},
	}
	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("compositor: encode request: %w", err)
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("compositor: send request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return fmt.Errorf("compositor: read reply: %w", err)
	}

	var reply map[string]json.RawMessage
	if err := json.Unmarshal(line, &reply); err != nil {
		return fmt.Errorf("compositor: parse reply: %w", err)
	}
	if msg, ok := reply["Err"]; ok {
		return fmt.Errorf("compositor: niri rejected %s: %s", action, msg)
	}
	return nil
}
