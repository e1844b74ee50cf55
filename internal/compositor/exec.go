package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultExecTimeout bounds one command invocation.
const DefaultExecTimeout = 5 * time.Second

// ExecClient issues focus actions by running an external command with the
// action name appended, e.g. `niri msg action focus-column-left` or a user
// script. It exists for compositors without a control socket this daemon
// speaks natively.
type ExecClient struct {
	command []string
	timeout time.Duration
}

// NewExecClient creates a client around the given command and arguments.
func NewExecClient(command []string) (*ExecClient, error) {
	if len(command) == 0 {
		return nil, errors.New("compositor: exec command is empty")
	}
	return &ExecClient{
		command: command,
		timeout: DefaultExecTimeout,
	}, nil
}

// Do runs the configured command for one action.
func (c *ExecClient) Do(action Action) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	args := append(append([]string{}, c.command[1:]...), string(action))
	cmd := exec.CommandContext(ctx, c.command[0], args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("compositor: %s timed out after %s", c.command[0], c.timeout)
	}
	if err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("compositor: %s failed: %w, stderr: %s", c.command[0], err, stderr.String())
		}
		return fmt.Errorf("compositor: %s failed: %w", c.command[0], err)
	}
	return nil
}
