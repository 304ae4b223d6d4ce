// Package finder pipes candidates to an external fuzzy finder and reads
// the selection back.
package finder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/fproj/fproj/internal/logging"
)

// Cancellation exit codes of fzf-compatible finders: 1 means no match,
// 130 means interrupted (Ctrl-C or Esc). Both end the run without a
// selection and without an error.
const (
	exitNoMatch     = 1
	exitInterrupted = 130
)

// Client runs the configured finder binary.
type Client struct {
	name string
	bin  string
	args []string
	run  func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New resolves the finder binary and returns a Client.
func New(command string, args []string) (*Client, error) {
	bin, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", command, err)
	}
	return &Client{name: command, bin: bin, args: args, run: exec.CommandContext}, nil
}

// Select presents candidates to the finder, one per line, and returns the
// chosen one. ok is false when the user dismissed the finder without
// choosing; that is a normal outcome, not an error. The finder's UI is
// drawn on stderr, which stays connected to the terminal.
func (c *Client) Select(ctx context.Context, candidates []string) (string, bool, error) {
	if len(candidates) == 0 {
		return "", false, nil
	}

	timer := logging.StartTimer(c.name)

	cmd := c.run(ctx, c.bin, c.args...)
	cmd.Stdin = strings.NewReader(strings.Join(candidates, "\n") + "\n")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	logging.Debug("running %s with %d candidates", c.name, len(candidates))
	if err := cmd.Run(); err != nil {
		if cancelled(err) {
			timer.StopWithResult(true, "cancelled")
			return "", false, nil
		}
		timer.StopWithResult(false, err.Error())
		return "", false, fmt.Errorf("%s: %w", c.name, err)
	}

	selection := firstLine(stdout.String())
	if selection == "" {
		timer.StopWithResult(true, "empty selection")
		return "", false, nil
	}
	timer.StopWithResult(true, selection)
	return selection, true, nil
}

// cancelled reports whether err is the finder signalling a dismissal
// rather than a failure.
func cancelled(err error) bool {
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return false
	}
	code := exitErr.ExitCode()
	return code == exitNoMatch || code == exitInterrupted
}

// firstLine returns the first line of s with surrounding space removed.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
