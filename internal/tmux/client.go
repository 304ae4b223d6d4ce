// Package tmux provides an interface for interacting with tmux.
package tmux

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/fproj/fproj/internal/constants"
	"github.com/fproj/fproj/internal/logging"
)

// bufferPool reuses bytes.Buffer instances to reduce allocations when
// capturing command stderr.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// Client defines the interface for tmux operations.
type Client interface {
	// HasSession reports whether a session with the given name exists.
	HasSession(ctx context.Context, name string) (bool, error)

	// NewSession creates a detached session.
	NewSession(ctx context.Context, opts SessionOpts) error

	// AttachSession attaches the current terminal to a session.
	AttachSession(ctx context.Context, name string) error

	// SwitchClient switches the current tmux client to another session.
	SwitchClient(ctx context.Context, name string) error
}

// SessionOpts contains options for creating a new session.
type SessionOpts struct {
	Name     string
	StartDir string
}

// tmuxClient implements the Client interface.
type tmuxClient struct {
	bin string
	run func(ctx context.Context, name string, args ...string) *exec.Cmd
}

var _ Client = (*tmuxClient)(nil)

// New resolves the tmux binary and returns a Client.
func New(command string) (Client, error) {
	bin, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", command, err)
	}
	return &tmuxClient{bin: bin, run: exec.CommandContext}, nil
}

// InsideSession reports whether the current process already runs inside a
// tmux session. Attaching nested sessions fails, so callers switch the
// client instead.
func InsideSession() bool {
	return os.Getenv("TMUX") != ""
}

// runQuiet runs a short non-interactive tmux command under the command
// timeout, capturing stderr for error reporting.
func (c *tmuxClient) runQuiet(ctx context.Context, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.TmuxCommandTimeout)
	defer cancel()

	cmd := c.run(ctx, c.bin, args...)

	stderr := bufferPool.Get().(*bytes.Buffer)
	stderr.Reset()
	defer bufferPool.Put(stderr)
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("tmux command timeout: %w", err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func (c *tmuxClient) HasSession(ctx context.Context, name string) (bool, error) {
	logging.Trace("tmux.HasSession: name=%s", name)
	ctx, cancel := context.WithTimeout(ctx, constants.TmuxCommandTimeout)
	defer cancel()

	cmd := c.run(ctx, c.bin, "has-session", "-t", name)

	stderr := bufferPool.Get().(*bytes.Buffer)
	stderr.Reset()
	defer bufferPool.Put(stderr)
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		// Exit code 1 means the session (or the whole server) does not
		// exist. Both answer the question with "no".
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return false, nil
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return false, fmt.Errorf("tmux has-session: %w: %s", err, msg)
		}
		return false, fmt.Errorf("tmux has-session: %w", err)
	}
	return true, nil
}

func (c *tmuxClient) NewSession(ctx context.Context, opts SessionOpts) error {
	logging.Debug("creating session %s in %s", opts.Name, opts.StartDir)
	args := []string{"new-session", "-d", "-s", opts.Name}
	if opts.StartDir != "" {
		args = append(args, "-c", opts.StartDir)
	}
	if err := c.runQuiet(ctx, args...); err != nil {
		return fmt.Errorf("tmux new-session: %w", err)
	}
	return nil
}

// AttachSession hands the terminal to tmux. The command inherits the
// process's standard streams and runs without a timeout; it returns when
// the user detaches or the session ends.
func (c *tmuxClient) AttachSession(ctx context.Context, name string) error {
	logging.Debug("attaching to session %s", name)
	cmd := c.run(ctx, c.bin, "attach-session", "-t", name)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tmux attach-session: %w", err)
	}
	return nil
}

func (c *tmuxClient) SwitchClient(ctx context.Context, name string) error {
	logging.Debug("switching client to session %s", name)
	if err := c.runQuiet(ctx, "switch-client", "-t", name); err != nil {
		return fmt.Errorf("tmux switch-client: %w", err)
	}
	return nil
}
