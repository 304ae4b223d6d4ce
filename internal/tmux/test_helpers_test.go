package tmux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"strconv"
	"testing"
)

type cmdSpec struct {
	name   string
	args   []string
	stderr string
	exit   int
}

type fakeRunner struct {
	t     *testing.T
	specs []cmdSpec
	idx   int
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) *exec.Cmd {
	f.t.Helper()
	if f.idx >= len(f.specs) {
		f.t.Fatalf("unexpected command: %s %v", name, args)
	}
	spec := f.specs[f.idx]
	f.idx++
	if spec.name != name {
		f.t.Fatalf("command name = %q, want %q", name, spec.name)
	}
	if !reflect.DeepEqual(args, spec.args) {
		f.t.Fatalf("command args = %#v, want %#v", args, spec.args)
	}
	return helperCmd(ctx, spec.stderr, spec.exit)
}

func (f *fakeRunner) assertDone() {
	if f.idx != len(f.specs) {
		f.t.Fatalf("not all commands consumed: %d of %d", f.idx, len(f.specs))
	}
}

func helperCmd(ctx context.Context, stderr string, exit int) *exec.Cmd {
	cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
	cmd.Env = append(os.Environ(),
		"GO_WANT_HELPER_PROCESS=1",
		"TMUX_HELPER_STDERR="+stderr,
		"TMUX_HELPER_EXIT="+strconv.Itoa(exit),
	)
	return cmd
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if stderr := os.Getenv("TMUX_HELPER_STDERR"); stderr != "" {
		_, _ = fmt.Fprint(os.Stderr, stderr)
	}
	exitCode := 0
	if raw := os.Getenv("TMUX_HELPER_EXIT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			exitCode = parsed
		}
	}
	os.Exit(exitCode)
}
