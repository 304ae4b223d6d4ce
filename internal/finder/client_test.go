package finder

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestSelectReturnsChoice(t *testing.T) {
	fake := &fakeRunner{t: t, specs: []cmdSpec{
		{name: "fzf", args: []string{"--height", "40%"}, stdout: "/home/me/src/alpha\n"},
	}}
	c := &Client{name: "fzf", bin: "fzf", args: []string{"--height", "40%"}, run: fake.run}

	got, ok, err := c.Select(context.Background(), []string{"/home/me/src/alpha", "/home/me/src/beta"})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !ok {
		t.Fatal("Select() ok = false, want true")
	}
	if got != "/home/me/src/alpha" {
		t.Errorf("Select() = %q, want %q", got, "/home/me/src/alpha")
	}
	fake.assertDone()
}

func TestSelectPipesCandidates(t *testing.T) {
	fake := &fakeRunner{t: t, specs: []cmdSpec{
		{name: "fzf", echoFirst: true},
	}}
	c := &Client{name: "fzf", bin: "fzf", run: fake.run}

	candidates := []string{"/p/one", "/p/two", "/p/three"}
	got, ok, err := c.Select(context.Background(), candidates)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !ok {
		t.Fatal("Select() ok = false, want true")
	}
	if got != "/p/one" {
		t.Errorf("Select() = %q, want first candidate %q", got, "/p/one")
	}
	fake.assertDone()
}

func TestSelectCancelled(t *testing.T) {
	tests := []struct {
		name string
		exit int
	}{
		{"no match", 1},
		{"interrupted", 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRunner{t: t, specs: []cmdSpec{
				{name: "fzf", exit: tt.exit},
			}}
			c := &Client{name: "fzf", bin: "fzf", run: fake.run}

			got, ok, err := c.Select(context.Background(), []string{"/p/one"})
			if err != nil {
				t.Fatalf("Select() error = %v, want nil on cancellation", err)
			}
			if ok {
				t.Error("Select() ok = true, want false on cancellation")
			}
			if got != "" {
				t.Errorf("Select() = %q, want empty", got)
			}
			fake.assertDone()
		})
	}
}

func TestSelectEmptyOutput(t *testing.T) {
	fake := &fakeRunner{t: t, specs: []cmdSpec{
		{name: "fzf", stdout: ""},
	}}
	c := &Client{name: "fzf", bin: "fzf", run: fake.run}

	_, ok, err := c.Select(context.Background(), []string{"/p/one"})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if ok {
		t.Error("Select() ok = true, want false for empty output")
	}
	fake.assertDone()
}

func TestSelectFinderFailure(t *testing.T) {
	fake := &fakeRunner{t: t, specs: []cmdSpec{
		{name: "fzf", exit: 2},
	}}
	c := &Client{name: "fzf", bin: "fzf", run: fake.run}

	_, ok, err := c.Select(context.Background(), []string{"/p/one"})
	if err == nil {
		t.Fatal("Select() error = nil, want failure for exit code 2")
	}
	if ok {
		t.Error("Select() ok = true, want false")
	}
	if !strings.Contains(err.Error(), "fzf") {
		t.Errorf("Select() error = %v, want finder name in message", err)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Errorf("Select() error = %v, want wrapped ExitError", err)
	}
	fake.assertDone()
}

func TestSelectNoCandidates(t *testing.T) {
	fake := &fakeRunner{t: t}
	c := &Client{name: "fzf", bin: "fzf", run: fake.run}

	got, ok, err := c.Select(context.Background(), nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if ok || got != "" {
		t.Errorf("Select() = %q, %v, want empty and false", got, ok)
	}
	fake.assertDone()
}

func TestSelectTrimsSelection(t *testing.T) {
	fake := &fakeRunner{t: t, specs: []cmdSpec{
		{name: "fzf", stdout: "  /p/one  \n/p/ignored\n"},
	}}
	c := &Client{name: "fzf", bin: "fzf", run: fake.run}

	got, ok, err := c.Select(context.Background(), []string{"/p/one"})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !ok {
		t.Fatal("Select() ok = false, want true")
	}
	if got != "/p/one" {
		t.Errorf("Select() = %q, want %q", got, "/p/one")
	}
	fake.assertDone()
}

func TestNewMissingBinary(t *testing.T) {
	_, err := New("definitely-not-a-finder-binary", nil)
	if err == nil {
		t.Fatal("New() error = nil, want lookup failure")
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("New() error = %v, want exec.ErrNotFound in chain", err)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"\n", ""},
		{"one\n", "one"},
		{"one\ntwo\n", "one"},
		{"  padded  \nrest", "padded"},
		{"no newline", "no newline"},
	}

	for _, tt := range tests {
		if got := firstLine(tt.input); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
