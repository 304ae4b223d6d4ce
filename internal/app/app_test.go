package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fproj/fproj/internal/config"
	"github.com/fproj/fproj/internal/errors"
	"github.com/fproj/fproj/internal/tmux"
)

type fakeSelector struct {
	selection string
	ok        bool
	err       error
	got       []string
	calls     int
}

func (f *fakeSelector) Select(_ context.Context, candidates []string) (string, bool, error) {
	f.calls++
	f.got = append([]string(nil), candidates...)
	return f.selection, f.ok, f.err
}

type fakeSessions struct {
	existing  map[string]bool
	hasErr    error
	newErr    error
	attachErr error
	switchErr error
	log       []string
}

func (f *fakeSessions) HasSession(_ context.Context, name string) (bool, error) {
	f.log = append(f.log, "has:"+name)
	if f.hasErr != nil {
		return false, f.hasErr
	}
	return f.existing[name], nil
}

func (f *fakeSessions) NewSession(_ context.Context, opts tmux.SessionOpts) error {
	f.log = append(f.log, "new:"+opts.Name+":"+opts.StartDir)
	return f.newErr
}

func (f *fakeSessions) AttachSession(_ context.Context, name string) error {
	f.log = append(f.log, "attach:"+name)
	return f.attachErr
}

func (f *fakeSessions) SwitchClient(_ context.Context, name string) error {
	f.log = append(f.log, "switch:"+name)
	return f.switchErr
}

func testConfig(roots ...config.Root) *config.Config {
	return &config.Config{
		Roots:  roots,
		Finder: config.FinderConfig{Command: "fzf"},
		Tmux:   config.TmuxConfig{Command: "tmux"},
	}
}

func projectDir(t *testing.T, base, name string) string {
	t.Helper()
	dir := filepath.Join(base, name)
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatalf("Mkdir(%s) error = %v", dir, err)
	}
	return dir
}

func TestRunAttachesExistingSession(t *testing.T) {
	t.Setenv("TMUX", "")
	base := t.TempDir()
	dir := projectDir(t, base, "demo")

	sel := &fakeSelector{selection: dir, ok: true}
	sess := &fakeSessions{existing: map[string]bool{"demo": true}}
	a := New(testConfig(config.Root{Path: base, Depth: 1}), sel, sess)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"has:demo", "attach:demo"}
	if !reflect.DeepEqual(sess.log, want) {
		t.Errorf("session calls = %v, want %v", sess.log, want)
	}
}

func TestRunCreatesThenAttaches(t *testing.T) {
	t.Setenv("TMUX", "")
	base := t.TempDir()
	dir := projectDir(t, base, "demo")

	sel := &fakeSelector{selection: dir, ok: true}
	sess := &fakeSessions{}
	a := New(testConfig(config.Root{Path: base, Depth: 1}), sel, sess)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"has:demo", "new:demo:" + dir, "attach:demo"}
	if !reflect.DeepEqual(sess.log, want) {
		t.Errorf("session calls = %v, want %v", sess.log, want)
	}
}

func TestRunSwitchesClientInsideTmux(t *testing.T) {
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
	base := t.TempDir()
	dir := projectDir(t, base, "demo")

	sel := &fakeSelector{selection: dir, ok: true}
	sess := &fakeSessions{existing: map[string]bool{"demo": true}}
	a := New(testConfig(config.Root{Path: base, Depth: 1}), sel, sess)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"has:demo", "switch:demo"}
	if !reflect.DeepEqual(sess.log, want) {
		t.Errorf("session calls = %v, want %v", sess.log, want)
	}
}

func TestRunNoCandidates(t *testing.T) {
	t.Setenv("TMUX", "")
	base := t.TempDir()

	sel := &fakeSelector{}
	sess := &fakeSessions{}
	a := New(testConfig(config.Root{Path: base, Depth: 1}), sel, sess)

	err := a.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want no candidates failure")
	}
	if code := errors.ExitCode(err); code != errors.ExitNoCandidates {
		t.Errorf("ExitCode() = %d, want %d", code, errors.ExitNoCandidates)
	}
	if sel.calls != 0 {
		t.Errorf("selector called %d times, want 0", sel.calls)
	}
	if len(sess.log) != 0 {
		t.Errorf("session calls = %v, want none", sess.log)
	}
}

func TestRunCancelledSelection(t *testing.T) {
	t.Setenv("TMUX", "")
	base := t.TempDir()
	projectDir(t, base, "demo")

	sel := &fakeSelector{ok: false}
	sess := &fakeSessions{}
	a := New(testConfig(config.Root{Path: base, Depth: 1}), sel, sess)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil on cancellation", err)
	}
	if sel.calls != 1 {
		t.Errorf("selector called %d times, want 1", sel.calls)
	}
	if len(sess.log) != 0 {
		t.Errorf("session calls = %v, want none on cancellation", sess.log)
	}
}

func TestRunSelectorFailure(t *testing.T) {
	t.Setenv("TMUX", "")
	base := t.TempDir()
	projectDir(t, base, "demo")

	sel := &fakeSelector{err: fmt.Errorf("finder exploded")}
	sess := &fakeSessions{}
	a := New(testConfig(config.Root{Path: base, Depth: 1}), sel, sess)

	err := a.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want selector failure")
	}
	if code := errors.ExitCode(err); code != errors.ExitExternal {
		t.Errorf("ExitCode() = %d, want %d", code, errors.ExitExternal)
	}
}

func TestRunInvalidSelection(t *testing.T) {
	t.Setenv("TMUX", "")
	base := t.TempDir()
	projectDir(t, base, "demo")

	file := filepath.Join(base, "notes.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name      string
		selection string
	}{
		{"regular file", file},
		{"missing path", filepath.Join(base, "ghost")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := &fakeSelector{selection: tt.selection, ok: true}
			sess := &fakeSessions{}
			a := New(testConfig(config.Root{Path: base, Depth: 1}), sel, sess)

			err := a.Run(context.Background())
			if err == nil {
				t.Fatal("Run() error = nil, want invalid selection")
			}
			if code := errors.ExitCode(err); code != errors.ExitSelection {
				t.Errorf("ExitCode() = %d, want %d", code, errors.ExitSelection)
			}
			if len(sess.log) != 0 {
				t.Errorf("session calls = %v, want none", sess.log)
			}
		})
	}
}

func TestRunPassesCandidatesInOrder(t *testing.T) {
	t.Setenv("TMUX", "")
	base := t.TempDir()
	projectDir(t, base, "charlie")
	alpha := projectDir(t, base, "alpha")
	projectDir(t, base, "bravo")

	sel := &fakeSelector{selection: alpha, ok: true}
	sess := &fakeSessions{existing: map[string]bool{"alpha": true}}
	a := New(testConfig(config.Root{Path: base, Depth: 1}), sel, sess)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{
		filepath.Join(base, "alpha"),
		filepath.Join(base, "bravo"),
		filepath.Join(base, "charlie"),
	}
	if !reflect.DeepEqual(sel.got, want) {
		t.Errorf("selector candidates = %v, want %v", sel.got, want)
	}
}

func TestRunSessionQueryFailure(t *testing.T) {
	t.Setenv("TMUX", "")
	base := t.TempDir()
	dir := projectDir(t, base, "demo")

	sel := &fakeSelector{selection: dir, ok: true}
	sess := &fakeSessions{hasErr: fmt.Errorf("no usable server")}
	a := New(testConfig(config.Root{Path: base, Depth: 1}), sel, sess)

	err := a.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want session query failure")
	}
	if code := errors.ExitCode(err); code != errors.ExitExternal {
		t.Errorf("ExitCode() = %d, want %d", code, errors.ExitExternal)
	}
}

func TestRunCreateFailure(t *testing.T) {
	t.Setenv("TMUX", "")
	base := t.TempDir()
	dir := projectDir(t, base, "demo")

	sel := &fakeSelector{selection: dir, ok: true}
	sess := &fakeSessions{newErr: fmt.Errorf("create failed")}
	a := New(testConfig(config.Root{Path: base, Depth: 1}), sel, sess)

	err := a.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want create failure")
	}
	if code := errors.ExitCode(err); code != errors.ExitExternal {
		t.Errorf("ExitCode() = %d, want %d", code, errors.ExitExternal)
	}
	want := []string{"has:demo", "new:demo:" + dir}
	if !reflect.DeepEqual(sess.log, want) {
		t.Errorf("session calls = %v, want %v", sess.log, want)
	}
}

func TestSessionName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/me/src/demo", "demo"},
		{"/home/me/src/demo/", "demo"},
		{"/home/me/src/my.project", "my_project"},
		{"/srv/web:prod", "web_prod"},
		{"/home/me/src/my app", "my_app"},
		{"/home/me/src/a.b:c d", "a_b_c_d"},
		{"/home/me/src/tab\there", "tab_here"},
		{"relative/proj", "proj"},
		{"/home/me/src/UPPER_case-1", "UPPER_case-1"},
		{"/home/me/src/...", "project"},
		{"/", "project"},
	}

	for _, tt := range tests {
		if got := SessionName(tt.path); got != tt.want {
			t.Errorf("SessionName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
