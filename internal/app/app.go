// Package app wires the pick flow together: enumerate candidate projects,
// hand them to the selector, and land the user in a session rooted at the
// chosen directory.
package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fproj/fproj/internal/config"
	"github.com/fproj/fproj/internal/constants"
	"github.com/fproj/fproj/internal/errors"
	"github.com/fproj/fproj/internal/logging"
	"github.com/fproj/fproj/internal/scan"
	"github.com/fproj/fproj/internal/tmux"
)

// Selector picks one candidate from many. ok is false when the user
// dismissed the selector without choosing, which ends the run cleanly.
type Selector interface {
	Select(ctx context.Context, candidates []string) (selection string, ok bool, err error)
}

// SessionManager is the multiplexer surface the pick flow needs. Sessions
// are never tracked by fproj; every run queries the multiplexer again.
type SessionManager interface {
	HasSession(ctx context.Context, name string) (bool, error)
	NewSession(ctx context.Context, opts tmux.SessionOpts) error
	AttachSession(ctx context.Context, name string) error
	SwitchClient(ctx context.Context, name string) error
}

// App holds the pick flow's dependencies.
type App struct {
	Config   *config.Config
	Selector Selector
	Sessions SessionManager
}

// New creates an App from its dependencies.
func New(cfg *config.Config, selector Selector, sessions SessionManager) *App {
	return &App{Config: cfg, Selector: selector, Sessions: sessions}
}

// Run executes one pick flow. Cancelling the selector is a normal outcome
// and returns nil without touching any session.
func (a *App) Run(ctx context.Context) error {
	timer := logging.StartTimer("pick")

	opts := scan.Options{IncludeHidden: a.Config.Scan.IncludeHidden}
	candidates, err := scan.Candidates(ctx, a.Config.Roots, opts)
	if err != nil {
		timer.StopWithResult(false, err.Error())
		return err
	}
	logging.Info("found %d candidates under %d roots", len(candidates), len(a.Config.Roots))
	if len(candidates) == 0 {
		timer.StopWithResult(false, "no candidates")
		return errors.NoCandidatesFound(a.Config.RootPaths())
	}

	selection, ok, err := a.Selector.Select(ctx, candidates)
	if err != nil {
		timer.StopWithResult(false, err.Error())
		return errors.ExternalCommandFailed(a.Config.Finder.Command, err)
	}
	if !ok {
		logging.Info("selection cancelled")
		timer.StopWithResult(true, "cancelled")
		return nil
	}

	info, err := os.Stat(selection)
	if err != nil {
		timer.StopWithResult(false, "selection vanished")
		return errors.InvalidSelection(selection, err)
	}
	if !info.IsDir() {
		timer.StopWithResult(false, "selection not a directory")
		return errors.InvalidSelection(selection, nil)
	}

	name := SessionName(selection)
	logging.Info("selected %s, session %s", selection, name)
	if err := a.launch(ctx, name, selection); err != nil {
		timer.StopWithResult(false, err.Error())
		return err
	}
	timer.StopWithResult(true, name)
	return nil
}

// launch lands the user in the named session, creating it first when
// missing. Creation is detached so the subsequent attach works the same
// for new and existing sessions. Inside tmux, attaching would nest, so
// the client is switched instead.
func (a *App) launch(ctx context.Context, name, dir string) error {
	exists, err := a.Sessions.HasSession(ctx, name)
	if err != nil {
		return errors.ExternalCommandFailed(a.Config.Tmux.Command, err)
	}
	if !exists {
		if err := a.Sessions.NewSession(ctx, tmux.SessionOpts{Name: name, StartDir: dir}); err != nil {
			return errors.ExternalCommandFailed(a.Config.Tmux.Command, err)
		}
		logging.Info("created session %s in %s", name, dir)
	}

	if tmux.InsideSession() {
		if err := a.Sessions.SwitchClient(ctx, name); err != nil {
			return errors.ExternalCommandFailed(a.Config.Tmux.Command, err)
		}
		return nil
	}
	if err := a.Sessions.AttachSession(ctx, name); err != nil {
		return errors.ExternalCommandFailed(a.Config.Tmux.Command, err)
	}
	return nil
}

// SessionName derives the session name from a selected directory: its
// final path component, with every ".", ":" and whitespace rune replaced
// by "_" (tmux target syntax reserves "." and ":"). A name that comes out
// empty or as underscores only falls back to a fixed default.
func SessionName(path string) string {
	base := filepath.Base(filepath.Clean(path))

	var b strings.Builder
	b.Grow(len(base))
	for _, r := range base {
		switch {
		case r == '.' || r == ':' || unicode.IsSpace(r):
			b.WriteRune('_')
		case r == filepath.Separator:
			// Only filepath.Base("/") keeps a separator.
		default:
			b.WriteRune(r)
		}
	}

	name := b.String()
	if strings.Trim(name, "_") == "" {
		return constants.SessionNameFallback
	}
	return name
}
