// Package constants defines shared constants used throughout fproj.
package constants

import "time"

// Application identity
const (
	AppName = "fproj"
)

// External binaries
const (
	DefaultFinderCommand = "fzf"
	DefaultTmuxCommand   = "tmux"
)

// Search root defaults
const (
	DefaultRootPath  = "~/src"
	DefaultRootDepth = 2
)

// Session naming
const (
	// SessionNameFallback is used when the selected path's base name
	// sanitizes to an empty string.
	SessionNameFallback = "project"
)

// Command timeouts. Interactive commands (the finder, attach-session)
// never carry a timeout; these apply to short queries only.
const (
	TmuxCommandTimeout = 10 * time.Second
)

// Configuration locations
const (
	ConfigDirName  = "fproj"
	ConfigFileName = "config.yaml"
)

// Environment variables
const (
	EnvPrefix  = "FPROJ"
	DebugEnv   = "FPROJ_DEBUG"
	LogFileEnv = "FPROJ_LOG_FILE"
	RootsEnv   = "FPROJ_ROOTS"
)
