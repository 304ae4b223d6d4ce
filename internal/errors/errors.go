// Package errors provides the CLI error taxonomy and exit-code mapping.
package errors

import (
	"fmt"
	"strings"
)

// Category represents the type of error for consistent formatting
type Category int

const (
	// CategoryRuntime indicates a generic operational failure
	CategoryRuntime Category = iota
	// CategoryNoCandidates indicates enumeration produced no projects
	CategoryNoCandidates
	// CategoryDependency indicates a required external binary is missing
	CategoryDependency
	// CategoryExternal indicates an external command failed
	CategoryExternal
	// CategorySelection indicates the selected path is unusable
	CategorySelection
)

// Process exit codes. 0 covers both a successful launch and a user
// cancelling the finder.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitNoCandidates = 2
	ExitDependency   = 3
	ExitExternal     = 4
	ExitSelection    = 5
)

// CLIError represents an error with additional context for CLI display
type CLIError struct {
	Category   Category
	Message    string
	Suggestion string // Optional hint for how to fix the error
	Cause      error  // Wrapped error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError
func New(category Category, message string) *CLIError {
	return &CLIError{
		Category: category,
		Message:  message,
	}
}

// Wrap wraps an existing error with CLI context
func Wrap(category Category, message string, cause error) *CLIError {
	return &CLIError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// Format returns a user-friendly formatted error message
func Format(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	// Check if it's a CLIError
	if cliErr, ok := err.(*CLIError); ok {
		// Add category prefix
		prefix := categoryPrefix(cliErr.Category)
		sb.WriteString(prefix)
		sb.WriteString(cliErr.Message)

		// Add cause if present
		if cliErr.Cause != nil {
			sb.WriteString(": ")
			sb.WriteString(cliErr.Cause.Error())
		}

		// Add suggestion if present
		if cliErr.Suggestion != "" {
			sb.WriteString("\n\nTry: ")
			sb.WriteString(cliErr.Suggestion)
		}
	} else {
		// Regular error - format with generic prefix
		sb.WriteString("Error: ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

// ExitCode maps an error to the process exit code. Cancellation is not an
// error, so callers pass nil for it and get ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	for e := err; e != nil; {
		if cliErr, ok := e.(*CLIError); ok {
			return exitCodeFor(cliErr.Category)
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return ExitFailure
}

func exitCodeFor(cat Category) int {
	switch cat {
	case CategoryNoCandidates:
		return ExitNoCandidates
	case CategoryDependency:
		return ExitDependency
	case CategoryExternal:
		return ExitExternal
	case CategorySelection:
		return ExitSelection
	default:
		return ExitFailure
	}
}

// categoryPrefix returns the prefix for each error category
func categoryPrefix(cat Category) string {
	switch cat {
	case CategoryNoCandidates:
		return "Error: "
	case CategoryDependency:
		return "Dependency error: "
	case CategoryExternal:
		return "Command error: "
	case CategorySelection:
		return "Invalid selection: "
	default:
		return "Error: "
	}
}

// Common error constructors for frequently used patterns

// NoCandidatesFound creates an error for an empty enumeration result
func NoCandidatesFound(roots []string) *CLIError {
	message := "no project directories found"
	if len(roots) > 0 {
		message = fmt.Sprintf("no project directories found under %s", strings.Join(roots, ", "))
	}
	return &CLIError{
		Category:   CategoryNoCandidates,
		Message:    message,
		Suggestion: "adjust the search roots in your config file, or pass --root <dir>",
	}
}

// DependencyMissing creates an error for a missing external binary
func DependencyMissing(binary string, cause error) *CLIError {
	return &CLIError{
		Category:   CategoryDependency,
		Message:    fmt.Sprintf("'%s' binary not found in PATH", binary),
		Cause:      cause,
		Suggestion: dependencySuggestion(binary),
	}
}

// dependencySuggestion provides install hints for the known binaries
func dependencySuggestion(binary string) string {
	switch binary {
	case "fzf":
		return "install fzf: https://github.com/junegunn/fzf"
	case "tmux":
		return "install tmux with your package manager"
	default:
		return fmt.Sprintf("install '%s' or point the config at a different binary", binary)
	}
}

// ExternalCommandFailed creates an error for an external command failure
func ExternalCommandFailed(name string, cause error) *CLIError {
	return &CLIError{
		Category:   CategoryExternal,
		Message:    fmt.Sprintf("%s failed", name),
		Cause:      cause,
		Suggestion: externalSuggestion(cause),
	}
}

// externalSuggestion provides specific suggestions based on the child's output
func externalSuggestion(cause error) string {
	if cause == nil {
		return ""
	}
	errMsg := cause.Error()

	// Session name collision with different casing or stale server state
	if strings.Contains(errMsg, "duplicate session") {
		return "a tmux session with this name already exists; kill it with: tmux kill-session -t <session-name>"
	}

	// tmux server unreachable
	if strings.Contains(errMsg, "no server running") || strings.Contains(errMsg, "error connecting") {
		return "the tmux server is not reachable; try: tmux kill-server"
	}

	return ""
}

// InvalidSelection creates an error for a selection that no longer points
// at a usable directory
func InvalidSelection(path string, cause error) *CLIError {
	return &CLIError{
		Category:   CategorySelection,
		Message:    fmt.Sprintf("selected path %q is not a directory", path),
		Cause:      cause,
		Suggestion: "the directory may have been moved or deleted; run the picker again",
	}
}
