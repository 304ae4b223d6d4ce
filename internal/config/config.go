// Package config defines the fproj configuration model and loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/fproj/fproj/internal/constants"
	"github.com/fproj/fproj/internal/embed"
)

// Root is a search root scanned for project directories. Depth is how many
// levels below Path the project directories live; 1 means the immediate
// subdirectories of Path.
type Root struct {
	Path  string `mapstructure:"path"`
	Depth int    `mapstructure:"depth"`
}

// FinderConfig selects the external fuzzy finder.
type FinderConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// TmuxConfig selects the terminal multiplexer.
type TmuxConfig struct {
	Command string `mapstructure:"command"`
}

// ScanConfig tunes candidate enumeration.
type ScanConfig struct {
	IncludeHidden bool `mapstructure:"include_hidden"`
}

// Config is the root configuration object.
type Config struct {
	Roots  []Root       `mapstructure:"roots"`
	Finder FinderConfig `mapstructure:"finder"`
	Tmux   TmuxConfig   `mapstructure:"tmux"`
	Scan   ScanConfig   `mapstructure:"scan"`
}

// Default returns a configuration with default values.
func Default() *Config {
	cfg := &Config{
		Roots:  DefaultRoots(),
		Finder: FinderConfig{Command: constants.DefaultFinderCommand},
		Tmux:   TmuxConfig{Command: constants.DefaultTmuxCommand},
	}
	cfg.normalize()
	return cfg
}

// DefaultRoots returns the fallback search roots used when nothing
// configures any root.
func DefaultRoots() []Root {
	return []Root{{Path: constants.DefaultRootPath, Depth: constants.DefaultRootDepth}}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	viper.SetDefault("finder.command", constants.DefaultFinderCommand)
	viper.SetDefault("finder.args", []string{})
	viper.SetDefault("tmux.command", constants.DefaultTmuxCommand)
	viper.SetDefault("scan.include_hidden", false)
}

// Load builds the configuration from viper's current state. Roots from the
// FPROJ_ROOTS environment variable take precedence over the config file;
// viper's AutomaticEnv cannot express a list of structs, so that variable
// is parsed here. When nothing configures any root the default applies.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if env := os.Getenv(constants.RootsEnv); env != "" {
		roots, err := ParseRootList(env)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", constants.RootsEnv, err)
		}
		cfg.Roots = roots
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize fills empty fields with defaults, expands root paths, and
// drops blank root entries. A root without an explicit depth scans the
// immediate subdirectories.
func (c *Config) normalize() {
	if c.Finder.Command == "" {
		c.Finder.Command = constants.DefaultFinderCommand
	}
	if c.Tmux.Command == "" {
		c.Tmux.Command = constants.DefaultTmuxCommand
	}

	roots := make([]Root, 0, len(c.Roots))
	for _, r := range c.Roots {
		if strings.TrimSpace(r.Path) == "" {
			continue
		}
		if r.Depth == 0 {
			r.Depth = 1
		}
		r.Path = ExpandPath(r.Path)
		roots = append(roots, r)
	}
	if len(roots) == 0 {
		for _, r := range DefaultRoots() {
			r.Path = ExpandPath(r.Path)
			roots = append(roots, r)
		}
	}
	c.Roots = roots
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Finder.Command == "" {
		return fmt.Errorf("finder.command must not be empty")
	}
	if c.Tmux.Command == "" {
		return fmt.Errorf("tmux.command must not be empty")
	}
	for _, r := range c.Roots {
		if r.Depth < 1 {
			return fmt.Errorf("root %q: depth must be at least 1, got %d", r.Path, r.Depth)
		}
	}
	return nil
}

// RootPaths returns just the configured root paths, for display.
func (c *Config) RootPaths() []string {
	paths := make([]string, 0, len(c.Roots))
	for _, r := range c.Roots {
		paths = append(paths, r.Path)
	}
	return paths
}

// ExpandPath expands environment variables and a leading ~ in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ParseRootSpec parses a single "path" or "path:depth" root specification.
// A trailing :N sets the depth; anything else is part of the path and the
// depth defaults to 1.
func ParseRootSpec(spec string) (Root, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Root{}, fmt.Errorf("empty root spec")
	}
	path := spec
	depth := 1
	if idx := strings.LastIndex(spec, ":"); idx > 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(spec[idx+1:])); err == nil {
			path = spec[:idx]
			depth = n
		}
	}
	if depth < 1 {
		return Root{}, fmt.Errorf("root %q: depth must be at least 1", spec)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Root{}, fmt.Errorf("root %q: empty path", spec)
	}
	return Root{Path: ExpandPath(path), Depth: depth}, nil
}

// ParseRootList parses a comma-separated list of root specifications.
func ParseRootList(list string) ([]Root, error) {
	var roots []Root
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		root, err := ParseRootSpec(part)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no root specs in %q", list)
	}
	return roots, nil
}

// ConfigDir returns the directory fproj reads its configuration from,
// honoring XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.ConfigDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", constants.ConfigDirName)
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), constants.ConfigFileName)
}

// WriteDefaultFile writes a commented starter config with the given
// primary root, creating parent directories as needed.
func WriteDefaultFile(path string, root Root) error {
	template, err := embed.ConfigTemplate()
	if err != nil {
		return fmt.Errorf("failed to load config template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	content := fmt.Sprintf(template, root.Path, root.Depth)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
