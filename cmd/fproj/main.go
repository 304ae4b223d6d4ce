// Package main provides the entry point for the fproj CLI.
package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fproj/fproj/internal/app"
	"github.com/fproj/fproj/internal/config"
	"github.com/fproj/fproj/internal/constants"
	"github.com/fproj/fproj/internal/errors"
	"github.com/fproj/fproj/internal/finder"
	"github.com/fproj/fproj/internal/logging"
	"github.com/fproj/fproj/internal/tmux"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"
	// Commit is the git commit hash, set at build time via ldflags
	Commit = "unknown"
)

// versionCommitMap records the release commit for tagged versions. It is
// consulted when the binary was built without vcs metadata, for example via
// go install from the module proxy.
var versionCommitMap = map[string]string{}

func main() {
	if info, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(info)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(errors.ExitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "fproj",
	Short: "Jump into a project's tmux session",
	Long: `fproj scans your configured search roots for project directories, lets you
pick one with a fuzzy finder, and attaches a tmux session rooted there,
creating the session first when it does not exist yet.`,
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	showVersion    bool
	cfgFile        string
	rootOverrides  []string
	finderOverride string
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/fproj/config.yaml)")
	rootCmd.PersistentFlags().StringArrayVar(&rootOverrides, "root", nil, "search root as path[:depth], repeatable; replaces configured roots")

	rootCmd.Flags().StringVar(&finderOverride, "finder", "", "finder command to use instead of the configured one")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Print version information")
}

// initConfig primes viper before any command runs: defaults, the config
// file, and FPROJ_* environment overrides.
func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(constants.EnvPrefix)
	// Replace dots with underscores for nested keys in env vars
	// e.g., FPROJ_FINDER_COMMAND for finder.command
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// checkVersionFlag checks if -v flag was passed and prints version if so
func checkVersionFlag() bool {
	if showVersion {
		printVersion()
		return true
	}
	return false
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion()
	},
}

// printVersion prints the version and commit information
func printVersion() {
	fmt.Printf("fproj %s (%s)\n", Version, Commit)
}

// applyBuildInfo fills Version and Commit from the module build info when
// they were not set via ldflags. go install embeds the module version but,
// unlike a local git build, no vcs.revision setting; versionCommitMap covers
// that gap for tagged releases.
func applyBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	if Commit == "unknown" {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				Commit = shortRevision(setting.Value)
				return
			}
		}
		if rev, ok := versionCommitMap[Version]; ok {
			Commit = shortRevision(rev)
		}
	}
}

// shortRevision truncates a commit hash to the familiar 7 characters.
func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// runRoot is the main entry point: enumerate projects, let the user pick
// one, and attach or create its tmux session.
func runRoot(cmd *cobra.Command, args []string) error {
	if checkVersionFlag() {
		return nil
	}

	closeLog := setupLogging("root")
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Both the finder UI and tmux attach need a real terminal.
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.CategoryRuntime, "fproj needs an interactive terminal").
			WithSuggestion("run fproj from a terminal, or use 'fproj list' when scripting")
	}

	sel, err := finder.New(cfg.Finder.Command, cfg.Finder.Args)
	if err != nil {
		return errors.DependencyMissing(cfg.Finder.Command, err)
	}

	sessions, err := tmux.New(cfg.Tmux.Command)
	if err != nil {
		return errors.DependencyMissing(cfg.Tmux.Command, err)
	}

	return app.New(cfg, sel, sessions).Run(cmd.Context())
}

// loadConfig resolves the effective configuration from viper state plus
// command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if len(rootOverrides) > 0 {
		roots := make([]config.Root, 0, len(rootOverrides))
		for _, spec := range rootOverrides {
			root, err := config.ParseRootSpec(spec)
			if err != nil {
				return nil, fmt.Errorf("invalid --root value: %w", err)
			}
			roots = append(roots, root)
		}
		cfg.Roots = roots
	}

	if finderOverride != "" {
		cfg.Finder.Command = finderOverride
	}

	return cfg, nil
}

// setupLogging installs the global logger and returns a cleanup func. Logs
// go to the file named by FPROJ_LOG_FILE when set; otherwise a stdout
// logger is used so only warnings and errors reach the terminal.
func setupLogging(command string) func() {
	debugMode := os.Getenv(constants.DebugEnv) == "1"

	if path := os.Getenv(constants.LogFileEnv); path != "" {
		logger, err := logging.New(path, debugMode)
		if err == nil {
			logger.SetCommand(command)
			logging.SetGlobal(logger)
			return func() { _ = logger.Close() }
		}
		logging.Warn("could not open log file %s: %v", path, err)
	}

	logger := logging.NewStdout(debugMode)
	logger.SetCommand(command)
	logging.SetGlobal(logger)
	return func() {}
}
