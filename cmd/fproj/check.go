package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fproj/fproj/internal/config"
	"github.com/fproj/fproj/internal/scan"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check dependencies and configuration",
	Long:  "Verify that the finder and tmux are installed and that the configured search roots exist.",
	RunE:  runCheck,
}

// checkResult holds the result of a single dependency check.
type checkResult struct {
	name     string
	ok       bool
	message  string
	required bool
}

// runCheck runs all dependency checks and prints the results.
func runCheck(cmd *cobra.Command, args []string) error {
	closeLog := setupLogging("check")
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("fproj Dependency Check")
	fmt.Println("======================")
	fmt.Println()

	results := []checkResult{
		checkFinder(cfg.Finder.Command),
		checkTmux(cfg.Tmux.Command),
		checkConfigFile(),
	}
	for _, root := range cfg.Roots {
		results = append(results, checkRoot(cmd.Context(), root, cfg.Scan.IncludeHidden))
	}

	// Print results
	hasErrors := false
	for _, r := range results {
		printResult(r)
		if r.required && !r.ok {
			hasErrors = true
		}
	}

	fmt.Println()
	if hasErrors {
		fmt.Println("❌ Some required dependencies are missing. Please install them before using fproj.")
		return fmt.Errorf("required dependencies missing")
	}
	fmt.Println("✅ All required dependencies are available.")
	return nil
}

// printResult prints a single check result with appropriate formatting.
func printResult(r checkResult) {
	var icon string
	if r.ok {
		icon = "✅"
	} else if r.required {
		icon = "❌"
	} else {
		icon = "⚠️ "
	}

	optionalSuffix := ""
	if !r.required && !r.ok {
		optionalSuffix = " (optional)"
	}

	fmt.Printf("%s %s: %s%s\n", icon, r.name, r.message, optionalSuffix)
}

// checkFinder verifies the configured fuzzy finder is installed.
func checkFinder(command string) checkResult {
	result := checkResult{name: command, required: true}

	if _, err := exec.LookPath(command); err != nil {
		result.ok = false
		result.message = "not installed - install it or change finder.command"
		return result
	}

	result.ok = true
	result.message = "installed"
	if version := probeVersion(command, "--version"); version != "" {
		result.message = fmt.Sprintf("installed (%s)", version)
	}
	return result
}

// checkTmux verifies tmux is installed and returns its version.
func checkTmux(command string) checkResult {
	result := checkResult{name: command, required: true}

	output, err := exec.Command(command, "-V").Output()
	if err != nil {
		result.ok = false
		result.message = "not installed"
		return result
	}

	version := strings.TrimSpace(string(output))
	version = strings.TrimPrefix(version, "tmux ")
	result.ok = true
	result.message = fmt.Sprintf("installed (v%s)", version)
	return result
}

// checkConfigFile reports which config file is in effect, if any.
func checkConfigFile() checkResult {
	result := checkResult{name: "config", required: false}

	if used := viper.ConfigFileUsed(); used != "" {
		result.ok = true
		result.message = used
		return result
	}

	result.ok = false
	result.message = fmt.Sprintf("not found at %s - run 'fproj init' to create one", config.ConfigFile())
	return result
}

// checkRoot reports whether a search root exists and how many candidates it
// currently yields.
func checkRoot(ctx context.Context, root config.Root, includeHidden bool) checkResult {
	result := checkResult{name: fmt.Sprintf("root %s", root.Path), required: false}

	info, err := os.Stat(root.Path)
	if err != nil {
		result.ok = false
		result.message = "missing"
		return result
	}
	if !info.IsDir() {
		result.ok = false
		result.message = "not a directory"
		return result
	}

	candidates, err := scan.Candidates(ctx, []config.Root{root}, scan.Options{IncludeHidden: includeHidden})
	if err != nil {
		result.ok = false
		result.message = fmt.Sprintf("scan failed: %v", err)
		return result
	}

	result.ok = true
	result.message = fmt.Sprintf("%d candidates (depth %d)", len(candidates), root.Depth)
	return result
}

// probeVersion runs a best-effort version query and returns the first field
// of the first output line, or "" when the probe fails.
func probeVersion(command string, arg string) string {
	output, err := exec.Command(command, arg).Output()
	if err != nil {
		return ""
	}

	line := strings.TrimSpace(string(output))
	if idx := strings.Index(line, "\n"); idx != -1 {
		line = line[:idx]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
