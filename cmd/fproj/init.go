package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fproj/fproj/internal/config"
	"github.com/fproj/fproj/internal/tui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	Long: `Write a commented starter config file. On an interactive terminal a short
wizard asks for the primary search root and its depth; otherwise the
defaults are written as-is.`,
	RunE: runInit,
}

var forceInit bool

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	closeLog := setupLogging("init")
	defer closeLog()

	path := config.ConfigFile()
	if cfgFile != "" {
		path = cfgFile
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	root := config.DefaultRoots()[0]
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		result, err := tui.RunSetupWizard()
		if err != nil {
			return fmt.Errorf("setup wizard failed: %w", err)
		}
		if result.Cancelled {
			fmt.Println("Setup cancelled.")
			return nil
		}
		root = result.Root
	}

	if err := config.WriteDefaultFile(path, root); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
