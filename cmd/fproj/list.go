package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fproj/fproj/internal/errors"
	"github.com/fproj/fproj/internal/scan"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the project directories fproj would offer",
	Long: `Enumerate the configured search roots and print every candidate project
directory, one per line, without invoking the finder or tmux. Useful for
scripting and for checking what a root actually contains.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	closeLog := setupLogging("list")
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	candidates, err := scan.Candidates(cmd.Context(), cfg.Roots, scan.Options{IncludeHidden: cfg.Scan.IncludeHidden})
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		return errors.NoCandidatesFound(cfg.RootPaths())
	}

	for _, candidate := range candidates {
		fmt.Println(candidate)
	}
	return nil
}
