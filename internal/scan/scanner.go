// Package scan enumerates candidate project directories under the
// configured search roots.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fproj/fproj/internal/config"
	"github.com/fproj/fproj/internal/logging"
)

// rootScanLimit bounds the number of roots scanned concurrently.
const rootScanLimit = 4

// Options tunes candidate enumeration.
type Options struct {
	// IncludeHidden keeps directories whose name starts with a dot.
	IncludeHidden bool
}

// Candidates returns the project directories found under roots: for each
// root, the directories exactly root.Depth levels below it. The result is
// sorted lexicographically with duplicates removed, so the enumeration
// order is deterministic regardless of root order or scan scheduling.
// Missing or unreadable roots are skipped.
func Candidates(ctx context.Context, roots []config.Root, opts Options) ([]string, error) {
	results := make([][]string, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rootScanLimit)
	for i, root := range roots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = collect(filepath.Clean(root.Path), root.Depth, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []string
	for _, found := range results {
		all = append(all, found...)
	}
	sort.Strings(all)
	return dedupe(all), nil
}

// collect gathers the directories exactly depth levels below dir.
// Symlinks are not followed; unreadable directories yield nothing.
func collect(dir string, depth int, opts Options) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Debug("skipping unreadable directory %s: %v", dir, err)
		return nil
	}

	var found []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		sub := filepath.Join(dir, name)
		if depth <= 1 {
			found = append(found, sub)
		} else {
			found = append(found, collect(sub, depth-1, opts)...)
		}
	}
	return found
}

// dedupe removes adjacent duplicates from a sorted slice in place.
func dedupe(sorted []string) []string {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
