package orchestrator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// discover walks root depth-first, keeping files whose extension is in
// extensions and skipping any directory named in skipDirs, truncating at
// maxFiles. Grounded on the teacher's FileScanner
// (internal/indexing/pipeline_types.go): doublestar-pattern matching plus
// an extension allowlist, but simplified to a single depth-first walk
// since the pipeline here doesn't need the teacher's include/exclude glob
// layering, only a flat extension+skip-dir filter.
func discover(root string, extensions []string, skipDirs []string, maxFiles int) (files []string, truncated bool, err error) {
	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[e] = true
	}

	matchesSkip := func(name string) bool {
		for _, pattern := range skipDirs {
			if !strings.ContainsAny(pattern, "*?[") {
				if name == pattern {
					return true
				}
				continue
			}
			if ok, _ := doublestar.Match(pattern, name); ok {
				return true
			}
		}
		return false
	}

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			return nil // unreadable directory: skip, don't fail the whole run
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, entry := range entries {
			if truncated {
				return nil
			}
			name := entry.Name()
			full := filepath.Join(dir, name)
			if entry.IsDir() {
				if matchesSkip(name) || strings.HasPrefix(name, ".") {
					continue
				}
				if walkErr := walk(full); walkErr != nil {
					return walkErr
				}
				continue
			}
			if !extSet[filepath.Ext(name)] {
				continue
			}
			if len(files) >= maxFiles {
				truncated = true
				return nil
			}
			files = append(files, full)
		}
		return nil
	}

	if walkErr := walk(root); walkErr != nil {
		return nil, false, walkErr
	}
	return files, truncated, nil
}
