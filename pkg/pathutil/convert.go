// Package pathutil provides utilities for converting between absolute and relative paths.
//
// Architecture Pattern:
// rfx's pipeline uses absolute paths internally for consistency and to avoid
// ambiguity. However, user-facing output should use relative paths for
// readability and portability. This package provides the conversion layer
// between internal (absolute) and external (relative) representations.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
//   - ToRelative("src/main.go", "/home/user/project") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}

	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// ToRelativeEach applies ToRelative to every path returned by get, and
// passes the relativized path to set, for any slice of report entries that
// carry an absolute file path. The CLI's text output uses it for directory
// reports so printed paths stay portable across machines and checkouts.
func ToRelativeEach[T any](items []T, rootDir string, get func(T) string, set func(*T, string)) {
	for i := range items {
		set(&items[i], ToRelative(get(items[i]), rootDir))
	}
}
