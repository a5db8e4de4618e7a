package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscoverFiltersByExtensionAndSkipsDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main")
	writeFile(t, filepath.Join(root, "README.md"), "# hi")
	writeFile(t, filepath.Join(root, "vendor", "lib.go"), "package lib")
	writeFile(t, filepath.Join(root, ".git", "config.go"), "package git")

	files, truncated, err := discover(root, []string{".go"}, []string{"vendor"}, 100)
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "main.go"), files[0])
}

func TestDiscoverTruncatesAtMaxFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.go", "b.go", "c.go"} {
		writeFile(t, filepath.Join(root, name), "package p")
	}

	files, truncated, err := discover(root, []string{".go"}, nil, 2)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Len(t, files, 2)
}

func TestDiscoverMatchesGlobSkipPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "gen", "thing.go"), "package gen")
	writeFile(t, filepath.Join(root, "pkg", "real.go"), "package pkg")

	files, _, err := discover(root, []string{".go"}, []string{"gen*"}, 100)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "pkg", "real.go"), files[0])
}
