package importgraph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	lengths map[string]int
	imports map[string][]string
}

func (f *fakeSource) ContentLength(path string) (int, bool) {
	l, ok := f.lengths[path]
	return l, ok
}

func (f *fakeSource) RawImports(path string) []string {
	return f.imports[path]
}

func TestPartitionRespectsTokenBudget(t *testing.T) {
	source := &fakeSource{lengths: make(map[string]int), imports: make(map[string][]string)}
	var files []string
	for i := 0; i < 100; i++ {
		p := fmt.Sprintf("pkg/file_%03d.go", i)
		files = append(files, p)
		source.lengths[p] = 2000 * 4 // 2000 tokens at ~4 bytes/token
	}

	cfg := DefaultConfig()
	cfg.SliceTokenBudget = 50_000
	cfg.OverlapFraction = 0.15
	cfg.MaxFilesPerSlice = 1000

	p := NewPartitioner(cfg)
	result, err := p.Partition(files, source)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, slice := range result.Slices {
		assert.LessOrEqual(t, slice.TokenCount, 57_500)
		for _, f := range slice.Files {
			seen[f] = true
		}
	}
	for _, f := range files {
		assert.True(t, seen[f], "file %s must be covered by some slice", f)
	}
}

func TestResolveImportPrefixFallback(t *testing.T) {
	m := moduleMap{"a.b.c": "src/c.py"}
	resolved, ok := resolveImport("a.b.c.d", "src/caller.py", m)
	require.True(t, ok)
	assert.Equal(t, "src/c.py", resolved)

	_, ok = resolveImport("x.y.z", "src/caller.py", m)
	assert.False(t, ok)
}

func TestTarjanSCCFindsCycle(t *testing.T) {
	source := &fakeSource{
		lengths: map[string]int{"a.go": 400, "b.go": 400, "c.go": 400},
		imports: map[string][]string{"a.go": {"b"}, "b.go": {"c"}, "c.go": {"a"}},
	}
	p := NewPartitioner(DefaultConfig())
	result, err := p.Partition([]string{"a.go", "b.go", "c.go"}, source)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Stats.LargestSCC)
	assert.Equal(t, 1, result.Stats.SCCCount)
}
