package directory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGiniEqualDistributionIsZero(t *testing.T) {
	assert.Equal(t, 0.0, giniCoefficient([]int{10, 10, 10, 10}))
}

func TestGiniEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, giniCoefficient(nil))
	assert.InDelta(t, 0.0, giniCoefficient([]int{}), 1e-9)
}

func TestGiniInRange(t *testing.T) {
	g := giniCoefficient([]int{1, 1, 1, 100})
	assert.GreaterOrEqual(t, g, 0.0)
	assert.LessOrEqual(t, g, 1.0)
}

func TestEntropyEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, shannonEntropy(nil))
}

func TestEntropyUniformIsLnN(t *testing.T) {
	h := shannonEntropy([]int{10, 10, 10, 10})
	assert.InDelta(t, math.Log(4), h, 1e-9)
}

func TestReorganizationGateScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxFilesPerDir = 4
	cfg.MaxDirLOC = 90

	files := []FileStat{{Path: "a.go", LOC: 100}, {Path: "b.go", LOC: 2}, {Path: "c.go", LOC: 2}, {Path: "d.go", LOC: 2}, {Path: "e.go", LOC: 2}, {Path: "f.go", LOC: 2}}
	m := ComputeMetrics(cfg, "pkg", files, 0)

	assert.True(t, cfg.NeedsReorganization(m), "imbalance=%v files=%v loc=%v", m.Imbalance, m.Files, m.TotalLOC)

	noImports := func(string) []string { return nil }
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	plan := Bipartition(cfg, "pkg", paths, noImports)
	assert.NotEmpty(t, plan.Partitions)
	seen := make(map[string]bool)
	for _, p := range plan.Partitions {
		assert.NotEmpty(t, p.Files)
		for _, f := range p.Files {
			assert.False(t, seen[f], "file %s assigned to more than one partition", f)
			seen[f] = true
		}
	}
	assert.Equal(t, len(paths), len(seen))
}

func TestBipartitionFilesAreDisjointAndCovering(t *testing.T) {
	cfg := DefaultConfig()
	files := []string{"pkg/a.go", "pkg/b.go", "pkg/c.go", "pkg/d.go", "pkg/e.go"}
	imports := map[string][]string{
		"pkg/a.go": {"pkg/b"},
		"pkg/b.go": {"pkg/a"},
	}
	source := func(f string) []string { return imports[f] }

	plan := Bipartition(cfg, "pkg", files, source)
	seen := make(map[string]bool)
	for _, p := range plan.Partitions {
		for _, f := range p.Files {
			assert.False(t, seen[f])
			seen[f] = true
		}
	}
	for _, f := range files {
		assert.True(t, seen[f])
	}
}
