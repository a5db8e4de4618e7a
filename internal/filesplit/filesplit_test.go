package filesplit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refactorlab/rfx/internal/types"
)

func entity(name string, start, end int, idents []string) types.CodeEntity {
	return types.CodeEntity{Name: name, StartLine: start, EndLine: end, Identifiers: idents}
}

func TestPlanSkipsFilesBelowGate(t *testing.T) {
	cfg := DefaultConfig()
	pack := Plan(cfg, "small.go", nil, 50, 500, 0, 0)
	assert.Nil(t, pack)
}

func TestPlanGroupsCohesiveEntities(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinEntitiesPerSplit = 2

	entities := []types.CodeEntity{
		entity("read_file", 1, 50, []string{"path", "buffer", "handle"}),
		entity("write_file", 51, 100, []string{"path", "buffer", "flush"}),
		entity("compute_total", 101, 150, []string{"total", "items", "sum"}),
		entity("compute_average", 151, 200, []string{"total", "items", "count"}),
	}

	pack := Plan(cfg, "pkg/bigfile.go", entities, 1500, 60_000, 3, 2)
	require.NotNil(t, pack)
	assert.Contains(t, pack.Reasons, "exceeds_huge_loc")
	assert.Contains(t, pack.Reasons, "exceeds_huge_bytes")
	assert.NotEmpty(t, pack.SuggestedSplits)
	for _, s := range pack.SuggestedSplits {
		assert.NotEmpty(t, s.Entities)
	}
}

func TestDominantSuffixClassification(t *testing.T) {
	assert.Equal(t, "_io", dominantSuffix([]string{"read_file", "write_buffer", "load_config"}))
	assert.Equal(t, "_api", dominantSuffix([]string{"handle_request", "api_route"}))
	assert.Equal(t, "_util", dominantSuffix([]string{"string_helper", "math_util"}))
	assert.Equal(t, "_core", dominantSuffix([]string{"compute", "process"}))
}

func TestJaccardSimilarity(t *testing.T) {
	a := map[string]bool{"x": true, "y": true}
	b := map[string]bool{"y": true, "z": true}
	assert.InDelta(t, 1.0/3.0, jaccard(a, b), 1e-9)
	assert.Equal(t, 0.0, jaccard(map[string]bool{}, b))
}
