package motifcache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFunctions() []FunctionInfo {
	src := `if x > 0 {
	result = compute(x)
	println(result)
}`
	var fns []FunctionInfo
	for i := 0; i < 12; i++ {
		fns = append(fns, FunctionInfo{
			ID: "fn" + string(rune('a'+i)), FilePath: "pkg/file.go",
			SourceCode: src, LineCount: 4,
			Calls: []string{"compute", "println"},
		})
	}
	return fns
}

func TestMineSelectsTopPercentilePatterns(t *testing.T) {
	miner := NewMiner(DefaultPolicy())
	result, err := miner.Mine(sampleFunctions())
	require.NoError(t, err)
	assert.Equal(t, 12, result.MiningStats.FunctionsProcessed)
	assert.Greater(t, result.MiningStats.PatternsSelected, 0)
	for _, entry := range result.TokenGrams {
		assert.Equal(t, CategoryTokenGram, entry.Category)
		assert.Equal(t, DefaultPolicy().WeightMultiplier, entry.WeightMultiplier)
	}
}

func TestSaveLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, DefaultPolicy())

	cached := &StopMotifCache{
		Version:           1,
		KGramSize:         4,
		CodebaseSignature: "abc123",
		LastUpdated:       time.Now().Unix(),
		TokenGrams:        []StopMotifEntry{{Pattern: "if x >", Support: 5, Category: CategoryTokenGram}},
	}
	require.NoError(t, c.Save(cached))

	loaded, ok, err := c.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cached.CodebaseSignature, loaded.CodebaseSignature)
	assert.Len(t, loaded.TokenGrams, 1)

	assert.FileExists(t, filepath.Join(dir, "stop_motifs.v1.json"))
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	c := NewCache(t.TempDir(), DefaultPolicy())
	loaded, ok, err := c.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, loaded)
}

func TestIsValidAgeAndDrift(t *testing.T) {
	policy := DefaultPolicy()
	now := time.Now()
	fresh := &StopMotifCache{CodebaseSignature: "sig-a", LastUpdated: now.Add(-time.Hour).Unix()}
	assert.True(t, policy.IsValid(fresh, "sig-a", 0, now))

	stale := &StopMotifCache{CodebaseSignature: "sig-a", LastUpdated: now.AddDate(0, 0, -30).Unix()}
	assert.False(t, policy.IsValid(stale, "sig-a", 0, now))

	drifted := &StopMotifCache{CodebaseSignature: "sig-a", LastUpdated: now.Add(-time.Hour).Unix()}
	assert.True(t, policy.IsValid(drifted, "sig-b", 5.0, now))
	assert.False(t, policy.IsValid(drifted, "sig-b", 50.0, now))
}

func TestComputeSignatureStableUnderFileOrder(t *testing.T) {
	a := []FunctionInfo{{FilePath: "b.go", LineCount: 10, SourceCode: "x"}, {FilePath: "a.go", LineCount: 5, SourceCode: "y"}}
	b := []FunctionInfo{{FilePath: "a.go", LineCount: 5, SourceCode: "y"}, {FilePath: "b.go", LineCount: 10, SourceCode: "x"}}
	assert.Equal(t, ComputeSignature(a), ComputeSignature(b))
}
