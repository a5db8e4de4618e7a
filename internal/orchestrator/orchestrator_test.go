package orchestrator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refactorlab/rfx/internal/config"
	"github.com/refactorlab/rfx/internal/langadapter"
	"github.com/refactorlab/rfx/internal/rfxlog"
	"github.com/refactorlab/rfx/internal/types"
)

// fakeAdapter produces one function entity per file, sized off its line
// count, so Run exercises every downstream stage without a real grammar.
type fakeAdapter struct{}

func (fakeAdapter) Language() string     { return "fake" }
func (fakeAdapter) Extensions() []string { return []string{".fk"} }

func (fakeAdapter) ParseSource(path string, content []byte) (*types.ParseIndex, error) {
	lines := 1
	for _, b := range content {
		if b == '\n' {
			lines++
		}
	}
	entity := types.CodeEntity{
		ID:          1,
		Name:        filepath.Base(path),
		Kind:        types.EntityKindFunction,
		Language:    "fake",
		StartLine:   1,
		EndLine:     lines,
		Identifiers: []string{"x", "y"},
		Calls:       []string{"doThing"},
		BlockCount:  2,
	}
	return &types.ParseIndex{
		Path:           path,
		Language:       "fake",
		Entities:       []types.CodeEntity{entity},
		RawImportLines: []string{"\"fmt\""},
		TotalLOC:       lines,
	}, nil
}

func (fakeAdapter) ExtractCodeEntities(path string, content []byte) ([]types.CodeEntity, error) {
	idx, _ := fakeAdapter{}.ParseSource(path, content)
	return idx.Entities, nil
}

func (fakeAdapter) ExtractFunctionCalls(e *types.CodeEntity, content []byte) ([]string, error) {
	return e.Calls, nil
}

func (fakeAdapter) ExtractIdentifiers(e *types.CodeEntity, content []byte) ([]string, error) {
	return e.Identifiers, nil
}

func (fakeAdapter) CountDistinctBlocks(e *types.CodeEntity, content []byte) (int, error) {
	return e.BlockCount, nil
}

func (fakeAdapter) ExtractImports(path string, content []byte) ([]langadapter.ImportStatement, error) {
	return nil, nil
}

func newFakeRegistry() *langadapter.Registry {
	reg := langadapter.NewRegistry()
	reg.Register(fakeAdapter{})
	return reg
}

func TestRunProducesHealthAndScoring(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.fk"), "line1\nline2\nline3\nline4\n")
	writeFile(t, filepath.Join(root, "b.fk"), "line1\n")

	cfg := config.DefaultAnalysisConfig()
	cfg.Pipeline.FileExtensions = []string{".fk"}

	orch := New(root, cfg, newFakeRegistry(), rfxlog.Discard())
	summary, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesDiscovered)
	assert.Equal(t, 2, summary.FilesAnalyzed)
	assert.Len(t, summary.ScoringResults, 2)
	assert.GreaterOrEqual(t, summary.Health.OverallHealth, 0.0)
	assert.LessOrEqual(t, summary.Health.OverallHealth, 100.0)
	assert.NotEmpty(t, summary.Directories)
	require.NotNil(t, summary.StopMotifs)
}

func TestRunReportsDiscoveryTruncation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.fk"), "x\n")
	writeFile(t, filepath.Join(root, "b.fk"), "y\n")

	cfg := config.DefaultAnalysisConfig()
	cfg.Pipeline.FileExtensions = []string{".fk"}
	cfg.Pipeline.MaxFiles = 1

	orch := New(root, cfg, newFakeRegistry(), rfxlog.Discard())
	summary, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.Truncated)
	assert.Equal(t, 1, summary.FilesDiscovered)
	assert.NotEmpty(t, summary.Warnings)
}
