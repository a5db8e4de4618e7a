// Package orchestrator implements the Analysis Pipeline Orchestrator (C9):
// it drives file discovery and every downstream component (C1 through C8)
// through a staged pipeline, most of whose stages are toggled by config
// flags, and aggregates their
// output into one AnalysisSummary.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/refactorlab/rfx/internal/bayesian"
	"github.com/refactorlab/rfx/internal/config"
	"github.com/refactorlab/rfx/internal/directory"
	rfxerrors "github.com/refactorlab/rfx/internal/errors"
	"github.com/refactorlab/rfx/internal/featureset"
	"github.com/refactorlab/rfx/internal/filesplit"
	"github.com/refactorlab/rfx/internal/importgraph"
	"github.com/refactorlab/rfx/internal/langadapter"
	"github.com/refactorlab/rfx/internal/motifcache"
	"github.com/refactorlab/rfx/internal/rfxlog"
	"github.com/refactorlab/rfx/internal/scoring"
	"github.com/refactorlab/rfx/internal/types"
)

// Orchestrator runs the full analysis pipeline over one project root.
type Orchestrator struct {
	root     string
	cfg      config.AnalysisConfig
	registry *langadapter.Registry
	log      *rfxlog.Logger
}

// New builds an Orchestrator rooted at root, using the given analysis
// config and language adapter registry. A nil logger falls back to
// rfxlog.Discard.
func New(root string, cfg config.AnalysisConfig, registry *langadapter.Registry, log *rfxlog.Logger) *Orchestrator {
	if log == nil {
		log = rfxlog.Discard()
	}
	return &Orchestrator{root: root, cfg: cfg, registry: registry, log: log}
}

// parsedFile is the per-file intermediate state threaded between stages.
type parsedFile struct {
	path    string
	content []byte
	index   *types.ParseIndex
}

// HealthMetrics is the pipeline's final 0-100 health rollup.
type HealthMetrics struct {
	Maintainability  float64
	StructureQuality float64
	Complexity       float64
	TechnicalDebt    float64
	OverallHealth    float64
}

// overallHealth implements spec.md's health formula:
// clamp(0,100, 0.3*maintainability + 0.3*structure_quality +
// 0.2*(100-complexity) + 0.2*(100-technical_debt)).
func overallHealth(maintainability, structureQuality, complexity, technicalDebt float64) float64 {
	v := 0.3*maintainability + 0.3*structureQuality + 0.2*(100-complexity) + 0.2*(100-technicalDebt)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// DirectoryReport pairs one directory's health metrics with its
// reorganization plan, when the gate trips.
type DirectoryReport struct {
	Path    string
	Metrics *directory.Metrics
	Reorg   *directory.ReorgPlan
}

// AnalysisSummary is the orchestrator's full output: every component's
// findings for one run, plus bookkeeping about what was skipped.
type AnalysisSummary struct {
	FilesDiscovered int
	FilesAnalyzed   int
	Truncated       bool
	Warnings        []string

	ScoringResults []*scoring.Result
	Partitions     *importgraph.Result
	Directories    []DirectoryReport
	SplitPlans     []*filesplit.SplitPack
	StopMotifs     *motifcache.StopMotifCache

	Health HealthMetrics
}

// Run executes the full pipeline: discovery, per-file parsing, feature
// extraction, normalization, scoring, partitioning, directory analysis,
// file-split planning, and stop-motif mining. Directory analysis, scoring,
// partitioning and stop-motif mining are gated by cfg.Pipeline's enable
// flags; parsing, feature extraction, file-split planning and the health
// rollup always run.
func (o *Orchestrator) Run(ctx context.Context) (*AnalysisSummary, error) {
	paths, truncated, err := discover(o.root, o.cfg.Pipeline.FileExtensions, o.cfg.Pipeline.ExcludeDirectories, o.cfg.Pipeline.MaxFiles)
	if err != nil {
		return nil, rfxerrors.NewPipelineError("discovery", err)
	}

	summary := &AnalysisSummary{FilesDiscovered: len(paths), Truncated: truncated}
	if truncated {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("file discovery truncated at max_files=%d", o.cfg.Pipeline.MaxFiles))
	}

	parsed, warnings := o.parseAll(ctx, paths)
	summary.Warnings = append(summary.Warnings, warnings...)
	summary.FilesAnalyzed = len(parsed)

	if o.cfg.Pipeline.EnableStructureAnalysis {
		o.runDirectoryAnalysis(parsed, summary)
	}

	store, entities := o.buildFeatureStore(parsed)

	if o.cfg.Pipeline.EnableComplexityAnalysis || o.cfg.Pipeline.EnableRefactoringAnalysis {
		if err := o.scoreEntities(store, summary); err != nil {
			summary.Warnings = append(summary.Warnings, err.Error())
		}
	}

	if o.cfg.Pipeline.EnableImpactAnalysis {
		o.runPartitioning(parsed, summary)
	}

	o.runFileSplitPlanning(parsed, entities, summary)

	if o.cfg.Pipeline.EnableNamingAnalysis {
		o.runMotifMining(parsed, summary)
	}

	o.computeHealth(summary)

	return summary, nil
}

// parseAll fans out file parsing across a bounded worker pool (errgroup
// with SetLimit), matching the teacher's structured-concurrency idiom
// (internal/mcp/integration_test.go). Suspension only happens at the
// per-file os.ReadFile; the adapter's parse itself is CPU-bound and never
// yields, so out-of-order completion never interleaves with a single
// file's own parse.
func (o *Orchestrator) parseAll(ctx context.Context, paths []string) ([]*parsedFile, []string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*parsedFile, len(paths))
	var mu sync.Mutex
	var warnings []string

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			content, err := os.ReadFile(p)
			if err != nil {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("skipped %s: %v", p, err))
				mu.Unlock()
				return nil
			}

			adapter, ok := o.registry.For(filepath.Ext(p))
			if !ok {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("skipped %s: no language adapter for extension", p))
				mu.Unlock()
				return nil
			}

			index, err := adapter.ParseSource(p, content)
			if err != nil {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("parse error in %s: %v", p, err))
				mu.Unlock()
				return nil
			}

			results[i] = &parsedFile{path: p, content: content, index: index}
			return nil
		})
	}

	_ = g.Wait() // per-file errors are already recovered as warnings above

	out := make([]*parsedFile, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, warnings
}

// buildFeatureStore flattens every file's entities into one global list,
// re-numbering EntityID so it is unique across the whole run (each
// LanguageAdapter only guarantees per-file uniqueness), and populates raw
// features for C3/C4 to consume.
func (o *Orchestrator) buildFeatureStore(parsed []*parsedFile) (*featureset.Store, []types.CodeEntity) {
	store := featureset.NewStore()
	var allEntities []types.CodeEntity
	var nextID types.EntityID = 1

	for _, pf := range parsed {
		siblings := pf.index.Entities
		for i := range siblings {
			siblings[i].ID = nextID
			nextID++
		}
		for i := range siblings {
			e := siblings[i]
			vec := store.GetOrCreate(e.ID)
			vec.Set("cyclomatic_complexity", float64(e.CyclomaticComplexity))
			vec.Set("cognitive_complexity", float64(e.CognitiveComplexity))
			vec.Set("structure_entity_loc", float64(e.LineCount()))
			vec.Set("fan_out_count", float64(len(e.Calls)))
			vec.Set("fan_in_count", float64(len(e.Identifiers)))
			vec.Set("test_coverage_ratio", 0.0) // no coverage report wired in by default
			if err := scoring.NamingConsistency(&e, siblings, vec); err != nil {
				o.log.Warnf("naming consistency for %s: %v", e.Name, err)
			}
		}
		allEntities = append(allEntities, siblings...)
	}

	return store, allEntities
}

func (o *Orchestrator) scoreEntities(store *featureset.Store, summary *AnalysisSummary) error {
	vectors := store.All()
	if len(vectors) == 0 {
		return nil
	}

	norm := bayesian.NewNormalizer(o.cfg.Normalization.Scheme)
	if err := norm.Fit(vectors); err != nil {
		return rfxerrors.NewNormalizationError("orchestrator", err)
	}
	if err := norm.Normalize(vectors); err != nil {
		return rfxerrors.NewNormalizationError("orchestrator", err)
	}

	weights := scoring.Weights(o.cfg.Normalization.Weights)
	scorer := scoring.NewScorer(o.cfg.Normalization.Scheme, weights)
	if err := scorer.Fit(vectors); err != nil {
		return rfxerrors.NewScoringError("orchestrator", err)
	}
	results, err := scorer.Score(vectors)
	if err != nil {
		return rfxerrors.NewScoringError("orchestrator", err)
	}
	summary.ScoringResults = results
	return nil
}

func (o *Orchestrator) runPartitioning(parsed []*parsedFile, summary *AnalysisSummary) {
	if len(parsed) == 0 {
		return
	}
	byPath := make(map[string]*parsedFile, len(parsed))
	paths := make([]string, 0, len(parsed))
	for _, pf := range parsed {
		byPath[pf.path] = pf
		paths = append(paths, pf.path)
	}

	pcfg := importgraph.Config(o.cfg.Partitioning)
	partitioner := importgraph.NewPartitioner(pcfg)
	result, err := partitioner.Partition(paths, parseFileSource(byPath))
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("partitioning failed: %v", err))
		return
	}
	summary.Partitions = result
}

type parseFileSource map[string]*parsedFile

func (s parseFileSource) ContentLength(path string) (int, bool) {
	pf, ok := s[path]
	if !ok {
		return 0, false
	}
	return len(pf.content), true
}

func (s parseFileSource) RawImports(path string) []string {
	pf, ok := s[path]
	if !ok {
		return nil
	}
	return pf.index.RawImportLines
}

// runDirectoryAnalysis groups files by their parent directory, computes
// health metrics per directory, and proposes a bipartition for any that
// trip the reorganization gate.
func (o *Orchestrator) runDirectoryAnalysis(parsed []*parsedFile, summary *AnalysisSummary) {
	byDir := make(map[string][]*parsedFile)
	for _, pf := range parsed {
		dir := filepath.Dir(pf.path)
		byDir[dir] = append(byDir[dir], pf)
	}

	dirs := make([]string, 0, len(byDir))
	for d := range byDir {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	dcfg := directory.Config{
		MaxFilesPerDir:     o.cfg.Directory.MaxFilesPerDir,
		MaxSubdirsPerDir:   o.cfg.Directory.MaxSubdirsPerDir,
		MaxDirLOC:          o.cfg.Directory.MaxDirLOC,
		ImbalanceThreshold: 0.6,
		FilesThreshold:     o.cfg.Directory.MinFilesForSplit,
		LOCThreshold:       50,
		MinClusters:        2,
		MaxClusters:        5,
		BalanceTolerance:   0.25,
		NameList:           []string{"group_a", "group_b", "group_c", "group_d", "group_e"},
	}

	for _, dir := range dirs {
		files := byDir[dir]
		stats := make([]directory.FileStat, len(files))
		byPath := make(map[string]*parsedFile, len(files))
		for i, pf := range files {
			stats[i] = directory.FileStat{Path: pf.path, LOC: pf.index.TotalLOC}
			byPath[pf.path] = pf
		}

		subdirCount := countSubdirs(dir)
		metrics := directory.ComputeMetrics(dcfg, dir, stats, subdirCount)

		report := DirectoryReport{Path: dir, Metrics: metrics}
		if dcfg.NeedsReorganization(metrics) {
			paths := make([]string, len(files))
			for i, f := range files {
				paths[i] = f.path
			}
			imports := func(path string) []string {
				if pf, ok := byPath[path]; ok {
					return pf.index.RawImportLines
				}
				return nil
			}
			report.Reorg = directory.Bipartition(dcfg, dir, paths, imports)
		}
		summary.Directories = append(summary.Directories, report)
	}
}

func countSubdirs(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			count++
		}
	}
	return count
}

// runFileSplitPlanning checks every parsed file against the huge-file gate
// and emits a SplitPack for any that trips it.
func (o *Orchestrator) runFileSplitPlanning(parsed []*parsedFile, _ []types.CodeEntity, summary *AnalysisSummary) {
	fcfg := filesplit.Config{
		HugeLOC:             o.cfg.FileSplit.HugeLOC,
		HugeBytes:           o.cfg.FileSplit.HugeBytes,
		MinEntitiesPerSplit: o.cfg.FileSplit.MinEntitiesPerSplit,
		CohesionEdgeFloor:   0.1,
		CommunityStopWeight: 0.2,
		MaxSplitGroups:      3,
	}

	for _, pf := range parsed {
		pack := filesplit.Plan(fcfg, pf.path, pf.index.Entities, pf.index.TotalLOC, len(pf.content), 0, 0)
		if pack != nil {
			summary.SplitPlans = append(summary.SplitPlans, pack)
		}
	}
}

// runMotifMining mines the codebase's stop-motif cache, refreshing it only
// when the on-disk cache is stale or absent.
func (o *Orchestrator) runMotifMining(parsed []*parsedFile, summary *AnalysisSummary) {
	policy := motifcache.Policy(o.cfg.MotifCache)
	cache := motifcache.NewCache(filepath.Join(o.root, ".rfx"), policy)

	var functions []motifcache.FunctionInfo
	for _, pf := range parsed {
		for _, e := range pf.index.Entities {
			functions = append(functions, motifcache.FunctionInfo{
				ID:          fmt.Sprintf("%s:%d", pf.path, e.ID),
				FilePath:    pf.path,
				SourceCode:  entitySource(pf.content, e),
				LineCount:   e.LineCount(),
				Identifiers: e.Identifiers,
				Calls:       e.Calls,
				BlockCount:  e.BlockCount,
			})
		}
	}

	signature := motifcache.ComputeSignature(functions)
	if cached, ok, err := cache.Load(); err == nil && ok && policy.IsValid(cached, signature, 0, time.Now()) {
		summary.StopMotifs = cached
		return
	}

	miner := motifcache.NewMiner(policy)
	mined, err := miner.Mine(functions)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("motif mining failed: %v", err))
		return
	}
	mined.CodebaseSignature = signature
	mined.LastUpdated = time.Now().Unix()
	if err := cache.Save(mined); err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("motif cache write failed: %v", err))
	}
	summary.StopMotifs = mined
}

func entitySource(content []byte, e types.CodeEntity) string {
	lines := strings.Split(string(content), "\n")
	start := e.StartLine - 1
	end := e.EndLine
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

// computeHealth derives the four health inputs from what the pipeline has
// already computed: maintainability from split-plan pressure, structure
// quality from directory imbalance, complexity from entity scoring, and
// technical debt from the share of entities flagged for refactoring.
func (o *Orchestrator) computeHealth(summary *AnalysisSummary) {
	structureQuality := 100.0
	if n := len(summary.Directories); n > 0 {
		var totalImbalance float64
		for _, d := range summary.Directories {
			totalImbalance += d.Metrics.Imbalance
		}
		avgImbalance := totalImbalance / float64(n)
		structureQuality = 100.0 * (1.0 - clampUnit(avgImbalance))
	}

	maintainability := 100.0
	if summary.FilesAnalyzed > 0 {
		ratio := float64(len(summary.SplitPlans)) / float64(summary.FilesAnalyzed)
		maintainability = 100.0 * (1.0 - clampUnit(ratio))
	}

	complexity := 0.0
	technicalDebt := 0.0
	if n := len(summary.ScoringResults); n > 0 {
		var totalPriority float64
		var needsRefactor int
		for _, r := range summary.ScoringResults {
			totalPriority += r.Priority.Value()
			if r.NeedsRefactoring() {
				needsRefactor++
			}
		}
		complexity = 100.0 * totalPriority / float64(n)
		technicalDebt = 100.0 * float64(needsRefactor) / float64(n)
	}

	summary.Health = HealthMetrics{
		Maintainability:  maintainability,
		StructureQuality: structureQuality,
		Complexity:       complexity,
		TechnicalDebt:    technicalDebt,
		OverallHealth:    overallHealth(maintainability, structureQuality, complexity, technicalDebt),
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
