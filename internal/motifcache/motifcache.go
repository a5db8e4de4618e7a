// Package motifcache mines frequent token k-grams, structural motifs and
// lightweight AST patterns across a codebase, and persists the selection to
// a process-wide disk cache so repeated analysis runs can skip re-mining.
package motifcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const cacheVersion = 1

// PatternCategory classifies a mined pattern for downstream consumers
// (a clone detector denoising similarity by weight_multiplier).
type PatternCategory string

const (
	CategoryTokenGram        PatternCategory = "token_gram"
	CategoryControlFlow      PatternCategory = "control_flow"
	CategoryAssignment       PatternCategory = "assignment"
	CategoryFunctionCall     PatternCategory = "function_call"
	CategoryDataStructure    PatternCategory = "data_structure"
	CategoryBoilerplate      PatternCategory = "boilerplate"
	CategoryASTNodeType      PatternCategory = "ast_node_type"
	CategoryASTSubtree       PatternCategory = "ast_subtree"
	CategoryASTTokenSequence PatternCategory = "ast_token_sequence"
)

// StopMotifEntry is one selected pattern with its support and IDF score.
type StopMotifEntry struct {
	Pattern          string          `json:"pattern"`
	Support          int             `json:"support"`
	IDFScore         float64         `json:"idf_score"`
	WeightMultiplier float64         `json:"weight_multiplier"`
	Category         PatternCategory `json:"category"`
}

// MiningStats records what the last mining pass did, for diagnostics.
type MiningStats struct {
	FunctionsProcessed int   `json:"functions_processed"`
	PatternsFound      int   `json:"patterns_found"`
	PatternsSelected   int   `json:"patterns_selected"`
	DurationMillis     int64 `json:"duration_millis"`
}

// StopMotifCache is the on-disk, version-tagged mining result.
type StopMotifCache struct {
	Version           int              `json:"version"`
	KGramSize         int              `json:"k_gram_size"`
	TokenGrams        []StopMotifEntry `json:"token_grams"`
	PDGMotifs         []StopMotifEntry `json:"pdg_motifs"`
	ASTPatterns       []StopMotifEntry `json:"ast_patterns"`
	CodebaseSignature string           `json:"codebase_signature"`
	LastUpdated       int64            `json:"last_updated"`
	MiningStats       MiningStats      `json:"mining_stats"`
}

// Policy governs validity checks and mining thresholds.
type Policy struct {
	MaxAgeDays              int
	ChangeThresholdPercent  float64
	StopMotifPercentile     float64
	WeightMultiplier        float64
	KGramSize               int
	MinSupport              int
	MinIDFScore             float64
	NodeTypePercentile      float64
	SubtreePercentile       float64
	TokenSequencePercentile float64
}

// DefaultPolicy mirrors the mining defaults used when no project config
// overrides them.
func DefaultPolicy() Policy {
	return Policy{
		MaxAgeDays:              7,
		ChangeThresholdPercent:  10.0,
		StopMotifPercentile:     5.0,
		WeightMultiplier:        0.2,
		KGramSize:               4,
		MinSupport:              3,
		MinIDFScore:             0.5,
		NodeTypePercentile:      0.9,
		SubtreePercentile:       0.85,
		TokenSequencePercentile: 0.9,
	}
}

// FunctionInfo is one function's worth of mining input.
type FunctionInfo struct {
	ID         string
	FilePath   string
	SourceCode string
	LineCount  int
	// Identifiers/Calls/BlockCount feed the lightweight AST-pattern stage;
	// they come straight off a parsed CodeEntity and may be left empty.
	Identifiers []string
	Calls       []string
	BlockCount  int
}

// Cache owns a single on-disk stop-motif file. It does not serialize
// concurrent refreshes: the mu field is not used, so two callers that both
// find the cache stale each mine and Save, and the later rename wins. Save's
// write-temp-then-rename keeps the file itself whole.
type Cache struct {
	path   string
	policy Policy
	mu     sync.Mutex
}

// NewCache builds a cache bound to dir/stop_motifs.v1.json.
func NewCache(dir string, policy Policy) *Cache {
	return &Cache{path: filepath.Join(dir, "stop_motifs.v1.json"), policy: policy}
}

// Load reads the cache file, if present. A missing file is not an error;
// it simply reports ok=false so the caller knows to mine from scratch.
func (c *Cache) Load() (*StopMotifCache, bool, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("motifcache: read %s: %w", c.path, err)
	}
	var cached StopMotifCache
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, fmt.Errorf("motifcache: decode %s: %w", c.path, err)
	}
	return &cached, true, nil
}

// Save persists the cache atomically: write to a temp file in the same
// directory, then rename over the destination so a crash mid-write never
// leaves a truncated cache file behind.
func (c *Cache) Save(cached *StopMotifCache) error {
	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("motifcache: encode: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("motifcache: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "stop_motifs.*.tmp")
	if err != nil {
		return fmt.Errorf("motifcache: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("motifcache: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("motifcache: close temp: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("motifcache: rename into place: %w", err)
	}
	return nil
}

// IsValid reports whether cached is still usable for the given codebase
// signature and current time: not stale by age, and not drifted past the
// change threshold (exact signature match always wins; otherwise the caller
// supplies an estimated drift percentage from a cheaper heuristic).
func (p Policy) IsValid(cached *StopMotifCache, currentSignature string, estimatedChangePercent float64, now time.Time) bool {
	if cached == nil {
		return false
	}
	age := now.Sub(time.Unix(cached.LastUpdated, 0))
	if age > time.Duration(p.MaxAgeDays)*24*time.Hour {
		return false
	}
	if cached.CodebaseSignature == currentSignature {
		return true
	}
	return estimatedChangePercent <= p.ChangeThresholdPercent
}

// ComputeSignature hashes (function_count, total_lines, per-file
// (path, line_count, content_hash)) with a stable sort by path, per the
// cache-invalidation contract. A file's line_count and content_hash are
// summed over all of its functions. Per-file content hashing uses xxhash (a hot,
// non-cryptographic path run over every file on every signature check); the
// final aggregate digest is SHA-256, matching the on-disk signature format
// the rest of the codebase already uses for cache keys.
func ComputeSignature(functions []FunctionInfo) string {
	paths := make([]string, 0, len(functions))
	fileLines := make(map[string]int, len(functions))
	fileHashes := make(map[string]uint64, len(functions))
	totalLines := 0
	for _, fn := range functions {
		if _, seen := fileLines[fn.FilePath]; !seen {
			paths = append(paths, fn.FilePath)
		}
		fileLines[fn.FilePath] += fn.LineCount
		fileHashes[fn.FilePath] += xxhash.Sum64String(fn.SourceCode)
		totalLines += fn.LineCount
	}
	sort.Strings(paths)

	h := sha256.New()
	fmt.Fprintf(h, "%d:%d", len(functions), totalLines)
	for _, p := range paths {
		fmt.Fprintf(h, ":%s:%d:%x", p, fileLines[p], fileHashes[p])
	}
	return hex.EncodeToString(h.Sum(nil))
}
