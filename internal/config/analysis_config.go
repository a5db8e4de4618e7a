package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"gopkg.in/yaml.v3"
)

// NormalizationConfig configures the Bayesian normalizer (C3) and scorer
// (C4).
type NormalizationConfig struct {
	Scheme               string         `yaml:"scheme"`
	UseBayesianFallbacks bool           `yaml:"use_bayesian_fallbacks"`
	ConfidenceReporting  bool           `yaml:"confidence_reporting"`
	Weights              ScoringWeights `yaml:"weights"`
}

// ScoringWeights mirrors the five scoring categories.
type ScoringWeights struct {
	Complexity float64 `yaml:"complexity"`
	Graph      float64 `yaml:"graph"`
	Structure  float64 `yaml:"structure"`
	Style      float64 `yaml:"style"`
	Coverage   float64 `yaml:"coverage"`
}

// PartitioningConfig configures the import-graph partitioner (C6).
type PartitioningConfig struct {
	SliceTokenBudget int     `yaml:"slice_token_budget"`
	MinFilesPerSlice int     `yaml:"min_files_per_slice"`
	MaxFilesPerSlice int     `yaml:"max_files_per_slice"`
	AllowOverlap     bool    `yaml:"allow_overlap"`
	OverlapFraction  float64 `yaml:"overlap_fraction"`
}

// DirectoryConfig configures the directory analyzer (C7).
type DirectoryConfig struct {
	MaxFilesPerDir              int     `yaml:"max_files_per_dir"`
	MaxSubdirsPerDir            int     `yaml:"max_subdirs_per_dir"`
	MaxDirLOC                   int     `yaml:"max_dir_loc"`
	TargetLOCPerSubdir          int     `yaml:"target_loc_per_subdir"`
	OptimalFiles                int     `yaml:"optimal_files"`
	OptimalFilesStdDev          float64 `yaml:"optimal_files_stddev"`
	OptimalSubdirs              int     `yaml:"optimal_subdirs"`
	OptimalSubdirsStdDev        float64 `yaml:"optimal_subdirs_stddev"`
	MinBranchRecommendationGain float64 `yaml:"min_branch_recommendation_gain"`
	MinFilesForSplit            int     `yaml:"min_files_for_split"`
}

// FileSplitConfig configures the file-split planner (C8).
type FileSplitConfig struct {
	HugeLOC             int `yaml:"huge_loc"`
	HugeBytes           int `yaml:"huge_bytes"`
	MinSplitLOC         int `yaml:"min_split_loc"`
	MinEntitiesPerSplit int `yaml:"min_entities_per_split"`
}

// MotifCacheConfig configures the stop-motif cache (C5).
type MotifCacheConfig struct {
	MaxAgeDays              int     `yaml:"max_age_days"`
	ChangeThresholdPercent  float64 `yaml:"change_threshold_percent"`
	StopMotifPercentile     float64 `yaml:"stop_motif_percentile"`
	WeightMultiplier        float64 `yaml:"weight_multiplier"`
	KGramSize               int     `yaml:"k_gram_size"`
	MinSupport              int     `yaml:"min_support"`
	MinIDFScore             float64 `yaml:"min_idf_score"`
	NodeTypePercentile      float64 `yaml:"node_type_percentile"`
	SubtreePercentile       float64 `yaml:"subtree_percentile"`
	TokenSequencePercentile float64 `yaml:"token_sequence_percentile"`
}

// PipelineConfig configures the analysis pipeline orchestrator (C9).
type PipelineConfig struct {
	EnableStructureAnalysis   bool     `yaml:"enable_structure_analysis"`
	EnableComplexityAnalysis  bool     `yaml:"enable_complexity_analysis"`
	EnableRefactoringAnalysis bool     `yaml:"enable_refactoring_analysis"`
	EnableNamingAnalysis      bool     `yaml:"enable_naming_analysis"`
	EnableImpactAnalysis      bool     `yaml:"enable_impact_analysis"`
	FileExtensions            []string `yaml:"file_extensions"`
	ExcludeDirectories        []string `yaml:"exclude_directories"`
	MaxFiles                  int      `yaml:"max_files"`
}

// AnalysisConfig is the root configuration object for the analysis
// pipeline, separate from the teacher's original indexing Config (which
// continues to govern content indexing concerns, not scoring/partitioning).
type AnalysisConfig struct {
	Normalization NormalizationConfig `yaml:"normalization"`
	Partitioning  PartitioningConfig  `yaml:"partitioning"`
	Directory     DirectoryConfig     `yaml:"directory"`
	FileSplit     FileSplitConfig     `yaml:"file_split"`
	MotifCache    MotifCacheConfig    `yaml:"motif_cache"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
}

// DefaultAnalysisConfig mirrors the defaults scattered across the
// component packages, gathered into one place for config loading/export.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Normalization: NormalizationConfig{
			Scheme:               "z_score",
			UseBayesianFallbacks: true,
			ConfidenceReporting:  true,
			Weights: ScoringWeights{
				Complexity: 1.5, Graph: 1.2, Structure: 1.0, Style: 0.6, Coverage: 0.8,
			},
		},
		Partitioning: PartitioningConfig{
			SliceTokenBudget: 200_000, MinFilesPerSlice: 3, MaxFilesPerSlice: 100,
			AllowOverlap: true, OverlapFraction: 0.15,
		},
		Directory: DirectoryConfig{
			MaxFilesPerDir: 20, MaxSubdirsPerDir: 8, MaxDirLOC: 2000,
			TargetLOCPerSubdir: 500, OptimalFiles: 10, OptimalFilesStdDev: 5,
			OptimalSubdirs: 4, OptimalSubdirsStdDev: 2,
			MinBranchRecommendationGain: 0.15, MinFilesForSplit: 4,
		},
		FileSplit: FileSplitConfig{
			HugeLOC: 1000, HugeBytes: 50_000, MinSplitLOC: 100, MinEntitiesPerSplit: 2,
		},
		MotifCache: MotifCacheConfig{
			MaxAgeDays: 7, ChangeThresholdPercent: 10.0, StopMotifPercentile: 5.0,
			WeightMultiplier: 0.2, KGramSize: 4, MinSupport: 3, MinIDFScore: 0.5,
			NodeTypePercentile: 0.9, SubtreePercentile: 0.85, TokenSequencePercentile: 0.9,
		},
		Pipeline: PipelineConfig{
			EnableStructureAnalysis: true, EnableComplexityAnalysis: true,
			EnableRefactoringAnalysis: true, EnableNamingAnalysis: true, EnableImpactAnalysis: true,
			FileExtensions:     []string{".go", ".py", ".js", ".ts", ".tsx", ".rs", ".java"},
			ExcludeDirectories: []string{"node_modules", "target", ".git", "__pycache__", "build", "dist"},
			MaxFiles:           50_000,
		},
	}
}

// LoadAnalysisKDL reads <projectRoot>/.rfx.kdl, if present, and overlays its
// recognized sections onto the defaults. A missing file is not an error.
func LoadAnalysisKDL(projectRoot string) (AnalysisConfig, error) {
	cfg := DefaultAnalysisConfig()
	kdlPath := filepath.Join(projectRoot, ".rfx.kdl")
	content, err := os.ReadFile(kdlPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", kdlPath, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", kdlPath, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "normalization":
			for _, cn := range n.Children {
				assignSimpleString(cn, "scheme", func(v string) { cfg.Normalization.Scheme = v })
			}
		case "partitioning":
			for _, cn := range n.Children {
				if v, ok := firstIntArg(cn); ok && nodeName(cn) == "slice_token_budget" {
					cfg.Partitioning.SliceTokenBudget = v
				}
				if v, ok := firstFloatArg(cn); ok && nodeName(cn) == "overlap_fraction" {
					cfg.Partitioning.OverlapFraction = v
				}
				if v, ok := firstBoolArg(cn); ok && nodeName(cn) == "allow_overlap" {
					cfg.Partitioning.AllowOverlap = v
				}
			}
		case "directory":
			for _, cn := range n.Children {
				if v, ok := firstIntArg(cn); ok {
					switch nodeName(cn) {
					case "max_files_per_dir":
						cfg.Directory.MaxFilesPerDir = v
					case "max_dir_loc":
						cfg.Directory.MaxDirLOC = v
					}
				}
			}
		case "pipeline":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "file_extensions":
					cfg.Pipeline.FileExtensions = collectStringArgs(cn)
				case "exclude_directories":
					cfg.Pipeline.ExcludeDirectories = collectStringArgs(cn)
				case "max_files":
					if v, ok := firstIntArg(cn); ok {
						cfg.Pipeline.MaxFiles = v
					}
				}
			}
		}
	}

	return cfg, nil
}

// ExportDefaults renders the default AnalysisConfig as YAML, for
// `rfx config export` and documentation generation.
func ExportDefaults() ([]byte, error) {
	return yaml.Marshal(DefaultAnalysisConfig())
}
