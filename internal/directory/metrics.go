// Package directory computes per-directory health metrics, decides when a
// directory should be reorganized, and proposes a balanced bipartition of
// its files when the reorganization gate trips.
package directory

import (
	"math"
	"sort"

	rfxerrors "github.com/refactorlab/rfx/internal/errors"
)

// Config governs the reorganization gate and bipartitioning search.
type Config struct {
	MaxFilesPerDir     int
	MaxSubdirsPerDir   int
	MaxDirLOC          int
	ImbalanceThreshold float64
	FilesThreshold     int
	LOCThreshold       int
	MinClusters        int
	MaxClusters         int
	BalanceTolerance   float64
	NameList           []string
	SkipDirs           map[string]bool
}

func DefaultConfig() Config {
	return Config{
		MaxFilesPerDir:     20,
		MaxSubdirsPerDir:   8,
		MaxDirLOC:          2000,
		ImbalanceThreshold: 0.6,
		FilesThreshold:     4,
		LOCThreshold:       50,
		MinClusters:        2,
		MaxClusters:        5,
		BalanceTolerance:   0.25,
		NameList:           []string{"group_a", "group_b", "group_c", "group_d", "group_e"},
		SkipDirs: map[string]bool{
			"node_modules": true, "target": true, ".git": true,
			"__pycache__": true, "build": true, "dist": true,
		},
	}
}

// FileStat is one file's contribution to a directory's metrics.
type FileStat struct {
	Path string
	LOC  int
}

// Metrics is the computed health snapshot for one directory.
type Metrics struct {
	Path           string
	Files          int
	Subdirs        int
	TotalLOC       int
	Gini           float64
	Entropy        float64
	FilePressure   float64
	BranchPressure float64
	SizePressure   float64
	Dispersion     float64
	Imbalance      float64
}

// ComputeMetrics derives Metrics for one directory from its direct file
// sizes and subdirectory count. files may be empty (an otherwise-empty
// directory housing only subdirectories).
func ComputeMetrics(cfg Config, path string, files []FileStat, subdirCount int) *Metrics {
	locs := make([]int, len(files))
	total := 0
	for i, f := range files {
		locs[i] = f.LOC
		total += f.LOC
	}

	gini := giniCoefficient(locs)
	entropy := shannonEntropy(locs)

	filePressure := pressure(len(files), cfg.MaxFilesPerDir)
	branchPressure := pressure(subdirCount, cfg.MaxSubdirsPerDir)
	sizePressure := pressure(total, cfg.MaxDirLOC)

	scores := []float64{
		distributionScore(float64(len(files)), float64(cfg.MaxFilesPerDir)/2, float64(cfg.MaxFilesPerDir)/2),
		distributionScore(float64(subdirCount), float64(cfg.MaxSubdirsPerDir)/2, float64(cfg.MaxSubdirsPerDir)/2),
		distributionScore(float64(total), float64(cfg.MaxDirLOC)/2, float64(cfg.MaxDirLOC)/2),
	}
	dispersion := 1.0 - mean(scores)

	imbalance := weightedImbalance(filePressure, branchPressure, sizePressure, dispersion, len(files), total)

	return &Metrics{
		Path: path, Files: len(files), Subdirs: subdirCount, TotalLOC: total,
		Gini: gini, Entropy: entropy,
		FilePressure: filePressure, BranchPressure: branchPressure, SizePressure: sizePressure,
		Dispersion: dispersion, Imbalance: imbalance,
	}
}

// NeedsReorganization is the gate from spec §4.5: imbalance at or above
// threshold AND both file count and total LOC at or above their floors.
func (cfg Config) NeedsReorganization(m *Metrics) bool {
	return m.Imbalance >= cfg.ImbalanceThreshold &&
		m.Files >= cfg.FilesThreshold &&
		m.TotalLOC >= cfg.LOCThreshold
}

func pressure(value, max int) float64 {
	if max <= 0 {
		return 0.0
	}
	p := float64(value) / float64(max)
	if p > 1.0 {
		return 1.0
	}
	return p
}

// distributionScore is exp(-0.5*((x-mu)/sigma)^2); sigma==0 collapses to an
// exact-equality check so a degenerate (zero-variance) axis doesn't divide
// by zero.
func distributionScore(x, mu, sigma float64) float64 {
	if sigma == 0 {
		if x == mu {
			return 1.0
		}
		return 0.0
	}
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// weightedImbalance combines the three pressure axes and dispersion into a
// single score, normalized down as directories grow so a large-but-uniform
// directory doesn't look perpetually unhealthy.
func weightedImbalance(filePressure, branchPressure, sizePressure, dispersion float64, files, loc int) float64 {
	raw := 0.4*filePressure + 0.2*branchPressure + 0.2*sizePressure + 0.2*dispersion
	scale := 1.0 + math.Log1p(float64(files)+float64(loc)/100.0)/20.0
	return raw * scale
}

// giniCoefficient measures LOC-distribution inequality across files in a
// directory: 0 for a perfectly even split, approaching 1 as one file
// dominates. Computed over the sorted sample via the standard
// mean-absolute-difference form.
func giniCoefficient(values []int) float64 {
	n := len(values)
	if n == 0 {
		return 0.0
	}
	sorted := make([]int, n)
	copy(sorted, values)
	sort.Ints(sorted)

	var sumAbsDiff, sum int64
	for i, v := range sorted {
		sum += int64(v)
		sumAbsDiff += int64(2*(i+1)-n-1) * int64(v)
	}
	if sum == 0 {
		return 0.0
	}
	return float64(sumAbsDiff) / (float64(n) * float64(sum))
}

// shannonEntropy is computed over the normalized LOC distribution (each
// file's share of total LOC treated as a probability mass), in nats.
func shannonEntropy(values []int) float64 {
	total := 0
	for _, v := range values {
		total += v
	}
	if total == 0 {
		return 0.0
	}
	var h float64
	for _, v := range values {
		if v == 0 {
			continue
		}
		p := float64(v) / float64(total)
		h -= p * math.Log(p)
	}
	return h
}

func newDirectoryError(path string, err error) error {
	return rfxerrors.NewDirectoryError("directory", err).WithFile(0, path)
}
