// Package scoring implements the Feature Scorer (C4): weighted aggregation
// of normalized features into category scores, an overall priority score,
// a discrete Priority level, and a confidence estimate.
package scoring

import (
	"sort"
	"strings"

	"github.com/refactorlab/rfx/internal/bayesian"
	rfxerrors "github.com/refactorlab/rfx/internal/errors"
	"github.com/refactorlab/rfx/internal/featureset"
	"github.com/refactorlab/rfx/internal/types"
)

// Priority is the discrete refactoring urgency derived from a ScoringResult's
// overall score.
type Priority uint8

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "Critical"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "None"
	}
}

// Value returns the numeric priority value used when averaging priorities
// across a directory or slice.
func (p Priority) Value() float64 {
	switch p {
	case PriorityCritical:
		return 1.0
	case PriorityHigh:
		return 0.75
	case PriorityMedium:
		return 0.5
	case PriorityLow:
		return 0.25
	default:
		return 0.0
	}
}

// calculatePriority buckets |score| into the five priority tiers.
func calculatePriority(score float64) Priority {
	abs := score
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 2.0:
		return PriorityCritical
	case abs >= 1.5:
		return PriorityHigh
	case abs >= 1.0:
		return PriorityMedium
	case abs >= 0.5:
		return PriorityLow
	default:
		return PriorityNone
	}
}

// Weights configures how much each feature category contributes to the
// overall score.
type Weights struct {
	Complexity float64
	Graph      float64
	Structure  float64
	Style      float64
	Coverage   float64
}

// DefaultWeights matches the category weighting used across the corpus:
// complexity and graph position dominate, coverage and style are advisory.
func DefaultWeights() Weights {
	return Weights{
		Complexity: 1.5,
		Graph:      1.2,
		Structure:  1.0,
		Style:      0.6,
		Coverage:   0.8,
	}
}

// Result is the scoring outcome for a single entity.
type Result struct {
	EntityID               types.EntityID
	OverallScore           float64
	Priority               Priority
	CategoryScores         map[string]float64
	FeatureContributions   map[string]float64
	NormalizedFeatureCount int
	Confidence             float64
}

// NeedsRefactoring reports whether the entity cleared the None tier.
func (r *Result) NeedsRefactoring() bool {
	return r.Priority != PriorityNone
}

// IsHighPriority reports whether the entity is High or Critical.
func (r *Result) IsHighPriority() bool {
	return r.Priority == PriorityHigh || r.Priority == PriorityCritical
}

// DominantCategory returns the category with the highest score.
func (r *Result) DominantCategory() (string, float64, bool) {
	var bestName string
	var bestScore float64
	found := false
	for name, score := range r.CategoryScores {
		if !found || score > bestScore {
			bestName, bestScore, found = name, score, true
		}
	}
	return bestName, bestScore, found
}

// TopContributingFeatures returns up to count features sorted by descending
// contribution.
func (r *Result) TopContributingFeatures(count int) []FeatureContribution {
	out := make([]FeatureContribution, 0, len(r.FeatureContributions))
	for name, contribution := range r.FeatureContributions {
		out = append(out, FeatureContribution{Name: name, Contribution: contribution})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Contribution > out[j].Contribution })
	if count < len(out) {
		out = out[:count]
	}
	return out
}

// FeatureContribution names one feature's weighted contribution to a score.
type FeatureContribution struct {
	Name         string
	Contribution float64
}

// Scorer normalizes feature vectors via a bayesian.Normalizer and then
// computes category/overall scores and priority.
type Scorer struct {
	normalizer *bayesian.Normalizer
	weights    Weights
}

// NewScorer returns a scorer using scheme for normalization (see
// bayesian.NewNormalizer) and weights for category aggregation.
func NewScorer(scheme string, weights Weights) *Scorer {
	return &Scorer{
		normalizer: bayesian.NewNormalizer(scheme),
		weights:    weights,
	}
}

// Fit trains the underlying normalizer on the full feature vector set.
func (s *Scorer) Fit(vectors []*featureset.FeatureVector) error {
	return s.normalizer.Fit(vectors)
}

// Score normalizes vectors in place and returns one Result per vector, in
// the same order as vectors.
func (s *Scorer) Score(vectors []*featureset.FeatureVector) ([]*Result, error) {
	if err := s.normalizer.Normalize(vectors); err != nil {
		return nil, rfxerrors.NewScoringError("scoring.Score", err)
	}
	results := make([]*Result, len(vectors))
	for i, v := range vectors {
		results[i] = s.computeScore(v)
	}
	return results, nil
}

// ScoreSingle scores one vector without requiring the caller to batch;
// useful for incremental re-scoring of a single changed entity.
func (s *Scorer) ScoreSingle(v *featureset.FeatureVector) (*Result, error) {
	if _, err := s.Score([]*featureset.FeatureVector{v}); err != nil {
		return nil, err
	}
	return s.computeScore(v), nil
}

func (s *Scorer) computeScore(v *featureset.FeatureVector) *Result {
	categoryScores := make(map[string]float64)
	categoryWeightSums := make(map[string]float64)
	contributions := make(map[string]float64)

	var totalWeightedScore, totalWeight float64

	for name, normalizedValue := range v.NormalizedFeatures {
		category, weight := s.categoryAndWeight(name)
		contribution := normalizedValue * weight
		contributions[name] = contribution

		categoryScores[category] += contribution
		categoryWeightSums[category] += weight

		totalWeightedScore += contribution
		totalWeight += weight
	}

	for category, score := range categoryScores {
		if w := categoryWeightSums[category]; w > 0 {
			categoryScores[category] = score / w
		}
	}

	overallScore := 0.0
	if totalWeight > 0 {
		overallScore = totalWeightedScore / totalWeight
	}

	return &Result{
		EntityID:               v.EntityID,
		OverallScore:           overallScore,
		Priority:               calculatePriority(overallScore),
		CategoryScores:         categoryScores,
		FeatureContributions:   contributions,
		NormalizedFeatureCount: len(v.NormalizedFeatures),
		Confidence:             s.calculateConfidence(v),
	}
}

// categoryAndWeight maps a feature name to its scoring category by
// substring match, mirroring the naming convention feature extractors use
// (e.g. "cyclomatic_complexity", "fan_in_count", "naming_consistency").
func (s *Scorer) categoryAndWeight(featureName string) (string, float64) {
	switch {
	case containsAny(featureName, "cyclomatic", "cognitive", "complexity"):
		return "complexity", s.weights.Complexity
	case containsAny(featureName, "betweenness", "centrality", "fan_"):
		return "graph", s.weights.Graph
	case containsAny(featureName, "structure", "class", "method"):
		return "structure", s.weights.Structure
	case containsAny(featureName, "style", "naming", "format"):
		return "style", s.weights.Style
	case containsAny(featureName, "coverage", "test"):
		return "coverage", s.weights.Coverage
	default:
		return "other", 1.0
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// calculateConfidence blends the sheer number of normalized features with
// the average Bayesian variance-confidence of the features that have
// fitted statistics.
func (s *Scorer) calculateConfidence(v *featureset.FeatureVector) float64 {
	featureCount := float64(len(v.NormalizedFeatures))
	baseConfidence := featureCount / 10.0
	if baseConfidence > 1.0 {
		baseConfidence = 1.0
	}

	var confidenceSum float64
	var confidenceCount int
	for name := range v.NormalizedFeatures {
		if confidence, ok := s.normalizer.GetConfidence(name); ok {
			confidenceSum += confidence.Score()
			confidenceCount++
		}
	}
	if confidenceCount == 0 {
		return baseConfidence
	}
	return baseConfidence * (confidenceSum / float64(confidenceCount))
}
