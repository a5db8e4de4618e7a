// Package bayesian implements the Bayesian Normalizer (C3): it fits
// per-feature statistics with a conjugate Normal-Normal posterior update
// against domain priors, then normalizes raw feature values with a
// principled fallback for zero-variance and low-sample features.
package bayesian

import (
	"math"
	"sort"

	rfxerrors "github.com/refactorlab/rfx/internal/errors"
	"github.com/refactorlab/rfx/internal/featureset"
)

// VarianceConfidence classifies how much statistical power the empirical
// sample for a feature carries.
type VarianceConfidence uint8

const (
	ConfidenceInsufficient VarianceConfidence = iota
	ConfidenceVeryLow
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

// Score returns the 0.0-1.0 confidence score C4 reads when blending
// scoring confidence.
func (c VarianceConfidence) Score() float64 {
	switch c {
	case ConfidenceHigh:
		return 0.9
	case ConfidenceMedium:
		return 0.7
	case ConfidenceLow:
		return 0.5
	case ConfidenceVeryLow:
		return 0.3
	default:
		return 0.1
	}
}

func (c VarianceConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "High"
	case ConfidenceMedium:
		return "Medium"
	case ConfidenceLow:
		return "Low"
	case ConfidenceVeryLow:
		return "VeryLow"
	default:
		return "Insufficient"
	}
}

// confidenceFromSamples mirrors the sample-size/variance thresholds used
// to grade how much a feature's empirical statistics can be trusted.
func confidenceFromSamples(nSamples int, variance, threshold float64) VarianceConfidence {
	switch {
	case nSamples < 2 || variance < math.SmallestNonzeroFloat64:
		return ConfidenceInsufficient
	case nSamples >= 50 && variance > threshold:
		return ConfidenceHigh
	case nSamples >= 10 && variance > threshold*0.5:
		return ConfidenceMedium
	case nSamples >= 5 && variance > threshold*0.1:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// FeaturePrior is domain knowledge about a feature's expected distribution,
// expressed as Beta-distribution shape parameters plus an expected range.
type FeaturePrior struct {
	Name                  string
	Alpha, Beta           float64
	ExpectedMin           float64
	ExpectedMax           float64
	ExpectedMean          float64
	MinSamplesForConfidence int
	VarianceThreshold     float64
	FeatureType           string
	HigherIsWorse         bool
	TypicalDistribution   string
}

// NewFeaturePrior returns an uninformative default prior for name.
func NewFeaturePrior(name string) FeaturePrior {
	return FeaturePrior{
		Name:                  name,
		Alpha:                 1.0,
		Beta:                  1.0,
		ExpectedMin:           0.0,
		ExpectedMax:           1.0,
		ExpectedMean:          0.5,
		MinSamplesForConfidence: 10,
		VarianceThreshold:     0.01,
		FeatureType:           "generic",
		HigherIsWorse:         true,
		TypicalDistribution:   "normal",
	}
}

func (p FeaturePrior) WithBetaParams(alpha, beta float64) FeaturePrior {
	p.Alpha, p.Beta = alpha, beta
	return p
}

func (p FeaturePrior) WithRange(min, max, mean float64) FeaturePrior {
	p.ExpectedMin, p.ExpectedMax, p.ExpectedMean = min, max, mean
	return p
}

func (p FeaturePrior) WithType(featureType, distribution string) FeaturePrior {
	p.FeatureType, p.TypicalDistribution = featureType, distribution
	return p
}

// PriorMean is the Beta distribution's mean, alpha/(alpha+beta).
func (p FeaturePrior) PriorMean() float64 {
	return p.Alpha / (p.Alpha + p.Beta)
}

// PriorVariance is the Beta distribution's variance.
func (p FeaturePrior) PriorVariance() float64 {
	ab := p.Alpha + p.Beta
	return (p.Alpha * p.Beta) / (ab * ab * (ab + 1.0))
}

// EffectiveSampleSize is the prior's pseudo-count, alpha+beta.
func (p FeaturePrior) EffectiveSampleSize() float64 {
	return p.Alpha + p.Beta
}

// FeatureStatistics holds a feature's empirical sample statistics plus the
// Bayesian posterior derived from them and its prior.
type FeatureStatistics struct {
	Mean              float64
	Variance          float64
	StdDev            float64
	Min               float64
	Max               float64
	NSamples          int
	Confidence        VarianceConfidence
	PriorWeight       float64
	PosteriorMean     float64
	PosteriorVariance float64
}

// statisticsFromValues computes the sample mean/variance/min/max of values.
// Variance uses the n-1 (sample) divisor, matching the rest of the corpus.
func statisticsFromValues(values []float64) FeatureStatistics {
	n := len(values)
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var variance float64
	if n > 1 {
		var sq float64
		for _, v := range values {
			d := v - mean
			sq += d * d
		}
		variance = sq / float64(n-1)
	}

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	return FeatureStatistics{
		Mean:              mean,
		Variance:          variance,
		StdDev:            math.Sqrt(variance),
		Min:               min,
		Max:               max,
		NSamples:          n,
		Confidence:        ConfidenceInsufficient,
		PosteriorMean:     mean,
		PosteriorVariance: variance,
	}
}

// Normalizer fits per-feature Bayesian statistics and then normalizes raw
// feature values against them using the configured scheme.
type Normalizer struct {
	Scheme     string
	statistics map[string]FeatureStatistics
	priors     map[string]FeaturePrior
}

// NewNormalizer returns a normalizer using scheme ("z_score", "min_max",
// "robust", or any name ending in "_bayesian") seeded with the built-in
// domain priors for complexity, graph-centrality, cycle, and clone
// features.
func NewNormalizer(scheme string) *Normalizer {
	n := &Normalizer{
		Scheme:     scheme,
		statistics: make(map[string]FeatureStatistics),
		priors:     make(map[string]FeaturePrior),
	}
	n.initializeFeaturePriors()
	return n
}

func (n *Normalizer) initializeFeaturePriors() {
	type spec struct {
		name              string
		min, max, mean    float64
		distribution      string
	}

	register := func(specs []spec, alpha, beta float64, featureType string) {
		for _, s := range specs {
			n.priors[s.name] = NewFeaturePrior(s.name).
				WithBetaParams(alpha, beta).
				WithRange(s.min, s.max, s.mean).
				WithType(featureType, s.distribution)
		}
	}

	register([]spec{
		{"cyclomatic", 1.0, 20.0, 3.0, "right_skewed"},
		{"cognitive", 0.0, 50.0, 5.0, "right_skewed"},
		{"max_nesting", 0.0, 10.0, 2.0, "right_skewed"},
		{"param_count", 0.0, 15.0, 3.0, "right_skewed"},
		{"branch_fanout", 0.0, 10.0, 2.0, "right_skewed"},
	}, 2.0, 5.0, "complexity")

	register([]spec{
		{"betweenness_approx", 0.0, 1.0, 0.1, "highly_skewed"},
		{"fan_in", 0.0, 50.0, 2.0, "right_skewed"},
		{"fan_out", 0.0, 20.0, 3.0, "right_skewed"},
		{"closeness", 0.0, 1.0, 0.3, "bimodal"},
		{"eigenvector", 0.0, 1.0, 0.2, "highly_skewed"},
	}, 1.0, 10.0, "centrality")

	register([]spec{
		{"in_cycle", 0.0, 1.0, 0.2, "bernoulli"},
		{"cycle_size", 0.0, 20.0, 0.5, "right_skewed"},
	}, 1.0, 4.0, "cycles")

	register([]spec{
		{"clone_mass", 0.0, 1.0, 0.1, "right_skewed"},
		{"similarity", 0.0, 1.0, 0.3, "bimodal"},
	}, 1.0, 8.0, "clones")
}

// AddPrior installs or overrides a domain prior for a feature name.
func (n *Normalizer) AddPrior(p FeaturePrior) {
	n.priors[p.Name] = p
}

// Fit computes per-feature empirical and posterior statistics across every
// vector in vectors. Must be called before Normalize.
func (n *Normalizer) Fit(vectors []*featureset.FeatureVector) error {
	if len(vectors) == 0 {
		return rfxerrors.NewNormalizationError("bayesian.Fit", errEmptyInput)
	}

	byFeature := make(map[string][]float64)
	for _, v := range vectors {
		for name, value := range v.Features {
			byFeature[name] = append(byFeature[name], value)
		}
	}

	for name, values := range byFeature {
		if len(values) == 0 {
			continue
		}
		empirical := statisticsFromValues(values)
		prior, ok := n.priors[name]
		if !ok {
			prior = n.createGenericPrior(name)
		}
		empirical.Confidence = confidenceFromSamples(len(values), empirical.Variance, prior.VarianceThreshold)
		n.statistics[name] = n.posteriorStats(empirical, prior)
	}
	return nil
}

func (n *Normalizer) createGenericPrior(name string) FeaturePrior {
	return NewFeaturePrior(name).WithBetaParams(1.0, 1.0).WithRange(0.0, 1.0, 0.5).WithType("generic", "normal")
}

// posteriorStats performs the Normal-Normal conjugate update: the prior
// contributes (priorMean, priorVar) as a single pseudo-observation weighted
// by its own precision, combined with n empirical observations weighted by
// their precision. The Beta prior's mean and variance live on [0,1] and are
// rescaled onto the prior's expected [min,max] range before the update.
func (n *Normalizer) posteriorStats(empirical FeatureStatistics, prior FeaturePrior) FeatureStatistics {
	priorWeight := priorWeight(empirical.NSamples, empirical.Confidence)
	_ = priorWeight // recorded on the result below; not used to blend directly, mirrors the precision-weighted update

	rng := prior.ExpectedMax - prior.ExpectedMin
	if rng <= 0 {
		rng = 1.0
	}
	priorMean := prior.ExpectedMin + rng*prior.PriorMean()
	priorVar := math.Max(prior.PriorVariance()*rng*rng, math.SmallestNonzeroFloat64)
	empiricalVar := math.Max(empirical.Variance, math.SmallestNonzeroFloat64)

	posteriorPrecision := 1.0/priorVar + float64(empirical.NSamples)/empiricalVar
	posteriorVariance := 1.0 / posteriorPrecision
	posteriorMean := posteriorVariance * (priorMean/priorVar + float64(empirical.NSamples)*empirical.Mean/empiricalVar)

	stats := empirical
	stats.PriorWeight = priorWeight
	stats.PosteriorMean = posteriorMean
	stats.PosteriorVariance = posteriorVariance
	return stats
}

// priorWeight is how much posterior mass to attribute to the prior versus
// the empirical sample, scaled down as the sample grows.
func priorWeight(nSamples int, confidence VarianceConfidence) float64 {
	var base float64
	switch confidence {
	case ConfidenceHigh:
		base = 0.1
	case ConfidenceMedium:
		base = 0.3
	case ConfidenceLow:
		base = 0.5
	case ConfidenceVeryLow:
		base = 0.7
	default:
		base = 0.9
	}
	sampleFactor := 1.0 / (1.0 + math.Log(float64(nSamples)+1))
	w := base * sampleFactor
	return math.Max(0.05, math.Min(0.95, w))
}

// Normalize fills NormalizedFeatures on every vector using the fitted
// statistics. Features with no fitted statistics pass through unchanged
// (identity normalization).
func (n *Normalizer) Normalize(vectors []*featureset.FeatureVector) error {
	for _, v := range vectors {
		for name, value := range v.Features {
			if stats, ok := n.statistics[name]; ok {
				nv, err := n.normalizeValue(value, stats)
				if err != nil {
					return err
				}
				v.NormalizedFeatures[name] = nv
			} else {
				v.NormalizedFeatures[name] = value
			}
		}
	}
	return nil
}

func (n *Normalizer) normalizeValue(value float64, stats FeatureStatistics) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0.0, nil
	}

	var normalized float64
	switch {
	case n.Scheme == "z_score" || n.Scheme == "zscore":
		if stats.Variance < math.SmallestNonzeroFloat64 {
			normalized = 0.0
		} else {
			normalized = (value - stats.Mean) / stats.StdDev
		}
	case n.Scheme == "min_max" || n.Scheme == "minmax":
		rng := stats.Max - stats.Min
		if rng < math.SmallestNonzeroFloat64 {
			normalized = 0.5
		} else {
			normalized = (value - stats.Min) / rng
		}
	case n.Scheme == "robust":
		normalized = n.robustNormalize(value, stats)
	case len(n.Scheme) > len("_bayesian") && n.Scheme[len(n.Scheme)-len("_bayesian"):] == "_bayesian":
		normalized = n.bayesianNormalize(value, stats)
	default:
		return 0, rfxerrors.NewNormalizationError("bayesian.normalizeValue", errUnknownScheme(n.Scheme))
	}

	return clamp(normalized, -10.0, 10.0), nil
}

// robustNormalize falls back to the posterior mean/stddev: a proper
// median+MAD estimator needs a second pass over raw values that Fit does
// not currently retain.
func (n *Normalizer) robustNormalize(value float64, stats FeatureStatistics) float64 {
	if stats.PosteriorVariance < math.SmallestNonzeroFloat64 {
		return 0.0
	}
	return (value - stats.PosteriorMean) / math.Sqrt(stats.PosteriorVariance)
}

func (n *Normalizer) bayesianNormalize(value float64, stats FeatureStatistics) float64 {
	if stats.PosteriorVariance < math.SmallestNonzeroFloat64 {
		if stats.Confidence == ConfidenceInsufficient {
			return sampleFromPriorNormalized(stats.PosteriorMean)
		}
		return 0.0
	}
	return (value - stats.PosteriorMean) / math.Sqrt(stats.PosteriorVariance)
}

func sampleFromPriorNormalized(priorMean float64) float64 {
	if priorMean < 0.5 {
		return -0.5
	}
	return 0.5
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// GetStatistics returns the fitted statistics for a feature, if present.
func (n *Normalizer) GetStatistics(name string) (FeatureStatistics, bool) {
	s, ok := n.statistics[name]
	return s, ok
}

// GetConfidence returns the fitted confidence grade for a feature.
func (n *Normalizer) GetConfidence(name string) (VarianceConfidence, bool) {
	s, ok := n.statistics[name]
	if !ok {
		return 0, false
	}
	return s.Confidence, true
}

// FeatureNames returns every feature name with fitted statistics, sorted.
func (n *Normalizer) FeatureNames() []string {
	names := make([]string, 0, len(n.statistics))
	for name := range n.statistics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
