// Package probability analyzes the statistical structure of quantum states:
// entropy and histogram profiles, outlier detection, confidence intervals,
// sample clustering, two-sample significance tests and compression-potential
// estimation.
package probability

// Analyzer parameter bounds and defaults.
const (
	MinDistributionBins = 2
	MaxDistributionBins = 1024

	DefaultConfidenceLevel  = 0.95
	DefaultSamplingRate     = 1.0
	DefaultDistributionBins = 16
	DefaultOutlierThreshold = 2.5
)

// Analyzer computes statistical profiles over state vectors and probability
// samples.
type Analyzer struct {
	confidenceLevel  float64
	samplingRate     float64
	distributionBins int
	outlierThreshold float64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConfidenceLevel sets the confidence level used for intervals and
// significance decisions.
func WithConfidenceLevel(level float64) Option {
	return func(a *Analyzer) {
		a.confidenceLevel = level
	}
}

// WithSamplingRate sets the fraction of states sampled during distribution
// analysis.
func WithSamplingRate(rate float64) Option {
	return func(a *Analyzer) {
		a.samplingRate = rate
	}
}

// WithDistributionBins sets the histogram bin count.
func WithDistributionBins(bins int) Option {
	return func(a *Analyzer) {
		a.distributionBins = bins
	}
}

// WithOutlierThreshold sets the z-score beyond which a probability value is
// flagged as an outlier.
func WithOutlierThreshold(threshold float64) Option {
	return func(a *Analyzer) {
		a.outlierThreshold = threshold
	}
}

// New returns an Analyzer with the given options applied over the defaults.
// Parameters outside their documented ranges fail with an
// ErrInvalidParameter.
func New(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		confidenceLevel:  DefaultConfidenceLevel,
		samplingRate:     DefaultSamplingRate,
		distributionBins: DefaultDistributionBins,
		outlierThreshold: DefaultOutlierThreshold,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.confidenceLevel <= 0 || a.confidenceLevel >= 1 {
		return nil, &ErrInvalidParameter{Param: "confidence level", Value: a.confidenceLevel, Constraint: "in (0,1)"}
	}
	if a.samplingRate <= 0 || a.samplingRate > 1 {
		return nil, &ErrInvalidParameter{Param: "sampling rate", Value: a.samplingRate, Constraint: "in (0,1]"}
	}
	if a.distributionBins < MinDistributionBins || a.distributionBins > MaxDistributionBins {
		return nil, &ErrInvalidParameter{Param: "distribution bins", Value: a.distributionBins, Constraint: "in [2,1024]"}
	}
	if a.outlierThreshold <= 0 {
		return nil, &ErrInvalidParameter{Param: "outlier threshold", Value: a.outlierThreshold, Constraint: "positive"}
	}

	return a, nil
}

// ConfidenceLevel returns the configured confidence level.
func (a *Analyzer) ConfidenceLevel() float64 {
	return a.confidenceLevel
}

// sampleIndices returns evenly spread indices covering n items at the
// configured sampling rate, always at least one for n > 0.
func (a *Analyzer) sampleIndices(n int) []int {
	if n == 0 {
		return nil
	}

	count := int(a.samplingRate * float64(n))
	if count < 1 {
		count = 1
	}

	idx := make([]int, count)
	for i := range idx {
		idx[i] = i * n / count
	}
	return idx
}
