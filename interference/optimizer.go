package interference

import (
	"math"
	"sort"
	"sync"
)

// Iteration bounds for PerformIterativeOptimization.
const (
	MinIterations = 1
	MaxIterations = 100
)

// Defaults for a balanced optimization pass over unknown data.
const (
	DefaultConstructiveThreshold = 0.6
	DefaultDestructiveThreshold  = 0.3
	DefaultAmplificationFactor   = 1.2
	DefaultSuppressionFactor     = 0.8
	DefaultMaxIterations         = 10
)

// convergenceEpsilon is the improvement delta below which iterative
// optimization is considered converged.
const convergenceEpsilon = 1e-4

// Optimizer applies constructive and destructive interference passes to
// pattern sets and state lists.
//
// An Optimizer is safe for concurrent use.
type Optimizer struct {
	constructiveThreshold float64
	destructiveThreshold  float64
	amplificationFactor   float64
	suppressionFactor     float64
	maxIterations         int

	mu       sync.RWMutex
	profiles map[string]Profile
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithConstructiveThreshold sets the minimum probability a pattern needs to
// qualify for amplification.
func WithConstructiveThreshold(threshold float64) Option {
	return func(o *Optimizer) {
		o.constructiveThreshold = threshold
	}
}

// WithDestructiveThreshold sets the maximum probability a pattern may have to
// qualify for suppression.
func WithDestructiveThreshold(threshold float64) Option {
	return func(o *Optimizer) {
		o.destructiveThreshold = threshold
	}
}

// WithAmplificationFactor sets the probability multiplier for constructive
// patterns.
func WithAmplificationFactor(factor float64) Option {
	return func(o *Optimizer) {
		o.amplificationFactor = factor
	}
}

// WithSuppressionFactor sets the probability multiplier for destructive
// patterns.
func WithSuppressionFactor(factor float64) Option {
	return func(o *Optimizer) {
		o.suppressionFactor = factor
	}
}

// WithMaxIterations caps the iterative optimization loop.
func WithMaxIterations(n int) Option {
	return func(o *Optimizer) {
		o.maxIterations = n
	}
}

// New creates an Optimizer with built-in threshold profiles registered.
func New(opts ...Option) (*Optimizer, error) {
	o := &Optimizer{
		constructiveThreshold: DefaultConstructiveThreshold,
		destructiveThreshold:  DefaultDestructiveThreshold,
		amplificationFactor:   DefaultAmplificationFactor,
		suppressionFactor:     DefaultSuppressionFactor,
		maxIterations:         DefaultMaxIterations,
		profiles:              builtinProfiles(),
	}

	for _, opt := range opts {
		opt(o)
	}

	if err := o.validate(); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Optimizer) validate() error {
	if o.constructiveThreshold <= 0 || o.constructiveThreshold > 1 {
		return &ErrInvalidParameter{Param: "constructive threshold", Value: o.constructiveThreshold, Constraint: "in (0,1]"}
	}

	if o.destructiveThreshold < 0 || o.destructiveThreshold >= 1 {
		return &ErrInvalidParameter{Param: "destructive threshold", Value: o.destructiveThreshold, Constraint: "in [0,1)"}
	}

	if o.amplificationFactor <= 1 {
		return &ErrInvalidParameter{Param: "amplification factor", Value: o.amplificationFactor, Constraint: "greater than 1"}
	}

	if o.suppressionFactor < 0 || o.suppressionFactor >= 1 {
		return &ErrInvalidParameter{Param: "suppression factor", Value: o.suppressionFactor, Constraint: "in [0,1)"}
	}

	if o.maxIterations < MinIterations || o.maxIterations > MaxIterations {
		return &ErrInvalidParameter{Param: "max iterations", Value: o.maxIterations, Constraint: "in [1,100]"}
	}

	return nil
}

// ConstructiveThreshold returns the current amplification cutoff.
func (o *Optimizer) ConstructiveThreshold() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.constructiveThreshold
}

// DestructiveThreshold returns the current suppression cutoff.
func (o *Optimizer) DestructiveThreshold() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.destructiveThreshold
}

// AmplificationFactor returns the constructive probability multiplier.
func (o *Optimizer) AmplificationFactor() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.amplificationFactor
}

// SuppressionFactor returns the destructive probability multiplier.
func (o *Optimizer) SuppressionFactor() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.suppressionFactor
}

// MaxIterations returns the iterative optimization cap.
func (o *Optimizer) MaxIterations() int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.maxIterations
}

// ApplyConstructiveInterference keeps patterns whose probability reaches the
// constructive threshold, boosts each by the amplification factor, and
// returns them sorted by boosted probability in descending order. The input
// slice is not modified.
func (o *Optimizer) ApplyConstructiveInterference(patterns []Pattern) []Pattern {
	o.mu.RLock()
	threshold, factor := o.constructiveThreshold, o.amplificationFactor
	o.mu.RUnlock()

	out := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Probability < threshold {
			continue
		}

		p.Probability *= factor
		p.Amplitude *= math.Sqrt(factor)
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})

	return out
}

// ApplyDestructiveInterference keeps patterns whose probability is at or
// below the destructive threshold, scales each by the suppression factor,
// and returns them sorted by scaled probability in ascending order. The
// input slice is not modified.
func (o *Optimizer) ApplyDestructiveInterference(patterns []Pattern) []Pattern {
	o.mu.RLock()
	threshold, factor := o.destructiveThreshold, o.suppressionFactor
	o.mu.RUnlock()

	out := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Probability > threshold {
			continue
		}

		p.Probability *= factor
		p.Amplitude *= math.Sqrt(factor)
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability < out[j].Probability
	})

	return out
}
