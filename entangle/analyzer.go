// Package entangle finds strongly correlated state pairs and factors out
// the information they share.
//
// Pairing approximates a maximum-weight matching greedily: all unordered
// state pairs are ranked by correlation and consumed best-first, so no
// state joins more than one pair per analysis. Correlations are memoized by
// the structural fingerprints of the two states involved; the cache is
// owned by the analyzer and cleared whenever the acceptance threshold
// changes.
package entangle

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/qfold/qfold/quantum"
)

// Analyzer defaults.
const (
	DefaultCorrelationThreshold = 0.05
	DefaultMaxPairs             = 16
)

// Analyzer computes pairwise state correlations and forms entanglement
// pairs from them.
type Analyzer struct {
	threshold float64
	maxPairs  int

	mu    sync.RWMutex
	cache map[cacheKey]float64
}

type cacheKey struct {
	lo, hi uint64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCorrelationThreshold sets the minimum correlation for a pair to be
// accepted. It is distinct from, and typically above,
// quantum.MinPairCorrelation.
func WithCorrelationThreshold(threshold float64) Option {
	return func(a *Analyzer) {
		a.threshold = threshold
	}
}

// WithMaxPairs caps how many pairs one analysis may form.
func WithMaxPairs(n int) Option {
	return func(a *Analyzer) {
		a.maxPairs = n
	}
}

// New returns an Analyzer with the given options applied over the defaults.
// Parameters outside their documented ranges fail with an
// ErrInvalidParameter.
func New(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		threshold: DefaultCorrelationThreshold,
		maxPairs:  DefaultMaxPairs,
		cache:     make(map[cacheKey]float64),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.threshold < 0 || a.threshold > 1 {
		return nil, &ErrInvalidParameter{Param: "correlation threshold", Value: a.threshold, Constraint: "in [0,1]"}
	}
	if a.maxPairs < 1 {
		return nil, &ErrInvalidParameter{Param: "max pairs", Value: a.maxPairs, Constraint: "at least 1"}
	}

	return a, nil
}

// CorrelationThreshold returns the current acceptance threshold.
func (a *Analyzer) CorrelationThreshold() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.threshold
}

// SetCorrelationThreshold updates the acceptance threshold and clears the
// correlation cache.
func (a *Analyzer) SetCorrelationThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return &ErrInvalidParameter{Param: "correlation threshold", Value: threshold, Constraint: "in [0,1]"}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.threshold = threshold
	a.cache = make(map[cacheKey]float64)

	return nil
}

// CacheSize returns the number of memoized correlations.
func (a *Analyzer) CacheSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cache)
}

// correlation returns the memoized correlation between two states, keyed by
// their structural fingerprints.
func (a *Analyzer) correlation(x, y *quantum.StateVector) float64 {
	key := cacheKey{lo: x.Fingerprint(), hi: y.Fingerprint()}
	if key.lo > key.hi {
		key.lo, key.hi = key.hi, key.lo
	}

	a.mu.RLock()
	c, ok := a.cache[key]
	a.mu.RUnlock()
	if ok {
		return c
	}

	c = quantum.Correlation(x.Amplitudes(), y.Amplitudes())

	a.mu.Lock()
	a.cache[key] = c
	a.mu.Unlock()

	return c
}

// CorrelationMatrix builds the symmetric n x n correlation matrix over
// states. The diagonal is fixed at 1 by convention. Rows are computed in
// parallel; results are deterministic regardless of scheduling.
func (a *Analyzer) CorrelationMatrix(states []*quantum.StateVector) [][]float64 {
	n := len(states)

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			for j := i + 1; j < n; j++ {
				matrix[i][j] = a.correlation(states[i], states[j])
			}
			return nil
		})
	}
	_ = g.Wait() // matrix goroutines never fail

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matrix[j][i] = matrix[i][j]
		}
	}

	return matrix
}
