package pattern

import (
	"encoding/binary"
	"math"
	"runtime"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/qfold/qfold/quantum"
)

// Recognizer parameter bounds and defaults.
const (
	MaxWindowLength = 64

	DefaultMinPatternLength    = 2
	DefaultMaxPatternLength    = 8
	DefaultSimilarityThreshold = 0.8
	DefaultFrequencyThreshold  = 2
	DefaultComplexityWeight    = 0.5
)

// Pattern is one recurring amplitude window found during recognition. The
// positions bitmap holds the window start offsets in the concatenated
// amplitude sequence.
type Pattern struct {
	Window       []quantum.Amplitude
	Frequency    int
	Positions    *roaring.Bitmap
	Complexity   float64
	Significance float64
}

// Length returns the window length.
func (p *Pattern) Length() int {
	return len(p.Window)
}

// Recognizer mines recurring amplitude windows out of state sequences.
type Recognizer struct {
	minPatternLength    int
	maxPatternLength    int
	similarityThreshold float64
	frequencyThreshold  int
	complexityWeight    float64
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithPatternLengths sets the inclusive window length range to mine.
func WithPatternLengths(minLen, maxLen int) Option {
	return func(r *Recognizer) {
		r.minPatternLength = minLen
		r.maxPatternLength = maxLen
	}
}

// WithSimilarityThreshold sets the minimum pairwise similarity for grouping
// patterns.
func WithSimilarityThreshold(threshold float64) Option {
	return func(r *Recognizer) {
		r.similarityThreshold = threshold
	}
}

// WithFrequencyThreshold sets the minimum occurrence count for a window to
// qualify as a pattern.
func WithFrequencyThreshold(threshold int) Option {
	return func(r *Recognizer) {
		r.frequencyThreshold = threshold
	}
}

// WithComplexityWeight sets how strongly window complexity discounts the
// significance score.
func WithComplexityWeight(weight float64) Option {
	return func(r *Recognizer) {
		r.complexityWeight = weight
	}
}

// New returns a Recognizer with the given options applied over the
// defaults. Parameters outside their documented ranges fail with an
// ErrInvalidParameter.
func New(opts ...Option) (*Recognizer, error) {
	r := &Recognizer{
		minPatternLength:    DefaultMinPatternLength,
		maxPatternLength:    DefaultMaxPatternLength,
		similarityThreshold: DefaultSimilarityThreshold,
		frequencyThreshold:  DefaultFrequencyThreshold,
		complexityWeight:    DefaultComplexityWeight,
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Recognizer) validate() error {
	if r.minPatternLength < 1 || r.minPatternLength > r.maxPatternLength {
		return &ErrInvalidParameter{Param: "min pattern length", Value: r.minPatternLength, Constraint: "in [1,max pattern length]"}
	}
	if r.maxPatternLength > MaxWindowLength {
		return &ErrInvalidParameter{Param: "max pattern length", Value: r.maxPatternLength, Constraint: "in [min pattern length,64]"}
	}
	if r.similarityThreshold < 0 || r.similarityThreshold > 1 {
		return &ErrInvalidParameter{Param: "similarity threshold", Value: r.similarityThreshold, Constraint: "in [0,1]"}
	}
	if r.frequencyThreshold < 1 {
		return &ErrInvalidParameter{Param: "frequency threshold", Value: r.frequencyThreshold, Constraint: "at least 1"}
	}
	if r.complexityWeight < 0 || r.complexityWeight > 1 {
		return &ErrInvalidParameter{Param: "complexity weight", Value: r.complexityWeight, Constraint: "in [0,1]"}
	}
	return nil
}

// SetPatternLengths updates the window length range, re-validating both
// bounds together.
func (r *Recognizer) SetPatternLengths(minLen, maxLen int) error {
	prevMin, prevMax := r.minPatternLength, r.maxPatternLength
	r.minPatternLength, r.maxPatternLength = minLen, maxLen
	if err := r.validate(); err != nil {
		r.minPatternLength, r.maxPatternLength = prevMin, prevMax
		return err
	}
	return nil
}

// SetSimilarityThreshold updates the grouping similarity threshold.
func (r *Recognizer) SetSimilarityThreshold(threshold float64) error {
	prev := r.similarityThreshold
	r.similarityThreshold = threshold
	if err := r.validate(); err != nil {
		r.similarityThreshold = prev
		return err
	}
	return nil
}

// SetFrequencyThreshold updates the minimum occurrence count.
func (r *Recognizer) SetFrequencyThreshold(threshold int) error {
	prev := r.frequencyThreshold
	r.frequencyThreshold = threshold
	if err := r.validate(); err != nil {
		r.frequencyThreshold = prev
		return err
	}
	return nil
}

// SetComplexityWeight updates the complexity discount weight.
func (r *Recognizer) SetComplexityWeight(weight float64) error {
	prev := r.complexityWeight
	r.complexityWeight = weight
	if err := r.validate(); err != nil {
		r.complexityWeight = prev
		return err
	}
	return nil
}

// SimilarityThreshold returns the configured grouping threshold.
func (r *Recognizer) SimilarityThreshold() float64 {
	return r.similarityThreshold
}

// RecognizePatterns mines every window length in the configured range over
// the concatenated amplitudes of states, groups identical windows, filters
// by the frequency threshold and returns the surviving patterns sorted by
// significance descending. Ties keep discovery order (shorter windows
// first, earlier positions first).
//
// Window lengths are mined in parallel; results are deterministic
// regardless of scheduling. Empty input returns an empty slice.
func (r *Recognizer) RecognizePatterns(states []*quantum.StateVector) []*Pattern {
	flat := flatten(states)
	if len(flat) == 0 {
		return nil
	}

	lengths := make([]int, 0, r.maxPatternLength-r.minPatternLength+1)
	for l := r.minPatternLength; l <= r.maxPatternLength && l <= len(flat); l++ {
		lengths = append(lengths, l)
	}
	if len(lengths) == 0 {
		return nil
	}

	perLength := make([][]*Pattern, len(lengths))

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, l := range lengths {
		g.Go(func() error {
			perLength[i] = r.mineLength(flat, l)
			return nil
		})
	}
	_ = g.Wait() // mining goroutines never fail

	var patterns []*Pattern
	for _, ps := range perLength {
		patterns = append(patterns, ps...)
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Significance > patterns[j].Significance
	})

	return patterns
}

// mineLength slides a window of length l over flat and groups identical
// windows by an exact content key.
func (r *Recognizer) mineLength(flat []quantum.Amplitude, l int) []*Pattern {
	groups := make(map[string]*Pattern)
	order := make([]string, 0)

	key := make([]byte, 16*l)
	for start := 0; start+l <= len(flat); start++ {
		win := flat[start : start+l]
		for i, a := range win {
			binary.LittleEndian.PutUint64(key[i*16:], math.Float64bits(a.Re))
			binary.LittleEndian.PutUint64(key[i*16+8:], math.Float64bits(a.Im))
		}

		k := string(key)
		p, ok := groups[k]
		if !ok {
			window := make([]quantum.Amplitude, l)
			copy(window, win)

			p = &Pattern{
				Window:     window,
				Positions:  roaring.New(),
				Complexity: complexity(window),
			}
			groups[k] = p
			order = append(order, k)
		}

		p.Frequency++
		p.Positions.Add(uint32(start))
	}

	patterns := make([]*Pattern, 0, len(order))
	for _, k := range order {
		p := groups[k]
		if p.Frequency < r.frequencyThreshold {
			continue
		}
		p.Significance = r.significance(p)
		patterns = append(patterns, p)
	}

	return patterns
}

// significance blends frequency, relative length and simplicity:
//
//	0.5*log(freq+1) + 0.3*(len/maxLen) + 0.2*(1-complexity)*complexityWeight
func (r *Recognizer) significance(p *Pattern) float64 {
	lengthShare := float64(p.Length()) / float64(r.maxPatternLength)
	return 0.5*math.Log(float64(p.Frequency)+1) +
		0.3*lengthShare +
		0.2*(1-p.Complexity)*r.complexityWeight
}

// complexity is the mean distance between consecutive window amplitudes.
// Single-amplitude windows have complexity 0.
func complexity(window []quantum.Amplitude) float64 {
	if len(window) < 2 {
		return 0
	}

	var sum float64
	for i := 1; i < len(window); i++ {
		sum += window[i].Distance(window[i-1])
	}
	return sum / float64(len(window)-1)
}

// flatten concatenates the amplitude sequences of states in order.
func flatten(states []*quantum.StateVector) []quantum.Amplitude {
	total := 0
	for _, s := range states {
		total += s.Len()
	}

	flat := make([]quantum.Amplitude, 0, total)
	for _, s := range states {
		flat = append(flat, s.Amplitudes()...)
	}
	return flat
}
