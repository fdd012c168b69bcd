package quantum

import (
	"math"
	"math/rand"
)

// DefaultCoherenceThreshold is the coherence below which a superposition is
// treated as decohered and no longer usable.
const DefaultCoherenceThreshold = 0.1

// Superposition is a weighted combination of state vectors. Weights are
// non-negative and normalized to sum to 1 at construction. Like state
// vectors, superpositions are immutable; decoherence and phase shifts
// return new instances.
type Superposition struct {
	states    []*StateVector
	weights   []float64
	combined  []Amplitude
	coherence float64
}

// NewSuperposition combines the given states with the given weights. The
// combined amplitude at index i is the weight-scaled sum of the constituent
// amplitudes at i; states shorter than the longest constituent contribute
// zero beyond their length.
//
// Weights must match the state count and be non-negative. They are
// normalized to sum to 1, so callers may pass unnormalized weights. The
// initial coherence of a new superposition is 1.
func NewSuperposition(states []*StateVector, weights []float64) (*Superposition, error) {
	if len(states) == 0 {
		return nil, ErrNoStates
	}
	if len(weights) != len(states) {
		return nil, &ErrWeightMismatch{States: len(states), Weights: len(weights)}
	}

	var sum float64
	for i, w := range weights {
		if states[i] == nil {
			return nil, ErrNilState
		}
		if w < 0 || math.IsNaN(w) {
			return nil, &ErrNegativeWeight{Index: i, Weight: w}
		}
		sum += w
	}
	if sum == 0 {
		return nil, ErrZeroWeightSum
	}

	norm := make([]float64, len(weights))
	maxLen := 0
	for i, w := range weights {
		norm[i] = w / sum
		if n := states[i].Len(); n > maxLen {
			maxLen = n
		}
	}

	combined := make([]Amplitude, maxLen)
	for i, s := range states {
		for j, a := range s.Amplitudes() {
			combined[j] = combined[j].Add(a.Scale(norm[i]))
		}
	}

	held := make([]*StateVector, len(states))
	copy(held, states)

	return &Superposition{
		states:    held,
		weights:   norm,
		combined:  combined,
		coherence: 1,
	}, nil
}

// Len returns the length of the combined amplitude sequence.
func (s *Superposition) Len() int {
	return len(s.combined)
}

// States returns the constituent state vectors. The returned slice must not
// be modified.
func (s *Superposition) States() []*StateVector {
	return s.states
}

// Weights returns the normalized constituent weights. The returned slice
// must not be modified.
func (s *Superposition) Weights() []float64 {
	return s.weights
}

// Combined returns the combined amplitude sequence. The returned slice must
// not be modified.
func (s *Superposition) Combined() []Amplitude {
	return s.combined
}

// CoherenceTime returns the remaining coherence budget. A freshly
// constructed superposition has coherence 1; Decohere reduces it.
func (s *Superposition) CoherenceTime() float64 {
	return s.coherence
}

// IsCoherent reports whether the superposition is still usable at the given
// threshold. A threshold <= 0 falls back to DefaultCoherenceThreshold.
func (s *Superposition) IsCoherent(threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultCoherenceThreshold
	}
	return s.coherence >= threshold
}

// Measure probabilistically selects one constituent according to the
// weights and returns its index and state. Measurement is a read operation;
// the superposition is unchanged. A nil rng falls back to the shared
// global source.
func (s *Superposition) Measure(rng *rand.Rand) (int, *StateVector) {
	var r float64
	if rng != nil {
		r = rng.Float64()
	} else {
		r = rand.Float64()
	}

	var cum float64
	for i, w := range s.weights {
		cum += w
		if r < cum {
			return i, s.states[i]
		}
	}

	// Rounding can leave cum marginally below 1; fall through to the last
	// constituent.
	last := len(s.states) - 1
	return last, s.states[last]
}

// Dominant returns the index of the constituent with the largest weight.
func (s *Superposition) Dominant() int {
	best := 0
	for i, w := range s.weights {
		if w > s.weights[best] {
			best = i
		}
	}
	return best
}

// PhaseShift returns a new superposition with every combined amplitude
// rotated by delta radians. Constituents, weights and coherence are shared
// unchanged.
func (s *Superposition) PhaseShift(delta float64) *Superposition {
	shifted := make([]Amplitude, len(s.combined))
	for i, a := range s.combined {
		shifted[i] = a.Rotate(delta)
	}

	c := *s
	c.combined = shifted
	return &c
}

// Decohere returns a new superposition whose coherence has decayed
// exponentially over the given elapsed interval, with phase noise injected
// into the combined amplitudes in proportion to the decay. The noise is
// drawn from a source seeded by the interval, so repeated calls with the
// same arguments produce identical results.
func (s *Superposition) Decohere(elapsed float64) *Superposition {
	if elapsed <= 0 {
		return s
	}

	decay := math.Exp(-elapsed)
	rng := rand.New(rand.NewSource(int64(math.Float64bits(elapsed))))

	jitter := (1 - decay) * math.Pi
	noisy := make([]Amplitude, len(s.combined))
	for i, a := range s.combined {
		noisy[i] = a.Rotate((rng.Float64()*2 - 1) * jitter)
	}

	c := *s
	c.combined = noisy
	c.coherence = s.coherence * decay
	return &c
}
