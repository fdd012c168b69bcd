package pattern

import (
	"math"
	"sort"

	"github.com/qfold/qfold/quantum"
)

// minInterferenceCorrelation is the weakest pairwise correlation worth
// reporting as interference.
const minInterferenceCorrelation = 0.3

// highProbabilityFactor is how far above the uniform share a state's peak
// probability must sit to count as high-probability.
const highProbabilityFactor = 1.5

// StateDistribution summarizes the probability mass distribution within one
// state vector.
type StateDistribution struct {
	StateIndex      int
	MeanProbability float64
	PeakProbability float64
	// Entropy is the Shannon entropy of the state's probability masses in
	// bits.
	Entropy float64
}

// AnalyzeProbabilityDistributions profiles the probability masses of each
// state. Empty input returns an empty slice.
func (r *Recognizer) AnalyzeProbabilityDistributions(states []*quantum.StateVector) []StateDistribution {
	dists := make([]StateDistribution, 0, len(states))

	for i, s := range states {
		probs := s.Probabilities()

		d := StateDistribution{StateIndex: i}
		for _, p := range probs {
			d.MeanProbability += p
			if p > d.PeakProbability {
				d.PeakProbability = p
			}
			if p > 0 {
				d.Entropy -= p * math.Log2(p)
			}
		}
		d.MeanProbability /= float64(len(probs))

		dists = append(dists, d)
	}

	return dists
}

// HighProbabilityState flags a state whose peak amplitude carries well more
// than the uniform share of its probability mass.
type HighProbabilityState struct {
	StateIndex int
	Peak       float64
	Uniform    float64
}

// IdentifyHighProbabilityStates returns the states whose peak amplitude
// probability exceeds 1.5x the uniform share 1/len. Empty input returns an
// empty slice.
func (r *Recognizer) IdentifyHighProbabilityStates(states []*quantum.StateVector) []HighProbabilityState {
	var high []HighProbabilityState

	for i, s := range states {
		uniform := 1 / float64(s.Len())

		var peak float64
		for _, a := range s.Amplitudes() {
			if p := a.Probability(); p > peak {
				peak = p
			}
		}

		if peak >= highProbabilityFactor*uniform {
			high = append(high, HighProbabilityState{StateIndex: i, Peak: peak, Uniform: uniform})
		}
	}

	return high
}

// Interference records a correlated state pair and whether their combined
// amplitudes reinforce or cancel.
type Interference struct {
	A, B         int
	Correlation  float64
	Constructive bool
}

// DetectInterferencePatterns compares every state pair and reports those
// whose normalized correlation reaches 0.3. A pair is constructive when the
// combined amplitude power exceeds the sum of the individual powers.
// Results are sorted by correlation descending, ties in discovery order.
//
// The comparison is O(n^2) over the state count. Empty or single-state
// input returns an empty slice.
func (r *Recognizer) DetectInterferencePatterns(states []*quantum.StateVector) []Interference {
	var found []Interference

	for i := 0; i < len(states); i++ {
		for j := i + 1; j < len(states); j++ {
			a, b := states[i].Amplitudes(), states[j].Amplitudes()

			corr := quantum.NormalizedCorrelation(a, b)
			if corr < minInterferenceCorrelation {
				continue
			}

			found = append(found, Interference{
				A:            i,
				B:            j,
				Correlation:  corr,
				Constructive: isConstructive(a, b),
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Correlation > found[j].Correlation
	})

	return found
}

// isConstructive reports whether summing the two amplitude sequences yields
// more power than keeping them apart.
func isConstructive(a, b []quantum.Amplitude) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var combined, separate float64
	for i := 0; i < n; i++ {
		combined += a[i].Add(b[i]).Probability()
		separate += a[i].Probability() + b[i].Probability()
	}

	return combined > separate
}
