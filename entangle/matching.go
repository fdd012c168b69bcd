package entangle

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/qfold/qfold/quantum"
)

// Match is an entanglement pair together with the indices of its members in
// the analyzed state sequence. Containers address states by index, so the
// mapping survives serialization.
type Match struct {
	Pair *quantum.EntanglementPair
	A, B int
}

// FindEntangledPatterns pairs up the most correlated states greedily: all
// unordered pairs are sorted by correlation descending (ties keep
// enumeration order) and consumed best-first, skipping pairs whose members
// were already taken. The scan short-circuits once correlations drop below
// the acceptance threshold, which is sound because the candidate list is
// monotonically non-increasing, and stops at the configured pair cap.
//
// Fewer than two states yield no matches.
func (a *Analyzer) FindEntangledPatterns(states []*quantum.StateVector) ([]Match, error) {
	if len(states) < 2 {
		return nil, nil
	}

	matrix := a.CorrelationMatrix(states)

	type candidate struct {
		i, j int
		corr float64
	}

	candidates := make([]candidate, 0, len(states)*(len(states)-1)/2)
	for i := 0; i < len(states); i++ {
		for j := i + 1; j < len(states); j++ {
			candidates = append(candidates, candidate{i: i, j: j, corr: matrix[i][j]})
		}
	}

	sort.SliceStable(candidates, func(x, y int) bool {
		return candidates[x].corr > candidates[y].corr
	})

	// Below the pair-creation minimum no candidate is constructible, so the
	// effective cutoff is the larger of the two thresholds.
	cutoff := a.CorrelationThreshold()
	if cutoff < quantum.MinPairCorrelation {
		cutoff = quantum.MinPairCorrelation
	}

	var matches []Match
	consumed := roaring.New()

	for _, c := range candidates {
		if c.corr < cutoff {
			break
		}
		if consumed.Contains(uint32(c.i)) || consumed.Contains(uint32(c.j)) {
			continue
		}

		pair, err := quantum.NewEntanglementPair(states[c.i], states[c.j], c.corr)
		if err != nil {
			return nil, err
		}

		matches = append(matches, Match{Pair: pair, A: c.i, B: c.j})
		consumed.Add(uint32(c.i))
		consumed.Add(uint32(c.j))

		if len(matches) >= a.maxPairs {
			break
		}
	}

	return matches, nil
}
