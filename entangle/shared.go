package entangle

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/qfold/qfold/quantum"
)

// Shared sub-pattern mining bounds.
const (
	minSharedPatternLen = 1
	maxSharedPatternLen = 4
)

// SharedPattern is a repeated byte sub-pattern found inside a pair's shared
// information.
type SharedPattern struct {
	PairID    string
	Bytes     []byte
	Frequency int
	// Score is frequency weighted by the pair's correlation strength.
	Score float64
}

// SharedAnalysis aggregates the shared sub-patterns of a pair set.
type SharedAnalysis struct {
	// Patterns are sorted by score descending; ties keep pair order, then
	// discovery order within a pair.
	Patterns []SharedPattern
	// CompressionPotential estimates the removable fraction of shared
	// bytes, capped at 1.
	CompressionPotential float64
}

// ExtractSharedInformation mines repeated byte sub-patterns of lengths 1-4
// out of each pair's shared information and scores them by frequency times
// correlation strength. Pairs are processed in parallel; results are
// deterministic. Empty input yields a zero analysis.
func (a *Analyzer) ExtractSharedInformation(pairs []*quantum.EntanglementPair) SharedAnalysis {
	if len(pairs) == 0 {
		return SharedAnalysis{}
	}

	perPair := make([][]SharedPattern, len(pairs))

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range pairs {
		g.Go(func() error {
			perPair[i] = mineShared(p)
			return nil
		})
	}
	_ = g.Wait() // mining goroutines never fail

	var analysis SharedAnalysis
	saving := 0
	totalShared := 0

	for i, ps := range perPair {
		analysis.Patterns = append(analysis.Patterns, ps...)
		totalShared += len(pairs[i].SharedInformation())
		for _, p := range ps {
			saving += (p.Frequency - 1) * len(p.Bytes)
		}
	}

	sort.SliceStable(analysis.Patterns, func(i, j int) bool {
		return analysis.Patterns[i].Score > analysis.Patterns[j].Score
	})

	if totalShared > 0 {
		potential := float64(saving) / float64(totalShared)
		if potential > 1 {
			potential = 1
		}
		analysis.CompressionPotential = potential
	}

	return analysis
}

// mineShared finds repeated sub-patterns in one pair's shared bytes.
func mineShared(pair *quantum.EntanglementPair) []SharedPattern {
	shared := pair.SharedInformation()

	var found []SharedPattern
	for l := minSharedPatternLen; l <= maxSharedPatternLen && l <= len(shared); l++ {
		counts := make(map[string]int)
		order := make([]string, 0)

		for start := 0; start+l <= len(shared); start++ {
			k := string(shared[start : start+l])
			if counts[k] == 0 {
				order = append(order, k)
			}
			counts[k]++
		}

		for _, k := range order {
			freq := counts[k]
			if freq < 2 {
				continue
			}
			found = append(found, SharedPattern{
				PairID:    pair.ID(),
				Bytes:     []byte(k),
				Frequency: freq,
				Score:     float64(freq) * pair.Correlation(),
			})
		}
	}

	return found
}
