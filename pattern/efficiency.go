package pattern

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/qfold/qfold/quantum"
)

// Efficiency estimates how much a pattern set can contribute to
// compression.
type Efficiency struct {
	// Coverage is the fraction of amplitude positions covered by at least
	// one pattern occurrence.
	Coverage float64
	// EstimatedSaving counts the amplitudes removable by replacing repeated
	// occurrences with references.
	EstimatedSaving int
	// Score blends coverage and saving into [0,1].
	Score float64
}

// CalculatePatternCompressionEfficiency scores patterns against the total
// amplitude sequence length they were mined from. Empty patterns or a
// non-positive total length yield a zero Efficiency.
func (r *Recognizer) CalculatePatternCompressionEfficiency(patterns []*Pattern, totalLen int) Efficiency {
	if len(patterns) == 0 || totalLen <= 0 {
		return Efficiency{}
	}

	covered := roaring.New()
	saving := 0

	for _, p := range patterns {
		l := uint64(p.Length())
		it := p.Positions.Iterator()
		for it.HasNext() {
			start := uint64(it.Next())
			covered.AddRange(start, start+l)
		}

		saving += (p.Frequency - 1) * p.Length()
	}

	coverage := float64(covered.GetCardinality()) / float64(totalLen)
	if coverage > 1 {
		coverage = 1
	}

	savingShare := float64(saving) / float64(totalLen)
	if savingShare > 1 {
		savingShare = 1
	}

	return Efficiency{
		Coverage:        coverage,
		EstimatedSaving: saving,
		Score:           coverage * savingShare,
	}
}

// Group is a set of mutually similar patterns compressed down to one
// representative.
type Group struct {
	// Representative is the most frequent member.
	Representative *Pattern
	Members        []*Pattern
	// CompressionValue sums the removable amplitudes across members.
	CompressionValue int
}

// OptimizePatternsForCompression greedily clusters patterns whose window
// similarity to a group's representative reaches the configured similarity
// threshold, keeps the most frequent member as each group's representative,
// and returns the groups sorted by compression value descending. Empty
// input returns an empty slice.
func (r *Recognizer) OptimizePatternsForCompression(patterns []*Pattern) []*Group {
	var groups []*Group

	for _, p := range patterns {
		var home *Group
		for _, g := range groups {
			sim := quantum.NormalizedCorrelation(g.Representative.Window, p.Window)
			if sim >= r.similarityThreshold {
				home = g
				break
			}
		}

		if home == nil {
			home = &Group{Representative: p}
			groups = append(groups, home)
		} else if p.Frequency > home.Representative.Frequency {
			home.Representative = p
		}

		home.Members = append(home.Members, p)
		home.CompressionValue += (p.Frequency - 1) * p.Length()
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CompressionValue > groups[j].CompressionValue
	})

	return groups
}
