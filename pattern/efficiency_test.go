package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfold/qfold/quantum"
)

func TestCalculatePatternCompressionEfficiency(t *testing.T) {
	r, err := New(WithPatternLengths(2, 2), WithFrequencyThreshold(2))
	require.NoError(t, err)

	states := []*quantum.StateVector{restored(ampA, ampB, ampA, ampB, ampA, ampB)}
	patterns := r.RecognizePatterns(states)
	require.Len(t, patterns, 2)

	eff := r.CalculatePatternCompressionEfficiency(patterns, 6)

	// Occurrences at 0,2,4 (len 2) and 1,3 cover every position.
	assert.InDelta(t, 1.0, eff.Coverage, 1e-12)
	// (3-1)*2 + (2-1)*2 amplitudes are removable.
	assert.Equal(t, 6, eff.EstimatedSaving)
	assert.InDelta(t, 1.0, eff.Score, 1e-12)
}

func TestCalculatePatternCompressionEfficiencyEmpty(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	assert.Equal(t, Efficiency{}, r.CalculatePatternCompressionEfficiency(nil, 100))
	assert.Equal(t, Efficiency{}, r.CalculatePatternCompressionEfficiency([]*Pattern{{}}, 0))
}

func TestOptimizePatternsForCompression(t *testing.T) {
	r, err := New(WithSimilarityThreshold(0.9))
	require.NoError(t, err)

	p1 := &Pattern{
		Window:    []quantum.Amplitude{quantum.NewAmplitude(1, 0), quantum.NewAmplitude(0, 0)},
		Frequency: 5,
	}
	// Proportional window: similarity 1 with p1.
	p2 := &Pattern{
		Window:    []quantum.Amplitude{quantum.NewAmplitude(2, 0), quantum.NewAmplitude(0, 0)},
		Frequency: 2,
	}
	// Orthogonal window: similarity 0 with p1.
	p3 := &Pattern{
		Window:    []quantum.Amplitude{quantum.NewAmplitude(0, 0), quantum.NewAmplitude(1, 0)},
		Frequency: 10,
	}

	groups := r.OptimizePatternsForCompression([]*Pattern{p1, p2, p3})

	require.Len(t, groups, 2)

	// p3's group saves (10-1)*2 = 18, p1's group (5-1)*2 + (2-1)*2 = 10.
	assert.Equal(t, 18, groups[0].CompressionValue)
	assert.Same(t, p3, groups[0].Representative)

	assert.Equal(t, 10, groups[1].CompressionValue)
	assert.Same(t, p1, groups[1].Representative, "most frequent member represents the group")
	assert.Len(t, groups[1].Members, 2)
}

func TestOptimizePatternsForCompressionEmpty(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	assert.Empty(t, r.OptimizePatternsForCompression(nil))
}
