package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfold/qfold/quantum"
)

func TestAnalyzeProbabilityDistributions(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	states := []*quantum.StateVector{
		restored(quantum.NewAmplitude(1, 0)),
		restored(quantum.NewAmplitude(0.6, 0), quantum.NewAmplitude(0.8, 0)),
	}

	dists := r.AnalyzeProbabilityDistributions(states)

	require.Len(t, dists, 2)

	assert.Equal(t, 0, dists[0].StateIndex)
	assert.InDelta(t, 1.0, dists[0].MeanProbability, 1e-12)
	assert.InDelta(t, 1.0, dists[0].PeakProbability, 1e-12)
	assert.InDelta(t, 0.0, dists[0].Entropy, 1e-12)

	assert.Equal(t, 1, dists[1].StateIndex)
	assert.InDelta(t, 0.5, dists[1].MeanProbability, 1e-12)
	assert.InDelta(t, 0.64, dists[1].PeakProbability, 1e-12)
	assert.InDelta(t, 0.9427, dists[1].Entropy, 1e-4)
}

func TestAnalyzeProbabilityDistributionsEmpty(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	assert.Empty(t, r.AnalyzeProbabilityDistributions(nil))
}

func TestIdentifyHighProbabilityStates(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	skewed, err := quantum.NewStateVector([]quantum.Amplitude{
		quantum.NewAmplitude(3, 0),
		quantum.NewAmplitude(9, 0),
	}, 0)
	require.NoError(t, err)

	uniform, err := quantum.NewStateVector([]quantum.Amplitude{
		quantum.NewAmplitude(1, 0),
		quantum.NewAmplitude(1, 0),
	}, 0)
	require.NoError(t, err)

	high := r.IdentifyHighProbabilityStates([]*quantum.StateVector{uniform, skewed})

	require.Len(t, high, 1)
	assert.Equal(t, 1, high[0].StateIndex)
	assert.InDelta(t, 0.9, high[0].Peak, 1e-12)
	assert.InDelta(t, 0.5, high[0].Uniform, 1e-12)
}

func TestDetectInterferencePatterns(t *testing.T) {
	e1 := restored(quantum.NewAmplitude(1, 0), quantum.NewAmplitude(0, 0))
	e2 := restored(quantum.NewAmplitude(0, 0), quantum.NewAmplitude(1, 0))
	e3 := restored(quantum.NewAmplitude(-1, 0), quantum.NewAmplitude(0, 0))

	r, err := New()
	require.NoError(t, err)

	found := r.DetectInterferencePatterns([]*quantum.StateVector{e1, e2, e3})

	// Only the anti-phase pair (0,2) correlates; orthogonal pairs fall
	// below the reporting threshold.
	require.Len(t, found, 1)
	assert.Equal(t, 0, found[0].A)
	assert.Equal(t, 2, found[0].B)
	assert.InDelta(t, 1.0, found[0].Correlation, 1e-12)
	assert.False(t, found[0].Constructive, "anti-phase amplitudes cancel")
}

func TestDetectInterferencePatternsConstructive(t *testing.T) {
	a := restored(quantum.NewAmplitude(0.6, 0), quantum.NewAmplitude(0.8, 0))

	r, err := New()
	require.NoError(t, err)

	found := r.DetectInterferencePatterns([]*quantum.StateVector{a, a})

	require.Len(t, found, 1)
	assert.True(t, found[0].Constructive, "in-phase amplitudes reinforce")
}

func TestDetectInterferencePatternsEmpty(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	assert.Empty(t, r.DetectInterferencePatterns(nil))
	assert.Empty(t, r.DetectInterferencePatterns([]*quantum.StateVector{restored(ampA)}))
}
